package handlers

import (
	"context"
	"errors"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/rukshanyomal11/CeylonHomes/internal/domain/model"
	"github.com/rukshanyomal11/CeylonHomes/internal/domain/rules"
	authsvc "github.com/rukshanyomal11/CeylonHomes/internal/services/auth"
	mediasvc "github.com/rukshanyomal11/CeylonHomes/internal/services/media"
	sellersvc "github.com/rukshanyomal11/CeylonHomes/internal/services/sellers"
	"github.com/rukshanyomal11/CeylonHomes/internal/transport/http/dto"
	httperrors "github.com/rukshanyomal11/CeylonHomes/internal/transport/http/errors"
)

type SellerHandler struct {
	service      *sellersvc.Service
	maxPhotoSize int64
	logger       *zap.Logger
}

func NewSellerHandler(service *sellersvc.Service, maxPhotoSizeMB int, logger *zap.Logger) *SellerHandler {
	if maxPhotoSizeMB <= 0 {
		maxPhotoSizeMB = 10
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SellerHandler{
		service:      service,
		maxPhotoSize: int64(maxPhotoSizeMB) << 20,
		logger:       logger,
	}
}

// Create takes a multipart form: listing fields plus zero or more
// files under "photos".
func (h *SellerHandler) Create(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}

	input, photos, ok := h.parseListingForm(w, r)
	if !ok {
		return
	}

	listing, err := h.service.Create(r.Context(), identity.UserID, input)
	if err != nil {
		h.writeSellerError(w, err)
		return
	}

	if err := h.uploadPhotos(r.Context(), identity.UserID, listing.ID, photos); err != nil {
		h.writeSellerError(w, err)
		return
	}

	listing, err = h.service.Get(r.Context(), identity.UserID, listing.ID)
	if err != nil {
		h.writeSellerError(w, err)
		return
	}

	httperrors.Write(w, http.StatusCreated, listing)
}

func (h *SellerHandler) Update(w http.ResponseWriter, r *http.Request) {
	identity, listingID, ok := h.identityAndID(w, r)
	if !ok {
		return
	}

	input, photos, ok := h.parseListingForm(w, r)
	if !ok {
		return
	}

	listing, err := h.service.Update(r.Context(), identity.UserID, listingID, input)
	if err != nil {
		h.writeSellerError(w, err)
		return
	}

	if err := h.uploadPhotos(r.Context(), identity.UserID, listing.ID, photos); err != nil {
		h.writeSellerError(w, err)
		return
	}

	listing, err = h.service.Get(r.Context(), identity.UserID, listingID)
	if err != nil {
		h.writeSellerError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, listing)
}

func (h *SellerHandler) Get(w http.ResponseWriter, r *http.Request) {
	identity, listingID, ok := h.identityAndID(w, r)
	if !ok {
		return
	}

	listing, err := h.service.Get(r.Context(), identity.UserID, listingID)
	if err != nil {
		h.writeSellerError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, listing)
}

func (h *SellerHandler) List(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}

	page, size := h.service.Paging(pageParams(r))
	status := r.URL.Query().Get("status")

	found, total, err := h.service.List(r.Context(), identity.UserID, status, page, size)
	if err != nil {
		h.writeSellerError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, dto.NewPage(found, page, size, total))
}

func (h *SellerHandler) Summary(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}

	summary, err := h.service.Summary(r.Context(), identity.UserID)
	if err != nil {
		h.writeSellerError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, summary)
}

func (h *SellerHandler) MarkSold(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.service.MarkSold)
}

func (h *SellerHandler) MarkRented(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.service.MarkRented)
}

func (h *SellerHandler) Archive(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.service.Archive)
}

func (h *SellerHandler) Delete(w http.ResponseWriter, r *http.Request) {
	identity, listingID, ok := h.identityAndID(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), identity.UserID, listingID); err != nil {
		h.writeSellerError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, dto.OKResponse{OK: true})
}

func (h *SellerHandler) DeletePhoto(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	photoID, ok := urlID(r, "photoId")
	if !ok {
		writeBadRequest(w, "INVALID_REQUEST", "photo id must be a positive integer")
		return
	}

	if err := h.service.DeletePhoto(r.Context(), identity.UserID, photoID); err != nil {
		h.writeSellerError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, dto.OKResponse{OK: true})
}

func (h *SellerHandler) Inquiries(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}

	inquiries, err := h.service.Inquiries(r.Context(), identity.UserID)
	if err != nil {
		h.writeSellerError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, inquiries)
}

func (h *SellerHandler) transition(w http.ResponseWriter, r *http.Request, apply func(ctx context.Context, ownerID, listingID int64) (model.Listing, error)) {
	identity, listingID, ok := h.identityAndID(w, r)
	if !ok {
		return
	}

	listing, err := apply(r.Context(), identity.UserID, listingID)
	if err != nil {
		h.writeSellerError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, listing)
}

func (h *SellerHandler) identityAndID(w http.ResponseWriter, r *http.Request) (authsvc.Identity, int64, bool) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return authsvc.Identity{}, 0, false
	}
	listingID, ok := urlID(r, "id")
	if !ok {
		writeBadRequest(w, "INVALID_REQUEST", "listing id must be a positive integer")
		return authsvc.Identity{}, 0, false
	}
	return identity, listingID, true
}

func (h *SellerHandler) parseListingForm(w http.ResponseWriter, r *http.Request) (sellersvc.ListingInput, []*multipart.FileHeader, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxPhotoSize*12)
	if err := r.ParseMultipartForm(h.maxPhotoSize); err != nil {
		writeBadRequest(w, "INVALID_REQUEST", "expected a multipart form")
		return sellersvc.ListingInput{}, nil, false
	}

	input := sellersvc.ListingInput{
		Title:           r.FormValue("title"),
		Description:     r.FormValue("description"),
		RentOrSale:      r.FormValue("rentOrSale"),
		PropertyType:    r.FormValue("propertyType"),
		Price:           floatParam(r.FormValue("price")),
		District:        r.FormValue("district"),
		City:            r.FormValue("city"),
		Address:         r.FormValue("address"),
		Bedrooms:        intParam(r.FormValue("bedrooms")),
		Bathrooms:       intParam(r.FormValue("bathrooms")),
		Size:            r.FormValue("size"),
		ContactPhone:    r.FormValue("contactPhone"),
		ContactWhatsapp: r.FormValue("contactWhatsapp"),
	}
	input.AvailabilityStart = dateParam(r.FormValue("availabilityStart"))
	input.AvailabilityEnd = dateParam(r.FormValue("availabilityEnd"))

	var photos []*multipart.FileHeader
	if r.MultipartForm != nil {
		photos = r.MultipartForm.File["photos"]
	}
	for _, header := range photos {
		if header.Size > h.maxPhotoSize {
			writeBadRequest(w, "PHOTO_TOO_LARGE", "photo exceeds the maximum upload size")
			return sellersvc.ListingInput{}, nil, false
		}
	}

	return input, photos, true
}

func (h *SellerHandler) uploadPhotos(ctx context.Context, ownerID, listingID int64, photos []*multipart.FileHeader) error {
	for _, header := range photos {
		file, err := header.Open()
		if err != nil {
			return mediasvc.ErrValidation
		}
		_, err = h.service.UploadPhoto(ctx, ownerID, listingID,
			header.Filename, header.Header.Get("Content-Type"), file, header.Size)
		file.Close()
		if err != nil {
			return err
		}
	}
	return nil
}

func (h *SellerHandler) writeSellerError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, rules.ErrValidation):
		writeBadRequest(w, "VALIDATION_ERROR", err.Error())
	case errors.Is(err, rules.ErrTransitionNotAllowed):
		writeConflict(w, "TRANSITION_NOT_ALLOWED", "listing status does not allow this action")
	case errors.Is(err, sellersvc.ErrNotFound):
		writeNotFound(w, "NOT_FOUND", "listing not found")
	case errors.Is(err, sellersvc.ErrForbidden):
		writeForbidden(w, "FORBIDDEN", "listing belongs to another seller")
	case errors.Is(err, mediasvc.ErrPhotoLimitReached):
		writeConflict(w, "PHOTO_LIMIT_REACHED", "listing already has the maximum number of photos")
	case errors.Is(err, mediasvc.ErrPhotoNotFound):
		writeNotFound(w, "NOT_FOUND", "photo not found")
	case errors.Is(err, mediasvc.ErrValidation):
		writeBadRequest(w, "VALIDATION_ERROR", "unsupported photo upload")
	default:
		h.logger.Error("seller request failed", zap.Error(err))
		writeInternal(w, "INTERNAL_ERROR", "internal server error")
	}
}

// dateParam accepts either a date-only value or full RFC 3339.
func dateParam(value string) *time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return &t
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return &t
	}
	return nil
}
