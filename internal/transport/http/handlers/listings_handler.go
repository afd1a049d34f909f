package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	listingsvc "github.com/rukshanyomal11/CeylonHomes/internal/services/listings"
	"github.com/rukshanyomal11/CeylonHomes/internal/transport/http/dto"
	httperrors "github.com/rukshanyomal11/CeylonHomes/internal/transport/http/errors"
)

// ListingsHandler serves the public, unauthenticated catalog. Only
// APPROVED listings ever leave it.
type ListingsHandler struct {
	service *listingsvc.Service
	logger  *zap.Logger
}

func NewListingsHandler(service *listingsvc.Service, logger *zap.Logger) *ListingsHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ListingsHandler{service: service, logger: logger}
}

func (h *ListingsHandler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, size := pageParams(r)
	query := listingsvc.SearchQuery{
		District:     q.Get("district"),
		City:         q.Get("city"),
		RentOrSale:   q.Get("rentOrSale"),
		PropertyType: q.Get("propertyType"),
		MinPrice:     floatParam(q.Get("minPrice")),
		MaxPrice:     floatParam(q.Get("maxPrice")),
		Bedrooms:     intParam(q.Get("bedrooms")),
		Bathrooms:    intParam(q.Get("bathrooms")),
		Page:         page,
		Size:         size,
	}

	query.Page, query.Size = h.service.Paging(query.Page, query.Size)

	found, total, err := h.service.Search(r.Context(), query)
	if err != nil {
		if errors.Is(err, listingsvc.ErrBadFilter) {
			writeBadRequest(w, "INVALID_FILTER", err.Error())
			return
		}
		h.logger.Error("public listing search failed", zap.Error(err))
		writeInternal(w, "INTERNAL_ERROR", "internal server error")
		return
	}

	httperrors.Write(w, http.StatusOK, dto.NewPage(found, query.Page, query.Size, total))
}

func (h *ListingsHandler) Latest(w http.ResponseWriter, r *http.Request) {
	page, size := h.service.Paging(pageParams(r))

	found, total, err := h.service.Latest(r.Context(), page, size)
	if err != nil {
		h.logger.Error("latest listings load failed", zap.Error(err))
		writeInternal(w, "INTERNAL_ERROR", "internal server error")
		return
	}

	httperrors.Write(w, http.StatusOK, dto.NewPage(found, page, size, total))
}

func (h *ListingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r, "id")
	if !ok {
		writeBadRequest(w, "INVALID_REQUEST", "listing id must be a positive integer")
		return
	}

	listing, err := h.service.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, listingsvc.ErrNotFound) {
			writeNotFound(w, "NOT_FOUND", "listing not found")
			return
		}
		h.logger.Error("public listing load failed", zap.Int64("listing_id", id), zap.Error(err))
		writeInternal(w, "INTERNAL_ERROR", "internal server error")
		return
	}

	httperrors.Write(w, http.StatusOK, listing)
}

func floatParam(value string) float64 {
	f, err := strconv.ParseFloat(value, 64)
	if err != nil || f < 0 {
		return 0
	}
	return f
}

func intParam(value string) int {
	n, err := strconv.Atoi(value)
	if err != nil || n < 0 {
		return 0
	}
	return n
}
