package handlers

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/rukshanyomal11/CeylonHomes/internal/domain/rules"
	inquirysvc "github.com/rukshanyomal11/CeylonHomes/internal/services/inquiries"
	"github.com/rukshanyomal11/CeylonHomes/internal/transport/http/dto"
	httperrors "github.com/rukshanyomal11/CeylonHomes/internal/transport/http/errors"
)

type InquiryHandler struct {
	service *inquirysvc.Service
	logger  *zap.Logger
}

func NewInquiryHandler(service *inquirysvc.Service, logger *zap.Logger) *InquiryHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InquiryHandler{service: service, logger: logger}
}

func (h *InquiryHandler) Create(w http.ResponseWriter, r *http.Request) {
	listingID, ok := urlID(r, "listingId")
	if !ok {
		writeBadRequest(w, "INVALID_REQUEST", "listing id must be a positive integer")
		return
	}

	var req dto.InquiryRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "INVALID_REQUEST", "invalid request body")
		return
	}

	inquiry, err := h.service.Create(r.Context(), inquirysvc.CreateInput{
		ListingID: listingID,
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
		Message:   req.Message,
	})
	if err != nil {
		switch {
		case errors.Is(err, rules.ErrValidation):
			writeBadRequest(w, "VALIDATION_ERROR", err.Error())
		case errors.Is(err, inquirysvc.ErrListingNotFound):
			writeNotFound(w, "NOT_FOUND", "listing not found")
		default:
			h.logger.Error("inquiry creation failed", zap.Error(err))
			writeInternal(w, "INTERNAL_ERROR", "internal server error")
		}
		return
	}

	httperrors.Write(w, http.StatusCreated, inquiry)
}
