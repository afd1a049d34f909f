package handlers

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/rukshanyomal11/CeylonHomes/internal/domain/rules"
	authsvc "github.com/rukshanyomal11/CeylonHomes/internal/services/auth"
	reportsvc "github.com/rukshanyomal11/CeylonHomes/internal/services/reports"
	"github.com/rukshanyomal11/CeylonHomes/internal/transport/http/dto"
	httperrors "github.com/rukshanyomal11/CeylonHomes/internal/transport/http/errors"
)

type ReportHandler struct {
	service *reportsvc.Service
	logger  *zap.Logger
}

func NewReportHandler(service *reportsvc.Service, logger *zap.Logger) *ReportHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportHandler{service: service, logger: logger}
}

func (h *ReportHandler) Create(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	listingID, ok := urlID(r, "listingId")
	if !ok {
		writeBadRequest(w, "INVALID_REQUEST", "listing id must be a positive integer")
		return
	}

	var req dto.ReportRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "INVALID_REQUEST", "invalid request body")
		return
	}

	report, err := h.service.Create(r.Context(), identity.UserID, reportsvc.CreateInput{
		ListingID: listingID,
		Reason:    req.Reason,
		Details:   req.Details,
	})
	if err != nil {
		switch {
		case errors.Is(err, rules.ErrValidation):
			writeBadRequest(w, "VALIDATION_ERROR", err.Error())
		case errors.Is(err, reportsvc.ErrListingNotFound):
			writeNotFound(w, "NOT_FOUND", "listing not found")
		default:
			h.logger.Error("report creation failed", zap.Error(err))
			writeInternal(w, "INTERNAL_ERROR", "internal server error")
		}
		return
	}

	httperrors.Write(w, http.StatusCreated, report)
}
