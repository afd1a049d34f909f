package handlers

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/rukshanyomal11/CeylonHomes/internal/domain/enums"
	"github.com/rukshanyomal11/CeylonHomes/internal/domain/model"
	"github.com/rukshanyomal11/CeylonHomes/internal/domain/rules"
	adminsvc "github.com/rukshanyomal11/CeylonHomes/internal/services/admin"
	authsvc "github.com/rukshanyomal11/CeylonHomes/internal/services/auth"
	"github.com/rukshanyomal11/CeylonHomes/internal/transport/http/dto"
	httperrors "github.com/rukshanyomal11/CeylonHomes/internal/transport/http/errors"
)

type AdminHandler struct {
	service *adminsvc.Service
	logger  *zap.Logger
}

func NewAdminHandler(service *adminsvc.Service, logger *zap.Logger) *AdminHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AdminHandler{service: service, logger: logger}
}

func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.Stats(r.Context())
	if err != nil {
		h.writeAdminError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, stats)
}

func (h *AdminHandler) Listings(w http.ResponseWriter, r *http.Request) {
	page, size := h.service.Paging(pageParams(r))
	status := r.URL.Query().Get("status")

	found, total, err := h.service.Listings(r.Context(), status, page, size)
	if err != nil {
		h.writeAdminError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, dto.NewPage(found, page, size, total))
}

func (h *AdminHandler) Listing(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r, "id")
	if !ok {
		writeBadRequest(w, "INVALID_REQUEST", "listing id must be a positive integer")
		return
	}

	listing, err := h.service.Listing(r.Context(), id)
	if err != nil {
		h.writeAdminError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, listing)
}

func (h *AdminHandler) Approve(w http.ResponseWriter, r *http.Request) {
	h.moderate(w, r, func(ctx context.Context, adminID, listingID int64, _ string) (model.Listing, error) {
		return h.service.Approve(ctx, adminID, listingID)
	})
}

func (h *AdminHandler) Reject(w http.ResponseWriter, r *http.Request) {
	h.moderate(w, r, h.service.Reject)
}

func (h *AdminHandler) Suspend(w http.ResponseWriter, r *http.Request) {
	h.moderate(w, r, h.service.Suspend)
}

func (h *AdminHandler) Unsuspend(w http.ResponseWriter, r *http.Request) {
	h.moderate(w, r, func(ctx context.Context, adminID, listingID int64, _ string) (model.Listing, error) {
		return h.service.Unsuspend(ctx, adminID, listingID)
	})
}

func (h *AdminHandler) Reports(w http.ResponseWriter, r *http.Request) {
	h.reportsPage(w, r, r.URL.Query().Get("status"))
}

func (h *AdminHandler) OpenReports(w http.ResponseWriter, r *http.Request) {
	h.reportsPage(w, r, string(enums.ReportStatusOpen))
}

func (h *AdminHandler) MarkReportReviewed(w http.ResponseWriter, r *http.Request) {
	h.reviewReport(w, r, enums.ReportStatusReviewed)
}

func (h *AdminHandler) MarkReportClosed(w http.ResponseWriter, r *http.Request) {
	h.reviewReport(w, r, enums.ReportStatusClosed)
}

func (h *AdminHandler) Actions(w http.ResponseWriter, r *http.Request) {
	h.actionsPage(w, r, 0)
}

func (h *AdminHandler) ListingActions(w http.ResponseWriter, r *http.Request) {
	listingID, ok := urlID(r, "id")
	if !ok {
		writeBadRequest(w, "INVALID_REQUEST", "listing id must be a positive integer")
		return
	}
	h.actionsPage(w, r, listingID)
}

func (h *AdminHandler) moderate(w http.ResponseWriter, r *http.Request, apply func(ctx context.Context, adminID, listingID int64, reason string) (model.Listing, error)) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	listingID, ok := urlID(r, "id")
	if !ok {
		writeBadRequest(w, "INVALID_REQUEST", "listing id must be a positive integer")
		return
	}

	var req dto.ModerationRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := decodeJSON(r, &req); err != nil {
			writeBadRequest(w, "INVALID_REQUEST", "invalid request body")
			return
		}
	}

	listing, err := apply(r.Context(), identity.UserID, listingID, req.Reason)
	if err != nil {
		h.writeAdminError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, listing)
}

func (h *AdminHandler) reportsPage(w http.ResponseWriter, r *http.Request, status string) {
	page, size := h.service.Paging(pageParams(r))

	found, total, err := h.service.Reports(r.Context(), status, page, size)
	if err != nil {
		h.writeAdminError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, dto.NewPage(found, page, size, total))
}

func (h *AdminHandler) reviewReport(w http.ResponseWriter, r *http.Request, status enums.ReportStatus) {
	reportID, ok := urlID(r, "id")
	if !ok {
		writeBadRequest(w, "INVALID_REQUEST", "report id must be a positive integer")
		return
	}

	report, err := h.service.ReviewReport(r.Context(), reportID, string(status))
	if err != nil {
		h.writeAdminError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, report)
}

func (h *AdminHandler) actionsPage(w http.ResponseWriter, r *http.Request, listingID int64) {
	page, size := h.service.Paging(pageParams(r))

	actions, total, err := h.service.Actions(r.Context(), listingID, page, size)
	if err != nil {
		h.writeAdminError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, dto.NewPage(actions, page, size, total))
}

func (h *AdminHandler) writeAdminError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, rules.ErrReasonRequired):
		writeBadRequest(w, "REASON_REQUIRED", "a reason is required for this action")
	case errors.Is(err, rules.ErrTransitionNotAllowed):
		writeConflict(w, "TRANSITION_NOT_ALLOWED", "listing status does not allow this action")
	case errors.Is(err, adminsvc.ErrConflict):
		writeConflict(w, "REPORT_STATUS_CONFLICT", "report status cannot move backwards")
	case errors.Is(err, adminsvc.ErrBadFilter):
		writeBadRequest(w, "INVALID_FILTER", err.Error())
	case errors.Is(err, adminsvc.ErrNotFound):
		writeNotFound(w, "NOT_FOUND", "not found")
	default:
		h.logger.Error("admin request failed", zap.Error(err))
		writeInternal(w, "INTERNAL_ERROR", "internal server error")
	}
}
