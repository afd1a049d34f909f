package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rukshanyomal11/CeylonHomes/internal/domain/enums"
	"github.com/rukshanyomal11/CeylonHomes/internal/domain/model"
	pgrepo "github.com/rukshanyomal11/CeylonHomes/internal/repo/postgres"
	adminsvc "github.com/rukshanyomal11/CeylonHomes/internal/services/admin"
	authsvc "github.com/rukshanyomal11/CeylonHomes/internal/services/auth"
	httperrors "github.com/rukshanyomal11/CeylonHomes/internal/transport/http/errors"
)

type moderationStub struct {
	listings map[int64]model.Listing
	actions  []model.ApprovalAction
}

func (s *moderationStub) GetByID(_ context.Context, id int64) (model.Listing, error) {
	listing, ok := s.listings[id]
	if !ok {
		return model.Listing{}, pgrepo.ErrListingNotFound
	}
	return listing, nil
}

func (s *moderationStub) Search(_ context.Context, _ pgrepo.SearchFilter) ([]model.Listing, int64, error) {
	return nil, 0, nil
}

func (s *moderationStub) CountByStatus(_ context.Context, _ enums.ListingStatus) (int64, error) {
	return 0, nil
}

func (s *moderationStub) ApplyStatus(_ context.Context, listingID int64, status enums.ListingStatus, rejectionReason string, action model.ApprovalAction) error {
	listing := s.listings[listingID]
	listing.Status = status
	listing.RejectionReason = rejectionReason
	s.listings[listingID] = listing
	s.actions = append(s.actions, action)
	return nil
}

type reportStoreStub struct {
	reports map[int64]model.Report
}

func (s *reportStoreStub) Get(_ context.Context, id int64) (model.Report, error) {
	report, ok := s.reports[id]
	if !ok {
		return model.Report{}, pgrepo.ErrReportNotFound
	}
	return report, nil
}

func (s *reportStoreStub) List(_ context.Context, _ enums.ReportStatus, _, _ int) ([]model.Report, int64, error) {
	return nil, 0, nil
}

func (s *reportStoreStub) SetStatus(_ context.Context, id int64, status enums.ReportStatus) error {
	report := s.reports[id]
	report.Status = status
	s.reports[id] = report
	return nil
}

func (s *reportStoreStub) CountByStatus(_ context.Context, _ enums.ReportStatus) (int64, error) {
	return 0, nil
}

func newAdminTestHandler(store *moderationStub, reports *reportStoreStub) *AdminHandler {
	if reports == nil {
		reports = &reportStoreStub{reports: map[int64]model.Report{}}
	}
	service := adminsvc.NewService(store, store, nil, reports, catalogMediaStub{}, 20, 100)
	return NewAdminHandler(service, nil)
}

func adminRequest(method, target string, body []byte) *http.Request {
	var req *http.Request
	if body == nil {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, bytes.NewReader(body))
	}
	return req.WithContext(authsvc.WithIdentity(req.Context(), authsvc.Identity{
		UserID: 99,
		SID:    "sid-99",
		Role:   "ADMIN",
	}))
}

func TestAdminApproveWritesAuditTrail(t *testing.T) {
	store := &moderationStub{listings: map[int64]model.Listing{
		5: {ID: 5, Title: "Pending house", Status: enums.ListingStatusPending},
	}}
	handler := newAdminTestHandler(store, nil)

	req := adminRequest(http.MethodPatch, "/admin/listings/5/approve", nil)
	req = req.WithContext(withURLParam(req.Context(), "id", "5"))
	rr := httptest.NewRecorder()
	handler.Approve(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("unexpected status: got %d want %d, body %s", rr.Code, http.StatusOK, rr.Body.String())
	}

	var listing model.Listing
	if err := json.NewDecoder(rr.Body).Decode(&listing); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if listing.Status != enums.ListingStatusApproved {
		t.Fatalf("unexpected listing status: %q", listing.Status)
	}
	if len(store.actions) != 1 {
		t.Fatalf("expected one audit action, got %d", len(store.actions))
	}
	if store.actions[0].AdminID != 99 || store.actions[0].Action != enums.ApprovalActionApproved {
		t.Fatalf("unexpected audit action: %+v", store.actions[0])
	}
}

func TestAdminRejectRequiresReason(t *testing.T) {
	store := &moderationStub{listings: map[int64]model.Listing{
		5: {ID: 5, Title: "Pending house", Status: enums.ListingStatusPending},
	}}
	handler := newAdminTestHandler(store, nil)

	req := adminRequest(http.MethodPatch, "/admin/listings/5/reject", []byte(`{"reason":"  "}`))
	req = req.WithContext(withURLParam(req.Context(), "id", "5"))
	rr := httptest.NewRecorder()
	handler.Reject(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("unexpected status: got %d want %d", rr.Code, http.StatusBadRequest)
	}
	var apiErr httperrors.APIError
	if err := json.NewDecoder(rr.Body).Decode(&apiErr); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	if apiErr.Code != "REASON_REQUIRED" {
		t.Fatalf("unexpected error code: %q", apiErr.Code)
	}
	if len(store.actions) != 0 {
		t.Fatalf("no audit action expected, got %+v", store.actions)
	}
}

func TestAdminReportReviewNeverMovesBackwards(t *testing.T) {
	reports := &reportStoreStub{reports: map[int64]model.Report{
		3: {ID: 3, ListingID: 5, Reason: "SPAM", Status: enums.ReportStatusClosed},
	}}
	handler := newAdminTestHandler(&moderationStub{listings: map[int64]model.Listing{}}, reports)

	req := adminRequest(http.MethodPatch, "/admin/reports/3/reviewed", nil)
	req = req.WithContext(withURLParam(req.Context(), "id", "3"))
	rr := httptest.NewRecorder()
	handler.MarkReportReviewed(rr, req)

	if rr.Code != http.StatusConflict {
		t.Fatalf("unexpected status: got %d want %d", rr.Code, http.StatusConflict)
	}
	var apiErr httperrors.APIError
	if err := json.NewDecoder(rr.Body).Decode(&apiErr); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	if apiErr.Code != "REPORT_STATUS_CONFLICT" {
		t.Fatalf("unexpected error code: %q", apiErr.Code)
	}
	if reports.reports[3].Status != enums.ReportStatusClosed {
		t.Fatalf("report status must not change, got %q", reports.reports[3].Status)
	}
}

func TestAdminModerationRequiresIdentity(t *testing.T) {
	handler := newAdminTestHandler(&moderationStub{listings: map[int64]model.Listing{}}, nil)

	req := httptest.NewRequest(http.MethodPatch, "/admin/listings/5/approve", nil)
	req = req.WithContext(withURLParam(req.Context(), "id", "5"))
	rr := httptest.NewRecorder()
	handler.Approve(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("unexpected status: got %d want %d", rr.Code, http.StatusUnauthorized)
	}
}
