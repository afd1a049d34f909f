package reports

import (
	"context"
	"errors"
	"testing"

	"github.com/rukshanyomal11/CeylonHomes/internal/domain/enums"
	"github.com/rukshanyomal11/CeylonHomes/internal/domain/model"
	"github.com/rukshanyomal11/CeylonHomes/internal/domain/rules"
	pgrepo "github.com/rukshanyomal11/CeylonHomes/internal/repo/postgres"
)

type stubStore struct {
	created []model.Report
}

func (s *stubStore) Create(_ context.Context, report model.Report) (model.Report, error) {
	report.ID = int64(len(s.created) + 1)
	s.created = append(s.created, report)
	return report, nil
}

type stubListings struct {
	listings map[int64]model.Listing
}

func (s *stubListings) GetByID(_ context.Context, id int64) (model.Listing, error) {
	listing, ok := s.listings[id]
	if !ok {
		return model.Listing{}, pgrepo.ErrListingNotFound
	}
	return listing, nil
}

func newTestService() (*Service, *stubStore) {
	store := &stubStore{}
	listings := &stubListings{listings: map[int64]model.Listing{
		1: {ID: 1, Status: enums.ListingStatusApproved},
		2: {ID: 2, Status: enums.ListingStatusPending},
	}}
	svc := NewService(store, listings)
	svc.newRef = func() string { return "ref-123" }
	return svc, store
}

func TestCreateReport(t *testing.T) {
	svc, store := newTestService()

	report, err := svc.Create(context.Background(), 7, CreateInput{ListingID: 1, Reason: "spam"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if report.Status != enums.ReportStatusOpen {
		t.Fatalf("unexpected status: %s", report.Status)
	}
	if report.Reason != "SPAM" {
		t.Fatalf("expected reason to be normalized, got %q", report.Reason)
	}
	if report.Reference != "ref-123" {
		t.Fatalf("unexpected reference: %q", report.Reference)
	}
	if report.ReporterID == nil || *report.ReporterID != 7 {
		t.Fatalf("unexpected reporter: %v", report.ReporterID)
	}
	if len(store.created) != 1 {
		t.Fatalf("expected one stored report, got %d", len(store.created))
	}
}

func TestCreateValidatesReason(t *testing.T) {
	svc, store := newTestService()

	if _, err := svc.Create(context.Background(), 7, CreateInput{ListingID: 1, Reason: "BECAUSE"}); !errors.Is(err, rules.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, err := svc.Create(context.Background(), 7, CreateInput{ListingID: 1, Reason: "OTHER"}); !errors.Is(err, rules.ErrValidation) {
		t.Fatalf("expected OTHER to require details, got %v", err)
	}
	if _, err := svc.Create(context.Background(), 7, CreateInput{ListingID: 1, Reason: "OTHER", Details: "Listing photos are stolen"}); err != nil {
		t.Fatalf("create with details: %v", err)
	}
	if len(store.created) != 1 {
		t.Fatalf("expected one stored report, got %d", len(store.created))
	}
}

func TestCreateHidesNonPublicListings(t *testing.T) {
	svc, _ := newTestService()

	if _, err := svc.Create(context.Background(), 7, CreateInput{ListingID: 2, Reason: "SPAM"}); !errors.Is(err, ErrListingNotFound) {
		t.Fatalf("expected ErrListingNotFound for pending listing, got %v", err)
	}
	if _, err := svc.Create(context.Background(), 7, CreateInput{ListingID: 404, Reason: "SPAM"}); !errors.Is(err, ErrListingNotFound) {
		t.Fatalf("expected ErrListingNotFound, got %v", err)
	}
}
