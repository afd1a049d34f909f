package reports

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/rukshanyomal11/CeylonHomes/internal/domain/enums"
	"github.com/rukshanyomal11/CeylonHomes/internal/domain/model"
	"github.com/rukshanyomal11/CeylonHomes/internal/domain/rules"
	pgrepo "github.com/rukshanyomal11/CeylonHomes/internal/repo/postgres"
)

var ErrListingNotFound = errors.New("listing not found")

// Reasons a listing can be flagged for. Anything else is rejected.
var allowedReasons = map[string]struct{}{
	"SPAM":         {},
	"FRAUD":        {},
	"DUPLICATE":    {},
	"WRONG_INFO":   {},
	"ALREADY_SOLD": {},
	"OTHER":        {},
}

type Store interface {
	Create(ctx context.Context, report model.Report) (model.Report, error)
}

type ListingStore interface {
	GetByID(ctx context.Context, id int64) (model.Listing, error)
}

type Service struct {
	store    Store
	listings ListingStore
	newRef   func() string
}

func NewService(store Store, listings ListingStore) *Service {
	return &Service{
		store:    store,
		listings: listings,
		newRef:   uuid.NewString,
	}
}

type CreateInput struct {
	ListingID int64
	Reason    string
	Details   string
}

// Create flags a listing. Only listings that are publicly visible can
// be reported.
func (s *Service) Create(ctx context.Context, reporterID int64, input CreateInput) (model.Report, error) {
	reason := strings.ToUpper(strings.TrimSpace(input.Reason))
	if _, ok := allowedReasons[reason]; !ok {
		return model.Report{}, rules.Invalid("Please pick a report reason")
	}
	details := strings.TrimSpace(input.Details)
	if reason == "OTHER" && details == "" {
		return model.Report{}, rules.Invalid("Please describe the problem")
	}

	listing, err := s.listings.GetByID(ctx, input.ListingID)
	if err != nil {
		if errors.Is(err, pgrepo.ErrListingNotFound) {
			return model.Report{}, ErrListingNotFound
		}
		return model.Report{}, fmt.Errorf("get listing: %w", err)
	}
	if listing.Status != enums.ListingStatusApproved {
		return model.Report{}, ErrListingNotFound
	}

	report := model.Report{
		Reference: s.newRef(),
		ListingID: listing.ID,
		Reason:    reason,
		Details:   details,
		Status:    enums.ReportStatusOpen,
	}
	if reporterID > 0 {
		report.ReporterID = &reporterID
	}

	created, err := s.store.Create(ctx, report)
	if err != nil {
		return model.Report{}, fmt.Errorf("create report: %w", err)
	}
	return created, nil
}
