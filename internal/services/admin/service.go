package admin

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rukshanyomal11/CeylonHomes/internal/domain/enums"
	"github.com/rukshanyomal11/CeylonHomes/internal/domain/model"
	"github.com/rukshanyomal11/CeylonHomes/internal/domain/rules"
	pgrepo "github.com/rukshanyomal11/CeylonHomes/internal/repo/postgres"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrBadFilter = errors.New("invalid filter value")
	// ErrConflict means a report review tried to move the report
	// backwards, e.g. CLOSED back to OPEN.
	ErrConflict = errors.New("report status cannot move backwards")
)

type ListingStore interface {
	GetByID(ctx context.Context, id int64) (model.Listing, error)
	Search(ctx context.Context, filter pgrepo.SearchFilter) ([]model.Listing, int64, error)
	CountByStatus(ctx context.Context, status enums.ListingStatus) (int64, error)
}

// Moderation persists a status change together with its audit row.
type Moderation interface {
	ApplyStatus(ctx context.Context, listingID int64, status enums.ListingStatus, rejectionReason string, action model.ApprovalAction) error
}

type AuditStore interface {
	List(ctx context.Context, listingID int64, page, size int) ([]model.ApprovalAction, int64, error)
}

type ReportStore interface {
	Get(ctx context.Context, id int64) (model.Report, error)
	List(ctx context.Context, status enums.ReportStatus, page, size int) ([]model.Report, int64, error)
	SetStatus(ctx context.Context, id int64, status enums.ReportStatus) error
	CountByStatus(ctx context.Context, status enums.ReportStatus) (int64, error)
}

type Media interface {
	AttachPhotos(ctx context.Context, listings []model.Listing) error
	ListForListing(ctx context.Context, listingID int64) ([]model.Photo, error)
}

type Service struct {
	listings    ListingStore
	moderation  Moderation
	audit       AuditStore
	reports     ReportStore
	media       Media
	defaultSize int
	maxSize     int
}

func NewService(listings ListingStore, moderation Moderation, audit AuditStore, reports ReportStore, media Media, defaultSize, maxSize int) *Service {
	if defaultSize <= 0 {
		defaultSize = 20
	}
	if maxSize <= 0 {
		maxSize = 100
	}
	return &Service{
		listings:    listings,
		moderation:  moderation,
		audit:       audit,
		reports:     reports,
		media:       media,
		defaultSize: defaultSize,
		maxSize:     maxSize,
	}
}

// Approve publishes a pending listing.
func (s *Service) Approve(ctx context.Context, adminID, listingID int64) (model.Listing, error) {
	return s.moderate(ctx, adminID, listingID, enums.ApprovalActionApproved, "", func(l model.Listing) (enums.ListingStatus, error) {
		if err := rules.CanApprove(l.Status); err != nil {
			return "", err
		}
		return enums.ListingStatusApproved, nil
	})
}

// Reject sends a pending listing back to the seller. The reason is
// stored on the listing so the seller sees why.
func (s *Service) Reject(ctx context.Context, adminID, listingID int64, reason string) (model.Listing, error) {
	reason = strings.TrimSpace(reason)
	return s.moderate(ctx, adminID, listingID, enums.ApprovalActionRejected, reason, func(l model.Listing) (enums.ListingStatus, error) {
		if err := rules.CanReject(l.Status, reason); err != nil {
			return "", err
		}
		return enums.ListingStatusRejected, nil
	})
}

// Suspend takes a live listing off the public site. The reason goes
// into the audit trail only, not onto the listing.
func (s *Service) Suspend(ctx context.Context, adminID, listingID int64, reason string) (model.Listing, error) {
	reason = strings.TrimSpace(reason)
	return s.moderate(ctx, adminID, listingID, enums.ApprovalActionSuspended, reason, func(l model.Listing) (enums.ListingStatus, error) {
		if err := rules.CanSuspend(l.Status, reason); err != nil {
			return "", err
		}
		return enums.ListingStatusSuspended, nil
	})
}

// Unsuspend puts a suspended listing back on the public site.
func (s *Service) Unsuspend(ctx context.Context, adminID, listingID int64) (model.Listing, error) {
	return s.moderate(ctx, adminID, listingID, enums.ApprovalActionUnsuspended, "", func(l model.Listing) (enums.ListingStatus, error) {
		if err := rules.CanUnsuspend(l.Status); err != nil {
			return "", err
		}
		return enums.ListingStatusApproved, nil
	})
}

func (s *Service) moderate(ctx context.Context, adminID, listingID int64, actionType enums.ApprovalActionType, note string, next func(model.Listing) (enums.ListingStatus, error)) (model.Listing, error) {
	listing, err := s.getListing(ctx, listingID)
	if err != nil {
		return model.Listing{}, err
	}

	status, err := next(listing)
	if err != nil {
		return model.Listing{}, err
	}

	rejectionReason := ""
	if status == enums.ListingStatusRejected {
		rejectionReason = note
	}
	action := model.ApprovalAction{
		ListingID: listingID,
		AdminID:   adminID,
		Action:    actionType,
		Note:      note,
	}
	if err := s.moderation.ApplyStatus(ctx, listingID, status, rejectionReason, action); err != nil {
		return model.Listing{}, fmt.Errorf("apply moderation decision: %w", err)
	}

	return s.getListing(ctx, listingID)
}

// Listings returns one page of listings in any status, newest first.
func (s *Service) Listings(ctx context.Context, status string, page, size int) ([]model.Listing, int64, error) {
	filter := pgrepo.SearchFilter{}
	if status != "" {
		parsed, ok := enums.ParseListingStatus(strings.ToUpper(strings.TrimSpace(status)))
		if !ok {
			return nil, 0, fmt.Errorf("unknown listing status %q: %w", status, ErrBadFilter)
		}
		filter.Status = parsed
	}
	filter.Page, filter.Size = s.clampPage(page, size)

	found, total, err := s.listings.Search(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("list listings: %w", err)
	}
	if s.media != nil {
		if err := s.media.AttachPhotos(ctx, found); err != nil {
			return nil, 0, fmt.Errorf("attach photos: %w", err)
		}
	}

	return found, total, nil
}

// Listing returns a listing in any status, for the moderation view.
func (s *Service) Listing(ctx context.Context, listingID int64) (model.Listing, error) {
	listing, err := s.getListing(ctx, listingID)
	if err != nil {
		return model.Listing{}, err
	}

	if s.media != nil {
		photos, err := s.media.ListForListing(ctx, listing.ID)
		if err != nil {
			return model.Listing{}, fmt.Errorf("load listing photos: %w", err)
		}
		listing.Photos = photos
	}
	if listing.Photos == nil {
		listing.Photos = []model.Photo{}
	}

	return listing, nil
}

type Stats struct {
	PendingCount     int64 `json:"pendingCount"`
	ApprovedCount    int64 `json:"approvedCount"`
	RejectedCount    int64 `json:"rejectedCount"`
	SuspendedCount   int64 `json:"suspendedCount"`
	OpenReportsCount int64 `json:"openReportsCount"`
}

func (s *Service) Stats(ctx context.Context) (Stats, error) {
	var (
		stats Stats
		err   error
	)
	if stats.PendingCount, err = s.listings.CountByStatus(ctx, enums.ListingStatusPending); err != nil {
		return Stats{}, fmt.Errorf("count pending listings: %w", err)
	}
	if stats.ApprovedCount, err = s.listings.CountByStatus(ctx, enums.ListingStatusApproved); err != nil {
		return Stats{}, fmt.Errorf("count approved listings: %w", err)
	}
	if stats.RejectedCount, err = s.listings.CountByStatus(ctx, enums.ListingStatusRejected); err != nil {
		return Stats{}, fmt.Errorf("count rejected listings: %w", err)
	}
	if stats.SuspendedCount, err = s.listings.CountByStatus(ctx, enums.ListingStatusSuspended); err != nil {
		return Stats{}, fmt.Errorf("count suspended listings: %w", err)
	}
	if stats.OpenReportsCount, err = s.reports.CountByStatus(ctx, enums.ReportStatusOpen); err != nil {
		return Stats{}, fmt.Errorf("count open reports: %w", err)
	}
	return stats, nil
}

// Reports returns one page of abuse reports, optionally filtered by status.
func (s *Service) Reports(ctx context.Context, status string, page, size int) ([]model.Report, int64, error) {
	var parsed enums.ReportStatus
	if status != "" {
		var ok bool
		parsed, ok = enums.ParseReportStatus(strings.ToUpper(strings.TrimSpace(status)))
		if !ok {
			return nil, 0, fmt.Errorf("unknown report status %q: %w", status, ErrBadFilter)
		}
	}
	page, size = s.clampPage(page, size)

	found, total, err := s.reports.List(ctx, parsed, page, size)
	if err != nil {
		return nil, 0, fmt.Errorf("list reports: %w", err)
	}
	return found, total, nil
}

// ReviewReport advances a report to REVIEWED or CLOSED. Reports only
// ever move forward.
func (s *Service) ReviewReport(ctx context.Context, reportID int64, status string) (model.Report, error) {
	next, ok := enums.ParseReportStatus(strings.ToUpper(strings.TrimSpace(status)))
	if !ok {
		return model.Report{}, fmt.Errorf("unknown report status %q: %w", status, ErrBadFilter)
	}

	report, err := s.reports.Get(ctx, reportID)
	if err != nil {
		if errors.Is(err, pgrepo.ErrReportNotFound) {
			return model.Report{}, ErrNotFound
		}
		return model.Report{}, fmt.Errorf("get report: %w", err)
	}
	if !report.Status.CanTransitionTo(next) {
		return model.Report{}, fmt.Errorf("report is %s: %w", report.Status, ErrConflict)
	}

	if err := s.reports.SetStatus(ctx, reportID, next); err != nil {
		return model.Report{}, fmt.Errorf("set report status: %w", err)
	}
	report.Status = next
	return report, nil
}

// Actions returns the moderation audit trail, newest first. listingID
// of zero means all listings.
func (s *Service) Actions(ctx context.Context, listingID int64, page, size int) ([]model.ApprovalAction, int64, error) {
	page, size = s.clampPage(page, size)
	actions, total, err := s.audit.List(ctx, listingID, page, size)
	if err != nil {
		return nil, 0, fmt.Errorf("list approval actions: %w", err)
	}
	return actions, total, nil
}

func (s *Service) getListing(ctx context.Context, listingID int64) (model.Listing, error) {
	listing, err := s.listings.GetByID(ctx, listingID)
	if err != nil {
		if errors.Is(err, pgrepo.ErrListingNotFound) {
			return model.Listing{}, ErrNotFound
		}
		return model.Listing{}, fmt.Errorf("get listing: %w", err)
	}
	return listing, nil
}

// Paging reports the page and size a request will actually be served
// with, for response envelopes.
func (s *Service) Paging(page, size int) (int, int) {
	return s.clampPage(page, size)
}

func (s *Service) clampPage(page, size int) (int, int) {
	if page < 0 {
		page = 0
	}
	if size <= 0 {
		size = s.defaultSize
	}
	if size > s.maxSize {
		size = s.maxSize
	}
	return page, size
}
