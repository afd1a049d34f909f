package sellers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/rukshanyomal11/CeylonHomes/internal/domain/enums"
	"github.com/rukshanyomal11/CeylonHomes/internal/domain/model"
	"github.com/rukshanyomal11/CeylonHomes/internal/domain/rules"
	pgrepo "github.com/rukshanyomal11/CeylonHomes/internal/repo/postgres"
)

var (
	ErrNotFound  = errors.New("listing not found")
	ErrForbidden = errors.New("listing belongs to another seller")
)

type Store interface {
	Create(ctx context.Context, listing model.Listing) (model.Listing, error)
	Update(ctx context.Context, listing model.Listing) error
	GetByID(ctx context.Context, id int64) (model.Listing, error)
	Search(ctx context.Context, filter pgrepo.SearchFilter) ([]model.Listing, int64, error)
	SetStatus(ctx context.Context, id int64, status enums.ListingStatus, rejectionReason string) error
	Delete(ctx context.Context, id int64) error
	CountByOwnerStatus(ctx context.Context, ownerID int64) (map[enums.ListingStatus]int64, error)
}

type Media interface {
	Upload(ctx context.Context, listingID int64, fileName, contentType string, body io.Reader, size int64) (model.Photo, error)
	AttachPhotos(ctx context.Context, listings []model.Listing) error
	ListForListing(ctx context.Context, listingID int64) ([]model.Photo, error)
	FindListing(ctx context.Context, photoID int64) (int64, error)
	Delete(ctx context.Context, listingID, photoID int64) error
	DeleteAllForListing(ctx context.Context, listingID int64) error
}

type InquiryStore interface {
	ListByOwner(ctx context.Context, ownerID int64) ([]model.Inquiry, error)
}

type Mailer interface {
	Send(to, subject, body string) error
}

type Service struct {
	store           Store
	media           Media
	inquiries       InquiryStore
	mailer          Mailer
	moderationInbox string
	logger          *zap.Logger
	defaultSize     int
	maxSize         int
}

func NewService(store Store, media Media, inquiries InquiryStore, defaultSize, maxSize int) *Service {
	if defaultSize <= 0 {
		defaultSize = 20
	}
	if maxSize <= 0 {
		maxSize = 100
	}
	return &Service{
		store:       store,
		media:       media,
		inquiries:   inquiries,
		logger:      zap.NewNop(),
		defaultSize: defaultSize,
		maxSize:     maxSize,
	}
}

// AttachModerationAlerts emails the moderation inbox whenever a
// listing enters the review queue. Sending is fire-and-forget.
func (s *Service) AttachModerationAlerts(mailer Mailer, inbox string, logger *zap.Logger) {
	s.mailer = mailer
	s.moderationInbox = strings.TrimSpace(inbox)
	if logger != nil {
		s.logger = logger
	}
}

func (s *Service) notifyModeration(listing model.Listing, event string) {
	if s.mailer == nil || s.moderationInbox == "" {
		return
	}

	subject := fmt.Sprintf("Listing %s awaiting review: %s", event, listing.Title)
	body := fmt.Sprintf("Listing #%d (%s, %s) by seller #%d is pending moderation.",
		listing.ID, listing.District, listing.City, listing.OwnerID)

	go func() {
		if err := s.mailer.Send(s.moderationInbox, subject, body); err != nil {
			s.logger.Warn("moderation alert mail failed",
				zap.Int64("listing_id", listing.ID), zap.Error(err))
		}
	}()
}

type ListingInput struct {
	Title             string
	Description       string
	RentOrSale        string
	PropertyType      string
	Price             float64
	District          string
	City              string
	Address           string
	Bedrooms          int
	Bathrooms         int
	Size              string
	ContactPhone      string
	ContactWhatsapp   string
	AvailabilityStart *time.Time
	AvailabilityEnd   *time.Time
}

// Create submits a new listing. It always starts in PENDING and waits
// for moderation.
func (s *Service) Create(ctx context.Context, ownerID int64, input ListingInput) (model.Listing, error) {
	listing, err := buildListing(input)
	if err != nil {
		return model.Listing{}, err
	}
	listing.OwnerID = ownerID
	listing.Status = enums.ListingStatusPending

	created, err := s.store.Create(ctx, listing)
	if err != nil {
		return model.Listing{}, fmt.Errorf("create listing: %w", err)
	}
	created.Photos = []model.Photo{}
	s.notifyModeration(created, "submitted")

	return created, nil
}

// Update replaces the listing's fields. An approved listing drops
// back to PENDING for re-review.
func (s *Service) Update(ctx context.Context, ownerID, listingID int64, input ListingInput) (model.Listing, error) {
	current, err := s.owned(ctx, ownerID, listingID)
	if err != nil {
		return model.Listing{}, err
	}

	updated, err := buildListing(input)
	if err != nil {
		return model.Listing{}, err
	}
	updated.ID = current.ID
	updated.OwnerID = current.OwnerID
	updated.Status = rules.EditResult(current.Status)
	if updated.Status == enums.ListingStatusRejected {
		updated.RejectionReason = current.RejectionReason
	}

	if err := s.store.Update(ctx, updated); err != nil {
		return model.Listing{}, fmt.Errorf("update listing: %w", err)
	}
	if updated.Status == enums.ListingStatusPending {
		s.notifyModeration(updated, "updated")
	}

	return s.Get(ctx, ownerID, listingID)
}

func (s *Service) Get(ctx context.Context, ownerID, listingID int64) (model.Listing, error) {
	listing, err := s.owned(ctx, ownerID, listingID)
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

// List returns one page of the seller's own listings, any status.
func (s *Service) List(ctx context.Context, ownerID int64, status string, page, size int) ([]model.Listing, int64, error) {
	filter := pgrepo.SearchFilter{OwnerID: ownerID}
	if trimmed := strings.TrimSpace(status); trimmed != "" {
		parsed, ok := enums.ParseListingStatus(strings.ToUpper(trimmed))
		if !ok {
			return nil, 0, fmt.Errorf("unknown status %q: %w", status, rules.ErrValidation)
		}
		filter.Status = parsed
	}

	filter.Page, filter.Size = s.Paging(page, size)

	found, total, err := s.store.Search(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("list seller listings: %w", err)
	}

	if s.media != nil {
		if err := s.media.AttachPhotos(ctx, found); err != nil {
			return nil, 0, fmt.Errorf("attach photos: %w", err)
		}
	}

	return found, total, nil
}

// Paging reports the page and size a request will actually be served
// with, for response envelopes.
func (s *Service) Paging(page, size int) (int, int) {
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

type Summary struct {
	Total    int64 `json:"total"`
	Pending  int64 `json:"pending"`
	Approved int64 `json:"approved"`
	Rejected int64 `json:"rejected"`
	Sold     int64 `json:"sold"`
	Rented   int64 `json:"rented"`
	Archived int64 `json:"archived"`
}

func (s *Service) Summary(ctx context.Context, ownerID int64) (Summary, error) {
	counts, err := s.store.CountByOwnerStatus(ctx, ownerID)
	if err != nil {
		return Summary{}, fmt.Errorf("load seller summary: %w", err)
	}

	summary := Summary{
		Pending:  counts[enums.ListingStatusPending],
		Approved: counts[enums.ListingStatusApproved],
		Rejected: counts[enums.ListingStatusRejected],
		Sold:     counts[enums.ListingStatusSold],
		Rented:   counts[enums.ListingStatusRented],
		Archived: counts[enums.ListingStatusArchived],
	}
	for _, count := range counts {
		summary.Total += count
	}

	return summary, nil
}

// MarkSold closes an approved sale listing.
func (s *Service) MarkSold(ctx context.Context, ownerID, listingID int64) (model.Listing, error) {
	return s.transition(ctx, ownerID, listingID, func(l model.Listing) (enums.ListingStatus, error) {
		if err := rules.CanMarkSold(l.Status, l.RentOrSale); err != nil {
			return "", err
		}
		return enums.ListingStatusSold, nil
	})
}

// MarkRented closes an approved rental listing.
func (s *Service) MarkRented(ctx context.Context, ownerID, listingID int64) (model.Listing, error) {
	return s.transition(ctx, ownerID, listingID, func(l model.Listing) (enums.ListingStatus, error) {
		if err := rules.CanMarkRented(l.Status, l.RentOrSale); err != nil {
			return "", err
		}
		return enums.ListingStatusRented, nil
	})
}

func (s *Service) Archive(ctx context.Context, ownerID, listingID int64) (model.Listing, error) {
	return s.transition(ctx, ownerID, listingID, func(l model.Listing) (enums.ListingStatus, error) {
		if err := rules.CanArchive(l.Status); err != nil {
			return "", err
		}
		return enums.ListingStatusArchived, nil
	})
}

// Delete removes the listing and its photos permanently.
func (s *Service) Delete(ctx context.Context, ownerID, listingID int64) error {
	if _, err := s.owned(ctx, ownerID, listingID); err != nil {
		return err
	}

	if s.media != nil {
		if err := s.media.DeleteAllForListing(ctx, listingID); err != nil {
			return fmt.Errorf("delete listing photos: %w", err)
		}
	}
	if err := s.store.Delete(ctx, listingID); err != nil {
		return fmt.Errorf("delete listing: %w", err)
	}

	return nil
}

func (s *Service) UploadPhoto(ctx context.Context, ownerID, listingID int64, fileName, contentType string, body io.Reader, size int64) (model.Photo, error) {
	if _, err := s.owned(ctx, ownerID, listingID); err != nil {
		return model.Photo{}, err
	}
	if s.media == nil {
		return model.Photo{}, fmt.Errorf("media service is not configured")
	}
	return s.media.Upload(ctx, listingID, fileName, contentType, body, size)
}

// DeletePhoto removes one photo. Ownership runs through the photo's
// listing.
func (s *Service) DeletePhoto(ctx context.Context, ownerID, photoID int64) error {
	if s.media == nil {
		return fmt.Errorf("media service is not configured")
	}

	listingID, err := s.media.FindListing(ctx, photoID)
	if err != nil {
		return err
	}
	if _, err := s.owned(ctx, ownerID, listingID); err != nil {
		return err
	}
	return s.media.Delete(ctx, listingID, photoID)
}

// Inquiries returns buyer inquiries across all of the seller's
// listings, newest first.
func (s *Service) Inquiries(ctx context.Context, ownerID int64) ([]model.Inquiry, error) {
	if s.inquiries == nil {
		return []model.Inquiry{}, nil
	}

	inquiries, err := s.inquiries.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list inquiries: %w", err)
	}
	if inquiries == nil {
		inquiries = []model.Inquiry{}
	}
	return inquiries, nil
}

func (s *Service) transition(ctx context.Context, ownerID, listingID int64, next func(model.Listing) (enums.ListingStatus, error)) (model.Listing, error) {
	listing, err := s.owned(ctx, ownerID, listingID)
	if err != nil {
		return model.Listing{}, err
	}

	status, err := next(listing)
	if err != nil {
		return model.Listing{}, err
	}

	if err := s.store.SetStatus(ctx, listingID, status, ""); err != nil {
		return model.Listing{}, fmt.Errorf("set listing status: %w", err)
	}

	return s.Get(ctx, ownerID, listingID)
}

func (s *Service) owned(ctx context.Context, ownerID, listingID int64) (model.Listing, error) {
	listing, err := s.store.GetByID(ctx, listingID)
	if err != nil {
		if errors.Is(err, pgrepo.ErrListingNotFound) {
			return model.Listing{}, ErrNotFound
		}
		return model.Listing{}, fmt.Errorf("get listing: %w", err)
	}
	if listing.OwnerID != ownerID {
		return model.Listing{}, ErrForbidden
	}
	return listing, nil
}

func buildListing(input ListingInput) (model.Listing, error) {
	if strings.TrimSpace(input.Title) == "" {
		return model.Listing{}, rules.Invalid("Title is required")
	}
	rentOrSale, ok := enums.ParseRentOrSale(strings.ToUpper(strings.TrimSpace(input.RentOrSale)))
	if !ok {
		return model.Listing{}, rules.Invalid("Listing must be for RENT or SALE")
	}
	propertyType, ok := enums.ParsePropertyType(strings.ToUpper(strings.TrimSpace(input.PropertyType)))
	if !ok {
		return model.Listing{}, rules.Invalid("Unknown property type")
	}
	if input.Price <= 0 {
		return model.Listing{}, rules.Invalid("Price must be greater than 0")
	}
	if strings.TrimSpace(input.District) == "" || strings.TrimSpace(input.City) == "" {
		return model.Listing{}, rules.Invalid("District and city are required")
	}
	if input.Bedrooms < 0 || input.Bathrooms < 0 {
		return model.Listing{}, rules.Invalid("Bedrooms and bathrooms cannot be negative")
	}
	if err := rules.ValidateContactPhone(input.ContactPhone); err != nil {
		return model.Listing{}, err
	}
	if err := rules.ValidateWhatsappPhone(input.ContactWhatsapp); err != nil {
		return model.Listing{}, err
	}
	if input.AvailabilityStart != nil && input.AvailabilityEnd != nil && input.AvailabilityEnd.Before(*input.AvailabilityStart) {
		return model.Listing{}, rules.Invalid("Availability end must be after the start")
	}

	return model.Listing{
		Title:             strings.TrimSpace(input.Title),
		Description:       strings.TrimSpace(input.Description),
		RentOrSale:        rentOrSale,
		PropertyType:      propertyType,
		Price:             input.Price,
		District:          strings.TrimSpace(input.District),
		City:              strings.TrimSpace(input.City),
		Address:           strings.TrimSpace(input.Address),
		Bedrooms:          input.Bedrooms,
		Bathrooms:         input.Bathrooms,
		Size:              strings.TrimSpace(input.Size),
		ContactPhone:      rules.DigitsOnly(input.ContactPhone),
		ContactWhatsapp:   rules.DigitsOnly(input.ContactWhatsapp),
		AvailabilityStart: input.AvailabilityStart,
		AvailabilityEnd:   input.AvailabilityEnd,
	}, nil
}
