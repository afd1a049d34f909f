package listings

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rukshanyomal11/CeylonHomes/internal/domain/enums"
	"github.com/rukshanyomal11/CeylonHomes/internal/domain/model"
	pgrepo "github.com/rukshanyomal11/CeylonHomes/internal/repo/postgres"
)

var (
	ErrNotFound  = errors.New("listing not found")
	ErrBadFilter = errors.New("invalid filter value")
)

type Store interface {
	Search(ctx context.Context, filter pgrepo.SearchFilter) ([]model.Listing, int64, error)
	GetByID(ctx context.Context, id int64) (model.Listing, error)
}

type Media interface {
	AttachPhotos(ctx context.Context, listings []model.Listing) error
	ListForListing(ctx context.Context, listingID int64) ([]model.Photo, error)
}

// Service serves the public, read-only side of the catalog. Only
// approved listings are ever returned.
type Service struct {
	store       Store
	media       Media
	defaultSize int
	maxSize     int
}

func NewService(store Store, media Media, defaultSize, maxSize int) *Service {
	if defaultSize <= 0 {
		defaultSize = 12
	}
	if maxSize <= 0 {
		maxSize = 100
	}
	return &Service{
		store:       store,
		media:       media,
		defaultSize: defaultSize,
		maxSize:     maxSize,
	}
}

type SearchQuery struct {
	District     string
	City         string
	RentOrSale   string
	PropertyType string
	MinPrice     float64
	MaxPrice     float64
	Bedrooms     int
	Bathrooms    int
	Page         int
	Size         int
}

func (s *Service) Search(ctx context.Context, query SearchQuery) ([]model.Listing, int64, error) {
	if s.store == nil {
		return nil, 0, fmt.Errorf("listing store is not configured")
	}

	filter := pgrepo.SearchFilter{
		Status:       enums.ListingStatusApproved,
		District:     query.District,
		City:         query.City,
		MinPrice:     query.MinPrice,
		MaxPrice:     query.MaxPrice,
		MinBedrooms:  query.Bedrooms,
		MinBathrooms: query.Bathrooms,
	}

	if trimmed := strings.TrimSpace(query.RentOrSale); trimmed != "" {
		value, ok := enums.ParseRentOrSale(strings.ToUpper(trimmed))
		if !ok {
			return nil, 0, ErrBadFilter
		}
		filter.RentOrSale = value
	}
	if trimmed := strings.TrimSpace(query.PropertyType); trimmed != "" {
		value, ok := enums.ParsePropertyType(strings.ToUpper(trimmed))
		if !ok {
			return nil, 0, ErrBadFilter
		}
		filter.PropertyType = value
	}

	filter.Page, filter.Size = s.clampPage(query.Page, query.Size)

	found, total, err := s.store.Search(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("search listings: %w", err)
	}

	if s.media != nil {
		if err := s.media.AttachPhotos(ctx, found); err != nil {
			return nil, 0, fmt.Errorf("attach photos: %w", err)
		}
	}

	return found, total, nil
}

// Latest returns the newest approved listings, used by the home page.
func (s *Service) Latest(ctx context.Context, page, size int) ([]model.Listing, int64, error) {
	return s.Search(ctx, SearchQuery{Page: page, Size: size})
}

// Get returns one approved listing with its photos. Listings in any
// other status are hidden from the public surface.
func (s *Service) Get(ctx context.Context, id int64) (model.Listing, error) {
	if s.store == nil {
		return model.Listing{}, fmt.Errorf("listing store is not configured")
	}

	listing, err := s.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgrepo.ErrListingNotFound) {
			return model.Listing{}, ErrNotFound
		}
		return model.Listing{}, fmt.Errorf("get listing: %w", err)
	}
	if listing.Status != enums.ListingStatusApproved {
		return model.Listing{}, ErrNotFound
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
