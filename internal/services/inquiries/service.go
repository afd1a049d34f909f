package inquiries

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

type Store interface {
	Create(ctx context.Context, inquiry model.Inquiry) (model.Inquiry, error)
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
	Name      string
	Email     string
	Phone     string
	Message   string
}

// Create sends a buyer inquiry to the listing's seller. The listing
// must be publicly visible.
func (s *Service) Create(ctx context.Context, input CreateInput) (model.Inquiry, error) {
	if err := rules.ValidateName(input.Name); err != nil {
		return model.Inquiry{}, err
	}
	if err := rules.ValidateEmail(input.Email); err != nil {
		return model.Inquiry{}, err
	}
	if input.Phone != "" {
		if err := rules.ValidateUserPhone(input.Phone); err != nil {
			return model.Inquiry{}, err
		}
	}
	message := strings.TrimSpace(input.Message)
	if len(message) < 10 {
		return model.Inquiry{}, rules.Invalid("Message must be at least 10 characters")
	}

	listing, err := s.listings.GetByID(ctx, input.ListingID)
	if err != nil {
		if errors.Is(err, pgrepo.ErrListingNotFound) {
			return model.Inquiry{}, ErrListingNotFound
		}
		return model.Inquiry{}, fmt.Errorf("get listing: %w", err)
	}
	if listing.Status != enums.ListingStatusApproved {
		return model.Inquiry{}, ErrListingNotFound
	}

	created, err := s.store.Create(ctx, model.Inquiry{
		Reference: s.newRef(),
		ListingID: listing.ID,
		Name:      strings.TrimSpace(input.Name),
		Email:     strings.ToLower(strings.TrimSpace(input.Email)),
		Phone:     rules.DigitsOnly(input.Phone),
		Message:   message,
	})
	if err != nil {
		return model.Inquiry{}, fmt.Errorf("create inquiry: %w", err)
	}
	return created, nil
}
