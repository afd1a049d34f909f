package model

import (
	"time"

	"github.com/rukshanyomal11/CeylonHomes/internal/domain/enums"
)

type Listing struct {
	ID                int64              `json:"id"`
	Title             string             `json:"title"`
	Description       string             `json:"description"`
	RentOrSale        enums.RentOrSale   `json:"rentOrSale"`
	PropertyType      enums.PropertyType `json:"propertyType"`
	Price             float64            `json:"price"`
	District          string             `json:"district"`
	City              string             `json:"city"`
	Address           string             `json:"address"`
	Bedrooms          int                `json:"bedrooms"`
	Bathrooms         int                `json:"bathrooms"`
	Size              string             `json:"size"`
	ContactPhone      string             `json:"contactPhone"`
	ContactWhatsapp   string             `json:"contactWhatsapp,omitempty"`
	AvailabilityStart *time.Time         `json:"availabilityStart,omitempty"`
	AvailabilityEnd   *time.Time         `json:"availabilityEnd,omitempty"`
	Photos            []Photo            `json:"photos"`
	Status            enums.ListingStatus `json:"status"`
	RejectionReason   string             `json:"rejectionReason,omitempty"`
	OwnerID           int64              `json:"ownerId"`
	OwnerName         string             `json:"ownerName,omitempty"`
	ClosedAt          *time.Time         `json:"closedAt,omitempty"`
	CreatedAt         time.Time          `json:"createdAt"`
	UpdatedAt         time.Time          `json:"updatedAt"`
}

type Photo struct {
	ID        int64     `json:"id"`
	ListingID int64     `json:"listingId"`
	ObjectKey string    `json:"-"`
	URL       string    `json:"url"`
	Position  int       `json:"position"`
	CreatedAt time.Time `json:"createdAt"`
}
