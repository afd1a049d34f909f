package model

import "time"

type Inquiry struct {
	ID        int64     `json:"id"`
	Reference string    `json:"reference"`
	ListingID int64     `json:"listingId"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}
