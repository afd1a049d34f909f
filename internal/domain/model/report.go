package model

import (
	"time"

	"github.com/rukshanyomal11/CeylonHomes/internal/domain/enums"
)

type Report struct {
	ID           int64              `json:"id"`
	Reference    string             `json:"reference"`
	ListingID    int64              `json:"listingId"`
	ListingTitle string             `json:"listingTitle,omitempty"`
	ReporterID   *int64             `json:"reporterId,omitempty"`
	Reason       string             `json:"reason"`
	Details      string             `json:"details,omitempty"`
	Status       enums.ReportStatus `json:"status"`
	CreatedAt    time.Time          `json:"createdAt"`
	UpdatedAt    time.Time          `json:"updatedAt"`
}
