package model

import (
	"time"

	"github.com/rukshanyomal11/CeylonHomes/internal/domain/enums"
)

type ApprovalAction struct {
	ID           int64                    `json:"id"`
	ListingID    int64                    `json:"listingId"`
	ListingTitle string                   `json:"listingTitle,omitempty"`
	AdminID      int64                    `json:"adminId"`
	AdminName    string                   `json:"adminName,omitempty"`
	Action       enums.ApprovalActionType `json:"action"`
	Note         string                   `json:"note,omitempty"`
	CreatedAt    time.Time                `json:"createdAt"`
}
