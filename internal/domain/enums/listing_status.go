package enums

type ListingStatus string

const (
	ListingStatusPending   ListingStatus = "PENDING"
	ListingStatusApproved  ListingStatus = "APPROVED"
	ListingStatusRejected  ListingStatus = "REJECTED"
	ListingStatusSuspended ListingStatus = "SUSPENDED"
	ListingStatusSold      ListingStatus = "SOLD"
	ListingStatusRented    ListingStatus = "RENTED"
	ListingStatusArchived  ListingStatus = "ARCHIVED"
)

func ParseListingStatus(value string) (ListingStatus, bool) {
	switch ListingStatus(value) {
	case ListingStatusPending, ListingStatusApproved, ListingStatusRejected,
		ListingStatusSuspended, ListingStatusSold, ListingStatusRented, ListingStatusArchived:
		return ListingStatus(value), true
	}
	return "", false
}
