package rules

import (
	"errors"
	"fmt"

	"github.com/rukshanyomal11/CeylonHomes/internal/domain/enums"
)

var (
	ErrTransitionNotAllowed = errors.New("status transition not allowed")
	ErrReasonRequired       = errors.New("reason is required")
)

// CanApprove reports whether an admin may approve a listing in the
// given status.
func CanApprove(status enums.ListingStatus) error {
	if status != enums.ListingStatusPending {
		return fmt.Errorf("approve requires PENDING, listing is %s: %w", status, ErrTransitionNotAllowed)
	}
	return nil
}

func CanReject(status enums.ListingStatus, reason string) error {
	if status != enums.ListingStatusPending {
		return fmt.Errorf("reject requires PENDING, listing is %s: %w", status, ErrTransitionNotAllowed)
	}
	if reason == "" {
		return ErrReasonRequired
	}
	return nil
}

func CanSuspend(status enums.ListingStatus, reason string) error {
	if status != enums.ListingStatusApproved {
		return fmt.Errorf("suspend requires APPROVED, listing is %s: %w", status, ErrTransitionNotAllowed)
	}
	if reason == "" {
		return ErrReasonRequired
	}
	return nil
}

func CanUnsuspend(status enums.ListingStatus) error {
	if status != enums.ListingStatusSuspended {
		return fmt.Errorf("unsuspend requires SUSPENDED, listing is %s: %w", status, ErrTransitionNotAllowed)
	}
	return nil
}

func CanMarkSold(status enums.ListingStatus, rentOrSale enums.RentOrSale) error {
	if status != enums.ListingStatusApproved {
		return fmt.Errorf("mark sold requires APPROVED, listing is %s: %w", status, ErrTransitionNotAllowed)
	}
	if rentOrSale != enums.RentOrSaleSale {
		return fmt.Errorf("mark sold requires a SALE listing: %w", ErrTransitionNotAllowed)
	}
	return nil
}

func CanMarkRented(status enums.ListingStatus, rentOrSale enums.RentOrSale) error {
	if status != enums.ListingStatusApproved {
		return fmt.Errorf("mark rented requires APPROVED, listing is %s: %w", status, ErrTransitionNotAllowed)
	}
	if rentOrSale != enums.RentOrSaleRent {
		return fmt.Errorf("mark rented requires a RENT listing: %w", ErrTransitionNotAllowed)
	}
	return nil
}

func CanArchive(status enums.ListingStatus) error {
	if status == enums.ListingStatusArchived {
		return fmt.Errorf("listing is already archived: %w", ErrTransitionNotAllowed)
	}
	return nil
}

// EditResult returns the status a listing takes after a seller edit.
// An approved listing goes back through review.
func EditResult(status enums.ListingStatus) enums.ListingStatus {
	if status == enums.ListingStatusApproved {
		return enums.ListingStatusPending
	}
	return status
}
