package rules

import (
	"errors"
	"testing"

	"github.com/rukshanyomal11/CeylonHomes/internal/domain/enums"
)

func TestCanApprove(t *testing.T) {
	if err := CanApprove(enums.ListingStatusPending); err != nil {
		t.Fatalf("expected pending listing to be approvable: %v", err)
	}
	for _, status := range []enums.ListingStatus{
		enums.ListingStatusApproved,
		enums.ListingStatusRejected,
		enums.ListingStatusSuspended,
		enums.ListingStatusSold,
		enums.ListingStatusRented,
		enums.ListingStatusArchived,
	} {
		if err := CanApprove(status); !errors.Is(err, ErrTransitionNotAllowed) {
			t.Fatalf("expected transition error for %s, got %v", status, err)
		}
	}
}

func TestCanReject(t *testing.T) {
	if err := CanReject(enums.ListingStatusPending, "spam"); err != nil {
		t.Fatalf("expected pending listing to be rejectable: %v", err)
	}
	if err := CanReject(enums.ListingStatusPending, ""); !errors.Is(err, ErrReasonRequired) {
		t.Fatalf("expected reason error, got %v", err)
	}
	if err := CanReject(enums.ListingStatusApproved, "spam"); !errors.Is(err, ErrTransitionNotAllowed) {
		t.Fatalf("expected transition error, got %v", err)
	}
}

func TestCanSuspend(t *testing.T) {
	if err := CanSuspend(enums.ListingStatusApproved, "policy violation"); err != nil {
		t.Fatalf("expected approved listing to be suspendable: %v", err)
	}
	if err := CanSuspend(enums.ListingStatusApproved, ""); !errors.Is(err, ErrReasonRequired) {
		t.Fatalf("expected reason error, got %v", err)
	}
	if err := CanSuspend(enums.ListingStatusSuspended, "x"); !errors.Is(err, ErrTransitionNotAllowed) {
		t.Fatalf("expected transition error, got %v", err)
	}
}

func TestCanUnsuspend(t *testing.T) {
	if err := CanUnsuspend(enums.ListingStatusSuspended); err != nil {
		t.Fatalf("expected suspended listing to be unsuspendable: %v", err)
	}
	if err := CanUnsuspend(enums.ListingStatusApproved); !errors.Is(err, ErrTransitionNotAllowed) {
		t.Fatalf("expected transition error, got %v", err)
	}
}

func TestCanMarkSoldAndRented(t *testing.T) {
	if err := CanMarkSold(enums.ListingStatusApproved, enums.RentOrSaleSale); err != nil {
		t.Fatalf("expected approved sale listing to be sellable: %v", err)
	}
	if err := CanMarkSold(enums.ListingStatusApproved, enums.RentOrSaleRent); !errors.Is(err, ErrTransitionNotAllowed) {
		t.Fatalf("expected transition error for rent listing, got %v", err)
	}
	if err := CanMarkSold(enums.ListingStatusPending, enums.RentOrSaleSale); !errors.Is(err, ErrTransitionNotAllowed) {
		t.Fatalf("expected transition error for pending listing, got %v", err)
	}

	if err := CanMarkRented(enums.ListingStatusApproved, enums.RentOrSaleRent); err != nil {
		t.Fatalf("expected approved rent listing to be rentable: %v", err)
	}
	if err := CanMarkRented(enums.ListingStatusApproved, enums.RentOrSaleSale); !errors.Is(err, ErrTransitionNotAllowed) {
		t.Fatalf("expected transition error for sale listing, got %v", err)
	}
}

func TestCanArchive(t *testing.T) {
	for _, status := range []enums.ListingStatus{
		enums.ListingStatusPending,
		enums.ListingStatusApproved,
		enums.ListingStatusRejected,
		enums.ListingStatusSuspended,
		enums.ListingStatusSold,
		enums.ListingStatusRented,
	} {
		if err := CanArchive(status); err != nil {
			t.Fatalf("expected %s to be archivable: %v", status, err)
		}
	}
	if err := CanArchive(enums.ListingStatusArchived); !errors.Is(err, ErrTransitionNotAllowed) {
		t.Fatalf("expected transition error, got %v", err)
	}
}

func TestEditResult(t *testing.T) {
	if got := EditResult(enums.ListingStatusApproved); got != enums.ListingStatusPending {
		t.Fatalf("expected approved edit to reset to pending, got %s", got)
	}
	if got := EditResult(enums.ListingStatusRejected); got != enums.ListingStatusRejected {
		t.Fatalf("expected rejected edit to keep status, got %s", got)
	}
}
