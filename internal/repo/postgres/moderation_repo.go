package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rukshanyomal11/CeylonHomes/internal/domain/enums"
	"github.com/rukshanyomal11/CeylonHomes/internal/domain/model"
)

// ModerationRepo applies a listing status change and its audit row in
// one transaction. A moderation decision without an audit row, or the
// other way around, must never be visible.
type ModerationRepo struct {
	pool      *pgxpool.Pool
	listings  *ListingRepo
	approvals *ApprovalRepo
}

func NewModerationRepo(pool *pgxpool.Pool, listings *ListingRepo, approvals *ApprovalRepo) *ModerationRepo {
	return &ModerationRepo{pool: pool, listings: listings, approvals: approvals}
}

func (r *ModerationRepo) ApplyStatus(ctx context.Context, listingID int64, status enums.ListingStatus, rejectionReason string, action model.ApprovalAction) error {
	if r.pool == nil {
		return fmt.Errorf("postgres pool is nil")
	}
	return WithTx(ctx, r.pool, func(ctx context.Context, tx pgx.Tx) error {
		if err := r.listings.SetStatusTx(ctx, tx, listingID, status, rejectionReason); err != nil {
			return fmt.Errorf("set listing status: %w", err)
		}
		if err := r.approvals.Create(ctx, tx, action); err != nil {
			return fmt.Errorf("record approval action: %w", err)
		}
		return nil
	})
}
