package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rukshanyomal11/CeylonHomes/internal/domain/model"
)

// ApprovalRepo stores the immutable moderation audit log. Rows are
// only ever inserted.
type ApprovalRepo struct {
	pool *pgxpool.Pool
}

func NewApprovalRepo(pool *pgxpool.Pool) *ApprovalRepo {
	return &ApprovalRepo{pool: pool}
}

// Create appends one audit row. Moderation writes it in the same
// transaction as the listing status change.
func (r *ApprovalRepo) Create(ctx context.Context, tx pgx.Tx, action model.ApprovalAction) error {
	if tx == nil {
		return fmt.Errorf("transaction is required")
	}

	if _, err := tx.Exec(ctx, `
INSERT INTO approval_actions (listing_id, admin_id, action, note, created_at)
VALUES ($1, $2, $3, $4, NOW())
`, action.ListingID, action.AdminID, string(action.Action), action.Note); err != nil {
		return fmt.Errorf("create approval action: %w", err)
	}

	return nil
}

func (r *ApprovalRepo) List(ctx context.Context, listingID int64, page, size int) ([]model.ApprovalAction, int64, error) {
	if r.pool == nil {
		return nil, 0, fmt.Errorf("postgres pool is nil")
	}
	if size <= 0 {
		size = 20
	}

	where := ""
	args := []any{}
	if listingID > 0 {
		where = "\nWHERE a.listing_id = $1"
		args = append(args, listingID)
	}

	var total int64
	countQuery := `SELECT COUNT(*) FROM approval_actions a` + where
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count approval actions: %w", err)
	}

	query := `
SELECT a.id, a.listing_id, COALESCE(l.title, ''), a.admin_id, u.name, a.action, COALESCE(a.note, ''), a.created_at
FROM approval_actions a
LEFT JOIN listings l ON l.id = a.listing_id
JOIN users u ON u.id = a.admin_id` + where + fmt.Sprintf(`
ORDER BY a.created_at DESC
LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, size, page*size)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list approval actions: %w", err)
	}
	defer rows.Close()

	var actions []model.ApprovalAction
	for rows.Next() {
		var a model.ApprovalAction
		if err := rows.Scan(&a.ID, &a.ListingID, &a.ListingTitle, &a.AdminID, &a.AdminName, &a.Action, &a.Note, &a.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan approval action row: %w", err)
		}
		actions = append(actions, a)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate approval action rows: %w", err)
	}

	return actions, total, nil
}
