package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rukshanyomal11/CeylonHomes/internal/domain/model"
)

type InquiryRepo struct {
	pool *pgxpool.Pool
}

func NewInquiryRepo(pool *pgxpool.Pool) *InquiryRepo {
	return &InquiryRepo{pool: pool}
}

func (r *InquiryRepo) Create(ctx context.Context, inquiry model.Inquiry) (model.Inquiry, error) {
	if r.pool == nil {
		return model.Inquiry{}, fmt.Errorf("postgres pool is nil")
	}

	err := r.pool.QueryRow(ctx, `
INSERT INTO inquiries (reference, listing_id, name, email, phone, message, created_at)
VALUES ($1, $2, $3, $4, $5, $6, NOW())
RETURNING id, created_at
`, inquiry.Reference, inquiry.ListingID, strings.TrimSpace(inquiry.Name), strings.TrimSpace(inquiry.Email), strings.TrimSpace(inquiry.Phone), inquiry.Message).
		Scan(&inquiry.ID, &inquiry.CreatedAt)
	if err != nil {
		return model.Inquiry{}, fmt.Errorf("create inquiry: %w", err)
	}

	return inquiry, nil
}

func (r *InquiryRepo) ListByListing(ctx context.Context, listingID int64) ([]model.Inquiry, error) {
	return r.list(ctx, `
SELECT i.id, i.reference, i.listing_id, i.name, i.email, COALESCE(i.phone, ''), i.message, i.created_at
FROM inquiries i
WHERE i.listing_id = $1
ORDER BY i.created_at DESC
`, listingID)
}

// ListByOwner returns every inquiry against the owner's listings.
func (r *InquiryRepo) ListByOwner(ctx context.Context, ownerID int64) ([]model.Inquiry, error) {
	return r.list(ctx, `
SELECT i.id, i.reference, i.listing_id, i.name, i.email, COALESCE(i.phone, ''), i.message, i.created_at
FROM inquiries i
JOIN listings l ON l.id = i.listing_id
WHERE l.owner_id = $1
ORDER BY i.created_at DESC
`, ownerID)
}

func (r *InquiryRepo) list(ctx context.Context, query string, arg any) ([]model.Inquiry, error) {
	if r.pool == nil {
		return nil, fmt.Errorf("postgres pool is nil")
	}

	rows, err := r.pool.Query(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("list inquiries: %w", err)
	}
	defer rows.Close()

	var inquiries []model.Inquiry
	for rows.Next() {
		var inq model.Inquiry
		if err := rows.Scan(&inq.ID, &inq.Reference, &inq.ListingID, &inq.Name, &inq.Email, &inq.Phone, &inq.Message, &inq.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan inquiry row: %w", err)
		}
		inquiries = append(inquiries, inq)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate inquiry rows: %w", err)
	}

	return inquiries, nil
}
