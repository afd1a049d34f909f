package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rukshanyomal11/CeylonHomes/internal/domain/enums"
	"github.com/rukshanyomal11/CeylonHomes/internal/domain/model"
)

var ErrListingNotFound = errors.New("listing not found")

type ListingRepo struct {
	pool *pgxpool.Pool
}

func NewListingRepo(pool *pgxpool.Pool) *ListingRepo {
	return &ListingRepo{pool: pool}
}

// SearchFilter narrows listing queries. Zero values mean "no filter".
// Page is 0-based.
type SearchFilter struct {
	Status       enums.ListingStatus
	OwnerID      int64
	District     string
	City         string
	RentOrSale   enums.RentOrSale
	PropertyType enums.PropertyType
	MinPrice     float64
	MaxPrice     float64
	MinBedrooms  int
	MinBathrooms int
	Page         int
	Size         int
}

const listingColumns = `
l.id, l.title, l.description, l.rent_or_sale, l.property_type, l.price,
l.district, l.city, l.address, l.bedrooms, l.bathrooms, l.size,
l.contact_phone, l.contact_whatsapp, l.availability_start, l.availability_end,
l.status, COALESCE(l.rejection_reason, ''), l.owner_id, u.name, l.closed_at,
l.created_at, l.updated_at`

func scanListing(row pgx.Row) (model.Listing, error) {
	var l model.Listing
	err := row.Scan(
		&l.ID, &l.Title, &l.Description, &l.RentOrSale, &l.PropertyType, &l.Price,
		&l.District, &l.City, &l.Address, &l.Bedrooms, &l.Bathrooms, &l.Size,
		&l.ContactPhone, &l.ContactWhatsapp, &l.AvailabilityStart, &l.AvailabilityEnd,
		&l.Status, &l.RejectionReason, &l.OwnerID, &l.OwnerName, &l.ClosedAt,
		&l.CreatedAt, &l.UpdatedAt,
	)
	return l, err
}

func (r *ListingRepo) Create(ctx context.Context, l model.Listing) (model.Listing, error) {
	if r.pool == nil {
		return model.Listing{}, fmt.Errorf("postgres pool is nil")
	}

	err := r.pool.QueryRow(ctx, `
INSERT INTO listings (
	title, description, rent_or_sale, property_type, price,
	district, city, address, bedrooms, bathrooms, size,
	contact_phone, contact_whatsapp, availability_start, availability_end,
	status, owner_id, created_at, updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, NOW(), NOW())
RETURNING id, created_at, updated_at
`, strings.TrimSpace(l.Title), l.Description, string(l.RentOrSale), string(l.PropertyType), l.Price,
		l.District, l.City, l.Address, l.Bedrooms, l.Bathrooms, l.Size,
		l.ContactPhone, l.ContactWhatsapp, l.AvailabilityStart, l.AvailabilityEnd,
		string(l.Status), l.OwnerID).
		Scan(&l.ID, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		return model.Listing{}, fmt.Errorf("create listing: %w", err)
	}

	return l, nil
}

func (r *ListingRepo) Update(ctx context.Context, l model.Listing) error {
	if r.pool == nil {
		return fmt.Errorf("postgres pool is nil")
	}

	tag, err := r.pool.Exec(ctx, `
UPDATE listings SET
	title = $2, description = $3, rent_or_sale = $4, property_type = $5, price = $6,
	district = $7, city = $8, address = $9, bedrooms = $10, bathrooms = $11, size = $12,
	contact_phone = $13, contact_whatsapp = $14, availability_start = $15, availability_end = $16,
	status = $17, rejection_reason = NULLIF($18, ''), updated_at = NOW()
WHERE id = $1
`, l.ID, strings.TrimSpace(l.Title), l.Description, string(l.RentOrSale), string(l.PropertyType), l.Price,
		l.District, l.City, l.Address, l.Bedrooms, l.Bathrooms, l.Size,
		l.ContactPhone, l.ContactWhatsapp, l.AvailabilityStart, l.AvailabilityEnd,
		string(l.Status), l.RejectionReason)
	if err != nil {
		return fmt.Errorf("update listing: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrListingNotFound
	}

	return nil
}

func (r *ListingRepo) GetByID(ctx context.Context, id int64) (model.Listing, error) {
	if r.pool == nil {
		return model.Listing{}, fmt.Errorf("postgres pool is nil")
	}

	l, err := scanListing(r.pool.QueryRow(ctx, `
SELECT `+listingColumns+`
FROM listings l
JOIN users u ON u.id = l.owner_id
WHERE l.id = $1
`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Listing{}, ErrListingNotFound
		}
		return model.Listing{}, fmt.Errorf("get listing: %w", err)
	}

	return l, nil
}

// Search returns one page of listings matching the filter together
// with the total number of matches. Results are newest first.
func (r *ListingRepo) Search(ctx context.Context, filter SearchFilter) ([]model.Listing, int64, error) {
	if r.pool == nil {
		return nil, 0, fmt.Errorf("postgres pool is nil")
	}

	where, args := buildListingWhere(filter)

	var total int64
	countQuery := `SELECT COUNT(*) FROM listings l JOIN users u ON u.id = l.owner_id` + where
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count listings: %w", err)
	}

	size := filter.Size
	if size <= 0 {
		size = 12
	}
	offset := filter.Page * size

	query := `
SELECT ` + listingColumns + `
FROM listings l
JOIN users u ON u.id = l.owner_id` + where + fmt.Sprintf(`
ORDER BY l.created_at DESC
LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, size, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("search listings: %w", err)
	}
	defer rows.Close()

	var listings []model.Listing
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan listing row: %w", err)
		}
		listings = append(listings, l)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate listing rows: %w", err)
	}

	return listings, total, nil
}

func buildListingWhere(filter SearchFilter) (string, []any) {
	var conds []string
	var args []any

	add := func(cond string, value any) {
		args = append(args, value)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if filter.Status != "" {
		add("l.status = $%d", string(filter.Status))
	}
	if filter.OwnerID > 0 {
		add("l.owner_id = $%d", filter.OwnerID)
	}
	if filter.District != "" {
		add("l.district = $%d", filter.District)
	}
	if filter.City != "" {
		add("l.city = $%d", filter.City)
	}
	if filter.RentOrSale != "" {
		add("l.rent_or_sale = $%d", string(filter.RentOrSale))
	}
	if filter.PropertyType != "" {
		add("l.property_type = $%d", string(filter.PropertyType))
	}
	if filter.MinPrice > 0 {
		add("l.price >= $%d", filter.MinPrice)
	}
	if filter.MaxPrice > 0 {
		add("l.price <= $%d", filter.MaxPrice)
	}
	if filter.MinBedrooms > 0 {
		add("l.bedrooms >= $%d", filter.MinBedrooms)
	}
	if filter.MinBathrooms > 0 {
		add("l.bathrooms >= $%d", filter.MinBathrooms)
	}

	if len(conds) == 0 {
		return "", nil
	}
	return "\nWHERE " + strings.Join(conds, " AND "), args
}

// SetStatus moves a listing to the given status. The rejection reason
// is stored only for REJECTED and cleared otherwise. closedAt is set
// for SOLD and RENTED and cleared otherwise.
func (r *ListingRepo) SetStatus(ctx context.Context, id int64, status enums.ListingStatus, rejectionReason string) error {
	if r.pool == nil {
		return fmt.Errorf("postgres pool is nil")
	}
	return setStatus(ctx, r.pool, id, status, rejectionReason)
}

// SetStatusTx is the transactional variant used when an audit row is
// written alongside the status change.
func (r *ListingRepo) SetStatusTx(ctx context.Context, tx pgx.Tx, id int64, status enums.ListingStatus, rejectionReason string) error {
	if tx == nil {
		return fmt.Errorf("transaction is required")
	}
	return setStatus(ctx, tx, id, status, rejectionReason)
}

type execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

func setStatus(ctx context.Context, db execer, id int64, status enums.ListingStatus, rejectionReason string) error {
	if status != enums.ListingStatusRejected {
		rejectionReason = ""
	}

	closed := status == enums.ListingStatusSold || status == enums.ListingStatusRented

	tag, err := db.Exec(ctx, `
UPDATE listings SET
	status = $2,
	rejection_reason = NULLIF($3, ''),
	closed_at = CASE WHEN $4 THEN NOW() ELSE NULL END,
	updated_at = NOW()
WHERE id = $1
`, id, string(status), rejectionReason, closed)
	if err != nil {
		return fmt.Errorf("set listing status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrListingNotFound
	}

	return nil
}

func (r *ListingRepo) Delete(ctx context.Context, id int64) error {
	if r.pool == nil {
		return fmt.Errorf("postgres pool is nil")
	}

	tag, err := r.pool.Exec(ctx, `DELETE FROM listings WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete listing: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrListingNotFound
	}

	return nil
}

func (r *ListingRepo) CountByStatus(ctx context.Context, status enums.ListingStatus) (int64, error) {
	if r.pool == nil {
		return 0, fmt.Errorf("postgres pool is nil")
	}

	var count int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM listings WHERE status = $1`, string(status)).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count listings by status: %w", err)
	}

	return count, nil
}

// CountByOwnerStatus returns per-status listing counts for one seller.
func (r *ListingRepo) CountByOwnerStatus(ctx context.Context, ownerID int64) (map[enums.ListingStatus]int64, error) {
	if r.pool == nil {
		return nil, fmt.Errorf("postgres pool is nil")
	}

	rows, err := r.pool.Query(ctx, `
SELECT status, COUNT(*)
FROM listings
WHERE owner_id = $1
GROUP BY status
`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("count listings by owner: %w", err)
	}
	defer rows.Close()

	counts := make(map[enums.ListingStatus]int64)
	for rows.Next() {
		var status string
		var count int64
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("scan owner status count: %w", err)
		}
		counts[enums.ListingStatus(status)] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate owner status counts: %w", err)
	}

	return counts, nil
}

// ArchiveClosedBefore archives SOLD and RENTED listings whose close
// date is older than the cutoff. Returns how many rows changed.
func (r *ListingRepo) ArchiveClosedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	if r.pool == nil {
		return 0, fmt.Errorf("postgres pool is nil")
	}

	tag, err := r.pool.Exec(ctx, `
UPDATE listings SET
	status = 'ARCHIVED',
	closed_at = NULL,
	updated_at = NOW()
WHERE status IN ('SOLD', 'RENTED') AND closed_at < $1
`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("archive closed listings: %w", err)
	}

	return tag.RowsAffected(), nil
}
