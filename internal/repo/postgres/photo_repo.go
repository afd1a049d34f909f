package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rukshanyomal11/CeylonHomes/internal/domain/model"
)

var ErrPhotoNotFound = errors.New("photo not found")

type PhotoRepo struct {
	pool *pgxpool.Pool
}

func NewPhotoRepo(pool *pgxpool.Pool) *PhotoRepo {
	return &PhotoRepo{pool: pool}
}

func (r *PhotoRepo) Create(ctx context.Context, photo model.Photo) (model.Photo, error) {
	if r.pool == nil {
		return model.Photo{}, fmt.Errorf("postgres pool is nil")
	}

	err := r.pool.QueryRow(ctx, `
INSERT INTO listing_photos (listing_id, object_key, position, created_at)
VALUES ($1, $2, COALESCE((SELECT MAX(position) + 1 FROM listing_photos WHERE listing_id = $1), 0), NOW())
RETURNING id, position, created_at
`, photo.ListingID, photo.ObjectKey).
		Scan(&photo.ID, &photo.Position, &photo.CreatedAt)
	if err != nil {
		return model.Photo{}, fmt.Errorf("create listing photo: %w", err)
	}

	return photo, nil
}

func (r *PhotoRepo) ListByListing(ctx context.Context, listingID int64) ([]model.Photo, error) {
	if r.pool == nil {
		return nil, fmt.Errorf("postgres pool is nil")
	}

	rows, err := r.pool.Query(ctx, `
SELECT id, listing_id, object_key, position, created_at
FROM listing_photos
WHERE listing_id = $1
ORDER BY position
`, listingID)
	if err != nil {
		return nil, fmt.Errorf("list listing photos: %w", err)
	}
	defer rows.Close()

	return collectPhotos(rows)
}

// ListByListings loads photos for a page of listings in one query,
// keyed by listing id.
func (r *PhotoRepo) ListByListings(ctx context.Context, listingIDs []int64) (map[int64][]model.Photo, error) {
	if r.pool == nil {
		return nil, fmt.Errorf("postgres pool is nil")
	}
	if len(listingIDs) == 0 {
		return map[int64][]model.Photo{}, nil
	}

	rows, err := r.pool.Query(ctx, `
SELECT id, listing_id, object_key, position, created_at
FROM listing_photos
WHERE listing_id = ANY($1)
ORDER BY listing_id, position
`, listingIDs)
	if err != nil {
		return nil, fmt.Errorf("list photos for listings: %w", err)
	}
	defer rows.Close()

	photos, err := collectPhotos(rows)
	if err != nil {
		return nil, err
	}

	byListing := make(map[int64][]model.Photo, len(listingIDs))
	for _, p := range photos {
		byListing[p.ListingID] = append(byListing[p.ListingID], p)
	}
	return byListing, nil
}

func (r *PhotoRepo) Get(ctx context.Context, id int64) (model.Photo, error) {
	if r.pool == nil {
		return model.Photo{}, fmt.Errorf("postgres pool is nil")
	}

	var photo model.Photo
	err := r.pool.QueryRow(ctx, `
SELECT id, listing_id, object_key, position, created_at
FROM listing_photos
WHERE id = $1
`, id).
		Scan(&photo.ID, &photo.ListingID, &photo.ObjectKey, &photo.Position, &photo.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Photo{}, ErrPhotoNotFound
		}
		return model.Photo{}, fmt.Errorf("get listing photo: %w", err)
	}

	return photo, nil
}

func (r *PhotoRepo) Delete(ctx context.Context, id int64) error {
	if r.pool == nil {
		return fmt.Errorf("postgres pool is nil")
	}

	tag, err := r.pool.Exec(ctx, `DELETE FROM listing_photos WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete listing photo: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrPhotoNotFound
	}

	return nil
}

func (r *PhotoRepo) DeleteByListing(ctx context.Context, listingID int64) ([]string, error) {
	if r.pool == nil {
		return nil, fmt.Errorf("postgres pool is nil")
	}

	rows, err := r.pool.Query(ctx, `
DELETE FROM listing_photos
WHERE listing_id = $1
RETURNING object_key
`, listingID)
	if err != nil {
		return nil, fmt.Errorf("delete photos for listing: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("scan deleted photo key: %w", err)
		}
		keys = append(keys, key)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate deleted photo keys: %w", err)
	}

	return keys, nil
}

func collectPhotos(rows pgx.Rows) ([]model.Photo, error) {
	var photos []model.Photo
	for rows.Next() {
		var p model.Photo
		if err := rows.Scan(&p.ID, &p.ListingID, &p.ObjectKey, &p.Position, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan photo row: %w", err)
		}
		photos = append(photos, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate photo rows: %w", err)
	}
	return photos, nil
}
