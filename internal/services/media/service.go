package media

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/rukshanyomal11/CeylonHomes/internal/domain/model"
)

var (
	ErrValidation        = errors.New("validation error")
	ErrPhotoLimitReached = errors.New("photo limit reached")
	ErrPhotoNotFound     = errors.New("photo not found")
)

const signedURLTTL = 15 * time.Minute

type Store interface {
	Create(ctx context.Context, photo model.Photo) (model.Photo, error)
	ListByListing(ctx context.Context, listingID int64) ([]model.Photo, error)
	ListByListings(ctx context.Context, listingIDs []int64) (map[int64][]model.Photo, error)
	Get(ctx context.Context, id int64) (model.Photo, error)
	Delete(ctx context.Context, id int64) error
	DeleteByListing(ctx context.Context, listingID int64) ([]string, error)
}

type ObjectStorage interface {
	EnsureBucket(ctx context.Context) error
	PutPhoto(ctx context.Context, key string, body io.Reader, size int64, contentType string) error
	PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error)
	Delete(ctx context.Context, key string) error
}

type Service struct {
	store     Store
	storage   ObjectStorage
	maxPhotos int
}

func NewService(store Store, storage ObjectStorage, maxPhotos int) *Service {
	if maxPhotos <= 0 {
		maxPhotos = 10
	}
	return &Service{
		store:     store,
		storage:   storage,
		maxPhotos: maxPhotos,
	}
}

// Upload stores one photo object and its database record for a
// listing. The record is rolled back if the object write succeeded
// but the insert failed.
func (s *Service) Upload(ctx context.Context, listingID int64, fileName, contentType string, body io.Reader, size int64) (model.Photo, error) {
	if listingID <= 0 || body == nil || size <= 0 {
		return model.Photo{}, ErrValidation
	}
	if s.store == nil || s.storage == nil {
		return model.Photo{}, fmt.Errorf("media dependencies are not configured")
	}

	existing, err := s.store.ListByListing(ctx, listingID)
	if err != nil {
		return model.Photo{}, fmt.Errorf("count listing photos: %w", err)
	}
	if len(existing) >= s.maxPhotos {
		return model.Photo{}, ErrPhotoLimitReached
	}

	if err := s.storage.EnsureBucket(ctx); err != nil {
		return model.Photo{}, fmt.Errorf("ensure bucket: %w", err)
	}

	objectKey, err := buildPhotoObjectKey(listingID, fileName)
	if err != nil {
		return model.Photo{}, fmt.Errorf("build object key: %w", err)
	}

	if strings.TrimSpace(contentType) == "" {
		contentType = "application/octet-stream"
	}

	if err := s.storage.PutPhoto(ctx, objectKey, body, size, contentType); err != nil {
		return model.Photo{}, fmt.Errorf("put object: %w", err)
	}

	record, err := s.store.Create(ctx, model.Photo{ListingID: listingID, ObjectKey: objectKey})
	if err != nil {
		_ = s.storage.Delete(ctx, objectKey)
		return model.Photo{}, fmt.Errorf("create photo record: %w", err)
	}

	url, err := s.storage.PresignGet(ctx, record.ObjectKey, signedURLTTL)
	if err != nil {
		return model.Photo{}, fmt.Errorf("presign photo url: %w", err)
	}
	record.URL = url

	return record, nil
}

func (s *Service) ListForListing(ctx context.Context, listingID int64) ([]model.Photo, error) {
	if listingID <= 0 {
		return nil, ErrValidation
	}
	if s.store == nil || s.storage == nil {
		return nil, fmt.Errorf("media dependencies are not configured")
	}

	photos, err := s.store.ListByListing(ctx, listingID)
	if err != nil {
		return nil, fmt.Errorf("list listing photos: %w", err)
	}

	for i := range photos {
		url, err := s.storage.PresignGet(ctx, photos[i].ObjectKey, signedURLTTL)
		if err != nil {
			return nil, fmt.Errorf("presign photo url: %w", err)
		}
		photos[i].URL = url
	}

	return photos, nil
}

// AttachPhotos loads and signs photos for a page of listings.
func (s *Service) AttachPhotos(ctx context.Context, listings []model.Listing) error {
	if len(listings) == 0 {
		return nil
	}
	if s.store == nil || s.storage == nil {
		return fmt.Errorf("media dependencies are not configured")
	}

	ids := make([]int64, 0, len(listings))
	for _, l := range listings {
		ids = append(ids, l.ID)
	}

	byListing, err := s.store.ListByListings(ctx, ids)
	if err != nil {
		return fmt.Errorf("load photos for listings: %w", err)
	}

	for i := range listings {
		photos := byListing[listings[i].ID]
		for j := range photos {
			url, err := s.storage.PresignGet(ctx, photos[j].ObjectKey, signedURLTTL)
			if err != nil {
				return fmt.Errorf("presign photo url: %w", err)
			}
			photos[j].URL = url
		}
		if photos == nil {
			photos = []model.Photo{}
		}
		listings[i].Photos = photos
	}

	return nil
}

// FindListing reports which listing a photo belongs to.
func (s *Service) FindListing(ctx context.Context, photoID int64) (int64, error) {
	if photoID <= 0 {
		return 0, ErrValidation
	}
	if s.store == nil {
		return 0, fmt.Errorf("media dependencies are not configured")
	}

	photo, err := s.store.Get(ctx, photoID)
	if err != nil {
		return 0, ErrPhotoNotFound
	}
	return photo.ListingID, nil
}

// Delete removes one photo owned by the given listing.
func (s *Service) Delete(ctx context.Context, listingID, photoID int64) error {
	if listingID <= 0 || photoID <= 0 {
		return ErrValidation
	}
	if s.store == nil || s.storage == nil {
		return fmt.Errorf("media dependencies are not configured")
	}

	photo, err := s.store.Get(ctx, photoID)
	if err != nil {
		return ErrPhotoNotFound
	}
	if photo.ListingID != listingID {
		return ErrPhotoNotFound
	}

	if err := s.store.Delete(ctx, photoID); err != nil {
		return fmt.Errorf("delete photo record: %w", err)
	}
	if err := s.storage.Delete(ctx, photo.ObjectKey); err != nil {
		return fmt.Errorf("delete photo object: %w", err)
	}

	return nil
}

// DeleteAllForListing removes every photo record and object for a
// listing, used when the listing itself is deleted.
func (s *Service) DeleteAllForListing(ctx context.Context, listingID int64) error {
	if listingID <= 0 {
		return ErrValidation
	}
	if s.store == nil || s.storage == nil {
		return fmt.Errorf("media dependencies are not configured")
	}

	keys, err := s.store.DeleteByListing(ctx, listingID)
	if err != nil {
		return fmt.Errorf("delete photo records: %w", err)
	}
	for _, key := range keys {
		if err := s.storage.Delete(ctx, key); err != nil {
			return fmt.Errorf("delete photo object: %w", err)
		}
	}

	return nil
}

func buildPhotoObjectKey(listingID int64, fileName string) (string, error) {
	suffix := strings.ToLower(path.Ext(fileName))
	if suffix == "" {
		suffix = ".jpg"
	}

	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}

	return fmt.Sprintf("listings/%d/%s%s", listingID, hex.EncodeToString(b), suffix), nil
}
