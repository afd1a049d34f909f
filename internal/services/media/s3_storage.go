package media

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/minio/minio-go/v7"
)

// S3Storage keeps listing photos in one MinIO bucket. Object keys are
// built by the media service (listings/<id>/<random>.<ext>); storage
// treats them as opaque.
type S3Storage struct {
	client *minio.Client
	bucket string

	createOnce sync.Once
	createErr  error
}

func NewS3Storage(client *minio.Client, bucket string) *S3Storage {
	return &S3Storage{
		client: client,
		bucket: strings.TrimSpace(bucket),
	}
}

func (s *S3Storage) ready() error {
	if s.client == nil {
		return fmt.Errorf("s3 client is nil")
	}
	if s.bucket == "" {
		return fmt.Errorf("s3 bucket is empty")
	}
	return nil
}

// EnsureBucket creates the photo bucket on first use. The result is
// cached so only the first upload pays the round trip.
func (s *S3Storage) EnsureBucket(ctx context.Context) error {
	if err := s.ready(); err != nil {
		return err
	}

	s.createOnce.Do(func() {
		exists, err := s.client.BucketExists(ctx, s.bucket)
		if err != nil {
			s.createErr = err
			return
		}
		if !exists {
			s.createErr = s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{})
		}
	})

	if s.createErr != nil {
		return fmt.Errorf("ensure photo bucket %q: %w", s.bucket, s.createErr)
	}
	return nil
}

func (s *S3Storage) PutPhoto(ctx context.Context, key string, body io.Reader, size int64, contentType string) error {
	if err := s.ready(); err != nil {
		return err
	}
	if key == "" || body == nil || size == 0 {
		return ErrValidation
	}

	_, err := s.client.PutObject(ctx, s.bucket, key, body, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("put photo %q: %w", key, err)
	}
	return nil
}

// PresignGet returns a short-lived signed URL for one photo. Photos
// render inline in the listing gallery, never as downloads.
func (s *S3Storage) PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error) {
	if err := s.ready(); err != nil {
		return "", err
	}
	if key == "" {
		return "", ErrValidation
	}
	if ttl <= 0 {
		ttl = signedURLTTL
	}

	params := url.Values{}
	params.Set("response-content-disposition", "inline")

	presigned, err := s.client.PresignedGetObject(ctx, s.bucket, key, ttl, params)
	if err != nil {
		return "", fmt.Errorf("presign photo %q: %w", key, err)
	}
	return presigned.String(), nil
}

// Delete removes one photo object. Missing keys are not an error: the
// database record is the source of truth and may outlive the object.
func (s *S3Storage) Delete(ctx context.Context, key string) error {
	if s.client == nil || key == "" {
		return nil
	}
	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("delete photo %q: %w", key, err)
	}
	return nil
}
