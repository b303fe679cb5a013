// Package photos stores planner photo attachments in S3-compatible
// object storage.
package photos

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MaxUploadBytes caps a single photo upload.
const MaxUploadBytes = 5 << 20

// ErrTooLarge is returned when an upload exceeds MaxUploadBytes.
var ErrTooLarge = errors.New("photo exceeds maximum size")

// ErrNotImage is returned for uploads that are not a supported image type.
var ErrNotImage = errors.New("only image uploads are accepted")

var extByContentType = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

// Config holds object storage connection settings.
type Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// Service wraps a MinIO client for photo objects.
type Service struct {
	client *minio.Client
	bucket string
}

// NewService connects to the object store and ensures the bucket exists.
func NewService(ctx context.Context, cfg Config) (*Service, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("connect to object store: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket: %w", err)
		}
	}

	return &Service{client: client, bucket: cfg.Bucket}, nil
}

// NewServiceWithClient creates a service from an existing client. Used in
// tests.
func NewServiceWithClient(client *minio.Client, bucket string) *Service {
	return &Service{client: client, bucket: bucket}
}

// UploadRequest describes one photo upload.
type UploadRequest struct {
	StoreID     int64
	Date        string
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// Upload validates and stores a photo, returning the object key.
func (s *Service) Upload(ctx context.Context, req UploadRequest) (string, error) {
	if req.Size > MaxUploadBytes {
		return "", ErrTooLarge
	}
	ext, ok := extByContentType[strings.ToLower(req.ContentType)]
	if !ok {
		return "", ErrNotImage
	}

	key := fmt.Sprintf("stores/%d/%s/%s%s", req.StoreID, req.Date, uuid.NewString(), ext)

	// The reader is capped independently of the client-reported size.
	_, err := s.client.PutObject(ctx, s.bucket, key,
		io.LimitReader(req.Body, MaxUploadBytes+1), req.Size,
		minio.PutObjectOptions{ContentType: req.ContentType})
	if err != nil {
		return "", fmt.Errorf("store photo: %w", err)
	}

	return key, nil
}

// PresignedURL returns a time-limited download link for a stored photo.
func (s *Service) PresignedURL(ctx context.Context, key string, expiry time.Duration) (string, error) {
	params := url.Values{}
	params.Set("response-content-disposition", fmt.Sprintf("inline; filename=%q", path.Base(key)))

	u, err := s.client.PresignedGetObject(ctx, s.bucket, key, expiry, params)
	if err != nil {
		return "", fmt.Errorf("presign photo url: %w", err)
	}
	return u.String(), nil
}

// Delete removes a stored photo.
func (s *Service) Delete(ctx context.Context, key string) error {
	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("delete photo: %w", err)
	}
	return nil
}

// Ping verifies object store connectivity.
func (s *Service) Ping(ctx context.Context) error {
	if _, err := s.client.BucketExists(ctx, s.bucket); err != nil {
		return fmt.Errorf("object store ping: %w", err)
	}
	return nil
}
