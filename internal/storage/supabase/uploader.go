// Package supabase stores uploaded report images in a Supabase Storage bucket.
package supabase

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	supa "github.com/supabase-community/supabase-go"
	storage_go "github.com/supabase-community/storage-go"

	"quizdash/internal/config"
	"quizdash/internal/domain"
	reportSvc "quizdash/internal/domain/services/report"
)

// allowedImageTypes maps accepted content types to file extensions.
var allowedImageTypes = map[string]string{
	"image/png":  "png",
	"image/jpeg": "jpg",
	"image/gif":  "gif",
	"image/webp": "webp",
}

// ObjectStore is the subset of the storage-go client the uploader needs.
type ObjectStore interface {
	UploadFile(bucketID string, relativePath string, data io.Reader, fileOptions ...storage_go.FileOptions) (storage_go.FileUploadResponse, error)
	GetPublicUrl(bucketID string, filePath string, urlOptions ...storage_go.UrlOptions) storage_go.SignedUrlResponse
}

// ImageUploader writes images under uploads/ in a public bucket.
type ImageUploader struct {
	store  ObjectStore
	bucket string
	logger *slog.Logger
}

var _ reportSvc.ImageUploader = (*ImageUploader)(nil)

// NewImageUploader wraps an object store.
func NewImageUploader(store ObjectStore, bucket string, logger *slog.Logger) *ImageUploader {
	return &ImageUploader{store: store, bucket: bucket, logger: logger}
}

// NewFromClient builds an uploader on top of a Supabase project client.
func NewFromClient(url, key, bucket string, logger *slog.Logger) (*ImageUploader, error) {
	client, err := supa.NewClient(url, key, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create supabase client: %w", err)
	}
	return NewImageUploader(client.Storage, bucket, logger), nil
}

// Upload stores the image and returns its public URL.
// An empty contentType is sniffed from the data.
func (u *ImageUploader) Upload(ctx context.Context, data []byte, contentType string) (string, error) {
	if len(data) == 0 {
		return "", &domain.ValidationError{Message: "image is empty"}
	}
	if len(data) > config.MaxImageUploadBytes {
		return "", &domain.ValidationError{
			Message: fmt.Sprintf("image exceeds %d bytes", config.MaxImageUploadBytes),
		}
	}
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}
	ext, ok := allowedImageTypes[contentType]
	if !ok {
		return "", &domain.ValidationError{
			Message: fmt.Sprintf("unsupported image type %q", contentType),
		}
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	path := fmt.Sprintf("uploads/%s.%s", uuid.NewString(), ext)
	upsert := false
	if _, err := u.store.UploadFile(u.bucket, path, bytes.NewReader(data), storage_go.FileOptions{
		ContentType: &contentType,
		Upsert:      &upsert,
	}); err != nil {
		u.logger.Error("image upload failed", "bucket", u.bucket, "path", path, "error", err)
		return "", &domain.TransportError{Op: "upload image", Err: err}
	}

	publicURL := u.store.GetPublicUrl(u.bucket, path).SignedURL
	u.logger.Debug("image uploaded", "bucket", u.bucket, "path", path, "bytes", len(data))
	return publicURL, nil
}

// disabledUploader is used when no storage project is configured.
type disabledUploader struct{}

// NewDisabledUploader returns an uploader that always fails with a transport error.
func NewDisabledUploader() reportSvc.ImageUploader {
	return disabledUploader{}
}

func (disabledUploader) Upload(context.Context, []byte, string) (string, error) {
	return "", &domain.TransportError{Op: "upload image", Err: fmt.Errorf("image storage is not configured")}
}
