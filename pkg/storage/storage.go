// Package storage defines the object storage abstraction used for entity
// attachments and archived CSV imports. Backends: local filesystem and
// S3-compatible object storage (AWS S3, MinIO, OSS).
package storage

import (
	"context"
	"io"
)

// Storage defines the interface for object storage operations.
type Storage interface {
	// PutObject uploads a file to storage under key ("{fileID}/{fileName}").
	PutObject(ctx context.Context, key string, data io.Reader, contentType string, size int64) error

	// GetObject retrieves a file from storage.
	// Returns a ReadCloser that must be closed by the caller.
	GetObject(ctx context.Context, key string) (io.ReadCloser, error)

	// DeleteObject removes a file from storage.
	DeleteObject(ctx context.Context, key string) error

	// ObjectExists checks if an object exists in storage.
	ObjectExists(ctx context.Context, key string) (bool, error)

	// GenerateURL creates an access URL for the object.
	// Local storage and S3 proxy mode return the API download path,
	// S3 presigned mode returns a presigned URL.
	GenerateURL(ctx context.Context, key string, fileName string) (string, error)

	// Type returns the storage type identifier ("local" or "s3").
	Type() string
}
