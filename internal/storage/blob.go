// Package storage provides blob-based persistence for holdings snapshots.
package storage

import (
	"context"
	"errors"
	"time"
)

// Common errors for blob storage operations.
var (
	ErrBlobNotFound = errors.New("blob not found")
)

// BlobMetadata contains metadata about a stored blob.
type BlobMetadata struct {
	Key          string    `json:"key"`
	Size         int64     `json:"size"`
	LastModified time.Time `json:"last_modified"`
	ETag         string    `json:"etag,omitempty"`
}

// BlobStore defines a provider-agnostic interface for blob storage.
// Implementations: FileBlobStore (local), S3BlobStore (AWS and S3-compatible).
type BlobStore interface {
	// Get retrieves a blob by key. Returns ErrBlobNotFound if not found.
	Get(ctx context.Context, key string) ([]byte, error)

	// Put stores a blob. Overwrites if exists.
	Put(ctx context.Context, key string, data []byte) error

	// Exists checks if a blob exists.
	Exists(ctx context.Context, key string) (bool, error)

	// Metadata returns metadata for a blob. Returns ErrBlobNotFound if not found.
	Metadata(ctx context.Context, key string) (*BlobMetadata, error)

	// Close releases any resources held by the store.
	Close() error
}
