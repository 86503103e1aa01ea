package storage

import (
	"context"
	"fmt"

	"github.com/bobmcallan/rhsheets/internal/common"
)

// Backend type constants.
const (
	BackendFile = "file"
	BackendS3   = "s3"
)

// NewBlobStore creates a blob store based on the configuration.
// Supported backends: "file" (default), "s3".
func NewBlobStore(ctx context.Context, logger *common.Logger, config *common.StorageConfig) (BlobStore, error) {
	backend := config.Backend
	if backend == "" {
		backend = BackendFile
	}

	switch backend {
	case BackendFile:
		return NewFileBlobStore(logger, &config.File)

	case BackendS3:
		return NewS3BlobStore(ctx, logger, &config.S3)

	default:
		return nil, fmt.Errorf("unknown storage backend: %s (supported: file, s3)", backend)
	}
}
