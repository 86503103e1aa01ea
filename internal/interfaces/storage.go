package interfaces

import (
	"context"

	"github.com/bobmcallan/rhsheets/internal/models"
)

// SnapshotStore persists the ticker-keyed holdings map captured from a live fetch
type SnapshotStore interface {
	// Load returns the last saved snapshot. Returns storage.ErrBlobNotFound if none exists.
	Load(ctx context.Context) (map[string]models.HoldingAttributes, error)

	// Save overwrites the snapshot
	Save(ctx context.Context, holdings map[string]models.HoldingAttributes) error
}
