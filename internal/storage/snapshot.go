package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"maps"

	"github.com/bobmcallan/rhsheets/internal/common"
	"github.com/bobmcallan/rhsheets/internal/interfaces"
	"github.com/bobmcallan/rhsheets/internal/models"
)

// SnapshotStore keeps the ticker-keyed holdings map as one JSON blob
type SnapshotStore struct {
	blob   BlobStore
	key    string
	logger *common.Logger
}

var _ interfaces.SnapshotStore = (*SnapshotStore)(nil)

// NewSnapshotStore stores the snapshot under key in blob
func NewSnapshotStore(blob BlobStore, key string, logger *common.Logger) *SnapshotStore {
	return &SnapshotStore{blob: blob, key: key, logger: logger}
}

// Load reads and decodes the snapshot
func (s *SnapshotStore) Load(ctx context.Context) (map[string]models.HoldingAttributes, error) {
	data, err := s.blob.Get(ctx, s.key)
	if err != nil {
		if errors.Is(err, ErrBlobNotFound) {
			return nil, fmt.Errorf("holdings snapshot %s: %w", s.key, err)
		}
		return nil, err
	}

	var holdings map[string]models.HoldingAttributes
	if err := json.Unmarshal(data, &holdings); err != nil {
		return nil, fmt.Errorf("decode holdings snapshot %s: %w", s.key, err)
	}

	event := s.logger.Info().Str("key", s.key).Int("holdings", len(holdings))
	if meta, err := s.blob.Metadata(ctx, s.key); err == nil {
		event = event.Time("captured", meta.LastModified)
	}
	event.Msg("Loaded holdings snapshot")

	return holdings, nil
}

// Save encodes the holdings as indented JSON and overwrites the snapshot.
// Attributes of the previous snapshot that the new holdings do not carry
// are kept for tickers present in both.
func (s *SnapshotStore) Save(ctx context.Context, holdings map[string]models.HoldingAttributes) error {
	prev, err := s.previous(ctx)
	if err != nil {
		return err
	}

	merged := make(map[string]models.HoldingAttributes, len(holdings))
	kept := 0
	for ticker, attrs := range holdings {
		attrs.Extra = maps.Clone(attrs.Extra)
		if old, ok := prev[ticker]; ok && len(old.Extra) > 0 {
			attrs.MergeExtra(old)
			kept++
		}
		merged[ticker] = attrs
	}

	data, err := json.MarshalIndent(merged, "", "  ")
	if err != nil {
		return fmt.Errorf("encode holdings snapshot: %w", err)
	}
	if err := s.blob.Put(ctx, s.key, data); err != nil {
		return fmt.Errorf("save holdings snapshot %s: %w", s.key, err)
	}

	s.logger.Info().Str("key", s.key).Int("holdings", len(merged)).Int("extra_kept", kept).Msg("Saved holdings snapshot")
	return nil
}

// previous returns the snapshot being replaced, or nil when there is none.
// An undecodable snapshot is replaced without merging.
func (s *SnapshotStore) previous(ctx context.Context) (map[string]models.HoldingAttributes, error) {
	exists, err := s.blob.Exists(ctx, s.key)
	if err != nil {
		return nil, fmt.Errorf("check holdings snapshot %s: %w", s.key, err)
	}
	if !exists {
		return nil, nil
	}

	data, err := s.blob.Get(ctx, s.key)
	if err != nil {
		return nil, fmt.Errorf("read holdings snapshot %s: %w", s.key, err)
	}
	var prev map[string]models.HoldingAttributes
	if err := json.Unmarshal(data, &prev); err != nil {
		s.logger.Warn().Err(err).Str("key", s.key).Msg("Replacing undecodable holdings snapshot")
		return nil, nil
	}
	return prev, nil
}
