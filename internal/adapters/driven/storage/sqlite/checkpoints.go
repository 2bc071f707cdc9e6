package sqlite

import (
	"context"
	"fmt"

	"github.com/custodia-labs/jobtrack/internal/core/domain"
	"github.com/custodia-labs/jobtrack/internal/core/ports/driven"
)

// checkpointStore implements driven.CheckpointStore.
type checkpointStore struct {
	store *Store
}

var _ driven.CheckpointStore = (*checkpointStore)(nil)

// SaveCheckpoint stores or replaces the watermark for a user.
func (s *checkpointStore) SaveCheckpoint(ctx context.Context, cp domain.Checkpoint) error {
	if cp.UserID == "" {
		return domain.ErrInvalidInput
	}

	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO sync_checkpoints (user_id, last_synced_at_ms, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(user_id) DO UPDATE SET
			last_synced_at_ms = excluded.last_synced_at_ms,
			updated_at = excluded.updated_at
	`, cp.UserID, cp.LastSyncedAtEpochMs)
	if err != nil {
		return fmt.Errorf("saving checkpoint: %w", err)
	}
	return nil
}

// GetCheckpoint retrieves the watermark for a user.
func (s *checkpointStore) GetCheckpoint(ctx context.Context, userID string) (*domain.Checkpoint, error) {
	row := s.store.db.QueryRowContext(ctx,
		"SELECT user_id, last_synced_at_ms FROM sync_checkpoints WHERE user_id = ?", userID)

	var cp domain.Checkpoint
	if err := row.Scan(&cp.UserID, &cp.LastSyncedAtEpochMs); err != nil {
		if isNoRows(err) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning checkpoint: %w", err)
	}
	return &cp, nil
}

// DeleteCheckpoint removes the watermark for a user.
func (s *checkpointStore) DeleteCheckpoint(ctx context.Context, userID string) error {
	_, err := s.store.db.ExecContext(ctx, "DELETE FROM sync_checkpoints WHERE user_id = ?", userID)
	if err != nil {
		return fmt.Errorf("deleting checkpoint: %w", err)
	}
	return nil
}
