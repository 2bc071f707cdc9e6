package driven

import (
	"context"

	"github.com/custodia-labs/jobtrack/internal/core/domain"
)

// CheckpointStore persists the per-user sync watermark.
type CheckpointStore interface {
	// SaveCheckpoint stores or replaces the checkpoint for its user.
	SaveCheckpoint(ctx context.Context, cp domain.Checkpoint) error

	// GetCheckpoint returns domain.ErrNotFound if the user has never synced.
	GetCheckpoint(ctx context.Context, userID string) (*domain.Checkpoint, error)

	// DeleteCheckpoint removes the checkpoint for a user.
	DeleteCheckpoint(ctx context.Context, userID string) error
}
