package memory

import (
	"context"
	"sync"

	"github.com/custodia-labs/jobtrack/internal/core/domain"
	"github.com/custodia-labs/jobtrack/internal/core/ports/driven"
)

// Ensure CheckpointStore implements the interface.
var _ driven.CheckpointStore = (*CheckpointStore)(nil)

// CheckpointStore is an in-memory implementation of driven.CheckpointStore.
type CheckpointStore struct {
	mu          sync.RWMutex
	checkpoints map[string]domain.Checkpoint
}

// NewCheckpointStore creates a new in-memory checkpoint store.
func NewCheckpointStore() *CheckpointStore {
	return &CheckpointStore{
		checkpoints: make(map[string]domain.Checkpoint),
	}
}

// SaveCheckpoint stores or replaces the watermark for a user.
func (s *CheckpointStore) SaveCheckpoint(_ context.Context, cp domain.Checkpoint) error {
	if cp.UserID == "" {
		return domain.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.checkpoints[cp.UserID] = cp
	return nil
}

// GetCheckpoint retrieves the watermark for a user.
func (s *CheckpointStore) GetCheckpoint(_ context.Context, userID string) (*domain.Checkpoint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cp, ok := s.checkpoints[userID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &cp, nil
}

// DeleteCheckpoint removes the watermark for a user.
func (s *CheckpointStore) DeleteCheckpoint(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.checkpoints, userID)
	return nil
}
