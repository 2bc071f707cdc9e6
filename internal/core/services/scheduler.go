package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/custodia-labs/jobtrack/internal/core/domain"
	"github.com/custodia-labs/jobtrack/internal/core/ports/driven"
	"github.com/custodia-labs/jobtrack/internal/core/ports/driving"
)

// Verify interface compliance.
var _ driving.Scheduler = (*Scheduler)(nil)

// Scheduler triggers a sync for the signed-in user at a fixed interval.
// A tick that finds a sync already running is skipped.
type Scheduler struct {
	interval time.Duration
	auth     driven.AuthProvider
	coord    driving.SyncCoordinator

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	wg      sync.WaitGroup
}

// NewScheduler creates a scheduler. A non-positive interval disables it.
func NewScheduler(interval time.Duration, auth driven.AuthProvider, coord driving.SyncCoordinator) *Scheduler {
	return &Scheduler{
		interval: interval,
		auth:     auth,
		coord:    coord,
	}
}

// Start runs the scheduler loop. It blocks until Stop is called or ctx is
// cancelled, and returns immediately when the scheduler is disabled.
func (s *Scheduler) Start(ctx context.Context) error {
	if s.interval <= 0 {
		syncLog.Debug("scheduler disabled")
		return nil
	}

	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return nil // Already running
	}
	s.running = true
	s.stopCh = make(chan struct{})
	stopCh := s.stopCh
	s.wg.Add(1)
	s.mu.Unlock()

	defer s.wg.Done()
	err := s.run(ctx, stopCh)

	s.mu.Lock()
	if s.stopCh == stopCh {
		s.running = false
	}
	s.mu.Unlock()
	return err
}

// Stop ends the loop and waits for an in-progress sync to finish.
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = false
	close(s.stopCh)
	s.mu.Unlock()

	s.wg.Wait()
	return nil
}

func (s *Scheduler) run(ctx context.Context, stopCh <-chan struct{}) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-stopCh:
			return nil
		case <-ticker.C:
			s.tick(ctx)
		}
	}
}

func (s *Scheduler) tick(ctx context.Context) {
	userID := s.auth.CurrentUserID()
	if userID == "" {
		syncLog.Debug("scheduler: not signed in, skipping")
		return
	}
	err := s.coord.TrySyncNow(ctx, userID)
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrSyncInProgress):
		syncLog.Debug("scheduler: sync already running, skipping")
	default:
		syncLog.Warn("scheduler: sync failed: %v", err)
	}
}
