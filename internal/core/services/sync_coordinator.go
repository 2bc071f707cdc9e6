package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/custodia-labs/jobtrack/internal/core/domain"
	"github.com/custodia-labs/jobtrack/internal/core/ports/driven"
	"github.com/custodia-labs/jobtrack/internal/core/ports/driving"
)

// Verify interface compliance.
var _ driving.SyncCoordinator = (*SyncCoordinator)(nil)

// SyncCoordinator owns the observable sync state. It runs a full sync
// whenever a user signs in and whenever SyncNow is called.
//
// Overlapping syncs for the same user are coalesced: a caller arriving
// while one is running waits for it and receives its result. Syncs for
// different users run one after the other.
type SyncCoordinator struct {
	stores      driven.LocalStores
	remote      driven.RemoteStore
	auth        driven.AuthProvider
	clock       driven.Clock
	checkpoints driven.CheckpointStore

	inflight singleflight.Group
	runMu    sync.Mutex

	mu          sync.RWMutex
	state       domain.SyncState
	report      domain.SyncReport
	subscribers map[chan domain.SyncState]struct{}

	lifeMu sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// CoordinatorOption configures a SyncCoordinator.
type CoordinatorOption func(*SyncCoordinator)

// WithCheckpointStore persists the watermark per user so a restart does
// not pull everything again.
func WithCheckpointStore(store driven.CheckpointStore) CoordinatorOption {
	return func(c *SyncCoordinator) {
		c.checkpoints = store
	}
}

// NewSyncCoordinator creates a coordinator. Call Start to follow the auth state.
func NewSyncCoordinator(
	stores driven.LocalStores,
	remote driven.RemoteStore,
	auth driven.AuthProvider,
	clock driven.Clock,
	opts ...CoordinatorOption,
) *SyncCoordinator {
	c := &SyncCoordinator{
		stores:      stores,
		remote:      remote,
		auth:        auth,
		clock:       clock,
		report:      domain.NewSyncReport(),
		subscribers: make(map[chan domain.SyncState]struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// State returns a snapshot of the current sync state.
func (c *SyncCoordinator) State() domain.SyncState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// LastReport returns the counts from the last successful sync.
func (c *SyncCoordinator) LastReport() domain.SyncReport {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.report
}

// Subscribe emits the current state, then every change until ctx is done.
// A slow subscriber only sees the latest state.
func (c *SyncCoordinator) Subscribe(ctx context.Context) <-chan domain.SyncState {
	ch := make(chan domain.SyncState, 1)

	c.mu.Lock()
	ch <- c.state
	c.subscribers[ch] = struct{}{}
	c.mu.Unlock()

	go func() {
		<-ctx.Done()
		c.mu.Lock()
		delete(c.subscribers, ch)
		close(ch)
		c.mu.Unlock()
	}()

	return ch
}

// Start follows the auth state in the background. Every signed-in state
// triggers a full sync. Calling Start again while running is a no-op.
func (c *SyncCoordinator) Start(ctx context.Context) error {
	c.lifeMu.Lock()
	defer c.lifeMu.Unlock()

	if c.cancel != nil {
		return nil
	}

	ctx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	states := c.auth.ObserveState(ctx)

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		for st := range states {
			if !st.SignedIn() {
				syncLog.Debug("signed out")
				continue
			}
			syncLog.Debug("signed in as %s, syncing", st.UserID)
			// Failures are recorded in the state.
			_ = c.SyncNow(ctx, st.UserID)
		}
	}()
	return nil
}

// Stop ends the auth subscription and waits for a running sync to finish.
func (c *SyncCoordinator) Stop() {
	c.lifeMu.Lock()
	cancel := c.cancel
	c.cancel = nil
	c.lifeMu.Unlock()

	if cancel != nil {
		cancel()
	}
	c.wg.Wait()
}

// SyncNow runs a full sync for userID from the last watermark.
func (c *SyncCoordinator) SyncNow(ctx context.Context, userID string) error {
	if userID == "" {
		return domain.ErrAuthRequired
	}
	_, err, shared := c.inflight.Do(userID, func() (any, error) {
		return nil, c.run(ctx, userID)
	})
	if shared {
		syncLog.Debug("joined in-flight sync for %s", userID)
	}
	return err
}

// TrySyncNow is SyncNow without waiting: it returns domain.ErrSyncInProgress
// when any sync is already running.
func (c *SyncCoordinator) TrySyncNow(ctx context.Context, userID string) error {
	if userID == "" {
		return domain.ErrAuthRequired
	}
	if !c.runMu.TryLock() {
		return domain.ErrSyncInProgress
	}
	c.runMu.Unlock()
	return c.SyncNow(ctx, userID)
}

func (c *SyncCoordinator) run(ctx context.Context, userID string) error {
	c.runMu.Lock()
	defer c.runMu.Unlock()

	c.update(func(s *domain.SyncState) {
		s.IsSyncing = true
		s.SyncError = nil
	})

	since := c.watermark(ctx, userID)
	syncLog.Info("starting sync for %s from %d", userID, since)

	engine := NewSyncEngine(c.stores, c.remote, c.clock, userID)
	report, err := engine.PerformFullSync(ctx, since)
	if err != nil {
		syncLog.Error("sync failed: %v", err)
		c.update(func(s *domain.SyncState) {
			s.IsSyncing = false
			s.SyncError = err
		})
		return err
	}

	now := c.clock.NowEpochMs()
	if c.checkpoints != nil {
		cp := domain.Checkpoint{UserID: userID, LastSyncedAtEpochMs: now}
		if err := c.checkpoints.SaveCheckpoint(ctx, cp); err != nil {
			syncLog.Warn("save checkpoint: %v", err)
		}
	}

	c.mu.Lock()
	c.report = report
	c.mu.Unlock()
	c.update(func(s *domain.SyncState) {
		*s = domain.SyncState{LastSyncedAtEpochMs: &now}
	})
	return nil
}

// watermark prefers the persisted checkpoint and falls back to the last
// in-process sync.
func (c *SyncCoordinator) watermark(ctx context.Context, userID string) int64 {
	if c.checkpoints != nil {
		cp, err := c.checkpoints.GetCheckpoint(ctx, userID)
		switch {
		case err == nil:
			return cp.LastSyncedAtEpochMs
		case errors.Is(err, domain.ErrNotFound):
			return 0
		default:
			syncLog.Warn("load checkpoint: %v", err)
		}
	}
	return c.State().LastSynced()
}

// RefreshPending recomputes NeedsSync from the local dirty rows and, for a
// signed-in user with a stored checkpoint, restores the last sync time.
func (c *SyncCoordinator) RefreshPending(ctx context.Context) error {
	pending, err := c.pendingCount(ctx)
	if err != nil {
		return err
	}

	var last *int64
	if userID := c.auth.CurrentUserID(); userID != "" && c.checkpoints != nil {
		cp, err := c.checkpoints.GetCheckpoint(ctx, userID)
		switch {
		case err == nil:
			last = &cp.LastSyncedAtEpochMs
		case !errors.Is(err, domain.ErrNotFound):
			return fmt.Errorf("load checkpoint: %w", err)
		}
	}

	c.update(func(s *domain.SyncState) {
		s.NeedsSync = pending > 0
		if last != nil && s.LastSyncedAtEpochMs == nil {
			s.LastSyncedAtEpochMs = last
		}
	})
	return nil
}

func (c *SyncCoordinator) pendingCount(ctx context.Context) (int, error) {
	counts := []func(context.Context) (int, error){
		pendingOf[domain.Application](c.stores.Applications),
		pendingOf[domain.Task](c.stores.Tasks),
		pendingOf[domain.Interview](c.stores.Interviews),
		pendingOf[domain.Contact](c.stores.Contacts),
		pendingOf[domain.StatusHistory](c.stores.StatusHistory),
	}
	total := 0
	for _, count := range counts {
		n, err := count(ctx)
		if err != nil {
			return 0, err
		}
		total += n
	}
	return total, nil
}

func pendingOf[T any](store driven.SyncStore[T]) func(context.Context) (int, error) {
	return func(ctx context.Context) (int, error) {
		rows, err := store.PendingSync(ctx)
		if err != nil {
			return 0, fmt.Errorf("list pending: %w", err)
		}
		return len(rows), nil
	}
}

// update applies fn to the state and publishes the result.
func (c *SyncCoordinator) update(fn func(*domain.SyncState)) {
	c.mu.Lock()
	defer c.mu.Unlock()

	fn(&c.state)
	state := c.state
	for ch := range c.subscribers {
		select {
		case <-ch:
		default:
		}
		ch <- state
	}
}
