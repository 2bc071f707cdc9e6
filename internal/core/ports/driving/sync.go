package driving

import (
	"context"

	"github.com/custodia-labs/jobtrack/internal/core/domain"
)

// SyncCoordinator owns the sync state and runs full syncs on demand and
// whenever a user signs in.
type SyncCoordinator interface {
	// State returns a snapshot of the current sync state.
	State() domain.SyncState

	// Subscribe emits the current state, then every change.
	// The channel is closed when ctx is done.
	Subscribe(ctx context.Context) <-chan domain.SyncState

	// Start begins following the auth state. Each sign-in triggers a sync.
	Start(ctx context.Context) error

	// Stop ends the auth subscription and waits for it to finish.
	Stop()

	// SyncNow runs a full sync for userID. Overlapping calls share one run.
	SyncNow(ctx context.Context, userID string) error

	// TrySyncNow starts a sync only if none is running, otherwise it
	// returns domain.ErrSyncInProgress.
	TrySyncNow(ctx context.Context, userID string) error

	// LastReport returns the counts from the last successful sync.
	LastReport() domain.SyncReport

	// RefreshPending recomputes NeedsSync from the local dirty rows.
	RefreshPending(ctx context.Context) error
}

// Scheduler runs periodic background syncs.
type Scheduler interface {
	// Start begins running scheduled syncs.
	// Blocks until context is cancelled.
	Start(ctx context.Context) error

	// Stop gracefully stops the scheduler.
	Stop() error
}

// AuthService signs users in and out.
type AuthService interface {
	SignIn(ctx context.Context, email, password string) (string, error)
	SignUp(ctx context.Context, email, password string) (string, error)
	SignOut(ctx context.Context) error
	CurrentUserID() string
}
