package services

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/jobtrack/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/jobtrack/internal/core/domain"
	"github.com/custodia-labs/jobtrack/internal/core/ports/driven"
)

const testUser = "user-1"

// fakeClock is a settable driven.Clock.
type fakeClock struct {
	mu  sync.Mutex
	now int64
}

func newFakeClock(start int64) *fakeClock {
	return &fakeClock{now: start}
}

func (c *fakeClock) NowEpochMs() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Set(now int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = now
}

// Advance moves the clock forward and returns the new time.
func (c *fakeClock) Advance(ms int64) int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now += ms
	return c.now
}

// seqIDs issues predictable IDs.
type seqIDs struct {
	mu     sync.Mutex
	prefix string
	n      int
}

func (g *seqIDs) NewID() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return fmt.Sprintf("%s%d", g.prefix, g.n)
}

// fixture wires the services to in-memory stores.
type fixture struct {
	ctx        context.Context
	clock      *fakeClock
	ids        *seqIDs
	stores     driven.LocalStores
	remote     *memory.RemoteStore
	apps       *ApplicationRepository
	tasks      *TaskRepository
	interviews *InterviewRepository
	contacts   *ContactRepository
	history    *StatusHistoryRepository
	tracker    *Tracker
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	return newFixtureOn(t, memory.NewLocalStores(), memory.NewRemoteStore(), newFakeClock(1_000), "id-")
}

// newFixtureOn wires the services to the given stores. Fixtures sharing a
// remote act as separate devices and need distinct ID prefixes.
func newFixtureOn(
	t *testing.T,
	stores driven.LocalStores,
	remote *memory.RemoteStore,
	clock *fakeClock,
	idPrefix string,
) *fixture {
	t.Helper()

	f := &fixture{
		ctx:    context.Background(),
		clock:  clock,
		ids:    &seqIDs{prefix: idPrefix},
		stores: stores,
		remote: remote,
	}
	f.apps = NewApplicationRepository(f.stores.Applications, f.stores.StatusHistory, f.clock, f.ids)
	f.tasks = NewTaskRepository(f.stores.Tasks, f.clock)
	f.interviews = NewInterviewRepository(f.stores.Interviews, f.clock)
	f.contacts = NewContactRepository(f.stores.Contacts, f.clock)
	f.history = NewStatusHistoryRepository(f.stores.StatusHistory)
	f.tracker = NewTracker(f.apps, f.tasks, f.interviews, f.contacts, f.clock, f.ids)
	return f
}

func (f *fixture) engine() *SyncEngine {
	return NewSyncEngine(f.stores, f.remote, f.clock, testUser)
}

// historyOf returns the live timeline of an application.
func (f *fixture) historyOf(t *testing.T, applicationID string) []domain.StatusHistory {
	t.Helper()
	ctx, cancel := context.WithCancel(f.ctx)
	defer cancel()
	ch, err := f.history.ObserveByApplication(ctx, applicationID)
	require.NoError(t, err)
	return first(t, ch)
}

func (f *fixture) pending(t *testing.T) int {
	t.Helper()
	n := 0
	apps, err := f.stores.Applications.PendingSync(f.ctx)
	require.NoError(t, err)
	n += len(apps)
	tasks, err := f.stores.Tasks.PendingSync(f.ctx)
	require.NoError(t, err)
	n += len(tasks)
	interviews, err := f.stores.Interviews.PendingSync(f.ctx)
	require.NoError(t, err)
	n += len(interviews)
	contacts, err := f.stores.Contacts.PendingSync(f.ctx)
	require.NoError(t, err)
	n += len(contacts)
	history, err := f.stores.StatusHistory.PendingSync(f.ctx)
	require.NoError(t, err)
	n += len(history)
	return n
}

// first receives one value or fails the test.
func first[T any](t *testing.T, ch <-chan T) T {
	t.Helper()
	select {
	case v, ok := <-ch:
		require.True(t, ok, "channel closed")
		return v
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for value")
		var zero T
		return zero
	}
}

func int64Ptr(v int64) *int64 {
	return &v
}
