package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/custodia-labs/jobtrack/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/jobtrack/internal/core/domain"
)

func TestStore_PassesThrough(t *testing.T) {
	ctx := context.Background()
	inner := memory.NewRemoteStore()
	limited := New(inner, Config{RequestsPerSecond: 1000, BurstSize: 10})

	require.NoError(t, limited.Applications().Upsert(ctx, "u1", domain.Application{ID: "a1", UpdatedAtEpochMs: 5}))
	require.NoError(t, limited.Tasks().Upsert(ctx, "u1", domain.Task{ID: "t1", UpdatedAtEpochMs: 5}))
	require.NoError(t, limited.Interviews().Upsert(ctx, "u1", domain.Interview{ID: "i1", UpdatedAtEpochMs: 5}))
	require.NoError(t, limited.Contacts().Upsert(ctx, "u1", domain.Contact{ID: "c1", UpdatedAtEpochMs: 5}))
	require.NoError(t, limited.StatusHistory().Upsert(ctx, "u1", domain.StatusHistory{ID: "h1", ChangedAtEpochMs: 5}))

	docs, err := limited.Applications().Since(ctx, "u1", 0)
	require.NoError(t, err)
	assert.Len(t, docs, 1)

	require.NoError(t, limited.Applications().Delete(ctx, "u1", "a1"))
	assert.Equal(t, 0, inner.ApplicationDocs().Len("u1"))
	assert.Equal(t, 1, inner.HistoryDocs().Len("u1"))
}

func TestStore_ThrottlesBeyondBurst(t *testing.T) {
	ctx := context.Background()
	limited := New(memory.NewRemoteStore(), Config{RequestsPerSecond: 20, BurstSize: 1})

	start := time.Now()
	for i := 0; i < 3; i++ {
		_, err := limited.Tasks().Since(ctx, "u1", 0)
		require.NoError(t, err)
	}

	// Two calls beyond the burst at 20/s need roughly 100ms.
	assert.GreaterOrEqual(t, time.Since(start), 80*time.Millisecond)
}

func TestStore_WaitHonoursContext(t *testing.T) {
	limited := New(memory.NewRemoteStore(), Config{RequestsPerSecond: 0.001, BurstSize: 1})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	require.NoError(t, limited.Contacts().Delete(ctx, "u1", "c1"))

	err := limited.Contacts().Delete(ctx, "u1", "c1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limit")
}

func TestNew_Defaults(t *testing.T) {
	s := New(memory.NewRemoteStore(), Config{})
	assert.Equal(t, rate.Limit(DefaultConfig.RequestsPerSecond), s.limiter.Limit())
	assert.Equal(t, DefaultConfig.BurstSize, s.limiter.Burst())
}
