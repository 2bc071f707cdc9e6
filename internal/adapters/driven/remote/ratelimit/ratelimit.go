// Package ratelimit wraps a remote store so pushes and pulls respect a
// request quota.
package ratelimit

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/jobtrack/internal/core/domain"
	"github.com/custodia-labs/jobtrack/internal/core/ports/driven"
)

// Config holds the token bucket settings.
type Config struct {
	// RequestsPerSecond is the sustained rate limit.
	RequestsPerSecond float64
	// BurstSize is the maximum burst size.
	BurstSize int
}

// DefaultConfig matches the defaults in domain.Settings.
var DefaultConfig = Config{
	RequestsPerSecond: domain.DefaultRemoteRateLimit,
	BurstSize:         domain.DefaultRemoteBurst,
}

// Store is a driven.RemoteStore that waits on a shared token bucket before
// every remote call.
type Store struct {
	inner   driven.RemoteStore
	limiter *rate.Limiter
}

var _ driven.RemoteStore = (*Store)(nil)

// New wraps inner. Non-positive settings fall back to DefaultConfig.
func New(inner driven.RemoteStore, cfg Config) *Store {
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = DefaultConfig.RequestsPerSecond
	}
	if cfg.BurstSize <= 0 {
		cfg.BurstSize = DefaultConfig.BurstSize
	}
	return &Store{
		inner:   inner,
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.BurstSize),
	}
}

// Applications returns the rate-limited applications collection.
func (s *Store) Applications() driven.RemoteCollection[domain.Application] {
	return wrap(s.inner.Applications(), s.limiter)
}

// Tasks returns the rate-limited tasks collection.
func (s *Store) Tasks() driven.RemoteCollection[domain.Task] {
	return wrap(s.inner.Tasks(), s.limiter)
}

// Interviews returns the rate-limited interviews collection.
func (s *Store) Interviews() driven.RemoteCollection[domain.Interview] {
	return wrap(s.inner.Interviews(), s.limiter)
}

// Contacts returns the rate-limited contacts collection.
func (s *Store) Contacts() driven.RemoteCollection[domain.Contact] {
	return wrap(s.inner.Contacts(), s.limiter)
}

// StatusHistory returns the rate-limited status history collection.
func (s *Store) StatusHistory() driven.RemoteCollection[domain.StatusHistory] {
	return wrap(s.inner.StatusHistory(), s.limiter)
}

type collection[T any] struct {
	inner   driven.RemoteCollection[T]
	limiter *rate.Limiter
}

func wrap[T any](inner driven.RemoteCollection[T], limiter *rate.Limiter) *collection[T] {
	return &collection[T]{inner: inner, limiter: limiter}
}

func (c *collection[T]) wait(ctx context.Context) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit: %w", err)
	}
	return nil
}

func (c *collection[T]) Upsert(ctx context.Context, userID string, record T) error {
	if err := c.wait(ctx); err != nil {
		return err
	}
	return c.inner.Upsert(ctx, userID, record)
}

func (c *collection[T]) Delete(ctx context.Context, userID, id string) error {
	if err := c.wait(ctx); err != nil {
		return err
	}
	return c.inner.Delete(ctx, userID, id)
}

func (c *collection[T]) Since(ctx context.Context, userID string, timestampMs int64) ([]T, error) {
	if err := c.wait(ctx); err != nil {
		return nil, err
	}
	return c.inner.Since(ctx, userID, timestampMs)
}
