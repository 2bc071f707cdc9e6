package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/jobtrack/internal/core/domain"
	"github.com/custodia-labs/jobtrack/internal/core/ports/driven"
)

// childRepository is the CRUD shared by tasks, interviews and contacts.
// stamp sets the record's update timestamp.
type childRepository[T domain.Record[T]] struct {
	kind  domain.EntityKind
	store driven.ChildStore[T]
	clock driven.Clock
	stamp func(rec T, atEpochMs int64) T
}

// Add stores a new record and marks it for sync.
func (r *childRepository[T]) Add(ctx context.Context, rec T) error {
	if err := r.store.Upsert(ctx, rec.WithNeedsSync(true)); err != nil {
		return fmt.Errorf("add %s: %w", r.kind, err)
	}
	return nil
}

// Update stores rec with the current time and marks it for sync.
// Returns domain.ErrNotFound if the record does not exist.
func (r *childRepository[T]) Update(ctx context.Context, rec T) (*T, error) {
	if _, err := r.Get(ctx, rec.RecordID()); err != nil {
		return nil, err
	}
	rec = r.stamp(rec, r.clock.NowEpochMs()).WithNeedsSync(true)
	if err := r.store.Upsert(ctx, rec); err != nil {
		return nil, fmt.Errorf("update %s: %w", r.kind, err)
	}
	return &rec, nil
}

// Delete soft-deletes a record.
// Returns domain.ErrNotFound if the record is missing or already deleted.
func (r *childRepository[T]) Delete(ctx context.Context, id string) error {
	rec, err := r.Get(ctx, id)
	if err != nil {
		return err
	}
	if (*rec).IsTombstone() {
		return fmt.Errorf("%s %s: %w", r.kind, id, domain.ErrNotFound)
	}
	if err := r.store.SoftDelete(ctx, id, r.clock.NowEpochMs()); err != nil {
		return fmt.Errorf("delete %s: %w", r.kind, err)
	}
	return nil
}

// Get retrieves a record by ID, tombstones included.
func (r *childRepository[T]) Get(ctx context.Context, id string) (*T, error) {
	rec, err := r.store.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get %s %s: %w", r.kind, id, err)
	}
	return rec, nil
}

// ObserveAll emits every live record.
func (r *childRepository[T]) ObserveAll(ctx context.Context) (<-chan []T, error) {
	return r.store.ObserveAll(ctx)
}

// ObserveByApplication emits the live records of one application.
func (r *childRepository[T]) ObserveByApplication(ctx context.Context, applicationID string) (<-chan []T, error) {
	return r.store.ObserveByApplication(ctx, applicationID)
}
