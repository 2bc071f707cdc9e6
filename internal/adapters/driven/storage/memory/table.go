package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/custodia-labs/jobtrack/internal/adapters/driven/storage/observe"
	"github.com/custodia-labs/jobtrack/internal/core/domain"
)

// table is a map-backed record table with the same observation semantics
// as the SQLite store.
type table[T domain.Record[T]] struct {
	mu       sync.RWMutex
	name     string
	rows     map[string]T
	notifier *observe.Notifier

	// tombstone returns rec marked deleted at the given time.
	tombstone func(rec T, atEpochMs int64) T
	// parentID returns the owning application ID, if any.
	parentID func(T) string
	// less orders query results.
	less func(a, b T) bool
}

func newTable[T domain.Record[T]](name string, n *observe.Notifier, less func(a, b T) bool) *table[T] {
	return &table[T]{
		name:     name,
		rows:     make(map[string]T),
		notifier: n,
		less:     less,
	}
}

// Get retrieves a row by ID, tombstones included.
func (t *table[T]) Get(_ context.Context, id string) (*T, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	rec, ok := t.rows[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &rec, nil
}

// PendingSync returns every dirty row.
func (t *table[T]) PendingSync(_ context.Context) ([]T, error) {
	return t.filter(func(rec T) bool { return rec.IsDirty() }), nil
}

// MarkSynced clears the dirty flag. A missing row is ignored.
func (t *table[T]) MarkSynced(_ context.Context, id string) error {
	t.mu.Lock()
	rec, ok := t.rows[id]
	if ok {
		t.rows[id] = rec.WithNeedsSync(false)
	}
	t.mu.Unlock()

	if ok {
		t.notifier.Notify(t.name)
	}
	return nil
}

// Upsert inserts or replaces the full row.
func (t *table[T]) Upsert(_ context.Context, rec T) error {
	t.mu.Lock()
	t.rows[rec.RecordID()] = rec
	t.mu.Unlock()

	t.notifier.Notify(t.name)
	return nil
}

// SoftDelete tombstones a row and marks it dirty.
func (t *table[T]) SoftDelete(_ context.Context, id string, atEpochMs int64) error {
	t.mu.Lock()
	rec, ok := t.rows[id]
	if !ok {
		t.mu.Unlock()
		return domain.ErrNotFound
	}
	t.rows[id] = t.tombstone(rec, atEpochMs).WithNeedsSync(true)
	t.mu.Unlock()

	t.notifier.Notify(t.name)
	return nil
}

// ObserveAll streams every live row.
func (t *table[T]) ObserveAll(ctx context.Context) (<-chan []T, error) {
	return t.observe(ctx, func(rec T) bool { return !rec.IsTombstone() })
}

// ObserveByApplication streams the live rows of one application.
func (t *table[T]) ObserveByApplication(ctx context.Context, applicationID string) (<-chan []T, error) {
	if t.parentID == nil {
		return nil, domain.ErrInvalidInput
	}
	return t.observe(ctx, func(rec T) bool {
		return !rec.IsTombstone() && t.parentID(rec) == applicationID
	})
}

func (t *table[T]) observe(ctx context.Context, keep func(T) bool) (<-chan []T, error) {
	return observe.Query(ctx, t.notifier, t.name, func(context.Context) ([]T, error) {
		return t.filter(keep), nil
	})
}

func (t *table[T]) filter(keep func(T) bool) []T {
	t.mu.RLock()
	result := []T{}
	for _, rec := range t.rows {
		if keep(rec) {
			result = append(result, rec)
		}
	}
	t.mu.RUnlock()

	sort.Slice(result, func(i, j int) bool {
		if t.less != nil && t.less(result[i], result[j]) != t.less(result[j], result[i]) {
			return t.less(result[i], result[j])
		}
		return result[i].RecordID() < result[j].RecordID()
	})
	return result
}
