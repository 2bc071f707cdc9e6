package driven

import (
	"context"

	"github.com/custodia-labs/jobtrack/internal/core/domain"
)

// SyncStore is the part of a local table the sync engine needs.
type SyncStore[T any] interface {
	// Get retrieves a row by ID, tombstones included.
	// Returns domain.ErrNotFound if the row does not exist.
	Get(ctx context.Context, id string) (*T, error)

	// PendingSync returns every row with needsSync set, tombstones included.
	PendingSync(ctx context.Context) ([]T, error)

	// MarkSynced clears needsSync without touching any other column.
	MarkSynced(ctx context.Context, id string) error
}

// EntityStore persists a mutable, soft-deletable record type.
type EntityStore[T any] interface {
	SyncStore[T]

	// Upsert writes the full row keyed by ID, replacing any existing row.
	// The NeedsSync flag is written as given.
	Upsert(ctx context.Context, record T) error

	// SoftDelete sets the tombstone, stamps updatedAtEpochMs with atEpochMs
	// and sets needsSync. Returns domain.ErrNotFound if the row does not exist.
	SoftDelete(ctx context.Context, id string, atEpochMs int64) error

	// ObserveAll emits every live row now and again after each write to the
	// table. The channel is closed when ctx is done.
	ObserveAll(ctx context.Context) (<-chan []T, error)
}

// ChildStore persists a record type that belongs to an Application.
type ChildStore[T any] interface {
	EntityStore[T]

	// ObserveByApplication emits the live rows of one application.
	ObserveByApplication(ctx context.Context, applicationID string) (<-chan []T, error)
}

// ApplicationStore persists applications.
type ApplicationStore interface {
	EntityStore[domain.Application]

	// ObserveByID emits the row, or nil when it is missing or deleted.
	ObserveByID(ctx context.Context, id string) (<-chan *domain.Application, error)

	// ObserveByStatus emits live rows with the given status.
	ObserveByStatus(ctx context.Context, status domain.ApplicationStatus) (<-chan []domain.Application, error)

	// ObserveSearch emits live rows whose company or role contains keyword,
	// ignoring case.
	ObserveSearch(ctx context.Context, keyword string) (<-chan []domain.Application, error)
}

// TaskStore persists tasks.
type TaskStore interface {
	ChildStore[domain.Task]
}

// InterviewStore persists interviews.
type InterviewStore interface {
	ChildStore[domain.Interview]

	// ObserveUpcoming emits live interviews scheduled at or after fromEpochMs,
	// soonest first.
	ObserveUpcoming(ctx context.Context, fromEpochMs int64) (<-chan []domain.Interview, error)
}

// ContactStore persists contacts.
type ContactStore interface {
	ChildStore[domain.Contact]
}

// StatusHistoryStore persists the append-only status timeline.
// It deliberately has no update or delete.
type StatusHistoryStore interface {
	SyncStore[domain.StatusHistory]

	// Insert adds an entry. An entry whose ID already exists is left unchanged.
	Insert(ctx context.Context, entry domain.StatusHistory) error

	// ObserveByApplication emits the timeline of one application ordered by
	// changedAtEpochMs.
	ObserveByApplication(ctx context.Context, applicationID string) (<-chan []domain.StatusHistory, error)
}

// LocalStores bundles the five local tables.
type LocalStores struct {
	Applications  ApplicationStore
	Tasks         TaskStore
	Interviews    InterviewStore
	Contacts      ContactStore
	StatusHistory StatusHistoryStore
}
