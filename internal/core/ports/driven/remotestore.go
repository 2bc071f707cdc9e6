package driven

import (
	"context"

	"github.com/custodia-labs/jobtrack/internal/core/domain"
)

// RemoteCollection is one per-user document collection in the remote store.
type RemoteCollection[T any] interface {
	// Upsert replaces the whole document keyed by the record's ID.
	Upsert(ctx context.Context, userID string, record T) error

	// Delete removes the document. Deleting a missing document is not an error.
	Delete(ctx context.Context, userID, id string) error

	// Since returns every document whose timestamp is strictly greater than
	// timestampMs.
	Since(ctx context.Context, userID string, timestampMs int64) ([]T, error)
}

// RemoteStore is a multi-tenant document store partitioned by user.
type RemoteStore interface {
	Applications() RemoteCollection[domain.Application]
	Tasks() RemoteCollection[domain.Task]
	Interviews() RemoteCollection[domain.Interview]
	Contacts() RemoteCollection[domain.Contact]
	StatusHistory() RemoteCollection[domain.StatusHistory]
}
