package memory

import (
	"context"
	"strings"

	"github.com/custodia-labs/jobtrack/internal/adapters/driven/storage/observe"
	"github.com/custodia-labs/jobtrack/internal/core/domain"
	"github.com/custodia-labs/jobtrack/internal/core/ports/driven"
)

// NewLocalStores creates an empty in-memory replica of all five tables.
func NewLocalStores() driven.LocalStores {
	n := observe.NewNotifier()
	return driven.LocalStores{
		Applications:  NewApplicationStore(n),
		Tasks:         NewTaskStore(n),
		Interviews:    NewInterviewStore(n),
		Contacts:      NewContactStore(n),
		StatusHistory: NewStatusHistoryStore(n),
	}
}

// ApplicationStore is an in-memory implementation of driven.ApplicationStore.
type ApplicationStore struct {
	*table[domain.Application]
}

var _ driven.ApplicationStore = (*ApplicationStore)(nil)

// NewApplicationStore creates an empty application store.
func NewApplicationStore(n *observe.Notifier) *ApplicationStore {
	t := newTable("applications", n, func(a, b domain.Application) bool {
		return a.AppliedDateEpochMs > b.AppliedDateEpochMs
	})
	t.tombstone = func(a domain.Application, at int64) domain.Application {
		a.IsDeleted = true
		a.UpdatedAtEpochMs = at
		return a
	}
	return &ApplicationStore{table: t}
}

// ObserveByID streams one live application, or nil once it is gone.
func (s *ApplicationStore) ObserveByID(ctx context.Context, id string) (<-chan *domain.Application, error) {
	return observe.Query(ctx, s.notifier, s.name, func(context.Context) (*domain.Application, error) {
		rows := s.filter(func(a domain.Application) bool { return !a.IsDeleted && a.ID == id })
		if len(rows) == 0 {
			return nil, nil
		}
		return &rows[0], nil
	})
}

// ObserveByStatus streams live applications with the given status.
func (s *ApplicationStore) ObserveByStatus(
	ctx context.Context,
	status domain.ApplicationStatus,
) (<-chan []domain.Application, error) {
	return s.observe(ctx, func(a domain.Application) bool {
		return !a.IsDeleted && a.Status == status
	})
}

// ObserveSearch streams live applications whose company or role contains keyword.
func (s *ApplicationStore) ObserveSearch(ctx context.Context, keyword string) (<-chan []domain.Application, error) {
	keyword = strings.TrimSpace(keyword)
	return s.observe(ctx, func(a domain.Application) bool {
		return !a.IsDeleted && a.Matches(keyword)
	})
}

// TaskStore is an in-memory implementation of driven.TaskStore.
type TaskStore struct {
	*table[domain.Task]
}

var _ driven.TaskStore = (*TaskStore)(nil)

// NewTaskStore creates an empty task store.
func NewTaskStore(n *observe.Notifier) *TaskStore {
	t := newTable("tasks", n, func(a, b domain.Task) bool {
		if a.IsDone != b.IsDone {
			return !a.IsDone
		}
		return dueBefore(a.DueDateEpochMs, b.DueDateEpochMs)
	})
	t.tombstone = func(task domain.Task, at int64) domain.Task {
		task.IsDeleted = true
		task.UpdatedAtEpochMs = at
		return task
	}
	t.parentID = func(task domain.Task) string { return task.ApplicationID }
	return &TaskStore{table: t}
}

// dueBefore orders tasks with a due date ahead of those without.
func dueBefore(a, b *int64) bool {
	switch {
	case a == nil:
		return false
	case b == nil:
		return true
	default:
		return *a < *b
	}
}

// InterviewStore is an in-memory implementation of driven.InterviewStore.
type InterviewStore struct {
	*table[domain.Interview]
}

var _ driven.InterviewStore = (*InterviewStore)(nil)

// NewInterviewStore creates an empty interview store.
func NewInterviewStore(n *observe.Notifier) *InterviewStore {
	t := newTable("interviews", n, func(a, b domain.Interview) bool {
		return a.ScheduledDateEpochMs < b.ScheduledDateEpochMs
	})
	t.tombstone = func(i domain.Interview, at int64) domain.Interview {
		i.IsDeleted = true
		i.UpdatedAtEpochMs = at
		return i
	}
	t.parentID = func(i domain.Interview) string { return i.ApplicationID }
	return &InterviewStore{table: t}
}

// ObserveUpcoming streams live interviews at or after fromEpochMs, soonest first.
func (s *InterviewStore) ObserveUpcoming(ctx context.Context, fromEpochMs int64) (<-chan []domain.Interview, error) {
	return s.observe(ctx, func(i domain.Interview) bool {
		return !i.IsDeleted && i.ScheduledDateEpochMs >= fromEpochMs
	})
}

// ContactStore is an in-memory implementation of driven.ContactStore.
type ContactStore struct {
	*table[domain.Contact]
}

var _ driven.ContactStore = (*ContactStore)(nil)

// NewContactStore creates an empty contact store.
func NewContactStore(n *observe.Notifier) *ContactStore {
	t := newTable("contacts", n, func(a, b domain.Contact) bool {
		return strings.ToLower(a.ContactName) < strings.ToLower(b.ContactName)
	})
	t.tombstone = func(c domain.Contact, at int64) domain.Contact {
		c.IsDeleted = true
		c.UpdatedAtEpochMs = at
		return c
	}
	t.parentID = func(c domain.Contact) string { return c.ApplicationID }
	return &ContactStore{table: t}
}

// StatusHistoryStore is an in-memory implementation of driven.StatusHistoryStore.
type StatusHistoryStore struct {
	t *table[domain.StatusHistory]
}

var _ driven.StatusHistoryStore = (*StatusHistoryStore)(nil)

// NewStatusHistoryStore creates an empty history store.
func NewStatusHistoryStore(n *observe.Notifier) *StatusHistoryStore {
	t := newTable("statusHistory", n, func(a, b domain.StatusHistory) bool {
		return a.ChangedAtEpochMs < b.ChangedAtEpochMs
	})
	t.parentID = func(h domain.StatusHistory) string { return h.ApplicationID }
	return &StatusHistoryStore{t: t}
}

// Get retrieves an entry by ID.
func (s *StatusHistoryStore) Get(ctx context.Context, id string) (*domain.StatusHistory, error) {
	return s.t.Get(ctx, id)
}

// PendingSync returns entries not yet pushed.
func (s *StatusHistoryStore) PendingSync(ctx context.Context) ([]domain.StatusHistory, error) {
	return s.t.PendingSync(ctx)
}

// MarkSynced clears the dirty flag on an entry.
func (s *StatusHistoryStore) MarkSynced(ctx context.Context, id string) error {
	return s.t.MarkSynced(ctx, id)
}

// Insert adds an entry unless one with the same ID exists.
func (s *StatusHistoryStore) Insert(_ context.Context, entry domain.StatusHistory) error {
	s.t.mu.Lock()
	_, exists := s.t.rows[entry.ID]
	if !exists {
		s.t.rows[entry.ID] = entry
	}
	s.t.mu.Unlock()

	if !exists {
		s.t.notifier.Notify(s.t.name)
	}
	return nil
}

// ObserveByApplication streams the timeline of one application.
func (s *StatusHistoryStore) ObserveByApplication(
	ctx context.Context,
	applicationID string,
) (<-chan []domain.StatusHistory, error) {
	return s.t.ObserveByApplication(ctx, applicationID)
}
