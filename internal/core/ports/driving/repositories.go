package driving

import (
	"context"

	"github.com/custodia-labs/jobtrack/internal/core/domain"
)

// ApplicationRepository manages applications and records their status
// timeline as a side effect.
type ApplicationRepository interface {
	// Add stores a new application and its initial status history entry.
	Add(ctx context.Context, app domain.Application) error

	// Update stores app, stamping the current time. A status change adds a
	// status history entry.
	Update(ctx context.Context, app domain.Application) (*domain.Application, error)

	// Delete soft-deletes an application.
	// Returns domain.ErrNotFound if it does not exist.
	Delete(ctx context.Context, id string) error

	// Get retrieves an application by ID, tombstones included.
	Get(ctx context.Context, id string) (*domain.Application, error)

	ObserveAll(ctx context.Context) (<-chan []domain.Application, error)
	ObserveByID(ctx context.Context, id string) (<-chan *domain.Application, error)
	ObserveByStatus(ctx context.Context, status domain.ApplicationStatus) (<-chan []domain.Application, error)

	// Search emits applications whose company or role contains keyword.
	Search(ctx context.Context, keyword string) (<-chan []domain.Application, error)
}

// TaskRepository manages tasks.
type TaskRepository interface {
	Add(ctx context.Context, task domain.Task) error
	Update(ctx context.Context, task domain.Task) (*domain.Task, error)
	Delete(ctx context.Context, id string) error
	Get(ctx context.Context, id string) (*domain.Task, error)

	// ToggleDone flips the done flag and sets or clears the completion time.
	ToggleDone(ctx context.Context, id string) (*domain.Task, error)

	ObserveAll(ctx context.Context) (<-chan []domain.Task, error)
	ObserveByApplication(ctx context.Context, applicationID string) (<-chan []domain.Task, error)
}

// InterviewRepository manages interviews.
type InterviewRepository interface {
	Add(ctx context.Context, interview domain.Interview) error
	Update(ctx context.Context, interview domain.Interview) (*domain.Interview, error)
	Delete(ctx context.Context, id string) error
	Get(ctx context.Context, id string) (*domain.Interview, error)
	ObserveAll(ctx context.Context) (<-chan []domain.Interview, error)
	ObserveByApplication(ctx context.Context, applicationID string) (<-chan []domain.Interview, error)

	// ObserveUpcoming emits interviews scheduled from now on, soonest first.
	ObserveUpcoming(ctx context.Context) (<-chan []domain.Interview, error)
}

// ContactRepository manages contacts.
type ContactRepository interface {
	Add(ctx context.Context, contact domain.Contact) error
	Update(ctx context.Context, contact domain.Contact) (*domain.Contact, error)
	Delete(ctx context.Context, id string) error
	Get(ctx context.Context, id string) (*domain.Contact, error)
	ObserveAll(ctx context.Context) (<-chan []domain.Contact, error)
	ObserveByApplication(ctx context.Context, applicationID string) (<-chan []domain.Contact, error)
}

// StatusHistoryRepository reads and appends to the status timeline.
// Entries are never updated or deleted.
type StatusHistoryRepository interface {
	Insert(ctx context.Context, entry domain.StatusHistory) error
	ObserveByApplication(ctx context.Context, applicationID string) (<-chan []domain.StatusHistory, error)
}
