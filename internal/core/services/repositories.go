package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/jobtrack/internal/core/domain"
	"github.com/custodia-labs/jobtrack/internal/core/ports/driven"
	"github.com/custodia-labs/jobtrack/internal/core/ports/driving"
)

// Note recorded on the first status history entry of an application.
const createdNote = "Application created"

// Verify interface compliance.
var (
	_ driving.ApplicationRepository   = (*ApplicationRepository)(nil)
	_ driving.TaskRepository          = (*TaskRepository)(nil)
	_ driving.InterviewRepository     = (*InterviewRepository)(nil)
	_ driving.ContactRepository       = (*ContactRepository)(nil)
	_ driving.StatusHistoryRepository = (*StatusHistoryRepository)(nil)
)

// ApplicationRepository stores applications and keeps their status
// timeline in step.
type ApplicationRepository struct {
	store   driven.ApplicationStore
	history driven.StatusHistoryStore
	clock   driven.Clock
	ids     driven.IDGenerator
}

// NewApplicationRepository creates an application repository.
func NewApplicationRepository(
	store driven.ApplicationStore,
	history driven.StatusHistoryStore,
	clock driven.Clock,
	ids driven.IDGenerator,
) *ApplicationRepository {
	return &ApplicationRepository{store: store, history: history, clock: clock, ids: ids}
}

// Add stores app and its initial status history entry.
func (r *ApplicationRepository) Add(ctx context.Context, app domain.Application) error {
	app.NeedsSync = true
	if err := r.store.Upsert(ctx, app); err != nil {
		return fmt.Errorf("add application: %w", err)
	}
	return r.appendHistory(ctx, domain.StatusHistory{
		ApplicationID:    app.ID,
		ToStatus:         app.Status,
		ChangedAtEpochMs: app.AppliedDateEpochMs,
		Note:             domain.StringPtr(createdNote),
	})
}

// Update stores app with the current time. When the status differs from
// the stored row a transition entry is appended to the timeline.
func (r *ApplicationRepository) Update(ctx context.Context, app domain.Application) (*domain.Application, error) {
	old, err := r.Get(ctx, app.ID)
	if err != nil {
		return nil, err
	}

	app.UpdatedAtEpochMs = r.clock.NowEpochMs()
	app.NeedsSync = true
	if err := r.store.Upsert(ctx, app); err != nil {
		return nil, fmt.Errorf("update application: %w", err)
	}

	if old.Status != app.Status {
		from := old.Status
		err := r.appendHistory(ctx, domain.StatusHistory{
			ApplicationID:    app.ID,
			FromStatus:       &from,
			ToStatus:         app.Status,
			ChangedAtEpochMs: app.UpdatedAtEpochMs,
		})
		if err != nil {
			return nil, err
		}
	}
	return &app, nil
}

// Delete soft-deletes an application. Its status history is kept.
// Returns domain.ErrNotFound if the application is missing or already deleted.
func (r *ApplicationRepository) Delete(ctx context.Context, id string) error {
	app, err := r.Get(ctx, id)
	if err != nil {
		return err
	}
	if app.IsDeleted {
		return fmt.Errorf("application %s: %w", id, domain.ErrNotFound)
	}
	if err := r.store.SoftDelete(ctx, id, r.clock.NowEpochMs()); err != nil {
		return fmt.Errorf("delete application: %w", err)
	}
	return nil
}

// Get retrieves an application by ID, tombstones included.
func (r *ApplicationRepository) Get(ctx context.Context, id string) (*domain.Application, error) {
	app, err := r.store.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get application %s: %w", id, err)
	}
	return app, nil
}

// ObserveAll emits every live application.
func (r *ApplicationRepository) ObserveAll(ctx context.Context) (<-chan []domain.Application, error) {
	return r.store.ObserveAll(ctx)
}

// ObserveByID emits the application, or nil once it is deleted.
func (r *ApplicationRepository) ObserveByID(ctx context.Context, id string) (<-chan *domain.Application, error) {
	return r.store.ObserveByID(ctx, id)
}

// ObserveByStatus emits live applications with the given status.
func (r *ApplicationRepository) ObserveByStatus(
	ctx context.Context,
	status domain.ApplicationStatus,
) (<-chan []domain.Application, error) {
	return r.store.ObserveByStatus(ctx, status)
}

// Search emits live applications whose company or role contains keyword.
func (r *ApplicationRepository) Search(ctx context.Context, keyword string) (<-chan []domain.Application, error) {
	return r.store.ObserveSearch(ctx, keyword)
}

func (r *ApplicationRepository) appendHistory(ctx context.Context, entry domain.StatusHistory) error {
	entry.ID = r.ids.NewID()
	entry.NeedsSync = true
	if err := r.history.Insert(ctx, entry); err != nil {
		return fmt.Errorf("insert status history: %w", err)
	}
	return nil
}

// TaskRepository stores tasks.
type TaskRepository struct {
	*childRepository[domain.Task]
}

// NewTaskRepository creates a task repository.
func NewTaskRepository(store driven.TaskStore, clock driven.Clock) *TaskRepository {
	return &TaskRepository{&childRepository[domain.Task]{
		kind:  domain.KindTasks,
		store: store,
		clock: clock,
		stamp: func(t domain.Task, at int64) domain.Task {
			t.UpdatedAtEpochMs = at
			return t
		},
	}}
}

// ToggleDone flips the done flag. Completing a task records when it was
// completed; reopening clears it.
func (r *TaskRepository) ToggleDone(ctx context.Context, id string) (*domain.Task, error) {
	task, err := r.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	now := r.clock.NowEpochMs()
	task.IsDone = !task.IsDone
	if task.IsDone {
		task.CompletedAtEpochMs = &now
	} else {
		task.CompletedAtEpochMs = nil
	}
	task.UpdatedAtEpochMs = now
	task.NeedsSync = true

	if err := r.store.Upsert(ctx, *task); err != nil {
		return nil, fmt.Errorf("update task: %w", err)
	}
	return task, nil
}

// InterviewRepository stores interviews.
type InterviewRepository struct {
	*childRepository[domain.Interview]
	interviews driven.InterviewStore
}

// NewInterviewRepository creates an interview repository.
func NewInterviewRepository(store driven.InterviewStore, clock driven.Clock) *InterviewRepository {
	return &InterviewRepository{
		childRepository: &childRepository[domain.Interview]{
			kind:  domain.KindInterviews,
			store: store,
			clock: clock,
			stamp: func(i domain.Interview, at int64) domain.Interview {
				i.UpdatedAtEpochMs = at
				return i
			},
		},
		interviews: store,
	}
}

// ObserveUpcoming emits interviews scheduled from now on, soonest first.
func (r *InterviewRepository) ObserveUpcoming(ctx context.Context) (<-chan []domain.Interview, error) {
	return r.interviews.ObserveUpcoming(ctx, r.clock.NowEpochMs())
}

// ContactRepository stores contacts.
type ContactRepository struct {
	*childRepository[domain.Contact]
}

// NewContactRepository creates a contact repository.
func NewContactRepository(store driven.ContactStore, clock driven.Clock) *ContactRepository {
	return &ContactRepository{&childRepository[domain.Contact]{
		kind:  domain.KindContacts,
		store: store,
		clock: clock,
		stamp: func(c domain.Contact, at int64) domain.Contact {
			c.UpdatedAtEpochMs = at
			return c
		},
	}}
}

// StatusHistoryRepository appends to and reads the status timeline.
type StatusHistoryRepository struct {
	store driven.StatusHistoryStore
}

// NewStatusHistoryRepository creates a status history repository.
func NewStatusHistoryRepository(store driven.StatusHistoryStore) *StatusHistoryRepository {
	return &StatusHistoryRepository{store: store}
}

// Insert appends an entry and marks it for sync.
func (r *StatusHistoryRepository) Insert(ctx context.Context, entry domain.StatusHistory) error {
	entry.NeedsSync = true
	if err := r.store.Insert(ctx, entry); err != nil {
		return fmt.Errorf("insert status history: %w", err)
	}
	return nil
}

// ObserveByApplication emits the timeline of one application.
func (r *StatusHistoryRepository) ObserveByApplication(
	ctx context.Context,
	applicationID string,
) (<-chan []domain.StatusHistory, error) {
	return r.store.ObserveByApplication(ctx, applicationID)
}
