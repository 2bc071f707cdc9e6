package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/custodia-labs/jobtrack/internal/core/domain"
	"github.com/custodia-labs/jobtrack/internal/core/ports/driven"
	"github.com/custodia-labs/jobtrack/internal/core/ports/driving"
)

// Verify interface compliance.
var _ driving.Tracker = (*Tracker)(nil)

// Tracker implements the user-facing use-cases on top of the repositories.
type Tracker struct {
	apps       driving.ApplicationRepository
	tasks      driving.TaskRepository
	interviews driving.InterviewRepository
	contacts   driving.ContactRepository
	clock      driven.Clock
	ids        driven.IDGenerator
}

// NewTracker creates a tracker.
func NewTracker(
	apps driving.ApplicationRepository,
	tasks driving.TaskRepository,
	interviews driving.InterviewRepository,
	contacts driving.ContactRepository,
	clock driven.Clock,
	ids driven.IDGenerator,
) *Tracker {
	return &Tracker{
		apps:       apps,
		tasks:      tasks,
		interviews: interviews,
		contacts:   contacts,
		clock:      clock,
		ids:        ids,
	}
}

// AddApplication creates an application. Status defaults to APPLIED and the
// applied date to now.
func (t *Tracker) AddApplication(ctx context.Context, in driving.ApplicationInput) (*domain.Application, error) {
	now := t.clock.NowEpochMs()

	status := in.Status
	if status == "" {
		status = domain.StatusApplied
	}
	applied := in.AppliedDateEpochMs
	if applied == 0 {
		applied = now
	}

	app := domain.Application{
		ID:                 t.ids.NewID(),
		Company:            strings.TrimSpace(in.Company),
		Role:               strings.TrimSpace(in.Role),
		Location:           domain.StringPtr(in.Location),
		JobURL:             domain.StringPtr(in.JobURL),
		Source:             domain.StringPtr(in.Source),
		Status:             status,
		AppliedDateEpochMs: applied,
		Notes:              in.Notes,
		UpdatedAtEpochMs:   now,
	}
	if err := app.Validate(); err != nil {
		return nil, err
	}
	if err := t.apps.Add(ctx, app); err != nil {
		return nil, err
	}
	app.NeedsSync = true
	return &app, nil
}

// UpdateApplication stores the edited fields of an application.
func (t *Tracker) UpdateApplication(ctx context.Context, app domain.Application) (*domain.Application, error) {
	if err := app.Validate(); err != nil {
		return nil, err
	}
	if _, err := t.liveApplication(ctx, app.ID); err != nil {
		return nil, err
	}
	return t.apps.Update(ctx, app)
}

// ChangeStatus moves an application to a new status.
func (t *Tracker) ChangeStatus(
	ctx context.Context,
	id string,
	status domain.ApplicationStatus,
) (*domain.Application, error) {
	if !status.IsValid() {
		return nil, fmt.Errorf("%w: unknown status %q", domain.ErrInvalidInput, status)
	}
	app, err := t.liveApplication(ctx, id)
	if err != nil {
		return nil, err
	}
	if app.Status == status {
		return app, nil
	}
	app.Status = status
	return t.apps.Update(ctx, *app)
}

// DeleteApplication soft-deletes an application. Its tasks, interviews and
// contacts are left in place.
func (t *Tracker) DeleteApplication(ctx context.Context, id string) error {
	if _, err := t.liveApplication(ctx, id); err != nil {
		return err
	}
	return t.apps.Delete(ctx, id)
}

// AddTask creates a task on a live application.
func (t *Tracker) AddTask(ctx context.Context, in driving.TaskInput) (*domain.Task, error) {
	if err := t.requireParent(ctx, in.ApplicationID); err != nil {
		return nil, err
	}
	task := domain.Task{
		ID:               t.ids.NewID(),
		ApplicationID:    in.ApplicationID,
		Title:            strings.TrimSpace(in.Title),
		DueDateEpochMs:   in.DueDateEpochMs,
		UpdatedAtEpochMs: t.clock.NowEpochMs(),
	}
	if err := task.Validate(); err != nil {
		return nil, err
	}
	if err := t.tasks.Add(ctx, task); err != nil {
		return nil, err
	}
	task.NeedsSync = true
	return &task, nil
}

// ToggleTaskDone completes or reopens a task.
func (t *Tracker) ToggleTaskDone(ctx context.Context, id string) (*domain.Task, error) {
	return t.tasks.ToggleDone(ctx, id)
}

// DeleteTask soft-deletes a task.
func (t *Tracker) DeleteTask(ctx context.Context, id string) error {
	return t.tasks.Delete(ctx, id)
}

// AddInterview schedules an interview on a live application. Mode
// defaults to OTHER.
func (t *Tracker) AddInterview(ctx context.Context, in driving.InterviewInput) (*domain.Interview, error) {
	if err := t.requireParent(ctx, in.ApplicationID); err != nil {
		return nil, err
	}
	mode := in.Mode
	if mode == "" {
		mode = domain.ModeOther
	}
	now := t.clock.NowEpochMs()
	interview := domain.Interview{
		ID:                   t.ids.NewID(),
		ApplicationID:        in.ApplicationID,
		ScheduledDateEpochMs: in.ScheduledDateEpochMs,
		InterviewMode:        mode,
		InterviewerName:      domain.StringPtr(in.InterviewerName),
		InterviewerEmail:     domain.StringPtr(in.InterviewerEmail),
		Location:             domain.StringPtr(in.Location),
		MeetingLink:          domain.StringPtr(in.MeetingLink),
		Notes:                domain.StringPtr(in.Notes),
		CreatedAtEpochMs:     now,
		UpdatedAtEpochMs:     now,
	}
	if err := interview.Validate(); err != nil {
		return nil, err
	}
	if err := t.interviews.Add(ctx, interview); err != nil {
		return nil, err
	}
	interview.NeedsSync = true
	return &interview, nil
}

// DeleteInterview soft-deletes an interview.
func (t *Tracker) DeleteInterview(ctx context.Context, id string) error {
	return t.interviews.Delete(ctx, id)
}

// AddContact records a contact on a live application.
func (t *Tracker) AddContact(ctx context.Context, in driving.ContactInput) (*domain.Contact, error) {
	if err := t.requireParent(ctx, in.ApplicationID); err != nil {
		return nil, err
	}
	now := t.clock.NowEpochMs()
	contact := domain.Contact{
		ID:               t.ids.NewID(),
		ApplicationID:    in.ApplicationID,
		ContactName:      strings.TrimSpace(in.Name),
		ContactRole:      domain.StringPtr(in.Role),
		EmailText:        domain.StringPtr(in.Email),
		LinkedInURL:      domain.StringPtr(in.LinkedInURL),
		NotesText:        domain.StringPtr(in.Notes),
		CreatedAtEpochMs: now,
		UpdatedAtEpochMs: now,
	}
	if err := contact.Validate(); err != nil {
		return nil, err
	}
	if err := t.contacts.Add(ctx, contact); err != nil {
		return nil, err
	}
	contact.NeedsSync = true
	return &contact, nil
}

// DeleteContact soft-deletes a contact.
func (t *Tracker) DeleteContact(ctx context.Context, id string) error {
	return t.contacts.Delete(ctx, id)
}

// liveApplication returns domain.ErrNotFound for missing and deleted rows.
func (t *Tracker) liveApplication(ctx context.Context, id string) (*domain.Application, error) {
	app, err := t.apps.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if app.IsDeleted {
		return nil, fmt.Errorf("application %s: %w", id, domain.ErrNotFound)
	}
	return app, nil
}

func (t *Tracker) requireParent(ctx context.Context, applicationID string) error {
	if applicationID == "" {
		return fmt.Errorf("%w: application id is required", domain.ErrInvalidInput)
	}
	_, err := t.liveApplication(ctx, applicationID)
	if errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("%w: no application %s", domain.ErrInvalidInput, applicationID)
	}
	return err
}
