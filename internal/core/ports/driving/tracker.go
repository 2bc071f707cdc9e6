package driving

import (
	"context"

	"github.com/custodia-labs/jobtrack/internal/core/domain"
)

// Tracker is the use-case layer. It assigns IDs and timestamps and checks
// that child records belong to a live application.
type Tracker interface {
	AddApplication(ctx context.Context, in ApplicationInput) (*domain.Application, error)
	UpdateApplication(ctx context.Context, app domain.Application) (*domain.Application, error)
	ChangeStatus(ctx context.Context, id string, status domain.ApplicationStatus) (*domain.Application, error)
	DeleteApplication(ctx context.Context, id string) error

	AddTask(ctx context.Context, in TaskInput) (*domain.Task, error)
	ToggleTaskDone(ctx context.Context, id string) (*domain.Task, error)
	DeleteTask(ctx context.Context, id string) error

	AddInterview(ctx context.Context, in InterviewInput) (*domain.Interview, error)
	DeleteInterview(ctx context.Context, id string) error

	AddContact(ctx context.Context, in ContactInput) (*domain.Contact, error)
	DeleteContact(ctx context.Context, id string) error
}

// ApplicationInput holds the user-supplied fields of a new application.
type ApplicationInput struct {
	Company  string
	Role     string
	Location string
	JobURL   string
	Source   string
	Status   domain.ApplicationStatus

	// AppliedDateEpochMs defaults to now when zero.
	AppliedDateEpochMs int64
	Notes              string
}

// TaskInput holds the user-supplied fields of a new task.
type TaskInput struct {
	ApplicationID  string
	Title          string
	DueDateEpochMs *int64
}

// InterviewInput holds the user-supplied fields of a new interview.
type InterviewInput struct {
	ApplicationID        string
	ScheduledDateEpochMs int64
	Mode                 domain.InterviewMode
	InterviewerName      string
	InterviewerEmail     string
	Location             string
	MeetingLink          string
	Notes                string
}

// ContactInput holds the user-supplied fields of a new contact.
type ContactInput struct {
	ApplicationID string
	Name          string
	Role          string
	Email         string
	LinkedInURL   string
	Notes         string
}
