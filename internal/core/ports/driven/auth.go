package driven

import (
	"context"

	"github.com/custodia-labs/jobtrack/internal/core/domain"
)

// AuthProvider supplies the signed-in user.
type AuthProvider interface {
	// ObserveState emits the current state immediately and then every change.
	// The channel is closed when ctx is done.
	ObserveState(ctx context.Context) <-chan domain.AuthState

	// SignIn verifies credentials and returns the user ID.
	SignIn(ctx context.Context, email, password string) (string, error)

	// SignUp creates an account, signs it in and returns the user ID.
	SignUp(ctx context.Context, email, password string) (string, error)

	// SignOut clears the session.
	SignOut(ctx context.Context) error

	// CurrentUserID returns the signed-in user, or "" when signed out.
	CurrentUserID() string
}

// UserStore persists accounts for the password auth provider.
type UserStore interface {
	// Create stores a new user. Returns domain.ErrAlreadyExists if the
	// email is taken.
	Create(ctx context.Context, user domain.User) error

	// GetByEmail returns domain.ErrNotFound if no user has the email.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// Get returns domain.ErrNotFound if no user has the ID.
	Get(ctx context.Context, id string) (*domain.User, error)
}
