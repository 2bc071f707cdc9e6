package auth

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/custodia-labs/jobtrack/internal/core/domain"
	"github.com/custodia-labs/jobtrack/internal/core/ports/driven"
	"github.com/custodia-labs/jobtrack/internal/logger"
)

// KeyUserID is the config key holding the session.
const KeyUserID = "auth.user_id"

// MinPasswordLength is the shortest accepted password.
const MinPasswordLength = 8

var log = logger.Named("auth")

// Ensure PasswordProvider implements the AuthProvider interface.
var _ driven.AuthProvider = (*PasswordProvider)(nil)

// PasswordProvider authenticates email and password accounts.
type PasswordProvider struct {
	users  driven.UserStore
	config driven.ConfigStore
	ids    driven.IDGenerator
	cost   int

	mu          sync.RWMutex
	userID      string
	subscribers map[chan domain.AuthState]struct{}
}

// Option configures a PasswordProvider.
type Option func(*PasswordProvider)

// WithCost sets the bcrypt cost. Tests use bcrypt.MinCost.
func WithCost(cost int) Option {
	return func(p *PasswordProvider) {
		p.cost = cost
	}
}

// NewPasswordProvider creates a provider and restores any persisted session.
// config may be nil, in which case sessions are not persisted.
func NewPasswordProvider(
	users driven.UserStore,
	config driven.ConfigStore,
	ids driven.IDGenerator,
	opts ...Option,
) *PasswordProvider {
	p := &PasswordProvider{
		users:       users,
		config:      config,
		ids:         ids,
		cost:        bcrypt.DefaultCost,
		subscribers: make(map[chan domain.AuthState]struct{}),
	}
	for _, opt := range opts {
		opt(p)
	}
	if config != nil {
		p.userID = config.GetString(KeyUserID)
	}
	return p
}

// ObserveState emits the current state, then every change until ctx is done.
func (p *PasswordProvider) ObserveState(ctx context.Context) <-chan domain.AuthState {
	ch := make(chan domain.AuthState, 1)

	p.mu.Lock()
	ch <- domain.AuthState{UserID: p.userID}
	p.subscribers[ch] = struct{}{}
	p.mu.Unlock()

	go func() {
		<-ctx.Done()
		p.mu.Lock()
		delete(p.subscribers, ch)
		close(ch)
		p.mu.Unlock()
	}()

	return ch
}

// SignIn verifies the credentials and starts a session.
func (p *PasswordProvider) SignIn(ctx context.Context, email, password string) (string, error) {
	email, err := normaliseEmail(email)
	if err != nil {
		return "", err
	}

	user, err := p.users.GetByEmail(ctx, email)
	if errors.Is(err, domain.ErrNotFound) {
		return "", domain.ErrAuthInvalid
	}
	if err != nil {
		return "", fmt.Errorf("get user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)); err != nil {
		return "", domain.ErrAuthInvalid
	}

	if err := p.setUser(user.ID); err != nil {
		return "", err
	}
	log.Info("signed in %s", email)
	return user.ID, nil
}

// SignUp creates an account and signs it in.
func (p *PasswordProvider) SignUp(ctx context.Context, email, password string) (string, error) {
	email, err := normaliseEmail(email)
	if err != nil {
		return "", err
	}
	if len(password) < MinPasswordLength {
		return "", fmt.Errorf("%w: password must be at least %d characters", domain.ErrInvalidInput, MinPasswordLength)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), p.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}

	user := domain.User{
		ID:           p.ids.NewID(),
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}
	if err := p.users.Create(ctx, user); err != nil {
		return "", fmt.Errorf("create user: %w", err)
	}

	if err := p.setUser(user.ID); err != nil {
		return "", err
	}
	log.Info("signed up %s", email)
	return user.ID, nil
}

// SignOut clears the session.
func (p *PasswordProvider) SignOut(_ context.Context) error {
	return p.setUser("")
}

// CurrentUserID returns the signed-in user, or "" when signed out.
func (p *PasswordProvider) CurrentUserID() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.userID
}

func (p *PasswordProvider) setUser(userID string) error {
	if p.config != nil {
		var err error
		if userID == "" {
			err = p.config.Unset(KeyUserID)
		} else {
			err = p.config.Set(KeyUserID, userID)
		}
		if err != nil {
			return fmt.Errorf("save session: %w", err)
		}
		if err := p.config.Save(); err != nil {
			return fmt.Errorf("save session: %w", err)
		}
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.userID == userID {
		return nil
	}
	p.userID = userID

	state := domain.AuthState{UserID: userID}
	for ch := range p.subscribers {
		// Replace any unread state so subscribers only see the latest.
		select {
		case <-ch:
		default:
		}
		ch <- state
	}
	return nil
}

func normaliseEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", fmt.Errorf("%w: invalid email %q", domain.ErrInvalidInput, email)
	}
	return email, nil
}
