package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/custodia-labs/jobtrack/internal/core/domain"
	"github.com/custodia-labs/jobtrack/internal/core/ports/driven"
)

// Ensure UserStore implements the interface.
var _ driven.UserStore = (*UserStore)(nil)

// UserStore is an in-memory implementation of driven.UserStore.
type UserStore struct {
	mu      sync.RWMutex
	byID    map[string]domain.User
	byEmail map[string]string
}

// NewUserStore creates an empty user store.
func NewUserStore() *UserStore {
	return &UserStore{
		byID:    make(map[string]domain.User),
		byEmail: make(map[string]string),
	}
}

// Create stores a new user. Emails are compared case-insensitively.
func (s *UserStore) Create(_ context.Context, user domain.User) error {
	email := strings.ToLower(user.Email)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.byEmail[email]; taken {
		return domain.ErrAlreadyExists
	}
	if _, taken := s.byID[user.ID]; taken {
		return domain.ErrAlreadyExists
	}
	s.byID[user.ID] = user
	s.byEmail[email] = user.ID
	return nil
}

// GetByEmail retrieves a user by email.
func (s *UserStore) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byEmail[strings.ToLower(email)]
	if !ok {
		return nil, domain.ErrNotFound
	}
	user := s.byID[id]
	return &user, nil
}

// Get retrieves a user by ID.
func (s *UserStore) Get(_ context.Context, id string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &user, nil
}
