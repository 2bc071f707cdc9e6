package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/custodia-labs/jobtrack/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/jobtrack/internal/adapters/driven/system"
	"github.com/custodia-labs/jobtrack/internal/core/domain"
)

func newTestProvider(t *testing.T) (*PasswordProvider, *memory.ConfigStore) {
	t.Helper()
	cfg := memory.NewConfigStore()
	p := NewPasswordProvider(memory.NewUserStore(), cfg, system.UUIDGenerator{}, WithCost(bcrypt.MinCost))
	return p, cfg
}

func TestSignUp(t *testing.T) {
	ctx := context.Background()
	p, cfg := newTestProvider(t)

	userID, err := p.SignUp(ctx, "  Ada@Example.com ", "correct horse")
	require.NoError(t, err)
	assert.NotEmpty(t, userID)
	assert.Equal(t, userID, p.CurrentUserID())
	assert.Equal(t, userID, cfg.GetString(KeyUserID))
}

func TestSignUp_Duplicate(t *testing.T) {
	ctx := context.Background()
	p, _ := newTestProvider(t)

	_, err := p.SignUp(ctx, "ada@example.com", "correct horse")
	require.NoError(t, err)

	_, err = p.SignUp(ctx, "ADA@example.com", "another password")
	assert.ErrorIs(t, err, domain.ErrAlreadyExists)
}

func TestSignUp_InvalidInput(t *testing.T) {
	tests := []struct {
		name     string
		email    string
		password string
	}{
		{"empty email", "", "correct horse"},
		{"no at sign", "ada.example.com", "correct horse"},
		{"display name", "Ada <ada@example.com>", "correct horse"},
		{"short password", "ada@example.com", "short"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, _ := newTestProvider(t)
			_, err := p.SignUp(context.Background(), tt.email, tt.password)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
			assert.Empty(t, p.CurrentUserID())
		})
	}
}

func TestSignIn(t *testing.T) {
	ctx := context.Background()
	p, _ := newTestProvider(t)

	userID, err := p.SignUp(ctx, "ada@example.com", "correct horse")
	require.NoError(t, err)
	require.NoError(t, p.SignOut(ctx))

	got, err := p.SignIn(ctx, "ADA@example.com", "correct horse")
	require.NoError(t, err)
	assert.Equal(t, userID, got)
	assert.Equal(t, userID, p.CurrentUserID())
}

func TestSignIn_BadCredentials(t *testing.T) {
	ctx := context.Background()
	p, _ := newTestProvider(t)

	_, err := p.SignUp(ctx, "ada@example.com", "correct horse")
	require.NoError(t, err)
	require.NoError(t, p.SignOut(ctx))

	_, err = p.SignIn(ctx, "ada@example.com", "wrong password")
	assert.ErrorIs(t, err, domain.ErrAuthInvalid)

	_, err = p.SignIn(ctx, "nobody@example.com", "correct horse")
	assert.ErrorIs(t, err, domain.ErrAuthInvalid)

	assert.Empty(t, p.CurrentUserID())
}

func TestSignOut_ClearsSession(t *testing.T) {
	ctx := context.Background()
	p, cfg := newTestProvider(t)

	_, err := p.SignUp(ctx, "ada@example.com", "correct horse")
	require.NoError(t, err)

	require.NoError(t, p.SignOut(ctx))
	assert.Empty(t, p.CurrentUserID())
	_, ok := cfg.Get(KeyUserID)
	assert.False(t, ok)
}

func TestNewPasswordProvider_RestoresSession(t *testing.T) {
	cfg := memory.NewConfigStore()
	require.NoError(t, cfg.Set(KeyUserID, "user-1"))

	p := NewPasswordProvider(memory.NewUserStore(), cfg, system.UUIDGenerator{})
	assert.Equal(t, "user-1", p.CurrentUserID())
}

func TestNewPasswordProvider_NilConfig(t *testing.T) {
	ctx := context.Background()
	p := NewPasswordProvider(memory.NewUserStore(), nil, system.UUIDGenerator{}, WithCost(bcrypt.MinCost))

	userID, err := p.SignUp(ctx, "ada@example.com", "correct horse")
	require.NoError(t, err)
	assert.Equal(t, userID, p.CurrentUserID())
}

func TestSignUp_SaveFails(t *testing.T) {
	cfg := &failingConfig{ConfigStore: memory.NewConfigStore()}
	p := NewPasswordProvider(memory.NewUserStore(), cfg, system.UUIDGenerator{}, WithCost(bcrypt.MinCost))

	_, err := p.SignUp(context.Background(), "ada@example.com", "correct horse")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "save session")
	assert.Empty(t, p.CurrentUserID())
}

func TestObserveState(t *testing.T) {
	p, _ := newTestProvider(t)
	ctx, cancel := context.WithCancel(context.Background())

	states := p.ObserveState(ctx)
	assert.Equal(t, domain.AuthState{}, receive(t, states))

	userID, err := p.SignUp(context.Background(), "ada@example.com", "correct horse")
	require.NoError(t, err)
	assert.Equal(t, domain.AuthState{UserID: userID}, receive(t, states))

	require.NoError(t, p.SignOut(context.Background()))
	assert.Equal(t, domain.AuthState{}, receive(t, states))

	cancel()
	assert.Eventually(t, func() bool {
		_, ok := <-states
		return !ok
	}, time.Second, 10*time.Millisecond)
}

func TestObserveState_CurrentSessionFirst(t *testing.T) {
	cfg := memory.NewConfigStore()
	require.NoError(t, cfg.Set(KeyUserID, "user-1"))
	p := NewPasswordProvider(memory.NewUserStore(), cfg, system.UUIDGenerator{})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	state := receive(t, p.ObserveState(ctx))
	assert.True(t, state.SignedIn())
	assert.Equal(t, "user-1", state.UserID)
}

func receive(t *testing.T, ch <-chan domain.AuthState) domain.AuthState {
	t.Helper()
	select {
	case s, ok := <-ch:
		require.True(t, ok, "channel closed")
		return s
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for auth state")
		return domain.AuthState{}
	}
}

type failingConfig struct {
	*memory.ConfigStore
}

func (f *failingConfig) Save() error {
	return errors.New("disk full")
}
