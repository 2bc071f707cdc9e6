package cli

import (
	"bytes"
	"context"
	"io"
	"sync"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/jobtrack/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/jobtrack/internal/adapters/driven/system"
	"github.com/custodia-labs/jobtrack/internal/core/domain"
	"github.com/custodia-labs/jobtrack/internal/core/ports/driving"
	"github.com/custodia-labs/jobtrack/internal/core/services"
)

// mockAuth implements driving.AuthService with testify/mock.
type mockAuth struct {
	mock.Mock
}

func (m *mockAuth) SignIn(ctx context.Context, email, password string) (string, error) {
	args := m.Called(ctx, email, password)
	return args.String(0), args.Error(1)
}

func (m *mockAuth) SignUp(ctx context.Context, email, password string) (string, error) {
	args := m.Called(ctx, email, password)
	return args.String(0), args.Error(1)
}

func (m *mockAuth) SignOut(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *mockAuth) CurrentUserID() string {
	return m.Called().String(0)
}

// fakeCoordinator implements driving.SyncCoordinator for testing.
type fakeCoordinator struct {
	mu         sync.Mutex
	state      domain.SyncState
	report     domain.SyncReport
	syncErr    error
	refreshErr error
	synced     []string
	refreshed  int
}

func (c *fakeCoordinator) State() domain.SyncState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *fakeCoordinator) Subscribe(ctx context.Context) <-chan domain.SyncState {
	ch := make(chan domain.SyncState, 1)
	ch <- c.State()
	go func() {
		<-ctx.Done()
		close(ch)
	}()
	return ch
}

func (c *fakeCoordinator) Start(_ context.Context) error { return nil }

func (c *fakeCoordinator) Stop() {}

func (c *fakeCoordinator) SyncNow(_ context.Context, userID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.synced = append(c.synced, userID)
	return c.syncErr
}

func (c *fakeCoordinator) TrySyncNow(ctx context.Context, userID string) error {
	return c.SyncNow(ctx, userID)
}

func (c *fakeCoordinator) LastReport() domain.SyncReport {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.report
}

func (c *fakeCoordinator) RefreshPending(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.refreshed++
	return c.refreshErr
}

var _ driving.SyncCoordinator = (*fakeCoordinator)(nil)

// testEnv holds real services over memory stores plus the fakes.
type testEnv struct {
	ctx     context.Context
	tracker *services.Tracker
	auth    *mockAuth
	coord   *fakeCoordinator
}

func setupTestServices(t *testing.T) *testEnv {
	t.Helper()

	stores := memory.NewLocalStores()
	clock := system.Clock{}
	ids := system.UUIDGenerator{}

	apps := services.NewApplicationRepository(stores.Applications, stores.StatusHistory, clock, ids)
	taskRepo := services.NewTaskRepository(stores.Tasks, clock)
	interviewRepo := services.NewInterviewRepository(stores.Interviews, clock)
	contactRepo := services.NewContactRepository(stores.Contacts, clock)

	env := &testEnv{
		ctx:     context.Background(),
		tracker: services.NewTracker(apps, taskRepo, interviewRepo, contactRepo, clock, ids),
		auth:    new(mockAuth),
		coord:   &fakeCoordinator{report: domain.NewSyncReport()},
	}

	SetServices(Services{
		Tracker:       env.tracker,
		Applications:  apps,
		Tasks:         taskRepo,
		Interviews:    interviewRepo,
		Contacts:      contactRepo,
		StatusHistory: services.NewStatusHistoryRepository(stores.StatusHistory),
		Auth:          env.auth,
		Coordinator:   env.coord,
	})
	t.Cleanup(func() {
		SetServices(Services{})
	})
	return env
}

func (e *testEnv) addApplication(t *testing.T, company, role string) *domain.Application {
	t.Helper()
	app, err := e.tracker.AddApplication(e.ctx, driving.ApplicationInput{Company: company, Role: role})
	require.NoError(t, err)
	return app
}

func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	return executeCommandWithInput(t, nil, args...)
}

// executeCommandWithInput runs the root command with fresh flag values and
// returns everything written to stdout and stderr.
func executeCommandWithInput(t *testing.T, in io.Reader, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetIn(in)
	rootCmd.SetArgs(args)
	defer func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetIn(nil)
	}()

	err := rootCmd.Execute()
	return buf.String(), err
}

// resetFlags restores defaults; pflag keeps parsed values between runs.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}
