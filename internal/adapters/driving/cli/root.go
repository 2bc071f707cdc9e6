// Package cli provides the jobtrack command-line interface.
package cli

import (
	"context"
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/jobtrack/internal/core/ports/driving"
	"github.com/custodia-labs/jobtrack/internal/logger"
)

// version is set at build time.
var version = "dev"

// Services are the core services the commands drive.
type Services struct {
	Tracker       driving.Tracker
	Applications  driving.ApplicationRepository
	Tasks         driving.TaskRepository
	Interviews    driving.InterviewRepository
	Contacts      driving.ContactRepository
	StatusHistory driving.StatusHistoryRepository
	Auth          driving.AuthService
	Coordinator   driving.SyncCoordinator
	Scheduler     driving.Scheduler
}

// Bootstrap builds the services for a config directory. The returned
// cleanup func releases stores and connections.
type Bootstrap func(ctx context.Context, configDir string) (Services, func(), error)

// Service instances, set once per process by SetServices or the bootstrap.
var (
	tracker       driving.Tracker
	applications  driving.ApplicationRepository
	tasks         driving.TaskRepository
	interviews    driving.InterviewRepository
	contacts      driving.ContactRepository
	statusHistory driving.StatusHistoryRepository
	authService   driving.AuthService
	coordinator   driving.SyncCoordinator
	scheduler     driving.Scheduler
)

var (
	bootstrap Bootstrap
	cleanup   func()

	configDir string
	verbose   bool
)

var rootCmd = &cobra.Command{
	Use:   "jobtrack",
	Short: "Track job applications offline and sync them across devices",
	Long: `jobtrack keeps your job applications, tasks, interviews and contacts
in a local database. Everything works offline; sign in and run 'jobtrack sync now'
to push local changes and pull changes made on other devices.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "Configuration directory (default ~/.jobtrack)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Print debug logging to stderr")
}

// SetServices installs the services used by the commands.
func SetServices(s Services) {
	tracker = s.Tracker
	applications = s.Applications
	tasks = s.Tasks
	interviews = s.Interviews
	contacts = s.Contacts
	statusHistory = s.StatusHistory
	authService = s.Auth
	coordinator = s.Coordinator
	scheduler = s.Scheduler
}

// SetVersion sets the version printed by 'jobtrack version'.
func SetVersion(v string) {
	version = v
}

// Execute runs the root command. boot is called once flags are parsed;
// it may be nil when services were installed with SetServices.
func Execute(boot Bootstrap) error {
	bootstrap = boot
	defer func() {
		if cleanup != nil {
			cleanup()
			cleanup = nil
		}
	}()
	rootCmd.SetOut(os.Stdout)
	return rootCmd.Execute()
}

func setup(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)
	if bootstrap == nil || cmd == versionCmd {
		return nil
	}

	s, done, err := bootstrap(cmd.Context(), configDir)
	if err != nil {
		return err
	}
	SetServices(s)
	cleanup = done
	bootstrap = nil
	return nil
}

func requireTracker() error {
	if tracker == nil || applications == nil {
		return errors.New("tracker service not configured")
	}
	return nil
}

// firstValue takes the current snapshot from an observable query.
func firstValue[T any](ctx context.Context, observe func(context.Context) (<-chan T, error)) (T, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var zero T
	ch, err := observe(ctx)
	if err != nil {
		return zero, err
	}
	v, ok := <-ch
	if !ok {
		return zero, errors.New("query closed before returning a result")
	}
	return v, nil
}
