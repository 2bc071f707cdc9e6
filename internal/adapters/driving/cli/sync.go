package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/jobtrack/internal/core/domain"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Synchronise local data with the remote store",
}

var syncNowCmd = &cobra.Command{
	Use:   "now",
	Short: "Push local changes and pull remote updates",
	Args:  cobra.NoArgs,
	RunE:  runSyncNow,
}

var syncStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show pending changes and the last sync time",
	Args:  cobra.NoArgs,
	RunE:  runSyncStatus,
}

var syncWatchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Sync on sign-in and at the configured interval until interrupted",
	Long: `Run the sync coordinator in the foreground.

A sync runs whenever a user signs in and, when sync.interval_seconds is
set in the config file, at that interval. Press Ctrl+C to stop.`,
	Args: cobra.NoArgs,
	RunE: runSyncWatch,
}

func init() {
	syncCmd.AddCommand(syncNowCmd)
	syncCmd.AddCommand(syncStatusCmd)
	syncCmd.AddCommand(syncWatchCmd)
	rootCmd.AddCommand(syncCmd)
}

func requireSync() error {
	if coordinator == nil || authService == nil {
		return errors.New("sync service not configured")
	}
	return nil
}

func runSyncNow(cmd *cobra.Command, _ []string) error {
	if err := requireSync(); err != nil {
		return err
	}
	userID := authService.CurrentUserID()
	if userID == "" {
		return fmt.Errorf("%w: run 'jobtrack auth login' first", domain.ErrAuthRequired)
	}

	if err := coordinator.SyncNow(cmd.Context(), userID); err != nil {
		cmd.PrintErrln(styleError.Render(fmt.Sprintf("sync failed: %v", err)))
		return err
	}

	t := coordinator.LastReport().Totals()
	cmd.Println(styleSuccess.Render("✓ Sync complete"))
	cmd.Printf("  Pushed:  %d\n", t.Pushed)
	cmd.Printf("  Deleted: %d\n", t.Deleted)
	cmd.Printf("  Pulled:  %d\n", t.Pulled)
	cmd.Printf("  Skipped: %d\n", t.Skipped)
	return nil
}

func runSyncStatus(cmd *cobra.Command, _ []string) error {
	if err := requireSync(); err != nil {
		return err
	}
	if err := coordinator.RefreshPending(cmd.Context()); err != nil {
		return fmt.Errorf("failed to read sync status: %w", err)
	}
	printSyncState(cmd, coordinator.State())
	return nil
}

func printSyncState(cmd *cobra.Command, s domain.SyncState) {
	user := authService.CurrentUserID()
	if user == "" {
		user = styleMuted.Render("not signed in")
	}
	cmd.Printf("User:        %s\n", user)

	pending := styleSuccess.Render("none")
	if s.NeedsSync {
		pending = styleWarning.Render("local changes waiting to be pushed")
	}
	cmd.Printf("Pending:     %s\n", pending)

	last := styleMuted.Render("never")
	if s.LastSyncedAtEpochMs != nil {
		last = formatDateTime(*s.LastSyncedAtEpochMs)
	}
	cmd.Printf("Last synced: %s\n", last)

	if s.IsSyncing {
		cmd.Printf("State:       %s\n", styleTitle.Render("syncing"))
	}
	if s.SyncError != nil {
		cmd.Printf("Last error:  %s\n", styleError.Render(s.SyncError.Error()))
	}
}

func runSyncWatch(cmd *cobra.Command, _ []string) error {
	if err := requireSync(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := coordinator.Start(ctx); err != nil {
		return fmt.Errorf("failed to start sync: %w", err)
	}
	defer coordinator.Stop()

	states := coordinator.Subscribe(ctx)
	go func() {
		for s := range states {
			switch {
			case s.IsSyncing:
				cmd.Println(styleMuted.Render("syncing..."))
			case s.SyncError != nil:
				cmd.PrintErrln(styleError.Render(fmt.Sprintf("sync failed: %v", s.SyncError)))
			case s.LastSyncedAtEpochMs != nil:
				cmd.Printf("synced at %s\n", formatDateTime(*s.LastSyncedAtEpochMs))
			}
		}
	}()

	cmd.Println("Watching for changes. Press Ctrl+C to stop.")
	if scheduler != nil {
		err := scheduler.Start(ctx)
		if err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
	}
	<-ctx.Done()
	if scheduler != nil {
		_ = scheduler.Stop()
	}
	return nil
}
