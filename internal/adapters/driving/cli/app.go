package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/jobtrack/internal/core/domain"
	"github.com/custodia-labs/jobtrack/internal/core/ports/driving"
)

var appCmd = &cobra.Command{
	Use:     "app",
	Aliases: []string{"application"},
	Short:   "Manage job applications",
	Long: `Add, list, update and delete job applications.

Status changes are recorded in the application's history.

Examples:
  jobtrack app add --company Acme --role "Backend Engineer" --url https://acme.example/jobs/42
  jobtrack app list --status interview
  jobtrack app status <app-id> offer
  jobtrack app history <app-id>`,
}

var appAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add an application",
	Args:  cobra.NoArgs,
	RunE:  runAppAdd,
}

var appListCmd = &cobra.Command{
	Use:   "list",
	Short: "List applications",
	Args:  cobra.NoArgs,
	RunE:  runAppList,
}

var appShowCmd = &cobra.Command{
	Use:   "show [app-id]",
	Short: "Show an application with its tasks, interviews and contacts",
	Args:  cobra.ExactArgs(1),
	RunE:  runAppShow,
}

var appUpdateCmd = &cobra.Command{
	Use:   "update [app-id]",
	Short: "Edit an application",
	Long:  `Edit an application. Only the flags given are changed.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runAppUpdate,
}

var appStatusCmd = &cobra.Command{
	Use:   "status [app-id] [status]",
	Short: "Change an application's status",
	Long: `Change an application's status. Valid statuses are:
  draft, applied, screening, interview, offer, rejected, accepted, withdrawn`,
	Args: cobra.ExactArgs(2),
	RunE: runAppStatus,
}

var appDeleteCmd = &cobra.Command{
	Use:   "delete [app-id]",
	Short: "Delete an application",
	Args:  cobra.ExactArgs(1),
	RunE:  runAppDelete,
}

var appHistoryCmd = &cobra.Command{
	Use:   "history [app-id]",
	Short: "Show an application's status history",
	Args:  cobra.ExactArgs(1),
	RunE:  runAppHistory,
}

var appSearchCmd = &cobra.Command{
	Use:   "search [keyword]",
	Short: "Find applications by company or role",
	Args:  cobra.ExactArgs(1),
	RunE:  runAppSearch,
}

// Flags shared by add and update.
var (
	appCompany  string
	appRole     string
	appLocation string
	appURL      string
	appSource   string
	appStatus   string
	appApplied  string
	appNotes    string

	appListStatus string
)

func init() {
	for _, c := range []*cobra.Command{appAddCmd, appUpdateCmd} {
		c.Flags().StringVar(&appCompany, "company", "", "Company name")
		c.Flags().StringVar(&appRole, "role", "", "Role or job title")
		c.Flags().StringVar(&appLocation, "location", "", "Job location")
		c.Flags().StringVar(&appURL, "url", "", "Link to the job posting")
		c.Flags().StringVar(&appSource, "source", "", "Where you found the job")
		c.Flags().StringVar(&appNotes, "notes", "", "Free-form notes")
	}
	appAddCmd.Flags().StringVar(&appStatus, "status", "applied", "Initial status")
	appAddCmd.Flags().StringVar(&appApplied, "applied", "", "Date applied, e.g. 2024-03-01 (default today)")
	appListCmd.Flags().StringVarP(&appListStatus, "status", "s", "", "Only list applications with this status")

	appCmd.AddCommand(appAddCmd)
	appCmd.AddCommand(appListCmd)
	appCmd.AddCommand(appShowCmd)
	appCmd.AddCommand(appUpdateCmd)
	appCmd.AddCommand(appStatusCmd)
	appCmd.AddCommand(appDeleteCmd)
	appCmd.AddCommand(appHistoryCmd)
	appCmd.AddCommand(appSearchCmd)
	rootCmd.AddCommand(appCmd)
}

func runAppAdd(cmd *cobra.Command, _ []string) error {
	if err := requireTracker(); err != nil {
		return err
	}

	status, err := domain.ParseApplicationStatus(appStatus)
	if err != nil {
		return err
	}
	var applied int64
	if appApplied != "" {
		if applied, err = parseDate(appApplied); err != nil {
			return err
		}
	}

	app, err := tracker.AddApplication(cmd.Context(), driving.ApplicationInput{
		Company:            appCompany,
		Role:               appRole,
		Location:           appLocation,
		JobURL:             appURL,
		Source:             appSource,
		Status:             status,
		AppliedDateEpochMs: applied,
		Notes:              appNotes,
	})
	if err != nil {
		return fmt.Errorf("failed to add application: %w", err)
	}

	cmd.Printf("Added application %s\n", app.ID)
	cmd.Printf("  %s at %s  %s\n", app.Role, app.Company, renderStatus(app.Status))
	return nil
}

func runAppList(cmd *cobra.Command, _ []string) error {
	if err := requireTracker(); err != nil {
		return err
	}

	observe := applications.ObserveAll
	if appListStatus != "" {
		status, err := domain.ParseApplicationStatus(appListStatus)
		if err != nil {
			return err
		}
		observe = func(ctx context.Context) (<-chan []domain.Application, error) {
			return applications.ObserveByStatus(ctx, status)
		}
	}

	apps, err := firstValue(cmd.Context(), observe)
	if err != nil {
		return fmt.Errorf("failed to list applications: %w", err)
	}
	printApplications(cmd, apps)
	return nil
}

func runAppSearch(cmd *cobra.Command, args []string) error {
	if err := requireTracker(); err != nil {
		return err
	}

	apps, err := firstValue(cmd.Context(), func(ctx context.Context) (<-chan []domain.Application, error) {
		return applications.Search(ctx, args[0])
	})
	if err != nil {
		return fmt.Errorf("failed to search applications: %w", err)
	}
	printApplications(cmd, apps)
	return nil
}

func printApplications(cmd *cobra.Command, apps []domain.Application) {
	if len(apps) == 0 {
		cmd.Println("No applications found.")
		return
	}

	for i := range apps {
		a := &apps[i]
		cmd.Printf("%s  %s  %s at %s\n", renderStatus(a.Status), formatDate(a.AppliedDateEpochMs), a.Role, a.Company)
		cmd.Printf("           %s\n", styleMuted.Render(a.ID))
	}
	cmd.Printf("\nTotal: %d applications\n", len(apps))
}

func runAppShow(cmd *cobra.Command, args []string) error {
	if err := requireTracker(); err != nil {
		return err
	}
	ctx := cmd.Context()
	id := args[0]

	app, err := firstValue(ctx, func(ctx context.Context) (<-chan *domain.Application, error) {
		return applications.ObserveByID(ctx, id)
	})
	if err != nil {
		return fmt.Errorf("failed to get application: %w", err)
	}
	if app == nil {
		return fmt.Errorf("application %s: %w", id, domain.ErrNotFound)
	}

	cmd.Println(styleTitle.Render(app.Role + " at " + app.Company))
	cmd.Printf("  ID:       %s\n", app.ID)
	cmd.Printf("  Status:   %s\n", renderStatus(app.Status))
	cmd.Printf("  Applied:  %s\n", formatDate(app.AppliedDateEpochMs))
	if app.Location != nil {
		cmd.Printf("  Location: %s\n", *app.Location)
	}
	if app.JobURL != nil {
		cmd.Printf("  URL:      %s\n", *app.JobURL)
	}
	if app.Source != nil {
		cmd.Printf("  Source:   %s\n", *app.Source)
	}
	if app.Notes != "" {
		cmd.Printf("  Notes:    %s\n", app.Notes)
	}
	if app.NeedsSync {
		cmd.Println(styleWarning.Render("  Not yet synced"))
	}

	if tasks != nil {
		list, err := firstValue(ctx, func(ctx context.Context) (<-chan []domain.Task, error) {
			return tasks.ObserveByApplication(ctx, id)
		})
		if err != nil {
			return fmt.Errorf("failed to list tasks: %w", err)
		}
		if len(list) > 0 {
			cmd.Println("\n  Tasks:")
			printTasks(cmd, list, "    ")
		}
	}

	if interviews != nil {
		list, err := firstValue(ctx, func(ctx context.Context) (<-chan []domain.Interview, error) {
			return interviews.ObserveByApplication(ctx, id)
		})
		if err != nil {
			return fmt.Errorf("failed to list interviews: %w", err)
		}
		if len(list) > 0 {
			cmd.Println("\n  Interviews:")
			printInterviews(cmd, list, "    ")
		}
	}

	if contacts != nil {
		list, err := firstValue(ctx, func(ctx context.Context) (<-chan []domain.Contact, error) {
			return contacts.ObserveByApplication(ctx, id)
		})
		if err != nil {
			return fmt.Errorf("failed to list contacts: %w", err)
		}
		if len(list) > 0 {
			cmd.Println("\n  Contacts:")
			printContacts(cmd, list, "    ")
		}
	}
	return nil
}

func runAppUpdate(cmd *cobra.Command, args []string) error {
	if err := requireTracker(); err != nil {
		return err
	}

	app, err := applications.Get(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to get application: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("company") {
		app.Company = appCompany
	}
	if flags.Changed("role") {
		app.Role = appRole
	}
	if flags.Changed("location") {
		app.Location = domain.StringPtr(appLocation)
	}
	if flags.Changed("url") {
		app.JobURL = domain.StringPtr(appURL)
	}
	if flags.Changed("source") {
		app.Source = domain.StringPtr(appSource)
	}
	if flags.Changed("notes") {
		app.Notes = appNotes
	}

	updated, err := tracker.UpdateApplication(cmd.Context(), *app)
	if err != nil {
		return fmt.Errorf("failed to update application: %w", err)
	}
	cmd.Printf("Updated application %s\n", updated.ID)
	return nil
}

func runAppStatus(cmd *cobra.Command, args []string) error {
	if err := requireTracker(); err != nil {
		return err
	}

	status, err := domain.ParseApplicationStatus(args[1])
	if err != nil {
		return err
	}
	app, err := tracker.ChangeStatus(cmd.Context(), args[0], status)
	if err != nil {
		return fmt.Errorf("failed to change status: %w", err)
	}
	cmd.Printf("%s at %s is now %s\n", app.Role, app.Company, renderStatus(app.Status))
	return nil
}

func runAppDelete(cmd *cobra.Command, args []string) error {
	if err := requireTracker(); err != nil {
		return err
	}
	if err := tracker.DeleteApplication(cmd.Context(), args[0]); err != nil {
		return fmt.Errorf("failed to delete application: %w", err)
	}
	cmd.Printf("Deleted application %s\n", args[0])
	return nil
}

func runAppHistory(cmd *cobra.Command, args []string) error {
	if statusHistory == nil {
		return fmt.Errorf("status history service not configured")
	}

	entries, err := firstValue(cmd.Context(), func(ctx context.Context) (<-chan []domain.StatusHistory, error) {
		return statusHistory.ObserveByApplication(ctx, args[0])
	})
	if err != nil {
		return fmt.Errorf("failed to load history: %w", err)
	}
	if len(entries) == 0 {
		cmd.Printf("No history for application %s\n", args[0])
		return nil
	}

	for i := range entries {
		e := &entries[i]
		var line strings.Builder
		line.WriteString(formatDateTime(e.ChangedAtEpochMs))
		line.WriteString("  ")
		if e.FromStatus != nil {
			line.WriteString(renderStatus(*e.FromStatus))
			line.WriteString(" -> ")
		}
		line.WriteString(renderStatus(e.ToStatus))
		if e.Note != nil {
			line.WriteString("  ")
			line.WriteString(styleMuted.Render(*e.Note))
		}
		cmd.Println(line.String())
	}
	return nil
}
