package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/jobtrack/internal/core/domain"
	"github.com/custodia-labs/jobtrack/internal/core/ports/driving"
)

var interviewCmd = &cobra.Command{
	Use:   "interview",
	Short: "Manage interviews",
}

var interviewAddCmd = &cobra.Command{
	Use:   "add [app-id]",
	Short: "Schedule an interview",
	Long: `Schedule an interview for an application.

Examples:
  jobtrack interview add <app-id> --at "2024-03-05 14:00" --mode video --link https://meet.example/abc
  jobtrack interview add <app-id> --at 2024-03-07 --mode in-person --location "Acme HQ"`,
	Args: cobra.ExactArgs(1),
	RunE: runInterviewAdd,
}

var interviewListCmd = &cobra.Command{
	Use:   "list [app-id]",
	Short: "List interviews, optionally for one application",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runInterviewList,
}

var interviewUpcomingCmd = &cobra.Command{
	Use:   "upcoming",
	Short: "List interviews from now on",
	Args:  cobra.NoArgs,
	RunE:  runInterviewUpcoming,
}

var interviewDeleteCmd = &cobra.Command{
	Use:   "delete [interview-id]",
	Short: "Delete an interview",
	Args:  cobra.ExactArgs(1),
	RunE:  runInterviewDelete,
}

var (
	interviewAt          string
	interviewMode        string
	interviewInterviewer string
	interviewEmail       string
	interviewLocation    string
	interviewLink        string
	interviewNotes       string
)

func init() {
	f := interviewAddCmd.Flags()
	f.StringVar(&interviewAt, "at", "", "When, e.g. \"2024-03-05 14:00\" (required)")
	f.StringVar(&interviewMode, "mode", "video", "in-person, video, phone or other")
	f.StringVar(&interviewInterviewer, "interviewer", "", "Interviewer name")
	f.StringVar(&interviewEmail, "email", "", "Interviewer email")
	f.StringVar(&interviewLocation, "location", "", "Where the interview takes place")
	f.StringVar(&interviewLink, "link", "", "Meeting link")
	f.StringVar(&interviewNotes, "notes", "", "Free-form notes")

	interviewCmd.AddCommand(interviewAddCmd)
	interviewCmd.AddCommand(interviewListCmd)
	interviewCmd.AddCommand(interviewUpcomingCmd)
	interviewCmd.AddCommand(interviewDeleteCmd)
	rootCmd.AddCommand(interviewCmd)
}

func requireInterviews() error {
	if tracker == nil || interviews == nil {
		return errors.New("interview service not configured")
	}
	return nil
}

func runInterviewAdd(cmd *cobra.Command, args []string) error {
	if err := requireInterviews(); err != nil {
		return err
	}
	if interviewAt == "" {
		return fmt.Errorf("%w: --at is required", domain.ErrInvalidInput)
	}
	at, err := parseDate(interviewAt)
	if err != nil {
		return err
	}
	mode, err := domain.ParseInterviewMode(interviewMode)
	if err != nil {
		return err
	}

	interview, err := tracker.AddInterview(cmd.Context(), driving.InterviewInput{
		ApplicationID:        args[0],
		ScheduledDateEpochMs: at,
		Mode:                 mode,
		InterviewerName:      interviewInterviewer,
		InterviewerEmail:     interviewEmail,
		Location:             interviewLocation,
		MeetingLink:          interviewLink,
		Notes:                interviewNotes,
	})
	if err != nil {
		return fmt.Errorf("failed to add interview: %w", err)
	}
	cmd.Printf("Scheduled interview %s for %s\n", interview.ID, formatDateTime(interview.ScheduledDateEpochMs))
	return nil
}

func runInterviewList(cmd *cobra.Command, args []string) error {
	if err := requireInterviews(); err != nil {
		return err
	}

	observe := interviews.ObserveAll
	if len(args) == 1 {
		observe = func(ctx context.Context) (<-chan []domain.Interview, error) {
			return interviews.ObserveByApplication(ctx, args[0])
		}
	}
	return listInterviews(cmd, observe)
}

func runInterviewUpcoming(cmd *cobra.Command, _ []string) error {
	if err := requireInterviews(); err != nil {
		return err
	}
	return listInterviews(cmd, interviews.ObserveUpcoming)
}

func listInterviews(cmd *cobra.Command, observe func(context.Context) (<-chan []domain.Interview, error)) error {
	list, err := firstValue(cmd.Context(), observe)
	if err != nil {
		return fmt.Errorf("failed to list interviews: %w", err)
	}
	if len(list) == 0 {
		cmd.Println("No interviews found.")
		return nil
	}
	printInterviews(cmd, list, "")
	return nil
}

func printInterviews(cmd *cobra.Command, list []domain.Interview, indent string) {
	for i := range list {
		iv := &list[i]
		cmd.Printf("%s%s  %-9s", indent, formatDateTime(iv.ScheduledDateEpochMs), iv.InterviewMode)
		if iv.InterviewerName != nil {
			cmd.Printf("  with %s", *iv.InterviewerName)
		}
		switch {
		case iv.MeetingLink != nil:
			cmd.Printf("  %s", *iv.MeetingLink)
		case iv.Location != nil:
			cmd.Printf("  at %s", *iv.Location)
		}
		cmd.Printf("  %s\n", styleMuted.Render(iv.ID))
	}
}

func runInterviewDelete(cmd *cobra.Command, args []string) error {
	if err := requireInterviews(); err != nil {
		return err
	}
	if err := tracker.DeleteInterview(cmd.Context(), args[0]); err != nil {
		return fmt.Errorf("failed to delete interview: %w", err)
	}
	cmd.Printf("Deleted interview %s\n", args[0])
	return nil
}
