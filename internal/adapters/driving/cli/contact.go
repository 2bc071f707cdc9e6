package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/jobtrack/internal/core/domain"
	"github.com/custodia-labs/jobtrack/internal/core/ports/driving"
)

var contactCmd = &cobra.Command{
	Use:   "contact",
	Short: "Manage contacts",
}

var contactAddCmd = &cobra.Command{
	Use:   "add [app-id] [name]",
	Short: "Add a contact to an application",
	Args:  cobra.ExactArgs(2),
	RunE:  runContactAdd,
}

var contactListCmd = &cobra.Command{
	Use:   "list [app-id]",
	Short: "List contacts, optionally for one application",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runContactList,
}

var contactDeleteCmd = &cobra.Command{
	Use:   "delete [contact-id]",
	Short: "Delete a contact",
	Args:  cobra.ExactArgs(1),
	RunE:  runContactDelete,
}

var (
	contactRole     string
	contactEmail    string
	contactLinkedIn string
	contactNotes    string
)

func init() {
	contactAddCmd.Flags().StringVar(&contactRole, "role", "", "Their role, e.g. Recruiter")
	contactAddCmd.Flags().StringVar(&contactEmail, "email", "", "Email address")
	contactAddCmd.Flags().StringVar(&contactLinkedIn, "linkedin", "", "LinkedIn profile URL")
	contactAddCmd.Flags().StringVar(&contactNotes, "notes", "", "Free-form notes")

	contactCmd.AddCommand(contactAddCmd)
	contactCmd.AddCommand(contactListCmd)
	contactCmd.AddCommand(contactDeleteCmd)
	rootCmd.AddCommand(contactCmd)
}

func requireContacts() error {
	if tracker == nil || contacts == nil {
		return errors.New("contact service not configured")
	}
	return nil
}

func runContactAdd(cmd *cobra.Command, args []string) error {
	if err := requireContacts(); err != nil {
		return err
	}
	contact, err := tracker.AddContact(cmd.Context(), driving.ContactInput{
		ApplicationID: args[0],
		Name:          args[1],
		Role:          contactRole,
		Email:         contactEmail,
		LinkedInURL:   contactLinkedIn,
		Notes:         contactNotes,
	})
	if err != nil {
		return fmt.Errorf("failed to add contact: %w", err)
	}
	cmd.Printf("Added contact %s\n", contact.ID)
	return nil
}

func runContactList(cmd *cobra.Command, args []string) error {
	if err := requireContacts(); err != nil {
		return err
	}

	observe := contacts.ObserveAll
	if len(args) == 1 {
		observe = func(ctx context.Context) (<-chan []domain.Contact, error) {
			return contacts.ObserveByApplication(ctx, args[0])
		}
	}
	list, err := firstValue(cmd.Context(), observe)
	if err != nil {
		return fmt.Errorf("failed to list contacts: %w", err)
	}
	if len(list) == 0 {
		cmd.Println("No contacts found.")
		return nil
	}
	printContacts(cmd, list, "")
	return nil
}

func printContacts(cmd *cobra.Command, list []domain.Contact, indent string) {
	for i := range list {
		c := &list[i]
		cmd.Printf("%s%s", indent, c.ContactName)
		if c.ContactRole != nil {
			cmd.Printf(" (%s)", *c.ContactRole)
		}
		if c.EmailText != nil {
			cmd.Printf("  %s", *c.EmailText)
		}
		if c.LinkedInURL != nil {
			cmd.Printf("  %s", *c.LinkedInURL)
		}
		cmd.Printf("  %s\n", styleMuted.Render(c.ID))
	}
}

func runContactDelete(cmd *cobra.Command, args []string) error {
	if err := requireContacts(); err != nil {
		return err
	}
	if err := tracker.DeleteContact(cmd.Context(), args[0]); err != nil {
		return fmt.Errorf("failed to delete contact: %w", err)
	}
	cmd.Printf("Deleted contact %s\n", args[0])
	return nil
}
