package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage the signed-in account",
	Long: `Manage the account local data syncs to.

The session is stored in the config file, so it survives restarts
until you log out. Changes made while signed out stay local and are
pushed the next time you sync.`,
}

var authSignupCmd = &cobra.Command{
	Use:   "signup [email]",
	Short: "Create an account and sign in",
	Args:  cobra.ExactArgs(1),
	RunE:  runAuthSignup,
}

var authLoginCmd = &cobra.Command{
	Use:   "login [email]",
	Short: "Sign in to an existing account",
	Args:  cobra.ExactArgs(1),
	RunE:  runAuthLogin,
}

var authLogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out",
	Args:  cobra.NoArgs,
	RunE:  runAuthLogout,
}

var authWhoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in user",
	Args:  cobra.NoArgs,
	RunE:  runAuthWhoami,
}

var authPassword string

func init() {
	for _, c := range []*cobra.Command{authSignupCmd, authLoginCmd} {
		c.Flags().StringVar(&authPassword, "password", "", "Password (prompted for when omitted)")
	}

	authCmd.AddCommand(authSignupCmd)
	authCmd.AddCommand(authLoginCmd)
	authCmd.AddCommand(authLogoutCmd)
	authCmd.AddCommand(authWhoamiCmd)
	rootCmd.AddCommand(authCmd)
}

func requireAuth() error {
	if authService == nil {
		return errors.New("auth service not configured")
	}
	return nil
}

func runAuthSignup(cmd *cobra.Command, args []string) error {
	if err := requireAuth(); err != nil {
		return err
	}
	password, err := promptPassword(cmd)
	if err != nil {
		return err
	}

	userID, err := authService.SignUp(cmd.Context(), args[0], password)
	if err != nil {
		return fmt.Errorf("sign up failed: %w", err)
	}
	cmd.Println(styleSuccess.Render("✓ Account created"))
	cmd.Printf("Signed in as %s\n", userID)
	return nil
}

func runAuthLogin(cmd *cobra.Command, args []string) error {
	if err := requireAuth(); err != nil {
		return err
	}
	password, err := promptPassword(cmd)
	if err != nil {
		return err
	}

	userID, err := authService.SignIn(cmd.Context(), args[0], password)
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}
	cmd.Printf("Signed in as %s\n", userID)
	return nil
}

func runAuthLogout(cmd *cobra.Command, _ []string) error {
	if err := requireAuth(); err != nil {
		return err
	}
	if err := authService.SignOut(cmd.Context()); err != nil {
		return fmt.Errorf("logout failed: %w", err)
	}
	cmd.Println("Signed out. Local data is kept.")
	return nil
}

func runAuthWhoami(cmd *cobra.Command, _ []string) error {
	if err := requireAuth(); err != nil {
		return err
	}
	userID := authService.CurrentUserID()
	if userID == "" {
		cmd.Println("Not signed in.")
		return nil
	}
	cmd.Printf("Signed in as %s\n", userID)
	return nil
}

func promptPassword(cmd *cobra.Command) (string, error) {
	if authPassword != "" {
		return authPassword, nil
	}
	cmd.Print("Password: ")
	password, err := readPassword(cmd.InOrStdin())
	cmd.Println()
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return password, nil
}

// readPassword reads without echo when in is the terminal, and falls back
// to a plain line read otherwise.
func readPassword(in io.Reader) (string, error) {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		password, err := term.ReadPassword(int(f.Fd()))
		if err == nil {
			return string(password), nil
		}
	}

	input, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimSpace(input), nil
}
