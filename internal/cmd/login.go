package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/spec-kit/backoffice/internal/tui"
	apperrors "github.com/spec-kit/backoffice/pkg/util/errorutil"
)

const defaultLoginAttempts = 3

var (
	loginIdentifier string
	loginSecret     string
	loginAttempts   int
)

// prompt collects credentials. Tests replace it.
var prompt = tui.PromptCredentials

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in and store the session",
	Long: `Sign in to the back office. Without flags an interactive form asks for the
identifier and secret; a rejected secret is cleared and asked for again while
the identifier is kept.

The secret can also come from the BACKOFFICE_SECRET environment variable.`,
	RunE: runLogin,
}

func init() {
	loginCmd.Flags().StringVar(&loginIdentifier, "identifier", "", "account identifier (email)")
	loginCmd.Flags().StringVar(&loginSecret, "secret", "", "account secret (prefer BACKOFFICE_SECRET)")
	loginCmd.Flags().IntVar(&loginAttempts, "attempts", defaultLoginAttempts, "interactive attempts before giving up")
	rootCmd.AddCommand(loginCmd)
}

func runLogin(cmd *cobra.Command, _ []string) error {
	creds := tui.Credentials{Identifier: loginIdentifier, Secret: loginSecret}
	if creds.Secret == "" {
		creds.Secret = os.Getenv("BACKOFFICE_SECRET")
	}

	if creds.Identifier != "" && creds.Secret != "" {
		if err := client.Login(cmd.Context(), creds.Identifier, creds.Secret); err != nil {
			return err
		}
		printWelcome(cmd.OutOrStdout())
		return nil
	}

	if err := loginLoop(cmd.Context(), &creds, loginAttempts, cmd.ErrOrStderr()); err != nil {
		return err
	}
	printWelcome(cmd.OutOrStdout())
	return nil
}

// loginLoop prompts until the back office accepts the credentials. Only a
// credential rejection is retried; the secret is cleared before each retry.
func loginLoop(ctx context.Context, creds *tui.Credentials, attempts int, errOut io.Writer) error {
	if attempts <= 0 {
		attempts = 1
	}
	message := ""
	var lastErr error
	for i := 0; i < attempts; i++ {
		if err := prompt(creds, message); err != nil {
			return err
		}
		err := client.Login(ctx, creds.Identifier, creds.Secret)
		if err == nil {
			return nil
		}
		if !apperrors.HasCode(err, apperrors.CodeInvalidCredentials) {
			return err
		}
		lastErr = err
		creds.Secret = ""
		message = apperrors.ToDomainError(err).Message
		fmt.Fprintf(errOut, "sign-in rejected: %s\n", message)
	}
	return lastErr
}

func printWelcome(w io.Writer) {
	sess := client.Session.Current()
	name := sess.DisplayName
	if name == "" {
		name = string(sess.UserID)
	}
	fmt.Fprintf(w, "Signed in as %s (%d modules)\n", name, len(client.Router.Routes()))
}
