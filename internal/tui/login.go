package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
)

// Credentials are the values collected by the login form.
type Credentials struct {
	Identifier string
	Secret     string
}

// NewLoginForm builds the sign-in form over creds. A non-empty message is
// shown above the fields, e.g. the reason the previous attempt failed.
func NewLoginForm(creds *Credentials, message string) *huh.Form {
	identifier := huh.NewInput().
		Title("Identifier").
		Placeholder("you@company.com").
		Value(&creds.Identifier).
		Validate(required("identifier"))

	secret := huh.NewInput().
		Title("Secret").
		EchoMode(huh.EchoModePassword).
		Value(&creds.Secret).
		Validate(required("secret"))

	group := huh.NewGroup(identifier, secret)
	if message != "" {
		group = huh.NewGroup(huh.NewNote().Title("Sign in").Description(message), identifier, secret)
	}
	return huh.NewForm(group)
}

// PromptCredentials runs the login form.
func PromptCredentials(creds *Credentials, message string) error {
	if err := NewLoginForm(creds, message).Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return err
		}
		return fmt.Errorf("login prompt: %w", err)
	}
	return nil
}

func required(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", field)
		}
		return nil
	}
}
