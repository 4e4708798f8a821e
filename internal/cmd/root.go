// Package cmd holds the backoffice CLI commands.
package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/spec-kit/backoffice/internal/app"
	"github.com/spec-kit/backoffice/internal/authapi"
	"github.com/spec-kit/backoffice/internal/config"
	"github.com/spec-kit/backoffice/internal/observability"
)

// errNotSignedIn is returned by commands that need a stored session.
var errNotSignedIn = errors.New("not signed in; run `backoffice login` first")

// buildApp assembles the client from configuration. Tests replace it.
var buildApp = func(ctx context.Context) (*app.App, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	if cfg.Logger.Format == "" || cfg.Logger.Format == "json" {
		cfg.Logger.Format = "console"
	}
	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		return nil, nil, fmt.Errorf("init logger: %w", err)
	}

	store, closeStore, err := app.OpenStore(ctx, cfg, logger)
	if err != nil {
		_ = logger.Sync()
		return nil, nil, fmt.Errorf("open credential store: %w", err)
	}

	a := app.New(app.Deps{
		Store:      store,
		API:        authapi.NewHTTPClient(cfg.Client.APIURL, cfg.Client.ModulesPath, nil),
		Logger:     logger,
		Timeout:    cfg.Client.OperationTimeout(),
		EntryRoute: cfg.Client.EntryRoute,
	})
	cleanup := func() {
		closeStore()
		_ = logger.Sync()
	}
	return a, cleanup, nil
}

var (
	client  *app.App
	cleanup func()
)

var rootCmd = &cobra.Command{
	Use:   "backoffice",
	Short: "Terminal client for the business back office",
	Long: `backoffice signs you in to the back office, keeps your session in an
encrypted credential store and lets you browse the modules your privileges
grant.

Examples:
  # Sign in interactively
  backoffice login

  # Show who is signed in
  backoffice whoami

  # Browse modules
  backoffice drawer
`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		a, done, err := buildApp(cmd.Context())
		if err != nil {
			return err
		}
		client, cleanup = a, done
		return nil
	},
	PersistentPostRun: func(*cobra.Command, []string) {
		if cleanup != nil {
			cleanup()
		}
		client, cleanup = nil, nil
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.ExecuteContext(context.Background())
}

// requireSession restores the stored session or fails with errNotSignedIn.
func requireSession(ctx context.Context) error {
	ok, err := client.Bootstrap(ctx)
	if err != nil {
		return err
	}
	if !ok {
		return errNotSignedIn
	}
	return nil
}
