// Package commands implements coactl, a terminal front end for the chart of accounts.
package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/spf13/cobra"
	"github.com/usamajaved138/erp-frontend/internal/adapters/rpc"
	"github.com/usamajaved138/erp-frontend/internal/apperrors"
	"github.com/usamajaved138/erp-frontend/internal/core/domain"
	portssvc "github.com/usamajaved138/erp-frontend/internal/core/ports/services"
	"github.com/usamajaved138/erp-frontend/internal/core/services"
	"github.com/usamajaved138/erp-frontend/internal/platform/config"
)

// globalOptions are the persistent flags shared by every subcommand.
type globalOptions struct {
	apiURL  string
	timeout time.Duration
	verbose bool
}

// NewRootCommand creates the root CLI command with all subcommands registered.
// Flag defaults come from cfg.
func NewRootCommand(cfg *config.Config) *cobra.Command {
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:   "coactl",
		Short: "Browse and edit the chart of accounts",
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&opts.apiURL, "api-url", cfg.CoaAPIURL, "accounts API endpoint")
	rootCmd.PersistentFlags().DurationVar(&opts.timeout, "timeout", cfg.CoaAPITimeout, "per-request timeout")
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log requests to stderr")

	rootCmd.AddCommand(
		newTreeCommand(opts),
		newAddCommand(opts),
		newEditCommand(opts),
		newDeleteCommand(opts),
		newParentsCommand(opts),
	)

	return rootCmd
}

// ErrorText returns what the CLI prints for a failed command. Known
// application errors get their operator-facing text.
func ErrorText(err error) string {
	for _, known := range []error{
		apperrors.ErrNetwork,
		apperrors.ErrServerRejection,
		apperrors.ErrInvalidParentReference,
		apperrors.ErrMalformedResponse,
		apperrors.ErrValidation,
		apperrors.ErrNotFound,
	} {
		if errors.Is(err, known) {
			return apperrors.UserMessage(err)
		}
	}
	return err.Error()
}

// openView creates a chart view against the configured API and loads it.
func openView(cmd *cobra.Command, opts *globalOptions) (portssvc.ChartViewSvc, error) {
	level := slog.LevelWarn
	if opts.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

	client := rpc.NewAccountClient(opts.apiURL,
		rpc.WithTimeout(opts.timeout),
		rpc.WithClientLogger(logger),
	)
	view := services.NewChartView(client, services.WithChartViewLogger(logger))
	if err := view.Load(commandContext(cmd)); err != nil {
		return nil, err
	}
	printNotifications(cmd, view.Notifications())
	return view, nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// printNotifications writes success toasts to stdout and warnings to stderr.
// Error toasts are skipped; the returned error carries the same text.
func printNotifications(cmd *cobra.Command, notes []domain.Notification) {
	for _, n := range notes {
		var w io.Writer
		switch n.Level {
		case domain.NotifySuccess:
			w = cmd.OutOrStdout()
		case domain.NotifyWarning:
			w = cmd.ErrOrStderr()
		default:
			continue
		}
		fmt.Fprintf(w, "%s: %s\n", n.Level, n.Message)
	}
}
