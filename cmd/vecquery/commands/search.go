package commands

import (
	"context"
	"fmt"

	"github.com/0x5457/vecquery/cmd/cmdsfx"
	"github.com/0x5457/vecquery/internal/app/appfx"
	"github.com/0x5457/vecquery/internal/config/configfx"
	"github.com/spf13/cobra"
	"go.uber.org/dig"
	"go.uber.org/fx"
)

// NewRootCommand returns the vecquery command. Run bare, it answers one
// query; subcommands are added by the caller.
func NewRootCommand() *cobra.Command {
	var cfg configfx.Config

	cmd := &cobra.Command{
		Use:   "vecquery",
		Short: "Query a vector index and print matching metadata as JSON",
		Args:  cobra.NoArgs,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.Validate(); err != nil {
				return err
			}

			var runner *cmdsfx.CommandRunner
			app := appfx.NewAppWithConfig(
				cfg,
				appfx.WithOutput(cmd.OutOrStdout(), cmd.ErrOrStderr()),
				fx.Populate(&runner),
			)
			if err := app.Err(); err != nil {
				return dig.RootCause(err)
			}

			if err := app.Start(cmd.Context()); err != nil {
				return fmt.Errorf("failed to start application: %w", err)
			}
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), fx.DefaultTimeout)
				defer cancel()
				_ = app.Stop(ctx)
			}()

			return runner.RunSearch(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&cfg.Query, "query", "", "Query text")
	cmd.Flags().IntVar(&cfg.K, "k", configfx.DefaultK, "Number of neighbors")
	cmd.Flags().StringVar(&cfg.IndexPath, "index", "", "Vector index path")
	cmd.Flags().StringVar(&cfg.MetaPath, "meta", "", "JSON-lines metadata path")
	for _, name := range []string{"query", "index", "meta"} {
		_ = cmd.MarkFlagRequired(name)
	}

	return cmd
}
