package commands

import (
	"github.com/0x5457/vecquery/cmd/cmdsfx"
	"github.com/0x5457/vecquery/internal/app/appfx"
	"github.com/0x5457/vecquery/internal/config/configfx"
	"github.com/spf13/cobra"
	"go.uber.org/dig"
	"go.uber.org/fx"
)

// NewMCPServeCommand starts an MCP server exposing vector_search.
func NewMCPServeCommand() *cobra.Command {
	var (
		cfg       configfx.Config
		transport string
		address   string
	)

	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Run MCP server",
		Long:  "Run MCP server providing the vector_search tool.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var runner *cmdsfx.CommandRunner
			app := appfx.NewMCPAppWithConfig(
				cfg,
				appfx.WithOutput(cmd.OutOrStdout(), cmd.ErrOrStderr()),
				fx.Populate(&runner),
			)
			if err := app.Err(); err != nil {
				return dig.RootCause(err)
			}
			return runner.RunMCPServer(transport, address)
		},
	}

	cmd.Flags().StringVar(&cfg.IndexPath, "index", "", "default index path")
	cmd.Flags().StringVar(&cfg.MetaPath, "meta", "", "default metadata path")
	cmd.Flags().
		StringVarP(&transport, "transport", "t", "stdio", "transport (stdio, http)")
	cmd.Flags().StringVarP(&address, "address", "a", "", "server address (http), e.g. :8080")

	return cmd
}
