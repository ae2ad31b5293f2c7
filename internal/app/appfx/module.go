package appfx

import (
	"io"

	"github.com/0x5457/vecquery/cmd/cmdsfx"
	"github.com/0x5457/vecquery/internal/config/configfx"
	"github.com/0x5457/vecquery/internal/embeddings/embeddingsfx"
	"github.com/0x5457/vecquery/internal/index/indexfx"
	"github.com/0x5457/vecquery/internal/logging/loggingfx"
	"github.com/0x5457/vecquery/internal/mcp/mcpfx"
	"github.com/0x5457/vecquery/internal/search/searchfx"
	"go.uber.org/fx"
)

// Module holds everything a single query needs
var Module = fx.Options(
	configfx.Module,
	loggingfx.Module,
	indexfx.Module,
	embeddingsfx.Module,
	searchfx.Module,
	cmdsfx.Module,
)

// MCPModule holds the MCP server. It opens no index up front.
var MCPModule = fx.Options(
	configfx.Module,
	loggingfx.Module,
	mcpfx.Module,
	cmdsfx.Module,
)

// WithOutput routes results to stdout and logs to stderr.
func WithOutput(stdout, stderr io.Writer) fx.Option {
	return fx.Supply(
		fx.Annotate(stdout, fx.As(new(io.Writer)), fx.ResultTags(`name:"stdout"`)),
		fx.Annotate(stderr, fx.As(new(io.Writer)), fx.ResultTags(`name:"logWriter"`)),
	)
}

// NewAppWithConfig creates an Fx app that answers the query in cfg
func NewAppWithConfig(cfg configfx.Config, opts ...fx.Option) *fx.App {
	return newApp(Module, cfg, opts...)
}

// NewMCPAppWithConfig creates an Fx app serving MCP with cfg's paths as defaults
func NewMCPAppWithConfig(cfg configfx.Config, opts ...fx.Option) *fx.App {
	return newApp(MCPModule, cfg, opts...)
}

func newApp(module fx.Option, cfg configfx.Config, opts ...fx.Option) *fx.App {
	return fx.New(
		module,
		configfx.Supply(cfg),
		fx.WithLogger(loggingfx.EventLogger),
		fx.Options(opts...),
	)
}
