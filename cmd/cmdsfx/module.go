package cmdsfx

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/0x5457/vecquery/internal/config/configfx"
	"github.com/0x5457/vecquery/internal/output"
	"github.com/0x5457/vecquery/internal/search"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/fx"
)

// Exit codes returned by the vecquery binary.
const (
	ExitOK            = 0
	ExitEmptyMetadata = 1
	ExitFailure       = 2
)

// ExitError carries a process exit code for a failure that has already been
// reported on stdout.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string { return e.Err.Error() }

func (e *ExitError) Unwrap() error { return e.Err }

// CommandRunner provides methods to run different application commands
type CommandRunner struct {
	config        *configfx.Config
	searchService *search.Service
	mcpServer     *server.MCPServer
	stdout        io.Writer
}

// Params represents dependencies for command runner
type Params struct {
	fx.In

	Config        *configfx.Config
	SearchService *search.Service   `optional:"true"`
	MCPServer     *server.MCPServer `optional:"true"`
	Stdout        io.Writer         `name:"stdout" optional:"true"`
}

// NewCommandRunner creates a new command runner
func NewCommandRunner(params Params) *CommandRunner {
	stdout := params.Stdout
	if stdout == nil {
		stdout = os.Stdout
	}
	return &CommandRunner{
		config:        params.Config,
		searchService: params.SearchService,
		mcpServer:     params.MCPServer,
		stdout:        stdout,
	}
}

// RunSearch answers the configured query and prints the JSON result.
func (r *CommandRunner) RunSearch(ctx context.Context) error {
	if r.searchService == nil {
		return fmt.Errorf("search service not available")
	}

	records, err := r.searchService.Run(ctx, search.Request{
		Query:    r.config.Query,
		K:        r.config.K,
		MetaPath: r.config.MetaPath,
	})
	if errors.Is(err, search.ErrEmptyMetadata) {
		if werr := output.WriteError(r.stdout, "Empty metadata"); werr != nil {
			return werr
		}
		return &ExitError{Code: ExitEmptyMetadata, Err: err}
	}
	if err != nil {
		return err
	}
	return output.WriteResults(r.stdout, records)
}

// RunMCPServer executes the MCP server
func (r *CommandRunner) RunMCPServer(transport, address string) error {
	if r.mcpServer == nil {
		return fmt.Errorf("MCP server not available")
	}

	switch transport {
	case "stdio":
		return server.ServeStdio(r.mcpServer)
	case "http":
		// Streamable HTTP server on address, default ":8080" if empty
		addr := address
		if addr == "" {
			addr = ":8080"
		}
		httpSrv := server.NewStreamableHTTPServer(r.mcpServer)
		return httpSrv.Start(addr)
	default:
		return fmt.Errorf("unsupported transport: %s (supported: stdio, http)", transport)
	}
}

// Module provides command runner
var Module = fx.Module("commands",
	fx.Provide(NewCommandRunner),
)
