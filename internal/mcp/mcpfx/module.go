package mcpfx

import (
	"log/slog"

	"github.com/0x5457/vecquery/internal/config/configfx"
	appmcp "github.com/0x5457/vecquery/internal/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/fx"
)

// Params represents dependencies for MCP server
type Params struct {
	fx.In

	Config *configfx.Config
	Logger *slog.Logger `optional:"true"`
}

// NewMCPServer creates a new MCP server instance. The configured paths are
// only defaults; each call may name its own.
func NewMCPServer(params Params) *server.MCPServer {
	return appmcp.New(appmcp.ServerOptions{
		Index:  params.Config.IndexPath,
		Meta:   params.Config.MetaPath,
		Logger: params.Logger,
	})
}

// Module provides MCP server components
var Module = fx.Module("mcp",
	fx.Provide(NewMCPServer),
)
