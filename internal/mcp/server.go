package mcp

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/0x5457/vecquery/internal/config/configfx"
	"github.com/0x5457/vecquery/internal/embeddings"
	"github.com/0x5457/vecquery/internal/index"
	"github.com/0x5457/vecquery/internal/output"
	"github.com/0x5457/vecquery/internal/search"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// ToolVectorSearch is the name of the only tool the server exposes.
const ToolVectorSearch = "vector_search"

// ServerOptions contains configuration for the MCP server
type ServerOptions struct {
	Index  string // default index path for calls that omit it
	Meta   string // default metadata path for calls that omit it
	Logger *slog.Logger
}

// Server answers vector_search calls. Every call opens the index and the
// metadata itself so concurrent calls share nothing.
type Server struct {
	opts   ServerOptions
	server *server.MCPServer
}

// New returns an MCP server exposing the vector_search tool.
func New(opts ServerOptions) *server.MCPServer {
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	srv := &Server{
		opts: opts,
		server: server.NewMCPServer(
			"vecquery/mcp",
			"0.1.0",
			server.WithToolCapabilities(true),
		),
	}
	srv.server.AddTool(newVectorSearchTool(), srv.handleVectorSearch)
	return srv.server
}

func newVectorSearchTool() mcp.Tool {
	return mcp.NewTool(
		ToolVectorSearch,
		mcp.WithDescription(
			"Nearest-neighbor search over a vector index, joined with its JSON-lines metadata",
		),
		mcp.WithString("query", mcp.Description("Query text"), mcp.Required()),
		mcp.WithNumber(
			"k",
			mcp.Description("Number of neighbors"),
			mcp.DefaultNumber(configfx.DefaultK),
		),
		mcp.WithString("index", mcp.Description("Index path (defaults to the server's)")),
		mcp.WithString("meta", mcp.Description("Metadata path (defaults to the server's)")),
	)
}

func (srv *Server) handleVectorSearch(
	ctx context.Context,
	req mcp.CallToolRequest,
) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	k := req.GetInt("k", configfx.DefaultK)
	indexPath := req.GetString("index", srv.opts.Index)
	metaPath := req.GetString("meta", srv.opts.Meta)
	if indexPath == "" || metaPath == "" {
		return mcp.NewToolResultError(
			"index and meta paths must be specified (through parameters or server configuration)",
		), nil
	}

	body, err := srv.run(ctx, indexPath, search.Request{Query: query, K: k, MetaPath: metaPath})
	if errors.Is(err, search.ErrEmptyMetadata) {
		return mcp.NewToolResultError("Empty metadata"), nil
	}
	if err != nil {
		srv.opts.Logger.Debug("vector_search failed", "index", indexPath, "error", err)
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(body), nil
}

func (srv *Server) run(ctx context.Context, indexPath string, req search.Request) (string, error) {
	idx, err := index.Open(ctx, indexPath, srv.opts.Logger)
	if err != nil {
		return "", err
	}
	defer func() { _ = idx.Close() }()

	svc := &search.Service{
		Index:    idx,
		Embedder: embeddings.NewLocal(idx.Dimension()),
		Logger:   srv.opts.Logger,
	}
	records, err := svc.Run(ctx, req)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := output.WriteResults(&buf, records); err != nil {
		return "", fmt.Errorf("encode results: %w", err)
	}
	return buf.String(), nil
}
