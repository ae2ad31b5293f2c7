package mcp

import (
	"context"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/client/transport"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Client wraps an initialized MCP client.
type Client struct{ c *client.Client }

// NewStdioClient launches command with args and speaks MCP over its stdio,
// e.g. NewStdioClient(ctx, "vecquery", "mcp", "--index", p, "--meta", m).
func NewStdioClient(ctx context.Context, command string, args ...string) (*Client, error) {
	return start(ctx, transport.NewStdio(command, nil, args...))
}

// NewInProcessClient talks to s without any transport in between.
func NewInProcessClient(ctx context.Context, s *server.MCPServer) (*Client, error) {
	return start(ctx, transport.NewInProcessTransport(s))
}

func start(ctx context.Context, tr transport.Interface) (*Client, error) {
	cli := client.NewClient(tr)

	ctxStart, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := cli.Start(ctxStart); err != nil {
		return nil, fmt.Errorf("start mcp client: %w", err)
	}

	initReq := mcp.InitializeRequest{}
	initReq.Params.ProtocolVersion = mcp.LATEST_PROTOCOL_VERSION
	initReq.Params.ClientInfo = mcp.Implementation{Name: "vecquery-cli", Version: "0.1.0"}
	initReq.Params.Capabilities = mcp.ClientCapabilities{}

	if _, err := cli.Initialize(ctx, initReq); err != nil {
		_ = cli.Close()
		return nil, fmt.Errorf("init mcp client: %w", err)
	}

	return &Client{c: cli}, nil
}

func (c *Client) Close() error { return c.c.Close() }

func (c *Client) Call(
	ctx context.Context,
	name string,
	args map[string]any,
) (*mcp.CallToolResult, error) {
	return c.c.CallTool(
		ctx,
		mcp.CallToolRequest{Params: mcp.CallToolParams{Name: name, Arguments: args}},
	)
}

// VectorSearch calls vector_search and returns its text payload. A tool
// error comes back as a Go error.
func (c *Client) VectorSearch(ctx context.Context, args map[string]any) (string, error) {
	res, err := c.Call(ctx, ToolVectorSearch, args)
	if err != nil {
		return "", err
	}
	text := resultText(res)
	if res.IsError {
		return "", fmt.Errorf("%s: %s", ToolVectorSearch, text)
	}
	return text, nil
}

func resultText(res *mcp.CallToolResult) string {
	for _, c := range res.Content {
		switch tc := c.(type) {
		case mcp.TextContent:
			return tc.Text
		case *mcp.TextContent:
			return tc.Text
		}
	}
	return ""
}
