package mcp

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/client/transport"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestStreamableHTTPTransport verifies initialize and list-tools via streamable-http
func TestStreamableHTTPTransport(t *testing.T) {
	s := New(ServerOptions{})
	h := server.NewStreamableHTTPServer(s)
	ts := httptest.NewServer(h)
	t.Cleanup(ts.Close)

	cliTr, err := transport.NewStreamableHTTP(ts.URL)
	if err != nil {
		t.Fatalf("new streamable http: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	if err := cliTr.Start(ctx); err != nil {
		t.Fatalf("start transport: %v", err)
	}
	cli := client.NewClient(cliTr)

	if err := cli.Start(ctx); err != nil {
		t.Fatalf("start client: %v", err)
	}
	defer func() { _ = cli.Close() }()

	initReq := mcp.InitializeRequest{}
	initReq.Params.ProtocolVersion = mcp.LATEST_PROTOCOL_VERSION
	initReq.Params.ClientInfo = mcp.Implementation{Name: "test", Version: "0.0.1"}
	initReq.Params.Capabilities = mcp.ClientCapabilities{}
	if _, err := cli.Initialize(ctx, initReq); err != nil {
		t.Fatalf("initialize: %v", err)
	}

	res, err := cli.ListTools(ctx, mcp.ListToolsRequest{})
	if err != nil {
		t.Fatalf("list tools: %v", err)
	}
	if len(res.Tools) != 1 || res.Tools[0].Name != ToolVectorSearch {
		t.Fatalf("expected only %s, got %v", ToolVectorSearch, res.Tools)
	}
}

// TestInProcessClient runs a full vector_search through the in-process client
func TestInProcessClient(t *testing.T) {
	indexPath, metaPath := writeFixture(t, "{\"name\":\"a\"}\n{\"name\":\"b\"}\n")
	s := New(ServerOptions{Index: indexPath, Meta: metaPath})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	cli, err := NewInProcessClient(ctx, s)
	require.NoError(t, err)
	defer func() { _ = cli.Close() }()

	out, err := cli.VectorSearch(ctx, map[string]any{"query": "a", "k": 1})
	require.NoError(t, err)
	assert.Equal(t, `[{"name":"a","distance":0}]`+"\n", out)

	_, err = cli.VectorSearch(ctx, map[string]any{"query": "a", "k": 0})
	assert.Error(t, err)
}
