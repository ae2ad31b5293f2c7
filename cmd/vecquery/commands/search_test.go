package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/0x5457/vecquery/cmd/cmdsfx"
	"github.com/0x5457/vecquery/internal/index"
	"github.com/0x5457/vecquery/internal/index/hnswgraph"
	"github.com/coder/hnsw"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFiles(t *testing.T, meta string) (string, string) {
	t.Helper()
	dir := t.TempDir()

	g := hnsw.NewGraph[int64]()
	g.Distance = hnsw.EuclideanDistance
	g.Add(
		hnsw.MakeNode(int64(0), []float32{'h', 'a'}),
		hnsw.MakeNode(int64(1), []float32{'h', 'i'}),
	)
	var buf bytes.Buffer
	require.NoError(t, hnswgraph.Write(&buf, g))
	indexPath := filepath.Join(dir, "docs.index")
	require.NoError(t, os.WriteFile(indexPath, buf.Bytes(), 0o644))

	metaPath := filepath.Join(dir, "docs.jsonl")
	require.NoError(t, os.WriteFile(metaPath, []byte(meta), 0o644))
	return indexPath, metaPath
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := NewRootCommand()
	cmd.AddCommand(NewMCPServeCommand())
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestRootCommand_Search(t *testing.T) {
	indexPath, metaPath := writeFiles(t, "{\"text\":\"ha\"}\n{\"text\":\"hi\"}\n")

	stdout, _, err := execute(t, "--query", "hi", "--k", "2", "--index", indexPath, "--meta", metaPath)
	require.NoError(t, err)
	assert.Equal(t, `[{"text":"hi","distance":0},{"text":"ha","distance":8}]`+"\n", stdout)
}

func TestRootCommand_DefaultK(t *testing.T) {
	indexPath, metaPath := writeFiles(t, "{\"text\":\"ha\"}\n{\"text\":\"hi\"}\n")

	stdout, _, err := execute(t, "--query", "hi", "--index", indexPath, "--meta", metaPath)
	require.NoError(t, err)
	assert.Contains(t, stdout, `"ha"`, "k=5 over two rows returns both")
}

func TestRootCommand_EmptyMetadata(t *testing.T) {
	indexPath, metaPath := writeFiles(t, "not json\n")

	stdout, _, err := execute(t, "--query", "hi", "--index", indexPath, "--meta", metaPath)
	var exitErr *cmdsfx.ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, cmdsfx.ExitEmptyMetadata, exitErr.Code)
	assert.Equal(t, `{"error":"Empty metadata"}`+"\n", stdout)
}

func TestRootCommand_MissingIndex(t *testing.T) {
	_, metaPath := writeFiles(t, "{}\n")

	stdout, _, err := execute(t,
		"--query", "hi",
		"--index", filepath.Join(t.TempDir(), "missing.index"),
		"--meta", metaPath,
	)
	var loadErr *index.LoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Empty(t, stdout)
}

func TestRootCommand_FlagErrors(t *testing.T) {
	_, _, err := execute(t, "--query", "hi")
	assert.Error(t, err, "index and meta are required")

	_, _, err = execute(t, "--query", "hi", "--k", "many", "--index", "a", "--meta", "b")
	assert.Error(t, err)

	_, _, err = execute(t, "completion", "bash")
	assert.Error(t, err, "no completion command")
}

func TestMCPCommand_UnsupportedTransport(t *testing.T) {
	_, _, err := execute(t, "mcp", "--transport", "carrier-pigeon")
	assert.Error(t, err)
}
