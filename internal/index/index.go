package index

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/0x5457/vecquery/internal/index/hnswgraph"
	"github.com/0x5457/vecquery/internal/index/sqlvec"
	"github.com/0x5457/vecquery/internal/models"
)

// NoNeighbor is the row id backends report for an empty result slot.
const NoNeighbor int64 = -1

// Index is a read-only nearest-neighbor structure loaded from a file.
type Index interface {
	Dimension() int
	// Search returns k slots per query, nearest first. Slots past the
	// available neighbors are NoMatch.
	Search(ctx context.Context, queries [][]float32, k int) ([][]models.Neighbor, error)
	Close() error
}

// RawSearcher is the shape backend libraries answer in: parallel distance
// and row id slices per query, padded with NoNeighbor.
type RawSearcher interface {
	Dimension() int
	SearchRaw(ctx context.Context, queries [][]float32, k int) ([][]float32, [][]int64, error)
	Close() error
}

// LoadError reports an index file that is missing or unreadable.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load index %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// Format names an on-disk index layout.
type Format string

const (
	FormatSQLiteVec Format = "sqlite-vec"
	FormatHNSW      Format = "hnsw"
)

var sqliteMagic = []byte("SQLite format 3\x00")

// DetectFormat sniffs the file header.
func DetectFormat(path string) (Format, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer func() { _ = f.Close() }()
	header := make([]byte, len(sqliteMagic))
	n, err := io.ReadFull(f, header)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", err
	}
	if n == len(sqliteMagic) && bytes.Equal(header, sqliteMagic) {
		return FormatSQLiteVec, nil
	}
	return FormatHNSW, nil
}

// Open loads the index at path. Every failure is a *LoadError.
func Open(ctx context.Context, path string, logger *slog.Logger) (Index, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	if info.IsDir() {
		return nil, &LoadError{Path: path, Err: errors.New("is a directory")}
	}
	format, err := DetectFormat(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}

	var raw RawSearcher
	switch format {
	case FormatSQLiteVec:
		raw, err = sqlvec.Open(ctx, path)
	default:
		raw, err = hnswgraph.Open(path)
	}
	if err != nil {
		return nil, &LoadError{Path: path, Err: fmt.Errorf("%s: %w", format, err)}
	}
	logger.Debug("index loaded", "path", path, "format", format, "dimension", raw.Dimension())
	return Adapt(raw, logger), nil
}

// Adapt wraps a raw backend so callers only ever see tagged neighbors.
func Adapt(raw RawSearcher, logger *slog.Logger) Index {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &adapter{raw: raw, logger: logger}
}

type adapter struct {
	raw    RawSearcher
	logger *slog.Logger
}

func (a *adapter) Dimension() int { return a.raw.Dimension() }

func (a *adapter) Close() error { return a.raw.Close() }

func (a *adapter) Search(
	ctx context.Context,
	queries [][]float32,
	k int,
) ([][]models.Neighbor, error) {
	if k < 1 {
		return nil, fmt.Errorf("k must be positive, got %d", k)
	}
	dim := a.raw.Dimension()
	for i, q := range queries {
		if len(q) != dim {
			return nil, fmt.Errorf("query %d has dimension %d, index expects %d", i, len(q), dim)
		}
	}
	distances, ids, err := a.raw.SearchRaw(ctx, queries, k)
	if err != nil {
		return nil, err
	}
	if len(distances) != len(queries) || len(ids) != len(queries) {
		return nil, fmt.Errorf(
			"index answered %d/%d rows for %d queries",
			len(distances), len(ids), len(queries),
		)
	}
	out := make([][]models.Neighbor, len(queries))
	for i := range queries {
		out[i] = a.neighbors(distances[i], ids[i], k)
	}
	return out, nil
}

// neighbors tags one raw row. Negative ids other than NoNeighbor are not
// expected from any backend but are treated as empty slots all the same.
func (a *adapter) neighbors(distances []float32, ids []int64, k int) []models.Neighbor {
	out := make([]models.Neighbor, k)
	for i := range out {
		if i >= len(ids) || i >= len(distances) {
			out[i] = models.NoMatch()
			continue
		}
		id := ids[i]
		switch {
		case id == NoNeighbor:
			out[i] = models.NoMatch()
		case id < 0:
			a.logger.Debug("dropping negative row id", "id", id)
			out[i] = models.NoMatch()
		default:
			out[i] = models.Match(id, distances[i])
		}
	}
	return out
}
