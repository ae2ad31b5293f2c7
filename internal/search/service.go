package search

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/0x5457/vecquery/internal/embeddings"
	"github.com/0x5457/vecquery/internal/index"
	"github.com/0x5457/vecquery/internal/metadata"
	"github.com/0x5457/vecquery/internal/models"
)

// ErrEmptyMetadata is returned when the sidecar holds no usable record.
var ErrEmptyMetadata = errors.New("empty metadata")

// Request is one query against the loaded index.
type Request struct {
	Query    string
	K        int
	MetaPath string
}

// Service vectorizes a query, searches the index and joins the hits with
// their metadata records.
type Service struct {
	Index    index.Index
	Embedder embeddings.Embedder
	Logger   *slog.Logger
}

// Run loads the metadata for req and answers it.
func (s *Service) Run(ctx context.Context, req Request) ([]*models.Record, error) {
	results, err := metadata.Load(req.MetaPath)
	if err != nil {
		return nil, fmt.Errorf("load metadata: %w", err)
	}
	records, skipped := metadata.Records(results)
	if skipped > 0 {
		s.logger().Debug("skipped metadata lines", "path", req.MetaPath, "skipped", skipped)
	}
	if len(records) == 0 {
		return nil, ErrEmptyMetadata
	}
	return s.Search(ctx, req.Query, req.K, records)
}

// Search returns up to k records nearest to query, nearest first, each
// carrying its distance.
func (s *Service) Search(
	ctx context.Context,
	query string,
	k int,
	records []*models.Record,
) ([]*models.Record, error) {
	qvec, err := s.Embedder.EmbedQuery(query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	neighbors, err := s.Index.Search(ctx, [][]float32{qvec}, k)
	if err != nil {
		return nil, fmt.Errorf("search index: %w", err)
	}
	if len(neighbors) != 1 {
		return nil, fmt.Errorf("index returned %d result rows for one query", len(neighbors))
	}
	s.logger().Debug("search done", "k", k, "records", len(records))
	return Join(neighbors[0], records)
}

// Join attaches distances to the records the neighbors point at. Empty
// slots and rows outside records are dropped; order is kept.
func Join(neighbors []models.Neighbor, records []*models.Record) ([]*models.Record, error) {
	out := make([]*models.Record, 0, len(neighbors))
	for _, n := range neighbors {
		if !n.Found || n.Row < 0 || n.Row >= int64(len(records)) {
			continue
		}
		rec := records[n.Row]
		if err := rec.SetDistance(n.Distance); err != nil {
			return nil, fmt.Errorf("row %d: %w", n.Row, err)
		}
		out = append(out, rec)
	}
	return out, nil
}

func (s *Service) logger() *slog.Logger {
	if s.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return s.Logger
}
