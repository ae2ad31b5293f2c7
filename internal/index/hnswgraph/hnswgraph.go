package hnswgraph

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"sort"

	"github.com/coder/hnsw"
)

const noNeighbor int64 = -1

// Graph is a read-only HNSW graph imported from an hnsw.Graph.Export stream.
// Node keys are the row identifiers.
type Graph struct {
	graph *hnsw.Graph[int64]
	dim   int
}

func Open(path string) (*Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	return Read(f)
}

// Read imports a graph from r.
func Read(r io.Reader) (*Graph, error) {
	g := hnsw.NewGraph[int64]()
	if err := g.Import(bufio.NewReader(r)); err != nil {
		return nil, fmt.Errorf("import graph: %w", err)
	}
	if g.Len() == 0 {
		return nil, errors.New("graph is empty, dimensionality unknown")
	}
	return &Graph{graph: g, dim: g.Dims()}, nil
}

// Write exports g the way Read expects it. Used to build fixtures.
func Write(w io.Writer, g *hnsw.Graph[int64]) error {
	return g.Export(w)
}

func (g *Graph) Dimension() int { return g.dim }

// Len returns the number of stored vectors.
func (g *Graph) Len() int { return g.graph.Len() }

func (g *Graph) Close() error { return nil }

// SearchRaw answers each query with the graph's own distance function.
func (g *Graph) SearchRaw(
	ctx context.Context,
	queries [][]float32,
	k int,
) ([][]float32, [][]int64, error) {
	distances := make([][]float32, len(queries))
	ids := make([][]int64, len(queries))
	for qi, q := range queries {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		distances[qi], ids[qi] = g.search(q, k)
	}
	return distances, ids, nil
}

func (g *Graph) search(q []float32, k int) ([]float32, []int64) {
	type scored struct {
		id   int64
		dist float32
	}
	nodes := g.graph.Search(q, k)
	hits := make([]scored, 0, len(nodes))
	for _, n := range nodes {
		hits = append(hits, scored{id: n.Key, dist: g.graph.Distance(q, n.Value)})
	}
	// the graph does not promise an order
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].dist < hits[j].dist })

	distances := make([]float32, k)
	ids := make([]int64, k)
	for i := range ids {
		if i < len(hits) {
			ids[i] = hits[i].id
			distances[i] = hits[i].dist
			continue
		}
		ids[i] = noNeighbor
		distances[i] = math.MaxFloat32
	}
	return distances, ids
}
