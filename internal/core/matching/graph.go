package matching

import (
	"context"
	"fmt"

	"github.com/ewilliams-labs/pacer/internal/core/domain"
	"golang.org/x/sync/errgroup"
)

// Layer holds the candidates admitted for one interval, best first.
type Layer struct {
	Interval   domain.Interval
	Candidates []Candidate
}

// Graph is a strictly layered DAG. The source connects to every layer-0
// candidate and every last-layer candidate connects to the sink, all with
// weight 0, so those edges are implicit.
type Graph struct {
	Layers []Layer
	// Edges[i][a][b] is the transition cost from Layers[i].Candidates[a]
	// to Layers[i+1].Candidates[b].
	Edges [][][]float64
}

// NodeCount includes the source and sink sentinels.
func (g *Graph) NodeCount() int {
	n := 2
	for _, l := range g.Layers {
		n += len(l.Candidates)
	}
	return n
}

// EdgeCount includes the zero-weight source and sink edges.
func (g *Graph) EdgeCount() int {
	if len(g.Layers) == 0 {
		return 0
	}
	n := len(g.Layers[0].Candidates) + len(g.Layers[len(g.Layers)-1].Candidates)
	for i := 0; i+1 < len(g.Layers); i++ {
		n += len(g.Layers[i].Candidates) * len(g.Layers[i+1].Candidates)
	}
	return n
}

// BuildGraph scores the whole catalog against every interval, keeps the topN
// best per interval as a layer and weights every edge between adjacent layers
// with TransitionCost. Tracks are not removed across layers, so one track may
// appear in many layers.
func (o Options) BuildGraph(ctx context.Context, catalog *domain.Catalog, intervals []domain.Interval, topN int) (*Graph, error) {
	if err := checkInputs(catalog, intervals); err != nil {
		return nil, err
	}
	if topN < 1 || topN > o.maxTopN() {
		return nil, fmt.Errorf("%w: got %d, want 1..%d", domain.ErrInvalidTopN, topN, o.maxTopN())
	}

	layers := make([]Layer, len(intervals))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.workers())
	for i, iv := range intervals {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			layers[i] = Layer{Interval: iv, Candidates: topCandidates(catalog, iv, topN)}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("matching: build layers: %w", err)
	}

	for i, l := range layers {
		if len(l.Candidates) == 0 {
			return nil, &domain.IntervalError{Index: i, Kind: domain.ErrUnbuildableGraph}
		}
	}

	edges := make([][][]float64, max(len(layers)-1, 0))
	g, gctx = errgroup.WithContext(ctx)
	g.SetLimit(o.workers())
	for i := range edges {
		g.Go(func() error {
			m, err := transitionMatrix(gctx, layers[i].Candidates, layers[i+1].Candidates)
			edges[i] = m
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("matching: build edges: %w", err)
	}

	return &Graph{Layers: layers, Edges: edges}, nil
}

// transitionMatrix checks ctx once per row.
func transitionMatrix(ctx context.Context, from, to []Candidate) ([][]float64, error) {
	m := make([][]float64, len(from))
	for a, ca := range from {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		row := make([]float64, len(to))
		for b, cb := range to {
			row[b] = TransitionCost(ca.Track, cb.Track)
		}
		m[a] = row
	}
	return m, nil
}
