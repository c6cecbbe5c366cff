package matching

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"github.com/ewilliams-labs/pacer/internal/core/domain"
)

// ShortestPath returns one candidate per layer along the minimum-cost
// source-to-sink path.
//
// The search is a forward dynamic program over the layers. Among equal-cost
// paths it prefers the one whose candidates rank best layer by layer, starting
// at layer 0, where rank is the (score, index) order within the layer. To do
// that each node carries the lexicographic rank of the best prefix reaching
// it, and ties between predecessors go to the lower prefix rank.
func ShortestPath(ctx context.Context, g *Graph) ([]Candidate, error) {
	n := len(g.Layers)
	if n == 0 {
		return nil, nil
	}

	cost := make([][]float64, n)
	pred := make([][]int, n)
	prefix := make([][]int, n)

	first := len(g.Layers[0].Candidates)
	if first == 0 {
		return nil, &domain.IntervalError{Index: 0, Kind: domain.ErrUnbuildableGraph}
	}
	cost[0] = make([]float64, first)
	pred[0] = make([]int, first)
	prefix[0] = make([]int, first)
	for a := range first {
		pred[0][a] = -1
		prefix[0][a] = a
	}

	for i := 1; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("matching: path search stopped at layer %d: %w", i, err)
		}
		width := len(g.Layers[i].Candidates)
		if width == 0 {
			return nil, &domain.IntervalError{Index: i, Kind: domain.ErrUnbuildableGraph}
		}
		cost[i] = make([]float64, width)
		pred[i] = make([]int, width)
		for b := range width {
			best := -1
			var bestCost float64
			for a := range cost[i-1] {
				c := cost[i-1][a] + g.Edges[i-1][a][b]
				if best < 0 || c < bestCost || (c == bestCost && prefix[i-1][a] < prefix[i-1][best]) {
					best, bestCost = a, c
				}
			}
			cost[i][b] = bestCost
			pred[i][b] = best
		}
		prefix[i] = rankPrefixes(prefix[i-1], pred[i])
	}

	last := n - 1
	end := 0
	for b := 1; b < len(cost[last]); b++ {
		if cost[last][b] < cost[last][end] || (cost[last][b] == cost[last][end] && prefix[last][b] < prefix[last][end]) {
			end = b
		}
	}

	path := make([]Candidate, n)
	for i, node := last, end; i >= 0; i-- {
		path[i] = g.Layers[i].Candidates[node]
		node = pred[i][node]
	}
	return path, nil
}

// rankPrefixes orders the nodes of a layer by the lexicographic rank of their
// best prefix: first by the predecessor's prefix rank, then by the node's own
// position in the layer.
func rankPrefixes(prevPrefix, pred []int) []int {
	nodes := make([]int, len(pred))
	for b := range nodes {
		nodes[b] = b
	}
	slices.SortFunc(nodes, func(x, y int) int {
		if c := cmp.Compare(prevPrefix[pred[x]], prevPrefix[pred[y]]); c != 0 {
			return c
		}
		return cmp.Compare(x, y)
	})
	ranks := make([]int, len(pred))
	for r, b := range nodes {
		ranks[b] = r
	}
	return ranks
}

// SelectGraph builds the candidate graph and returns the tracks along its
// cheapest path. Unlike SelectGreedy, the same track may be chosen for
// several intervals.
func (o Options) SelectGraph(ctx context.Context, catalog *domain.Catalog, intervals []domain.Interval, topN int) (Result, error) {
	g, err := o.BuildGraph(ctx, catalog, intervals, topN)
	if err != nil {
		return Result{}, err
	}
	path, err := ShortestPath(ctx, g)
	if err != nil {
		return Result{}, err
	}

	picks := make([]Pick, len(path))
	for i, c := range path {
		picks[i] = Pick{Number: i + 1, Interval: intervals[i], Track: c.Track}
	}
	return Result{Entries: Assemble(picks)}, nil
}
