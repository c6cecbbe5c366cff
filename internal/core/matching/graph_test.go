package matching

import (
	"context"
	"errors"
	"math/rand/v2"
	"testing"

	"github.com/ewilliams-labs/pacer/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func layerIDs(l Layer) []string {
	out := make([]string, len(l.Candidates))
	for i, c := range l.Candidates {
		out[i] = c.Track.ID
	}
	return out
}

func TestBuildGraph_WorkedScenario(t *testing.T) {
	g, err := BuildGraph(context.Background(), workedCatalog(), workedIntervals(), 3)
	require.NoError(t, err)
	require.Len(t, g.Layers, 2)

	assert.Equal(t, []string{"A", "B", "C"}, layerIDs(g.Layers[0]))
	assert.Equal(t, []string{"C", "A", "B"}, layerIDs(g.Layers[1]))

	l0 := g.Layers[0].Candidates
	assert.InDelta(t, 0, l0[0].Score, 1e-9)
	assert.InDelta(t, 21, l0[1].Score, 1e-9)
	assert.InDelta(t, 22, l0[2].Score, 1e-9)

	l1 := g.Layers[1].Candidates
	assert.InDelta(t, 0, l1[0].Score, 1e-9)
	assert.InDelta(t, 22, l1[1].Score, 1e-9)
	assert.InDelta(t, 43, l1[2].Score, 1e-9)

	require.Len(t, g.Edges, 1)
	// A -> A and A -> C
	assert.Zero(t, g.Edges[0][0][1])
	assert.InDelta(t, 22, g.Edges[0][0][0], 1e-9)

	assert.Equal(t, 3+3+2, g.NodeCount())
	assert.Equal(t, 3+9+3, g.EdgeCount())
}

func TestBuildGraph_TopNCapsLayers(t *testing.T) {
	r := rand.New(rand.NewPCG(21, 8))
	catalog := randomCatalog(r, 60)
	intervals := randomIntervals(r, 4)

	g, err := BuildGraph(context.Background(), catalog, intervals, 7)
	require.NoError(t, err)
	for i, l := range g.Layers {
		assert.Len(t, l.Candidates, 7, "layer %d", i)
	}
	for i, m := range g.Edges {
		assert.Len(t, m, 7)
		for _, row := range m {
			assert.Len(t, row, 7, "edges %d", i)
		}
	}

	small, err := BuildGraph(context.Background(), workedCatalog(), workedIntervals(), 50)
	require.NoError(t, err)
	assert.Len(t, small.Layers[0].Candidates, 3)
}

func TestBuildGraph_TracksShareLayers(t *testing.T) {
	intervals := []domain.Interval{domain.NewInterval(120, 1), domain.NewInterval(121, 1), domain.NewInterval(119, 1)}

	g, err := BuildGraph(context.Background(), workedCatalog(), intervals, 1)
	require.NoError(t, err)
	for _, l := range g.Layers {
		assert.Equal(t, []string{"A"}, layerIDs(l))
	}
}

func TestBuildGraph_Errors(t *testing.T) {
	cancelled, cancel := context.WithCancel(context.Background())
	cancel()

	tests := []struct {
		name    string
		ctx     context.Context
		catalog *domain.Catalog
		topN    int
		wantErr error
	}{
		{name: "empty catalog", ctx: context.Background(), catalog: domain.NewCatalog(nil), topN: 20, wantErr: domain.ErrEmptyCatalog},
		{name: "zero top n", ctx: context.Background(), catalog: workedCatalog(), topN: 0, wantErr: domain.ErrInvalidTopN},
		{name: "negative top n", ctx: context.Background(), catalog: workedCatalog(), topN: -3, wantErr: domain.ErrInvalidTopN},
		{name: "top n above limit", ctx: context.Background(), catalog: workedCatalog(), topN: DefaultMaxTopN + 1, wantErr: domain.ErrInvalidTopN},
		{name: "cancelled", ctx: cancelled, catalog: workedCatalog(), topN: 3, wantErr: context.Canceled},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := BuildGraph(tc.ctx, tc.catalog, workedIntervals(), tc.topN)
			require.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestBuildGraph_MaxTopN(t *testing.T) {
	opts := Options{Workers: 1, MaxTopN: 2}

	_, err := opts.BuildGraph(context.Background(), workedCatalog(), workedIntervals(), 3)
	require.ErrorIs(t, err, domain.ErrInvalidTopN)

	g, err := opts.BuildGraph(context.Background(), workedCatalog(), workedIntervals(), 2)
	require.NoError(t, err)
	assert.Len(t, g.Layers[0].Candidates, 2)
}

func TestTransitionMatrix_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	row := []Candidate{{Index: 0, Track: domain.Track{BPM: 120}}}
	_, err := transitionMatrix(ctx, row, row)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestShortestPath_EmptyLayerIsUnbuildable(t *testing.T) {
	g := &Graph{
		Layers: []Layer{
			{Candidates: []Candidate{{Index: 0, Track: domain.Track{BPM: 120}}}},
			{},
		},
		Edges: [][][]float64{{{}}},
	}

	_, err := ShortestPath(context.Background(), g)
	require.ErrorIs(t, err, domain.ErrUnbuildableGraph)

	var ivErr *domain.IntervalError
	require.True(t, errors.As(err, &ivErr))
	assert.Equal(t, 1, ivErr.Index)
}
