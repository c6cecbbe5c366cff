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

func TestSelectGreedy_WorkedScenario(t *testing.T) {
	res, err := SelectGreedy(context.Background(), workedCatalog(), workedIntervals())
	require.NoError(t, err)

	assert.Equal(t, []string{"Song A", "Song C"}, titles(res.Entries))
	assert.Equal(t, []int{1, 2}, []int{res.Entries[0].IntervalNumber, res.Entries[1].IntervalNumber})
	assert.Empty(t, res.Skipped)
	assert.NoError(t, res.SkipErr())
}

func TestSelectGreedy_Exhaustion(t *testing.T) {
	catalog := domain.NewCatalog([]domain.Track{{ID: "only", Title: "Only", BPM: 120, Energy: 0.5, DurationSec: 180}})
	intervals := []domain.Interval{domain.NewInterval(120, 3), domain.NewInterval(150, 3), domain.NewInterval(90, 2)}

	res, err := SelectGreedy(context.Background(), catalog, intervals)
	require.NoError(t, err)

	require.Len(t, res.Entries, 1)
	assert.Equal(t, 1, res.Entries[0].IntervalNumber)
	assert.Equal(t, []int{2, 3}, res.Skipped)

	skipErr := res.SkipErr()
	require.ErrorIs(t, skipErr, domain.ErrExhausted)
	var ivErr *domain.IntervalError
	require.True(t, errors.As(skipErr, &ivErr))
	assert.Equal(t, 1, ivErr.Index)
}

func TestSelectGreedy_TieBreaksByIndex(t *testing.T) {
	catalog := domain.NewCatalog([]domain.Track{
		{ID: "hi", Title: "High", BPM: 130, Energy: 0.5, DurationSec: 100},
		{ID: "lo", Title: "Low", BPM: 110, Energy: 0.5, DurationSec: 100},
	})
	intervals := []domain.Interval{domain.NewInterval(120, 1), domain.NewInterval(120, 1)}

	res, err := SelectGreedy(context.Background(), catalog, intervals)
	require.NoError(t, err)
	assert.Equal(t, []string{"High", "Low"}, titles(res.Entries))
}

func TestSelectGreedy_Properties(t *testing.T) {
	r := rand.New(rand.NewPCG(7, 11))

	for round := 0; round < 25; round++ {
		catalog := randomCatalog(r, 1+r.IntN(40))
		intervals := randomIntervals(r, 1+r.IntN(30))

		res, err := SelectGreedy(context.Background(), catalog, intervals)
		require.NoError(t, err)

		assert.Len(t, res.Entries, min(len(intervals), catalog.Len()))
		assert.Len(t, res.Skipped, len(intervals)-len(res.Entries))

		seen := map[string]bool{}
		for _, e := range res.Entries {
			assert.False(t, seen[e.Title], "track %s reused", e.Title)
			seen[e.Title] = true

			iv := intervals[e.IntervalNumber-1]
			assert.Equal(t, BPMDiff(domain.Track{BPM: e.BPM}, iv), e.BPMDiff)
		}
	}
}

func TestSelectGreedy_ParallelMatchesSequential(t *testing.T) {
	r := rand.New(rand.NewPCG(3, 5))
	catalog := randomCatalog(r, 4*minChunk+17)
	intervals := randomIntervals(r, 12)

	seq, err := Options{Workers: 1}.SelectGreedy(context.Background(), catalog, intervals)
	require.NoError(t, err)
	par, err := Options{Workers: 4}.SelectGreedy(context.Background(), catalog, intervals)
	require.NoError(t, err)

	assert.Equal(t, seq, par)
}

func TestSelectGreedy_Errors(t *testing.T) {
	cancelled, cancel := context.WithCancel(context.Background())
	cancel()

	tests := []struct {
		name      string
		ctx       context.Context
		catalog   *domain.Catalog
		intervals []domain.Interval
		wantErr   error
	}{
		{
			name:      "empty catalog",
			ctx:       context.Background(),
			catalog:   domain.NewCatalog(nil),
			intervals: []domain.Interval{domain.NewInterval(120, 1)},
			wantErr:   domain.ErrEmptyCatalog,
		},
		{
			name:      "nil catalog",
			ctx:       context.Background(),
			intervals: []domain.Interval{domain.NewInterval(120, 1)},
			wantErr:   domain.ErrEmptyCatalog,
		},
		{
			name:      "invalid energy",
			ctx:       context.Background(),
			catalog:   workedCatalog(),
			intervals: []domain.Interval{domain.NewInterval(120, 1).WithEnergy(2)},
			wantErr:   domain.ErrInvalidInterval,
		},
		{
			name:      "cancelled context",
			ctx:       cancelled,
			catalog:   workedCatalog(),
			intervals: workedIntervals(),
			wantErr:   context.Canceled,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := SelectGreedy(tc.ctx, tc.catalog, tc.intervals)
			require.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestSelectGreedy_NoIntervals(t *testing.T) {
	res, err := SelectGreedy(context.Background(), workedCatalog(), nil)
	require.NoError(t, err)
	assert.Empty(t, res.Entries)
}
