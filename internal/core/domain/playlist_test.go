package domain

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMethod(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Method
		wantErr error
	}{
		{name: "greedy", input: "greedy", want: MethodGreedy},
		{name: "graph with case and spaces", input: " Graph ", want: MethodGraph},
		{name: "unknown", input: "random", wantErr: ErrInvalidMethod},
		{name: "empty", input: "", wantErr: ErrInvalidMethod},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseMethod(tc.input)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestPlaylist_TotalDurationSec(t *testing.T) {
	p := Playlist{Entries: []PlaylistEntry{{DurationSec: 180}, {DurationSec: 215}}}
	assert.Equal(t, 395, p.TotalDurationSec())
	assert.Zero(t, Playlist{}.TotalDurationSec())
}

func TestInterval_Validate(t *testing.T) {
	tests := []struct {
		name     string
		interval Interval
		wantErr  bool
	}{
		{name: "tempo only", interval: NewInterval(120, 5)},
		{name: "energy at lower bound", interval: NewInterval(120, 5).WithEnergy(0)},
		{name: "energy at upper bound", interval: NewInterval(120, 5).WithEnergy(1)},
		{name: "zero bpm", interval: NewInterval(0, 5), wantErr: true},
		{name: "negative bpm", interval: NewInterval(-10, 5), wantErr: true},
		{name: "zero duration", interval: NewInterval(120, 0), wantErr: true},
		{name: "energy above one", interval: NewInterval(120, 5).WithEnergy(1.2), wantErr: true},
		{name: "negative energy", interval: NewInterval(120, 5).WithEnergy(-0.1), wantErr: true},
		{name: "NaN energy", interval: NewInterval(120, 5).WithEnergy(math.NaN()), wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.interval.Validate()
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestValidateIntervals_ReportsIndex(t *testing.T) {
	intervals := []Interval{NewInterval(120, 5), NewInterval(130, 3), NewInterval(0, 4)}

	err := ValidateIntervals(intervals)
	require.ErrorIs(t, err, ErrInvalidInterval)

	var ivErr *IntervalError
	require.True(t, errors.As(err, &ivErr))
	assert.Equal(t, 2, ivErr.Index)
	assert.Contains(t, err.Error(), "interval 3")
	assert.False(t, errors.Is(err, ErrUnbuildableGraph))
}

func TestCatalog(t *testing.T) {
	src := []Track{{ID: "a", BPM: 120}, {ID: "b", BPM: 140}}
	c := NewCatalog(src)
	src[0].ID = "mutated"

	require.Equal(t, 2, c.Len())
	assert.Equal(t, "a", c.At(0).ID)

	tracks := c.Tracks()
	tracks[1].ID = "mutated"
	assert.Equal(t, "b", c.At(1).ID)

	var empty *Catalog
	assert.Zero(t, empty.Len())
	assert.Nil(t, empty.Tracks())
}

func TestTrack_Valid(t *testing.T) {
	assert.True(t, Track{BPM: 120, Energy: 0.5, DurationSec: 200}.Valid())
	assert.False(t, Track{BPM: 0, Energy: 0.5, DurationSec: 200}.Valid())
	assert.False(t, Track{BPM: 120, Energy: 1.5, DurationSec: 200}.Valid())
	assert.False(t, Track{BPM: 120, Energy: 0.5, DurationSec: 0}.Valid())
}
