package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/ewilliams-labs/pacer/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAdapter(t *testing.T) *Adapter {
	t.Helper()
	a, err := NewAdapter(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })
	return a
}

func samplePlaylist() domain.Playlist {
	return domain.Playlist{
		ID:     "pl-1",
		Method: domain.MethodGreedy,
		Intervals: []domain.Interval{
			domain.NewInterval(120, 5).WithEnergy(0.4),
			domain.NewInterval(155, 3),
			domain.NewInterval(100, 4),
		},
		Entries: []domain.PlaylistEntry{
			{IntervalNumber: 1, Title: "Song One", Artist: "Artist A", BPM: 120, Energy: 0.4, DurationSec: 200, BPMDiff: 0},
			{IntervalNumber: 2, Title: "Song Two", Artist: "Artist B", BPM: 150.5, Energy: 0.8, DurationSec: 180, BPMDiff: 4.5},
		},
		Skipped:   []int{3},
		Runtime:   1500 * time.Microsecond,
		CreatedAt: time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestAdapter_GetByID(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(t *testing.T, a *Adapter) string
		wantErr error
		want    domain.Playlist
	}{
		{
			name: "not found",
			setup: func(t *testing.T, a *Adapter) string {
				return "missing"
			},
			wantErr: domain.ErrNotFound,
		},
		{
			name: "returns playlist with entries",
			setup: func(t *testing.T, a *Adapter) string {
				require.NoError(t, a.Save(context.Background(), samplePlaylist()))
				return "pl-1"
			},
			want: samplePlaylist(),
		},
		{
			name: "save replaces entries",
			setup: func(t *testing.T, a *Adapter) string {
				p := samplePlaylist()
				require.NoError(t, a.Save(context.Background(), p))
				p.Method = domain.MethodGraph
				p.TopN = 20
				p.Entries = p.Entries[:1]
				p.Skipped = nil
				require.NoError(t, a.Save(context.Background(), p))
				return p.ID
			},
			want: func() domain.Playlist {
				p := samplePlaylist()
				p.Method = domain.MethodGraph
				p.TopN = 20
				p.Entries = p.Entries[:1]
				p.Skipped = nil
				return p
			}(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newTestAdapter(t)

			id := tt.setup(t, a)
			got, err := a.GetByID(context.Background(), id)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAdapter_Catalog(t *testing.T) {
	a := newTestAdapter(t)
	ctx := context.Background()

	first := domain.NewCatalog([]domain.Track{
		{ID: "b", Title: "Bee", Artist: "X", BPM: 140, Energy: 0.6, DurationSec: 210},
		{ID: "a", Title: "Ay", Artist: "Y", BPM: 120, Energy: 0.5, DurationSec: 200},
	})
	require.NoError(t, a.ImportCatalog(ctx, first))

	second := domain.NewCatalog([]domain.Track{
		{ID: "c", Title: "Sea", Artist: "Z", BPM: 100, Energy: 0.3, DurationSec: 190},
		{ID: "b", Title: "Bee (Remaster)", Artist: "X", BPM: 141, Energy: 0.6, DurationSec: 210},
	})
	require.NoError(t, a.ImportCatalog(ctx, second))

	got, err := a.LoadCatalog(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, got.Len(), "tracks missing from the new import must be dropped")
	assert.Equal(t, []string{"c", "b"}, []string{got.At(0).ID, got.At(1).ID})
	assert.Equal(t, "Bee (Remaster)", got.At(1).Title)
	assert.Equal(t, 141.0, got.At(1).BPM)

	require.NoError(t, a.ImportCatalog(ctx, domain.NewCatalog(nil)))
	got, err = a.LoadCatalog(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Len())
}

func TestAdapter_ReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pacer.db")

	a, err := NewAdapter(path)
	require.NoError(t, err)
	p := samplePlaylist()
	p.Method = domain.MethodGraph
	p.TopN = 7
	require.NoError(t, a.Save(context.Background(), p))
	require.NoError(t, a.Close())

	b, err := NewAdapter(path)
	require.NoError(t, err)
	defer b.Close()

	got, err := b.GetByID(context.Background(), "pl-1")
	require.NoError(t, err)
	assert.Len(t, got.Entries, 2)
	assert.Equal(t, 7, got.TopN)
}
