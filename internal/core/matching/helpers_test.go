package matching

import (
	"fmt"
	"math/rand/v2"

	"github.com/ewilliams-labs/pacer/internal/core/domain"
)

// workedCatalog is the three-track catalog used across the selector tests.
func workedCatalog() *domain.Catalog {
	return domain.NewCatalog([]domain.Track{
		{ID: "A", Title: "Song A", Artist: "Artist A", BPM: 120, Energy: 0.5, DurationSec: 200},
		{ID: "B", Title: "Song B", Artist: "Artist B", BPM: 140, Energy: 0.6, DurationSec: 210},
		{ID: "C", Title: "Song C", Artist: "Artist C", BPM: 100, Energy: 0.3, DurationSec: 190},
	})
}

func workedIntervals() []domain.Interval {
	return []domain.Interval{
		domain.NewInterval(120, 5).WithEnergy(0.5),
		domain.NewInterval(100, 4).WithEnergy(0.3),
	}
}

func randomCatalog(r *rand.Rand, n int) *domain.Catalog {
	tracks := make([]domain.Track, n)
	for i := range tracks {
		tracks[i] = domain.Track{
			ID:          fmt.Sprintf("t%d", i),
			Title:       fmt.Sprintf("Song %d", i),
			Artist:      "Artist",
			BPM:         float64(60 + r.IntN(120)),
			Energy:      float64(r.IntN(11)) / 10,
			DurationSec: 120 + r.IntN(200),
		}
	}
	return domain.NewCatalog(tracks)
}

func randomIntervals(r *rand.Rand, n int) []domain.Interval {
	out := make([]domain.Interval, n)
	for i := range out {
		iv := domain.NewInterval(80+r.IntN(90), 1+r.IntN(5))
		if r.IntN(2) == 0 {
			iv = iv.WithEnergy(float64(r.IntN(11)) / 10)
		}
		out[i] = iv
	}
	return out
}

func titles(entries []domain.PlaylistEntry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Title
	}
	return out
}
