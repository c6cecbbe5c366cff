package catalogapi

import (
	"strings"

	"github.com/ewilliams-labs/pacer/internal/core/domain"
)

// trackPage is one page of the catalog listing.
type trackPage struct {
	Items  []wireTrack `json:"items"`
	Offset int         `json:"offset"`
	Total  int         `json:"total"`
}

// wireTrack mirrors the catalog service's track object.
type wireTrack struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Artists    []string `json:"artists"`
	Tempo      float64  `json:"tempo"`
	Energy     float64  `json:"energy"`
	DurationMs int      `json:"duration_ms"`
}

// toDomain flattens artists and converts the duration to whole seconds.
func (wt wireTrack) toDomain() domain.Track {
	names := make([]string, 0, len(wt.Artists))
	for _, a := range wt.Artists {
		if a = strings.TrimSpace(a); a != "" {
			names = append(names, a)
		}
	}
	return domain.Track{
		ID:          wt.ID,
		Title:       wt.Name,
		Artist:      strings.Join(names, ", "),
		BPM:         wt.Tempo,
		Energy:      wt.Energy,
		DurationSec: wt.DurationMs / 1000,
	}
}
