package matching

import "github.com/ewilliams-labs/pacer/internal/core/domain"

// Pick pairs an interval with the track chosen for it.
// Number is the 1-based position of the interval in the request.
type Pick struct {
	Number   int
	Interval domain.Interval
	Track    domain.Track
}

// Assemble converts picks into playlist entries, preserving order.
func Assemble(picks []Pick) []domain.PlaylistEntry {
	entries := make([]domain.PlaylistEntry, 0, len(picks))
	for _, p := range picks {
		entries = append(entries, domain.PlaylistEntry{
			IntervalNumber: p.Number,
			Title:          p.Track.Title,
			Artist:         p.Track.Artist,
			BPM:            p.Track.BPM,
			Energy:         p.Track.Energy,
			DurationSec:    p.Track.DurationSec,
			BPMDiff:        BPMDiff(p.Track, p.Interval),
		})
	}
	return entries
}
