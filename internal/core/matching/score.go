package matching

import (
	"math"

	"github.com/ewilliams-labs/pacer/internal/core/domain"
)

// EnergyWeight equates one unit of energy deviation to ten BPM of tempo deviation.
const EnergyWeight = 10.0

// Score is the target-match cost of a track for an interval. Lower is better.
func Score(t domain.Track, iv domain.Interval) float64 {
	s := math.Abs(t.BPM - float64(iv.BPMTarget))
	if iv.EnergyTarget != nil {
		s += EnergyWeight * math.Abs(t.Energy-*iv.EnergyTarget)
	}
	return s
}

// TransitionCost measures the tempo and energy jump between two consecutive tracks.
// It ignores interval targets entirely.
func TransitionCost(a, b domain.Track) float64 {
	return math.Abs(a.BPM-b.BPM) + EnergyWeight*math.Abs(a.Energy-b.Energy)
}

// BPMDiff is the tempo-only deviation reported on playlist entries.
func BPMDiff(t domain.Track, iv domain.Interval) float64 {
	return math.Abs(t.BPM - float64(iv.BPMTarget))
}
