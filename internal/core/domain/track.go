package domain

// Track represents a catalog track in the domain layer.
type Track struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Artist      string  `json:"artist"`
	BPM         float64 `json:"bpm"`
	Energy      float64 `json:"energy"` // 0..1
	DurationSec int     `json:"duration_sec"`
}

// Valid reports whether the track carries usable tempo, energy and duration values.
func (t Track) Valid() bool {
	return t.BPM > 0 && t.Energy >= 0 && t.Energy <= 1 && t.DurationSec > 0
}
