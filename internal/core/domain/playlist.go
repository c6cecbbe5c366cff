package domain

import (
	"fmt"
	"strings"
	"time"
)

// Method names a selection algorithm.
type Method string

const (
	MethodGreedy Method = "greedy"
	MethodGraph  Method = "graph"
)

// ParseMethod maps a request path segment or flag value to a Method.
func ParseMethod(s string) (Method, error) {
	switch Method(strings.ToLower(strings.TrimSpace(s))) {
	case MethodGreedy:
		return MethodGreedy, nil
	case MethodGraph:
		return MethodGraph, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidMethod, s)
	}
}

// PlaylistEntry is one output row: the track chosen for an interval.
// BPMDiff only measures tempo, even when energy drove the choice.
type PlaylistEntry struct {
	IntervalNumber int     `json:"interval_number"`
	Title          string  `json:"title"`
	Artist         string  `json:"artist"`
	BPM            float64 `json:"bpm"`
	Energy         float64 `json:"energy"`
	DurationSec    int     `json:"duration_sec"`
	BPMDiff        float64 `json:"bpm_diff"`
}

// Playlist is the stored result of one generation call.
type Playlist struct {
	ID        string
	Method    Method
	TopN      int
	Intervals []Interval
	Entries   []PlaylistEntry
	// Skipped lists 1-based interval numbers that received no track.
	Skipped   []int
	Runtime   time.Duration
	CreatedAt time.Time
}

// TotalDurationSec sums the durations of the chosen tracks.
func (p Playlist) TotalDurationSec() int {
	total := 0
	for _, e := range p.Entries {
		total += e.DurationSec
	}
	return total
}
