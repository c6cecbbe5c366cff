package csvcatalog

import (
	"fmt"
	"io"
	"math"

	"github.com/ewilliams-labs/pacer/internal/core/domain"
)

// Summary describes one numeric column.
type Summary struct {
	Min  float64
	Max  float64
	Mean float64
}

// Stats is the sanity report for a loaded catalog.
type Stats struct {
	Tracks      int
	BPM         Summary
	Energy      Summary
	DurationSec Summary
}

// Verify computes min, max and mean of the numeric columns.
func Verify(c *domain.Catalog) Stats {
	st := Stats{Tracks: c.Len()}
	if st.Tracks == 0 {
		return st
	}
	bpm := newAccumulator()
	energy := newAccumulator()
	dur := newAccumulator()
	for i := 0; i < c.Len(); i++ {
		t := c.At(i)
		bpm.add(t.BPM)
		energy.add(t.Energy)
		dur.add(float64(t.DurationSec))
	}
	st.BPM = bpm.summary()
	st.Energy = energy.summary()
	st.DurationSec = dur.summary()
	return st
}

// Write prints the report in a human-readable form.
func (s Stats) Write(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "Number of tracks: %d\n", s.Tracks); err != nil {
		return err
	}
	for _, col := range []struct {
		name string
		sum  Summary
	}{{"bpm", s.BPM}, {"energy", s.Energy}, {"duration_sec", s.DurationSec}} {
		if _, err := fmt.Fprintf(w, "\n%s:\n  Min: %.2f\n  Max: %.2f\n  Mean: %.2f\n",
			col.name, col.sum.Min, col.sum.Max, col.sum.Mean); err != nil {
			return err
		}
	}
	return nil
}

type accumulator struct {
	min, max, sum float64
	n             int
}

func newAccumulator() *accumulator {
	return &accumulator{min: math.Inf(1), max: math.Inf(-1)}
}

func (a *accumulator) add(v float64) {
	a.min = math.Min(a.min, v)
	a.max = math.Max(a.max, v)
	a.sum += v
	a.n++
}

func (a *accumulator) summary() Summary {
	return Summary{Min: a.min, Max: a.max, Mean: a.sum / float64(a.n)}
}
