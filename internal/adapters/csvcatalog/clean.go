package csvcatalog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// DefaultCleanLimit caps the cleaned catalog size.
const DefaultCleanLimit = 120000

// raw column -> cleaned column; duration_ms is converted separately.
var rawColumns = []struct{ raw, clean string }{
	{"id", colTrackID},
	{"name", colTitle},
	{"artists", colArtist},
	{"tempo", colBPM},
	{"energy", colEnergy},
}

const rawDurationMs = "duration_ms"

// CleanStats summarises one Clean run.
type CleanStats struct {
	Read    int
	Dropped int
	Written int
}

// Clean converts a raw track export into the cleaned catalog format: it keeps
// and renames the needed columns, drops rows missing tempo, energy or
// duration, converts duration_ms to whole seconds and stops after limit rows.
// A limit of zero or less uses DefaultCleanLimit.
func Clean(r io.Reader, w io.Writer, limit int) (CleanStats, error) {
	if limit <= 0 {
		limit = DefaultCleanLimit
	}
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return CleanStats{}, fmt.Errorf("csvcatalog: read raw header: %w", err)
	}
	want := []string{rawDurationMs}
	for _, c := range rawColumns {
		want = append(want, c.raw)
	}
	cols, err := columnIndex(header, want)
	if err != nil {
		return CleanStats{}, err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(cleanColumns); err != nil {
		return CleanStats{}, fmt.Errorf("csvcatalog: write header: %w", err)
	}

	var stats CleanStats
	out := make([]string, len(cleanColumns))
	for stats.Written < limit {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return stats, fmt.Errorf("csvcatalog: raw row %d: %w", stats.Read+2, err)
		}
		stats.Read++

		durationSec, ok := cleanRow(rec, cols, out)
		if !ok {
			stats.Dropped++
			continue
		}
		out[len(out)-1] = strconv.Itoa(durationSec)
		if err := cw.Write(out); err != nil {
			return stats, fmt.Errorf("csvcatalog: write row: %w", err)
		}
		stats.Written++
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return stats, fmt.Errorf("csvcatalog: flush: %w", err)
	}
	return stats, nil
}

// cleanRow fills out with the renamed columns and reports the duration in
// seconds, or false when a required numeric field is missing.
func cleanRow(rec []string, cols map[string]int, out []string) (int, bool) {
	field := func(name string) string {
		i := cols[name]
		if i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}

	for i, c := range rawColumns {
		out[i] = field(c.raw)
	}
	if _, ok := parseFinite(field("tempo")); !ok {
		return 0, false
	}
	if _, ok := parseFinite(field("energy")); !ok {
		return 0, false
	}
	ms, ok := parseFinite(field(rawDurationMs))
	if !ok {
		return 0, false
	}
	return int(ms / 1000), true
}

// parseFinite treats NaN and infinities as missing values.
func parseFinite(s string) (float64, bool) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
