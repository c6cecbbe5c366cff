// Package export renders playlist entries for download and terminal output.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ewilliams-labs/pacer/internal/core/domain"
)

// CSVFilename is the attachment name used for playlist downloads.
const CSVFilename = "workout_playlist.csv"

var csvHeader = []string{"Interval", "Title", "Artist", "BPM", "Energy", "Duration (sec)", "BPM Diff"}

// WriteCSV writes entries with the column layout existing spreadsheets expect.
func WriteCSV(w io.Writer, entries []domain.PlaylistEntry) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("export: write header: %w", err)
	}
	for _, e := range entries {
		row := []string{
			strconv.Itoa(e.IntervalNumber),
			e.Title,
			e.Artist,
			formatFloat(e.BPM),
			formatFloat(e.Energy),
			strconv.Itoa(e.DurationSec),
			formatFloat(e.BPMDiff),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("export: write interval %d: %w", e.IntervalNumber, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteTable prints a fixed-width table for terminals.
func WriteTable(w io.Writer, entries []domain.PlaylistEntry) error {
	rule := strings.Repeat("-", 80)
	if _, err := fmt.Fprintf(w, "%s\n%-8s %-30s %-20s %-6s %-7s %-9s\n%s\n",
		rule, "Interval", "Title", "Artist", "BPM", "Energy", "BPM Diff", rule); err != nil {
		return err
	}
	for _, e := range entries {
		if _, err := fmt.Fprintf(w, "%-8d %-30s %-20s %-6.1f %-7.2f %-9.1f\n",
			e.IntervalNumber, truncate(e.Title, 27), truncate(e.Artist, 17), e.BPM, e.Energy, e.BPMDiff); err != nil {
			return err
		}
	}
	return nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
