// Package csvcatalog reads the cleaned track catalog from CSV and runs the
// raw-to-clean ingestion pipeline.
package csvcatalog

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/ewilliams-labs/pacer/internal/core/domain"
	"github.com/ewilliams-labs/pacer/internal/core/ports"
)

// Column names of the cleaned catalog file.
const (
	colTrackID     = "track_id"
	colTitle       = "title"
	colArtist      = "artist"
	colBPM         = "bpm"
	colEnergy      = "energy"
	colDurationSec = "duration_sec"
)

var cleanColumns = []string{colTrackID, colTitle, colArtist, colBPM, colEnergy, colDurationSec}

// Source loads the catalog from a cleaned CSV file.
type Source struct {
	Path   string
	Logger *slog.Logger
}

var _ ports.CatalogSource = (*Source)(nil)

// LoadCatalog opens Path and reads it with Read.
func (s *Source) LoadCatalog(ctx context.Context) (*domain.Catalog, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, fmt.Errorf("csvcatalog: open %s: %w", s.Path, err)
	}
	defer f.Close()
	return Read(ctx, f, s.Logger)
}

// Read parses a cleaned catalog. Rows with unusable tempo, energy or duration
// are skipped with a warning; file order becomes catalog index order.
func Read(ctx context.Context, r io.Reader, logger *slog.Logger) (*domain.Catalog, error) {
	if logger == nil {
		logger = slog.Default()
	}
	cr := csv.NewReader(r)
	cr.ReuseRecord = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("csvcatalog: read header: %w", err)
	}
	cols, err := columnIndex(header, cleanColumns)
	if err != nil {
		return nil, err
	}

	var tracks []domain.Track
	line := 1
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("csvcatalog: line %d: %w", line, err)
		}
		if line%10000 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		t, err := parseTrack(rec, cols)
		if err != nil {
			logger.Warn("csvcatalog: skipping row", slog.Int("line", line), slog.String("error", err.Error()))
			continue
		}
		if t.ID == "" {
			t.ID = fmt.Sprintf("row-%d", line)
		}
		tracks = append(tracks, t)
	}

	logger.Info("csvcatalog: catalog loaded", slog.Int("tracks", len(tracks)))
	return domain.NewCatalog(tracks), nil
}

func parseTrack(rec []string, cols map[string]int) (domain.Track, error) {
	bpm, err := strconv.ParseFloat(strings.TrimSpace(rec[cols[colBPM]]), 64)
	if err != nil {
		return domain.Track{}, fmt.Errorf("bpm: %w", err)
	}
	energy, err := strconv.ParseFloat(strings.TrimSpace(rec[cols[colEnergy]]), 64)
	if err != nil {
		return domain.Track{}, fmt.Errorf("energy: %w", err)
	}
	dur, err := strconv.ParseFloat(strings.TrimSpace(rec[cols[colDurationSec]]), 64)
	if err != nil {
		return domain.Track{}, fmt.Errorf("duration_sec: %w", err)
	}

	t := domain.Track{
		ID:          rec[cols[colTrackID]],
		Title:       rec[cols[colTitle]],
		Artist:      CleanArtist(rec[cols[colArtist]]),
		BPM:         bpm,
		Energy:      energy,
		DurationSec: int(dur),
	}
	if !t.Valid() {
		return domain.Track{}, fmt.Errorf("out of range: bpm=%v energy=%v duration_sec=%d", bpm, energy, t.DurationSec)
	}
	return t, nil
}

// CleanArtist turns a list literal such as "['Daft Punk', 'Pharrell']" into
// "Daft Punk, Pharrell".
func CleanArtist(raw string) string {
	return strings.ReplaceAll(strings.Trim(raw, "[]"), "'", "")
}

func columnIndex(header []string, want []string) (map[string]int, error) {
	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))] = i
	}
	out := make(map[string]int, len(want))
	for _, name := range want {
		i, ok := idx[name]
		if !ok {
			return nil, fmt.Errorf("csvcatalog: missing column %q", name)
		}
		out[name] = i
	}
	return out, nil
}
