// Package sqlite provides a SQLite-backed playlist repository and catalog store.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ewilliams-labs/pacer/internal/core/domain"
	"github.com/ewilliams-labs/pacer/internal/core/ports"
	_ "github.com/mattn/go-sqlite3" // Import the driver anonymously
)

// Adapter implements the repository and catalog ports for SQLite
type Adapter struct {
	db *sql.DB
}

var (
	_ ports.PlaylistRepository = (*Adapter)(nil)
	_ ports.CatalogSource      = (*Adapter)(nil)
)

// NewAdapter creates a connection and runs the schema migration
func NewAdapter(storagePath string) (*Adapter, error) {
	db, err := sql.Open("sqlite3", storagePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite db: %w", err)
	}
	if storagePath == ":memory:" {
		// every pooled connection would otherwise get its own empty database
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping sqlite db: %w", err)
	}

	adapter := &Adapter{db: db}
	if err := adapter.migrate(); err != nil {
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	return adapter, nil
}

// Close ensures the DB connection is closed gracefully
func (a *Adapter) Close() error {
	return a.db.Close()
}

// ImportCatalog replaces the stored catalog with c. Tracks are stored in
// catalog order; a repeated ID keeps the position of its first occurrence.
func (a *Adapter) ImportCatalog(ctx context.Context, c *domain.Catalog) error {
	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM tracks"); err != nil {
		return fmt.Errorf("failed to clear catalog: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO tracks (id, title, artist, bpm, energy, duration_sec)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title=excluded.title,
			artist=excluded.artist,
			bpm=excluded.bpm,
			energy=excluded.energy,
			duration_sec=excluded.duration_sec;
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare track upsert: %w", err)
	}
	defer stmt.Close()

	for i := 0; i < c.Len(); i++ {
		t := c.At(i)
		if _, err := stmt.ExecContext(ctx, t.ID, t.Title, t.Artist, t.BPM, t.Energy, t.DurationSec); err != nil {
			return fmt.Errorf("failed to save track %s: %w", t.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("transaction commit failed: %w", err)
	}
	return nil
}

// LoadCatalog reads every stored track in insertion order.
func (a *Adapter) LoadCatalog(ctx context.Context) (*domain.Catalog, error) {
	rows, err := a.db.QueryContext(ctx, `
		SELECT id, title, artist, bpm, energy, duration_sec
		FROM tracks
		ORDER BY seq ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	defer rows.Close()

	var tracks []domain.Track
	for rows.Next() {
		var t domain.Track
		if err := rows.Scan(&t.ID, &t.Title, &t.Artist, &t.BPM, &t.Energy, &t.DurationSec); err != nil {
			return nil, fmt.Errorf("failed to scan track: %w", err)
		}
		tracks = append(tracks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate tracks: %w", err)
	}
	return domain.NewCatalog(tracks), nil
}

func (a *Adapter) GetByID(ctx context.Context, id string) (domain.Playlist, error) {
	row := a.db.QueryRowContext(ctx, `
		SELECT id, method, top_n, intervals, skipped, runtime_ns, created_at
		FROM playlists WHERE id = ?
	`, id)

	var (
		p           domain.Playlist
		method      string
		intervals   string
		skipped     string
		runtimeNs   int64
		createdUnix int64
		topN        sql.NullInt64
	)
	if err := row.Scan(&p.ID, &method, &topN, &intervals, &skipped, &runtimeNs, &createdUnix); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Playlist{}, domain.ErrNotFound
		}
		return domain.Playlist{}, fmt.Errorf("failed to load playlist: %w", err)
	}
	p.Method = domain.Method(method)
	p.Runtime = time.Duration(runtimeNs)
	p.CreatedAt = time.Unix(0, createdUnix).UTC()
	if topN.Valid {
		p.TopN = int(topN.Int64)
	}
	if err := json.Unmarshal([]byte(intervals), &p.Intervals); err != nil {
		return domain.Playlist{}, fmt.Errorf("failed to decode intervals: %w", err)
	}
	if err := json.Unmarshal([]byte(skipped), &p.Skipped); err != nil {
		return domain.Playlist{}, fmt.Errorf("failed to decode skipped intervals: %w", err)
	}

	entryRows, err := a.db.QueryContext(ctx, `
		SELECT interval_number, title, artist, bpm, energy, duration_sec, bpm_diff
		FROM playlist_entries
		WHERE playlist_id = ?
		ORDER BY interval_number ASC
	`, p.ID)
	if err != nil {
		return domain.Playlist{}, fmt.Errorf("failed to load playlist entries: %w", err)
	}
	defer entryRows.Close()

	p.Entries = []domain.PlaylistEntry{}
	for entryRows.Next() {
		var e domain.PlaylistEntry
		if err := entryRows.Scan(&e.IntervalNumber, &e.Title, &e.Artist, &e.BPM, &e.Energy, &e.DurationSec, &e.BPMDiff); err != nil {
			return domain.Playlist{}, fmt.Errorf("failed to scan playlist entry: %w", err)
		}
		p.Entries = append(p.Entries, e)
	}
	if err := entryRows.Err(); err != nil {
		return domain.Playlist{}, fmt.Errorf("failed to iterate playlist entries: %w", err)
	}

	return p, nil
}

func (a *Adapter) Save(ctx context.Context, p domain.Playlist) error {
	intervals, err := json.Marshal(p.Intervals)
	if err != nil {
		return fmt.Errorf("failed to encode intervals: %w", err)
	}
	skipped, err := json.Marshal(p.Skipped)
	if err != nil {
		return fmt.Errorf("failed to encode skipped intervals: %w", err)
	}

	// 1. Start Transaction
	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() // Safety net: auto-rollback if we error/panic before commit

	// 2. Upsert playlist metadata
	queryPlaylist := `
		INSERT INTO playlists (id, method, top_n, intervals, skipped, runtime_ns, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			method=excluded.method,
			top_n=excluded.top_n,
			intervals=excluded.intervals,
			skipped=excluded.skipped,
			runtime_ns=excluded.runtime_ns;
	`
	if _, err := tx.ExecContext(ctx, queryPlaylist,
		p.ID, string(p.Method), p.TopN, string(intervals), string(skipped),
		p.Runtime.Nanoseconds(), p.CreatedAt.UnixNano(),
	); err != nil {
		return fmt.Errorf("failed to save playlist metadata: %w", err)
	}

	// 3. Replace entries
	if _, err := tx.ExecContext(ctx, "DELETE FROM playlist_entries WHERE playlist_id = ?", p.ID); err != nil {
		return fmt.Errorf("failed to clear old entries: %w", err)
	}

	stmtEntry, err := tx.PrepareContext(ctx, `
		INSERT INTO playlist_entries (
			playlist_id, interval_number, title, artist, bpm, energy, duration_sec, bpm_diff
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmtEntry.Close()

	for _, e := range p.Entries {
		if _, err := stmtEntry.ExecContext(ctx,
			p.ID, e.IntervalNumber, e.Title, e.Artist, e.BPM, e.Energy, e.DurationSec, e.BPMDiff,
		); err != nil {
			return fmt.Errorf("failed to save entry %d: %w", e.IntervalNumber, err)
		}
	}

	// 4. Commit Transaction
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("transaction commit failed: %w", err)
	}

	return nil
}

func (a *Adapter) migrate() error {
	query := `
	CREATE TABLE IF NOT EXISTS tracks (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		id TEXT NOT NULL UNIQUE,
		title TEXT NOT NULL,
		artist TEXT NOT NULL,
		bpm REAL NOT NULL,
		energy REAL NOT NULL,
		duration_sec INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS playlists (
		id TEXT PRIMARY KEY,
		method TEXT NOT NULL,
		top_n INTEGER,
		intervals TEXT NOT NULL,
		skipped TEXT NOT NULL,
		runtime_ns INTEGER NOT NULL,
		created_at INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS playlist_entries (
		playlist_id TEXT NOT NULL,
		interval_number INTEGER NOT NULL,
		title TEXT NOT NULL,
		artist TEXT NOT NULL,
		bpm REAL NOT NULL,
		energy REAL NOT NULL,
		duration_sec INTEGER NOT NULL,
		bpm_diff REAL NOT NULL,
		PRIMARY KEY (playlist_id, interval_number),
		FOREIGN KEY(playlist_id) REFERENCES playlists(id) ON DELETE CASCADE
	);
	`
	if _, err := a.db.Exec(query); err != nil {
		return err
	}
	return nil
}
