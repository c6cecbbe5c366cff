package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/ewilliams-labs/pacer/internal/adapters/csvcatalog"
	"github.com/ewilliams-labs/pacer/internal/adapters/sqlite"
	"github.com/ewilliams-labs/pacer/internal/core/domain"
	"github.com/ewilliams-labs/pacer/internal/core/matching"
	"github.com/ewilliams-labs/pacer/internal/core/ports"
	"github.com/ewilliams-labs/pacer/internal/core/services"
	"github.com/ewilliams-labs/pacer/internal/export"
	"github.com/spf13/cobra"
)

type generateOptions struct {
	method    string
	catalog   string
	db        string
	intervals []string
	topN      int
	maxTopN   int
	workers   int
	format    string
}

var genOpts generateOptions

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a playlist for a list of intervals",
	Long: `Generate a playlist for the given intervals.

Each --interval is bpm:duration[:energy] with duration in minutes and
energy in [0,1]. Greedy never reuses a track; graph minimises tempo and
energy jumps between consecutive tracks.

Examples:
  pacer generate --interval 120:5:0.4 --interval 155:3:0.8 --interval 100:4
  pacer generate --method greedy --format csv --interval 130:4 > playlist.csv`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runGenerate(cmd.Context(), cmd.OutOrStdout(), genOpts)
	},
}

func init() {
	generateCmd.Flags().StringVar(&genOpts.method, "method", "graph",
		"Selection method: greedy or graph")
	generateCmd.Flags().StringVar(&genOpts.catalog, "catalog", "data/clean_tracks.csv",
		"Cleaned catalog CSV")
	generateCmd.Flags().StringVar(&genOpts.db, "db", "",
		"Read the catalog from this sqlite database instead of --catalog")
	generateCmd.Flags().StringArrayVar(&genOpts.intervals, "interval", nil,
		"Interval as bpm:duration[:energy], repeatable")
	generateCmd.Flags().IntVar(&genOpts.topN, "top-n", matching.DefaultTopN,
		"Candidates kept per interval in graph mode")
	generateCmd.Flags().IntVar(&genOpts.maxTopN, "max-top-n", matching.DefaultMaxTopN,
		"Largest accepted --top-n")
	generateCmd.Flags().IntVar(&genOpts.workers, "workers", 0,
		"Parallel scoring workers (0 = GOMAXPROCS)")
	generateCmd.Flags().StringVar(&genOpts.format, "format", "table",
		"Output format: table, csv or json")
	_ = generateCmd.MarkFlagRequired("interval")

	rootCmd.AddCommand(generateCmd)
}

type generateOutput struct {
	Method         domain.Method          `json:"method"`
	Entries        []domain.PlaylistEntry `json:"entries"`
	Skipped        []int                  `json:"skipped,omitempty"`
	RuntimeSeconds float64                `json:"runtime_seconds"`
}

func runGenerate(ctx context.Context, out io.Writer, opts generateOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	method, err := domain.ParseMethod(opts.method)
	if err != nil {
		return err
	}
	intervals, err := parseIntervalSpecs(opts.intervals)
	if err != nil {
		return err
	}

	catalog, err := loadCatalog(ctx, opts.catalog, opts.db)
	if err != nil {
		return err
	}

	gen := services.NewGenerator(catalog, nil, services.Config{
		TopN:    opts.topN,
		MaxTopN: opts.maxTopN,
		Workers: opts.workers,
		Logger:  slog.Default(),
	})
	pl, err := gen.Generate(ctx, method, intervals, opts.topN)
	if err != nil {
		return err
	}

	switch opts.format {
	case "csv":
		return export.WriteCSV(out, pl.Entries)
	case "json":
		entries := pl.Entries
		if entries == nil {
			entries = []domain.PlaylistEntry{}
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(generateOutput{
			Method:         pl.Method,
			Entries:        entries,
			Skipped:        pl.Skipped,
			RuntimeSeconds: pl.Runtime.Seconds(),
		})
	case "table", "":
		if _, err := fmt.Fprintf(out, "\nGenerated Playlist (%s):\n", methodTitle(method)); err != nil {
			return err
		}
		if err := export.WriteTable(out, pl.Entries); err != nil {
			return err
		}
		for _, n := range pl.Skipped {
			if _, err := fmt.Fprintf(out, "Interval %d: no unused track left\n", n); err != nil {
				return err
			}
		}
		_, err := fmt.Fprintf(out, "\nRuntime: %.3f seconds\n", pl.Runtime.Seconds())
		return err
	default:
		return fmt.Errorf("unknown format %q: want table, csv or json", opts.format)
	}
}

func methodTitle(m domain.Method) string {
	if m == domain.MethodGraph {
		return "Graph-based"
	}
	return strings.ToUpper(string(m[:1])) + string(m[1:])
}

// loadCatalog reads the catalog from db when set, else from the CSV file.
func loadCatalog(ctx context.Context, csvPath, dbPath string) (*domain.Catalog, error) {
	var source ports.CatalogSource
	if dbPath != "" {
		store, err := sqlite.NewAdapter(dbPath)
		if err != nil {
			return nil, err
		}
		defer store.Close()
		source = store
	} else {
		source = &csvcatalog.Source{Path: csvPath, Logger: slog.Default()}
	}
	return source.LoadCatalog(ctx)
}
