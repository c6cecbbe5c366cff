package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/ewilliams-labs/pacer/internal/adapters/csvcatalog"
	"github.com/ewilliams-labs/pacer/internal/adapters/sqlite"
	"github.com/spf13/cobra"
)

var (
	cleanIn    string
	cleanOut   string
	cleanLimit int

	verifyCatalog string

	importCatalog string
	importDB      string
)

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Convert a raw track export into the cleaned catalog format",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runClean(cmd.OutOrStdout(), cleanIn, cleanOut, cleanLimit)
	},
}

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Print row count and value ranges of a cleaned catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runVerify(cmd.Context(), cmd.OutOrStdout(), verifyCatalog)
	},
}

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Load a cleaned catalog CSV into the sqlite database",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runImport(cmd.Context(), cmd.OutOrStdout(), importCatalog, importDB)
	},
}

func init() {
	cleanCmd.Flags().StringVar(&cleanIn, "in", "data/tracks.csv",
		"Raw track export")
	cleanCmd.Flags().StringVar(&cleanOut, "out", "data/clean_tracks.csv",
		"Cleaned catalog destination")
	cleanCmd.Flags().IntVar(&cleanLimit, "limit", csvcatalog.DefaultCleanLimit,
		"Maximum rows written")

	verifyCmd.Flags().StringVar(&verifyCatalog, "catalog", "data/clean_tracks.csv",
		"Cleaned catalog CSV")

	importCmd.Flags().StringVar(&importCatalog, "catalog", "data/clean_tracks.csv",
		"Cleaned catalog CSV")
	importCmd.Flags().StringVar(&importDB, "db", "pacer.db",
		"sqlite database path")

	rootCmd.AddCommand(cleanCmd, verifyCmd, importCmd)
}

func runClean(out io.Writer, inPath, outPath string, limit int) (err error) {
	in, err := os.Open(inPath)
	if err != nil {
		return err
	}
	defer in.Close()

	dst, err := os.Create(outPath)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := dst.Close(); err == nil {
			err = cerr
		}
	}()

	stats, err := csvcatalog.Clean(in, dst, limit)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(out, "Read %d rows, dropped %d, wrote %d to %s\n",
		stats.Read, stats.Dropped, stats.Written, outPath)
	return err
}

func runVerify(ctx context.Context, out io.Writer, path string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	catalog, err := (&csvcatalog.Source{Path: path, Logger: slog.Default()}).LoadCatalog(ctx)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(out, "Loaded cleaned data from %s\n\n", path); err != nil {
		return err
	}
	return csvcatalog.Verify(catalog).Write(out)
}

func runImport(ctx context.Context, out io.Writer, csvPath, dbPath string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	catalog, err := (&csvcatalog.Source{Path: csvPath, Logger: slog.Default()}).LoadCatalog(ctx)
	if err != nil {
		return err
	}

	store, err := sqlite.NewAdapter(dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.ImportCatalog(ctx, catalog); err != nil {
		return err
	}
	_, err = fmt.Fprintf(out, "Imported %d tracks into %s\n", catalog.Len(), dbPath)
	return err
}
