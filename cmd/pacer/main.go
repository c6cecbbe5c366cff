// Command pacer generates workout playlists from the command line and
// prepares catalog files for the API server.
package main

import (
	"log/slog"
	"os"

	"github.com/ewilliams-labs/pacer/internal/config"
	"github.com/spf13/cobra"
)

var (
	logLevel  string
	logFormat string
)

var rootCmd = &cobra.Command{
	Use:   "pacer",
	Short: "Match workout intervals to tracks",
	Long: `Pacer maps an ordered list of workout intervals (target BPM, duration,
optional energy) onto tracks from a catalog.

Examples:
  pacer clean --in raw_tracks.csv --out data/clean_tracks.csv
  pacer verify --catalog data/clean_tracks.csv
  pacer generate --method graph --interval 120:5:0.4 --interval 155:3:0.8
  pacer import --catalog data/clean_tracks.csv --db pacer.db`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		slog.SetDefault(config.LogConfig{Level: logLevel, Format: logFormat}.NewLogger(cmd.ErrOrStderr()))
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn",
		"Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text",
		"Log format: text or json")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
