// Package config loads pacer's runtime configuration from an optional YAML
// file, then applies PACER_* environment overrides, then validates.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/ewilliams-labs/pacer/internal/core/matching"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

var validate = validator.New()

// Config holds all runtime configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Storage  StorageConfig  `yaml:"storage"`
	Catalog  CatalogConfig  `yaml:"catalog"`
	Matching MatchingConfig `yaml:"matching"`
	Worker   WorkerConfig   `yaml:"worker"`
	Log      LogConfig      `yaml:"log"`
	Tracing  bool           `yaml:"tracing"`
}

type ServerConfig struct {
	Addr              string        `yaml:"addr" validate:"required"`
	ReadHeaderTimeout time.Duration `yaml:"read_header_timeout" validate:"gt=0"`
	ShutdownTimeout   time.Duration `yaml:"shutdown_timeout" validate:"gt=0"`
}

type StorageConfig struct {
	Driver string `yaml:"driver" validate:"oneof=sqlite postgres"`
	Path   string `yaml:"path" validate:"required"`
}

// CatalogConfig selects where the track catalog is read from at startup.
type CatalogConfig struct {
	Source string       `yaml:"source" validate:"oneof=csv sqlite remote"`
	Path   string       `yaml:"path"`
	Remote RemoteConfig `yaml:"remote"`
}

// RemoteConfig configures the HTTP catalog service client.
type RemoteConfig struct {
	BaseURL      string        `yaml:"base_url" validate:"omitempty,url"`
	TokenURL     string        `yaml:"token_url" validate:"omitempty,url"`
	ClientID     string        `yaml:"client_id"`
	ClientSecret string        `yaml:"client_secret"`
	PageSize     int           `yaml:"page_size" validate:"gt=0,lte=1000"`
	MaxRetries   int           `yaml:"max_retries" validate:"gt=0"`
	RetryBackoff time.Duration `yaml:"retry_backoff" validate:"gt=0"`
	RateLimit    float64       `yaml:"rate_limit" validate:"gte=0"`
}

// MatchingConfig bounds graph mode. MaxTopN caps the per-request top_n,
// since edge storage grows with its square.
type MatchingConfig struct {
	TopN    int `yaml:"top_n" validate:"gt=0"`
	MaxTopN int `yaml:"max_top_n" validate:"gtefield=TopN"`
	Workers int `yaml:"workers" validate:"gte=0"`
}

type WorkerConfig struct {
	Count     int `yaml:"count" validate:"gt=0"`
	QueueSize int `yaml:"queue_size" validate:"gt=0"`
}

type LogConfig struct {
	Level  string `yaml:"level" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" validate:"oneof=text json"`
}

// Default returns the configuration used when no file or overrides are given.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Addr:              ":8080",
			ReadHeaderTimeout: 15 * time.Second,
			ShutdownTimeout:   10 * time.Second,
		},
		Storage: StorageConfig{Driver: "sqlite", Path: "pacer.db"},
		Catalog: CatalogConfig{
			Source: "csv",
			Path:   "data/clean_tracks.csv",
			Remote: RemoteConfig{
				PageSize:     500,
				MaxRetries:   3,
				RetryBackoff: 500 * time.Millisecond,
				RateLimit:    10,
			},
		},
		Matching: MatchingConfig{TopN: 20, MaxTopN: matching.DefaultMaxTopN},
		Worker:   WorkerConfig{Count: 2, QueueSize: 100},
		Log:      LogConfig{Level: "info", Format: "text"},
	}
}

// Load reads path (skipped when empty), applies environment overrides and validates.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}
	if err := cfg.applyEnv(os.Getenv); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks field ranges and cross-field requirements.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	switch c.Catalog.Source {
	case "csv":
		if c.Catalog.Path == "" {
			return errors.New("config: catalog.path is required for the csv source")
		}
	case "remote":
		if c.Catalog.Remote.BaseURL == "" {
			return errors.New("config: catalog.remote.base_url is required for the remote source")
		}
		if c.Catalog.Remote.ClientID != "" && c.Catalog.Remote.TokenURL == "" {
			return errors.New("config: catalog.remote.token_url is required with client credentials")
		}
	}
	return nil
}

func (c *Config) applyEnv(getenv func(string) string) error {
	str := func(key string, dst *string) {
		if v := getenv(key); v != "" {
			*dst = v
		}
	}
	num := func(key string, dst *int) error {
		if v := getenv(key); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("config: %s: %w", key, err)
			}
			*dst = n
		}
		return nil
	}

	str("PACER_ADDR", &c.Server.Addr)
	str("PACER_STORAGE_DRIVER", &c.Storage.Driver)
	str("PACER_DB_PATH", &c.Storage.Path)
	str("PACER_CATALOG_SOURCE", &c.Catalog.Source)
	str("PACER_CATALOG_PATH", &c.Catalog.Path)
	str("PACER_CATALOG_URL", &c.Catalog.Remote.BaseURL)
	str("PACER_CATALOG_TOKEN_URL", &c.Catalog.Remote.TokenURL)
	str("PACER_CATALOG_CLIENT_ID", &c.Catalog.Remote.ClientID)
	str("PACER_CATALOG_CLIENT_SECRET", &c.Catalog.Remote.ClientSecret)
	str("PACER_LOG_LEVEL", &c.Log.Level)
	str("PACER_LOG_FORMAT", &c.Log.Format)

	for key, dst := range map[string]*int{
		"PACER_TOP_N":               &c.Matching.TopN,
		"PACER_MAX_TOP_N":           &c.Matching.MaxTopN,
		"PACER_WORKERS":             &c.Matching.Workers,
		"PACER_WORKER_COUNT":        &c.Worker.Count,
		"PACER_QUEUE_SIZE":          &c.Worker.QueueSize,
		"PACER_CATALOG_MAX_RETRIES": &c.Catalog.Remote.MaxRetries,
	} {
		if err := num(key, dst); err != nil {
			return err
		}
	}

	if v := getenv("PACER_TRACING"); v != "" {
		on, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("config: PACER_TRACING: %w", err)
		}
		c.Tracing = on
	}
	return nil
}

// NewLogger builds the process logger described by the log settings.
func (l LogConfig) NewLogger(w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(l.Level)}
	if strings.EqualFold(l.Format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
