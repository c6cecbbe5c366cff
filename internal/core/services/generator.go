// Package services wires the matching core to storage and observability.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ewilliams-labs/pacer/internal/core/domain"
	"github.com/ewilliams-labs/pacer/internal/core/matching"
	"github.com/ewilliams-labs/pacer/internal/core/ports"
	"github.com/ewilliams-labs/pacer/internal/observability"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/ewilliams-labs/pacer/internal/core/services"

// Queue accepts playlists whose save should be retried in the background.
type Queue interface {
	Submit(p domain.Playlist) bool
}

// Config holds the optional collaborators of a Generator.
type Config struct {
	// TopN is the default candidate pool size for graph mode.
	TopN int
	// MaxTopN rejects larger graph candidate pools; zero uses
	// matching.DefaultMaxTopN.
	MaxTopN int
	// Workers bounds parallel scoring; zero uses GOMAXPROCS.
	Workers int
	// Queue retries, in the background, saves that failed during Generate.
	Queue   Queue
	Metrics *observability.Metrics
	Logger  *slog.Logger
}

// Generator runs playlist generation against a loaded catalog.
type Generator struct {
	catalog *domain.Catalog
	repo    ports.PlaylistRepository
	queue   Queue
	metrics *observability.Metrics
	logger  *slog.Logger
	tracer  trace.Tracer
	options matching.Options
	topN    int
	now     func() time.Time
}

// NewGenerator constructs a Generator. repo may be nil, in which case
// playlists are not stored.
func NewGenerator(catalog *domain.Catalog, repo ports.PlaylistRepository, cfg Config) *Generator {
	topN := cfg.TopN
	if topN <= 0 {
		topN = matching.DefaultTopN
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	cfg.Metrics.SetCatalogSize(catalog.Len())

	return &Generator{
		catalog: catalog,
		repo:    repo,
		queue:   cfg.Queue,
		metrics: cfg.Metrics,
		logger:  logger,
		tracer:  otel.Tracer(tracerName),
		options: matching.Options{Workers: cfg.Workers, MaxTopN: cfg.MaxTopN},
		topN:    topN,
		now:     time.Now,
	}
}

// CatalogSize returns the number of tracks available for selection.
func (g *Generator) CatalogSize() int {
	return g.catalog.Len()
}

// Generate runs exactly one selector over intervals and stores the result.
// A topN of zero means the configured default; it is ignored in greedy mode.
func (g *Generator) Generate(ctx context.Context, method domain.Method, intervals []domain.Interval, topN int) (domain.Playlist, error) {
	if topN == 0 {
		topN = g.topN
	}

	ctx, span := g.tracer.Start(ctx, "services.Generate", trace.WithAttributes(
		attribute.String("pacer.method", string(method)),
		attribute.Int("pacer.intervals", len(intervals)),
		attribute.Int("pacer.catalog_size", g.catalog.Len()),
	))
	defer span.End()

	start := g.now()
	var (
		result matching.Result
		err    error
	)
	switch method {
	case domain.MethodGreedy:
		topN = 0
		result, err = g.options.SelectGreedy(ctx, g.catalog, intervals)
	case domain.MethodGraph:
		span.SetAttributes(attribute.Int("pacer.top_n", topN))
		result, err = g.options.SelectGraph(ctx, g.catalog, intervals, topN)
	default:
		err = fmt.Errorf("%w: %q", domain.ErrInvalidMethod, method)
	}
	elapsed := g.now().Sub(start)
	g.metrics.ObserveGeneration(string(method), elapsed, len(result.Skipped), err)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return domain.Playlist{}, fmt.Errorf("service: generate %s playlist: %w", method, err)
	}

	if skipErr := result.SkipErr(); skipErr != nil {
		g.logger.Warn("service: intervals left unfilled",
			slog.String("method", string(method)),
			slog.Any("skipped", result.Skipped),
			slog.Any("error", skipErr))
	}

	pl := domain.Playlist{
		ID:        uuid.NewString(),
		Method:    method,
		TopN:      topN,
		Intervals: intervals,
		Entries:   result.Entries,
		Skipped:   result.Skipped,
		Runtime:   elapsed,
		CreatedAt: start.UTC(),
	}
	span.SetAttributes(
		attribute.String("pacer.playlist_id", pl.ID),
		attribute.Int("pacer.entries", len(pl.Entries)),
	)

	if err := g.persist(ctx, pl); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return domain.Playlist{}, err
	}

	g.logger.Info("service: playlist generated",
		slog.String("playlist_id", pl.ID),
		slog.String("method", string(method)),
		slog.Int("entries", len(pl.Entries)),
		slog.Duration("runtime", elapsed))
	return pl, nil
}

// persist saves pl before Generate returns so it can be fetched right away.
// When the save fails and a queue is configured, the playlist is queued for
// another attempt instead of failing the call.
func (g *Generator) persist(ctx context.Context, pl domain.Playlist) error {
	if g.repo == nil {
		return nil
	}
	err := g.repo.Save(ctx, pl)
	if err == nil {
		return nil
	}
	if g.queue != nil && g.queue.Submit(pl) {
		g.logger.Warn("service: save failed, retrying in background",
			slog.String("playlist_id", pl.ID), slog.Any("error", err))
		return nil
	}
	return fmt.Errorf("service: failed to save playlist: %w", err)
}

// GetPlaylist loads a previously generated playlist.
func (g *Generator) GetPlaylist(ctx context.Context, id string) (domain.Playlist, error) {
	if g.repo == nil {
		return domain.Playlist{}, domain.ErrNotFound
	}
	pl, err := g.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Playlist{}, err
		}
		return domain.Playlist{}, fmt.Errorf("service: failed to load playlist: %w", err)
	}
	return pl, nil
}
