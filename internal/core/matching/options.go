package matching

import (
	"context"
	"errors"
	"runtime"

	"github.com/ewilliams-labs/pacer/internal/core/domain"
)

// DefaultTopN is the per-layer candidate pool size used when none is given.
const DefaultTopN = 20

// DefaultMaxTopN bounds the candidate pool when Options.MaxTopN is unset.
// Edge storage grows with the square of the pool size.
const DefaultMaxTopN = 500

// minChunk is the smallest catalog slice worth handing to its own goroutine.
const minChunk = 2048

// Options tunes how much parallelism a selection call may use and how
// large a candidate pool it accepts. The zero value uses GOMAXPROCS
// workers and DefaultMaxTopN.
type Options struct {
	Workers int
	MaxTopN int
}

func (o Options) workers() int {
	if o.Workers > 0 {
		return o.Workers
	}
	return runtime.GOMAXPROCS(0)
}

func (o Options) maxTopN() int {
	if o.MaxTopN > 0 {
		return o.MaxTopN
	}
	return DefaultMaxTopN
}

// Result is the output of one selection call.
type Result struct {
	Entries []domain.PlaylistEntry
	// Skipped holds 1-based interval numbers that got no track (greedy mode only).
	Skipped []int
}

// SkipErr reports every skipped interval as an ErrExhausted IntervalError,
// or nil when all intervals were filled.
func (r Result) SkipErr() error {
	if len(r.Skipped) == 0 {
		return nil
	}
	errs := make([]error, 0, len(r.Skipped))
	for _, n := range r.Skipped {
		errs = append(errs, &domain.IntervalError{Index: n - 1, Kind: domain.ErrExhausted})
	}
	return errors.Join(errs...)
}

// SelectGreedy runs the greedy selector with default options.
func SelectGreedy(ctx context.Context, catalog *domain.Catalog, intervals []domain.Interval) (Result, error) {
	return Options{}.SelectGreedy(ctx, catalog, intervals)
}

// SelectGraph runs the graph selector with default options.
func SelectGraph(ctx context.Context, catalog *domain.Catalog, intervals []domain.Interval, topN int) (Result, error) {
	return Options{}.SelectGraph(ctx, catalog, intervals, topN)
}

// BuildGraph builds the layered candidate graph with default options.
func BuildGraph(ctx context.Context, catalog *domain.Catalog, intervals []domain.Interval, topN int) (*Graph, error) {
	return Options{}.BuildGraph(ctx, catalog, intervals, topN)
}

func checkInputs(catalog *domain.Catalog, intervals []domain.Interval) error {
	if catalog.Len() == 0 {
		return domain.ErrEmptyCatalog
	}
	return domain.ValidateIntervals(intervals)
}
