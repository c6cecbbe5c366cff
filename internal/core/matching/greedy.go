package matching

import (
	"context"
	"fmt"

	"github.com/ewilliams-labs/pacer/internal/core/domain"
	"golang.org/x/sync/errgroup"
)

// usedSet is a bitset over catalog indices, owned by one greedy call.
type usedSet []uint64

func newUsedSet(n int) usedSet { return make(usedSet, (n+63)/64) }

func (s usedSet) has(i int) bool { return s[i/64]&(1<<(uint(i)%64)) != 0 }
func (s usedSet) add(i int)      { s[i/64] |= 1 << (uint(i) % 64) }

// SelectGreedy picks, for each interval in order, the lowest-scoring track not
// already used, breaking ties by catalog index. Once every track is used the
// remaining intervals are skipped: they get no entry and are listed in
// Result.Skipped, and no error is returned.
func (o Options) SelectGreedy(ctx context.Context, catalog *domain.Catalog, intervals []domain.Interval) (Result, error) {
	if err := checkInputs(catalog, intervals); err != nil {
		return Result{}, err
	}

	used := newUsedSet(catalog.Len())
	picks := make([]Pick, 0, len(intervals))
	var skipped []int

	for i, iv := range intervals {
		if err := ctx.Err(); err != nil {
			return Result{}, fmt.Errorf("matching: greedy stopped at interval %d: %w", i+1, err)
		}
		best, ok, err := o.bestUnused(ctx, catalog, iv, used)
		if err != nil {
			return Result{}, fmt.Errorf("matching: greedy interval %d: %w", i+1, err)
		}
		if !ok {
			skipped = append(skipped, i+1)
			continue
		}
		used.add(best.Index)
		picks = append(picks, Pick{Number: i + 1, Interval: iv, Track: best.Track})
	}

	return Result{Entries: Assemble(picks), Skipped: skipped}, nil
}

// bestUnused scans the catalog for the minimum (score, index) among unused
// tracks. Large catalogs are split into disjoint chunks scanned concurrently.
func (o Options) bestUnused(ctx context.Context, catalog *domain.Catalog, iv domain.Interval, used usedSet) (Candidate, bool, error) {
	n := catalog.Len()
	chunks := min(o.workers(), n/minChunk)
	if chunks <= 1 {
		c, ok := scanUnused(catalog, iv, used, 0, n)
		return c, ok, nil
	}

	type partial struct {
		best Candidate
		ok   bool
	}
	parts := make([]partial, chunks)
	size := (n + chunks - 1) / chunks

	g, gctx := errgroup.WithContext(ctx)
	for w := 0; w < chunks; w++ {
		lo := w * size
		hi := min(lo+size, n)
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			parts[w].best, parts[w].ok = scanUnused(catalog, iv, used, lo, hi)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Candidate{}, false, err
	}

	var best Candidate
	found := false
	for _, p := range parts {
		if p.ok && (!found || compareCandidates(p.best, best) < 0) {
			best, found = p.best, true
		}
	}
	return best, found, nil
}

func scanUnused(catalog *domain.Catalog, iv domain.Interval, used usedSet, lo, hi int) (Candidate, bool) {
	var best Candidate
	found := false
	for i := lo; i < hi; i++ {
		if used.has(i) {
			continue
		}
		t := catalog.At(i)
		s := Score(t, iv)
		// strict less keeps the lowest index on equal scores
		if !found || s < best.Score {
			best = Candidate{Score: s, Index: i, Track: t}
			found = true
		}
	}
	return best, found
}
