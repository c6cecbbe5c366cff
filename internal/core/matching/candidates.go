package matching

import (
	"cmp"
	"container/heap"
	"slices"

	"github.com/ewilliams-labs/pacer/internal/core/domain"
)

// Candidate is a track admitted into a layer, with its target-match score.
type Candidate struct {
	Score float64
	Index int
	Track domain.Track
}

// compareCandidates orders by ascending score, then ascending catalog index.
func compareCandidates(a, b Candidate) int {
	if c := cmp.Compare(a.Score, b.Score); c != 0 {
		return c
	}
	return cmp.Compare(a.Index, b.Index)
}

// worstFirst is a max-heap on candidate order; the root is the weakest kept candidate.
type worstFirst []Candidate

func (h worstFirst) Len() int           { return len(h) }
func (h worstFirst) Less(i, j int) bool { return compareCandidates(h[i], h[j]) > 0 }
func (h worstFirst) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }

func (h *worstFirst) Push(x any) { *h = append(*h, x.(Candidate)) }

func (h *worstFirst) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}

// topCandidates keeps the n best-scoring tracks for iv in a bounded heap and
// returns them sorted best first.
func topCandidates(catalog *domain.Catalog, iv domain.Interval, n int) []Candidate {
	size := min(n, catalog.Len())
	h := make(worstFirst, 0, size)
	for i := 0; i < catalog.Len(); i++ {
		t := catalog.At(i)
		c := Candidate{Score: Score(t, iv), Index: i, Track: t}
		if len(h) < size {
			heap.Push(&h, c)
			continue
		}
		if size > 0 && compareCandidates(c, h[0]) < 0 {
			h[0] = c
			heap.Fix(&h, 0)
		}
	}
	out := []Candidate(h)
	slices.SortFunc(out, compareCandidates)
	return out
}
