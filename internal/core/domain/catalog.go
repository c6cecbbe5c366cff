package domain

// Catalog is the read-only, ordered table of tracks available for selection.
// Index order is stable and is used to break score ties.
type Catalog struct {
	tracks []Track
}

// NewCatalog copies tracks into a new Catalog. The caller may reuse the slice.
func NewCatalog(tracks []Track) *Catalog {
	owned := make([]Track, len(tracks))
	copy(owned, tracks)
	return &Catalog{tracks: owned}
}

// Len returns the number of tracks. A nil catalog is empty.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.tracks)
}

// At returns the track at index i.
func (c *Catalog) At(i int) Track {
	return c.tracks[i]
}

// Tracks returns a copy of the catalog contents in index order.
func (c *Catalog) Tracks() []Track {
	if c == nil {
		return nil
	}
	out := make([]Track, len(c.tracks))
	copy(out, c.tracks)
	return out
}
