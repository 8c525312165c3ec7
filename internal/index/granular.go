package index

import (
	"github.com/custodia-labs/recollect/internal/core/domain"
)

// Granular is one granularity's complete index: the vector search structure,
// a monotonically increasing identifier allocator and the identifier-to-
// segment metadata map.
//
// Invariant: after any mutating operation completes, the identifier set in
// the search structure equals the key set of the metadata map. Identifiers
// are never reused within a run; the space resets only on Clear.
//
// Granular is not safe for concurrent use; the index manager serialises all
// access behind its lock.
type Granular struct {
	flat *Flat
	next int64
	meta map[int64]domain.Segment
}

// NewGranular creates an empty granular index for the given embedding
// dimension.
func NewGranular(dims int) *Granular {
	return &Granular{
		flat: NewFlat(dims),
		meta: make(map[int64]domain.Segment),
	}
}

// Add allocates the next identifier, inserts the vector and stores the
// segment metadata under it. Never fails for well-formed vectors; a
// dimension mismatch panics.
func (g *Granular) Add(embedding []float32, seg domain.Segment) int64 {
	id := g.next
	g.next++
	g.flat.Add(id, embedding)
	g.meta[id] = seg
	return id
}

// RemoveBatch removes the given identifiers from both the search structure
// and the metadata map. Already-removed identifiers are ignored.
func (g *Granular) RemoveBatch(ids []int64) {
	g.flat.RemoveBatch(ids)
	for _, id := range ids {
		delete(g.meta, id)
	}
}

// Search returns the k nearest neighbours, best first.
func (g *Granular) Search(query []float32, k int) []Hit {
	return g.flat.Search(query, k)
}

// Segment returns the metadata stored under an identifier.
func (g *Granular) Segment(id int64) (domain.Segment, bool) {
	seg, ok := g.meta[id]
	return seg, ok
}

// Count returns the number of indexed segments.
func (g *Granular) Count() int {
	return len(g.meta)
}

// IDs returns the identifiers currently present in the metadata map.
func (g *Granular) IDs() []int64 {
	ids := make([]int64, 0, len(g.meta))
	for id := range g.meta {
		ids = append(ids, id)
	}
	return ids
}

// Clear empties the search structure and metadata map and resets the
// identifier allocator to zero. Used only by full rebuild or reset.
func (g *Granular) Clear() {
	g.flat.Clear()
	g.meta = make(map[int64]domain.Segment)
	g.next = 0
}

// Entries returns a persistence snapshot of the search structure only.
// Metadata is reconstructed by re-walking source files, not persisted.
func (g *Granular) Entries() []Entry {
	return g.flat.Entries()
}

// Restore replaces the search structure with a persisted snapshot and moves
// the allocator past the highest restored identifier so identifiers are not
// reused. Metadata remains empty until the next rebuild walk.
func (g *Granular) Restore(entries []Entry) {
	g.flat.Restore(entries)
	g.next = 0
	for _, e := range entries {
		if e.ID >= g.next {
			g.next = e.ID + 1
		}
	}
}

// VectorIDs returns the identifiers currently present in the search
// structure. Exposed for invariant checks in tests.
func (g *Granular) VectorIDs() []int64 {
	ids := make([]int64, len(g.flat.ids))
	copy(ids, g.flat.ids)
	return ids
}
