// Package index provides the in-memory vector search structures backing the
// four granular indices: a brute-force inner-product index plus the
// identifier allocator and metadata map wrapped around it.
package index

import (
	"fmt"
	"math"
	"sort"
)

// Hit is one nearest-neighbour result.
type Hit struct {
	// ID is the stored identifier.
	ID int64

	// Similarity is the cosine similarity to the query.
	Similarity float64
}

// Entry pairs an identifier with its stored vector. Used for persistence
// snapshots and restores.
type Entry struct {
	ID        int64
	Embedding []float32
}

// Flat is an exact inner-product search structure. Vectors are
// unit-normalized on insertion and queries are normalized before scoring, so
// inner product equals cosine similarity.
//
// Flat is not safe for concurrent use; callers serialise access through the
// index manager's lock.
type Flat struct {
	dims    int
	ids     []int64
	vectors [][]float32
}

// NewFlat creates an empty index for vectors of the given dimension.
func NewFlat(dims int) *Flat {
	return &Flat{dims: dims}
}

// Dimensions returns the fixed embedding dimension.
func (f *Flat) Dimensions() int {
	return f.dims
}

// Len returns the number of stored vectors.
func (f *Flat) Len() int {
	return len(f.ids)
}

// Add stores a vector under the given identifier. The caller supplies the
// identifier and guarantees it is unused. A dimension mismatch is a
// programming-contract violation and panics.
func (f *Flat) Add(id int64, embedding []float32) {
	f.checkDims(len(embedding))
	f.ids = append(f.ids, id)
	f.vectors = append(f.vectors, normalize(embedding))
}

// RemoveBatch deletes the given identifiers. Identifiers not present are
// ignored. Insertion order of the survivors is preserved.
func (f *Flat) RemoveBatch(ids []int64) {
	if len(ids) == 0 {
		return
	}
	drop := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		drop[id] = struct{}{}
	}

	keep := 0
	for i, id := range f.ids {
		if _, ok := drop[id]; ok {
			continue
		}
		f.ids[keep] = id
		f.vectors[keep] = f.vectors[i]
		keep++
	}
	f.ids = f.ids[:keep]
	f.vectors = f.vectors[:keep]
}

// Search returns the k nearest neighbours of the query by cosine similarity,
// best first. Ties preserve insertion order. Returns fewer than k when the
// index holds fewer vectors.
func (f *Flat) Search(query []float32, k int) []Hit {
	f.checkDims(len(query))
	if k <= 0 || len(f.ids) == 0 {
		return nil
	}

	q := normalize(query)
	hits := make([]Hit, len(f.ids))
	for i, vec := range f.vectors {
		hits[i] = Hit{ID: f.ids[i], Similarity: dot(q, vec)}
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Similarity > hits[j].Similarity
	})

	if len(hits) > k {
		hits = hits[:k]
	}
	return hits
}

// Clear empties the index.
func (f *Flat) Clear() {
	f.ids = nil
	f.vectors = nil
}

// Entries returns a snapshot of the stored vectors for persistence.
func (f *Flat) Entries() []Entry {
	entries := make([]Entry, len(f.ids))
	for i, id := range f.ids {
		entries[i] = Entry{ID: id, Embedding: f.vectors[i]}
	}
	return entries
}

// Restore replaces the index contents with a previously persisted snapshot.
// Stored vectors are already normalized, so they are taken as-is.
func (f *Flat) Restore(entries []Entry) {
	f.ids = make([]int64, len(entries))
	f.vectors = make([][]float32, len(entries))
	for i, e := range entries {
		f.checkDims(len(e.Embedding))
		f.ids[i] = e.ID
		f.vectors[i] = e.Embedding
	}
}

func (f *Flat) checkDims(got int) {
	if got != f.dims {
		panic(fmt.Sprintf("index: embedding dimension %d does not match index dimension %d", got, f.dims))
	}
}

// normalize returns a unit-length copy of the vector. Zero vectors are
// copied unchanged.
func normalize(v []float32) []float32 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	out := make([]float32, len(v))
	if sum == 0 {
		copy(out, v)
		return out
	}
	norm := math.Sqrt(sum)
	for i, x := range v {
		out[i] = float32(float64(x) / norm)
	}
	return out
}

func dot(a, b []float32) float64 {
	var sum float64
	for i := range a {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}
