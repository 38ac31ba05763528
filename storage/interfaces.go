package storage

import (
	"context"

	"github.com/poiesic/paperit/core"
)

// Filter narrows vector queries by structured chunk metadata.
// Zero values leave the corresponding dimension unconstrained.
type Filter struct {
	Section  string // exact canonical section name
	DocID    string // restrict to one source document
	YearFrom int    // inclusive lower bound on publication year
	YearTo   int    // inclusive upper bound on publication year
}

// Matches reports whether the chunk satisfies every set constraint.
// A nil filter matches everything.
func (f *Filter) Matches(chunk *core.Chunk) bool {
	if f == nil {
		return true
	}
	if f.Section != "" && chunk.Section != f.Section {
		return false
	}
	if f.DocID != "" && chunk.DocID != f.DocID {
		return false
	}
	if f.YearFrom != 0 && chunk.Year < f.YearFrom {
		return false
	}
	if f.YearTo != 0 && chunk.Year > f.YearTo {
		return false
	}
	return true
}

// Match is one nearest-neighbour result.
type Match struct {
	Chunk    core.Chunk
	Distance float64 // cosine distance; lower is closer
}

// VectorStore stores embedded chunks and serves nearest-neighbour queries.
// Implementations must be thread-safe and support concurrent access.
type VectorStore interface {
	// Upsert validates and stores chunks keyed by their deterministic IDs.
	// Re-upserting a chunk with the same ID overwrites it (last writer wins
	// per key), so repeated ingestion of the same document is idempotent.
	// Validation failures reject the whole call before anything is written.
	Upsert(ctx context.Context, chunks ...*core.Chunk) error

	// Query returns up to k stored chunks nearest to the query vector,
	// ordered by increasing distance, optionally narrowed by filter.
	// An empty result is not an error.
	Query(ctx context.Context, vector []float32, k int, filter *Filter) ([]Match, error)

	// Count returns the number of stored chunks.
	Count(ctx context.Context) (int, error)

	// DeleteDocument removes every chunk belonging to the document.
	DeleteDocument(ctx context.Context, docID string) error

	// Close closes the storage backend and releases resources.
	Close() error
}

// ChunkIterator streams stored chunks in key order. Used by maintenance
// tooling (reembedding) that needs to visit the whole corpus.
type ChunkIterator interface {
	// IterateChunks calls fn for every stored chunk until fn returns an
	// error or the corpus is exhausted.
	IterateChunks(ctx context.Context, fn func(chunk *core.Chunk) error) error
}
