package badger

import (
	"context"
	"log/slog"
	"math"
	"slices"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/paperit/core"
	"github.com/poiesic/paperit/storage"
)

// ChunkStore is a BadgerDB-backed vector store for embedded chunks.
// Each chunk is stored under the content hash of its deterministic ID, so
// upserts are idempotent per chunk. Nearest-neighbour queries scan the
// corpus linearly; the per-query candidate set is bounded (tens to low
// hundreds), so no index structure is needed.
type ChunkStore struct {
	backend *Backend
	logger  *slog.Logger
}

var (
	_ storage.VectorStore   = (*ChunkStore)(nil)
	_ storage.ChunkIterator = (*ChunkStore)(nil)
)

// NewChunkStore creates a chunk store on top of an open backend.
func NewChunkStore(backend *Backend) (*ChunkStore, error) {
	if backend == nil {
		return nil, storage.ErrBackendRequired
	}
	return &ChunkStore{
		backend: backend,
		logger:  slog.Default().With("component", "chunk-store"),
	}, nil
}

// Upsert validates and stores chunks keyed by their deterministic IDs.
// A validation failure rejects the whole call before anything is written, so
// an invalid chunk can never corrupt the store's filterable metadata.
func (s *ChunkStore) Upsert(ctx context.Context, chunks ...*core.Chunk) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	for _, chunk := range chunks {
		if err := core.ValidateChunk(chunk); err != nil {
			return err
		}
	}

	err := s.backend.WithTx(func(tx *badger.Txn) error {
		for _, chunk := range chunks {
			key := chunk.Key()
			if err := tx.Set(makeChunkKey(key), storage.MarshalChunk(chunk)); err != nil {
				return err
			}
			if err := tx.Set(makeDocIndexKey(chunk.DocID, key), nil); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
	if err != nil {
		return err
	}

	s.logger.Debug("upserted chunks", "count", len(chunks))
	return nil
}

// Query returns up to k stored chunks nearest to the query vector, ordered by
// increasing cosine distance. Chunks without an embedding, or with a vector of
// a different dimension (possible mid model-migration), are skipped.
func (s *ChunkStore) Query(ctx context.Context, vector []float32, k int, filter *storage.Filter) ([]storage.Match, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(vector) == 0 {
		return nil, storage.ErrEmptyQueryVector
	}
	if k <= 0 {
		return []storage.Match{}, nil
	}

	var matches []storage.Match

	err := s.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(chunkRecordPrefix + ":")
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var chunk *core.Chunk
			err := iter.Item().Value(func(val []byte) error {
				var err error
				chunk, err = storage.UnmarshalChunk(val)
				return err
			})
			if err != nil {
				return err
			}
			if chunk == nil || !filter.Matches(chunk) {
				continue
			}
			if len(chunk.Vector) != len(vector) {
				if len(chunk.Vector) != 0 {
					s.logger.Warn("skipping chunk with mismatched vector dimension",
						"chunk", chunk.Id, "dim", len(chunk.Vector), "queryDim", len(vector))
				}
				continue
			}

			matches = append(matches, storage.Match{
				Chunk:    *chunk,
				Distance: cosineDistance(vector, chunk.Vector),
			})
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}

	// Sort by distance ascending; SortStableFunc keeps key order on ties so
	// results stay deterministic.
	slices.SortStableFunc(matches, func(a, b storage.Match) int {
		if a.Distance < b.Distance {
			return -1
		}
		if a.Distance > b.Distance {
			return 1
		}
		return 0
	})

	if len(matches) > k {
		matches = matches[:k]
	}
	return matches, nil
}

// Count returns the number of stored chunks.
func (s *ChunkStore) Count(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	count := 0
	err := s.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(chunkRecordPrefix + ":")
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			count++
		}
		return nil
	}, false)
	if err != nil {
		return 0, err
	}
	return count, nil
}

// DeleteDocument removes every chunk belonging to the document, along with its
// index entries. Deleting an unknown document is a no-op.
func (s *ChunkStore) DeleteDocument(ctx context.Context, docID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return s.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = makePartialDocIndexKey(docID)
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)

		var indexKeys [][]byte
		var chunkIDs []core.ID
		for iter.Rewind(); iter.Valid(); iter.Next() {
			key := iter.Item().KeyCopy(nil)
			indexKeys = append(indexKeys, key)
			chunkIDs = append(chunkIDs, chunkIDFromDocIndexKey(key))
		}
		iter.Close()

		for i, key := range indexKeys {
			if err := tx.Delete(key); err != nil {
				return err
			}
			if err := tx.Delete(makeChunkKey(chunkIDs[i])); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// IterateChunks calls fn for every stored chunk in key order.
func (s *ChunkStore) IterateChunks(ctx context.Context, fn func(chunk *core.Chunk) error) error {
	return s.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(chunkRecordPrefix + ":")
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			var chunk *core.Chunk
			err := iter.Item().Value(func(val []byte) error {
				var err error
				chunk, err = storage.UnmarshalChunk(val)
				return err
			})
			if err != nil {
				return err
			}
			if err := fn(chunk); err != nil {
				return err
			}
		}
		return nil
	}, false)
}

// Close closes the store. The underlying backend is shared and closed by its
// owner.
func (s *ChunkStore) Close() error {
	return nil
}

// cosineDistance computes 1 - cosine similarity. An identical direction yields
// 0; a zero vector on either side yields the maximum distance 1.
func cosineDistance(a, b []float32) float64 {
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 1
	}
	return 1 - dot/(math.Sqrt(normA)*math.Sqrt(normB))
}
