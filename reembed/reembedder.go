// Copyright 2025 The Poiesic Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package reembed

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/poiesic/paperit/ai"
	"github.com/poiesic/paperit/core"
	"github.com/poiesic/paperit/storage"
)

// Config holds configuration for the reembedding operation.
type Config struct {
	// BatchSize is the number of chunks to embed in each batch
	BatchSize int

	// ReportInterval is how often to report progress (number of chunks)
	ReportInterval int

	// MaxRetries is the maximum number of retry attempts for failed operations
	MaxRetries int

	// RetryDelay is the base delay for exponential backoff
	RetryDelay time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		BatchSize:      100,
		ReportInterval: 100,
		MaxRetries:     3,
		RetryDelay:     1 * time.Second,
	}
}

// Retry runs op under the config's backoff policy: up to MaxRetries
// attempts, waiting RetryDelay after the first failure and doubling the wait
// after each further one. A context cancellation cuts the wait short and is
// returned as the error.
func (c *Config) Retry(ctx context.Context, op func() error) error {
	if c.MaxRetries <= 0 {
		return ErrInvalidMaxAttempts
	}

	var lastErr error
	for attempt, delay := 1, c.RetryDelay; ; attempt, delay = attempt+1, delay*2 {
		if err := ctx.Err(); err != nil {
			return err
		}

		if lastErr = op(); lastErr == nil {
			if attempt > 1 {
				slog.Debug("operation recovered", "attempt", attempt)
			}
			return nil
		}
		if attempt == c.MaxRetries {
			return lastErr
		}
		slog.Debug("operation failed, backing off",
			"attempt", attempt, "maxRetries", c.MaxRetries, "delay", delay, "err", lastErr)

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// Store is the storage surface reembedding needs: full-corpus iteration
// plus upsert.
type Store interface {
	storage.VectorStore
	storage.ChunkIterator
}

// Reembedder re-embeds every stored chunk with a new embedder, preserving
// chunk ids and metadata. Used when switching embedding models without
// re-ingesting the source PDFs.
type Reembedder struct {
	store    Store
	embedder ai.Embedder
	config   *Config
	progress io.Writer
}

// NewReembedder creates a new reembedder.
// progress: where to write progress output (typically os.Stderr)
func NewReembedder(store Store, embedder ai.Embedder, config *Config, progress io.Writer) (*Reembedder, error) {
	if store == nil {
		return nil, ErrStoreRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}
	if config == nil {
		config = DefaultConfig()
	}
	if progress == nil {
		progress = io.Discard
	}

	return &Reembedder{
		store:    store,
		embedder: embedder,
		config:   config,
		progress: progress,
	}, nil
}

// Run re-embeds the whole corpus in batches. Each batch's embedding call
// and upsert are retried with exponential backoff; a batch that still fails
// after the retries aborts the run.
func (r *Reembedder) Run(ctx context.Context) error {
	total, err := r.store.Count(ctx)
	if err != nil {
		return fmt.Errorf("count chunks: %w", err)
	}
	if total == 0 {
		fmt.Fprintf(r.progress, "No chunks found in store (0 chunks)\n")
		return nil
	}

	fmt.Fprintf(r.progress, "Starting reembedding of %d chunks (batch size: %d)\n",
		total, r.config.BatchSize)

	tracker := NewProgressTracker(r.progress, total, r.config.ReportInterval)
	tracker.Start()

	var (
		batch     []*core.Chunk
		processed int
	)

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if err := r.processBatch(ctx, batch); err != nil {
			return err
		}
		processed += len(batch)
		tracker.Update(processed)
		batch = batch[:0]
		return nil
	}

	err = r.store.IterateChunks(ctx, func(chunk *core.Chunk) error {
		batch = append(batch, chunk)
		if len(batch) >= r.config.BatchSize {
			return flush()
		}
		return nil
	})
	if err != nil {
		return err
	}
	if err := flush(); err != nil {
		return err
	}

	tracker.Finish()
	elapsed := tracker.Elapsed()
	fmt.Fprintf(r.progress, "Reembedding complete. Processed %d chunks in %v (%.1f chunks/sec)\n",
		processed, elapsed.Round(time.Second), float64(processed)/elapsed.Seconds())
	return nil
}

// processBatch embeds one batch of chunks and writes the normalized
// vectors back under the same ids.
func (r *Reembedder) processBatch(ctx context.Context, batch []*core.Chunk) error {
	texts := make([]string, len(batch))
	for i, chunk := range batch {
		texts[i] = chunk.Text
	}

	var vectors [][]float32
	err := r.config.Retry(ctx, func() error {
		var embedErr error
		vectors, embedErr = r.embedder.EmbedTexts(ctx, texts)
		return embedErr
	})
	if err != nil {
		return fmt.Errorf("embed batch: %w", err)
	}
	if len(vectors) != len(batch) {
		return fmt.Errorf("%w: %d vectors for %d chunks", ErrEmbeddingMismatch, len(vectors), len(batch))
	}

	for i, chunk := range batch {
		chunk.Vector = NormalizeVector(vectors[i])
	}

	err = r.config.Retry(ctx, func() error {
		return r.store.Upsert(ctx, batch...)
	})
	if err != nil {
		return fmt.Errorf("store batch: %w", err)
	}
	return nil
}
