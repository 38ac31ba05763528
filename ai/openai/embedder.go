package openai

import (
	"context"
	"log/slog"
	"time"

	"github.com/poiesic/paperit/ai"
	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/openai"
)

// healthProbe is the short text embedded by CheckHealth.
const healthProbe = "ping"

// Embedder implements ai.Embedder using OpenAI-compatible embedding APIs.
// Large inputs are split into bounded sub-batches with a small pause between
// them so a local inference service is not overloaded.
type Embedder struct {
	embedder   embeddings.Embedder
	batchSize  int
	batchPause time.Duration
	logger     *slog.Logger
}

// newEmbedder is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newEmbedder(config *ai.Config) (*Embedder, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	// Use "none" as token for local OpenAI-compatible services that don't require authentication
	client, err := openai.New(
		openai.WithBaseURL(config.EmbeddingHost),
		openai.WithToken("none"),
		openai.WithEmbeddingModel(config.EmbeddingModel),
	)
	if err != nil {
		return nil, err
	}

	embedder, err := embeddings.NewEmbedder(client, embeddings.WithStripNewLines(true))
	if err != nil {
		return nil, err
	}

	return &Embedder{
		embedder:   embedder,
		batchSize:  config.BatchSize,
		batchPause: config.BatchPause,
		logger:     slog.Default().With("component", "openai-embedder"),
	}, nil
}

// NewEmbedder creates a new embedder using the provided configuration.
//
// Returns ai.Embedder interface to enforce abstraction.
func NewEmbedder(config *ai.Config) (ai.Embedder, error) {
	return newEmbedder(config)
}

// EmbedText generates a vector embedding for a single text string.
func (e *Embedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	e.logger.Debug("generating embedding for single text", "length", len(text))

	vectors, err := e.embedder.EmbedDocuments(ctx, []string{text})
	if err != nil {
		e.logger.Error("failed to generate embedding", "err", err)
		return nil, ai.NewEmbeddingError(0, "embed text", err)
	}

	if len(vectors) == 0 {
		e.logger.Warn("embedder returned empty result")
		return []float32{}, nil
	}

	return vectors[0], nil
}

// EmbedTexts generates vector embeddings for multiple text strings.
// Inputs are processed in sub-batches of the configured size, pausing between
// batches; results are returned in input order.
func (e *Embedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	e.logger.Debug("generating embeddings for texts", "count", len(texts))

	all := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += e.batchSize {
		end := min(start+e.batchSize, len(texts))

		e.logger.Debug("embedding sub-batch", "from", start, "to", end)
		vectors, err := e.embedder.EmbedDocuments(ctx, texts[start:end])
		if err != nil {
			e.logger.Error("failed to generate embeddings", "from", start, "to", end, "err", err)
			return nil, ai.NewEmbeddingError(0, "embed batch", err)
		}
		all = append(all, vectors...)

		if end < len(texts) && e.batchPause > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(e.batchPause):
			}
		}
	}

	return all, nil
}

// CheckHealth verifies the embedding service is reachable by embedding a
// short probe text.
func (e *Embedder) CheckHealth(ctx context.Context) error {
	if _, err := e.embedder.EmbedQuery(ctx, healthProbe); err != nil {
		return ai.NewEmbeddingError(0, "health check", err)
	}
	return nil
}
