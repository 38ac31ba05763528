package retrieval

import (
	"context"
	"log/slog"
	"sort"

	"github.com/poiesic/paperit/ai"
	"github.com/poiesic/paperit/core"
	"github.com/poiesic/paperit/storage"
)

// defaultOverFetchFactor controls how many candidates are pulled from the
// vector store relative to the requested top-k, leaving the ranking room to
// reorder beyond raw distance.
const defaultOverFetchFactor = 2

// ScoredCandidate is one ranked retrieval result with its sub-scores
// exposed for inspection.
type ScoredCandidate struct {
	Chunk    core.Chunk
	Distance float64

	Semantic   float64
	Structural float64
	Recency    float64
	Diversity  float64
	FinalScore float64
}

// Retriever performs hybrid retrieval: nearest-neighbor search over the
// vector store followed by multi-factor re-ranking.
type Retriever struct {
	store     storage.VectorStore
	embedder  ai.Embedder
	scoring   ScoringConfig
	overFetch int
	logger    *slog.Logger
}

// Option configures a Retriever.
type Option func(*Retriever) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(r *Retriever) error {
		if logger == nil {
			logger = slog.Default()
		}
		r.logger = logger.With("component", "retrieval")
		return nil
	}
}

// WithScoringConfig replaces the default ranking parameters.
func WithScoringConfig(cfg ScoringConfig) Option {
	return func(r *Retriever) error {
		r.scoring = cfg
		return nil
	}
}

// WithOverFetchFactor sets the candidate over-sampling factor, minimum 1.
func WithOverFetchFactor(factor int) Option {
	return func(r *Retriever) error {
		if factor < 1 {
			factor = 1
		}
		r.overFetch = factor
		return nil
	}
}

// NewRetriever creates a hybrid retriever over the given store.
func NewRetriever(store storage.VectorStore, embedder ai.Embedder, opts ...Option) (*Retriever, error) {
	if store == nil {
		return nil, ErrStoreRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	r := &Retriever{
		store:     store,
		embedder:  embedder,
		scoring:   DefaultScoringConfig(),
		overFetch: defaultOverFetchFactor,
		logger:    slog.Default().With("component", "retrieval"),
	}

	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Retrieve returns up to topK candidates for the query, ranked by the
// blended score. A nil filter searches the whole store.
func (r *Retriever) Retrieve(ctx context.Context, query string, topK int, filter *storage.Filter) ([]ScoredCandidate, error) {
	return r.RetrieveWithMonitor(ctx, query, topK, filter, nil)
}

// RetrieveWithMonitor is Retrieve with stage callbacks. An empty store or a
// filter matching nothing yields an empty result, not an error; an
// embedding failure propagates to the caller.
func (r *Retriever) RetrieveWithMonitor(ctx context.Context, query string, topK int, filter *storage.Filter, monitor Monitor) ([]ScoredCandidate, error) {
	if monitor == nil {
		monitor = &noopMonitor{}
	}
	if topK <= 0 {
		return nil, nil
	}

	monitor.Start(query)

	vector, err := r.embedder.EmbedText(ctx, query)
	if err != nil {
		r.logger.Error("error embedding query", "err", err)
		return nil, err
	}
	monitor.AfterQueryEmbedding(vector)

	matches, err := r.store.Query(ctx, vector, topK*r.overFetch, filter)
	if err != nil {
		r.logger.Error("error querying vector store", "err", err)
		return nil, err
	}
	monitor.AfterVectorSearch(matches)

	if len(matches) == 0 {
		monitor.Finish(nil)
		return nil, nil
	}

	candidates := r.score(matches, monitor)

	// Stable sort keeps ties in retrieval order so ranking is deterministic.
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].FinalScore > candidates[j].FinalScore
	})

	if len(candidates) > topK {
		candidates = candidates[:topK]
	}

	monitor.Finish(candidates)
	r.logger.Debug("retrieval complete", "query", query, "candidates", len(matches), "returned", len(candidates))
	return candidates, nil
}

// score computes sub-scores for every match. Diversity is computed over the
// candidates in retrieval order, before any re-sorting.
func (r *Retriever) score(matches []storage.Match, monitor Monitor) []ScoredCandidate {
	docIDs := make([]string, len(matches))
	for i, m := range matches {
		docIDs[i] = m.Chunk.DocID
	}
	diversity := DiversityScores(docIDs)

	candidates := make([]ScoredCandidate, len(matches))
	for i, m := range matches {
		c := ScoredCandidate{
			Chunk:      m.Chunk,
			Distance:   m.Distance,
			Semantic:   SemanticScore(m.Distance),
			Structural: r.scoring.StructuralScore(m.Chunk.Section, m.Chunk.HasTaxonomyPattern, m.Chunk.HasStructuredTable),
			Recency:    r.scoring.RecencyScore(m.Chunk.Year),
			Diversity:  diversity[i],
		}
		c.FinalScore = r.scoring.Combine(c.Semantic, c.Structural, c.Recency, c.Diversity)
		monitor.CandidateScored(c)
		candidates[i] = c
	}
	return candidates
}
