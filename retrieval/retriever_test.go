package retrieval

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/paperit/ai/mock"
	"github.com/poiesic/paperit/core"
	"github.com/poiesic/paperit/storage"
	"github.com/poiesic/paperit/storage/badger"
)

func newTestRetriever(t *testing.T, opts ...Option) (*Retriever, *badger.ChunkStore, *mock.MockEmbedder) {
	t.Helper()

	store, backend, err := badger.NewMemoryStore()
	require.NoError(t, err)
	t.Cleanup(func() { backend.Close() })

	embedder := mock.NewMockEmbedder()
	cfg := DefaultScoringConfig()
	cfg.CurrentYear = 2026
	opts = append([]Option{WithScoringConfig(cfg)}, opts...)

	retriever, err := NewRetriever(store, embedder, opts...)
	require.NoError(t, err)
	return retriever, store, embedder
}

func storedChunk(docID, section string, year int, vector []float32) *core.Chunk {
	return &core.Chunk{
		Id:            core.ChunkID(docID, section, 0),
		DocID:         docID,
		Title:         "Paper " + docID,
		Year:          year,
		Section:       section,
		TokenEstimate: 100,
		Text:          fmt.Sprintf("chunk of %s %s", docID, section),
		Vector:        vector,
	}
}

// queryVector makes the mock embedder return a fixed query vector so chunk
// distances are fully controlled by the stored vectors.
func queryVector(embedder *mock.MockEmbedder, v []float32) {
	embedder.EmbedTextFunc = func(_ context.Context, _ string) ([]float32, error) {
		return v, nil
	}
}

func TestNewRetrieverValidation(t *testing.T) {
	store, backend, err := badger.NewMemoryStore()
	require.NoError(t, err)
	defer backend.Close()

	_, err = NewRetriever(nil, mock.NewMockEmbedder())
	assert.ErrorIs(t, err, ErrStoreRequired)

	_, err = NewRetriever(store, nil)
	assert.ErrorIs(t, err, ErrEmbedderRequired)
}

func TestRetrieveEmptyStore(t *testing.T) {
	retriever, _, embedder := newTestRetriever(t)
	queryVector(embedder, []float32{1, 0, 0})

	results, err := retriever.Retrieve(context.Background(), "anything", 5, nil)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestRetrieveEmbedFailurePropagates(t *testing.T) {
	retriever, _, embedder := newTestRetriever(t)

	wantErr := errors.New("embedder offline")
	embedder.EmbedTextFunc = func(_ context.Context, _ string) ([]float32, error) {
		return nil, wantErr
	}

	_, err := retriever.Retrieve(context.Background(), "query", 5, nil)
	assert.ErrorIs(t, err, wantErr)
}

func TestRetrieveRanksBeyondDistance(t *testing.T) {
	retriever, store, embedder := newTestRetriever(t)
	ctx := context.Background()
	queryVector(embedder, []float32{1, 0, 0})

	// closest by distance, but an unknown section from an old paper
	weak := storedChunk("OLD1", "Acknowledgements", 2010, []float32{1, 0, 0})
	// farther by distance, but recent Methodology content
	strong := storedChunk("NEW1", core.SectionMethodology, 2026, []float32{0.7, 0.714, 0})

	require.NoError(t, store.Upsert(ctx, weak, strong))

	results, err := retriever.Retrieve(ctx, "method details", 2, nil)
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, "NEW1", results[0].Chunk.DocID,
		"metadata-aware ranking should outrank raw distance")
	assert.Less(t, results[1].Distance, results[0].Distance)
	assert.Greater(t, results[0].FinalScore, results[1].FinalScore)
}

func TestRetrieveSubScores(t *testing.T) {
	retriever, store, embedder := newTestRetriever(t)
	ctx := context.Background()
	queryVector(embedder, []float32{1, 0, 0})

	chunk := storedChunk("DOC1", core.SectionResults, 2026, []float32{1, 0, 0})
	chunk.HasTaxonomyPattern = true
	require.NoError(t, store.Upsert(ctx, chunk))

	results, err := retriever.Retrieve(ctx, "query", 1, nil)
	require.NoError(t, err)
	require.Len(t, results, 1)

	r := results[0]
	assert.InDelta(t, 1.0, r.Semantic, 1e-6)
	assert.InDelta(t, 1.05, r.Structural, 1e-9) // Results 0.9 + taxonomy 0.15
	assert.InDelta(t, 1.0, r.Recency, 1e-9)
	assert.InDelta(t, 1.0, r.Diversity, 1e-9)

	cfg := DefaultScoringConfig()
	want := cfg.Combine(r.Semantic, r.Structural, r.Recency, r.Diversity)
	assert.InDelta(t, want, r.FinalScore, 1e-9)
}

func TestRetrieveDiversityPenalizesRepeats(t *testing.T) {
	retriever, store, embedder := newTestRetriever(t)
	ctx := context.Background()
	queryVector(embedder, []float32{1, 0, 0})

	// Three chunks of the same document closer than the lone competitor.
	same := []*core.Chunk{
		storedChunk("DUP1", core.SectionResults, 2020, []float32{1, 0, 0}),
		{
			Id: core.ChunkID("DUP1", core.SectionResults, 1), DocID: "DUP1",
			Section: core.SectionResults, Year: 2020, TokenEstimate: 100,
			Text: "second", Vector: []float32{0.99, 0.14, 0},
		},
		{
			Id: core.ChunkID("DUP1", core.SectionResults, 2), DocID: "DUP1",
			Section: core.SectionResults, Year: 2020, TokenEstimate: 100,
			Text: "third", Vector: []float32{0.985, 0.17, 0},
		},
	}
	other := storedChunk("ALT1", core.SectionResults, 2020, []float32{0.98, 0.2, 0})

	require.NoError(t, store.Upsert(ctx, append(same, other)...))

	results, err := retriever.Retrieve(ctx, "query", 4, nil)
	require.NoError(t, err)
	require.Len(t, results, 4)

	byDoc := map[string][]float64{}
	for _, r := range results {
		byDoc[r.Chunk.DocID] = append(byDoc[r.Chunk.DocID], r.Diversity)
	}
	require.Len(t, byDoc["DUP1"], 3)
	assert.InDelta(t, 1.0, byDoc["DUP1"][0], 1e-9)
	assert.Greater(t, byDoc["DUP1"][0], byDoc["DUP1"][1])
	assert.GreaterOrEqual(t, byDoc["DUP1"][1], byDoc["DUP1"][2])
	assert.InDelta(t, 1.0, byDoc["ALT1"][0], 1e-9)
}

func TestRetrieveTruncatesToTopK(t *testing.T) {
	retriever, store, embedder := newTestRetriever(t)
	ctx := context.Background()
	queryVector(embedder, []float32{1, 0, 0})

	for i := 0; i < 6; i++ {
		c := storedChunk(fmt.Sprintf("DOC%d", i), core.SectionResults, 2020, []float32{1, float32(i) * 0.05, 0})
		require.NoError(t, store.Upsert(ctx, c))
	}

	results, err := retriever.Retrieve(ctx, "query", 3, nil)
	require.NoError(t, err)
	assert.Len(t, results, 3)

	none, err := retriever.Retrieve(ctx, "query", 0, nil)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestRetrieveWithFilter(t *testing.T) {
	retriever, store, embedder := newTestRetriever(t)
	ctx := context.Background()
	queryVector(embedder, []float32{1, 0, 0})

	require.NoError(t, store.Upsert(ctx,
		storedChunk("DOC1", core.SectionResults, 2018, []float32{1, 0, 0}),
		storedChunk("DOC2", core.SectionMethodology, 2024, []float32{1, 0, 0}),
	))

	results, err := retriever.Retrieve(ctx, "query", 5, &storage.Filter{Section: core.SectionMethodology})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "DOC2", results[0].Chunk.DocID)

	none, err := retriever.Retrieve(ctx, "query", 5, &storage.Filter{YearFrom: 2025, YearTo: 2030})
	require.NoError(t, err)
	assert.Empty(t, none)
}

type recordingMonitor struct {
	started  bool
	embedded bool
	searched int
	scored   int
	finished int
}

func (m *recordingMonitor) Start(_ string)                      { m.started = true }
func (m *recordingMonitor) AfterQueryEmbedding(_ []float32)     { m.embedded = true }
func (m *recordingMonitor) AfterVectorSearch(ms []storage.Match) { m.searched = len(ms) }
func (m *recordingMonitor) CandidateScored(_ ScoredCandidate)   { m.scored++ }
func (m *recordingMonitor) Finish(rs []ScoredCandidate)         { m.finished = len(rs) }

func TestRetrieveWithMonitor(t *testing.T) {
	retriever, store, embedder := newTestRetriever(t)
	ctx := context.Background()
	queryVector(embedder, []float32{1, 0, 0})

	require.NoError(t, store.Upsert(ctx,
		storedChunk("DOC1", core.SectionResults, 2020, []float32{1, 0, 0}),
		storedChunk("DOC2", core.SectionResults, 2020, []float32{0.9, 0.1, 0}),
	))

	monitor := &recordingMonitor{}
	results, err := retriever.RetrieveWithMonitor(ctx, "query", 1, nil, monitor)
	require.NoError(t, err)
	require.Len(t, results, 1)

	assert.True(t, monitor.started)
	assert.True(t, monitor.embedded)
	assert.Equal(t, 2, monitor.searched)
	assert.Equal(t, 2, monitor.scored)
	assert.Equal(t, 1, monitor.finished)
}
