package ingestion

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/paperit/core"
)

func testMeta() core.DocumentMeta {
	return core.DocumentMeta{
		DocID:   "DOC1",
		Title:   "Trust in Automation",
		Authors: "Lee; Patel",
		Year:    2021,
	}
}

// smallConfig keeps chunk sizes tiny so tests work with short text.
func smallConfig() ChunkerConfig {
	cfg := DefaultChunkerConfig()
	cfg.DefaultChunkSize = 40
	cfg.Overlap = 5
	cfg.MinChunkSize = 15
	cfg.SectionSizes = map[string]int{}
	return cfg
}

// sentenceBlock builds n distinct sentences of roughly 12 token-estimate
// units each, joined into one paragraph.
func sentenceBlock(n int) string {
	sentences := make([]string, n)
	for i := range sentences {
		sentences[i] = fmt.Sprintf("Sentence number %02d carries some filler words for bulk here.", i)
	}
	return strings.Join(sentences, " ")
}

func TestSplitSentences(t *testing.T) {
	t.Run("basic boundaries", func(t *testing.T) {
		got := splitSentences("First one. Second one! Third one? Fourth.")
		assert.Equal(t, []string{"First one.", "Second one!", "Third one?", "Fourth."}, got)
	})

	t.Run("abbreviations do not split", func(t *testing.T) {
		got := splitSentences("We use several methods, e.g. surveys and logs. Prior work by Lee et al. found gaps. Done.")
		require.Len(t, got, 3)
		assert.Equal(t, "We use several methods, e.g. surveys and logs.", got[0])
		assert.Equal(t, "Prior work by Lee et al. found gaps.", got[1])
	})

	t.Run("no terminator", func(t *testing.T) {
		got := splitSentences("a fragment with no ending")
		assert.Equal(t, []string{"a fragment with no ending"}, got)
	})

	t.Run("empty", func(t *testing.T) {
		assert.Empty(t, splitSentences("   "))
	})
}

func TestChunkSkipsReferencesAndEmptySections(t *testing.T) {
	sections := []core.Section{
		{Name: core.SectionReferences, Text: sentenceBlock(30)},
		{Name: core.SectionResults, Text: "   "},
	}
	chunks := NewChunker(smallConfig()).Chunk(sections, testMeta())
	assert.Empty(t, chunks)
}

func TestChunkDropsUnderMinimumSection(t *testing.T) {
	sections := []core.Section{{Name: core.SectionAbstract, Text: "Too short to keep."}}
	chunks := NewDefaultChunker().Chunk(sections, testMeta())
	assert.Empty(t, chunks)
}

func TestChunkSingleSection(t *testing.T) {
	text := strings.Repeat("This abstract sentence describes the study aims in detail. ", 25)
	sections := []core.Section{{Name: core.SectionUnknown, Text: strings.TrimSpace(text)}}

	chunks := NewDefaultChunker().Chunk(sections, testMeta())
	require.Len(t, chunks, 1)

	c := chunks[0]
	assert.Equal(t, "DOC1_Unknown_ch0", c.Id)
	assert.Equal(t, 0, c.ChunkIndex)
	assert.True(t, strings.HasPrefix(c.Text, "[Source: Trust in Automation | Section: Unknown]\n"))
	assert.Equal(t, core.EstimateTokens(c.Text), c.TokenEstimate)
	assert.Equal(t, "DOC1", c.DocID)
	assert.Equal(t, 2021, c.Year)
	assert.NoError(t, func() error { c2 := c; c2.Vector = []float32{1}; return core.ValidateChunk(&c2) }())
}

func TestChunkMinSizeInvariant(t *testing.T) {
	cfg := smallConfig()
	sections := []core.Section{{Name: core.SectionResults, Text: sentenceBlock(30)}}

	chunks := NewChunker(cfg).Chunk(sections, testMeta())
	require.NotEmpty(t, chunks)
	assert.Greater(t, len(chunks), 1)

	for _, c := range chunks {
		assert.GreaterOrEqual(t, c.TokenEstimate, cfg.MinChunkSize, "chunk %s", c.Id)
	}
}

func TestChunkOverlapSeedsNextChunk(t *testing.T) {
	sections := []core.Section{{Name: core.SectionResults, Text: sentenceBlock(12)}}

	chunks := NewChunker(smallConfig()).Chunk(sections, testMeta())
	require.Greater(t, len(chunks), 1)

	for i := 1; i < len(chunks); i++ {
		prev := splitSentences(stripProvenance(chunks[i-1].Text))
		require.NotEmpty(t, prev)
		last := prev[len(prev)-1]
		assert.True(t, strings.HasPrefix(stripProvenance(chunks[i].Text), last),
			"chunk %d should start with the previous chunk's last sentence", i)
	}
}

func stripProvenance(text string) string {
	if i := strings.Index(text, "\n"); i >= 0 {
		return text[i+1:]
	}
	return text
}

func TestChunkTaxonomyKeepsPassagesWhole(t *testing.T) {
	cfg := smallConfig()

	plain := sentenceBlock(20)
	taxonomy := strings.ReplaceAll(plain, "carries some filler", "can be divided into")

	plainChunks := NewChunker(cfg).Chunk(
		[]core.Section{{Name: core.SectionDiscussion, Text: plain}}, testMeta())
	taxChunks := NewChunker(cfg).Chunk(
		[]core.Section{{Name: core.SectionDiscussion, Text: taxonomy}}, testMeta())

	require.NotEmpty(t, plainChunks)
	require.NotEmpty(t, taxChunks)
	assert.Less(t, len(taxChunks), len(plainChunks),
		"taxonomy passages should produce fewer, larger chunks")
	for _, c := range taxChunks {
		assert.True(t, c.HasTaxonomyPattern)
	}
}

func TestChunkDeterministicIDs(t *testing.T) {
	sections := []core.Section{{Name: core.SectionResults, Text: sentenceBlock(30)}}
	chunker := NewChunker(smallConfig())

	first := chunker.Chunk(sections, testMeta())
	second := chunker.Chunk(sections, testMeta())
	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i].Id, second[i].Id)
		assert.Equal(t, first[i].Text, second[i].Text)
	}
}

func TestChunkIndexGlobalAcrossSections(t *testing.T) {
	text := strings.Repeat("Short filler sentence for this test here. ", 2)
	sections := []core.Section{
		{Name: core.SectionIntroduction, Text: strings.TrimSpace(text)},
		{Name: core.SectionResults, Text: strings.TrimSpace(text)},
	}

	chunks := NewChunker(smallConfig()).Chunk(sections, testMeta())
	require.Len(t, chunks, 2)

	// Section-local ids, document-global indexes.
	assert.Equal(t, "DOC1_Introduction_ch0", chunks[0].Id)
	assert.Equal(t, "DOC1_Results_ch0", chunks[1].Id)
	assert.Equal(t, 0, chunks[0].ChunkIndex)
	assert.Equal(t, 1, chunks[1].ChunkIndex)
}

func TestHasStructuredTable(t *testing.T) {
	assert.True(t, hasStructuredTable("| col a | col b |"))
	assert.False(t, hasStructuredTable("no table here"))
	assert.False(t, hasStructuredTable("just one | pipe"))
}

func TestOverlapSeed(t *testing.T) {
	c := NewChunker(smallConfig())

	t.Run("sentence level", func(t *testing.T) {
		seed := c.overlapSeed("First sentence here. Second sentence here.")
		assert.Equal(t, "Second sentence here.", seed)
	})

	t.Run("unterminated tail falls back to last complete sentence", func(t *testing.T) {
		seed := c.overlapSeed("First sentence here. Second sentence here. trailing fragment without a terminator")
		assert.Equal(t, "Second sentence here.", seed)
	})

	t.Run("character fallback", func(t *testing.T) {
		long := strings.Repeat("x", 100)
		seed := c.overlapSeed(long)
		assert.Equal(t, strings.Repeat("x", 20), seed)
	})
}

func TestChunkCarriesResearchQuestion(t *testing.T) {
	meta := testMeta()
	meta.ResearchQuestion = "How is trust calibrated?"
	text := strings.Repeat("This sentence pads the section to a usable size for the test. ", 6)

	chunks := NewChunker(smallConfig()).Chunk(
		[]core.Section{{Name: core.SectionAbstract, Text: strings.TrimSpace(text)}}, meta)
	require.NotEmpty(t, chunks)
	assert.Equal(t, "How is trust calibrated?", chunks[0].Metadata["research_question"])
}
