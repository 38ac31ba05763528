package core

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIDFromContent(t *testing.T) {
	t.Run("deterministic", func(t *testing.T) {
		a := IDFromContent("ABCD1234_Methodology_ch0")
		b := IDFromContent("ABCD1234_Methodology_ch0")
		assert.Equal(t, a, b)
	})

	t.Run("distinct content distinct ids", func(t *testing.T) {
		a := IDFromContent("ABCD1234_Methodology_ch0")
		b := IDFromContent("ABCD1234_Methodology_ch1")
		assert.NotEqual(t, a, b)
	})

	t.Run("empty content is valid", func(t *testing.T) {
		a := IDFromContent("")
		b := IDFromContent("")
		assert.Equal(t, a, b)
	})
}

func TestChunkID(t *testing.T) {
	assert.Equal(t, "DOC1_Introduction_ch0", ChunkID("DOC1", "Introduction", 0))
	assert.Equal(t, "DOC1_Literature Review_ch12", ChunkID("DOC1", "Literature Review", 12))
}

func TestChunkKey(t *testing.T) {
	c1 := &Chunk{Id: ChunkID("DOC1", SectionResults, 3)}
	c2 := &Chunk{Id: ChunkID("DOC1", SectionResults, 3), Text: "different text, same id"}
	assert.Equal(t, c1.Key(), c2.Key(), "key depends only on the chunk id")
}

func TestEstimateTokens(t *testing.T) {
	tests := []struct {
		name string
		text string
		want int
	}{
		{"empty", "", 1},
		{"below one token", "abc", 1},
		{"exactly one token", "abcd", 1},
		{"four hundred chars", strings.Repeat("a", 400), 100},
		{"rounds down", strings.Repeat("a", 403), 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EstimateTokens(tt.text))
		})
	}
}
