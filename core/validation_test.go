package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validChunk() *Chunk {
	return &Chunk{
		Id:            ChunkID("DOC1", SectionMethodology, 0),
		DocID:         "DOC1",
		Title:         "A Study of X",
		Year:          2024,
		Section:       SectionMethodology,
		ChunkIndex:    0,
		TokenEstimate: 320,
		Text:          "[Source: A Study of X | Section: Methodology] We measured...",
	}
}

func TestValidateChunk(t *testing.T) {
	t.Run("valid chunk", func(t *testing.T) {
		require.NoError(t, ValidateChunk(validChunk()))
	})

	t.Run("nil chunk", func(t *testing.T) {
		err := ValidateChunk(nil)
		assert.ErrorIs(t, err, ErrInvalidChunk)
	})

	t.Run("missing vector is allowed", func(t *testing.T) {
		c := validChunk()
		c.Vector = nil
		assert.NoError(t, ValidateChunk(c))
	})

	tests := []struct {
		name   string
		mutate func(*Chunk)
		want   error
	}{
		{"empty id", func(c *Chunk) { c.Id = "" }, ErrEmptyChunkID},
		{"empty doc id", func(c *Chunk) { c.DocID = "" }, ErrEmptyDocID},
		{"empty section", func(c *Chunk) { c.Section = "" }, ErrEmptySection},
		{"empty text", func(c *Chunk) { c.Text = "" }, ErrEmptyText},
		{"zero token estimate", func(c *Chunk) { c.TokenEstimate = 0 }, ErrInvalidTokenEstimate},
		{"negative token estimate", func(c *Chunk) { c.TokenEstimate = -5 }, ErrInvalidTokenEstimate},
		{"implausible year", func(c *Chunk) { c.Year = 123 }, ErrInvalidYear},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validChunk()
			tt.mutate(c)
			err := ValidateChunk(c)
			assert.ErrorIs(t, err, ErrInvalidChunk)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestValidateDocumentMeta(t *testing.T) {
	t.Run("valid metadata", func(t *testing.T) {
		meta := &DocumentMeta{DocID: "DOC1", Title: "A Study of X", Year: 2023}
		assert.NoError(t, ValidateDocumentMeta(meta))
	})

	t.Run("unknown year is valid", func(t *testing.T) {
		meta := &DocumentMeta{DocID: "DOC1"}
		assert.NoError(t, ValidateDocumentMeta(meta))
	})

	t.Run("nil metadata", func(t *testing.T) {
		err := ValidateDocumentMeta(nil)
		assert.ErrorIs(t, err, ErrInvalidDocumentMeta)
	})

	t.Run("missing doc id", func(t *testing.T) {
		err := ValidateDocumentMeta(&DocumentMeta{Year: 2023})
		assert.ErrorIs(t, err, ErrEmptyDocID)
	})

	t.Run("implausible year", func(t *testing.T) {
		err := ValidateDocumentMeta(&DocumentMeta{DocID: "DOC1", Year: 99})
		assert.ErrorIs(t, err, ErrInvalidYear)
	})
}

func TestIsValidYear(t *testing.T) {
	assert.True(t, IsValidYear(0))
	assert.True(t, IsValidYear(1997))
	assert.True(t, IsValidYear(2026))
	assert.False(t, IsValidYear(-1))
	assert.False(t, IsValidYear(500))
	assert.False(t, IsValidYear(3000))
}
