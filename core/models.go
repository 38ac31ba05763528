package core

//go:generate go run ../cmd/musgen

import (
	"encoding/binary"
	"fmt"

	"github.com/go-crypt/x/blake2b"
)

// ID is a compact storage identifier for domain entities.
// It is derived from content so identical content produces identical IDs.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// Canonical section names produced by the segmenter. Any line that does not
// resolve to one of these accumulates under SectionUnknown.
const (
	SectionAbstract         = "Abstract"
	SectionIntroduction     = "Introduction"
	SectionBackground       = "Background"
	SectionLiteratureReview = "Literature Review"
	SectionMethodology      = "Methodology"
	SectionResults          = "Results"
	SectionDiscussion       = "Discussion"
	SectionConclusion       = "Conclusion"
	SectionFutureWork       = "Future Work"
	SectionRecommendations  = "Recommendations"
	SectionReferences       = "References"
	SectionUnknown          = "Unknown"
)

// Section is a named structural region of an academic paper, produced once per
// document by the segmenter and consumed by the chunker. Never persisted.
type Section struct {
	Name string
	Text string
}

// DocumentMeta holds the bibliographic metadata of one source document,
// normalized at the boundary: author lists joined to a comma-separated string,
// missing year zero, missing string fields empty.
type DocumentMeta struct {
	DocID            string
	Title            string
	Authors          string
	Year             int
	Journal          string
	DOI              string
	Collection       string
	ResearchQuestion string
}

// Chunk is the unit of retrieval: a bounded span of section text enriched with
// the document's bibliographic metadata. Chunks are immutable once created;
// re-ingesting the same document yields chunks with the same IDs, so upserts
// into the vector store are idempotent.
type Chunk struct {
	Id                 string
	DocID              string
	Title              string
	Authors            string
	Year               int
	Journal            string
	DOI                string
	Collection         string
	Section            string
	ChunkIndex         int // document-global emission order
	TokenEstimate      int
	HasTaxonomyPattern bool
	HasStructuredTable bool
	Text               string
	Vector             []float32         // embedding, populated before storage
	Metadata           map[string]string // optional extra provenance (e.g. tags)
}

// ChunkID builds the deterministic chunk identifier from the document ID, the
// section name and the chunk's section-local index.
func ChunkID(docID, section string, localIndex int) string {
	return fmt.Sprintf("%s_%s_ch%d", docID, section, localIndex)
}

// Key returns the compact storage key for the chunk.
func (c *Chunk) Key() ID {
	return IDFromContent(c.Id)
}

// EstimateTokens approximates the token count of text as len/4, minimum 1.
// This is a deliberate cheap proxy, not a real tokenizer; chunk boundaries
// depend on it, so it must stay exactly this formula for reproducibility.
func EstimateTokens(text string) int {
	n := len(text) / 4
	if n < 1 {
		return 1
	}
	return n
}
