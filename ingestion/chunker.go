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


package ingestion

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/poiesic/paperit/core"
)

// ChunkerConfig holds the tunables of the adaptive chunker. Sizes are in
// token-estimate units (roughly characters divided by four).
type ChunkerConfig struct {
	// DefaultChunkSize applies to sections without a SectionSizes entry.
	DefaultChunkSize int

	// Overlap controls the character fallback of the overlap seed:
	// Overlap×4 characters when no complete sentence is available.
	Overlap int

	// MinChunkSize is the smallest buffer worth emitting. Under-sized
	// buffers are dropped, not padded.
	MinChunkSize int

	// SectionSizes maps canonical section names to their target sizes.
	SectionSizes map[string]int

	// TaxonomyTriggers are phrases whose presence raises the chunk-size
	// limit so classification passages stay whole.
	TaxonomyTriggers []string
}

// taxonomyLimit is the raised size ceiling applied while a taxonomy trigger
// is active.
const taxonomyLimit = 1000

// DefaultChunkerConfig returns the standard academic chunking parameters.
func DefaultChunkerConfig() ChunkerConfig {
	return ChunkerConfig{
		DefaultChunkSize: 750,
		Overlap:          60,
		MinChunkSize:     300,
		SectionSizes: map[string]int{
			core.SectionAbstract:         350,
			core.SectionIntroduction:     600,
			core.SectionBackground:       600,
			core.SectionLiteratureReview: 600,
			core.SectionMethodology:      550,
			core.SectionResults:          500,
			core.SectionDiscussion:       550,
			core.SectionConclusion:       450,
			core.SectionFutureWork:       450,
			core.SectionRecommendations:  450,
		},
		TaxonomyTriggers: []string{
			"classify",
			"classified",
			"classification",
			"categorized",
			"taxonomy",
			"types of",
			"levels of",
			"dimensions of",
			"grouped into",
			"divided into",
			"framework consists",
			"framework includes",
			"can be divided into",
			"can be classified into",
		},
	}
}

var paragraphSplitRe = regexp.MustCompile(`\n\s*\n`)

// Chunker splits section text into bounded, overlap-seeded chunks carrying
// full document metadata.
type Chunker struct {
	cfg ChunkerConfig
}

// NewChunker creates a chunker with the given configuration.
func NewChunker(cfg ChunkerConfig) *Chunker {
	return &Chunker{cfg: cfg}
}

// NewDefaultChunker creates a chunker with DefaultChunkerConfig.
func NewDefaultChunker() *Chunker {
	return NewChunker(DefaultChunkerConfig())
}

// Chunk splits every section into chunks. Chunk ids are deterministic per
// document, section, and position, so re-chunking the same input yields the
// same ids. References sections are skipped entirely.
func (c *Chunker) Chunk(sections []core.Section, meta core.DocumentMeta) []core.Chunk {
	var chunks []core.Chunk
	globalIndex := 0

	for _, section := range sections {
		if section.Name == core.SectionReferences || strings.TrimSpace(section.Text) == "" {
			continue
		}
		chunks = append(chunks, c.chunkSection(section, meta, &globalIndex)...)
	}
	return chunks
}

func (c *Chunker) chunkSection(section core.Section, meta core.DocumentMeta, globalIndex *int) []core.Chunk {
	base := c.sectionTarget(section.Name)
	dynamic := base

	var (
		chunks     []core.Chunk
		buffer     string
		bufTokens  int
		localIndex int
	)

	emit := func() {
		text := strings.TrimSpace(buffer)
		if text == "" {
			return
		}
		chunks = append(chunks, c.buildChunk(section.Name, text, meta, localIndex, *globalIndex))
		localIndex++
		*globalIndex++
	}

	for _, paragraph := range splitParagraphs(section.Text) {
		var units []string
		if core.EstimateTokens(paragraph) > dynamic {
			units = splitSentences(paragraph)
		} else {
			units = []string{paragraph}
		}

		for _, unit := range units {
			if c.hasTaxonomyTrigger(unit) {
				dynamic = max(base, taxonomyLimit)
			} else {
				dynamic = base
			}

			uTokens := core.EstimateTokens(unit)
			if bufTokens+uTokens <= dynamic {
				buffer += " " + unit
				bufTokens += uTokens
				continue
			}

			if bufTokens >= c.cfg.MinChunkSize {
				emit()
			}
			buffer = c.overlapSeed(buffer) + " " + unit
			bufTokens = core.EstimateTokens(buffer)
		}
	}

	if bufTokens >= c.cfg.MinChunkSize {
		emit()
	}
	return chunks
}

// overlapSeed returns the text carried over into the next buffer: the last
// complete sentence of the closed buffer, or its trailing Overlap×4
// characters when no sentence in the buffer is terminated.
func (c *Chunker) overlapSeed(buffer string) string {
	sentences := splitSentences(buffer)
	for i := len(sentences) - 1; i >= 0; i-- {
		if endsSentence(sentences[i]) {
			return sentences[i]
		}
	}
	overlapChars := c.cfg.Overlap * 4
	if overlapChars >= len(buffer) {
		return buffer
	}
	return buffer[len(buffer)-overlapChars:]
}

func (c *Chunker) buildChunk(sectionName, text string, meta core.DocumentMeta, localIndex, globalIndex int) core.Chunk {
	enriched := fmt.Sprintf("[Source: %s | Section: %s]\n%s", meta.Title, sectionName, text)

	var extra map[string]string
	if meta.ResearchQuestion != "" {
		extra = map[string]string{"research_question": meta.ResearchQuestion}
	}

	return core.Chunk{
		Id:                 core.ChunkID(meta.DocID, sectionName, localIndex),
		DocID:              meta.DocID,
		Title:              meta.Title,
		Authors:            meta.Authors,
		Year:               meta.Year,
		Journal:            meta.Journal,
		DOI:                meta.DOI,
		Collection:         meta.Collection,
		Section:            sectionName,
		ChunkIndex:         globalIndex,
		TokenEstimate:      core.EstimateTokens(enriched),
		HasTaxonomyPattern: c.hasTaxonomyTrigger(enriched),
		HasStructuredTable: hasStructuredTable(enriched),
		Text:               enriched,
		Metadata:           extra,
	}
}

func (c *Chunker) sectionTarget(name string) int {
	if size, ok := c.cfg.SectionSizes[name]; ok {
		return size
	}
	return c.cfg.DefaultChunkSize
}

func (c *Chunker) hasTaxonomyTrigger(text string) bool {
	lower := strings.ToLower(text)
	for _, trigger := range c.cfg.TaxonomyTriggers {
		if strings.Contains(lower, trigger) {
			return true
		}
	}
	return false
}

// hasStructuredTable detects pipe-delimited table remnants in extracted text.
func hasStructuredTable(text string) bool {
	return strings.Count(text, "|") >= 2
}

func splitParagraphs(text string) []string {
	var paragraphs []string
	for _, p := range paragraphSplitRe.Split(text, -1) {
		if p = strings.TrimSpace(p); p != "" {
			paragraphs = append(paragraphs, p)
		}
	}
	return paragraphs
}

// sentence terminators that belong to abbreviations, not sentence ends
var abbreviations = []string{"e.g.", "i.e.", "et al."}

// splitSentences splits on ".", "!", or "?" followed by whitespace, keeping
// common academic abbreviations intact.
func splitSentences(text string) []string {
	var (
		sentences []string
		start     int
	)

	flush := func(end int) {
		if s := strings.TrimSpace(text[start:end]); s != "" {
			sentences = append(sentences, s)
		}
		start = end
	}

	for i := 0; i < len(text)-1; i++ {
		ch := text[i]
		if (ch != '.' && ch != '!' && ch != '?') || !isSpaceByte(text[i+1]) {
			continue
		}
		if ch == '.' && endsWithAbbreviation(text[:i+1]) {
			continue
		}
		flush(i + 1)
	}
	flush(len(text))
	return sentences
}

func endsWithAbbreviation(prefix string) bool {
	lower := strings.ToLower(prefix)
	for _, abbr := range abbreviations {
		if strings.HasSuffix(lower, abbr) {
			return true
		}
	}
	return false
}

func endsSentence(s string) bool {
	if s == "" {
		return false
	}
	switch s[len(s)-1] {
	case '.', '!', '?':
		return true
	}
	return false
}

func isSpaceByte(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}
