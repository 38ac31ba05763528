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
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"

	"github.com/poiesic/paperit/core"
)

// HeaderKeyword maps a normalized header string to its canonical section
// name. Order matters for substring matching: more specific entries come
// first so "materials and methods" is not swallowed by "methods".
type HeaderKeyword struct {
	Keyword   string
	Canonical string
}

// HeaderPolicy controls how section headers are recognized. The zero value
// is not usable; call DefaultHeaderPolicy.
type HeaderPolicy struct {
	// Keywords is the ordered normalized-header to canonical-name table.
	Keywords []HeaderKeyword

	// MaxHeaderLen is the maximum normalized length a header line may have.
	MaxHeaderLen int

	// MaxFlexibleWords caps the word count for substring (non-exact)
	// header matches.
	MaxFlexibleWords int
}

// DefaultHeaderPolicy returns the standard academic-paper header policy.
func DefaultHeaderPolicy() HeaderPolicy {
	return HeaderPolicy{
		Keywords: []HeaderKeyword{
			{"abstract", core.SectionAbstract},
			{"introduction", core.SectionIntroduction},
			{"background", core.SectionBackground},
			{"literature review", core.SectionLiteratureReview},
			{"materials and methods", core.SectionMethodology},
			{"methodology", core.SectionMethodology},
			{"methods", core.SectionMethodology},
			{"results", core.SectionResults},
			{"findings", core.SectionResults},
			{"discussion", core.SectionDiscussion},
			{"conclusion", core.SectionConclusion},
			{"conclusions", core.SectionConclusion},
			{"future work", core.SectionFutureWork},
			{"recommendations", core.SectionRecommendations},
			{"references", core.SectionReferences},
			{"bibliography", core.SectionReferences},
		},
		MaxHeaderLen:     100,
		MaxFlexibleWords: 8,
	}
}

var (
	// enumerationRe strips leading header numbering: "1.", "1.1", "IV-A)".
	// A separator after the numeral is required so the leading letter of
	// "Introduction" or "Discussion" is not mistaken for a roman numeral.
	enumerationRe = regexp.MustCompile(`(?i)^(\d+(\.\d+)*|[ivxlcdm]+)([.\-)]+\s*|\s+)`)

	// citationRe and parenYearRe guard against bibliography entries and
	// inline citations being mistaken for headers.
	citationRe  = regexp.MustCompile(`\[\d+\]`)
	parenYearRe = regexp.MustCompile(`\(\d{4}\)`)

	// Noise-line filters for common PDF boilerplate.
	pageNumberRe = regexp.MustCompile(`^\s*\d+\s*$`)
	noiseLineRe  = regexp.MustCompile(`(?i)^\s*(©|copyright\b|academic editor:|all rights reserved)`)

	hyphenBreakRe    = regexp.MustCompile(`(\w)-\n\s*(\w)`)
	paragraphBreakRe = regexp.MustCompile(`\n\s*\n`)
	multiSpaceRe     = regexp.MustCompile(`[ \t]+`)
)

// Segmenter splits raw extracted paper text into canonical sections.
type Segmenter struct {
	policy HeaderPolicy
}

// NewSegmenter creates a segmenter with the given header policy.
func NewSegmenter(policy HeaderPolicy) *Segmenter {
	return &Segmenter{policy: policy}
}

// NewDefaultSegmenter creates a segmenter with DefaultHeaderPolicy.
func NewDefaultSegmenter() *Segmenter {
	return NewSegmenter(DefaultHeaderPolicy())
}

// Segment splits text into sections in document order. Duplicate canonical
// headers merge into the first-seen section. Segment never fails: text with
// no recognizable headers yields a single "Unknown" section.
func (s *Segmenter) Segment(text string) []core.Section {
	var (
		sections     []core.Section
		indexByName  = make(map[string]int)
		current      = core.SectionUnknown
		buffer       []string
		inReferences bool
	)

	flush := func() {
		cleaned := cleanSectionText(strings.Join(buffer, "\n"))
		buffer = buffer[:0]
		if cleaned == "" {
			return
		}
		if i, ok := indexByName[current]; ok {
			sections[i].Text += "\n\n" + cleaned
			return
		}
		indexByName[current] = len(sections)
		sections = append(sections, core.Section{Name: current, Text: cleaned})
	}

	for _, line := range strings.Split(text, "\n") {
		if inReferences {
			buffer = append(buffer, line)
			continue
		}
		if isNoiseLine(line) {
			continue
		}

		header := s.detectHeader(line)
		if header == "" {
			buffer = append(buffer, line)
			continue
		}

		flush()
		current = header
		if header == core.SectionReferences {
			inReferences = true
		}
	}
	flush()

	return sections
}

// detectHeader returns the canonical section name for a header line, or ""
// when the line is not a header.
func (s *Segmenter) detectHeader(line string) string {
	if citationRe.MatchString(line) || parenYearRe.MatchString(line) {
		return ""
	}

	cleaned := normalizeHeader(line)
	if cleaned == "" || len(cleaned) > s.policy.MaxHeaderLen {
		return ""
	}

	for _, kw := range s.policy.Keywords {
		if cleaned == kw.Keyword {
			return kw.Canonical
		}
	}

	if len(strings.Fields(cleaned)) <= s.policy.MaxFlexibleWords {
		for _, kw := range s.policy.Keywords {
			if strings.Contains(cleaned, kw.Keyword) {
				return kw.Canonical
			}
		}
	}

	return ""
}

// normalizeHeader prepares a line for header matching: NFKC normalization,
// leading enumeration removed, trailing colon stripped, lowercased.
func normalizeHeader(line string) string {
	line = norm.NFKC.String(line)
	line = strings.ReplaceAll(line, " ", " ")
	line = strings.TrimSpace(line)
	line = enumerationRe.ReplaceAllString(line, "")
	line = strings.TrimSpace(strings.TrimRight(line, ":"))
	return strings.ToLower(line)
}

func isNoiseLine(line string) bool {
	return pageNumberRe.MatchString(line) || noiseLineRe.MatchString(line)
}

// cleanSectionText rejoins hyphenated line breaks, collapses single
// newlines into spaces while preserving paragraph breaks, and strips
// non-printable characters.
func cleanSectionText(text string) string {
	text = hyphenBreakRe.ReplaceAllString(text, "$1$2")

	// Single newlines become spaces; paragraph breaks survive via a
	// placeholder that cannot appear in the text after control stripping.
	const paraMark = "\x00"
	text = paragraphBreakRe.ReplaceAllString(text, paraMark)
	text = strings.ReplaceAll(text, "\n", " ")

	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if r == '\x00' {
			b.WriteString("\n\n")
			continue
		}
		if unicode.IsControl(r) {
			continue
		}
		b.WriteRune(r)
	}
	text = multiSpaceRe.ReplaceAllString(b.String(), " ")

	// Trim stray spaces around paragraph breaks introduced by collapsing.
	lines := strings.Split(text, "\n")
	for i := range lines {
		lines[i] = strings.TrimSpace(lines[i])
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
