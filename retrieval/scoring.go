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


package retrieval

import (
	"time"

	"github.com/poiesic/paperit/core"
)

// Weights blends the four sub-scores into a final ranking score. Weights
// are fixed at retriever construction.
type Weights struct {
	Semantic   float64
	Structural float64
	Recency    float64
	Diversity  float64
}

// DefaultWeights returns the standard blend, dominated by semantic
// similarity.
func DefaultWeights() Weights {
	return Weights{
		Semantic:   0.50,
		Structural: 0.20,
		Recency:    0.15,
		Diversity:  0.15,
	}
}

// ScoringConfig holds every tunable of the ranking function.
type ScoringConfig struct {
	Weights Weights

	// StructuralPriorities maps section names to their base importance.
	// Sections absent from the map use DefaultPriority.
	StructuralPriorities map[string]float64
	DefaultPriority      float64

	// TaxonomyBonus and TableBonus are added to the structural score when
	// the chunk carries the corresponding flag; the sum is capped at
	// StructuralCap before weighting.
	TaxonomyBonus float64
	TableBonus    float64
	StructuralCap float64

	// CurrentYear anchors recency scoring. Zero means the wall-clock year.
	CurrentYear int
}

// DefaultScoringConfig returns the canonical ranking parameters.
func DefaultScoringConfig() ScoringConfig {
	return ScoringConfig{
		Weights: DefaultWeights(),
		StructuralPriorities: map[string]float64{
			core.SectionMethodology:      1.0,
			core.SectionResults:          0.9,
			core.SectionAbstract:         0.85,
			core.SectionDiscussion:       0.85,
			core.SectionLiteratureReview: 0.8,
			core.SectionBackground:       0.75,
			core.SectionConclusion:       0.75,
			core.SectionIntroduction:     0.7,
			core.SectionFutureWork:       0.7,
			core.SectionRecommendations:  0.7,
			core.SectionReferences:       0.5,
		},
		DefaultPriority: 0.6,
		TaxonomyBonus:   0.15,
		TableBonus:      0.10,
		StructuralCap:   1.5,
	}
}

// SemanticScore maps a vector distance to (0,1]: distance 0 scores 1.0,
// distance 1 scores 0.5, monotonically decreasing beyond.
func SemanticScore(distance float64) float64 {
	return 1.0 / (1.0 + distance)
}

// RecencyScore maps a publication year to a step function of its age.
// Unknown years (zero) score a neutral 0.5.
func (c ScoringConfig) RecencyScore(year int) float64 {
	if year == 0 {
		return 0.5
	}

	currentYear := c.CurrentYear
	if currentYear == 0 {
		currentYear = time.Now().Year()
	}

	age := currentYear - year
	switch {
	case age <= 1:
		return 1.0
	case age <= 3:
		return 0.85
	case age <= 5:
		return 0.65
	case age <= 8:
		return 0.45
	default:
		return 0.30
	}
}

// StructuralScore looks up the section's base priority and folds in the
// taxonomy and table bonuses, capped at StructuralCap.
func (c ScoringConfig) StructuralScore(section string, hasTaxonomy, hasTable bool) float64 {
	score, ok := c.StructuralPriorities[section]
	if !ok {
		score = c.DefaultPriority
	}
	if hasTaxonomy {
		score += c.TaxonomyBonus
	}
	if hasTable {
		score += c.TableBonus
	}
	if score > c.StructuralCap {
		score = c.StructuralCap
	}
	return score
}

// DiversityScores penalizes repeated documents in a single left-to-right
// pass over the candidate list in retrieval order: a document's first chunk
// scores 1.0, its second 0.7, any further ones 0.4.
func DiversityScores(docIDs []string) []float64 {
	seen := make(map[string]int, len(docIDs))
	scores := make([]float64, len(docIDs))

	for i, id := range docIDs {
		seen[id]++
		switch seen[id] {
		case 1:
			scores[i] = 1.0
		case 2:
			scores[i] = 0.7
		default:
			scores[i] = 0.4
		}
	}
	return scores
}

// Combine blends the sub-scores under the configured weights. The
// structural input is assumed to already include bonuses and the cap.
func (c ScoringConfig) Combine(semantic, structural, recency, diversity float64) float64 {
	w := c.Weights
	return w.Semantic*semantic +
		w.Structural*structural +
		w.Recency*recency +
		w.Diversity*diversity
}
