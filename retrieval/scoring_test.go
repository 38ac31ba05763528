package retrieval

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/poiesic/paperit/core"
)

func TestSemanticScore(t *testing.T) {
	assert.InDelta(t, 1.0, SemanticScore(0.0), 1e-9)
	assert.InDelta(t, 0.5, SemanticScore(1.0), 1e-9)
	assert.Greater(t, SemanticScore(0.2), SemanticScore(0.8))
	assert.Greater(t, SemanticScore(2.0), 0.0)
}

func TestRecencyScore(t *testing.T) {
	cfg := DefaultScoringConfig()
	cfg.CurrentYear = 2026

	cases := []struct {
		year int
		want float64
	}{
		{2026, 1.0},
		{2025, 1.0},
		{2024, 0.85},
		{2023, 0.85},
		{2021, 0.65},
		{2018, 0.45},
		{2010, 0.30},
		{0, 0.5},
	}
	for _, tc := range cases {
		assert.InDelta(t, tc.want, cfg.RecencyScore(tc.year), 1e-9, "year %d", tc.year)
	}
}

func TestRecencyScoreMonotone(t *testing.T) {
	cfg := DefaultScoringConfig()
	cfg.CurrentYear = 2026

	prev := cfg.RecencyScore(2026)
	for year := 2025; year >= 2000; year-- {
		cur := cfg.RecencyScore(year)
		assert.LessOrEqual(t, cur, prev, "recency must not increase with age (year %d)", year)
		prev = cur
	}
}

func TestStructuralScore(t *testing.T) {
	cfg := DefaultScoringConfig()

	t.Run("base priorities", func(t *testing.T) {
		assert.InDelta(t, 1.0, cfg.StructuralScore(core.SectionMethodology, false, false), 1e-9)
		assert.InDelta(t, 0.9, cfg.StructuralScore(core.SectionResults, false, false), 1e-9)
		assert.InDelta(t, 0.7, cfg.StructuralScore(core.SectionIntroduction, false, false), 1e-9)
		assert.InDelta(t, 0.6, cfg.StructuralScore("Acknowledgements", false, false), 1e-9)
	})

	t.Run("bonuses", func(t *testing.T) {
		base := cfg.StructuralScore(core.SectionResults, false, false)
		assert.InDelta(t, base+0.15, cfg.StructuralScore(core.SectionResults, true, false), 1e-9)
		assert.InDelta(t, base+0.10, cfg.StructuralScore(core.SectionResults, false, true), 1e-9)
		assert.InDelta(t, base+0.25, cfg.StructuralScore(core.SectionResults, true, true), 1e-9)
	})

	t.Run("cap", func(t *testing.T) {
		// Methodology 1.0 + both bonuses would be 1.25; force the cap lower.
		capped := cfg
		capped.StructuralCap = 1.1
		assert.InDelta(t, 1.1, capped.StructuralScore(core.SectionMethodology, true, true), 1e-9)
	})
}

func TestDiversityScores(t *testing.T) {
	scores := DiversityScores([]string{"A", "A", "A", "B"})

	assert.InDelta(t, 1.0, scores[0], 1e-9)
	assert.InDelta(t, 0.7, scores[1], 1e-9)
	assert.InDelta(t, 0.4, scores[2], 1e-9)
	assert.InDelta(t, scores[0], scores[3], 1e-9, "first occurrence of B equals first of A")

	assert.Greater(t, scores[0], scores[1])
	assert.GreaterOrEqual(t, scores[1], scores[2])
}

func TestCombineMonotonicInSemantic(t *testing.T) {
	cfg := DefaultScoringConfig()

	// Identical structural/recency/diversity: lower distance must win.
	closer := cfg.Combine(SemanticScore(0.1), 0.9, 0.85, 1.0)
	farther := cfg.Combine(SemanticScore(0.4), 0.9, 0.85, 1.0)
	assert.Greater(t, closer, farther)
}
