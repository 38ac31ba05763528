package openai

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/paperit/ai"
)

func TestRepairJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			"valid passes through",
			`{"entities": [], "trl_analysis": {"level": 3}}`,
			`{"entities": [], "trl_analysis": {"level": 3}}`,
		},
		{
			"missing opening quote on key",
			`{entities": [], trl_analysis": {level": 3}}`,
			`{"entities": [], "trl_analysis": {"level": 3}}`,
		},
		{
			"fully unquoted key",
			`{entities: [], trl_analysis: {level: 3}}`,
			`{"entities": [], "trl_analysis": {"level": 3}}`,
		},
		{
			"quoted string values untouched",
			`{"justification": "tested at TRL: 4 scale"}`,
			`{"justification": "tested at TRL: 4 scale"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := repairJSON(tt.in)
			assert.Equal(t, tt.want, got)

			var out map[string]any
			assert.NoError(t, json.Unmarshal([]byte(got), &out), "repaired JSON must parse")
		})
	}
}

func TestSectionTaskFocus(t *testing.T) {
	assert.Contains(t, sectionTaskFocus("Methodology"), "TRL REFERENCE SCALE")
	assert.Contains(t, sectionTaskFocus("Introduction"), "PROBLEM STATEMENT")
	assert.Contains(t, sectionTaskFocus("Results"), "TECHNICAL FINDINGS")
	assert.Contains(t, sectionTaskFocus("Discussion"), "TRADE-OFFS")
	assert.Contains(t, sectionTaskFocus("Conclusion"), "FUTURE WORK")
	assert.Contains(t, sectionTaskFocus("Abstract"), "General strategic synthesis")
}

func TestBuildExtractionPrompt(t *testing.T) {
	prompt := buildExtractionPrompt("Results", "The system achieved 40ms latency.")
	assert.Contains(t, prompt, "SECTION CONTEXT: Results")
	assert.Contains(t, prompt, "The system achieved 40ms latency.")
	assert.Contains(t, prompt, `"trl_analysis"`)
	assert.Contains(t, prompt, "Return ONLY the JSON object.")
}

func TestExtractIntelligenceSkipsShortSections(t *testing.T) {
	extractor, err := NewExtractor(ai.DefaultConfig())
	require.NoError(t, err)

	// Under the minimum length no model call is made, so this must succeed
	// without a reachable service.
	result, err := extractor.ExtractIntelligence(context.Background(), "Results", strings.Repeat("x", minExtractableChars-1))
	require.NoError(t, err)
	assert.Nil(t, result)
}
