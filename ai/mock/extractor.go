package mock

import (
	"context"

	"github.com/poiesic/paperit/ai"
)

// MockExtractor is a test double for ai.IntelligenceExtractor.
// It allows custom behavior injection via function fields.
type MockExtractor struct {
	// ExtractFunc is called by ExtractIntelligence if set.
	// If nil, returns FixedIntelligence.
	ExtractFunc func(ctx context.Context, sectionName, text string) (*ai.Intelligence, error)

	// FixedIntelligence is the default result when ExtractFunc is nil.
	// Nil mimics a section too short to analyze.
	FixedIntelligence *ai.Intelligence

	// LastSection records the most recent section name passed in.
	LastSection string

	callCount int
}

// NewMockExtractor creates a mock extractor returning a canned assessment.
// Note: Returns concrete type to allow test assertions.
func NewMockExtractor() *MockExtractor {
	return &MockExtractor{
		FixedIntelligence: &ai.Intelligence{
			Entities:       []ai.Entity{{Name: "MockNet", Type: "Platform", Relation: "system under study"}},
			TRL:            ai.TRLAssessment{Level: 4, Justification: "validated in a lab setting"},
			Contradictions: []string{"latency under load"},
		},
	}
}

// ExtractIntelligence returns the injected or fixed result.
func (m *MockExtractor) ExtractIntelligence(ctx context.Context, sectionName, text string) (*ai.Intelligence, error) {
	m.callCount++
	m.LastSection = sectionName

	if m.ExtractFunc != nil {
		return m.ExtractFunc(ctx, sectionName, text)
	}
	return m.FixedIntelligence, nil
}

// CallCount returns the number of times ExtractIntelligence was called.
func (m *MockExtractor) CallCount() int {
	return m.callCount
}
