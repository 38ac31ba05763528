package mock

import "context"

// MockGenerator is a test double for ai.Generator.
// It allows custom behavior injection via function fields.
type MockGenerator struct {
	// GenerateFunc is called by Generate if set.
	// If nil, returns FixedAnswer.
	GenerateFunc func(ctx context.Context, prompt string) (string, error)

	// FixedAnswer is the default response when GenerateFunc is nil.
	FixedAnswer string

	// LastPrompt records the most recent prompt passed to Generate.
	LastPrompt string

	callCount int
}

// NewMockGenerator creates a mock generator returning a fixed answer.
// Note: Returns concrete type to allow test assertions.
func NewMockGenerator() *MockGenerator {
	return &MockGenerator{FixedAnswer: "mock answer"}
}

// Generate returns the injected or fixed completion.
func (m *MockGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	m.callCount++
	m.LastPrompt = prompt

	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, prompt)
	}
	return m.FixedAnswer, nil
}

// CallCount returns the number of times Generate was called.
func (m *MockGenerator) CallCount() int {
	return m.callCount
}

// Reset clears the call count and injected behavior.
func (m *MockGenerator) Reset() {
	m.callCount = 0
	m.LastPrompt = ""
	m.GenerateFunc = nil
	m.FixedAnswer = "mock answer"
}
