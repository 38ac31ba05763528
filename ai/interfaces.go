package ai

import "context"

// Embedder generates vector embeddings from text for semantic similarity search.
// Implementations must be thread-safe for concurrent use.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	// The returned vector represents the semantic meaning of the text.
	// Returns an error if the embedding generation fails.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates vector embeddings for multiple text strings.
	// Implementations batch internally in bounded sub-batches and return
	// embeddings in the same order as the input texts.
	// Returns an error if any embedding generation fails.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)

	// CheckHealth verifies the embedding service is reachable and able to
	// produce embeddings. Returns nil when the service is available.
	CheckHealth(ctx context.Context) error
}

// Generator produces text completions for question answering over retrieved
// chunks. Implementations must be thread-safe for concurrent use.
type Generator interface {
	// Generate produces a completion for the given prompt.
	// Returns an error if the generation fails.
	Generate(ctx context.Context, prompt string) (string, error)
}

// IntelligenceExtractor mines structured intelligence from one section of a
// paper: named technologies, a technology-readiness assessment, and reported
// limitations. Implementations must be thread-safe for concurrent use.
type IntelligenceExtractor interface {
	// ExtractIntelligence analyzes a section's text. A nil result with a nil
	// error means the section was too short to analyze.
	ExtractIntelligence(ctx context.Context, sectionName, text string) (*Intelligence, error)
}

// Entity is a technology named in a section and its role in the paper.
type Entity struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Relation string `json:"relation"`
}

// TRLAssessment grades the maturity of the described work on the 1-9
// technology readiness scale. Level 0 means the text gave no evidence.
type TRLAssessment struct {
	Level         int    `json:"level"`
	Justification string `json:"justification"`
}

// Intelligence is the structured result of analyzing one section.
type Intelligence struct {
	Entities       []Entity      `json:"entities"`
	TRL            TRLAssessment `json:"trl_analysis"`
	Contradictions []string      `json:"contradictions"`
}

// AIProvider aggregates AI services for convenient initialization and lifecycle
// management. A provider creates and manages Embedder, Generator, and
// IntelligenceExtractor instances, ensuring they share configuration and
// resources appropriately.
type AIProvider interface {
	// Embedder returns the text embedding service.
	// The returned Embedder is safe for concurrent use.
	Embedder() Embedder

	// Generator returns the text generation service.
	// The returned Generator is safe for concurrent use.
	Generator() Generator

	// IntelligenceExtractor returns the section intelligence service.
	// The returned IntelligenceExtractor is safe for concurrent use.
	IntelligenceExtractor() IntelligenceExtractor

	// Close releases resources held by the provider and its services.
	// After Close is called, the provider and its services should not be used.
	Close() error
}
