package qa

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/poiesic/paperit/ai"
	"github.com/poiesic/paperit/retrieval"
	"github.com/poiesic/paperit/storage"
)

// InsufficientEvidence is the answer the engine returns, and instructs the
// model to return, when the indexed papers cannot support an answer.
const InsufficientEvidence = "Insufficient evidence in the indexed papers."

const (
	defaultTopK    = 10
	contextChunks  = 6
	blockSeparator = "\n\n---\n\n"
)

// Source identifies one retrieved chunk cited in an answer.
type Source struct {
	DocID   string
	Title   string
	Section string
	Year    int
	Score   float64
}

// Answer is the result of one question: the generated text plus the sources
// the context was built from.
type Answer struct {
	Question string
	Text     string
	Sources  []Source
}

// Engine answers questions over the indexed corpus: hybrid retrieval, cited
// context assembly, and strictly grounded generation.
type Engine struct {
	retriever *retrieval.Retriever
	generator ai.Generator
	topK      int
	logger    *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) error {
		if logger == nil {
			logger = slog.Default()
		}
		e.logger = logger.With("component", "qa")
		return nil
	}
}

// WithTopK sets how many candidates are retrieved per question, minimum 1.
func WithTopK(topK int) Option {
	return func(e *Engine) error {
		if topK < 1 {
			topK = 1
		}
		e.topK = topK
		return nil
	}
}

// NewEngine creates a QA engine over the given retriever and generator.
func NewEngine(retriever *retrieval.Retriever, generator ai.Generator, opts ...Option) (*Engine, error) {
	if retriever == nil {
		return nil, ErrRetrieverRequired
	}
	if generator == nil {
		return nil, ErrGeneratorRequired
	}

	e := &Engine{
		retriever: retriever,
		generator: generator,
		topK:      defaultTopK,
		logger:    slog.Default().With("component", "qa"),
	}
	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, err
		}
	}
	return e, nil
}

// Ask retrieves evidence for the question and generates a cited answer. An
// empty corpus or a filter matching nothing produces the insufficient
// evidence answer with no sources; it is not an error.
func (e *Engine) Ask(ctx context.Context, question string, filter *storage.Filter) (*Answer, error) {
	if strings.TrimSpace(question) == "" {
		return nil, ErrEmptyQuestion
	}

	candidates, err := e.retriever.Retrieve(ctx, question, e.topK, filter)
	if err != nil {
		return nil, fmt.Errorf("retrieve evidence: %w", err)
	}

	if len(candidates) == 0 {
		e.logger.Info("no evidence retrieved", "question", question)
		return &Answer{Question: question, Text: InsufficientEvidence}, nil
	}

	if len(candidates) > contextChunks {
		candidates = candidates[:contextChunks]
	}

	prompt := buildPrompt(question, buildContext(candidates))
	text, err := e.generator.Generate(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("generate answer: %w", err)
	}

	answer := &Answer{
		Question: question,
		Text:     strings.TrimSpace(text),
		Sources:  make([]Source, len(candidates)),
	}
	for i, c := range candidates {
		answer.Sources[i] = Source{
			DocID:   c.Chunk.DocID,
			Title:   c.Chunk.Title,
			Section: c.Chunk.Section,
			Year:    c.Chunk.Year,
			Score:   c.FinalScore,
		}
	}

	e.logger.Debug("answered question", "question", question, "sources", len(answer.Sources))
	return answer, nil
}

// buildContext assembles the evidence blocks the model is allowed to use.
func buildContext(candidates []retrieval.ScoredCandidate) string {
	blocks := make([]string, len(candidates))
	for i, c := range candidates {
		blocks[i] = strings.TrimSpace(fmt.Sprintf(
			"SOURCE: %s\nTITLE: %s\nSECTION: %s\nYEAR: %d\n\nCONTENT:\n%s",
			c.Chunk.DocID, c.Chunk.Title, c.Chunk.Section, c.Chunk.Year, c.Chunk.Text))
	}
	return strings.Join(blocks, blockSeparator)
}

func buildPrompt(question, context string) string {
	return fmt.Sprintf(`You are a strict academic research assistant.

You MUST follow these rules:

1. Use ONLY the provided context.
2. If the context does not contain enough evidence, respond:
   "%s"
3. Every claim MUST include a citation in this format:
   [doc_id - section]
4. Do NOT invent information.
5. Do NOT use prior knowledge.

Write in formal academic tone.

----------------------------
QUESTION:
%s
----------------------------

CONTEXT:
%s

----------------------------
ACADEMIC ANSWER:
`, InsufficientEvidence, question, context)
}
