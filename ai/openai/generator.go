package openai

import (
	"context"
	"log/slog"

	"github.com/poiesic/paperit/ai"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// Generation parameters tuned for grounded academic answering: low temperature
// keeps the model close to the provided context.
const (
	generatorTemperature = 0.2
	generatorTopP        = 0.9
	generatorMaxTokens   = 600
)

// Generator implements ai.Generator using OpenAI-compatible chat APIs.
type Generator struct {
	client llms.Model
	logger *slog.Logger
}

// newGenerator is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newGenerator(config *ai.Config) (*Generator, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	// Use "none" as token for local OpenAI-compatible services that don't require authentication
	client, err := openai.New(
		openai.WithBaseURL(config.GeneratorHost),
		openai.WithToken("none"),
		openai.WithModel(config.GeneratorModel),
	)
	if err != nil {
		return nil, err
	}

	return &Generator{
		client: client,
		logger: slog.Default().With("component", "openai-generator"),
	}, nil
}

// NewGenerator creates a new generator using the provided configuration.
//
// Returns ai.Generator interface to enforce abstraction.
func NewGenerator(config *ai.Config) (ai.Generator, error) {
	return newGenerator(config)
}

// Generate produces a completion for the given prompt.
func (g *Generator) Generate(ctx context.Context, prompt string) (string, error) {
	g.logger.Debug("generating completion", "promptLength", len(prompt))

	answer, err := llms.GenerateFromSinglePrompt(ctx, g.client, prompt,
		llms.WithTemperature(generatorTemperature),
		llms.WithTopP(generatorTopP),
		llms.WithMaxTokens(generatorMaxTokens),
	)
	if err != nil {
		g.logger.Error("failed to generate completion", "err", err)
		return "", err
	}

	return answer, nil
}
