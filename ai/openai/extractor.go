// Copyright 2026 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package openai

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/poiesic/paperit/ai"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// Sections shorter than this carry too little signal to be worth an LLM
// call; they are skipped rather than analyzed.
const minExtractableChars = 150

// Low temperature keeps the auditor factual.
const extractorTemperature = 0.1

// Extractor implements ai.IntelligenceExtractor using OpenAI-compatible chat APIs.
type Extractor struct {
	client llms.Model
	logger *slog.Logger
}

// newExtractor is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newExtractor(config *ai.Config) (*Extractor, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	// Use "none" as token for local OpenAI-compatible services that don't require authentication
	client, err := openai.New(
		openai.WithBaseURL(config.ExtractorHost),
		openai.WithToken("none"),
		openai.WithModel(config.ExtractorModel),
	)
	if err != nil {
		return nil, err
	}

	return &Extractor{
		client: client,
		logger: slog.Default().With("component", "openai-extractor"),
	}, nil
}

// NewExtractor creates a new intelligence extractor using the provided configuration.
//
// Returns ai.IntelligenceExtractor interface to enforce abstraction.
func NewExtractor(config *ai.Config) (ai.IntelligenceExtractor, error) {
	return newExtractor(config)
}

// ExtractIntelligence analyzes one section with a section-specialized prompt
// and parses the model's JSON verdict. Sections under the minimum length are
// skipped with a nil result.
func (e *Extractor) ExtractIntelligence(ctx context.Context, sectionName, text string) (*ai.Intelligence, error) {
	if len(text) < minExtractableChars {
		return nil, nil
	}

	prompt := buildExtractionPrompt(sectionName, text)

	// Try up to 3 times in case of malformed JSON
	var result ai.Intelligence
	var lastErr error
	for attempt := 0; attempt < 3; attempt++ {
		response, err := llms.GenerateFromSinglePrompt(ctx, e.client, prompt,
			llms.WithTemperature(extractorTemperature),
			llms.WithJSONMode(),
		)
		if err != nil {
			e.logger.Error("failed to generate content", "section", sectionName, "attempt", attempt+1, "err", err)
			return nil, err
		}

		// Strip markdown code fences if present
		responseText := strings.TrimSpace(response)
		responseText = strings.TrimPrefix(responseText, "```json")
		responseText = strings.TrimPrefix(responseText, "```")
		responseText = strings.TrimSuffix(responseText, "```")
		responseText = strings.TrimSpace(responseText)

		responseText = repairJSON(responseText)

		if err := json.Unmarshal([]byte(responseText), &result); err != nil {
			lastErr = err
			e.logger.Warn("error parsing extractor response",
				"section", sectionName,
				"attempt", attempt+1,
				"response", responseText,
				"err", err)
			continue
		}

		lastErr = nil
		break
	}

	if lastErr != nil {
		e.logger.Error("failed to parse extractor response after retries", "section", sectionName, "err", lastErr)
		return nil, lastErr
	}

	e.logger.Debug("extracted intelligence",
		"section", sectionName,
		"entities", len(result.Entities),
		"trl", result.TRL.Level,
		"contradictions", len(result.Contradictions))
	return &result, nil
}
