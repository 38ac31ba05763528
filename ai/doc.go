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


// Package ai provides abstractions for the AI services used in Paperit.
//
// This package defines interfaces for text embeddings, grounded answer
// generation, and section intelligence extraction. It follows the dependency
// inversion principle, allowing the ingestion, retrieval and QA layers to
// depend on abstractions rather than concrete implementations.
//
// The package is designed around four key interfaces:
//
//   - Embedder: generates vector embeddings from text
//   - Generator: produces completions for question answering
//   - IntelligenceExtractor: mines entities, TRL assessments, and reported
//     limitations from paper sections
//   - AIProvider: aggregates AI services for convenient initialization
//
// Two implementation sub-packages are provided:
//
//   - ai/openai: production implementation using OpenAI-compatible APIs
//     (Ollama, LocalAI, vLLM, OpenAI itself)
//   - ai/mock: deterministic test doubles for unit testing without external
//     services
//
// Public constructors (openai.NewProvider, openai.NewEmbedder) return
// interface types to enforce abstraction; mock constructors return concrete
// types so tests can inject behavior and make assertions.
package ai
