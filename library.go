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


package paperit

import (
	"io"
	"log/slog"

	"github.com/poiesic/paperit/ai"
	"github.com/poiesic/paperit/ai/openai"
	"github.com/poiesic/paperit/ingestion"
	"github.com/poiesic/paperit/qa"
	"github.com/poiesic/paperit/reembed"
	"github.com/poiesic/paperit/retrieval"
	"github.com/poiesic/paperit/storage/badger"
)

// Library is the top-level handle to an indexed paper corpus: the storage
// backend, the vector store, and the AI provider, with factories for the
// pipeline, retriever, and QA engine that operate on them.
type Library struct {
	backend  *badger.Backend
	store    *badger.ChunkStore
	provider ai.AIProvider
	logger   *slog.Logger
}

// LibraryOption configures a Library.
type LibraryOption func(*libraryOptions)

type libraryOptions struct {
	aiConfig *ai.Config
	inMemory bool
}

// WithAIConfig overrides the default AI service configuration.
func WithAIConfig(cfg *ai.Config) LibraryOption {
	return func(o *libraryOptions) {
		if cfg != nil {
			o.aiConfig = cfg
		}
	}
}

// WithInMemory opens the storage backend in memory, discarding everything
// on close. Used for tests and scratch corpora.
func WithInMemory() LibraryOption {
	return func(o *libraryOptions) {
		o.inMemory = true
	}
}

// OpenLibrary opens (creating if needed) a paper library at filePath.
func OpenLibrary(filePath string, opts ...LibraryOption) (*Library, error) {
	options := &libraryOptions{
		aiConfig: ai.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(options)
	}

	backend, err := badger.OpenBackend(filePath, options.inMemory)
	if err != nil {
		return nil, err
	}

	store, err := badger.NewChunkStore(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	provider, err := openai.NewProvider(options.aiConfig)
	if err != nil {
		backend.Close()
		return nil, err
	}

	return &Library{
		backend:  backend,
		store:    store,
		provider: provider,
		logger:   slog.Default(),
	}, nil
}

// Close releases the AI provider and the storage backend.
func (l *Library) Close() error {
	if err := l.provider.Close(); err != nil {
		l.logger.Error("error closing AI provider", "err", err)
	}
	if err := l.backend.Close(); err != nil {
		l.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

// Store returns the chunk vector store.
func (l *Library) Store() *badger.ChunkStore {
	return l.store
}

// Provider returns the AI provider.
func (l *Library) Provider() ai.AIProvider {
	return l.provider
}

// NewIngestionPipeline creates a pipeline writing into this library.
func (l *Library) NewIngestionPipeline(opts ...ingestion.Option) (*ingestion.Pipeline, error) {
	return ingestion.NewPipeline(l.store, l.provider.Embedder(), opts...)
}

// NewRetriever creates a hybrid retriever over this library.
func (l *Library) NewRetriever(opts ...retrieval.Option) (*retrieval.Retriever, error) {
	return retrieval.NewRetriever(l.store, l.provider.Embedder(), opts...)
}

// NewQAEngine creates a QA engine over this library.
func (l *Library) NewQAEngine(opts ...qa.Option) (*qa.Engine, error) {
	retriever, err := l.NewRetriever()
	if err != nil {
		return nil, err
	}
	return qa.NewEngine(retriever, l.provider.Generator(), opts...)
}

// NewReembedder creates a reembedder over this library's corpus.
func (l *Library) NewReembedder(config *reembed.Config, progress io.Writer) (*reembed.Reembedder, error) {
	return reembed.NewReembedder(l.store, l.provider.Embedder(), config, progress)
}
