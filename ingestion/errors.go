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


package ingestion

import "errors"

var (
	// ErrEmbedderRequired indicates a pipeline was built without an embedder.
	ErrEmbedderRequired = errors.New("ingestion: embedder is required")

	// ErrStoreRequired indicates a pipeline was built without a vector store.
	ErrStoreRequired = errors.New("ingestion: vector store is required")

	// ErrEmbeddingMismatch indicates the embedder returned a different
	// number of vectors than texts sent.
	ErrEmbeddingMismatch = errors.New("ingestion: embedding count does not match chunk count")
)
