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


package core

import "errors"

// Domain validation errors
var (
	// ErrInvalidChunk indicates a Chunk failed validation.
	ErrInvalidChunk = errors.New("invalid chunk")

	// ErrInvalidDocumentMeta indicates a DocumentMeta failed validation.
	ErrInvalidDocumentMeta = errors.New("invalid document metadata")

	// ErrEmptyChunkID indicates the chunk Id field is empty.
	ErrEmptyChunkID = errors.New("chunk id cannot be empty")

	// ErrEmptyDocID indicates the DocID field is empty.
	ErrEmptyDocID = errors.New("doc id cannot be empty")

	// ErrEmptySection indicates the Section field is empty.
	ErrEmptySection = errors.New("section cannot be empty")

	// ErrEmptyText indicates the chunk Text field is empty.
	ErrEmptyText = errors.New("chunk text cannot be empty")

	// ErrInvalidTokenEstimate indicates a non-positive token estimate.
	ErrInvalidTokenEstimate = errors.New("token estimate must be positive")

	// ErrInvalidYear indicates a publication year outside the accepted range.
	ErrInvalidYear = errors.New("publication year out of range")
)
