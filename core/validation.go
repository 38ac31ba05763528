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

import "fmt"

// maxYear bounds plausible publication years. Year 0 means "unknown" and is
// always accepted.
const maxYear = 3000

// ValidateChunk validates a Chunk according to domain rules.
//
// Validation rules:
//   - Id, DocID, Section and Text must not be empty
//   - TokenEstimate must be positive
//   - Year must be 0 (unknown) or within [1000, 3000)
//
// NOT validated (populated later in the pipeline):
//   - Vector (can be empty until the embedding step runs)
func ValidateChunk(chunk *Chunk) error {
	if chunk == nil {
		return fmt.Errorf("%w: chunk is nil", ErrInvalidChunk)
	}

	if chunk.Id == "" {
		return fmt.Errorf("%w: %w", ErrInvalidChunk, ErrEmptyChunkID)
	}

	if chunk.DocID == "" {
		return fmt.Errorf("%w: %w", ErrInvalidChunk, ErrEmptyDocID)
	}

	if chunk.Section == "" {
		return fmt.Errorf("%w: %w", ErrInvalidChunk, ErrEmptySection)
	}

	if chunk.Text == "" {
		return fmt.Errorf("%w: %w", ErrInvalidChunk, ErrEmptyText)
	}

	if chunk.TokenEstimate <= 0 {
		return fmt.Errorf("%w: %w", ErrInvalidChunk, ErrInvalidTokenEstimate)
	}

	if !IsValidYear(chunk.Year) {
		return fmt.Errorf("%w: %w: %d", ErrInvalidChunk, ErrInvalidYear, chunk.Year)
	}

	return nil
}

// ValidateDocumentMeta validates a DocumentMeta according to domain rules.
//
// Validation rules:
//   - DocID must not be empty
//   - Year must be 0 (unknown) or within [1000, 3000)
//
// All other fields are optional; missing values default to empty strings at
// the metadata-source boundary.
func ValidateDocumentMeta(meta *DocumentMeta) error {
	if meta == nil {
		return fmt.Errorf("%w: metadata is nil", ErrInvalidDocumentMeta)
	}

	if meta.DocID == "" {
		return fmt.Errorf("%w: %w", ErrInvalidDocumentMeta, ErrEmptyDocID)
	}

	if !IsValidYear(meta.Year) {
		return fmt.Errorf("%w: %w: %d", ErrInvalidDocumentMeta, ErrInvalidYear, meta.Year)
	}

	return nil
}

// IsValidYear reports whether year is 0 (unknown) or a plausible publication year.
func IsValidYear(year int) bool {
	if year == 0 {
		return true
	}
	return year >= 1000 && year < maxYear
}
