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


package ai

import (
	"errors"
	"fmt"
)

// ErrServiceUnavailable indicates the AI service failed its health check.
var ErrServiceUnavailable = errors.New("ai service unavailable")

// EmbeddingError is a typed failure from the embedding service. Status carries
// the transport status code when one is available, zero otherwise.
type EmbeddingError struct {
	Status  int
	Message string
	Err     error
}

func (e *EmbeddingError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("embedding error: status %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("embedding error: %s", e.Message)
}

func (e *EmbeddingError) Unwrap() error {
	return e.Err
}

// NewEmbeddingError wraps err as a typed embedding failure.
func NewEmbeddingError(status int, message string, err error) *EmbeddingError {
	return &EmbeddingError{Status: status, Message: message, Err: err}
}
