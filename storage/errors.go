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


package storage

import "errors"

var (
	// ErrNotFound is returned when a requested chunk does not exist.
	ErrNotFound = errors.New("chunk not found")

	// ErrBackendRequired is returned when a storage backend is not provided.
	ErrBackendRequired = errors.New("storage backend required")

	// ErrEmptyQueryVector is returned when Query receives an empty vector.
	ErrEmptyQueryVector = errors.New("query vector cannot be empty")
)
