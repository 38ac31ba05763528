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


// Package storage defines the vector store contract and record serialization.
//
// Chunks are stored under deterministic content-derived keys, which makes
// ingestion idempotent: writing the same document twice leaves the store in
// the same state as writing it once. Queries return candidates ordered by
// increasing cosine distance, optionally narrowed by a structured Filter.
//
// The storage/badger sub-package provides the BadgerDB-backed implementation.
package storage
