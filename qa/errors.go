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


package qa

import "errors"

var (
	// ErrRetrieverRequired indicates an engine was built without a retriever.
	ErrRetrieverRequired = errors.New("qa: retriever is required")

	// ErrGeneratorRequired indicates an engine was built without a generator.
	ErrGeneratorRequired = errors.New("qa: generator is required")

	// ErrEmptyQuestion indicates Ask was called with a blank question.
	ErrEmptyQuestion = errors.New("qa: question is empty")
)
