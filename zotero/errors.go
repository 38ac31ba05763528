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


package zotero

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound indicates the requested item or collection does not exist.
	ErrNotFound = errors.New("zotero: not found")

	// ErrUnauthorized indicates the API key was rejected.
	ErrUnauthorized = errors.New("zotero: unauthorized")
)

// APIError carries the HTTP status of a failed Zotero API call.
type APIError struct {
	Status int
	Path   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("zotero: API call %s failed with status %d", e.Path, e.Status)
}
