// Copyright 2025 Poiesic Systems
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

package search

import "errors"

var (
	// ErrTextRequired is returned when a search is run without a text.
	ErrTextRequired = errors.New("text required")

	// ErrInvalidCacheSize is returned when the result cache size is negative.
	ErrInvalidCacheSize = errors.New("cache size must not be negative")

	// ErrSuperseded is returned by a Session query cancelled by a newer one.
	ErrSuperseded = errors.New("search superseded by a newer query")

	// ErrSessionClosed is returned by queries of a closed Session.
	ErrSessionClosed = errors.New("search session closed")
)
