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

package badger

import "github.com/poiesic/elscan/storage"

// NewMemoryRepositories opens one in-memory backend and both repositories on it.
// The index repository keeps generation-prefixed entries and the search
// repository keeps artifacts under their search key; both live in the same
// store, as they do behind an Engine, and vanish when the backend closes.
// Close the repositories before the backend.
func NewMemoryRepositories() (storage.IndexRepository, storage.SearchRepository, *Backend, error) {
	backend, err := OpenBackend("", true)
	if err != nil {
		return nil, nil, nil, err
	}

	indexRepo, err := NewIndexRepository(backend)
	if err != nil {
		backend.Close()
		return nil, nil, nil, err
	}

	searchRepo, err := NewSearchRepository(backend)
	if err != nil {
		indexRepo.Close()
		backend.Close()
		return nil, nil, nil, err
	}

	return indexRepo, searchRepo, backend, nil
}
