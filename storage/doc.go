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

// Package storage defines the artifact boundary for elscan.
//
// Built indices and persisted search results cross this boundary through the
// repository interfaces below. Implementations live in subpackages:
//
//	backend, err := badger.OpenBackend(path, false)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	repo, err := badger.NewIndexRepository(backend)
//
// # Atomic publication
//
// IndexRepository.Publish replaces the current index as a whole. Readers see
// either the previous index or the new one, never a mixture. A build that
// fails or is cancelled publishes nothing.
//
// # Thread Safety
//
// All repository implementations must be safe for concurrent use.
package storage
