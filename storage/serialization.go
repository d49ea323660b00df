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

package storage

import (
	"fmt"

	"github.com/poiesic/elscan/core"
)

// MarshalID serializes an ID to bytes.
func MarshalID(id core.ID) []byte {
	buf := make([]byte, core.IDMUS.Size(id))
	core.IDMUS.Marshal(id, buf)
	return buf
}

// UnmarshalID deserializes an ID from bytes.
func UnmarshalID(data []byte) (core.ID, error) {
	id, n, err := core.IDMUS.Unmarshal(data)
	return id, checkDecode(n, len(data), err)
}

// MarshalHits serializes a sorted hit list to bytes.
func MarshalHits(hits []core.Hit) []byte {
	buf := make([]byte, core.HitsMUS.Size(hits))
	core.HitsMUS.Marshal(hits, buf)
	return buf
}

// UnmarshalHits deserializes a hit list from bytes.
func UnmarshalHits(data []byte) ([]core.Hit, error) {
	hits, n, err := core.HitsMUS.Unmarshal(data)
	if err := checkDecode(n, len(data), err); err != nil {
		return nil, err
	}
	return hits, nil
}

// MarshalIndexMetadata serializes IndexMetadata to bytes.
func MarshalIndexMetadata(meta core.IndexMetadata) []byte {
	buf := make([]byte, core.IndexMetadataMUS.Size(meta))
	core.IndexMetadataMUS.Marshal(meta, buf)
	return buf
}

// UnmarshalIndexMetadata deserializes IndexMetadata from bytes.
func UnmarshalIndexMetadata(data []byte) (core.IndexMetadata, error) {
	meta, n, err := core.IndexMetadataMUS.Unmarshal(data)
	if err := checkDecode(n, len(data), err); err != nil {
		return core.IndexMetadata{}, err
	}
	return meta, nil
}

// MarshalSearch serializes a SearchArtifact to bytes.
func MarshalSearch(artifact *core.SearchArtifact) []byte {
	buf := make([]byte, core.SearchMUS.Size(*artifact))
	core.SearchMUS.Marshal(*artifact, buf)
	return buf
}

// UnmarshalSearch deserializes a SearchArtifact from bytes.
func UnmarshalSearch(data []byte) (*core.SearchArtifact, error) {
	artifact, n, err := core.SearchMUS.Unmarshal(data)
	if err := checkDecode(n, len(data), err); err != nil {
		return nil, err
	}
	return &artifact, nil
}

func checkDecode(n, size int, err error) error {
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	if n != size {
		return fmt.Errorf("%w: %w: consumed %d of %d bytes", ErrSerializationFailed, ErrTruncatedData, n, size)
	}
	return nil
}
