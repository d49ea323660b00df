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

package core

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// TorahLength is the declared letter count of the reference Torah text.
const TorahLength = 304805

// Text is the immutable canonical letter sequence being searched.
// It is identified by the SHA-256 of its normalized UTF-8 form.
type Text struct {
	letters []Letter
	hash    string
}

// NewText creates a Text from letter codes. The slice is copied.
func NewText(letters []Letter) (*Text, error) {
	if len(letters) == 0 {
		return nil, fmt.Errorf("%w: %w", ErrInputIntegrity, ErrEmptyText)
	}
	for i, l := range letters {
		if int(l) >= AlphabetSize {
			return nil, fmt.Errorf("%w: %w: code %d at position %d", ErrInputIntegrity, ErrInvalidLetter, l, i)
		}
	}
	owned := make([]Letter, len(letters))
	copy(owned, letters)
	sum := sha256.Sum256([]byte(LettersString(owned)))
	return &Text{
		letters: owned,
		hash:    hex.EncodeToString(sum[:]),
	}, nil
}

// ParseText normalizes s and builds a Text from it.
func ParseText(s string) (*Text, error) {
	letters, err := ParseLetters(s)
	if err != nil {
		return nil, err
	}
	return NewText(letters)
}

// Len returns the number of letters.
func (t *Text) Len() int {
	return len(t.letters)
}

// Hash returns the hex SHA-256 of the normalized text.
func (t *Text) Hash() string {
	return t.hash
}

// At returns the letter at position i.
func (t *Text) At(i int) Letter {
	return t.letters[i]
}

// Letters returns the underlying letters. Callers must not modify the slice.
func (t *Text) Letters() []Letter {
	return t.letters
}

// String renders the text in base-form letters.
func (t *Text) String() string {
	return LettersString(t.letters)
}

// Verify checks the text against a declared length and hash.
// A zero length or empty hash skips that check.
func (t *Text) Verify(length int, hash string) error {
	if length > 0 && length != len(t.letters) {
		return fmt.Errorf("%w: %w: declared %d, actual %d",
			ErrInputIntegrity, ErrTextLengthMismatch, length, len(t.letters))
	}
	if hash != "" && hash != t.hash {
		return fmt.Errorf("%w: %w: declared %s, actual %s",
			ErrInputIntegrity, ErrTextHashMismatch, hash, t.hash)
	}
	return nil
}

// Spell reads k letters starting at pos with the given skip.
// Returns false if any position falls outside the text.
func (t *Text) Spell(pos, skip, k int) ([]Letter, bool) {
	out := make([]Letter, k)
	for i := 0; i < k; i++ {
		p := pos + i*skip
		if p < 0 || p >= len(t.letters) {
			return nil, false
		}
		out[i] = t.letters[p]
	}
	return out, true
}
