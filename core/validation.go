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
	"fmt"
	"slices"
)

// ValidateSkipRange validates a range of skip magnitudes.
//
// Validation rules:
//   - minSkip must be at least 1 (skip 0 is degenerate)
//   - maxSkip must not be smaller than minSkip
func ValidateSkipRange(minSkip, maxSkip int) error {
	if minSkip < 1 {
		return fmt.Errorf("%w: %w: minimum skip %d must be at least 1", ErrConfiguration, ErrInvalidSkipRange, minSkip)
	}
	if maxSkip < minSkip {
		return fmt.Errorf("%w: %w: maximum skip %d is below minimum %d", ErrConfiguration, ErrInvalidSkipRange, maxSkip, minSkip)
	}
	return nil
}

// ValidateWordBounds validates the minimum-length floor and maximum walk depth.
func ValidateWordBounds(minLength, maxLength int) error {
	if minLength < MinWordLength {
		return fmt.Errorf("%w: %w: minimum word length %d is below %d",
			ErrConfiguration, ErrInvalidWordLength, minLength, MinWordLength)
	}
	if maxLength < minLength {
		return fmt.Errorf("%w: %w: maximum word length %d is below minimum %d",
			ErrConfiguration, ErrInvalidWordLength, maxLength, minLength)
	}
	return nil
}

// ValidateWord checks a word's letter count against [MinWordLength, maxLength].
func ValidateWord(letters []Letter, maxLength int) error {
	if len(letters) < MinWordLength {
		return fmt.Errorf("%w: %w: %q has %d letters", ErrConfiguration, ErrWordTooShort, LettersString(letters), len(letters))
	}
	if len(letters) > maxLength {
		return fmt.Errorf("%w: %w: %q has %d letters, maximum is %d",
			ErrConfiguration, ErrWordTooLong, LettersString(letters), len(letters), maxLength)
	}
	return nil
}

// VerifyOccurrence checks that reading the text at the occurrence's start and
// stride reproduces its word with every position in bounds.
func VerifyOccurrence(text *Text, occ Occurrence) bool {
	want, err := ParseLetters(occ.Word)
	if err != nil || len(want) == 0 || occ.Skip == 0 {
		return false
	}
	got, ok := text.Spell(occ.Position, occ.Skip, len(want))
	return ok && slices.Equal(got, want)
}
