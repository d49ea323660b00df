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

import "errors"

// Error categories. Specific errors below wrap one of these so callers can
// decide whether a failure is worth retrying.
var (
	// ErrInputIntegrity indicates the canonical text or lexicon failed verification.
	// Integrity errors are never retried.
	ErrInputIntegrity = errors.New("input integrity error")

	// ErrConfiguration indicates invalid run parameters.
	ErrConfiguration = errors.New("configuration error")

	// ErrPartialBuild indicates an index build was interrupted or a skip failed
	// after exhausting its retries. No index is produced.
	ErrPartialBuild = errors.New("partial build interruption")
)

// Input and parameter errors
var (
	// ErrInvalidLetter indicates a character outside the base alphabet survived normalization.
	ErrInvalidLetter = errors.New("character outside the base alphabet")

	// ErrTextLengthMismatch indicates the text length differs from its declaration.
	ErrTextLengthMismatch = errors.New("text length does not match declaration")

	// ErrTextHashMismatch indicates the text hash differs from its declaration.
	ErrTextHashMismatch = errors.New("text hash does not match declaration")

	// ErrEmptyText indicates the canonical text has no letters.
	ErrEmptyText = errors.New("text is empty")

	// ErrWordTooShort indicates a word has fewer than MinWordLength letters.
	ErrWordTooShort = errors.New("word is too short")

	// ErrWordTooLong indicates a word exceeds the configured maximum length.
	ErrWordTooLong = errors.New("word exceeds maximum length")

	// ErrInvalidSkipRange indicates a skip range that is empty or includes only zero.
	ErrInvalidSkipRange = errors.New("invalid skip range")

	// ErrInvalidWordLength indicates a word-length bound that cannot admit any lexicon entry.
	ErrInvalidWordLength = errors.New("invalid word length bound")

	// ErrEmptyPattern indicates a search pattern with no letters.
	ErrEmptyPattern = errors.New("pattern cannot be empty")
)
