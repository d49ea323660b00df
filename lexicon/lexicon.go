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

package lexicon

import (
	"fmt"
	"slices"
	"strings"

	"github.com/poiesic/elscan/core"
)

// DefaultMaxLength is the default trie depth bound.
const DefaultMaxLength = 10

// Lexicon is an immutable set of unique normalized words and the trie built from them.
// Word IDs are assigned in sorted word order, so identical inputs yield identical IDs.
type Lexicon struct {
	words    []string
	lengths  []int
	trie     *Trie
	maxLen   int
	shortest int
	longest  int
}

// New normalizes, deduplicates and sorts words and builds the trie.
// Words outside [core.MinWordLength, maxLen] are rejected with core.ErrWordTooLong
// or core.ErrWordTooShort; characters outside the alphabet with core.ErrInvalidLetter.
// All too-long words are reported together in one core.ErrWordTooLong error.
func New(words []string, maxLen int) (*Lexicon, error) {
	if maxLen < core.MinWordLength {
		return nil, core.ValidateWordBounds(core.MinWordLength, maxLen)
	}

	parsed := make(map[string][]core.Letter, len(words))
	tooLong := make(map[string]struct{})
	for _, w := range words {
		letters, err := core.ParseLetters(w)
		if err != nil {
			return nil, err
		}
		if len(letters) > maxLen {
			tooLong[core.LettersString(letters)] = struct{}{}
			continue
		}
		if err := core.ValidateWord(letters, maxLen); err != nil {
			return nil, err
		}
		parsed[core.LettersString(letters)] = letters
	}
	if len(tooLong) > 0 {
		return nil, tooLongError(tooLong, maxLen)
	}

	sorted := make([]string, 0, len(parsed))
	for w := range parsed {
		sorted = append(sorted, w)
	}
	slices.Sort(sorted)

	lex := &Lexicon{
		words:   sorted,
		lengths: make([]int, len(sorted)),
		trie:    NewTrie(maxLen),
		maxLen:  maxLen,
	}
	for i, w := range sorted {
		letters := parsed[w]
		if _, err := lex.trie.Insert(letters, int32(i)); err != nil {
			return nil, err
		}
		lex.lengths[i] = len(letters)
		if lex.shortest == 0 || len(letters) < lex.shortest {
			lex.shortest = len(letters)
		}
		if len(letters) > lex.longest {
			lex.longest = len(letters)
		}
	}
	return lex, nil
}

// tooLongSample bounds how many offending words an error message lists.
const tooLongSample = 5

func tooLongError(words map[string]struct{}, maxLen int) error {
	sorted := make([]string, 0, len(words))
	for w := range words {
		sorted = append(sorted, w)
	}
	slices.Sort(sorted)
	sample := sorted
	if len(sample) > tooLongSample {
		sample = sample[:tooLongSample]
	}
	msg := strings.Join(sample, ", ")
	if len(sorted) > len(sample) {
		msg += fmt.Sprintf(" and %d more", len(sorted)-len(sample))
	}
	return fmt.Errorf("%w: %w: %d words longer than %d letters: %s",
		core.ErrConfiguration, core.ErrWordTooLong, len(sorted), maxLen, msg)
}

// Len returns the number of distinct words.
func (l *Lexicon) Len() int {
	return len(l.words)
}

// Word returns the word with the given ID.
func (l *Lexicon) Word(id int32) string {
	return l.words[id]
}

// WordLength returns the letter count of the word with the given ID.
func (l *Lexicon) WordLength(id int32) int {
	return l.lengths[id]
}

// Words returns the sorted word list. Callers must not modify it.
func (l *Lexicon) Words() []string {
	return l.words
}

// Contains reports whether the normalized form of w is in the lexicon.
func (l *Lexicon) Contains(w string) bool {
	_, found := slices.BinarySearch(l.words, core.Normalize(w))
	return found
}

// Trie returns the lexicon's trie.
func (l *Lexicon) Trie() *Trie {
	return l.trie
}

// MaxLength returns the configured maximum word length.
func (l *Lexicon) MaxLength() int {
	return l.maxLen
}

// ShortestLength returns the length of the shortest word, or 0 if empty.
func (l *Lexicon) ShortestLength() int {
	return l.shortest
}

// LongestLength returns the length of the longest word, or 0 if empty.
func (l *Lexicon) LongestLength() int {
	return l.longest
}
