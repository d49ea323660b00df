package core

import (
	"fmt"
	"strings"
	"unicode"
)

// AlphabetSize is the number of base letters. Final forms are folded before matching.
const AlphabetSize = 22

// MinWordLength is the shortest admissible lexicon word or search pattern.
const MinWordLength = 2

// Letter is a base-alphabet letter code in [0, AlphabetSize).
type Letter uint8

// alphabet lists the base letters in code order.
var alphabet = [AlphabetSize]rune{
	'א', 'ב', 'ג', 'ד', 'ה', 'ו', 'ז', 'ח', 'ט', 'י', 'כ',
	'ל', 'מ', 'נ', 'ס', 'ע', 'פ', 'צ', 'ק', 'ר', 'ש', 'ת',
}

// finalForms maps final letter forms to their base forms.
var finalForms = map[rune]rune{
	'ך': 'כ',
	'ם': 'מ',
	'ן': 'נ',
	'ף': 'פ',
	'ץ': 'צ',
}

var letterCodes = func() map[rune]Letter {
	m := make(map[rune]Letter, AlphabetSize)
	for i, r := range alphabet {
		m[r] = Letter(i)
	}
	return m
}()

// Rune returns the base-form rune for the letter.
func (l Letter) Rune() rune {
	if int(l) >= AlphabetSize {
		return unicode.ReplacementChar
	}
	return alphabet[l]
}

// LetterOf returns the letter code for r, folding final forms.
func LetterOf(r rune) (Letter, bool) {
	if base, ok := finalForms[r]; ok {
		r = base
	}
	l, ok := letterCodes[r]
	return l, ok
}

// isMark reports whether r is a niqqud or cantillation mark (U+0591..U+05C7).
func isMark(r rune) bool {
	return r >= 0x0591 && r <= 0x05C7
}

// Normalize folds final forms to base forms and strips marks and whitespace.
// Other characters are kept so ParseLetters can reject them.
func Normalize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if isMark(r) || unicode.IsSpace(r) {
			continue
		}
		if base, ok := finalForms[r]; ok {
			r = base
		}
		b.WriteRune(r)
	}
	return b.String()
}

// ParseLetters normalizes s and converts it to letter codes.
// Returns ErrInvalidLetter if any character outside the alphabet remains.
func ParseLetters(s string) ([]Letter, error) {
	normalized := Normalize(s)
	letters := make([]Letter, 0, len(normalized)/2)
	for i, r := range normalized {
		l, ok := letterCodes[r]
		if !ok {
			return nil, fmt.Errorf("%w: %w: %q at byte %d", ErrInputIntegrity, ErrInvalidLetter, r, i)
		}
		letters = append(letters, l)
	}
	return letters, nil
}

// LettersString renders letter codes as a base-form string.
func LettersString(letters []Letter) string {
	var b strings.Builder
	b.Grow(len(letters) * 2)
	for _, l := range letters {
		b.WriteRune(l.Rune())
	}
	return b.String()
}
