package core

import (
	"encoding/binary"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a deterministic identifier derived from content.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// Occurrence is one concrete ELS match: Word spelled by the letters at
// Position, Position+Skip, Position+2*Skip, ...
// For negative skips Position is the highest-indexed letter.
type Occurrence struct {
	Word     string
	Position int
	Skip     int
}

// Len returns the number of letters in the word.
func (o Occurrence) Len() int {
	return len([]rune(o.Word))
}

// Positions returns the text position of every letter, in reading order.
func (o Occurrence) Positions() []int {
	k := o.Len()
	positions := make([]int, k)
	for i := range positions {
		positions[i] = o.Position + i*o.Skip
	}
	return positions
}

// Span returns the lowest and highest letter positions.
func (o Occurrence) Span() (lo, hi int) {
	last := o.Position + (o.Len()-1)*o.Skip
	if last < o.Position {
		return last, o.Position
	}
	return o.Position, last
}

// AbsSkip returns |Skip|.
func (o Occurrence) AbsSkip() int {
	if o.Skip < 0 {
		return -o.Skip
	}
	return o.Skip
}

// Hit is a (position, skip) pair recorded for a word in an index.
type Hit struct {
	Position int
	Skip     int
}

// Compare orders hits by position, then skip.
func (h Hit) Compare(o Hit) int {
	switch {
	case h.Position < o.Position:
		return -1
	case h.Position > o.Position:
		return 1
	case h.Skip < o.Skip:
		return -1
	case h.Skip > o.Skip:
		return 1
	}
	return 0
}

// IndexEntry holds every hit of one word, ascending by (Position, Skip).
type IndexEntry struct {
	Word string
	Hits []Hit
}

// IndexVersion is the artifact schema version written into IndexMetadata.
const IndexVersion = "1.0"

// IndexMetadata describes a built index artifact.
type IndexMetadata struct {
	Version          string
	BuildID          ID
	CreatedAt        time.Time
	TextLength       int
	TextHash         string
	MinSkip          int
	MaxSkip          int
	DictionarySize   int
	MinWordLength    int
	MaxWordLength    int
	TotalWords       int // Words with at least one occurrence
	TotalOccurrences int
}

// ScoreVersion identifies the proximity scoring formula.
type ScoreVersion int

const (
	// ScoreV1 is 1/(min_distance+1) + range_overlap/1000 - skip_difference/100.
	ScoreV1 ScoreVersion = iota + 1
)

// ProximityRecord compares two occurrences. It carries both occurrences so that
// downstream renderers need nothing else to locate them.
type ProximityRecord struct {
	Anchor         Occurrence
	Other          Occurrence
	MinDistance    int
	RangeOverlap   int
	SkipDifference int
	Score          float64
	ScoreVersion   ScoreVersion
}

// SearchArtifact is a persisted single-term search result.
type SearchArtifact struct {
	Key         ID
	Pattern     string
	MinSkip     int
	MaxSkip     int
	TextHash    string
	CreatedAt   time.Time
	Occurrences []Occurrence
}

// SearchKey derives the artifact key for a search over a given text.
func SearchKey(textHash, pattern string, minSkip, maxSkip int) ID {
	buf := make([]byte, 0, len(textHash)+len(pattern)+24)
	buf = append(buf, textHash...)
	buf = append(buf, 0)
	buf = append(buf, pattern...)
	buf = binary.AppendVarint(buf, int64(minSkip))
	buf = binary.AppendVarint(buf, int64(maxSkip))
	return IDFromContent(string(buf))
}
