package index

import (
	"slices"

	"github.com/poiesic/elscan/core"
)

// Index maps each word to its hits, ascending by (position, skip).
// An Index is frozen once built or loaded and is safe for concurrent reads.
type Index struct {
	meta    core.IndexMetadata
	words   []string
	entries map[string][]core.Hit
	total   int
}

// New rehydrates an Index from artifact entries. Entries with no hits are dropped.
// Hits are copied and sorted, so entries need not be pre-sorted.
func New(meta core.IndexMetadata, entries []core.IndexEntry) *Index {
	idx := &Index{
		meta:    meta,
		entries: make(map[string][]core.Hit, len(entries)),
	}
	for _, e := range entries {
		if len(e.Hits) == 0 {
			continue
		}
		hits := slices.Clone(e.Hits)
		slices.SortFunc(hits, core.Hit.Compare)
		hits = slices.Compact(hits)
		if _, dup := idx.entries[e.Word]; !dup {
			idx.words = append(idx.words, e.Word)
		} else {
			idx.total -= len(idx.entries[e.Word])
		}
		idx.entries[e.Word] = hits
		idx.total += len(hits)
	}
	slices.Sort(idx.words)
	return idx
}

// Metadata returns the build metadata.
func (idx *Index) Metadata() core.IndexMetadata {
	return idx.meta
}

// Len returns the number of words with at least one hit.
func (idx *Index) Len() int {
	return len(idx.words)
}

// TotalOccurrences returns the number of hits across all words.
func (idx *Index) TotalOccurrences() int {
	return idx.total
}

// Words returns the indexed words in sorted order. Callers must not modify it.
func (idx *Index) Words() []string {
	return idx.words
}

// Has reports whether word has at least one hit.
func (idx *Index) Has(word string) bool {
	_, ok := idx.entries[core.Normalize(word)]
	return ok
}

// Lookup returns the hits of word, or nil if it has none.
// The word is normalized first. Callers must not modify the result.
func (idx *Index) Lookup(word string) []core.Hit {
	return idx.entries[core.Normalize(word)]
}

// Occurrences returns the hits of word as occurrences.
func (idx *Index) Occurrences(word string) []core.Occurrence {
	w := core.Normalize(word)
	hits := idx.entries[w]
	if len(hits) == 0 {
		return nil
	}
	occs := make([]core.Occurrence, len(hits))
	for i, h := range hits {
		occs[i] = core.Occurrence{Word: w, Position: h.Position, Skip: h.Skip}
	}
	return occs
}

// Entries returns every entry in sorted word order.
func (idx *Index) Entries() []core.IndexEntry {
	entries := make([]core.IndexEntry, len(idx.words))
	for i, w := range idx.words {
		entries[i] = core.IndexEntry{Word: w, Hits: idx.entries[w]}
	}
	return entries
}
