package index

import (
	"testing"

	"github.com/poiesic/elscan/core"
	"github.com/stretchr/testify/assert"
)

func TestNew_SortsAndDeduplicatesHits(t *testing.T) {
	idx := New(core.IndexMetadata{TotalWords: 2}, []core.IndexEntry{
		{Word: "גד", Hits: []core.Hit{{Position: 9, Skip: 2}, {Position: 1, Skip: -3}, {Position: 1, Skip: -3}}},
		{Word: "אב", Hits: []core.Hit{{Position: 4, Skip: 1}}},
		{Word: "הו"},
	})

	assert.Equal(t, []string{"אב", "גד"}, idx.Words())
	assert.Equal(t, []core.Hit{{Position: 1, Skip: -3}, {Position: 9, Skip: 2}}, idx.Lookup("גד"))
	assert.Equal(t, 3, idx.TotalOccurrences())
	assert.False(t, idx.Has("הו"), "empty entries are dropped")
	assert.Equal(t, 2, idx.Metadata().TotalWords)
}

func TestNew_DoesNotAliasInput(t *testing.T) {
	hits := []core.Hit{{Position: 2, Skip: 1}, {Position: 0, Skip: 1}}
	idx := New(core.IndexMetadata{}, []core.IndexEntry{{Word: "אב", Hits: hits}})

	hits[0].Position = 100
	assert.Equal(t, []core.Hit{{Position: 0, Skip: 1}, {Position: 2, Skip: 1}}, idx.Lookup("אב"))
}

func TestIndex_LookupNormalizesWord(t *testing.T) {
	idx := New(core.IndexMetadata{}, []core.IndexEntry{
		{Word: "שלומ", Hits: []core.Hit{{Position: 7, Skip: -4}}},
	})

	assert.Len(t, idx.Lookup("שלום"), 1, "final form folds to base form")
	assert.True(t, idx.Has("שָׁלוֹם"), "points are stripped")
	assert.Nil(t, idx.Lookup("אב"))

	occs := idx.Occurrences("שלום")
	assert.Equal(t, []core.Occurrence{{Word: "שלומ", Position: 7, Skip: -4}}, occs)
}

func TestIndex_EntriesInWordOrder(t *testing.T) {
	idx := New(core.IndexMetadata{}, []core.IndexEntry{
		{Word: "תו", Hits: []core.Hit{{Position: 0, Skip: 1}}},
		{Word: "אב", Hits: []core.Hit{{Position: 0, Skip: 2}}},
	})
	entries := idx.Entries()
	assert.Equal(t, "אב", entries[0].Word)
	assert.Equal(t, "תו", entries[1].Word)
}
