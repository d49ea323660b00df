package lexicon

import (
	"testing"

	"github.com/poiesic/elscan/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func letters(t *testing.T, s string) []core.Letter {
	t.Helper()
	l, err := core.ParseLetters(s)
	require.NoError(t, err)
	return l
}

func TestTrie_InsertIdempotent(t *testing.T) {
	trie := NewTrie(5)

	added, err := trie.Insert(letters(t, "אב"), 0)
	require.NoError(t, err)
	assert.True(t, added)

	added, err = trie.Insert(letters(t, "אב"), 7)
	require.NoError(t, err)
	assert.False(t, added)
	assert.Equal(t, 1, trie.Len())

	matches := trie.Matches(letters(t, "אב"))
	require.Len(t, matches, 1)
	assert.Equal(t, int32(0), matches[0].WordID, "first insert keeps its ID")
}

func TestTrie_RejectsOutOfBoundWords(t *testing.T) {
	trie := NewTrie(3)

	_, err := trie.Insert(letters(t, "א"), 0)
	assert.ErrorIs(t, err, core.ErrWordTooShort)

	_, err = trie.Insert(letters(t, "אבגד"), 0)
	assert.ErrorIs(t, err, core.ErrWordTooLong)
	assert.ErrorIs(t, err, core.ErrConfiguration)
	assert.Equal(t, 0, trie.Len())
	assert.Equal(t, 1, trie.NodeCount(), "rejected words leave no nodes behind")
}

func TestTrie_MatchesEveryPrefix(t *testing.T) {
	trie := NewTrie(10)
	_, _ = trie.Insert(letters(t, "אב"), 0)
	_, _ = trie.Insert(letters(t, "אבג"), 1)
	_, _ = trie.Insert(letters(t, "אבגדה"), 2)
	_, _ = trie.Insert(letters(t, "בג"), 3)

	matches := trie.Matches(letters(t, "אבגדהו"))
	assert.Equal(t, []Match{
		{WordID: 0, Length: 2},
		{WordID: 1, Length: 3},
		{WordID: 2, Length: 5},
	}, matches)

	assert.Empty(t, trie.Matches(letters(t, "גד")))
	assert.Empty(t, trie.Matches(nil))
}

func TestTrie_NodeKinds(t *testing.T) {
	trie := NewTrie(10)
	_, _ = trie.Insert(letters(t, "אב"), 0)
	_, _ = trie.Insert(letters(t, "אבג"), 1)

	alef, ok := trie.Child(Root, letters(t, "א")[0])
	require.True(t, ok)
	bet, ok := trie.Child(alef, letters(t, "ב")[0])
	require.True(t, ok)
	gimel, ok := trie.Child(bet, letters(t, "ג")[0])
	require.True(t, ok)

	assert.Equal(t, NodeInternal, trie.Kind(Root))
	assert.Equal(t, NodeInternal, trie.Kind(alef))
	assert.Equal(t, NodeBoth, trie.Kind(bet), "a word that prefixes another word")
	assert.Equal(t, NodeTerminal, trie.Kind(gimel))
	assert.Equal(t, "both", NodeBoth.String())
}

func TestTrie_UnfoldedQueryMissesSilently(t *testing.T) {
	trie := NewTrie(10)
	_, err := trie.Insert(letters(t, "שלום"), 0)
	require.NoError(t, err)

	// A caller that maps the final mem to a different code gets no match and no error.
	query := letters(t, "שלוס")
	assert.Empty(t, trie.Matches(query))
	assert.Len(t, trie.Matches(letters(t, "שלומ")), 1)
}
