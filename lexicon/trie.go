package lexicon

import (
	"github.com/poiesic/elscan/core"
)

// NodeKind classifies a trie node. A word may also be the prefix of a longer
// word, so a node can be both terminal and internal.
type NodeKind int

const (
	// NodeInternal has children and completes no word.
	NodeInternal NodeKind = iota + 1
	// NodeTerminal completes a word and has no children.
	NodeTerminal
	// NodeBoth completes a word and has children.
	NodeBoth
)

// String returns a string representation of the kind.
func (k NodeKind) String() string {
	switch k {
	case NodeInternal:
		return "internal"
	case NodeTerminal:
		return "terminal"
	case NodeBoth:
		return "both"
	default:
		return "unknown"
	}
}

// NodeRef addresses a node inside a Trie. The root is always 0.
type NodeRef int32

// Root is the reference of the trie root.
const Root NodeRef = 0

const noWord = -1

type node struct {
	children [core.AlphabetSize]NodeRef // 0 means no edge; the root is never a child
	word     int32                      // word ID, or noWord
}

// Trie is a multi-pattern prefix matcher over letter codes.
// Nodes live in a flat slice so walks touch contiguous memory.
// A Trie is not safe for concurrent Insert; concurrent reads after
// construction are safe.
type Trie struct {
	nodes  []node
	maxLen int
	words  int
}

// Match is a lexicon word found as a prefix of a letter sequence.
type Match struct {
	WordID int32
	Length int
}

// NewTrie creates an empty trie that accepts words of up to maxLen letters.
func NewTrie(maxLen int) *Trie {
	return &Trie{
		nodes:  []node{{word: noWord}},
		maxLen: maxLen,
	}
}

// Insert adds a word with the given ID.
// Duplicate inserts are ignored and return false.
// Words outside [core.MinWordLength, maxLen] are rejected.
func (t *Trie) Insert(letters []core.Letter, id int32) (bool, error) {
	if err := core.ValidateWord(letters, t.maxLen); err != nil {
		return false, err
	}
	cur := Root
	for _, l := range letters {
		next := t.nodes[cur].children[l]
		if next == 0 {
			next = NodeRef(len(t.nodes))
			t.nodes = append(t.nodes, node{word: noWord})
			t.nodes[cur].children[l] = next
		}
		cur = next
	}
	if t.nodes[cur].word != noWord {
		return false, nil
	}
	t.nodes[cur].word = id
	t.words++
	return true, nil
}

// Child follows the edge labelled l from n.
func (t *Trie) Child(n NodeRef, l core.Letter) (NodeRef, bool) {
	next := t.nodes[n].children[l]
	return next, next != 0
}

// Word returns the ID of the word completed at n.
func (t *Trie) Word(n NodeRef) (int32, bool) {
	id := t.nodes[n].word
	return id, id != noWord
}

// Kind reports whether n is internal, terminal or both.
func (t *Trie) Kind(n NodeRef) NodeKind {
	terminal := t.nodes[n].word != noWord
	internal := false
	for _, c := range t.nodes[n].children {
		if c != 0 {
			internal = true
			break
		}
	}
	switch {
	case terminal && internal:
		return NodeBoth
	case terminal:
		return NodeTerminal
	default:
		return NodeInternal
	}
}

// Matches returns every word that equals a prefix of seq, shortest first.
// No normalization is performed: seq must use the same letter codes as Insert.
func (t *Trie) Matches(seq []core.Letter) []Match {
	var matches []Match
	cur := Root
	for i, l := range seq {
		next, ok := t.Child(cur, l)
		if !ok {
			break
		}
		cur = next
		if id, ok := t.Word(cur); ok {
			matches = append(matches, Match{WordID: id, Length: i + 1})
		}
	}
	return matches
}

// Len returns the number of distinct words.
func (t *Trie) Len() int {
	return t.words
}

// NodeCount returns the number of nodes including the root.
func (t *Trie) NodeCount() int {
	return len(t.nodes)
}

// MaxLength returns the longest word the trie accepts.
func (t *Trie) MaxLength() int {
	return t.maxLen
}
