package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIDFromContent_Deterministic(t *testing.T) {
	assert.Equal(t, IDFromContent("abc"), IDFromContent("abc"))
	assert.NotEqual(t, IDFromContent("abc"), IDFromContent("abd"))
}

func TestOccurrence_Positions(t *testing.T) {
	forward := Occurrence{Word: "אבג", Position: 2, Skip: 5}
	assert.Equal(t, []int{2, 7, 12}, forward.Positions())
	lo, hi := forward.Span()
	assert.Equal(t, 2, lo)
	assert.Equal(t, 12, hi)

	backward := Occurrence{Word: "אבג", Position: 12, Skip: -5}
	assert.Equal(t, []int{12, 7, 2}, backward.Positions())
	lo, hi = backward.Span()
	assert.Equal(t, 2, lo)
	assert.Equal(t, 12, hi)
	assert.Equal(t, 5, backward.AbsSkip())
}

func TestHit_Compare(t *testing.T) {
	assert.Equal(t, -1, Hit{1, 5}.Compare(Hit{2, -5}))
	assert.Equal(t, 1, Hit{2, -5}.Compare(Hit{1, 5}))
	assert.Equal(t, -1, Hit{1, -5}.Compare(Hit{1, 5}))
	assert.Equal(t, 0, Hit{1, 5}.Compare(Hit{1, 5}))
}

func TestSearchKey(t *testing.T) {
	a := SearchKey("hash", "אב", 1, 10)
	assert.Equal(t, a, SearchKey("hash", "אב", 1, 10))
	assert.NotEqual(t, a, SearchKey("hash", "אב", 1, 11))
	assert.NotEqual(t, a, SearchKey("other", "אב", 1, 10))
}

func TestHitsMUS_DeltaEncodedPositions(t *testing.T) {
	hits := []Hit{{0, -3}, {0, 2}, {17, 1}, {304000, -99}}
	buf := make([]byte, HitsMUS.Size(hits))
	n := HitsMUS.Marshal(hits, buf)
	assert.Equal(t, len(buf), n)

	got, m, err := HitsMUS.Unmarshal(buf)
	require.NoError(t, err)
	assert.Equal(t, n, m)
	assert.Equal(t, hits, got)
}

func TestSearchMUS(t *testing.T) {
	artifact := SearchArtifact{
		Key:       SearchKey("h", "אב", 1, 5),
		Pattern:   "אב",
		MinSkip:   1,
		MaxSkip:   5,
		TextHash:  "h",
		CreatedAt: time.UnixMicro(1700000000000000).UTC(),
		Occurrences: []Occurrence{
			{Word: "אב", Position: 0, Skip: 1},
			{Word: "אב", Position: 9, Skip: -5},
		},
	}
	buf := make([]byte, SearchMUS.Size(artifact))
	SearchMUS.Marshal(artifact, buf)

	got, _, err := SearchMUS.Unmarshal(buf)
	require.NoError(t, err)
	assert.Equal(t, artifact, got)
}

func TestIndexMetadataMUS_Truncated(t *testing.T) {
	meta := IndexMetadata{Version: IndexVersion, TextHash: "abc", MaxSkip: 50, MinSkip: -50}
	buf := make([]byte, IndexMetadataMUS.Size(meta))
	IndexMetadataMUS.Marshal(meta, buf)

	_, _, err := IndexMetadataMUS.Unmarshal(buf[:len(buf)-1])
	assert.Error(t, err)
}
