package index

import (
	"testing"

	"github.com/poiesic/elscan/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func nearbyFixture() *Index {
	return New(core.IndexMetadata{}, []core.IndexEntry{
		{Word: "אב", Hits: []core.Hit{{Position: 10, Skip: 1}, {Position: 500, Skip: 3}}},
		{Word: "אבג", Hits: []core.Hit{{Position: 95, Skip: -2}, {Position: 140, Skip: 7}}},
		{Word: "דהו", Hits: []core.Hit{{Position: 104, Skip: 5}}},
		{Word: "זחט", Hits: []core.Hit{{Position: 300, Skip: 2}}},
	})
}

func TestFindNearby_OrdersByDistance(t *testing.T) {
	idx := nearbyFixture()

	got := idx.FindNearby(100, 50, NearbyOptions{})
	require.Len(t, got, 2)
	assert.Equal(t, "דהו", got[0].Word)
	assert.Equal(t, 4, got[0].MinDistance)
	assert.Equal(t, "אבג", got[1].Word)
	assert.Equal(t, 5, got[1].MinDistance)
	assert.Len(t, got[1].Hits, 2)
	assert.Equal(t, 2, got[1].TotalOccurrences)
}

func TestFindNearby_Filters(t *testing.T) {
	idx := nearbyFixture()

	got := idx.FindNearby(10, 100, NearbyOptions{MinWordLength: 3})
	for _, w := range got {
		assert.NotEqual(t, "אב", w.Word)
	}

	got = idx.FindNearby(100, 1000, NearbyOptions{MaxResults: 1})
	assert.Len(t, got, 1)
}

func TestPair_MinimumDistance(t *testing.T) {
	idx := nearbyFixture()

	pd, ok := idx.Pair("אב", "אבג")
	require.True(t, ok)
	assert.Equal(t, 85, pd.Distance)
	assert.Equal(t, core.Occurrence{Word: "אב", Position: 10, Skip: 1}, pd.First)
	assert.Equal(t, core.Occurrence{Word: "אבג", Position: 95, Skip: -2}, pd.Second)

	_, ok = idx.Pair("אב", "ישראל")
	assert.False(t, ok)
}

func TestDiscoverCluster(t *testing.T) {
	idx := nearbyFixture()

	cl, ok := idx.DiscoverCluster("אבג", 20, ClusterOptions{})
	require.True(t, ok)
	assert.Equal(t, core.Occurrence{Word: "אבג", Position: 95, Skip: -2}, cl.Center)
	require.Len(t, cl.Words, 1, "the seed itself is excluded")
	assert.Equal(t, "דהו", cl.Words[0].Word)
	assert.Equal(t, 104, cl.Centroid)
	assert.Equal(t, 9, cl.CentroidShift)
	assert.Equal(t, 1, cl.TotalNearby)

	_, ok = idx.DiscoverCluster("ישראל", 20, ClusterOptions{})
	assert.False(t, ok)
}
