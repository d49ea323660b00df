package index

import (
	"testing"

	"github.com/poiesic/elscan/core"
	"github.com/stretchr/testify/assert"
)

func TestStats(t *testing.T) {
	many := make([]core.Hit, 150)
	for i := range many {
		many[i] = core.Hit{Position: i, Skip: 1}
	}
	idx := New(core.IndexMetadata{}, []core.IndexEntry{
		{Word: "אב", Hits: many},
		{Word: "גד", Hits: many[:12]},
		{Word: "הו", Hits: many[:3]},
		{Word: "זח", Hits: many[:3]},
	})

	stats := idx.Stats(2)
	assert.Equal(t, 4, stats.TotalWords)
	assert.Equal(t, 168, stats.TotalOccurrences)
	assert.Equal(t, map[string]int{"3": 2, "11-100": 1, "101-1000": 1}, stats.Distribution)
	assert.Equal(t, []WordCount{{Word: "אב", Count: 150}, {Word: "גד", Count: 12}}, stats.TopWords)
}

func TestBucket(t *testing.T) {
	assert.Equal(t, "1", bucket(1))
	assert.Equal(t, "10", bucket(10))
	assert.Equal(t, "11-100", bucket(11))
	assert.Equal(t, "101-1000", bucket(1000))
	assert.Equal(t, "1000+", bucket(1001))
}
