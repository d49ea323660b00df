package index

import (
	"cmp"
	"slices"
	"strconv"
)

// WordCount is a word and its occurrence count.
type WordCount struct {
	Word  string
	Count int
}

// Stats summarizes an index.
type Stats struct {
	TotalWords       int
	TotalOccurrences int
	// Distribution buckets words by occurrence count: "1".."10", "11-100",
	// "101-1000" and "1000+".
	Distribution map[string]int
	TopWords     []WordCount
}

// Stats computes summary statistics with the topN most frequent words,
// ordered by count descending and then word.
func (idx *Index) Stats(topN int) Stats {
	stats := Stats{
		TotalWords:       len(idx.words),
		TotalOccurrences: idx.total,
		Distribution:     make(map[string]int),
	}

	counts := make([]WordCount, 0, len(idx.words))
	for _, w := range idx.words {
		n := len(idx.entries[w])
		counts = append(counts, WordCount{Word: w, Count: n})
		stats.Distribution[bucket(n)]++
	}

	slices.SortFunc(counts, func(a, b WordCount) int {
		return cmp.Or(cmp.Compare(b.Count, a.Count), cmp.Compare(a.Word, b.Word))
	})
	if topN >= 0 && len(counts) > topN {
		counts = counts[:topN]
	}
	stats.TopWords = counts
	return stats
}

func bucket(n int) string {
	switch {
	case n <= 10:
		return strconv.Itoa(n)
	case n <= 100:
		return "11-100"
	case n <= 1000:
		return "101-1000"
	default:
		return "1000+"
	}
}
