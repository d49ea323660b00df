package index

import (
	"cmp"
	"slices"

	"github.com/poiesic/elscan/core"
)

// NearbyOptions filters FindNearby results.
type NearbyOptions struct {
	MinWordLength int // Default 2
	MaxResults    int // Default 100
}

// NearbyHit is a hit together with its distance from the target position.
type NearbyHit struct {
	core.Hit
	Distance int
}

// NearbyWord lists a word's hits within range of a target position.
type NearbyWord struct {
	Word             string
	Hits             []NearbyHit
	MinDistance      int
	TotalOccurrences int
}

// FindNearby returns words with a hit starting within maxDistance of target,
// ordered by minimum distance and then word.
func (idx *Index) FindNearby(target, maxDistance int, opts NearbyOptions) []NearbyWord {
	if opts.MinWordLength < core.MinWordLength {
		opts.MinWordLength = core.MinWordLength
	}
	if opts.MaxResults <= 0 {
		opts.MaxResults = 100
	}

	var results []NearbyWord
	for _, w := range idx.words {
		if len([]rune(w)) < opts.MinWordLength {
			continue
		}
		hits := idx.entries[w]
		lo, _ := slices.BinarySearchFunc(hits, target-maxDistance, func(h core.Hit, pos int) int {
			return cmp.Compare(h.Position, pos)
		})

		var near []NearbyHit
		minDist := -1
		for _, h := range hits[lo:] {
			if h.Position > target+maxDistance {
				break
			}
			d := abs(h.Position - target)
			near = append(near, NearbyHit{Hit: h, Distance: d})
			if minDist < 0 || d < minDist {
				minDist = d
			}
		}
		if len(near) > 0 {
			results = append(results, NearbyWord{
				Word:             w,
				Hits:             near,
				MinDistance:      minDist,
				TotalOccurrences: len(hits),
			})
		}
	}

	slices.SortStableFunc(results, func(a, b NearbyWord) int {
		return cmp.Or(cmp.Compare(a.MinDistance, b.MinDistance), cmp.Compare(a.Word, b.Word))
	})
	if len(results) > opts.MaxResults {
		results = results[:opts.MaxResults]
	}
	return results
}

// PairDistance is the closest pair of start positions between two words.
type PairDistance struct {
	Distance int
	First    core.Occurrence
	Second   core.Occurrence
}

// Pair returns the minimum start-position distance between any hit of w1 and
// any hit of w2. Returns false if either word has no hits.
func (idx *Index) Pair(w1, w2 string) (PairDistance, bool) {
	a, b := idx.Occurrences(w1), idx.Occurrences(w2)
	if len(a) == 0 || len(b) == 0 {
		return PairDistance{}, false
	}

	// Both lists are sorted by position.
	best := PairDistance{Distance: -1}
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		d := abs(a[i].Position - b[j].Position)
		if best.Distance < 0 || d < best.Distance {
			best = PairDistance{Distance: d, First: a[i], Second: b[j]}
		}
		if a[i].Position <= b[j].Position {
			i++
		} else {
			j++
		}
	}
	return best, true
}

// ClusterOptions configures DiscoverCluster.
type ClusterOptions struct {
	TopN          int // Default 20
	MinWordLength int // Default 3
}

// Cluster is a set of words found around an occurrence of a seed word.
type Cluster struct {
	Seed          string
	Center        core.Occurrence
	Centroid      int
	CentroidShift int
	Words         []NearbyWord
	TotalNearby   int
}

// DiscoverCluster collects the words nearest to the first occurrence of seed
// and computes the centroid of their nearby hits.
// Returns false if seed has no hits.
func (idx *Index) DiscoverCluster(seed string, maxDistance int, opts ClusterOptions) (Cluster, bool) {
	if opts.TopN <= 0 {
		opts.TopN = 20
	}
	if opts.MinWordLength <= 0 {
		opts.MinWordLength = 3
	}

	occs := idx.Occurrences(seed)
	if len(occs) == 0 {
		return Cluster{}, false
	}
	center := occs[0]

	nearby := idx.FindNearby(center.Position, maxDistance, NearbyOptions{
		MinWordLength: opts.MinWordLength,
		MaxResults:    opts.TopN * 2,
	})
	others := slices.DeleteFunc(nearby, func(w NearbyWord) bool { return w.Word == center.Word })
	if len(others) > opts.TopN {
		others = others[:opts.TopN]
	}

	sum, count := 0, 0
	for _, w := range others {
		for _, h := range w.Hits {
			sum += h.Position
			count++
		}
	}
	centroid := center.Position
	if count > 0 {
		centroid = (sum + count/2) / count
	}

	return Cluster{
		Seed:          center.Word,
		Center:        center,
		Centroid:      centroid,
		CentroidShift: centroid - center.Position,
		Words:         others,
		TotalNearby:   count,
	}, true
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
