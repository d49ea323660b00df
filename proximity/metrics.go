package proximity

import (
	"slices"

	"github.com/poiesic/elscan/core"
)

// Scorer turns pair metrics into a score. Higher scores rank first.
type Scorer interface {
	Version() core.ScoreVersion
	Score(minDistance, rangeOverlap, skipDifference int) float64
}

// ScorerV1 is 1/(min_distance+1) + range_overlap/1000 - skip_difference/100.
type ScorerV1 struct{}

var _ Scorer = ScorerV1{}

func (ScorerV1) Version() core.ScoreVersion {
	return core.ScoreV1
}

func (ScorerV1) Score(minDistance, rangeOverlap, skipDifference int) float64 {
	return 1.0/float64(minDistance+1) + float64(rangeOverlap)/1000.0 - float64(skipDifference)/100.0
}

// Compare measures a pair and scores it with ScorerV1.
func Compare(a, b core.Occurrence) core.ProximityRecord {
	return compareWith(ScorerV1{}, a, b)
}

func compareWith(scorer Scorer, a, b core.Occurrence) core.ProximityRecord {
	d := MinDistance(a, b)
	overlap := RangeOverlap(a, b)
	skipDiff := SkipDifference(a, b)
	return core.ProximityRecord{
		Anchor:         a,
		Other:          b,
		MinDistance:    d,
		RangeOverlap:   overlap,
		SkipDifference: skipDiff,
		Score:          scorer.Score(d, overlap, skipDiff),
		ScoreVersion:   scorer.Version(),
	}
}

// MinDistance returns the smallest distance between any letter of a and any
// letter of b. Zero means the occurrences share a position.
func MinDistance(a, b core.Occurrence) int {
	pa, pb := sortedPositions(a), sortedPositions(b)
	if len(pa) == 0 || len(pb) == 0 {
		return 0
	}

	best := abs(pa[0] - pb[0])
	i, j := 0, 0
	for i < len(pa) && j < len(pb) {
		d := abs(pa[i] - pb[j])
		if d < best {
			best = d
		}
		if best == 0 {
			break
		}
		if pa[i] < pb[j] {
			i++
		} else {
			j++
		}
	}
	return best
}

// RangeOverlap returns max(0, min(hiA, hiB) - max(loA, loB)) over the two spans.
// Spans touching at a single position overlap by 0.
func RangeOverlap(a, b core.Occurrence) int {
	loA, hiA := a.Span()
	loB, hiB := b.Span()
	return max(0, min(hiA, hiB)-max(loA, loB))
}

// SkipDifference returns | |a.Skip| - |b.Skip| |.
func SkipDifference(a, b core.Occurrence) int {
	return abs(a.AbsSkip() - b.AbsSkip())
}

func sortedPositions(o core.Occurrence) []int {
	positions := o.Positions()
	if o.Skip < 0 {
		slices.Reverse(positions)
	}
	return positions
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
