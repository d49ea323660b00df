package proximity

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"slices"

	"github.com/poiesic/elscan/core"
	"github.com/poiesic/elscan/index"
	"golang.org/x/sync/errgroup"
)

// Analyzer ranks cross-pairs of occurrence sets.
type Analyzer struct {
	candidateCap int
	scorer       Scorer
	parallelism  int
	logger       *slog.Logger
}

// Option configures an Analyzer.
type Option func(*Analyzer) error

// WithCandidateCap keeps only the first n occurrences of every set before
// pairing. Sets arrive in search ranking order, so the cap keeps the smallest
// skips. Zero means no cap.
func WithCandidateCap(n int) Option {
	return func(a *Analyzer) error {
		if n < 0 {
			return ErrInvalidCandidateCap
		}
		a.candidateCap = n
		return nil
	}
}

// WithScorer replaces the default ScorerV1.
func WithScorer(scorer Scorer) Option {
	return func(a *Analyzer) error {
		if scorer == nil {
			return ErrScorerRequired
		}
		a.scorer = scorer
		return nil
	}
}

// WithParallelism bounds the number of terms Report ranks at once.
// Default is runtime.NumCPU().
func WithParallelism(n int) Option {
	return func(a *Analyzer) error {
		a.parallelism = max(n, 1)
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(a *Analyzer) error {
		if logger == nil {
			logger = slog.Default()
		}
		a.logger = logger
		return nil
	}
}

// NewAnalyzer creates a new proximity analyzer.
func NewAnalyzer(opts ...Option) (*Analyzer, error) {
	a := &Analyzer{
		scorer:      ScorerV1{},
		parallelism: max(runtime.NumCPU(), 1),
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(a); err != nil {
			return nil, err
		}
	}
	return a, nil
}

// Compare measures and scores one pair with the analyzer's scorer.
func (a *Analyzer) Compare(anchor, other core.Occurrence) core.ProximityRecord {
	return compareWith(a.scorer, anchor, other)
}

func (a *Analyzer) capped(occs []core.Occurrence) []core.Occurrence {
	if a.candidateCap > 0 && len(occs) > a.candidateCap {
		return occs[:a.candidateCap]
	}
	return occs
}

// Rank pairs every anchor occurrence with every occurrence of each other set
// and returns the records in ranking order.
func (a *Analyzer) Rank(ctx context.Context, anchor []core.Occurrence, others ...[]core.Occurrence) ([]core.ProximityRecord, error) {
	anchor = a.capped(anchor)

	sets := make([][]core.Occurrence, len(others))
	size := 0
	for i, set := range others {
		sets[i] = a.capped(set)
		size += len(anchor) * len(sets[i])
	}

	records := make([]core.ProximityRecord, 0, size)
	for _, set := range sets {
		for _, x := range anchor {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			for _, y := range set {
				records = append(records, a.Compare(x, y))
			}
		}
	}

	slices.SortFunc(records, CompareRecords)
	a.logger.Debug("ranked proximity pairs",
		"anchors", len(anchor), "sets", len(sets), "pairs", len(records))
	return records, nil
}

// CompareRecords is the ranking order: score descending, then min distance,
// then combined |skip|, then anchor and other by position, skip and word.
func CompareRecords(x, y core.ProximityRecord) int {
	return cmp.Or(
		cmp.Compare(y.Score, x.Score),
		cmp.Compare(x.MinDistance, y.MinDistance),
		cmp.Compare(x.Anchor.AbsSkip()+x.Other.AbsSkip(), y.Anchor.AbsSkip()+y.Other.AbsSkip()),
		compareOccurrence(x.Anchor, y.Anchor),
		compareOccurrence(x.Other, y.Other),
	)
}

func compareOccurrence(x, y core.Occurrence) int {
	return cmp.Or(
		cmp.Compare(x.Position, y.Position),
		cmp.Compare(x.Skip, y.Skip),
		cmp.Compare(x.Word, y.Word),
	)
}

// ReportOptions configures Report.
type ReportOptions struct {
	PerTerm int // Best pairs kept per other term, default 5
	Limit   int // Pairs kept after merging, default 20
}

// TermSummary describes one term's occurrence set.
type TermSummary struct {
	Term          string
	Occurrences   int
	MinSkip       int
	MaxSkip       int
	FirstPosition int
	LastPosition  int
}

// Report is a multi-term proximity analysis around one anchor term.
type Report struct {
	Anchor  string
	Terms   []TermSummary
	Matches []core.ProximityRecord
}

// Report ranks the anchor against each other term separately, keeps the best
// PerTerm pairs of each, and merges them into one ranking of at most Limit pairs.
// Terms with no occurrence set are summarized with zero occurrences.
func (a *Analyzer) Report(ctx context.Context, anchor string, others []string, occurrences map[string][]core.Occurrence, opts ReportOptions) (*Report, error) {
	if opts.PerTerm <= 0 {
		opts.PerTerm = 5
	}
	if opts.Limit <= 0 {
		opts.Limit = 20
	}

	anchor = core.Normalize(anchor)
	anchorOccs, ok := occurrences[anchor]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrAnchorRequired, anchor)
	}

	report := &Report{Anchor: anchor}
	report.Terms = append(report.Terms, summarize(anchor, anchorOccs))

	best := make([][]core.ProximityRecord, len(others))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.parallelism)
	for i, term := range others {
		term = core.Normalize(term)
		report.Terms = append(report.Terms, summarize(term, occurrences[term]))
		set := occurrences[term]
		if len(set) == 0 {
			continue
		}
		g.Go(func() error {
			ranked, err := a.Rank(gctx, anchorOccs, set)
			if err != nil {
				return err
			}
			best[i] = ranked[:min(opts.PerTerm, len(ranked))]
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, records := range best {
		report.Matches = append(report.Matches, records...)
	}
	slices.SortFunc(report.Matches, CompareRecords)
	if len(report.Matches) > opts.Limit {
		report.Matches = report.Matches[:opts.Limit]
	}
	return report, nil
}

func summarize(term string, occs []core.Occurrence) TermSummary {
	s := TermSummary{Term: term, Occurrences: len(occs)}
	for i, o := range occs {
		lo, hi := o.Span()
		if i == 0 {
			s.MinSkip, s.MaxSkip = o.Skip, o.Skip
			s.FirstPosition, s.LastPosition = lo, hi
			continue
		}
		s.MinSkip = min(s.MinSkip, o.Skip)
		s.MaxSkip = max(s.MaxSkip, o.Skip)
		s.FirstPosition = min(s.FirstPosition, lo)
		s.LastPosition = max(s.LastPosition, hi)
	}
	return s
}

// NoPair marks a Matrix cell whose words cannot be paired.
const NoPair = -1

// Matrix is the pairwise minimum start distance between indexed words.
type Matrix struct {
	Words     []string
	Distances [][]int
}

// Matrix computes the symmetric start-distance matrix of words over an index.
// The diagonal is 0; pairs involving a word without hits are NoPair.
func (a *Analyzer) Matrix(idx *index.Index, words []string) Matrix {
	n := len(words)
	m := Matrix{Words: words, Distances: make([][]int, n)}
	for i := range m.Distances {
		m.Distances[i] = make([]int, n)
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			d := NoPair
			if pd, ok := idx.Pair(words[i], words[j]); ok {
				d = pd.Distance
			}
			m.Distances[i][j] = d
			m.Distances[j][i] = d
		}
	}
	return m
}
