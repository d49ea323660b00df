package search

import (
	"bytes"
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"slices"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/poiesic/elscan/core"
	"github.com/poiesic/elscan/storage"
	"golang.org/x/sync/errgroup"
)

// DefaultCacheSize is the number of search results kept in memory.
const DefaultCacheSize = 256

// Searcher runs single-term ELS searches.
type Searcher struct {
	logger      *slog.Logger
	cacheSize   int
	cache       *lru.Cache[core.ID, []core.Occurrence]
	repository  storage.SearchRepository
	parallelism int
}

// Option configures a Searcher.
type Option func(*Searcher) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Searcher) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// WithCacheSize sets the number of results cached in memory. Zero disables the cache.
// Default is DefaultCacheSize.
func WithCacheSize(size int) Option {
	return func(s *Searcher) error {
		if size < 0 {
			return ErrInvalidCacheSize
		}
		s.cacheSize = size
		return nil
	}
}

// WithRepository persists results as search artifacts and serves repeats from it.
func WithRepository(repository storage.SearchRepository) Option {
	return func(s *Searcher) error {
		s.repository = repository
		return nil
	}
}

// WithParallelism bounds the number of terms SearchTerms runs at once.
// Default is runtime.NumCPU().
func WithParallelism(n int) Option {
	return func(s *Searcher) error {
		s.parallelism = max(n, 1)
		return nil
	}
}

// NewSearcher creates a new searcher.
func NewSearcher(opts ...Option) (*Searcher, error) {
	s := &Searcher{
		logger:      slog.Default(),
		cacheSize:   DefaultCacheSize,
		parallelism: max(runtime.NumCPU(), 1),
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	if s.cacheSize > 0 {
		cache, err := lru.New[core.ID, []core.Occurrence](s.cacheSize)
		if err != nil {
			return nil, err
		}
		s.cache = cache
	}
	return s, nil
}

// Search returns every occurrence of pattern in text for skips with
// minSkip <= |skip| <= maxSkip, in ranking order.
func (s *Searcher) Search(ctx context.Context, text *core.Text, pattern string, minSkip, maxSkip int) ([]core.Occurrence, error) {
	return s.SearchWithMonitor(ctx, text, pattern, minSkip, maxSkip, nil)
}

// SearchWithMonitor is Search with a monitor receiving callbacks at each stage.
func (s *Searcher) SearchWithMonitor(ctx context.Context, text *core.Text, pattern string, minSkip, maxSkip int, monitor SearchMonitor) ([]core.Occurrence, error) {
	if monitor == nil {
		monitor = &noopMonitor{}
	}
	if text == nil {
		return nil, ErrTextRequired
	}
	letters, err := parsePattern(pattern)
	if err != nil {
		return nil, err
	}
	if err := core.ValidateSkipRange(minSkip, maxSkip); err != nil {
		return nil, err
	}

	word := core.LettersString(letters)
	monitor.Start(word, minSkip, maxSkip)

	key := core.SearchKey(text.Hash(), word, minSkip, maxSkip)
	if occs, ok := s.cached(ctx, key, text.Hash(), monitor); ok {
		monitor.Finish(occs)
		return occs, nil
	}

	started := time.Now()
	occs, err := scan(ctx, text.Letters(), letters, minSkip, maxSkip, monitor)
	if err != nil {
		s.logger.Debug("search interrupted", "pattern", word, "err", err)
		return nil, err
	}
	s.logger.Debug("search complete",
		"pattern", word, "minSkip", minSkip, "maxSkip", maxSkip,
		"occurrences", len(occs), "duration", time.Since(started))

	s.store(ctx, key, &core.SearchArtifact{
		Key:         key,
		Pattern:     word,
		MinSkip:     minSkip,
		MaxSkip:     maxSkip,
		TextHash:    text.Hash(),
		CreatedAt:   time.Now().UTC(),
		Occurrences: occs,
	})

	monitor.Finish(occs)
	return occs, nil
}

func parsePattern(pattern string) ([]core.Letter, error) {
	letters, err := core.ParseLetters(pattern)
	if err != nil {
		return nil, err
	}
	if len(letters) == 0 {
		return nil, fmt.Errorf("%w: %w", core.ErrConfiguration, core.ErrEmptyPattern)
	}
	if err := core.ValidateWord(letters, len(letters)); err != nil {
		return nil, err
	}
	return letters, nil
}

// cached looks the key up in memory, then in the repository.
func (s *Searcher) cached(ctx context.Context, key core.ID, textHash string, monitor SearchMonitor) ([]core.Occurrence, bool) {
	if s.cache != nil {
		if occs, ok := s.cache.Get(key); ok {
			monitor.CacheHit("memory")
			return slices.Clone(occs), true
		}
	}
	if s.repository == nil {
		return nil, false
	}

	artifact, err := s.repository.LoadSearch(ctx, key)
	if err != nil {
		s.logger.Warn("failed to load search artifact", "key", key, "err", err)
		return nil, false
	}
	if artifact == nil || artifact.TextHash != textHash {
		return nil, false
	}
	monitor.CacheHit("repository")
	if s.cache != nil {
		s.cache.Add(key, artifact.Occurrences)
	}
	return slices.Clone(artifact.Occurrences), true
}

func (s *Searcher) store(ctx context.Context, key core.ID, artifact *core.SearchArtifact) {
	if s.cache != nil {
		s.cache.Add(key, slices.Clone(artifact.Occurrences))
	}
	if s.repository == nil {
		return
	}
	if err := s.repository.SaveSearch(ctx, artifact); err != nil {
		s.logger.Warn("failed to save search artifact", "key", key, "pattern", artifact.Pattern, "err", err)
	}
}

// scan runs the per-phase substring search for every skip in range.
func scan(ctx context.Context, letters, pattern []core.Letter, minSkip, maxSkip int, monitor SearchMonitor) ([]core.Occurrence, error) {
	n, k := len(letters), len(pattern)
	word := core.LettersString(pattern)

	fwd := toBytes(pattern)
	rev := slices.Clone(fwd)
	slices.Reverse(rev)
	// A palindrome's reversed matches are its forward matches.
	palindrome := bytes.Equal(fwd, rev)

	var occs []core.Occurrence
	sub := make([]byte, 0, n/minSkip+1)
	for d := minSkip; d <= maxSkip; d++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		// No k-letter sequence fits at this stride or any larger one.
		if (k-1)*d >= n {
			break
		}

		forward, backward := 0, 0
		for start := 0; start < d; start++ {
			sub = sub[:0]
			for p := start; p < n; p += d {
				sub = append(sub, byte(letters[p]))
			}
			if len(sub) < k {
				continue
			}
			for _, q := range matchOffsets(sub, fwd) {
				occs = append(occs, core.Occurrence{Word: word, Position: start + q*d, Skip: d})
				forward++
			}
			if palindrome {
				continue
			}
			for _, q := range matchOffsets(sub, rev) {
				// The match's last subsequence letter is the word's first letter.
				occs = append(occs, core.Occurrence{Word: word, Position: start + (q+k-1)*d, Skip: -d})
				backward++
			}
		}
		monitor.SkipSearched(d, forward, backward)
	}

	slices.SortFunc(occs, Compare)
	occs = slices.CompactFunc(occs, func(a, b core.Occurrence) bool {
		return a.Position == b.Position && a.Skip == b.Skip
	})
	if occs == nil {
		occs = []core.Occurrence{}
	}
	return occs, nil
}

// matchOffsets returns the offset of every match of pat in s, overlapping
// matches included.
func matchOffsets(s, pat []byte) []int {
	var offsets []int
	for off := 0; off+len(pat) <= len(s); {
		i := bytes.Index(s[off:], pat)
		if i < 0 {
			break
		}
		offsets = append(offsets, off+i)
		off += i + 1
	}
	return offsets
}

func toBytes(letters []core.Letter) []byte {
	b := make([]byte, len(letters))
	for i, l := range letters {
		b[i] = byte(l)
	}
	return b
}

// Compare orders occurrences by |skip|, then position, then forward skip first.
func Compare(a, b core.Occurrence) int {
	return cmp.Or(
		cmp.Compare(a.AbsSkip(), b.AbsSkip()),
		cmp.Compare(a.Position, b.Position),
		cmp.Compare(b.Skip, a.Skip),
	)
}

// TopK returns the first k occurrences of a ranked result.
// A negative k returns all of them.
func TopK(occs []core.Occurrence, k int) []core.Occurrence {
	if k < 0 || k >= len(occs) {
		return occs
	}
	return occs[:k]
}

// SearchTerms searches several patterns concurrently over the same skip range.
// Results are keyed by normalized pattern. The first failure cancels the rest.
func (s *Searcher) SearchTerms(ctx context.Context, text *core.Text, terms []string, minSkip, maxSkip int) (map[string][]core.Occurrence, error) {
	results := make([][]core.Occurrence, len(terms))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.parallelism)
	for i, term := range terms {
		g.Go(func() error {
			occs, err := s.Search(gctx, text, term, minSkip, maxSkip)
			if err != nil {
				return fmt.Errorf("term %q: %w", term, err)
			}
			results[i] = occs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	byTerm := make(map[string][]core.Occurrence, len(terms))
	for i, term := range terms {
		byTerm[core.Normalize(term)] = results[i]
	}
	return byTerm, nil
}
