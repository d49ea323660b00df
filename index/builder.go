package index

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"runtime"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/elscan/core"
	"github.com/poiesic/elscan/lexicon"
)

// Params are the per-build parameters.
type Params struct {
	// MaxSkip bounds the skip range to [-MaxSkip, MaxSkip] without 0.
	MaxSkip int
	// MinWordLength is the shortest word recorded. Shorter lexicon words still
	// act as trie prefixes but produce no hits.
	MinWordLength int
}

// wordHit is one match found during a single skip's walk.
type wordHit struct {
	word     int32
	position int32
}

// skipResult is the immutable output of one skip. Each build task owns exactly
// one result slot, so no locking is needed while the build runs.
type skipResult struct {
	skip int
	hits []wordHit
}

type scanFunc func(text *core.Text, trie *lexicon.Trie, skip, minLen int) []wordHit

// Builder builds indices over a worker pool, one task per skip value.
type Builder struct {
	poolSize       int
	maxRetries     int
	retryDelay     time.Duration
	progress       io.Writer
	reportInterval int
	logger         *slog.Logger
	scan           scanFunc
}

// Option configures a Builder.
type Option func(*Builder) error

// WithPoolSize sets the number of skips processed concurrently.
// Default is runtime.NumCPU(), with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(b *Builder) error {
		if size < 1 {
			size = 1
		}
		b.poolSize = size
		return nil
	}
}

// WithMaxRetries sets the number of attempts per skip before the build fails.
func WithMaxRetries(attempts int) Option {
	return func(b *Builder) error {
		if attempts < 1 {
			return ErrInvalidMaxAttempts
		}
		b.maxRetries = attempts
		return nil
	}
}

// WithRetryDelay sets the base delay for exponential backoff between skip attempts.
func WithRetryDelay(delay time.Duration) Option {
	return func(b *Builder) error {
		b.retryDelay = delay
		return nil
	}
}

// WithProgress writes progress to w every interval completed skips.
func WithProgress(w io.Writer, interval int) Option {
	return func(b *Builder) error {
		b.progress = w
		b.reportInterval = interval
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(b *Builder) error {
		if logger == nil {
			logger = slog.Default()
		}
		b.logger = logger
		return nil
	}
}

// NewBuilder creates a new index builder.
func NewBuilder(opts ...Option) (*Builder, error) {
	b := &Builder{
		poolSize:       max(runtime.NumCPU(), 1),
		maxRetries:     3,
		retryDelay:     100 * time.Millisecond,
		reportInterval: 5,
		logger:         slog.Default(),
		scan:           scanSkip,
	}
	for _, opt := range opts {
		if err := opt(b); err != nil {
			return nil, err
		}
	}
	return b, nil
}

// Skips returns the skip values of a build in processing order:
// -maxSkip..-1 then 1..maxSkip.
func Skips(maxSkip int) []int {
	if maxSkip < 1 {
		return nil
	}
	skips := make([]int, 0, 2*maxSkip)
	for s := -maxSkip; s <= maxSkip; s++ {
		if s != 0 {
			skips = append(skips, s)
		}
	}
	return skips
}

// Validate checks build inputs before any work starts.
func Validate(text *core.Text, lex *lexicon.Lexicon, params Params) error {
	if text == nil {
		return ErrTextRequired
	}
	if lex == nil {
		return ErrLexiconRequired
	}
	if err := core.ValidateSkipRange(1, params.MaxSkip); err != nil {
		return err
	}
	if err := core.ValidateWordBounds(params.MinWordLength, lex.MaxLength()); err != nil {
		return err
	}
	if lex.Len() > 0 && params.MinWordLength > lex.LongestLength() {
		return fmt.Errorf("%w: %w: minimum word length %d exceeds longest lexicon word (%d letters)",
			core.ErrConfiguration, core.ErrInvalidWordLength, params.MinWordLength, lex.LongestLength())
	}
	return nil
}

// Build computes the full index of lex over text for params.
//
// Cancelling ctx stops new skips from being launched; skips already running
// finish their walk and are then discarded along with everything else.
// Returns core.ErrPartialBuild if the build did not cover every skip.
func (b *Builder) Build(ctx context.Context, text *core.Text, lex *lexicon.Lexicon, params Params) (*Index, error) {
	if err := Validate(text, lex, params); err != nil {
		return nil, err
	}

	skips := Skips(params.MaxSkip)
	b.logger.Info("starting index build",
		"skips", len(skips), "words", lex.Len(), "textLength", text.Len(), "workers", b.poolSize)

	pool, err := ants.NewPool(b.poolSize)
	if err != nil {
		return nil, err
	}
	defer pool.Release()

	var tracker *ProgressTracker
	if b.progress != nil {
		tracker = NewProgressTracker(b.progress, len(skips), b.reportInterval)
		tracker.Start()
	}

	results := make([]skipResult, len(skips))
	errs := make([]error, len(skips))
	launched := 0

	var wg sync.WaitGroup
	for i, skip := range skips {
		if ctx.Err() != nil {
			break
		}
		wg.Add(1)
		submitErr := pool.Submit(func() {
			defer wg.Done()
			results[i], errs[i] = b.runSkip(ctx, text, lex.Trie(), skip, params.MinWordLength)
			if tracker != nil && errs[i] == nil {
				tracker.SkipDone(len(results[i].hits))
			}
		})
		if submitErr != nil {
			wg.Done()
			errs[i] = submitErr
			break
		}
		launched++
	}
	wg.Wait()

	if tracker != nil {
		tracker.Finish()
	}

	if launched < len(skips) {
		cause := ctx.Err()
		for _, e := range errs {
			if e != nil {
				cause = e
				break
			}
		}
		b.logger.Warn("index build interrupted", "launched", launched, "skips", len(skips), "err", cause)
		return nil, fmt.Errorf("%w: %d of %d skips launched: %w", core.ErrPartialBuild, launched, len(skips), cause)
	}
	for i, e := range errs {
		if e != nil {
			b.logger.Error("skip failed", "skip", skips[i], "err", e)
			return nil, fmt.Errorf("%w: skip %d: %w", core.ErrPartialBuild, skips[i], e)
		}
	}

	idx := merge(results, lex)
	idx.meta = core.IndexMetadata{
		Version:          core.IndexVersion,
		BuildID:          BuildID(text, lex, params),
		CreatedAt:        time.Now().UTC(),
		TextLength:       text.Len(),
		TextHash:         text.Hash(),
		MinSkip:          -params.MaxSkip,
		MaxSkip:          params.MaxSkip,
		DictionarySize:   lex.Len(),
		MinWordLength:    params.MinWordLength,
		MaxWordLength:    lex.MaxLength(),
		TotalWords:       len(idx.words),
		TotalOccurrences: idx.total,
	}

	b.logger.Info("index build complete",
		"words", idx.meta.TotalWords, "occurrences", idx.meta.TotalOccurrences, "buildID", idx.meta.BuildID)
	return idx, nil
}

// runSkip runs one skip's walk with retries. A failed attempt's hits are discarded.
func (b *Builder) runSkip(ctx context.Context, text *core.Text, trie *lexicon.Trie, skip, minLen int) (skipResult, error) {
	var hits []wordHit
	retry := retrier{attempts: b.maxRetries, baseDelay: b.retryDelay, logger: b.logger}
	err := retry.do(ctx, skip, func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				hits = nil
				err = fmt.Errorf("%w: %v", ErrSkipFailed, r)
			}
		}()
		hits = b.scan(text, trie, skip, minLen)
		return nil
	})
	if err != nil {
		return skipResult{}, err
	}
	return skipResult{skip: skip, hits: hits}, nil
}

// scanSkip walks the trie from every start position at one skip.
// A walk stops as soon as the next position leaves the text or no edge matches.
func scanSkip(text *core.Text, trie *lexicon.Trie, skip, minLen int) []wordHit {
	letters := text.Letters()
	n := len(letters)
	maxDepth := trie.MaxLength()

	var hits []wordHit
	for start := 0; start < n; start++ {
		cur := lexicon.Root
		pos := start
		for depth := 1; depth <= maxDepth && pos >= 0 && pos < n; depth++ {
			next, ok := trie.Child(cur, letters[pos])
			if !ok {
				break
			}
			cur = next
			if id, ok := trie.Word(cur); ok && depth >= minLen {
				hits = append(hits, wordHit{word: id, position: int32(start)})
			}
			pos += skip
		}
	}
	return hits
}

// merge concatenates per-skip results per word and sorts each word's hits.
func merge(results []skipResult, lex *lexicon.Lexicon) *Index {
	counts := make([]int, lex.Len())
	for _, r := range results {
		for _, h := range r.hits {
			counts[h.word]++
		}
	}

	perWord := make([][]core.Hit, lex.Len())
	for id, c := range counts {
		if c > 0 {
			perWord[id] = make([]core.Hit, 0, c)
		}
	}
	for _, r := range results {
		for _, h := range r.hits {
			perWord[h.word] = append(perWord[h.word], core.Hit{Position: int(h.position), Skip: r.skip})
		}
	}

	idx := &Index{entries: make(map[string][]core.Hit)}
	for id, hits := range perWord {
		if len(hits) == 0 {
			continue
		}
		slices.SortFunc(hits, core.Hit.Compare)
		word := lex.Word(int32(id))
		idx.entries[word] = hits
		idx.words = append(idx.words, word)
		idx.total += len(hits)
	}
	// Word IDs follow sorted word order, so idx.words is already sorted.
	return idx
}

// BuildID derives a deterministic ID from the text, lexicon and parameters.
func BuildID(text *core.Text, lex *lexicon.Lexicon, params Params) core.ID {
	var sb strings.Builder
	sb.WriteString(text.Hash())
	sb.WriteByte('|')
	sb.WriteString(strconv.Itoa(params.MaxSkip))
	sb.WriteByte('|')
	sb.WriteString(strconv.Itoa(params.MinWordLength))
	sb.WriteByte('|')
	sb.WriteString(strconv.Itoa(lex.MaxLength()))
	for _, w := range lex.Words() {
		sb.WriteByte('|')
		sb.WriteString(w)
	}
	return core.IDFromContent(sb.String())
}
