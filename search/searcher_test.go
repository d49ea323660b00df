package search

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"slices"
	"strings"
	"sync"
	"testing"

	"github.com/poiesic/elscan/core"
	"github.com/poiesic/elscan/storage/badger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingMonitor records the callbacks it receives.
type recordingMonitor struct {
	mu        sync.Mutex
	cacheHits []string
	skips     []int
	finished  int
	onSkip    func(skip int)
}

func (m *recordingMonitor) Start(_ string, _, _ int) {}

func (m *recordingMonitor) CacheHit(source string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cacheHits = append(m.cacheHits, source)
}

func (m *recordingMonitor) SkipSearched(skip, _, _ int) {
	m.mu.Lock()
	m.skips = append(m.skips, skip)
	hook := m.onSkip
	m.mu.Unlock()
	if hook != nil {
		hook(skip)
	}
}

func (m *recordingMonitor) Finish(_ []core.Occurrence) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.finished++
}

func mustText(t *testing.T, s string) *core.Text {
	t.Helper()
	text, err := core.ParseText(s)
	require.NoError(t, err)
	return text
}

func mustSearcher(t *testing.T, opts ...Option) *Searcher {
	t.Helper()
	s, err := NewSearcher(opts...)
	require.NoError(t, err)
	return s
}

// mirroredText places אב forward at skip 5 from position 2 and backward at
// skip 5 ending at position 10.
func mirroredText() string {
	letters := []rune(strings.Repeat("ג", 20))
	letters[2] = 'א'
	letters[7] = 'ב'
	letters[15] = 'א'
	letters[10] = 'ב'
	return string(letters)
}

// bruteForce reads the pattern at every position and signed skip.
func bruteForce(text *core.Text, pattern string, minSkip, maxSkip int) []core.Occurrence {
	want, _ := core.ParseLetters(pattern)
	var occs []core.Occurrence
	for d := minSkip; d <= maxSkip; d++ {
		for _, skip := range []int{d, -d} {
			for p := 0; p < text.Len(); p++ {
				got, ok := text.Spell(p, skip, len(want))
				if ok && slices.Equal(got, want) {
					occs = append(occs, core.Occurrence{Word: core.LettersString(want), Position: p, Skip: skip})
				}
			}
		}
	}
	slices.SortFunc(occs, Compare)
	return occs
}

func TestNewSearcher(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		s, err := NewSearcher()
		require.NoError(t, err)
		assert.NotNil(t, s.cache)
	})

	t.Run("with nil logger falls back to default", func(t *testing.T) {
		s, err := NewSearcher(WithLogger(nil))
		require.NoError(t, err)
		assert.Equal(t, slog.Default(), s.logger)
	})

	t.Run("zero cache size disables cache", func(t *testing.T) {
		s, err := NewSearcher(WithCacheSize(0))
		require.NoError(t, err)
		assert.Nil(t, s.cache)
	})

	t.Run("negative cache size", func(t *testing.T) {
		_, err := NewSearcher(WithCacheSize(-1))
		assert.ErrorIs(t, err, ErrInvalidCacheSize)
	})
}

func TestSearch_ForwardAndMirroredBackward(t *testing.T) {
	text := mustText(t, mirroredText())

	occs, err := mustSearcher(t).Search(context.Background(), text, "אב", 1, 5)
	require.NoError(t, err)
	assert.Equal(t, []core.Occurrence{
		{Word: "אב", Position: 2, Skip: 5},
		{Word: "אב", Position: 15, Skip: -5},
	}, occs)

	for _, occ := range occs {
		assert.True(t, core.VerifyOccurrence(text, occ), "occurrence %+v", occ)
	}
	assert.Equal(t, []int{15, 10}, occs[1].Positions())
}

func TestSearch_MatchesBruteForce(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 5))
	raw := make([]core.Letter, 500)
	for i := range raw {
		raw[i] = core.Letter(rng.IntN(3))
	}
	text, err := core.NewText(raw)
	require.NoError(t, err)

	s := mustSearcher(t, WithCacheSize(0))
	for _, pattern := range []string{"אב", "אבג", "גגא", "בבבב", "אבא"} {
		got, err := s.Search(context.Background(), text, pattern, 1, 40)
		require.NoError(t, err)

		want := bruteForce(text, pattern, 1, 40)
		reversed := []rune(pattern)
		slices.Reverse(reversed)
		if string(reversed) == pattern {
			// Palindromes are reported at positive skips only.
			want = slices.DeleteFunc(want, func(o core.Occurrence) bool { return o.Skip < 0 })
		}
		assert.Equal(t, want, got, "pattern %s", pattern)
	}
}

func TestSearch_PalindromeForwardOnly(t *testing.T) {
	text := mustText(t, "גאבאג")

	occs, err := mustSearcher(t).Search(context.Background(), text, "אבא", 1, 2)
	require.NoError(t, err)
	assert.Equal(t, []core.Occurrence{{Word: "אבא", Position: 1, Skip: 1}}, occs)
}

func TestSearch_RankingIsTotal(t *testing.T) {
	// אב reads forward from 1 and backward from 1 at the same |skip|.
	text := mustText(t, "באבגגגאגב")

	occs, err := mustSearcher(t).Search(context.Background(), text, "אב", 1, 3)
	require.NoError(t, err)
	assert.Equal(t, []core.Occurrence{
		{Word: "אב", Position: 1, Skip: 1},
		{Word: "אב", Position: 1, Skip: -1},
		{Word: "אב", Position: 6, Skip: 2},
	}, occs)
	assert.True(t, slices.IsSortedFunc(occs, Compare))
}

func TestSearch_NormalizesPattern(t *testing.T) {
	text := mustText(t, "שלומ")

	occs, err := mustSearcher(t).Search(context.Background(), text, "שָׁלוֹם", 1, 1)
	require.NoError(t, err)
	assert.Equal(t, []core.Occurrence{{Word: "שלומ", Position: 0, Skip: 1}}, occs)
}

func TestSearch_NoMatches(t *testing.T) {
	occs, err := mustSearcher(t).Search(context.Background(), mustText(t, "גגגגג"), "אב", 1, 3)
	require.NoError(t, err)
	assert.NotNil(t, occs)
	assert.Empty(t, occs)
}

func TestSearch_InvalidInput(t *testing.T) {
	s := mustSearcher(t)
	text := mustText(t, "אבגדה")
	ctx := context.Background()

	tests := []struct {
		name    string
		text    *core.Text
		pattern string
		min     int
		max     int
		wantErr error
	}{
		{"nil text", nil, "אב", 1, 2, ErrTextRequired},
		{"empty pattern", text, "", 1, 2, core.ErrEmptyPattern},
		{"single letter", text, "א", 1, 2, core.ErrWordTooShort},
		{"non-Hebrew pattern", text, "ab", 1, 2, core.ErrInvalidLetter},
		{"zero skip", text, "אב", 0, 2, core.ErrInvalidSkipRange},
		{"inverted range", text, "אב", 3, 2, core.ErrInvalidSkipRange},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Search(ctx, tt.text, tt.pattern, tt.min, tt.max)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestSearch_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := mustSearcher(t).Search(ctx, mustText(t, mirroredText()), "אב", 1, 5)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSearch_MemoryCache(t *testing.T) {
	s := mustSearcher(t)
	text := mustText(t, mirroredText())
	monitor := &recordingMonitor{}

	first, err := s.SearchWithMonitor(context.Background(), text, "אב", 1, 5, monitor)
	require.NoError(t, err)
	assert.Empty(t, monitor.cacheHits)

	// Mutating a result must not leak into the cache.
	first[0].Position = 999

	second, err := s.SearchWithMonitor(context.Background(), text, "אב", 1, 5, monitor)
	require.NoError(t, err)
	assert.Equal(t, []string{"memory"}, monitor.cacheHits)
	assert.Equal(t, 2, second[0].Position)
	assert.Equal(t, 2, monitor.finished)
}

func TestSearch_RepositoryArtifacts(t *testing.T) {
	indexRepo, searchRepo, backend, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	defer func() {
		searchRepo.Close()
		indexRepo.Close()
		backend.Close()
	}()

	text := mustText(t, mirroredText())
	ctx := context.Background()

	writer := mustSearcher(t, WithRepository(searchRepo))
	want, err := writer.Search(ctx, text, "אב", 1, 5)
	require.NoError(t, err)

	artifact, err := searchRepo.LoadSearch(ctx, core.SearchKey(text.Hash(), "אב", 1, 5))
	require.NoError(t, err)
	require.NotNil(t, artifact)
	assert.Equal(t, text.Hash(), artifact.TextHash)
	assert.Equal(t, want, artifact.Occurrences)

	reader := mustSearcher(t, WithRepository(searchRepo), WithCacheSize(0))
	monitor := &recordingMonitor{}
	got, err := reader.SearchWithMonitor(ctx, text, "אב", 1, 5, monitor)
	require.NoError(t, err)
	assert.Equal(t, want, got)
	assert.Equal(t, []string{"repository"}, monitor.cacheHits)
	assert.Empty(t, monitor.skips, "nothing is recomputed")
}

func TestTopK(t *testing.T) {
	occs := []core.Occurrence{
		{Word: "אב", Position: 1, Skip: 1},
		{Word: "אב", Position: 4, Skip: -1},
		{Word: "אב", Position: 0, Skip: 2},
	}
	assert.Equal(t, occs[:2], TopK(occs, 2))
	assert.Equal(t, occs, TopK(occs, 10))
	assert.Equal(t, occs, TopK(occs, -1))
	assert.Empty(t, TopK(occs, 0))
}

func TestSearchTerms(t *testing.T) {
	s := mustSearcher(t, WithParallelism(2))
	text := mustText(t, mirroredText())
	ctx := context.Background()

	got, err := s.SearchTerms(ctx, text, []string{"אב", "גג", "בא"}, 1, 5)
	require.NoError(t, err)
	require.Len(t, got, 3)

	for _, term := range []string{"אב", "גג", "בא"} {
		want, err := s.Search(ctx, text, term, 1, 5)
		require.NoError(t, err)
		assert.Equal(t, want, got[term])
	}
}

func TestSearchTerms_FirstErrorFails(t *testing.T) {
	s := mustSearcher(t)
	_, err := s.SearchTerms(context.Background(), mustText(t, mirroredText()), []string{"אב", "x"}, 1, 5)
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrInvalidLetter)
	assert.Contains(t, err.Error(), `term "x"`)
}
