// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package elscan indexes and searches equidistant letter sequences over a
// fixed, hash-verified Hebrew text.
//
// An Engine ties the pieces together: it verifies the text, builds and
// publishes the skip index into a BadgerDB store, and runs directional
// searches and proximity reports against it.
package elscan

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"sync"

	"github.com/poiesic/elscan/config"
	"github.com/poiesic/elscan/core"
	"github.com/poiesic/elscan/index"
	"github.com/poiesic/elscan/lexicon"
	"github.com/poiesic/elscan/proximity"
	"github.com/poiesic/elscan/search"
	"github.com/poiesic/elscan/storage"
	"github.com/poiesic/elscan/storage/badger"
)

type Engine struct {
	cfg        *config.Config
	backend    *badger.Backend
	indexRepo  storage.IndexRepository
	searchRepo storage.SearchRepository
	searcher   *search.Searcher
	analyzer   *proximity.Analyzer
	progress   io.Writer
	logger     *slog.Logger

	mu   sync.Mutex
	text *core.Text
	idx  *index.Index
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithProgress reports build progress to w.
func WithProgress(w io.Writer) Option {
	return func(e *Engine) {
		e.progress = w
	}
}

// WithText uses text instead of reading Text.Path. The text is still verified
// against the configured declaration.
func WithText(text *core.Text) Option {
	return func(e *Engine) {
		e.text = text
	}
}

// Open validates cfg and opens the store it names.
func Open(cfg *config.Config, opts ...Option) (*Engine, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	e := &Engine{cfg: cfg, logger: slog.Default()}
	for _, opt := range opts {
		opt(e)
	}
	if e.text != nil {
		if err := e.text.Verify(cfg.Text.Length, cfg.Text.Hash); err != nil {
			return nil, err
		}
	}

	// Open backend
	backend, err := badger.OpenBackend(cfg.Storage.Path, cfg.Storage.InMemory)
	if err != nil {
		return nil, err
	}

	indexRepo, err := badger.NewIndexRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	searchRepo, err := badger.NewSearchRepository(backend)
	if err != nil {
		indexRepo.Close()
		backend.Close()
		return nil, err
	}

	searchOpts := []search.Option{
		search.WithLogger(e.logger),
		search.WithCacheSize(cfg.Search.CacheSize),
	}
	if cfg.Search.Persist {
		searchOpts = append(searchOpts, search.WithRepository(searchRepo))
	}
	if cfg.Build.Workers > 0 {
		searchOpts = append(searchOpts, search.WithParallelism(cfg.Build.Workers))
	}
	searcher, err := search.NewSearcher(searchOpts...)
	if err != nil {
		searchRepo.Close()
		indexRepo.Close()
		backend.Close()
		return nil, err
	}

	analyzer, err := proximity.NewAnalyzer(
		proximity.WithCandidateCap(cfg.Proximity.CandidateCap),
		proximity.WithLogger(e.logger),
	)
	if err != nil {
		searchRepo.Close()
		indexRepo.Close()
		backend.Close()
		return nil, err
	}

	e.backend = backend
	e.indexRepo = indexRepo
	e.searchRepo = searchRepo
	e.searcher = searcher
	e.analyzer = analyzer
	return e, nil
}

// Close releases the repositories and the store.
func (e *Engine) Close() error {
	if err := e.searchRepo.Close(); err != nil {
		e.logger.Error("error closing search repository", "err", err)
		return err
	}
	if err := e.indexRepo.Close(); err != nil {
		e.logger.Error("error closing index repository", "err", err)
		return err
	}
	if err := e.backend.Close(); err != nil {
		e.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

func (e *Engine) Config() *config.Config {
	return e.cfg
}

// ReadText reads and normalizes a text file.
func ReadText(path string) (*core.Text, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read text %s: %w", path, err)
	}
	return core.ParseText(string(data))
}

// ReadLexicon reads a lexicon source file and builds the lexicon.
func ReadLexicon(path string, maxLen int) (*lexicon.Lexicon, error) {
	words, err := lexicon.LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read lexicon %s: %w", path, err)
	}
	return lexicon.New(words, maxLen)
}

// Text returns the verified canonical text, reading Text.Path on first use.
func (e *Engine) Text() (*core.Text, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.loadText()
}

func (e *Engine) loadText() (*core.Text, error) {
	if e.text != nil {
		return e.text, nil
	}
	if e.cfg.Text.Path == "" {
		return nil, ErrTextRequired
	}
	text, err := ReadText(e.cfg.Text.Path)
	if err != nil {
		return nil, err
	}
	if err := text.Verify(e.cfg.Text.Length, e.cfg.Text.Hash); err != nil {
		return nil, err
	}
	e.logger.Info("loaded text", "path", e.cfg.Text.Path, "letters", text.Len(), "hash", text.Hash())
	e.text = text
	return text, nil
}

// Build indexes lex over the text and publishes the result, replacing the
// current index. Only one build may run per store; a second one fails with
// storage.ErrBuildLocked. A failed or cancelled build leaves the previous
// index current.
func (e *Engine) Build(ctx context.Context, lex *lexicon.Lexicon) (core.IndexMetadata, error) {
	if lex == nil {
		return core.IndexMetadata{}, ErrLexiconRequired
	}
	text, err := e.Text()
	if err != nil {
		return core.IndexMetadata{}, err
	}

	if !e.cfg.Storage.InMemory {
		lock := storage.NewBuildLock(e.cfg.Storage.Path)
		if err := lock.TryLock(); err != nil {
			return core.IndexMetadata{}, err
		}
		defer lock.Unlock()
	}

	builderOpts := []index.Option{
		index.WithLogger(e.logger),
		index.WithMaxRetries(e.cfg.Build.MaxRetries),
		index.WithRetryDelay(e.cfg.Build.RetryDelay),
	}
	if e.cfg.Build.Workers > 0 {
		builderOpts = append(builderOpts, index.WithPoolSize(e.cfg.Build.Workers))
	}
	if e.progress != nil {
		builderOpts = append(builderOpts, index.WithProgress(e.progress, e.cfg.Build.ReportInterval))
	}
	builder, err := index.NewBuilder(builderOpts...)
	if err != nil {
		return core.IndexMetadata{}, err
	}

	idx, err := builder.Build(ctx, text, lex, index.Params{
		MaxSkip:       e.cfg.Build.MaxSkip,
		MinWordLength: e.cfg.Build.MinWordLength,
	})
	if err != nil {
		return core.IndexMetadata{}, err
	}

	if err := e.indexRepo.Publish(ctx, idx.Metadata(), idx.Entries()); err != nil {
		return core.IndexMetadata{}, fmt.Errorf("failed to publish index: %w", err)
	}

	e.mu.Lock()
	e.idx = idx
	e.mu.Unlock()
	return idx.Metadata(), nil
}

// BuildFromConfig reads the configured lexicon and builds it.
func (e *Engine) BuildFromConfig(ctx context.Context) (core.IndexMetadata, error) {
	if e.cfg.Lexicon.Path == "" {
		return core.IndexMetadata{}, ErrLexiconRequired
	}
	lex, err := ReadLexicon(e.cfg.Lexicon.Path, e.cfg.Lexicon.MaxWordLength)
	if err != nil {
		return core.IndexMetadata{}, err
	}
	e.logger.Info("loaded lexicon", "path", e.cfg.Lexicon.Path, "words", lex.Len())
	return e.Build(ctx, lex)
}

// Metadata returns the metadata of the published index.
// Returns storage.ErrNotFound if nothing has been built.
func (e *Engine) Metadata(ctx context.Context) (core.IndexMetadata, error) {
	return e.indexRepo.Metadata(ctx)
}

// Index returns the published index, loading it from the store on first use.
// If the text is already loaded, the index must have been built over it.
func (e *Engine) Index(ctx context.Context) (*index.Index, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.idx != nil {
		return e.idx, nil
	}

	meta, err := e.indexRepo.Metadata(ctx)
	if err != nil {
		return nil, err
	}
	if e.text != nil && meta.TextHash != e.text.Hash() {
		return nil, fmt.Errorf("%w: %w: index %s, text %s",
			core.ErrInputIntegrity, ErrIndexMismatch, meta.TextHash, e.text.Hash())
	}
	entries, err := e.indexRepo.Entries(ctx)
	if err != nil {
		return nil, err
	}
	e.idx = index.New(meta, entries)
	e.logger.Debug("loaded index", "buildID", meta.BuildID, "words", e.idx.Len())
	return e.idx, nil
}

// Lookup returns the indexed occurrences of word without loading the whole index.
func (e *Engine) Lookup(ctx context.Context, word string) ([]core.Occurrence, error) {
	hits, err := e.indexRepo.Lookup(ctx, word)
	if err != nil {
		return nil, err
	}
	word = core.Normalize(word)
	occs := make([]core.Occurrence, len(hits))
	for i, h := range hits {
		occs[i] = core.Occurrence{Word: word, Position: h.Position, Skip: h.Skip}
	}
	return occs, nil
}

// Stats summarizes the published index.
func (e *Engine) Stats(ctx context.Context, topN int) (index.Stats, error) {
	idx, err := e.Index(ctx)
	if err != nil {
		return index.Stats{}, err
	}
	return idx.Stats(topN), nil
}

// Search runs a directional search of pattern over the text.
func (e *Engine) Search(ctx context.Context, pattern string, minSkip, maxSkip int) ([]core.Occurrence, error) {
	text, err := e.Text()
	if err != nil {
		return nil, err
	}
	return e.searcher.Search(ctx, text, pattern, minSkip, maxSkip)
}

// SearchTerms searches several patterns concurrently.
func (e *Engine) SearchTerms(ctx context.Context, terms []string, minSkip, maxSkip int) (map[string][]core.Occurrence, error) {
	text, err := e.Text()
	if err != nil {
		return nil, err
	}
	return e.searcher.SearchTerms(ctx, text, terms, minSkip, maxSkip)
}

// NewSession returns a search session over the engine's searcher.
func (e *Engine) NewSession() *search.Session {
	return e.searcher.NewSession()
}

// Proximity searches anchor and others over [minSkip, maxSkip] and ranks the
// anchor's occurrences against each other term's.
func (e *Engine) Proximity(ctx context.Context, anchor string, others []string, minSkip, maxSkip int) (*proximity.Report, error) {
	terms := append([]string{anchor}, others...)
	occurrences, err := e.SearchTerms(ctx, terms, minSkip, maxSkip)
	if err != nil {
		return nil, err
	}
	return e.report(ctx, anchor, others, occurrences)
}

// IndexProximity is Proximity over the published index instead of a fresh search.
// Terms missing from the index have no occurrences.
func (e *Engine) IndexProximity(ctx context.Context, anchor string, others []string) (*proximity.Report, error) {
	idx, err := e.Index(ctx)
	if err != nil {
		return nil, err
	}
	occurrences := make(map[string][]core.Occurrence, len(others)+1)
	for _, term := range append([]string{anchor}, others...) {
		word := core.Normalize(term)
		occs := idx.Occurrences(word)
		slices.SortFunc(occs, search.Compare)
		occurrences[word] = occs
	}
	return e.report(ctx, anchor, others, occurrences)
}

func (e *Engine) report(ctx context.Context, anchor string, others []string, occurrences map[string][]core.Occurrence) (*proximity.Report, error) {
	return e.analyzer.Report(ctx, anchor, others, occurrences, proximity.ReportOptions{
		PerTerm: e.cfg.Proximity.PerTerm,
		Limit:   e.cfg.Proximity.Limit,
	})
}

// Matrix returns the pairwise start-distance matrix of words over the published index.
func (e *Engine) Matrix(ctx context.Context, words []string) (proximity.Matrix, error) {
	idx, err := e.Index(ctx)
	if err != nil {
		return proximity.Matrix{}, err
	}
	normalized := make([]string, len(words))
	for i, w := range words {
		normalized[i] = core.Normalize(w)
	}
	return e.analyzer.Matrix(idx, normalized), nil
}
