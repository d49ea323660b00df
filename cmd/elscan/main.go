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

package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"
	"github.com/poiesic/elscan"
	"github.com/poiesic/elscan/config"
	"github.com/poiesic/elscan/core"
	"github.com/poiesic/elscan/proximity"
	"github.com/poiesic/elscan/search"
	"github.com/urfave/cli/v2"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newApp().RunContext(ctx, os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "elscan",
		Usage: "Equidistant letter sequence index, search and proximity analysis",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to YAML configuration file",
			},
			&cli.StringFlag{
				Name:    "db",
				Aliases: []string{"d"},
				Usage:   "Path to BadgerDB database directory",
			},
			&cli.StringFlag{
				Name:    "text",
				Aliases: []string{"t"},
				Usage:   "Path to the canonical text",
			},
			&cli.IntFlag{
				Name:  "length",
				Usage: "Declared text length, 0 to skip the check",
			},
			&cli.StringFlag{
				Name:  "hash",
				Usage: "Declared SHA-256 of the normalized text",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "build",
				Usage:  "Build the skip index of a lexicon and publish it",
				Action: buildCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "lexicon",
						Usage: "Path to the lexicon (JSON, optionally gzipped, or one word per line)",
					},
					&cli.IntFlag{
						Name:  "max-skip",
						Usage: "Index skips from -N to N",
					},
					&cli.IntFlag{
						Name:  "min-length",
						Usage: "Shortest word recorded",
					},
					&cli.IntFlag{
						Name:  "workers",
						Usage: "Worker pool size (0 for one per CPU)",
					},
					&cli.IntFlag{
						Name:  "max-retries",
						Usage: "Maximum attempts per skip",
					},
					&cli.DurationFlag{
						Name:  "retry-delay",
						Usage: "Base delay for exponential backoff",
					},
					&cli.IntFlag{
						Name:  "report-interval",
						Usage: "Report progress every N skips",
					},
				},
			},
			{
				Name:      "search",
				Usage:     "Search patterns directly in the text",
				ArgsUsage: "PATTERN...",
				Action:    searchCommand,
				Flags:     append(skipRangeFlags(), &cli.IntFlag{Name: "top", Usage: "Print at most N occurrences per pattern (-1 for all)", Value: 20}),
			},
			{
				Name:      "proximity",
				Usage:     "Rank the occurrences of terms by proximity to an anchor term",
				ArgsUsage: "ANCHOR TERM...",
				Action:    proximityCommand,
				Flags: append(skipRangeFlags(),
					&cli.BoolFlag{Name: "index", Usage: "Use the published index instead of searching"},
					&cli.IntFlag{Name: "per-term", Usage: "Best pairs kept per term"},
					&cli.IntFlag{Name: "limit", Usage: "Pairs printed"},
				),
			},
			{
				Name:      "lookup",
				Usage:     "Print the indexed occurrences of words",
				ArgsUsage: "WORD...",
				Action:    lookupCommand,
			},
			{
				Name:      "matrix",
				Usage:     "Print the pairwise start distances of indexed words",
				ArgsUsage: "WORD...",
				Action:    matrixCommand,
			},
			{
				Name:   "stats",
				Usage:  "Summarize the published index",
				Action: statsCommand,
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "top", Usage: "Most frequent words shown", Value: 10},
				},
			},
			{
				Name:   "init-config",
				Usage:  "Write the default configuration to a file",
				Action: initConfigCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "Output path", Value: "elscan.yaml"},
				},
			},
		},
	}
}

func skipRangeFlags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{Name: "min-skip", Usage: "Smallest skip magnitude"},
		&cli.IntFlag{Name: "max-skip", Usage: "Largest skip magnitude"},
	}
}

// loadConfig reads the configuration file and applies flags that were set.
func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg, err := config.LoadFile(c.String("config"))
	if err != nil {
		return nil, err
	}
	if c.IsSet("db") {
		cfg.Storage.Path = c.String("db")
	}
	if c.IsSet("text") {
		cfg.Text.Path = c.String("text")
	}
	if c.IsSet("length") {
		cfg.Text.Length = c.Int("length")
	}
	if c.IsSet("hash") {
		cfg.Text.Hash = c.String("hash")
	}
	return cfg, nil
}

func openEngine(c *cli.Context, cfg *config.Config) (*elscan.Engine, error) {
	var opts []elscan.Option
	if isTerminal(c.App.ErrWriter) {
		opts = append(opts, elscan.WithProgress(c.App.ErrWriter))
	}
	engine, err := elscan.Open(cfg, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return engine, nil
}

// isTerminal reports whether w is a terminal. Progress lines redraw in place
// and are only written to terminals.
func isTerminal(w io.Writer) bool {
	if f, ok := w.(*os.File); ok {
		return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return false
}

func buildCommand(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	if c.IsSet("lexicon") {
		cfg.Lexicon.Path = c.String("lexicon")
	}
	if c.IsSet("max-skip") {
		cfg.Build.MaxSkip = c.Int("max-skip")
	}
	if c.IsSet("min-length") {
		cfg.Build.MinWordLength = c.Int("min-length")
	}
	if c.IsSet("workers") {
		cfg.Build.Workers = c.Int("workers")
	}
	if c.IsSet("max-retries") {
		cfg.Build.MaxRetries = c.Int("max-retries")
	}
	if c.IsSet("retry-delay") {
		cfg.Build.RetryDelay = c.Duration("retry-delay")
	}
	if c.IsSet("report-interval") {
		cfg.Build.ReportInterval = c.Int("report-interval")
	}

	engine, err := openEngine(c, cfg)
	if err != nil {
		return err
	}
	defer engine.Close()

	errw := c.App.ErrWriter
	fmt.Fprintf(errw, "Database: %s\n", cfg.Storage.Path)
	fmt.Fprintf(errw, "Text: %s\n", cfg.Text.Path)
	fmt.Fprintf(errw, "Lexicon: %s\n", cfg.Lexicon.Path)
	fmt.Fprintf(errw, "Skips: -%d..%d\n", cfg.Build.MaxSkip, cfg.Build.MaxSkip)
	fmt.Fprintln(errw)

	started := time.Now()
	meta, err := engine.BuildFromConfig(c.Context)
	if err != nil {
		return fmt.Errorf("build failed: %w", err)
	}

	fmt.Fprintf(c.App.Writer, "Built index %d in %v: %s words, %s occurrences\n",
		meta.BuildID, time.Since(started).Round(time.Millisecond),
		humanize.Comma(int64(meta.TotalWords)), humanize.Comma(int64(meta.TotalOccurrences)))
	return nil
}

func skipRange(c *cli.Context, cfg *config.Config) (int, int) {
	minSkip, maxSkip := cfg.Search.MinSkip, cfg.Search.MaxSkip
	if c.IsSet("min-skip") {
		minSkip = c.Int("min-skip")
	}
	if c.IsSet("max-skip") {
		maxSkip = c.Int("max-skip")
	}
	return minSkip, maxSkip
}

func searchCommand(c *cli.Context) error {
	patterns := c.Args().Slice()
	if len(patterns) == 0 {
		return fmt.Errorf("at least one pattern is required")
	}
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	engine, err := openEngine(c, cfg)
	if err != nil {
		return err
	}
	defer engine.Close()

	minSkip, maxSkip := skipRange(c, cfg)
	results, err := engine.SearchTerms(c.Context, patterns, minSkip, maxSkip)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	out := c.App.Writer
	for _, pattern := range patterns {
		word := core.Normalize(pattern)
		occs := results[word]
		fmt.Fprintf(out, "%s: %s occurrences (skips %d..%d)\n", word, humanize.Comma(int64(len(occs))), minSkip, maxSkip)
		for _, occ := range search.TopK(occs, c.Int("top")) {
			printOccurrence(out, occ)
		}
	}
	return nil
}

func proximityCommand(c *cli.Context) error {
	args := c.Args().Slice()
	if len(args) < 2 {
		return fmt.Errorf("an anchor and at least one other term are required")
	}
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	if c.IsSet("per-term") {
		cfg.Proximity.PerTerm = c.Int("per-term")
	}
	if c.IsSet("limit") {
		cfg.Proximity.Limit = c.Int("limit")
	}
	engine, err := openEngine(c, cfg)
	if err != nil {
		return err
	}
	defer engine.Close()

	anchor, others := args[0], args[1:]
	var report *proximity.Report
	if c.Bool("index") {
		report, err = engine.IndexProximity(c.Context, anchor, others)
	} else {
		minSkip, maxSkip := skipRange(c, cfg)
		report, err = engine.Proximity(c.Context, anchor, others, minSkip, maxSkip)
	}
	if err != nil {
		return fmt.Errorf("proximity analysis failed: %w", err)
	}

	out := c.App.Writer
	fmt.Fprintf(out, "Anchor: %s\n", report.Anchor)
	for _, term := range report.Terms {
		if term.Occurrences == 0 {
			fmt.Fprintf(out, "  %s: no occurrences\n", term.Term)
			continue
		}
		fmt.Fprintf(out, "  %s: %s occurrences, skips %d..%d, positions %d..%d\n",
			term.Term, humanize.Comma(int64(term.Occurrences)), term.MinSkip, term.MaxSkip, term.FirstPosition, term.LastPosition)
	}
	fmt.Fprintln(out)
	for i, m := range report.Matches {
		fmt.Fprintf(out, "%d. %s@%d/%d  %s@%d/%d  distance=%d overlap=%d skipdiff=%d score=%.4f\n",
			i+1, m.Anchor.Word, m.Anchor.Position, m.Anchor.Skip, m.Other.Word, m.Other.Position, m.Other.Skip,
			m.MinDistance, m.RangeOverlap, m.SkipDifference, m.Score)
	}
	return nil
}

func lookupCommand(c *cli.Context) error {
	words := c.Args().Slice()
	if len(words) == 0 {
		return fmt.Errorf("at least one word is required")
	}
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	engine, err := openEngine(c, cfg)
	if err != nil {
		return err
	}
	defer engine.Close()

	out := c.App.Writer
	for _, w := range words {
		occs, err := engine.Lookup(c.Context, w)
		if err != nil {
			return fmt.Errorf("lookup failed: %w", err)
		}
		fmt.Fprintf(out, "%s: %s occurrences\n", core.Normalize(w), humanize.Comma(int64(len(occs))))
		for _, occ := range occs {
			printOccurrence(out, occ)
		}
	}
	return nil
}

func matrixCommand(c *cli.Context) error {
	words := c.Args().Slice()
	if len(words) < 2 {
		return fmt.Errorf("at least two words are required")
	}
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	engine, err := openEngine(c, cfg)
	if err != nil {
		return err
	}
	defer engine.Close()

	m, err := engine.Matrix(c.Context, words)
	if err != nil {
		return fmt.Errorf("matrix failed: %w", err)
	}

	out := c.App.Writer
	fmt.Fprintf(out, "\t%s\n", strings.Join(m.Words, "\t"))
	for i, row := range m.Distances {
		cells := make([]string, len(row))
		for j, d := range row {
			if d == proximity.NoPair {
				cells[j] = "-"
				continue
			}
			cells[j] = fmt.Sprint(d)
		}
		fmt.Fprintf(out, "%s\t%s\n", m.Words[i], strings.Join(cells, "\t"))
	}
	return nil
}

func statsCommand(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	engine, err := openEngine(c, cfg)
	if err != nil {
		return err
	}
	defer engine.Close()

	meta, err := engine.Metadata(c.Context)
	if err != nil {
		return fmt.Errorf("no index: %w", err)
	}
	stats, err := engine.Stats(c.Context, c.Int("top"))
	if err != nil {
		return err
	}

	out := c.App.Writer
	fmt.Fprintf(out, "Build: %d (%s)\n", meta.BuildID, humanize.Time(meta.CreatedAt))
	fmt.Fprintf(out, "Text: %s letters, sha256 %s\n", humanize.Comma(int64(meta.TextLength)), meta.TextHash)
	fmt.Fprintf(out, "Skips: %d..%d\n", meta.MinSkip, meta.MaxSkip)
	fmt.Fprintf(out, "Lexicon: %s words, lengths %d..%d\n",
		humanize.Comma(int64(meta.DictionarySize)), meta.MinWordLength, meta.MaxWordLength)
	fmt.Fprintf(out, "Found: %s words, %s occurrences\n",
		humanize.Comma(int64(stats.TotalWords)), humanize.Comma(int64(stats.TotalOccurrences)))

	fmt.Fprintln(out, "\nDistribution:")
	for _, b := range []string{"1", "2", "3", "4", "5", "6", "7", "8", "9", "10", "11-100", "101-1000", "1000+"} {
		if n := stats.Distribution[b]; n > 0 {
			fmt.Fprintf(out, "  %8s: %s words\n", b, humanize.Comma(int64(n)))
		}
	}
	fmt.Fprintln(out, "\nTop words:")
	for _, wc := range stats.TopWords {
		fmt.Fprintf(out, "  %s: %s\n", wc.Word, humanize.Comma(int64(wc.Count)))
	}
	return nil
}

func initConfigCommand(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	path := c.String("out")
	if err := cfg.WriteYAML(path); err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "Wrote %s\n", path)
	return nil
}

func printOccurrence(w io.Writer, occ core.Occurrence) {
	fmt.Fprintf(w, "  position=%d skip=%d\n", occ.Position, occ.Skip)
}

func setupLogger(c *cli.Context) error {
	// Get log level from flag and normalize to lowercase
	levelStr := strings.ToLower(c.String("log-level"))

	// Map string to slog.Level
	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(c.App.ErrWriter, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
