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

// Package config holds the run parameters of an elscan store: where the text,
// lexicon and database live, and how builds, searches and proximity reports run.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/poiesic/elscan/core"
	"github.com/poiesic/elscan/lexicon"
	"gopkg.in/yaml.v3"
)

// Config is the on-disk configuration.
type Config struct {
	Text      TextConfig      `yaml:"text"`
	Lexicon   LexiconConfig   `yaml:"lexicon"`
	Storage   StorageConfig   `yaml:"storage"`
	Build     BuildConfig     `yaml:"build"`
	Search    SearchConfig    `yaml:"search"`
	Proximity ProximityConfig `yaml:"proximity"`
}

// TextConfig locates the canonical text and its declared identity.
type TextConfig struct {
	// Path is a UTF-8 file holding the text. Niqqud, cantillation and
	// whitespace are stripped on load.
	Path string `yaml:"path"`

	// Length is the declared letter count. Zero skips the check.
	// Default: core.TorahLength
	Length int `yaml:"length"`

	// Hash is the declared SHA-256 hex of the normalized text. Empty skips the check.
	Hash string `yaml:"hash"`
}

// LexiconConfig locates the lexicon source.
type LexiconConfig struct {
	Path string `yaml:"path"`

	// MaxWordLength is the trie depth. Longer words are rejected.
	// Default: 10
	MaxWordLength int `yaml:"max_word_length"`
}

// StorageConfig locates the artifact store.
type StorageConfig struct {
	Path     string `yaml:"path"`
	InMemory bool   `yaml:"in_memory"`
}

// BuildConfig holds index build parameters.
type BuildConfig struct {
	// MaxSkip bounds the indexed skips to [-MaxSkip, MaxSkip] without 0.
	// Default: 100
	MaxSkip int `yaml:"max_skip"`

	// MinWordLength is the shortest word recorded.
	// Default: 2
	MinWordLength int `yaml:"min_word_length"`

	// Workers is the worker pool size. Zero means one per CPU.
	Workers int `yaml:"workers"`

	MaxRetries     int           `yaml:"max_retries"`
	RetryDelay     time.Duration `yaml:"retry_delay"`
	ReportInterval int           `yaml:"report_interval"`
}

// SearchConfig holds single-term search parameters.
type SearchConfig struct {
	MinSkip int `yaml:"min_skip"`
	MaxSkip int `yaml:"max_skip"`

	// CacheSize is the number of results kept in memory. Zero disables the cache.
	CacheSize int `yaml:"cache_size"`

	// Persist stores search artifacts next to the index.
	Persist bool `yaml:"persist"`
}

// ProximityConfig holds proximity analysis parameters.
type ProximityConfig struct {
	// CandidateCap keeps the first N occurrences of each term before pairing.
	// Zero means no cap.
	// Default: 50
	CandidateCap int `yaml:"candidate_cap"`

	PerTerm int `yaml:"per_term"`
	Limit   int `yaml:"limit"`
}

// Option is a functional option for configuring a Config.
type Option func(*Config)

// WithTextPath sets the canonical text file.
func WithTextPath(path string) Option {
	return func(c *Config) {
		c.Text.Path = path
	}
}

// WithTextDeclaration sets the declared text length and hash.
func WithTextDeclaration(length int, hash string) Option {
	return func(c *Config) {
		c.Text.Length = length
		c.Text.Hash = hash
	}
}

// WithLexiconPath sets the lexicon source file.
func WithLexiconPath(path string) Option {
	return func(c *Config) {
		c.Lexicon.Path = path
	}
}

// WithStoragePath sets the database directory.
func WithStoragePath(path string) Option {
	return func(c *Config) {
		c.Storage.Path = path
	}
}

// WithInMemoryStorage keeps all artifacts in memory.
func WithInMemoryStorage() Option {
	return func(c *Config) {
		c.Storage.InMemory = true
	}
}

// WithMaxSkip sets the build skip bound.
func WithMaxSkip(maxSkip int) Option {
	return func(c *Config) {
		c.Build.MaxSkip = maxSkip
	}
}

// WithWorkers sets the build worker pool size.
func WithWorkers(n int) Option {
	return func(c *Config) {
		c.Build.Workers = n
	}
}

// DefaultConfig returns a Config for the reference Torah text.
func DefaultConfig() *Config {
	return &Config{
		Text: TextConfig{
			Length: core.TorahLength,
		},
		Lexicon: LexiconConfig{
			MaxWordLength: lexicon.DefaultMaxLength,
		},
		Storage: StorageConfig{
			Path: "elscan.db",
		},
		Build: BuildConfig{
			MaxSkip:        100,
			MinWordLength:  core.MinWordLength,
			MaxRetries:     3,
			RetryDelay:     100 * time.Millisecond,
			ReportInterval: 5,
		},
		Search: SearchConfig{
			MinSkip:   1,
			MaxSkip:   1000,
			CacheSize: 256,
			Persist:   true,
		},
		Proximity: ProximityConfig{
			CandidateCap: 50,
			PerTerm:      5,
			Limit:        20,
		},
	}
}

// NewConfig creates a Config with the default values and applies the provided options.
func NewConfig(opts ...Option) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// LoadFile reads a YAML file over the defaults. Keys missing from the file keep
// their default value; keys present, zero included, replace it.
// ELSCAN_* environment variables are applied last.
func LoadFile(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}
	cfg.applyEnvOverrides()
	return cfg, nil
}

// applyEnvOverrides applies ELSCAN_* environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("ELSCAN_TEXT"); v != "" {
		c.Text.Path = v
	}
	if v := os.Getenv("ELSCAN_LEXICON"); v != "" {
		c.Lexicon.Path = v
	}
	if v := os.Getenv("ELSCAN_DB"); v != "" {
		c.Storage.Path = v
	}
	if v := os.Getenv("ELSCAN_MAX_SKIP"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Build.MaxSkip = n
		}
	}
	if v := os.Getenv("ELSCAN_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Build.Workers = n
		}
	}
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Validate checks that the configuration is usable. Every failure wraps
// core.ErrConfiguration.
func (c *Config) Validate() error {
	var errs []error
	if !c.Storage.InMemory && c.Storage.Path == "" {
		errs = append(errs, errors.New("storage.path is required"))
	}
	if c.Text.Length < 0 {
		errs = append(errs, fmt.Errorf("text.length %d must not be negative", c.Text.Length))
	}
	if err := core.ValidateSkipRange(1, c.Build.MaxSkip); err != nil {
		errs = append(errs, fmt.Errorf("build.max_skip: %w", err))
	}
	if err := core.ValidateWordBounds(c.Build.MinWordLength, c.Lexicon.MaxWordLength); err != nil {
		errs = append(errs, fmt.Errorf("build.min_word_length: %w", err))
	}
	if c.Build.Workers < 0 {
		errs = append(errs, fmt.Errorf("build.workers %d must not be negative", c.Build.Workers))
	}
	if c.Build.MaxRetries < 1 {
		errs = append(errs, fmt.Errorf("build.max_retries %d must be at least 1", c.Build.MaxRetries))
	}
	if c.Build.RetryDelay < 0 {
		errs = append(errs, fmt.Errorf("build.retry_delay %s must not be negative", c.Build.RetryDelay))
	}
	if err := core.ValidateSkipRange(c.Search.MinSkip, c.Search.MaxSkip); err != nil {
		errs = append(errs, fmt.Errorf("search: %w", err))
	}
	if c.Search.CacheSize < 0 {
		errs = append(errs, fmt.Errorf("search.cache_size %d must not be negative", c.Search.CacheSize))
	}
	if c.Proximity.CandidateCap < 0 {
		errs = append(errs, fmt.Errorf("proximity.candidate_cap %d must not be negative", c.Proximity.CandidateCap))
	}
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", core.ErrConfiguration, errors.Join(errs...))
}
