package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/poiesic/elscan/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "elscan.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, core.TorahLength, cfg.Text.Length)
	assert.Equal(t, 10, cfg.Lexicon.MaxWordLength)
	assert.Equal(t, 100, cfg.Build.MaxSkip)
	assert.Equal(t, 2, cfg.Build.MinWordLength)
	assert.Equal(t, 3, cfg.Build.MaxRetries)
	assert.Equal(t, 100*time.Millisecond, cfg.Build.RetryDelay)
	assert.Equal(t, 256, cfg.Search.CacheSize)
	assert.Equal(t, 50, cfg.Proximity.CandidateCap)
	assert.NoError(t, cfg.Validate())
}

func TestNewConfig(t *testing.T) {
	t.Run("with no options", func(t *testing.T) {
		assert.Equal(t, DefaultConfig(), NewConfig())
	})

	t.Run("with multiple options", func(t *testing.T) {
		cfg := NewConfig(
			WithTextPath("torah.txt"),
			WithTextDeclaration(12, "abc"),
			WithLexiconPath("words.json.gz"),
			WithStoragePath("/tmp/els"),
			WithMaxSkip(40),
			WithWorkers(3),
		)

		assert.Equal(t, "torah.txt", cfg.Text.Path)
		assert.Equal(t, 12, cfg.Text.Length)
		assert.Equal(t, "abc", cfg.Text.Hash)
		assert.Equal(t, "words.json.gz", cfg.Lexicon.Path)
		assert.Equal(t, "/tmp/els", cfg.Storage.Path)
		assert.Equal(t, 40, cfg.Build.MaxSkip)
		assert.Equal(t, 3, cfg.Build.Workers)
	})
}

func TestLoadFile(t *testing.T) {
	t.Run("overrides only present keys", func(t *testing.T) {
		path := writeFile(t, `
text:
  path: torah.txt
  length: 0
build:
  max_skip: 25
  retry_delay: 250ms
proximity:
  candidate_cap: 0
`)
		cfg, err := LoadFile(path)
		require.NoError(t, err)

		assert.Equal(t, "torah.txt", cfg.Text.Path)
		assert.Equal(t, 0, cfg.Text.Length, "explicit zero replaces the default")
		assert.Equal(t, 25, cfg.Build.MaxSkip)
		assert.Equal(t, 250*time.Millisecond, cfg.Build.RetryDelay)
		assert.Equal(t, 0, cfg.Proximity.CandidateCap)
		assert.Equal(t, 3, cfg.Build.MaxRetries, "missing keys keep defaults")
		assert.Equal(t, 256, cfg.Search.CacheSize)
	})

	t.Run("empty path returns defaults", func(t *testing.T) {
		cfg, err := LoadFile("")
		require.NoError(t, err)
		assert.Equal(t, 100, cfg.Build.MaxSkip)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadFile(filepath.Join(t.TempDir(), "absent.yaml"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to read config file")
	})

	t.Run("malformed file", func(t *testing.T) {
		_, err := LoadFile(writeFile(t, "build: [unclosed"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to parse config file")
	})
}

func TestLoadFile_EnvOverrides(t *testing.T) {
	t.Setenv("ELSCAN_DB", "/var/lib/elscan")
	t.Setenv("ELSCAN_MAX_SKIP", "7")
	t.Setenv("ELSCAN_WORKERS", "not-a-number")

	cfg, err := LoadFile(writeFile(t, "build:\n  max_skip: 25\n  workers: 2\n"))
	require.NoError(t, err)

	assert.Equal(t, "/var/lib/elscan", cfg.Storage.Path)
	assert.Equal(t, 7, cfg.Build.MaxSkip)
	assert.Equal(t, 2, cfg.Build.Workers, "unparseable override is ignored")
}

func TestWriteYAML_RoundTrip(t *testing.T) {
	cfg := NewConfig(WithTextPath("torah.txt"), WithMaxSkip(12))
	cfg.Build.RetryDelay = 2 * time.Second
	path := filepath.Join(t.TempDir(), "out.yaml")

	require.NoError(t, cfg.WriteYAML(path))
	loaded, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		message string
	}{
		{"zero max skip", func(c *Config) { c.Build.MaxSkip = 0 }, "build.max_skip"},
		{"min word length below two", func(c *Config) { c.Build.MinWordLength = 1 }, "build.min_word_length"},
		{"max word length below min", func(c *Config) { c.Lexicon.MaxWordLength = 1 }, "build.min_word_length"},
		{"no retries", func(c *Config) { c.Build.MaxRetries = 0 }, "build.max_retries"},
		{"negative workers", func(c *Config) { c.Build.Workers = -1 }, "build.workers"},
		{"inverted search range", func(c *Config) { c.Search.MinSkip, c.Search.MaxSkip = 5, 2 }, "search"},
		{"negative cache", func(c *Config) { c.Search.CacheSize = -1 }, "search.cache_size"},
		{"negative cap", func(c *Config) { c.Proximity.CandidateCap = -3 }, "proximity.candidate_cap"},
		{"no storage path", func(c *Config) { c.Storage.Path = "" }, "storage.path"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.ErrorIs(t, err, core.ErrConfiguration)
			assert.Contains(t, err.Error(), tt.message)
		})
	}

	t.Run("in-memory storage needs no path", func(t *testing.T) {
		cfg := NewConfig(WithInMemoryStorage(), WithStoragePath(""))
		assert.NoError(t, cfg.Validate())
	})

	t.Run("collects every failure", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Build.MaxSkip = 0
		cfg.Search.CacheSize = -1
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "build.max_skip")
		assert.Contains(t, err.Error(), "search.cache_size")
	})
}
