package lexicon

import (
	"bufio"
	"bytes"
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/poiesic/elscan/core"
)

// LoadFile reads lexicon keys from a file. See LoadKeys.
func LoadFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return LoadKeys(f)
}

// LoadKeys reads a lexicon source and returns its normalized, sorted, unique keys.
//
// Accepted forms, optionally gzip-compressed:
//   - a JSON object whose keys are words
//   - a JSON object with an "entries" object whose keys are words
//   - newline-separated words
//
// Only keys matter. Characters outside the alphabet are dropped and keys with
// fewer than core.MinWordLength letters left are skipped.
func LoadKeys(r io.Reader) ([]string, error) {
	br := bufio.NewReader(r)
	if magic, err := br.Peek(2); err == nil && magic[0] == 0x1f && magic[1] == 0x8b {
		gz, err := gzip.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("lexicon: open gzip: %w", err)
		}
		defer gz.Close()
		br = bufio.NewReader(gz)
	}

	data, err := io.ReadAll(br)
	if err != nil {
		return nil, err
	}

	var raw []string
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		raw, err = jsonKeys(trimmed)
		if err != nil {
			return nil, err
		}
	} else {
		raw = strings.Split(string(trimmed), "\n")
	}

	seen := make(map[string]struct{}, len(raw))
	keys := make([]string, 0, len(raw))
	for _, k := range raw {
		clean := cleanKey(k)
		if len([]rune(clean)) < core.MinWordLength {
			continue
		}
		if _, dup := seen[clean]; dup {
			continue
		}
		seen[clean] = struct{}{}
		keys = append(keys, clean)
	}
	slices.Sort(keys)
	return keys, nil
}

func jsonKeys(data []byte) ([]string, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil {
		return nil, fmt.Errorf("lexicon: decode json: %w", err)
	}
	if entries, ok := top["entries"]; ok {
		var inner map[string]json.RawMessage
		if err := json.Unmarshal(entries, &inner); err == nil {
			top = inner
		}
	}
	keys := make([]string, 0, len(top))
	for k := range top {
		keys = append(keys, k)
	}
	return keys, nil
}

// cleanKey normalizes k and keeps only alphabet letters.
func cleanKey(k string) string {
	var b strings.Builder
	for _, r := range core.Normalize(k) {
		if _, ok := core.LetterOf(r); ok {
			b.WriteRune(r)
		}
	}
	return b.String()
}
