package storage

import (
	"context"

	"github.com/poiesic/elscan/core"
)

// IndexRepository persists built indices.
type IndexRepository interface {
	// Publish atomically replaces the current index with meta and entries.
	// Entries must carry hits sorted by (position, skip).
	Publish(ctx context.Context, meta core.IndexMetadata, entries []core.IndexEntry) error

	// Metadata returns the metadata of the current index.
	// Returns ErrNotFound if no index has been published.
	Metadata(ctx context.Context) (core.IndexMetadata, error)

	// Lookup returns the hits of one word in the current index.
	// Returns an empty slice if the word has no hits.
	Lookup(ctx context.Context, word string) ([]core.Hit, error)

	// Entries returns every entry of the current index in word order.
	Entries(ctx context.Context) ([]core.IndexEntry, error)

	// Close releases resources held by the repository.
	Close() error
}

// SearchRepository persists single-term search results.
type SearchRepository interface {
	// SaveSearch stores a search artifact under its key, replacing any previous one.
	SaveSearch(ctx context.Context, artifact *core.SearchArtifact) error

	// LoadSearch returns the artifact stored under key, or nil if there is none.
	LoadSearch(ctx context.Context, key core.ID) (*core.SearchArtifact, error)

	// Close releases resources held by the repository.
	Close() error
}
