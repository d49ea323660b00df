package badger

import (
	"context"
	"errors"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/elscan/core"
	"github.com/poiesic/elscan/storage"
)

// SearchRepository implements storage.SearchRepository for BadgerDB.
type SearchRepository struct {
	backend *Backend
}

var _ storage.SearchRepository = (*SearchRepository)(nil)

// NewSearchRepository creates a new SearchRepository.
func NewSearchRepository(backend *Backend) (*SearchRepository, error) {
	if backend == nil {
		return nil, storage.ErrBackendRequired
	}
	return &SearchRepository{
		backend: backend,
	}, nil
}

// Close is a no-op; the backend is closed by its owner.
func (r *SearchRepository) Close() error {
	return nil
}

// SaveSearch persists a search artifact under its key.
func (r *SearchRepository) SaveSearch(ctx context.Context, artifact *core.SearchArtifact) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		if err := tx.Set(makeSearchKey(artifact.Key), storage.MarshalSearch(artifact)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// LoadSearch retrieves a search artifact by key.
// Returns nil, nil if none exists.
func (r *SearchRepository) LoadSearch(ctx context.Context, key core.ID) (*core.SearchArtifact, error) {
	var artifact *core.SearchArtifact
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeSearchKey(key))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return nil
			}
			return err
		}
		return item.Value(func(val []byte) error {
			var unmarshalErr error
			artifact, unmarshalErr = storage.UnmarshalSearch(val)
			return unmarshalErr
		})
	}, false)
	return artifact, err
}
