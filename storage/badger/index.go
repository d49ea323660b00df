package badger

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/elscan/core"
	"github.com/poiesic/elscan/storage"
)

// IndexRepository implements storage.IndexRepository for BadgerDB.
//
// Each Publish writes a fresh generation of keys and then flips the current
// generation pointer in a single transaction.
type IndexRepository struct {
	backend *Backend
	genSeq  *badger.Sequence
}

var _ storage.IndexRepository = (*IndexRepository)(nil)

// NewIndexRepository creates a new IndexRepository.
func NewIndexRepository(backend *Backend) (*IndexRepository, error) {
	if backend == nil {
		return nil, storage.ErrBackendRequired
	}
	genSeq, err := backend.GetSequence(indexGenSeq)
	if err != nil {
		return nil, err
	}
	return &IndexRepository{
		backend: backend,
		genSeq:  genSeq,
	}, nil
}

// Close releases the generation sequence.
func (r *IndexRepository) Close() error {
	return r.genSeq.Release()
}

func (r *IndexRepository) nextGen() (uint64, error) {
	gen, err := r.genSeq.Next()
	if err != nil {
		return 0, err
	}
	// BadgerDB sequences can return 0 on first call, so we skip it
	if gen == 0 {
		return r.genSeq.Next()
	}
	return gen, nil
}

// Publish writes meta and entries as a new generation and makes it current.
// On failure or cancellation the new generation is dropped and the previous
// index stays current.
func (r *IndexRepository) Publish(ctx context.Context, meta core.IndexMetadata, entries []core.IndexEntry) error {
	gen, err := r.nextGen()
	if err != nil {
		return err
	}

	if err := r.writeGeneration(ctx, gen, meta, entries); err != nil {
		if dropErr := r.backend.DropPrefix(makeGenPrefix(gen)); dropErr != nil {
			r.backend.logger.Warn("failed to drop incomplete generation", "generation", gen, "err", dropErr)
		}
		return err
	}

	err = r.backend.WithTx(func(tx *badger.Txn) error {
		if err := tx.Set([]byte(indexCurrentKey), storage.MarshalID(core.ID(gen))); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
	if err != nil {
		return err
	}
	r.backend.logger.Info("published index",
		"generation", gen, "words", len(entries), "occurrences", meta.TotalOccurrences, "buildID", meta.BuildID)

	// Superseded and orphaned generations are garbage from here on.
	if err := r.dropStale(gen); err != nil {
		r.backend.logger.Warn("failed to drop stale generations", "err", err)
	}
	return nil
}

func (r *IndexRepository) writeGeneration(ctx context.Context, gen uint64, meta core.IndexMetadata, entries []core.IndexEntry) error {
	wb := r.backend.NewWriteBatch()
	defer wb.Cancel()

	for i, e := range entries {
		if i%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		if len(e.Hits) == 0 {
			continue
		}
		if err := wb.Set(makeGenEntryKey(gen, e.Word), storage.MarshalHits(e.Hits)); err != nil {
			return err
		}
	}
	if err := wb.Set(makeGenMetaKey(gen), storage.MarshalIndexMetadata(meta)); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return wb.Flush()
}

// dropStale removes every generation other than keep.
func (r *IndexRepository) dropStale(keep uint64) error {
	var stale [][]byte
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = []byte(indexGenPrefix)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); {
			gen, ok := parseGen(iter.Item().Key())
			if !ok {
				iter.Next()
				continue
			}
			if gen != keep {
				stale = append(stale, makeGenPrefix(gen))
			}
			// Jump to the next generation
			iter.Seek(makeGenPrefix(gen + 1))
		}
		return nil
	}, false)
	if err != nil {
		return err
	}
	if len(stale) == 0 {
		return nil
	}
	r.backend.logger.Debug("dropping stale generations", "count", len(stale))
	return r.backend.DropPrefix(stale...)
}

// currentGen reads the current generation pointer.
func currentGen(tx *badger.Txn) (uint64, error) {
	item, err := tx.Get([]byte(indexCurrentKey))
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return 0, storage.ErrNotFound
		}
		return 0, err
	}
	var gen core.ID
	err = item.Value(func(val []byte) error {
		var unmarshalErr error
		gen, unmarshalErr = storage.UnmarshalID(val)
		return unmarshalErr
	})
	return uint64(gen), err
}

// Metadata returns the metadata of the current index.
func (r *IndexRepository) Metadata(ctx context.Context) (core.IndexMetadata, error) {
	var meta core.IndexMetadata
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		gen, err := currentGen(tx)
		if err != nil {
			return err
		}
		item, err := tx.Get(makeGenMetaKey(gen))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return fmt.Errorf("%w: metadata of generation %d", storage.ErrNotFound, gen)
			}
			return err
		}
		return item.Value(func(val []byte) error {
			var unmarshalErr error
			meta, unmarshalErr = storage.UnmarshalIndexMetadata(val)
			return unmarshalErr
		})
	}, false)
	return meta, err
}

// Lookup returns the hits of one word in the current index.
func (r *IndexRepository) Lookup(ctx context.Context, word string) ([]core.Hit, error) {
	hits := []core.Hit{}
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		gen, err := currentGen(tx)
		if err != nil {
			return err
		}
		item, err := tx.Get(makeGenEntryKey(gen, core.Normalize(word)))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return nil
			}
			return err
		}
		return item.Value(func(val []byte) error {
			var unmarshalErr error
			hits, unmarshalErr = storage.UnmarshalHits(val)
			return unmarshalErr
		})
	}, false)
	if err != nil {
		return nil, err
	}
	return hits, nil
}

// Entries returns every entry of the current index in word order.
func (r *IndexRepository) Entries(ctx context.Context) ([]core.IndexEntry, error) {
	var entries []core.IndexEntry
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		gen, err := currentGen(tx)
		if err != nil {
			return err
		}

		prefix := makeGenEntriesPrefix(gen)
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			item := iter.Item()
			word := string(bytes.TrimPrefix(item.Key(), prefix))
			err := item.Value(func(val []byte) error {
				hits, unmarshalErr := storage.UnmarshalHits(val)
				if unmarshalErr != nil {
					return fmt.Errorf("word %s: %w", word, unmarshalErr)
				}
				entries = append(entries, core.IndexEntry{Word: word, Hits: hits})
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}
	return entries, nil
}
