package badger

import (
	"context"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/categorit/core"
	"github.com/poiesic/categorit/storage"
)

// CorrectionRepository implements storage.CorrectionRepository for BadgerDB.
type CorrectionRepository struct {
	backend *Backend
}

var _ storage.CorrectionRepository = (*CorrectionRepository)(nil)

// NewCorrectionRepository creates a new CorrectionRepository.
func NewCorrectionRepository(backend *Backend) (*CorrectionRepository, error) {
	return &CorrectionRepository{
		backend: backend,
	}, nil
}

// Close releases resources. CorrectionRepository has no resources to release.
func (r *CorrectionRepository) Close() error {
	return nil
}

// PutCorrections stores one or more correction entries. Keys are
// content-derived from the entry key text, so re-adding a correction for
// the same key overwrites the previous value.
func (r *CorrectionRepository) PutCorrections(ctx context.Context, entries ...core.CorrectionEntry) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		for i := range entries {
			entry := &entries[i]
			key := makeCorrectionKey(core.IDFromContent(entry.Key))
			if err := tx.Set(key, storage.MarshalCorrectionEntry(entry)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// GetAllCorrections retrieves every stored correction entry.
func (r *CorrectionRepository) GetAllCorrections(ctx context.Context) ([]core.CorrectionEntry, error) {
	var results []core.CorrectionEntry
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(correctionPrefix + ":")
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			err := iter.Item().Value(func(val []byte) error {
				entry, err := storage.UnmarshalCorrectionEntry(val)
				if err != nil {
					return err
				}
				results = append(results, *entry)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	}, false)
	return results, err
}
