package badger

import (
	"context"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/categorit/core"
	"github.com/poiesic/categorit/storage"
)

// FailureRepository implements storage.FailureRepository for BadgerDB.
type FailureRepository struct {
	backend *Backend
}

var _ storage.FailureRepository = (*FailureRepository)(nil)

// NewFailureRepository creates a new FailureRepository.
func NewFailureRepository(backend *Backend) (*FailureRepository, error) {
	return &FailureRepository{
		backend: backend,
	}, nil
}

// Close releases resources. FailureRepository has no resources to release.
func (r *FailureRepository) Close() error {
	return nil
}

// AddFailures stores one or more failure records. Keys are content-derived
// from the product text, so repeated failures of the same product keep a
// single durable record.
func (r *FailureRepository) AddFailures(ctx context.Context, records ...core.FailureRecord) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		for i := range records {
			record := &records[i]
			if record.Timestamp.IsZero() {
				record.Timestamp = time.Now().UTC()
			}
			key := makeFailureKey(core.IDFromContent(record.ProductText))
			if err := tx.Set(key, storage.MarshalFailureRecord(record)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// GetAllFailures retrieves every stored failure record.
func (r *FailureRepository) GetAllFailures(ctx context.Context) ([]core.FailureRecord, error) {
	var results []core.FailureRecord
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(failurePrefix + ":")
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			err := iter.Item().Value(func(val []byte) error {
				record, err := storage.UnmarshalFailureRecord(val)
				if err != nil {
					return err
				}
				results = append(results, *record)
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

// PurgeFailures removes all stored failure records.
func (r *FailureRepository) PurgeFailures(ctx context.Context) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(failurePrefix + ":")
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)

		var keys [][]byte
		for iter.Rewind(); iter.Valid(); iter.Next() {
			keys = append(keys, iter.Item().KeyCopy(nil))
		}
		iter.Close()

		for _, key := range keys {
			if err := tx.Delete(key); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}
