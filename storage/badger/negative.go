package badger

import (
	"context"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/categorit/core"
	"github.com/poiesic/categorit/storage"
)

// NegativeExampleRepository implements storage.NegativeExampleRepository
// for BadgerDB.
type NegativeExampleRepository struct {
	backend *Backend
}

var _ storage.NegativeExampleRepository = (*NegativeExampleRepository)(nil)

// NewNegativeExampleRepository creates a new NegativeExampleRepository.
func NewNegativeExampleRepository(backend *Backend) (*NegativeExampleRepository, error) {
	return &NegativeExampleRepository{
		backend: backend,
	}, nil
}

// Close releases resources. NegativeExampleRepository has no resources to
// release.
func (r *NegativeExampleRepository) Close() error {
	return nil
}

// AddNegativeExamples stores one or more negative examples. Keys are
// content-derived from the example tuple, so duplicate submissions of the
// same forbidden triple collapse into one record.
func (r *NegativeExampleRepository) AddNegativeExamples(ctx context.Context, examples ...core.NegativeExample) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		for i := range examples {
			example := &examples[i]
			if example.Timestamp.IsZero() {
				example.Timestamp = time.Now().UTC()
			}
			key := makeNegativeKey(core.IDFromContent(example.Tuple()))
			if err := tx.Set(key, storage.MarshalNegativeExample(example)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// GetAllNegativeExamples retrieves every stored negative example.
func (r *NegativeExampleRepository) GetAllNegativeExamples(ctx context.Context) ([]core.NegativeExample, error) {
	var results []core.NegativeExample
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(negativePrefix + ":")
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			err := iter.Item().Value(func(val []byte) error {
				example, err := storage.UnmarshalNegativeExample(val)
				if err != nil {
					return err
				}
				results = append(results, *example)
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
