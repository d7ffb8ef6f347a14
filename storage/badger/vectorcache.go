package badger

import (
	"context"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/categorit/core"
	"github.com/poiesic/categorit/storage"
)

// VectorCacheRepository implements storage.VectorCacheRepository for
// BadgerDB. Vectors are stored one key per phrase with a BigEndian index
// suffix so a prefix scan yields them in phrase order.
type VectorCacheRepository struct {
	backend *Backend
}

var _ storage.VectorCacheRepository = (*VectorCacheRepository)(nil)

// NewVectorCacheRepository creates a new VectorCacheRepository.
func NewVectorCacheRepository(backend *Backend) (*VectorCacheRepository, error) {
	return &VectorCacheRepository{
		backend: backend,
	}, nil
}

// Close releases resources. VectorCacheRepository has no resources to
// release.
func (r *VectorCacheRepository) Close() error {
	return nil
}

// PutCorpus stores the corpus metadata and its vectors in phrase order.
// A previously stored corpus under the same fingerprint is overwritten
// key by key; the metadata record is written last so a partially written
// corpus is never considered complete.
func (r *VectorCacheRepository) PutCorpus(ctx context.Context, meta core.CorpusMeta, vectors [][]float32) error {
	if meta.PhraseCount != len(vectors) {
		return storage.ErrInvalidQuery
	}

	// Badger transactions have a bounded size; write vectors in chunks.
	const chunk = 512
	for start := 0; start < len(vectors); start += chunk {
		end := min(start+chunk, len(vectors))
		err := r.backend.WithTx(func(tx *badger.Txn) error {
			for i := start; i < end; i++ {
				key := makeVectorKey(meta.Fingerprint, i)
				if err := tx.Set(key, storage.MarshalVector(vectors[i])); err != nil {
					return err
				}
			}
			return tx.Commit()
		}, true)
		if err != nil {
			return err
		}
	}

	return r.backend.WithTx(func(tx *badger.Txn) error {
		if err := tx.Set(makeVectorMetaKey(meta.Fingerprint), storage.MarshalCorpusMeta(&meta)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// GetCorpus retrieves the metadata and vectors for a fingerprint.
// Returns storage.ErrNotFound when no metadata exists or the stored
// vector count disagrees with it.
func (r *VectorCacheRepository) GetCorpus(ctx context.Context, fingerprint string) (core.CorpusMeta, [][]float32, error) {
	var meta core.CorpusMeta
	var vectors [][]float32

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeVectorMetaKey(fingerprint))
		if err != nil {
			if err == badger.ErrKeyNotFound {
				return storage.ErrNotFound
			}
			return err
		}
		err = item.Value(func(val []byte) error {
			m, err := storage.UnmarshalCorpusMeta(val)
			if err != nil {
				return err
			}
			meta = *m
			return nil
		})
		if err != nil {
			return err
		}

		vectors = make([][]float32, 0, meta.PhraseCount)
		opts := badger.DefaultIteratorOptions
		opts.Prefix = makeVectorScanPrefix(fingerprint)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			err := iter.Item().Value(func(val []byte) error {
				vector, err := storage.UnmarshalVector(val)
				if err != nil {
					return err
				}
				vectors = append(vectors, vector)
				return nil
			})
			if err != nil {
				return err
			}
		}

		if len(vectors) != meta.PhraseCount {
			return storage.ErrNotFound
		}
		return nil
	}, false)

	if err != nil {
		return core.CorpusMeta{}, nil, err
	}
	return meta, vectors, nil
}
