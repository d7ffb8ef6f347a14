package storage

import (
	"context"

	"github.com/poiesic/categorit/core"
)

// Repository provides lifecycle operations shared across all repositories.
// Implementations must be thread-safe and support concurrent access.
type Repository interface {
	// Close closes the repository and releases resources.
	Close() error
}

// CorrectionRepository persists curated correction entries.
// The in-memory correction map is the authority during a batch; this
// repository is its durable backing, reloaded on explicit refresh.
type CorrectionRepository interface {
	Repository

	// PutCorrections stores one or more correction entries.
	// An entry with an existing key is overwritten.
	PutCorrections(ctx context.Context, entries ...core.CorrectionEntry) error

	// GetAllCorrections retrieves every stored correction entry.
	// Order is unspecified.
	GetAllCorrections(ctx context.Context) ([]core.CorrectionEntry, error)
}

// NegativeExampleRepository persists known-wrong categorizations.
// The store is append-only from the caller's perspective.
type NegativeExampleRepository interface {
	Repository

	// AddNegativeExamples stores one or more negative examples.
	AddNegativeExamples(ctx context.Context, examples ...core.NegativeExample) error

	// GetAllNegativeExamples retrieves every stored negative example.
	// Order is unspecified.
	GetAllNegativeExamples(ctx context.Context) ([]core.NegativeExample, error)
}

// VectorCacheRepository persists an embedded phrase corpus keyed by its
// fingerprint. A taxonomy or embedding-model change produces a different
// fingerprint, so stale vectors are never returned.
type VectorCacheRepository interface {
	Repository

	// PutCorpus stores the corpus metadata and its vectors in phrase order.
	// Any previously stored corpus under the same fingerprint is replaced.
	PutCorpus(ctx context.Context, meta core.CorpusMeta, vectors [][]float32) error

	// GetCorpus retrieves the metadata and vectors for a fingerprint.
	// Returns ErrNotFound if no corpus is stored under the fingerprint or
	// the stored vector count disagrees with the metadata.
	GetCorpus(ctx context.Context, fingerprint string) (core.CorpusMeta, [][]float32, error)
}

// FailureRepository persists durable failure records for products that
// could not be categorized.
type FailureRepository interface {
	Repository

	// AddFailures stores one or more failure records.
	AddFailures(ctx context.Context, records ...core.FailureRecord) error

	// GetAllFailures retrieves every stored failure record.
	// Order is unspecified.
	GetAllFailures(ctx context.Context) ([]core.FailureRecord, error)

	// PurgeFailures removes all stored failure records. Used after
	// converting failures into review reports.
	PurgeFailures(ctx context.Context) error
}
