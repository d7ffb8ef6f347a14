package retrieval

import "errors"

var (
	// ErrTaxonomyRequired indicates a nil taxonomy store was provided.
	ErrTaxonomyRequired = errors.New("taxonomy store is required")

	// ErrEmbedderRequired indicates a nil embedder was provided.
	ErrEmbedderRequired = errors.New("embedder is required")

	// ErrEmptyCorpus indicates the taxonomy produced no candidate phrases.
	ErrEmptyCorpus = errors.New("candidate phrase corpus is empty")

	// ErrDimensionMismatch indicates inconsistent embedding dimensions.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")

	// ErrEmbeddingFailed indicates corpus embedding failed after retries.
	ErrEmbeddingFailed = errors.New("corpus embedding failed")
)
