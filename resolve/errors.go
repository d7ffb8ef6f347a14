package resolve

import "errors"

var (
	// ErrNoCandidates indicates no pair candidates survived retrieval and
	// filtering. Internal to the critical-failure path; Resolve itself
	// answers with the sentinel instead of surfacing it.
	ErrNoCandidates = errors.New("no candidates survived filtering")

	// ErrCorrectionsRequired indicates a nil correction map was provided.
	ErrCorrectionsRequired = errors.New("correction map is required")

	// ErrNegativesRequired indicates a nil negative-example filter was
	// provided.
	ErrNegativesRequired = errors.New("negative example filter is required")

	// ErrSearcherRequired indicates a nil candidate searcher was provided.
	ErrSearcherRequired = errors.New("candidate searcher is required")

	// ErrDualResolverRequired indicates a nil dual-category resolver was
	// provided.
	ErrDualResolverRequired = errors.New("dual category resolver is required")

	// ErrDisambiguatorRequired indicates a nil disambiguator was provided.
	ErrDisambiguatorRequired = errors.New("disambiguator is required")

	// ErrTaxonomyRequired indicates a nil taxonomy store was provided.
	ErrTaxonomyRequired = errors.New("taxonomy store is required")
)
