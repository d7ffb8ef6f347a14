package selection

import "errors"

var (
	// ErrParse indicates no JSON object with the required fields could be
	// extracted from a model response.
	ErrParse = errors.New("unparseable model response")

	// ErrValidation indicates the model named a pair or type outside the
	// candidate list.
	ErrValidation = errors.New("selection not in candidates")

	// ErrNoCandidates indicates a selection call received an empty
	// candidate list.
	ErrNoCandidates = errors.New("no candidates to select from")

	// ErrNoTypes indicates a pair has no product types to choose from.
	ErrNoTypes = errors.New("no product types available")

	// ErrGeneratorRequired indicates a nil generator was provided.
	ErrGeneratorRequired = errors.New("generator is required")

	// ErrTaxonomyRequired indicates a nil taxonomy store was provided.
	ErrTaxonomyRequired = errors.New("taxonomy store is required")
)
