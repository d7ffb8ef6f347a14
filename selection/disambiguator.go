// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package selection

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/poiesic/categorit/ai"
	"github.com/poiesic/categorit/core"
	"github.com/poiesic/categorit/taxonomy"
)

// Retry budgets per operation. Parse failures, transport errors and
// validation failures all draw from the same budget.
const (
	PairSelectionAttempts = 3
	TypeSelectionAttempts = 4
	ReducedTypeAttempts   = 3
)

// Disambiguator asks the generative backend to choose among candidate
// taxonomy leaves. Safe for concurrent use.
type Disambiguator struct {
	generator ai.Generator
	tax       *taxonomy.Store
	logger    *slog.Logger
}

// NewDisambiguator creates a Disambiguator over the given generator and
// taxonomy.
func NewDisambiguator(generator ai.Generator, tax *taxonomy.Store) (*Disambiguator, error) {
	if generator == nil {
		return nil, fmt.Errorf("%w: %w", core.ErrConfig, ErrGeneratorRequired)
	}
	if tax == nil {
		return nil, fmt.Errorf("%w: %w", core.ErrConfig, ErrTaxonomyRequired)
	}
	return &Disambiguator{
		generator: generator,
		tax:       tax,
		logger:    slog.Default().With("component", "selection"),
	}, nil
}

// SelectPair asks the model to pick one (category, subcategory) pair from
// candidates. Exhausted retries fall back to the first candidate; the only
// error is an empty candidate list.
func (d *Disambiguator) SelectPair(ctx context.Context, text string, attrs Attributes, candidates []core.Pair) (core.Pair, error) {
	if len(candidates) == 0 {
		return core.Pair{}, ErrNoCandidates
	}

	prompt := pairPrompt(text, attrs, candidates)
	for attempt := 1; attempt <= PairSelectionAttempts; attempt++ {
		pair, err := d.tryPairSelection(ctx, prompt, candidates)
		if err == nil {
			d.logger.Info("selected pair",
				"category", pair.Category, "subcategory", pair.Subcategory, "attempt", attempt)
			return pair, nil
		}
		if ctx.Err() != nil {
			break
		}
		d.logger.Warn("pair selection attempt failed",
			"attempt", attempt, "maxAttempts", PairSelectionAttempts, "error", err)
	}

	d.logger.Warn("pair selection exhausted, falling back to first candidate",
		"category", candidates[0].Category, "subcategory", candidates[0].Subcategory)
	return candidates[0], nil
}

func (d *Disambiguator) tryPairSelection(ctx context.Context, prompt string, candidates []core.Pair) (core.Pair, error) {
	response, err := d.generator.Generate(ctx, prompt)
	if err != nil {
		return core.Pair{}, fmt.Errorf("generation request: %w", err)
	}

	obj, err := parseObject(response, "category", "subcategory")
	if err != nil {
		return core.Pair{}, err
	}

	pair := core.Pair{
		Category:    normalizeName(stringField(obj, "category")),
		Subcategory: normalizeName(stringField(obj, "subcategory")),
	}
	for _, candidate := range candidates {
		if candidate == pair {
			return pair, nil
		}
	}
	return core.Pair{}, fmt.Errorf("%w: %q -> %q", ErrValidation, pair.Category, pair.Subcategory)
}

// SelectType asks the model to pick one product type for the chosen pair
// out of availableTypes. GridOnly subcategories short-circuit to the
// subcategory name without a generation call. Exhausted retries fall back
// to a case-insensitive substring match of a type inside text, then to the
// first available type.
func (d *Disambiguator) SelectType(ctx context.Context, text string, attrs Attributes, category, subcategory string, availableTypes []string) (string, error) {
	if d.tax.IsGridOnly(category, subcategory) {
		return subcategory, nil
	}
	if len(availableTypes) == 0 {
		return "", fmt.Errorf("%w: %s -> %s", ErrNoTypes, category, subcategory)
	}

	prompt := typePrompt(text, attrs, category, subcategory, availableTypes)
	for attempt := 1; attempt <= TypeSelectionAttempts; attempt++ {
		productType, err := d.tryTypeSelection(ctx, prompt, category, subcategory, availableTypes)
		if err == nil {
			d.logger.Info("selected product type",
				"productType", productType, "attempt", attempt)
			return productType, nil
		}
		if ctx.Err() != nil {
			break
		}
		d.logger.Warn("type selection attempt failed",
			"attempt", attempt, "maxAttempts", TypeSelectionAttempts, "error", err)
	}

	fallback := typeFallback(text, availableTypes)
	d.logger.Warn("type selection exhausted, using fallback", "productType", fallback)
	return fallback, nil
}

func (d *Disambiguator) tryTypeSelection(ctx context.Context, prompt, category, subcategory string, availableTypes []string) (string, error) {
	response, err := d.generator.Generate(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("generation request: %w", err)
	}

	obj, err := parseObject(response, "category", "subcategory", "product_type")
	if err != nil {
		return "", err
	}

	// The model must echo the already-decided pair unchanged.
	if normalizeName(stringField(obj, "category")) != category ||
		normalizeName(stringField(obj, "subcategory")) != subcategory {
		return "", fmt.Errorf("%w: response changed the selected pair", ErrValidation)
	}

	productType := normalizeName(stringField(obj, "product_type"))
	for _, available := range availableTypes {
		if available == productType {
			return productType, nil
		}
	}
	return "", fmt.Errorf("%w: product type %q", ErrValidation, productType)
}

// DetermineType is the reduced type selection used to fill in product types
// for secondary categorizations. It skips pair context entirely and asks
// only for a product_type field.
func (d *Disambiguator) DetermineType(ctx context.Context, text, category, subcategory string) (string, error) {
	if d.tax.IsGridOnly(category, subcategory) {
		return subcategory, nil
	}

	availableTypes := d.tax.ProductTypes(category, subcategory)
	if len(availableTypes) == 0 {
		return "", fmt.Errorf("%w: %s -> %s", ErrNoTypes, category, subcategory)
	}

	prompt := reducedTypePrompt(text, category, subcategory, availableTypes)
	for attempt := 1; attempt <= ReducedTypeAttempts; attempt++ {
		productType, err := d.tryReducedSelection(ctx, prompt, availableTypes)
		if err == nil {
			d.logger.Info("determined product type",
				"productType", productType, "attempt", attempt)
			return productType, nil
		}
		if ctx.Err() != nil {
			break
		}
		d.logger.Warn("reduced type selection attempt failed",
			"attempt", attempt, "maxAttempts", ReducedTypeAttempts, "error", err)
	}

	fallback := typeFallback(text, availableTypes)
	d.logger.Warn("reduced type selection exhausted, using fallback", "productType", fallback)
	return fallback, nil
}

func (d *Disambiguator) tryReducedSelection(ctx context.Context, prompt string, availableTypes []string) (string, error) {
	response, err := d.generator.Generate(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("generation request: %w", err)
	}

	obj, err := parseObject(response, "product_type")
	if err != nil {
		return "", err
	}

	productType := normalizeName(stringField(obj, "product_type"))
	for _, available := range availableTypes {
		if available == productType {
			return productType, nil
		}
	}
	return "", fmt.Errorf("%w: product type %q", ErrValidation, productType)
}

// typeFallback picks the deterministic answer once generation is exhausted:
// the first type appearing verbatim in the product text, else the first
// available type.
func typeFallback(text string, availableTypes []string) string {
	lower := strings.ToLower(text)
	for _, productType := range availableTypes {
		if strings.Contains(lower, strings.ToLower(productType)) {
			return productType
		}
	}
	return availableTypes[0]
}
