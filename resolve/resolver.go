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


package resolve

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/poiesic/categorit/core"
	"github.com/poiesic/categorit/corrections"
	"github.com/poiesic/categorit/diaglog"
	"github.com/poiesic/categorit/rules"
	"github.com/poiesic/categorit/selection"
	"github.com/poiesic/categorit/storage"
	"github.com/poiesic/categorit/taxonomy"
)

// Candidate filtering limits.
const (
	// TopPairCount keeps the most frequent (category, subcategory) pairs
	// among retrieval candidates.
	TopPairCount = 5

	// MaxPairCandidates caps the survivors handed to pair selection.
	MaxPairCandidates = 15
)

// CandidateSearcher is the retrieval capability the resolver consumes.
// retrieval.Retriever satisfies it.
type CandidateSearcher interface {
	Search(ctx context.Context, text string, hints []string) ([]core.CandidatePhrase, error)
}

// Disambiguator is the generative selection capability the resolver
// consumes. selection.Disambiguator satisfies it.
type Disambiguator interface {
	SelectPair(ctx context.Context, text string, attrs selection.Attributes, candidates []core.Pair) (core.Pair, error)
	SelectType(ctx context.Context, text string, attrs selection.Attributes, category, subcategory string, availableTypes []string) (string, error)
	DetermineType(ctx context.Context, text, category, subcategory string) (string, error)
}

// Config names the resolver's collaborators. Constraints, Failures and
// Diagnostics are optional; everything else is required.
type Config struct {
	Corrections   *corrections.Map
	Negatives     *corrections.Filter
	Searcher      CandidateSearcher
	Constraints   *rules.ConstraintMapper
	Dual          *rules.Resolver
	Disambiguator Disambiguator
	Taxonomy      *taxonomy.Store
	Failures      storage.FailureRepository
	Diagnostics   *diaglog.Set
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithMonitor installs hooks observing each resolution.
func WithMonitor(monitor Monitor) Option {
	return func(r *Resolver) {
		if monitor != nil {
			r.monitor = monitor
		}
	}
}

// Resolver is the per-product categorization state machine. Safe for
// concurrent use as long as its collaborators are.
type Resolver struct {
	corrections *corrections.Map
	negatives   *corrections.Filter
	searcher    CandidateSearcher
	constraints *rules.ConstraintMapper
	dual        *rules.Resolver
	disamb      Disambiguator
	tax         *taxonomy.Store
	failures    storage.FailureRepository
	diag        *diaglog.Set
	monitor     Monitor
	logger      *slog.Logger
}

// NewResolver wires the resolution pipeline together.
func NewResolver(cfg Config, opts ...Option) (*Resolver, error) {
	switch {
	case cfg.Corrections == nil:
		return nil, fmt.Errorf("%w: %w", core.ErrConfig, ErrCorrectionsRequired)
	case cfg.Negatives == nil:
		return nil, fmt.Errorf("%w: %w", core.ErrConfig, ErrNegativesRequired)
	case cfg.Searcher == nil:
		return nil, fmt.Errorf("%w: %w", core.ErrConfig, ErrSearcherRequired)
	case cfg.Dual == nil:
		return nil, fmt.Errorf("%w: %w", core.ErrConfig, ErrDualResolverRequired)
	case cfg.Disambiguator == nil:
		return nil, fmt.Errorf("%w: %w", core.ErrConfig, ErrDisambiguatorRequired)
	case cfg.Taxonomy == nil:
		return nil, fmt.Errorf("%w: %w", core.ErrConfig, ErrTaxonomyRequired)
	}

	r := &Resolver{
		corrections: cfg.Corrections,
		negatives:   cfg.Negatives,
		searcher:    cfg.Searcher,
		constraints: cfg.Constraints,
		dual:        cfg.Dual,
		disamb:      cfg.Disambiguator,
		tax:         cfg.Taxonomy,
		failures:    cfg.Failures,
		diag:        cfg.Diagnostics,
		monitor:     &noopMonitor{},
		logger:      slog.Default().With("component", "resolve"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Resolve categorizes one product. Total: it always returns a structurally
// valid Categorization or the sentinel, never an error; panics anywhere in
// the pipeline are caught here, logged and answered with the sentinel plus
// a durable failure record.
func (r *Resolver) Resolve(ctx context.Context, product core.Product) (result core.Categorization) {
	text := core.CleanDescription(product.Description)
	r.monitor.Start(text)

	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("panic during categorization", "text", text, "panic", rec)
			r.recordFailure(ctx, text, product, StateUncategorized, fmt.Sprintf("panic: %v", rec), nil)
			result = core.Uncategorized()
		}
		r.monitor.Finish(result)
	}()

	if hit, stage := r.corrections.Lookup(product.ProductID, text); stage != corrections.MatchNone {
		r.monitor.CorrectionHit(stage, hit)
		return r.attachSecondary(ctx, text, hit)
	}

	candidates, err := r.searcher.Search(ctx, text, product.CategoryHints)
	if err != nil {
		r.logger.Error("candidate retrieval failed", "text", text, "error", err)
		r.recordFailure(ctx, text, product, StateRetrieval, err.Error(), nil)
		return core.Uncategorized()
	}
	r.monitor.AfterRetrieval(candidates)

	survivors := r.filterCandidates(text, candidates)
	survivors = r.applyHintFilter(survivors, product.CategoryHints)
	r.monitor.AfterFiltering(survivors)

	if len(survivors) == 0 {
		r.logger.Error("no pair candidates survived filtering", "text", text)
		r.recordFailure(ctx, text, product, StatePairSelection, ErrNoCandidates.Error(), nil)
		return core.Uncategorized()
	}

	attrs := selection.Attributes{
		Brand:         product.Brand,
		Storage:       product.TemperatureIndicator,
		CountryOrigin: product.CountryOrigin,
	}

	pair, err := r.disamb.SelectPair(ctx, text, attrs, distinctPairs(survivors))
	if err != nil {
		r.recordFailure(ctx, text, product, StatePairSelection, err.Error(), nil)
		return core.Uncategorized()
	}
	r.monitor.PairSelected(pair)

	productType, ok := r.selectType(ctx, text, attrs, pair, survivors)
	if !ok {
		// The selected pair has no enumerable types and no retrieval
		// candidate under it; emit the first pair-candidate verbatim.
		first := survivors[0]
		attempted := core.Categorization{
			Category:    pair.Category,
			Subcategory: pair.Subcategory,
			ProductType: core.UnknownProductType,
		}
		r.recordFailure(ctx, text, product, StateTypeSelection, "no product types for selected pair", &attempted)
		return r.attachSecondary(ctx, text, core.Categorization{
			Category:    first.Category,
			Subcategory: first.Subcategory,
			ProductType: first.ProductType,
		})
	}
	r.monitor.TypeSelected(productType)

	return r.attachSecondary(ctx, text, core.Categorization{
		Category:    pair.Category,
		Subcategory: pair.Subcategory,
		ProductType: productType,
	})
}

// filterCandidates keeps candidates belonging to the most frequent pairs,
// drops forbidden triples, and caps the survivors.
func (r *Resolver) filterCandidates(text string, candidates []core.CandidatePhrase) []core.CandidatePhrase {
	counts := make(map[core.Pair]int)
	var order []core.Pair
	for _, candidate := range candidates {
		pair := candidate.Pair()
		if counts[pair] == 0 {
			order = append(order, pair)
		}
		counts[pair]++
	}

	// Ties keep retrieval order, so the outcome is deterministic.
	sort.SliceStable(order, func(a, b int) bool {
		return counts[order[a]] > counts[order[b]]
	})
	if len(order) > TopPairCount {
		order = order[:TopPairCount]
	}
	top := make(map[core.Pair]struct{}, len(order))
	for _, pair := range order {
		top[pair] = struct{}{}
	}

	var survivors []core.CandidatePhrase
	for _, candidate := range candidates {
		if _, ok := top[candidate.Pair()]; !ok {
			continue
		}
		triple := core.Categorization{
			Category:    candidate.Category,
			Subcategory: candidate.Subcategory,
			ProductType: candidate.ProductType,
		}
		if r.negatives.IsForbidden(text, triple) {
			r.logger.Info("skipping forbidden candidate",
				"category", candidate.Category, "subcategory", candidate.Subcategory,
				"productType", candidate.ProductType)
			continue
		}
		survivors = append(survivors, candidate)
		if len(survivors) >= MaxPairCandidates {
			break
		}
	}
	return survivors
}

// applyHintFilter restricts survivors to the leaves the external hints map
// to: exact pairs first, categories second, unchanged when neither
// intersects.
func (r *Resolver) applyHintFilter(survivors []core.CandidatePhrase, hints []string) []core.CandidatePhrase {
	if r.constraints == nil || len(hints) == 0 || len(survivors) == 0 {
		return survivors
	}
	mapped := r.constraints.MapPairsAndCategories(hints)

	if len(mapped.Pairs) > 0 {
		var matches []core.CandidatePhrase
		for _, candidate := range survivors {
			for _, pair := range mapped.Pairs {
				if candidate.Pair() == pair {
					matches = append(matches, candidate)
					break
				}
			}
		}
		if len(matches) > 0 {
			r.logger.Info("applied pair-level hint filter", "kept", len(matches))
			return matches
		}
	}

	if len(mapped.Categories) > 0 {
		var matches []core.CandidatePhrase
		for _, candidate := range survivors {
			for _, category := range mapped.Categories {
				if candidate.Category == category {
					matches = append(matches, candidate)
					break
				}
			}
		}
		if len(matches) > 0 {
			r.logger.Info("applied category-level hint filter", "kept", len(matches))
			return matches
		}
	}

	return survivors
}

// selectType picks the product type for the chosen pair. Reports false only
// when the pair has no enumerable types and no survivor under it.
func (r *Resolver) selectType(ctx context.Context, text string, attrs selection.Attributes, pair core.Pair, survivors []core.CandidatePhrase) (string, bool) {
	availableTypes := r.tax.ProductTypes(pair.Category, pair.Subcategory)
	productType, err := r.disamb.SelectType(ctx, text, attrs, pair.Category, pair.Subcategory, availableTypes)
	if err == nil {
		return productType, true
	}

	r.logger.Warn("type selection unavailable, trying retrieval candidates",
		"category", pair.Category, "subcategory", pair.Subcategory, "error", err)
	for _, candidate := range survivors {
		if candidate.Pair() == pair && candidate.ProductType != "" {
			return candidate.ProductType, true
		}
	}
	return "", false
}

// attachSecondary finishes a resolution by applying the dual-category rules
// to the final triple, filling missing secondary product types with a
// reduced type selection.
func (r *Resolver) attachSecondary(ctx context.Context, text string, primary core.Categorization) core.Categorization {
	for _, dual := range r.dual.Resolve(primary.Category, primary.Subcategory, primary.ProductType) {
		secondary := core.Categorization{
			Category:    dual.Target.Category,
			Subcategory: dual.Target.Subcategory,
			ProductType: dual.ProductType,
		}
		if secondary.ProductType == "" {
			productType, err := r.disamb.DetermineType(ctx, text, secondary.Category, secondary.Subcategory)
			if err != nil {
				r.logger.Warn("dropping secondary categorization without product type",
					"category", secondary.Category, "subcategory", secondary.Subcategory, "error", err)
				continue
			}
			secondary.ProductType = productType
		}
		r.logger.Info("added secondary categorization",
			"category", secondary.Category, "subcategory", secondary.Subcategory,
			"productType", secondary.ProductType)
		primary.Secondary = append(primary.Secondary, secondary)
	}
	return primary
}

// recordFailure logs a critical failure, persists a durable failure record
// and appends a diagnostic line. Best-effort beyond the log line.
func (r *Resolver) recordFailure(ctx context.Context, text string, product core.Product, state State, reason string, attempted *core.Categorization) {
	if r.failures != nil {
		record := core.FailureRecord{
			ProductText: text,
			ProductID:   product.ProductID,
			Hints:       product.CategoryHints,
			Stage:       state.String(),
			Reason:      reason,
			Timestamp:   time.Now().UTC(),
		}
		if err := r.failures.AddFailures(ctx, record); err != nil {
			r.logger.Warn("failed to persist failure record", "error", err)
		}
	}
	r.diag.RecordFailure(diaglog.FailureEntry{
		Description:       text,
		AttemptedCategory: attempted,
		ErrorMessage:      reason,
		SourceCategories:  product.CategoryHints,
	})
}

func distinctPairs(candidates []core.CandidatePhrase) []core.Pair {
	seen := make(map[core.Pair]struct{}, len(candidates))
	var pairs []core.Pair
	for _, candidate := range candidates {
		pair := candidate.Pair()
		if _, dup := seen[pair]; dup {
			continue
		}
		seen[pair] = struct{}{}
		pairs = append(pairs, pair)
	}
	return pairs
}
