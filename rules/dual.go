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


package rules

import (
	"log/slog"

	"github.com/poiesic/categorit/core"
	"github.com/poiesic/categorit/taxonomy"
)

// DualResult is one secondary leaf implied by the dual or multi tables.
// When NeedsTypeSelection is set, ProductType is empty and the caller must
// disambiguate the product type under the target pair.
type DualResult struct {
	Target             Target
	ProductType        string
	NeedsTypeSelection bool
}

// Resolver applies the dual and multi tables to a resolved taxonomy leaf.
// Rules are validated against the taxonomy at construction; invalid targets
// are dropped with a warning and never emitted.
type Resolver struct {
	dual   map[core.Pair]DualRule
	multi  map[core.Pair][]Target
	tax    *taxonomy.Store
	logger *slog.Logger
}

// NewResolver validates the rule tables against the taxonomy and returns a
// resolver over the surviving rules.
func NewResolver(tables *Tables, tax *taxonomy.Store) *Resolver {
	logger := slog.Default().With("component", "dual-rules")

	dual := make(map[core.Pair]DualRule, len(tables.Dual))
	for pair, rule := range tables.Dual {
		kept := DualRule{
			ForceDisambiguation:     rule.ForceDisambiguation,
			PerTypeCategoryOverride: rule.PerTypeCategoryOverride,
		}

		if rule.WildcardTarget != nil {
			if tax.HasPair(rule.WildcardTarget.Category, rule.WildcardTarget.Subcategory) {
				kept.WildcardTarget = rule.WildcardTarget
			} else {
				logger.Warn("dropping dual rule wildcard with invalid target",
					"category", pair.Category, "subcategory", pair.Subcategory,
					"target_category", rule.WildcardTarget.Category,
					"target_subcategory", rule.WildcardTarget.Subcategory)
			}
		}

		for productType, target := range rule.PerTypeTarget {
			resolved := applyOverride(target, productType, rule.PerTypeCategoryOverride)
			if !tax.HasPair(resolved.Category, resolved.Subcategory) {
				logger.Warn("dropping dual rule entry with invalid target",
					"category", pair.Category, "subcategory", pair.Subcategory,
					"product_type", productType,
					"target_category", resolved.Category,
					"target_subcategory", resolved.Subcategory)
				continue
			}
			if kept.PerTypeTarget == nil {
				kept.PerTypeTarget = make(map[string]Target)
			}
			kept.PerTypeTarget[productType] = target
		}

		if kept.WildcardTarget != nil || len(kept.PerTypeTarget) > 0 {
			dual[pair] = kept
		}
	}

	multi := make(map[core.Pair][]Target, len(tables.Multi))
	for pair, targets := range tables.Multi {
		var kept []Target
		for _, target := range targets {
			if !tax.HasPair(target.Category, target.Subcategory) {
				logger.Warn("dropping multi rule target",
					"category", pair.Category, "subcategory", pair.Subcategory,
					"target_category", target.Category,
					"target_subcategory", target.Subcategory)
				continue
			}
			kept = append(kept, target)
		}
		if len(kept) > 0 {
			multi[pair] = kept
		}
	}

	return &Resolver{
		dual:   dual,
		multi:  multi,
		tax:    tax,
		logger: logger,
	}
}

// Resolve returns the secondary leaves implied by a resolved leaf, or nil
// when the leaf is single-category. MultiRule takes precedence over
// DualRule when both exist for the pair.
func (r *Resolver) Resolve(category, subcategory, productType string) []DualResult {
	pair := core.Pair{Category: category, Subcategory: subcategory}

	if targets, ok := r.multi[pair]; ok {
		results := make([]DualResult, 0, len(targets))
		for _, target := range targets {
			results = append(results, r.toResult(target, productType))
		}
		return results
	}

	rule, ok := r.dual[pair]
	if !ok {
		return nil
	}

	if rule.ForceDisambiguation {
		target, found := rule.targetFor(productType)
		if !found {
			return nil
		}
		return []DualResult{{Target: target, NeedsTypeSelection: true}}
	}

	target, found := rule.targetFor(productType)
	if !found {
		return nil
	}
	return []DualResult{r.toResult(target, productType)}
}

// targetFor picks the per-type target (override applied) or the wildcard.
func (rule DualRule) targetFor(productType string) (Target, bool) {
	if target, ok := rule.PerTypeTarget[productType]; ok {
		return applyOverride(target, productType, rule.PerTypeCategoryOverride), true
	}
	if rule.WildcardTarget != nil {
		return *rule.WildcardTarget, true
	}
	return Target{}, false
}

// toResult keeps the product type when it is also a valid leaf under the
// target pair; otherwise the caller must disambiguate.
func (r *Resolver) toResult(target Target, productType string) DualResult {
	if r.tax.IsValid(target.Category, target.Subcategory, productType) {
		return DualResult{Target: target, ProductType: productType}
	}
	return DualResult{Target: target, NeedsTypeSelection: true}
}

func applyOverride(target Target, productType string, overrides map[string]string) Target {
	if category, ok := overrides[productType]; ok {
		target.Category = category
	}
	return target
}
