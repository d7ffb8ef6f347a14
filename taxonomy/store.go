// Package taxonomy owns the immutable category, subcategory, product type
// tree and answers validity and enumeration queries against it.
package taxonomy

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/poiesic/categorit/core"
)

// Subcategory is one second-level taxonomy node. A gridOnly subcategory has
// no distinct product types; its only valid product type is its own name.
type Subcategory struct {
	Name         string   `json:"name"`
	GridOnly     bool     `json:"gridOnly,omitempty"`
	ProductTypes []string `json:"productTypes,omitempty"`
}

// Category is one top-level taxonomy node.
type Category struct {
	Name          string        `json:"name"`
	Subcategories []Subcategory `json:"subcategories"`
}

type subEntry struct {
	gridOnly bool
	types    []string
	typeSet  map[string]struct{}
}

// Store holds the loaded taxonomy. It is read-only after construction and
// safe for concurrent use.
type Store struct {
	categories []Category
	names      []string
	index      map[string]map[string]*subEntry
}

// Load reads a taxonomy definition from a JSON file. The file is a
// top-level array of categories.
func Load(path string) (*Store, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open taxonomy file: %w", err)
	}
	defer f.Close()

	store, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("failed to load taxonomy from %s: %w", path, err)
	}
	return store, nil
}

// Parse reads a taxonomy definition from r and validates it.
func Parse(r io.Reader) (*Store, error) {
	var categories []Category
	if err := json.NewDecoder(r).Decode(&categories); err != nil {
		return nil, fmt.Errorf("%w: failed to parse taxonomy: %w", core.ErrConfig, err)
	}
	return New(categories)
}

// New builds a Store from an in-memory category tree and validates it.
//
// Validation rules:
//   - at least one category, every category has at least one subcategory
//   - category and subcategory names are non-empty and unique at their level
//   - product types are unique within their subcategory
//   - a gridOnly subcategory declares no product types
func New(categories []Category) (*Store, error) {
	if len(categories) == 0 {
		return nil, fmt.Errorf("%w: %w", core.ErrConfig, ErrNoCategories)
	}

	store := &Store{
		categories: categories,
		names:      make([]string, 0, len(categories)),
		index:      make(map[string]map[string]*subEntry, len(categories)),
	}

	leaves := 0
	for _, category := range categories {
		if category.Name == "" {
			return nil, fmt.Errorf("%w: category: %w", core.ErrConfig, ErrMissingName)
		}
		if len(category.Subcategories) == 0 {
			return nil, fmt.Errorf("%w: %w: %q", core.ErrConfig, ErrNoSubcategories, category.Name)
		}
		if _, exists := store.index[category.Name]; exists {
			return nil, fmt.Errorf("%w: %w: category %q", core.ErrConfig, ErrDuplicateName, category.Name)
		}

		subs := make(map[string]*subEntry, len(category.Subcategories))
		for _, sub := range category.Subcategories {
			if sub.Name == "" {
				return nil, fmt.Errorf("%w: category %q: subcategory: %w", core.ErrConfig, category.Name, ErrMissingName)
			}
			if _, exists := subs[sub.Name]; exists {
				return nil, fmt.Errorf("%w: %w: subcategory %q under %q", core.ErrConfig, ErrDuplicateName, sub.Name, category.Name)
			}
			if sub.GridOnly && len(sub.ProductTypes) > 0 {
				return nil, fmt.Errorf("%w: %w: %q under %q", core.ErrConfig, ErrGridOnlyTypes, sub.Name, category.Name)
			}

			entry := &subEntry{
				gridOnly: len(sub.ProductTypes) == 0,
				types:    sub.ProductTypes,
				typeSet:  make(map[string]struct{}, len(sub.ProductTypes)),
			}
			for _, pt := range sub.ProductTypes {
				if _, exists := entry.typeSet[pt]; exists {
					return nil, fmt.Errorf("%w: %w: product type %q under %q/%q", core.ErrConfig, ErrDuplicateName, pt, category.Name, sub.Name)
				}
				entry.typeSet[pt] = struct{}{}
			}

			subs[sub.Name] = entry
			if entry.gridOnly {
				leaves++
			} else {
				leaves += len(entry.types)
			}
		}

		store.index[category.Name] = subs
		store.names = append(store.names, category.Name)
	}

	slog.Default().With("component", "taxonomy").Info("taxonomy loaded",
		"categories", len(store.names), "leaves", leaves)

	return store, nil
}

// Categories returns the category names in declaration order.
func (s *Store) Categories() []string {
	return s.names
}

// Subcategories returns the subcategories of a category in declaration
// order, or nil if the category does not exist.
func (s *Store) Subcategories(category string) []Subcategory {
	for i := range s.categories {
		if s.categories[i].Name == category {
			return s.categories[i].Subcategories
		}
	}
	return nil
}

// Tree returns the full category tree in declaration order. Callers must
// treat the result as read-only.
func (s *Store) Tree() []Category {
	return s.categories
}

// HasPair reports whether (category, subcategory) exists.
func (s *Store) HasPair(category, subcategory string) bool {
	subs, ok := s.index[category]
	if !ok {
		return false
	}
	_, ok = subs[subcategory]
	return ok
}

// IsGridOnly reports whether (category, subcategory) behaves as gridOnly.
// A subcategory with no declared product types behaves as gridOnly even
// when its flag is unset. Returns false for a nonexistent pair.
func (s *Store) IsGridOnly(category, subcategory string) bool {
	subs, ok := s.index[category]
	if !ok {
		return false
	}
	entry, ok := subs[subcategory]
	return ok && entry.gridOnly
}

// ProductTypes returns the valid product types for (category, subcategory)
// in declaration order. For a gridOnly subcategory the only type is the
// subcategory name itself. Returns nil for a nonexistent pair.
func (s *Store) ProductTypes(category, subcategory string) []string {
	subs, ok := s.index[category]
	if !ok {
		return nil
	}
	entry, ok := subs[subcategory]
	if !ok {
		return nil
	}
	if entry.gridOnly {
		return []string{subcategory}
	}
	return entry.types
}

// IsValid reports whether (category, subcategory, productType) names an
// existing taxonomy leaf. For a gridOnly subcategory the product type must
// equal the subcategory name.
func (s *Store) IsValid(category, subcategory, productType string) bool {
	subs, ok := s.index[category]
	if !ok {
		return false
	}
	entry, ok := subs[subcategory]
	if !ok {
		return false
	}
	if entry.gridOnly {
		return productType == subcategory
	}
	_, ok = entry.typeSet[productType]
	return ok
}
