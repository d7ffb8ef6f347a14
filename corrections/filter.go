package corrections

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/poiesic/categorit/core"
	"github.com/poiesic/categorit/storage"
)

// Filter suppresses retrieval candidates a human has marked wrong. It is
// never applied to correction-map hits — corrections are trusted.
type Filter struct {
	repo   storage.NegativeExampleRepository
	logger *slog.Logger

	mu       sync.RWMutex
	examples []core.NegativeExample
}

// NewFilter loads the negative examples from storage.
func NewFilter(ctx context.Context, repo storage.NegativeExampleRepository) (*Filter, error) {
	f := &Filter{
		repo:   repo,
		logger: slog.Default().With("component", "negative-filter"),
	}
	if err := f.Refresh(ctx); err != nil {
		return nil, err
	}
	return f, nil
}

// Refresh reloads all examples from durable storage.
func (f *Filter) Refresh(ctx context.Context) error {
	examples, err := f.repo.GetAllNegativeExamples(ctx)
	if err != nil {
		return fmt.Errorf("%w: loading negative examples: %w", core.ErrPersistence, err)
	}

	f.mu.Lock()
	f.examples = examples
	f.mu.Unlock()

	f.logger.Info("negative examples refreshed", "count", len(examples))
	return nil
}

// Add persists a new negative example and folds it into the in-memory list.
// The in-memory list includes the example even when persistence fails, so a
// storage error never lets the forbidden triple through within this process.
func (f *Filter) Add(ctx context.Context, text, category, subcategory, productType string) error {
	example := core.NegativeExample{
		Text:        text,
		Category:    category,
		Subcategory: subcategory,
		ProductType: productType,
		Timestamp:   time.Now().UTC(),
	}

	f.mu.Lock()
	f.examples = append(f.examples, example)
	f.mu.Unlock()

	f.logger.Info("negative example added",
		"text", text, "category", category, "subcategory", subcategory, "product_type", productType)

	if err := f.repo.AddNegativeExamples(ctx, example); err != nil {
		return fmt.Errorf("%w: saving negative example: %w", core.ErrPersistence, err)
	}
	return nil
}

// IsForbidden reports whether the candidate triple is a known-wrong
// categorization for the given product text. A stored example applies when
// its text contains the product text or vice versa (case-insensitive) and
// its triple equals the candidate exactly.
func (f *Filter) IsForbidden(productText string, candidate core.Categorization) bool {
	textLower := strings.ToLower(productText)

	f.mu.RLock()
	defer f.mu.RUnlock()

	for _, example := range f.examples {
		exampleLower := strings.ToLower(example.Text)
		if !strings.Contains(textLower, exampleLower) && !strings.Contains(exampleLower, textLower) {
			continue
		}
		if example.Category == candidate.Category &&
			example.Subcategory == candidate.Subcategory &&
			example.ProductType == candidate.ProductType {
			f.logger.Debug("suppressing forbidden candidate",
				"text", productText,
				"category", candidate.Category,
				"subcategory", candidate.Subcategory,
				"product_type", candidate.ProductType)
			return true
		}
	}
	return false
}

// Len returns the number of stored examples.
func (f *Filter) Len() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.examples)
}
