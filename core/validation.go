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


package core

import (
	"fmt"
	"time"
)

// ValidateCategorization checks a Categorization structurally.
//
// Validation rules:
//   - Category, Subcategory and ProductType must all be non-empty
//   - Secondary entries are validated recursively and must not nest further
//
// NOT validated:
//   - Taxonomy membership (the taxonomy store owns that check)
//
// The sentinel categorization is structurally valid by construction.
func ValidateCategorization(c *Categorization) error {
	if c == nil {
		return fmt.Errorf("%w: categorization is nil", ErrInvalidCategorization)
	}

	if c.Category == "" {
		return fmt.Errorf("%w: category: %w", ErrInvalidCategorization, ErrEmptyField)
	}
	if c.Subcategory == "" {
		return fmt.Errorf("%w: subcategory: %w", ErrInvalidCategorization, ErrEmptyField)
	}
	if c.ProductType == "" {
		return fmt.Errorf("%w: product type: %w", ErrInvalidCategorization, ErrEmptyField)
	}

	for i := range c.Secondary {
		sec := &c.Secondary[i]
		if len(sec.Secondary) > 0 {
			return fmt.Errorf("%w: secondary entries cannot nest", ErrInvalidCategorization)
		}
		if err := ValidateCategorization(sec); err != nil {
			return err
		}
	}

	return nil
}

// ValidateProduct validates a batch input record.
//
// Validation rules:
//   - Description must not be empty
//
// NOT validated (optional upstream context):
//   - ProductID, CategoryHints, Brand, CountryOrigin, TemperatureIndicator
func ValidateProduct(product *Product) error {
	if product == nil {
		return fmt.Errorf("%w: product is nil", ErrInvalidProduct)
	}

	if product.Description == "" {
		return fmt.Errorf("%w: %w", ErrInvalidProduct, ErrEmptyDescription)
	}

	return nil
}

// ValidateNegativeExample validates a NegativeExample according to domain rules.
//
// Validation rules:
//   - Text must not be empty
//   - The forbidden triple must have all three fields set
//   - Timestamp must not be in the future
func ValidateNegativeExample(example *NegativeExample) error {
	if example == nil {
		return fmt.Errorf("%w: example is nil", ErrInvalidNegativeExample)
	}

	if example.Text == "" {
		return fmt.Errorf("%w: %w", ErrInvalidNegativeExample, ErrEmptyDescription)
	}

	if example.Category == "" || example.Subcategory == "" || example.ProductType == "" {
		return fmt.Errorf("%w: forbidden triple: %w", ErrInvalidNegativeExample, ErrEmptyField)
	}

	if !IsValidTimestamp(example.Timestamp) {
		return fmt.Errorf("%w: %w", ErrInvalidNegativeExample, ErrInvalidTimestamp)
	}

	return nil
}

// IsValidTimestamp checks if a timestamp is valid (not in the future).
func IsValidTimestamp(ts time.Time) bool {
	return !ts.After(time.Now())
}
