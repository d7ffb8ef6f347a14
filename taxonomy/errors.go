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


package taxonomy

import "errors"

// Taxonomy structure errors. All are wrapped with core.ErrConfig by the
// loader, so callers can treat any of them as fatal startup failures.
var (
	// ErrNoCategories indicates the taxonomy defines no categories at all.
	ErrNoCategories = errors.New("taxonomy has no categories")

	// ErrNoSubcategories indicates a category defines no subcategories.
	ErrNoSubcategories = errors.New("category has no subcategories")

	// ErrMissingName indicates a category or subcategory has an empty name.
	ErrMissingName = errors.New("name cannot be empty")

	// ErrDuplicateName indicates a name repeats within its level.
	ErrDuplicateName = errors.New("duplicate name")

	// ErrGridOnlyTypes indicates a gridOnly subcategory declares product types.
	ErrGridOnlyTypes = errors.New("gridOnly subcategory cannot declare product types")
)
