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

import "errors"

// Shared error kinds. Packages wrap these so callers can classify failures
// with errors.Is without depending on the failing package.
var (
	// ErrConfig indicates a malformed taxonomy or rule table.
	// Fatal at startup; there is nothing to recover.
	ErrConfig = errors.New("configuration error")

	// ErrPersistence indicates a durable-store read or write failure.
	// Recovered locally; in-memory state remains usable.
	ErrPersistence = errors.New("persistence error")
)

// Domain validation errors
var (
	// ErrInvalidCategorization indicates a Categorization failed validation.
	ErrInvalidCategorization = errors.New("invalid categorization")

	// ErrInvalidProduct indicates a Product failed validation.
	ErrInvalidProduct = errors.New("invalid product")

	// ErrInvalidNegativeExample indicates a NegativeExample failed validation.
	ErrInvalidNegativeExample = errors.New("invalid negative example")

	// ErrEmptyDescription indicates the Description field is empty.
	ErrEmptyDescription = errors.New("description cannot be empty")

	// ErrEmptyField indicates a required categorization field is empty.
	ErrEmptyField = errors.New("field cannot be empty")

	// ErrInvalidTimestamp indicates a timestamp is in the future.
	ErrInvalidTimestamp = errors.New("timestamp cannot be in the future")
)
