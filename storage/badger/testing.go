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


package badger

// MemoryRepositories bundles the full repository set over one in-memory
// backend. Intended for tests.
type MemoryRepositories struct {
	Corrections *CorrectionRepository
	Negatives   *NegativeExampleRepository
	Vectors     *VectorCacheRepository
	Failures    *FailureRepository
	Backend     *Backend
}

// Close closes all repositories and the backing store.
func (m *MemoryRepositories) Close() error {
	m.Corrections.Close()
	m.Negatives.Close()
	m.Vectors.Close()
	m.Failures.Close()
	return m.Backend.Close()
}

// NewMemoryRepositories creates the full repository set over an in-memory
// backend for testing. Caller must Close the result when done.
func NewMemoryRepositories() (*MemoryRepositories, error) {
	backend, err := OpenBackend("", true)
	if err != nil {
		return nil, err
	}

	corrections, err := NewCorrectionRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	negatives, err := NewNegativeExampleRepository(backend)
	if err != nil {
		corrections.Close()
		backend.Close()
		return nil, err
	}

	vectors, err := NewVectorCacheRepository(backend)
	if err != nil {
		negatives.Close()
		corrections.Close()
		backend.Close()
		return nil, err
	}

	failures, err := NewFailureRepository(backend)
	if err != nil {
		vectors.Close()
		negatives.Close()
		corrections.Close()
		backend.Close()
		return nil, err
	}

	return &MemoryRepositories{
		Corrections: corrections,
		Negatives:   negatives,
		Vectors:     vectors,
		Failures:    failures,
		Backend:     backend,
	}, nil
}
