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


package categorit

import (
	"bufio"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/categorit/ai/mock"
	"github.com/poiesic/categorit/core"
	"github.com/poiesic/categorit/diaglog"
)

const engineTaxonomy = `[
	{
		"name": "Produce",
		"subcategories": [
			{"name": "Fresh Fruits", "productTypes": ["Apples", "Bananas"]}
		]
	},
	{
		"name": "Condiments",
		"subcategories": [
			{"name": "Salsa", "gridOnly": true}
		]
	}
]`

func writeTaxonomyFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "taxonomy.json")
	require.NoError(t, os.WriteFile(path, []byte(engineTaxonomy), 0o644))
	return path
}

func newTestEngine(t *testing.T, generator *mock.MockGenerator) (*Engine, *mock.MockEmbedder) {
	t.Helper()
	embedder := mock.NewMockEmbedder()
	if generator == nil {
		generator = mock.NewMockGenerator()
	}

	engine, err := NewEngine(context.Background(), t.TempDir(), writeTaxonomyFile(t),
		WithProvider(mock.NewMockProviderWithServices(embedder, generator)),
		WithBatchGroupSize(2),
		WithBatchPause(time.Millisecond),
	)
	require.NoError(t, err)
	t.Cleanup(func() { engine.Close() })
	return engine, embedder
}

func TestNewEngineValidation(t *testing.T) {
	_, err := NewEngine(context.Background(), t.TempDir(),
		filepath.Join(t.TempDir(), "absent.json"),
		WithProvider(mock.NewMockProvider()))
	assert.Error(t, err)
}

func TestEngineCorrectionShortCircuit(t *testing.T) {
	generator := mock.NewMockGenerator()
	engine, _ := newTestEngine(t, generator)
	ctx := context.Background()

	require.NoError(t, engine.AddCorrection(ctx, core.CorrectionEntry{
		Key: "acme salsa verde",
		Result: core.Categorization{
			Category: "Condiments", Subcategory: "Salsa", ProductType: "Salsa",
		},
	}))

	result := engine.CategorizeProduct(ctx, core.Product{Description: "ACME Salsa Verde"})
	assert.Equal(t, "Condiments", result.Category)
	assert.Equal(t, "Salsa", result.Subcategory)
	assert.Equal(t, "Salsa", result.ProductType)
	// Corrections bypass the generative pipeline entirely.
	assert.Zero(t, generator.CallCount())
}

func TestEngineCategorizeThroughPipeline(t *testing.T) {
	generator := mock.NewMockGenerator()
	generator.GenerateFunc = func(ctx context.Context, prompt string) (string, error) {
		if generator.CallCount() == 1 {
			return "```json\n{\"category\": \"Produce\", \"subcategory\": \"Fresh Fruits\"}\n```", nil
		}
		return "```json\n{\"category\": \"Produce\", \"subcategory\": \"Fresh Fruits\", \"product_type\": \"Apples\"}\n```", nil
	}

	engine, _ := newTestEngine(t, generator)

	result := engine.CategorizeProduct(context.Background(), core.Product{
		Description: "Honeycrisp Apples 3lb Bag",
	})
	assert.Equal(t, "Produce", result.Category)
	assert.Equal(t, "Fresh Fruits", result.Subcategory)
	assert.Equal(t, "Apples", result.ProductType)
}

func TestEngineNegativeExampleRoundTrip(t *testing.T) {
	engine, _ := newTestEngine(t, nil)
	ctx := context.Background()

	wrong := core.Categorization{
		Category: "Produce", Subcategory: "Fresh Fruits", ProductType: "Apples",
	}
	require.NoError(t, engine.ReportMiscategorization(ctx, "Apple Cinnamon Oatmeal", wrong))

	// The filter survives a reload from durable storage.
	require.NoError(t, engine.RefreshCorrections(ctx))
}

func TestEngineBatchWritesReports(t *testing.T) {
	engine, _ := newTestEngine(t, nil)
	ctx := context.Background()

	require.NoError(t, engine.AddCorrection(ctx,
		core.CorrectionEntry{
			Key: "acme salsa",
			Result: core.Categorization{
				Category: "Condiments", Subcategory: "Salsa", ProductType: "Salsa",
			},
		},
		core.CorrectionEntry{
			Key: "fuji apples",
			Result: core.Categorization{
				Category: "Produce", Subcategory: "Fresh Fruits", ProductType: "Apples",
			},
		},
	))

	results := engine.CategorizeBatch(ctx, []core.Product{
		{Description: "Acme Salsa"},
		{Description: "Fuji Apples"},
	})
	require.Len(t, results, 2)
	assert.Equal(t, "Condiments", results[0].Result.Category)
	assert.Equal(t, "Produce", results[1].Result.Category)

	f, err := os.Open(engine.Logs().Reports.Path())
	require.NoError(t, err)
	defer f.Close()

	var reports []diaglog.ReportEntry
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var entry diaglog.ReportEntry
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &entry))
		reports = append(reports, entry)
	}
	require.NoError(t, scanner.Err())
	require.Len(t, reports, 2)
	assert.Equal(t, "Acme Salsa", reports[0].Product.Name)
}

func TestEngineRebuildVectorCache(t *testing.T) {
	engine, embedder := newTestEngine(t, nil)

	before := embedder.CallCount()
	require.NoError(t, engine.RebuildVectorCache(context.Background()))
	assert.Greater(t, embedder.CallCount(), before)
}

func TestEngineAccessors(t *testing.T) {
	engine, _ := newTestEngine(t, nil)

	assert.NotNil(t, engine.Corrections())
	assert.NotNil(t, engine.FailureRepository())
	assert.NotNil(t, engine.Logs())
	require.NotNil(t, engine.Taxonomy())
	assert.True(t, engine.Taxonomy().HasPair("Produce", "Fresh Fruits"))
	assert.Greater(t, engine.CorpusSize(), 0)
}
