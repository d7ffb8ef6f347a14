package retrieval

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/categorit/taxonomy"
)

func corpusTaxonomy(t *testing.T) *taxonomy.Store {
	t.Helper()
	store, err := taxonomy.New([]taxonomy.Category{
		{
			Name: "Produce",
			Subcategories: []taxonomy.Subcategory{
				{Name: "Fresh Vegetables", ProductTypes: []string{"Carrots & Celery", "Potatoes"}},
			},
		},
		{
			Name: "Condiments",
			Subcategories: []taxonomy.Subcategory{
				{Name: "Salsa", GridOnly: true},
			},
		},
	})
	require.NoError(t, err)
	return store
}

func TestBuildCorpus(t *testing.T) {
	phrases := BuildCorpus(corpusTaxonomy(t))

	var texts []string
	for _, p := range phrases {
		texts = append(texts, p.Text)
	}
	assert.Equal(t, []string{
		"Produce Fresh Vegetables Carrots",
		"Produce Fresh Vegetables Celery",
		"Produce Fresh Vegetables Carrots & Celery",
		"Produce Fresh Vegetables Potatoes",
		"Condiments Salsa",
	}, texts)

	// Conjunction part phrases keep the full product type.
	assert.Equal(t, "Carrots & Celery", phrases[0].ProductType)
	assert.Equal(t, "Carrots & Celery", phrases[1].ProductType)

	// Grid-only subcategories use the subcategory name as the type.
	last := phrases[len(phrases)-1]
	assert.Equal(t, "Condiments", last.Category)
	assert.Equal(t, "Salsa", last.Subcategory)
	assert.Equal(t, "Salsa", last.ProductType)
}

func TestBuildCorpusDeterministic(t *testing.T) {
	store := corpusTaxonomy(t)
	assert.Equal(t, BuildCorpus(store), BuildCorpus(store))
}

func TestFingerprint(t *testing.T) {
	phrases := BuildCorpus(corpusTaxonomy(t))

	fp := Fingerprint(phrases, "nomic-embed-text")
	assert.Len(t, fp, 32)
	assert.Equal(t, fp, Fingerprint(phrases, "nomic-embed-text"))

	// Changing the model or the corpus changes the fingerprint.
	assert.NotEqual(t, fp, Fingerprint(phrases, "other-model"))
	assert.NotEqual(t, fp, Fingerprint(phrases[:len(phrases)-1], "nomic-embed-text"))
}
