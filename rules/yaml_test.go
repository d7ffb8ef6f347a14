package rules

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/poiesic/categorit/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeRulesFile(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0644))
	return path
}

func TestLoadTables_EmptyPathReturnsDefaults(t *testing.T) {
	tables, err := LoadTables("")
	require.NoError(t, err)
	assert.NotEmpty(t, tables.Dual)
	assert.NotEmpty(t, tables.External)
	assert.NotEmpty(t, tables.Constraints)
	assert.Empty(t, tables.Multi)
}

func TestLoadTables_OverridesPerKey(t *testing.T) {
	path := writeRulesFile(t, `
dual:
  - category: Beverages
    subcategory: Milk
    target_category: Dairy & Eggs
    wildcard_subcategory: Milk
multi:
  - category: Snacks & Candy
    subcategory: Dips
    targets:
      - category: Deli
        subcategory: "Olives, Dips, & Spreads"
external:
  - label: produce
    type: direct
    categories: [Produce, Floral]
constraints:
  produce: [Produce, Floral]
`)

	tables, err := LoadTables(path)
	require.NoError(t, err)

	// Overridden dual rule replaced the per-type default with a wildcard.
	rule := tables.Dual[core.Pair{Category: "Beverages", Subcategory: "Milk"}]
	require.NotNil(t, rule.WildcardTarget)
	assert.Equal(t, Target{Category: "Dairy & Eggs", Subcategory: "Milk"}, *rule.WildcardTarget)
	assert.Empty(t, rule.PerTypeTarget)

	// Untouched defaults survive.
	assert.Contains(t, tables.Dual, core.Pair{Category: "Dairy & Eggs", Subcategory: "Milk"})

	assert.Equal(t, []Target{{Category: "Deli", Subcategory: "Olives, Dips, & Spreads"}},
		tables.Multi[core.Pair{Category: "Snacks & Candy", Subcategory: "Dips"}])

	assert.Equal(t, []string{"Produce", "Floral"}, tables.External["produce"].Categories)
	assert.Equal(t, []string{"Produce", "Floral"}, tables.Constraints["produce"])
}

func TestLoadTables_InvalidType(t *testing.T) {
	path := writeRulesFile(t, `
external:
  - label: produce
    type: sideways
    categories: [Produce]
`)

	_, err := LoadTables(path)
	assert.ErrorIs(t, err, core.ErrConfig)
}

func TestLoadTables_MissingFile(t *testing.T) {
	_, err := LoadTables(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.ErrorIs(t, err, core.ErrConfig)
}

func TestLoadTables_MissingPair(t *testing.T) {
	path := writeRulesFile(t, `
dual:
  - category: Beverages
    target_category: Dairy & Eggs
    wildcard_subcategory: Milk
`)

	_, err := LoadTables(path)
	assert.ErrorIs(t, err, core.ErrConfig)
}
