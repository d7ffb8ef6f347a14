package rules

import (
	"testing"

	"github.com/poiesic/categorit/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeIssueRecorder struct {
	issues []string
}

func (f *fakeIssueRecorder) RecordMappingIssue(productText string, hints []string, issueType string, details map[string]any) {
	f.issues = append(f.issues, issueType+":"+details["hint"].(string))
}

func TestConstrainCategories(t *testing.T) {
	mapper := NewConstraintMapper(DefaultTables(), nil)

	t.Run("single hint", func(t *testing.T) {
		assert.Equal(t, []string{"Produce"}, mapper.ConstrainCategories([]string{"Produce"}))
	})

	t.Run("case insensitive", func(t *testing.T) {
		assert.Equal(t, []string{"Frozen"}, mapper.ConstrainCategories([]string{"FROZEN"}))
	})

	t.Run("multiple hints deduplicated", func(t *testing.T) {
		categories := mapper.ConstrainCategories([]string{"snacks", "candy"})
		// Both map to Snacks & Candy; it must appear once.
		count := 0
		for _, category := range categories {
			if category == "Snacks & Candy" {
				count++
			}
		}
		assert.Equal(t, 1, count)
		assert.Contains(t, categories, "Prepared Foods")
	})

	t.Run("no hints", func(t *testing.T) {
		assert.Empty(t, mapper.ConstrainCategories(nil))
	})
}

func TestConstrainCategories_UnknownHintRecordedOnce(t *testing.T) {
	recorder := &fakeIssueRecorder{}
	mapper := NewConstraintMapper(DefaultTables(), recorder)

	assert.Empty(t, mapper.ConstrainCategories([]string{"mystery aisle"}))
	assert.Empty(t, mapper.ConstrainCategories([]string{"mystery aisle"}))

	require.Len(t, recorder.issues, 1)
	assert.Equal(t, "unknown_hint:mystery aisle", recorder.issues[0])
}

func TestMapPairsAndCategories(t *testing.T) {
	mapper := NewConstraintMapper(DefaultTables(), nil)

	t.Run("direct", func(t *testing.T) {
		mapped := mapper.MapPairsAndCategories([]string{"produce"})
		assert.Equal(t, []string{"Produce"}, mapped.Categories)
		assert.Empty(t, mapped.Pairs)
	})

	t.Run("multi", func(t *testing.T) {
		mapped := mapper.MapPairsAndCategories([]string{"beverages"})
		assert.Equal(t, []string{"Beverages", "Hard Beverages"}, mapped.Categories)
	})

	t.Run("partial with subcategory", func(t *testing.T) {
		mapped := mapper.MapPairsAndCategories([]string{"candy"})
		assert.Empty(t, mapped.Categories)
		assert.Equal(t, []core.Pair{{Category: "Snacks & Candy", Subcategory: "Chocolate & Candy"}}, mapped.Pairs)
	})

	t.Run("partial mixed", func(t *testing.T) {
		mapped := mapper.MapPairsAndCategories([]string{"health"})
		assert.Contains(t, mapped.Categories, "Health Care")
		assert.Contains(t, mapped.Categories, "Snacks & Candy")
		assert.Contains(t, mapped.Pairs, core.Pair{Category: "Health Care", Subcategory: "Cold, Flu & Allergy"})
	})

	t.Run("unknown hint ignored", func(t *testing.T) {
		mapped := mapper.MapPairsAndCategories([]string{"mystery aisle"})
		assert.Empty(t, mapped.Categories)
		assert.Empty(t, mapped.Pairs)
	})
}
