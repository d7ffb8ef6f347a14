package selection

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseObjectFencedBlock(t *testing.T) {
	response := "Here is my answer:\n```json\n{\"category\": \"Produce\", \"subcategory\": \"Fresh Fruits\"}\n```\nHope that helps!"

	obj, err := parseObject(response, "category", "subcategory")
	require.NoError(t, err)
	assert.Equal(t, "Produce", stringField(obj, "category"))
	assert.Equal(t, "Fresh Fruits", stringField(obj, "subcategory"))
}

func TestParseObjectFencedBlockNoLanguageTag(t *testing.T) {
	response := "```\n{\"product_type\": \"Apples\"}\n```"

	obj, err := parseObject(response, "product_type")
	require.NoError(t, err)
	assert.Equal(t, "Apples", stringField(obj, "product_type"))
}

func TestParseObjectBareJSON(t *testing.T) {
	obj, err := parseObject(`{"product_type": "Oranges"}`, "product_type")
	require.NoError(t, err)
	assert.Equal(t, "Oranges", stringField(obj, "product_type"))
}

func TestParseObjectLeadingEquals(t *testing.T) {
	obj, err := parseObject(`= {"product_type": "Bananas"}`, "product_type")
	require.NoError(t, err)
	assert.Equal(t, "Bananas", stringField(obj, "product_type"))
}

func TestParseObjectUnclosedFence(t *testing.T) {
	obj, err := parseObject("```json\n{\"product_type\": \"Pears\"}", "product_type")
	require.NoError(t, err)
	assert.Equal(t, "Pears", stringField(obj, "product_type"))
}

func TestParseObjectEmbeddedInProse(t *testing.T) {
	response := `Based on the product description, the best match is {"category": "Dairy & Eggs", "subcategory": "Milk"} because it mentions milk.`

	obj, err := parseObject(response, "category", "subcategory")
	require.NoError(t, err)
	assert.Equal(t, "Dairy & Eggs", stringField(obj, "category"))
}

func TestParseObjectSkipsObjectsMissingFields(t *testing.T) {
	response := `{"note": "thinking"} {"category": "Produce", "subcategory": "Fresh Fruits"}`

	obj, err := parseObject(response, "category", "subcategory")
	require.NoError(t, err)
	assert.Equal(t, "Produce", stringField(obj, "category"))
}

func TestParseObjectMissingFields(t *testing.T) {
	_, err := parseObject(`{"category": "Produce"}`, "category", "subcategory")
	assert.ErrorIs(t, err, ErrParse)
}

func TestParseObjectNoJSON(t *testing.T) {
	_, err := parseObject("I am not sure about this one.", "product_type")
	assert.ErrorIs(t, err, ErrParse)
}

func TestNormalizeName(t *testing.T) {
	assert.Equal(t, "Dairy & Eggs", normalizeName("  Dairy &amp; Eggs "))
	assert.Equal(t, "Milk", normalizeName("Milk"))
}

func TestStringFieldNonString(t *testing.T) {
	obj := map[string]any{"product_type": 42}
	assert.Equal(t, "", stringField(obj, "product_type"))
	assert.Equal(t, "", stringField(obj, "missing"))
}
