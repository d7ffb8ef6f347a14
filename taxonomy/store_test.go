package taxonomy

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/categorit/core"
)

func testTree() []Category {
	return []Category{
		{
			Name: "Dairy & Eggs",
			Subcategories: []Subcategory{
				{Name: "Milk", ProductTypes: []string{"Whole Milk", "2% Milk", "Oat Milk"}},
				{Name: "Eggs", ProductTypes: []string{"Chicken Eggs", "Duck Eggs"}},
			},
		},
		{
			Name: "Beverages",
			Subcategories: []Subcategory{
				{Name: "Milk", ProductTypes: []string{"Whole Milk", "Oat Milk"}},
				{Name: "Water", GridOnly: true},
			},
		},
	}
}

func TestNew_Valid(t *testing.T) {
	store, err := New(testTree())
	require.NoError(t, err)

	assert.Equal(t, []string{"Dairy & Eggs", "Beverages"}, store.Categories())

	subs := store.Subcategories("Dairy & Eggs")
	require.Len(t, subs, 2)
	assert.Equal(t, "Milk", subs[0].Name)
	assert.Equal(t, "Eggs", subs[1].Name)

	assert.Nil(t, store.Subcategories("Nonexistent"))
}

func TestNew_Errors(t *testing.T) {
	tests := []struct {
		name       string
		categories []Category
		wantErr    error
	}{
		{
			name:       "no categories",
			categories: nil,
			wantErr:    ErrNoCategories,
		},
		{
			name: "category without subcategories",
			categories: []Category{
				{Name: "Dairy & Eggs"},
			},
			wantErr: ErrNoSubcategories,
		},
		{
			name: "category without name",
			categories: []Category{
				{Subcategories: []Subcategory{{Name: "Milk"}}},
			},
			wantErr: ErrMissingName,
		},
		{
			name: "subcategory without name",
			categories: []Category{
				{Name: "Dairy & Eggs", Subcategories: []Subcategory{{ProductTypes: []string{"Whole Milk"}}}},
			},
			wantErr: ErrMissingName,
		},
		{
			name: "duplicate category",
			categories: []Category{
				{Name: "Dairy & Eggs", Subcategories: []Subcategory{{Name: "Milk"}}},
				{Name: "Dairy & Eggs", Subcategories: []Subcategory{{Name: "Eggs"}}},
			},
			wantErr: ErrDuplicateName,
		},
		{
			name: "duplicate subcategory",
			categories: []Category{
				{Name: "Dairy & Eggs", Subcategories: []Subcategory{
					{Name: "Milk"},
					{Name: "Milk"},
				}},
			},
			wantErr: ErrDuplicateName,
		},
		{
			name: "duplicate product type",
			categories: []Category{
				{Name: "Dairy & Eggs", Subcategories: []Subcategory{
					{Name: "Milk", ProductTypes: []string{"Whole Milk", "Whole Milk"}},
				}},
			},
			wantErr: ErrDuplicateName,
		},
		{
			name: "gridOnly with product types",
			categories: []Category{
				{Name: "Beverages", Subcategories: []Subcategory{
					{Name: "Water", GridOnly: true, ProductTypes: []string{"Sparkling"}},
				}},
			},
			wantErr: ErrGridOnlyTypes,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.categories)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.ErrorIs(t, err, core.ErrConfig)
		})
	}
}

func TestParse(t *testing.T) {
	input := `[
		{
			"name": "Produce",
			"subcategories": [
				{"name": "Fresh Vegetables", "productTypes": ["Carrots", "Celery"]},
				{"name": "Salad Kits", "gridOnly": true}
			]
		}
	]`

	store, err := Parse(strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, []string{"Produce"}, store.Categories())
	assert.True(t, store.IsValid("Produce", "Fresh Vegetables", "Carrots"))
	assert.True(t, store.IsGridOnly("Produce", "Salad Kits"))
}

func TestParse_Malformed(t *testing.T) {
	_, err := Parse(strings.NewReader(`{"not": "an array"}`))
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrConfig)
}

func TestStore_IsValid(t *testing.T) {
	store, err := New(testTree())
	require.NoError(t, err)

	tests := []struct {
		name    string
		c, s, p string
		want    bool
	}{
		{"regular leaf", "Dairy & Eggs", "Milk", "Whole Milk", true},
		{"wrong type", "Dairy & Eggs", "Milk", "Goat Milk", false},
		{"gridOnly leaf uses subcategory name", "Beverages", "Water", "Water", true},
		{"gridOnly leaf rejects other types", "Beverages", "Water", "Sparkling", false},
		{"missing subcategory", "Dairy & Eggs", "Cheese", "Cheddar", false},
		{"missing category", "Bakery", "Bread", "Sourdough", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, store.IsValid(tt.c, tt.s, tt.p))
		})
	}
}

func TestStore_ProductTypes(t *testing.T) {
	store, err := New(testTree())
	require.NoError(t, err)

	assert.Equal(t, []string{"Whole Milk", "2% Milk", "Oat Milk"}, store.ProductTypes("Dairy & Eggs", "Milk"))
	assert.Equal(t, []string{"Water"}, store.ProductTypes("Beverages", "Water"))
	assert.Nil(t, store.ProductTypes("Beverages", "Juice"))
}

func TestStore_HasPair(t *testing.T) {
	store, err := New(testTree())
	require.NoError(t, err)

	assert.True(t, store.HasPair("Beverages", "Milk"))
	assert.False(t, store.HasPair("Beverages", "Juice"))
	assert.False(t, store.HasPair("Bakery", "Bread"))
}
