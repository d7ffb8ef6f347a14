package badger

import (
	"context"
	"testing"

	"github.com/poiesic/categorit/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCorrectionRepository_PutAndGetAll(t *testing.T) {
	repos, err := NewMemoryRepositories()
	require.NoError(t, err)
	defer repos.Close()

	ctx := context.Background()

	entries := []core.CorrectionEntry{
		{
			Key: "horizon organic whole milk",
			Result: core.Categorization{
				Category:    "Dairy & Eggs",
				Subcategory: "Milk",
				ProductType: "Whole Milk",
			},
		},
		{
			Key:         "0001111041700",
			IsProductID: true,
			Result: core.Categorization{
				Category:    "Beverages",
				Subcategory: "Juice",
				ProductType: "Orange Juice",
			},
		},
	}

	err = repos.Corrections.PutCorrections(ctx, entries...)
	require.NoError(t, err)

	got, err := repos.Corrections.GetAllCorrections(ctx)
	require.NoError(t, err)
	assert.Len(t, got, 2)

	byKey := make(map[string]core.CorrectionEntry)
	for _, entry := range got {
		byKey[entry.Key] = entry
	}
	assert.Equal(t, "Whole Milk", byKey["horizon organic whole milk"].Result.ProductType)
	assert.True(t, byKey["0001111041700"].IsProductID)
}

func TestCorrectionRepository_Overwrite(t *testing.T) {
	repos, err := NewMemoryRepositories()
	require.NoError(t, err)
	defer repos.Close()

	ctx := context.Background()

	first := core.CorrectionEntry{
		Key: "cola 12 pack",
		Result: core.Categorization{
			Category:    "Beverages",
			Subcategory: "Soda",
			ProductType: "Cola",
		},
	}
	err = repos.Corrections.PutCorrections(ctx, first)
	require.NoError(t, err)

	second := first
	second.Result.ProductType = "Diet Cola"
	err = repos.Corrections.PutCorrections(ctx, second)
	require.NoError(t, err)

	got, err := repos.Corrections.GetAllCorrections(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Diet Cola", got[0].Result.ProductType)
}

func TestCorrectionRepository_Empty(t *testing.T) {
	repos, err := NewMemoryRepositories()
	require.NoError(t, err)
	defer repos.Close()

	got, err := repos.Corrections.GetAllCorrections(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got)
}
