package badger

import (
	"context"
	"testing"

	"github.com/poiesic/categorit/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFailureRepository_AddAndGetAll(t *testing.T) {
	repos, err := NewMemoryRepositories()
	require.NoError(t, err)
	defer repos.Close()

	ctx := context.Background()

	records := []core.FailureRecord{
		{
			ProductText: "mystery item alpha",
			Stage:       "pair_selection",
			Reason:      "unparseable model output",
		},
		{
			ProductText: "mystery item beta",
			ProductID:   "0009999999999",
			Hints:       []string{"Snacks"},
			Stage:       "type_selection",
			Reason:      "invalid product type after retries",
		},
	}

	err = repos.Failures.AddFailures(ctx, records...)
	require.NoError(t, err)

	got, err := repos.Failures.GetAllFailures(ctx)
	require.NoError(t, err)
	assert.Len(t, got, 2)
	for _, record := range got {
		assert.False(t, record.Timestamp.IsZero())
	}
}

func TestFailureRepository_SameProductKeepsOneRecord(t *testing.T) {
	repos, err := NewMemoryRepositories()
	require.NoError(t, err)
	defer repos.Close()

	ctx := context.Background()

	record := core.FailureRecord{
		ProductText: "mystery item alpha",
		Stage:       "pair_selection",
		Reason:      "first failure",
	}
	err = repos.Failures.AddFailures(ctx, record)
	require.NoError(t, err)

	record.Reason = "second failure"
	err = repos.Failures.AddFailures(ctx, record)
	require.NoError(t, err)

	got, err := repos.Failures.GetAllFailures(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "second failure", got[0].Reason)
}

func TestFailureRepository_Purge(t *testing.T) {
	repos, err := NewMemoryRepositories()
	require.NoError(t, err)
	defer repos.Close()

	ctx := context.Background()

	err = repos.Failures.AddFailures(ctx,
		core.FailureRecord{ProductText: "one", Stage: "retrieval", Reason: "no candidates"},
		core.FailureRecord{ProductText: "two", Stage: "retrieval", Reason: "no candidates"},
	)
	require.NoError(t, err)

	err = repos.Failures.PurgeFailures(ctx)
	require.NoError(t, err)

	got, err := repos.Failures.GetAllFailures(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)
}
