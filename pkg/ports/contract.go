package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/flowmap/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunLayoutStoreContract runs a suite of tests to verify that a LayoutStore implementation
// adheres to the defined interface contract.
func RunLayoutStoreContract(t *testing.T, store LayoutStore) {
	ctx := context.Background()
	workflowID := "contract-test-workflow-" + time.Now().Format("20060102150405")

	t.Run("Save and Load", func(t *testing.T) {
		positions := domain.PositionsMap{
			"draft":  {X: 10, Y: 20},
			"review": {X: 400.5, Y: -125},
		}

		err := store.SaveLayout(ctx, workflowID, positions)
		require.NoError(t, err, "SaveLayout should not return error")

		loaded, err := store.LoadLayout(ctx, workflowID)
		require.NoError(t, err, "LoadLayout should not return error")
		assert.Equal(t, positions, loaded)
	})

	t.Run("Save Replaces", func(t *testing.T) {
		require.NoError(t, store.SaveLayout(ctx, workflowID, domain.PositionsMap{"a": {X: 1, Y: 1}}))
		require.NoError(t, store.SaveLayout(ctx, workflowID, domain.PositionsMap{"b": {X: 2, Y: 2}}))

		loaded, err := store.LoadLayout(ctx, workflowID)
		require.NoError(t, err)
		assert.Equal(t, domain.PositionsMap{"b": {X: 2, Y: 2}}, loaded)
	})

	t.Run("Load Isolated From Caller", func(t *testing.T) {
		positions := domain.PositionsMap{"a": {X: 1, Y: 1}}
		require.NoError(t, store.SaveLayout(ctx, workflowID, positions))
		positions["a"] = domain.Position{X: 99, Y: 99}

		loaded, err := store.LoadLayout(ctx, workflowID)
		require.NoError(t, err)
		assert.Equal(t, domain.Position{X: 1, Y: 1}, loaded["a"])
	})

	t.Run("Empty Layout Is Not Missing", func(t *testing.T) {
		id := workflowID + "-empty"
		require.NoError(t, store.SaveLayout(ctx, id, domain.PositionsMap{}))
		defer func() { _ = store.DeleteLayout(ctx, id) }()

		loaded, err := store.LoadLayout(ctx, id)
		require.NoError(t, err)
		assert.NotNil(t, loaded)
		assert.Empty(t, loaded)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.LoadLayout(ctx, "non-existent-"+workflowID)
		assert.ErrorIs(t, err, domain.ErrLayoutNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.SaveLayout(ctx, workflowID, domain.PositionsMap{"a": {}}))

		err := store.DeleteLayout(ctx, workflowID)
		require.NoError(t, err, "DeleteLayout should not return error")

		_, err = store.LoadLayout(ctx, workflowID)
		assert.ErrorIs(t, err, domain.ErrLayoutNotFound, "LoadLayout after DeleteLayout should return ErrLayoutNotFound")

		assert.NoError(t, store.DeleteLayout(ctx, workflowID), "deleting twice is not an error")
	})

	t.Run("List", func(t *testing.T) {
		id1 := workflowID + "-1"
		id2 := workflowID + "-2"
		_ = store.SaveLayout(ctx, id1, domain.PositionsMap{"a": {}})
		_ = store.SaveLayout(ctx, id2, domain.PositionsMap{"b": {}})

		defer func() {
			_ = store.DeleteLayout(ctx, id1)
			_ = store.DeleteLayout(ctx, id2)
		}()

		ids, err := store.ListLayouts(ctx)
		require.NoError(t, err)
		assert.Contains(t, ids, id1)
		assert.Contains(t, ids, id2)
	})
}
