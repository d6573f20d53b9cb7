package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/mbt/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func contractRun(id string) *domain.Run {
	started := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	return &domain.Run{
		ID:        id,
		Model:     "login",
		Generator: "random",
		Steps: []domain.Step{
			{Label: "e_login", TransitionID: "e0", Source: "Start", Target: "Home", State: "Home/x=1;", Data: map[string]string{"x": "1"}},
			{Label: "e_logout", TransitionID: "e1", Source: "Home", Target: "Start", State: "Start/x=1;"},
		},
		Statistics: "Coverage Edges: 2/2 => 100%",
		StartedAt:  started,
		FinishedAt: started.Add(2 * time.Second),
	}
}

// RunRunStoreContract runs a suite of tests to verify that a RunStore implementation
// adheres to the defined interface contract.
func RunRunStoreContract(t *testing.T, store RunStore) {
	ctx := context.Background()
	runID := "contract-test-run-" + time.Now().Format("20060102150405")

	t.Run("Save and Load", func(t *testing.T) {
		run := contractRun(runID)

		err := store.Save(ctx, run)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, runID)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, run.Model, loaded.Model)
		assert.Equal(t, run.Generator, loaded.Generator)
		assert.Equal(t, run.Statistics, loaded.Statistics)
		require.Len(t, loaded.Steps, 2)
		assert.Equal(t, "e_login", loaded.Steps[0].Label)
		assert.Equal(t, "1", loaded.Steps[0].Data["x"])
		assert.Equal(t, "Start/x=1;", loaded.Steps[1].State)
		assert.True(t, run.StartedAt.Equal(loaded.StartedAt))
		assert.True(t, run.FinishedAt.Equal(loaded.FinishedAt))
	})

	t.Run("Save Overwrites", func(t *testing.T) {
		run := contractRun(runID)
		run.Steps = run.Steps[:1]
		require.NoError(t, store.Save(ctx, run))

		loaded, err := store.Load(ctx, runID)
		require.NoError(t, err)
		assert.Len(t, loaded.Steps, 1)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+runID)
		assert.ErrorIs(t, err, domain.ErrRunNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, contractRun(runID)))

		err := store.Delete(ctx, runID)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, runID)
		assert.ErrorIs(t, err, domain.ErrRunNotFound, "Load after Delete should return ErrRunNotFound")
	})

	t.Run("List", func(t *testing.T) {
		id1 := runID + "-1"
		id2 := runID + "-2"
		_ = store.Save(ctx, contractRun(id1))
		_ = store.Save(ctx, contractRun(id2))

		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		runs, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, runs, id1)
		assert.Contains(t, runs, id2)
	})
}
