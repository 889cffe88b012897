package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/spotcheck/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunStateStoreContract runs a suite of tests to verify that a StateStore implementation
// adheres to the defined interface contract.
func RunStateStoreContract(t *testing.T, store StateStore) {
	ctx := context.Background()
	sessionID := "contract-test-session-" + time.Now().Format("20060102150405")
	now := time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)

	t.Run("Save and Load", func(t *testing.T) {
		state := domain.NewState(now)
		state.StepIndex = 2
		state.Phase = domain.PhaseAwaitingQuestionnaire

		err := store.Save(ctx, sessionID, state)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, 2, loaded.StepIndex)
		assert.Equal(t, domain.PhaseAwaitingQuestionnaire, loaded.Phase)
		assert.True(t, loaded.StartedAt.Equal(now), "StartedAt should survive a round trip")
	})

	t.Run("Save Overwrites", func(t *testing.T) {
		state := domain.NewState(now)
		require.NoError(t, store.Save(ctx, sessionID, state))

		state.StepIndex = 1
		require.NoError(t, store.Save(ctx, sessionID, state))

		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err)
		assert.Equal(t, 1, loaded.StepIndex)
	})

	t.Run("Load Returns Copy", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, sessionID, domain.NewState(now)))

		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err)
		loaded.StepIndex = 99

		again, err := store.Load(ctx, sessionID)
		require.NoError(t, err)
		assert.Equal(t, 0, again.StepIndex, "mutating a loaded state must not change the store")
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		err := store.Save(ctx, sessionID, domain.NewState(now))
		require.NoError(t, err)

		err = store.Delete(ctx, sessionID)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound, "Load after Delete should return ErrSessionNotFound")
	})

	t.Run("List", func(t *testing.T) {
		id1 := sessionID + "-1"
		id2 := sessionID + "-2"
		_ = store.Save(ctx, id1, domain.NewState(now))
		_ = store.Save(ctx, id2, domain.NewState(now))

		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		sessions, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, sessions, id1)
		assert.Contains(t, sessions, id2)
	})
}
