package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/formwork/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunDraftStoreContract runs a suite of tests to verify that a DraftStore implementation
// adheres to the defined interface contract.
func RunDraftStoreContract(t *testing.T, store DraftStore) {
	ctx := context.Background()
	formID := "contract-form"
	sessionID := "contract-session-" + time.Now().Format("20060102150405")

	t.Run("Save and Load", func(t *testing.T) {
		draft := domain.NewDraft(sessionID, formID)
		draft.Values["name"] = "ada"
		draft.Values["address"] = map[string]any{"city": "London"}
		draft.Version = 3

		require.NoError(t, store.Save(ctx, draft), "Save should not return error")

		loaded, err := store.Load(ctx, formID, sessionID)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, formID, loaded.FormID)
		assert.Equal(t, sessionID, loaded.SessionID)
		assert.Equal(t, 3, loaded.Version)
		assert.Equal(t, "ada", loaded.Values["name"])
		assert.Equal(t, map[string]any{"city": "London"}, loaded.Values["address"])
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, formID, "non-existent-"+sessionID)
		assert.ErrorIs(t, err, domain.ErrDraftNotFound)

		_, err = store.Load(ctx, "other-form", sessionID)
		assert.ErrorIs(t, err, domain.ErrDraftNotFound, "drafts are scoped by form")
	})

	t.Run("Isolation", func(t *testing.T) {
		draft := domain.NewDraft(sessionID, formID)
		draft.Values["name"] = "ada"
		require.NoError(t, store.Save(ctx, draft))

		draft.Values["name"] = "changed after save"
		loaded, err := store.Load(ctx, formID, sessionID)
		require.NoError(t, err)
		assert.Equal(t, "ada", loaded.Values["name"])

		loaded.Values["name"] = "changed after load"
		again, err := store.Load(ctx, formID, sessionID)
		require.NoError(t, err)
		assert.Equal(t, "ada", again.Values["name"])
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, domain.NewDraft(sessionID, formID)))

		require.NoError(t, store.Delete(ctx, formID, sessionID), "Delete should not return error")

		_, err := store.Load(ctx, formID, sessionID)
		assert.ErrorIs(t, err, domain.ErrDraftNotFound, "Load after Delete should return ErrDraftNotFound")

		assert.NoError(t, store.Delete(ctx, formID, sessionID), "Delete is idempotent")
	})

	t.Run("List", func(t *testing.T) {
		id1 := sessionID + "-1"
		id2 := sessionID + "-2"
		require.NoError(t, store.Save(ctx, domain.NewDraft(id1, formID)))
		require.NoError(t, store.Save(ctx, domain.NewDraft(id2, formID)))
		require.NoError(t, store.Save(ctx, domain.NewDraft(id1, "other-form")))

		defer func() {
			_ = store.Delete(ctx, formID, id1)
			_ = store.Delete(ctx, formID, id2)
			_ = store.Delete(ctx, "other-form", id1)
		}()

		sessions, err := store.List(ctx, formID)
		require.NoError(t, err)
		assert.Contains(t, sessions, id1)
		assert.Contains(t, sessions, id2)

		others, err := store.List(ctx, "other-form")
		require.NoError(t, err)
		assert.Equal(t, []string{id1}, others)
	})
}
