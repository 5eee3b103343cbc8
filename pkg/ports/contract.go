package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/mathpad/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunDocumentStoreContract runs a suite of tests to verify that a DocumentStore
// implementation adheres to the defined interface contract.
func RunDocumentStoreContract(t *testing.T, store DocumentStore) {
	ctx := context.Background()
	sessionID := "contract-test-session-" + time.Now().Format("20060102150405")

	t.Run("Save and Load", func(t *testing.T) {
		doc := &domain.Document{
			SessionID: sessionID,
			Expression: domain.Expression{
				domain.NewText("1+"),
				domain.NewFunction("sin", "x"),
				domain.NewFraction("2", ""),
			},
			Edit: domain.ActiveState(domain.ModeFractionDenominator, 2),
		}

		err := store.Save(ctx, sessionID, doc)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, doc.Expression, loaded.Expression)
		assert.Equal(t, doc.Edit, loaded.Edit)
		assert.NoError(t, loaded.Validate())
	})

	t.Run("Load Returns Independent Copy", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, sessionID, domain.NewDocument(sessionID)))

		first, err := store.Load(ctx, sessionID)
		require.NoError(t, err)
		first.Expression = append(first.Expression, domain.NewText("mutated"))

		second, err := store.Load(ctx, sessionID)
		require.NoError(t, err)
		assert.Empty(t, second.Expression)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		err := store.Save(ctx, sessionID, domain.NewDocument(sessionID))
		require.NoError(t, err)

		err = store.Delete(ctx, sessionID)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound, "Load after Delete should return ErrSessionNotFound")
	})

	t.Run("List", func(t *testing.T) {
		id1 := sessionID + "-1"
		id2 := sessionID + "-2"
		_ = store.Save(ctx, id1, domain.NewDocument(id1))
		_ = store.Save(ctx, id2, domain.NewDocument(id2))

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
