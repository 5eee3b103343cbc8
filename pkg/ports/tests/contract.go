package tests

import (
	"context"
	"testing"

	"github.com/aretw0/mathpad/pkg/domain"
	"github.com/aretw0/mathpad/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// SnippetSourceContractTest is a reusable test suite that verifies if an adapter complies with ports.SnippetSource.
func SnippetSourceContractTest(t *testing.T, source ports.SnippetSource, want []domain.Snippet) {
	t.Helper()
	ctx := context.Background()

	t.Run("Get_Success", func(t *testing.T) {
		for _, expected := range want {
			got, err := source.Get(ctx, expected.ID)
			require.NoError(t, err, "getting snippet %s", expected.ID)
			assert.Equal(t, expected, got)
		}
	})

	t.Run("Get_NotFound", func(t *testing.T) {
		_, err := source.Get(ctx, "non-existent-snippet")
		assert.ErrorIs(t, err, domain.ErrUnknownSnippet)
	})

	t.Run("List", func(t *testing.T) {
		all, err := source.List(ctx)
		require.NoError(t, err)
		require.Len(t, all, len(want))
		for i := 1; i < len(all); i++ {
			assert.Less(t, all[i-1].ID, all[i].ID, "snippets must be ordered by ID")
		}
	})
}
