package ports

import (
	"context"

	"github.com/aretw0/mathpad/pkg/domain"
)

// SnippetSource supplies the palette of ready-made inserts.
type SnippetSource interface {
	// Get returns one snippet. Returns domain.ErrUnknownSnippet if it does not exist.
	Get(ctx context.Context, id string) (domain.Snippet, error)

	// List returns every snippet, ordered by ID.
	List(ctx context.Context) ([]domain.Snippet, error)
}
