package ports

import (
	"context"

	"github.com/aretw0/mathpad/pkg/domain"
)

// DocumentStore defines the interface for persisting editing sessions.
// This allows a session to be resumed by another process or replica.
type DocumentStore interface {
	// Save persists the document for a given session ID.
	Save(ctx context.Context, sessionID string, doc *domain.Document) error

	// Load retrieves the document for a given session ID.
	// Returns domain.ErrSessionNotFound if the session does not exist.
	Load(ctx context.Context, sessionID string) (*domain.Document, error)

	// Delete removes the document for a given session ID.
	Delete(ctx context.Context, sessionID string) error

	// List returns the IDs of every stored session.
	List(ctx context.Context) ([]string, error)
}
