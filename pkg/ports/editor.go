package ports

import (
	"context"

	"github.com/aretw0/mathpad/pkg/domain"
)

// Editor is the session-keyed surface transports drive (HTTP, MCP, runners).
// The root mathpad.Engine implements it.
type Editor interface {
	// Start loads a session, creating an empty one when it does not exist.
	// An empty sessionID asks the editor to generate one.
	Start(ctx context.Context, sessionID string) (domain.Snapshot, error)

	// Snapshot returns the current view of an existing session.
	Snapshot(ctx context.Context, sessionID string) (domain.Snapshot, error)

	// Apply runs one input event as a single transaction.
	Apply(ctx context.Context, sessionID string, ev domain.InputEvent) (domain.Outcome, error)

	// Delete removes a session.
	Delete(ctx context.Context, sessionID string) error

	// List returns the IDs of stored sessions.
	List(ctx context.Context) ([]string, error)

	// Snippets returns the insert palette.
	Snippets(ctx context.Context) ([]domain.Snippet, error)
}
