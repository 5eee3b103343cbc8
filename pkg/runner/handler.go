package runner

import (
	"context"

	"github.com/aretw0/mathpad/pkg/domain"
)

// IOHandler defines the strategy for interacting with the user.
// This allows switching between Text, JSON and raw Terminal modes.
type IOHandler interface {
	// Output presents the outcome of the last batch of events.
	Output(ctx context.Context, out domain.Outcome) error

	// Input reads the events of one user turn: a line, a JSON message or a key press.
	// io.EOF ends the session.
	Input(ctx context.Context) ([]domain.InputEvent, error)

	// SystemOutput presents a meta-message to the user (rejected input, status).
	// This is distinct from the expression view.
	SystemOutput(ctx context.Context, msg string) error
}
