package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/aretw0/mathpad/internal/logging"
	"github.com/aretw0/mathpad/pkg/domain"
	"github.com/aretw0/mathpad/pkg/ports"
)

var (
	ErrNoEditor  = errors.New("runner: no editor configured")
	ErrNoHandler = errors.New("runner: no input handler configured")
)

// Runner handles the editing loop of one session using the provided IO.
// It uses an IOHandler strategy to abstract the interaction mode.
type Runner struct {
	// Handler is the strategy for IO.
	Handler IOHandler

	// Logger is used for internal debug logging.
	// If nil, a no-op logger is used.
	Logger *slog.Logger

	// SessionID is the session being edited. Run fills it in when empty.
	SessionID string

	// InterruptSource stops the loop when it fires, like an OS signal.
	InterruptSource <-chan struct{}

	editor ports.Editor
}

// NewRunner creates a Runner.
func NewRunner(opts ...Option) *Runner {
	r := &Runner{}
	for _, opt := range opts {
		opt(r)
	}
	if r.Logger == nil {
		r.Logger = logging.NewNop()
	}
	return r
}

// Run starts (or resumes) the session and processes input until the handler
// returns io.EOF, the context is canceled or an interrupt arrives.
// Rejected input is reported through SystemOutput and does not stop the loop.
func (r *Runner) Run(ctx context.Context) error {
	if r.editor == nil {
		return ErrNoEditor
	}
	if r.Handler == nil {
		return ErrNoHandler
	}

	snap, err := r.editor.Start(ctx, r.SessionID)
	if err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}
	r.SessionID = snap.SessionID
	r.Logger.Debug("Session started", "session_id", r.SessionID)

	if err := r.Handler.Output(ctx, domain.Outcome{Snapshot: snap}); err != nil {
		return fmt.Errorf("output error: %w", err)
	}

	signals := NewSignalManager(ctx)
	defer signals.Stop()

	inputCtx, cancel := context.WithCancel(signals.Context())
	defer cancel()
	if r.InterruptSource != nil {
		go func() {
			select {
			case <-r.InterruptSource:
				cancel()
			case <-inputCtx.Done():
			}
		}()
	}

	for {
		events, err := r.Handler.Input(inputCtx)
		if err != nil {
			signals.CheckRace()
			if inputCtx.Err() != nil {
				r.Logger.Debug("Runner input: context done", "err", inputCtx.Err())
				return nil
			}
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("input error: %w", err)
		}
		if len(events) == 0 {
			continue
		}

		out, err := r.apply(ctx, events)
		if err != nil {
			if !Rejected(err) {
				return err
			}
			r.Logger.Debug("Input rejected", "session_id", r.SessionID, "err", err)
			if err := r.Handler.SystemOutput(ctx, "Error: "+err.Error()); err != nil {
				return fmt.Errorf("output error: %w", err)
			}
			continue
		}

		if err := r.Handler.Output(ctx, out); err != nil {
			return fmt.Errorf("output error: %w", err)
		}
	}
}

// apply runs a batch in order and returns the last outcome.
// The batch stops at the first error; earlier events stay applied.
func (r *Runner) apply(ctx context.Context, events []domain.InputEvent) (domain.Outcome, error) {
	var out domain.Outcome
	for _, ev := range events {
		var err error
		out, err = r.editor.Apply(ctx, r.SessionID, ev)
		if err != nil {
			return domain.Outcome{}, err
		}
	}
	return out, nil
}

// Rejected reports whether err is a problem with the user's input rather
// than with the session or its storage.
func Rejected(err error) bool {
	for _, target := range []error{
		domain.ErrInvalidInput,
		domain.ErrUnknownFunction,
		domain.ErrUnknownSymbol,
		domain.ErrUnknownSnippet,
		ErrInputTooLarge,
		ErrInvalidUTF8,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
