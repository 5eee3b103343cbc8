package runner

import (
	"log/slog"

	"github.com/aretw0/mathpad/pkg/ports"
)

// Option defines a functional option for configuring the Runner.
type Option func(*Runner)

// WithEditor configures the editor the runner drives. Required.
func WithEditor(editor ports.Editor) Option {
	return func(r *Runner) {
		r.editor = editor
	}
}

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		r.Logger = logger
	}
}

// WithInputHandler configures the IOHandler. Required.
func WithInputHandler(handler IOHandler) Option {
	return func(r *Runner) {
		r.Handler = handler
	}
}

// WithSessionID resumes (or creates) the given session.
// Without it a fresh session ID is generated by the editor.
func WithSessionID(id string) Option {
	return func(r *Runner) {
		r.SessionID = id
	}
}

// WithInterruptSource sets a channel that stops the loop when it fires or closes.
func WithInterruptSource(ch <-chan struct{}) Option {
	return func(r *Runner) {
		r.InterruptSource = ch
	}
}
