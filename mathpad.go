package mathpad

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/mathpad/internal/editor"
	"github.com/aretw0/mathpad/internal/logging"
	luaAdapter "github.com/aretw0/mathpad/pkg/adapters/lua"
	"github.com/aretw0/mathpad/pkg/adapters/memory"
	"github.com/aretw0/mathpad/pkg/domain"
	"github.com/aretw0/mathpad/pkg/ports"
	"github.com/aretw0/mathpad/pkg/runner"
	"github.com/aretw0/mathpad/pkg/session"
	"github.com/google/uuid"
)

// Engine is the high-level entry point for the mathpad library.
// Every operation is keyed by a session ID and runs as one transaction:
// the document is loaded, an automaton is rebuilt around it, the gesture is
// applied and the result is saved back.
type Engine struct {
	sessions  *session.Manager
	store     ports.DocumentStore
	locker    ports.DistributedLocker
	evaluator ports.Evaluator
	palette   ports.SnippetSource
	hooks     domain.LifecycleHooks
	logger    *slog.Logger
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithStore sets where documents are persisted (default: in memory).
func WithStore(store ports.DocumentStore) Option {
	return func(e *Engine) {
		e.store = store
	}
}

// WithEvaluator replaces the default Lua evaluator.
func WithEvaluator(ev ports.Evaluator) Option {
	return func(e *Engine) {
		e.evaluator = ev
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithLifecycleHooks registers observability hooks.
// Calling it more than once merges the hook sets.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = e.hooks.Merge(hooks)
	}
}

// WithLocker enables distributed locking of sessions across replicas.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(e *Engine) {
		e.locker = locker
	}
}

// WithPalette sets the snippet palette (default: memory.DefaultPalette).
func WithPalette(p ports.SnippetSource) Option {
	return func(e *Engine) {
		e.palette = p
	}
}

// New initializes a new Engine.
func New(opts ...Option) (*Engine, error) {
	eng := &Engine{}
	for _, opt := range opts {
		opt(eng)
	}

	if eng.logger == nil {
		eng.logger = logging.NewNop()
	}
	if eng.store == nil {
		eng.store = memory.NewStore()
	}
	if eng.evaluator == nil {
		eng.evaluator = luaAdapter.New(luaAdapter.WithLogger(eng.logger))
	}
	if eng.palette == nil {
		eng.palette = memory.DefaultPalette()
	}

	sessOpts := []session.Option{session.WithLogger(eng.logger)}
	if eng.locker != nil {
		sessOpts = append(sessOpts, session.WithLocker(eng.locker))
	}
	eng.sessions = session.NewManager(eng.store, sessOpts...)

	return eng, nil
}

// NewSessionID generates a random session identifier.
func NewSessionID() string {
	return uuid.NewString()
}

// Sessions exposes the underlying session manager.
func (e *Engine) Sessions() *session.Manager {
	return e.sessions
}

// Start loads a session, creating an empty one when it does not exist yet.
// An empty sessionID generates a fresh one.
func (e *Engine) Start(ctx context.Context, sessionID string) (domain.Snapshot, error) {
	if sessionID == "" {
		sessionID = NewSessionID()
	}
	doc, err := e.sessions.LoadOrStart(ctx, sessionID)
	if err != nil {
		return domain.Snapshot{}, err
	}
	return domain.NewSnapshot(doc), nil
}

// Snapshot returns the current view of an existing session.
func (e *Engine) Snapshot(ctx context.Context, sessionID string) (domain.Snapshot, error) {
	doc, err := e.sessions.Load(ctx, sessionID)
	if err != nil {
		return domain.Snapshot{}, err
	}
	return domain.NewSnapshot(doc), nil
}

// Key applies one key press. The returned Action tells the host whether the
// gesture asked for an evaluation.
func (e *Engine) Key(ctx context.Context, sessionID string, k domain.KeyEvent) (domain.Snapshot, domain.Action, error) {
	var action domain.Action
	snap, err := e.edit(ctx, sessionID, func(a *editor.Automaton) error {
		action = a.HandleKey(k)
		return nil
	})
	return snap, action, err
}

// Type feeds text as if each character were typed, so spaces, tabs and
// newlines act as gestures.
func (e *Engine) Type(ctx context.Context, sessionID, text string) (domain.Snapshot, error) {
	snap, _, err := e.typeText(ctx, sessionID, text)
	return snap, err
}

// typeText reports the action of the last typed key, so text ending in a
// newline asks for an evaluation.
func (e *Engine) typeText(ctx context.Context, sessionID, text string) (domain.Snapshot, domain.Action, error) {
	var action domain.Action
	snap, err := e.edit(ctx, sessionID, func(a *editor.Automaton) error {
		for _, r := range text {
			action = a.HandleKey(typedKey(r))
		}
		return nil
	})
	return snap, action, err
}

func typedKey(r rune) domain.KeyEvent {
	switch r {
	case ' ':
		return domain.KeyEvent{Key: domain.KeySpace}
	case '\t':
		return domain.KeyEvent{Key: domain.KeyTab}
	case '\n', '\r':
		return domain.KeyEvent{Key: domain.KeyEnter}
	}
	return domain.RuneKey(r)
}

// Paste inserts sanitized text character by character, keywords and
// triggers included.
func (e *Engine) Paste(ctx context.Context, sessionID, text string) (domain.Snapshot, error) {
	clean, err := runner.SanitizePaste(text)
	if err != nil {
		return domain.Snapshot{}, fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
	}
	return e.edit(ctx, sessionID, func(a *editor.Automaton) error {
		a.InsertText(clean)
		return nil
	})
}

// Backspace deletes one character, unwinding empty structures.
func (e *Engine) Backspace(ctx context.Context, sessionID string) (domain.Snapshot, error) {
	return e.edit(ctx, sessionID, func(a *editor.Automaton) error {
		a.Backspace()
		return nil
	})
}

// Navigate moves within or out of the active structure.
func (e *Engine) Navigate(ctx context.Context, sessionID string, dir domain.Direction) (domain.Snapshot, error) {
	if dir != domain.Forward && dir != domain.Backward {
		return domain.Snapshot{}, fmt.Errorf("%w: direction %q", domain.ErrInvalidInput, dir)
	}
	return e.edit(ctx, sessionID, func(a *editor.Automaton) error {
		a.Navigate(dir)
		return nil
	})
}

// Cancel leaves the active mode and keeps the node.
func (e *Engine) Cancel(ctx context.Context, sessionID string) (domain.Snapshot, error) {
	return e.edit(ctx, sessionID, func(a *editor.Automaton) error {
		a.Cancel()
		return nil
	})
}

// InsertSymbol opens a structural node as a toolbar button would.
func (e *Engine) InsertSymbol(ctx context.Context, sessionID string, sym domain.Symbol) (domain.Snapshot, error) {
	return e.edit(ctx, sessionID, func(a *editor.Automaton) error {
		return a.InsertSymbol(sym)
	})
}

// InsertFunction opens a function node by name.
func (e *Engine) InsertFunction(ctx context.Context, sessionID, name string) (domain.Snapshot, error) {
	return e.edit(ctx, sessionID, func(a *editor.Automaton) error {
		return a.InsertFunction(name)
	})
}

// ApplySnippet inserts a palette entry.
func (e *Engine) ApplySnippet(ctx context.Context, sessionID, snippetID string) (domain.Snapshot, error) {
	snip, err := e.palette.Get(ctx, snippetID)
	if err != nil {
		return domain.Snapshot{}, err
	}
	return e.edit(ctx, sessionID, func(a *editor.Automaton) error {
		switch snip.Kind {
		case domain.SnippetSymbol:
			return a.InsertSymbol(domain.Symbol(snip.Value))
		case domain.SnippetFunction:
			return a.InsertFunction(snip.Value)
		default:
			a.InsertText(snip.Value)
			return nil
		}
	})
}

// Snippets lists the palette.
func (e *Engine) Snippets(ctx context.Context) ([]domain.Snippet, error) {
	return e.palette.List(ctx)
}

// Evaluate computes the linear text of a session.
// Evaluation failures are returned as *domain.EvaluationError.
func (e *Engine) Evaluate(ctx context.Context, sessionID string) (domain.Result, error) {
	doc, err := e.sessions.Load(ctx, sessionID)
	if err != nil {
		return domain.Result{}, err
	}
	return e.evaluate(ctx, sessionID, doc.Expression.LinearText())
}

func (e *Engine) evaluate(ctx context.Context, sessionID, text string) (domain.Result, error) {
	start := time.Now()
	res, err := e.evaluator.Evaluate(ctx, text)

	if e.hooks.OnEvaluate != nil {
		e.hooks.OnEvaluate(ctx, &domain.EvaluationEvent{
			EventBase: domain.EventBase{
				Timestamp: time.Now(),
				Type:      domain.EventEvaluate,
				SessionID: sessionID,
			},
			Expression: text,
			Duration:   time.Since(start),
			Err:        err,
		})
	}
	return res, err
}

// Reset clears the expression and returns to Normal mode.
func (e *Engine) Reset(ctx context.Context, sessionID string) (domain.Snapshot, error) {
	doc, err := e.sessions.Update(ctx, sessionID, func(doc *domain.Document) error {
		doc.Expression = domain.Expression{}
		doc.Edit = domain.NormalState()
		return nil
	})
	if err != nil {
		return domain.Snapshot{}, err
	}
	return domain.NewSnapshot(doc), nil
}

// Delete removes a session.
func (e *Engine) Delete(ctx context.Context, sessionID string) error {
	return e.sessions.Delete(ctx, sessionID)
}

// List returns the IDs of stored sessions.
func (e *Engine) List(ctx context.Context) ([]string, error) {
	return e.sessions.List(ctx)
}

// Apply runs one transport-neutral input event.
// Evaluation failures are reported in Outcome.Output, not as an error.
func (e *Engine) Apply(ctx context.Context, sessionID string, ev domain.InputEvent) (domain.Outcome, error) {
	var (
		snap   domain.Snapshot
		action domain.Action
		err    error
	)

	switch ev.Type {
	case domain.InputTyped:
		snap, action, err = e.typeText(ctx, sessionID, ev.Text)
	case domain.InputKey:
		k, perr := domain.ParseKey(ev.Key)
		if perr != nil {
			return domain.Outcome{}, fmt.Errorf("%w: %w", domain.ErrInvalidInput, perr)
		}
		snap, action, err = e.Key(ctx, sessionID, k)
	case domain.InputPaste:
		snap, err = e.Paste(ctx, sessionID, ev.Text)
	case domain.InputSymbol:
		snap, err = e.InsertSymbol(ctx, sessionID, domain.Symbol(ev.Value))
	case domain.InputFunction:
		snap, err = e.InsertFunction(ctx, sessionID, ev.Value)
	case domain.InputSnippet:
		snap, err = e.ApplySnippet(ctx, sessionID, ev.Value)
	case domain.InputEvaluate:
		snap, err = e.Snapshot(ctx, sessionID)
		action = domain.ActionEvaluate
	case domain.InputReset:
		snap, err = e.Reset(ctx, sessionID)
	default:
		return domain.Outcome{}, fmt.Errorf("%w: event type %q", domain.ErrInvalidInput, ev.Type)
	}
	if err != nil {
		return domain.Outcome{}, err
	}

	out := domain.Outcome{Snapshot: snap, Action: action}
	if action != domain.ActionEvaluate {
		return out, nil
	}

	// The result must describe snap, not a later reload.
	res, err := e.evaluate(ctx, sessionID, snap.LinearText)
	switch {
	case err == nil:
		out.Result = &res
		out.Output = domain.FormatOutcome(&res, nil)
	case errors.Is(err, domain.ErrEmptyExpression):
	case errors.Is(err, domain.ErrEvaluation):
		out.Output = domain.FormatOutcome(nil, err)
	default:
		return domain.Outcome{}, err
	}
	return out, nil
}

// edit runs fn against an automaton rebuilt from the stored document and
// saves the result. A session that does not exist yet starts empty.
func (e *Engine) edit(ctx context.Context, sessionID string, fn func(*editor.Automaton) error) (domain.Snapshot, error) {
	if sessionID == "" {
		return domain.Snapshot{}, fmt.Errorf("%w: empty session id", domain.ErrInvalidInput)
	}
	doc, err := e.sessions.Update(ctx, sessionID, func(doc *domain.Document) error {
		a, err := editor.Restore(doc,
			editor.WithLifecycleHooks(e.hooks),
			editor.WithLogger(e.logger),
			editor.WithContext(ctx),
		)
		if err != nil {
			return err
		}
		if err := fn(a); err != nil {
			return err
		}
		next := a.Document()
		doc.Expression = next.Expression
		doc.Edit = next.Edit
		return nil
	})
	if err != nil {
		return domain.Snapshot{}, err
	}
	return domain.NewSnapshot(doc), nil
}

var _ ports.Editor = (*Engine)(nil)
