// Package editor implements the structural edit automaton: the state machine that
// turns keystrokes into an expression tree.
//
// An Automaton owns one Document. Every exported operation is a total,
// synchronous transaction against it; none of them fail. The automaton is not
// safe for concurrent use: hosts serialize access per session.
package editor

import (
	"context"
	"fmt"
	"log/slog"
	"time"
	"unicode/utf8"

	"github.com/aretw0/mathpad/internal/logging"
	"github.com/aretw0/mathpad/pkg/domain"
	"github.com/aretw0/mathpad/pkg/keyword"
)

// Automaton is the expression tree plus its edit state.
type Automaton struct {
	doc    *domain.Document
	hooks  domain.LifecycleHooks
	logger *slog.Logger
	ctx    context.Context
}

// Option configures an Automaton.
type Option func(*Automaton)

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(a *Automaton) {
		a.hooks = hooks
	}
}

// WithLogger sets a structured logger for mode transitions.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Automaton) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// WithContext sets the context handed to lifecycle hooks.
func WithContext(ctx context.Context) Option {
	return func(a *Automaton) {
		if ctx != nil {
			a.ctx = ctx
		}
	}
}

// New creates an automaton over an empty expression.
func New(sessionID string, opts ...Option) *Automaton {
	return newAutomaton(domain.NewDocument(sessionID), opts...)
}

// Restore resumes editing a persisted document.
// The document is copied; the caller keeps ownership of its argument.
func Restore(doc *domain.Document, opts ...Option) (*Automaton, error) {
	if err := doc.Validate(); err != nil {
		return nil, fmt.Errorf("cannot restore session %q: %w", doc.SessionID, err)
	}
	cp := doc.Clone()
	if cp.Edit.Mode == "" {
		cp.Edit = domain.NormalState()
	}
	if cp.Expression == nil {
		cp.Expression = domain.Expression{}
	}
	return newAutomaton(cp, opts...), nil
}

func newAutomaton(doc *domain.Document, opts ...Option) *Automaton {
	a := &Automaton{
		doc:    doc,
		logger: logging.NewNop(),
		ctx:    context.Background(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Document returns a copy of the current document.
func (a *Automaton) Document() *domain.Document {
	return a.doc.Clone()
}

// Snapshot returns the read-only view of the current state.
func (a *Automaton) Snapshot() domain.Snapshot {
	return domain.NewSnapshot(a.doc)
}

// Mode returns the current edit mode.
func (a *Automaton) Mode() domain.Mode {
	return a.doc.Edit.Mode
}

// LinearText serializes the expression for the evaluator.
func (a *Automaton) LinearText() string {
	return a.doc.Expression.LinearText()
}

// InsertCharacter handles one typed character.
//
// '^' opens a superscript and '/' opens a fraction, except inside the flat
// regions of sqrt, abs and functions, and '/' inside a numerator, where both
// are typed literally. Any other character goes to the live field; in Normal
// mode it extends the trailing text run and may complete a keyword.
func (a *Automaton) InsertCharacter(r rune) {
	mode := a.doc.Edit.Mode
	switch {
	case r == '^' && !mode.Flat():
		a.EnterSuperscript()
		return
	case r == '/' && !mode.Flat() && mode != domain.ModeFractionNumerator:
		a.EnterFraction()
		return
	}

	if !a.doc.Edit.IsNormal() {
		node := a.active()
		field := mode.Field()
		node.Set(field, node.Get(field)+string(r))
		return
	}

	a.appendText(r)
}

// InsertText feeds text one character at a time through InsertCharacter, so
// pasted text is recognized exactly like typed text. There is no rollback:
// every character commits on its own.
func (a *Automaton) InsertText(text string) {
	for _, r := range text {
		a.InsertCharacter(r)
	}
}

func (a *Automaton) appendText(r rune) {
	expr := a.doc.Expression
	last := len(expr) - 1
	if last < 0 || !expr[last].IsText() {
		a.doc.Expression = append(expr, domain.NewText(""))
		last = len(a.doc.Expression) - 1
	}
	text := &a.doc.Expression[last]
	text.Content += string(r)

	m, ok := keyword.Recognize(text.Content)
	if !ok {
		return
	}

	text.Content = m.Prefix
	if text.Content == "" {
		a.doc.Expression = a.doc.Expression[:last]
	}
	a.fireKeyword(m)

	switch m.Trigger {
	case keyword.TriggerSqrt:
		a.EnterSqrt()
	case keyword.TriggerAbs:
		a.EnterAbs()
	case keyword.TriggerFunction:
		a.EnterFunction(m.Keyword)
	}
}

// EnterSqrt appends an empty square root and starts editing it.
func (a *Automaton) EnterSqrt() {
	a.open(domain.NewSqrt(""), domain.ModeSqrt)
}

// EnterAbs appends an empty absolute value and starts editing it.
func (a *Automaton) EnterAbs() {
	a.open(domain.NewAbs(""), domain.ModeAbs)
}

// EnterFunction appends an empty call of the named function and starts editing it.
func (a *Automaton) EnterFunction(name string) {
	a.open(domain.NewFunction(name, ""), domain.ModeFunction)
}

// EnterSuperscript turns the trailing text run into the frozen base of a new
// superscript and starts editing its exponent.
func (a *Automaton) EnterSuperscript() {
	base := a.takeSeed()
	a.open(domain.NewSuperscript(base, ""), domain.ModeSuperscript)
}

// EnterFraction turns the trailing text run into the numerator of a new
// fraction and goes straight to the denominator.
func (a *Automaton) EnterFraction() {
	numerator := a.takeSeed()
	a.open(domain.NewFraction(numerator, ""), domain.ModeFractionDenominator)
}

// takeSeed removes the trailing text node when it has content and returns it.
// Any other trailing node leaves the expression untouched and yields "".
func (a *Automaton) takeSeed() string {
	last, ok := a.doc.Expression.Last()
	if !ok || !last.IsText() || last.Content == "" {
		return ""
	}
	a.doc.Expression = a.doc.Expression[:len(a.doc.Expression)-1]
	return last.Content
}

// open appends a structural node and makes it active. A node that was still
// active is finalized first, so there is never more than one.
func (a *Automaton) open(n domain.Node, mode domain.Mode) {
	from := a.doc.Edit.Mode
	if !a.doc.Edit.IsNormal() {
		a.leave(domain.ExitFinalize)
		from = domain.ModeNormal
	}
	a.doc.Expression = append(a.doc.Expression, n)
	a.doc.Edit = domain.ActiveState(mode, len(a.doc.Expression)-1)

	a.logger.Debug("Mode Enter", "session_id", a.doc.SessionID, "mode", mode, "node", n.Kind)
	a.fireMode(a.hooks.OnModeEnter, domain.EventModeEnter, from, mode, n.Kind, "")
}

// ExitMode finalizes the active node and returns to Normal mode.
// The node stays in the expression. No-op in Normal mode.
func (a *Automaton) ExitMode() {
	if a.doc.Edit.IsNormal() {
		return
	}
	a.leave(domain.ExitFinalize)
}

// Cancel leaves whatever mode is active without deleting the node.
func (a *Automaton) Cancel() {
	a.ExitMode()
}

// leave returns to Normal mode. ExitUnwind also removes the active node.
func (a *Automaton) leave(reason domain.ExitReason) {
	from := a.doc.Edit.Mode
	kind := a.active().Kind
	if reason == domain.ExitUnwind {
		a.doc.Expression = a.doc.Expression[:a.doc.Edit.Active]
	}
	a.doc.Edit = domain.NormalState()

	a.logger.Debug("Mode Exit", "session_id", a.doc.SessionID, "mode", from, "reason", reason)
	a.fireMode(a.hooks.OnModeExit, domain.EventModeExit, from, domain.ModeNormal, kind, reason)
}

// phase moves between the numerator and denominator of the active fraction.
func (a *Automaton) phase(to domain.Mode) {
	from := a.doc.Edit.Mode
	a.doc.Edit = domain.ActiveState(to, a.doc.Edit.Active)
	a.fireMode(a.hooks.OnModeExit, domain.EventModeExit, from, to, domain.NodeFraction, domain.ExitPhase)
}

// Backspace deletes one semantic unit.
//
// In a structural mode it removes the last character of the live field; once
// the field is empty the next backspace deletes the whole node and returns to
// Normal mode. An empty denominator is the exception: it steps back to the
// numerator of the same fraction. In Normal mode a trailing text run loses its
// last character while any other trailing node is deleted outright.
func (a *Automaton) Backspace() {
	mode := a.doc.Edit.Mode
	if !a.doc.Edit.IsNormal() {
		node := a.active()
		field := mode.Field()
		if value := node.Get(field); value != "" {
			node.Set(field, dropLastRune(value))
			return
		}
		if mode == domain.ModeFractionDenominator {
			a.phase(domain.ModeFractionNumerator)
			return
		}
		a.leave(domain.ExitUnwind)
		return
	}

	expr := a.doc.Expression
	last := len(expr) - 1
	if last < 0 {
		return
	}
	if expr[last].IsText() && expr[last].Content != "" {
		expr[last].Content = dropLastRune(expr[last].Content)
		if expr[last].Content != "" {
			return
		}
	}
	a.doc.Expression = expr[:last]
}

// Navigate moves the caret between fields.
//
// Inside a fraction, forward goes numerator -> denominator -> out, backward
// goes denominator -> numerator. In the other structural modes forward
// finalizes the node and backward does nothing. Normal mode ignores it.
func (a *Automaton) Navigate(dir domain.Direction) {
	switch a.doc.Edit.Mode {
	case domain.ModeFractionNumerator:
		if dir == domain.Forward {
			a.phase(domain.ModeFractionDenominator)
		}
	case domain.ModeFractionDenominator:
		if dir == domain.Forward {
			a.leave(domain.ExitFinalize)
		} else {
			a.phase(domain.ModeFractionNumerator)
		}
	case domain.ModeSuperscript, domain.ModeSqrt, domain.ModeFunction, domain.ModeAbs:
		if dir == domain.Forward {
			a.leave(domain.ExitFinalize)
		}
	}
}

// InsertSymbol is the toolbar entry point for structural nodes.
func (a *Automaton) InsertSymbol(sym domain.Symbol) error {
	switch sym {
	case domain.SymbolSqrt:
		a.EnterSqrt()
	case domain.SymbolAbs:
		a.EnterAbs()
	case domain.SymbolPower:
		a.EnterSuperscript()
	case domain.SymbolFraction:
		a.EnterFraction()
	default:
		return fmt.Errorf("%w: %q", domain.ErrUnknownSymbol, sym)
	}
	return nil
}

// InsertFunction is the toolbar entry point for named functions.
func (a *Automaton) InsertFunction(name string) error {
	if !keyword.IsFunction(name) {
		return fmt.Errorf("%w: %q", domain.ErrUnknownFunction, name)
	}
	a.EnterFunction(name)
	return nil
}

// active returns the node being edited. Callers check the mode first.
func (a *Automaton) active() *domain.Node {
	return &a.doc.Expression[a.doc.Edit.Active]
}

func dropLastRune(s string) string {
	_, size := utf8.DecodeLastRuneInString(s)
	return s[:len(s)-size]
}

func (a *Automaton) fireMode(hook func(context.Context, *domain.ModeEvent), typ domain.EventType, from, to domain.Mode, kind domain.NodeKind, reason domain.ExitReason) {
	if hook == nil {
		return
	}
	hook(a.ctx, &domain.ModeEvent{
		EventBase: domain.EventBase{Timestamp: time.Now(), Type: typ, SessionID: a.doc.SessionID},
		From:      from,
		To:        to,
		Node:      kind,
		Reason:    reason,
	})
}

func (a *Automaton) fireKeyword(m keyword.Match) {
	a.logger.Debug("Keyword Recognized", "session_id", a.doc.SessionID, "keyword", m.Keyword)
	if a.hooks.OnKeyword == nil {
		return
	}
	a.hooks.OnKeyword(a.ctx, &domain.KeywordEvent{
		EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventKeyword, SessionID: a.doc.SessionID},
		Keyword:   m.Keyword,
		Prefix:    m.Prefix,
	})
}
