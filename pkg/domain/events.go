package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventModeEnter EventType = "mode_enter"
	EventModeExit  EventType = "mode_exit"
	EventKeyword   EventType = "keyword"
	EventEvaluate  EventType = "evaluate"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	SessionID string    `json:"session_id"`
}

// ExitReason tells why a structural mode was left.
type ExitReason string

const (
	// ExitFinalize keeps the node (navigation, closing gesture, cancel).
	ExitFinalize ExitReason = "finalize"
	// ExitUnwind deletes the node (backspace past an empty field).
	ExitUnwind ExitReason = "unwind"
	// ExitPhase moves between the two phases of a fraction.
	ExitPhase ExitReason = "phase"
)

// ModeEvent represents a mode transition.
type ModeEvent struct {
	EventBase
	From   Mode       `json:"from"`
	To     Mode       `json:"to"`
	Node   NodeKind   `json:"node,omitempty"`
	Reason ExitReason `json:"reason,omitempty"`
}

// KeywordEvent represents a typed keyword recognized in a text run.
type KeywordEvent struct {
	EventBase
	Keyword string `json:"keyword"`
	Prefix  string `json:"prefix"`
}

// EvaluationEvent represents one evaluator round trip.
type EvaluationEvent struct {
	EventBase
	Expression string        `json:"expression"`
	Duration   time.Duration `json:"duration"`
	Err        error         `json:"-"`
}

// LifecycleHooks defines callbacks for editor observability.
// Every hook is optional and runs synchronously inside the transaction that fired it.
type LifecycleHooks struct {
	OnModeEnter func(context.Context, *ModeEvent)
	OnModeExit  func(context.Context, *ModeEvent)
	OnKeyword   func(context.Context, *KeywordEvent)
	OnEvaluate  func(context.Context, *EvaluationEvent)
	OnKeystroke func(context.Context, *KeyEvent)
}

// Merge combines two hook sets; both callbacks run, h first.
func (h LifecycleHooks) Merge(other LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnModeEnter: chain(h.OnModeEnter, other.OnModeEnter),
		OnModeExit:  chain(h.OnModeExit, other.OnModeExit),
		OnKeyword:   chain(h.OnKeyword, other.OnKeyword),
		OnEvaluate:  chain(h.OnEvaluate, other.OnEvaluate),
		OnKeystroke: chain(h.OnKeystroke, other.OnKeystroke),
	}
}

func chain[E any](a, b func(context.Context, E)) func(context.Context, E) {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	return func(ctx context.Context, e E) {
		a(ctx, e)
		b(ctx, e)
	}
}
