package domain

import (
	"fmt"
	"time"
)

// EditState is the tagged edit mode of a document.
// Active is the index of the node accepting characters, or -1 in Normal mode.
// Build it through NormalState or ActiveState so the two fields never disagree.
type EditState struct {
	Mode   Mode `json:"mode"`
	Active int  `json:"active"`
}

// NormalState is the idle edit state: no active node.
func NormalState() EditState {
	return EditState{Mode: ModeNormal, Active: -1}
}

// ActiveState binds a structural mode to the node at index.
// Passing ModeNormal yields NormalState regardless of index.
func ActiveState(mode Mode, index int) EditState {
	if mode == ModeNormal || mode == "" {
		return NormalState()
	}
	return EditState{Mode: mode, Active: index}
}

// IsNormal reports whether no node is being edited.
func (s EditState) IsNormal() bool {
	return s.Mode == ModeNormal || s.Mode == ""
}

// Document represents the persisted state of one editing session.
type Document struct {
	// SessionID identifies the session this document belongs to.
	SessionID string `json:"session_id"`

	// Expression is the ordered sequence of nodes.
	Expression Expression `json:"expression"`

	// Edit is the current mode and active node.
	Edit EditState `json:"edit"`

	// UpdatedAt is stamped by the session layer on save.
	UpdatedAt time.Time `json:"updated_at,omitempty"`

	// Sealed holds the encrypted form of the whole document when an
	// encrypting store wraps persistence. The other fields are then empty.
	Sealed string `json:"sealed,omitempty"`
}

// NewDocument creates an empty document in Normal mode.
func NewDocument(sessionID string) *Document {
	return &Document{
		SessionID:  sessionID,
		Expression: Expression{},
		Edit:       NormalState(),
	}
}

// Clone returns a deep copy of the document.
func (d *Document) Clone() *Document {
	if d == nil {
		return nil
	}
	out := *d
	out.Expression = d.Expression.Clone()
	return &out
}

// Validate checks the EditState invariants against the expression.
// Stores may hand back documents written by other versions or edited by hand,
// so the editor refuses to resume from a document that fails here.
func (d *Document) Validate() error {
	if d == nil {
		return fmt.Errorf("%w: nil document", ErrInvalidState)
	}
	for i, n := range d.Expression {
		if !n.Kind.Valid() {
			return fmt.Errorf("%w: node %d has unknown kind %q", ErrInvalidState, i, n.Kind)
		}
	}

	// A document written without an edit state is resumed in Normal mode.
	edit := d.Edit
	if edit.Mode == "" {
		edit = NormalState()
	}
	if !edit.Mode.Valid() {
		return fmt.Errorf("%w: unknown mode %q", ErrInvalidState, edit.Mode)
	}
	if edit.Mode == ModeNormal {
		if edit.Active != -1 {
			return fmt.Errorf("%w: normal mode with active node %d", ErrInvalidState, edit.Active)
		}
		return nil
	}

	last := len(d.Expression) - 1
	if edit.Active != last || last < 0 {
		return fmt.Errorf("%w: mode %s must edit the last node (active=%d, last=%d)",
			ErrInvalidState, edit.Mode, edit.Active, last)
	}
	if kind := d.Expression[last].Kind; kind != edit.Mode.Family() {
		return fmt.Errorf("%w: mode %s cannot edit a %s node", ErrInvalidState, edit.Mode, kind)
	}
	return nil
}

// Valid reports whether k is a known node kind.
func (k NodeKind) Valid() bool {
	switch k {
	case NodeText, NodeFraction, NodeSuperscript, NodeSqrt, NodeAbs, NodeFunction:
		return true
	}
	return false
}
