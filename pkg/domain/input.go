package domain

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Key names a keyboard key the editor reacts to.
// Character keys use KeyRune and carry the character in KeyEvent.Rune.
type Key string

const (
	KeyRune      Key = "rune"
	KeyBackspace Key = "backspace"
	KeyEnter     Key = "enter"
	KeyTab       Key = "tab"
	KeySpace     Key = "space"
	KeyEscape    Key = "escape"
	KeyLeft      Key = "left"
	KeyRight     Key = "right"
)

// KeyEvent is one un-composed key press.
type KeyEvent struct {
	Key  Key  `json:"key"`
	Rune rune `json:"rune,omitempty"`
}

// RuneKey builds the event for a character key.
func RuneKey(r rune) KeyEvent {
	return KeyEvent{Key: KeyRune, Rune: r}
}

func (k KeyEvent) String() string {
	if k.Key == KeyRune {
		return string(k.Rune)
	}
	return string(k.Key)
}

// ParseKey turns a key name ("backspace", "ArrowLeft", "Esc") or a single
// character into a KeyEvent.
func ParseKey(s string) (KeyEvent, error) {
	if utf8.RuneCountInString(s) == 1 {
		r, _ := utf8.DecodeRuneInString(s)
		if r == ' ' {
			return KeyEvent{Key: KeySpace}, nil
		}
		if r == '\t' {
			return KeyEvent{Key: KeyTab}, nil
		}
		return RuneKey(r), nil
	}
	switch strings.ToLower(s) {
	case "backspace", "bs":
		return KeyEvent{Key: KeyBackspace}, nil
	case "enter", "return":
		return KeyEvent{Key: KeyEnter}, nil
	case "tab":
		return KeyEvent{Key: KeyTab}, nil
	case "space":
		return KeyEvent{Key: KeySpace}, nil
	case "escape", "esc":
		return KeyEvent{Key: KeyEscape}, nil
	case "left", "arrowleft":
		return KeyEvent{Key: KeyLeft}, nil
	case "right", "arrowright":
		return KeyEvent{Key: KeyRight}, nil
	}
	return KeyEvent{}, fmt.Errorf("unknown key %q", s)
}

// Direction of a navigation gesture.
type Direction string

const (
	Forward  Direction = "forward"
	Backward Direction = "backward"
)

// Symbol names a toolbar-style structural insert.
type Symbol string

const (
	SymbolSqrt     Symbol = "sqrt"
	SymbolAbs      Symbol = "abs"
	SymbolPower    Symbol = "power"
	SymbolFraction Symbol = "fraction"
)

// Action is what a key gesture asks the host to do besides mutating the document.
type Action string

const (
	ActionNone     Action = ""
	ActionEvaluate Action = "evaluate"
)

// InputType is the kind of event a host feeds into a session.
type InputType string

const (
	InputTyped    InputType = "type"
	InputKey      InputType = "key"
	InputPaste    InputType = "paste"
	InputSymbol   InputType = "symbol"
	InputFunction InputType = "function"
	InputSnippet  InputType = "snippet"
	InputEvaluate InputType = "evaluate"
	InputReset    InputType = "reset"
)

// InputEvent is the transport-neutral form of every user gesture.
//
//	{"type":"type","text":"3/4 +1"}
//	{"type":"key","key":"backspace"}
//	{"type":"key","key":"a"}
//	{"type":"paste","text":"sin(x)"}
//	{"type":"symbol","value":"fraction"}
//	{"type":"function","value":"log"}
//	{"type":"snippet","value":"pythagoras"}
//	{"type":"evaluate"}
type InputEvent struct {
	Type  InputType `json:"type"`
	Key   string    `json:"key,omitempty"`
	Text  string    `json:"text,omitempty"`
	Value string    `json:"value,omitempty"`
}
