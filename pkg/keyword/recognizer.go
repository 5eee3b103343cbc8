// Package keyword recognizes typed keywords (sqrt, abs and function names)
// at the end of a text run.
//
// The recognizer is a pure function: the editor calls it after every plain
// character appended in Normal mode and decides what to do with the match.
package keyword

import "strings"

// Trigger is the structural mode a keyword opens.
type Trigger string

const (
	TriggerSqrt     Trigger = "sqrt"
	TriggerAbs      Trigger = "abs"
	TriggerFunction Trigger = "function"
)

// functions is ordered so that every name is checked before any shorter name
// it ends with (asin before sin).
var functions = []string{
	"asin", "acos", "atan",
	"sin", "cos", "tan",
	"log", "ln", "exp",
	"ceil", "floor", "round",
	"max", "min",
}

type entry struct {
	word    string
	trigger Trigger
}

// table is the fixed priority order: sqrt, abs, then the function list.
var table = func() []entry {
	t := []entry{
		{"sqrt", TriggerSqrt},
		{"abs", TriggerAbs},
	}
	for _, f := range functions {
		t = append(t, entry{f, TriggerFunction})
	}
	return t
}()

// Match describes a recognized keyword.
type Match struct {
	// Keyword is the matched word, e.g. "asin".
	Keyword string
	// Trigger is the mode the keyword opens.
	Trigger Trigger
	// Prefix is the text run with the keyword stripped.
	Prefix string
}

// Recognize reports whether text ends with a keyword standing as a whole token.
// A keyword only counts when the character before it is missing or not an
// ASCII letter, so "tabs" does not open abs. At most one match is returned,
// the first in priority order.
func Recognize(text string) (Match, bool) {
	for _, e := range table {
		if !strings.HasSuffix(text, e.word) {
			continue
		}
		prefix := text[:len(text)-len(e.word)]
		if prefix != "" && isLetter(prefix[len(prefix)-1]) {
			continue
		}
		return Match{Keyword: e.word, Trigger: e.trigger, Prefix: prefix}, true
	}
	return Match{}, false
}

// Functions returns the recognized function names in check order.
func Functions() []string {
	out := make([]string, len(functions))
	copy(out, functions)
	return out
}

// IsFunction reports whether name is a recognized function.
func IsFunction(name string) bool {
	for _, f := range functions {
		if f == name {
			return true
		}
	}
	return false
}

func isLetter(c byte) bool {
	return ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}
