/*
Package mathpad is a structural math-expression editor driven one keystroke at a time.

Typing keeps a flat run of text until a trigger opens a structure: `^` starts a
superscript, `/` a fraction, and the words sqrt, abs or a function name such as
sin or log open the matching node. The editor holds exactly one live field at a
time, so every gesture (character, backspace, arrows, space, tab, enter,
escape) is a small, total state transition.

# Concept

The core automaton (internal/editor) owns an ordered list of nodes and one
tagged edit state. Hosts never render from it directly: every mutation yields a
domain.Snapshot, and the expression serializes to linear text that an evaluator
(gopher-lua by default) can compute.

The Engine in this package wraps the automaton with session persistence, so the
same editor can be embedded in a terminal, served over HTTP or exposed as MCP
tools.

# Usage

	eng, err := mathpad.New()
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()
	id := mathpad.NewSessionID()

	snap, _ := eng.Type(ctx, id, "2sqrt9")
	fmt.Println(snap.Mode, snap.LinearText) // sqrt 2sqrt(9)

	out, _ := eng.Apply(ctx, id, domain.InputEvent{Type: domain.InputEvaluate})
	fmt.Println(out.Output) // 6
*/
package mathpad
