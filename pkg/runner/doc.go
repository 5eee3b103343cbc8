/*
Package runner implements the interactive loop that drives one editing session.

It is the bridge between the session-keyed editor (mathpad.Engine or any
ports.Editor) and a user. The runner starts the session, asks an IOHandler for
the next batch of input events, applies them in order and hands the final
outcome back to the handler for display.

# Key Components

  - Runner: the loop itself.
  - IOHandler: decouples how events are read and outcomes are shown.
  - TextHandler: line mode; each line replaces the expression and is evaluated.
  - JSONHandler: NDJSON mode for scripts; one InputEvent (or an array) per line.
  - TerminalHandler: raw keyboard mode with a live redraw after every key.

# Usage

	r := runner.NewRunner(
		runner.WithEditor(engine),
		runner.WithSessionID("scratch"),
		runner.WithInputHandler(runner.NewTextHandler(os.Stdin, os.Stdout)),
	)

	if err := r.Run(ctx); err != nil {
		log.Fatal(err)
	}
*/
package runner
