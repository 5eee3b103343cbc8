package runner

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/aretw0/mathpad/pkg/domain"
	"github.com/aretw0/mathpad/pkg/ports"
)

// TextHandler is the line-oriented interface used by headless runs and pipes.
// Every line replaces the expression: it is pasted into an empty document and
// evaluated. "exit" and "quit" end the session.
type TextHandler struct {
	Reader   *bufio.Reader
	Writer   io.Writer
	Renderer ports.Renderer

	// Prompt is written before each read. Empty disables it.
	Prompt string

	inputChan chan inputResult
	startOnce sync.Once
}

type inputResult struct {
	text string
	err  error
}

// TextHandlerOption defines configuration for TextHandler.
type TextHandlerOption func(*TextHandler)

// WithTextHandlerRenderer draws the expression with r instead of printing linear text.
func WithTextHandlerRenderer(r ports.Renderer) TextHandlerOption {
	return func(h *TextHandler) {
		h.Renderer = r
	}
}

// WithPrompt sets the prompt written before each line is read.
func WithPrompt(prompt string) TextHandlerOption {
	return func(h *TextHandler) {
		h.Prompt = prompt
	}
}

// NewTextHandler creates a handler for standard text IO.
func NewTextHandler(r io.Reader, w io.Writer, opts ...TextHandlerOption) *TextHandler {
	if r == nil {
		r = os.Stdin
	}
	if w == nil {
		w = os.Stdout
	}
	h := &TextHandler{
		Reader: bufio.NewReader(r),
		Writer: w,
		Prompt: "> ",
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *TextHandler) initPump() {
	h.startOnce.Do(func() {
		h.inputChan = make(chan inputResult)
		go h.pump()
	})
}

// pump reads lines in the background so Input can honor context cancellation.
func (h *TextHandler) pump() {
	for {
		text, err := h.Reader.ReadString('\n')
		if text != "" {
			h.inputChan <- inputResult{text: text}
		}
		if err != nil {
			if err == io.EOF {
				close(h.inputChan)
				return
			}
			h.inputChan <- inputResult{err: err}
			// Back off so a persistent failure does not spin.
			time.Sleep(50 * time.Millisecond)
		}
	}
}

// Output prints the expression and, after an evaluation, the result line.
func (h *TextHandler) Output(ctx context.Context, out domain.Outcome) error {
	view := out.Snapshot.LinearText
	if h.Renderer != nil {
		rendered, err := h.Renderer.Render(out.Snapshot)
		if err == nil {
			view = rendered
		}
	}
	if view = strings.TrimSpace(view); view != "" {
		if _, err := fmt.Fprintln(h.Writer, view); err != nil {
			return err
		}
	}
	if out.Output != "" {
		if _, err := fmt.Fprintln(h.Writer, out.Output); err != nil {
			return err
		}
	}
	return nil
}

// Input reads the next non-empty line.
func (h *TextHandler) Input(ctx context.Context) ([]domain.InputEvent, error) {
	h.initPump()

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
			if h.Prompt != "" {
				fmt.Fprint(h.Writer, h.Prompt)
			}
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case res, ok := <-h.inputChan:
			if !ok {
				return nil, io.EOF
			}
			if res.err != nil {
				return nil, res.err
			}

			line, err := SanitizeInput(strings.TrimSpace(res.text))
			if err != nil {
				fmt.Fprintf(h.Writer, "Error: %v. Please try again.\n", err)
				continue
			}
			switch line = strings.TrimSpace(line); line {
			case "":
				continue
			case "exit", "quit":
				return nil, io.EOF
			}
			return LineEvents(line), nil
		}
	}
}

// SystemOutput prints a meta-message on its own line.
func (h *TextHandler) SystemOutput(ctx context.Context, msg string) error {
	_, err := fmt.Fprintln(h.Writer, msg)
	return err
}

// LineEvents is the batch one line of text stands for: clear the document,
// paste the line, evaluate.
func LineEvents(line string) []domain.InputEvent {
	return []domain.InputEvent{
		{Type: domain.InputReset},
		{Type: domain.InputPaste, Text: line},
		{Type: domain.InputEvaluate},
	}
}
