package runner

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/aretw0/mathpad/pkg/domain"
	"github.com/aretw0/mathpad/pkg/ports"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// TerminalHandler is the interactive editor: the keyboard is read in raw mode
// and the screen is redrawn after every key.
type TerminalHandler struct {
	Renderer ports.Renderer

	in  io.Reader
	out *termenv.Output

	fd    int
	state *term.State

	decoder KeyDecoder
	queue   []domain.InputEvent
	quit    bool

	chunks    chan inputChunk
	startOnce sync.Once

	last    domain.Outcome
	result  string
	message string
}

type inputChunk struct {
	data []byte
	err  error
}

// TerminalHandlerOption defines configuration for TerminalHandler.
type TerminalHandlerOption func(*TerminalHandler)

// WithTerminalRenderer draws the expression with r instead of linear text.
func WithTerminalRenderer(r ports.Renderer) TerminalHandlerOption {
	return func(h *TerminalHandler) {
		h.Renderer = r
	}
}

// NewTerminalHandler creates a raw-mode handler. Call Start before running
// and Close afterwards to restore the terminal.
func NewTerminalHandler(in io.Reader, w io.Writer, opts ...TerminalHandlerOption) *TerminalHandler {
	if in == nil {
		in = os.Stdin
	}
	if w == nil {
		w = os.Stdout
	}
	h := &TerminalHandler{
		in:  in,
		out: termenv.NewOutput(w),
		fd:  -1,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Start switches the input to raw mode when it is a terminal.
func (h *TerminalHandler) Start() error {
	f, ok := h.in.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return nil
	}
	h.fd = int(f.Fd())
	state, err := term.MakeRaw(h.fd)
	if err != nil {
		return fmt.Errorf("failed to enable raw mode: %w", err)
	}
	h.state = state
	return nil
}

// Close restores the terminal.
func (h *TerminalHandler) Close() error {
	h.out.ShowCursor()
	if h.state == nil {
		return nil
	}
	err := term.Restore(h.fd, h.state)
	h.state = nil
	return err
}

func (h *TerminalHandler) initPump() {
	h.startOnce.Do(func() {
		h.chunks = make(chan inputChunk)
		go h.pump()
	})
}

func (h *TerminalHandler) pump() {
	buf := make([]byte, 256)
	for {
		n, err := h.in.Read(buf)
		if n > 0 {
			h.chunks <- inputChunk{data: append([]byte(nil), buf[:n]...)}
		}
		if err != nil {
			h.chunks <- inputChunk{err: err}
			close(h.chunks)
			return
		}
	}
}

// Input returns one key press at a time so every key is redrawn.
func (h *TerminalHandler) Input(ctx context.Context) ([]domain.InputEvent, error) {
	h.initPump()

	for {
		if len(h.queue) > 0 {
			ev := h.queue[0]
			h.queue = h.queue[1:]
			return []domain.InputEvent{ev}, nil
		}
		if h.quit {
			return nil, io.EOF
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case chunk, ok := <-h.chunks:
			if !ok {
				return nil, io.EOF
			}
			if chunk.err != nil {
				return nil, chunk.err
			}
			events, quit := h.decoder.Feed(chunk.data)
			h.queue = append(h.queue, events...)
			h.quit = quit
		}
	}
}

// Output redraws the screen.
func (h *TerminalHandler) Output(ctx context.Context, out domain.Outcome) error {
	h.last = out
	h.message = ""
	switch {
	case out.Action == domain.ActionEvaluate:
		h.result = out.Output
	case out.Snapshot.LinearText == "":
		h.result = ""
	}
	return h.draw()
}

// SystemOutput shows msg under the expression until the next key.
func (h *TerminalHandler) SystemOutput(ctx context.Context, msg string) error {
	h.message = msg
	return h.draw()
}

func (h *TerminalHandler) draw() error {
	snap := h.last.Snapshot

	view := snap.LinearText
	if h.Renderer != nil {
		if rendered, err := h.Renderer.Render(snap); err == nil {
			view = rendered
		}
	}

	var lines []string
	lines = append(lines, strings.Split(strings.TrimRight(view, "\n"), "\n")...)
	lines = append(lines, "")
	if snap.Label != "" {
		lines = append(lines, h.out.String("["+snap.Label+"]").Bold().String())
	}
	lines = append(lines, h.out.String("linear: "+snap.LinearText).Faint().String())
	if h.result != "" {
		lines = append(lines, "= "+h.result)
	}
	if h.message != "" {
		lines = append(lines, h.out.String(h.message).Italic().String())
	}
	lines = append(lines, "", h.out.String("enter evaluate · esc leave · ctrl+l clear · ctrl+d quit").Faint().String())

	h.out.HideCursor()
	h.out.ClearScreen()
	// Raw mode does not translate \n, so lines end in \r\n.
	_, err := io.WriteString(h.out, strings.Join(lines, "\r\n")+"\r\n")
	h.out.ShowCursor()
	return err
}
