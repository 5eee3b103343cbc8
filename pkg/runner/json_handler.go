package runner

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/aretw0/mathpad/pkg/domain"
)

// JSONHandler implements IOHandler over JSON Lines.
//
// Each input line is one InputEvent object, an array of them, or a bare
// string which is pasted as text. Each outcome is written as one line.
type JSONHandler struct {
	Reader  *bufio.Reader
	Writer  io.Writer
	Encoder *json.Encoder
}

// NewJSONHandler creates a handler for JSON IO.
func NewJSONHandler(r io.Reader, w io.Writer) *JSONHandler {
	if r == nil {
		r = os.Stdin
	}
	if w == nil {
		w = os.Stdout
	}
	return &JSONHandler{
		Reader:  bufio.NewReader(r),
		Writer:  w,
		Encoder: json.NewEncoder(w),
	}
}

// Output emits the outcome as a single JSON line.
func (h *JSONHandler) Output(ctx context.Context, out domain.Outcome) error {
	return h.Encoder.Encode(out)
}

// Input reads one line and decodes it into events.
// A line that cannot be decoded is reported back and skipped.
func (h *JSONHandler) Input(ctx context.Context) ([]domain.InputEvent, error) {
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		text, err := h.Reader.ReadString('\n')
		line := strings.TrimSpace(text)
		if line == "" {
			if err != nil {
				return nil, err
			}
			continue
		}

		events, decodeErr := DecodeEvents(line)
		if decodeErr != nil {
			if err := h.SystemOutput(ctx, decodeErr.Error()); err != nil {
				return nil, err
			}
			if err != nil {
				return nil, err
			}
			continue
		}
		return events, nil
	}
}

// SystemOutput emits {"error": msg}.
func (h *JSONHandler) SystemOutput(ctx context.Context, msg string) error {
	return h.Encoder.Encode(map[string]string{"error": msg})
}

// DecodeEvents parses one NDJSON line.
func DecodeEvents(line string) ([]domain.InputEvent, error) {
	switch line[0] {
	case '{':
		var ev domain.InputEvent
		if err := json.Unmarshal([]byte(line), &ev); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
		}
		return []domain.InputEvent{ev}, nil
	case '[':
		var evs []domain.InputEvent
		if err := json.Unmarshal([]byte(line), &evs); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
		}
		return evs, nil
	}

	// A JSON string is typed, so spaces act as gestures. Plain text is pasted.
	var text string
	if err := json.Unmarshal([]byte(line), &text); err != nil {
		return []domain.InputEvent{{Type: domain.InputPaste, Text: line}}, nil
	}
	return []domain.InputEvent{{Type: domain.InputTyped, Text: text}}, nil
}
