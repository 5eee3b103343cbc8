package runner

import (
	"unicode/utf8"

	"github.com/aretw0/mathpad/pkg/domain"
)

const (
	keyCtrlC     = 0x03
	keyCtrlD     = 0x04
	keyBackspace = 0x08
	keyCtrlL     = 0x0c
	keyEsc       = 0x1b
	keyDelete    = 0x7f
)

// KeyDecoder turns raw terminal bytes into input events.
// Escape sequences and UTF-8 characters split across reads are buffered
// until the rest arrives.
type KeyDecoder struct {
	pending []byte
}

// Feed decodes p. quit is true once Ctrl+C or Ctrl+D was read; bytes after
// it are discarded.
func (d *KeyDecoder) Feed(p []byte) (events []domain.InputEvent, quit bool) {
	buf := append(d.pending, p...)
	d.pending = nil

	for i := 0; i < len(buf); {
		b := buf[i]
		switch {
		case b == keyCtrlC || b == keyCtrlD:
			return events, true
		case b == keyEsc:
			n, name := decodeEscape(buf[i:])
			if n == 0 {
				d.pending = append([]byte(nil), buf[i:]...)
				return events, false
			}
			if name != "" {
				events = append(events, keyEvent(name))
			}
			i += n
		case b == keyDelete || b == keyBackspace:
			events = append(events, keyEvent("backspace"))
			i++
		case b == '\r' || b == '\n':
			events = append(events, keyEvent("enter"))
			i++
		case b == '\t':
			events = append(events, keyEvent("tab"))
			i++
		case b == ' ':
			events = append(events, keyEvent("space"))
			i++
		case b == keyCtrlL:
			events = append(events, domain.InputEvent{Type: domain.InputReset})
			i++
		case b < 0x20:
			i++
		default:
			if !utf8.FullRune(buf[i:]) {
				d.pending = append([]byte(nil), buf[i:]...)
				return events, false
			}
			r, size := utf8.DecodeRune(buf[i:])
			if r != utf8.RuneError || size > 1 {
				events = append(events, keyEvent(string(r)))
			}
			i += size
		}
	}
	return events, false
}

// decodeEscape reads an escape sequence at the start of seq.
// It returns how many bytes were consumed (0 when the sequence is incomplete)
// and the key name, "" for sequences the editor ignores.
func decodeEscape(seq []byte) (int, string) {
	if len(seq) == 1 {
		return 1, "escape"
	}
	if seq[1] != '[' && seq[1] != 'O' {
		// ESC followed by a normal key.
		return 1, "escape"
	}

	j := 2
	for j < len(seq) && ((seq[j] >= '0' && seq[j] <= '9') || seq[j] == ';') {
		j++
	}
	if j >= len(seq) {
		return 0, ""
	}

	switch seq[j] {
	case 'C':
		return j + 1, "right"
	case 'D':
		return j + 1, "left"
	}
	return j + 1, ""
}

func keyEvent(name string) domain.InputEvent {
	return domain.InputEvent{Type: domain.InputKey, Key: name}
}
