package runner

import (
	"testing"

	"github.com/aretw0/mathpad/pkg/domain"
	"github.com/stretchr/testify/assert"
)

func keys(names ...string) []domain.InputEvent {
	var evs []domain.InputEvent
	for _, n := range names {
		evs = append(evs, keyEvent(n))
	}
	return evs
}

func TestKeyDecoder_Feed(t *testing.T) {
	tests := []struct {
		name     string
		chunks   []string
		want     []domain.InputEvent
		wantQuit bool
	}{
		{"Characters", []string{"a1"}, keys("a", "1"), false},
		{"Gestures", []string{" \t\r\x7f\x08"}, keys("space", "tab", "enter", "backspace", "backspace"), false},
		{"Arrows", []string{"\x1b[C\x1b[D"}, keys("right", "left"), false},
		{"SS3 Arrows", []string{"\x1bOC"}, keys("right"), false},
		{"Modified Arrow", []string{"\x1b[1;5D"}, keys("left"), false},
		{"Ignored Sequences", []string{"\x1b[A\x1b[3~x"}, keys("x"), false},
		{"Lone Escape", []string{"\x1b"}, keys("escape"), false},
		{"Escape Then Key", []string{"\x1bx"}, keys("escape", "x"), false},
		{"Split Sequence", []string{"\x1b[", "C"}, keys("right"), false},
		{"Split UTF-8", []string{"\xcf", "\x80"}, keys("π"), false},
		{"Clear", []string{"\x0c"}, []domain.InputEvent{{Type: domain.InputReset}}, false},
		{"Other Controls Dropped", []string{"\x01\x02a"}, keys("a"), false},
		{"Ctrl+D Quits", []string{"1\x042"}, keys("1"), true},
		{"Ctrl+C Quits", []string{"\x03"}, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var (
				d    KeyDecoder
				got  []domain.InputEvent
				quit bool
			)
			for _, chunk := range tt.chunks {
				evs, q := d.Feed([]byte(chunk))
				got = append(got, evs...)
				quit = quit || q
			}
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantQuit, quit)
		})
	}
}
