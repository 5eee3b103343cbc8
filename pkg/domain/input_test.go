package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKey(t *testing.T) {
	tests := []struct {
		in   string
		want KeyEvent
	}{
		{"a", RuneKey('a')},
		{"/", RuneKey('/')},
		{"π", RuneKey('π')},
		{" ", KeyEvent{Key: KeySpace}},
		{"\t", KeyEvent{Key: KeyTab}},
		{"Backspace", KeyEvent{Key: KeyBackspace}},
		{"ArrowLeft", KeyEvent{Key: KeyLeft}},
		{"right", KeyEvent{Key: KeyRight}},
		{"Esc", KeyEvent{Key: KeyEscape}},
		{"Enter", KeyEvent{Key: KeyEnter}},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseKey(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ParseKey("F13")
	assert.Error(t, err)
}
