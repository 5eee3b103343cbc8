package editor_test

import (
	"context"
	"testing"

	"github.com/aretw0/mathpad/internal/editor"
	"github.com/aretw0/mathpad/pkg/domain"
	"github.com/stretchr/testify/assert"
)

func TestHandleKey_Gestures(t *testing.T) {
	numerator := func() *editor.Automaton {
		a := typed("3/")
		a.Navigate(domain.Backward)
		return a
	}

	tests := []struct {
		name       string
		setup      func() *editor.Automaton
		key        domain.Key
		wantMode   domain.Mode
		wantText   string
		wantAction domain.Action
	}{
		{"Space In Normal Inserts", func() *editor.Automaton { return typed("1") }, domain.KeySpace, domain.ModeNormal, "1 ", domain.ActionNone},
		{"Tab In Normal Ignored", func() *editor.Automaton { return typed("1") }, domain.KeyTab, domain.ModeNormal, "1", domain.ActionNone},
		{"Enter In Normal Evaluates", func() *editor.Automaton { return typed("1") }, domain.KeyEnter, domain.ModeNormal, "1", domain.ActionEvaluate},
		{"Space Numerator To Denominator", numerator, domain.KeySpace, domain.ModeFractionDenominator, "(3)/()", domain.ActionNone},
		{"Tab Numerator To Denominator", numerator, domain.KeyTab, domain.ModeFractionDenominator, "(3)/()", domain.ActionNone},
		{"Enter Ignored In Numerator", numerator, domain.KeyEnter, domain.ModeFractionNumerator, "(3)/()", domain.ActionNone},
		{"Space Exits Denominator", func() *editor.Automaton { return typed("3/4") }, domain.KeySpace, domain.ModeNormal, "(3)/(4)", domain.ActionNone},
		{"Enter Exits Denominator", func() *editor.Automaton { return typed("3/4") }, domain.KeyEnter, domain.ModeNormal, "(3)/(4)", domain.ActionNone},
		{"Tab Exits Superscript", func() *editor.Automaton { return typed("x^2") }, domain.KeyTab, domain.ModeNormal, "x^2", domain.ActionNone},
		{"Enter Exits Function", func() *editor.Automaton { return typed("sin1") }, domain.KeyEnter, domain.ModeNormal, "sin(1)", domain.ActionNone},
		{"Escape Keeps Node", func() *editor.Automaton { return typed("abs") }, domain.KeyEscape, domain.ModeNormal, "abs()", domain.ActionNone},
		{"Right Exits Sqrt", func() *editor.Automaton { return typed("sqrt2") }, domain.KeyRight, domain.ModeNormal, "sqrt(2)", domain.ActionNone},
		{"Left Stays In Sqrt", func() *editor.Automaton { return typed("sqrt2") }, domain.KeyLeft, domain.ModeSqrt, "sqrt(2)", domain.ActionNone},
		{"Left Denominator To Numerator", func() *editor.Automaton { return typed("3/4") }, domain.KeyLeft, domain.ModeFractionNumerator, "(3)/(4)", domain.ActionNone},
		{"Backspace", func() *editor.Automaton { return typed("sqrt2") }, domain.KeyBackspace, domain.ModeSqrt, "sqrt()", domain.ActionNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := tt.setup()
			action := a.HandleKey(domain.KeyEvent{Key: tt.key})
			assert.Equal(t, tt.wantAction, action)
			assert.Equal(t, tt.wantMode, a.Mode())
			assert.Equal(t, tt.wantText, a.LinearText())
			assertValid(t, a)
		})
	}
}

func TestHandleKey_Runes(t *testing.T) {
	a := editor.New("test")
	for _, r := range "2sqrt9" {
		a.HandleKey(domain.RuneKey(r))
	}
	a.HandleKey(domain.KeyEvent{Key: domain.KeyRight})
	assert.Equal(t, "2sqrt(9)", a.LinearText())
	assert.Equal(t, domain.ModeNormal, a.Mode())
}

func TestHandleKey_KeystrokeHook(t *testing.T) {
	var seen []string
	hooks := domain.LifecycleHooks{
		OnKeystroke: func(_ context.Context, k *domain.KeyEvent) { seen = append(seen, k.String()) },
	}
	a := editor.New("test", editor.WithLifecycleHooks(hooks))
	a.HandleKey(domain.RuneKey('a'))
	a.HandleKey(domain.KeyEvent{Key: domain.KeyBackspace})

	assert.Equal(t, []string{"a", "backspace"}, seen)
}
