package editor

import "github.com/aretw0/mathpad/pkg/domain"

// HandleKey maps one key press onto the automaton operations.
//
// Space and Tab close the live field: a numerator moves on to its denominator,
// every other structural field returns to Normal mode. In Normal mode Space is
// a literal character and Tab does nothing. Enter also closes the live field,
// but is ignored in a numerator; in Normal mode it asks the host to evaluate.
func (a *Automaton) HandleKey(k domain.KeyEvent) domain.Action {
	if a.hooks.OnKeystroke != nil {
		ev := k
		a.hooks.OnKeystroke(a.ctx, &ev)
	}

	mode := a.doc.Edit.Mode
	switch k.Key {
	case domain.KeyRune:
		a.InsertCharacter(k.Rune)
	case domain.KeyBackspace:
		a.Backspace()
	case domain.KeyRight:
		a.Navigate(domain.Forward)
	case domain.KeyLeft:
		a.Navigate(domain.Backward)
	case domain.KeyEscape:
		a.Cancel()
	case domain.KeySpace, domain.KeyTab:
		switch {
		case mode == domain.ModeFractionNumerator:
			a.Navigate(domain.Forward)
		case !a.doc.Edit.IsNormal():
			a.ExitMode()
		case k.Key == domain.KeySpace:
			a.InsertCharacter(' ')
		}
	case domain.KeyEnter:
		switch {
		case a.doc.Edit.IsNormal():
			return domain.ActionEvaluate
		case mode != domain.ModeFractionNumerator:
			a.ExitMode()
		}
	}
	return domain.ActionNone
}
