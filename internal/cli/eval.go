package cli

import (
	"context"
	"fmt"

	"github.com/aretw0/mathpad"
	"github.com/aretw0/mathpad/pkg/domain"
	"github.com/aretw0/mathpad/pkg/runner"
)

// Eval pastes text into a fresh session, evaluates it and removes the session.
// Evaluation failures are reported in the outcome's Output.
func Eval(ctx context.Context, engine *mathpad.Engine, text string) (domain.Outcome, error) {
	id := "eval-" + mathpad.NewSessionID()
	defer engine.Delete(context.WithoutCancel(ctx), id)

	var out domain.Outcome
	for _, ev := range runner.LineEvents(text) {
		var err error
		out, err = engine.Apply(ctx, id, ev)
		if err != nil {
			return domain.Outcome{}, fmt.Errorf("eval %q: %w", text, err)
		}
	}
	return out, nil
}
