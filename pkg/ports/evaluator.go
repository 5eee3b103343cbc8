package ports

import (
	"context"

	"github.com/aretw0/mathpad/pkg/domain"
)

// Evaluator computes the value of an expression in linear text form.
//
// Failures are reported as *domain.EvaluationError, which wraps
// domain.ErrEvaluation. Blank input returns domain.ErrEmptyExpression.
type Evaluator interface {
	Evaluate(ctx context.Context, linearText string) (domain.Result, error)
}

// Renderer draws a snapshot for a specific host (terminal, markdown, ...).
type Renderer interface {
	Render(snap domain.Snapshot) (string, error)
}
