package domain

import (
	"errors"
	"fmt"
)

// ErrSessionNotFound is returned when a session ID cannot be found in the store.
var ErrSessionNotFound = errors.New("session not found")

// ErrInvalidState is returned when a document violates the edit state invariants.
var ErrInvalidState = errors.New("invalid edit state")

// ErrUnknownFunction is returned when an external trigger names a function
// outside the recognized function list.
var ErrUnknownFunction = errors.New("unknown function")

// ErrUnknownSymbol is returned for an unsupported toolbar symbol.
var ErrUnknownSymbol = errors.New("unknown symbol")

// ErrUnknownSnippet is returned when a palette entry cannot be found.
var ErrUnknownSnippet = errors.New("unknown snippet")

// ErrEvaluation is the root of every evaluator failure.
var ErrEvaluation = errors.New("evaluation failed")

// ErrEmptyExpression is returned when there is nothing to evaluate.
var ErrEmptyExpression = errors.New("empty expression")

// EvaluationError carries the evaluator's message for the expression it rejected.
// The message is passed through to the user untouched.
type EvaluationError struct {
	Expression string
	Message    string
}

func (e *EvaluationError) Error() string {
	return fmt.Sprintf("evaluate %q: %s", e.Expression, e.Message)
}

// Unwrap lets callers match every evaluator failure with errors.Is(err, ErrEvaluation).
func (e *EvaluationError) Unwrap() error {
	return ErrEvaluation
}

// ErrInvalidInput is returned for malformed input events (unknown type, key or payload).
var ErrInvalidInput = errors.New("invalid input")
