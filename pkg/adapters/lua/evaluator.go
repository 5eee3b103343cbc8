// Package lua evaluates linear text with an embedded, sandboxed Lua runtime.
//
// Linear text already uses Lua's arithmetic syntax (+ - * / % ^ and
// parentheses). It is tokenized, implicit products such as 2sqrt(9) get an
// explicit `*`, and the result is compiled as `return (<text>)` in a state
// with no standard libraries opened. Only the math functions and constants
// below are visible, and every identifier is checked against that list before
// the code is compiled, so no Lua keyword or library can be reached.
package lua

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/aretw0/mathpad/internal/logging"
	"github.com/aretw0/mathpad/pkg/domain"
	glua "github.com/yuin/gopher-lua"
)

// DefaultTimeout bounds a single evaluation.
const DefaultTimeout = 2 * time.Second

// Evaluator implements ports.Evaluator.
// Each call runs in a fresh Lua state, so an Evaluator is safe for concurrent use.
type Evaluator struct {
	timeout time.Duration
	logger  *slog.Logger
}

// Option configures an Evaluator.
type Option func(*Evaluator)

// WithTimeout sets the execution timeout of a single evaluation.
func WithTimeout(d time.Duration) Option {
	return func(e *Evaluator) {
		if d > 0 {
			e.timeout = d
		}
	}
}

// WithLogger sets the logger used for rejected expressions.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Evaluator) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// New creates an Evaluator.
func New(opts ...Option) *Evaluator {
	e := &Evaluator{
		timeout: DefaultTimeout,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Evaluate computes the value of linear text.
func (e *Evaluator) Evaluate(ctx context.Context, linearText string) (domain.Result, error) {
	expr := strings.TrimSpace(linearText)
	if expr == "" {
		return domain.Result{}, domain.ErrEmptyExpression
	}

	code, err := prepare(expr)
	if err != nil {
		e.logger.Debug("Expression rejected", "expression", expr, "err", err)
		return domain.Result{}, &domain.EvaluationError{Expression: linearText, Message: err.Error()}
	}

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	L := glua.NewState(glua.Options{SkipOpenLibs: true})
	defer L.Close()
	L.SetContext(ctx)
	install(L)

	value, err := run(L, code)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			if errors.Is(ctxErr, context.Canceled) {
				return domain.Result{}, ctxErr
			}
			return domain.Result{}, &domain.EvaluationError{Expression: linearText, Message: "evaluation timed out"}
		}
		return domain.Result{}, &domain.EvaluationError{Expression: linearText, Message: err.Error()}
	}

	switch v := value.(type) {
	case glua.LNumber:
		return domain.NumberResult(linearText, float64(v)), nil
	case *glua.LNilType:
		return domain.Result{}, &domain.EvaluationError{Expression: linearText, Message: "expression has no value"}
	default:
		return domain.SymbolicResult(linearText, v.String()), nil
	}
}

func run(L *glua.LState, code string) (value glua.LValue, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("lua panic: %v", r)
		}
	}()

	fn, err := L.LoadString(code)
	if err != nil {
		return nil, cleanError(err)
	}
	L.Push(fn)
	if err := L.PCall(0, 1, nil); err != nil {
		return nil, cleanError(err)
	}
	value = L.Get(-1)
	L.Pop(1)
	return value, nil
}

// cleanError strips the chunk name and stack trace Lua adds to messages.
func cleanError(err error) error {
	msg := err.Error()
	var apiErr *glua.ApiError
	if errors.As(err, &apiErr) && apiErr.Object != nil {
		msg = apiErr.Object.String()
	}
	msg = strings.TrimPrefix(msg, "<string>:1: ")
	msg = strings.TrimPrefix(msg, "<string> ")
	return errors.New(strings.TrimSpace(msg))
}
