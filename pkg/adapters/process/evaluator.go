// Package process evaluates linear text with an external program such as
// `bc -l` or `qalc -t`.
//
// The expression is written to the program's stdin followed by a newline and
// is also exported as MATHPAD_EXPRESSION. The trimmed stdout is the result:
// a number becomes a numeric result, anything else is returned verbatim as a
// symbolic one. A non-zero exit is an evaluation error carrying stderr.
package process

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/aretw0/mathpad/internal/logging"
	"github.com/aretw0/mathpad/pkg/domain"
)

// DefaultTimeout bounds a single evaluation.
const DefaultTimeout = 2 * time.Second

// EnvExpression carries the linear text to the program.
const EnvExpression = "MATHPAD_EXPRESSION"

// ErrNoCommand is returned by New when no program is configured.
var ErrNoCommand = errors.New("process evaluator: no command configured")

// Evaluator implements ports.Evaluator by running one allow-listed command.
// Linear text never reaches the command line, so it cannot inject flags.
type Evaluator struct {
	command string
	args    []string
	baseDir string
	timeout time.Duration
	logger  *slog.Logger
}

// Option configures the evaluator.
type Option func(*Evaluator)

// WithBaseDir sets the working directory for the executed program.
func WithBaseDir(dir string) Option {
	return func(e *Evaluator) {
		e.baseDir = dir
	}
}

// WithTimeout sets the execution timeout of a single evaluation.
func WithTimeout(d time.Duration) Option {
	return func(e *Evaluator) {
		if d > 0 {
			e.timeout = d
		}
	}
}

// WithLogger sets the logger used for failed runs.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Evaluator) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// New creates an evaluator running command with args.
func New(command string, args []string, opts ...Option) (*Evaluator, error) {
	if strings.TrimSpace(command) == "" {
		return nil, ErrNoCommand
	}
	e := &Evaluator{
		command: command,
		args:    args,
		timeout: DefaultTimeout,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Evaluate runs the program against linearText.
func (e *Evaluator) Evaluate(ctx context.Context, linearText string) (domain.Result, error) {
	expr := strings.TrimSpace(linearText)
	if expr == "" {
		return domain.Result{}, domain.ErrEmptyExpression
	}

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, e.command, e.args...)
	cmd.Dir = e.baseDir
	// Children of a killed shell may keep stdout open.
	cmd.WaitDelay = 100 * time.Millisecond
	cmd.Env = append(cmd.Environ(), EnvExpression+"="+expr)
	cmd.Stdin = strings.NewReader(expr + "\n")

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			if errors.Is(ctxErr, context.Canceled) {
				return domain.Result{}, ctxErr
			}
			return domain.Result{}, &domain.EvaluationError{Expression: linearText, Message: "evaluation timed out"}
		}

		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			// The program could not be started at all.
			return domain.Result{}, fmt.Errorf("process evaluator: %w", err)
		}
		e.logger.Debug("Evaluator process failed", "command", e.command, "exit_code", exitErr.ExitCode(), "stderr", stderr.String())

		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = fmt.Sprintf("exit status %d", exitErr.ExitCode())
		}
		return domain.Result{}, &domain.EvaluationError{Expression: linearText, Message: msg}
	}

	output := strings.TrimSpace(stdout.String())
	if output == "" {
		return domain.Result{}, &domain.EvaluationError{Expression: linearText, Message: "expression has no value"}
	}
	if v, err := strconv.ParseFloat(output, 64); err == nil {
		return domain.NumberResult(linearText, v), nil
	}
	return domain.SymbolicResult(linearText, output), nil
}
