package process

import (
	"context"
	"errors"
	"runtime"
	"testing"
	"time"

	"github.com/aretw0/mathpad/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func shell(t *testing.T, script string, opts ...Option) *Evaluator {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}
	e, err := New("sh", []string{"-c", script}, opts...)
	require.NoError(t, err)
	return e
}

func TestEvaluator_Evaluate(t *testing.T) {
	t.Run("Reads Stdin", func(t *testing.T) {
		e := shell(t, `read expr; echo $(($expr))`)
		res, err := e.Evaluate(context.Background(), "1+2*3")
		require.NoError(t, err)
		assert.True(t, res.Numeric)
		assert.Equal(t, 7.0, res.Number)
		assert.Equal(t, "1+2*3", res.Expression)
	})

	t.Run("Passes Expression via Env Var", func(t *testing.T) {
		e := shell(t, `echo "$MATHPAD_EXPRESSION"`)
		res, err := e.Evaluate(context.Background(), "sqrt(x)")
		require.NoError(t, err)
		assert.False(t, res.Numeric)
		assert.Equal(t, "sqrt(x)", res.String())
	})

	t.Run("Rounds Numbers", func(t *testing.T) {
		e := shell(t, `echo 0.333333333333333333`)
		res, err := e.Evaluate(context.Background(), "1/3")
		require.NoError(t, err)
		assert.Equal(t, "0.3333333333", res.String())
	})

	t.Run("Failure Carries Stderr", func(t *testing.T) {
		e := shell(t, `echo "syntax error" >&2; exit 3`)
		_, err := e.Evaluate(context.Background(), "1+")
		var evalErr *domain.EvaluationError
		require.True(t, errors.As(err, &evalErr))
		assert.Equal(t, "syntax error", evalErr.Message)
		assert.ErrorIs(t, err, domain.ErrEvaluation)
	})

	t.Run("Silent Failure Reports Exit Code", func(t *testing.T) {
		e := shell(t, `exit 4`)
		_, err := e.Evaluate(context.Background(), "1")
		assert.ErrorContains(t, err, "exit status 4")
	})

	t.Run("Empty Output", func(t *testing.T) {
		e := shell(t, `true`)
		_, err := e.Evaluate(context.Background(), "1")
		assert.ErrorIs(t, err, domain.ErrEvaluation)
	})

	t.Run("Empty Expression", func(t *testing.T) {
		e := shell(t, `echo 1`)
		_, err := e.Evaluate(context.Background(), "  ")
		assert.ErrorIs(t, err, domain.ErrEmptyExpression)
	})

	t.Run("Timeout", func(t *testing.T) {
		e := shell(t, `sleep 5`, WithTimeout(100*time.Millisecond))
		_, err := e.Evaluate(context.Background(), "1")
		assert.ErrorIs(t, err, domain.ErrEvaluation)
		assert.ErrorContains(t, err, "timed out")
	})
}

func TestEvaluator_MissingProgram(t *testing.T) {
	_, err := New("", nil)
	assert.ErrorIs(t, err, ErrNoCommand)

	e, err := New("mathpad-no-such-program", nil)
	require.NoError(t, err)
	_, err = e.Evaluate(context.Background(), "1")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrEvaluation)
}
