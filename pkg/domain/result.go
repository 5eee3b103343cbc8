package domain

import (
	"errors"
	"math"
	"strconv"
)

// ResultPrecision is the number of decimal places numeric results are rounded to.
const ResultPrecision = 10

// Result is the outcome of evaluating linear text.
// Exactly one of Number or Symbolic is meaningful, as told by Numeric.
type Result struct {
	Expression string  `json:"expression"`
	Numeric    bool    `json:"numeric"`
	Number     float64 `json:"number,omitempty"`
	Symbolic   string  `json:"symbolic,omitempty"`
}

// NumberResult builds a numeric result rounded to ResultPrecision places.
func NumberResult(expr string, v float64) Result {
	return Result{Expression: expr, Numeric: true, Number: Round(v, ResultPrecision)}
}

// SymbolicResult builds a non-numeric result.
func SymbolicResult(expr, v string) Result {
	return Result{Expression: expr, Symbolic: v}
}

// String formats the result for display.
func (r Result) String() string {
	if !r.Numeric {
		return r.Symbolic
	}
	return strconv.FormatFloat(r.Number, 'f', -1, 64)
}

// Round rounds v half away from zero to the given number of decimal places.
// Infinities and NaN are returned unchanged.
func Round(v float64, places int) float64 {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return v
	}
	p := math.Pow(10, float64(places))
	r := math.Round(v*p) / p
	if math.IsInf(r, 0) || math.IsNaN(r) {
		return v
	}
	return r
}

// FormatOutcome renders an evaluation outcome the way the result panel shows it:
// the value on success, "Error: <message>" on failure.
func FormatOutcome(res *Result, err error) string {
	if err == nil && res != nil {
		return res.String()
	}
	var evalErr *EvaluationError
	if errors.As(err, &evalErr) {
		return "Error: " + evalErr.Message
	}
	if err != nil {
		return "Error: " + err.Error()
	}
	return ""
}
