package domain

import "strings"

// Mode defines which field is currently receiving typed characters.
type Mode string

const (
	ModeNormal              Mode = "normal"
	ModeSuperscript         Mode = "superscript"
	ModeFractionNumerator   Mode = "fraction-num"
	ModeFractionDenominator Mode = "fraction-den"
	ModeSqrt                Mode = "sqrt"
	ModeFunction            Mode = "function"
	ModeAbs                 Mode = "abs"
)

// Modes lists every mode, Normal first.
var Modes = []Mode{
	ModeNormal,
	ModeSuperscript,
	ModeFractionNumerator,
	ModeFractionDenominator,
	ModeSqrt,
	ModeFunction,
	ModeAbs,
}

// Valid reports whether m is a known mode.
func (m Mode) Valid() bool {
	for _, known := range Modes {
		if m == known {
			return true
		}
	}
	return false
}

// Family returns the node kind an active node must have while in this mode.
// Normal has no family and returns "".
func (m Mode) Family() NodeKind {
	switch m {
	case ModeSuperscript:
		return NodeSuperscript
	case ModeFractionNumerator, ModeFractionDenominator:
		return NodeFraction
	case ModeSqrt:
		return NodeSqrt
	case ModeFunction:
		return NodeFunction
	case ModeAbs:
		return NodeAbs
	}
	return ""
}

// Field returns the field of the active node that is live in this mode.
func (m Mode) Field() Field {
	switch m {
	case ModeSuperscript:
		return FieldExponent
	case ModeFractionNumerator:
		return FieldNumerator
	case ModeFractionDenominator:
		return FieldDenominator
	case ModeSqrt, ModeFunction, ModeAbs:
		return FieldContent
	}
	return FieldNone
}

// Flat reports whether the mode edits a flat content region where
// structural triggers (^ and /) are typed literally.
func (m Mode) Flat() bool {
	return m == ModeSqrt || m == ModeFunction || m == ModeAbs
}

// Label returns the mode indicator text shown by hosts.
// Function mode needs the function name, e.g. "SIN()".
func (m Mode) Label(functionName string) string {
	switch m {
	case ModeSuperscript:
		return "Superscript Mode"
	case ModeFractionNumerator:
		return "Fraction - Numerator"
	case ModeFractionDenominator:
		return "Fraction - Denominator"
	case ModeSqrt:
		return "Square Root"
	case ModeAbs:
		return "Absolute Value"
	case ModeFunction:
		return strings.ToUpper(functionName) + "()"
	}
	return ""
}
