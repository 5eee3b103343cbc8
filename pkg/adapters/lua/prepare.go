package lua

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

type tokenKind int

const (
	tokNumber tokenKind = iota
	tokName
	tokOp
	tokOpen
	tokClose
	tokComma
)

type token struct {
	kind tokenKind
	text string
}

// prepare validates the expression and rewrites it into a Lua chunk.
func prepare(expr string) (string, error) {
	expr = strings.ReplaceAll(expr, "π", "pi")
	if strings.Contains(expr, "..") {
		return "", errors.New("unexpected '..'")
	}

	toks, err := tokenize(expr)
	if err != nil {
		return "", err
	}

	out := make([]string, 0, len(toks)*2)
	var prev *token
	for i := range toks {
		t := toks[i]
		// Lua has no unary plus.
		if t.kind == tokOp && t.text == "+" && operandExpected(prev) {
			continue
		}
		if prev != nil && implicitProduct(*prev, t) {
			out = append(out, "*")
		}
		out = append(out, t.text)
		prev = &toks[i]
	}

	// Tokens are space separated, so "--" never opens a Lua comment.
	return "return (" + strings.Join(out, " ") + ")", nil
}

func tokenize(expr string) ([]token, error) {
	var toks []token
	runes := []rune(expr)
	for i := 0; i < len(runes); {
		r := runes[i]
		switch {
		case unicode.IsSpace(r):
			i++
		case isIdentStart(r):
			j := i
			for j < len(runes) && isIdentPart(runes[j]) {
				j++
			}
			name := string(runes[i:j])
			if !known(name) {
				return nil, fmt.Errorf("Undefined symbol %s", name)
			}
			toks = append(toks, token{tokName, name})
			i = j
		case isDigit(r) || r == '.':
			j := scanNumber(runes, i)
			toks = append(toks, token{tokNumber, string(runes[i:j])})
			i = j
		case r == '(':
			toks = append(toks, token{tokOpen, "("})
			i++
		case r == ')':
			toks = append(toks, token{tokClose, ")"})
			i++
		case r == ',':
			toks = append(toks, token{tokComma, ","})
			i++
		case strings.ContainsRune("+-*/%^", r):
			toks = append(toks, token{tokOp, string(r)})
			i++
		default:
			return nil, fmt.Errorf("Unexpected character %q", r)
		}
	}
	return toks, nil
}

// scanNumber returns the end of the number literal starting at i:
// digits with an optional fraction and exponent. Lua validates the exact form.
func scanNumber(runes []rune, i int) int {
	for i < len(runes) && (isDigit(runes[i]) || runes[i] == '.') {
		i++
	}
	if i < len(runes) && (runes[i] == 'e' || runes[i] == 'E') {
		j := i + 1
		if j < len(runes) && (runes[j] == '+' || runes[j] == '-') {
			j++
		}
		if j < len(runes) && isDigit(runes[j]) {
			for j < len(runes) && isDigit(runes[j]) {
				j++
			}
			return j
		}
	}
	return i
}

func operandExpected(prev *token) bool {
	return prev == nil || prev.kind == tokOp || prev.kind == tokOpen || prev.kind == tokComma
}

// implicitProduct reports whether a and b are adjacent operands, as in
// 2sqrt(9), 2π or (1)(2).
func implicitProduct(a, b token) bool {
	left := a.kind == tokNumber || a.kind == tokClose || (a.kind == tokName && isConstant(a.text))
	if !left {
		return false
	}
	switch b.kind {
	case tokName, tokOpen:
		return true
	case tokNumber:
		return a.kind != tokNumber
	}
	return false
}

func isDigit(r rune) bool {
	return '0' <= r && r <= '9'
}

func isIdentStart(r rune) bool {
	return r == '_' || ('a' <= r && r <= 'z') || ('A' <= r && r <= 'Z')
}

func isIdentPart(r rune) bool {
	return isIdentStart(r) || isDigit(r)
}
