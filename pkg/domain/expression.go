package domain

import "strings"

// Expression is the ordered sequence of nodes, in reading order.
type Expression []Node

// Last returns the trailing node, or false when the expression is empty.
func (e Expression) Last() (Node, bool) {
	if len(e) == 0 {
		return Node{}, false
	}
	return e[len(e)-1], true
}

// Clone returns an independent copy of the expression.
func (e Expression) Clone() Expression {
	if e == nil {
		return nil
	}
	out := make(Expression, len(e))
	copy(out, e)
	return out
}

// LinearText flattens the expression into the evaluator-ready string form.
//
//	Text        -> content
//	Fraction    -> (numerator)/(denominator)
//	Superscript -> base^exponent
//	Sqrt        -> sqrt(content)
//	Abs         -> abs(content)
//	Function    -> name(content)
//
// Empty fields serialize as empty text between their delimiters.
func (e Expression) LinearText() string {
	var b strings.Builder
	for _, n := range e {
		writeLinear(&b, n)
	}
	return b.String()
}

func writeLinear(b *strings.Builder, n Node) {
	switch n.Kind {
	case NodeText:
		b.WriteString(n.Content)
	case NodeFraction:
		b.WriteString("(")
		b.WriteString(n.Numerator)
		b.WriteString(")/(")
		b.WriteString(n.Denominator)
		b.WriteString(")")
	case NodeSuperscript:
		b.WriteString(n.Base)
		b.WriteString("^")
		b.WriteString(n.Exponent)
	case NodeSqrt:
		writeCall(b, "sqrt", n.Content)
	case NodeAbs:
		writeCall(b, "abs", n.Content)
	case NodeFunction:
		writeCall(b, n.Name, n.Content)
	}
}

func writeCall(b *strings.Builder, name, arg string) {
	b.WriteString(name)
	b.WriteString("(")
	b.WriteString(arg)
	b.WriteString(")")
}
