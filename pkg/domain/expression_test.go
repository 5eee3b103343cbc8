package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExpression_LinearText(t *testing.T) {
	tests := []struct {
		name string
		expr Expression
		want string
	}{
		{"Empty", Expression{}, ""},
		{"Text And Sqrt", Expression{NewText("1+"), NewSqrt("4")}, "1+sqrt(4)"},
		{"Fraction", Expression{NewFraction("1", "2")}, "(1)/(2)"},
		{"Superscript", Expression{NewSuperscript("x", "2")}, "x^2"},
		{"Abs", Expression{NewAbs("-3")}, "abs(-3)"},
		{"Function", Expression{NewFunction("asin", "0.5")}, "asin(0.5)"},
		{"Empty Denominator", Expression{NewFraction("3", "")}, "(3)/()"},
		{"Empty Base", Expression{NewSuperscript("", "2")}, "^2"},
		{
			"Mixed",
			Expression{NewText("2*"), NewFraction("1", "3"), NewText("+"), NewFunction("max", "1,2"), NewSuperscript("y", "3")},
			"2*(1)/(3)+max(1,2)y^3",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.expr.LinearText())
		})
	}
}

func TestExpression_CloneIsIndependent(t *testing.T) {
	orig := Expression{NewText("a"), NewSqrt("2")}
	cp := orig.Clone()
	cp[0].Content = "changed"

	assert.Equal(t, "a", orig[0].Content)
	assert.Nil(t, Expression(nil).Clone())
}

func TestExpression_Last(t *testing.T) {
	_, ok := Expression{}.Last()
	assert.False(t, ok)

	last, ok := Expression{NewText("a"), NewAbs("")}.Last()
	assert.True(t, ok)
	assert.Equal(t, NodeAbs, last.Kind)
}

func TestNode_FieldAccess(t *testing.T) {
	n := NewFraction("1", "")
	n.Set(FieldDenominator, "4")
	assert.Equal(t, "4", n.Get(FieldDenominator))
	assert.Equal(t, "1", n.Get(FieldNumerator))

	n.Set(FieldNone, "ignored")
	assert.Equal(t, "", n.Get(FieldNone))
}
