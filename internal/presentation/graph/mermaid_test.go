package graph_test

import (
	"strings"
	"testing"

	"github.com/aretw0/mathpad/internal/presentation/graph"
	"github.com/aretw0/mathpad/pkg/domain"
	"github.com/stretchr/testify/assert"
)

func snapshotOf(edit domain.EditState, nodes ...domain.Node) domain.Snapshot {
	doc := domain.NewDocument("test")
	doc.Expression = nodes
	doc.Edit = edit
	return domain.NewSnapshot(doc)
}

func TestGenerateMermaid(t *testing.T) {
	tests := []struct {
		name        string
		snap        domain.Snapshot
		contains    []string
		notContains []string
	}{
		{
			name: "Text And Sqrt",
			snap: snapshotOf(domain.NormalState(), domain.NewText("1+"), domain.NewSqrt("16")),
			contains: []string{
				"graph TD\n",
				"n0[\"1+\"]",
				"expr --> n0",
				"n1[[\"√\"]]",
				"n1_content[\"16\"]",
				"n1 -- content --> n1_content",
			},
			notContains: []string{"class "},
		},
		{
			name: "Fraction With Live Denominator",
			snap: snapshotOf(domain.ActiveState(domain.ModeFractionDenominator, 0), domain.NewFraction("3", "")),
			contains: []string{
				"n0{\"fraction\"}",
				"n0_numerator[\"3\"]",
				"n0_denominator[\" \"]",
				"class n0_denominator current;",
			},
		},
		{
			name: "Superscript And Function",
			snap: snapshotOf(domain.ActiveState(domain.ModeFunction, 1), domain.NewSuperscript("x", "2"), domain.NewFunction("log", "8")),
			contains: []string{
				"n0[/\"x^\"/]",
				"n0_exponent[\"2\"]",
				"n1[[\"log\"]]",
				"class n1_content current;",
			},
		},
		{
			name:     "Quotes Escaped",
			snap:     snapshotOf(domain.NormalState(), domain.NewText(`"a"`)),
			contains: []string{`n0["'a'"]`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := graph.GenerateMermaid(tt.snap)
			for _, want := range tt.contains {
				assert.Contains(t, got, want)
			}
			for _, unwanted := range tt.notContains {
				assert.False(t, strings.Contains(got, unwanted), "unexpected %q in\n%s", unwanted, got)
			}
		})
	}
}
