package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/mathpad/pkg/domain"
)

// GenerateMermaid produces a Mermaid flowchart of an expression tree.
// Each node hangs off the expression root in order and its editable fields
// become leaves. Shapes follow the node kind:
// - Text: [Rectangle]
// - Fraction: {Rhombus}
// - Superscript: [/Parallelogram/] labelled with its frozen base
// - Sqrt, Abs, Function: [[Subroutine]]
// The live field, if any, is highlighted.
func GenerateMermaid(snap domain.Snapshot) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")
	sb.WriteString("    expr((\"expression\"))\n")

	live := ""
	for i, node := range snap.Nodes {
		id := fmt.Sprintf("n%d", i)
		opener, closer := "[", "]"
		label := string(node.Kind)

		switch node.Kind {
		case domain.NodeText:
			label = node.Content
		case domain.NodeFraction:
			opener, closer = "{", "}"
			label = "fraction"
		case domain.NodeSuperscript:
			opener, closer = "[/", "/]"
			label = node.Base + "^"
		case domain.NodeSqrt:
			opener, closer = "[[", "]]"
			label = "√"
		case domain.NodeAbs:
			opener, closer = "[[", "]]"
			label = "| |"
		case domain.NodeFunction:
			opener, closer = "[[", "]]"
			label = node.Name
		}

		fmt.Fprintf(&sb, "    %s%s\"%s\"%s\n", id, opener, escape(label), closer)
		fmt.Fprintf(&sb, "    expr --> %s\n", id)

		for _, f := range fields(node) {
			leaf := id + "_" + string(f)
			fmt.Fprintf(&sb, "    %s[\"%s\"]\n", leaf, escape(node.Get(f)))
			fmt.Fprintf(&sb, "    %s -- %s --> %s\n", id, f, leaf)
			if snap.IsLive(i) && snap.LiveField == f {
				live = leaf
			}
		}
	}

	if live != "" {
		sb.WriteString("\n    %% Live field\n")
		// Black text keeps the highlight readable on light and dark themes.
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")
		fmt.Fprintf(&sb, "    class %s current;\n", live)
	}

	return sb.String()
}

func fields(n domain.Node) []domain.Field {
	switch n.Kind {
	case domain.NodeFraction:
		return []domain.Field{domain.FieldNumerator, domain.FieldDenominator}
	case domain.NodeSuperscript:
		return []domain.Field{domain.FieldExponent}
	case domain.NodeSqrt, domain.NodeAbs, domain.NodeFunction:
		return []domain.Field{domain.FieldContent}
	}
	return nil
}

func escape(s string) string {
	if s == "" {
		return " "
	}
	return strings.ReplaceAll(s, "\"", "'")
}
