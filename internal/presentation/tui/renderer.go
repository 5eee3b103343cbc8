package tui

import (
	"fmt"
	"strings"

	"github.com/aretw0/mathpad/pkg/domain"
	"github.com/charmbracelet/glamour"
)

// NewMarkdownRenderer returns a function that renders markdown using glamour.
// An empty style detects a light or dark background; "notty" renders plain text.
func NewMarkdownRenderer(style string) (func(string) (string, error), error) {
	opt := glamour.WithAutoStyle()
	if style != "" {
		opt = glamour.WithStandardStyle(style)
	}
	r, err := glamour.NewTermRenderer(opt, glamour.WithWordWrap(100))
	if err != nil {
		return nil, fmt.Errorf("failed to create markdown renderer: %w", err)
	}
	return r.Render, nil
}

// SnippetTable formats the palette as a markdown table.
func SnippetTable(snippets []domain.Snippet) string {
	var b strings.Builder
	b.WriteString("| ID | Label | Kind | Inserts |\n")
	b.WriteString("|----|-------|------|---------|\n")
	for _, s := range snippets {
		fmt.Fprintf(&b, "| `%s` | %s | %s | `%s` |\n", s.ID, cell(s.Label), s.Kind, cell(s.Value))
	}
	return b.String()
}

// ResultMarkdown formats an evaluated expression for the result panel.
func ResultMarkdown(linear, output string) string {
	if output == "" {
		return fmt.Sprintf("`%s`\n", linear)
	}
	return fmt.Sprintf("`%s`\n\n**%s**\n", linear, output)
}

func cell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
