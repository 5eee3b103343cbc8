package tui

import (
	"testing"

	"github.com/aretw0/mathpad/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnippetTable(t *testing.T) {
	table := SnippetTable([]domain.Snippet{
		{ID: "abs", Label: "|x|", Kind: domain.SnippetSymbol, Value: "abs"},
		{ID: "pi", Label: "π", Kind: domain.SnippetText, Value: "π"},
	})

	assert.Equal(t, "| ID | Label | Kind | Inserts |\n"+
		"|----|-------|------|---------|\n"+
		"| `abs` | \\|x\\| | symbol | `abs` |\n"+
		"| `pi` | π | text | `π` |\n", table)
}

func TestMarkdownRenderer(t *testing.T) {
	render, err := NewMarkdownRenderer("notty")
	require.NoError(t, err)

	out, err := render(ResultMarkdown("2sqrt(9)", "6"))
	require.NoError(t, err)
	assert.Contains(t, out, "2sqrt(9)")
	assert.Contains(t, out, "6")
}
