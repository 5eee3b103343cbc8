package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/aretw0/mathpad/pkg/domain"
)

// Palette implements ports.SnippetSource using an in-memory map.
type Palette struct {
	snippets map[string]domain.Snippet
}

// NewPalette creates a palette from the given snippets.
// Later entries replace earlier ones with the same ID.
func NewPalette(snippets ...domain.Snippet) (*Palette, error) {
	data := make(map[string]domain.Snippet, len(snippets))
	for _, s := range snippets {
		if s.ID == "" {
			return nil, fmt.Errorf("snippet missing ID")
		}
		data[s.ID] = s
	}
	return &Palette{snippets: data}, nil
}

// DefaultPalette returns the built-in toolbar: one entry per structural symbol
// plus the constants the evaluator understands.
func DefaultPalette() *Palette {
	p, _ := NewPalette(
		domain.Snippet{ID: "abs", Label: "|x|", Kind: domain.SnippetSymbol, Value: string(domain.SymbolAbs)},
		domain.Snippet{ID: "fraction", Label: "a/b", Kind: domain.SnippetSymbol, Value: string(domain.SymbolFraction)},
		domain.Snippet{ID: "pi", Label: "π", Kind: domain.SnippetText, Value: "π"},
		domain.Snippet{ID: "power", Label: "xⁿ", Kind: domain.SnippetSymbol, Value: string(domain.SymbolPower)},
		domain.Snippet{ID: "sqrt", Label: "√", Kind: domain.SnippetSymbol, Value: string(domain.SymbolSqrt)},
	)
	return p
}

// Get retrieves a snippet by ID.
func (p *Palette) Get(ctx context.Context, id string) (domain.Snippet, error) {
	s, ok := p.snippets[id]
	if !ok {
		return domain.Snippet{}, fmt.Errorf("%w: %s", domain.ErrUnknownSnippet, id)
	}
	return s, nil
}

// List returns all snippets ordered by ID.
func (p *Palette) List(ctx context.Context) ([]domain.Snippet, error) {
	out := make([]domain.Snippet, 0, len(p.snippets))
	for _, s := range p.snippets {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
