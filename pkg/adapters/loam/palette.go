// Package loam serves the snippet palette from a Loam repository of
// markdown/YAML/JSON documents.
package loam

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aretw0/loam"
	"github.com/aretw0/mathpad/pkg/domain"
	"github.com/aretw0/mathpad/pkg/keyword"
	"github.com/mitchellh/mapstructure"
)

// Palette adapts a Loam repository to the ports.SnippetSource interface.
type Palette struct {
	Repo *loam.TypedRepository[SnippetMetadata]
}

// New creates a new Loam palette.
func New(repo *loam.TypedRepository[SnippetMetadata]) *Palette {
	return &Palette{
		Repo: repo,
	}
}

// Open initializes a read-only Loam repository at path and wraps it.
func Open(path string) (*Palette, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("invalid path: %w", err)
	}

	// Strict mode keeps numeric values as json.Number across formats.
	// The palette is never written, so ReadOnly also avoids Loam's dev sandbox.
	repo, err := loam.Init(absPath,
		loam.WithStrict(true),
		loam.WithReadOnly(true),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize loam: %w", err)
	}
	return New(loam.NewTypedRepository[SnippetMetadata](repo)), nil
}

// Get retrieves one snippet.
func (p *Palette) Get(ctx context.Context, id string) (domain.Snippet, error) {
	doc, err := p.Repo.Get(ctx, id)
	if err != nil {
		return domain.Snippet{}, fmt.Errorf("%w: %s: %v", domain.ErrUnknownSnippet, id, err)
	}
	return toSnippet(doc.ID, doc.Data, doc.Content)
}

// List returns every snippet, ordered by Order then ID.
func (p *Palette) List(ctx context.Context) ([]domain.Snippet, error) {
	docs, err := p.Repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("loam list failed: %w", err)
	}

	type entry struct {
		order   int
		snippet domain.Snippet
	}
	seen := make(map[string]string)
	entries := make([]entry, 0, len(docs))

	for _, doc := range docs {
		s, err := toSnippet(doc.ID, doc.Data, doc.Content)
		if err != nil {
			return nil, err
		}
		if existing, ok := seen[s.ID]; ok {
			return nil, fmt.Errorf("collision detected: snippet '%s' is defined in both '%s' and '%s'", s.ID, existing, doc.ID)
		}
		seen[s.ID] = doc.ID
		entries = append(entries, entry{order: doc.Data.Order, snippet: s})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].order != entries[j].order {
			return entries[i].order < entries[j].order
		}
		return entries[i].snippet.ID < entries[j].snippet.ID
	})

	out := make([]domain.Snippet, len(entries))
	for i, e := range entries {
		out[i] = e.snippet
	}
	return out, nil
}

func toSnippet(docID string, meta SnippetMetadata, content string) (domain.Snippet, error) {
	id := meta.ID
	if id == "" {
		id = docID
	}
	id = trimExtension(id)

	var value string
	if meta.Value != nil {
		if err := mapstructure.WeakDecode(meta.Value, &value); err != nil {
			return domain.Snippet{}, fmt.Errorf("snippet %s: invalid value: %w", id, err)
		}
	}

	kind := domain.SnippetKind(meta.Kind)
	if kind == "" {
		kind = domain.SnippetText
	}

	switch kind {
	case domain.SnippetText:
		if value == "" {
			return domain.Snippet{}, fmt.Errorf("snippet %s: text snippet needs a value", id)
		}
	case domain.SnippetSymbol:
		switch domain.Symbol(value) {
		case domain.SymbolSqrt, domain.SymbolAbs, domain.SymbolPower, domain.SymbolFraction:
		default:
			return domain.Snippet{}, fmt.Errorf("snippet %s: %w: %q", id, domain.ErrUnknownSymbol, value)
		}
	case domain.SnippetFunction:
		if !keyword.IsFunction(value) {
			return domain.Snippet{}, fmt.Errorf("snippet %s: %w: %q", id, domain.ErrUnknownFunction, value)
		}
	default:
		return domain.Snippet{}, fmt.Errorf("snippet %s: unknown kind %q", id, meta.Kind)
	}

	label := meta.Label
	if label == "" {
		label = id
	}

	return domain.Snippet{
		ID:          id,
		Label:       label,
		Kind:        kind,
		Value:       value,
		Description: strings.TrimSpace(content),
	}, nil
}

func trimExtension(id string) string {
	ext := filepath.Ext(id)
	if ext != "" {
		return filepath.ToSlash(strings.TrimSuffix(id, ext))
	}
	return filepath.ToSlash(id)
}
