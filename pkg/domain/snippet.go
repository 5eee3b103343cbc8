package domain

// SnippetKind decides how a snippet is applied to a session.
type SnippetKind string

const (
	// SnippetText is pasted character by character, so keywords inside it fire.
	SnippetText SnippetKind = "text"
	// SnippetSymbol opens a structural node (sqrt, abs, power, fraction).
	SnippetSymbol SnippetKind = "symbol"
	// SnippetFunction opens a named function.
	SnippetFunction SnippetKind = "function"
)

// Snippet is one entry of the insert palette.
type Snippet struct {
	ID          string      `json:"id"`
	Label       string      `json:"label"`
	Kind        SnippetKind `json:"kind"`
	Value       string      `json:"value"`
	Description string      `json:"description,omitempty"`
}
