package loam

// SnippetMetadata is the frontmatter of a snippet document.
// It uses "mapstructure" tags to match standard Frontmatter/YAML keys.
//
//	---
//	id: half
//	label: "½"
//	kind: text
//	value: 1/2
//	---
//	One half, typed as a fraction.
type SnippetMetadata struct {
	ID    string `json:"id" mapstructure:"id"`
	Label string `json:"label" mapstructure:"label"`
	Kind  string `json:"kind" mapstructure:"kind"`

	// Value is kept loose: YAML turns `value: 2` into a number.
	Value any `json:"value" mapstructure:"value"`

	// Order sorts the palette ahead of the ID when set.
	Order int `json:"order,omitempty" mapstructure:"order"`
}
