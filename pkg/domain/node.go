package domain

// NodeKind tags the variant of a Node.
type NodeKind string

const (
	// NodeText is a run of plain characters.
	NodeText NodeKind = "text"
	// NodeFraction holds a flat numerator and denominator.
	NodeFraction NodeKind = "fraction"
	// NodeSuperscript holds a frozen base and a growing exponent.
	NodeSuperscript NodeKind = "superscript"
	// NodeSqrt wraps a flat content field.
	NodeSqrt NodeKind = "sqrt"
	// NodeAbs wraps a flat content field.
	NodeAbs NodeKind = "abs"
	// NodeFunction wraps a flat content field under a named function.
	NodeFunction NodeKind = "function"
)

// Field names the editable part of a node that receives typed characters.
type Field string

const (
	FieldNone        Field = ""
	FieldContent     Field = "content"
	FieldExponent    Field = "exponent"
	FieldNumerator   Field = "numerator"
	FieldDenominator Field = "denominator"
)

// Node is one element of the expression.
// It is a tagged variant: Kind decides which of the fields are meaningful.
//
//   - text:        Content
//   - fraction:    Numerator, Denominator
//   - superscript: Base, Exponent
//   - sqrt, abs:   Content
//   - function:    Name, Content
type Node struct {
	Kind        NodeKind `json:"kind"`
	Content     string   `json:"content,omitempty"`
	Name        string   `json:"name,omitempty"`
	Base        string   `json:"base,omitempty"`
	Exponent    string   `json:"exponent,omitempty"`
	Numerator   string   `json:"numerator,omitempty"`
	Denominator string   `json:"denominator,omitempty"`
}

func NewText(content string) Node {
	return Node{Kind: NodeText, Content: content}
}

func NewFraction(numerator, denominator string) Node {
	return Node{Kind: NodeFraction, Numerator: numerator, Denominator: denominator}
}

// NewSuperscript creates a superscript whose base is captured once, at creation.
func NewSuperscript(base, exponent string) Node {
	return Node{Kind: NodeSuperscript, Base: base, Exponent: exponent}
}

func NewSqrt(content string) Node {
	return Node{Kind: NodeSqrt, Content: content}
}

func NewAbs(content string) Node {
	return Node{Kind: NodeAbs, Content: content}
}

func NewFunction(name, content string) Node {
	return Node{Kind: NodeFunction, Name: name, Content: content}
}

// IsText reports whether the node is a Text run.
func (n Node) IsText() bool {
	return n.Kind == NodeText
}

// Get returns the value of the given field.
func (n Node) Get(f Field) string {
	switch f {
	case FieldContent:
		return n.Content
	case FieldExponent:
		return n.Exponent
	case FieldNumerator:
		return n.Numerator
	case FieldDenominator:
		return n.Denominator
	}
	return ""
}

// Set replaces the value of the given field. Unknown fields are ignored.
func (n *Node) Set(f Field, value string) {
	switch f {
	case FieldContent:
		n.Content = value
	case FieldExponent:
		n.Exponent = value
	case FieldNumerator:
		n.Numerator = value
	case FieldDenominator:
		n.Denominator = value
	}
}
