package domain

// Outcome is what a host gets back after applying one InputEvent.
type Outcome struct {
	Snapshot Snapshot `json:"snapshot"`

	// Action is set when a key gesture asked for more than a mutation.
	Action Action `json:"action,omitempty"`

	// Result is set after a successful evaluation.
	Result *Result `json:"result,omitempty"`

	// Output is the result panel text: the value, "Error: <message>", or ""
	// when nothing was evaluated.
	Output string `json:"output,omitempty"`
}
