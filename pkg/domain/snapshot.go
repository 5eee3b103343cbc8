package domain

// Snapshot is the read-only view of a document that renderers and transports consume.
// It is taken after every mutation and never aliases the editor's own storage.
type Snapshot struct {
	SessionID string `json:"session_id"`
	Nodes     []Node `json:"nodes"`
	Mode      Mode   `json:"mode"`

	// Label is the mode indicator text ("" in Normal mode).
	Label string `json:"label,omitempty"`

	// Active is the index of the node being edited, -1 in Normal mode.
	Active int `json:"active"`

	// LiveField names the field of the active node that receives characters.
	// Renderers place the caret at its end.
	LiveField Field `json:"live_field,omitempty"`

	LinearText string `json:"linear_text"`
}

// NewSnapshot captures the current state of a document.
func NewSnapshot(d *Document) Snapshot {
	edit := d.Edit
	if edit.Mode == "" {
		edit = NormalState()
	}

	name := ""
	if !edit.IsNormal() && edit.Active >= 0 && edit.Active < len(d.Expression) {
		name = d.Expression[edit.Active].Name
	}

	nodes := d.Expression.Clone()
	if nodes == nil {
		nodes = []Node{}
	}

	return Snapshot{
		SessionID:  d.SessionID,
		Nodes:      nodes,
		Mode:       edit.Mode,
		Label:      edit.Mode.Label(name),
		Active:     edit.Active,
		LiveField:  edit.Mode.Field(),
		LinearText: d.Expression.LinearText(),
	}
}

// IsLive reports whether the node at index i is the one receiving characters.
func (s Snapshot) IsLive(i int) bool {
	return s.Mode != ModeNormal && s.Active == i
}
