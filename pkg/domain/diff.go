package domain

import (
	"reflect"
)

// SnapshotDiff represents the changes between two snapshots.
// It is designed to be serialized to JSON for partial updates on the client.
type SnapshotDiff struct {
	// SessionID is always present to identify the target.
	SessionID string `json:"session_id"`

	// Mode and Label change together.
	Mode  *Mode   `json:"mode,omitempty"`
	Label *string `json:"label,omitempty"`

	// Active changes when a different node (or none) becomes live.
	Active *int `json:"active,omitempty"`

	// Nodes carries the full node list whenever any node changed.
	// Expressions are short, so we do not bother with per-node deltas.
	Nodes []Node `json:"nodes,omitempty"`

	LinearText *string `json:"linear_text,omitempty"`
}

// Diff calculates the difference between oldSnap and newSnap.
// If oldSnap is nil, it returns a diff representing the entire newSnap (initial load).
// It returns nil when nothing changed.
func Diff(oldSnap, newSnap *Snapshot) *SnapshotDiff {
	if newSnap == nil {
		return nil
	}

	diff := &SnapshotDiff{
		SessionID: newSnap.SessionID,
	}

	if oldSnap == nil || oldSnap.Mode != newSnap.Mode {
		diff.Mode = &newSnap.Mode
	}
	if oldSnap == nil || oldSnap.Label != newSnap.Label {
		diff.Label = &newSnap.Label
	}
	if oldSnap == nil || oldSnap.Active != newSnap.Active {
		diff.Active = &newSnap.Active
	}
	if oldSnap == nil || !reflect.DeepEqual(oldSnap.Nodes, newSnap.Nodes) {
		diff.Nodes = newSnap.Nodes
		if diff.Nodes == nil {
			diff.Nodes = []Node{}
		}
	}
	if oldSnap == nil || oldSnap.LinearText != newSnap.LinearText {
		diff.LinearText = &newSnap.LinearText
	}

	if diff.IsEmpty() {
		return nil
	}
	return diff
}

// IsEmpty checks if the diff contains any actionable changes.
func (d *SnapshotDiff) IsEmpty() bool {
	return d.Mode == nil &&
		d.Label == nil &&
		d.Active == nil &&
		d.Nodes == nil &&
		d.LinearText == nil
}
