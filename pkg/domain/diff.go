package domain

import (
	"reflect"
)

// DraftDiff represents the changes between two drafts.
// It is designed to be serialized to JSON for partial updates on the client.
type DraftDiff struct {
	// SessionID is always present to identify the target.
	SessionID string `json:"session_id"`

	// Values contains only changed, added or deleted top-level keys.
	// For deletions, the key is present with a nil value.
	Values map[string]any `json:"values,omitempty"`

	Version int `json:"version"`
}

// Diff calculates the difference between oldDraft and newDraft.
// If oldDraft is nil, it returns a diff representing the entire newDraft.
// It returns nil when nothing changed.
func Diff(oldDraft, newDraft *Draft) *DraftDiff {
	if newDraft == nil {
		return nil
	}

	diff := &DraftDiff{
		SessionID: newDraft.SessionID,
		Version:   newDraft.Version,
		Values:    diffValues(oldDraft, newDraft),
	}
	if diff.IsEmpty() {
		return nil
	}
	return diff
}

func diffValues(old *Draft, new *Draft) map[string]any {
	delta := make(map[string]any)

	if old == nil {
		for k, v := range new.Values {
			delta[k] = v
		}
		return nilIfEmpty(delta)
	}

	for k, newVal := range new.Values {
		oldVal, exists := old.Values[k]
		if !exists || !reflect.DeepEqual(oldVal, newVal) {
			delta[k] = newVal
		}
	}

	for k := range old.Values {
		if _, exists := new.Values[k]; !exists {
			delta[k] = nil
		}
	}

	return nilIfEmpty(delta)
}

func nilIfEmpty(m map[string]any) map[string]any {
	if len(m) == 0 {
		return nil
	}
	return m
}

// IsEmpty checks if the diff contains any actionable changes.
func (d *DraftDiff) IsEmpty() bool {
	return len(d.Values) == 0
}
