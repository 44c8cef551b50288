package domain

import "time"

// Draft is the persisted value of a form for one session.
type Draft struct {
	FormID    string         `json:"form_id" msgpack:"form_id"`
	SessionID string         `json:"session_id" msgpack:"session_id"`
	Values    map[string]any `json:"values" msgpack:"values"`
	Version   int            `json:"version" msgpack:"version"`
	UpdatedAt time.Time      `json:"updated_at" msgpack:"updated_at"`
}

// NewDraft creates an empty draft.
func NewDraft(sessionID, formID string) *Draft {
	return &Draft{
		FormID:    formID,
		SessionID: sessionID,
		Values:    make(map[string]any),
		UpdatedAt: time.Now().UTC(),
	}
}

// Clone returns a copy whose Values can be mutated independently.
func (d *Draft) Clone() *Draft {
	if d == nil {
		return nil
	}
	out := *d
	out.Values = CloneValues(d.Values)
	return &out
}

// CloneValues deep-copies nested maps and slices of a form value.
func CloneValues(values map[string]any) map[string]any {
	if values == nil {
		return nil
	}
	out := make(map[string]any, len(values))
	for k, v := range values {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return CloneValues(t)
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = cloneValue(e)
		}
		return out
	default:
		return v
	}
}

// NodeState is the observable state of one node, as exposed to hosts.
type NodeState struct {
	Path          string         `json:"path"`
	ID            string         `json:"id"`
	Type          string         `json:"type"`
	Kind          Kind           `json:"kind"`
	Hidden        bool           `json:"hidden"`
	Attached      bool           `json:"attached"`
	Disabled      bool           `json:"disabled"`
	Readonly      bool           `json:"readonly"`
	HideStrategy  HideStrategy   `json:"hide_strategy"`
	ValueStrategy ValueStrategy  `json:"value_strategy"`
	Status        string         `json:"status"`
	Errors        map[string]any `json:"errors,omitempty"`
	Value         any            `json:"value,omitempty"`
}

// Snapshot is the state of a whole form at one point in time.
type Snapshot struct {
	Value map[string]any `json:"value"`
	Valid bool           `json:"valid"`
	Nodes []NodeState    `json:"nodes"`
}
