package domain

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDiff(t *testing.T) {
	tests := []struct {
		name     string
		old      *Draft
		new      *Draft
		wantDiff *DraftDiff
	}{
		{
			name: "Initial Load (Old is Nil)",
			old:  nil,
			new:  &Draft{SessionID: "sess-1", Version: 1, Values: map[string]any{"a": 1}},
			wantDiff: &DraftDiff{
				SessionID: "sess-1",
				Version:   1,
				Values:    map[string]any{"a": 1},
			},
		},
		{
			name:     "No Changes",
			old:      &Draft{SessionID: "sess-1", Values: map[string]any{"a": 1}},
			new:      &Draft{SessionID: "sess-1", Values: map[string]any{"a": 1}},
			wantDiff: nil,
		},
		{
			name: "Changed, Added and Removed Keys",
			old:  &Draft{SessionID: "sess-1", Values: map[string]any{"a": 1, "b": "x", "gone": true}},
			new:  &Draft{SessionID: "sess-1", Version: 2, Values: map[string]any{"a": 2, "b": "x", "c": []any{1}}},
			wantDiff: &DraftDiff{
				SessionID: "sess-1",
				Version:   2,
				Values:    map[string]any{"a": 2, "c": []any{1}, "gone": nil},
			},
		},
		{
			name: "Nested Group Value",
			old:  &Draft{SessionID: "s", Values: map[string]any{"g": map[string]any{"x": 1}}},
			new:  &Draft{SessionID: "s", Values: map[string]any{"g": map[string]any{"x": 2}}},
			wantDiff: &DraftDiff{
				SessionID: "s",
				Values:    map[string]any{"g": map[string]any{"x": 2}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Diff(tt.old, tt.new)
			assert.Equal(t, tt.wantDiff, got)
		})
	}
}

func TestDiff_JSONOmitsEmptyValues(t *testing.T) {
	d := &DraftDiff{SessionID: "s"}
	data, err := json.Marshal(d)
	assert.NoError(t, err)
	assert.False(t, strings.Contains(string(data), "values"))
}

func TestDraft_CloneIsDeep(t *testing.T) {
	d := NewDraft("s", "f")
	d.Values["g"] = map[string]any{"x": 1}
	d.Values["list"] = []any{"a"}

	c := d.Clone()
	c.Values["g"].(map[string]any)["x"] = 2
	c.Values["list"].([]any)[0] = "b"

	assert.Equal(t, 1, d.Values["g"].(map[string]any)["x"])
	assert.Equal(t, "a", d.Values["list"].([]any)[0])
}

func TestDefaultValuesAndWalk(t *testing.T) {
	content := []Content{
		&Control{Base: Base{ID: "a", Type: "text"}, DefaultValue: "x"},
		&Group{Base: Base{ID: "g", Type: "group"}, Controls: []Content{
			&Control{Base: Base{ID: "b", Type: "toggle"}, DefaultValue: false},
		}},
	}

	assert.Equal(t, map[string]any{
		"a": "x",
		"g": map[string]any{"b": false},
	}, DefaultValues(content))

	var paths []string
	Walk(content, func(path string, c Content) bool {
		paths = append(paths, path)
		return true
	})
	assert.Equal(t, []string{"a", "g", "g.b"}, paths)
}
