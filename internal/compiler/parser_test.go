package compiler_test

import (
	"testing"

	"github.com/aretw0/formwork/internal/compiler"
	"github.com/aretw0/formwork/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const signupYAML = `
id: signup
title: Sign up
controls:
  - id: name
    type: text
    label: Name
    defaultValue: ""
    validators: required
    placeholder: Ada Lovelace
  - id: newsletter
    type: checkbox
    defaultValue: false
  - id: address
    type: group
    hide: value.newsletter != true
    hideStrategy: remove
    valueStrategy: reset
    controls:
      - id: city
        type: select
        nonNullable: true
        defaultValue: lisbon
        disabled: true
        readonly: false
        options: [lisbon, porto]
`

func TestParse_YAML(t *testing.T) {
	doc, err := compiler.NewParser().Parse([]byte(signupYAML), compiler.FormatYAML)
	require.NoError(t, err)

	assert.Equal(t, "signup", doc.ID)
	assert.Equal(t, "Sign up", doc.Title)
	require.Len(t, doc.Controls, 3)

	name, ok := doc.Controls[0].(*domain.Control)
	require.True(t, ok)
	assert.Equal(t, "name", name.ID)
	assert.Equal(t, "Name", name.Label)
	assert.Equal(t, "", name.DefaultValue)
	assert.Equal(t, []string{"required"}, name.Validators)
	assert.Equal(t, map[string]any{"placeholder": "Ada Lovelace"}, name.Extra)

	address, ok := doc.Controls[2].(*domain.Group)
	require.True(t, ok)
	assert.Equal(t, domain.Expression("value.newsletter != true"), address.Hide)
	assert.Equal(t, domain.HideRemove, address.HideStrategy)
	assert.Equal(t, domain.ValueReset, address.ValueStrategy)
	require.Len(t, address.Controls, 1)

	city := address.Controls[0].(*domain.Control)
	assert.True(t, city.NonNullable)
	assert.Equal(t, domain.Expression("true"), city.Disabled, "bool rules become expressions")
	assert.Equal(t, domain.Expression(""), city.Readonly, "false means no rule")
	assert.Equal(t, []any{"lisbon", "porto"}, city.Extra["options"])
}

func TestParse_JSONList(t *testing.T) {
	doc, err := compiler.NewParser().Parse([]byte(`[
		{"id": "a", "type": "text", "hide": "value.b == true", "hideStrategy": "remove"},
		{"id": "b", "type": "checkbox", "defaultValue": false, "validators": ["required"]}
	]`), compiler.FormatJSON)
	require.NoError(t, err)

	assert.Empty(t, doc.ID)
	require.Len(t, doc.Controls, 2)
	assert.Equal(t, domain.Expression("value.b == true"), doc.Controls[0].Common().Hide)
	assert.Equal(t, false, doc.Controls[1].(*domain.Control).DefaultValue)
}

func TestParse_EmptyGroup(t *testing.T) {
	doc, err := compiler.NewParser().Parse([]byte("- id: g\n  controls: []\n"), compiler.FormatYAML)
	require.NoError(t, err)
	require.Len(t, doc.Controls, 1)
	assert.Equal(t, domain.KindGroup, doc.Controls[0].Kind())
}

func TestParse_Errors(t *testing.T) {
	p := compiler.NewParser()

	tests := []struct {
		name   string
		data   string
		format compiler.Format
		want   string
	}{
		{"bad yaml", "controls: [", compiler.FormatYAML, "failed to parse yaml"},
		{"bad json", "{", compiler.FormatJSON, "failed to parse json"},
		{"scalar", "42", compiler.FormatJSON, "top level"},
		{"controls not a list", "controls: 3", compiler.FormatYAML, "controls: expected a list"},
		{"node not a map", "- 3", compiler.FormatYAML, "[0]: expected a map"},
		{"bad field", "- id: a\n  nonNullable: [1]", compiler.FormatYAML, "a: "},
		{"unknown format", "", compiler.Format("toml"), "unsupported format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := p.Parse([]byte(tt.data), tt.format)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestFormatOf(t *testing.T) {
	f, ok := compiler.FormatOf("forms/signup.YML")
	assert.True(t, ok)
	assert.Equal(t, compiler.FormatYAML, f)

	f, ok = compiler.FormatOf("signup.json")
	assert.True(t, ok)
	assert.Equal(t, compiler.FormatJSON, f)

	_, ok = compiler.FormatOf("signup.md")
	assert.False(t, ok)
}
