package schema_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/aretw0/formwork/pkg/domain"
	"github.com/aretw0/formwork/pkg/expr"
	"github.com/aretw0/formwork/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTypes(t *testing.T) {
	tests := []struct {
		typ     schema.Type
		value   any
		wantErr bool
	}{
		{schema.String(), "a", false},
		{schema.String(), 1, true},
		{schema.Int(), 3, false},
		{schema.Int(), 3.0, false},
		{schema.Int(), 3.5, true},
		{schema.Int(), json.Number("12"), false},
		{schema.Int(), json.Number("1.5"), true},
		{schema.Number(), float32(1.5), false},
		{schema.Number(), json.Number("1.5"), false},
		{schema.Number(), "1.5", true},
		{schema.Bool(), false, false},
		{schema.Bool(), "true", true},
		{schema.Any(), nil, false},
		{schema.Map(), map[string]any{}, false},
		{schema.Map(), map[int]any{}, true},
		{schema.Option(), "pt", false},
		{schema.Option(), map[string]any{"value": "pt", "label": "Portugal"}, false},
		{schema.Option(), map[string]any{"label": "Portugal"}, true},
		{schema.Slice(schema.String()), []any{"a", "b"}, false},
		{schema.Slice(schema.String()), []any{"a", 1}, true},
		{schema.Slice(schema.String()), "a", true},
	}

	for _, tt := range tests {
		t.Run(tt.typ.Name(), func(t *testing.T) {
			err := tt.typ.Validate(tt.value)
			if tt.wantErr {
				assert.Error(t, err, "%v", tt.value)
			} else {
				assert.NoError(t, err, "%v", tt.value)
			}
		})
	}
}

func TestParseType(t *testing.T) {
	for _, notation := range []string{"string", "int", "number", "bool", "any", "map", "option", "[string]", "[[option]]"} {
		typ, err := schema.ParseType(notation)
		require.NoError(t, err, notation)
		assert.Equal(t, notation, typ.Name())
	}

	float, err := schema.ParseType("float")
	require.NoError(t, err)
	assert.Equal(t, "number", float.Name())

	_, err = schema.ParseType("[nope]")
	assert.Error(t, err)

	s, err := schema.ParseTypeMap(map[string]string{"options": "[option]", "rows": "int"})
	require.NoError(t, err)
	assert.Equal(t, "[option]", s["options"].Name())
}

func TestValidate(t *testing.T) {
	s := schema.Schema{"options": schema.Slice(schema.Option()), "rows": schema.Int()}

	assert.NoError(t, schema.Validate(s, map[string]any{"options": []any{"a"}, "rows": 3, "other": true}))

	err := schema.Validate(s, map[string]any{"rows": "three"})
	errs := schema.ValidationErrors(err)
	require.Len(t, errs, 2)
	assert.EqualError(t, errs[0], "options: required")
	assert.Contains(t, errs[1].Error(), "rows: expected int")
}

func TestLint_Structure(t *testing.T) {
	content := []domain.Content{
		&domain.Control{Base: domain.Base{ID: "a"}},
		&domain.Control{Base: domain.Base{ID: "a"}},
		&domain.Control{Base: domain.Base{}},
		nil,
		&domain.Group{
			Base: domain.Base{ID: "g", HideStrategy: "vanish"},
			Controls: []domain.Content{
				&domain.Control{Base: domain.Base{ID: "a"}},
				&domain.Control{Base: domain.Base{ID: "x.y", ValueStrategy: "sometimes", UpdateOn: "never"}},
			},
		},
	}

	err := schema.Lint(content)
	require.Error(t, err)

	var keys []string
	for _, e := range schema.ValidationErrors(err) {
		var ve *schema.ValidationError
		require.True(t, errors.As(e, &ve))
		keys = append(keys, ve.Key+" "+ve.Reason)
	}
	assert.Equal(t, []string{
		"a duplicate id",
		"[2] id is required",
		"[3] nil content",
		"g unknown hideStrategy",
		"g.x.y id must not contain '.'",
		"g.x.y unknown valueStrategy",
		"g.x.y unknown updateOn",
	}, keys, "nested ids only clash with their siblings")
}

func TestLint_Collaborators(t *testing.T) {
	content := []domain.Content{
		&domain.Control{Base: domain.Base{ID: "a", Type: "text", Hide: "value.b ==", Validators: []string{"required", "nope"}}},
		&domain.Control{Base: domain.Base{ID: "b", Type: "select"}},
		&domain.Control{Base: domain.Base{ID: "c", Type: "slider", AsyncValidators: []string{"remote"}}},
		&domain.Group{Base: domain.Base{ID: "g"}},
	}

	known := func(keys ...string) func(string) bool {
		return func(k string) bool {
			for _, key := range keys {
				if key == k {
					return true
				}
			}
			return false
		}
	}

	err := schema.Lint(content,
		schema.WithParser(expr.NewHCL()),
		schema.WithValidatorKeys(known("required")),
		schema.WithAsyncValidatorKeys(known()),
		schema.WithComponentTypes(known("text", "select")),
		schema.WithExtraSchemas(func(typ string) (schema.Schema, bool) {
			if typ == "select" {
				return schema.Schema{"options": schema.Slice(schema.Option())}, true
			}
			return nil, false
		}),
	)

	var msgs []string
	for _, e := range schema.ValidationErrors(err) {
		msgs = append(msgs, e.(*schema.ValidationError).Key+" "+e.(*schema.ValidationError).Reason)
	}
	require.Len(t, msgs, 5)
	assert.Contains(t, msgs[0], "a.hide ")
	assert.Equal(t, "a unknown validator", msgs[1])
	assert.Equal(t, "b.options required", msgs[2])
	assert.Equal(t, "c unknown async validator", msgs[3])
	assert.Equal(t, "c no component for type", msgs[4])
}

func TestLint_Clean(t *testing.T) {
	content := []domain.Content{
		&domain.Control{Base: domain.Base{ID: "a", Hide: "value.b == true", HideStrategy: domain.HideRemove}},
		&domain.Control{Base: domain.Base{ID: "b"}},
	}
	assert.NoError(t, schema.Lint(content, schema.WithParser(expr.NewHCL())))
}
