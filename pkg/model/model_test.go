package model_test

import (
	"context"
	"errors"
	"testing"

	"github.com/aretw0/formwork/pkg/domain"
	"github.com/aretw0/formwork/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func required(v any) model.Errors {
	if v == nil || v == "" {
		return model.Errors{"required": true}
	}
	return nil
}

func TestControl_ValidatorsAndStatus(t *testing.T) {
	c := model.NewControl("", model.WithValidators(required))
	assert.Equal(t, model.StatusInvalid, c.Status())
	assert.Equal(t, model.Errors{"required": true}, c.Errors())

	c.SetValue("x")
	assert.True(t, c.Valid())
	assert.Nil(t, c.Errors())

	c.Disable()
	assert.Equal(t, model.StatusDisabled, c.Status())
	assert.Nil(t, c.Errors())

	c.Enable()
	assert.True(t, c.Valid())
}

func TestControl_ResetFallsBackToDefaultWhenNonNullable(t *testing.T) {
	nullable := model.NewControl("init")
	nullable.SetValue("changed")
	nullable.Reset(nil)
	assert.Nil(t, nullable.Value())

	nonNull := model.NewControl("init", model.NonNullable())
	nonNull.SetValue("changed")
	nonNull.Reset(nil)
	assert.Equal(t, "init", nonNull.Value())
	assert.True(t, nonNull.Pristine())
}

func TestControl_SilentUpdatesDoNotNotify(t *testing.T) {
	c := model.NewControl(1)
	var seen []any
	cancel := c.Subscribe(func(v any) { seen = append(seen, v) })

	c.SetValue(2)
	c.SetValue(3, model.Silent())
	c.Reset(nil, model.Silent())
	cancel()
	c.SetValue(4)

	assert.Equal(t, []any{2}, seen)
}

func TestGroup_ValueSkipsDisabledChildren(t *testing.T) {
	g := model.NewGroup()
	a := model.NewControl("a")
	b := model.NewControl("b")
	g.AddControl("a", a)
	g.AddControl("b", b)

	b.Disable()
	assert.Equal(t, map[string]any{"a": "a"}, g.Value())
	assert.Equal(t, map[string]any{"a": "a", "b": "b"}, g.RawValue())

	a.Disable()
	assert.True(t, g.Disabled(), "a group whose children are all disabled is disabled")
	assert.Equal(t, map[string]any{"a": "a", "b": "b"}, g.Value())
}

func TestGroup_PropagatesChangesAndStatus(t *testing.T) {
	root := model.NewGroup()
	inner := model.NewGroup()
	name := model.NewControl("", model.WithValidators(required))
	inner.AddControl("name", name)
	root.AddControl("inner", inner)

	var seen []any
	root.Subscribe(func(v any) { seen = append(seen, v) })

	assert.Equal(t, model.StatusInvalid, root.Status())

	name.SetValue("bob")
	assert.Equal(t, model.StatusValid, root.Status())
	require.Len(t, seen, 1)
	assert.Equal(t, map[string]any{"inner": map[string]any{"name": "bob"}}, seen[0])

	name.SetValue("", model.Silent())
	assert.Equal(t, model.StatusInvalid, root.Status(), "silent updates still settle status")
	assert.Len(t, seen, 1)
}

func TestGroup_AddSetRemove(t *testing.T) {
	g := model.NewGroup()
	first := model.NewControl(1)
	second := model.NewControl(2)

	g.AddControl("x", first)
	g.AddControl("x", second)
	assert.Same(t, first, g.Get("x"), "AddControl keeps an existing child")

	g.SetControl("x", second)
	assert.Same(t, second, g.Get("x"))
	assert.Nil(t, first.Parent())
	assert.Same(t, g, second.Parent())

	g.RemoveControl("x")
	assert.False(t, g.Has("x"))
	assert.Nil(t, second.Parent())
	g.RemoveControl("x") // no-op

	assert.Empty(t, g.Keys())
}

func TestGroup_GetPath(t *testing.T) {
	root := model.NewGroup()
	inner := model.NewGroup()
	leaf := model.NewControl(true)
	inner.AddControl("leaf", leaf)
	root.AddControl("inner", inner)

	assert.Same(t, leaf, root.GetPath("inner.leaf"))
	assert.Nil(t, root.GetPath("inner.missing"))
	assert.Nil(t, root.GetPath("inner.leaf.deeper"))
}

func TestGroup_SetValueRequiresEveryKey(t *testing.T) {
	g := model.NewGroup()
	g.AddControl("a", model.NewControl(nil))
	g.AddControl("b", model.NewControl(nil))

	assert.Error(t, g.SetValue(map[string]any{"a": 1}))
	assert.Error(t, g.SetValue(map[string]any{"a": 1, "b": 2, "c": 3}))
	require.NoError(t, g.SetValue(map[string]any{"a": 1, "b": 2}))
	assert.Equal(t, map[string]any{"a": 1, "b": 2}, g.Value())

	g.PatchValue(map[string]any{"b": 3, "zzz": 4})
	assert.Equal(t, map[string]any{"a": 1, "b": 3}, g.Value())
}

func TestGroup_ResetAndDisableCascade(t *testing.T) {
	g := model.NewGroup()
	a := model.NewControl("x", model.NonNullable())
	b := model.NewControl("y")
	g.AddControl("a", a)
	g.AddControl("b", b)
	a.SetValue("changed")
	b.SetValue("changed")

	g.Reset(nil)
	assert.Equal(t, map[string]any{"a": "x", "b": nil}, g.Value())

	g.Disable()
	assert.True(t, a.Disabled())
	assert.True(t, b.Disabled())

	g.Enable()
	assert.True(t, a.Enabled())
	assert.True(t, b.Enabled())
}

func TestControl_UpdateOn(t *testing.T) {
	root := model.NewGroup(model.WithUpdateOn(domain.UpdateOnSubmit))
	onBlur := model.NewControl("", model.WithUpdateOn(domain.UpdateOnBlur))
	inherited := model.NewControl("")
	root.AddControl("blur", onBlur)
	root.AddControl("submit", inherited)

	assert.Equal(t, domain.UpdateOnSubmit, inherited.UpdateOn())

	onBlur.Input("typed")
	assert.Equal(t, "", onBlur.Value())
	onBlur.Blur()
	assert.Equal(t, "typed", onBlur.Value())

	inherited.Input("later")
	inherited.Blur()
	assert.Equal(t, "", inherited.Value())
	root.Submit()
	assert.Equal(t, "later", inherited.Value())

	standalone := model.NewControl(0)
	standalone.Input(5)
	assert.Equal(t, 5, standalone.Value())
}

func TestValidateAsync(t *testing.T) {
	taken := func(ctx context.Context, v any) (model.Errors, error) {
		if v == "admin" {
			return model.Errors{"taken": true}, nil
		}
		return nil, nil
	}

	root := model.NewGroup()
	user := model.NewControl("admin", model.WithAsyncValidators(taken))
	other := model.NewControl("bob", model.WithAsyncValidators(taken))
	root.AddControl("user", user)
	root.AddControl("other", other)

	assert.Equal(t, model.StatusPending, root.Status())

	require.NoError(t, model.ValidateAsync(context.Background(), root))
	assert.Equal(t, model.StatusInvalid, user.Status())
	assert.Equal(t, model.Errors{"taken": true}, user.Errors())
	assert.Equal(t, model.StatusValid, other.Status())
	assert.Equal(t, model.StatusInvalid, root.Status())

	user.SetValue("carol")
	assert.Equal(t, model.StatusPending, user.Status())
	require.NoError(t, model.ValidateAsync(context.Background(), root))
	assert.Equal(t, model.StatusValid, root.Status())
}

func TestValidateAsync_PropagatesFailures(t *testing.T) {
	boom := errors.New("backend down")
	c := model.NewControl("x", model.WithAsyncValidators(func(ctx context.Context, v any) (model.Errors, error) {
		return nil, boom
	}))

	err := model.ValidateAsync(context.Background(), c)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, model.StatusPending, c.Status())
}
