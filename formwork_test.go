package formwork_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/aretw0/formwork"
	"github.com/aretw0/formwork/pkg/domain"
	"github.com/aretw0/formwork/pkg/dsl"
	"github.com/aretw0/formwork/pkg/model"
	"github.com/aretw0/formwork/pkg/schema"
	"github.com/aretw0/formwork/pkg/validators"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newForm(t *testing.T, b *dsl.Builder, opts ...formwork.Option) *formwork.Form {
	t.Helper()
	f, err := formwork.New(b.Build(), opts...)
	require.NoError(t, err)
	t.Cleanup(f.Close)
	return f
}

func TestForm_RemoveRoundTrip(t *testing.T) {
	b := dsl.New()
	b.Text("a").Hide("value.b == true").Remove()
	b.Checkbox("b")
	f := newForm(t, b)

	assert.Equal(t, map[string]any{"a": "", "b": false}, f.Value())

	require.NoError(t, f.SetValue("a", "hello"))
	assert.Equal(t, "hello", f.Value()["a"])

	require.NoError(t, f.SetValue("b", true))
	assert.Equal(t, map[string]any{"b": true}, f.Value())

	a, err := f.Node("a")
	require.NoError(t, err)
	assert.True(t, a.Hidden())
	assert.False(t, a.Attached())

	require.NoError(t, f.SetValue("b", false))
	assert.Equal(t, map[string]any{"a": "", "b": false}, f.Value(), "comes back with its default")
	assert.True(t, a.Attached())
}

func TestForm_KeepStrategy(t *testing.T) {
	b := dsl.New()
	b.Text("a").Hide("value.b == true")
	b.Checkbox("b")
	f := newForm(t, b)

	require.NoError(t, f.SetValue("a", "kept"))
	require.NoError(t, f.SetValue("b", true))

	assert.Equal(t, map[string]any{"a": "kept", "b": true}, f.Value())

	var buf bytes.Buffer
	require.NoError(t, f.Render(context.Background(), &buf))
	assert.Contains(t, buf.String(), `<div class="fw-control" data-testid="a" hidden>`)
}

func TestForm_Disabled(t *testing.T) {
	b := dsl.New()
	b.Checkbox("lock")
	b.Text("a").Disabled("value.lock == true")
	f := newForm(t, b)

	require.NoError(t, f.SetValue("a", "x"))
	require.NoError(t, f.SetValue("lock", true))

	assert.Equal(t, map[string]any{"lock": true}, f.Value())
	assert.Equal(t, map[string]any{"lock": true, "a": "x"}, f.RawValue())

	a, err := f.Node("a")
	require.NoError(t, err)
	assert.True(t, a.Disabled())

	require.NoError(t, f.SetValue("lock", false))
	assert.Equal(t, "x", f.Value()["a"])
}

func TestForm_Groups(t *testing.T) {
	b := dsl.New()
	b.Checkbox("ship")
	b.Group("address", func(g *dsl.Builder) {
		g.Text("street")
		g.Text("city").Default("Lisbon")
	}).Hide("value.ship != true").Remove()
	f := newForm(t, b)

	assert.Equal(t, map[string]any{"ship": false}, f.Value())

	require.NoError(t, f.SetValue("ship", true))
	assert.Equal(t, map[string]any{"street": "", "city": "Lisbon"}, f.Value()["address"])

	require.NoError(t, f.SetValue("address", map[string]any{"street": "Rua A"}))
	assert.Equal(t, map[string]any{"street": "Rua A", "city": "Lisbon"}, f.Value()["address"])

	assert.Error(t, f.SetValue("address", "nope"))

	city, err := f.Node("address.city")
	require.NoError(t, err)
	assert.Equal(t, "address.city", city.Path())
}

func TestForm_PatchAndReset(t *testing.T) {
	b := dsl.New()
	b.Text("name").Default("anon")
	b.Text("email")
	f := newForm(t, b)

	f.Patch(map[string]any{"name": "Ada", "unknown": 1})
	assert.Equal(t, map[string]any{"name": "Ada", "email": ""}, f.Value())

	f.Reset()
	assert.Equal(t, map[string]any{"name": "anon", "email": ""}, f.Value())
}

func TestForm_Restore(t *testing.T) {
	b := dsl.New()
	b.Checkbox("company")
	b.Text("vat").Hide("value.company != true").Remove()
	saved := map[string]any{"company": true, "vat": "PT123"}

	f := newForm(t, b)
	f.Patch(saved)
	assert.Equal(t, map[string]any{"company": true, "vat": ""}, f.Value(), "one patch misses entries it attaches")

	g := newForm(t, b)
	g.Restore(saved)
	assert.Equal(t, saved, g.Value())
}

func TestForm_UpdateStrategies(t *testing.T) {
	b := dsl.New()
	b.Text("a")
	b.Text("b").UpdateOn(domain.UpdateOnSubmit)
	f := newForm(t, b, formwork.WithUpdateStrategy(domain.UpdateOnBlur))

	require.NoError(t, f.Input("a", "typed"))
	assert.Equal(t, "", f.Value()["a"])
	require.NoError(t, f.Blur("a"))
	assert.Equal(t, "typed", f.Value()["a"])

	require.NoError(t, f.Input("b", "later"))
	require.NoError(t, f.Blur("b"))
	assert.Equal(t, "", f.Value()["b"])
	f.Commit()
	assert.Equal(t, "later", f.Value()["b"])

	_, err := formwork.New(nil, formwork.WithUpdateStrategy("never"))
	assert.Error(t, err)
}

func TestForm_Validators(t *testing.T) {
	sync := validators.Standard()
	sync.RegisterFn("min-chars", validators.MinLength(3))
	sync.RegisterFn("letter", validators.Pattern("[a-z]+"))
	sync.Register("combined",
		validators.Ref[model.ValidatorFn]("min-chars"),
		validators.Ref[model.ValidatorFn]("required"),
		validators.Ref[model.ValidatorFn]("letter"),
	)

	b := dsl.New()
	b.Text("code").Validators("combined")
	f := newForm(t, b, formwork.WithValidators(sync))

	assert.False(t, f.Valid())

	require.NoError(t, f.SetValue("code", "1"))
	code, err := f.Node("code")
	require.NoError(t, err)
	errs := code.Control().Errors()
	assert.Contains(t, errs, "minlength")
	assert.Contains(t, errs, "pattern")
	assert.NotContains(t, errs, "required")

	require.NoError(t, f.SetValue("code", "abcd"))
	assert.True(t, f.Valid())
}

func TestForm_AsyncValidators(t *testing.T) {
	async := validators.NewAsync()
	async.RegisterFn("unique", func(_ context.Context, v any) (model.Errors, error) {
		if v == "taken" {
			return model.Errors{"taken": true}, nil
		}
		return nil, nil
	})

	b := dsl.New()
	b.Text("user").AsyncValidators("unique")
	f := newForm(t, b, formwork.WithAsyncValidators(async))

	user, err := f.Node("user")
	require.NoError(t, err)
	assert.Equal(t, model.StatusPending, user.Control().Status())

	ok, err := f.Validate(context.Background())
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, f.SetValue("user", "taken"))
	assert.Equal(t, model.StatusPending, user.Control().Status())

	ok, err = f.Validate(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Contains(t, user.Control().Errors(), "taken")
}

func TestForm_AsyncValidatorFailure(t *testing.T) {
	boom := errors.New("backend down")
	async := validators.NewAsync()
	async.RegisterFn("remote", func(context.Context, any) (model.Errors, error) {
		return nil, boom
	})

	b := dsl.New()
	b.Text("user").AsyncValidators("remote")
	f := newForm(t, b, formwork.WithAsyncValidators(async))

	_, err := f.Validate(context.Background())
	assert.ErrorIs(t, err, boom)
}

func TestForm_SetContent(t *testing.T) {
	b := dsl.New()
	b.Text("a").Label("A")
	b.Text("b")
	f := newForm(t, b)
	require.NoError(t, f.SetValue("a", "x"))

	next := dsl.New()
	next.Text("a").Label("Renamed")
	next.Text("c").Default("new")
	require.NoError(t, f.SetContent(next.Build()))

	assert.Equal(t, map[string]any{"a": "x", "c": "new"}, f.Value())
	_, err := f.Node("b")
	assert.ErrorIs(t, err, domain.ErrNodeNotFound)

	bad := dsl.New()
	bad.Text("a")
	bad.Text("a")
	assert.Error(t, f.SetContent(bad.Build()))
	assert.Equal(t, map[string]any{"a": "x", "c": "new"}, f.Value(), "rejected content leaves the form alone")
}

func TestForm_InvalidContent(t *testing.T) {
	content := []domain.Content{
		&domain.Control{Base: domain.Base{ID: "a"}},
		&domain.Control{Base: domain.Base{ID: "a"}},
	}
	_, err := formwork.New(content)
	require.Error(t, err)

	var agg *schema.AggregateError
	assert.True(t, errors.As(err, &agg))
}

func TestForm_Snapshot(t *testing.T) {
	b := dsl.New()
	b.Text("name").Validators("required")
	b.Group("extra", func(g *dsl.Builder) {
		g.Text("notes")
	}).Readonly("true")
	f := newForm(t, b)

	s := f.Snapshot()
	assert.False(t, s.Valid)
	require.Len(t, s.Nodes, 3)

	assert.Equal(t, "name", s.Nodes[0].Path)
	assert.Equal(t, "INVALID", s.Nodes[0].Status)
	assert.Contains(t, s.Nodes[0].Errors, "required")
	assert.Equal(t, "", s.Nodes[0].Value)

	assert.Equal(t, domain.KindGroup, s.Nodes[1].Kind)
	assert.Nil(t, s.Nodes[1].Value)
	assert.True(t, s.Nodes[1].Readonly)

	assert.Equal(t, "extra.notes", s.Nodes[2].Path)
	assert.True(t, s.Nodes[2].Readonly, "readonly cascades")
}

func TestForm_Render(t *testing.T) {
	b := dsl.New()
	b.Text("name").Label("Name")
	f := newForm(t, b, formwork.WithID("signup"))

	var buf bytes.Buffer
	require.NoError(t, f.Render(context.Background(), &buf))
	out := buf.String()

	assert.Contains(t, out, `<form id="signup" data-testid="signup" novalidate>`)
	assert.Contains(t, out, `<label for="name">Name</label>`)
	assert.Contains(t, out, `<input type="text" id="name" name="name" value="">`)
	assert.Contains(t, out, `</form>`)
}

func TestForm_NodeErrors(t *testing.T) {
	b := dsl.New()
	b.Group("g", nil)
	f := newForm(t, b)

	_, err := f.Node("missing")
	assert.ErrorIs(t, err, domain.ErrNodeNotFound)

	assert.Error(t, f.Input("g", "x"), "groups take no input")
	assert.ErrorIs(t, f.Blur("missing"), domain.ErrNodeNotFound)
}

func TestForm_Close(t *testing.T) {
	b := dsl.New()
	b.Text("a")
	b.Group("g", func(g *dsl.Builder) { g.Text("b") })
	f, err := formwork.New(b.Build())
	require.NoError(t, err)

	nodes := f.Nodes()
	f.Close()
	f.Close()

	assert.Empty(t, f.Value())
	for _, n := range nodes {
		assert.False(t, n.Attached())
	}
}

func TestLoad(t *testing.T) {
	b := dsl.New()
	b.Text("email").Validators("email")
	loader, err := b.Loader("signup")
	require.NoError(t, err)

	f, err := formwork.Load(context.Background(), loader, "signup")
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, "signup", f.ID())

	_, err = formwork.Load(context.Background(), loader, "missing")
	assert.ErrorIs(t, err, domain.ErrFormNotFound)
}
