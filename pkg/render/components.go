package render

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/a-h/templ"
	"github.com/aretw0/formwork/pkg/domain"
	"github.com/aretw0/formwork/pkg/model"
	"github.com/aretw0/formwork/pkg/schema"
)

// Defaults returns a registry with plain HTML components for the common
// types: text, email, password, number, textarea, checkbox, toggle, select
// and group.
func Defaults() *Registry {
	r := NewRegistry()
	for _, typ := range []string{"text", "email", "password", "number"} {
		r.Register(typ, Input(typ))
	}
	r.Register("textarea", Textarea)
	r.Register("checkbox", Checkbox)
	r.Register("toggle", Checkbox)
	r.Register("select", Select, schema.Schema{"options": schema.Slice(schema.Option())})
	r.Register("group", Fieldset)
	return r
}

// Input renders an <input> of the given HTML type.
func Input(htmlType string) Component {
	return func(p Props) templ.Component {
		return control(p, func(b *builder, ctl *domain.Control, m model.AbstractControl) {
			b.raw(`<input type="`).text(htmlType).raw(`"`)
			b.fieldAttrs(p)
			b.attr("value", valueString(m.Value()))
			if ph, ok := ctl.Extra["placeholder"].(string); ok {
				b.attr("placeholder", ph)
			}
			b.raw(`>`)
		})
	}
}

// Textarea renders a <textarea>.
func Textarea(p Props) templ.Component {
	return control(p, func(b *builder, _ *domain.Control, m model.AbstractControl) {
		b.raw(`<textarea`)
		b.fieldAttrs(p)
		b.raw(`>`).text(valueString(m.Value())).raw(`</textarea>`)
	})
}

// Checkbox renders a checkbox, checked when the value is true.
func Checkbox(p Props) templ.Component {
	return control(p, func(b *builder, _ *domain.Control, m model.AbstractControl) {
		b.raw(`<input type="checkbox"`)
		b.fieldAttrs(p)
		if v, _ := m.Value().(bool); v {
			b.raw(` checked`)
		}
		b.raw(`>`)
	})
}

// Select renders a <select> from the control's "options" extra field. An
// option is a string or a map with "value" and "label".
func Select(p Props) templ.Component {
	return control(p, func(b *builder, ctl *domain.Control, m model.AbstractControl) {
		current := valueString(m.Value())
		b.raw(`<select`)
		b.fieldAttrs(p)
		b.raw(`>`)
		options, _ := ctl.Extra["options"].([]any)
		for _, o := range options {
			value, label := optionParts(o)
			b.raw(`<option`)
			b.attr("value", value)
			if value == current {
				b.raw(` selected`)
			}
			b.raw(`>`).text(label).raw(`</option>`)
		}
		b.raw(`</select>`)
	})
}

// Fieldset renders a group as a <fieldset> around its children.
func Fieldset(p Props) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		b := &builder{}
		b.raw(`<fieldset`)
		b.attr("data-testid", p.TestID)
		if p.Node.HiddenAttribute() {
			b.raw(` hidden`)
		}
		if p.Node.Control().Disabled() {
			b.raw(` disabled`)
		}
		b.raw(`>`)
		if g, ok := p.Node.Content().(*domain.Group); ok && g.Title != "" {
			b.raw(`<legend>`).text(g.Title).raw(`</legend>`)
		}
		if err := b.flush(w); err != nil {
			return err
		}
		if p.Children != nil {
			if err := p.Children.Render(ctx, w); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, `</fieldset>`)
		return err
	})
}

// control wraps a field in the markup every control shares: a container
// carrying the test id and hidden state, a label and the error list.
func control(p Props, field func(*builder, *domain.Control, model.AbstractControl)) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		ctl, ok := p.Node.Content().(*domain.Control)
		if !ok {
			return fmt.Errorf("render %s: not a control", p.Node.Path())
		}
		m := p.Node.Control()

		b := &builder{}
		b.raw(`<div class="fw-control"`)
		b.attr("data-testid", p.TestID)
		if p.Node.HiddenAttribute() {
			b.raw(` hidden`)
		}
		b.raw(`>`)
		if ctl.Label != "" {
			b.raw(`<label`).attr("for", p.Node.Path()).raw(`>`).text(ctl.Label).raw(`</label>`)
		}
		field(b, ctl, m)
		if errs := m.Errors(); len(errs) > 0 {
			keys := make([]string, 0, len(errs))
			for k := range errs {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			b.raw(`<ul class="fw-errors">`)
			for _, k := range keys {
				b.raw(`<li>`).text(k).raw(`</li>`)
			}
			b.raw(`</ul>`)
		}
		b.raw(`</div>`)
		return b.flush(w)
	})
}

type builder struct {
	sb strings.Builder
}

func (b *builder) raw(s string) *builder {
	b.sb.WriteString(s)
	return b
}

func (b *builder) text(s string) *builder {
	b.sb.WriteString(templ.EscapeString(s))
	return b
}

func (b *builder) attr(name, value string) *builder {
	b.sb.WriteString(` ` + name + `="` + templ.EscapeString(value) + `"`)
	return b
}

// fieldAttrs writes id, name, disabled and readonly for a form field.
func (b *builder) fieldAttrs(p Props) {
	b.attr("id", p.Node.Path())
	b.attr("name", p.Node.Path())
	if p.Node.Control().Disabled() {
		b.raw(` disabled`)
	}
	if p.Node.Readonly() {
		b.raw(` readonly`)
	}
}

func (b *builder) flush(w io.Writer) error {
	_, err := io.WriteString(w, b.sb.String())
	b.sb.Reset()
	return err
}

func valueString(v any) string {
	if v == nil {
		return ""
	}
	return fmt.Sprint(v)
}

func optionParts(o any) (value, label string) {
	switch t := o.(type) {
	case map[string]any:
		value = valueString(t["value"])
		label = valueString(t["label"])
		if label == "" {
			label = value
		}
		return value, label
	default:
		s := valueString(t)
		return s, s
	}
}
