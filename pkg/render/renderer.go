package render

import (
	"context"
	"io"
	"log/slog"

	"github.com/a-h/templ"
	"github.com/aretw0/formwork/internal/logging"
	"github.com/aretw0/formwork/pkg/domain"
	"github.com/aretw0/formwork/pkg/ports"
)

// TestIDBuilder derives the data-testid of a node.
type TestIDBuilder func(n ports.Node) string

// PathTestID uses the node's path, which is unique within a form.
func PathTestID(n ports.Node) string { return n.Path() }

// Renderer turns a tree of nodes into markup through a Registry.
type Renderer struct {
	components *Registry
	testID     TestIDBuilder
	logger     *slog.Logger
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithTestIDBuilder overrides how test ids are derived.
func WithTestIDBuilder(fn TestIDBuilder) Option {
	return func(r *Renderer) {
		if fn != nil {
			r.testID = fn
		}
	}
}

// WithLogger sets the logger used to report nodes without a component.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Renderer) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewRenderer creates a renderer. A nil registry means Defaults().
func NewRenderer(components *Registry, opts ...Option) *Renderer {
	if components == nil {
		components = Defaults()
	}
	r := &Renderer{
		components: components,
		testID:     PathTestID,
		logger:     logging.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Form renders nodes inside a <form> element.
func (r *Renderer) Form(id string, nodes []ports.Node) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		b := &builder{}
		b.raw(`<form`).attr("id", id).attr("data-testid", id).raw(` novalidate>`)
		if err := b.flush(w); err != nil {
			return err
		}
		if err := r.Nodes(nodes).Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, `</form>`)
		return err
	})
}

// Nodes renders nodes in order. Nodes whose type has no component are
// skipped.
func (r *Renderer) Nodes(nodes []ports.Node) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		for _, n := range nodes {
			if err := r.Node(n).Render(ctx, w); err != nil {
				return err
			}
		}
		return nil
	})
}

// Node renders a single node and its children.
func (r *Renderer) Node(n ports.Node) templ.Component {
	typ := n.Content().Common().Type
	if typ == "" && n.Kind() == domain.KindGroup {
		typ = "group"
	}
	c, ok := r.components.Lookup(typ)
	if !ok {
		r.logger.Debug("no component registered", "node", n.Path(), "type", typ)
		return templ.NopComponent
	}
	p := Props{Node: n, TestID: r.testID(n)}
	if children := n.Children(); len(children) > 0 {
		p.Children = r.Nodes(children)
	}
	return c(p)
}
