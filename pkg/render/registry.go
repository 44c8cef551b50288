package render

import (
	"github.com/a-h/templ"
	"github.com/aretw0/formwork/pkg/ports"
	"github.com/aretw0/formwork/pkg/registry"
	"github.com/aretw0/formwork/pkg/schema"
)

// Props is what a component receives for one node.
type Props struct {
	Node ports.Node
	// TestID goes into the data-testid attribute of the outermost element.
	TestID string
	// Children renders the node's children in order. It is nil for controls.
	Children templ.Component
}

// Component renders one node.
type Component func(Props) templ.Component

// Registration is a component together with the shape it expects from a
// control's extra fields.
type Registration struct {
	Component Component
	Extra     schema.Schema
}

// Registry maps content types to components.
type Registry struct {
	entries *registry.Registry[Registration]
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: registry.New[Registration]()}
}

// Register binds typ to c, replacing any previous binding. extra, if given,
// describes the extra fields the component reads.
func (r *Registry) Register(typ string, c Component, extra ...schema.Schema) {
	reg := Registration{Component: c}
	if len(extra) > 0 {
		reg.Extra = extra[0]
	}
	r.entries.Register(typ, reg)
}

// Lookup returns the component bound to typ.
func (r *Registry) Lookup(typ string) (Component, bool) {
	reg, ok := r.entries.Lookup(typ)
	return reg.Component, ok
}

// Extra returns the extra-field schema registered for typ.
func (r *Registry) Extra(typ string) (schema.Schema, bool) {
	reg, ok := r.entries.Lookup(typ)
	if !ok || reg.Extra == nil {
		return nil, false
	}
	return reg.Extra, true
}

// Has reports whether typ is registered.
func (r *Registry) Has(typ string) bool {
	return r.entries.Has(typ)
}

// Types returns the registered types, sorted.
func (r *Registry) Types() []string {
	return r.entries.Keys()
}
