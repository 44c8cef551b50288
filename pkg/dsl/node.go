package dsl

import "github.com/aretw0/formwork/pkg/domain"

// NodeBuilder configures the fields controls and groups share. T is the
// concrete builder, so chains keep their type.
type NodeBuilder[T any] struct {
	base *domain.Base
	self T
}

// Type sets the component type.
func (n *NodeBuilder[T]) Type(typ string) T {
	n.base.Type = typ
	return n.self
}

// Hide sets the rule that hides the node.
func (n *NodeBuilder[T]) Hide(rule string) T {
	n.base.Hide = domain.Expression(rule)
	return n.self
}

// Remove detaches the node's value from the form while hidden.
func (n *NodeBuilder[T]) Remove() T {
	n.base.HideStrategy = domain.HideRemove
	return n.self
}

// Keep leaves the node's value in the form while hidden.
func (n *NodeBuilder[T]) Keep() T {
	n.base.HideStrategy = domain.HideKeep
	return n.self
}

// ValueStrategy sets what happens to the value when visibility changes.
func (n *NodeBuilder[T]) ValueStrategy(s domain.ValueStrategy) T {
	n.base.ValueStrategy = s
	return n.self
}

// Disabled sets the rule that disables the node.
func (n *NodeBuilder[T]) Disabled(rule string) T {
	n.base.Disabled = domain.Expression(rule)
	return n.self
}

// Readonly sets the rule that makes the node read-only.
func (n *NodeBuilder[T]) Readonly(rule string) T {
	n.base.Readonly = domain.Expression(rule)
	return n.self
}

// Validators appends validator keys.
func (n *NodeBuilder[T]) Validators(keys ...string) T {
	n.base.Validators = append(n.base.Validators, keys...)
	return n.self
}

// AsyncValidators appends async validator keys.
func (n *NodeBuilder[T]) AsyncValidators(keys ...string) T {
	n.base.AsyncValidators = append(n.base.AsyncValidators, keys...)
	return n.self
}

// UpdateOn sets when input is committed.
func (n *NodeBuilder[T]) UpdateOn(s domain.UpdateStrategy) T {
	n.base.UpdateOn = s
	return n.self
}

// ControlBuilder configures a control.
type ControlBuilder struct {
	NodeBuilder[*ControlBuilder]
	control *domain.Control
}

// Label sets the label.
func (c *ControlBuilder) Label(label string) *ControlBuilder {
	c.control.Label = label
	return c
}

// Default sets the default value.
func (c *ControlBuilder) Default(v any) *ControlBuilder {
	c.control.DefaultValue = v
	return c
}

// NonNullable makes resets fall back to the default value.
func (c *ControlBuilder) NonNullable() *ControlBuilder {
	c.control.NonNullable = true
	return c
}

// Extra sets a component-specific field.
func (c *ControlBuilder) Extra(key string, v any) *ControlBuilder {
	if c.control.Extra == nil {
		c.control.Extra = make(map[string]any)
	}
	c.control.Extra[key] = v
	return c
}

// Build returns the configured control.
func (c *ControlBuilder) Build() *domain.Control {
	return c.control
}

// GroupBuilder configures a group.
type GroupBuilder struct {
	NodeBuilder[*GroupBuilder]
	group    *domain.Group
	children *Builder
}

// Title sets the group's title.
func (g *GroupBuilder) Title(title string) *GroupBuilder {
	g.group.Title = title
	return g
}

// Build returns the configured group with its children.
func (g *GroupBuilder) Build() *domain.Group {
	g.group.Controls = g.children.Build()
	return g.group
}
