package dsl

import (
	"fmt"

	"github.com/aretw0/formwork/pkg/adapters/memory"
	"github.com/aretw0/formwork/pkg/domain"
	"github.com/aretw0/formwork/pkg/schema"
)

type item interface {
	content() domain.Content
}

func (c *ControlBuilder) content() domain.Content { return c.Build() }
func (g *GroupBuilder) content() domain.Content   { return g.Build() }

// Builder collects an ordered list of sibling nodes.
type Builder struct {
	items []item
}

// New creates an empty builder.
func New() *Builder {
	return &Builder{}
}

// Control adds a control of the given component type.
func (b *Builder) Control(id, typ string) *ControlBuilder {
	c := &ControlBuilder{control: &domain.Control{Base: domain.Base{ID: id, Type: typ}}}
	c.NodeBuilder = NodeBuilder[*ControlBuilder]{base: &c.control.Base, self: c}
	b.items = append(b.items, c)
	return c
}

// Text adds a text input.
func (b *Builder) Text(id string) *ControlBuilder {
	return b.Control(id, "text").Default("")
}

// Checkbox adds a checkbox, unchecked by default.
func (b *Builder) Checkbox(id string) *ControlBuilder {
	return b.Control(id, "checkbox").Default(false)
}

// Select adds a select with plain string options.
func (b *Builder) Select(id string, options ...string) *ControlBuilder {
	opts := make([]any, len(options))
	for i, o := range options {
		opts[i] = o
	}
	return b.Control(id, "select").Extra("options", opts)
}

// Group adds a group whose children are declared by fill.
func (b *Builder) Group(id string, fill func(*Builder)) *GroupBuilder {
	g := &GroupBuilder{
		group:    &domain.Group{Base: domain.Base{ID: id, Type: "group"}},
		children: New(),
	}
	g.NodeBuilder = NodeBuilder[*GroupBuilder]{base: &g.group.Base, self: g}
	if fill != nil {
		fill(g.children)
	}
	b.items = append(b.items, g)
	return g
}

// Build returns the content in declaration order.
func (b *Builder) Build() []domain.Content {
	out := make([]domain.Content, len(b.items))
	for i, it := range b.items {
		out[i] = it.content()
	}
	return out
}

// Loader lints the content and serves it as formID from memory.
func (b *Builder) Loader(formID string) (*memory.Loader, error) {
	content := b.Build()
	if err := schema.Lint(content); err != nil {
		return nil, fmt.Errorf("failed to build form %q: %w", formID, err)
	}
	return memory.NewLoader(map[string][]domain.Content{formID: content}), nil
}
