package engine

import (
	"github.com/aretw0/formwork/pkg/domain"
	"github.com/aretw0/formwork/pkg/model"
	"github.com/aretw0/formwork/pkg/ports"
	"github.com/aretw0/formwork/pkg/reactive"
)

type groupConfig struct {
	validators      []string
	asyncValidators []string
	updateOn        domain.UpdateStrategy
}

// GroupNode keeps one model.Group in sync with its content and owns the
// nodes of its children, which attach into that group.
type GroupNode struct {
	*base
	config   *reactive.Computed[groupConfig]
	inst     *reactive.Computed[*model.Group]
	children []Node
}

// NewGroup builds the node for g and, depth first, for its children.
func NewGroup(s *Scope, parent *GroupNode, g *domain.Group) *GroupNode {
	n := &GroupNode{base: newBase(s, parent, g)}
	rt := s.Runtime

	n.config = reactive.NewComputed(rt, func() groupConfig {
		grp := n.content.Get().(*domain.Group)
		return groupConfig{
			validators:      grp.Validators,
			asyncValidators: grp.AsyncValidators,
			updateOn:        grp.UpdateOn,
		}
	})
	n.inst = reactive.NewComputed(rt, func() *model.Group {
		cfg := n.config.Get()
		return model.NewGroup(
			model.WithValidators(s.Validators.Resolve(cfg.validators...)...),
			model.WithAsyncValidators(s.AsyncValidators.Resolve(cfg.asyncValidators...)...),
			model.WithUpdateOn(cfg.updateOn),
		)
	})

	// Enabling a group enables every child; children disabled on their own
	// account go back to disabled.
	n.onEnable = func() {
		for _, c := range n.children {
			c.syncDisabled()
		}
	}

	rt.Batch(func() {
		n.start(n.instance, n.handleValue)
		n.children = Reconcile(s, n, nil, g.Controls)
	})
	return n
}

func (n *GroupNode) instance() model.AbstractControl { return n.inst.Get() }

// handleValue resets the attached children that have no value strategy of
// their own. last and default leave the group untouched.
func (n *GroupNode) handleValue(_ model.AbstractControl, vs domain.ValueStrategy) {
	if vs != domain.ValueReset {
		return
	}
	for _, child := range n.children {
		if child.Content().Common().ValueStrategy != "" {
			continue
		}
		if i := child.instance(); child.live(i) {
			i.Reset(nil, model.Silent())
		}
	}
	n.scope.emitValueHandled(n.base, vs)
}

// Control returns the node's model instance.
func (n *GroupNode) Control() model.AbstractControl { return n.inst.Get() }

// Model is Control with its concrete type.
func (n *GroupNode) Model() *model.Group { return n.inst.Get() }

func (n *GroupNode) UpdateOn() domain.UpdateStrategy { return n.inst.Get().UpdateOn() }

// Children returns the child nodes in declaration order.
func (n *GroupNode) Children() []ports.Node {
	out := make([]ports.Node, len(n.children))
	for i, c := range n.children {
		out[i] = c
	}
	return out
}

// Nodes returns the child nodes with their engine type.
func (n *GroupNode) Nodes() []Node {
	return append([]Node(nil), n.children...)
}

// Update replaces the content and reconciles the children by id and kind.
func (n *GroupNode) Update(c domain.Content) {
	g, ok := c.(*domain.Group)
	if !ok {
		return
	}
	n.scope.Runtime.Batch(func() {
		n.content.Set(g)
		n.children = Reconcile(n.scope, n, n.children, g.Controls)
	})
}

func (n *GroupNode) syncDisabled() {
	n.syncDisabledOf(n.inst.Peek())
}

// Destroy tears down the children first, then the group itself.
func (n *GroupNode) Destroy() {
	if n.destroyed {
		return
	}
	for _, c := range n.children {
		c.Destroy()
	}
	n.children = nil
	n.destroy(n.inst.Peek())
	n.config.Dispose()
	n.inst.Dispose()
}
