package engine

import (
	"github.com/aretw0/formwork/pkg/domain"
)

// Build creates the node for c under parent (nil for a top-level node).
func Build(s *Scope, parent *GroupNode, c domain.Content) Node {
	switch t := c.(type) {
	case *domain.Control:
		return NewControl(s, parent, t)
	case *domain.Group:
		return NewGroup(s, parent, t)
	}
	return nil
}

// Reconcile turns the existing sibling nodes into nodes for content. A node
// whose id and kind still appear is updated in place and keeps its model
// instance; other nodes are destroyed and new ones built. The result follows
// the order of content.
func Reconcile(s *Scope, parent *GroupNode, existing []Node, content []domain.Content) []Node {
	byID := make(map[string]Node, len(existing))
	for _, n := range existing {
		byID[n.ID()] = n
	}

	out := make([]Node, 0, len(content))
	s.Runtime.Batch(func() {
		for _, c := range content {
			if c == nil {
				continue
			}
			id := c.Common().ID
			if n, ok := byID[id]; ok {
				delete(byID, id)
				if n.Kind() == c.Kind() {
					n.Update(c)
					out = append(out, n)
					continue
				}
				n.Destroy()
			}
			if n := Build(s, parent, c); n != nil {
				out = append(out, n)
			}
		}
		for _, n := range existing {
			if _, stale := byID[n.ID()]; stale {
				n.Destroy()
			}
		}
	})
	return out
}

// Walk visits nodes depth first in declaration order.
func Walk(nodes []Node, fn func(Node)) {
	for _, n := range nodes {
		fn(n)
		if g, ok := n.(*GroupNode); ok {
			Walk(g.children, fn)
		}
	}
}
