package engine

import (
	"github.com/aretw0/formwork/pkg/domain"
	"github.com/aretw0/formwork/pkg/model"
	"github.com/aretw0/formwork/pkg/ports"
	"github.com/aretw0/formwork/pkg/reactive"
)

// controlConfig is the part of a control's content its model instance is
// built from. A new instance is built only when it changes.
type controlConfig struct {
	defaultValue    any
	nonNullable     bool
	validators      []string
	asyncValidators []string
	updateOn        domain.UpdateStrategy
}

// ControlNode keeps one model.Control in sync with its content.
type ControlNode struct {
	*base
	config *reactive.Computed[controlConfig]
	inst   *reactive.Computed[*model.Control]
}

// NewControl builds the node for c. Its effects run when the enclosing
// batch completes, or right away outside of one.
func NewControl(s *Scope, parent *GroupNode, c *domain.Control) *ControlNode {
	n := &ControlNode{base: newBase(s, parent, c)}
	rt := s.Runtime

	n.config = reactive.NewComputed(rt, func() controlConfig {
		ctl := n.content.Get().(*domain.Control)
		return controlConfig{
			defaultValue:    ctl.DefaultValue,
			nonNullable:     ctl.NonNullable,
			validators:      ctl.Validators,
			asyncValidators: ctl.AsyncValidators,
			updateOn:        ctl.UpdateOn,
		}
	})
	n.inst = reactive.NewComputed(rt, func() *model.Control {
		cfg := n.config.Get()
		opts := []model.Option{
			model.WithValidators(s.Validators.Resolve(cfg.validators...)...),
			model.WithAsyncValidators(s.AsyncValidators.Resolve(cfg.asyncValidators...)...),
			model.WithUpdateOn(cfg.updateOn),
		}
		if cfg.nonNullable {
			opts = append(opts, model.NonNullable())
		}
		return model.NewControl(cfg.defaultValue, opts...)
	})

	n.start(n.instance, n.handleValue)
	return n
}

func (n *ControlNode) instance() model.AbstractControl { return n.inst.Get() }

func (n *ControlNode) handleValue(i model.AbstractControl, vs domain.ValueStrategy) {
	ctl := i.(*model.Control)
	switch vs {
	case domain.ValueLast:
		return
	case domain.ValueReset:
		ctl.Reset(nil, model.Silent())
	default:
		vs = domain.ValueDefault
		ctl.SetValue(n.content.Peek().(*domain.Control).DefaultValue, model.Silent())
	}
	n.scope.emitValueHandled(n.base, vs)
}

// Control returns the node's model instance.
func (n *ControlNode) Control() model.AbstractControl { return n.inst.Get() }

// Model is Control with its concrete type.
func (n *ControlNode) Model() *model.Control { return n.inst.Get() }

func (n *ControlNode) UpdateOn() domain.UpdateStrategy { return n.inst.Get().UpdateOn() }

func (n *ControlNode) Children() []ports.Node { return nil }

// Update replaces the content. The model instance survives unless a field
// it is built from changed.
func (n *ControlNode) Update(c domain.Content) {
	if ctl, ok := c.(*domain.Control); ok {
		n.content.Set(ctl)
	}
}

func (n *ControlNode) syncDisabled() {
	n.syncDisabledOf(n.inst.Peek())
}

// Destroy detaches the control and stops its effects.
func (n *ControlNode) Destroy() {
	n.destroy(n.inst.Peek())
	n.config.Dispose()
	n.inst.Dispose()
}
