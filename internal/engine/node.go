package engine

import (
	"github.com/aretw0/formwork/pkg/domain"
	"github.com/aretw0/formwork/pkg/model"
	"github.com/aretw0/formwork/pkg/ports"
	"github.com/aretw0/formwork/pkg/reactive"
)

// Node is a ports.Node the engine can update and tear down.
type Node interface {
	ports.Node

	// Update swaps in new content for the same id and kind.
	Update(c domain.Content)

	// Destroy stops every effect of the node and its descendants and
	// detaches its model entry, whatever its hide strategy.
	Destroy()

	instance() model.AbstractControl
	live(i model.AbstractControl) bool
	syncDisabled()
}

// base holds the state controls and groups derive the same way.
type base struct {
	scope  *Scope
	parent *GroupNode
	id     string
	path   string
	kind   domain.Kind

	content          *reactive.Signal[domain.Content]
	container        reactive.Readable[*model.Group]
	visibility       *reactive.Signal[domain.StateHandling]
	disabledHandling *reactive.Signal[domain.StateHandling]
	attached         *reactive.Signal[bool]

	hideRule     *rule
	disabledRule *rule
	readonlyRule *rule

	hidden        *reactive.Computed[bool]
	hiddenAttr    *reactive.Computed[bool]
	disabled      *reactive.Computed[bool]
	readonly      *reactive.Computed[bool]
	hideStrategy  *reactive.Computed[domain.HideStrategy]
	valueStrategy *reactive.Computed[domain.ValueStrategy]

	lastHiddenAttr bool
	placed         model.AbstractControl
	onEnable       func()
	effects        []*reactive.Effect
	destroyed      bool
}

func newBase(s *Scope, parent *GroupNode, c domain.Content) *base {
	rt := s.Runtime
	b := &base{
		scope:            s,
		parent:           parent,
		id:               c.Common().ID,
		kind:             c.Kind(),
		content:          reactive.NewSignal(rt, c),
		visibility:       reactive.NewSignal(rt, domain.HandlingAuto),
		disabledHandling: reactive.NewSignal(rt, domain.HandlingAuto),
		attached:         reactive.NewSignal(rt, false),
	}
	if parent != nil {
		b.path = domain.JoinPath(parent.path, b.id)
		b.container = parent.inst
	} else {
		b.path = b.id
		b.container = s.Root
	}

	b.hideRule = newRule(s, b, "hide", func(c *domain.Base) domain.Expression { return c.Hide })
	b.disabledRule = newRule(s, b, "disabled", func(c *domain.Base) domain.Expression { return c.Disabled })
	b.readonlyRule = newRule(s, b, "readonly", func(c *domain.Base) domain.Expression { return c.Readonly })

	b.hidden = reactive.NewComputed(rt, func() bool {
		if parent != nil && parent.hidden.Get() {
			return true
		}
		return b.hideRule.value.Get()
	})
	b.hiddenAttr = reactive.NewComputed(rt, func() bool {
		if b.visibility.Get() == domain.HandlingManual {
			return b.lastHiddenAttr
		}
		b.lastHiddenAttr = b.hidden.Get()
		return b.lastHiddenAttr
	})
	b.disabled = reactive.NewComputed(rt, func() bool {
		if parent != nil && parent.disabled.Get() {
			return true
		}
		return b.disabledRule.value.Get()
	})
	b.readonly = reactive.NewComputed(rt, func() bool {
		if parent != nil && parent.readonly.Get() {
			return true
		}
		return b.readonlyRule.value.Get()
	})
	b.hideStrategy = reactive.NewComputed(rt, func() domain.HideStrategy {
		if hs := b.content.Get().Common().HideStrategy; hs != "" {
			return hs
		}
		return domain.HideKeep
	})
	b.valueStrategy = reactive.NewComputed(rt, func() domain.ValueStrategy {
		if vs := b.content.Get().Common().ValueStrategy; vs != "" {
			return vs
		}
		if parent != nil {
			return parent.valueStrategy.Get()
		}
		return domain.ValueDefault
	})
	return b
}

// start registers the attach and disabled effects. handleValue applies the
// node's value strategy to its instance.
func (b *base) start(inst func() model.AbstractControl, handleValue func(model.AbstractControl, domain.ValueStrategy)) {
	rt := b.scope.Runtime
	b.effects = append(b.effects,
		rt.Effect(func() {
			i := inst()
			container := b.container.Get()
			hidden := b.hidden.Get()
			hs := b.hideStrategy.Get()
			vs := b.valueStrategy.Get()
			if b.visibility.Get() == domain.HandlingManual {
				return
			}
			rt.Untracked(func() {
				b.applyVisibility(container, i, hidden, hs, vs, handleValue)
			})
		}),
		rt.Effect(func() {
			i := inst()
			attached := b.attached.Get()
			disabled := b.disabled.Get()
			if b.disabledHandling.Get() == domain.HandlingManual || !attached {
				return
			}
			rt.Untracked(func() {
				b.applyDisabled(i, disabled)
			})
		}),
	)
}

// applyVisibility decides between attach, detach and value handling. The
// entry under the node's id counts as live when it is the current or the
// previously placed instance, so a rebuilt instance replaces or removes it.
// Rule one attaches hidden nodes with the keep strategy too: keep never
// leaves a node out of its container, even before it was first visible.
func (b *base) applyVisibility(container *model.Group, i model.AbstractControl, hidden bool, hs domain.HideStrategy, vs domain.ValueStrategy, handleValue func(model.AbstractControl, domain.ValueStrategy)) {
	cur := b.owned(container)
	switch {
	case cur != i && (!hidden || hs != domain.HideRemove):
		container.SetControl(b.id, i, model.Silent())
		b.placed = i
		b.attached.Set(true)
		b.scope.emitAttach(b)
	case hs == domain.HideRemove && cur == nil:
	case hs == domain.HideRemove && hidden:
		container.RemoveControl(b.id, model.Silent())
		b.placed = nil
		b.attached.Set(false)
		b.scope.emitDetach(b)
		handleValue(i, vs)
	default:
		handleValue(i, vs)
	}
}

// owned returns the entry registered under the node's id in container when
// the node put it there, or nil.
func (b *base) owned(container *model.Group) model.AbstractControl {
	cur := container.Get(b.id)
	if cur == nil || cur != b.placed {
		return nil
	}
	return cur
}

func (b *base) applyDisabled(i model.AbstractControl, disabled bool) {
	switch {
	case disabled && i.Enabled():
		i.Disable(model.Silent())
		b.scope.emitDisabled(b, true)
	case !disabled && i.Disabled():
		i.Enable(model.Silent())
		b.scope.emitDisabled(b, false)
		if b.onEnable != nil {
			b.onEnable()
		}
	}
}

// live reports whether i is the entry registered under the node's id.
func (b *base) live(i model.AbstractControl) bool {
	return b.container.Peek().Get(b.id) == i
}

func (b *base) syncDisabledOf(i model.AbstractControl) {
	if b.destroyed || b.disabledHandling.Peek() == domain.HandlingManual || !b.attached.Peek() {
		return
	}
	b.applyDisabled(i, b.disabled.Peek())
}

func (b *base) destroy(i model.AbstractControl) {
	if b.destroyed {
		return
	}
	b.destroyed = true
	for _, e := range b.effects {
		e.Dispose()
	}
	b.effects = nil

	if container := b.container.Peek(); b.owned(container) != nil || container.Get(b.id) == i {
		container.RemoveControl(b.id, model.Silent())
		b.scope.emitDetach(b)
	}
	b.placed = nil
	b.attached.Set(false)

	for _, c := range []reactive.Disposer{b.hiddenAttr, b.hidden, b.disabled, b.readonly, b.hideStrategy, b.valueStrategy} {
		c.Dispose()
	}
	b.hideRule.dispose()
	b.disabledRule.dispose()
	b.readonlyRule.dispose()
}

func (b *base) ID() string                                 { return b.id }
func (b *base) Path() string                               { return b.path }
func (b *base) Kind() domain.Kind                          { return b.kind }
func (b *base) Content() domain.Content                    { return b.content.Get() }
func (b *base) Attached() bool                             { return b.attached.Get() }
func (b *base) Hidden() bool                               { return b.hidden.Get() }
func (b *base) HiddenAttribute() bool                      { return b.hiddenAttr.Get() }
func (b *base) Disabled() bool                             { return b.disabled.Get() }
func (b *base) Readonly() bool                             { return b.readonly.Get() }
func (b *base) HideStrategy() domain.HideStrategy          { return b.hideStrategy.Get() }
func (b *base) ValueStrategy() domain.ValueStrategy        { return b.valueStrategy.Get() }
func (b *base) SetDisabledHandling(h domain.StateHandling) { b.disabledHandling.Set(h) }

// SetVisibilityHandling switches between automatic and manual visibility.
// Going manual freezes the hidden attribute at the current hidden state.
func (b *base) SetVisibilityHandling(h domain.StateHandling) {
	if h == domain.HandlingManual && b.visibility.Peek() != domain.HandlingManual {
		b.lastHiddenAttr = b.hidden.Peek()
	}
	b.visibility.Set(h)
}
