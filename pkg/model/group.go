package model

import (
	"fmt"
	"slices"
	"strings"
)

// Group is a keyed container of controls. Keys keep insertion order.
type Group struct {
	core
	keys         []string
	controls     map[string]AbstractControl
	selfDisabled bool
}

// NewGroup creates an empty group.
func NewGroup(opts ...Option) *Group {
	cfg := resolve(opts)
	g := &Group{
		core:         newCore(cfg),
		controls:     make(map[string]AbstractControl),
		selfDisabled: cfg.disabled,
	}
	g.UpdateValueAndValidity(OnlySelf(), Silent())
	return g
}

// Keys returns the names of the current children in insertion order.
func (g *Group) Keys() []string {
	return slices.Clone(g.keys)
}

// Len returns the number of children.
func (g *Group) Len() int {
	return len(g.keys)
}

// Has reports whether name is a child.
func (g *Group) Has(name string) bool {
	_, ok := g.controls[name]
	return ok
}

// Get returns the child registered under name, or nil.
func (g *Group) Get(name string) AbstractControl {
	return g.controls[name]
}

// GetPath resolves a dot-separated path through nested groups.
func (g *Group) GetPath(path string) AbstractControl {
	var current AbstractControl = g
	for _, part := range strings.Split(path, ".") {
		group, ok := current.(*Group)
		if !ok {
			return nil
		}
		current = group.Get(part)
		if current == nil {
			return nil
		}
	}
	return current
}

// AddControl registers c under name. An existing child is kept as is.
func (g *Group) AddControl(name string, c AbstractControl, opts ...UpdateOption) {
	if g.Has(name) {
		return
	}
	g.register(name, c)
	g.UpdateValueAndValidity(opts...)
}

// SetControl registers c under name, replacing any existing child.
func (g *Group) SetControl(name string, c AbstractControl, opts ...UpdateOption) {
	if old, ok := g.controls[name]; ok {
		if old == c {
			return
		}
		old.setParent(nil)
		g.controls[name] = c
		c.setParent(g)
	} else {
		g.register(name, c)
	}
	g.UpdateValueAndValidity(opts...)
}

// RemoveControl unregisters name. Removing a missing child is a no-op.
func (g *Group) RemoveControl(name string, opts ...UpdateOption) {
	old, ok := g.controls[name]
	if !ok {
		return
	}
	old.setParent(nil)
	delete(g.controls, name)
	g.keys = slices.DeleteFunc(g.keys, func(k string) bool { return k == name })
	g.UpdateValueAndValidity(opts...)
}

func (g *Group) register(name string, c AbstractControl) {
	c.setParent(g)
	g.controls[name] = c
	g.keys = append(g.keys, name)
}

// Value returns the values of the enabled children (of all children when
// the group itself is disabled).
func (g *Group) Value() any {
	out := make(map[string]any, len(g.keys))
	all := g.Disabled()
	for _, k := range g.keys {
		c := g.controls[k]
		if all || c.Enabled() {
			out[k] = c.Value()
		}
	}
	return out
}

// RawValue returns the values of every child, disabled or not.
func (g *Group) RawValue() any {
	out := make(map[string]any, len(g.keys))
	for _, k := range g.keys {
		out[k] = g.controls[k].RawValue()
	}
	return out
}

// SetValue replaces the value of every child. value must carry a key for
// each child.
func (g *Group) SetValue(value map[string]any, opts ...UpdateOption) error {
	for _, k := range g.keys {
		if _, ok := value[k]; !ok {
			return fmt.Errorf("must supply a value for form control with name: %q", k)
		}
	}
	for k := range value {
		if !g.Has(k) {
			return fmt.Errorf("cannot find form control with name: %q", k)
		}
	}
	g.PatchValue(value, opts...)
	return nil
}

// PatchValue sets the children named in value and ignores unknown keys.
func (g *Group) PatchValue(value map[string]any, opts ...UpdateOption) {
	o := resolveUpdate(opts)
	child := []UpdateOption{OnlySelf()}
	if !o.emitEvent {
		child = append(child, Silent())
	}
	for _, k := range g.keys {
		v, ok := value[k]
		if !ok {
			continue
		}
		switch c := g.controls[k].(type) {
		case *Control:
			c.SetValue(v, child...)
		case *Group:
			if m, ok := v.(map[string]any); ok {
				c.PatchValue(m, child...)
			}
		}
	}
	g.UpdateValueAndValidity(opts...)
}

// Reset resets every child with the matching entry of value (a
// map[string]any or nil).
func (g *Group) Reset(value any, opts ...UpdateOption) {
	o := resolveUpdate(opts)
	child := []UpdateOption{OnlySelf()}
	if !o.emitEvent {
		child = append(child, Silent())
	}
	m, _ := value.(map[string]any)
	for _, k := range g.keys {
		g.controls[k].Reset(m[k], child...)
	}
	g.pristine = true
	g.touched = false
	g.UpdateValueAndValidity(opts...)
}

// Submit commits pending inputs of descendants that update on submit.
func (g *Group) Submit() {
	g.submit()
	g.UpdateValueAndValidity()
}

func (g *Group) submit() {
	for _, k := range g.keys {
		g.controls[k].submit()
	}
}

// Enable enables the group and all its children.
func (g *Group) Enable(opts ...UpdateOption) {
	g.selfDisabled = false
	child := append(slices.Clip(opts), OnlySelf())
	for _, k := range g.keys {
		g.controls[k].Enable(child...)
	}
	g.UpdateValueAndValidity(opts...)
}

// Disable disables the group and all its children.
func (g *Group) Disable(opts ...UpdateOption) {
	g.selfDisabled = true
	child := append(slices.Clip(opts), OnlySelf())
	for _, k := range g.keys {
		g.controls[k].Disable(child...)
	}
	g.UpdateValueAndValidity(opts...)
}

// UpdateValueAndValidity recomputes the group's status from its own
// validators and its children, notifies subscribers and walks up.
func (g *Group) UpdateValueAndValidity(opts ...UpdateOption) {
	o := resolveUpdate(opts)
	if g.allDisabled() {
		g.errors = nil
		g.asyncErrors = nil
		g.status = StatusDisabled
	} else {
		g.status = StatusValid
		g.runValidators(g.Value())
		g.status = g.calculateStatus()
	}
	if o.emitEvent {
		g.emit(g.Value())
	}
	if g.parent != nil && !o.onlySelf {
		g.parent.UpdateValueAndValidity(opts...)
	}
}

func (g *Group) allDisabled() bool {
	if len(g.keys) == 0 {
		return g.selfDisabled
	}
	for _, k := range g.keys {
		if g.controls[k].Enabled() {
			return false
		}
	}
	return true
}

func (g *Group) calculateStatus() Status {
	if g.errors != nil {
		return StatusInvalid
	}
	if g.ownStatus() == StatusPending || g.anyChild(StatusPending) {
		return StatusPending
	}
	if g.anyChild(StatusInvalid) {
		return StatusInvalid
	}
	return StatusValid
}

func (g *Group) anyChild(s Status) bool {
	for _, k := range g.keys {
		if g.controls[k].Status() == s {
			return true
		}
	}
	return false
}

func (g *Group) asyncJobs() []asyncJob {
	var jobs []asyncJob
	if g.status != StatusDisabled && g.errors == nil && len(g.asyncValidators) > 0 && g.asyncErrors == nil {
		jobs = append(jobs, asyncJob{target: g, value: g.Value(), validators: g.asyncValidators})
	}
	for _, k := range g.keys {
		jobs = append(jobs, g.controls[k].asyncJobs()...)
	}
	return jobs
}

func (g *Group) recalcStatus() {
	for _, k := range g.keys {
		g.controls[k].recalcStatus()
	}
	g.status = g.calculateStatusOrDisabled()
}
