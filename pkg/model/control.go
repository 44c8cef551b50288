package model

import (
	"context"
	"maps"

	"github.com/aretw0/formwork/pkg/domain"
)

// Status is the validation status of a control.
type Status string

const (
	StatusValid    Status = "VALID"
	StatusInvalid  Status = "INVALID"
	StatusPending  Status = "PENDING"
	StatusDisabled Status = "DISABLED"
)

// Errors maps validator keys to details. A nil Errors means valid.
type Errors map[string]any

// ValidatorFn checks a value synchronously.
type ValidatorFn func(value any) Errors

// AsyncValidatorFn checks a value out of band. A returned error aborts the
// validation run; it is not a validation failure.
type AsyncValidatorFn func(ctx context.Context, value any) (Errors, error)

// AbstractControl is a node of the form model: a *Control or a *Group.
type AbstractControl interface {
	Value() any
	RawValue() any
	Reset(value any, opts ...UpdateOption)
	Enable(opts ...UpdateOption)
	Disable(opts ...UpdateOption)
	Enabled() bool
	Disabled() bool
	Status() Status
	Valid() bool
	Errors() Errors
	Parent() *Group
	UpdateOn() domain.UpdateStrategy
	UpdateValueAndValidity(opts ...UpdateOption)
	Subscribe(fn func(value any)) (cancel func())

	setParent(g *Group)
	asyncJobs() []asyncJob
	applyAsync(results []Errors)
	recalcStatus()
	submit()
}

// core carries the state controls and groups share.
type core struct {
	parent          *Group
	validators      []ValidatorFn
	asyncValidators []AsyncValidatorFn
	status          Status
	errors          Errors
	asyncErrors     Errors
	updateOn        domain.UpdateStrategy
	pristine        bool
	touched         bool
	listeners       []listener
	nextListener    int
}

type listener struct {
	id int
	fn func(any)
}

func newCore(cfg config) core {
	return core{
		validators:      cfg.validators,
		asyncValidators: cfg.asyncValidators,
		updateOn:        cfg.updateOn,
		status:          StatusValid,
		pristine:        true,
	}
}

func (c *core) Parent() *Group     { return c.parent }
func (c *core) setParent(g *Group) { c.parent = g }
func (c *core) Status() Status     { return c.status }
func (c *core) Valid() bool        { return c.status == StatusValid }
func (c *core) Enabled() bool      { return c.status != StatusDisabled }
func (c *core) Disabled() bool     { return c.status == StatusDisabled }
func (c *core) Pristine() bool     { return c.pristine }
func (c *core) Dirty() bool        { return !c.pristine }
func (c *core) Touched() bool      { return c.touched }
func (c *core) MarkAsTouched()     { c.touched = true }
func (c *core) MarkAsDirty()       { c.pristine = false }
func (c *core) SetValidators(v ...ValidatorFn) {
	c.validators = v
}

// UpdateOn returns the commit trigger, inherited from the parent when the
// control has none of its own.
func (c *core) UpdateOn() domain.UpdateStrategy {
	if c.updateOn != "" {
		return c.updateOn
	}
	if c.parent != nil {
		return c.parent.UpdateOn()
	}
	return domain.UpdateOnChange
}

// Errors returns a copy of the current validation errors.
func (c *core) Errors() Errors {
	if c.errors == nil {
		return nil
	}
	return maps.Clone(c.errors)
}

// Subscribe registers fn for value-change notifications. The returned func
// removes it.
func (c *core) Subscribe(fn func(value any)) func() {
	c.nextListener++
	id := c.nextListener
	c.listeners = append(c.listeners, listener{id: id, fn: fn})
	return func() {
		for i, l := range c.listeners {
			if l.id == id {
				c.listeners = append(c.listeners[:i:i], c.listeners[i+1:]...)
				return
			}
		}
	}
}

func (c *core) emit(value any) {
	for _, l := range append([]listener(nil), c.listeners...) {
		l.fn(value)
	}
}

// runValidators recomputes the node's own errors, ignoring children.
func (c *core) runValidators(value any) {
	c.asyncErrors = nil
	var errs Errors
	for _, v := range c.validators {
		if e := v(value); e != nil {
			if errs == nil {
				errs = Errors{}
			}
			maps.Copy(errs, e)
		}
	}
	c.errors = errs
}

func (c *core) applyAsync(results []Errors) {
	c.asyncErrors = Errors{}
	for _, r := range results {
		maps.Copy(c.asyncErrors, r)
	}
	if len(c.asyncErrors) > 0 {
		c.errors = maps.Clone(c.asyncErrors)
	}
}

func (c *core) ownStatus() Status {
	if c.errors != nil {
		return StatusInvalid
	}
	if len(c.asyncValidators) > 0 && c.asyncErrors == nil {
		return StatusPending
	}
	return StatusValid
}

// Control is a leaf of the form model holding a single value.
type Control struct {
	core
	value        any
	defaultValue any
	nonNullable  bool
	disabled     bool
	pending      any
	hasPending   bool
}

// NewControl creates a standalone control holding value.
func NewControl(value any, opts ...Option) *Control {
	cfg := resolve(opts)
	c := &Control{
		core:        newCore(cfg),
		value:       value,
		nonNullable: cfg.nonNullable,
		disabled:    cfg.disabled,
	}
	if cfg.nonNullable {
		c.defaultValue = value
	}
	c.UpdateValueAndValidity(OnlySelf(), Silent())
	return c
}

func (c *Control) Value() any    { return c.value }
func (c *Control) RawValue() any { return c.value }

// DefaultValue is the value Reset falls back to.
func (c *Control) DefaultValue() any { return c.defaultValue }

// SetValue replaces the value and re-validates up the tree.
func (c *Control) SetValue(value any, opts ...UpdateOption) {
	c.value = value
	c.hasPending = false
	c.UpdateValueAndValidity(opts...)
}

// Reset restores value (or the default when value is nil) and marks the
// control pristine and untouched.
func (c *Control) Reset(value any, opts ...UpdateOption) {
	if value == nil {
		value = c.defaultValue
	}
	c.value = value
	c.hasPending = false
	c.pristine = true
	c.touched = false
	c.UpdateValueAndValidity(opts...)
}

// Input records a value typed by the user. It is committed right away when
// the control updates on change; otherwise it waits for Blur or a submit.
func (c *Control) Input(value any) {
	c.pristine = false
	if c.UpdateOn() == domain.UpdateOnChange {
		c.SetValue(value)
		return
	}
	c.pending = value
	c.hasPending = true
}

// Blur marks the control touched and commits a pending input when the
// control updates on blur.
func (c *Control) Blur() {
	c.touched = true
	if c.hasPending && c.UpdateOn() == domain.UpdateOnBlur {
		c.SetValue(c.pending)
	}
}

// Pending returns the uncommitted input, if any.
func (c *Control) Pending() (any, bool) {
	return c.pending, c.hasPending
}

func (c *Control) submit() {
	if c.hasPending && c.UpdateOn() == domain.UpdateOnSubmit {
		c.SetValue(c.pending, OnlySelf())
	}
}

func (c *Control) Enable(opts ...UpdateOption) {
	if !c.disabled {
		return
	}
	c.disabled = false
	c.UpdateValueAndValidity(opts...)
}

func (c *Control) Disable(opts ...UpdateOption) {
	if c.disabled {
		return
	}
	c.disabled = true
	c.UpdateValueAndValidity(opts...)
}

// UpdateValueAndValidity re-runs validators, notifies subscribers and walks
// up to the parent.
func (c *Control) UpdateValueAndValidity(opts ...UpdateOption) {
	o := resolveUpdate(opts)
	if c.disabled {
		c.errors = nil
		c.asyncErrors = nil
		c.status = StatusDisabled
	} else {
		c.runValidators(c.value)
		c.status = c.ownStatus()
	}
	if o.emitEvent {
		c.emit(c.value)
	}
	if c.parent != nil && !o.onlySelf {
		c.parent.UpdateValueAndValidity(opts...)
	}
}

func (c *Control) asyncJobs() []asyncJob {
	if c.status != StatusPending {
		return nil
	}
	return []asyncJob{{target: c, value: c.value, validators: c.asyncValidators}}
}

func (c *Control) recalcStatus() {
	if !c.disabled {
		c.status = c.ownStatus()
	}
}
