package model

import "github.com/aretw0/formwork/pkg/domain"

// Option configures a control or a group at construction.
type Option func(*config)

type config struct {
	validators      []ValidatorFn
	asyncValidators []AsyncValidatorFn
	updateOn        domain.UpdateStrategy
	nonNullable     bool
	disabled        bool
}

func resolve(opts []Option) config {
	var cfg config
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// WithValidators appends synchronous validators.
func WithValidators(v ...ValidatorFn) Option {
	return func(c *config) {
		c.validators = append(c.validators, v...)
	}
}

// WithAsyncValidators appends asynchronous validators.
func WithAsyncValidators(v ...AsyncValidatorFn) Option {
	return func(c *config) {
		c.asyncValidators = append(c.asyncValidators, v...)
	}
}

// WithUpdateOn sets the commit trigger. Empty means inherit.
func WithUpdateOn(u domain.UpdateStrategy) Option {
	return func(c *config) {
		c.updateOn = u
	}
}

// NonNullable makes a control reset to its initial value instead of nil.
func NonNullable() Option {
	return func(c *config) {
		c.nonNullable = true
	}
}

// Disabled creates the control disabled.
func Disabled() Option {
	return func(c *config) {
		c.disabled = true
	}
}

// UpdateOption tunes how a mutation propagates.
type UpdateOption func(*updateOptions)

type updateOptions struct {
	emitEvent bool
	onlySelf  bool
}

func resolveUpdate(opts []UpdateOption) updateOptions {
	o := updateOptions{emitEvent: true}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Silent suppresses value-change notifications. Status is still updated.
func Silent() UpdateOption {
	return func(o *updateOptions) {
		o.emitEvent = false
	}
}

// OnlySelf stops propagation to ancestors.
func OnlySelf() UpdateOption {
	return func(o *updateOptions) {
		o.onlySelf = true
	}
}
