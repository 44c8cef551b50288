package validators

import (
	"github.com/aretw0/formwork/pkg/model"
	"github.com/aretw0/formwork/pkg/registry"
)

// Entry is one element registered under a key: a validator, or a reference
// to another key whose validators are spliced in its place.
type Entry[V any] struct {
	ref   string
	fn    V
	isRef bool
}

// Ref refers to the validators registered under key.
func Ref[V any](key string) Entry[V] {
	return Entry[V]{ref: key, isRef: true}
}

// Fn wraps a validator.
func Fn[V any](fn V) Entry[V] {
	return Entry[V]{fn: fn}
}

// Registry resolves validator keys, following references between keys.
type Registry[V any] struct {
	entries *registry.Registry[[]Entry[V]]
}

// Sync resolves synchronous validators.
type Sync = Registry[model.ValidatorFn]

// Async resolves asynchronous validators.
type Async = Registry[model.AsyncValidatorFn]

// NewRegistry creates an empty registry.
func NewRegistry[V any]() *Registry[V] {
	return &Registry[V]{entries: registry.New[[]Entry[V]]()}
}

// NewSync creates an empty registry of synchronous validators.
func NewSync() *Sync { return NewRegistry[model.ValidatorFn]() }

// NewAsync creates an empty registry of asynchronous validators.
func NewAsync() *Async { return NewRegistry[model.AsyncValidatorFn]() }

// Register sets the entries for key, replacing previous ones.
func (r *Registry[V]) Register(key string, entries ...Entry[V]) {
	r.entries.Register(key, entries)
}

// RegisterFn is shorthand for Register(key, Fn(fns[0]), Fn(fns[1]), ...).
func (r *Registry[V]) RegisterFn(key string, fns ...V) {
	entries := make([]Entry[V], 0, len(fns))
	for _, fn := range fns {
		entries = append(entries, Fn(fn))
	}
	r.Register(key, entries...)
}

// Has reports whether key is registered.
func (r *Registry[V]) Has(key string) bool {
	return r.entries.Has(key)
}

// Keys returns the registered keys, sorted.
func (r *Registry[V]) Keys() []string {
	return r.entries.Keys()
}

// Resolve flattens keys into validators, in declaration order. References
// are expanded in place; unknown keys and references that loop back to a
// key being expanded contribute nothing.
func (r *Registry[V]) Resolve(keys ...string) []V {
	if r == nil {
		return nil
	}
	var out []V
	visiting := make(map[string]bool)
	for _, key := range keys {
		out = r.resolve(key, visiting, out)
	}
	return out
}

func (r *Registry[V]) resolve(key string, visiting map[string]bool, out []V) []V {
	if visiting[key] {
		return out
	}
	entries, ok := r.entries.Lookup(key)
	if !ok {
		return out
	}
	visiting[key] = true
	defer delete(visiting, key)
	for _, e := range entries {
		if e.isRef {
			out = r.resolve(e.ref, visiting, out)
			continue
		}
		out = append(out, e.fn)
	}
	return out
}
