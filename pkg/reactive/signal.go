package reactive

import "reflect"

// Readable is a reactive value. Get records a dependency when called from a
// computed or an effect, Peek never does.
type Readable[T any] interface {
	Get() T
	Peek() T
}

// EqualFunc reports whether two values are the same for change propagation.
type EqualFunc[T any] func(a, b T) bool

// Option configures a Signal or a Computed.
type Option[T any] func(*options[T])

type options[T any] struct {
	equal EqualFunc[T]
}

// WithEqual overrides the equality used to decide whether a new value is a
// change worth propagating.
func WithEqual[T any](fn EqualFunc[T]) Option[T] {
	return func(o *options[T]) {
		o.equal = fn
	}
}

func resolveOptions[T any](opts []Option[T]) options[T] {
	o := options[T]{equal: Equal[T]}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Equal is the default equality: identity for comparable values (pointers
// compare by address), deep equality for maps, slices and the like.
func Equal[T any](a, b T) bool {
	va := reflect.ValueOf(&a).Elem()
	vb := reflect.ValueOf(&b).Elem()
	if va.Comparable() && vb.Comparable() {
		return va.Equal(vb)
	}
	return reflect.DeepEqual(a, b)
}

// Signal is a writable reactive value.
type Signal[T any] struct {
	n     *node
	value T
	equal EqualFunc[T]
}

// NewSignal creates a signal holding initial.
func NewSignal[T any](rt *Runtime, initial T, opts ...Option[T]) *Signal[T] {
	o := resolveOptions(opts)
	return &Signal[T]{
		n:     rt.newNode(signalKind),
		value: initial,
		equal: o.equal,
	}
}

// Get returns the current value and tracks it.
func (s *Signal[T]) Get() T {
	s.n.rt.track(s.n)
	return s.value
}

// Peek returns the current value without tracking it.
func (s *Signal[T]) Peek() T {
	return s.value
}

// Set stores v. Dependents are notified only when v differs from the
// current value; effects run before Set returns unless a Batch is open.
func (s *Signal[T]) Set(v T) {
	if s.equal(s.value, v) {
		return
	}
	s.value = v
	s.n.version++
	s.n.rt.notify(s.n)
}

// Update sets the value to fn(current).
func (s *Signal[T]) Update(fn func(T) T) {
	s.Set(fn(s.value))
}

// Computed is a derived, memoized reactive value. It re-evaluates lazily
// and only when one of the values it read has changed.
type Computed[T any] struct {
	n     *node
	fn    func() T
	value T
	init  bool
	equal EqualFunc[T]
}

// NewComputed creates a computed from fn. fn is not called until the first
// Get or Peek.
func NewComputed[T any](rt *Runtime, fn func() T, opts ...Option[T]) *Computed[T] {
	o := resolveOptions(opts)
	c := &Computed[T]{
		n:     rt.newNode(computedKind),
		fn:    fn,
		equal: o.equal,
	}
	c.n.state = stale
	c.n.run = c.evaluate
	return c
}

func (c *Computed[T]) evaluate() {
	v := c.fn()
	if c.init && c.equal(c.value, v) {
		return
	}
	c.value = v
	c.init = true
	c.n.version++
}

// Get returns the up-to-date value and tracks it.
func (c *Computed[T]) Get() T {
	c.n.rt.refresh(c.n)
	c.n.rt.track(c.n)
	return c.value
}

// Peek returns the up-to-date value without tracking it.
func (c *Computed[T]) Peek() T {
	c.n.rt.refresh(c.n)
	return c.value
}

// Dispose detaches the computed from its dependencies. The last value stays
// readable.
func (c *Computed[T]) Dispose() {
	c.n.disposed = true
	c.n.unsubscribe()
}

// Effect is a side effect re-run whenever a value it read changes.
type Effect struct {
	n *node
}

// Effect registers fn and schedules its first run. Effects run in creation
// order within a flush.
func (rt *Runtime) Effect(fn func()) *Effect {
	e := &Effect{n: rt.newNode(effectKind)}
	e.n.run = fn
	e.n.state = stale
	rt.schedule(e.n)
	rt.flush()
	return e
}

// Dispose stops the effect. A pending run is dropped.
func (e *Effect) Dispose() {
	e.n.disposed = true
	e.n.unsubscribe()
}

// Disposer is anything holding reactive subscriptions.
type Disposer interface {
	Dispose()
}
