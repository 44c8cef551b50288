package reactive

import (
	"cmp"
	"fmt"
	"slices"
)

// maxFlushRounds bounds how many times effects may re-trigger each other
// before the runtime gives up.
const maxFlushRounds = 100

type nodeKind int

const (
	signalKind nodeKind = iota
	computedKind
	effectKind
)

type nodeState int

const (
	clean nodeState = iota
	stale
)

// node is the untyped vertex shared by signals, computeds and effects.
// Signals only produce, effects only consume, computeds do both.
type node struct {
	rt        *Runtime
	id        uint64
	kind      nodeKind
	version   uint64
	state     nodeState
	observers []*node
	deps      []dependency
	run       func()
	ran       bool
	computing bool
	queued    bool
	disposed  bool
}

type dependency struct {
	src     *node
	version uint64
}

func (n *node) addObserver(o *node) {
	if slices.Contains(n.observers, o) {
		return
	}
	n.observers = append(n.observers, o)
}

func (n *node) removeObserver(o *node) {
	if i := slices.Index(n.observers, o); i >= 0 {
		n.observers = slices.Delete(n.observers, i, i+1)
	}
}

func (n *node) unsubscribe() {
	for _, d := range n.deps {
		d.src.removeObserver(n)
	}
	n.deps = nil
}

// Runtime owns one reactive graph. Signals, computeds and effects created
// from the same Runtime may depend on each other.
//
// A Runtime is not safe for concurrent use.
type Runtime struct {
	nextID   uint64
	active   *node
	batch    int
	flushing bool
	pending  []*node
}

// NewRuntime creates an empty reactive graph.
func NewRuntime() *Runtime {
	return &Runtime{}
}

func (rt *Runtime) newNode(kind nodeKind) *node {
	rt.nextID++
	return &node{rt: rt, id: rt.nextID, kind: kind}
}

// track records src as a dependency of the consumer currently running.
func (rt *Runtime) track(src *node) {
	c := rt.active
	if c == nil || c == src {
		return
	}
	for _, d := range c.deps {
		if d.src == src {
			return
		}
	}
	c.deps = append(c.deps, dependency{src: src, version: src.version})
}

func (rt *Runtime) markStale(n *node) {
	if n.disposed || n.state == stale {
		return
	}
	n.state = stale
	switch n.kind {
	case computedKind:
		for _, o := range slices.Clone(n.observers) {
			rt.markStale(o)
		}
	case effectKind:
		rt.schedule(n)
	}
}

func (rt *Runtime) notify(n *node) {
	for _, o := range slices.Clone(n.observers) {
		rt.markStale(o)
	}
	rt.flush()
}

func (rt *Runtime) schedule(n *node) {
	if n.queued {
		return
	}
	n.queued = true
	rt.pending = append(rt.pending, n)
}

// refresh brings a computed or effect up to date, re-running it only when
// one of the dependencies it read last time has a newer version.
func (rt *Runtime) refresh(n *node) {
	if n.disposed || n.kind == signalKind {
		return
	}
	if n.state == clean && n.ran {
		return
	}
	if n.computing {
		panic(fmt.Sprintf("reactive: dependency cycle detected at node %d", n.id))
	}
	if n.ran && !rt.depsChanged(n) {
		n.state = clean
		return
	}
	rt.recompute(n)
}

func (rt *Runtime) depsChanged(n *node) bool {
	for _, d := range n.deps {
		if d.src.kind == computedKind {
			rt.refresh(d.src)
		}
		if d.src.version != d.version {
			return true
		}
	}
	return false
}

func (rt *Runtime) recompute(n *node) {
	n.unsubscribe()
	prev := rt.active
	rt.active = n
	n.computing = true
	defer func() {
		n.computing = false
		rt.active = prev
		n.ran = true
		n.state = clean
		if n.disposed {
			n.deps = nil
			return
		}
		for _, d := range n.deps {
			d.src.addObserver(n)
		}
	}()
	n.run()
}

func (rt *Runtime) flush() {
	if rt.batch > 0 || rt.flushing {
		return
	}
	rt.flushing = true
	defer func() { rt.flushing = false }()

	for round := 0; len(rt.pending) > 0; round++ {
		if round >= maxFlushRounds {
			rt.pending = nil
			panic(fmt.Sprintf("reactive: effects did not settle after %d rounds", maxFlushRounds))
		}
		queue := rt.pending
		rt.pending = nil
		slices.SortFunc(queue, func(a, b *node) int { return cmp.Compare(a.id, b.id) })
		for _, n := range queue {
			n.queued = false
		}
		for _, n := range queue {
			rt.refresh(n)
		}
	}
}

// Batch runs fn and defers effect execution until it returns. Nested
// batches flush once, when the outermost one completes.
func (rt *Runtime) Batch(fn func()) {
	rt.batch++
	defer func() {
		rt.batch--
		rt.flush()
	}()
	fn()
}

// Untracked runs fn without recording any dependency for the consumer that
// is currently executing.
func (rt *Runtime) Untracked(fn func()) {
	prev := rt.active
	rt.active = nil
	defer func() { rt.active = prev }()
	fn()
}

// Untrack reads fn's result without tracking it.
func Untrack[T any](rt *Runtime, fn func() T) T {
	var v T
	rt.Untracked(func() { v = fn() })
	return v
}
