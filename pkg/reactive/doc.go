/*
Package reactive implements the small signal graph the form engine runs on.

Three primitives share one Runtime:

  - Signal: a writable value.
  - Computed: a memoized derivation. It only recomputes when a value it read
    changed, and only notifies dependents when its own result changed.
  - Effect: a side effect scheduled whenever a value it read changed.

Writes mark dependents stale and the effects reached are flushed before the
write returns, in creation order, unless a Batch is open. Reads made with
Peek or inside Untracked inform a decision without subscribing to it.

	rt := reactive.NewRuntime()
	count := reactive.NewSignal(rt, 1)
	double := reactive.NewComputed(rt, func() int { return count.Get() * 2 })
	rt.Effect(func() { fmt.Println(double.Get()) }) // prints 2
	count.Set(2)                                    // prints 4
*/
package reactive
