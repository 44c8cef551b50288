package reactive_test

import (
	"testing"

	"github.com/aretw0/formwork/pkg/reactive"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignal_EffectRunsOnChange(t *testing.T) {
	rt := reactive.NewRuntime()
	count := reactive.NewSignal(rt, 1)

	var seen []int
	rt.Effect(func() {
		seen = append(seen, count.Get())
	})

	count.Set(2)
	count.Set(2) // equal, no run
	count.Set(3)

	assert.Equal(t, []int{1, 2, 3}, seen)
}

func TestComputed_MemoizesAndCutsOffEqualResults(t *testing.T) {
	rt := reactive.NewRuntime()
	value := reactive.NewSignal(rt, 1)

	evaluations := 0
	positive := reactive.NewComputed(rt, func() bool {
		evaluations++
		return value.Get() > 0
	})

	runs := 0
	rt.Effect(func() {
		_ = positive.Get()
		runs++
	})

	value.Set(5)
	value.Set(10)
	assert.Equal(t, 1, runs, "effect must not re-run while the computed result is unchanged")
	assert.Equal(t, 3, evaluations)

	value.Set(-1)
	assert.Equal(t, 2, runs)
}

func TestComputed_LazyUntilRead(t *testing.T) {
	rt := reactive.NewRuntime()
	calls := 0
	c := reactive.NewComputed(rt, func() int {
		calls++
		return 42
	})
	assert.Equal(t, 0, calls)
	assert.Equal(t, 42, c.Peek())
	assert.Equal(t, 42, c.Get())
	assert.Equal(t, 1, calls)
}

func TestPeek_DoesNotTrack(t *testing.T) {
	rt := reactive.NewRuntime()
	tracked := reactive.NewSignal(rt, "a")
	peeked := reactive.NewSignal(rt, "x")

	runs := 0
	rt.Effect(func() {
		_ = tracked.Get()
		_ = peeked.Peek()
		runs++
	})

	peeked.Set("y")
	assert.Equal(t, 1, runs)
	tracked.Set("b")
	assert.Equal(t, 2, runs)
}

func TestUntracked(t *testing.T) {
	rt := reactive.NewRuntime()
	s := reactive.NewSignal(rt, 0)

	runs := 0
	rt.Effect(func() {
		runs++
		rt.Untracked(func() { _ = s.Get() })
	})
	s.Set(1)
	assert.Equal(t, 1, runs)

	v := reactive.Untrack(rt, s.Get)
	assert.Equal(t, 1, v)
}

func TestBatch_DefersEffects(t *testing.T) {
	rt := reactive.NewRuntime()
	a := reactive.NewSignal(rt, 1)
	b := reactive.NewSignal(rt, 1)

	var sums []int
	rt.Effect(func() {
		sums = append(sums, a.Get()+b.Get())
	})

	rt.Batch(func() {
		a.Set(2)
		b.Set(3)
		assert.Len(t, sums, 1, "no effect may run inside the batch")
	})
	assert.Equal(t, []int{2, 5}, sums)
}

func TestEffects_RunInCreationOrder(t *testing.T) {
	rt := reactive.NewRuntime()
	s := reactive.NewSignal(rt, 0)

	var order []string
	rt.Batch(func() {
		rt.Effect(func() { _ = s.Get(); order = append(order, "first") })
		rt.Effect(func() { _ = s.Get(); order = append(order, "second") })
	})
	order = nil

	s.Set(1)
	assert.Equal(t, []string{"first", "second"}, order)
}

func TestEffect_WritesCascade(t *testing.T) {
	rt := reactive.NewRuntime()
	source := reactive.NewSignal(rt, 1)
	mirror := reactive.NewSignal(rt, 0)

	rt.Effect(func() {
		mirror.Set(source.Get() * 10)
	})

	var seen []int
	rt.Effect(func() {
		seen = append(seen, mirror.Get())
	})

	source.Set(2)
	assert.Equal(t, []int{10, 20}, seen)
}

func TestEffect_Dispose(t *testing.T) {
	rt := reactive.NewRuntime()
	s := reactive.NewSignal(rt, 0)

	runs := 0
	e := rt.Effect(func() {
		_ = s.Get()
		runs++
	})
	e.Dispose()
	s.Set(1)
	assert.Equal(t, 1, runs)
}

func TestEffect_DynamicDependencies(t *testing.T) {
	rt := reactive.NewRuntime()
	useA := reactive.NewSignal(rt, true)
	a := reactive.NewSignal(rt, "a")
	b := reactive.NewSignal(rt, "b")

	var seen []string
	rt.Effect(func() {
		if useA.Get() {
			seen = append(seen, a.Get())
			return
		}
		seen = append(seen, b.Get())
	})

	b.Set("b2") // not a dependency yet
	useA.Set(false)
	a.Set("a2") // no longer a dependency
	b.Set("b3")

	assert.Equal(t, []string{"a", "b2", "b3"}, seen)
}

func TestEqual_PointerIdentity(t *testing.T) {
	type box struct{ v int }
	x, y := &box{1}, &box{1}
	assert.True(t, reactive.Equal(x, x))
	assert.False(t, reactive.Equal(x, y))

	assert.True(t, reactive.Equal(map[string]any{"a": 1}, map[string]any{"a": 1}))
	assert.False(t, reactive.Equal(map[string]any{"a": 1}, map[string]any{"a": 2}))
	assert.True(t, reactive.Equal[any](nil, nil))
}

func TestWithEqual(t *testing.T) {
	rt := reactive.NewRuntime()
	always := reactive.NewSignal(rt, 0, reactive.WithEqual(func(a, b int) bool { return false }))

	runs := 0
	rt.Effect(func() {
		_ = always.Get()
		runs++
	})
	always.Set(0)
	assert.Equal(t, 2, runs)
}

func TestEffect_LoopPanics(t *testing.T) {
	rt := reactive.NewRuntime()
	a := reactive.NewSignal(rt, 0)
	b := reactive.NewSignal(rt, 0)

	rt.Effect(func() { a.Set(b.Get() + 1) })
	require.Panics(t, func() {
		rt.Effect(func() { b.Set(a.Get() + 1) })
	})
}
