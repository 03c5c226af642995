package randstate

import (
	"github.com/contriboss/leeloo-go"
	"github.com/contriboss/leeloo-go/uni"
)

// Tracker hands out the steps of a random order over a list and records
// which of them were completed.
//
// Steps are handed out in increasing order, but may be marked done in any
// order, or never. A Tracker restored from its State replays the steps
// that were handed out but not marked done, then carries on with the rest.
type Tracker[T leeloo.Unsigned] struct {
	list *leeloo.List[T]
	gen  *uni.Generator

	todo *leeloo.List[uint64]
	done *leeloo.List[uint64]

	// cursor into todo.Intervals()
	idx int
	off uint64
}

// NewTracker walks the steps [start, end) of the order given by seed.
// Both bounds are clamped to the list size and swapped when reversed.
// Steps outside the window count as done.
func NewTracker[T leeloo.Unsigned](l *leeloo.List[T], seed uni.Seed, start, end uint64) (*Tracker[T], error) {
	if err := checkSeed(l.Size(), seed); err != nil {
		return nil, err
	}
	t := &Tracker[T]{list: l, gen: uni.New(seed)}

	size := seed.Max
	start, end = min(start, size), min(end, size)
	if start > end {
		start, end = end, start
	}

	t.todo = leeloo.NewList[uint64]()
	if start < end {
		t.todo.AddRange(start, end-1)
	}
	t.todo.Aggregate()

	t.done = leeloo.NewList[uint64]()
	if start > 0 {
		t.done.AddRange(0, start-1)
	}
	if end < size {
		t.done.AddRange(end, size-1)
	}
	t.done.Aggregate()
	return t, nil
}

// NewRandomTracker walks every step of a new random order over l.
func NewRandomTracker[T leeloo.Unsigned](l *leeloo.List[T], eng uni.Engine) *Tracker[T] {
	t, _ := NewTracker(l, uni.RandomSeed(l.Size(), eng), 0, l.Size())
	return t
}

// RestoreTracker rebuilds a tracker from a saved state. The steps left to
// walk are every step not in st.Done.
func RestoreTracker[T leeloo.Unsigned](l *leeloo.List[T], st State) (*Tracker[T], error) {
	t, err := NewTracker(l, st.Seed, 0, st.Seed.Max)
	if err != nil {
		return nil, err
	}
	if st.Done != nil {
		t.SetDoneSteps(st.Done)
	}
	return t, nil
}

// Done reports whether every step to walk was handed out.
func (t *Tracker[T]) Done() bool {
	return t.idx >= t.todo.Len()
}

// CurrentStep returns the step Current would return the member of. It
// must not be called once Done.
func (t *Tracker[T]) CurrentStep() uint64 {
	return t.todo.Intervals()[t.idx].Lower() + t.off
}

// Current returns the member at the current step without moving on.
func (t *Tracker[T]) Current() T {
	return t.list.AtCached(t.gen.Step(t.CurrentStep()))
}

// Advance moves to the next step to walk.
func (t *Tracker[T]) Advance() {
	if t.Done() {
		return
	}
	if t.off+1 < t.todo.Intervals()[t.idx].Width() {
		t.off++
		return
	}
	t.idx++
	t.off = 0
}

// Next returns the member at the current step and its step, then moves
// on. It returns false once Done.
func (t *Tracker[T]) Next() (v T, step uint64, ok bool) {
	if t.Done() {
		return v, 0, false
	}
	step = t.CurrentStep()
	v = t.Current()
	t.Advance()
	return v, step, true
}

// StepDone records step as completed.
func (t *Tracker[T]) StepDone(step uint64) {
	t.done.AddValue(step)
	if t.done.Len() >= DoneStepsAggregateThreshold {
		t.done.Aggregate()
	}
}

// SetDoneSteps replaces the completed steps and restarts the walk over
// every step not in done.
func (t *Tracker[T]) SetDoneSteps(done *leeloo.List[uint64]) {
	t.done = done.Clone()
	t.done.Aggregate()

	t.todo = leeloo.NewList[uint64]()
	if n := t.gen.Max(); n > 0 {
		t.todo.AddRange(0, n-1)
	}
	t.todo.RemoveList(t.done)
	t.todo.Aggregate()
	t.idx, t.off = 0, 0
}

// DoneSteps aggregates and returns the completed steps. The returned list
// belongs to the tracker.
func (t *Tracker[T]) DoneSteps() *leeloo.List[uint64] {
	t.done.Aggregate()
	return t.done
}

// SizeOriginal is the number of members of the list.
func (t *Tracker[T]) SizeOriginal() uint64 { return t.gen.Max() }

// SizeTodo is the number of steps this walk covers.
func (t *Tracker[T]) SizeTodo() uint64 { return t.todo.Size() }

// SizeDone is the number of completed steps.
func (t *Tracker[T]) SizeDone() uint64 { return t.DoneSteps().Size() }

// Seed returns the seed of the order.
func (t *Tracker[T]) Seed() uni.Seed { return t.gen.Seed() }

// State captures the seed and a copy of the completed steps.
func (t *Tracker[T]) State() State {
	return State{Seed: t.gen.Seed(), Done: t.DoneSteps().Clone()}
}
