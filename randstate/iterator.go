// Package randstate walks the members of a list in a random order that
// can be saved and resumed.
//
// The order is the permutation of a uni.Generator, so it is fully
// described by a seed. An Iterator only remembers how far it went. A
// Tracker remembers which steps were completed, for work where results
// come back out of order or not at all, and on restore replays only the
// steps that never completed.
package randstate

import (
	"github.com/pkg/errors"

	"github.com/contriboss/leeloo-go"
	"github.com/contriboss/leeloo-go/uni"
)

// DoneStepsAggregateThreshold is the number of recorded intervals after
// which a Tracker aggregates its done steps.
const DoneStepsAggregateThreshold = 100

// State is what is needed to resume an iteration over the same list.
type State struct {
	Seed uni.Seed
	// Step is the next step of an Iterator.
	Step uint64
	// Done holds the completed steps of a Tracker, aggregated.
	Done *leeloo.List[uint64]
}

func checkSeed(size uint64, seed uni.Seed) error {
	if seed.Max != size {
		return errors.Errorf("seed covers %d values but the list holds %d", seed.Max, size)
	}
	return nil
}

// Iterator returns the members of an aggregated list in random order.
type Iterator[T leeloo.Unsigned] struct {
	list *leeloo.List[T]
	gen  *uni.Generator
	step uint64
}

// NewIterator starts a new random order over l.
func NewIterator[T leeloo.Unsigned](l *leeloo.List[T], eng uni.Engine) *Iterator[T] {
	return &Iterator[T]{list: l, gen: uni.NewRandom(l.Size(), eng)}
}

// ResumeIterator continues the order given by seed at step.
func ResumeIterator[T leeloo.Unsigned](l *leeloo.List[T], seed uni.Seed, step uint64) (*Iterator[T], error) {
	if err := checkSeed(l.Size(), seed); err != nil {
		return nil, err
	}
	return &Iterator[T]{list: l, gen: uni.New(seed), step: min(step, seed.Max)}, nil
}

// Next returns the next member, or false once every member was returned.
func (it *Iterator[T]) Next() (T, bool) {
	if it.Done() {
		var zero T
		return zero, false
	}
	v := it.list.AtCached(it.gen.Step(it.step))
	it.step++
	return v, true
}

// Done reports whether every member was returned.
func (it *Iterator[T]) Done() bool { return it.step >= it.gen.Max() }

// Step returns the number of members returned so far.
func (it *Iterator[T]) Step() uint64 { return it.step }

// Seed returns the seed of the order.
func (it *Iterator[T]) Seed() uni.Seed { return it.gen.Seed() }

// State captures the position of the iterator.
func (it *Iterator[T]) State() State {
	return State{Seed: it.gen.Seed(), Step: it.step}
}
