package leeloo

import (
	"cmp"
	"iter"
	"slices"
)

// List is a set of unsigned integers stored as intervals.
//
// Add and Remove only record their argument. Aggregate applies them: the
// added intervals are sorted and merged, then every removed interval is
// subtracted. After Aggregate the list holds sorted, pairwise disjoint and
// non-adjacent intervals, and queries such as Contains, At and RandomSets
// can be used.
//
// The zero value is an empty list ready to use.
type List[T Unsigned] struct {
	intervals []Interval[T]
	removed   []Interval[T]
	cache     *indexCache
}

// NewList returns an empty list.
func NewList[T Unsigned]() *List[T] {
	return &List[T]{}
}

// Add records iv as part of the set. The interval is copied, so later
// changes to iv do not affect the list. Empty intervals are ignored.
func (l *List[T]) Add(iv Interval[T]) {
	if iv.IsEmpty() {
		return
	}
	l.intervals = append(l.intervals, iv)
	l.cache = nil
}

// AddRange records [lower, upper].
func (l *List[T]) AddRange(lower, upper T) {
	l.Add(MakeInterval(lower, upper))
}

// AddValue records the single value v.
func (l *List[T]) AddValue(v T) {
	l.Add(MakeInterval(v, v))
}

// AddList records every interval of o, including its pending removals.
func (l *List[T]) AddList(o *List[T]) {
	l.intervals = append(l.intervals, o.intervals...)
	l.removed = append(l.removed, o.removed...)
	l.cache = nil
}

// Remove records iv to be subtracted by the next Aggregate.
func (l *List[T]) Remove(iv Interval[T]) {
	if iv.IsEmpty() {
		return
	}
	l.removed = append(l.removed, iv)
}

// RemoveRange records [lower, upper] for removal.
func (l *List[T]) RemoveRange(lower, upper T) {
	l.Remove(MakeInterval(lower, upper))
}

// RemoveValue records v for removal.
func (l *List[T]) RemoveValue(v T) {
	l.Remove(MakeInterval(v, v))
}

// RemoveList records every interval of o for removal.
func (l *List[T]) RemoveList(o *List[T]) {
	l.removed = append(l.removed, o.intervals...)
}

// Aggregate merges overlapping and adjacent intervals and applies pending
// removals.
func (l *List[T]) Aggregate() {
	l.intervals = mergeIntervals(l.intervals)
	if len(l.removed) > 0 {
		l.intervals = subtractIntervals(l.intervals, mergeIntervals(l.removed))
		l.removed = l.removed[:0]
	}
	l.cache = nil
}

// Clear empties the list.
func (l *List[T]) Clear() {
	l.intervals = l.intervals[:0]
	l.removed = l.removed[:0]
	l.cache = nil
}

// Reserve grows the capacity for n more intervals.
func (l *List[T]) Reserve(n int) {
	l.intervals = slices.Grow(l.intervals, n)
}

// Len returns the number of intervals.
func (l *List[T]) Len() int { return len(l.intervals) }

// Size returns the number of members. On a list that has not been
// aggregated, overlapping members are counted once per interval.
func (l *List[T]) Size() uint64 {
	var n uint64
	for _, iv := range l.intervals {
		n += iv.Width()
	}
	return n
}

// Intervals returns the intervals of the list. The slice is owned by the
// list and must not be modified.
func (l *List[T]) Intervals() []Interval[T] { return l.intervals }

// Pending returns the number of removals waiting for Aggregate.
func (l *List[T]) Pending() int { return len(l.removed) }

// All iterates over the intervals.
func (l *List[T]) All() iter.Seq[Interval[T]] {
	return func(yield func(Interval[T]) bool) {
		for _, iv := range l.intervals {
			if !yield(iv) {
				return
			}
		}
	}
}

// Values iterates over every member, interval by interval.
func (l *List[T]) Values() iter.Seq[T] {
	return func(yield func(T) bool) {
		for _, iv := range l.intervals {
			for v := iv.lower; ; v++ {
				if !yield(v) {
					return
				}
				if v == iv.upper {
					break
				}
			}
		}
	}
}

// Clone returns a deep copy of the list without its index cache.
func (l *List[T]) Clone() *List[T] {
	return &List[T]{
		intervals: slices.Clone(l.intervals),
		removed:   slices.Clone(l.removed),
	}
}

// Equal reports whether both lists hold the same intervals. Lists should
// be aggregated first.
func (l *List[T]) Equal(o *List[T]) bool {
	return slices.Equal(l.intervals, o.intervals)
}

// aggregated returns the merged intervals without modifying l.
func (l *List[T]) aggregated() []Interval[T] {
	if len(l.removed) == 0 && isAggregated(l.intervals) {
		return l.intervals
	}
	c := l.Clone()
	c.Aggregate()
	return c.intervals
}

func compareLower[T Unsigned](a, b Interval[T]) int {
	return cmp.Compare(a.lower, b.lower)
}

// mergeIntervals sorts ivs in place and folds overlapping or adjacent
// intervals together.
func mergeIntervals[T Unsigned](ivs []Interval[T]) []Interval[T] {
	if len(ivs) < 2 {
		return ivs
	}
	slices.SortFunc(ivs, compareLower[T])

	out := ivs[:1]
	for _, iv := range ivs[1:] {
		last := &out[len(out)-1]
		if last.touches(iv) {
			if iv.upper > last.upper {
				last.upper = iv.upper
			}
			continue
		}
		out = append(out, iv)
	}
	return out
}

// subtractIntervals removes every member of rem from ivs. Both must be
// merged.
func subtractIntervals[T Unsigned](ivs, rem []Interval[T]) []Interval[T] {
	out := make([]Interval[T], 0, len(ivs))
	j := 0
	for _, iv := range ivs {
		for j < len(rem) && rem[j].upper < iv.lower {
			j++
		}
		lo, hi := iv.lower, iv.upper
		alive := true
		for k := j; k < len(rem) && rem[k].lower <= hi; k++ {
			r := rem[k]
			if r.lower > lo {
				out = append(out, MakeInterval(lo, r.lower-1))
			}
			if r.upper >= hi {
				alive = false
				break
			}
			lo = r.upper + 1
		}
		if alive {
			out = append(out, MakeInterval(lo, hi))
		}
	}
	return out
}

func isAggregated[T Unsigned](ivs []Interval[T]) bool {
	for i := 1; i < len(ivs); i++ {
		if ivs[i-1].touches(ivs[i]) || ivs[i].lower < ivs[i-1].lower {
			return false
		}
	}
	return true
}
