package leeloo

import (
	"slices"
	"sort"

	"github.com/contriboss/leeloo-go/uni"
)

// PropertyInterval ties a property to an interval.
type PropertyInterval[T Unsigned, P any] struct {
	Interval Interval[T]
	Property P
}

// PropertyList is a List whose values can carry properties, such as the
// owners or tags of address ranges.
//
// Properties live beside the members: AddProperty may cover values that
// are not in the list, and PropertyOf answers for them too.
type PropertyList[T Unsigned, P any] struct {
	List[T]
	props []PropertyInterval[T, P]
}

// NewPropertyList returns an empty list.
func NewPropertyList[T Unsigned, P any]() *PropertyList[T, P] {
	return &PropertyList[T, P]{}
}

// AddProperty attaches prop to every value of iv.
func (l *PropertyList[T, P]) AddProperty(iv Interval[T], prop P) {
	if iv.IsEmpty() {
		return
	}
	l.props = append(l.props, PropertyInterval[T, P]{Interval: iv, Property: prop})
}

// Properties returns the property intervals, sorted and disjoint once
// AggregateProperties has run. The slice must not be modified.
func (l *PropertyList[T, P]) Properties() []PropertyInterval[T, P] {
	return l.props
}

// AggregateProperties splits the property intervals into disjoint pieces.
// The property of a piece is the fold, with merge, of every property
// covering it, in the order they were added. merge must not modify its
// arguments in place.
func (l *PropertyList[T, P]) AggregateProperties(merge func(acc, next P) P) {
	if len(l.props) == 0 {
		return
	}

	// every position where coverage may change
	cuts := make([]T, 0, 2*len(l.props))
	for _, p := range l.props {
		cuts = append(cuts, p.Interval.lower)
		if p.Interval.upper != maxOf[T]() {
			cuts = append(cuts, p.Interval.upper+1)
		}
	}
	slices.Sort(cuts)
	cuts = slices.Compact(cuts)

	byLower := make([]int, len(l.props))
	for i := range byLower {
		byLower[i] = i
	}
	sort.SliceStable(byLower, func(a, b int) bool {
		return l.props[byLower[a]].Interval.lower < l.props[byLower[b]].Interval.lower
	})

	var out []PropertyInterval[T, P]
	var active []int
	next := 0
	for k, at := range cuts {
		active = slices.DeleteFunc(active, func(i int) bool {
			return l.props[i].Interval.upper < at
		})
		for next < len(byLower) && l.props[byLower[next]].Interval.lower <= at {
			idx := byLower[next]
			pos, _ := slices.BinarySearch(active, idx)
			active = slices.Insert(active, pos, idx)
			next++
		}
		if len(active) == 0 {
			continue
		}

		end := maxOf[T]()
		if k+1 < len(cuts) {
			end = cuts[k+1] - 1
		}
		prop := l.props[active[0]].Property
		for _, i := range active[1:] {
			prop = merge(prop, l.props[i].Property)
		}
		out = append(out, PropertyInterval[T, P]{Interval: MakeInterval(at, end), Property: prop})
	}
	l.props = out
}

// PropertyOf returns the property covering v. AggregateProperties must
// have run.
func (l *PropertyList[T, P]) PropertyOf(v T) (P, bool) {
	if p := l.propertyRef(v); p != nil {
		return *p, true
	}
	var zero P
	return zero, false
}

func (l *PropertyList[T, P]) propertyRef(v T) *P {
	props := l.props
	i := sort.Search(len(props), func(i int) bool { return props[i].Interval.upper >= v })
	if i < len(props) && props[i].Interval.lower <= v {
		return &props[i].Property
	}
	return nil
}

// RandomSetsWithProperties is RandomSets passing, beside each subset, the
// property of every member at the same index. A property is nil for a
// member no property covers; the others point into the list and must not
// be modified.
//
// Both slices are reused between calls. The list and its properties must
// be aggregated.
func (l *PropertyList[T, P]) RandomSetsWithProperties(n int, fn func(set []T, props []*P)) {
	l.RandomSetsWithPropertiesFrom(uni.NewRandomEngine(), n, fn)
}

// RandomSetsWithPropertiesFrom is RandomSetsWithProperties drawing its
// permutation from eng.
func (l *PropertyList[T, P]) RandomSetsWithPropertiesFrom(eng uni.Engine, n int, fn func(set []T, props []*P)) {
	var props []*P
	l.RandomSetsWith(eng, n, func(set []T) {
		props = props[:0]
		for _, v := range set {
			props = append(props, l.propertyRef(v))
		}
		fn(set, props)
	})
}
