package leeloo

import (
	"fmt"
	"math"
	"math/bits"
)

// Unsigned is the set of integer types a List can hold.
type Unsigned interface {
	~uint8 | ~uint16 | ~uint32 | ~uint64
}

// Interval is an inclusive range [Lower, Upper] of unsigned integers.
//
// The zero value is an empty interval. Assign turns it into a range.
type Interval[T Unsigned] struct {
	lower    T
	upper    T
	assigned bool
}

// NewInterval returns an empty interval.
func NewInterval[T Unsigned]() Interval[T] {
	return Interval[T]{}
}

// MakeInterval returns the interval [lower, upper]. Bounds given in the
// wrong order are swapped.
func MakeInterval[T Unsigned](lower, upper T) Interval[T] {
	var i Interval[T]
	i.Assign(lower, upper)
	return i
}

// Assign sets the bounds of the interval. It may be called any number of
// times; the last call wins. If lower > upper the bounds are swapped.
func (i *Interval[T]) Assign(lower, upper T) {
	if lower > upper {
		lower, upper = upper, lower
	}
	i.lower = lower
	i.upper = upper
	i.assigned = true
}

// SetLower moves the lower bound, keeping the interval well-formed.
func (i *Interval[T]) SetLower(lower T) {
	if !i.assigned {
		i.Assign(lower, lower)
		return
	}
	i.Assign(lower, i.upper)
}

// SetUpper moves the upper bound, keeping the interval well-formed.
func (i *Interval[T]) SetUpper(upper T) {
	if !i.assigned {
		i.Assign(upper, upper)
		return
	}
	i.Assign(i.lower, upper)
}

// Lower returns the smallest member.
func (i Interval[T]) Lower() T { return i.lower }

// Upper returns the largest member.
func (i Interval[T]) Upper() T { return i.upper }

// IsEmpty reports whether the interval has never been assigned.
func (i Interval[T]) IsEmpty() bool { return !i.assigned }

// Width returns the number of members. The full uint64 range saturates at
// math.MaxUint64.
func (i Interval[T]) Width() uint64 {
	if !i.assigned {
		return 0
	}
	w := uint64(i.upper - i.lower)
	if w == math.MaxUint64 {
		return w
	}
	return w + 1
}

// Middle returns the member halfway between the bounds, rounded down.
func (i Interval[T]) Middle() T {
	return i.lower + (i.upper-i.lower)/2
}

// Contains reports whether v is a member.
func (i Interval[T]) Contains(v T) bool {
	return i.assigned && v >= i.lower && v <= i.upper
}

// Overlaps reports whether the two intervals share at least one member.
func (i Interval[T]) Overlaps(o Interval[T]) bool {
	return i.assigned && o.assigned && i.lower <= o.upper && o.lower <= i.upper
}

func (i Interval[T]) String() string {
	if !i.assigned {
		return "[]"
	}
	return fmt.Sprintf("[%d, %d]", i.lower, i.upper)
}

// touches reports whether o starts inside i or right after it. i.lower <=
// o.lower is assumed.
func (i Interval[T]) touches(o Interval[T]) bool {
	if o.lower <= i.upper {
		return true
	}
	return i.upper != maxOf[T]() && o.lower == i.upper+1
}

func maxOf[T Unsigned]() T {
	return ^T(0)
}

func bitsOf[T Unsigned]() int {
	return bits.Len64(uint64(maxOf[T]()))
}
