package ipset6

import (
	"iter"
	"net/netip"
	"slices"

	"github.com/pkg/errors"
	"lukechampine.com/uint128"
)

// List is a set of IPv6 addresses.
//
// Add and Remove only record their argument; Aggregate sorts and merges
// the added intervals, then subtracts the removed ones. Queries expect an
// aggregated list. The zero value is an empty list ready to use.
type List struct {
	intervals []Interval
	removed   []Interval
}

// NewList returns an empty list.
func NewList() *List {
	return &List{}
}

// Add parses s with ParseRange and adds the addresses it describes.
func (l *List) Add(s string) error {
	iv, err := ParseRange(s)
	if err != nil {
		return err
	}
	l.AddInterval(iv)
	return nil
}

// Remove parses s with ParseRange and records its addresses for removal
// by the next Aggregate.
func (l *List) Remove(s string) error {
	iv, err := ParseRange(s)
	if err != nil {
		return err
	}
	l.RemoveInterval(iv)
	return nil
}

func (l *List) AddInterval(iv Interval) {
	l.intervals = append(l.intervals, iv)
}

func (l *List) RemoveInterval(iv Interval) {
	l.removed = append(l.removed, iv)
}

// AddPrefix adds every address of an IPv6 prefix.
func (l *List) AddPrefix(p netip.Prefix) error {
	iv, err := prefixInterval(p)
	if err != nil {
		return err
	}
	l.AddInterval(iv)
	return nil
}

// RemovePrefix records every address of an IPv6 prefix for removal.
func (l *List) RemovePrefix(p netip.Prefix) error {
	iv, err := prefixInterval(p)
	if err != nil {
		return err
	}
	l.RemoveInterval(iv)
	return nil
}

// Aggregate merges overlapping and adjacent intervals and applies pending
// removals.
func (l *List) Aggregate() {
	l.intervals = mergeIntervals(l.intervals)
	if len(l.removed) > 0 {
		l.intervals = subtractIntervals(l.intervals, mergeIntervals(l.removed))
		l.removed = l.removed[:0]
	}
}

// Len returns the number of intervals.
func (l *List) Len() int { return len(l.intervals) }

// Size returns the number of addresses, saturating at uint128.Max.
func (l *List) Size() uint128.Uint128 {
	var n uint128.Uint128
	for _, iv := range l.intervals {
		w := iv.Width()
		if uint128.Max.Sub(n).Cmp(w) < 0 {
			return uint128.Max
		}
		n = n.Add(w)
	}
	return n
}

// Intervals returns the intervals of the list. The slice is owned by the
// list and must not be modified.
func (l *List) Intervals() []Interval { return l.intervals }

// Contains reports whether v is in the aggregated list.
func (l *List) Contains(v uint128.Uint128) bool {
	i, found := slices.BinarySearchFunc(l.intervals, v, func(iv Interval, v uint128.Uint128) int {
		return iv.upper.Cmp(v)
	})
	if found {
		return true
	}
	return i < len(l.intervals) && l.intervals[i].Contains(v)
}

// ContainsAddr reports whether addr is in the aggregated list. IPv4
// addresses are looked up in their IPv4-mapped form.
func (l *List) ContainsAddr(addr netip.Addr) bool {
	return addr.IsValid() && l.Contains(AddrToUint128(addr))
}

// ContainsString parses s as a single address and reports whether it is
// in the list. Invalid addresses are never contained.
func (l *List) ContainsString(s string) bool {
	v, err := ParseIPv6(s)
	return err == nil && l.Contains(v)
}

// Invert replaces the list with its complement over the whole address
// space. Pending removals are applied first.
func (l *List) Invert() {
	l.Aggregate()
	if len(l.intervals) == 0 {
		l.intervals = append(l.intervals, MakeInterval(uint128.Zero, uint128.Max))
		return
	}

	out := make([]Interval, 0, len(l.intervals)+1)
	if first := l.intervals[0]; !first.lower.IsZero() {
		out = append(out, MakeInterval(uint128.Zero, first.lower.Sub64(1)))
	}
	for i := 1; i < len(l.intervals); i++ {
		out = append(out, MakeInterval(l.intervals[i-1].upper.Add64(1), l.intervals[i].lower.Sub64(1)))
	}
	if last := l.intervals[len(l.intervals)-1]; !last.upper.Equals(uint128.Max) {
		out = append(out, MakeInterval(last.upper.Add64(1), uint128.Max))
	}
	l.intervals = out
}

// Intersect keeps only the addresses also present in o. Both lists are
// aggregated first.
func (l *List) Intersect(o *List) {
	l.Aggregate()
	o.Aggregate()
	a, b := l.intervals, o.intervals

	out := make([]Interval, 0, min(len(a), len(b)))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		lo := maxOf(a[i].lower, b[j].lower)
		hi := minOf(a[i].upper, b[j].upper)
		if lo.Cmp(hi) <= 0 {
			out = append(out, MakeInterval(lo, hi))
		}
		if a[i].upper.Cmp(b[j].upper) < 0 {
			i++
		} else {
			j++
		}
	}
	l.intervals = out
}

// Equal reports whether both lists hold the same intervals. Lists should
// be aggregated first.
func (l *List) Equal(o *List) bool {
	return slices.Equal(l.intervals, o.intervals)
}

// Ranges iterates over the intervals as strings formatted by Format.
func (l *List) Ranges() iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, iv := range l.intervals {
			if !yield(Format(iv)) {
				return
			}
		}
	}
}

func prefixInterval(p netip.Prefix) (Interval, error) {
	if !p.IsValid() || !p.Addr().Is6() {
		return Interval{}, errors.Errorf("not an IPv6 prefix: %s", p)
	}
	p = p.Masked()
	lo := AddrToUint128(p.Addr())
	return MakeInterval(lo, lo.Or(uint128.Max.Rsh(uint(p.Bits())))), nil
}

func mergeIntervals(ivs []Interval) []Interval {
	if len(ivs) < 2 {
		return ivs
	}
	slices.SortFunc(ivs, func(a, b Interval) int { return a.lower.Cmp(b.lower) })

	out := ivs[:1]
	for _, iv := range ivs[1:] {
		last := &out[len(out)-1]
		if last.touches(iv) {
			last.upper = maxOf(last.upper, iv.upper)
			continue
		}
		out = append(out, iv)
	}
	return out
}

// subtractIntervals removes every address of rem from ivs. Both must be
// merged.
func subtractIntervals(ivs, rem []Interval) []Interval {
	out := make([]Interval, 0, len(ivs))
	j := 0
	for _, iv := range ivs {
		for j < len(rem) && rem[j].upper.Cmp(iv.lower) < 0 {
			j++
		}
		lo, hi := iv.lower, iv.upper
		alive := true
		for k := j; k < len(rem) && rem[k].lower.Cmp(hi) <= 0; k++ {
			r := rem[k]
			if r.lower.Cmp(lo) > 0 {
				out = append(out, MakeInterval(lo, r.lower.Sub64(1)))
			}
			if r.upper.Cmp(hi) >= 0 {
				alive = false
				break
			}
			lo = r.upper.Add64(1)
		}
		if alive {
			out = append(out, MakeInterval(lo, hi))
		}
	}
	return out
}

func maxOf(a, b uint128.Uint128) uint128.Uint128 {
	if a.Cmp(b) < 0 {
		return b
	}
	return a
}

func minOf(a, b uint128.Uint128) uint128.Uint128 {
	if a.Cmp(b) > 0 {
		return b
	}
	return a
}
