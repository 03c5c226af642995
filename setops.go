package leeloo

// Invert replaces the list with its complement over every value of T.
// Pending removals are applied first.
func (l *List[T]) Invert() {
	l.Aggregate()
	top := maxOf[T]()
	if len(l.intervals) == 0 {
		l.intervals = append(l.intervals, MakeInterval(0, top))
		return
	}

	out := make([]Interval[T], 0, len(l.intervals)+1)
	if first := l.intervals[0]; first.lower > 0 {
		out = append(out, MakeInterval(0, first.lower-1))
	}
	for i := 1; i < len(l.intervals); i++ {
		out = append(out, MakeInterval(l.intervals[i-1].upper+1, l.intervals[i].lower-1))
	}
	if last := l.intervals[len(l.intervals)-1]; last.upper < top {
		out = append(out, MakeInterval(last.upper+1, top))
	}
	l.intervals = out
}

// Intersect keeps only the members also present in o. l is aggregated
// first; o is read in aggregated form but left as is.
func (l *List[T]) Intersect(o *List[T]) {
	l.Aggregate()
	a, b := l.intervals, o.aggregated()

	out := make([]Interval[T], 0, min(len(a), len(b)))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		lo := max(a[i].lower, b[j].lower)
		hi := min(a[i].upper, b[j].upper)
		if lo <= hi {
			out = append(out, MakeInterval(lo, hi))
		}
		if a[i].upper < b[j].upper {
			i++
		} else {
			j++
		}
	}
	l.intervals = out
}

// AggregateMaxPrefix aggregates the list, then widens every interval to
// the blocks of prefix leading bits it touches. For uint32 lists of IPv4
// addresses, a prefix of 24 turns 10.0.0.4-10.0.0.25 into 10.0.0.0/24.
// A prefix of 0, or one at least as wide as T, only aggregates.
func (l *List[T]) AggregateMaxPrefix(prefix int) {
	l.aggregateMaxPrefix(prefix, false)
}

// AggregateMaxPrefixStrict is AggregateMaxPrefix that leaves intervals
// spanning at least one full block untouched.
func (l *List[T]) AggregateMaxPrefixStrict(prefix int) {
	l.aggregateMaxPrefix(prefix, true)
}

func (l *List[T]) aggregateMaxPrefix(prefix int, strict bool) {
	l.Aggregate()
	nbits := bitsOf[T]()
	if prefix <= 0 || prefix >= nbits {
		return
	}

	mask := T(1)<<(nbits-prefix) - 1
	block := uint64(mask) + 1
	for i := range l.intervals {
		iv := &l.intervals[i]
		if strict && iv.Width() >= block {
			continue
		}
		iv.lower &^= mask
		iv.upper |= mask
	}
	l.intervals = mergeIntervals(l.intervals)
	l.cache = nil
}
