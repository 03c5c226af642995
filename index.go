package leeloo

import "sort"

// DefaultIndexEntrySize is the number of intervals between two entries of
// the rank index built by RandomSets when the list has none.
const DefaultIndexEntrySize = 32

type indexCache struct {
	entrySize int
	// sums[k] is the number of members in intervals[:k*entrySize].
	sums []uint64
}

func buildIndexCache[T Unsigned](ivs []Interval[T], entrySize int) *indexCache {
	if entrySize <= 0 {
		entrySize = 1
	}
	c := &indexCache{
		entrySize: entrySize,
		sums:      make([]uint64, 0, len(ivs)/entrySize+1),
	}
	var sum uint64
	for i, iv := range ivs {
		if i%entrySize == 0 {
			c.sums = append(c.sums, sum)
		}
		sum += iv.Width()
	}
	return c
}

// CreateIndexCache builds a rank index with one entry every entrySize
// intervals, used by AtCached. Any change to the list drops the index.
func (l *List[T]) CreateIndexCache(entrySize int) {
	l.cache = buildIndexCache(l.intervals, entrySize)
}

// At returns the r-th smallest member, counting from 0. It panics if
// r >= Size().
func (l *List[T]) At(r uint64) T {
	return atFrom(l.intervals, 0, r)
}

// AtCached is At using the index built by CreateIndexCache. Without an
// index it behaves like At.
func (l *List[T]) AtCached(r uint64) T {
	return atIndexed(l.intervals, l.cache, r)
}

func atIndexed[T Unsigned](ivs []Interval[T], c *indexCache, r uint64) T {
	if c == nil || len(c.sums) == 0 {
		return atFrom(ivs, 0, r)
	}
	k := sort.Search(len(c.sums), func(i int) bool { return c.sums[i] > r }) - 1
	return atFrom(ivs, k*c.entrySize, r-c.sums[k])
}

func atFrom[T Unsigned](ivs []Interval[T], start int, r uint64) T {
	for _, iv := range ivs[start:] {
		w := iv.Width()
		if r < w {
			return iv.lower + T(r)
		}
		r -= w
	}
	panic("leeloo: rank out of range")
}

// Contains reports whether v is a member. The list must be aggregated.
func (l *List[T]) Contains(v T) bool {
	return l.Find(v) >= 0
}

// Find returns the index of the interval holding v, or -1. The list must
// be aggregated.
func (l *List[T]) Find(v T) int {
	ivs := l.intervals
	i := sort.Search(len(ivs), func(i int) bool { return ivs[i].upper >= v })
	if i < len(ivs) && ivs[i].lower <= v {
		return i
	}
	return -1
}
