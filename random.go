package leeloo

import (
	"iter"

	"github.com/contriboss/leeloo-go/uni"
)

// RandomSets splits the members of the list into n subsets and calls fn
// once per subset, exactly n times. n <= 0 is treated as 1.
//
// Members are drawn in a random order where each one appears exactly once,
// so the subsets are disjoint and their union is the whole set. Subset
// sizes differ by at most one, the first Size()%n subsets holding the
// extra member. Subsets are empty when n exceeds Size().
//
// The slice passed to fn is reused between calls; copy it to keep it.
// The list must be aggregated.
func (l *List[T]) RandomSets(n int, fn func(set []T)) {
	l.RandomSetsWith(uni.NewRandomEngine(), n, fn)
}

// RandomSetsWith is RandomSets drawing its permutation from eng.
func (l *List[T]) RandomSetsWith(eng uni.Engine, n int, fn func(set []T)) {
	if n <= 0 {
		n = 1
	}
	size := l.Size()
	g := uni.NewRandom(size, eng)
	c := l.rankIndex()

	base, extra := size/uint64(n), size%uint64(n)
	buf := make([]T, 0, base+min(extra, 1))

	var step uint64
	for i := 0; i < n; i++ {
		want := base
		if uint64(i) < extra {
			want++
		}
		buf = buf[:0]
		for ; want > 0; want-- {
			buf = append(buf, atIndexed(l.intervals, c, g.Step(step)))
			step++
		}
		fn(buf)
	}
}

// RandomChunks calls fn with consecutive chunks of chunkSize members drawn
// in a random order, the last chunk holding what remains. chunkSize <= 0
// is treated as 1. fn is not called on an empty list.
//
// The slice passed to fn is reused between calls; copy it to keep it.
func (l *List[T]) RandomChunks(eng uni.Engine, chunkSize int, fn func(chunk []T)) {
	if chunkSize <= 0 {
		chunkSize = 1
	}
	buf := make([]T, 0, chunkSize)
	for v := range l.RandomValues(eng) {
		buf = append(buf, v)
		if len(buf) == chunkSize {
			fn(buf)
			buf = buf[:0]
		}
	}
	if len(buf) > 0 {
		fn(buf)
	}
}

// RandomValues iterates over every member once, in a random order drawn
// from eng.
func (l *List[T]) RandomValues(eng uni.Engine) iter.Seq[T] {
	return l.RandomValuesFrom(uni.NewRandom(l.Size(), eng), 0)
}

// RandomValuesFrom iterates over the members in the order given by g,
// starting at step start. g must have been built for Size() values.
func (l *List[T]) RandomValuesFrom(g *uni.Generator, start uint64) iter.Seq[T] {
	c := l.rankIndex()
	return func(yield func(T) bool) {
		for step := start; step < g.Max(); step++ {
			if !yield(atIndexed(l.intervals, c, g.Step(step))) {
				return
			}
		}
	}
}

func (l *List[T]) rankIndex() *indexCache {
	if l.cache != nil {
		return l.cache
	}
	return buildIndexCache(l.intervals, DefaultIndexEntrySize)
}
