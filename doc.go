// Package leeloo manages big sets of unsigned integers as lists of
// intervals.
//
// A List collects intervals, then Aggregate turns them into a sorted
// sequence of disjoint, non-adjacent intervals. Once aggregated, a list
// answers membership and rank queries, can be inverted or intersected, and
// can hand out its members in a random order where each member appears
// exactly once.
//
// # Basic Usage
//
//	list := leeloo.NewIntervalListU32()
//
//	a := leeloo.NewIntervalU32()
//	a.Assign(4, 11)
//	b := leeloo.NewIntervalU32()
//	b.Assign(20, 40)
//
//	list.Add(a)
//	list.Add(b)
//	list.Aggregate()
//
//	list.RandomSets(10, func(set []uint32) {
//	    fmt.Println(set)
//	})
//
// # Intervals
//
// Bounds are inclusive: [4, 11] holds 8 members. An Interval starts empty
// and becomes a range once assigned, so the largest value of the integer
// type can be a member.
//
// # Randomness
//
// Random orders come from package uni, which walks a permutation of
// [0, Size()) without materializing it. The rank of each drawn step is
// mapped back to a member with At.
//
// # Thread Safety
//
// A List is not safe for concurrent mutation. Once aggregated, read-only
// methods (Contains, At, AtCached, Size, Values, RandomSets) may be called
// from several goroutines.
//
// # Related Packages
//
//   - ipset parses IPv4 addresses, CIDR blocks and ranges into lists
//   - ipset6 does the same for IPv6 on 128-bit intervals
//   - portset packs protocol-tagged ports into 32-bit lists
//   - randstate resumes random iterations across runs
//   - extbuild builds the native bindings and assembles their package
package leeloo
