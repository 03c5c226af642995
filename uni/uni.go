// Package uni generates unique random integers.
//
// A Generator walks a pseudo-random permutation of [0, max) without
// storing it. It is built on quadratic residues modulo a prime p with
// p % 4 == 3: for such primes x -> x² mod p (folded for x > p/2) is a
// bijection of [0, p). Values in [p, max) are handled by a small shuffled
// table. The permutation is applied twice with an offset in between so
// that consecutive outputs do not follow the residue curve.
//
// Everything is derived from a Seed, so a sequence can be replayed or
// resumed from any step.
package uni

import (
	"math"
	"math/bits"
	"math/rand/v2"

	"go.uber.org/atomic"
)

// Seed fully determines a Generator's permutation.
type Seed struct {
	Off  uint64 `json:"off" yaml:"off"`
	Pos  uint64 `json:"pos" yaml:"pos"`
	Max  uint64 `json:"max" yaml:"max"`
	Perm uint64 `json:"perm" yaml:"perm"`
}

// RandomSeed draws a seed for a permutation of [0, max) from eng.
func RandomSeed(max uint64, eng Engine) Seed {
	if max == 0 {
		return Seed{}
	}
	return Seed{
		Off:  eng.Uint64N(max),
		Pos:  eng.Uint64N(max),
		Max:  max,
		Perm: eng.Uint64N(math.MaxUint64),
	}
}

// Generator produces a permutation of [0, Max()).
//
// Step is pure and may be called from any goroutine. Next hands out
// successive steps and is safe for concurrent use; once Max() values have
// been returned it wraps around to the start of the permutation.
type Generator struct {
	seed    Seed
	prime   uint64
	remPerm []uint64
	steps   atomic.Uint64
}

// New builds the generator described by seed.
func New(seed Seed) *Generator {
	g := &Generator{seed: seed}
	if seed.Max == 0 {
		return g
	}
	g.seed.Off %= seed.Max
	g.seed.Pos %= seed.Max
	g.prime = LargestPrime3Mod4(seed.Max)

	g.remPerm = make([]uint64, seed.Max-g.prime)
	for i := range g.remPerm {
		g.remPerm[i] = g.prime + uint64(i)
	}
	r := rand.New(rand.NewPCG(seed.Perm, 0))
	r.Shuffle(len(g.remPerm), func(i, j int) {
		g.remPerm[i], g.remPerm[j] = g.remPerm[j], g.remPerm[i]
	})
	return g
}

// NewRandom builds a generator over [0, max) with a seed drawn from eng.
func NewRandom(max uint64, eng Engine) *Generator {
	return New(RandomSeed(max, eng))
}

// Seed returns the seed the generator was built from.
func (g *Generator) Seed() Seed { return g.seed }

// Max returns the size of the permuted range.
func (g *Generator) Max() uint64 { return g.seed.Max }

// Step returns the i-th value of the permutation. i is taken modulo Max().
// It returns 0 for an empty generator.
func (g *Generator) Step(i uint64) uint64 {
	max := g.seed.Max
	if max == 0 {
		return 0
	}
	pos := addMod(g.seed.Pos, i%max, max)
	return g.residue(addMod(g.residue(pos), g.seed.Off, max))
}

// Next returns the value for the next unclaimed step.
func (g *Generator) Next() uint64 {
	if g.seed.Max == 0 {
		return 0
	}
	i := g.steps.Inc() - 1
	return g.Step(i % g.seed.Max)
}

// Steps returns how many values Next has handed out.
func (g *Generator) Steps() uint64 { return g.steps.Load() }

// SetSteps positions Next so that its following call returns Step(n).
func (g *Generator) SetSteps(n uint64) { g.steps.Store(n) }

func (g *Generator) residue(v uint64) uint64 {
	p := g.prime
	if v >= p {
		return g.remPerm[v-p]
	}
	hi, lo := bits.Mul64(v, v)
	r := bits.Rem64(hi, lo, p)
	if v <= p/2 {
		return r
	}
	return p - r
}

// addMod returns (a + b) % m for a, b < m without overflowing.
func addMod(a, b, m uint64) uint64 {
	s, carry := bits.Add64(a, b, 0)
	if carry != 0 || s >= m {
		s -= m
	}
	return s
}
