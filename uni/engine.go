package uni

import (
	crand "crypto/rand"
	"encoding/binary"
	"math/rand/v2"
)

// Engine is a source of uniformly distributed integers.
//
// *rand.Rand from math/rand/v2 satisfies it.
type Engine interface {
	// Uint64N returns a value in [0, n). It panics if n == 0.
	Uint64N(n uint64) uint64
}

// NewEngine returns a deterministic engine seeded with seed.
func NewEngine(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// NewRandomEngine returns an engine seeded from the operating system's
// random source.
func NewRandomEngine() *rand.Rand {
	var b [16]byte
	if _, err := crand.Read(b[:]); err != nil {
		// crypto/rand.Read never fails on supported platforms
		panic(err)
	}
	return rand.New(rand.NewPCG(binary.LittleEndian.Uint64(b[:8]), binary.LittleEndian.Uint64(b[8:])))
}
