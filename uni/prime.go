package uni

import "math/big"

// IsPrime reports whether v is prime. The test is exact for every uint64.
func IsPrime(v uint64) bool {
	return new(big.Int).SetUint64(v).ProbablyPrime(0)
}

// LargestPrime3Mod4 returns the largest prime p <= v with p % 4 == 3, or 0
// when there is none (v < 3).
func LargestPrime3Mod4(v uint64) uint64 {
	if v < 3 {
		return 0
	}
	p := v
	if p&1 == 0 {
		p--
	}
	for ; p >= 3; p -= 2 {
		if p&3 == 3 && IsPrime(p) {
			return p
		}
	}
	return 0
}
