package art

import "math/rand/v2"

// Rand is the random source every stochastic step draws from. *rand.Rand
// from math/rand/v2 satisfies it.
type Rand interface {
	IntN(n int) int
	Float64() float64
}

// NewRand returns a PCG-backed source; equal seeds give equal sequences.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// intBetween samples uniformly from [lo, hi]. An inverted range collapses to
// lo, so the sampler never sees a bound below 1.
func intBetween(rng Rand, lo, hi int) int {
	if hi < lo {
		hi = lo
	}
	return lo + rng.IntN(hi-lo+1)
}

// floatBetween samples uniformly from [lo, hi).
func floatBetween(rng Rand, lo, hi float64) float64 {
	if hi < lo {
		lo, hi = hi, lo
	}
	return lo + rng.Float64()*(hi-lo)
}

// pick returns one element of opts chosen uniformly.
func pick[T any](rng Rand, opts []T) T {
	return opts[rng.IntN(len(opts))]
}
