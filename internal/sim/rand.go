package sim

import "math/rand/v2"

// Rand is the random source the simulation draws from. *rand.Rand satisfies it.
type Rand interface {
	Float64() float64
	IntN(n int) int
}

// processRand draws from the math/rand/v2 top-level generator.
type processRand struct{}

func (processRand) Float64() float64 { return rand.Float64() }
func (processRand) IntN(n int) int   { return rand.IntN(n) }

// Default is the process-wide random source used when none is injected.
var Default Rand = processRand{}

// NewSeeded returns a deterministic source. Two sources built from the same
// seed produce identical sequences.
func NewSeeded(seed uint64) Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Uniform draws from [lo, hi).
func Uniform(r Rand, lo, hi float64) float64 {
	return lo + r.Float64()*(hi-lo)
}

// Chance reports true with probability p.
func Chance(r Rand, p float64) bool {
	return r.Float64() < p
}

// Pick returns a uniformly chosen element of items.
func Pick[T any](r Rand, items []T) T {
	return items[r.IntN(len(items))]
}
