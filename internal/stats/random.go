package stats

import (
	"math/rand/v2"
)

// Source supplies the noise used by the synthetic estimates.
// *rand.Rand from math/rand/v2 satisfies it.
type Source interface {
	Float64() float64
	IntN(n int) int
}

// NewSource returns an independently seeded source for a single request
func NewSource() Source {
	return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}
