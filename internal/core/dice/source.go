package dice

import (
	"math"
	"math/rand"
)

// Source produces uniform integers over an inclusive range.
type Source interface {
	Uniform(low, high int) int
}

// SourceFunc adapts a function to the Source interface.
type SourceFunc func(low, high int) int

// Uniform calls f(low, high).
func (f SourceFunc) Uniform(low, high int) int {
	return f(low, high)
}

// RandSource is a Source backed by a seeded math/rand generator.
// It is not safe for concurrent use.
type RandSource struct {
	rng *rand.Rand
}

// NewRandSource returns a Source seeded with seed.
func NewRandSource(seed int64) *RandSource {
	return &RandSource{rng: rand.New(rand.NewSource(seed))}
}

// Uniform returns a value in [low, high]. It returns low when the range is
// empty. Any range of int is accepted, including math.MinInt..math.MaxInt.
func (s *RandSource) Uniform(low, high int) int {
	if high <= low {
		return low
	}
	// Span arithmetic is unsigned so high-low+1 cannot overflow.
	n := uint64(high) - uint64(low) + 1
	switch {
	case n == 0:
		return int(s.rng.Uint64())
	case n <= math.MaxInt64:
		return int(uint64(low) + uint64(s.rng.Int63n(int64(n))))
	default:
		return int(uint64(low) + s.rng.Uint64()%n)
	}
}
