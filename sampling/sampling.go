// Package sampling - fixed-size index sampling for building training batches.
package sampling

import (
	"math/rand/v2"

	"github.com/pkg/errors"
)

// Source is the randomness a sampler draws from. *rand.Rand from
// math/rand/v2 satisfies it.
type Source interface {
	// IntN returns a uniform integer in [0, n).
	IntN(n int) int
	// Perm returns a uniform permutation of [0, n).
	Perm(n int) []int
}

// NewSource returns a PCG-backed source. A zero seed draws a random one, any
// other seed makes the sequence reproducible.
func NewSource(seed uint64) *rand.Rand {
	if seed == 0 {
		seed = rand.Uint64()
	}
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Choice draws size indices from [0, n).
//
// Without replacement the result is the prefix of a uniform permutation, so
// every index appears at most once; this requires size <= n. With
// replacement every draw is independent.
//
// Arguments:
//   - src: The random source.
//   - n: The population size.
//   - size: The number of indices to draw.
//   - replace: Whether an index may be drawn more than once.
//
// Returns:
//   - []int: The drawn indices, in draw order.
//   - error: An error if the request cannot be satisfied.
func Choice(src Source, n, size int, replace bool) ([]int, error) {
	if n < 0 || size < 0 {
		return nil, errors.Errorf("invalid sample request: n=%d size=%d", n, size)
	}
	if size == 0 {
		return []int{}, nil
	}
	if n == 0 {
		return nil, errors.New("cannot sample from an empty population")
	}
	if !replace {
		if size > n {
			return nil, errors.Errorf("cannot draw %d distinct indices from %d", size, n)
		}
		return src.Perm(n)[:size], nil
	}

	picks := make([]int, size)
	for i := range picks {
		picks[i] = src.IntN(n)
	}
	return picks, nil
}

// FixedSize draws exactly size indices from [0, n), sampling with
// replacement only when the population is smaller than the request. The
// batch therefore never shrinks, and it holds no duplicates whenever there
// are enough candidates.
func FixedSize(src Source, n, size int) ([]int, error) {
	return Choice(src, n, size, n < size)
}
