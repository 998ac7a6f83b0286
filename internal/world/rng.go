package world

import "math/rand/v2"

// RNG is a seeded generator whose output depends only on the seed and the
// number of draws. Only PCG's Uint64 is used, so results do not depend on
// how the standard library implements its helper methods.
type RNG struct {
	src   *rand.PCG
	draws uint64
}

// NewRNG creates a generator for one stream of a match.
func NewRNG(seed, stream uint64) *RNG {
	return &RNG{src: rand.NewPCG(seed, stream)}
}

// Next returns the next raw value.
func (r *RNG) Next() uint64 {
	r.draws++
	return r.src.Uint64()
}

// Draws returns how many values have been drawn.
func (r *RNG) Draws() uint64 {
	return r.draws
}

// Intn returns a value in [0, n). It returns 0 for n <= 0.
func (r *RNG) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	return int(r.Next() % uint64(n)) //#nosec G115 -- n is always positive
}

// Range returns a value in [lo, hi).
func (r *RNG) Range(lo, hi int) int {
	return lo + r.Intn(hi-lo)
}

// Bool returns a random bool.
func (r *RNG) Bool() bool {
	return r.Next()&1 == 1
}

// Shuffle permutes s in place (Fisher-Yates).
func (r *RNG) Shuffle(s []int) {
	for i := len(s) - 1; i > 0; i-- {
		j := r.Intn(i + 1)
		s[i], s[j] = s[j], s[i]
	}
}
