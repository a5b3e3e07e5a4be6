package core

import "math/rand/v2"

// RNG is a thin convenience wrapper around math/rand/v2 for deterministic seeding.
type RNG struct {
	pcg *rand.PCG
	r   *rand.Rand
}

// NewRNG creates a deterministic RNG using the provided seed.
func NewRNG(seed int64) *RNG {
	pcg := rand.NewPCG(uint64(seed), 0)
	return &RNG{pcg: pcg, r: rand.New(pcg)}
}

// Seed resets the generator in place, so holders of Source observe the new
// sequence.
func (r *RNG) Seed(seed int64) {
	r.pcg.Seed(uint64(seed), 0)
}

// Bool returns a random boolean value.
func (r *RNG) Bool() bool {
	return r.r.IntN(2) == 1
}

// Sign returns +1 or -1 with equal probability.
func (r *RNG) Sign() int {
	if r.Bool() {
		return 1
	}
	return -1
}

// IntN returns a random int in [0, n). It returns 0 when n is not positive.
func (r *RNG) IntN(n int) int {
	if n <= 0 {
		return 0
	}
	return r.r.IntN(n)
}

// Float64 returns a uniform value in [0, 1).
func (r *RNG) Float64() float64 { return r.r.Float64() }

// Source exposes the underlying rand.Rand for advanced use.
func (r *RNG) Source() *rand.Rand { return r.r }
