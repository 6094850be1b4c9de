package engine

import "math/rand"

// RNG wraps math/rand.Rand with deterministic position tracking.
// Position counts draws from the underlying source, enabling save/restore.
type RNG struct {
	seed int64
	src  *rand.Rand
	cs   *countingSource
}

// countingSource counts every value drawn from the wrapped source.
type countingSource struct {
	rand.Source
	n int64
}

func (c *countingSource) Int63() int64 {
	c.n++
	return c.Source.Int63()
}

// NewRNG creates a new deterministic RNG from a seed.
func NewRNG(seed int64) *RNG {
	cs := &countingSource{Source: rand.NewSource(seed)}
	return &RNG{
		seed: seed,
		src:  rand.New(cs),
		cs:   cs,
	}
}

// Roll returns a random integer in [1, sides].
func (r *RNG) Roll(sides int) int {
	return r.src.Intn(sides) + 1
}

// Between returns a random integer in [lo, hi], inclusive.
func (r *RNG) Between(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + r.Roll(hi-lo+1) - 1
}

// Pick returns a uniformly chosen index in [0, n).
func (r *RNG) Pick(n int) int {
	return r.Roll(n) - 1
}

// Float64 returns a random value in [0, 1).
func (r *RNG) Float64() float64 {
	return r.src.Float64()
}

// Chance returns true with probability p.
func (r *RNG) Chance(p float64) bool {
	return r.Float64() < p
}

// Seed returns the seed the RNG was created from.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Position returns the number of source draws made since creation.
func (r *RNG) Position() int64 {
	return r.cs.n
}

// RestoreRNG creates an RNG and advances it to the given position.
// This reproduces the exact RNG state for save/load.
func RestoreRNG(seed int64, position int64) *RNG {
	rng := NewRNG(seed)
	for rng.cs.n < position {
		rng.cs.Int63()
	}
	return rng
}
