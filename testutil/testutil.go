// Package testutil provides seeded data generators shared by tests and
// benchmarks.
package testutil

import (
	"math/rand"
	"sync"
)

// RNG encapsulates a seeded random number generator. It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 { return r.seed }

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Float32 returns a pseudo-random number in [0.0,1.0).
func (r *RNG) Float32() float32 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Float32()
}

// Rows generates num random points of the given dimensionality with
// coordinates in [0, scale).
func (r *RNG) Rows(num, dim int, scale float32) [][]float32 {
	r.mu.Lock()
	defer r.mu.Unlock()

	rows := make([][]float32, num)
	for i := range rows {
		rows[i] = make([]float32, dim)
		for d := range rows[i] {
			rows[i][d] = r.rand.Float32() * scale
		}
	}
	return rows
}

// ClusteredRows generates points grouped around k random cluster centers,
// which gives neighborhoods real structure to explain.
func (r *RNG) ClusteredRows(num, dim, k int, spread float32) [][]float32 {
	r.mu.Lock()
	defer r.mu.Unlock()

	centers := make([][]float32, k)
	for c := range centers {
		centers[c] = make([]float32, dim)
		for d := range centers[c] {
			centers[c][d] = r.rand.Float32() * 10
		}
	}

	rows := make([][]float32, num)
	for i := range rows {
		center := centers[i%k]
		rows[i] = make([]float32, dim)
		for d := range rows[i] {
			rows[i][d] = center[d] + (r.rand.Float32()-0.5)*spread
		}
	}
	return rows
}
