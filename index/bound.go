package index

import (
	"math/rand"
	"sort"
)

// Bounder caps raw neighborhoods to a maximum size by uniform sampling
// without replacement. Uniform subsampling of an already radius-bounded set
// keeps the neighborhood statistic unbiased while bounding per-point cost.
//
// The sample for point i is drawn from an RNG derived from the run seed and
// i, so the bounded neighborhoods are reproducible for a fixed seed no
// matter how the points are partitioned across workers.
type Bounder struct {
	cap  int
	seed int64
}

// NewBounder creates a bounder with the given cap M and run seed.
// A cap <= 0 means unbounded.
func NewBounder(cap int, seed int64) *Bounder {
	return &Bounder{cap: cap, seed: seed}
}

// Cap returns the configured maximum neighborhood size.
func (b *Bounder) Cap() int { return b.cap }

// Bound returns nh capped to at most M neighbors, still sorted by distance.
// Neighborhoods at or under the cap are returned unchanged.
func (b *Bounder) Bound(i uint32, nh Neighborhood) Neighborhood {
	if b == nil || b.cap <= 0 || len(nh) <= b.cap {
		return nh
	}

	rng := rand.New(rand.NewSource(mix(b.seed, i)))

	// Partial Fisher-Yates: the first M slots end up a uniform sample
	// without replacement.
	sampled := make(Neighborhood, len(nh))
	copy(sampled, nh)
	for j := 0; j < b.cap; j++ {
		k := j + rng.Intn(len(sampled)-j)
		sampled[j], sampled[k] = sampled[k], sampled[j]
	}
	sampled = sampled[:b.cap]

	sort.Slice(sampled, func(a, c int) bool { return sampled[a].Distance < sampled[c].Distance })
	return sampled
}

// mix folds a point index into the run seed (splitmix64 finalizer).
func mix(seed int64, i uint32) int64 {
	x := uint64(seed) + 0x9e3779b97f4a7c15*(uint64(i)+1)
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	x ^= x >> 31
	return int64(x)
}
