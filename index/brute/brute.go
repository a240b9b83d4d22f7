// Package brute provides the exhaustive-scan spatial index. O(1) build and
// O(N) per query make it the reference-correct baseline the smarter variants
// are validated against.
package brute

import (
	"math"

	"github.com/gijs-s/pointctl/cache"
	"github.com/gijs-s/pointctl/distance"
	"github.com/gijs-s/pointctl/index"
	"github.com/gijs-s/pointctl/internal/queue"
	"github.com/gijs-s/pointctl/pointset"
)

// Compile-time checks.
var _ index.Index = (*Index)(nil)
var _ index.RadiusQuerier = (*Index)(nil)

// Options contains configuration options for the brute-force index.
type Options struct {
	// Distance is the distance function used for queries.
	Distance distance.Func

	// Cache, when set, memoizes pairwise distances for the run.
	Cache *cache.Distances
}

// DefaultOptions contains the default configuration options.
var DefaultOptions = Options{
	Distance: distance.L2,
}

// Index is the brute-force spatial index over a fixed point set.
type Index struct {
	points *pointset.PointSet
	dist   distance.Func
	cache  *cache.Distances
}

// New builds a brute-force index over ps.
func New(ps *pointset.PointSet, optFns ...func(o *Options)) (*Index, error) {
	opts := DefaultOptions
	for _, fn := range optFns {
		fn(&opts)
	}

	if ps == nil || ps.Len() == 0 {
		return nil, index.ErrEmptyDataset
	}

	return &Index{points: ps, dist: opts.Distance, cache: opts.Cache}, nil
}

// Kind returns the algorithm identifier.
func (x *Index) Kind() index.Kind { return index.KindBruteForce }

// Len returns the number of indexed points.
func (x *Index) Len() int { return x.points.Len() }

// QueryKNN returns up to k nearest neighbors of point i, excluding i itself.
func (x *Index) QueryKNN(i uint32, k int) (index.Neighborhood, error) {
	if k <= 0 {
		return nil, index.ErrInvalidK
	}
	if int(i) >= x.points.Len() {
		return nil, &index.ErrIndexRange{Index: i, Len: x.points.Len()}
	}

	q := x.points.At(i)
	pq := queue.NewMax(k)

	for j := 0; j < x.points.Len(); j++ {
		jj := uint32(j)
		if jj == i {
			continue
		}

		d := x.pairDistance(i, jj, q)
		if pq.Len() < k {
			pq.Push(queue.Item{Index: jj, Distance: d})
		} else if top, _ := pq.Top(); d < top.Distance {
			pq.Pop()
			pq.Push(queue.Item{Index: jj, Distance: d})
		}
	}

	return neighborhood(pq.DrainAscending()), nil
}

// QueryRadius returns all neighbors of point i within distance r, sorted by
// distance.
func (x *Index) QueryRadius(i uint32, r float32) (index.Neighborhood, error) {
	if math.IsNaN(float64(r)) || r < 0 {
		return nil, &index.ErrInvalidRadius{Radius: r}
	}
	if int(i) >= x.points.Len() {
		return nil, &index.ErrIndexRange{Index: i, Len: x.points.Len()}
	}

	q := x.points.At(i)
	pq := queue.NewMin(64)

	for j := 0; j < x.points.Len(); j++ {
		jj := uint32(j)
		if jj == i {
			continue
		}

		if d := x.pairDistance(i, jj, q); d <= r {
			pq.Push(queue.Item{Index: jj, Distance: d})
		}
	}

	return neighborhood(pq.DrainAscending()), nil
}

func (x *Index) pairDistance(i, j uint32, q []float32) float32 {
	if x.cache == nil {
		return x.dist(q, x.points.At(j))
	}
	return x.cache.Distance(i, j, func() float32 {
		return x.dist(q, x.points.At(j))
	})
}

func neighborhood(items []queue.Item) index.Neighborhood {
	nh := make(index.Neighborhood, len(items))
	for i, it := range items {
		nh[i] = index.Neighbor{Index: it.Index, Distance: it.Distance}
	}
	return nh
}
