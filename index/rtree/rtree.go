// Package rtree provides the R-tree spatial index used for the reduced
// 2D/3D space. The tree is bulk-loaded once at build time; radius queries
// descend only into subtrees whose bounding box intersects the query box,
// never touching the full point set.
package rtree

import (
	"math"
	"sort"

	"github.com/dhconnelly/rtreego"

	"github.com/gijs-s/pointctl/distance"
	"github.com/gijs-s/pointctl/index"
	"github.com/gijs-s/pointctl/pointset"
)

// Compile-time checks.
var _ index.Index = (*Index)(nil)
var _ index.RadiusQuerier = (*Index)(nil)

const (
	// Branching factors for the underlying tree.
	minBranch = 25
	maxBranch = 50

	// pointTolerance is the half-extent of the degenerate rectangle each
	// point is stored as.
	pointTolerance = 1e-9
)

// item is one indexed point stored in the tree.
type item struct {
	index  uint32
	coords rtreego.Point
}

func (it *item) Bounds() *rtreego.Rect {
	return it.coords.ToRect(pointTolerance)
}

// Index is a bulk-loaded R-tree over a fixed point set.
type Index struct {
	points *pointset.PointSet
	tree   *rtreego.Rtree
	dist   distance.Func
}

// New bulk-loads an R-tree over ps.
func New(ps *pointset.PointSet) (*Index, error) {
	if ps == nil || ps.Len() == 0 {
		return nil, index.ErrEmptyDataset
	}

	items := make([]rtreego.Spatial, ps.Len())
	for i := 0; i < ps.Len(); i++ {
		coords := ps.At(uint32(i))
		pt := make(rtreego.Point, len(coords))
		for d, v := range coords {
			pt[d] = float64(v)
		}
		items[i] = &item{index: uint32(i), coords: pt}
	}

	return &Index{
		points: ps,
		tree:   rtreego.NewTree(ps.Dim(), minBranch, maxBranch, items...),
		dist:   distance.L2,
	}, nil
}

// Kind returns the algorithm identifier.
func (x *Index) Kind() index.Kind { return index.KindRTree }

// Len returns the number of indexed points.
func (x *Index) Len() int { return x.points.Len() }

// QueryRadius returns all neighbors of point i within distance r, sorted by
// distance. The tree prunes by bounding box; candidates that survive the box
// test are filtered by exact distance.
func (x *Index) QueryRadius(i uint32, r float32) (index.Neighborhood, error) {
	if math.IsNaN(float64(r)) || r < 0 {
		return nil, &index.ErrInvalidRadius{Radius: r}
	}
	if int(i) >= x.points.Len() {
		return nil, &index.ErrIndexRange{Index: i, Len: x.points.Len()}
	}

	q := x.points.At(i)

	corner := make(rtreego.Point, len(q))
	lengths := make([]float64, len(q))
	for d, v := range q {
		corner[d] = float64(v) - float64(r) - pointTolerance
		lengths[d] = 2 * (float64(r) + pointTolerance)
	}
	box, err := rtreego.NewRect(corner, lengths)
	if err != nil {
		return nil, err
	}

	var nh index.Neighborhood
	for _, hit := range x.tree.SearchIntersect(box) {
		it := hit.(*item)
		if it.index == i {
			continue
		}
		if d := x.dist(q, x.points.At(it.index)); d <= r {
			nh = append(nh, index.Neighbor{Index: it.index, Distance: d})
		}
	}

	sort.Slice(nh, func(a, b int) bool {
		if nh[a].Distance != nh[b].Distance {
			return nh[a].Distance < nh[b].Distance
		}
		return nh[a].Index < nh[b].Index
	})

	return nh, nil
}

// QueryKNN returns up to k nearest neighbors of point i, excluding i itself.
func (x *Index) QueryKNN(i uint32, k int) (index.Neighborhood, error) {
	if k <= 0 {
		return nil, index.ErrInvalidK
	}
	if int(i) >= x.points.Len() {
		return nil, &index.ErrIndexRange{Index: i, Len: x.points.Len()}
	}

	q := x.points.At(i)
	pt := make(rtreego.Point, len(q))
	for d, v := range q {
		pt[d] = float64(v)
	}

	// k+1 because the query point is its own nearest neighbor.
	hits := x.tree.NearestNeighbors(k+1, pt)

	nh := make(index.Neighborhood, 0, k)
	for _, hit := range hits {
		if hit == nil {
			break
		}
		it := hit.(*item)
		if it.index == i {
			continue
		}
		if len(nh) == k {
			break
		}
		nh = append(nh, index.Neighbor{Index: it.index, Distance: x.dist(q, x.points.At(it.index))})
	}

	sort.Slice(nh, func(a, b int) bool { return nh[a].Distance < nh[b].Distance })

	return nh, nil
}
