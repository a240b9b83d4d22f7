// Package pointset provides immutable in-memory storage for the two
// coordinate sets of a run: the original high-dimensional points and their
// 2D/3D reduction. A PointSet is validated once at construction and is
// read-only afterwards, so it can be shared freely across workers.
package pointset

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrEmpty is returned when a point set is constructed without points.
	ErrEmpty = errors.New("pointset: empty dataset")
)

// ErrRaggedRow is returned when a row's length differs from the first row.
type ErrRaggedRow struct {
	Row      int
	Expected int
	Actual   int
}

func (e *ErrRaggedRow) Error() string {
	return fmt.Sprintf("pointset: ragged row %d: expected %d values, got %d", e.Row, e.Expected, e.Actual)
}

// ErrNonFinite is returned when a coordinate is NaN or infinite.
type ErrNonFinite struct {
	Row int
	Col int
}

func (e *ErrNonFinite) Error() string {
	return fmt.Sprintf("pointset: non-finite value at row %d, column %d", e.Row, e.Col)
}

// PointSet stores N points of fixed dimensionality D in a single flat
// row-major buffer. Indices are stable: point i occupies data[i*D:(i+1)*D].
type PointSet struct {
	data []float32
	n    int
	dim  int

	// Axis-aligned bounding box, computed at construction.
	min []float32
	max []float32
}

// New builds a PointSet from row-per-point data. It rejects empty input,
// ragged rows and non-finite values; the upstream reader validates these
// too, but the engine never trusts that.
func New(rows [][]float32) (*PointSet, error) {
	if len(rows) == 0 {
		return nil, ErrEmpty
	}

	dim := len(rows[0])
	if dim == 0 {
		return nil, ErrEmpty
	}

	ps := &PointSet{
		data: make([]float32, 0, len(rows)*dim),
		n:    len(rows),
		dim:  dim,
		min:  make([]float32, dim),
		max:  make([]float32, dim),
	}
	for d := 0; d < dim; d++ {
		ps.min[d] = float32(math.Inf(1))
		ps.max[d] = float32(math.Inf(-1))
	}

	for i, row := range rows {
		if len(row) != dim {
			return nil, &ErrRaggedRow{Row: i, Expected: dim, Actual: len(row)}
		}
		for d, v := range row {
			f := float64(v)
			if math.IsNaN(f) || math.IsInf(f, 0) {
				return nil, &ErrNonFinite{Row: i, Col: d}
			}
			if v < ps.min[d] {
				ps.min[d] = v
			}
			if v > ps.max[d] {
				ps.max[d] = v
			}
		}
		ps.data = append(ps.data, row...)
	}

	return ps, nil
}

// Len returns the number of points.
func (ps *PointSet) Len() int { return ps.n }

// Dim returns the dimensionality shared by all points.
func (ps *PointSet) Dim() int { return ps.dim }

// At returns the coordinates of point i. The returned slice aliases the
// internal buffer and must not be modified.
func (ps *PointSet) At(i uint32) []float32 {
	off := int(i) * ps.dim
	return ps.data[off : off+ps.dim : off+ps.dim]
}

// Bounds returns the axis-aligned bounding box of the set. The returned
// slices alias internal state and must not be modified.
func (ps *PointSet) Bounds() (min, max []float32) {
	return ps.min, ps.max
}

// ProjectionWidth returns the largest side of the bounding box. Radius
// parameters expressed as a fraction of the projection extent scale by this.
func (ps *PointSet) ProjectionWidth() float32 {
	width := float32(0)
	for d := 0; d < ps.dim; d++ {
		if side := ps.max[d] - ps.min[d]; side > width {
			width = side
		}
	}
	return width
}

// Column copies attribute d of every point into dst and returns it.
// dst is grown as needed; pass nil to allocate.
func (ps *PointSet) Column(d int, dst []float32) []float32 {
	if cap(dst) < ps.n {
		dst = make([]float32, ps.n)
	}
	dst = dst[:ps.n]
	for i := 0; i < ps.n; i++ {
		dst[i] = ps.data[i*ps.dim+d]
	}
	return dst
}
