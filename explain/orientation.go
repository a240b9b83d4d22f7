package explain

import (
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/gijs-s/pointctl/index"
	"github.com/gijs-s/pointctl/pointset"
)

// Orientation is the secondary, shading-oriented explanation for one point:
// the local surface normal estimated from the reduced-space neighborhood and
// an eccentricity describing how flat that neighborhood is.
type Orientation struct {
	// Normal is the unit eigenvector of the neighborhood covariance with the
	// smallest eigenvalue. Length equals the reduced dimensionality.
	Normal []float32

	// Eccentricity is 1 - λmin/λmax in [0,1]; 0 means an isotropic blob,
	// values near 1 a flat local sheet.
	Eccentricity float32
}

// OrientationMechanism estimates local orientation from reduced-space
// neighborhoods. It shares the index and bounder infrastructure with the
// attribute mechanism; only the statistic differs.
type OrientationMechanism struct {
	reduced *pointset.PointSet
}

// NewOrientationMechanism creates an orientation mechanism over the reduced
// point set.
func NewOrientationMechanism(reduced *pointset.PointSet) *OrientationMechanism {
	return &OrientationMechanism{reduced: reduced}
}

// Explain estimates the orientation of point i from its bounded
// neighborhood. Degenerate neighborhoods (size < dim) yield a zero
// orientation.
func (m *OrientationMechanism) Explain(i uint32, nh index.Neighborhood) Orientation {
	dim := m.reduced.Dim()
	if len(nh) < dim {
		return Orientation{Normal: make([]float32, dim)}
	}

	obs := mat.NewDense(len(nh)+1, dim, nil)
	fill := func(row int, coords []float32) {
		for d, v := range coords {
			obs.Set(row, d, float64(v))
		}
	}
	fill(0, m.reduced.At(i))
	for r, nb := range nh {
		fill(r+1, m.reduced.At(nb.Index))
	}

	var cov mat.SymDense
	stat.CovarianceMatrix(&cov, obs, nil)

	var eig mat.EigenSym
	if !eig.Factorize(&cov, true) {
		return Orientation{Normal: make([]float32, dim)}
	}

	// Eigenvalues come back in ascending order: the first eigenvector is the
	// normal, the last eigenvalue the dominant spread.
	values := eig.Values(nil)
	var vectors mat.Dense
	eig.VectorsTo(&vectors)

	normal := make([]float32, dim)
	for d := 0; d < dim; d++ {
		normal[d] = float32(vectors.At(d, 0))
	}

	var ecc float64
	if max := values[dim-1]; max > 0 {
		min := values[0]
		if min < 0 {
			min = 0
		}
		ecc = 1 - min/max
	}

	return Orientation{Normal: normal, Eccentricity: clamp01(float32(ecc))}
}
