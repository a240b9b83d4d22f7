package explain

import (
	"sort"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/gijs-s/pointctl/index"
	"github.com/gijs-s/pointctl/pointset"
)

// DefaultTheta is the default fraction of neighborhood variance a
// dimensionality estimate must cover.
const DefaultTheta float32 = 0.95

// Dimensionality is the local intrinsic dimensionality explanation for one
// point: how many latent variables cover theta of the neighborhood's
// variance, and a confidence in [0,1] for that count.
type Dimensionality struct {
	Dimensions int
	Confidence float32
}

// DimensionalityMechanism estimates local intrinsic dimensionality from the
// eigenvalue spectrum of the original-space neighborhood covariance. Low
// counts mark regions the projection can explain with few latent variables.
type DimensionalityMechanism struct {
	original *pointset.PointSet
	theta    float64
}

// NewDimensionalityMechanism creates a dimensionality mechanism over the
// original point set. Theta <= 0 selects DefaultTheta.
func NewDimensionalityMechanism(original *pointset.PointSet, theta float32) *DimensionalityMechanism {
	if theta <= 0 {
		theta = DefaultTheta
	}
	return &DimensionalityMechanism{original: original, theta: float64(theta)}
}

// Explain estimates the dimensionality of point i's neighborhood: the
// smallest number of covariance eigenvalues whose cumulative share of the
// total variance reaches theta. The confidence is 1 minus the share of the
// total taken by those eigenvalues' deviation from the mean eigenvalue.
// Degenerate neighborhoods yield dimensionality 1 with confidence 0.
func (m *DimensionalityMechanism) Explain(i uint32, nh index.Neighborhood) Dimensionality {
	degenerate := Dimensionality{Dimensions: 1}
	if len(nh) < 2 {
		return degenerate
	}

	dim := m.original.Dim()
	obs := mat.NewDense(len(nh), dim, nil)
	for r, nb := range nh {
		for d, v := range m.original.At(nb.Index) {
			obs.Set(r, d, float64(v))
		}
	}

	var cov mat.SymDense
	stat.CovarianceMatrix(&cov, obs, nil)

	var eig mat.EigenSym
	if !eig.Factorize(&cov, false) {
		return degenerate
	}

	values := eig.Values(nil)
	var total float64
	for j, v := range values {
		if v < 0 {
			v = -v
		}
		values[j] = v
		total += v
	}
	if total <= 0 {
		return degenerate
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(values)))

	dims := len(values)
	cum := 0.0
	for j, v := range values {
		cum += v
		if cum/total >= m.theta {
			dims = j + 1
			break
		}
	}

	mean := total / float64(len(values))
	var deviation float64
	for _, v := range values[:dims] {
		if d := v - mean; d < 0 {
			deviation -= d
		} else {
			deviation += d
		}
	}

	return Dimensionality{
		Dimensions: dims,
		Confidence: clamp01(float32(1 - deviation/total)),
	}
}
