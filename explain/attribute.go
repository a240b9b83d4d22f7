package explain

import (
	"gonum.org/v1/gonum/stat"

	"github.com/gijs-s/pointctl/index"
	"github.com/gijs-s/pointctl/pointset"
)

// AttributeMechanism produces per-point annotations from original-space
// neighborhoods by ranking attributes on their local variance relative to
// the global variance.
//
// For point p with neighborhood H (p included in the statistic):
//
//	contribution_j = localVar_j(H) / globalVar_j
//
// contributions are normalized to sum 1, the category is the attribute with
// the highest contribution and the confidence is the normalized gap between
// the top contribution and the runner-up.
type AttributeMechanism struct {
	original *pointset.PointSet

	// globalVar[j] is the variance of attribute j over the full set.
	globalVar []float64
}

// NewAttributeMechanism precomputes the global per-attribute variances.
func NewAttributeMechanism(original *pointset.PointSet) *AttributeMechanism {
	dim := original.Dim()

	globalVar := make([]float64, dim)
	col := make([]float64, original.Len())
	var buf []float32
	for j := 0; j < dim; j++ {
		buf = original.Column(j, buf)
		for i, v := range buf {
			col[i] = float64(v)
		}
		globalVar[j] = stat.PopVariance(col, nil)
	}

	return &AttributeMechanism{original: original, globalVar: globalVar}
}

// Explain computes the annotation for point i with the given bounded
// neighborhood. Neighborhoods of size 0 or 1 yield (none, 0).
func (m *AttributeMechanism) Explain(i uint32, nh index.Neighborhood) Annotation {
	if len(nh) <= 1 {
		return Annotation{Category: CategoryNone}
	}

	dim := m.original.Dim()
	contributions := make([]float64, dim)

	// Local variance per attribute over the neighborhood plus the point
	// itself, relative to the global variance of that attribute.
	values := make([]float64, 0, len(nh)+1)
	var sum float64
	for j := 0; j < dim; j++ {
		values = values[:0]
		values = append(values, float64(m.original.At(i)[j]))
		for _, nb := range nh {
			values = append(values, float64(m.original.At(nb.Index)[j]))
		}

		if m.globalVar[j] > 0 {
			contributions[j] = stat.PopVariance(values, nil) / m.globalVar[j]
		}
		sum += contributions[j]
	}

	if sum <= 0 {
		return Annotation{Category: CategoryNone}
	}
	for j := range contributions {
		contributions[j] /= sum
	}

	top, second := topTwo(contributions)
	if contributions[top] == contributions[second] {
		// No attribute stands out.
		return Annotation{Category: CategoryNone}
	}

	confidence := (contributions[top] - contributions[second]) / contributions[top]
	return Annotation{
		Category:   int32(top),
		Confidence: clamp01(float32(confidence)),
	}
}

// topTwo returns the indices of the largest and second-largest values.
// Assumes len(v) >= 1; for a single attribute both indices are 0, which the
// caller treats as a tie.
func topTwo(v []float64) (top, second int) {
	if len(v) == 1 {
		return 0, 0
	}

	top, second = 0, 1
	if v[second] > v[top] {
		top, second = second, top
	}
	for j := 2; j < len(v); j++ {
		switch {
		case v[j] > v[top]:
			top, second = j, top
		case v[j] > v[second]:
			second = j
		}
	}
	return top, second
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
