// Package distance provides the distance calculations used by the spatial
// indexes. All functions assume equal-length inputs; dimensionality is
// enforced once at point-set construction, not per call.
package distance

import (
	"github.com/gijs-s/pointctl/internal/math32"
)

// Func is a function type for distance calculation between two points.
// The index Options take a Func directly; any metric with ascending
// nearness ordering works.
type Func func(a, b []float32) float32

// SquaredL2 calculates the squared L2 (Euclidean) distance between two points.
func SquaredL2(a, b []float32) float32 {
	return math32.SquaredL2(a, b)
}

// L2 calculates the L2 (Euclidean) distance between two points.
func L2(a, b []float32) float32 {
	return math32.Sqrt(math32.SquaredL2(a, b))
}
