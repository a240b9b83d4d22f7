// Package math32 provides float32 vector kernels shared by the distance
// package. External users should go through the distance package.
package math32

import "math"

// SquaredL2 calculates the squared L2 distance between two vectors.
// Assumes equal length (caller's responsibility).
func SquaredL2(a, b []float32) float32 {
	var dist float32
	for i := range a {
		d := a[i] - b[i]
		dist += d * d
	}

	return dist
}

// Sqrt returns the square root of x.
func Sqrt(x float32) float32 {
	return float32(math.Sqrt(float64(x)))
}
