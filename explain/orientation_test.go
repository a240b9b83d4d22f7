package explain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gijs-s/pointctl/pointset"
)

func TestOrientationFlatSheet(t *testing.T) {
	// Points spread in the z=0 plane: the normal must point along z and the
	// neighborhood is maximally eccentric.
	reduced, err := pointset.New([][]float32{
		{0, 0, 0},
		{1, 0, 0},
		{0, 1, 0},
		{1, 1, 0},
		{2, 1, 0},
		{1, 2, 0},
	})
	require.NoError(t, err)

	m := NewOrientationMechanism(reduced)
	o := m.Explain(0, neighborhoodOf(1, 2, 3, 4, 5))

	require.Len(t, o.Normal, 3)
	assert.InDelta(t, 1.0, math.Abs(float64(o.Normal[2])), 1e-6)
	assert.InDelta(t, 1.0, float64(o.Eccentricity), 1e-6)
}

func TestOrientationIsotropic2D(t *testing.T) {
	// A symmetric cross around the query point has equal spread in both
	// axes: eccentricity stays low.
	reduced, err := pointset.New([][]float32{
		{0, 0},
		{1, 0},
		{-1, 0},
		{0, 1},
		{0, -1},
	})
	require.NoError(t, err)

	m := NewOrientationMechanism(reduced)
	o := m.Explain(0, neighborhoodOf(1, 2, 3, 4))

	require.Len(t, o.Normal, 2)
	assert.InDelta(t, 0, float64(o.Eccentricity), 1e-6)
}

func TestOrientationDegenerate(t *testing.T) {
	reduced, err := pointset.New([][]float32{
		{0, 0, 0},
		{1, 1, 1},
	})
	require.NoError(t, err)

	m := NewOrientationMechanism(reduced)

	o := m.Explain(0, nil)
	assert.Equal(t, []float32{0, 0, 0}, o.Normal)
	assert.Equal(t, float32(0), o.Eccentricity)

	o = m.Explain(0, neighborhoodOf(1))
	assert.Equal(t, float32(0), o.Eccentricity)
}
