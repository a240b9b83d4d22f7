package brute

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gijs-s/pointctl/cache"
	"github.com/gijs-s/pointctl/index"
	"github.com/gijs-s/pointctl/pointset"
)

func testSet(t *testing.T) *pointset.PointSet {
	t.Helper()
	ps, err := pointset.New([][]float32{
		{0, 0, 0},
		{1, 0, 0},
		{0, 1, 0},
		{0, 0, 1},
		{10, 10, 10},
	})
	require.NoError(t, err)
	return ps
}

func TestNewEmpty(t *testing.T) {
	_, err := New(nil)
	assert.ErrorIs(t, err, index.ErrEmptyDataset)
}

func TestQueryRadius(t *testing.T) {
	x, err := New(testSet(t))
	require.NoError(t, err)

	nh, err := x.QueryRadius(0, 1.5)
	require.NoError(t, err)

	// Exactly the three unit-axis points; never the query point itself.
	assert.Equal(t, []uint32{1, 2, 3}, sortedIndices(nh))
	for _, nb := range nh {
		assert.InDelta(t, 1.0, nb.Distance, 1e-6)
	}

	// Distances are ascending.
	for i := 1; i < len(nh); i++ {
		assert.LessOrEqual(t, nh[i-1].Distance, nh[i].Distance)
	}
}

func TestQueryRadiusZero(t *testing.T) {
	x, err := New(testSet(t))
	require.NoError(t, err)

	nh, err := x.QueryRadius(0, 0)
	require.NoError(t, err)
	assert.Empty(t, nh)
}

func TestQueryRadiusInvalid(t *testing.T) {
	x, err := New(testSet(t))
	require.NoError(t, err)

	var invalid *index.ErrInvalidRadius
	_, err = x.QueryRadius(0, -1)
	assert.ErrorAs(t, err, &invalid)

	_, err = x.QueryRadius(0, float32(math.NaN()))
	assert.ErrorAs(t, err, &invalid)
}

func TestQueryKNN(t *testing.T) {
	x, err := New(testSet(t))
	require.NoError(t, err)

	nh, err := x.QueryKNN(0, 3)
	require.NoError(t, err)
	assert.Len(t, nh, 3)
	assert.Equal(t, []uint32{1, 2, 3}, sortedIndices(nh))

	// k larger than the set: everything except the query point.
	nh, err = x.QueryKNN(0, 100)
	require.NoError(t, err)
	assert.Len(t, nh, 4)
	assert.Equal(t, uint32(4), nh[3].Index)
}

func TestQueryKNNInvalidK(t *testing.T) {
	x, err := New(testSet(t))
	require.NoError(t, err)

	_, err = x.QueryKNN(0, 0)
	assert.ErrorIs(t, err, index.ErrInvalidK)
}

func TestQueryOutOfRange(t *testing.T) {
	x, err := New(testSet(t))
	require.NoError(t, err)

	var rangeErr *index.ErrIndexRange
	_, err = x.QueryKNN(99, 1)
	assert.ErrorAs(t, err, &rangeErr)

	_, err = x.QueryRadius(99, 1)
	assert.ErrorAs(t, err, &rangeErr)
}

func TestQueryWithCache(t *testing.T) {
	distances, err := cache.New(1024)
	require.NoError(t, err)

	plain, err := New(testSet(t))
	require.NoError(t, err)
	cached, err := New(testSet(t), func(o *Options) {
		o.Cache = distances
	})
	require.NoError(t, err)

	for i := uint32(0); i < 5; i++ {
		want, err := plain.QueryRadius(i, 2)
		require.NoError(t, err)
		got, err := cached.QueryRadius(i, 2)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	assert.Greater(t, distances.Len(), 0)
}

func sortedIndices(nh index.Neighborhood) []uint32 {
	out := nh.Indices()
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j] < out[j-1]; j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out
}
