package hnsw

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gijs-s/pointctl/index"
	"github.com/gijs-s/pointctl/index/brute"
	"github.com/gijs-s/pointctl/pointset"
	"github.com/gijs-s/pointctl/testutil"
)

func TestNewEmpty(t *testing.T) {
	_, err := New(nil)
	assert.ErrorIs(t, err, index.ErrEmptyDataset)
}

func TestNoRadiusCapability(t *testing.T) {
	ps, err := pointset.New([][]float32{{0, 0}, {1, 1}})
	require.NoError(t, err)

	h, err := New(ps)
	require.NoError(t, err)

	// Radius querying is a capability HNSW does not have; callers must
	// discover that through the type system, not a runtime error.
	_, ok := any(h).(index.RadiusQuerier)
	assert.False(t, ok)
}

func TestQueryKNNRecall(t *testing.T) {
	tests := []struct {
		name      string
		size      int
		dim       int
		m         int
		ef        int
		k         int
		precision float64
	}{
		{name: "2d", size: 1000, dim: 2, m: 16, ef: 200, k: 10, precision: 0.95},
		{name: "16d", size: 1000, dim: 16, m: 16, ef: 200, k: 10, precision: 0.9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rng := testutil.NewRNG(3)
			ps, err := pointset.New(rng.Rows(tt.size, tt.dim, 1))
			require.NoError(t, err)

			h, err := New(ps, func(o *Options) {
				o.M = tt.m
				o.EF = tt.ef
				o.Seed = 1
			})
			require.NoError(t, err)

			baseline, err := brute.New(ps)
			require.NoError(t, err)

			hits, total := 0, 0
			for i := 0; i < ps.Len(); i += 19 {
				want, err := baseline.QueryKNN(uint32(i), tt.k)
				require.NoError(t, err)
				got, err := h.QueryKNN(uint32(i), tt.k)
				require.NoError(t, err)

				exact := make(map[uint32]struct{}, len(want))
				for _, nb := range want {
					exact[nb.Index] = struct{}{}
				}
				for _, nb := range got {
					if _, ok := exact[nb.Index]; ok {
						hits++
					}
				}
				total += len(want)
			}

			recall := float64(hits) / float64(total)
			assert.GreaterOrEqual(t, recall, tt.precision, "recall %.3f", recall)
		})
	}
}

func TestDeterministicBuild(t *testing.T) {
	rng := testutil.NewRNG(5)
	rows := rng.Rows(500, 4, 1)

	build := func() *Index {
		ps, err := pointset.New(rows)
		require.NoError(t, err)
		h, err := New(ps, func(o *Options) {
			o.Seed = 99
		})
		require.NoError(t, err)
		return h
	}

	a, b := build(), build()
	for i := 0; i < 500; i += 29 {
		got1, err := a.QueryKNN(uint32(i), 5)
		require.NoError(t, err)
		got2, err := b.QueryKNN(uint32(i), 5)
		require.NoError(t, err)
		assert.Equal(t, got1, got2)
	}
}

func TestQueryErrors(t *testing.T) {
	ps, err := pointset.New([][]float32{{0, 0}, {1, 1}})
	require.NoError(t, err)

	h, err := New(ps)
	require.NoError(t, err)

	_, err = h.QueryKNN(0, 0)
	assert.ErrorIs(t, err, index.ErrInvalidK)

	var rangeErr *index.ErrIndexRange
	_, err = h.QueryKNN(9, 1)
	assert.ErrorAs(t, err, &rangeErr)
}
