package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDistance(t *testing.T) {
	c, err := New(16)
	require.NoError(t, err)

	calls := 0
	compute := func() float32 {
		calls++
		return 1.5
	}

	assert.Equal(t, float32(1.5), c.Distance(1, 2, compute))
	assert.Equal(t, float32(1.5), c.Distance(1, 2, compute))
	assert.Equal(t, 1, calls)
}

func TestPairUnordered(t *testing.T) {
	c, err := New(16)
	require.NoError(t, err)

	c.Distance(3, 7, func() float32 { return 2 })

	// Reversed pair hits the same entry.
	got := c.Distance(7, 3, func() float32 {
		t.Fatal("compute called for cached pair")
		return 0
	})
	assert.Equal(t, float32(2), got)
	assert.Equal(t, 1, c.Len())
}

func TestEviction(t *testing.T) {
	c, err := New(2)
	require.NoError(t, err)

	c.Distance(0, 1, func() float32 { return 1 })
	c.Distance(0, 2, func() float32 { return 2 })
	c.Distance(0, 3, func() float32 { return 3 })

	assert.Equal(t, 2, c.Len())

	// The oldest pair was evicted and is recomputed.
	calls := 0
	c.Distance(0, 1, func() float32 {
		calls++
		return 1
	})
	assert.Equal(t, 1, calls)
}

func TestDefaultSize(t *testing.T) {
	c, err := New(0)
	require.NoError(t, err)
	assert.NotNil(t, c)
}
