package executor

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewInvalidWorkerCount(t *testing.T) {
	_, err := New(-1)
	assert.ErrorIs(t, err, ErrInvalidWorkerCount)
}

func TestNewDefaultsToHardwareParallelism(t *testing.T) {
	p, err := New(0)
	require.NoError(t, err)
	assert.Greater(t, p.Workers(), 0)
}

func TestRunCoversEveryIndexOnce(t *testing.T) {
	for _, workers := range []int{1, 2, 3, 7, 16} {
		p, err := New(workers)
		require.NoError(t, err)

		const n = 1000
		results := make([]int32, n)
		err = p.Run(context.Background(), n, func(i uint32) error {
			atomic.AddInt32(&results[i], 1)
			return nil
		})
		require.NoError(t, err)

		for i, count := range results {
			require.Equal(t, int32(1), count, "workers=%d index=%d", workers, i)
		}

		done, total := p.Progress()
		assert.Equal(t, int64(n), done)
		assert.Equal(t, int64(n), total)
	}
}

func TestRunMoreWorkersThanPoints(t *testing.T) {
	p, err := New(32)
	require.NoError(t, err)

	var count atomic.Int32
	err = p.Run(context.Background(), 5, func(i uint32) error {
		count.Add(1)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, int32(5), count.Load())
}

func TestRunEmpty(t *testing.T) {
	p, err := New(4)
	require.NoError(t, err)

	err = p.Run(context.Background(), 0, func(i uint32) error {
		t.Fatal("task called for empty range")
		return nil
	})
	require.NoError(t, err)

	done, total := p.Progress()
	assert.Equal(t, int64(0), done)
	assert.Equal(t, int64(0), total)
}

func TestRunPropagatesTaskError(t *testing.T) {
	p, err := New(4)
	require.NoError(t, err)

	sentinel := errors.New("boom")
	err = p.Run(context.Background(), 100, func(i uint32) error {
		if i == 42 {
			return sentinel
		}
		return nil
	})
	assert.ErrorIs(t, err, sentinel)
}

func TestRunCancellation(t *testing.T) {
	p, err := New(2)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err = p.Run(ctx, 10_000, func(i uint32) error {
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
}
