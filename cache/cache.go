// Package cache provides a run-scoped memoization layer for pairwise point
// distances. A cache is created per run, shared by that run's queries, and
// discarded with the run; it is never process-wide.
package cache

import (
	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultSize is the default number of cached pairs.
const DefaultSize = 1 << 20

// Distances memoizes distances keyed by the unordered pair of point
// indices. Safe for concurrent use.
type Distances struct {
	lru *lru.Cache[uint64, float32]
}

// New creates a distance cache holding at most size pairs.
func New(size int) (*Distances, error) {
	if size <= 0 {
		size = DefaultSize
	}
	c, err := lru.New[uint64, float32](size)
	if err != nil {
		return nil, err
	}
	return &Distances{lru: c}, nil
}

// Distance returns the cached distance for the pair (i, j), computing and
// storing it via compute on a miss.
func (d *Distances) Distance(i, j uint32, compute func() float32) float32 {
	key := pairKey(i, j)
	if v, ok := d.lru.Get(key); ok {
		return v
	}
	v := compute()
	d.lru.Add(key, v)
	return v
}

// Len returns the number of cached pairs.
func (d *Distances) Len() int { return d.lru.Len() }

// pairKey packs an unordered index pair into a single key.
func pairKey(i, j uint32) uint64 {
	if i > j {
		i, j = j, i
	}
	return uint64(i)<<32 | uint64(j)
}
