// Package index defines the spatial index capability set shared by the
// brute-force, R-tree and HNSW variants, plus the neighborhood types their
// queries produce.
package index

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyDataset is returned when an index is built over zero points.
	ErrEmptyDataset = errors.New("index: empty dataset")

	// ErrInvalidK is returned when k is not positive.
	ErrInvalidK = errors.New("index: k must be positive")
)

// ErrInvalidRadius is returned when a radius query receives a NaN or
// negative radius.
type ErrInvalidRadius struct {
	Radius float32
}

func (e *ErrInvalidRadius) Error() string {
	return fmt.Sprintf("index: invalid radius %v", e.Radius)
}

// ErrIndexRange is returned when a query references a point index outside
// the set the index was built over.
type ErrIndexRange struct {
	Index uint32
	Len   int
}

func (e *ErrIndexRange) Error() string {
	return fmt.Sprintf("index: point index %d out of range [0,%d)", e.Index, e.Len)
}

// Neighbor is a single query result: a point index and its distance to the
// query point.
type Neighbor struct {
	Index    uint32
	Distance float32
}

// Neighborhood is a distance-ordered (ascending) sequence of neighbors.
// The query point itself is never included.
type Neighborhood []Neighbor

// Indices returns just the point indices, in distance order.
func (n Neighborhood) Indices() []uint32 {
	out := make([]uint32, len(n))
	for i, nb := range n {
		out[i] = nb.Index
	}
	return out
}

// Kind identifies a spatial index algorithm.
type Kind int

const (
	KindBruteForce Kind = iota
	KindRTree
	KindHNSW
)

func (k Kind) String() string {
	switch k {
	case KindBruteForce:
		return "brute"
	case KindRTree:
		return "rtree"
	case KindHNSW:
		return "hnsw"
	default:
		return fmt.Sprintf("Unknown(%d)", int(k))
	}
}

// ParseKind parses an algorithm name as accepted on the configuration
// surface.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "brute", "bruteforce":
		return KindBruteForce, nil
	case "rtree", "r-tree":
		return KindRTree, nil
	case "hnsw":
		return KindHNSW, nil
	default:
		return 0, fmt.Errorf("index: unknown algorithm %q", s)
	}
}

// Index is the capability shared by every variant: k-nearest-neighbor
// queries against the fixed point set the index was built over. Queries are
// addressed by point index; the query point is excluded from its own
// neighborhood. Implementations are immutable after build and safe for
// concurrent queries.
type Index interface {
	Kind() Kind

	// Len returns the number of indexed points.
	Len() int

	// QueryKNN returns up to k nearest neighbors of point i.
	QueryKNN(i uint32, k int) (Neighborhood, error)
}

// RadiusQuerier is the optional exact-radius capability. The HNSW variant
// does not provide it: graph navigation gives no containment guarantee.
// Callers needing radius semantics type-assert rather than probe for a
// runtime error.
type RadiusQuerier interface {
	Index

	// QueryRadius returns all neighbors of point i within distance r.
	QueryRadius(i uint32, r float32) (Neighborhood, error)
}
