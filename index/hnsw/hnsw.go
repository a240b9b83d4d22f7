// Package hnsw implements the Hierarchical Navigable Small World graph for
// approximate k-nearest-neighbor search. The graph is built once over the
// full point set; build cost dominates total runtime on large sets because
// every insertion walks the graph and re-prunes edges on the way down.
//
// HNSW answers k-NN queries only. Exact-radius semantics are not offered:
// graph navigation gives no containment guarantee, so the variant does not
// implement index.RadiusQuerier.
package hnsw

import (
	"math"
	"math/rand"
	"sync"

	"github.com/gijs-s/pointctl/distance"
	"github.com/gijs-s/pointctl/index"
	"github.com/gijs-s/pointctl/internal/queue"
	"github.com/gijs-s/pointctl/internal/visited"
	"github.com/gijs-s/pointctl/pointset"
)

const (
	// DefaultM is the default number of bidirectional links per node.
	DefaultM = 16

	// DefaultEF is the default size of the dynamic candidate list.
	DefaultEF = 200

	minimumM = 2

	// mmax0Multiplier is the multiplier for maximum connections at layer 0.
	mmax0Multiplier = 2
)

// Compile-time check: k-NN capability only.
var _ index.Index = (*Index)(nil)

// Options represents the options for configuring the HNSW index.
type Options struct {
	// M is the number of bidirectional links created per node.
	M int

	// EF is the size of the dynamic candidate list during build and search.
	EF int

	// Seed drives layer assignment; a fixed seed makes the build, and
	// therefore every query answer, reproducible.
	Seed int64

	// Distance is the distance function used for graph navigation.
	Distance distance.Func
}

// DefaultOptions contains the default configuration options for HNSW.
var DefaultOptions = Options{
	M:        DefaultM,
	EF:       DefaultEF,
	Distance: distance.L2,
}

type node struct {
	level int
	// conns[l] holds the neighbor indices at layer l, 0 <= l <= level.
	conns [][]uint32
}

// Index is a built HNSW graph over a fixed point set. Immutable after New
// and safe for concurrent queries.
type Index struct {
	points *pointset.PointSet
	dist   distance.Func
	opts   Options

	nodes    []node
	entry    uint32
	maxLevel int

	maxConns       int
	maxConnsLayer0 int
	levelMult      float64

	minQueuePool *sync.Pool
	maxQueuePool *sync.Pool
	visitedPool  *sync.Pool
}

// New builds an HNSW graph over ps by inserting every point in index order.
func New(ps *pointset.PointSet, optFns ...func(o *Options)) (*Index, error) {
	opts := DefaultOptions
	for _, fn := range optFns {
		fn(&opts)
	}

	if ps == nil || ps.Len() == 0 {
		return nil, index.ErrEmptyDataset
	}
	if opts.M < minimumM {
		opts.M = minimumM
	}
	if opts.EF <= 0 {
		opts.EF = DefaultEF
	}
	if opts.Distance == nil {
		opts.Distance = distance.L2
	}

	h := &Index{
		points:         ps,
		dist:           opts.Distance,
		opts:           opts,
		nodes:          make([]node, ps.Len()),
		maxConns:       opts.M,
		maxConnsLayer0: mmax0Multiplier * opts.M,
		levelMult:      1.0 / math.Log(float64(opts.M)),
		minQueuePool: &sync.Pool{
			New: func() any { return queue.NewMin(opts.EF) },
		},
		maxQueuePool: &sync.Pool{
			New: func() any { return queue.NewMax(opts.EF) },
		},
		visitedPool: &sync.Pool{
			New: func() any { return visited.New(ps.Len()) },
		},
	}

	rng := rand.New(rand.NewSource(opts.Seed))
	for i := 0; i < ps.Len(); i++ {
		level := int(math.Floor(-math.Log(1-rng.Float64()) * h.levelMult))
		h.insert(uint32(i), level)
	}

	return h, nil
}

// Kind returns the algorithm identifier.
func (h *Index) Kind() index.Kind { return index.KindHNSW }

// Len returns the number of indexed points.
func (h *Index) Len() int { return h.points.Len() }

func (h *Index) insert(id uint32, level int) {
	n := &h.nodes[id]
	n.level = level
	n.conns = make([][]uint32, level+1)

	if id == 0 {
		h.entry = id
		h.maxLevel = level
		return
	}

	q := h.points.At(id)
	currID := h.entry
	currDist := h.dist(q, h.points.At(currID))

	// Greedy descent through the layers above the new node's level.
	for l := h.maxLevel; l > level; l-- {
		currID, currDist = h.greedyStep(q, currID, currDist, l)
	}

	// Search and link from min(level, maxLevel) down to 0.
	for l := min(level, h.maxLevel); l >= 0; l-- {
		results := h.searchLayer(q, currID, currDist, l, h.opts.EF)

		if best, ok := minItem(results); ok {
			currID = best.Index
			currDist = best.Distance
		}

		maxConns := h.maxConns
		if l == 0 {
			maxConns = h.maxConnsLayer0
		}

		neighbors := h.selectNeighbors(results, maxConns)
		results.Reset()
		h.maxQueuePool.Put(results)

		n.conns[l] = neighbors
		for _, nb := range neighbors {
			h.connect(nb, id, l, maxConns)
		}
	}

	if level > h.maxLevel {
		h.maxLevel = level
		h.entry = id
	}
}

// greedyStep walks layer l until no connection improves on the current
// candidate.
func (h *Index) greedyStep(q []float32, currID uint32, currDist float32, l int) (uint32, float32) {
	for changed := true; changed; {
		changed = false
		for _, next := range h.connsAt(currID, l) {
			if d := h.dist(q, h.points.At(next)); d < currDist {
				currID, currDist = next, d
				changed = true
			}
		}
	}
	return currID, currDist
}

func (h *Index) connsAt(id uint32, l int) []uint32 {
	n := &h.nodes[id]
	if l > n.level {
		return nil
	}
	return n.conns[l]
}

// connect adds a backlink from nb to id at layer l, pruning to maxConns by
// keeping the closest.
func (h *Index) connect(nb, id uint32, l, maxConns int) {
	conns := h.connsAt(nb, l)
	for _, c := range conns {
		if c == id {
			return
		}
	}

	if len(conns) < maxConns {
		h.nodes[nb].conns[l] = append(conns, id)
		return
	}

	// Over capacity: keep the maxConns closest.
	v := h.points.At(nb)
	pq := h.maxQueuePool.Get().(*queue.Heap)
	pq.Reset()
	defer h.maxQueuePool.Put(pq)

	for _, c := range conns {
		pq.Push(queue.Item{Index: c, Distance: h.dist(v, h.points.At(c))})
	}
	pq.Push(queue.Item{Index: id, Distance: h.dist(v, h.points.At(id))})
	for pq.Len() > maxConns {
		pq.Pop()
	}

	pruned := make([]uint32, 0, maxConns)
	for _, it := range pq.DrainAscending() {
		pruned = append(pruned, it.Index)
	}
	h.nodes[nb].conns[l] = pruned
}

// searchLayer explores layer l with a dynamic candidate list of size ef.
// The returned max-heap is owned by the caller and must be put back into
// maxQueuePool after use.
func (h *Index) searchLayer(q []float32, epID uint32, epDist float32, l, ef int) *queue.Heap {
	seen := h.visitedPool.Get().(*visited.Set)
	seen.Reset()
	defer h.visitedPool.Put(seen)

	candidates := h.minQueuePool.Get().(*queue.Heap)
	candidates.Reset()
	defer func() {
		candidates.Reset()
		h.minQueuePool.Put(candidates)
	}()

	results := h.maxQueuePool.Get().(*queue.Heap)
	results.Reset()

	seen.Visit(epID)
	candidates.Push(queue.Item{Index: epID, Distance: epDist})
	results.Push(queue.Item{Index: epID, Distance: epDist})

	for candidates.Len() > 0 {
		curr, _ := candidates.Pop()

		if worst, ok := results.Top(); ok && curr.Distance > worst.Distance && results.Len() >= ef {
			break
		}

		for _, next := range h.connsAt(curr.Index, l) {
			if seen.Visited(next) {
				continue
			}
			seen.Visit(next)

			d := h.dist(q, h.points.At(next))
			if worst, ok := results.Top(); ok && results.Len() >= ef && d > worst.Distance {
				continue
			}

			candidates.Push(queue.Item{Index: next, Distance: d})
			results.Push(queue.Item{Index: next, Distance: d})
			if results.Len() > ef {
				results.Pop()
			}
		}
	}

	return results
}

// selectNeighbors keeps the m closest candidates.
func (h *Index) selectNeighbors(results *queue.Heap, m int) []uint32 {
	for results.Len() > m {
		results.Pop()
	}

	out := make([]uint32, 0, results.Len())
	for _, it := range results.DrainAscending() {
		out = append(out, it.Index)
	}
	return out
}

func minItem(results *queue.Heap) (queue.Item, bool) {
	// results is a max-heap; scan for the minimum without disturbing it.
	best := queue.Item{Distance: float32(math.Inf(1))}
	found := false
	for _, it := range results.DrainAscending() {
		if !found || it.Distance < best.Distance {
			best = it
			found = true
		}
		results.Push(it)
	}
	return best, found
}

// QueryKNN returns up to k approximate nearest neighbors of point i,
// excluding i itself.
func (h *Index) QueryKNN(i uint32, k int) (index.Neighborhood, error) {
	if k <= 0 {
		return nil, index.ErrInvalidK
	}
	if int(i) >= h.points.Len() {
		return nil, &index.ErrIndexRange{Index: i, Len: h.points.Len()}
	}

	q := h.points.At(i)

	// k+1 candidates because the query point is in its own graph.
	ef := h.opts.EF
	if ef < k+1 {
		ef = k + 1
	}

	currID := h.entry
	currDist := h.dist(q, h.points.At(currID))
	for l := h.maxLevel; l > 0; l-- {
		currID, currDist = h.greedyStep(q, currID, currDist, l)
	}

	results := h.searchLayer(q, currID, currDist, 0, ef)
	defer func() {
		results.Reset()
		h.maxQueuePool.Put(results)
	}()

	nh := make(index.Neighborhood, 0, k)
	for _, it := range results.DrainAscending() {
		if it.Index == i {
			continue
		}
		if len(nh) == k {
			break
		}
		nh = append(nh, index.Neighbor{Index: it.Index, Distance: it.Distance})
	}

	return nh, nil
}
