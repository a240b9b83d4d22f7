// Package queue provides a value-based binary heap keyed by distance, used by
// the index implementations for candidate and result ordering.
package queue

// Item is a (point index, distance) pair held by the heap.
type Item struct {
	Index    uint32
	Distance float32
}

// Heap is a distance-ordered binary heap of Items.
// Value-based storage keeps traversal allocation-free.
type Heap struct {
	max   bool
	items []Item
}

// NewMin creates a min-heap (closest on top) with the given capacity hint.
func NewMin(capacity int) *Heap {
	return &Heap{items: make([]Item, 0, capacity)}
}

// NewMax creates a max-heap (farthest on top) with the given capacity hint.
func NewMax(capacity int) *Heap {
	return &Heap{max: true, items: make([]Item, 0, capacity)}
}

// Len returns the number of items on the heap.
func (h *Heap) Len() int { return len(h.items) }

// Reset empties the heap, keeping the backing storage.
func (h *Heap) Reset() { h.items = h.items[:0] }

// Top returns the root item without removing it.
func (h *Heap) Top() (Item, bool) {
	if len(h.items) == 0 {
		return Item{}, false
	}
	return h.items[0], true
}

// Push inserts an item while maintaining the heap invariant.
func (h *Heap) Push(item Item) {
	h.items = append(h.items, item)
	h.siftUp(len(h.items) - 1)
}

// Pop removes and returns the root item.
func (h *Heap) Pop() (Item, bool) {
	n := len(h.items)
	if n == 0 {
		return Item{}, false
	}

	root := h.items[0]
	last := h.items[n-1]
	h.items = h.items[:n-1]
	if n-1 > 0 {
		h.items[0] = last
		h.siftDown(0)
	}

	return root, true
}

// DrainAscending pops every item and returns them ordered by increasing
// distance. Works for both min- and max-heaps.
func (h *Heap) DrainAscending() []Item {
	out := make([]Item, h.Len())
	if h.max {
		// Max-heap pops farthest first; fill back to front.
		for i := len(out) - 1; i >= 0; i-- {
			out[i], _ = h.Pop()
		}
	} else {
		for i := range out {
			out[i], _ = h.Pop()
		}
	}
	return out
}

func (h *Heap) less(i, j int) bool {
	if h.max {
		return h.items[i].Distance > h.items[j].Distance
	}
	return h.items[i].Distance < h.items[j].Distance
}

func (h *Heap) siftUp(i int) {
	for i > 0 {
		p := (i - 1) / 2
		if !h.less(i, p) {
			return
		}
		h.items[i], h.items[p] = h.items[p], h.items[i]
		i = p
	}
}

func (h *Heap) siftDown(i int) {
	n := len(h.items)
	for {
		l := 2*i + 1
		if l >= n {
			return
		}
		best := l
		if r := l + 1; r < n && h.less(r, l) {
			best = r
		}
		if !h.less(best, i) {
			return
		}
		h.items[i], h.items[best] = h.items[best], h.items[i]
		i = best
	}
}
