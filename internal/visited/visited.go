// Package visited tracks which point indices a graph traversal has already
// seen, using a bitset plus a dirty list for O(visited) reset.
package visited

// Set tracks visited point indices.
type Set struct {
	bits  []uint64
	dirty []uint32
}

// New creates a set sized for the given number of points.
func New(capacity int) *Set {
	return &Set{
		bits:  make([]uint64, (capacity+63)/64),
		dirty: make([]uint32, 0, 128),
	}
}

// Visit marks an index as visited.
func (s *Set) Visit(i uint32) {
	word := int(i >> 6)
	mask := uint64(1) << (i & 63)

	if word >= len(s.bits) {
		s.grow(word + 1)
	}

	if s.bits[word]&mask == 0 {
		s.bits[word] |= mask
		s.dirty = append(s.dirty, i)
	}
}

// Visited reports whether the index has been visited.
func (s *Set) Visited(i uint32) bool {
	word := int(i >> 6)
	if word >= len(s.bits) {
		return false
	}
	return s.bits[word]&(uint64(1)<<(i&63)) != 0
}

// Reset clears every index visited since the last reset.
func (s *Set) Reset() {
	for _, i := range s.dirty {
		s.bits[i>>6] &^= uint64(1) << (i & 63)
	}
	s.dirty = s.dirty[:0]
}

func (s *Set) grow(words int) {
	grown := make([]uint64, words)
	copy(grown, s.bits)
	s.bits = grown
}
