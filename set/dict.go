package set

import (
	"go.uber.org/zap"
)

type entry[K any] struct {
	key  K
	next *entry[K]
}

func newTable[K any](capacity int) []*entry[K] {
	return make([]*entry[K], capacity)
}

func (s *Set[K]) bucketIndex(key K) int {
	return int(s.hash(key) % uint64(s.capacity))
}

// locate returns the entry holding key, or nil.
func (s *Set[K]) locate(key K) *entry[K] {
	for curr := s.table[s.bucketIndex(key)]; curr != nil; curr = curr.next {
		if s.equal(curr.key, key) {
			return curr
		}
	}
	return nil
}

// add links a new entry for key at the head of its bucket. The caller has
// already checked that key is absent and reserved room for it.
func (s *Set[K]) add(key K) (*entry[K], int) {
	index := s.bucketIndex(key)
	e := &entry[K]{key: key, next: s.table[index]}
	s.table[index] = e
	s.size++
	return e, index
}

// reserve grows the table when holding n keys would exceed the load factor.
func (s *Set[K]) reserve(n int) {
	if float64(n) > s.maxLoadFactor*float64(s.capacity) {
		s.rehash(n)
	}
}

// rehash moves every entry into a table of max(n, 2*capacity) buckets.
// Entries are relinked in place, none is reallocated.
func (s *Set[K]) rehash(n int) {
	newCapacity := max(n, s.capacity*2)
	table := newTable[K](newCapacity)

	for _, curr := range s.table {
		for curr != nil {
			next := curr.next
			index := int(s.hash(curr.key) % uint64(newCapacity))
			curr.next = table[index]
			table[index] = curr
			curr = next
		}
	}

	s.logger.Debug("rehash",
		zap.Int("from", s.capacity),
		zap.Int("to", newCapacity),
		zap.Int("size", s.size),
	)
	s.table = table
	s.capacity = newCapacity
	s.rehashes++
}

// unlink removes the entry holding key from its chain.
func (s *Set[K]) unlink(key K) bool {
	index := s.bucketIndex(key)
	var prev *entry[K]
	for curr := s.table[index]; curr != nil; curr = curr.next {
		if !s.equal(curr.key, key) {
			prev = curr
			continue
		}
		if prev == nil {
			s.table[index] = curr.next
		} else {
			prev.next = curr.next
		}
		curr.next = nil
		s.size--
		return true
	}
	return false
}

// release drops the table and every entry reachable from it.
func (s *Set[K]) release() {
	s.table = nil
	s.capacity = 0
	s.size = 0
}
