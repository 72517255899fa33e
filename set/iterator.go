package set

import "iter"

// Iterator is a forward cursor over the keys of a Set. Keys come in
// ascending bucket order and, within a bucket, most recently inserted first.
//
// An Iterator points into the table it was created from and is not updated
// when the set changes; after an insert, erase, clear, swap or assign its
// behaviour is unspecified.
type Iterator[K any] struct {
	e        *entry[K]
	table    []*entry[K]
	capacity int
	index    int
}

func (s *Set[K]) iteratorAt(e *entry[K], index int) Iterator[K] {
	return Iterator[K]{e: e, table: s.table, capacity: s.capacity, index: index}
}

// Begin returns an iterator at the first key, or End if the set is empty.
func (s *Set[K]) Begin() Iterator[K] {
	for index, head := range s.table {
		if head != nil {
			return s.iteratorAt(head, index)
		}
	}
	return s.End()
}

func (s *Set[K]) End() Iterator[K] {
	return s.iteratorAt(nil, s.capacity-1)
}

// Find returns an iterator at key, or End if key is absent.
func (s *Set[K]) Find(key K) Iterator[K] {
	return s.iteratorAt(s.locate(key), s.bucketIndex(key))
}

// All yields every key in iterator order.
func (s *Set[K]) All() iter.Seq[K] {
	return func(yield func(K) bool) {
		for it := s.Begin(); !it.Done(); it.Next() {
			if !yield(it.Key()) {
				return
			}
		}
	}
}

// Keys returns the keys of s in iterator order.
func (s *Set[K]) Keys() []K {
	keys := make([]K, 0, s.size)
	for key := range s.All() {
		keys = append(keys, key)
	}
	return keys
}

// Key returns the key under the cursor. It panics at End.
func (it Iterator[K]) Key() K {
	if it.e == nil {
		panic("set: Key called on end iterator")
	}
	return it.e.key
}

func (it Iterator[K]) Done() bool {
	return it.e == nil
}

// Next moves to the following key in the chain, then to the head of the next
// non-empty bucket. At End it does nothing.
func (it *Iterator[K]) Next() {
	if it.e == nil {
		return
	}
	it.e = it.e.next
	if it.e != nil {
		return
	}
	for it.index+1 < it.capacity {
		it.index++
		if it.e = it.table[it.index]; it.e != nil {
			return
		}
	}
}

// Equal reports whether both iterators point at the same entry. All End
// iterators are equal.
func (it Iterator[K]) Equal(other Iterator[K]) bool {
	return it.e == other.e
}
