package set

// Stats describes the shape of a set's table at one point in time.
type Stats struct {
	Capacity      int
	Size          int
	LoadFactor    float64
	MaxLoadFactor float64
	UsedBuckets   int // buckets with at least one key
	LongestChain  int
	Rehashes      uint64
}

// Stats walks the whole table, so it costs O(capacity + size).
func (s *Set[K]) Stats() Stats {
	st := Stats{
		Capacity:      s.capacity,
		Size:          s.size,
		MaxLoadFactor: s.maxLoadFactor,
		Rehashes:      s.rehashes,
	}
	if s.capacity > 0 {
		st.LoadFactor = float64(s.size) / float64(s.capacity)
	}
	for _, curr := range s.table {
		if curr == nil {
			continue
		}
		st.UsedBuckets++
		n := 0
		for ; curr != nil; curr = curr.next {
			n++
		}
		st.LongestChain = max(st.LongestChain, n)
	}
	return st
}
