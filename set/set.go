// Package set implements a hash set with separate chaining.
//
// Keys are placed in bucket hash(key) mod capacity and each bucket holds a
// singly linked chain. The table doubles (at least) before an insertion would
// push the number of keys past MaxLoadFactor*capacity, and it never shrinks.
//
// A Set is not safe for concurrent use. Iterators are views into the table
// and become invalid after any insert, erase, clear, swap or assign.
package set

import (
	"bufio"
	"fmt"
	"io"
	"iter"

	"go.uber.org/zap"

	"github.com/fzft/go-chainset/hashing"
)

type Set[K any] struct {
	table         []*entry[K]
	capacity      int
	size          int
	maxLoadFactor float64
	rehashes      uint64

	hash   hashing.Func[K]
	equal  func(a, b K) bool
	cfg    Config
	logger *zap.Logger
}

// New returns an empty set that compares keys with == and hashes them with
// hashing.For.
func New[K comparable](opts ...Option) *Set[K] {
	return NewFunc(hashing.For[K](), func(a, b K) bool { return a == b }, opts...)
}

// NewFunc returns an empty set using the given hash and equality functions.
// Keys that are equal must hash to the same value.
func NewFunc[K any](hash hashing.Func[K], equal func(a, b K) bool, opts ...Option) *Set[K] {
	if hash == nil || equal == nil {
		panic("set: hash and equal functions are required")
	}
	cfg := newConfig(opts)
	return &Set[K]{
		table:         newTable[K](cfg.Capacity),
		capacity:      cfg.Capacity,
		maxLoadFactor: cfg.MaxLoadFactor,
		hash:          hash,
		equal:         equal,
		cfg:           cfg,
		logger:        cfg.Logger,
	}
}

// Of returns a set holding the distinct keys given.
func Of[K comparable](keys ...K) *Set[K] {
	s := New[K]()
	s.InsertAll(keys...)
	return s
}

// FromSeq returns a set holding the distinct keys produced by seq.
func FromSeq[K comparable](seq iter.Seq[K], opts ...Option) *Set[K] {
	s := New[K](opts...)
	s.InsertSeq(seq)
	return s
}

// empty returns a new empty set sharing the configuration, hash and
// equality functions of s.
func (s *Set[K]) empty() *Set[K] {
	cfg := s.cfg
	return &Set[K]{
		table:         newTable[K](cfg.Capacity),
		capacity:      cfg.Capacity,
		maxLoadFactor: cfg.MaxLoadFactor,
		hash:          s.hash,
		equal:         s.equal,
		cfg:           cfg,
		logger:        s.logger,
	}
}

// Clone returns an independent set with the same keys. Keys are inserted one
// by one into a fresh table, so the layout of s is not copied.
func (s *Set[K]) Clone() *Set[K] {
	c := s.empty()
	c.InsertSeq(s.All())
	return c
}

// Swap exchanges the contents of s and other, including their hash and
// equality functions and configuration.
func (s *Set[K]) Swap(other *Set[K]) {
	*s, *other = *other, *s
}

// Assign replaces the contents of s with a copy of other.
func (s *Set[K]) Assign(other *Set[K]) {
	if s == other {
		return
	}
	tmp := other.Clone()
	s.Swap(tmp)
	tmp.release()
	s.logger.Debug("assign", zap.Int("size", s.size), zap.Int("capacity", s.capacity))
}

// AssignKeys replaces the contents of s with the distinct keys given.
func (s *Set[K]) AssignKeys(keys ...K) {
	tmp := s.empty()
	tmp.InsertAll(keys...)
	s.Swap(tmp)
	tmp.release()
}

func (s *Set[K]) Len() int {
	return s.size
}

func (s *Set[K]) Empty() bool {
	return s.size == 0
}

// Cap returns the current number of buckets.
func (s *Set[K]) Cap() int {
	return s.capacity
}

func (s *Set[K]) MaxLoadFactor() float64 {
	return s.maxLoadFactor
}

// Count returns 1 if key is in the set and 0 otherwise.
func (s *Set[K]) Count(key K) int {
	if s.locate(key) != nil {
		return 1
	}
	return 0
}

func (s *Set[K]) Contains(key K) bool {
	return s.locate(key) != nil
}

// Insert adds key unless an equal key is already present. It returns an
// iterator to the stored key and whether the key was newly inserted.
func (s *Set[K]) Insert(key K) (Iterator[K], bool) {
	if e := s.locate(key); e != nil {
		return s.iteratorAt(e, s.bucketIndex(key)), false
	}
	s.reserve(s.size + 1)
	e, index := s.add(key)
	return s.iteratorAt(e, index), true
}

// InsertAll inserts each key in turn. The table may grow more than once.
func (s *Set[K]) InsertAll(keys ...K) {
	for _, key := range keys {
		s.insertMissing(key)
	}
}

// InsertSeq inserts every key produced by seq.
func (s *Set[K]) InsertSeq(seq iter.Seq[K]) {
	for key := range seq {
		s.insertMissing(key)
	}
}

func (s *Set[K]) insertMissing(key K) {
	if s.Count(key) != 0 {
		return
	}
	s.reserve(s.size + 1)
	s.add(key)
}

// Erase removes key and returns the number of keys removed, 0 or 1.
func (s *Set[K]) Erase(key K) int {
	if s.unlink(key) {
		return 1
	}
	return 0
}

// Clear removes every key and resets the table to the configured capacity.
func (s *Set[K]) Clear() {
	tmp := s.empty()
	s.Swap(tmp)
	tmp.release()
	s.logger.Debug("clear", zap.Int("capacity", s.capacity))
}

// Equal reports whether a and b hold the same keys. Membership is checked
// with b's hash and equality functions.
func Equal[K any](a, b *Set[K]) bool {
	if a == b {
		return true
	}
	if a.size != b.size {
		return false
	}
	for key := range a.All() {
		if !b.Contains(key) {
			return false
		}
	}
	return true
}

func (s *Set[K]) Equal(other *Set[K]) bool {
	return Equal(s, other)
}

// Dump writes the bucket layout of s to w. The format is meant for humans
// and may change.
func (s *Set[K]) Dump(w io.Writer) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "table_size = %d, current_size = %d\n", s.capacity, s.size)
	for index, curr := range s.table {
		fmt.Fprintf(bw, "%d: ", index)
		for ; curr != nil; curr = curr.next {
			fmt.Fprintf(bw, "%v, ", curr.key)
		}
		bw.WriteByte('\n')
	}
	return bw.Flush()
}
