// Package hashing provides the key hash functions used to place keys into
// buckets. Every function is deterministic for the lifetime of the process.
package hashing

import (
	"fmt"
	"hash/fnv"
	"hash/maphash"

	"github.com/cespare/xxhash/v2"
	"github.com/spaolacci/murmur3"
)

// Func maps a key to a 64-bit hash. Keys that compare equal must hash equal.
type Func[K any] func(K) uint64

// Integer is the set of key types hashed by Identity.
type Integer interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr
}

const (
	NameDefault = "default"
	NameMurmur3 = "murmur3"
	NameXXHash  = "xxhash"
	NameFNV     = "fnv"
)

var seed = maphash.MakeSeed()

// Identity hashes an integer to its own bit pattern, so the bucket of k is
// k mod capacity. Negative values wrap through their two's complement form.
func Identity[K Integer](k K) uint64 {
	return uint64(k)
}

func Murmur3String(s string) uint64 {
	return murmur3.Sum64([]byte(s))
}

func Murmur3Bytes(b []byte) uint64 {
	return murmur3.Sum64(b)
}

func XXHashString(s string) uint64 {
	return xxhash.Sum64String(s)
}

func XXHashBytes(b []byte) uint64 {
	return xxhash.Sum64(b)
}

// FNVString is the 64-bit FNV-1a hash of s.
func FNVString(s string) uint64 {
	hasher := fnv.New64a()
	hasher.Write([]byte(s))
	return hasher.Sum64()
}

// Comparable hashes any comparable value with the runtime's map hash under a
// per-process seed. Results differ between processes.
func Comparable[K comparable](k K) uint64 {
	return maphash.Comparable(seed, k)
}

// For picks the default hash function for K: Identity for integer kinds,
// murmur3 for strings, and Comparable for everything else.
func For[K comparable]() Func[K] {
	var zero K
	var fn any
	switch any(zero).(type) {
	case int:
		fn = Func[int](Identity[int])
	case int8:
		fn = Func[int8](Identity[int8])
	case int16:
		fn = Func[int16](Identity[int16])
	case int32:
		fn = Func[int32](Identity[int32])
	case int64:
		fn = Func[int64](Identity[int64])
	case uint:
		fn = Func[uint](Identity[uint])
	case uint8:
		fn = Func[uint8](Identity[uint8])
	case uint16:
		fn = Func[uint16](Identity[uint16])
	case uint32:
		fn = Func[uint32](Identity[uint32])
	case uint64:
		fn = Func[uint64](Identity[uint64])
	case uintptr:
		fn = Func[uintptr](Identity[uintptr])
	case string:
		fn = Func[string](Murmur3String)
	default:
		return Comparable[K]
	}
	return fn.(Func[K])
}

// ByName resolves a string hash function by its configuration name.
func ByName(name string) (Func[string], error) {
	switch name {
	case "", NameDefault, NameMurmur3:
		return Murmur3String, nil
	case NameXXHash:
		return XXHashString, nil
	case NameFNV:
		return FNVString, nil
	default:
		return nil, fmt.Errorf("unknown hasher %q", name)
	}
}
