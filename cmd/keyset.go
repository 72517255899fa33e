package cmd

import (
	"fmt"
	"io"
	"strconv"

	"github.com/fzft/go-chainset/config"
	"github.com/fzft/go-chainset/hashing"
	"github.com/fzft/go-chainset/set"
)

// keySet is a set whose keys arrive as command line words.
type keySet interface {
	Insert(raw string) (bool, error)
	Erase(raw string) (int, error)
	Find(raw string) (string, bool, error)
	Count(raw string) (int, error)
	Len() int
	Cap() int
	Clear()
	Keys() []string
	Dump(w io.Writer) error
	Stats() set.Stats
	Snapshot()
	Restore() error
	EqualSnapshot() (bool, error)
}

type typedSet[K any] struct {
	s        *set.Set[K]
	snapshot *set.Set[K]
	parse    func(string) (K, error)
}

func newKeySet(cfg *config.Config) (keySet, error) {
	opts := cfg.SetOptions()
	switch cfg.Set.KeyType {
	case config.KeyTypeInt:
		return &typedSet[int64]{
			s: set.New[int64](opts...),
			parse: func(raw string) (int64, error) {
				return strconv.ParseInt(raw, 10, 64)
			},
		}, nil
	case config.KeyTypeString:
		hash, err := hashing.ByName(cfg.Set.Hasher)
		if err != nil {
			return nil, err
		}
		return &typedSet[string]{
			s:     set.NewFunc(hash, func(a, b string) bool { return a == b }, opts...),
			parse: func(raw string) (string, error) { return raw, nil },
		}, nil
	default:
		return nil, fmt.Errorf("%w: key type %q", config.ErrInvalidConfig, cfg.Set.KeyType)
	}
}

func (t *typedSet[K]) key(raw string) (K, error) {
	k, err := t.parse(raw)
	if err != nil {
		return k, fmt.Errorf("%w: %q: %v", ErrInvalidArgs, raw, err)
	}
	return k, nil
}

func (t *typedSet[K]) Insert(raw string) (bool, error) {
	k, err := t.key(raw)
	if err != nil {
		return false, err
	}
	_, inserted := t.s.Insert(k)
	return inserted, nil
}

func (t *typedSet[K]) Erase(raw string) (int, error) {
	k, err := t.key(raw)
	if err != nil {
		return 0, err
	}
	return t.s.Erase(k), nil
}

func (t *typedSet[K]) Find(raw string) (string, bool, error) {
	k, err := t.key(raw)
	if err != nil {
		return "", false, err
	}
	it := t.s.Find(k)
	if it.Done() {
		return "", false, nil
	}
	return fmt.Sprint(it.Key()), true, nil
}

func (t *typedSet[K]) Count(raw string) (int, error) {
	k, err := t.key(raw)
	if err != nil {
		return 0, err
	}
	return t.s.Count(k), nil
}

func (t *typedSet[K]) Len() int               { return t.s.Len() }
func (t *typedSet[K]) Cap() int               { return t.s.Cap() }
func (t *typedSet[K]) Clear()                 { t.s.Clear() }
func (t *typedSet[K]) Dump(w io.Writer) error { return t.s.Dump(w) }
func (t *typedSet[K]) Stats() set.Stats       { return t.s.Stats() }

func (t *typedSet[K]) Keys() []string {
	keys := make([]string, 0, t.s.Len())
	for k := range t.s.All() {
		keys = append(keys, fmt.Sprint(k))
	}
	return keys
}

func (t *typedSet[K]) Snapshot() {
	t.snapshot = t.s.Clone()
}

func (t *typedSet[K]) Restore() error {
	if t.snapshot == nil {
		return ErrNoSnapshot
	}
	t.s.Assign(t.snapshot)
	return nil
}

func (t *typedSet[K]) EqualSnapshot() (bool, error) {
	if t.snapshot == nil {
		return false, ErrNoSnapshot
	}
	return set.Equal(t.s, t.snapshot), nil
}
