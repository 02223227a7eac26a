package seq

import (
	"iter"

	"github.com/google/btree"
	"golang.org/x/exp/constraints"
)

const btreeDegree = 8

// OrderedSet is an associative collection of unique keys held in ascending
// order. Lookups are logarithmic.
type OrderedSet[K constraints.Ordered] struct {
	tree  *btree.BTreeG[K]
	meter *Meter
}

// NewOrderedSet creates a set holding keys; duplicates collapse.
func NewOrderedSet[K constraints.Ordered](keys ...K) *OrderedSet[K] {
	s := &OrderedSet[K]{
		tree: btree.NewG[K](btreeDegree, func(a, b K) bool { return a < b }),
	}
	for _, k := range keys {
		s.Insert(k)
	}
	return s
}

// WithMeter attaches m and returns s.
func (s *OrderedSet[K]) WithMeter(m *Meter) *OrderedSet[K] {
	s.meter = m
	return s
}

// Insert adds k and reports whether it was not already present.
func (s *OrderedSet[K]) Insert(k K) bool {
	_, replaced := s.tree.ReplaceOrInsert(k)
	return !replaced
}

// Has reports whether k is a key of the set.
func (s *OrderedSet[K]) Has(k K) bool {
	s.meter.add()
	return s.tree.Has(k)
}

// Count returns the number of keys equal to k: 0 or 1.
func (s *OrderedSet[K]) Count(k K) int {
	if s.Has(k) {
		return 1
	}
	return 0
}

// Len returns the number of keys.
func (s *OrderedSet[K]) Len() int { return s.tree.Len() }

// All yields keys in ascending order.
func (s *OrderedSet[K]) All() iter.Seq[K] {
	return func(yield func(K) bool) {
		s.tree.Ascend(func(k K) bool {
			s.meter.add()
			return yield(k)
		})
	}
}
