package search

import (
	"golang.org/x/exp/constraints"

	"github.com/roach88/stride/internal/position"
)

// Bisectable is a readable multi-pass position: a midpoint can be derived
// from it without disturbing the range bounds.
type Bisectable[P, T any] interface {
	position.MultiPass[P]
	Value() T
}

// BinarySearch reports whether value occurs in the ascending range
// [first, limit). Sortedness is the caller's contract and is not checked.
//
// Each level seeks its midpoint with position.Advance over
// position.Distance, so the search makes O(log n) comparisons but costs
// O(n) position moves on forward-only and bidirectional ranges. Only
// random-access ranges get O(log n) total cost.
func BinarySearch[P Bisectable[P, T], T constraints.Ordered](first, limit P, value T) bool {
	if first.Equal(limit) {
		return false
	}
	mid := first.Clone()
	position.Advance(mid, position.Distance(first, limit)/2)
	v := mid.Value()
	switch {
	case value < v:
		return BinarySearch(first, mid, value)
	case v < value:
		mid.Next()
		return BinarySearch(mid, limit, value)
	}
	return true
}

// BinarySearchFunc is BinarySearch for element types without a natural
// order. cmp returns a negative number when a sorts before b, a positive
// number when after, and zero when neither.
func BinarySearchFunc[P Bisectable[P, T], T any](first, limit P, value T, cmp func(a, b T) int) bool {
	if first.Equal(limit) {
		return false
	}
	mid := first.Clone()
	position.Advance(mid, position.Distance(first, limit)/2)
	switch c := cmp(value, mid.Value()); {
	case c < 0:
		return BinarySearchFunc(first, mid, value, cmp)
	case c > 0:
		mid.Next()
		return BinarySearchFunc(mid, limit, value, cmp)
	}
	return true
}
