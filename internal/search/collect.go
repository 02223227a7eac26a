package search

import (
	"slices"

	"github.com/roach88/stride/internal/position"
)

// Collect appends the elements of [first, limit) to dst and returns the
// extended slice.
//
// Multi-pass ranges are measured first so dst grows once; single-pass
// ranges are appended as they are consumed. first is moved to limit.
func Collect[P Scanner[P, T], T any](first, limit P, dst []T) []T {
	if n, ok := position.Measure(first, limit); ok {
		dst = slices.Grow(dst, n)
	}
	for ; !first.Equal(limit); first.Next() {
		dst = append(dst, first.Value())
	}
	return dst
}
