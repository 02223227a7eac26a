package seq

import (
	"iter"

	"github.com/roach88/stride/internal/position"
)

type walker[P, T any] interface {
	position.Reader[P, T]
	Next()
}

// walk yields the elements from begin() up to end(). Positions are taken
// each time the sequence is ranged over, so multi-pass sources can be
// iterated repeatedly.
func walk[P walker[P, T], T any](begin, end func() P) iter.Seq[T] {
	return func(yield func(T) bool) {
		limit := end()
		for c := begin(); !c.Equal(limit); c.Next() {
			if !yield(c.Value()) {
				return
			}
		}
	}
}
