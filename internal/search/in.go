package search

import (
	"iter"

	"github.com/roach88/stride/internal/position"
)

// Collection is a sequence that can be walked from its start to its end.
type Collection[T any] interface {
	All() iter.Seq[T]
}

// Keyed is an associative collection that answers key lookups itself.
type Keyed[K any] interface {
	Has(key K) bool
}

// In reports whether value occurs in c.
//
// When c is Keyed the lookup is delegated to c, at c's native cost. Otherwise
// c is scanned from start to end with ==, stopping at the first match.
// The value type must be the collection's element type.
func In[C Collection[T], T comparable](c C, value T) bool {
	if k, ok := any(c).(Keyed[T]); ok {
		return k.Has(value)
	}
	for v := range c.All() {
		if v == value {
			return true
		}
	}
	return false
}

// Scanner is a readable position that steps forward.
type Scanner[P, T any] interface {
	position.Reader[P, T]
	Next()
}

// Find advances first to the first element equal to value in [first, limit)
// and returns it, or returns a position equal to limit. first is moved; pass
// a clone to keep the original of a multi-pass position.
func Find[P Scanner[P, T], T comparable](first, limit P, value T) P {
	for ; !first.Equal(limit); first.Next() {
		if first.Value() == value {
			break
		}
	}
	return first
}
