package seq

import "iter"

// Slice is a random-access sequence over a Go slice.
type Slice[T any] struct {
	items []T
	meter *Meter
}

// NewSlice creates a Slice holding a copy of items.
func NewSlice[T any](items ...T) *Slice[T] {
	return &Slice[T]{items: append([]T(nil), items...)}
}

// WithMeter attaches m and returns s.
func (s *Slice[T]) WithMeter(m *Meter) *Slice[T] {
	s.meter = m
	return s
}

// Len returns the number of elements.
func (s *Slice[T]) Len() int { return len(s.items) }

// Begin returns a position at the first element.
func (s *Slice[T]) Begin() *SliceCursor[T] { return &SliceCursor[T]{s: s} }

// End returns the past-the-end position.
func (s *Slice[T]) End() *SliceCursor[T] { return &SliceCursor[T]{s: s, i: len(s.items)} }

// All yields every element from Begin to End.
func (s *Slice[T]) All() iter.Seq[T] {
	return walk[*SliceCursor[T], T](s.Begin, s.End)
}

// SliceCursor is a random-access position into a Slice.
type SliceCursor[T any] struct {
	s *Slice[T]
	i int
}

func (c *SliceCursor[T]) Equal(other *SliceCursor[T]) bool {
	return c.s == other.s && c.i == other.i
}

func (c *SliceCursor[T]) Value() T { return c.s.items[c.i] }

func (c *SliceCursor[T]) Next() {
	c.i++
	c.s.meter.add()
}

func (c *SliceCursor[T]) Prev() {
	c.i--
	c.s.meter.add()
}

func (c *SliceCursor[T]) Clone() *SliceCursor[T] {
	cp := *c
	return &cp
}

func (c *SliceCursor[T]) Offset(n int) {
	c.i += n
	c.s.meter.add()
}

func (c *SliceCursor[T]) Sub(other *SliceCursor[T]) int {
	c.s.meter.add()
	return c.i - other.i
}
