package seq

import "iter"

type listNode[T any] struct {
	value      T
	prev, next *listNode[T]
}

// List is a doubly linked, bidirectional sequence. The zero value is an
// empty list ready to use.
type List[T any] struct {
	head, tail *listNode[T]
	n          int
	meter      *Meter
}

// NewList creates a List holding items in order.
func NewList[T any](items ...T) *List[T] {
	l := &List[T]{}
	for _, v := range items {
		l.PushBack(v)
	}
	return l
}

// WithMeter attaches m and returns l.
func (l *List[T]) WithMeter(m *Meter) *List[T] {
	l.meter = m
	return l
}

// PushBack appends v.
func (l *List[T]) PushBack(v T) {
	node := &listNode[T]{value: v, prev: l.tail}
	if l.tail == nil {
		l.head = node
	} else {
		l.tail.next = node
	}
	l.tail = node
	l.n++
}

// Len returns the number of elements.
func (l *List[T]) Len() int { return l.n }

// Begin returns a position at the first element.
func (l *List[T]) Begin() *ListCursor[T] { return &ListCursor[T]{l: l, node: l.head} }

// End returns the past-the-end position.
func (l *List[T]) End() *ListCursor[T] { return &ListCursor[T]{l: l} }

// All yields every element from Begin to End.
func (l *List[T]) All() iter.Seq[T] {
	return walk[*ListCursor[T], T](l.Begin, l.End)
}

// ListCursor is a bidirectional position into a List. The end position holds
// no node; stepping back from it reaches the tail.
type ListCursor[T any] struct {
	l    *List[T]
	node *listNode[T]
}

func (c *ListCursor[T]) Equal(other *ListCursor[T]) bool {
	return c.l == other.l && c.node == other.node
}

func (c *ListCursor[T]) Value() T { return c.node.value }

func (c *ListCursor[T]) Next() {
	c.node = c.node.next
	c.l.meter.add()
}

func (c *ListCursor[T]) Prev() {
	if c.node == nil {
		c.node = c.l.tail
	} else {
		c.node = c.node.prev
	}
	c.l.meter.add()
}

func (c *ListCursor[T]) Clone() *ListCursor[T] {
	cp := *c
	return &cp
}
