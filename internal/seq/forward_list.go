package seq

import "iter"

type forwardNode[T any] struct {
	value T
	next  *forwardNode[T]
}

// ForwardList is a singly linked sequence: positions only move forward, but
// they can be cloned, so it is multi-pass.
type ForwardList[T any] struct {
	head, tail *forwardNode[T]
	n          int
	meter      *Meter
}

// NewForwardList creates a ForwardList holding items in order.
func NewForwardList[T any](items ...T) *ForwardList[T] {
	l := &ForwardList[T]{}
	for _, v := range items {
		l.PushBack(v)
	}
	return l
}

// WithMeter attaches m and returns l.
func (l *ForwardList[T]) WithMeter(m *Meter) *ForwardList[T] {
	l.meter = m
	return l
}

// PushBack appends v.
func (l *ForwardList[T]) PushBack(v T) {
	node := &forwardNode[T]{value: v}
	if l.tail == nil {
		l.head = node
	} else {
		l.tail.next = node
	}
	l.tail = node
	l.n++
}

// Len returns the number of elements.
func (l *ForwardList[T]) Len() int { return l.n }

// Begin returns a position at the first element.
func (l *ForwardList[T]) Begin() *ForwardCursor[T] {
	return &ForwardCursor[T]{l: l, node: l.head}
}

// End returns the past-the-end position.
func (l *ForwardList[T]) End() *ForwardCursor[T] { return &ForwardCursor[T]{l: l} }

// All yields every element from Begin to End.
func (l *ForwardList[T]) All() iter.Seq[T] {
	return walk[*ForwardCursor[T], T](l.Begin, l.End)
}

// ForwardCursor is a multi-pass forward position into a ForwardList.
type ForwardCursor[T any] struct {
	l    *ForwardList[T]
	node *forwardNode[T]
}

func (c *ForwardCursor[T]) Equal(other *ForwardCursor[T]) bool {
	return c.l == other.l && c.node == other.node
}

func (c *ForwardCursor[T]) Value() T { return c.node.value }

func (c *ForwardCursor[T]) Next() {
	c.node = c.node.next
	c.l.meter.add()
}

func (c *ForwardCursor[T]) Clone() *ForwardCursor[T] {
	cp := *c
	return &cp
}
