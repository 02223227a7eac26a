package seq

import (
	"bufio"
	"fmt"
	"io"
	"iter"
	"strconv"
)

// ParseFunc converts one whitespace-separated token into an element.
type ParseFunc[T any] func(token string) (T, error)

// ParseInt parses base-10 integer tokens.
func ParseInt(token string) (int, error) {
	return strconv.Atoi(token)
}

// ParseString accepts every token as is.
func ParseString(token string) (string, error) {
	return token, nil
}

// Stream is a single-pass sequence of tokens read from an io.Reader.
// Reading is destructive: once a position moves, the element it referred to
// is gone, and all positions share the one underlying read cursor.
//
// A read or parse failure ends the stream; Err reports it.
type Stream[T any] struct {
	scanner *bufio.Scanner
	parse   ParseFunc[T]
	current T
	ok      bool
	started bool
	err     error
	meter   *Meter
}

// NewStream creates a Stream over r, splitting on whitespace.
func NewStream[T any](r io.Reader, parse ParseFunc[T]) *Stream[T] {
	sc := bufio.NewScanner(r)
	sc.Split(bufio.ScanWords)
	return &Stream[T]{scanner: sc, parse: parse}
}

// WithMeter attaches m and returns s.
func (s *Stream[T]) WithMeter(m *Meter) *Stream[T] {
	s.meter = m
	return s
}

// Begin returns a position at the next unread element. The first call reads
// one token.
func (s *Stream[T]) Begin() *StreamCursor[T] {
	if !s.started {
		s.started = true
		s.fill()
	}
	return &StreamCursor[T]{s: s}
}

// End returns the end-of-stream position.
func (s *Stream[T]) End() *StreamCursor[T] { return &StreamCursor[T]{s: s, end: true} }

// All consumes the stream, yielding every remaining element.
func (s *Stream[T]) All() iter.Seq[T] {
	return walk[*StreamCursor[T], T](s.Begin, s.End)
}

// Err returns the first read or parse error, if any.
func (s *Stream[T]) Err() error { return s.err }

func (s *Stream[T]) fill() {
	if !s.scanner.Scan() {
		s.ok = false
		s.err = s.scanner.Err()
		return
	}
	tok := s.scanner.Text()
	v, err := s.parse(tok)
	if err != nil {
		s.ok = false
		s.err = fmt.Errorf("parse token %q: %w", tok, err)
		return
	}
	s.current = v
	s.ok = true
}

// StreamCursor is a single-pass position into a Stream. Two positions are
// equal when both are exhausted, or when neither is and they share a stream.
type StreamCursor[T any] struct {
	s   *Stream[T]
	end bool
}

func (c *StreamCursor[T]) exhausted() bool {
	return c.end || !c.s.ok
}

func (c *StreamCursor[T]) Equal(other *StreamCursor[T]) bool {
	a, b := c.exhausted(), other.exhausted()
	if a || b {
		return a == b
	}
	return c.s == other.s
}

func (c *StreamCursor[T]) Value() T { return c.s.current }

func (c *StreamCursor[T]) Next() {
	c.s.fill()
	c.s.meter.add()
}
