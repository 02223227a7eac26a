package fixture

import (
	"fmt"
	"strconv"

	"github.com/roach88/stride/internal/position"
)

// Kind names the sequence a fixture builds.
type Kind string

const (
	KindSlice       Kind = "slice"
	KindList        Kind = "list"
	KindForwardList Kind = "forward_list"
	KindStream      Kind = "stream"
	KindSet         Kind = "set"
)

// Kinds lists every valid kind in declaration order.
var Kinds = []Kind{KindSlice, KindList, KindForwardList, KindStream, KindSet}

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	switch k {
	case KindSlice, KindList, KindForwardList, KindStream, KindSet:
		return true
	}
	return false
}

// Tier returns the traversal tier of the kind's positions.
// Sets are associative and report ok=false.
func (k Kind) Tier() (position.Tier, bool) {
	switch k {
	case KindSlice:
		return position.RandomAccess, true
	case KindList:
		return position.Bidirectional, true
	case KindForwardList:
		return position.MultiPassForward, true
	case KindStream:
		return position.SinglePassForward, true
	}
	return 0, false
}

// Elem names a fixture's element type.
type Elem string

const (
	ElemInt    Elem = "int"
	ElemString Elem = "string"
)

// Valid reports whether e is a known element type.
func (e Elem) Valid() bool {
	return e == ElemInt || e == ElemString
}

// Spec is a compiled fixture. Exactly one of Ints or Strings is populated,
// according to Elem.
type Spec struct {
	Name    string   `json:"name"`
	Kind    Kind     `json:"kind"`
	Elem    Elem     `json:"elem"`
	Ints    []int    `json:"ints,omitempty"`
	Strings []string `json:"strings,omitempty"`
	Sorted  bool     `json:"sorted,omitempty"`
}

// Len returns the number of values.
func (s *Spec) Len() int {
	if s.Elem == ElemInt {
		return len(s.Ints)
	}
	return len(s.Strings)
}

// Tokens renders the values as the whitespace-free tokens a stream reads.
func (s *Spec) Tokens() []string {
	if s.Elem == ElemString {
		return s.Strings
	}
	out := make([]string, len(s.Ints))
	for i, v := range s.Ints {
		out[i] = strconv.Itoa(v)
	}
	return out
}

func (s *Spec) String() string {
	return fmt.Sprintf("%s(%s %s, %d values)", s.Name, s.Kind, s.Elem, s.Len())
}
