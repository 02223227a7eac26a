package position

// Advance moves p by n steps in place; negative n moves backward.
//
//	RandomAccess   one Offset(n)
//	Bidirectional  |n| calls to Next or Prev
//	forward-only   n calls to Next
//
// A negative n on a forward-only position panics with *CapabilityError.
func Advance[P ForwardMovable[P]](p P, n int) {
	switch c := any(p).(type) {
	case RandomlyMovable[P]:
		c.Offset(n)
	case BackwardMovable[P]:
		for ; n > 0; n-- {
			c.Next()
		}
		for ; n < 0; n++ {
			c.Prev()
		}
	default:
		if n < 0 {
			panic(&CapabilityError{Op: "advance backward", Have: Classify(p), Need: Bidirectional})
		}
		for ; n > 0; n-- {
			p.Next()
		}
	}
}

// Distance returns the number of forward steps from first to limit.
// first is not moved.
//
// RandomAccess positions subtract in O(1). Weaker tiers walk a clone of first
// until it equals limit, so limit must be reachable from first; an
// unreachable limit never terminates.
func Distance[P MultiPass[P]](first, limit P) int {
	n, _ := Measure(first, limit)
	return n
}

// Measure is Distance for callers holding a position of unknown tier. It
// reports false, without moving anything, when first is single-pass.
func Measure[P ForwardMovable[P]](first, limit P) (int, bool) {
	if r, ok := any(limit).(RandomlyMovable[P]); ok {
		return r.Sub(first), true
	}
	m, ok := any(first).(MultiPass[P])
	if !ok {
		return 0, false
	}
	n := 0
	for c := m.Clone(); !c.Equal(limit); c.Next() {
		n++
	}
	return n, true
}
