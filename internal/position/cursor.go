package position

// Cursor is the minimum contract of a position: comparison with another
// position over the same sequence.
type Cursor[P any] interface {
	Equal(other P) bool
}

// Reader is a position that can be dereferenced.
// Value must not be called on an end position.
type Reader[P, T any] interface {
	Cursor[P]
	Value() T
}

// ForwardMovable is a position that steps one element forward.
type ForwardMovable[P any] interface {
	Cursor[P]
	Next()
}

// MultiPass is a forward position that can be copied and advanced without
// invalidating the original.
type MultiPass[P any] interface {
	ForwardMovable[P]
	Clone() P
}

// BackwardMovable is a multi-pass position that also steps backward.
type BackwardMovable[P any] interface {
	MultiPass[P]
	Prev()
}

// RandomlyMovable is a bidirectional position with constant-time jumps.
// Sub returns the signed number of steps from other to the receiver.
type RandomlyMovable[P any] interface {
	BackwardMovable[P]
	Offset(n int)
	Sub(other P) int
}

// Classify reports the strongest tier p's type satisfies. When several
// capabilities are present the strongest one wins.
func Classify[P ForwardMovable[P]](p P) Tier {
	switch any(p).(type) {
	case RandomlyMovable[P]:
		return RandomAccess
	case BackwardMovable[P]:
		return Bidirectional
	case MultiPass[P]:
		return MultiPassForward
	}
	return SinglePassForward
}

// TierOf reports the tier of the position type P without needing a value.
func TierOf[P ForwardMovable[P]]() Tier {
	var zero P
	return Classify(zero)
}

// Require returns a *CapabilityError if p's tier is weaker than min.
// Use it at boundaries where the position type is only known at runtime.
func Require[P ForwardMovable[P]](op string, p P, min Tier) error {
	if have := Classify(p); !have.AtLeast(min) {
		return &CapabilityError{Op: op, Have: have, Need: min}
	}
	return nil
}
