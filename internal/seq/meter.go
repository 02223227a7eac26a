package seq

// Meter counts position operations: each Next, Prev, Offset, Sub and each
// associative lookup adds one step. A nil *Meter counts nothing.
//
// Meter is not safe for concurrent use; sequences are single-owner.
type Meter struct {
	steps int64
}

// NewMeter creates a meter at zero.
func NewMeter() *Meter {
	return &Meter{}
}

func (m *Meter) add() {
	if m != nil {
		m.steps++
	}
}

// Steps returns the number of operations recorded since the last Reset.
func (m *Meter) Steps() int64 {
	if m == nil {
		return 0
	}
	return m.steps
}

// Reset sets the step count back to zero.
func (m *Meter) Reset() {
	if m != nil {
		m.steps = 0
	}
}
