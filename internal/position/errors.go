package position

import (
	"errors"
	"fmt"
)

// ErrCapabilityMismatch is matched by every *CapabilityError via errors.Is.
var ErrCapabilityMismatch = errors.New("capability mismatch")

// CapabilityError reports an operation applied to a position whose tier is
// too weak for it.
type CapabilityError struct {
	// Op names the operation, e.g. "advance".
	Op string

	// Have is the tier of the supplied position.
	Have Tier

	// Need is the weakest tier the operation accepts.
	Need Tier
}

// Error implements the error interface.
func (e *CapabilityError) Error() string {
	return fmt.Sprintf("%s requires %s positions, got %s", e.Op, e.Need, e.Have)
}

// Is makes errors.Is(err, ErrCapabilityMismatch) true.
func (e *CapabilityError) Is(target error) bool {
	return target == ErrCapabilityMismatch
}
