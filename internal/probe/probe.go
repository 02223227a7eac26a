package probe

import (
	"errors"
	"fmt"
	"strconv"

	"golang.org/x/text/unicode/norm"

	"github.com/roach88/stride/internal/fixture"
)

// Op names a probe operation.
type Op string

const (
	OpClassify Op = "classify"
	OpIn       Op = "in"
	OpSearch   Op = "search"
	OpDistance Op = "distance"
	OpAdvance  Op = "advance"
	OpCollect  Op = "collect"
)

// Ops lists every operation.
var Ops = []Op{OpClassify, OpIn, OpSearch, OpDistance, OpAdvance, OpCollect}

// Valid reports whether op is a known operation.
func (op Op) Valid() bool {
	for _, o := range Ops {
		if o == op {
			return true
		}
	}
	return false
}

// needsValue reports whether op reads Request.Value.
func (op Op) needsValue() bool {
	return op == OpIn || op == OpSearch
}

// Outcome codes.
const (
	OutcomeOK                 = "ok"
	OutcomeCapabilityMismatch = "capability_mismatch"
	OutcomeTypeMismatch       = "type_mismatch"
	OutcomeOutOfRange         = "out_of_range"
)

// TierAssociative is reported as the tier of set fixtures.
const TierAssociative = "associative"

// EndMarker is the advance result when the position reached is the end.
const EndMarker = "end"

var (
	ErrUnknownOp    = errors.New("unknown operation")
	ErrUnknownKind  = errors.New("no runner for fixture kind")
	ErrMissingValue = errors.New("value is required")
	ErrUnsorted     = errors.New("search requires ascending values")
	ErrInvalidArgs  = errors.New("invalid arguments")
)

// Request is one operation to run.
//
// Value is the needle for in and search, and the optional stop element for
// distance. N is the step count for advance: non-negative counts start at
// the first element, negative counts start at the end.
type Request struct {
	Op    Op
	Value any
	N     int
}

// Outcome is the result of running a Request.
type Outcome struct {
	Outcome string `json:"outcome"`
	Tier    string `json:"tier"`
	Result  any    `json:"result,omitempty"`
	Steps   int64  `json:"steps"`
	Message string `json:"message,omitempty"`
}

// OK reports whether the operation ran.
func (o Outcome) OK() bool { return o.Outcome == OutcomeOK }

// RequestFromArgs builds a Request from loosely typed arguments, as decoded
// from YAML or JSON. Recognised keys are "value" and "n".
func RequestFromArgs(op string, args map[string]any) (Request, error) {
	req := Request{Op: Op(op)}
	if !req.Op.Valid() {
		return req, fmt.Errorf("%w: %q", ErrUnknownOp, op)
	}
	for k, v := range args {
		switch k {
		case "value":
			req.Value = normalize(v)
		case "n":
			n, ok := normalize(v).(int)
			if !ok {
				return req, fmt.Errorf("%w: n must be an integer, got %T", ErrInvalidArgs, v)
			}
			req.N = n
		default:
			return req, fmt.Errorf("%w: unknown argument %q", ErrInvalidArgs, k)
		}
	}
	return req, nil
}

// ParseValue converts a command-line token to the fixture's element type.
// A token that does not parse is returned as an NFC string, so that Exec
// reports a type mismatch rather than failing here.
func ParseValue(elem fixture.Elem, token string) any {
	if elem == fixture.ElemInt {
		if n, err := strconv.Atoi(token); err == nil {
			return n
		}
	}
	return norm.NFC.String(token)
}

// normalize maps decoded numbers onto int where they are integral and
// strings onto NFC, the form fixture values are compiled to.
func normalize(v any) any {
	switch n := v.(type) {
	case string:
		return norm.NFC.String(n)
	case int64:
		return int(n)
	case uint64:
		return int(n)
	case float64:
		if n == float64(int64(n)) {
			return int(n)
		}
	}
	return v
}

// Exec runs req against spec.
func Exec(spec *fixture.Spec, req Request) (Outcome, error) {
	if !req.Op.Valid() {
		return Outcome{}, fmt.Errorf("%w: %q", ErrUnknownOp, req.Op)
	}
	if req.Op.needsValue() && req.Value == nil {
		return Outcome{}, fmt.Errorf("%s on %s: %w", req.Op, spec.Name, ErrMissingValue)
	}
	if s, ok := req.Value.(string); ok {
		req.Value = norm.NFC.String(s)
	}
	run, ok := runners[runnerKey{spec.Kind, spec.Elem}]
	if !ok {
		return Outcome{}, fmt.Errorf("%w: %s/%s", ErrUnknownKind, spec.Kind, spec.Elem)
	}
	out, err := run(spec, req)
	if err != nil {
		return Outcome{}, fmt.Errorf("%s on %s: %w", req.Op, spec.Name, err)
	}
	return out, nil
}
