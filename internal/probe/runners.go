package probe

import (
	"fmt"
	"slices"
	"strings"

	"golang.org/x/exp/constraints"

	"github.com/roach88/stride/internal/fixture"
	"github.com/roach88/stride/internal/position"
	"github.com/roach88/stride/internal/search"
	"github.com/roach88/stride/internal/seq"
)

type runner func(spec *fixture.Spec, req Request) (Outcome, error)

type runnerKey struct {
	kind fixture.Kind
	elem fixture.Elem
}

func ints(s *fixture.Spec) []int    { return s.Ints }
func strs(s *fixture.Spec) []string { return s.Strings }

var runners = map[runnerKey]runner{
	{fixture.KindSlice, fixture.ElemInt}:          sliceRunner(ints),
	{fixture.KindSlice, fixture.ElemString}:       sliceRunner(strs),
	{fixture.KindList, fixture.ElemInt}:           listRunner(ints),
	{fixture.KindList, fixture.ElemString}:        listRunner(strs),
	{fixture.KindForwardList, fixture.ElemInt}:    forwardListRunner(ints),
	{fixture.KindForwardList, fixture.ElemString}: forwardListRunner(strs),
	{fixture.KindStream, fixture.ElemInt}:         streamRunner[int](seq.ParseInt),
	{fixture.KindStream, fixture.ElemString}:      streamRunner[string](seq.ParseString),
	{fixture.KindSet, fixture.ElemInt}:            setRunner(ints),
	{fixture.KindSet, fixture.ElemString}:         setRunner(strs),
}

func sliceRunner[T constraints.Ordered](values func(*fixture.Spec) []T) runner {
	return func(spec *fixture.Spec, req Request) (Outcome, error) {
		m := seq.NewMeter()
		s := seq.NewSlice(values(spec)...).WithMeter(m)
		return positional(s, s.Begin, s.End, m, values(spec), req)
	}
}

func listRunner[T constraints.Ordered](values func(*fixture.Spec) []T) runner {
	return func(spec *fixture.Spec, req Request) (Outcome, error) {
		m := seq.NewMeter()
		l := seq.NewList(values(spec)...).WithMeter(m)
		return positional(l, l.Begin, l.End, m, values(spec), req)
	}
}

func forwardListRunner[T constraints.Ordered](values func(*fixture.Spec) []T) runner {
	return func(spec *fixture.Spec, req Request) (Outcome, error) {
		m := seq.NewMeter()
		l := seq.NewForwardList(values(spec)...).WithMeter(m)
		return positional(l, l.Begin, l.End, m, values(spec), req)
	}
}

// positional runs req over a multi-pass sequence. begin and end return
// fresh positions on every call.
func positional[P search.Bisectable[P, T], T constraints.Ordered](
	c search.Collection[T], begin, end func() P, m *seq.Meter, values []T, req Request,
) (Outcome, error) {
	tier := position.TierOf[P]()
	out := Outcome{Outcome: OutcomeOK, Tier: tier.String()}

	value, ok := needle[T](req)
	if !ok {
		return typeMismatch[T](out, req.Value), nil
	}

	switch req.Op {
	case OpClassify:
		out.Result = out.Tier
	case OpIn:
		out.Result = search.In(c, value)
	case OpSearch:
		if !slices.IsSorted(values) {
			return Outcome{}, ErrUnsorted
		}
		out.Result = search.BinarySearch(begin(), end(), value)
	case OpDistance:
		limit := end()
		if req.Value != nil {
			limit = search.Find(begin(), end(), value)
			m.Reset()
		}
		out.Result = position.Distance(begin(), limit)
	case OpAdvance:
		if !inRange(req.N, len(values), tier) {
			return outOfRange(out, req.N, len(values)), nil
		}
		p := begin()
		if req.N < 0 {
			p = end()
		}
		if capErr := guard(func() { position.Advance(p, req.N) }); capErr != nil {
			return capabilityMismatch(out, capErr), nil
		}
		if p.Equal(end()) {
			out.Result = EndMarker
		} else {
			out.Result = p.Value()
		}
	case OpCollect:
		out.Result = search.Collect(begin(), end(), []T{})
	}

	out.Steps = m.Steps()
	return out, nil
}

func streamRunner[T constraints.Ordered](parse seq.ParseFunc[T]) runner {
	return func(spec *fixture.Spec, req Request) (Outcome, error) {
		m := seq.NewMeter()
		src := strings.NewReader(strings.Join(spec.Tokens(), " "))
		st := seq.NewStream(src, parse).WithMeter(m)
		out, err := singlePass(st, m, spec.Len(), req)
		if err != nil {
			return Outcome{}, err
		}
		if err := st.Err(); err != nil {
			return Outcome{}, fmt.Errorf("reading stream: %w", err)
		}
		return out, nil
	}
}

// singlePass runs req over a stream. Positions share the stream's read
// cursor, so each operation consumes what it reads.
func singlePass[T constraints.Ordered](st *seq.Stream[T], m *seq.Meter, n int, req Request) (Outcome, error) {
	tier := position.TierOf[*seq.StreamCursor[T]]()
	out := Outcome{Outcome: OutcomeOK, Tier: tier.String()}

	value, ok := needle[T](req)
	if !ok {
		return typeMismatch[T](out, req.Value), nil
	}

	switch req.Op {
	case OpClassify:
		out.Result = out.Tier
	case OpIn:
		out.Result = search.In(st, value)
	case OpSearch, OpDistance:
		if err := position.Require(string(req.Op), st.Begin(), position.MultiPassForward); err != nil {
			return capabilityMismatch(out, err), nil
		}
	case OpAdvance:
		if !inRange(req.N, n, tier) {
			return outOfRange(out, req.N, n), nil
		}
		p := st.Begin()
		if capErr := guard(func() { position.Advance(p, req.N) }); capErr != nil {
			return capabilityMismatch(out, capErr), nil
		}
		if p.Equal(st.End()) {
			out.Result = EndMarker
		} else {
			out.Result = p.Value()
		}
	case OpCollect:
		out.Result = search.Collect(st.Begin(), st.End(), []T{})
	}

	out.Steps = m.Steps()
	return out, nil
}

func setRunner[T constraints.Ordered](values func(*fixture.Spec) []T) runner {
	return func(spec *fixture.Spec, req Request) (Outcome, error) {
		m := seq.NewMeter()
		s := seq.NewOrderedSet(values(spec)...).WithMeter(m)
		out := Outcome{Outcome: OutcomeOK, Tier: TierAssociative}

		value, ok := needle[T](req)
		if !ok {
			return typeMismatch[T](out, req.Value), nil
		}

		switch req.Op {
		case OpClassify:
			out.Result = TierAssociative
		case OpIn:
			out.Result = search.In(s, value)
		case OpCollect:
			out.Result = slices.AppendSeq([]T{}, s.All())
		default:
			out.Outcome = OutcomeCapabilityMismatch
			out.Message = fmt.Sprintf("%s requires positions; %s fixtures are associative", req.Op, spec.Kind)
			return out, nil
		}

		out.Steps = m.Steps()
		return out, nil
	}
}

// needle extracts the request value as T. ok is false only when a value is
// present and of another type.
func needle[T any](req Request) (value T, ok bool) {
	if req.Value == nil {
		return value, true
	}
	value, ok = req.Value.(T)
	return value, ok
}

// inRange reports whether advancing by n from the matching end stays within
// a sequence of the given length. Backward moves on forward-only tiers are
// left to Advance, which rejects them before moving.
func inRange(n, length int, tier position.Tier) bool {
	if n >= 0 {
		return n <= length
	}
	return -n <= length || !tier.AtLeast(position.Bidirectional)
}

// guard runs fn and returns the *position.CapabilityError it panics with.
// Any other panic is propagated.
func guard(fn func()) (capErr *position.CapabilityError) {
	defer func() {
		if r := recover(); r != nil {
			err, ok := r.(*position.CapabilityError)
			if !ok {
				panic(r)
			}
			capErr = err
		}
	}()
	fn()
	return nil
}

func capabilityMismatch(out Outcome, err error) Outcome {
	out.Outcome = OutcomeCapabilityMismatch
	out.Message = err.Error()
	return out
}

func typeMismatch[T any](out Outcome, got any) Outcome {
	var zero T
	out.Outcome = OutcomeTypeMismatch
	out.Message = fmt.Sprintf("value %v has type %T, elements are %T", got, got, zero)
	return out
}

func outOfRange(out Outcome, n, length int) Outcome {
	out.Outcome = OutcomeOutOfRange
	out.Message = fmt.Sprintf("advance %d leaves a range of %d elements", n, length)
	return out
}
