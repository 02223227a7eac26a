package position_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/stride/internal/position"
	"github.com/roach88/stride/internal/seq"
)

var sample = []int{1, 2, 4, 5, 6, 7}

func TestClassify(t *testing.T) {
	assert.Equal(t, position.RandomAccess, position.Classify(seq.NewSlice(sample...).Begin()))
	assert.Equal(t, position.Bidirectional, position.Classify(seq.NewList(sample...).Begin()))
	assert.Equal(t, position.MultiPassForward, position.Classify(seq.NewForwardList(sample...).Begin()))

	stream := seq.NewStream(strings.NewReader("1 2 3"), seq.ParseInt)
	assert.Equal(t, position.SinglePassForward, position.Classify(stream.Begin()))
}

func TestTierOf(t *testing.T) {
	assert.Equal(t, position.RandomAccess, position.TierOf[*seq.SliceCursor[string]]())
	assert.Equal(t, position.Bidirectional, position.TierOf[*seq.ListCursor[string]]())
	assert.Equal(t, position.MultiPassForward, position.TierOf[*seq.ForwardCursor[string]]())
	assert.Equal(t, position.SinglePassForward, position.TierOf[*seq.StreamCursor[string]]())
}

func TestRequire(t *testing.T) {
	stream := seq.NewStream(strings.NewReader("1"), seq.ParseInt)
	err := position.Require("distance", stream.Begin(), position.MultiPassForward)
	require.Error(t, err)
	assert.ErrorIs(t, err, position.ErrCapabilityMismatch)

	var capErr *position.CapabilityError
	require.ErrorAs(t, err, &capErr)
	assert.Equal(t, position.SinglePassForward, capErr.Have)

	assert.NoError(t, position.Require("distance", seq.NewList(1).Begin(), position.MultiPassForward))
}

func TestAdvance_RandomAccessIsOneStep(t *testing.T) {
	m := seq.NewMeter()
	s := seq.NewSlice(sample...).WithMeter(m)

	p := s.Begin()
	position.Advance(p, 4)
	assert.Equal(t, 6, p.Value())
	assert.Equal(t, int64(1), m.Steps())

	position.Advance(p, -3)
	assert.Equal(t, 2, p.Value())
	assert.Equal(t, int64(2), m.Steps())
}

func TestAdvance_RandomAccessComposes(t *testing.T) {
	s := seq.NewSlice(sample...)
	pairs := [][2]int{{0, 0}, {1, 2}, {5, -3}, {3, -3}, {2, 4}}

	for _, mn := range pairs {
		stepwise := s.Begin()
		position.Advance(stepwise, mn[0])
		position.Advance(stepwise, mn[1])

		once := s.Begin()
		position.Advance(once, mn[0]+mn[1])

		assert.True(t, stepwise.Equal(once), "advance(%d) then advance(%d) != advance(%d)", mn[0], mn[1], mn[0]+mn[1])
	}
}

func TestAdvance_BidirectionalBothWays(t *testing.T) {
	m := seq.NewMeter()
	l := seq.NewList(sample...).WithMeter(m)

	p := l.Begin()
	position.Advance(p, 3)
	assert.Equal(t, 5, p.Value())
	assert.Equal(t, int64(3), m.Steps())

	end := l.End()
	position.Advance(end, -1)
	assert.Equal(t, 7, end.Value())

	position.Advance(p, -3)
	assert.True(t, p.Equal(l.Begin()))
}

func TestAdvance_ForwardOnly(t *testing.T) {
	m := seq.NewMeter()
	l := seq.NewForwardList(sample...).WithMeter(m)

	p := l.Begin()
	position.Advance(p, 5)
	assert.Equal(t, 7, p.Value())
	assert.Equal(t, int64(5), m.Steps())

	position.Advance(p, 1)
	assert.True(t, p.Equal(l.End()))
}

func TestAdvance_ForwardOnlyNegativePanics(t *testing.T) {
	l := seq.NewForwardList(sample...)
	p := l.Begin()
	position.Advance(p, 2)

	defer func() {
		r := recover()
		require.NotNil(t, r, "expected panic")
		err, ok := r.(*position.CapabilityError)
		require.True(t, ok, "panic value %T", r)
		assert.Equal(t, position.MultiPassForward, err.Have)
		assert.Equal(t, position.Bidirectional, err.Need)
	}()
	position.Advance(p, -1)
}

func TestAdvance_SinglePassConsumes(t *testing.T) {
	stream := seq.NewStream(strings.NewReader("10 20 30"), seq.ParseInt)
	p := stream.Begin()
	position.Advance(p, 2)
	assert.Equal(t, 30, p.Value())

	// Every position shares the read cursor.
	assert.Equal(t, 30, stream.Begin().Value())
}

func TestDistance(t *testing.T) {
	t.Run("same position is zero", func(t *testing.T) {
		s := seq.NewSlice(sample...)
		l := seq.NewList(sample...)
		f := seq.NewForwardList(sample...)
		assert.Equal(t, 0, position.Distance(s.Begin(), s.Begin()))
		assert.Equal(t, 0, position.Distance(l.End(), l.End()))
		assert.Equal(t, 0, position.Distance(f.Begin(), f.Begin()))
	})

	t.Run("whole range", func(t *testing.T) {
		s := seq.NewSlice(sample...)
		l := seq.NewList(sample...)
		f := seq.NewForwardList(sample...)
		assert.Equal(t, len(sample), position.Distance(s.Begin(), s.End()))
		assert.Equal(t, len(sample), position.Distance(l.Begin(), l.End()))
		assert.Equal(t, len(sample), position.Distance(f.Begin(), f.End()))
	})

	t.Run("matches number of forward advances", func(t *testing.T) {
		f := seq.NewForwardList(sample...)
		for n := 0; n <= len(sample); n++ {
			limit := f.Begin()
			position.Advance(limit, n)
			assert.Equal(t, n, position.Distance(f.Begin(), limit))
		}
	})

	t.Run("first is not moved", func(t *testing.T) {
		l := seq.NewList(sample...)
		first := l.Begin()
		_ = position.Distance(first, l.End())
		assert.True(t, first.Equal(l.Begin()))
	})

	t.Run("cost follows tier", func(t *testing.T) {
		sm, lm := seq.NewMeter(), seq.NewMeter()
		s := seq.NewSlice(sample...).WithMeter(sm)
		l := seq.NewList(sample...).WithMeter(lm)

		position.Distance(s.Begin(), s.End())
		position.Distance(l.Begin(), l.End())

		assert.Equal(t, int64(1), sm.Steps())
		assert.Equal(t, int64(len(sample)), lm.Steps())
	})
}

func TestMeasure(t *testing.T) {
	l := seq.NewList(sample...)
	n, ok := position.Measure(l.Begin(), l.End())
	assert.True(t, ok)
	assert.Equal(t, len(sample), n)

	stream := seq.NewStream(strings.NewReader("1 2 3"), seq.ParseInt)
	n, ok = position.Measure(stream.Begin(), stream.End())
	assert.False(t, ok)
	assert.Equal(t, 0, n)
	assert.Equal(t, 1, stream.Begin().Value(), "measuring a stream must not consume it")
}
