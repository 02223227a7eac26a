package probe

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/stride/internal/fixture"
	"github.com/roach88/stride/internal/record"
)

func TestRecord(t *testing.T) {
	spec := intFixture(fixture.KindList)
	req := Request{Op: OpSearch, Value: 5}
	out := exec(t, spec, req)

	p, err := Record("run-1", 4, spec, req, out)
	require.NoError(t, err)

	assert.Len(t, p.ID, 64)
	assert.Equal(t, "run-1", p.RunID)
	assert.Equal(t, int64(4), p.Seq)
	assert.Equal(t, "list", p.Fixture)
	assert.Equal(t, "list", p.Kind)
	assert.Equal(t, "bidirectional", p.Tier)
	assert.Equal(t, "search", p.Op)
	assert.Equal(t, record.Object{"value": record.Int(5)}, p.Args)
	assert.Equal(t, OutcomeOK, p.Outcome)
	assert.Equal(t, record.Bool(true), p.Result)
	assert.Equal(t, int64(9), p.Steps)

	again, err := Record("run-1", 4, spec, req, out)
	require.NoError(t, err)
	assert.Equal(t, p.ID, again.ID)
}

func TestRecord_Mismatch(t *testing.T) {
	spec := intFixture(fixture.KindStream)
	req := Request{Op: OpDistance}
	out := exec(t, spec, req)

	p, err := Record("run-1", 1, spec, req, out)
	require.NoError(t, err)
	assert.Equal(t, OutcomeCapabilityMismatch, p.Outcome)
	assert.Nil(t, p.Result)
	assert.NotEmpty(t, p.Message)
	assert.Equal(t, record.Object{}, p.Args)
}

func TestRequestArgs(t *testing.T) {
	args, err := Request{Op: OpAdvance, N: -2}.Args()
	require.NoError(t, err)
	assert.Equal(t, record.Object{"n": record.Int(-2)}, args)

	_, err = Request{Op: OpIn, Value: 0.5}.Args()
	assert.Error(t, err)
}

func TestHashFixture_IgnoresName(t *testing.T) {
	a := intFixture(fixture.KindSlice)
	b := intFixture(fixture.KindSlice)
	b.Name = "renamed"

	ha, err := HashFixture(a)
	require.NoError(t, err)
	hb, err := HashFixture(b)
	require.NoError(t, err)
	assert.Equal(t, ha, hb)

	c := intFixture(fixture.KindList)
	hc, err := HashFixture(c)
	require.NoError(t, err)
	assert.NotEqual(t, ha, hc)
}
