package probe

import (
	"fmt"

	"github.com/roach88/stride/internal/fixture"
	"github.com/roach88/stride/internal/record"
)

// Args returns the request arguments in record form. Only the arguments
// the operation reads are included.
func (r Request) Args() (record.Object, error) {
	args := record.Object{}
	if r.Value != nil {
		v, err := record.FromGo(r.Value)
		if err != nil {
			return nil, fmt.Errorf("value: %w", err)
		}
		args["value"] = v
	}
	if r.Op == OpAdvance {
		args["n"] = record.Int(r.N)
	}
	return args, nil
}

// HashFixture returns the content hash of spec's definition.
func HashFixture(spec *fixture.Spec) (string, error) {
	var values any = spec.Strings
	if spec.Elem == fixture.ElemInt {
		values = spec.Ints
	}
	v, err := record.FromGo(values)
	if err != nil {
		return "", err
	}
	return record.FixtureHash(string(spec.Kind), string(spec.Elem), v.(record.Array))
}

// Record builds the persisted form of one probe.
func Record(runID string, seq int64, spec *fixture.Spec, req Request, out Outcome) (record.Probe, error) {
	args, err := req.Args()
	if err != nil {
		return record.Probe{}, err
	}
	fixtureHash, err := HashFixture(spec)
	if err != nil {
		return record.Probe{}, fmt.Errorf("hashing fixture %s: %w", spec.Name, err)
	}
	id, err := record.ProbeID(runID, seq, fixtureHash, string(req.Op), args)
	if err != nil {
		return record.Probe{}, err
	}

	p := record.Probe{
		ID:          id,
		RunID:       runID,
		Seq:         seq,
		Fixture:     spec.Name,
		FixtureHash: fixtureHash,
		Kind:        string(spec.Kind),
		Tier:        out.Tier,
		Op:          string(req.Op),
		Args:        args,
		Outcome:     out.Outcome,
		Message:     out.Message,
		Steps:       out.Steps,
	}
	if out.Result != nil {
		if p.Result, err = record.FromGo(out.Result); err != nil {
			return record.Probe{}, fmt.Errorf("result: %w", err)
		}
	}
	return p, nil
}
