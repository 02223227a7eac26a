package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/stride/internal/record"
)

// GoldenDir is where RunWithGolden keeps golden traces by default.
const GoldenDir = "testdata/golden"

// TraceSnapshot is the golden form of a scenario run.
type TraceSnapshot struct {
	ScenarioName string       `json:"scenario_name"`
	RunID        string       `json:"run_id"`
	Trace        []TraceEvent `json:"trace"`
}

// Canonical returns the snapshot's RFC 8785 encoding.
func (s *TraceSnapshot) Canonical() ([]byte, error) {
	trace := make([]any, len(s.Trace))
	for i, ev := range s.Trace {
		m := map[string]any{
			"id":      ev.ID,
			"seq":     ev.Seq,
			"op":      ev.Op,
			"fixture": ev.Fixture,
			"tier":    ev.Tier,
			"outcome": ev.Outcome,
			"steps":   ev.Steps,
		}
		args := ev.Args
		if args == nil {
			args = map[string]any{}
		}
		m["args"] = args
		if ev.Result != nil {
			m["result"] = ev.Result
		}
		if ev.Message != "" {
			m["message"] = ev.Message
		}
		trace[i] = m
	}
	return record.MarshalCanonical(map[string]any{
		"scenario_name": s.ScenarioName,
		"run_id":        s.RunID,
		"trace":         trace,
	})
}

// Snapshot builds the golden form of result.
func Snapshot(name string, result *Result) *TraceSnapshot {
	return &TraceSnapshot{ScenarioName: name, RunID: result.RunID, Trace: result.Trace}
}

// RunWithGolden executes a scenario and compares its canonical trace with
// the golden file {GoldenDir}/{scenario.Name}.golden. Options override the
// goldie defaults.
//
// To regenerate golden files, run:
//
//	go test ./... -update
func RunWithGolden(t *testing.T, scenario *Scenario, opts ...goldie.Option) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}
	if err := AssertGolden(t, scenario.Name, result, opts...); err != nil {
		return nil, err
	}
	return result, nil
}

// AssertGolden compares an existing result's trace against its golden file.
func AssertGolden(t *testing.T, name string, result *Result, opts ...goldie.Option) error {
	t.Helper()

	data, err := Snapshot(name, result).Canonical()
	if err != nil {
		return err
	}
	g := goldie.New(t, append([]goldie.Option{
		goldie.WithFixtureDir(GoldenDir),
		goldie.WithNameSuffix(".golden"),
	}, opts...)...)
	g.Assert(t, name, data)
	return nil
}
