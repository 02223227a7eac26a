package harness

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/stride/internal/fixture"
	"github.com/roach88/stride/internal/probe"
	"github.com/roach88/stride/internal/record"
	"github.com/roach88/stride/internal/store"
	"github.com/roach88/stride/internal/testutil"
)

// Harness executes scenario steps against loaded fixtures.
type Harness struct {
	store    *store.Store
	clock    *testutil.DeterministicClock
	runID    string
	fixtures map[string]*fixture.Spec
	logger   *slog.Logger
}

// Run executes a scenario in a fresh in-memory store and returns the result.
//
// Expect and assertion failures are reported in the Result. An error is
// returned only when the scenario cannot run at all: a fixture file fails
// to load, a step names an unknown fixture, or the store fails.
func Run(scenario *Scenario) (*Result, error) {
	return RunWithLogger(scenario, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// RunWithLogger is Run with step logging sent to logger.
func RunWithLogger(scenario *Scenario, logger *slog.Logger) (*Result, error) {
	fixtures, err := loadFixtures(scenario.Fixtures)
	if err != nil {
		return nil, err
	}

	st, err := store.Open(store.MemoryPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	h := &Harness{
		store:    st,
		clock:    testutil.NewDeterministicClock(),
		runID:    testutil.NewFixedRunIDGenerator(scenario.RunID).Generate(),
		fixtures: fixtures,
		logger:   logger,
	}

	ctx := context.Background()
	run := record.Run{
		ID:       h.runID,
		Scenario: scenario.Name,
		Seq:      h.clock.Next(),
		Version:  record.ToolVersion,
	}
	if err := st.WriteRun(ctx, run); err != nil {
		return nil, err
	}

	result := NewResult(h.runID)
	if err := h.executeSteps(ctx, scenario.Steps, result); err != nil {
		return nil, fmt.Errorf("failed to execute steps: %w", err)
	}

	actx := &AssertionContext{Store: st, Ctx: ctx}
	for _, msg := range EvaluateAssertions(result, scenario.Assertions, actx) {
		result.AddError(msg)
	}
	return result, nil
}

// loadFixtures compiles every fixture file and indexes the fixtures by
// name. Names must be unique across files.
func loadFixtures(paths []string) (map[string]*fixture.Spec, error) {
	byName := make(map[string]*fixture.Spec)
	for _, path := range paths {
		specs, err := fixture.LoadFile(path)
		if err != nil {
			return nil, fmt.Errorf("loading %s: %w", path, err)
		}
		for i := range specs {
			spec := &specs[i]
			if _, dup := byName[spec.Name]; dup {
				return nil, fmt.Errorf("fixture %q defined more than once", spec.Name)
			}
			byName[spec.Name] = spec
		}
	}
	return byName, nil
}

// executeSteps runs each step, records it and checks its expect clause.
//
// A step whose request is rejected before running (unknown argument,
// missing value, search on unsorted values) is reported as a failure and
// leaves no record.
func (h *Harness) executeSteps(ctx context.Context, steps []Step, result *Result) error {
	for i, step := range steps {
		spec, ok := h.fixtures[step.Fixture]
		if !ok {
			return fmt.Errorf("step %d: unknown fixture %q", i, step.Fixture)
		}

		req, err := probe.RequestFromArgs(step.Op, step.Args)
		if err != nil {
			result.AddError(fmt.Sprintf("step %d: %v", i, err))
			continue
		}
		out, err := probe.Exec(spec, req)
		if err != nil {
			result.AddError(fmt.Sprintf("step %d: %v", i, err))
			continue
		}

		// One clock tick per record.
		seq := h.clock.Next()
		rec, err := probe.Record(h.runID, seq, spec, req, out)
		if err != nil {
			return fmt.Errorf("step %d: %w", i, err)
		}
		if err := h.store.WriteProbe(ctx, rec); err != nil {
			return fmt.Errorf("step %d: %w", i, err)
		}
		result.AddTrace(rec)

		if step.Expect != nil {
			for _, msg := range checkExpect(step.Expect, rec) {
				result.AddError(fmt.Sprintf("step %d (%s on %s): %s", i, step.Op, step.Fixture, msg))
			}
		}

		h.logger.Info("step completed",
			"step", i,
			"op", rec.Op,
			"fixture", rec.Fixture,
			"outcome", rec.Outcome,
			"steps", rec.Steps,
			"probe_id", rec.ID,
		)
	}
	return nil
}

// checkExpect compares a probe against an expect clause and returns one
// message per mismatch.
func checkExpect(want *ExpectClause, got record.Probe) []string {
	var msgs []string
	if got.Outcome != want.Outcome {
		msgs = append(msgs, fmt.Sprintf("outcome = %s, want %s", got.Outcome, want.Outcome))
	}
	if want.Result != nil && !resultEqual(want.Result, got.Result) {
		msgs = append(msgs, fmt.Sprintf("result = %s, want %v", formatValue(got.Result), want.Result))
	}
	if want.Steps != nil && got.Steps != *want.Steps {
		msgs = append(msgs, fmt.Sprintf("steps = %d, want %d", got.Steps, *want.Steps))
	}
	return msgs
}

// resultEqual compares a YAML-decoded expectation with a recorded value by
// their canonical encodings.
func resultEqual(want any, got record.Value) bool {
	if got == nil {
		return false
	}
	wv, err := record.FromGo(want)
	if err != nil {
		return false
	}
	wb, err := record.MarshalCanonical(wv)
	if err != nil {
		return false
	}
	gb, err := record.MarshalCanonical(got)
	if err != nil {
		return false
	}
	return bytes.Equal(wb, gb)
}

func formatValue(v record.Value) string {
	if v == nil {
		return "<none>"
	}
	b, err := record.MarshalCanonical(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(b)
}
