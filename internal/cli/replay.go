package cli

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/stride/internal/fixture"
	"github.com/roach88/stride/internal/probe"
	"github.com/roach88/stride/internal/record"
)

// ReplayOptions holds flags for the replay command.
type ReplayOptions struct {
	*RootOptions
	Database string
	Fixtures string
	Probe    string // optional - replay only this probe of the run
}

// ProbeDivergence describes one probe whose re-execution differs from its
// record.
type ProbeDivergence struct {
	Seq      int64  `json:"seq"`
	Op       string `json:"op"`
	Fixture  string `json:"fixture"`
	Field    string `json:"field"`
	Recorded string `json:"recorded"`
	Replayed string `json:"replayed"`
}

// ReplayResult holds the outcome of replaying a run.
type ReplayResult struct {
	RunID         string            `json:"run_id"`
	Probes        int               `json:"probes"`
	Deterministic bool              `json:"deterministic"`
	Divergences   []ProbeDivergence `json:"divergences"`
}

// NewReplayCommand creates the replay command.
func NewReplayCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReplayOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "replay <run-id>",
		Short: "Re-execute a recorded run and compare",
		Long: `Re-execute every probe recorded for a run against the current fixtures
and compare outcome, result and step count with the record.

A fixture whose content hash changed since the run is reported as a
divergence without being executed. --probe narrows the replay to one
probe of the run, by ID as shown by "stride trace --verbose".

Exit codes:
  0 - Every probe reproduced
  1 - One or more probes diverged
  2 - Command error (database not found, etc.)

Examples:
  stride replay 0192f1c4-... --db ./stride.db
  stride replay 0192f1c4-... --fixtures ./fixtures --format json
  stride replay 0192f1c4-... --probe 0192f1c5-...`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (default from config)")
	cmd.Flags().StringVar(&opts.Fixtures, "fixtures", "", "fixtures directory (default from config)")
	cmd.Flags().StringVar(&opts.Probe, "probe", "", "replay a single probe by ID")

	return cmd
}

func runReplay(opts *ReplayOptions, runID string, cmd *cobra.Command) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	formatter := newFormatter(opts.RootOptions, cmd)

	st, err := openExisting(opts.dbPath(opts.Database))
	if err != nil {
		return err
	}
	defer st.Close()

	state, err := st.GetRunState(ctx, runID)
	if errors.Is(err, sql.ErrNoRows) {
		return NewExitError(ExitCommandError, fmt.Sprintf("run not found: %s", runID))
	}
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to get run state", err)
	}
	probes := state.Probes
	if opts.Probe != "" {
		p, err := st.ReadProbe(ctx, opts.Probe)
		if errors.Is(err, sql.ErrNoRows) || (err == nil && p.RunID != runID) {
			return NewExitError(ExitCommandError, fmt.Sprintf("probe %s not found in run %s", opts.Probe, runID))
		}
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to read probe", err)
		}
		probes = []record.Probe{p}
	}

	loadResult, loadErrors := fixture.LoadDir(opts.fixturesDir(opts.Fixtures), fixture.LoadModeFailFast)
	if len(loadErrors) > 0 {
		code, message := parseLoadError(loadErrors[0])
		return formatter.fail(code, message)
	}

	result := ReplayResult{
		RunID:       runID,
		Probes:      len(probes),
		Divergences: []ProbeDivergence{},
	}
	for _, p := range probes {
		divs, err := replayProbe(loadResult, p)
		if err != nil {
			return WrapExitError(ExitCommandError, fmt.Sprintf("failed to replay probe %d", p.Seq), err)
		}
		result.Divergences = append(result.Divergences, divs...)
	}
	result.Deterministic = len(result.Divergences) == 0
	opts.logger().Debug("replay finished", "run", runID, "probes", result.Probes, "divergences", len(result.Divergences))

	if opts.Format == "json" {
		if err := writeJSONResponse(formatter.Writer, result); err != nil {
			return err
		}
	} else {
		outputReplayText(formatter, result)
	}
	if !result.Deterministic {
		return NewExitError(ExitFailure, fmt.Sprintf("%d divergence(s) in run %s", len(result.Divergences), runID))
	}
	return nil
}

// replayProbe re-executes p and lists every field that differs.
func replayProbe(fixtures *fixture.LoadResult, p record.Probe) ([]ProbeDivergence, error) {
	diverge := func(field, recorded, replayed string) ProbeDivergence {
		return ProbeDivergence{Seq: p.Seq, Op: p.Op, Fixture: p.Fixture, Field: field, Recorded: recorded, Replayed: replayed}
	}

	spec, ok := fixtures.Lookup(p.Fixture)
	if !ok {
		return []ProbeDivergence{diverge("fixture", p.Fixture, "missing")}, nil
	}
	hash, err := probe.HashFixture(spec)
	if err != nil {
		return nil, err
	}
	if hash != p.FixtureHash {
		return []ProbeDivergence{diverge("fixture_hash", p.FixtureHash, hash)}, nil
	}

	args, _ := record.ToGo(p.Args).(map[string]any)
	req, err := probe.RequestFromArgs(p.Op, args)
	if err != nil {
		return nil, err
	}
	out, err := probe.Exec(spec, req)
	if err != nil {
		return nil, err
	}

	var divs []ProbeDivergence
	if out.Outcome != p.Outcome {
		divs = append(divs, diverge("outcome", p.Outcome, out.Outcome))
	}
	if out.Tier != p.Tier {
		divs = append(divs, diverge("tier", p.Tier, out.Tier))
	}
	if out.Steps != p.Steps {
		divs = append(divs, diverge("steps", fmt.Sprint(p.Steps), fmt.Sprint(out.Steps)))
	}
	recorded, replayed, err := canonicalResults(p.Result, out.Result)
	if err != nil {
		return nil, err
	}
	if !bytes.Equal(recorded, replayed) {
		divs = append(divs, diverge("result", string(recorded), string(replayed)))
	}
	return divs, nil
}

// canonicalResults encodes both results for comparison. An absent result
// encodes as empty.
func canonicalResults(recorded record.Value, replayed any) ([]byte, []byte, error) {
	var a, b []byte
	var err error
	if recorded != nil {
		if a, err = record.MarshalCanonical(recorded); err != nil {
			return nil, nil, err
		}
	}
	if replayed != nil {
		if b, err = record.MarshalCanonical(replayed); err != nil {
			return nil, nil, err
		}
	}
	return a, b, nil
}

func outputReplayText(f *OutputFormatter, result ReplayResult) {
	w := f.Writer
	fmt.Fprintf(w, "Replay of Run: %s\n", result.RunID)
	fmt.Fprintf(w, "Probes: %d\n", result.Probes)
	if result.Deterministic {
		fmt.Fprintln(w, "✓ All probes reproduced")
		return
	}
	fmt.Fprintf(w, "✗ %d divergence(s)\n", len(result.Divergences))
	for _, d := range result.Divergences {
		fmt.Fprintf(w, "  [%d] %s on %s: %s recorded %s, replayed %s\n", d.Seq, d.Op, d.Fixture, d.Field, d.Recorded, d.Replayed)
	}
}
