package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/roach88/stride/internal/fixture"
	"github.com/roach88/stride/internal/probe"
	"github.com/roach88/stride/internal/record"
	"github.com/roach88/stride/internal/store"
)

// ProbeOptions holds flags for the probe command.
type ProbeOptions struct {
	*RootOptions
	Fixtures string
	N        int
	Record   bool
	Database string
}

// ProbeResult is the output of a single probe.
type ProbeResult struct {
	Fixture string `json:"fixture"`
	Op      string `json:"op"`
	probe.Outcome
	RunID   string `json:"run_id,omitempty"`
	ProbeID string `json:"probe_id,omitempty"`
}

// NewProbeCommand creates the probe command.
func NewProbeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ProbeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "probe <fixture> <op> [value]",
		Short: "Run one operation against a fixture",
		Long: `Run one kernel operation against a named fixture and report the
outcome, the tier the fixture classifies as, the result and the step count.

Operations: classify, in, search, distance, advance, collect.
in and search take a value; distance takes an optional stop value;
advance reads --n.

Examples:
  stride probe sorted_list search 5
  stride probe words_stream distance
  stride probe sorted_slice advance --n -2
  stride probe sorted_slice in 4 --record --db ./stride.db`,
		Args:          cobra.RangeArgs(2, 3),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProbe(opts, args, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Fixtures, "fixtures", "", "fixtures directory (default from config)")
	cmd.Flags().IntVar(&opts.N, "n", 0, "step count for advance")
	cmd.Flags().BoolVar(&opts.Record, "record", false, "record the probe in the database")
	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (default from config)")

	return cmd
}

func runProbe(opts *ProbeOptions, args []string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)
	log := opts.logger()

	loadResult, loadErrors := fixture.LoadDir(opts.fixturesDir(opts.Fixtures), fixture.LoadModeFailFast)
	if len(loadErrors) > 0 {
		code, message := parseLoadError(loadErrors[0])
		return formatter.fail(code, message)
	}
	spec, ok := loadResult.Lookup(args[0])
	if !ok {
		return formatter.fail(fixture.ErrCodeNotFound, fmt.Sprintf("fixture not found: %s", args[0]))
	}

	req := probe.Request{Op: probe.Op(args[1]), N: opts.N}
	if len(args) == 3 {
		req.Value = probe.ParseValue(spec.Elem, args[2])
	}

	out, err := probe.Exec(spec, req)
	if err != nil {
		return formatter.fail(probeErrorCode(err), err.Error())
	}
	log.Debug("probe executed", "fixture", spec.Name, "op", req.Op, "outcome", out.Outcome, "steps", out.Steps)

	result := ProbeResult{Fixture: spec.Name, Op: string(req.Op), Outcome: out}
	if opts.Record {
		p, err := recordProbe(cmd.Context(), opts, spec, req, out)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to record probe", err)
		}
		result.RunID = p.RunID
		result.ProbeID = p.ID
		log.Info("probe recorded", "run", p.RunID, "seq", p.Seq)
	}

	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	w := formatter.Writer
	fmt.Fprintf(w, "%s %s on %s\n", outcomeMark(out.Outcome), req.Op, spec.Name)
	fmt.Fprintf(w, "  tier:    %s\n", out.Tier)
	fmt.Fprintf(w, "  outcome: %s\n", out.Outcome)
	if out.Result != nil {
		fmt.Fprintf(w, "  result:  %s\n", formatAny(out.Result))
	}
	if out.Message != "" {
		fmt.Fprintf(w, "  message: %s\n", out.Message)
	}
	fmt.Fprintf(w, "  steps:   %d\n", out.Steps)
	if result.RunID != "" {
		fmt.Fprintf(w, "  run:     %s\n", result.RunID)
	}
	return nil
}

// recordProbe stores the probe as a single-probe run.
func recordProbe(ctx context.Context, opts *ProbeOptions, spec *fixture.Spec, req probe.Request, out probe.Outcome) (record.Probe, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	st, err := store.Open(opts.dbPath(opts.Database))
	if err != nil {
		return record.Probe{}, err
	}
	defer st.Close()

	last, err := st.GetLastSeq(ctx)
	if err != nil {
		return record.Probe{}, err
	}
	clock := record.NewClockAt(last)

	run := record.Run{
		ID:       record.UUIDv7Generator{}.Generate(),
		Scenario: "probe",
		Seq:      clock.Next(),
		Version:  record.ToolVersion,
	}
	if err := st.WriteRun(ctx, run); err != nil {
		return record.Probe{}, err
	}

	p, err := probe.Record(run.ID, clock.Next(), spec, req, out)
	if err != nil {
		return record.Probe{}, err
	}
	if err := st.WriteProbe(ctx, p); err != nil {
		return record.Probe{}, err
	}
	return p, nil
}

// probeErrorCode maps request errors to CLI error codes.
func probeErrorCode(err error) string {
	switch {
	case errors.Is(err, probe.ErrUnknownOp):
		return "E_UNKNOWN_OP"
	case errors.Is(err, probe.ErrMissingValue), errors.Is(err, probe.ErrInvalidArgs):
		return "E_INVALID_ARGS"
	case errors.Is(err, probe.ErrUnsorted):
		return fixture.ErrCodeNotSorted
	default:
		return fixture.ErrCodeGeneric
	}
}

func outcomeMark(outcome string) string {
	if outcome == probe.OutcomeOK {
		return "✓"
	}
	return "✗"
}

// formatAny renders a result for text output.
func formatAny(v any) string {
	switch val := v.(type) {
	case string:
		return strconv.Quote(val)
	}
	b, err := record.MarshalCanonical(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(b)
}
