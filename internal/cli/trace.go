package cli

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/roach88/stride/internal/fixture"
	"github.com/roach88/stride/internal/probe"
	"github.com/roach88/stride/internal/record"
	"github.com/roach88/stride/internal/store"
)

// TraceOptions holds flags for the trace command.
type TraceOptions struct {
	*RootOptions
	Database string
	Op       string // optional - filter to one operation
	Fixture  string // optional - trace a fixture across runs instead of a run
	Fixtures string
}

// TraceEvent is one probe in the trace timeline.
type TraceEvent struct {
	Seq     int64          `json:"seq"`
	ID      string         `json:"id"`
	RunID   string         `json:"run_id"`
	Fixture string         `json:"fixture"`
	Kind    string         `json:"kind"`
	Tier    string         `json:"tier"`
	Op      string         `json:"op"`
	Args    map[string]any `json:"args,omitempty"`
	Outcome string         `json:"outcome"`
	Result  any            `json:"result,omitempty"`
	Message string         `json:"message,omitempty"`
	Steps   int64          `json:"steps"`
}

// TraceStats holds summary statistics for a run.
type TraceStats struct {
	Probes   int            `json:"probes"`
	Outcomes map[string]int `json:"outcomes"`
	Steps    int64          `json:"steps"`
	LastSeq  int64          `json:"last_seq"`
}

// TraceResult holds the complete trace output for one run.
type TraceResult struct {
	Run      record.Run   `json:"run"`
	Timeline []TraceEvent `json:"timeline"`
	Stats    TraceStats   `json:"stats"`
}

// FixtureTraceResult holds every recorded probe of one fixture's current
// definition, across runs.
type FixtureTraceResult struct {
	Fixture  string       `json:"fixture"`
	Hash     string       `json:"hash"`
	Timeline []TraceEvent `json:"timeline"`
	Stats    TraceStats   `json:"stats"`
}

// RunList is the trace output when no run is named.
type RunList struct {
	Runs []record.Run `json:"runs"`
}

// NewTraceCommand creates the trace command.
func NewTraceCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TraceOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "trace [run-id]",
		Short: "Show recorded probes",
		Long: `Show the probes recorded for a run, in seq order, with per-outcome
counts and the total step count. Without a run ID, list all runs.

With --fixture, show instead every probe recorded against the fixture's
current definition in any run. Probes of an earlier, edited definition
carry a different content hash and are not shown.

Examples:
  stride trace --db ./stride.db
  stride trace 0192f1c4-... --db ./stride.db
  stride trace 0192f1c4-... --op search --format json
  stride trace --fixture sorted_list --fixtures ./fixtures`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrace(opts, firstArg(args), cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (default from config)")
	cmd.Flags().StringVar(&opts.Op, "op", "", "filter to one operation")
	cmd.Flags().StringVar(&opts.Fixture, "fixture", "", "trace one fixture across runs")
	cmd.Flags().StringVar(&opts.Fixtures, "fixtures", "", "fixtures directory for --fixture (default from config)")

	return cmd
}

func runTrace(opts *TraceOptions, runID string, cmd *cobra.Command) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	st, err := openExisting(opts.dbPath(opts.Database))
	if err != nil {
		return err
	}
	defer st.Close()

	if opts.Fixture != "" {
		if runID != "" {
			return NewExitError(ExitCommandError, "a run ID and --fixture cannot be combined")
		}
		return traceFixture(ctx, opts, st, cmd)
	}
	if runID == "" {
		runs, err := st.ListRuns(ctx)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to list runs", err)
		}
		return outputRunList(cmd, opts.Format, runs)
	}

	state, err := st.GetRunState(ctx, runID)
	if errors.Is(err, sql.ErrNoRows) {
		return NewExitError(ExitCommandError, fmt.Sprintf("run not found: %s", runID))
	}
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to get run state", err)
	}

	result := TraceResult{
		Run:      state.Run,
		Timeline: buildTimeline(state.Probes, opts.Op),
		Stats: TraceStats{
			Probes:   len(state.Probes),
			Outcomes: state.Outcomes,
			Steps:    state.Steps,
			LastSeq:  state.LastSeq,
		},
	}

	if opts.Format == "json" {
		return writeJSONResponse(cmd.OutOrStdout(), result)
	}
	outputTraceText(cmd.OutOrStdout(), result, opts.Verbose)
	return nil
}

// traceFixture lists the probes recorded against the current content hash of
// opts.Fixture.
func traceFixture(ctx context.Context, opts *TraceOptions, st *store.Store, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	loadResult, loadErrors := fixture.LoadDir(opts.fixturesDir(opts.Fixtures), fixture.LoadModeFailFast)
	if len(loadErrors) > 0 {
		code, message := parseLoadError(loadErrors[0])
		return formatter.fail(code, message)
	}
	spec, ok := loadResult.Lookup(opts.Fixture)
	if !ok {
		return formatter.fail(fixture.ErrCodeNotFound, fmt.Sprintf("fixture not found: %s", opts.Fixture))
	}
	hash, err := probe.HashFixture(spec)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to hash fixture", err)
	}

	probes, err := st.ReadProbesByFixture(ctx, hash)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read probes", err)
	}

	result := FixtureTraceResult{
		Fixture:  opts.Fixture,
		Hash:     hash,
		Timeline: buildTimeline(probes, opts.Op),
		Stats:    TraceStats{Probes: len(probes), Outcomes: map[string]int{}},
	}
	for _, p := range probes {
		result.Stats.Outcomes[p.Outcome]++
		result.Stats.Steps += p.Steps
		result.Stats.LastSeq = max(result.Stats.LastSeq, p.Seq)
	}

	if opts.Format == "json" {
		return writeJSONResponse(cmd.OutOrStdout(), result)
	}
	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "Trace for Fixture: %s (%s)\n", result.Fixture, result.Hash)
	fmt.Fprintln(w)
	outputTimelineText(w, result.Timeline, result.Stats, opts.Verbose)
	return nil
}

// buildTimeline converts stored probes to timeline events, keeping only
// opFilter when it is set.
func buildTimeline(probes []record.Probe, opFilter string) []TraceEvent {
	timeline := make([]TraceEvent, 0, len(probes))
	for _, p := range probes {
		if opFilter != "" && p.Op != opFilter {
			continue
		}
		ev := TraceEvent{
			Seq:     p.Seq,
			ID:      p.ID,
			RunID:   p.RunID,
			Fixture: p.Fixture,
			Kind:    p.Kind,
			Tier:    p.Tier,
			Op:      p.Op,
			Outcome: p.Outcome,
			Message: p.Message,
			Steps:   p.Steps,
		}
		if len(p.Args) > 0 {
			ev.Args, _ = record.ToGo(p.Args).(map[string]any)
		}
		if p.Result != nil {
			ev.Result = record.ToGo(p.Result)
		}
		timeline = append(timeline, ev)
	}
	return timeline
}

// openExisting opens a database that must already exist. store.Open would
// otherwise create an empty one.
func openExisting(path string) (*store.Store, error) {
	if !fileExists(path) {
		return nil, NewExitError(ExitCommandError, fmt.Sprintf("database not found: %s", path))
	}
	st, err := store.Open(path)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open database", err)
	}
	return st, nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func writeJSONResponse(w io.Writer, data any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(CLIResponse{Status: "ok", Data: data})
}

func outputRunList(cmd *cobra.Command, format string, runs []record.Run) error {
	if format == "json" {
		return writeJSONResponse(cmd.OutOrStdout(), RunList{Runs: runs})
	}
	w := cmd.OutOrStdout()
	if len(runs) == 0 {
		fmt.Fprintln(w, "No runs recorded.")
		return nil
	}
	for _, r := range runs {
		fmt.Fprintf(w, "%6d  %s  %s\n", r.Seq, r.ID, r.Scenario)
	}
	return nil
}

// outputTraceText outputs the trace result as text.
func outputTraceText(w io.Writer, result TraceResult, verbose bool) {
	fmt.Fprintf(w, "Trace for Run: %s\n", result.Run.ID)
	fmt.Fprintf(w, "Scenario: %s (stride %s)\n", result.Run.Scenario, result.Run.Version)
	fmt.Fprintln(w)
	outputTimelineText(w, result.Timeline, result.Stats, verbose)
}

func outputTimelineText(w io.Writer, timeline []TraceEvent, stats TraceStats, verbose bool) {
	fmt.Fprintln(w, "=== Timeline ===")
	if len(timeline) == 0 {
		fmt.Fprintln(w, "  (no probes)")
	}
	for _, ev := range timeline {
		fmt.Fprintf(w, "  [%d] %s %s on %s (%s): %s", ev.Seq, outcomeMark(ev.Outcome), ev.Op, ev.Fixture, ev.Tier, ev.Outcome)
		if ev.Result != nil {
			fmt.Fprintf(w, " = %s", formatAny(ev.Result))
		}
		fmt.Fprintf(w, ", %d step(s)\n", ev.Steps)
		if ev.Message != "" {
			fmt.Fprintf(w, "      %s\n", ev.Message)
		}
		if verbose {
			if len(ev.Args) > 0 {
				fmt.Fprintf(w, "      args: %s\n", formatAny(ev.Args))
			}
			fmt.Fprintf(w, "      id: %s (run %s)\n", ev.ID, ev.RunID)
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "=== Stats ===")
	fmt.Fprintf(w, "  Probes: %d\n", stats.Probes)
	outcomes := make([]string, 0, len(stats.Outcomes))
	for o := range stats.Outcomes {
		outcomes = append(outcomes, o)
	}
	sort.Strings(outcomes)
	for _, o := range outcomes {
		fmt.Fprintf(w, "  %s: %d\n", o, stats.Outcomes[o])
	}
	fmt.Fprintf(w, "  Steps: %d\n", stats.Steps)
}
