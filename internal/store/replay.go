package store

import (
	"context"
	"fmt"

	"github.com/roach88/stride/internal/record"
)

// RunState summarizes a stored run for replay and reporting.
type RunState struct {
	Run      record.Run
	Probes   []record.Probe
	LastSeq  int64
	Outcomes map[string]int // probe count per outcome
	Steps    int64          // total metered steps
}

// GetRunState reads a run and its probes and tallies them.
func (s *Store) GetRunState(ctx context.Context, runID string) (RunState, error) {
	run, err := s.ReadRun(ctx, runID)
	if err != nil {
		return RunState{}, fmt.Errorf("get run state: %w", err)
	}
	probes, err := s.ReadProbes(ctx, runID)
	if err != nil {
		return RunState{}, fmt.Errorf("get run state: %w", err)
	}

	state := RunState{
		Run:      run,
		Probes:   probes,
		LastSeq:  run.Seq,
		Outcomes: make(map[string]int),
	}
	for _, p := range probes {
		state.Outcomes[p.Outcome]++
		state.Steps += p.Steps
		if p.Seq > state.LastSeq {
			state.LastSeq = p.Seq
		}
	}
	return state, nil
}

// GetLastSeq returns the highest seq in the store, or 0 when empty.
// A clock resumed from it keeps new records ordered after old ones.
func (s *Store) GetLastSeq(ctx context.Context) (int64, error) {
	var seq int64
	err := s.db.QueryRowContext(ctx, `
		SELECT COALESCE(MAX(seq), 0) FROM (
			SELECT seq FROM runs
			UNION ALL
			SELECT seq FROM probes
		)
	`).Scan(&seq)
	if err != nil {
		return 0, fmt.Errorf("get last seq: %w", err)
	}
	return seq, nil
}
