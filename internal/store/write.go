package store

import (
	"context"
	"fmt"

	"github.com/roach88/stride/internal/record"
)

// WriteRun inserts a run. A run with the same ID is left untouched.
func (s *Store) WriteRun(ctx context.Context, run record.Run) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (id, scenario, seq, version)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`, run.ID, run.Scenario, run.Seq, run.Version)
	if err != nil {
		return fmt.Errorf("write run: %w", err)
	}
	return nil
}

// WriteProbe inserts a probe. Duplicate IDs, and a second probe at the same
// (run_id, seq), are silently ignored. The run must already exist.
func (s *Store) WriteProbe(ctx context.Context, p record.Probe) error {
	argsJSON, err := marshalArgs(p.Args)
	if err != nil {
		return fmt.Errorf("write probe: %w", err)
	}
	resultJSON, err := marshalResult(p.Result)
	if err != nil {
		return fmt.Errorf("write probe: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO probes
		(id, run_id, seq, fixture, fixture_hash, kind, tier, op, args, outcome, result, message, steps)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT DO NOTHING
	`,
		p.ID,
		p.RunID,
		p.Seq,
		p.Fixture,
		p.FixtureHash,
		p.Kind,
		p.Tier,
		p.Op,
		argsJSON,
		p.Outcome,
		resultJSON,
		p.Message,
		p.Steps,
	)
	if err != nil {
		return fmt.Errorf("write probe: %w", err)
	}
	return nil
}
