package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/roach88/stride/internal/record"
)

const probeColumns = `id, run_id, seq, fixture, fixture_hash, kind, tier, op, args, outcome, result, message, steps`

// ReadRun retrieves a run by ID. Returns sql.ErrNoRows if not found.
func (s *Store) ReadRun(ctx context.Context, id string) (record.Run, error) {
	var run record.Run
	err := s.db.QueryRowContext(ctx, `
		SELECT id, scenario, seq, version FROM runs WHERE id = ?
	`, id).Scan(&run.ID, &run.Scenario, &run.Seq, &run.Version)
	if err != nil {
		return record.Run{}, err
	}
	return run, nil
}

// ListRuns returns every run, oldest first.
func (s *Store) ListRuns(ctx context.Context) ([]record.Run, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, scenario, seq, version
		FROM runs
		ORDER BY seq ASC, id COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	runs := []record.Run{}
	for rows.Next() {
		var run record.Run
		if err := rows.Scan(&run.ID, &run.Scenario, &run.Seq, &run.Version); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// ReadProbes returns the probes of a run in seq order. Returns an empty
// slice, not nil, when the run has none.
func (s *Store) ReadProbes(ctx context.Context, runID string) ([]record.Probe, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+probeColumns+`
		FROM probes
		WHERE run_id = ?
		ORDER BY seq ASC, id COLLATE BINARY ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("query probes: %w", err)
	}
	defer rows.Close()

	probes := []record.Probe{}
	for rows.Next() {
		p, err := scanProbe(rows)
		if err != nil {
			return nil, err
		}
		probes = append(probes, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate probes: %w", err)
	}
	return probes, nil
}

// ReadProbe retrieves a single probe by ID. Returns sql.ErrNoRows if not
// found.
func (s *Store) ReadProbe(ctx context.Context, id string) (record.Probe, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+probeColumns+` FROM probes WHERE id = ?`, id)
	return scanProbe(row)
}

// ReadProbesByFixture returns every probe of fixtures with the given
// content hash, across runs.
func (s *Store) ReadProbesByFixture(ctx context.Context, fixtureHash string) ([]record.Probe, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+probeColumns+`
		FROM probes
		WHERE fixture_hash = ?
		ORDER BY seq ASC, id COLLATE BINARY ASC
	`, fixtureHash)
	if err != nil {
		return nil, fmt.Errorf("query probes by fixture: %w", err)
	}
	defer rows.Close()

	probes := []record.Probe{}
	for rows.Next() {
		p, err := scanProbe(rows)
		if err != nil {
			return nil, err
		}
		probes = append(probes, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate probes: %w", err)
	}
	return probes, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanProbe(row scanner) (record.Probe, error) {
	var (
		p          record.Probe
		argsJSON   string
		resultJSON sql.NullString
	)
	err := row.Scan(
		&p.ID,
		&p.RunID,
		&p.Seq,
		&p.Fixture,
		&p.FixtureHash,
		&p.Kind,
		&p.Tier,
		&p.Op,
		&argsJSON,
		&p.Outcome,
		&resultJSON,
		&p.Message,
		&p.Steps,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return record.Probe{}, err
		}
		return record.Probe{}, fmt.Errorf("scan probe: %w", err)
	}

	if p.Args, err = unmarshalArgs(argsJSON); err != nil {
		return record.Probe{}, err
	}
	if p.Result, err = unmarshalResult(resultJSON); err != nil {
		return record.Probe{}, err
	}
	return p, nil
}
