package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/roach88/stride/internal/record"
)

// createTestStore creates a new file-backed store for testing.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestRun writes a run and returns it.
func createTestRun(t *testing.T, s *Store, id string, seq int64) record.Run {
	t.Helper()
	run := record.Run{
		ID:       id,
		Scenario: "test-scenario",
		Seq:      seq,
		Version:  record.ToolVersion,
	}
	if err := s.WriteRun(context.Background(), run); err != nil {
		t.Fatalf("WriteRun() failed: %v", err)
	}
	return run
}

// createTestProbe creates a search probe with minimal required fields.
func createTestProbe(id, runID string, seq int64) record.Probe {
	return record.Probe{
		ID:          id,
		RunID:       runID,
		Seq:         seq,
		Fixture:     "sorted_ints",
		FixtureHash: "fixture-hash",
		Kind:        "list",
		Tier:        "bidirectional",
		Op:          "search",
		Args:        record.Object{"value": record.Int(5)},
		Outcome:     "ok",
		Result:      record.Bool(true),
		Steps:       9,
	}
}
