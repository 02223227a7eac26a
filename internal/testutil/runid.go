package testutil

import "github.com/roach88/stride/internal/record"

// DefaultRunID is returned by a FixedRunIDGenerator built with an empty ID.
const DefaultRunID = "test-run-default"

var _ record.RunIDGenerator = (*FixedRunIDGenerator)(nil)

// FixedRunIDGenerator returns the same run ID on every call, so probe IDs
// derived from it are stable across test runs and golden files stay
// byte-identical.
//
// The ID usually comes from the scenario file:
//
//	run_id: "test-run-00000000-0000-0000-0000-000000000001"
type FixedRunIDGenerator struct {
	id string
}

// NewFixedRunIDGenerator creates a generator for id, or DefaultRunID when id
// is empty.
func NewFixedRunIDGenerator(id string) *FixedRunIDGenerator {
	if id == "" {
		id = DefaultRunID
	}
	return &FixedRunIDGenerator{id: id}
}

// Generate returns the fixed run ID.
func (g *FixedRunIDGenerator) Generate() string {
	return g.id
}
