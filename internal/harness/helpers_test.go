package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const testFixtures = `package fixtures

fixture: sorted_slice: {
	kind:   "slice"
	elem:   "int"
	values: [1, 2, 4, 5, 6, 7]
	sorted: true
}

fixture: sorted_list: {
	kind:   "list"
	elem:   "int"
	values: [1, 2, 4, 5, 6, 7]
	sorted: true
}

fixture: words_stream: {
	kind:   "stream"
	elem:   "string"
	values: ["one", "two", "three"]
}
`

// writeFixtures writes testFixtures into dir and returns its path.
func writeFixtures(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "fixtures.cue")
	require.NoError(t, os.WriteFile(path, []byte(testFixtures), 0644))
	return path
}

// newScenario returns a scenario over testFixtures with the given steps.
func newScenario(t *testing.T, steps ...Step) *Scenario {
	t.Helper()
	return &Scenario{
		Name:        "test_scenario",
		Description: "harness test",
		Fixtures:    []string{writeFixtures(t, t.TempDir())},
		RunID:       "test-run-001",
		Steps:       steps,
	}
}

func int64p(n int64) *int64 { return &n }
