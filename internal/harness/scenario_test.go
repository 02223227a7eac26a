package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeScenario(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

const validScenario = `
name: search_costs
description: "BinarySearch cost by tier"
fixtures:
  - fixtures.cue
run_id: "test-run-search"
steps:
  - op: search
    fixture: sorted_slice
    args: { value: 5 }
    expect:
      outcome: ok
      result: true
      steps: 2
  - op: distance
    fixture: words_stream
    expect:
      outcome: capability_mismatch
assertions:
  - type: trace_count
    op: search
    count: 1
`

func TestLoadScenario_Valid(t *testing.T) {
	dir := t.TempDir()
	writeFixtures(t, dir)
	path := writeScenario(t, dir, validScenario)

	scenario, err := LoadScenario(path)
	require.NoError(t, err)

	assert.Equal(t, "search_costs", scenario.Name)
	assert.Equal(t, "test-run-search", scenario.RunID)
	assert.Equal(t, []string{filepath.Join(dir, "fixtures.cue")}, scenario.Fixtures)
	require.Len(t, scenario.Steps, 2)
	assert.Equal(t, "search", scenario.Steps[0].Op)
	assert.Equal(t, 5, scenario.Steps[0].Args["value"])
	require.NotNil(t, scenario.Steps[0].Expect)
	assert.Equal(t, true, scenario.Steps[0].Expect.Result)
	require.NotNil(t, scenario.Steps[0].Expect.Steps)
	assert.Equal(t, int64(2), *scenario.Steps[0].Expect.Steps)
	assert.Nil(t, scenario.Steps[1].Expect.Steps)
	require.Len(t, scenario.Assertions, 1)
}

func TestLoadScenario_RunsClean(t *testing.T) {
	dir := t.TempDir()
	writeFixtures(t, dir)

	scenario, err := LoadScenario(writeScenario(t, dir, validScenario))
	require.NoError(t, err)

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.True(t, result.Pass, result.Errors)
	assert.Len(t, result.Trace, 2)
}

func TestLoadScenario_MissingFile(t *testing.T) {
	_, err := LoadScenario(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read scenario file")
}

func TestLoadScenario_UnknownField(t *testing.T) {
	dir := t.TempDir()
	writeFixtures(t, dir)
	path := writeScenario(t, dir, validScenario+"assertion: []\n")

	_, err := LoadScenario(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse YAML")
}

func TestLoadScenario_WithBasePath(t *testing.T) {
	root := t.TempDir()
	fixturesDir := filepath.Join(root, "fixtures")
	require.NoError(t, os.MkdirAll(fixturesDir, 0755))
	writeFixtures(t, fixturesDir)

	scenarioDir := filepath.Join(root, "scenarios")
	require.NoError(t, os.MkdirAll(scenarioDir, 0755))
	path := writeScenario(t, scenarioDir, validScenario)

	_, err := LoadScenario(path)
	require.Error(t, err, "fixtures.cue is not next to the scenario")

	scenario, err := LoadScenarioWithBasePath(path, fixturesDir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(fixturesDir, "fixtures.cue"), scenario.Fixtures[0])
}

func TestValidateScenario(t *testing.T) {
	fixturePath := writeFixtures(t, t.TempDir())
	base := func() *Scenario {
		return &Scenario{
			Name:        "s",
			Description: "d",
			Fixtures:    []string{fixturePath},
			Steps:       []Step{{Op: "classify", Fixture: "sorted_slice"}},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Scenario)
		wantErr string
	}{
		{"valid", func(*Scenario) {}, ""},
		{"no name", func(s *Scenario) { s.Name = "" }, "name is required"},
		{"no description", func(s *Scenario) { s.Description = "" }, "description is required"},
		{"no fixtures", func(s *Scenario) { s.Fixtures = nil }, "fixtures list is required"},
		{"missing fixture file", func(s *Scenario) { s.Fixtures = []string{"/nonexistent.cue"} }, "fixture file not found"},
		{"no steps", func(s *Scenario) { s.Steps = nil }, "steps list is required"},
		{"unknown op", func(s *Scenario) { s.Steps[0].Op = "sort" }, `steps[0]: unknown op "sort"`},
		{"no step fixture", func(s *Scenario) { s.Steps[0].Fixture = "" }, "steps[0]: fixture is required"},
		{"expect without outcome", func(s *Scenario) { s.Steps[0].Expect = &ExpectClause{} }, "steps[0].expect: outcome is required"},
		{"assertion without type", func(s *Scenario) { s.Assertions = []Assertion{{}} }, "type is required"},
		{"unknown assertion", func(s *Scenario) { s.Assertions = []Assertion{{Type: "bogus"}} }, `unknown assertion type "bogus"`},
		{"trace_contains without op", func(s *Scenario) { s.Assertions = []Assertion{{Type: AssertTraceContains}} }, "op is required for trace_contains"},
		{"trace_order without ops", func(s *Scenario) { s.Assertions = []Assertion{{Type: AssertTraceOrder}} }, "ops list is required"},
		{"negative count", func(s *Scenario) {
			s.Assertions = []Assertion{{Type: AssertTraceCount, Op: "in", Count: -1}}
		}, "count must be non-negative"},
		{"final_state without table", func(s *Scenario) {
			s.Assertions = []Assertion{{Type: AssertFinalState, Expect: map[string]any{"x": 1}}}
		}, "table is required"},
		{"final_state without expect", func(s *Scenario) {
			s.Assertions = []Assertion{{Type: AssertFinalState, Table: "probes"}}
		}, "expect is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := base()
			tt.mutate(s)
			err := validateScenario(s)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
