package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReplayDeterministic(t *testing.T) {
	dir := writeFixtureDir(t, testFixtures)
	dbPath := filepath.Join(t.TempDir(), "stride.db")
	runID := recordRun(t, dir, dbPath, "sorted_list", "search", "5")

	out, err := execute(t, NewReplayCommand, "text", runID, "--db", dbPath, "--fixtures", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Probes: 1")
	assert.Contains(t, out, "✓ All probes reproduced")
}

func TestReplayCapabilityMismatchReproduces(t *testing.T) {
	dir := writeFixtureDir(t, testFixtures)
	dbPath := filepath.Join(t.TempDir(), "stride.db")
	runID := recordRun(t, dir, dbPath, "words_stream", "distance")

	out, err := execute(t, NewReplayCommand, "json", runID, "--db", dbPath, "--fixtures", dir)
	require.NoError(t, err)
	data := decodeData(t, out)
	assert.Equal(t, true, data["deterministic"])
	assert.Empty(t, data["divergences"])
}

func TestReplayDetectsChangedFixture(t *testing.T) {
	dir := writeFixtureDir(t, testFixtures)
	dbPath := filepath.Join(t.TempDir(), "stride.db")
	runID := recordRun(t, dir, dbPath, "sorted_list", "search", "5")

	changed := strings.Replace(testFixtures, "values: [1, 2, 4, 5, 6, 7]\n\tsorted: true\n}\n\nfixture: words_stream",
		"values: [1, 2, 4, 6, 7]\n\tsorted: true\n}\n\nfixture: words_stream", 1)
	require.NotEqual(t, testFixtures, changed)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "fixtures.cue"), []byte(changed), 0644))

	out, err := execute(t, NewReplayCommand, "json", runID, "--db", dbPath, "--fixtures", dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	data := decodeData(t, out)
	assert.Equal(t, false, data["deterministic"])
	divs := data["divergences"].([]any)
	require.Len(t, divs, 1)
	assert.Equal(t, "fixture_hash", divs[0].(map[string]any)["field"])
}

func TestReplayMissingFixture(t *testing.T) {
	dir := writeFixtureDir(t, testFixtures)
	dbPath := filepath.Join(t.TempDir(), "stride.db")
	runID := recordRun(t, dir, dbPath, "sorted_list", "collect")

	other := writeFixtureDir(t, `package fixtures

fixture: unrelated: {
	kind:   "slice"
	elem:   "int"
	values: [1]
}
`)
	out, err := execute(t, NewReplayCommand, "text", runID, "--db", dbPath, "--fixtures", other)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "fixture recorded sorted_list, replayed missing")
}

func TestReplayUnknownRun(t *testing.T) {
	dir := writeFixtureDir(t, testFixtures)
	dbPath := filepath.Join(t.TempDir(), "stride.db")
	recordRun(t, dir, dbPath, "sorted_slice", "collect")

	_, err := execute(t, NewReplayCommand, "text", "no-such-run", "--db", dbPath, "--fixtures", dir)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

// onlyRecordID returns the ID of the single record written for runID.
func onlyRecordID(t *testing.T, dbPath, runID string) string {
	t.Helper()
	out, err := execute(t, NewTraceCommand, "json", runID, "--db", dbPath)
	require.NoError(t, err)
	timeline, ok := decodeData(t, out)["timeline"].([]any)
	require.True(t, ok)
	require.Len(t, timeline, 1)
	id, _ := timeline[0].(map[string]any)["id"].(string)
	require.NotEmpty(t, id)
	return id
}

func TestReplaySingleRecord(t *testing.T) {
	dir := writeFixtureDir(t, testFixtures)
	dbPath := filepath.Join(t.TempDir(), "stride.db")
	runID := recordRun(t, dir, dbPath, "sorted_list", "search", "5")
	id := onlyRecordID(t, dbPath, runID)

	out, err := execute(t, NewReplayCommand, "json", runID, "--db", dbPath, "--fixtures", dir, "--probe", id)
	require.NoError(t, err)
	data := decodeData(t, out)
	assert.Equal(t, float64(1), data["probes"])
	assert.Equal(t, true, data["deterministic"])
}

func TestReplaySingleRecordMustBelongToRun(t *testing.T) {
	dir := writeFixtureDir(t, testFixtures)
	dbPath := filepath.Join(t.TempDir(), "stride.db")
	runID := recordRun(t, dir, dbPath, "sorted_list", "search", "5")
	otherRun := recordRun(t, dir, dbPath, "sorted_slice", "collect")
	foreign := onlyRecordID(t, dbPath, otherRun)

	_, err := execute(t, NewReplayCommand, "text", runID, "--db", dbPath, "--fixtures", dir, "--probe", foreign)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "not found in run")

	_, err = execute(t, NewReplayCommand, "text", runID, "--db", dbPath, "--fixtures", dir, "--probe", "no-such-id")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}
