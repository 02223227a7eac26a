package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTraceListsRuns(t *testing.T) {
	dir := writeFixtureDir(t, testFixtures)
	dbPath := filepath.Join(t.TempDir(), "stride.db")
	runID := recordRun(t, dir, dbPath, "sorted_slice", "collect")

	out, err := execute(t, NewTraceCommand, "text", "--db", dbPath)
	require.NoError(t, err)
	assert.Contains(t, out, runID)
	assert.Contains(t, out, "probe")

	out, err = execute(t, NewTraceCommand, "json", "--db", dbPath)
	require.NoError(t, err)
	runs, ok := decodeData(t, out)["runs"].([]any)
	require.True(t, ok)
	assert.Len(t, runs, 1)
}

func TestTraceRun(t *testing.T) {
	dir := writeFixtureDir(t, testFixtures)
	dbPath := filepath.Join(t.TempDir(), "stride.db")
	runID := recordRun(t, dir, dbPath, "sorted_list", "search", "5")

	out, err := execute(t, NewTraceCommand, "text", runID, "--db", dbPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Trace for Run: "+runID)
	assert.Contains(t, out, "search on sorted_list (bidirectional): ok = true, 9 step(s)")
	assert.Contains(t, out, "ok: 1")
	assert.Contains(t, out, "Steps: 9")
}

func TestTraceRunJSON(t *testing.T) {
	dir := writeFixtureDir(t, testFixtures)
	dbPath := filepath.Join(t.TempDir(), "stride.db")
	runID := recordRun(t, dir, dbPath, "sorted_list", "search", "5")

	out, err := execute(t, NewTraceCommand, "json", runID, "--db", dbPath)
	require.NoError(t, err)
	data := decodeData(t, out)

	timeline, ok := data["timeline"].([]any)
	require.True(t, ok)
	require.Len(t, timeline, 1)
	ev := timeline[0].(map[string]any)
	assert.Equal(t, "search", ev["op"])
	assert.Equal(t, map[string]any{"value": float64(5)}, ev["args"])

	stats := data["stats"].(map[string]any)
	assert.Equal(t, float64(1), stats["probes"])
	assert.Equal(t, float64(9), stats["steps"])
}

func TestTraceOpFilter(t *testing.T) {
	dir := writeFixtureDir(t, testFixtures)
	dbPath := filepath.Join(t.TempDir(), "stride.db")
	runID := recordRun(t, dir, dbPath, "sorted_list", "search", "5")

	out, err := execute(t, NewTraceCommand, "json", runID, "--db", dbPath, "--op", "distance")
	require.NoError(t, err)
	timeline, ok := decodeData(t, out)["timeline"].([]any)
	require.True(t, ok)
	assert.Empty(t, timeline)
}

func TestTraceErrors(t *testing.T) {
	_, err := execute(t, NewTraceCommand, "text", "--db", filepath.Join(t.TempDir(), "missing.db"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "database not found")

	dir := writeFixtureDir(t, testFixtures)
	dbPath := filepath.Join(t.TempDir(), "stride.db")
	recordRun(t, dir, dbPath, "sorted_slice", "collect")

	_, err = execute(t, NewTraceCommand, "text", "no-such-run", "--db", dbPath)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "run not found")
}

func TestTraceFixtureAcrossRuns(t *testing.T) {
	dir := writeFixtureDir(t, testFixtures)
	dbPath := filepath.Join(t.TempDir(), "stride.db")
	first := recordRun(t, dir, dbPath, "sorted_list", "search", "5")
	second := recordRun(t, dir, dbPath, "sorted_list", "collect")
	recordRun(t, dir, dbPath, "sorted_slice", "collect")

	out, err := execute(t, NewTraceCommand, "json", "--db", dbPath, "--fixture", "sorted_list", "--fixtures", dir)
	require.NoError(t, err)
	data := decodeData(t, out)
	assert.Equal(t, "sorted_list", data["fixture"])
	assert.NotEmpty(t, data["hash"])

	timeline, ok := data["timeline"].([]any)
	require.True(t, ok)
	require.Len(t, timeline, 2)
	assert.Equal(t, first, timeline[0].(map[string]any)["run_id"])
	assert.Equal(t, "search", timeline[0].(map[string]any)["op"])
	assert.Equal(t, second, timeline[1].(map[string]any)["run_id"])
	assert.Equal(t, "collect", timeline[1].(map[string]any)["op"])

	stats := data["stats"].(map[string]any)
	assert.Equal(t, float64(2), stats["probes"])

	out, err = execute(t, NewTraceCommand, "text", "--db", dbPath, "--fixture", "sorted_list", "--fixtures", dir, "--op", "collect")
	require.NoError(t, err)
	assert.Contains(t, out, "Trace for Fixture: sorted_list")
	assert.Contains(t, out, "collect on sorted_list")
	assert.NotContains(t, out, "search on sorted_list")
}

func TestTraceFixtureSkipsEditedDefinition(t *testing.T) {
	dir := writeFixtureDir(t, testFixtures)
	dbPath := filepath.Join(t.TempDir(), "stride.db")
	recordRun(t, dir, dbPath, "sorted_list", "search", "5")

	changed := strings.Replace(testFixtures, "values: [1, 2, 4, 5, 6, 7]\n\tsorted: true\n}\n\nfixture: words_stream",
		"values: [1, 2, 4, 6, 7]\n\tsorted: true\n}\n\nfixture: words_stream", 1)
	require.NotEqual(t, testFixtures, changed)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "fixtures.cue"), []byte(changed), 0644))

	out, err := execute(t, NewTraceCommand, "json", "--db", dbPath, "--fixture", "sorted_list", "--fixtures", dir)
	require.NoError(t, err)
	timeline, ok := decodeData(t, out)["timeline"].([]any)
	require.True(t, ok)
	assert.Empty(t, timeline)
}

func TestTraceFixtureErrors(t *testing.T) {
	dir := writeFixtureDir(t, testFixtures)
	dbPath := filepath.Join(t.TempDir(), "stride.db")
	runID := recordRun(t, dir, dbPath, "sorted_list", "collect")

	_, err := execute(t, NewTraceCommand, "text", "--db", dbPath, "--fixture", "no_such_fixture", "--fixtures", dir)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "fixture not found")

	_, err = execute(t, NewTraceCommand, "text", runID, "--db", dbPath, "--fixture", "sorted_list", "--fixtures", dir)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}
