package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
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

// writeFixtureDir writes content as the only CUE file of a fresh
// directory.
func writeFixtureDir(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "fixtures.cue"), []byte(content), 0644))
	return dir
}

// execute runs a command built by newCmd and returns its stdout.
func execute(t *testing.T, newCmd func(*RootOptions) *cobra.Command, format string, args ...string) (string, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	cmd := newCmd(&RootOptions{Format: format})
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

// decodeData decodes a JSON CLIResponse and returns its data object.
func decodeData(t *testing.T, out string) map[string]any {
	t.Helper()
	var resp struct {
		Status string         `json:"status"`
		Data   map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp), out)
	require.Equal(t, "ok", resp.Status, out)
	return resp.Data
}
