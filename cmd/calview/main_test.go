package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appLog "calview/internal/log"
)

const itemsYAML = `items:
  - key: goal-001
    kind: goal
    title: Learn Go
    start: 2025-01-01
    end: 2025-06-30
  - key: meetup
    kind: event
    title: Meetup
    date: 2025-03-15
`

func writeConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	items := filepath.Join(dir, "items.yaml")
	require.NoError(t, os.WriteFile(items, []byte(itemsYAML), 0o644))

	cfg := "timezone: UTC\n" +
		"color: never\n" +
		"cache_dir: " + filepath.Join(dir, "cache") + "\n" +
		"sources:\n" +
		"  - id: community\n" +
		"    path: " + items + "\n"
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(cfg), 0o600))
	return path
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
		appLog.SetOutput(os.Stderr)
		appLog.SetLevel(appLog.LevelInfo)
	})
	err := rootCmd.Execute()
	return out.String(), errOut.String(), err
}

func TestGridTable(t *testing.T) {
	cfg := writeConfig(t)
	out, _, err := execute(t, "grid", "--config", cfg, "--month", "2025-03", "--kind=", "--format", "table")
	require.NoError(t, err)
	assert.Contains(t, out, "2025-03-15")
	assert.Contains(t, out, "Meetup")
	assert.NotContains(t, out, "Learn Go")
}

func TestGridJSON(t *testing.T) {
	cfg := writeConfig(t)
	out, _, err := execute(t, "grid", "--config", cfg, "--month", "2025-03", "--kind", "event", "--format", "json")
	require.NoError(t, err)

	var v struct {
		Label string
		Empty bool
		Weeks []json.RawMessage
	}
	require.NoError(t, json.Unmarshal([]byte(out), &v))
	assert.Equal(t, "March 2025", v.Label)
	assert.False(t, v.Empty)
	assert.Len(t, v.Weeks, 6)
}

func TestGridEmptyMonth(t *testing.T) {
	cfg := writeConfig(t)
	out, _, err := execute(t, "grid", "--config", cfg, "--month", "2025-04", "--kind", "event", "--format", "table")
	require.NoError(t, err)
	assert.Contains(t, out, "April 2025")
	assert.Contains(t, out, placeholderText)
}

func TestTimelineTable(t *testing.T) {
	cfg := writeConfig(t)
	out, _, err := execute(t, "timeline", "--config", cfg, "--month", "2025-03", "--kind", "goal", "--format", "table")
	require.NoError(t, err)
	assert.Contains(t, out, "Learn Go")
	assert.Contains(t, out, "both")
	assert.NotContains(t, out, "Meetup")
}

func TestTimelineText(t *testing.T) {
	cfg := writeConfig(t)
	out, _, err := execute(t, "timeline", "--config", cfg, "--month", "2025-06", "--kind", "goal", "--format", "text")
	require.NoError(t, err)
	assert.Contains(t, out, "June 2025")
	assert.Contains(t, out, "Learn Go")
}

func TestBadFlags(t *testing.T) {
	cfg := writeConfig(t)
	tests := []struct {
		name string
		args []string
	}{
		{"month", []string{"grid", "--config", cfg, "--month", "2025-13", "--kind=", "--format", "text"}},
		{"kind", []string{"grid", "--config", cfg, "--month", "2025-03", "--kind", "party", "--format", "text"}},
		{"format", []string{"timeline", "--config", cfg, "--month", "2025-03", "--kind", "goal", "--format", "yaml"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := execute(t, tt.args...)
			assert.Error(t, err)
		})
	}
}

func TestInvalidConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("sources:\n  - id: broken\n"), 0o600))

	_, _, err := execute(t, "grid", "--config", path, "--month", "2025-03", "--kind=", "--format", "text")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid config")
}
