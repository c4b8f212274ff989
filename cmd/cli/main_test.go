package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_NoArgsPrintsUsage(t *testing.T) {
	var out bytes.Buffer
	err := run(&out, nil)

	require.NoError(t, err)
	assert.Contains(t, out.String(), "Usage:")
}

func TestRun_ControlOnlyScenario(t *testing.T) {
	// A scenario with no asset-generating actions runs end to end without
	// any backend being reachable.
	path := filepath.Join(t.TempDir(), "scenario.json")
	content := `{"actions": [
		{"type": "reason", "note": "introduce the planet"},
		{"type": "play_cutscene", "cutscene_id": "stored_cutscene"}
	]}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	var out bytes.Buffer
	err := run(&out, []string{"--log-level", "error", path})

	require.NoError(t, err)
	assert.Contains(t, out.String(), "success: true")
	assert.Contains(t, out.String(), "actions executed: 2")
}

func TestRun_MissingScenarioFile(t *testing.T) {
	var out bytes.Buffer
	err := run(&out, []string{filepath.Join(t.TempDir(), "missing.json")})
	assert.ErrorContains(t, err, "failed to read scenario file")
}

func TestRun_InvalidFlagReturnsExitError(t *testing.T) {
	var out bytes.Buffer
	err := run(&out, []string{"--log-level", "loud", "scenario.json"})
	assert.Error(t, err)
}
