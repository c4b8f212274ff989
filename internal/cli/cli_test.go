package cli

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_NoArgsPrintsUsage(t *testing.T) {
	var out bytes.Buffer
	opts, shouldExit, err := Parse(nil, &out)

	require.NoError(t, err)
	assert.True(t, shouldExit)
	assert.Nil(t, opts)
	assert.Contains(t, out.String(), "Usage:")
}

func TestParse_PositionalScenarioPath(t *testing.T) {
	var out bytes.Buffer
	opts, shouldExit, err := Parse([]string{"intro.json"}, &out)

	require.NoError(t, err)
	assert.False(t, shouldExit)
	assert.Equal(t, "intro.json", opts.ScenarioPath)
}

func TestParse_ScenarioFlags(t *testing.T) {
	var out bytes.Buffer

	opts, _, err := Parse([]string{"--scenario", "a.json"}, &out)
	require.NoError(t, err)
	assert.Equal(t, "a.json", opts.ScenarioPath)

	opts, _, err = Parse([]string{"-s", "b.json"}, &out)
	require.NoError(t, err)
	assert.Equal(t, "b.json", opts.ScenarioPath)
}

func TestParse_FlagsOverrideConfig(t *testing.T) {
	var out bytes.Buffer
	opts, _, err := Parse([]string{
		"--log-level", "debug",
		"--log-format", "json",
		"--status-port", "8081",
		"--action-timeout", "30s",
		"intro.json",
	}, &out)

	require.NoError(t, err)
	assert.Equal(t, "debug", opts.Config.LogLevel)
	assert.Equal(t, "json", opts.Config.LogFormat)
	assert.Equal(t, 8081, opts.Config.StatusPort)
	assert.Equal(t, 30*time.Second, opts.Config.ActionTimeout.Std())
}

func TestParse_InvalidLogLevel(t *testing.T) {
	var out bytes.Buffer
	_, _, err := Parse([]string{"--log-level", "verbose", "intro.json"}, &out)

	require.Error(t, err)
	exitErr, ok := err.(*ExitError)
	require.True(t, ok)
	assert.Equal(t, 2, exitErr.Code)
	assert.Contains(t, exitErr.Message, "invalid log level")
}

func TestParse_InvalidLogFormat(t *testing.T) {
	var out bytes.Buffer
	_, _, err := Parse([]string{"--log-format", "xml", "intro.json"}, &out)

	require.Error(t, err)
	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 2, exitErr.Code)
}

func TestParse_UnknownFlag(t *testing.T) {
	var out bytes.Buffer
	_, _, err := Parse([]string{"--bogus"}, &out)

	require.Error(t, err)
	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 2, exitErr.Code)
}

func TestParse_Help(t *testing.T) {
	var out bytes.Buffer
	_, shouldExit, err := Parse([]string{"--help"}, &out)

	require.NoError(t, err)
	assert.True(t, shouldExit)
}
