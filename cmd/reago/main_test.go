package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leofalp/reago/patterns/react"
	"github.com/leofalp/reago/providers/tool/nebula"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd(&out, &errOut)
	cmd.SetArgs(append(args, "--no-color", "--log-level", "error"))
	err := cmd.Execute()
	return out.String(), err
}

func TestRun_BuiltinNebula(t *testing.T) {
	out, err := execute(t, "run")
	require.NoError(t, err)

	assert.Contains(t, out, "Goal: "+nebula.Goal)
	assert.Contains(t, out, "action scan_sector_hazards")
	assert.Contains(t, out, "FINAL RESULT:")
	assert.Contains(t, out, "Success: true")
	assert.Contains(t, out, "Iterations: 6")
	assert.Contains(t, out, "Final Answer: Safe navigation path plotted.")
}

func TestRun_JSONReport(t *testing.T) {
	out, err := execute(t, "run", filepath.Join("scenarios", "calculator.yaml"), "--json")
	require.NoError(t, err)

	var rep react.Report
	require.NoError(t, json.Unmarshal([]byte(out), &rep))
	assert.Equal(t, react.Success, rep.Outcome)
	assert.Equal(t, "(6 * 7) squared is 1764.", rep.Answer)
	assert.Equal(t, 2, rep.Cycles)
	assert.Len(t, rep.Steps, 8)
	assert.NotEmpty(t, rep.ID)
}

func TestRun_GoalOverride(t *testing.T) {
	out, err := execute(t, "run", filepath.Join("scenarios", "calculator.yaml"), "--goal", "Compute something")
	require.NoError(t, err)
	assert.Contains(t, out, "Goal: Compute something")
}

func TestRun_MalformedAborts(t *testing.T) {
	out, err := execute(t, "run", filepath.Join("scenarios", "malformed.yaml"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, errEpisodesFailed))
	assert.Contains(t, out, "Success: false (aborted)")
	assert.Contains(t, out, "Reason: "+react.ReasonUnparseable)
	assert.Contains(t, out, "observation (parse_error)")
}

func TestRun_ZeroMalformedRetriesAbortsImmediately(t *testing.T) {
	out, err := execute(t, "run", "--max-malformed-retries=0", filepath.Join("scenarios", "malformed.yaml"))
	require.ErrorIs(t, err, errEpisodesFailed)
	assert.Contains(t, out, "Reason: "+react.ReasonUnparseable)
	assert.NotContains(t, out, "observation (parse_error)")
}

func TestRun_MaxCyclesFlagOverridesScenario(t *testing.T) {
	out, err := execute(t, "run", "--max-cycles", "2")
	require.ErrorIs(t, err, errEpisodesFailed)
	assert.Contains(t, out, "Success: false (exhausted)")
	assert.Contains(t, out, "Iterations: 2")
}

func TestRun_MaxCyclesFromEnv(t *testing.T) {
	t.Setenv("REAGO_MAX_CYCLES", "1")
	out, err := execute(t, "run")
	require.ErrorIs(t, err, errEpisodesFailed)
	assert.Contains(t, out, "Iterations: 1")
}

func TestRun_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reago.yaml")
	require.NoError(t, os.WriteFile(path, []byte("max-cycles: 3\njson: true\n"), 0o600))

	out, err := execute(t, "run", "--config", path)
	require.ErrorIs(t, err, errEpisodesFailed)

	var rep react.Report
	require.NoError(t, json.Unmarshal([]byte(out), &rep))
	assert.Equal(t, react.Exhausted, rep.Outcome)
	assert.Equal(t, 3, rep.Cycles)
}

func TestRun_Errors(t *testing.T) {
	_, err := execute(t, "run", "no-such-scenario.yaml")
	assert.Error(t, err)

	_, err = execute(t, "run", "--config", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "read config")

	_, err = execute(t, "run", "--max-cycles=-1")
	assert.ErrorIs(t, err, react.ErrInvalidConfig)
}

func TestBatch(t *testing.T) {
	out, err := execute(t, "batch", "nebula", filepath.Join("scenarios", "calculator.yaml"), "--concurrency", "2")
	require.NoError(t, err)

	nebulaAt := strings.Index(out, "SCENARIO nebula:")
	calcAt := strings.Index(out, "SCENARIO calculator:")
	require.GreaterOrEqual(t, nebulaAt, 0)
	require.Greater(t, calcAt, nebulaAt, "summaries follow argument order")
	assert.Equal(t, 2, strings.Count(out, "Success: true"))
}

func TestBatch_JSONWithFailure(t *testing.T) {
	out, err := execute(t, "batch", "--json",
		filepath.Join("scenarios", "calculator.yaml"),
		filepath.Join("scenarios", "malformed.yaml"))
	require.ErrorIs(t, err, errEpisodesFailed)
	assert.ErrorContains(t, err, "1 of 2")

	var reports []react.Report
	require.NoError(t, json.Unmarshal([]byte(out), &reports))
	require.Len(t, reports, 2)
	assert.Equal(t, react.Success, reports[0].Outcome)
	assert.Equal(t, react.Aborted, reports[1].Outcome)
}

func TestTools(t *testing.T) {
	out, err := execute(t, "tools")
	require.NoError(t, err)
	for _, name := range []string{nebula.ScanName, nebula.VelocityName, "calculator", "search", "web_fetch"} {
		assert.Contains(t, out, name)
	}
	assert.Contains(t, out, "x (integer, required)")
}

func TestPrompt(t *testing.T) {
	out, err := execute(t, "prompt")
	require.NoError(t, err)
	assert.Contains(t, out, "Available Tools:")
	assert.Contains(t, out, nebula.Goal)
}

func TestRun_MetricsServer(t *testing.T) {
	out, err := execute(t, "run", filepath.Join("scenarios", "calculator.yaml"), "--metrics-addr", "127.0.0.1:0")
	require.NoError(t, err)
	assert.Contains(t, out, "Success: true")
}
