package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const passoutScenario = `name: passout
description: Four flat hands below opening strength pass the deal out.
hands:
  N: "AQ32.432.432.Q32"
  E: "KJ4.AJ5.J65.J654"
  S: "T98.KQ6.KQ7.T987"
  W: "765.T987.AT98.AK"
assertions:
  - type: auction_equals
    auction: "P P P P"
  - type: contract_is
`

const failingScenario = `name: wrong-auction
description: The expected auction never happens with these hands.
hands:
  N: "AQ32.432.432.Q32"
  E: "KJ4.AJ5.J65.J654"
  S: "T98.KQ6.KQ7.T987"
  W: "765.T987.AT98.AK"
assertions:
  - type: auction_equals
    auction: "1N P P P"
`

// writeScenarioDir builds a scenario directory from name/content pairs.
func writeScenarioDir(t *testing.T, scenarios map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range scenarios {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return dir
}

func TestTestRunsScenarios(t *testing.T) {
	dir := writeScenarioDir(t, map[string]string{"passout.yaml": passoutScenario})

	out, err := execute(t, "test", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ passout")
	assert.Contains(t, out, "1/1 scenario(s) passed")
}

func TestTestReportsFailures(t *testing.T) {
	dir := writeScenarioDir(t, map[string]string{
		"passout.yaml": passoutScenario,
		"wrong.yaml":   failingScenario,
	})

	out, err := execute(t, "test", dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "✓ passout")
	assert.Contains(t, out, "✗ wrong-auction")
	assert.Contains(t, out, "1/2 scenario(s) passed")
}

func TestTestFilter(t *testing.T) {
	dir := writeScenarioDir(t, map[string]string{
		"passout.yaml": passoutScenario,
		"wrong.yaml":   failingScenario,
	})

	// The failing scenario is filtered out, so the suite passes.
	out, err := execute(t, "test", dir, "--filter", "pass*")
	require.NoError(t, err)
	assert.Contains(t, out, "1/1 scenario(s) passed")
}

func TestTestVerboseSurfacesDecisionTrace(t *testing.T) {
	dir := writeScenarioDir(t, map[string]string{"passout.yaml": passoutScenario})

	out, err := execute(t, "--verbose", "test", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "msg=decided")
	assert.Contains(t, out, "rule=DefaultPass")
}

func TestTestJSONOutput(t *testing.T) {
	dir := writeScenarioDir(t, map[string]string{"passout.yaml": passoutScenario})

	out, err := execute(t, "test", dir, "--format", "json")
	require.NoError(t, err)
	data := responseData(t, out)
	assert.EqualValues(t, 1, data["total"])
	assert.EqualValues(t, 1, data["passed"])
	assert.EqualValues(t, 0, data["failed"])
}

func TestTestGoldenRoundTrip(t *testing.T) {
	dir := writeScenarioDir(t, map[string]string{"passout.yaml": passoutScenario})

	// Pin the snapshot, then verify against it.
	_, err := execute(t, "test", dir, "--update")
	require.NoError(t, err)

	goldenPath := filepath.Join(dir, "golden", "passout.golden")
	pinned, err := os.ReadFile(goldenPath)
	require.NoError(t, err)
	assert.Contains(t, string(pinned), `"scenario_name":"passout"`)

	_, err = execute(t, "test", dir)
	require.NoError(t, err)
}

func TestTestGoldenMismatch(t *testing.T) {
	dir := writeScenarioDir(t, map[string]string{"passout.yaml": passoutScenario})

	_, err := execute(t, "test", dir, "--update")
	require.NoError(t, err)

	goldenPath := filepath.Join(dir, "golden", "passout.golden")
	require.NoError(t, os.WriteFile(goldenPath, []byte("stale"), 0o644))

	out, err := execute(t, "test", dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "golden mismatch")
}

func TestTestMissingDirectory(t *testing.T) {
	_, err := execute(t, "test", filepath.Join(t.TempDir(), "absent"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}
