package cli

import (
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runBatch executes the run command and returns the new run's token.
func runBatch(t *testing.T, dbPath string, boards int, seed string) string {
	t.Helper()
	out, err := execute(t, "run",
		"--db", dbPath,
		"--boards", strconv.Itoa(boards),
		"--seed", seed,
		"--format", "json")
	require.NoError(t, err)
	data := responseData(t, out)
	token, ok := data["token"].(string)
	require.True(t, ok)
	require.NotEmpty(t, token)
	return token
}

func TestRunWritesDecisions(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "runs.db")

	out, err := execute(t, "run", "--db", dbPath, "--boards", "2", "--seed", "7", "--format", "json")
	require.NoError(t, err)
	data := responseData(t, out)
	assert.EqualValues(t, 2, data["boards"])
	assert.NotEmpty(t, data["token"])
	assert.NotEmpty(t, data["system_hash"])

	// Every auction has at least four calls.
	decisions, ok := data["decisions"].(float64)
	require.True(t, ok)
	assert.GreaterOrEqual(t, decisions, float64(8))
}

func TestRunTextOutput(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "runs.db")

	out, err := execute(t, "run", "--db", dbPath, "--boards", "1", "--seed", "3")
	require.NoError(t, err)
	assert.Contains(t, out, "✓ Run ")
	assert.Contains(t, out, "1 board(s)")
	assert.Contains(t, out, "System hash: ")
}

func TestRunSameSeedIsReproducible(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "runs.db")

	first := runBatch(t, dbPath, 4, "11")
	second := runBatch(t, dbPath, 4, "11")
	require.NotEqual(t, first, second)

	out, err := execute(t, "compare", "--db", dbPath, "--run-a", first, "--run-b", second)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ Runs identical")
}

func TestRunRejectsBadBoardCount(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "runs.db")

	_, err := execute(t, "run", "--db", dbPath, "--boards", "0")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}
