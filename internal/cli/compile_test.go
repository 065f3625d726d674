package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompileBuiltinSystem(t *testing.T) {
	out, err := execute(t, "compile")
	require.NoError(t, err)
	assert.Contains(t, out, "✓ Compiled")
	assert.Contains(t, out, "Table hash: ")
}

func TestCompileRuleSetFile(t *testing.T) {
	path := writeRules(t, validRules)

	out, err := execute(t, "--rules", path, "compile")
	require.NoError(t, err)
	assert.Contains(t, out, "✓ Compiled 3 rule(s)")
}

func TestCompileWritesCanonicalOutput(t *testing.T) {
	path := writeRules(t, validRules)
	outFile := filepath.Join(t.TempDir(), "table.json")

	out, err := execute(t, "--rules", path, "compile", "-o", outFile)
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote canonical table to "+outFile)

	data, err := os.ReadFile(outFile)
	require.NoError(t, err)
	assert.True(t, json.Valid(data))
}

func TestCompileIsDeterministic(t *testing.T) {
	path := writeRules(t, validRules)
	first := filepath.Join(t.TempDir(), "a.json")
	second := filepath.Join(t.TempDir(), "b.json")

	_, err := execute(t, "--rules", path, "compile", "-o", first)
	require.NoError(t, err)
	_, err = execute(t, "--rules", path, "compile", "-o", second)
	require.NoError(t, err)

	a, err := os.ReadFile(first)
	require.NoError(t, err)
	b, err := os.ReadFile(second)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestCompileJSONOutput(t *testing.T) {
	path := writeRules(t, validRules)

	out, err := execute(t, "--rules", path, "compile", "--format", "json")
	require.NoError(t, err)
	data := responseData(t, out)
	assert.EqualValues(t, 3, data["rules"])
	assert.NotEmpty(t, data["hash"])
}

func TestCompileInvalidRuleSet(t *testing.T) {
	path := writeRules(t, cyclicRules)

	out, err := execute(t, "--rules", path, "compile")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "✗ Rule set invalid")
}
