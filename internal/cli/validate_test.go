package cli

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateValidRuleSet(t *testing.T) {
	path := writeRules(t, validRules)

	out, err := execute(t, "validate", path)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ Rule set valid: 3 rule(s), 2 symbol(s), 1 order edge(s)")
	assert.Contains(t, out, "Table hash: ")
}

func TestValidateJSONOutput(t *testing.T) {
	path := writeRules(t, validRules)

	out, err := execute(t, "validate", path, "--format", "json")
	require.NoError(t, err)
	data := responseData(t, out)
	assert.Equal(t, true, data["valid"])
	assert.EqualValues(t, 3, data["rules"])
	assert.EqualValues(t, 2, data["symbols"])
	assert.NotEmpty(t, data["hash"])
}

func TestValidateVerboseListsRules(t *testing.T) {
	path := writeRules(t, validRules)

	out, err := execute(t, "validate", path, "--verbose")
	require.NoError(t, err)
	assert.Contains(t, out, "MajorOpening")
	assert.Contains(t, out, "Pass")
}

func TestValidateUnknownSymbol(t *testing.T) {
	path := writeRules(t, unknownSymbolRules)

	out, err := execute(t, "validate", path)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "✗ Rule set invalid")
	assert.Contains(t, out, `unknown symbol "Imaginary"`)
}

func TestValidateCyclicOrder(t *testing.T) {
	path := writeRules(t, cyclicRules)

	out, err := execute(t, "validate", path)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "✗ Rule set invalid")
	assert.Contains(t, out, "CYCLIC_PRIORITY")
}

func TestValidateInvalidJSONOutput(t *testing.T) {
	path := writeRules(t, cyclicRules)

	out, err := execute(t, "validate", path, "--format", "json")
	require.Error(t, err)
	resp := decodeResponse(t, out)
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "CYCLIC_PRIORITY", resp.Error.Code)
}

func TestValidateMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absent.cue")

	_, err := execute(t, "validate", path)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}
