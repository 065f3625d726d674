package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// validRules is a minimal but well-formed CUE rule set.
const validRules = `
system: {
	symbols: ["Opening", "DefaultPass"]
	order: [["DefaultPass", "Opening"]]
	rules: {
		MajorOpening: {
			calls: ["1H", "1S"]
			constraints: [{kind: "minHCP", n: 12}]
			priority: "Opening"
		}
		Pass: {
			calls: ["P"]
			priority: "DefaultPass"
			category: "DefaultPass"
		}
	}
}
`

// noPassRules has no fallback, so weak hands get no decision at all.
const noPassRules = `
system: {
	symbols: ["Opening"]
	rules: {
		MajorOpening: {
			calls: ["1H", "1S"]
			constraints: [{kind: "minHCP", n: 12}]
			priority: "Opening"
		}
	}
}
`

// unknownSymbolRules references a priority symbol never declared.
const unknownSymbolRules = `
system: {
	symbols: ["Real"]
	rules: {
		R: {
			calls: ["P"]
			priority: "Imaginary"
		}
	}
}
`

// cyclicRules asserts A above B and B above A.
const cyclicRules = `
system: {
	symbols: ["A", "B"]
	order: [["A", "B"], ["B", "A"]]
	rules: {
		R: {
			calls: ["P"]
			priority: "A"
		}
	}
}
`

// execute runs the CLI with the given arguments, capturing all output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

// decodeResponse parses a JSON-format command's output envelope.
func decodeResponse(t *testing.T, out string) CLIResponse {
	t.Helper()
	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	return resp
}

// responseData returns the decoded success payload as a map.
func responseData(t *testing.T, out string) map[string]any {
	t.Helper()
	resp := decodeResponse(t, out)
	require.Equal(t, "ok", resp.Status)
	data, ok := resp.Data.(map[string]any)
	require.True(t, ok, "data is not an object: %v", resp.Data)
	return data
}

// writeRules writes CUE source to a temp file and returns its path.
func writeRules(t *testing.T, src string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rules.cue")
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))
	return path
}
