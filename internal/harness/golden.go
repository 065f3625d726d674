package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/kibitz-bridge/kibitz/internal/rules"
)

// TraceSnapshot captures the complete trace of one scenario execution in
// a form suitable for canonical JSON serialization.
type TraceSnapshot struct {
	ScenarioName string       `json:"scenario_name"`
	Auction      string       `json:"auction"`
	Trace        []TraceEvent `json:"trace"`
}

// toCanonicalMap converts the snapshot to the map form that
// rules.MarshalCanonical accepts.
func (s *TraceSnapshot) toCanonicalMap() map[string]any {
	traceList := make([]any, len(s.Trace))
	for i, event := range s.Trace {
		traceList[i] = map[string]any{
			"seq":      event.Seq,
			"position": event.Position,
			"call":     event.Call,
			"rule":     event.Rule,
			"priority": event.Priority,
		}
	}
	return map[string]any{
		"scenario_name": s.ScenarioName,
		"auction":       s.Auction,
		"trace":         traceList,
	}
}

// RunWithGolden executes a scenario and compares its trace against the
// golden file testdata/golden/{scenario.Name}.golden. Regenerate with:
//
//	go test ./internal/harness -update
//
// Returns an error if execution fails or the scenario's own assertions
// fail; a trace mismatch fails the test through goldie.
func RunWithGolden(t *testing.T, scenario *Scenario) error {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return err
	}
	if !result.Pass {
		return &AssertionError{
			Type:     "scenario",
			Expected: "all assertions to hold",
			Actual:   result.Errors[0],
			Trace:    result.Trace,
		}
	}
	return AssertGolden(t, scenario.Name, result)
}

// AssertGolden compares an already-obtained result's trace against the
// named golden file.
func AssertGolden(t *testing.T, scenarioName string, result *Result) error {
	t.Helper()

	snapshot := TraceSnapshot{
		ScenarioName: scenarioName,
		Auction:      result.Auction,
		Trace:        result.Trace,
	}
	traceJSON, err := marshalSnapshot(&snapshot)
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenarioName, traceJSON)
	return nil
}

// SnapshotJSON serializes a result's trace to the canonical bytes the
// golden files hold. The CLI test runner uses it to write and compare
// golden files outside of `go test`.
func SnapshotJSON(scenarioName string, result *Result) ([]byte, error) {
	return marshalSnapshot(&TraceSnapshot{
		ScenarioName: scenarioName,
		Auction:      result.Auction,
		Trace:        result.Trace,
	})
}

func marshalSnapshot(s *TraceSnapshot) ([]byte, error) {
	return rules.MarshalCanonical(s.toCanonicalMap())
}
