package harness

import (
	"fmt"
	"strings"
)

// AssertionError is returned when an assertion fails. It carries the full
// trace so the failure message shows how the auction actually went.
type AssertionError struct {
	Type     string       // Assertion type for categorization
	Expected string       // Human-readable expected outcome
	Actual   string       // Human-readable actual outcome
	Trace    []TraceEvent // Full trace for debugging context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	fmt.Fprintf(&buf, "\nAuction:\n")
	for _, event := range e.Trace {
		fmt.Fprintf(&buf, "  [%d] %s: %s (%s)\n", event.Seq, event.Position, event.Call, event.Rule)
	}
	return buf.String()
}

// assertAuctionEquals checks the complete call sequence.
func assertAuctionEquals(result *Result, assertion Assertion) error {
	if result.Auction == assertion.Auction {
		return nil
	}
	return &AssertionError{
		Type:     AssertAuctionEquals,
		Expected: fmt.Sprintf("auction %q", assertion.Auction),
		Actual:   fmt.Sprintf("auction %q", result.Auction),
		Trace:    result.Trace,
	}
}

// assertContractIs checks the final contract. An empty expected contract
// asserts the deal was passed out.
func assertContractIs(result *Result, assertion Assertion) error {
	if result.Contract == assertion.Contract {
		return nil
	}
	expected := assertion.Contract
	if expected == "" {
		expected = "passout"
	}
	actual := result.Contract
	if actual == "" {
		actual = "passout"
	}
	return &AssertionError{
		Type:     AssertContractIs,
		Expected: fmt.Sprintf("contract %s", expected),
		Actual:   fmt.Sprintf("contract %s", actual),
		Trace:    result.Trace,
	}
}

// assertCallAtTurn checks the call made at one 0-based turn.
func assertCallAtTurn(result *Result, assertion Assertion) error {
	turn := *assertion.Turn
	if turn >= len(result.Trace) {
		return &AssertionError{
			Type:     AssertCallAtTurn,
			Expected: fmt.Sprintf("call %s at turn %d", assertion.Call, turn),
			Actual:   fmt.Sprintf("auction ended after %d calls", len(result.Trace)),
			Trace:    result.Trace,
		}
	}
	if result.Trace[turn].Call != assertion.Call {
		return &AssertionError{
			Type:     AssertCallAtTurn,
			Expected: fmt.Sprintf("call %s at turn %d", assertion.Call, turn),
			Actual:   fmt.Sprintf("call %s", result.Trace[turn].Call),
			Trace:    result.Trace,
		}
	}
	return nil
}

// assertRuleFired checks that a rule decided some call. With a turn the
// check is pinned to that turn, otherwise any turn qualifies.
func assertRuleFired(result *Result, assertion Assertion) error {
	if assertion.Turn != nil {
		turn := *assertion.Turn
		if turn >= len(result.Trace) {
			return &AssertionError{
				Type:     AssertRuleFired,
				Expected: fmt.Sprintf("rule %s at turn %d", assertion.Rule, turn),
				Actual:   fmt.Sprintf("auction ended after %d calls", len(result.Trace)),
				Trace:    result.Trace,
			}
		}
		if result.Trace[turn].Rule != assertion.Rule {
			return &AssertionError{
				Type:     AssertRuleFired,
				Expected: fmt.Sprintf("rule %s at turn %d", assertion.Rule, turn),
				Actual:   fmt.Sprintf("rule %s", result.Trace[turn].Rule),
				Trace:    result.Trace,
			}
		}
		return nil
	}

	for _, event := range result.Trace {
		if event.Rule == assertion.Rule {
			return nil
		}
	}
	return &AssertionError{
		Type:     AssertRuleFired,
		Expected: fmt.Sprintf("rule %s fired", assertion.Rule),
		Actual:   "rule did not decide any call",
		Trace:    result.Trace,
	}
}

// EvaluateAssertions evaluates every assertion against the result,
// returning the failure messages.
func EvaluateAssertions(result *Result, assertions []Assertion) []string {
	var errors []string
	for i, assertion := range assertions {
		var err error
		switch assertion.Type {
		case AssertAuctionEquals:
			err = assertAuctionEquals(result, assertion)
		case AssertContractIs:
			err = assertContractIs(result, assertion)
		case AssertCallAtTurn:
			err = assertCallAtTurn(result, assertion)
		case AssertRuleFired:
			err = assertRuleFired(result, assertion)
		default:
			err = fmt.Errorf("assertions[%d]: unknown assertion type %q", i, assertion.Type)
		}
		if err != nil {
			errors = append(errors, err.Error())
		}
	}
	return errors
}
