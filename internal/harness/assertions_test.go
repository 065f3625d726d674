package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// openingResult mimics a finished 1N-pass-out auction.
func openingResult() *Result {
	r := NewResult()
	r.AddDecision(0, "N", "1N", "NotrumpOpening", "NotrumpOpening")
	r.AddDecision(1, "E", "P", "DefaultPass", "DefaultPass")
	r.AddDecision(2, "S", "P", "DefaultPass", "DefaultPass")
	r.AddDecision(3, "W", "P", "DefaultPass", "DefaultPass")
	r.Auction = "1N P P P"
	r.Contract = "1N"
	return r
}

func turn(n int) *int { return &n }

func TestAssertAuctionEquals(t *testing.T) {
	r := openingResult()

	errs := EvaluateAssertions(r, []Assertion{
		{Type: AssertAuctionEquals, Auction: "1N P P P"},
	})
	assert.Empty(t, errs)

	errs = EvaluateAssertions(r, []Assertion{
		{Type: AssertAuctionEquals, Auction: "1N P 2C P"},
	})
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], `"1N P 2C P"`)
	assert.Contains(t, errs[0], `"1N P P P"`)
}

func TestAssertContractIs(t *testing.T) {
	r := openingResult()

	assert.Empty(t, EvaluateAssertions(r, []Assertion{
		{Type: AssertContractIs, Contract: "1N"},
	}))

	errs := EvaluateAssertions(r, []Assertion{
		{Type: AssertContractIs, Contract: "3N"},
	})
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "contract 3N")

	// Empty expected contract asserts a passout.
	passout := NewResult()
	passout.Auction = "P P P P"
	assert.Empty(t, EvaluateAssertions(passout, []Assertion{
		{Type: AssertContractIs},
	}))

	errs = EvaluateAssertions(r, []Assertion{{Type: AssertContractIs}})
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "passout")
}

func TestAssertCallAtTurn(t *testing.T) {
	r := openingResult()

	assert.Empty(t, EvaluateAssertions(r, []Assertion{
		{Type: AssertCallAtTurn, Turn: turn(0), Call: "1N"},
		{Type: AssertCallAtTurn, Turn: turn(3), Call: "P"},
	}))

	errs := EvaluateAssertions(r, []Assertion{
		{Type: AssertCallAtTurn, Turn: turn(1), Call: "2C"},
	})
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "call 2C at turn 1")

	// Past the end of the auction.
	errs = EvaluateAssertions(r, []Assertion{
		{Type: AssertCallAtTurn, Turn: turn(9), Call: "P"},
	})
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "ended after 4 calls")
}

func TestAssertRuleFired(t *testing.T) {
	r := openingResult()

	// Any turn.
	assert.Empty(t, EvaluateAssertions(r, []Assertion{
		{Type: AssertRuleFired, Rule: "NotrumpOpening"},
	}))

	// Pinned to a turn.
	assert.Empty(t, EvaluateAssertions(r, []Assertion{
		{Type: AssertRuleFired, Rule: "DefaultPass", Turn: turn(2)},
	}))

	errs := EvaluateAssertions(r, []Assertion{
		{Type: AssertRuleFired, Rule: "Stayman"},
	})
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "did not decide any call")

	errs = EvaluateAssertions(r, []Assertion{
		{Type: AssertRuleFired, Rule: "Stayman", Turn: turn(0)},
	})
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "rule NotrumpOpening")
}

func TestAssertionErrorIncludesTrace(t *testing.T) {
	r := openingResult()
	err := assertAuctionEquals(r, Assertion{Type: AssertAuctionEquals, Auction: "P P P P"})
	require.Error(t, err)

	var ae *AssertionError
	require.ErrorAs(t, err, &ae)
	assert.Contains(t, ae.Error(), "[0] N: 1N (NotrumpOpening)")
}

func TestEvaluateAssertionsUnknownType(t *testing.T) {
	errs := EvaluateAssertions(openingResult(), []Assertion{
		{Type: "trace_contains"},
	})
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "unknown assertion type")
}
