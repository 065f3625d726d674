package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBidOpensOneNotrump(t *testing.T) {
	out, err := execute(t, "bid", "--hand", "AQ2.KQ2.A432.Q32")
	require.NoError(t, err)
	assert.Contains(t, out, "1N")
	assert.Contains(t, out, "Rule: NotrumpOpening")
}

func TestBidInterpretsEarlierCalls(t *testing.T) {
	// South holds five spades over partner's 1N; the transfer applies
	// because the opening is re-interpreted from the calls alone.
	out, err := execute(t, "bid",
		"--hand", "98753.43.K875.J4",
		"--history", "1N P",
		"--dealer", "N")
	require.NoError(t, err)
	assert.Contains(t, out, "2H")
	assert.Contains(t, out, "Rule: JacobyTransfer")
}

func TestBidJSONOutput(t *testing.T) {
	out, err := execute(t, "bid",
		"--hand", "98753.43.K875.J4",
		"--history", "1N P",
		"--format", "json")
	require.NoError(t, err)
	data := responseData(t, out)
	assert.Equal(t, "2H", data["call"])
	assert.Equal(t, "JacobyTransfer", data["rule"])
	assert.Equal(t, "1N P 2H", data["auction"])
}

func TestBidRejectsBadHand(t *testing.T) {
	_, err := execute(t, "bid", "--hand", "notahand")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestBidRejectsBadDealer(t *testing.T) {
	_, err := execute(t, "bid", "--hand", "AQ2.KQ2.A432.Q32", "--dealer", "Q")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestBidRejectsIllegalHistory(t *testing.T) {
	_, err := execute(t, "bid", "--hand", "AQ2.KQ2.A432.Q32", "--history", "1N 1C")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestBidRejectsCompletedAuction(t *testing.T) {
	_, err := execute(t, "bid", "--hand", "AQ2.KQ2.A432.Q32", "--history", "P P P P")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestBidWithoutFallbackRule(t *testing.T) {
	path := writeRules(t, noPassRules)

	out, err := execute(t, "--rules", path, "bid", "--hand", "5432.432.432.432")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "no rule applies")
}
