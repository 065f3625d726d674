package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "kibitz.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func startRun(t *testing.T, s *Store, hash string) string {
	t.Helper()
	token := NewRunToken()
	err := s.BeginRun(context.Background(), Run{
		Token:      token,
		StartedAt:  time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC),
		SystemHash: hash,
	})
	require.NoError(t, err)
	return token
}

func TestOpenIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kibitz.db")

	s1, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s1.Close())

	s2, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s2.Close())
}

func TestRunRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	token := startRun(t, s, "abc123")

	run, err := s.GetRun(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, token, run.Token)
	assert.Equal(t, "abc123", run.SystemHash)
	assert.Equal(t, 2026, run.StartedAt.Year())

	runs, err := s.ListRuns(ctx)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, token, runs[0].Token)
}

func TestBeginRunIsIdempotent(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	token := startRun(t, s, "original")

	// A duplicate begin keeps the original metadata.
	err := s.BeginRun(ctx, Run{Token: token, StartedAt: time.Now(), SystemHash: "changed"})
	require.NoError(t, err)

	run, err := s.GetRun(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "original", run.SystemHash)
}

func decisionsForBoard(token string, board int, calls ...string) []Decision {
	out := make([]Decision, len(calls))
	positions := []string{"N", "E", "S", "W"}
	history := ""
	for i, c := range calls {
		out[i] = Decision{
			RunToken: token,
			Board:    board,
			Seq:      i,
			Position: positions[i%4],
			History:  history,
			Call:     c,
			Rule:     "SomeRule",
			Priority: "SomeSymbol",
		}
		if history == "" {
			history = c
		} else {
			history += " " + c
		}
	}
	return out
}

func TestDecisionsReadBackInOrder(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	token := startRun(t, s, "h")

	// Write boards out of order; reads come back board-then-seq.
	require.NoError(t, s.WriteBoard(ctx, decisionsForBoard(token, 2, "P", "P", "P", "P")))
	require.NoError(t, s.WriteBoard(ctx, decisionsForBoard(token, 1, "1N", "P", "P", "P")))

	decisions, err := s.ReadDecisions(ctx, token)
	require.NoError(t, err)
	require.Len(t, decisions, 8)
	assert.Equal(t, 1, decisions[0].Board)
	assert.Equal(t, "1N", decisions[0].Call)
	assert.Equal(t, 2, decisions[4].Board)
	for i, d := range decisions[:4] {
		assert.Equal(t, i, d.Seq)
	}
}

func TestWriteDecisionIsIdempotent(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	token := startRun(t, s, "h")

	d := decisionsForBoard(token, 1, "1N")[0]
	require.NoError(t, s.WriteDecision(ctx, d))

	// Same slot again with a different call: first write wins.
	d.Call = "2N"
	require.NoError(t, s.WriteDecision(ctx, d))

	decisions, err := s.ReadDecisions(ctx, token)
	require.NoError(t, err)
	require.Len(t, decisions, 1)
	assert.Equal(t, "1N", decisions[0].Call)
}

func TestWriteDecisionRequiresRun(t *testing.T) {
	s := openTestStore(t)
	err := s.WriteDecision(context.Background(), Decision{
		RunToken: "no-such-run", Board: 1, Seq: 0,
		Position: "N", Call: "P", Rule: "R", Priority: "S",
	})
	require.Error(t, err)
}

func TestCompareRuns(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	a := startRun(t, s, "v1")
	b := startRun(t, s, "v2")

	require.NoError(t, s.WriteBoard(ctx, decisionsForBoard(a, 1, "1N", "P", "P", "P")))
	require.NoError(t, s.WriteBoard(ctx, decisionsForBoard(a, 2, "1H", "P", "2H", "P", "P", "P")))
	require.NoError(t, s.WriteBoard(ctx, decisionsForBoard(b, 1, "1N", "P", "P", "P")))
	require.NoError(t, s.WriteBoard(ctx, decisionsForBoard(b, 2, "1H", "P", "3H", "P", "P", "P")))

	diffs, err := s.CompareRuns(ctx, a, b)
	require.NoError(t, err)
	require.Len(t, diffs, 1)
	assert.Equal(t, 2, diffs[0].Board)
	assert.Equal(t, "1H P 2H P P P", diffs[0].AuctionA)
	assert.Equal(t, "1H P 3H P P P", diffs[0].AuctionB)
}

func TestCompareRunsBoardMissingFromOneRun(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	a := startRun(t, s, "v1")
	b := startRun(t, s, "v1")

	require.NoError(t, s.WriteBoard(ctx, decisionsForBoard(a, 1, "P", "P", "P", "P")))

	diffs, err := s.CompareRuns(ctx, a, b)
	require.NoError(t, err)
	require.Len(t, diffs, 1)
	assert.Equal(t, 1, diffs[0].Board)
	assert.Empty(t, diffs[0].AuctionB)
}

func TestRunTokensAreOrderedByCreation(t *testing.T) {
	first := NewRunToken()
	second := NewRunToken()
	assert.Less(t, first, second)
}
