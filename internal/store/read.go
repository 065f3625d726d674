package store

import (
	"context"
	"fmt"
	"time"
)

// ListRuns returns every run, oldest first. Run tokens are UUIDv7 so the
// token ordering is also the creation ordering.
func (s *Store) ListRuns(ctx context.Context) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT token, started_at, system_hash
		FROM runs
		ORDER BY token COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() {
		var r Run
		var startedAt string
		if err := rows.Scan(&r.Token, &startedAt, &r.SystemHash); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		r.StartedAt, err = time.Parse(time.RFC3339Nano, startedAt)
		if err != nil {
			return nil, fmt.Errorf("parse started_at: %w", err)
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// GetRun returns one run's metadata.
func (s *Store) GetRun(ctx context.Context, token string) (Run, error) {
	var r Run
	var startedAt string
	err := s.db.QueryRowContext(ctx, `
		SELECT token, started_at, system_hash FROM runs WHERE token = ?
	`, token).Scan(&r.Token, &startedAt, &r.SystemHash)
	if err != nil {
		return Run{}, fmt.Errorf("get run %s: %w", token, err)
	}
	r.StartedAt, err = time.Parse(time.RFC3339Nano, startedAt)
	if err != nil {
		return Run{}, fmt.Errorf("parse started_at: %w", err)
	}
	return r, nil
}

// ReadDecisions returns a run's decisions in deterministic order:
// board ascending, then call sequence. Empty slice if the run is empty.
func (s *Store) ReadDecisions(ctx context.Context, token string) ([]Decision, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT run_token, board, seq, position, history, call, rule, priority
		FROM decisions
		WHERE run_token = ?
		ORDER BY board ASC, seq ASC
	`, token)
	if err != nil {
		return nil, fmt.Errorf("query decisions: %w", err)
	}
	defer rows.Close()

	decisions := []Decision{}
	for rows.Next() {
		var d Decision
		if err := rows.Scan(
			&d.RunToken, &d.Board, &d.Seq, &d.Position,
			&d.History, &d.Call, &d.Rule, &d.Priority,
		); err != nil {
			return nil, fmt.Errorf("scan decision: %w", err)
		}
		decisions = append(decisions, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate decisions: %w", err)
	}
	return decisions, nil
}

// BoardDiff reports one board bidding differently in two runs.
type BoardDiff struct {
	Board int

	// AuctionA and AuctionB are the space-separated call sequences the
	// two runs produced for the board.
	AuctionA string
	AuctionB string
}

// CompareRuns diffs two runs board by board, returning the boards whose
// auctions diverge. A board present in only one run counts as divergent
// with the missing side empty. Intended for regression checks between
// system revisions, so the runs' system hashes are NOT required to match.
func (s *Store) CompareRuns(ctx context.Context, tokenA, tokenB string) ([]BoardDiff, error) {
	auctionsA, err := s.boardAuctions(ctx, tokenA)
	if err != nil {
		return nil, err
	}
	auctionsB, err := s.boardAuctions(ctx, tokenB)
	if err != nil {
		return nil, err
	}

	maxBoard := 0
	for board := range auctionsA {
		if board > maxBoard {
			maxBoard = board
		}
	}
	for board := range auctionsB {
		if board > maxBoard {
			maxBoard = board
		}
	}

	var diffs []BoardDiff
	for board := 1; board <= maxBoard; board++ {
		a, inA := auctionsA[board]
		b, inB := auctionsB[board]
		if !inA && !inB {
			continue
		}
		if a != b {
			diffs = append(diffs, BoardDiff{Board: board, AuctionA: a, AuctionB: b})
		}
	}
	return diffs, nil
}

// boardAuctions reassembles each board's final call sequence.
func (s *Store) boardAuctions(ctx context.Context, token string) (map[int]string, error) {
	decisions, err := s.ReadDecisions(ctx, token)
	if err != nil {
		return nil, err
	}
	auctions := map[int]string{}
	for _, d := range decisions {
		if auctions[d.Board] == "" {
			auctions[d.Board] = d.Call
		} else {
			auctions[d.Board] += " " + d.Call
		}
	}
	return auctions, nil
}
