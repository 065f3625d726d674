package store

import (
	"context"
	"fmt"
	"time"
)

// Run identifies one batch bidding run.
type Run struct {
	Token      string
	StartedAt  time.Time
	SystemHash string
}

// Decision is one interpreted call within a run.
type Decision struct {
	RunToken string
	Board    int
	Seq      int
	Position string
	History  string
	Call     string
	Rule     string
	Priority string
}

// BeginRun records a new run. Duplicate tokens are silently ignored so a
// resumed run keeps its original metadata.
func (s *Store) BeginRun(ctx context.Context, run Run) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (token, started_at, system_hash)
		VALUES (?, ?, ?)
		ON CONFLICT(token) DO NOTHING
	`,
		run.Token,
		run.StartedAt.UTC().Format(time.RFC3339Nano),
		run.SystemHash,
	)
	if err != nil {
		return fmt.Errorf("begin run: %w", err)
	}
	return nil
}

// WriteDecision appends one decision. Re-inserting an existing
// (run, board, seq) is silently ignored; the log is append-once.
//
// The run referenced by RunToken must exist (foreign key constraint).
func (s *Store) WriteDecision(ctx context.Context, d Decision) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO decisions
		(run_token, board, seq, position, history, call, rule, priority)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(run_token, board, seq) DO NOTHING
	`,
		d.RunToken,
		d.Board,
		d.Seq,
		d.Position,
		d.History,
		d.Call,
		d.Rule,
		d.Priority,
	)
	if err != nil {
		return fmt.Errorf("write decision: %w", err)
	}
	return nil
}

// WriteBoard appends a whole board's decisions in one transaction, so a
// crash never leaves a half-written auction.
func (s *Store) WriteBoard(ctx context.Context, decisions []Decision) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("write board: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed.

	for _, d := range decisions {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO decisions
			(run_token, board, seq, position, history, call, rule, priority)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(run_token, board, seq) DO NOTHING
		`,
			d.RunToken, d.Board, d.Seq, d.Position,
			d.History, d.Call, d.Rule, d.Priority,
		); err != nil {
			return fmt.Errorf("write board: insert seq %d: %w", d.Seq, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("write board: commit: %w", err)
	}
	return nil
}
