package cli

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/spf13/cobra"

	"github.com/kibitz-bridge/kibitz/internal/bidder"
	"github.com/kibitz-bridge/kibitz/internal/call"
	"github.com/kibitz-bridge/kibitz/internal/hand"
	"github.com/kibitz-bridge/kibitz/internal/selector"
	"github.com/kibitz-bridge/kibitz/internal/store"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	DB     string // SQLite database path
	Boards int    // number of boards to deal
	Seed   int64  // deal generator seed
}

// RunResult summarizes a completed batch run.
type RunResult struct {
	Token      string `json:"token"`
	Boards     int    `json:"boards"`
	Decisions  int    `json:"decisions"`
	SystemHash string `json:"system_hash"`
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Bid a batch of dealt boards into a database",
		Long: `Deal boards from a seeded generator, bid each one out with every seat
playing the rule set, and record every decision in a SQLite database
under a fresh run token. The same seed and rule set always produce
the same decisions, so two runs can be compared board by board.

The dealer rotates N, E, S, W with the board number.

Examples:
  kibitz run --db runs.db --boards 32 --seed 7
  kibitz run --db runs.db --rules ./precision.cue --seed 7`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRun(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.DB, "db", "", "SQLite database path")
	cmd.Flags().IntVar(&opts.Boards, "boards", 16, "number of boards to deal")
	cmd.Flags().Int64Var(&opts.Seed, "seed", 1, "deal generator seed")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runRun(opts *RunOptions, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	if opts.Boards < 1 {
		_ = formatter.Error(ErrCodeGeneric, "boards must be at least 1", nil)
		return NewExitError(ExitCommandError, "boards must be at least 1")
	}

	table, order, err := loadRuleSet(opts.RootOptions)
	if err != nil {
		if isMissingRulesFile(err) {
			_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
			return WrapExitError(ExitCommandError, "reading rule set", err)
		}
		return outputInvalid(formatter, err)
	}
	hash, err := table.Hash()
	if err != nil {
		return WrapExitError(ExitCommandError, "hashing rule table", err)
	}

	db, err := store.Open(opts.DB)
	if err != nil {
		_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
		return WrapExitError(ExitCommandError, "opening database", err)
	}
	defer db.Close()

	ctx := cmd.Context()
	token := store.NewRunToken()
	if err := db.BeginRun(ctx, store.Run{
		Token:      token,
		StartedAt:  time.Now(),
		SystemHash: hash,
	}); err != nil {
		_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
		return WrapExitError(ExitCommandError, "recording run", err)
	}

	b := bidder.New(table, order)
	rng := rand.New(rand.NewSource(opts.Seed))
	written := 0

	for board := 1; board <= opts.Boards; board++ {
		dealer := call.Position((board - 1) % 4)
		hands := hand.Deal(rng)

		_, decisions, err := b.CompleteAuction(dealer, hands)
		if err != nil {
			code := ErrCodeGeneric
			if selector.IsResolutionAmbiguity(err) {
				code = "RESOLUTION_AMBIGUITY"
			}
			_ = formatter.Error(code, fmt.Sprintf("board %d: %v", board, err), nil)
			return WrapExitError(ExitFailure, fmt.Sprintf("board %d", board), err)
		}

		records := make([]store.Decision, len(decisions))
		h := call.NewHistory(dealer)
		for seq, d := range decisions {
			records[seq] = store.Decision{
				RunToken: token,
				Board:    board,
				Seq:      seq,
				Position: h.PositionToAct().Char(),
				History:  h.String(),
				Call:     d.Call.Name,
				Rule:     d.Rule.Name,
				Priority: d.Priority.Name(),
			}
			h = h.Extend(d.Call)
		}
		if err := db.WriteBoard(ctx, records); err != nil {
			_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
			return WrapExitError(ExitCommandError, fmt.Sprintf("writing board %d", board), err)
		}

		written += len(records)
		formatter.VerboseLog("Board %d (dealer %s): %s", board, dealer, h.String())
	}

	result := RunResult{Token: token, Boards: opts.Boards, Decisions: written, SystemHash: hash}
	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	fmt.Fprintf(formatter.Writer, "✓ Run %s: %d board(s), %d decision(s)\n",
		result.Token, result.Boards, result.Decisions)
	fmt.Fprintf(formatter.Writer, "System hash: %s\n", result.SystemHash)
	return nil
}
