package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kibitz-bridge/kibitz/internal/store"
)

// TraceOptions holds flags for the trace command.
type TraceOptions struct {
	*RootOptions
	DB  string // SQLite database path
	Run string // run token to trace
}

// TraceDecision is one recorded decision in a trace listing.
type TraceDecision struct {
	Seq      int    `json:"seq"`
	Position string `json:"position"`
	Call     string `json:"call"`
	Rule     string `json:"rule"`
	Priority string `json:"priority"`
}

// BoardTrace is one board's recorded auction.
type BoardTrace struct {
	Board     int             `json:"board"`
	Auction   string          `json:"auction"`
	Decisions []TraceDecision `json:"decisions"`
}

// TraceResult is a whole run's decision log.
type TraceResult struct {
	Token      string       `json:"token"`
	SystemHash string       `json:"system_hash"`
	Boards     []BoardTrace `json:"boards"`
}

// NewTraceCommand creates the trace command.
func NewTraceCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TraceOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "trace",
		Short: "Show the decisions a recorded run made",
		Long: `Read a run's decision log from the database and print it board by
board: each call, the rule that made it, and the rule's priority.

Examples:
  kibitz trace --db runs.db --run 01912e3a-...
  kibitz trace --db runs.db --run 01912e3a-... --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrace(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.DB, "db", "", "SQLite database path")
	cmd.Flags().StringVar(&opts.Run, "run", "", "run token")
	_ = cmd.MarkFlagRequired("db")
	_ = cmd.MarkFlagRequired("run")

	return cmd
}

func runTrace(opts *TraceOptions, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	db, err := store.Open(opts.DB)
	if err != nil {
		_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
		return WrapExitError(ExitCommandError, "opening database", err)
	}
	defer db.Close()

	ctx := cmd.Context()
	run, err := db.GetRun(ctx, opts.Run)
	if err != nil {
		_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
		return WrapExitError(ExitCommandError, "reading run", err)
	}

	decisions, err := db.ReadDecisions(ctx, opts.Run)
	if err != nil {
		_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
		return WrapExitError(ExitCommandError, "reading decisions", err)
	}

	result := TraceResult{Token: run.Token, SystemHash: run.SystemHash}
	for _, d := range decisions {
		n := len(result.Boards)
		if n == 0 || result.Boards[n-1].Board != d.Board {
			result.Boards = append(result.Boards, BoardTrace{Board: d.Board})
			n++
		}
		bt := &result.Boards[n-1]
		bt.Decisions = append(bt.Decisions, TraceDecision{
			Seq:      d.Seq,
			Position: d.Position,
			Call:     d.Call,
			Rule:     d.Rule,
			Priority: d.Priority,
		})
		if bt.Auction == "" {
			bt.Auction = d.Call
		} else {
			bt.Auction += " " + d.Call
		}
	}

	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	fmt.Fprintf(formatter.Writer, "Run %s (system %s)\n", result.Token, result.SystemHash)
	for _, bt := range result.Boards {
		fmt.Fprintf(formatter.Writer, "Board %d: %s\n", bt.Board, bt.Auction)
		for _, d := range bt.Decisions {
			fmt.Fprintf(formatter.Writer, "  [%d] %s: %s (%s)\n", d.Seq, d.Position, d.Call, d.Rule)
		}
	}
	if len(result.Boards) == 0 {
		fmt.Fprintln(formatter.Writer, "No decisions recorded")
	}
	return nil
}
