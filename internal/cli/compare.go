package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kibitz-bridge/kibitz/internal/store"
)

// CompareOptions holds flags for the compare command.
type CompareOptions struct {
	*RootOptions
	DB   string // SQLite database path
	RunA string // first run token
	RunB string // second run token
}

// CompareDiff is one divergent board in the JSON output.
type CompareDiff struct {
	Board    int    `json:"board"`
	AuctionA string `json:"auction_a"`
	AuctionB string `json:"auction_b"`
}

// CompareResult reports whether two runs bid every board the same way.
type CompareResult struct {
	RunA      string        `json:"run_a"`
	RunB      string        `json:"run_b"`
	Identical bool          `json:"identical"`
	Diffs     []CompareDiff `json:"diffs,omitempty"`
}

// NewCompareCommand creates the compare command.
func NewCompareCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CompareOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Diff two recorded runs board by board",
		Long: `Compare the auctions two runs produced for the same boards. Intended
for regression checks: run the same seed under two rule set revisions
and see exactly which boards changed.

Exit codes:
  0 - Runs are identical
  1 - Runs diverge on at least one board
  2 - Command error (missing run, database errors)

Examples:
  kibitz compare --db runs.db --run-a 01912e3a-... --run-b 01912f10-...`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompare(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.DB, "db", "", "SQLite database path")
	cmd.Flags().StringVar(&opts.RunA, "run-a", "", "first run token")
	cmd.Flags().StringVar(&opts.RunB, "run-b", "", "second run token")
	_ = cmd.MarkFlagRequired("db")
	_ = cmd.MarkFlagRequired("run-a")
	_ = cmd.MarkFlagRequired("run-b")

	return cmd
}

func runCompare(opts *CompareOptions, cmd *cobra.Command) error {
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
	for _, token := range []string{opts.RunA, opts.RunB} {
		if _, err := db.GetRun(ctx, token); err != nil {
			_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
			return WrapExitError(ExitCommandError, "reading run", err)
		}
	}

	diffs, err := db.CompareRuns(ctx, opts.RunA, opts.RunB)
	if err != nil {
		_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
		return WrapExitError(ExitCommandError, "comparing runs", err)
	}

	result := CompareResult{RunA: opts.RunA, RunB: opts.RunB, Identical: len(diffs) == 0}
	for _, d := range diffs {
		result.Diffs = append(result.Diffs, CompareDiff{
			Board:    d.Board,
			AuctionA: d.AuctionA,
			AuctionB: d.AuctionB,
		})
	}

	if formatter.Format == "json" {
		if err := formatter.Success(result); err != nil {
			return err
		}
		if !result.Identical {
			return NewExitError(ExitFailure, fmt.Sprintf("%d board(s) diverge", len(diffs)))
		}
		return nil
	}

	if result.Identical {
		fmt.Fprintln(formatter.Writer, "✓ Runs identical")
		return nil
	}

	fmt.Fprintf(formatter.Writer, "✗ %d board(s) diverge\n", len(diffs))
	for _, d := range result.Diffs {
		fmt.Fprintf(formatter.Writer, "Board %d:\n", d.Board)
		fmt.Fprintf(formatter.Writer, "  A: %s\n", emptyAuctionLabel(d.AuctionA))
		fmt.Fprintf(formatter.Writer, "  B: %s\n", emptyAuctionLabel(d.AuctionB))
	}
	return NewExitError(ExitFailure, fmt.Sprintf("%d board(s) diverge", len(diffs)))
}

func emptyAuctionLabel(auction string) string {
	if auction == "" {
		return "(not bid)"
	}
	return auction
}
