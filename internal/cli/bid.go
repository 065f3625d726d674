package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kibitz-bridge/kibitz/internal/bidder"
	"github.com/kibitz-bridge/kibitz/internal/call"
	"github.com/kibitz-bridge/kibitz/internal/hand"
	"github.com/kibitz-bridge/kibitz/internal/selector"
)

// BidOptions holds flags for the bid command.
type BidOptions struct {
	*RootOptions
	Hand    string // PBN hand, spades first
	History string // calls so far
	Dealer  string // seat that dealt
}

// BidResult is the decision for the hand on turn.
type BidResult struct {
	Call     string `json:"call"`
	Rule     string `json:"rule"`
	Priority string `json:"priority"`
	Auction  string `json:"auction"`
}

// NewBidCommand creates the bid command.
func NewBidCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &BidOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "bid",
		Short: "Decide the next call for a hand",
		Long: `Given a hand and the auction so far, report the call the rule set
makes and the rule behind it. Earlier calls are re-interpreted from
the rule set's preconditions, so conventional sequences (transfers,
relays) carry through.

Exit codes:
  0 - A rule decided the call
  1 - No rule applies, or two rules tied without a declared precedence
  2 - Command error (bad hand, illegal history)

Examples:
  kibitz bid --hand "AQ2.KQ2.A432.Q32" --history ""
  kibitz bid --hand "KJT6.JT98.Q.K876" --history "1N P" --dealer S`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBid(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Hand, "hand", "", "hand in PBN suit order (spades.hearts.diamonds.clubs)")
	cmd.Flags().StringVar(&opts.History, "history", "", "auction so far, space-separated calls")
	cmd.Flags().StringVar(&opts.Dealer, "dealer", "N", "dealer seat (N, E, S, W)")
	_ = cmd.MarkFlagRequired("hand")

	return cmd
}

func runBid(opts *BidOptions, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	h, err := hand.Parse(opts.Hand)
	if err != nil {
		_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
		return WrapExitError(ExitCommandError, "parsing hand", err)
	}

	if opts.Dealer == "" || len(opts.Dealer) != 1 {
		_ = formatter.Error(ErrCodeGeneric, fmt.Sprintf("invalid dealer %q", opts.Dealer), nil)
		return NewExitError(ExitCommandError, fmt.Sprintf("invalid dealer %q", opts.Dealer))
	}
	dealer, err := call.PositionFromChar(opts.Dealer[0])
	if err != nil {
		_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
		return WrapExitError(ExitCommandError, "parsing dealer", err)
	}

	history, err := call.ParseHistory(dealer, opts.History)
	if err != nil {
		_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
		return WrapExitError(ExitCommandError, "parsing history", err)
	}
	if history.IsComplete() {
		_ = formatter.Error(ErrCodeGeneric, "auction is already complete", nil)
		return NewExitError(ExitCommandError, "auction is already complete")
	}

	table, order, err := loadRuleSet(opts.RootOptions)
	if err != nil {
		if isMissingRulesFile(err) {
			_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
			return WrapExitError(ExitCommandError, "reading rule set", err)
		}
		return outputInvalid(formatter, err)
	}

	b := bidder.New(table, order)
	auction := b.Annotate(history)
	formatter.VerboseLog("Position to act: %s", history.PositionToAct())

	d, err := b.Decide(h, auction)
	if err != nil {
		code := ErrCodeGeneric
		if selector.IsResolutionAmbiguity(err) {
			code = "RESOLUTION_AMBIGUITY"
		}
		_ = formatter.Error(code, err.Error(), nil)
		return WrapExitError(ExitFailure, "no decision", err)
	}

	result := BidResult{
		Call:     d.Call.Name,
		Rule:     d.Rule.Name,
		Priority: d.Priority.Name(),
		Auction:  history.Extend(d.Call).String(),
	}
	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	fmt.Fprintf(formatter.Writer, "%s\n", result.Call)
	fmt.Fprintf(formatter.Writer, "Rule: %s (priority %s)\n", result.Rule, result.Priority)
	fmt.Fprintf(formatter.Writer, "Auction: %s\n", result.Auction)
	return nil
}
