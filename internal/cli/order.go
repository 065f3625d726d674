package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kibitz-bridge/kibitz/internal/priority"
)

// OrderResult describes one pairwise comparison.
type OrderResult struct {
	A        string `json:"a"`
	B        string `json:"b"`
	Relation string `json:"relation"` // "Less", "Greater", "Incomparable"
}

// OrderSummary describes the resolved order as a whole.
type OrderSummary struct {
	Symbols []string `json:"symbols"`
	Edges   int      `json:"edges"`
}

// NewOrderCommand creates the order command.
func NewOrderCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "order [<symbol-a> <symbol-b>]",
		Short: "Inspect the resolved priority order",
		Long: `With two symbol names, report how the resolved order relates them:
Less, Greater, or Incomparable. With no arguments, list every symbol
and the size of the resolved relation.

Examples:
  kibitz order
  kibitz order Stayman JacobyTransfer
  kibitz order --rules ./precision.cue OneClubOpening OneDiamondOpening`,
		Args:          cobra.MaximumNArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOrder(rootOpts, args, cmd)
		},
	}
	return cmd
}

func runOrder(opts *RootOptions, args []string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	if len(args) == 1 {
		return NewExitError(ExitCommandError, "order takes zero or two symbol names")
	}

	_, order, err := loadRuleSet(opts)
	if err != nil {
		if isMissingRulesFile(err) {
			_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
			return WrapExitError(ExitCommandError, "reading rule set", err)
		}
		return outputInvalid(formatter, err)
	}

	if len(args) == 0 {
		return outputOrderSummary(formatter, order)
	}

	a := symbolByName(order, args[0])
	if a == nil {
		_ = formatter.Error(ErrCodeGeneric, fmt.Sprintf("unknown symbol %q", args[0]), nil)
		return NewExitError(ExitCommandError, fmt.Sprintf("unknown symbol %q", args[0]))
	}
	b := symbolByName(order, args[1])
	if b == nil {
		_ = formatter.Error(ErrCodeGeneric, fmt.Sprintf("unknown symbol %q", args[1]), nil)
		return NewExitError(ExitCommandError, fmt.Sprintf("unknown symbol %q", args[1]))
	}

	relation := order.Compare(a, b)
	result := OrderResult{A: a.Name(), B: b.Name(), Relation: relation.String()}
	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	switch relation {
	case priority.Less:
		fmt.Fprintf(formatter.Writer, "%s < %s\n", a.Name(), b.Name())
	case priority.Greater:
		fmt.Fprintf(formatter.Writer, "%s > %s\n", a.Name(), b.Name())
	default:
		fmt.Fprintf(formatter.Writer, "%s and %s are incomparable\n", a.Name(), b.Name())
	}
	return nil
}

func outputOrderSummary(formatter *OutputFormatter, order *priority.Order) error {
	symbols := order.Symbols()
	names := make([]string, len(symbols))
	for i, s := range symbols {
		names[i] = s.Name()
	}

	summary := OrderSummary{Symbols: names, Edges: order.EdgeCount()}
	if formatter.Format == "json" {
		return formatter.Success(summary)
	}

	fmt.Fprintf(formatter.Writer, "%d symbol(s), %d order edge(s)\n", len(names), summary.Edges)
	for _, name := range names {
		fmt.Fprintf(formatter.Writer, "  %s\n", name)
	}
	return nil
}

func symbolByName(order *priority.Order, name string) *priority.Symbol {
	for _, s := range order.Symbols() {
		if s.Name() == name {
			return s
		}
	}
	return nil
}
