package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kibitz-bridge/kibitz/internal/cueload"
)

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid   bool   `json:"valid"`
	Rules   int    `json:"rules,omitempty"`
	Symbols int    `json:"symbols,omitempty"`
	Edges   int    `json:"edges,omitempty"`
	Hash    string `json:"hash,omitempty"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <rules.cue>",
		Short: "Check a rule set without using it",
		Long: `Load a CUE rule set, compile the rule table and resolve the priority
order, reporting any structural errors: unknown symbols, unresolvable
calls, contradictory or cyclic priority assertions.

Exit codes:
  0 - Rule set is valid
  1 - Rule set is invalid
  2 - Command error (unreadable file)`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}
	return cmd
}

func runValidate(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	rs, err := cueload.LoadFile(path)
	if err != nil {
		if isMissingRulesFile(err) {
			_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
			return WrapExitError(ExitCommandError, "reading rule set", err)
		}
		return outputInvalid(formatter, err)
	}

	formatter.VerboseLog("Loaded %d rule(s) from %s", rs.Table.Len(), path)
	for _, r := range rs.Table.Rules() {
		formatter.VerboseLog("  %s: %s (priority %s)", r.Name, r.Call.Name, r.Priority.Name())
	}

	hash, err := rs.Table.Hash()
	if err != nil {
		return WrapExitError(ExitCommandError, "hashing rule table", err)
	}

	result := ValidationResult{
		Valid:   true,
		Rules:   rs.Table.Len(),
		Symbols: len(rs.Order.Symbols()),
		Edges:   rs.Order.EdgeCount(),
		Hash:    hash,
	}
	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	fmt.Fprintf(formatter.Writer, "✓ Rule set valid: %d rule(s), %d symbol(s), %d order edge(s)\n",
		result.Rules, result.Symbols, result.Edges)
	fmt.Fprintf(formatter.Writer, "Table hash: %s\n", result.Hash)
	return nil
}

// outputInvalid reports a structurally broken rule set (exit code 1).
func outputInvalid(formatter *OutputFormatter, err error) error {
	code := errorCode(err)

	if formatter.Format == "json" {
		_ = formatter.Error(code, err.Error(), nil)
		return NewExitError(ExitFailure, fmt.Sprintf("%s: %s", code, err.Error()))
	}

	fmt.Fprintln(formatter.Writer, "✗ Rule set invalid")
	fmt.Fprintln(formatter.Writer)
	if pos := errorPosition(err); pos != "" {
		fmt.Fprintln(formatter.Writer, pos)
	}
	fmt.Fprintf(formatter.Writer, "  %s\n", err.Error())
	return NewExitError(ExitFailure, fmt.Sprintf("%s: %s", code, err.Error()))
}
