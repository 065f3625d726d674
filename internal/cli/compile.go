package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// CompileOptions holds flags for the compile command.
type CompileOptions struct {
	*RootOptions
	Output string // output file path
}

// CompileResult summarizes a compiled rule table.
type CompileResult struct {
	Rules  int    `json:"rules"`
	Hash   string `json:"hash"`
	Output string `json:"output,omitempty"`
}

// NewCompileCommand creates the compile command.
func NewCompileCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CompileOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "compile",
		Short: "Compile the rule set to its canonical table",
		Long: `Compile the rule set (built-in, or --rules) into the flat rule table
and print its identifying hash. With --output the canonical JSON
serialization is written to a file; two compilations of the same
declarations produce byte-identical output.

Examples:
  kibitz compile
  kibitz compile --rules ./precision.cue -o table.json
  kibitz compile --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(opts, cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "write canonical table JSON to file")

	return cmd
}

func runCompile(opts *CompileOptions, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	table, _, err := loadRuleSet(opts.RootOptions)
	if err != nil {
		if isMissingRulesFile(err) {
			_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
			return WrapExitError(ExitCommandError, "reading rule set", err)
		}
		return outputInvalid(formatter, err)
	}

	for _, r := range table.Rules() {
		formatter.VerboseLog("Compiled %s: %s (priority %s)", r.Name, r.Call.Name, r.Priority.Name())
	}

	data, err := table.CanonicalJSON()
	if err != nil {
		return WrapExitError(ExitCommandError, "serializing table", err)
	}
	hash, err := table.Hash()
	if err != nil {
		return WrapExitError(ExitCommandError, "hashing table", err)
	}

	if opts.Output != "" {
		if err := os.WriteFile(opts.Output, data, 0o644); err != nil {
			_ = formatter.Error(ErrCodeGeneric, fmt.Sprintf("writing output file: %v", err), nil)
			return WrapExitError(ExitCommandError, "writing output file", err)
		}
	}

	result := CompileResult{Rules: table.Len(), Hash: hash, Output: opts.Output}
	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	fmt.Fprintf(formatter.Writer, "✓ Compiled %d rule(s)\n", result.Rules)
	fmt.Fprintf(formatter.Writer, "Table hash: %s\n", result.Hash)
	if result.Output != "" {
		fmt.Fprintf(formatter.Writer, "Wrote canonical table to %s\n", result.Output)
	}
	return nil
}
