package cli

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/kibitz-bridge/kibitz/internal/harness"
	"github.com/kibitz-bridge/kibitz/internal/priority"
	"github.com/kibitz-bridge/kibitz/internal/rules"
)

// TestOptions holds flags for the test command.
type TestOptions struct {
	*RootOptions
	Filter string // glob over scenario names
	Update bool   // rewrite golden snapshots
}

// ScenarioResult is one scenario's outcome.
type ScenarioResult struct {
	Name    string   `json:"name"`
	Pass    bool     `json:"pass"`
	Auction string   `json:"auction,omitempty"`
	Errors  []string `json:"errors,omitempty"`
}

// TestResult summarizes a scenario suite.
type TestResult struct {
	Total     int              `json:"total"`
	Passed    int              `json:"passed"`
	Failed    int              `json:"failed"`
	Scenarios []ScenarioResult `json:"scenarios"`
}

// NewTestCommand creates the test command.
func NewTestCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TestOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "test <scenarios-dir>",
		Short: "Run conformance scenarios against the rule set",
		Long: `Load every *.yaml scenario in a directory, bid each one out, and check
its assertions. Scenarios with a pinned snapshot under <dir>/golden/
are also checked byte for byte against it; --update rewrites the
snapshots from the current rule set.

Exit codes:
  0 - All scenarios passed
  1 - At least one scenario failed
  2 - Command error (unreadable scenarios, bad rule set)

Examples:
  kibitz test ./scenarios
  kibitz test ./scenarios --filter 'transfer-*'
  kibitz test ./scenarios --update`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTest(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Filter, "filter", "", "glob over scenario names")
	cmd.Flags().BoolVar(&opts.Update, "update", false, "rewrite golden snapshots")

	return cmd
}

func runTest(opts *TestOptions, dir string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	table, order, err := loadRuleSet(opts.RootOptions)
	if err != nil {
		if isMissingRulesFile(err) {
			_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
			return WrapExitError(ExitCommandError, "reading rule set", err)
		}
		return outputInvalid(formatter, err)
	}

	info, err := os.Stat(dir)
	if err != nil {
		_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
		return WrapExitError(ExitCommandError, "reading scenarios", err)
	}
	if !info.IsDir() {
		_ = formatter.Error(ErrCodeGeneric, fmt.Sprintf("not a directory: %s", dir), nil)
		return NewExitError(ExitCommandError, fmt.Sprintf("not a directory: %s", dir))
	}

	scenarios, err := harness.LoadScenarioDir(dir)
	if err != nil {
		_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
		return WrapExitError(ExitCommandError, "loading scenarios", err)
	}

	// With --verbose the per-decision trace goes to stderr alongside the
	// pass/fail lines on stdout.
	var logger *slog.Logger
	if opts.Verbose {
		logger = slog.New(slog.NewTextHandler(formatter.ErrWriter, nil))
	}

	result := TestResult{}
	for _, s := range scenarios {
		if opts.Filter != "" {
			match, err := filepath.Match(opts.Filter, s.Name)
			if err != nil {
				_ = formatter.Error(ErrCodeGeneric, fmt.Sprintf("bad filter: %v", err), nil)
				return WrapExitError(ExitCommandError, "bad filter", err)
			}
			if !match {
				continue
			}
		}

		sr := runScenario(table, order, s, dir, opts.Update, logger)
		result.Total++
		if sr.Pass {
			result.Passed++
		} else {
			result.Failed++
		}
		result.Scenarios = append(result.Scenarios, sr)
		formatter.VerboseLog("Scenario %s: %s", sr.Name, passLabel(sr.Pass))
	}

	if formatter.Format == "json" {
		if err := formatter.Success(result); err != nil {
			return err
		}
		if result.Failed > 0 {
			return NewExitError(ExitFailure, fmt.Sprintf("%d scenario(s) failed", result.Failed))
		}
		return nil
	}

	for _, sr := range result.Scenarios {
		if sr.Pass {
			fmt.Fprintf(formatter.Writer, "✓ %s\n", sr.Name)
			continue
		}
		fmt.Fprintf(formatter.Writer, "✗ %s\n", sr.Name)
		for _, e := range sr.Errors {
			fmt.Fprintf(formatter.Writer, "    %s\n", e)
		}
	}
	fmt.Fprintf(formatter.Writer, "%d/%d scenario(s) passed\n", result.Passed, result.Total)

	if result.Failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d scenario(s) failed", result.Failed))
	}
	return nil
}

// runScenario bids one scenario out, checks its assertions, and then its
// golden snapshot if one is pinned under <dir>/golden/.
func runScenario(table *rules.Table, order *priority.Order, s *harness.Scenario, dir string, update bool, logger *slog.Logger) ScenarioResult {
	sr := ScenarioResult{Name: s.Name}

	result, err := harness.RunWithLogger(table, order, s, logger)
	if err != nil {
		sr.Errors = append(sr.Errors, err.Error())
		return sr
	}
	sr.Auction = result.Auction
	sr.Errors = append(sr.Errors, result.Errors...)
	sr.Pass = result.Pass

	goldenPath := filepath.Join(dir, "golden", s.Name+".golden")
	if update {
		if !sr.Pass {
			return sr
		}
		snapshot, err := harness.SnapshotJSON(s.Name, result)
		if err != nil {
			sr.Pass = false
			sr.Errors = append(sr.Errors, fmt.Sprintf("snapshot: %v", err))
			return sr
		}
		if err := os.MkdirAll(filepath.Dir(goldenPath), 0o755); err != nil {
			sr.Pass = false
			sr.Errors = append(sr.Errors, fmt.Sprintf("golden: %v", err))
			return sr
		}
		if err := os.WriteFile(goldenPath, snapshot, 0o644); err != nil {
			sr.Pass = false
			sr.Errors = append(sr.Errors, fmt.Sprintf("golden: %v", err))
		}
		return sr
	}

	pinned, err := os.ReadFile(goldenPath)
	if os.IsNotExist(err) {
		return sr
	}
	if err != nil {
		sr.Pass = false
		sr.Errors = append(sr.Errors, fmt.Sprintf("golden: %v", err))
		return sr
	}

	snapshot, err := harness.SnapshotJSON(s.Name, result)
	if err != nil {
		sr.Pass = false
		sr.Errors = append(sr.Errors, fmt.Sprintf("snapshot: %v", err))
		return sr
	}
	if !bytes.Equal(snapshot, pinned) {
		sr.Pass = false
		sr.Errors = append(sr.Errors, fmt.Sprintf("golden mismatch: %s (run with --update to repin)", goldenPath))
	}
	return sr
}

func passLabel(pass bool) string {
	if pass {
		return "pass"
	}
	return "fail"
}
