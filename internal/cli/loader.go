package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/kibitz-bridge/kibitz/internal/cueload"
	"github.com/kibitz-bridge/kibitz/internal/priority"
	"github.com/kibitz-bridge/kibitz/internal/rules"
	"github.com/kibitz-bridge/kibitz/internal/system"
)

// ErrCodeGeneric labels errors that carry no structured code of their own.
const ErrCodeGeneric = "E000"

// loadRuleSet resolves the rule set a command operates on: the CUE file
// named by --rules, or the built-in system when the flag is empty.
func loadRuleSet(opts *RootOptions) (*rules.Table, *priority.Order, error) {
	if opts.Rules == "" {
		sys, err := system.New()
		if err != nil {
			return nil, nil, fmt.Errorf("built-in system: %w", err)
		}
		return sys.Table, sys.Order, nil
	}

	rs, err := cueload.LoadFile(opts.Rules)
	if err != nil {
		return nil, nil, err
	}
	return rs.Table, rs.Order, nil
}

// errorCode extracts the structured code from rule-set errors.
func errorCode(err error) string {
	var loadErr *cueload.LoadError
	if errors.As(err, &loadErr) {
		return loadErr.Code
	}
	switch {
	case priority.IsDuplicateSymbol(err):
		return "DUPLICATE_SYMBOL"
	case priority.IsCyclicPriority(err):
		return "CYCLIC_PRIORITY"
	case rules.IsUnresolvedCall(err):
		return "UNRESOLVED_CALL"
	}
	return ErrCodeGeneric
}

// errorPosition renders the source position of a load error; empty when
// the error carries none.
func errorPosition(err error) string {
	var loadErr *cueload.LoadError
	if errors.As(err, &loadErr) && loadErr.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d", loadErr.Pos.Filename(), loadErr.Pos.Line(), loadErr.Pos.Column())
	}
	return ""
}

// isMissingRulesFile distinguishes an unreadable file (a command error)
// from an invalid rule set (a validation failure).
func isMissingRulesFile(err error) bool {
	return errors.Is(err, os.ErrNotExist)
}
