package cueload

import (
	"errors"
	"fmt"

	cueerrors "cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
)

// Error codes for rule-set load failures. Stable strings for tooling.
const (
	CodeBadSource    = "R100" // CUE source does not evaluate
	CodeBadStructure = "R101" // missing or malformed top-level structure
	CodeBadSymbol    = "R110" // symbol or group declaration failed
	CodeBadOrder     = "R120" // ordering assertion failed
	CodeBadRule      = "R130" // rule declaration malformed
	CodeBadReference = "R140" // reference to an unknown name
)

// LoadError is a rule-set load failure with its CUE source position.
type LoadError struct {
	Code    string
	Field   string
	Message string
	Pos     token.Pos
}

// Error implements the error interface.
func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Code, e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s: %s", e.Code, e.Field, e.Message)
}

// IsLoadError reports whether err is a LoadError, unwrapping as needed.
func IsLoadError(err error) bool {
	var le *LoadError
	return errors.As(err, &le)
}

// formatCUEError extracts position info from CUE evaluation errors.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}
	errs := cueerrors.Errors(err)
	if len(errs) == 0 {
		return err
	}
	first := errs[0]
	if positions := cueerrors.Positions(first); len(positions) > 0 {
		return &LoadError{
			Code:    CodeBadSource,
			Field:   "cue",
			Message: first.Error(),
			Pos:     positions[0],
		}
	}
	return &LoadError{Code: CodeBadSource, Field: "cue", Message: first.Error()}
}
