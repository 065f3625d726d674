package priority

import (
	"errors"
	"fmt"
	"strings"
)

// ErrSealed is returned by Registry mutations after Resolve has run.
// Late assertions would make the resolved order depend on call timing,
// so they are refused outright.
var ErrSealed = errors.New("priority registry is sealed")

// DuplicateSymbolError reports a symbol name registered twice.
// Names are diagnostic, not semantic, but must stay unique for tooling.
type DuplicateSymbolError struct {
	Name string
}

// Error implements the error interface.
func (e *DuplicateSymbolError) Error() string {
	return fmt.Sprintf("DUPLICATE_SYMBOL: priority symbol %q already registered", e.Name)
}

// IsDuplicateSymbol reports whether err is a DuplicateSymbolError.
// Uses errors.As to handle wrapped errors.
func IsDuplicateSymbol(err error) bool {
	var de *DuplicateSymbolError
	return errors.As(err, &de)
}

// CyclicPriorityError reports contradictory ordering assertions: following
// the recorded assertions leads from a symbol back to itself.
type CyclicPriorityError struct {
	// Symbols lists the participating symbol names, in cycle order, with
	// the first symbol repeated at the end.
	Symbols []string

	// Trail describes the assertions that produced each step of the
	// cycle, so the contradictory declarations can be located and fixed.
	Trail []string
}

// Error implements the error interface.
func (e *CyclicPriorityError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "CYCLIC_PRIORITY: contradictory ordering assertions: %s", strings.Join(e.Symbols, " < "))
	for _, step := range e.Trail {
		b.WriteString("\n  ")
		b.WriteString(step)
	}
	return b.String()
}

// IsCyclicPriority reports whether err is a CyclicPriorityError.
// Uses errors.As to handle wrapped errors.
func IsCyclicPriority(err error) bool {
	var ce *CyclicPriorityError
	return errors.As(err, &ce)
}
