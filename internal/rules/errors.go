package rules

import (
	"errors"
	"fmt"
)

// UnresolvedCallError reports a declared call with no resolvable base
// priority (or an unparseable call name) after the inheritance merge.
// Compilation is total: it never silently drops a call.
type UnresolvedCallError struct {
	Template string
	Call     string
	Reason   string
}

// Error implements the error interface.
func (e *UnresolvedCallError) Error() string {
	return fmt.Sprintf("UNRESOLVED_CALL: rule %q call %q: %s", e.Template, e.Call, e.Reason)
}

// IsUnresolvedCall reports whether err is an UnresolvedCallError.
// Uses errors.As to handle wrapped errors.
func IsUnresolvedCall(err error) bool {
	var ue *UnresolvedCallError
	return errors.As(err, &ue)
}
