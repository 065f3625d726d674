// Package selector picks the winning candidate at each decision point.
//
// The caller's matching layer filters the compiled rule table down to the
// candidates whose preconditions and hand constraints currently hold;
// this package resolves each candidate's effective priority (applying
// conditional overrides against the live hand state) and returns the
// unique maximum under the resolved global order. Two simultaneously
// legal candidates with no declared precedence are a rule-authoring gap
// and surface as a ResolutionAmbiguityError, never as a silent guess.
package selector

import (
	"errors"
	"fmt"

	"github.com/kibitz-bridge/kibitz/internal/call"
	"github.com/kibitz-bridge/kibitz/internal/priority"
	"github.com/kibitz-bridge/kibitz/internal/rules"
)

// ConstraintEvaluator answers whether a hand predicate currently holds.
// Implementations are pure with respect to one decision point: the same
// constraint must evaluate the same way for the duration of a SelectBest
// call. The production implementation lives in the vocab package; a
// satisfiability engine could stand in behind the same interface.
type ConstraintEvaluator interface {
	Holds(c rules.Constraint) bool
}

// Candidate is a compiled rule paired with the concrete call it would
// make, once the external matcher has established that the rule applies.
type Candidate struct {
	Rule *rules.CompiledRule
	Call call.Call

	// Effective is the priority symbol after conditional overrides,
	// filled by EffectivePriority.
	Effective *priority.Symbol
}

// ResolutionAmbiguityError reports two simultaneously legal candidates
// whose effective priorities are incomparable in the global order. This
// is a rule-authoring gap, deterministic for a given configuration and
// input, so it is surfaced rather than retried.
type ResolutionAmbiguityError struct {
	RuleA, CallA, SymbolA string
	RuleB, CallB, SymbolB string
}

// Error implements the error interface.
func (e *ResolutionAmbiguityError) Error() string {
	return fmt.Sprintf(
		"RESOLUTION_AMBIGUITY: no declared precedence between %s (%s, priority %s) and %s (%s, priority %s)",
		e.RuleA, e.CallA, e.SymbolA, e.RuleB, e.CallB, e.SymbolB)
}

// IsResolutionAmbiguity reports whether err is a ResolutionAmbiguityError.
// Uses errors.As to handle wrapped errors.
func IsResolutionAmbiguity(err error) bool {
	var ae *ResolutionAmbiguityError
	return errors.As(err, &ae)
}

// EffectivePriority resolves a rule's priority against the live hand
// state: conditional entries are scanned in declared order and the last
// entry whose predicate holds wins; with no match the base priority
// stands. Later entries are refinements of earlier, more general ones by
// authoring convention.
func EffectivePriority(r *rules.CompiledRule, eval ConstraintEvaluator) *priority.Symbol {
	effective := r.Priority
	for _, entry := range r.Conditional {
		if eval.Holds(entry.When) {
			effective = entry.Priority
		}
	}
	return effective
}

// NewCandidate builds a candidate with its effective priority resolved.
func NewCandidate(r *rules.CompiledRule, c call.Call, eval ConstraintEvaluator) Candidate {
	return Candidate{Rule: r, Call: c, Effective: EffectivePriority(r, eval)}
}

// SelectBest returns the candidate whose effective priority outranks
// every other candidate's, or nil for an empty list (no convention
// applies, a normal outcome). A left fold keeps the running maximum; an
// Incomparable result against the running maximum means the rule set
// never related the two conventions, and selection fails.
func SelectBest(candidates []Candidate, order *priority.Order) (*Candidate, error) {
	if len(candidates) == 0 {
		return nil, nil
	}
	best := candidates[0]
	for _, next := range candidates[1:] {
		switch order.Compare(next.Effective, best.Effective) {
		case priority.Greater:
			best = next
		case priority.Less:
			// Running maximum stands.
		case priority.Incomparable:
			return nil, &ResolutionAmbiguityError{
				RuleA: best.Rule.Name, CallA: best.Call.Name, SymbolA: best.Effective.Name(),
				RuleB: next.Rule.Name, CallB: next.Call.Name, SymbolB: next.Effective.Name(),
			}
		}
	}
	return &best, nil
}
