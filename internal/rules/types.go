package rules

import (
	"github.com/kibitz-bridge/kibitz/internal/priority"
)

// Precondition is an applicability predicate over the auction history.
// The engine treats it as opaque data; evaluation belongs to the caller's
// matching layer.
type Precondition interface {
	// Describe renders the predicate for diagnostics and canonical
	// serialization. Descriptions must be deterministic.
	Describe() string
}

// Constraint is a hand shape/strength predicate checked by an external
// constraint-satisfiability engine. Opaque to the compiler and selector.
type Constraint interface {
	// Describe renders the predicate for diagnostics and canonical
	// serialization. Descriptions must be deterministic.
	Describe() string
}

// ConditionalPriority overrides a rule's base priority when its hand
// predicate holds. Entries are evaluated in declared order at match time;
// the last matching entry wins.
type ConditionalPriority struct {
	When     Constraint
	Priority *priority.Symbol
}

// Category is the interpretation phase of a rule: when several rules
// could assign a meaning to the same call, the highest category owns the
// call. Distinct from priority symbols, which order calls against each
// other once meanings are fixed.
type Category int8

const (
	// CategoryUnset inherits the nearest declared category, defaulting
	// to CategoryNatural.
	CategoryUnset Category = iota
	CategoryRelay
	CategoryGadget
	CategoryNotrumpSystem
	CategoryNatural
	CategoryLawOfTotalTricks
	CategoryNaturalPass
	CategoryDefaultPass
)

var categoryNames = [...]string{
	"Unset", "Relay", "Gadget", "NotrumpSystem", "Natural",
	"LawOfTotalTricks", "NaturalPass", "DefaultPass",
}

// String implements fmt.Stringer.
func (c Category) String() string { return categoryNames[c] }

// Precedes reports whether c is considered before other when competing
// for the same call: lower values are more specific systems.
func (c Category) Precedes(other Category) bool { return c < other }
