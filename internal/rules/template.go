package rules

import "github.com/kibitz-bridge/kibitz/internal/priority"

// Template is an author-declared rule unit, before inheritance resolution.
//
// Fields left zero inherit per the package merge policy. Only concrete
// templates are passed to Compile; shared ancestors are referenced through
// Parent/Mixins and need not appear in the compile list themselves.
type Template struct {
	// Name identifies the rule; must be unique across the compiled set.
	Name string

	// Parent is the primary inheritance chain.
	Parent *Template

	// Mixins contribute additional precondition and constraint fragments.
	// They never contribute nearest-wins fields.
	Mixins []*Template

	// Calls lists the call identifiers this rule can make ("1C", "P"...).
	// Empty means: inherit, or derive from the per-call maps below.
	Calls []string

	// Preconditions must all hold for the rule to apply. Accumulates
	// conjunctively down the inheritance chain.
	Preconditions []Precondition

	// SharedConstraints are hand predicates common to all the rule's
	// calls. Nearest declaration wins; ancestors apply if none declared.
	SharedConstraints []Constraint

	// ConstraintsPerCall adds a hand predicate for a specific call.
	ConstraintsPerCall map[string]Constraint

	// Priority is the single (or fallback) base priority symbol.
	Priority *priority.Symbol

	// PrioritiesPerCall maps specific calls to their own base symbols.
	// Calls absent from the map fall back to Priority; with no fallback,
	// compilation fails with an UnresolvedCallError.
	PrioritiesPerCall map[string]*priority.Symbol

	// Conditional lists hand-dependent priority overrides shared by all
	// calls, in evaluation order.
	Conditional []ConditionalPriority

	// ConditionalPerCall appends call-specific overrides after the
	// shared ones.
	ConditionalPerCall map[string][]ConditionalPriority

	// Category is the interpretation phase; CategoryUnset inherits.
	Category Category

	// Forcing marks calls partner may not pass. ForcingSet distinguishes
	// an explicit false from an inherited value.
	Forcing    bool
	ForcingSet bool

	// Tags carry free-form annotations consumed by preconditions that
	// look back at earlier calls (e.g. "Opening"). Nearest wins.
	Tags []string
}

// lineage returns the template's primary ancestor chain, root first.
func (t *Template) lineage() []*Template {
	var chain []*Template
	for cur := t; cur != nil; cur = cur.Parent {
		chain = append(chain, cur)
	}
	// Reverse to root-first.
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain
}
