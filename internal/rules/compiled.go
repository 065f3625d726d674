package rules

import (
	"slices"

	"github.com/kibitz-bridge/kibitz/internal/call"
	"github.com/kibitz-bridge/kibitz/internal/priority"
)

// CompiledRule is the flattened result for one (template, call) pair.
// Created once during compilation and immutable thereafter; the table of
// all compiled rules is safely shared across concurrent decisions.
type CompiledRule struct {
	// Name is the declaring template's name.
	Name string

	// Call is the concrete call this rule can make.
	Call call.Call

	// Preconditions merged down the inheritance chain, ancestors first.
	// All must hold for the rule to apply.
	Preconditions []Precondition

	// Constraints are the merged hand predicates: the effective shared
	// constraints, mixin fragments, and the per-call entry. All must be
	// satisfiable for the rule to fire.
	Constraints []Constraint

	// Priority is the base priority symbol.
	Priority *priority.Symbol

	// Conditional lists priority overrides in evaluation order, parent
	// entries before child entries, shared entries before per-call ones.
	Conditional []ConditionalPriority

	Category Category
	Forcing  bool
	Tags     []string
}

// HasTag reports whether the rule carries the given annotation tag.
func (r *CompiledRule) HasTag(tag string) bool {
	return slices.Contains(r.Tags, tag)
}

// Table is the stable set of compiled rules queried every turn.
// Immutable after Compile.
type Table struct {
	rules  []*CompiledRule
	byCall map[string][]*CompiledRule
}

func newTable(rules []*CompiledRule) *Table {
	byCall := make(map[string][]*CompiledRule)
	for _, r := range rules {
		byCall[r.Call.Name] = append(byCall[r.Call.Name], r)
	}
	return &Table{rules: rules, byCall: byCall}
}

// Rules returns every compiled rule in deterministic order: template
// declaration order, calls ascending within a template.
func (t *Table) Rules() []*CompiledRule {
	out := make([]*CompiledRule, len(t.rules))
	copy(out, t.rules)
	return out
}

// RulesFor returns the rules able to make the given call.
func (t *Table) RulesFor(c call.Call) []*CompiledRule {
	return t.byCall[c.Name]
}

// Len returns the number of compiled rules.
func (t *Table) Len() int { return len(t.rules) }
