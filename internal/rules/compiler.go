package rules

import (
	"fmt"
	"sort"

	"github.com/kibitz-bridge/kibitz/internal/call"
	"github.com/kibitz-bridge/kibitz/internal/priority"
)

// Compile flattens concrete templates into the per-call rule table.
//
// Compilation is deterministic and total: every declared call yields
// exactly one CompiledRule or the whole compile fails. Compiling the same
// declarations twice yields byte-identical canonical tables.
func Compile(templates []*Template) (*Table, error) {
	var out []*CompiledRule
	seen := make(map[string]bool, len(templates))
	for _, t := range templates {
		if t.Name == "" {
			return nil, fmt.Errorf("template with empty name")
		}
		if seen[t.Name] {
			return nil, fmt.Errorf("duplicate rule name %q", t.Name)
		}
		seen[t.Name] = true

		compiled, err := compileTemplate(t)
		if err != nil {
			return nil, err
		}
		out = append(out, compiled...)
	}
	return newTable(out), nil
}

// merged is the fold of one template's full ancestor chain.
type merged struct {
	calls       []string
	precs       []Precondition
	shared      []Constraint
	mixinCons   []Constraint
	perCallCons map[string]Constraint
	prio        *priority.Symbol
	perCallPrio map[string]*priority.Symbol
	cond        []ConditionalPriority
	condPerCall map[string][]ConditionalPriority
	category    Category
	forcing     bool
	tags        []string
}

func compileTemplate(t *Template) ([]*CompiledRule, error) {
	m := merged{
		perCallCons: map[string]Constraint{},
		perCallPrio: map[string]*priority.Symbol{},
		condPerCall: map[string][]ConditionalPriority{},
		category:    CategoryNatural,
	}

	for _, anc := range t.lineage() {
		// Mixins contribute predicate fragments only, before the
		// declaring level's own.
		for _, mixin := range anc.Mixins {
			for _, mx := range mixin.lineage() {
				m.precs = append(m.precs, mx.Preconditions...)
				m.mixinCons = append(m.mixinCons, mx.SharedConstraints...)
			}
		}

		m.precs = append(m.precs, anc.Preconditions...)

		if len(anc.Calls) > 0 {
			m.calls = anc.Calls
		}
		if len(anc.SharedConstraints) > 0 {
			m.shared = anc.SharedConstraints
		}
		if anc.Priority != nil {
			m.prio = anc.Priority
		}
		if anc.Category != CategoryUnset {
			m.category = anc.Category
		}
		if anc.ForcingSet {
			m.forcing = anc.Forcing
		}
		if len(anc.Tags) > 0 {
			m.tags = anc.Tags
		}
		for name, c := range anc.ConstraintsPerCall {
			m.perCallCons[name] = c
		}
		for name, p := range anc.PrioritiesPerCall {
			m.perCallPrio[name] = p
		}
		m.cond = append(m.cond, anc.Conditional...)
		for name, entries := range anc.ConditionalPerCall {
			m.condPerCall[name] = append(m.condPerCall[name], entries...)
		}
	}

	names := callNames(m)
	if len(names) == 0 {
		return nil, fmt.Errorf("rule %q declares no calls", t.Name)
	}

	rules := make([]*CompiledRule, 0, len(names))
	for _, name := range names {
		c, err := call.Parse(name)
		if err != nil {
			return nil, &UnresolvedCallError{Template: t.Name, Call: name, Reason: err.Error()}
		}

		base := m.perCallPrio[name]
		if base == nil {
			base = m.prio
		}
		if base == nil {
			return nil, &UnresolvedCallError{
				Template: t.Name,
				Call:     name,
				Reason:   "no per-call priority and no fallback base priority",
			}
		}

		constraints := make([]Constraint, 0, len(m.shared)+len(m.mixinCons)+1)
		constraints = append(constraints, m.shared...)
		constraints = append(constraints, m.mixinCons...)
		if percall, ok := m.perCallCons[name]; ok {
			constraints = append(constraints, percall)
		}

		conditional := make([]ConditionalPriority, 0, len(m.cond)+len(m.condPerCall[name]))
		conditional = append(conditional, m.cond...)
		conditional = append(conditional, m.condPerCall[name]...)

		rules = append(rules, &CompiledRule{
			Name:          t.Name,
			Call:          c,
			Preconditions: clonePrecs(m.precs),
			Constraints:   constraints,
			Priority:      base,
			Conditional:   conditional,
			Category:      m.category,
			Forcing:       m.forcing,
			Tags:          cloneTags(m.tags),
		})
	}
	return rules, nil
}

// callNames derives the rule's call set: the nearest Calls declaration
// plus any call mentioned only in a per-call map, sorted ascending in bid
// order so compilation output is deterministic.
func callNames(m merged) []string {
	set := map[string]bool{}
	for _, name := range m.calls {
		set[name] = true
	}
	for name := range m.perCallCons {
		set[name] = true
	}
	for name := range m.perCallPrio {
		set[name] = true
	}
	for name := range m.condPerCall {
		set[name] = true
	}
	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		return callRank(names[i]) < callRank(names[j])
	})
	return names
}

// callRank orders contract bids by level and strain, then pass, double,
// redouble. Unparseable names sort last; Parse rejects them later with a
// precise error.
func callRank(name string) int {
	switch name {
	case "P":
		return 1000
	case "X":
		return 1001
	case "XX":
		return 1002
	}
	c, err := call.Parse(name)
	if err != nil {
		return 2000
	}
	return c.Level*8 + int(c.Strain)
}

func clonePrecs(in []Precondition) []Precondition {
	out := make([]Precondition, len(in))
	copy(out, in)
	return out
}

func cloneTags(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}
