// Package cueload reads bidding-system extension files written in CUE and
// turns them into a compiled rule table with a resolved priority order.
//
// A rule-set file declares priority groups and symbols, ordering
// assertions, and rule definitions whose predicates are vocabulary
// references (see the vocab package). The file shape:
//
//	system: {
//		groups: opening: ["LowerMinor", "HigherMinor"]   // ascending
//		symbols: ["DefaultPass"]
//		order: [["DefaultPass", "group:opening"]]
//		rules: Opening: {
//			abstract: true
//			preconditions: [{kind: "noOpening"}]
//			tags: ["Opening"]
//		}
//		rules: MinorOpening: {
//			extends: "Opening"
//			calls: ["1C", "1D"]
//			constraints: [{kind: "minHCP", n: 12}]
//			prioritiesPerCall: {"1C": "LowerMinor", "1D": "HigherMinor"}
//		}
//	}
//
// Ordered groups materialize their ascending intra-group rank
// automatically; the order list adds cross-group assertions on top.
package cueload

import (
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"

	"github.com/kibitz-bridge/kibitz/internal/priority"
	"github.com/kibitz-bridge/kibitz/internal/rules"
	"github.com/kibitz-bridge/kibitz/internal/vocab"
)

// RuleSet is a loaded, compiled, resolved bidding system.
type RuleSet struct {
	Registry *priority.Registry
	Table    *rules.Table
	Order    *priority.Order
}

// LoadFile loads a rule-set from a CUE file on disk.
func LoadFile(path string) (*RuleSet, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading rule set: %w", err)
	}
	return Load(string(src), path)
}

// Load parses CUE source into a rule set. The filename is used only for
// error positions.
func Load(src, filename string) (*RuleSet, error) {
	ctx := cuecontext.New()
	v := ctx.CompileString(src, cue.Filename(filename))
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	root := v.LookupPath(cue.ParsePath("system"))
	if !root.Exists() {
		return nil, &LoadError{
			Code:    CodeBadStructure,
			Field:   "system",
			Message: "top-level system struct is required",
			Pos:     v.Pos(),
		}
	}

	l := &loader{
		reg:     priority.NewRegistry(),
		symbols: map[string]*priority.Symbol{},
		groups:  map[string]*priority.Group{},
	}

	if err := l.loadGroups(root.LookupPath(cue.ParsePath("groups"))); err != nil {
		return nil, err
	}
	if err := l.loadSymbols(root.LookupPath(cue.ParsePath("symbols"))); err != nil {
		return nil, err
	}
	if err := l.loadOrder(root.LookupPath(cue.ParsePath("order"))); err != nil {
		return nil, err
	}
	templates, err := l.loadRules(root.LookupPath(cue.ParsePath("rules")))
	if err != nil {
		return nil, err
	}

	table, err := rules.Compile(templates)
	if err != nil {
		return nil, err
	}
	order, err := l.reg.Resolve()
	if err != nil {
		return nil, err
	}
	return &RuleSet{Registry: l.reg, Table: table, Order: order}, nil
}

type loader struct {
	reg     *priority.Registry
	symbols map[string]*priority.Symbol
	groups  map[string]*priority.Group
}

// loadGroups declares each ordered group and materializes its ascending
// rank as an assertion.
func (l *loader) loadGroups(v cue.Value) error {
	if !v.Exists() {
		return nil
	}
	iter, err := v.Fields()
	if err != nil {
		return formatCUEError(err)
	}
	for iter.Next() {
		name := iter.Label()
		names, err := stringList(iter.Value(), "groups."+name)
		if err != nil {
			return err
		}
		group, err := l.reg.NewOrderedGroup(names...)
		if err != nil {
			return &LoadError{
				Code:    CodeBadSymbol,
				Field:   "groups." + name,
				Message: err.Error(),
				Pos:     iter.Value().Pos(),
			}
		}
		l.groups[name] = group
		for _, member := range group.Members() {
			l.symbols[member.Name()] = member
		}
		if err := l.reg.Order(group.AscendingAssertion()...); err != nil {
			return &LoadError{
				Code:    CodeBadOrder,
				Field:   "groups." + name,
				Message: err.Error(),
				Pos:     iter.Value().Pos(),
			}
		}
	}
	return nil
}

func (l *loader) loadSymbols(v cue.Value) error {
	if !v.Exists() {
		return nil
	}
	names, err := stringList(v, "symbols")
	if err != nil {
		return err
	}
	for _, name := range names {
		s, err := l.reg.NewSymbol(name)
		if err != nil {
			return &LoadError{
				Code:    CodeBadSymbol,
				Field:   "symbols",
				Message: err.Error(),
				Pos:     v.Pos(),
			}
		}
		l.symbols[name] = s
	}
	return nil
}

// loadOrder applies cross-group assertions. Each entry is an ascending
// item list; "group:Name" references a whole group as one block.
func (l *loader) loadOrder(v cue.Value) error {
	if !v.Exists() {
		return nil
	}
	listIter, err := v.List()
	if err != nil {
		return formatCUEError(err)
	}
	for i := 0; listIter.Next(); i++ {
		field := fmt.Sprintf("order[%d]", i)
		names, err := stringList(listIter.Value(), field)
		if err != nil {
			return err
		}
		items := make([]priority.Item, 0, len(names))
		for _, name := range names {
			item, err := l.resolveItem(name, field, listIter.Value())
			if err != nil {
				return err
			}
			items = append(items, item)
		}
		if err := l.reg.Order(items...); err != nil {
			return &LoadError{
				Code:    CodeBadOrder,
				Field:   field,
				Message: err.Error(),
				Pos:     listIter.Value().Pos(),
			}
		}
	}
	return nil
}

func (l *loader) resolveItem(name, field string, pos cue.Value) (priority.Item, error) {
	if group, ok := cutGroupRef(name); ok {
		g, exists := l.groups[group]
		if !exists {
			return nil, &LoadError{
				Code:    CodeBadReference,
				Field:   field,
				Message: fmt.Sprintf("unknown group %q", group),
				Pos:     pos.Pos(),
			}
		}
		return g, nil
	}
	s, exists := l.symbols[name]
	if !exists {
		return nil, &LoadError{
			Code:    CodeBadReference,
			Field:   field,
			Message: fmt.Sprintf("unknown symbol %q", name),
			Pos:     pos.Pos(),
		}
	}
	return s, nil
}

func cutGroupRef(name string) (string, bool) {
	const prefix = "group:"
	if len(name) > len(prefix) && name[:len(prefix)] == prefix {
		return name[len(prefix):], true
	}
	return "", false
}

// ruleDef is the decoded form of one rule struct, before reference
// resolution.
type ruleDef struct {
	Abstract           bool                        `json:"abstract"`
	Extends            string                      `json:"extends"`
	Mixins             []string                    `json:"mixins"`
	Calls              []string                    `json:"calls"`
	Preconditions      []map[string]any            `json:"preconditions"`
	Constraints        []map[string]any            `json:"constraints"`
	ConstraintsPerCall map[string]map[string]any   `json:"constraintsPerCall"`
	Priority           string                      `json:"priority"`
	PrioritiesPerCall  map[string]string           `json:"prioritiesPerCall"`
	Conditional        []conditionalDef            `json:"conditional"`
	ConditionalPerCall map[string][]conditionalDef `json:"conditionalPerCall"`
	Category           string                      `json:"category"`
	Forcing            *bool                       `json:"forcing"`
	Tags               []string                    `json:"tags"`

	pos cue.Value
}

type conditionalDef struct {
	When     map[string]any `json:"when"`
	Priority string         `json:"priority"`
}

var categoriesByName = map[string]rules.Category{
	"Relay":            rules.CategoryRelay,
	"Gadget":           rules.CategoryGadget,
	"NotrumpSystem":    rules.CategoryNotrumpSystem,
	"Natural":          rules.CategoryNatural,
	"LawOfTotalTricks": rules.CategoryLawOfTotalTricks,
	"NaturalPass":      rules.CategoryNaturalPass,
	"DefaultPass":      rules.CategoryDefaultPass,
}

// loadRules decodes every rule struct, resolves inheritance references,
// and returns the concrete templates in declaration order.
func (l *loader) loadRules(v cue.Value) ([]*rules.Template, error) {
	if !v.Exists() {
		return nil, &LoadError{
			Code:    CodeBadStructure,
			Field:   "rules",
			Message: "at least one rule is required",
			Pos:     v.Pos(),
		}
	}
	iter, err := v.Fields()
	if err != nil {
		return nil, formatCUEError(err)
	}

	defs := map[string]*ruleDef{}
	var names []string
	for iter.Next() {
		name := iter.Label()
		def := &ruleDef{pos: iter.Value()}
		if err := iter.Value().Decode(def); err != nil {
			return nil, &LoadError{
				Code:    CodeBadRule,
				Field:   "rules." + name,
				Message: err.Error(),
				Pos:     iter.Value().Pos(),
			}
		}
		defs[name] = def
		names = append(names, name)
	}

	built := map[string]*rules.Template{}
	var concrete []*rules.Template
	for _, name := range names {
		t, err := l.buildTemplate(name, defs, built, nil)
		if err != nil {
			return nil, err
		}
		if !defs[name].Abstract {
			concrete = append(concrete, t)
		}
	}
	return concrete, nil
}

// buildTemplate turns one decoded definition into a Template, recursively
// resolving its parent and mixins. The trail guards against inheritance
// cycles.
func (l *loader) buildTemplate(name string, defs map[string]*ruleDef, built map[string]*rules.Template, trail []string) (*rules.Template, error) {
	if t, ok := built[name]; ok {
		return t, nil
	}
	def, ok := defs[name]
	if !ok {
		return nil, &LoadError{
			Code:    CodeBadReference,
			Field:   "rules." + trailTop(trail),
			Message: fmt.Sprintf("unknown rule %q", name),
		}
	}
	for _, seen := range trail {
		if seen == name {
			return nil, &LoadError{
				Code:    CodeBadRule,
				Field:   "rules." + name,
				Message: "inheritance cycle",
				Pos:     def.pos.Pos(),
			}
		}
	}
	trail = append(trail, name)

	t := &rules.Template{Name: name, Calls: def.Calls, Tags: def.Tags}

	if def.Extends != "" {
		parent, err := l.buildTemplate(def.Extends, defs, built, trail)
		if err != nil {
			return nil, err
		}
		t.Parent = parent
	}
	for _, mixin := range def.Mixins {
		m, err := l.buildTemplate(mixin, defs, built, trail)
		if err != nil {
			return nil, err
		}
		t.Mixins = append(t.Mixins, m)
	}

	fail := func(detail string, err error) (*rules.Template, error) {
		return nil, &LoadError{
			Code:    CodeBadRule,
			Field:   fmt.Sprintf("rules.%s.%s", name, detail),
			Message: err.Error(),
			Pos:     def.pos.Pos(),
		}
	}

	for i, raw := range def.Preconditions {
		p, err := vocab.BuildPrecondition(vocab.Spec(raw))
		if err != nil {
			return fail(fmt.Sprintf("preconditions[%d]", i), err)
		}
		t.Preconditions = append(t.Preconditions, p)
	}
	for i, raw := range def.Constraints {
		c, err := vocab.BuildConstraint(vocab.Spec(raw))
		if err != nil {
			return fail(fmt.Sprintf("constraints[%d]", i), err)
		}
		t.SharedConstraints = append(t.SharedConstraints, c)
	}
	for callName, raw := range def.ConstraintsPerCall {
		c, err := vocab.BuildConstraint(vocab.Spec(raw))
		if err != nil {
			return fail("constraintsPerCall."+callName, err)
		}
		if t.ConstraintsPerCall == nil {
			t.ConstraintsPerCall = map[string]rules.Constraint{}
		}
		t.ConstraintsPerCall[callName] = c
	}

	if def.Priority != "" {
		s, err := l.symbolRef(def.Priority)
		if err != nil {
			return fail("priority", err)
		}
		t.Priority = s
	}
	for callName, symName := range def.PrioritiesPerCall {
		s, err := l.symbolRef(symName)
		if err != nil {
			return fail("prioritiesPerCall."+callName, err)
		}
		if t.PrioritiesPerCall == nil {
			t.PrioritiesPerCall = map[string]*priority.Symbol{}
		}
		t.PrioritiesPerCall[callName] = s
	}

	cond, err := l.conditionals(def.Conditional)
	if err != nil {
		return fail("conditional", err)
	}
	t.Conditional = cond
	for callName, entries := range def.ConditionalPerCall {
		cond, err := l.conditionals(entries)
		if err != nil {
			return fail("conditionalPerCall."+callName, err)
		}
		if t.ConditionalPerCall == nil {
			t.ConditionalPerCall = map[string][]rules.ConditionalPriority{}
		}
		t.ConditionalPerCall[callName] = cond
	}

	if def.Category != "" {
		cat, ok := categoriesByName[def.Category]
		if !ok {
			return fail("category", fmt.Errorf("unknown category %q", def.Category))
		}
		t.Category = cat
	}
	if def.Forcing != nil {
		t.Forcing = *def.Forcing
		t.ForcingSet = true
	}

	built[name] = t
	return t, nil
}

func (l *loader) conditionals(defs []conditionalDef) ([]rules.ConditionalPriority, error) {
	out := make([]rules.ConditionalPriority, 0, len(defs))
	for i, d := range defs {
		when, err := vocab.BuildConstraint(vocab.Spec(d.When))
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
		s, err := l.symbolRef(d.Priority)
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
		out = append(out, rules.ConditionalPriority{When: when, Priority: s})
	}
	return out, nil
}

func (l *loader) symbolRef(name string) (*priority.Symbol, error) {
	s, ok := l.symbols[name]
	if !ok {
		return nil, fmt.Errorf("unknown symbol %q", name)
	}
	return s, nil
}

func trailTop(trail []string) string {
	if len(trail) == 0 {
		return "?"
	}
	return trail[len(trail)-1]
}

func stringList(v cue.Value, field string) ([]string, error) {
	iter, err := v.List()
	if err != nil {
		return nil, &LoadError{
			Code:    CodeBadStructure,
			Field:   field,
			Message: "want a list of strings",
			Pos:     v.Pos(),
		}
	}
	var out []string
	for iter.Next() {
		s, err := iter.Value().String()
		if err != nil {
			return nil, &LoadError{
				Code:    CodeBadStructure,
				Field:   field,
				Message: "want a list of strings",
				Pos:     iter.Value().Pos(),
			}
		}
		out = append(out, s)
	}
	return out, nil
}
