package priority

// Symbol is an atomic, globally unique priority identifier.
//
// Symbols are opaque handles: identity is pointer identity, and the name
// exists only for diagnostics. Symbols are created once at configuration
// time through a Registry and never mutated.
type Symbol struct {
	name string
}

// Name returns the diagnostic name the symbol was registered under.
func (s *Symbol) Name() string { return s.name }

// String implements fmt.Stringer.
func (s *Symbol) String() string { return s.name }

// assertionMembers implements Item: a symbol is a one-member block.
func (s *Symbol) assertionMembers() []*Symbol { return []*Symbol{s} }

// Item is anything usable in an ordering assertion: a Symbol or a Group.
// When an item is a group, the assertion applies to every member of the
// group as a block.
type Item interface {
	assertionMembers() []*Symbol
}

// Group is a collection of symbols declared together.
//
// An ordered group retains its declaration order as an intended intra-group
// rank (the last-declared member ranks highest), but creating the group
// does not itself assert that rank: authors submit AscendingAssertion to
// Registry.Order to materialize it. An unordered group carries no intra-
// group rank at all and is only usable as a block in assertions against
// other items.
type Group struct {
	ordered bool
	members []*Symbol
}

// Ordered reports whether the group carries an intended intra-group rank.
func (g *Group) Ordered() bool { return g.ordered }

// Members returns the group's symbols in declaration order.
func (g *Group) Members() []*Symbol {
	out := make([]*Symbol, len(g.members))
	copy(out, g.members)
	return out
}

// Last returns the last-declared member: the intended highest of an
// ordered group.
func (g *Group) Last() *Symbol { return g.members[len(g.members)-1] }

// AscendingAssertion returns the members lowest-to-highest as assertion
// items, ready to pass to Registry.Order to materialize the intra-group
// rank. Panics on unordered groups, which have no rank to materialize.
func (g *Group) AscendingAssertion() []Item {
	if !g.ordered {
		panic("priority: AscendingAssertion on unordered group")
	}
	items := make([]Item, len(g.members))
	for i, m := range g.members {
		items[i] = m
	}
	return items
}

// assertionMembers implements Item: in an assertion a group is one block,
// introducing no intra-group edges.
func (g *Group) assertionMembers() []*Symbol { return g.members }
