package priority

import (
	"fmt"
	"strings"
)

// assertion is one recorded Order call, expanded to symbol blocks in
// ascending rank order. The original items are kept only as rendered text
// for cycle diagnostics.
type assertion struct {
	blocks [][]*Symbol
	text   string
}

// Registry accumulates priority symbols and ordering assertions during
// configuration load.
//
// Not safe for concurrent mutation; configuration runs single-threaded.
// Resolve seals the registry, after which Order and symbol creation fail
// with ErrSealed.
type Registry struct {
	symbols    map[string]*Symbol
	declared   []*Symbol
	assertions []assertion
	sealed     bool
}

// NewRegistry returns an empty, open registry.
func NewRegistry() *Registry {
	return &Registry{symbols: make(map[string]*Symbol)}
}

// NewSymbol registers a new priority symbol. The name must be globally
// unique; a collision returns a DuplicateSymbolError.
func (r *Registry) NewSymbol(name string) (*Symbol, error) {
	if r.sealed {
		return nil, ErrSealed
	}
	if _, exists := r.symbols[name]; exists {
		return nil, &DuplicateSymbolError{Name: name}
	}
	s := &Symbol{name: name}
	r.symbols[name] = s
	r.declared = append(r.declared, s)
	return s, nil
}

// MustSymbol is NewSymbol that panics on error. For statically-declared
// rule systems where a collision is a programming mistake.
func (r *Registry) MustSymbol(name string) *Symbol {
	s, err := r.NewSymbol(name)
	if err != nil {
		panic(err)
	}
	return s
}

// NewOrderedGroup creates one symbol per name plus the group wrapper.
// Declaration order is retained as the intended intra-group rank (last
// name highest) but no ordering is asserted; see Group.AscendingAssertion.
func (r *Registry) NewOrderedGroup(names ...string) (*Group, error) {
	if len(names) < 2 {
		return nil, fmt.Errorf("ordered group needs at least 2 members, got %d", len(names))
	}
	members := make([]*Symbol, len(names))
	for i, name := range names {
		s, err := r.NewSymbol(name)
		if err != nil {
			return nil, err
		}
		members[i] = s
	}
	return &Group{ordered: true, members: members}, nil
}

// MustOrderedGroup is NewOrderedGroup that panics on error.
func (r *Registry) MustOrderedGroup(names ...string) *Group {
	g, err := r.NewOrderedGroup(names...)
	if err != nil {
		panic(err)
	}
	return g
}

// NewUnorderedGroup wraps existing symbols as a rankless block. No new
// symbols are created and nothing is asserted.
func NewUnorderedGroup(symbols ...*Symbol) *Group {
	members := make([]*Symbol, len(symbols))
	copy(members, symbols)
	return &Group{ordered: false, members: members}
}

// Order records one partial-order assertion: items are given lowest to
// highest, and every member of a later item outranks every member of each
// earlier item. Group items apply as blocks; no intra-group rank is
// introduced.
//
// Assertions are purely additive and may reference symbols in any order;
// contradictions are only detected at Resolve.
func (r *Registry) Order(items ...Item) error {
	if r.sealed {
		return ErrSealed
	}
	if len(items) < 2 {
		return fmt.Errorf("ordering assertion needs at least 2 items, got %d", len(items))
	}
	blocks := make([][]*Symbol, len(items))
	for i, item := range items {
		members := item.assertionMembers()
		if len(members) == 0 {
			return fmt.Errorf("ordering assertion item %d has no members", i)
		}
		blocks[i] = members
	}
	r.assertions = append(r.assertions, assertion{
		blocks: blocks,
		text:   renderAssertion(blocks),
	})
	return nil
}

// MustOrder is Order that panics on error.
func (r *Registry) MustOrder(items ...Item) {
	if err := r.Order(items...); err != nil {
		panic(err)
	}
}

// Symbols returns every registered symbol in declaration order.
func (r *Registry) Symbols() []*Symbol {
	out := make([]*Symbol, len(r.declared))
	copy(out, r.declared)
	return out
}

// Sealed reports whether Resolve has run.
func (r *Registry) Sealed() bool { return r.sealed }

func renderAssertion(blocks [][]*Symbol) string {
	parts := make([]string, len(blocks))
	for i, block := range blocks {
		if len(block) == 1 {
			parts[i] = block[0].Name()
			continue
		}
		names := make([]string, len(block))
		for j, s := range block {
			names[j] = s.Name()
		}
		parts[i] = "{" + strings.Join(names, ", ") + "}"
	}
	return strings.Join(parts, " < ")
}
