package priority

import "fmt"

// Relation is the result of comparing two symbols in a resolved Order.
type Relation int8

const (
	// Incomparable means no assertion path connects the two symbols in
	// either direction. Also returned for a symbol compared with itself:
	// the order is irreflexive by construction.
	Incomparable Relation = iota

	// Less means the first symbol is outranked by the second.
	Less

	// Greater means the first symbol outranks the second.
	Greater
)

var relationNames = [...]string{"Incomparable", "Less", "Greater"}

// String implements fmt.Stringer.
func (r Relation) String() string { return relationNames[r] }

// Order is the resolved global ranking: the transitive closure of every
// registered assertion. Immutable and safe for concurrent readers.
type Order struct {
	// above[s] holds every symbol that outranks s.
	above map[*Symbol]map[*Symbol]bool

	symbols []*Symbol
	edges   int
}

// Resolve merges all registered assertions into one directed acyclic
// graph and returns the resolved Order. The registry is sealed whether or
// not resolution succeeds.
//
// Contradictory assertions (any symbol transitively outranking itself)
// fail with a CyclicPriorityError naming the cycle and the assertions
// that produced each step.
func (r *Registry) Resolve() (*Order, error) {
	r.sealed = true

	// adjacency: lower -> higher, one edge per adjacent expanded pair.
	adj := make(map[*Symbol][]*Symbol, len(r.declared))
	edgeSource := make(map[[2]*Symbol]string)
	edges := 0
	for _, s := range r.declared {
		adj[s] = nil
	}
	for _, a := range r.assertions {
		for i := 0; i+1 < len(a.blocks); i++ {
			for _, lo := range a.blocks[i] {
				for _, hi := range a.blocks[i+1] {
					key := [2]*Symbol{lo, hi}
					if _, dup := edgeSource[key]; !dup {
						edgeSource[key] = a.text
						adj[lo] = append(adj[lo], hi)
						edges++
					}
				}
			}
		}
	}

	if cycle := findCycle(r.declared, adj); cycle != nil {
		return nil, cycleError(cycle, edgeSource)
	}

	// Transitive closure by memoized DFS; safe now the graph is acyclic.
	above := make(map[*Symbol]map[*Symbol]bool, len(r.declared))
	var reach func(s *Symbol) map[*Symbol]bool
	reach = func(s *Symbol) map[*Symbol]bool {
		if set, done := above[s]; done {
			return set
		}
		set := make(map[*Symbol]bool)
		above[s] = set // placed before recursion; acyclic so never self-read
		for _, hi := range adj[s] {
			set[hi] = true
			for t := range reach(hi) {
				set[t] = true
			}
		}
		return set
	}
	for _, s := range r.declared {
		reach(s)
	}

	symbols := make([]*Symbol, len(r.declared))
	copy(symbols, r.declared)
	return &Order{above: above, symbols: symbols, edges: edges}, nil
}

// Compare returns Greater when a outranks b, Less when b outranks a, and
// Incomparable when no assertion path connects them.
func (o *Order) Compare(a, b *Symbol) Relation {
	if o.above[b][a] {
		return Greater
	}
	if o.above[a][b] {
		return Less
	}
	return Incomparable
}

// Symbols returns every symbol in the order, in declaration order.
func (o *Order) Symbols() []*Symbol {
	out := make([]*Symbol, len(o.symbols))
	copy(out, o.symbols)
	return out
}

// EdgeCount returns the number of direct (pre-closure) outranking edges.
func (o *Order) EdgeCount() int { return o.edges }

// findCycle returns a cycle path (first symbol repeated at the end), or
// nil when the graph is acyclic. Tarjan's strongly connected components:
// any SCC larger than one node, or a node with a self-edge, is a cycle.
func findCycle(nodes []*Symbol, adj map[*Symbol][]*Symbol) []*Symbol {
	index := 0
	indices := make(map[*Symbol]int, len(nodes))
	lowlink := make(map[*Symbol]int, len(nodes))
	onStack := make(map[*Symbol]bool, len(nodes))
	var stack []*Symbol
	var cycle []*Symbol

	var strongConnect func(v *Symbol)
	strongConnect = func(v *Symbol) {
		indices[v] = index
		lowlink[v] = index
		index++
		stack = append(stack, v)
		onStack[v] = true

		for _, w := range adj[v] {
			if _, visited := indices[w]; !visited {
				strongConnect(w)
				lowlink[v] = min(lowlink[v], lowlink[w])
			} else if onStack[w] {
				lowlink[v] = min(lowlink[v], indices[w])
			}
		}

		if lowlink[v] == indices[v] {
			var scc []*Symbol
			for {
				w := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				onStack[w] = false
				scc = append(scc, w)
				if w == v {
					break
				}
			}
			if cycle == nil {
				if len(scc) > 1 {
					cycle = reconstructCycle(scc, adj)
				} else if hasSelfEdge(scc[0], adj) {
					cycle = []*Symbol{scc[0], scc[0]}
				}
			}
		}
	}

	for _, n := range nodes {
		if _, visited := indices[n]; !visited {
			strongConnect(n)
		}
	}
	return cycle
}

func hasSelfEdge(s *Symbol, adj map[*Symbol][]*Symbol) bool {
	for _, w := range adj[s] {
		if w == s {
			return true
		}
	}
	return false
}

// reconstructCycle finds a shortest closed walk through the SCC's first
// member by BFS over the edges inside the SCC, yielding a concrete cycle
// path for diagnostics. Every SCC member can reach every other, so the
// walk always closes.
func reconstructCycle(scc []*Symbol, adj map[*Symbol][]*Symbol) []*Symbol {
	inSCC := make(map[*Symbol]bool, len(scc))
	for _, s := range scc {
		inSCC[s] = true
	}
	start := scc[0]
	parent := map[*Symbol]*Symbol{start: nil}
	queue := []*Symbol{start}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for _, w := range adj[current] {
			if !inSCC[w] {
				continue
			}
			if w == start {
				var rev []*Symbol
				for at := current; at != nil; at = parent[at] {
					rev = append(rev, at)
				}
				path := make([]*Symbol, 0, len(rev)+1)
				for i := len(rev) - 1; i >= 0; i-- {
					path = append(path, rev[i])
				}
				return append(path, start)
			}
			if _, seen := parent[w]; !seen {
				parent[w] = current
				queue = append(queue, w)
			}
		}
	}
	return nil
}

func cycleError(path []*Symbol, edgeSource map[[2]*Symbol]string) *CyclicPriorityError {
	names := make([]string, len(path))
	for i, s := range path {
		names[i] = s.Name()
	}
	var trail []string
	for i := 0; i+1 < len(path); i++ {
		if text, ok := edgeSource[[2]*Symbol{path[i], path[i+1]}]; ok {
			trail = append(trail, fmt.Sprintf("%s < %s asserted by: %s", path[i].Name(), path[i+1].Name(), text))
		}
	}
	return &CyclicPriorityError{Symbols: names, Trail: trail}
}
