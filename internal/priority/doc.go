// Package priority implements symbolic rule priorities and their global
// ordering.
//
// Rule authors create opaque priority symbols (individually or as ordered
// groups), then record partial-order assertions between symbols and groups
// in a Registry. Assertions are additive and may reference symbols in any
// order; nothing is validated until Resolve, which merges every assertion
// into one directed acyclic graph, computes its transitive closure, and
// returns an immutable Order exposing a three-way comparator.
//
// Contradictory assertions surface as a CyclicPriorityError naming the
// participating symbols and the assertions that connected them. Symbols
// the authors never related compare as Incomparable; the comparator never
// invents a tie-break.
//
// Lifecycle: a Registry is open for symbol creation and assertions during
// configuration load, single-threaded. Resolve seals it. The resolved
// Order is read-only and safe for concurrent use.
package priority
