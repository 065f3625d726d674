// Package rules defines bidding-rule templates and compiles them into the
// flat table the selector queries at decision time.
//
// Authors declare Templates: reusable building blocks (one per convention)
// carrying applicability preconditions over the auction, hand constraints,
// the calls the rule can make, and priority symbols. Templates inherit
// through a parent chain plus optional mixins; Compile resolves the whole
// tree at configuration time into immutable CompiledRule records, one per
// (template, call) pair, so no inheritance is ever walked during bidding.
//
// Merge policy, root to leaf:
//   - call names, base priority, category, tags, forcing: nearest
//     declaration wins
//   - preconditions: conjunctive accumulation (ancestors never dropped)
//   - shared constraints: nearest wins, ancestors apply when the child
//     declares none; mixin constraints always conjoin
//   - per-call constraint/priority maps: child entries override the same
//     call, other calls inherit the parent entry
//   - conditional-priority lists: parent entries first, child appended
//
// Predicates are opaque here: preconditions and constraints are data
// evaluated by external collaborators (see the vocab and bidder packages),
// never by the compiler.
package rules
