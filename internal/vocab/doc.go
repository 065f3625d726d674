// Package vocab is the built-in predicate vocabulary: the concrete
// precondition and constraint types rule authors attach to templates,
// plus the evaluators that check them against a live auction and hand.
//
// The engine core (rules, selector) treats predicates as opaque data;
// only this package and its callers know how to evaluate them. Every
// vocabulary item also registers a name and builder so rule-set files
// can reference it (see the cueload package).
//
// The constraint evaluator here is a direct hand evaluator. A constraint
// satisfiability engine reasoning over accumulated partnership knowledge
// could replace it behind the same selector.ConstraintEvaluator interface
// without touching rule declarations.
package vocab
