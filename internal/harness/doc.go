// Package harness runs declarative bidding scenarios against a compiled
// rule system.
//
// A scenario is a YAML file naming the four hands, an optional dealer, and
// a list of assertions over the auction the system produces. The harness
// bids the deal to completion, recording one trace event per call: who
// acted, what was called, and which rule with which effective priority
// made the decision.
//
// Assertions check the finished auction (auction_equals, contract_is) or
// individual decisions (call_at_turn, rule_fired). Failures are collected
// into the Result rather than aborting, so one run reports every broken
// assertion.
//
// For regression pinning, RunWithGolden serializes the trace to canonical
// JSON and compares it against a golden file under testdata/golden. The
// canonical form is byte-stable across runs, so golden diffs reflect real
// behavior changes only.
package harness
