package harness

// TraceEvent records one decision in the auction.
type TraceEvent struct {
	// Seq is the 0-based turn index.
	Seq int `json:"seq"`

	// Position is the seat that acted ("N", "E", "S" or "W").
	Position string `json:"position"`

	// Call is the call made, e.g. "1N" or "P".
	Call string `json:"call"`

	// Rule names the compiled rule that decided the call.
	Rule string `json:"rule"`

	// Priority names the rule's effective priority symbol, after any
	// conditional overrides.
	Priority string `json:"priority"`
}

// Result is the outcome of one scenario execution.
type Result struct {
	// Pass is true when bidding completed and every assertion held.
	Pass bool `json:"pass"`

	// Auction is the complete space-separated call sequence.
	Auction string `json:"auction"`

	// Contract is the final contract, empty for a passout.
	Contract string `json:"contract,omitempty"`

	// Trace holds one event per call, in auction order.
	Trace []TraceEvent `json:"trace"`

	// Errors lists assertion and execution failures. Empty if Pass.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a passing result to accumulate into.
func NewResult() *Result {
	return &Result{
		Pass:  true,
		Trace: []TraceEvent{},
	}
}

// AddError records a failure and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// AddDecision appends one decision to the trace.
func (r *Result) AddDecision(seq int, position, call, rule, priority string) {
	r.Trace = append(r.Trace, TraceEvent{
		Seq:      seq,
		Position: position,
		Call:     call,
		Rule:     rule,
		Priority: priority,
	})
}
