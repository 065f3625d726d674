package harness

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/kibitz-bridge/kibitz/internal/bidder"
	"github.com/kibitz-bridge/kibitz/internal/call"
	"github.com/kibitz-bridge/kibitz/internal/priority"
	"github.com/kibitz-bridge/kibitz/internal/rules"
	"github.com/kibitz-bridge/kibitz/internal/system"
	"github.com/kibitz-bridge/kibitz/internal/vocab"
)

// Run executes a scenario against the built-in system.
//
// Returns an error only for infrastructure failures (an unloadable
// system, an unparseable deal). Bidding failures and broken assertions
// are recorded on the Result instead, so one run reports everything.
func Run(scenario *Scenario) (*Result, error) {
	sys, err := system.New()
	if err != nil {
		return nil, fmt.Errorf("build system: %w", err)
	}
	return RunWith(sys.Table, sys.Order, scenario)
}

// RunWith executes a scenario against an arbitrary compiled table and its
// resolved order, e.g. one loaded from CUE declarations. The per-decision
// trace is discarded; RunWithLogger surfaces it.
func RunWith(table *rules.Table, order *priority.Order, scenario *Scenario) (*Result, error) {
	return RunWithLogger(table, order, scenario, nil)
}

// RunWithLogger is RunWith with a structured log of every decision as it
// is made. A nil logger discards the trace.
func RunWithLogger(table *rules.Table, order *priority.Order, scenario *Scenario, logger *slog.Logger) (*Result, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	dealer, err := scenario.DealerPosition()
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
	}
	deal, err := scenario.Deal()
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
	}

	b := bidder.New(table, order)

	// Bid the deal out turn by turn rather than through CompleteAuction,
	// so a mid-auction failure still leaves the partial trace on the
	// result for debugging.
	result := NewResult()
	a := vocab.NewAuction(call.NewHistory(dealer))
	for seq := 0; !a.History.IsComplete(); seq++ {
		toAct := a.History.PositionToAct()
		d, err := b.Decide(deal[toAct], a)
		if err != nil {
			result.AddError(fmt.Sprintf("turn %d (%s): %v", seq, toAct, err))
			break
		}
		result.AddDecision(seq, toAct.Char(), d.Call.Name, d.Rule.Name, d.Priority.Name())
		logger.Info("decided",
			"seq", seq,
			"position", toAct.Char(),
			"call", d.Call.Name,
			"rule", d.Rule.Name,
		)
		a = bidder.Apply(a, d)
	}

	result.Auction = a.History.String()
	if contract, ok := a.History.LastContract(); ok {
		result.Contract = contract.Name
	}

	for _, errMsg := range EvaluateAssertions(result, scenario.Assertions) {
		result.AddError(errMsg)
	}
	return result, nil
}
