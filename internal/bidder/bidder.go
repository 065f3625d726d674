// Package bidder drives compiled rules over a live auction: it matches
// the table against the legal calls for the hand on turn, resolves the
// winning candidate, and threads rule annotations through the auction so
// downstream conventions can see how earlier calls were interpreted.
package bidder

import (
	"fmt"

	"github.com/kibitz-bridge/kibitz/internal/call"
	"github.com/kibitz-bridge/kibitz/internal/hand"
	"github.com/kibitz-bridge/kibitz/internal/priority"
	"github.com/kibitz-bridge/kibitz/internal/rules"
	"github.com/kibitz-bridge/kibitz/internal/selector"
	"github.com/kibitz-bridge/kibitz/internal/vocab"
)

// categories lists the interpretation phases in consideration order: the
// most specific system first, the default pass last.
var categories = []rules.Category{
	rules.CategoryRelay,
	rules.CategoryGadget,
	rules.CategoryNotrumpSystem,
	rules.CategoryNatural,
	rules.CategoryLawOfTotalTricks,
	rules.CategoryNaturalPass,
	rules.CategoryDefaultPass,
}

// Decision is one interpreted call: what to bid and the rule that says so.
type Decision struct {
	Call     call.Call
	Rule     *rules.CompiledRule
	Priority *priority.Symbol
}

// Bidder matches one compiled table against auctions. Stateless beyond
// its immutable inputs and safe for concurrent use.
type Bidder struct {
	table *rules.Table
	order *priority.Order
}

// New builds a bidder over a compiled table and its resolved order.
func New(table *rules.Table, order *priority.Order) *Bidder {
	return &Bidder{table: table, order: order}
}

// Decide picks the call for the hand on turn. Interpretation phases are
// tried most-specific first; the first phase with any applicable rule
// decides, and within the phase the resolved priority order picks the
// winner. A rule set without a fallback pass can leave a hand with no
// decision, reported as an error.
func (b *Bidder) Decide(h hand.Hand, a *vocab.Auction) (*Decision, error) {
	legal := a.History.PossibleCalls()

	for _, cat := range categories {
		var candidates []selector.Candidate
		for _, c := range legal {
			eval := vocab.NewEvaluator(h, a, c)
			ctx := &vocab.Context{Hand: h, Auction: a, Call: c}
			for _, r := range b.table.RulesFor(c) {
				if r.Category != cat {
					continue
				}
				if !vocab.FitsAll(r.Preconditions, a, c) {
					continue
				}
				if !vocab.SatisfiesAll(r.Constraints, ctx) {
					continue
				}
				candidates = append(candidates, selector.NewCandidate(r, c, eval))
			}
		}
		if len(candidates) == 0 {
			continue
		}
		best, err := selector.SelectBest(candidates, b.order)
		if err != nil {
			return nil, fmt.Errorf("deciding after %q: %w", a.History.String(), err)
		}
		return &Decision{Call: best.Call, Rule: best.Rule, Priority: best.Effective}, nil
	}
	return nil, fmt.Errorf("no rule applies after %q", a.History.String())
}

// Apply extends the auction with a decision, carrying the winning rule's
// tags so later preconditions can key off them.
func Apply(a *vocab.Auction, d *Decision) *vocab.Auction {
	return a.Extend(d.Call, d.Rule.Tags)
}

// CompleteAuction bids out a whole deal, every seat playing the same
// system. Returns the finished auction and the decision behind each call.
func (b *Bidder) CompleteAuction(dealer call.Position, hands [4]hand.Hand) (*vocab.Auction, []*Decision, error) {
	a := vocab.NewAuction(call.NewHistory(dealer))
	var decisions []*Decision
	for !a.History.IsComplete() {
		h := hands[a.History.PositionToAct()]
		d, err := b.Decide(h, a)
		if err != nil {
			return nil, nil, err
		}
		decisions = append(decisions, d)
		a = Apply(a, d)
	}
	return a, decisions, nil
}
