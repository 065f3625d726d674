package bidder

import (
	"github.com/kibitz-bridge/kibitz/internal/call"
	"github.com/kibitz-bridge/kibitz/internal/vocab"
)

// Annotate reconstructs an auction's rule tags from the calls alone.
//
// Interpreting a live auction needs the tags earlier calls carried (a 2H
// transfer is only a transfer because the 1N before it was tagged), but
// an observer sees only the calls, never the hands behind them. Annotate
// replays the history and attributes each call to the first rule, in
// interpretation-phase order, whose preconditions fit. Constraints are
// ignored since they describe the unseen hand.
//
// Calls no rule claims stay untagged; interpretation continues past them.
func (b *Bidder) Annotate(h call.History) *vocab.Auction {
	a := vocab.NewAuction(call.NewHistory(h.Dealer))
	for _, c := range h.Calls {
		a = a.Extend(c, b.attribute(a, c))
	}
	return a
}

// attribute finds the tags of the rule that best explains one call.
func (b *Bidder) attribute(a *vocab.Auction, c call.Call) []string {
	for _, cat := range categories {
		for _, r := range b.table.RulesFor(c) {
			if r.Category != cat {
				continue
			}
			if vocab.FitsAll(r.Preconditions, a, c) {
				return r.Tags
			}
		}
	}
	return nil
}
