package vocab

import (
	"github.com/kibitz-bridge/kibitz/internal/call"
	"github.com/kibitz-bridge/kibitz/internal/hand"
	"github.com/kibitz-bridge/kibitz/internal/rules"
)

// Auction is the interpreted negotiation history preconditions see: the
// raw calls plus the annotation tags of the rule that explained each one.
// The bidder layer builds it as the auction grows; vocab only reads it.
type Auction struct {
	History call.History

	// Tags holds, per call index, the tags of the rule interpreted as
	// having made that call. Uninterpreted calls have a nil entry.
	Tags [][]string
}

// NewAuction wraps a history with no interpretations yet.
func NewAuction(h call.History) *Auction {
	return &Auction{History: h, Tags: make([][]string, len(h.Calls))}
}

// Extend returns a new Auction with the call and its tags appended.
func (a *Auction) Extend(c call.Call, tags []string) *Auction {
	next := &Auction{History: a.History.Extend(c)}
	next.Tags = make([][]string, len(a.Tags)+1)
	copy(next.Tags, a.Tags)
	next.Tags[len(a.Tags)] = tags
	return next
}

// HasTagAt reports whether the i'th call carries the tag.
func (a *Auction) HasTagAt(i int, tag string) bool {
	if i < 0 || i >= len(a.Tags) {
		return false
	}
	for _, t := range a.Tags[i] {
		if t == tag {
			return true
		}
	}
	return false
}

// SeatTagged reports whether any call by the seat carries the tag.
func (a *Auction) SeatTagged(p call.Position, tag string) bool {
	for i := range a.History.Calls {
		if a.History.PositionOfCall(i) == p && a.HasTagAt(i, tag) {
			return true
		}
	}
	return false
}

// LastCallTagged reports whether the seat's most recent call carries
// the tag.
func (a *Auction) LastCallTagged(p call.Position, tag string) bool {
	_, i, ok := a.History.LastCallFor(p)
	return ok && a.HasTagAt(i, tag)
}

// Context carries everything a constraint may inspect at match time.
type Context struct {
	Hand    hand.Hand
	Auction *Auction
	Call    call.Call
}

// Constraint is a vocabulary hand predicate: opaque to the engine core,
// evaluatable here.
type Constraint interface {
	rules.Constraint
	Satisfied(ctx *Context) bool
}

// Precondition is a vocabulary applicability predicate over the auction.
type Precondition interface {
	rules.Precondition
	Fits(a *Auction, c call.Call) bool
}

// Evaluator checks vocabulary constraints for one decision point. It
// implements selector.ConstraintEvaluator. Constraints from outside the
// vocabulary never hold: an unevaluatable predicate must not fire a rule.
type Evaluator struct {
	ctx Context
}

// NewEvaluator binds an evaluator to one (hand, auction, call) triple.
func NewEvaluator(h hand.Hand, a *Auction, c call.Call) *Evaluator {
	return &Evaluator{ctx: Context{Hand: h, Auction: a, Call: c}}
}

// Holds implements selector.ConstraintEvaluator.
func (e *Evaluator) Holds(c rules.Constraint) bool {
	vc, ok := c.(Constraint)
	if !ok {
		return false
	}
	return vc.Satisfied(&e.ctx)
}

// FitsAll reports whether every precondition applies to the call. Rule
// preconditions conjoin; non-vocabulary preconditions never fit.
func FitsAll(precs []rules.Precondition, a *Auction, c call.Call) bool {
	for _, p := range precs {
		vp, ok := p.(Precondition)
		if !ok || !vp.Fits(a, c) {
			return false
		}
	}
	return true
}

// SatisfiesAll reports whether every constraint holds for the context.
func SatisfiesAll(cons []rules.Constraint, ctx *Context) bool {
	for _, c := range cons {
		vc, ok := c.(Constraint)
		if !ok || !vc.Satisfied(ctx) {
			return false
		}
	}
	return true
}
