package vocab

import (
	"fmt"
	"strings"

	"github.com/kibitz-bridge/kibitz/internal/call"
)

// MinHCP requires at least N high card points.
type MinHCP int

func (c MinHCP) Describe() string            { return fmt.Sprintf("hcp>=%d", int(c)) }
func (c MinHCP) Satisfied(ctx *Context) bool { return ctx.Hand.HCP() >= int(c) }

// MaxHCP requires at most N high card points.
type MaxHCP int

func (c MaxHCP) Describe() string            { return fmt.Sprintf("hcp<=%d", int(c)) }
func (c MaxHCP) Satisfied(ctx *Context) bool { return ctx.Hand.HCP() <= int(c) }

// HCPRange requires an inclusive high-card-point range.
type HCPRange struct{ Lo, Hi int }

func (c HCPRange) Describe() string { return fmt.Sprintf("hcp in [%d,%d]", c.Lo, c.Hi) }
func (c HCPRange) Satisfied(ctx *Context) bool {
	hcp := ctx.Hand.HCP()
	return hcp >= c.Lo && hcp <= c.Hi
}

// MinLength requires at least N cards in a specific suit.
type MinLength struct {
	Suit call.Strain
	N    int
}

func (c MinLength) Describe() string            { return fmt.Sprintf("length(%s)>=%d", c.Suit, c.N) }
func (c MinLength) Satisfied(ctx *Context) bool { return ctx.Hand.Length(c.Suit) >= c.N }

// MaxLength requires at most N cards in a specific suit.
type MaxLength struct {
	Suit call.Strain
	N    int
}

func (c MaxLength) Describe() string            { return fmt.Sprintf("length(%s)<=%d", c.Suit, c.N) }
func (c MaxLength) Satisfied(ctx *Context) bool { return ctx.Hand.Length(c.Suit) <= c.N }

// MinLengthInCallSuit requires at least N cards in the suit being bid.
// Lets one rule cover several calls without per-call constraints.
type MinLengthInCallSuit int

func (c MinLengthInCallSuit) Describe() string { return fmt.Sprintf("length(call suit)>=%d", int(c)) }
func (c MinLengthInCallSuit) Satisfied(ctx *Context) bool {
	return ctx.Call.IsContract() && ctx.Call.Strain.IsSuit() &&
		ctx.Hand.Length(ctx.Call.Strain) >= int(c)
}

// Balanced requires no void, no singleton, and at most one doubleton.
type Balanced struct{}

func (Balanced) Describe() string            { return "balanced" }
func (Balanced) Satisfied(ctx *Context) bool { return ctx.Hand.Balanced() }

// SuitLonger requires strictly more cards in A than in B.
type SuitLonger struct{ A, B call.Strain }

func (c SuitLonger) Describe() string { return fmt.Sprintf("longer(%s,%s)", c.A, c.B) }
func (c SuitLonger) Satisfied(ctx *Context) bool {
	return ctx.Hand.Length(c.A) > ctx.Hand.Length(c.B)
}

// SuitsEqualLength requires the two suits to have the same length.
type SuitsEqualLength struct{ A, B call.Strain }

func (c SuitsEqualLength) Describe() string { return fmt.Sprintf("equal(%s,%s)", c.A, c.B) }
func (c SuitsEqualLength) Satisfied(ctx *Context) bool {
	return ctx.Hand.Length(c.A) == ctx.Hand.Length(c.B)
}

// MinPlayingPoints requires at least N playing points (HCP + length).
type MinPlayingPoints int

func (c MinPlayingPoints) Describe() string { return fmt.Sprintf("playing-points>=%d", int(c)) }
func (c MinPlayingPoints) Satisfied(ctx *Context) bool {
	return ctx.Hand.PlayingPoints() >= int(c)
}

// MinSupportForPartner requires at least N support points counting
// partner's last-bid suit as trumps, and at least MinTrumps cards there.
type MinSupportForPartner struct {
	Points    int
	MinTrumps int
}

func (c MinSupportForPartner) Describe() string {
	return fmt.Sprintf("support(partner suit, trumps>=%d, points>=%d)", c.MinTrumps, c.Points)
}

func (c MinSupportForPartner) Satisfied(ctx *Context) bool {
	suit, ok := partnersLastSuit(ctx.Auction)
	if !ok {
		return false
	}
	return ctx.Hand.Length(suit) >= c.MinTrumps &&
		ctx.Hand.SupportPointsFor(suit) >= c.Points
}

// MaxSupportForPartner caps support points for partner's last-bid suit.
// Keeps limited bids truly limited so stronger hands fall through to
// stronger rules.
type MaxSupportForPartner int

func (c MaxSupportForPartner) Describe() string {
	return fmt.Sprintf("support(partner suit)<=%d", int(c))
}

func (c MaxSupportForPartner) Satisfied(ctx *Context) bool {
	suit, ok := partnersLastSuit(ctx.Auction)
	if !ok {
		return false
	}
	return ctx.Hand.SupportPointsFor(suit) <= int(c)
}

// RuleOf20 is the classic borderline-opening test: HCP plus the lengths
// of the two longest suits reaching 20.
type RuleOf20 struct{}

func (RuleOf20) Describe() string { return "rule-of-20" }
func (RuleOf20) Satisfied(ctx *Context) bool {
	best, second := 0, 0
	for _, s := range call.Suits {
		n := ctx.Hand.Length(s)
		if n > best {
			best, second = n, best
		} else if n > second {
			second = n
		}
	}
	return ctx.Hand.HCP()+best+second >= 20
}

// And conjoins constraints.
type And []Constraint

func (c And) Describe() string {
	parts := make([]string, len(c))
	for i, sub := range c {
		parts[i] = sub.Describe()
	}
	return "and(" + strings.Join(parts, ", ") + ")"
}

func (c And) Satisfied(ctx *Context) bool {
	for _, sub := range c {
		if !sub.Satisfied(ctx) {
			return false
		}
	}
	return true
}

// Or disjoins constraints.
type Or []Constraint

func (c Or) Describe() string {
	parts := make([]string, len(c))
	for i, sub := range c {
		parts[i] = sub.Describe()
	}
	return "or(" + strings.Join(parts, ", ") + ")"
}

func (c Or) Satisfied(ctx *Context) bool {
	for _, sub := range c {
		if sub.Satisfied(ctx) {
			return true
		}
	}
	return false
}

// Not negates a constraint.
type Not struct{ C Constraint }

func (c Not) Describe() string            { return "not(" + c.C.Describe() + ")" }
func (c Not) Satisfied(ctx *Context) bool { return !c.C.Satisfied(ctx) }

// partnersLastSuit returns the strain of partner's most recent contract
// bid, relative to the player about to act.
func partnersLastSuit(a *Auction) (call.Strain, bool) {
	partner := a.History.PositionToAct().Partner()
	c, _, ok := a.History.LastCallFor(partner)
	if !ok || !c.IsContract() || !c.Strain.IsSuit() {
		return 0, false
	}
	return c.Strain, true
}
