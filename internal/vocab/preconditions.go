package vocab

import (
	"fmt"

	"github.com/kibitz-bridge/kibitz/internal/call"
)

// NoOpening requires that nobody has made a contract bid yet.
type NoOpening struct{}

func (NoOpening) Describe() string { return "no-opening" }
func (NoOpening) Fits(a *Auction, _ call.Call) bool {
	_, bid := a.History.LastContract()
	return !bid
}

// Opened requires that a given relative seat has made at least one
// contract bid.
type Opened struct{ Seat call.Seat }

func (p Opened) Describe() string { return fmt.Sprintf("opened(%s)", p.Seat) }
func (p Opened) Fits(a *Auction, _ call.Call) bool {
	seat := p.Seat.Resolve(a.History.PositionToAct())
	for i, c := range a.History.Calls {
		if c.IsContract() && a.History.PositionOfCall(i) == seat {
			return true
		}
	}
	return false
}

// LastBidTagged requires that a relative seat's most recent call was
// interpreted with the given tag.
type LastBidTagged struct {
	Seat call.Seat
	Tag  string
}

func (p LastBidTagged) Describe() string {
	return fmt.Sprintf("last-bid-tagged(%s, %s)", p.Seat, p.Tag)
}

func (p LastBidTagged) Fits(a *Auction, _ call.Call) bool {
	seat := p.Seat.Resolve(a.History.PositionToAct())
	return a.LastCallTagged(seat, p.Tag)
}

// LastBidHasStrain requires a relative seat's most recent call to be a
// contract bid in the given strain.
type LastBidHasStrain struct {
	Seat   call.Seat
	Strain call.Strain
}

func (p LastBidHasStrain) Describe() string {
	return fmt.Sprintf("last-bid-strain(%s, %s)", p.Seat, p.Strain)
}

func (p LastBidHasStrain) Fits(a *Auction, _ call.Call) bool {
	seat := p.Seat.Resolve(a.History.PositionToAct())
	c, _, ok := a.History.LastCallFor(seat)
	return ok && c.IsContract() && c.Strain == p.Strain
}

// RaiseOfPartnersLastSuit requires the candidate call to bid the same
// suit partner last bid.
type RaiseOfPartnersLastSuit struct{}

func (RaiseOfPartnersLastSuit) Describe() string { return "raise-of-partner-suit" }
func (RaiseOfPartnersLastSuit) Fits(a *Auction, c call.Call) bool {
	if !c.IsContract() || !c.Strain.IsSuit() {
		return false
	}
	suit, ok := partnersLastSuit(a)
	return ok && c.Strain == suit
}

// JumpFromLastContract requires the candidate bid to skip at least one
// level of its own strain over the current contract. With no contract
// yet, any bid above the one level is a jump.
type JumpFromLastContract struct{}

func (JumpFromLastContract) Describe() string { return "jump" }
func (JumpFromLastContract) Fits(a *Auction, c call.Call) bool {
	if !c.IsContract() {
		return false
	}
	last, ok := a.History.LastContract()
	if !ok {
		return c.Level > 1
	}
	cheapest := last.Level
	if c.Strain <= last.Strain {
		cheapest = last.Level + 1
	}
	return c.Level > cheapest
}

// NotJumpFromLastContract requires the candidate bid to be made at the
// cheapest available level of its strain.
type NotJumpFromLastContract struct{}

func (NotJumpFromLastContract) Describe() string { return "not-jump" }
func (NotJumpFromLastContract) Fits(a *Auction, c call.Call) bool {
	if !c.IsContract() {
		return false
	}
	return !(JumpFromLastContract{}).Fits(a, c)
}

// UnbidSuit requires the candidate call's suit to be unbid by either side.
type UnbidSuit struct{}

func (UnbidSuit) Describe() string { return "unbid-suit" }
func (UnbidSuit) Fits(a *Auction, c call.Call) bool {
	if !c.IsContract() || !c.Strain.IsSuit() {
		return false
	}
	for _, prev := range a.History.Calls {
		if prev.IsContract() && prev.Strain == c.Strain {
			return false
		}
	}
	return true
}

// CallIsPass requires the candidate call to be a pass.
type CallIsPass struct{}

func (CallIsPass) Describe() string                   { return "call-is-pass" }
func (CallIsPass) Fits(_ *Auction, c call.Call) bool { return c.IsPass() }

// CallHasLevel requires a contract bid at an exact level.
type CallHasLevel int

func (p CallHasLevel) Describe() string { return fmt.Sprintf("call-level=%d", int(p)) }
func (p CallHasLevel) Fits(_ *Auction, c call.Call) bool {
	return c.IsContract() && c.Level == int(p)
}

// OpponentsBid requires that the opposing side has made a contract bid.
type OpponentsBid struct{}

func (OpponentsBid) Describe() string { return "opponents-bid" }
func (OpponentsBid) Fits(a *Auction, _ call.Call) bool {
	toAct := a.History.PositionToAct()
	for i, c := range a.History.Calls {
		if c.IsContract() && !a.History.PositionOfCall(i).SameSide(toAct) {
			return true
		}
	}
	return false
}

// PartnershipSilent requires that the acting side has only passed so far.
type PartnershipSilent struct{}

func (PartnershipSilent) Describe() string { return "partnership-silent" }
func (PartnershipSilent) Fits(a *Auction, _ call.Call) bool {
	toAct := a.History.PositionToAct()
	for i, c := range a.History.Calls {
		if !c.IsPass() && a.History.PositionOfCall(i).SameSide(toAct) {
			return false
		}
	}
	return true
}

// Inverted negates a precondition.
type Inverted struct{ P Precondition }

func (p Inverted) Describe() string                   { return "not(" + p.P.Describe() + ")" }
func (p Inverted) Fits(a *Auction, c call.Call) bool { return !p.P.Fits(a, c) }
