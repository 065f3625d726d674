// Package system declares the built-in bidding system: the priority
// symbols, ordering assertions, and rule templates for a five-card-major
// style of bidding, compiled into the table the bidder consults.
//
// The declarations here are the reference rule set and double as the
// richest exercise of the engine: ordered groups with conditional
// per-call overrides, inheritance from abstract parents, gadget
// conventions gated on annotation tags, and a default pass that only
// speaks when nothing else does.
package system

import (
	"github.com/kibitz-bridge/kibitz/internal/call"
	"github.com/kibitz-bridge/kibitz/internal/priority"
	"github.com/kibitz-bridge/kibitz/internal/rules"
	"github.com/kibitz-bridge/kibitz/internal/vocab"
)

// System is a compiled rule set together with its resolved priority order.
// Immutable after New; share one instance across any number of decisions.
type System struct {
	Table *rules.Table
	Order *priority.Order
}

// TagOpening marks calls that opened the bidding; conventions downstream
// key off it.
const TagOpening = "Opening"

// TagNotrumpOpening additionally marks a natural notrump opening, the
// trigger for the notrump gadget conventions.
const TagNotrumpOpening = "NotrumpOpening"

// TagTransfer marks a Jacoby transfer bid; partner must relay.
const TagTransfer = "Transfer"

// New builds the built-in system. The declarations are static, so an
// error here is a programming mistake in this package, not bad input.
func New() (*System, error) {
	reg := priority.NewRegistry()

	// Openings, lowest to highest.
	openings := reg.MustOrderedGroup(
		"LowerMinorOpening",
		"HigherMinorOpening",
		"LongestMinorOpening",
		"LowerMajorOpening",
		"HigherMajorOpening",
		"LongestMajorOpening",
		"NotrumpOpening",
		"StrongTwoClubs",
	)
	lowerMinor, higherMinor, longestMinor,
		lowerMajor, higherMajor, longestMajor,
		notrump, strongTwo := eight(openings.Members())

	// Responses to partner's opening, lowest to highest.
	responses := reg.MustOrderedGroup(
		"OneNotrumpResponse",
		"OneDiamondResponse",
		"LowerMajorResponse",
		"HigherMajorResponse",
		"LongestMajorResponse",
		"MinimumMajorRaise",
		"LimitMajorRaise",
		"MajorGameRaise",
	)
	oneNT, oneDiamond, lowerMajorResp, higherMajorResp,
		longestMajorResp, minimumRaise, limitRaise, gameRaise := eight(responses.Members())

	// Competitive calls over an enemy opening, lowest to highest.
	competition := reg.MustOrderedGroup(
		"TakeoutDouble",
		"ClubOvercall",
		"DiamondOvercall",
		"HeartOvercall",
		"SpadeOvercall",
	)
	takeoutDouble, clubOvercall, diamondOvercall,
		heartOvercall, spadeOvercall := five(competition.Members())

	// Preempts, lowest call to highest. A long enough suit qualifies a
	// hand for more than one preempt at once; the order prefers the
	// highest, so a seven-card suit preempts at the three level.
	preempts := reg.MustOrderedGroup(
		"TwoDiamondPreempt",
		"TwoHeartPreempt",
		"TwoSpadePreempt",
		"ThreeClubPreempt",
		"ThreeDiamondPreempt",
		"ThreeHeartPreempt",
		"ThreeSpadePreempt",
	)
	preempt2D, preempt2H, preempt2S, preempt3C,
		preempt3D, preempt3H, preempt3S := seven(preempts.Members())

	stayman := reg.MustSymbol("Stayman")
	transfer := reg.MustSymbol("JacobyTransfer")
	acceptHearts := reg.MustSymbol("AcceptHeartTransfer")
	acceptSpades := reg.MustSymbol("AcceptSpadeTransfer")
	defaultPass := reg.MustSymbol("DefaultPass")

	reg.MustOrder(openings.AscendingAssertion()...)
	reg.MustOrder(responses.AscendingAssertion()...)
	reg.MustOrder(competition.AscendingAssertion()...)
	reg.MustOrder(preempts.AscendingAssertion()...)

	// Transfers outrank Stayman when both apply.
	reg.MustOrder(stayman, transfer)

	// The default pass loses to anything with an opinion.
	reg.MustOrder(defaultPass, openings)
	reg.MustOrder(defaultPass, responses)
	reg.MustOrder(defaultPass, competition)
	reg.MustOrder(defaultPass, preempts)
	reg.MustOrder(defaultPass, priority.NewUnorderedGroup(stayman, transfer))

	// Abstract parents. Not compiled themselves; concrete rules inherit
	// their preconditions and tags.
	opening := &rules.Template{
		Name:          "Opening",
		Preconditions: precs(vocab.NoOpening{}),
		Tags:          []string{TagOpening},
	}
	response := &rules.Template{
		Name:          "Response",
		Preconditions: precs(vocab.Opened{Seat: call.Partner}),
	}
	competitive := &rules.Template{
		Name:          "Competitive",
		Preconditions: precs(vocab.OpponentsBid{}, vocab.PartnershipSilent{}),
	}

	templates := []*rules.Template{
		{
			Name:   "OneLevelSuitOpening",
			Parent: opening,
			Calls:  []string{"1C", "1D", "1H", "1S"},
			SharedConstraints: cons(vocab.Or{
				vocab.MinHCP(12),
				vocab.RuleOf20{},
			}),
			ConstraintsPerCall: map[string]rules.Constraint{
				"1C": vocab.MinLength{Suit: call.Clubs, N: 3},
				"1D": vocab.MinLength{Suit: call.Diamonds, N: 3},
				"1H": vocab.MinLength{Suit: call.Hearts, N: 5},
				"1S": vocab.MinLength{Suit: call.Spades, N: 5},
			},
			PrioritiesPerCall: map[string]*priority.Symbol{
				"1C": lowerMinor,
				"1D": higherMinor,
				"1H": lowerMajor,
				"1S": higherMajor,
			},
			// Equal three-three minors open 1C; with four-four the 1D
			// base priority still wins.
			ConditionalPerCall: map[string][]rules.ConditionalPriority{
				"1C": {
					{When: vocab.SuitLonger{A: call.Clubs, B: call.Diamonds}, Priority: longestMinor},
					{When: vocab.And{
						vocab.SuitsEqualLength{A: call.Clubs, B: call.Diamonds},
						vocab.MaxLength{Suit: call.Diamonds, N: 3},
					}, Priority: longestMinor},
				},
				"1D": {{When: vocab.SuitLonger{A: call.Diamonds, B: call.Clubs}, Priority: longestMinor}},
				"1H": {{When: vocab.SuitLonger{A: call.Hearts, B: call.Spades}, Priority: longestMajor}},
				"1S": {{When: vocab.SuitLonger{A: call.Spades, B: call.Hearts}, Priority: longestMajor}},
			},
		},
		{
			Name:     "NotrumpOpening",
			Parent:   opening,
			Calls:    []string{"1N", "2N"},
			Priority: notrump,
			ConstraintsPerCall: map[string]rules.Constraint{
				"1N": vocab.And{vocab.HCPRange{Lo: 15, Hi: 17}, vocab.Balanced{}},
				"2N": vocab.And{vocab.HCPRange{Lo: 20, Hi: 21}, vocab.Balanced{}},
			},
			Tags: []string{TagOpening, TagNotrumpOpening},
		},
		{
			Name:              "StrongTwoClubOpening",
			Parent:            opening,
			Calls:             []string{"2C"},
			SharedConstraints: cons(vocab.MinHCP(22)),
			Priority:          strongTwo,
			Forcing:           true,
			ForcingSet:        true,
		},
		{
			Name:              "PreemptiveOpening",
			Parent:            opening,
			Calls:             []string{"2D", "2H", "2S", "3C", "3D", "3H", "3S"},
			SharedConstraints: cons(vocab.HCPRange{Lo: 5, Hi: 10}),
			ConstraintsPerCall: map[string]rules.Constraint{
				"2D": vocab.MinLengthInCallSuit(6),
				"2H": vocab.MinLengthInCallSuit(6),
				"2S": vocab.MinLengthInCallSuit(6),
				"3C": vocab.MinLengthInCallSuit(7),
				"3D": vocab.MinLengthInCallSuit(7),
				"3H": vocab.MinLengthInCallSuit(7),
				"3S": vocab.MinLengthInCallSuit(7),
			},
			PrioritiesPerCall: map[string]*priority.Symbol{
				"2D": preempt2D,
				"2H": preempt2H,
				"2S": preempt2S,
				"3C": preempt3C,
				"3D": preempt3D,
				"3H": preempt3H,
				"3S": preempt3S,
			},
			Category: rules.CategoryLawOfTotalTricks,
		},
		{
			Name:              "OneLevelNewSuitResponse",
			Parent:            response,
			Calls:             []string{"1D", "1H", "1S"},
			Preconditions:     precs(vocab.UnbidSuit{}),
			SharedConstraints: cons(vocab.MinHCP(6), vocab.MinLengthInCallSuit(4)),
			PrioritiesPerCall: map[string]*priority.Symbol{
				"1D": oneDiamond,
				"1H": lowerMajorResp,
				"1S": higherMajorResp,
			},
			ConditionalPerCall: map[string][]rules.ConditionalPriority{
				"1H": {{When: vocab.SuitLonger{A: call.Hearts, B: call.Spades}, Priority: longestMajorResp}},
				"1S": {{When: vocab.SuitLonger{A: call.Spades, B: call.Hearts}, Priority: longestMajorResp}},
			},
			Forcing:    true,
			ForcingSet: true,
		},
		{
			Name:          "OneNotrumpResponse",
			Parent:        response,
			Calls:         []string{"1N"},
			Preconditions: precs(vocab.NotJumpFromLastContract{}),
			SharedConstraints: cons(
				vocab.HCPRange{Lo: 6, Hi: 10},
			),
			Priority: oneNT,
		},
		{
			Name:   "MinimumMajorRaise",
			Parent: response,
			Calls:  []string{"2H", "2S"},
			Preconditions: precs(
				vocab.RaiseOfPartnersLastSuit{},
				vocab.NotJumpFromLastContract{},
			),
			SharedConstraints: cons(
				vocab.MinSupportForPartner{Points: 6, MinTrumps: 3},
				vocab.MaxSupportForPartner(10),
			),
			Priority: minimumRaise,
		},
		{
			Name:   "LimitMajorRaise",
			Parent: response,
			Calls:  []string{"3H", "3S"},
			Preconditions: precs(
				vocab.RaiseOfPartnersLastSuit{},
				vocab.JumpFromLastContract{},
			),
			SharedConstraints: cons(
				vocab.MinSupportForPartner{Points: 11, MinTrumps: 3},
				vocab.MaxSupportForPartner(12),
			),
			Priority: limitRaise,
		},
		{
			// Thirteen-plus support points drives straight to game; the
			// limit raise caps at twelve so the bands stay disjoint.
			Name:   "MajorGameRaise",
			Parent: response,
			Calls:  []string{"4H", "4S"},
			Preconditions: precs(
				vocab.RaiseOfPartnersLastSuit{},
				vocab.JumpFromLastContract{},
			),
			SharedConstraints: cons(
				vocab.MinSupportForPartner{Points: 13, MinTrumps: 3},
			),
			Priority: gameRaise,
		},
		{
			Name:   "Stayman",
			Calls:  []string{"2C"},
			Preconditions: precs(
				vocab.LastBidTagged{Seat: call.Partner, Tag: TagNotrumpOpening},
			),
			SharedConstraints: cons(
				vocab.MinHCP(8),
				vocab.Or{
					vocab.MinLength{Suit: call.Hearts, N: 4},
					vocab.MinLength{Suit: call.Spades, N: 4},
				},
			),
			Priority:   stayman,
			Category:   rules.CategoryGadget,
			Forcing:    true,
			ForcingSet: true,
		},
		{
			Name:  "JacobyTransfer",
			Calls: []string{"2D", "2H"},
			Preconditions: precs(
				vocab.LastBidTagged{Seat: call.Partner, Tag: TagNotrumpOpening},
			),
			// With both majors the spade transfer wins: 2D additionally
			// demands strictly longer hearts, so 5-5 hands bid 2H.
			ConstraintsPerCall: map[string]rules.Constraint{
				"2D": vocab.And{
					vocab.MinLength{Suit: call.Hearts, N: 5},
					vocab.SuitLonger{A: call.Hearts, B: call.Spades},
				},
				"2H": vocab.MinLength{Suit: call.Spades, N: 5},
			},
			Priority:   transfer,
			Category:   rules.CategoryGadget,
			Forcing:    true,
			ForcingSet: true,
			Tags:       []string{TagTransfer},
		},
		{
			Name:  "AcceptHeartTransfer",
			Calls: []string{"2H"},
			Preconditions: precs(
				vocab.LastBidTagged{Seat: call.Partner, Tag: TagTransfer},
				vocab.LastBidHasStrain{Seat: call.Partner, Strain: call.Diamonds},
			),
			Priority: acceptHearts,
			Category: rules.CategoryRelay,
		},
		{
			Name:  "AcceptSpadeTransfer",
			Calls: []string{"2S"},
			Preconditions: precs(
				vocab.LastBidTagged{Seat: call.Partner, Tag: TagTransfer},
				vocab.LastBidHasStrain{Seat: call.Partner, Strain: call.Hearts},
			),
			Priority: acceptSpades,
			Category: rules.CategoryRelay,
		},
		{
			Name:   "DirectOvercall",
			Parent: competitive,
			Calls:  []string{"1D", "1H", "1S", "2C", "2D", "2H", "2S"},
			Preconditions: precs(
				vocab.NotJumpFromLastContract{},
			),
			SharedConstraints: cons(
				vocab.HCPRange{Lo: 8, Hi: 16},
				vocab.MinLengthInCallSuit(5),
			),
			PrioritiesPerCall: map[string]*priority.Symbol{
				"1D": diamondOvercall,
				"1H": heartOvercall,
				"1S": spadeOvercall,
				"2C": clubOvercall,
				"2D": diamondOvercall,
				"2H": heartOvercall,
				"2S": spadeOvercall,
			},
		},
		{
			Name:   "TakeoutDouble",
			Parent: competitive,
			Calls:  []string{"X"},
			SharedConstraints: cons(vocab.MinHCP(12)),
			Priority:          takeoutDouble,
		},
		{
			Name:     "DefaultPass",
			Calls:    []string{"P"},
			Priority: defaultPass,
			Category: rules.CategoryDefaultPass,
		},
	}

	table, err := rules.Compile(templates)
	if err != nil {
		return nil, err
	}
	order, err := reg.Resolve()
	if err != nil {
		return nil, err
	}
	return &System{Table: table, Order: order}, nil
}

// MustNew is New that panics on error, for tests and command wiring.
func MustNew() *System {
	s, err := New()
	if err != nil {
		panic(err)
	}
	return s
}

func precs(ps ...vocab.Precondition) []rules.Precondition {
	out := make([]rules.Precondition, len(ps))
	for i, p := range ps {
		out[i] = p
	}
	return out
}

func cons(cs ...vocab.Constraint) []rules.Constraint {
	out := make([]rules.Constraint, len(cs))
	for i, c := range cs {
		out[i] = c
	}
	return out
}

func five(s []*priority.Symbol) (a, b, c, d, e *priority.Symbol) {
	return s[0], s[1], s[2], s[3], s[4]
}

func seven(s []*priority.Symbol) (a, b, c, d, e, f, g *priority.Symbol) {
	return s[0], s[1], s[2], s[3], s[4], s[5], s[6]
}

func eight(s []*priority.Symbol) (a, b, c, d, e, f, g, h *priority.Symbol) {
	return s[0], s[1], s[2], s[3], s[4], s[5], s[6], s[7]
}
