package bidder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kibitz-bridge/kibitz/internal/call"
	"github.com/kibitz-bridge/kibitz/internal/hand"
	"github.com/kibitz-bridge/kibitz/internal/priority"
	"github.com/kibitz-bridge/kibitz/internal/rules"
	"github.com/kibitz-bridge/kibitz/internal/selector"
	"github.com/kibitz-bridge/kibitz/internal/system"
	"github.com/kibitz-bridge/kibitz/internal/testutil"
	"github.com/kibitz-bridge/kibitz/internal/vocab"
)

func testBidder(t *testing.T) *Bidder {
	t.Helper()
	s, err := system.New()
	require.NoError(t, err)
	return New(s.Table, s.Order)
}

func auctionAfter(t *testing.T, b *Bidder, hands map[call.Position]hand.Hand, calls string) *vocab.Auction {
	t.Helper()
	h, err := call.ParseHistory(call.North, calls)
	require.NoError(t, err)

	// Replay through the bidder so every call carries its rule's tags.
	a := vocab.NewAuction(call.NewHistory(call.North))
	for i, c := range h.Calls {
		seat := h.PositionOfCall(i)
		d, err := b.Decide(hands[seat], a)
		require.NoError(t, err)
		require.Equal(t, c, d.Call, "replaying call %d (%s)", i, c)
		a = Apply(a, d)
	}
	return a
}

func decide(t *testing.T, b *Bidder, pbn string, a *vocab.Auction) *Decision {
	t.Helper()
	d, err := b.Decide(hand.MustParse(pbn), a)
	require.NoError(t, err)
	return d
}

func emptyAuction() *vocab.Auction {
	return vocab.NewAuction(call.NewHistory(call.North))
}

func TestOpensHigherOfTouchingMajors(t *testing.T) {
	b := testBidder(t)

	d := decide(t, b, "AKQ32.KQJ32.32.2", emptyAuction())
	assert.Equal(t, "1S", d.Call.Name)
	assert.Equal(t, "OneLevelSuitOpening", d.Rule.Name)
	assert.Equal(t, "HigherMajorOpening", d.Priority.Name())
}

func TestOpensLongestMajorViaOverride(t *testing.T) {
	b := testBidder(t)

	// Six hearts, five spades: the conditional override promotes 1H past 1S.
	d := decide(t, b, "AKQ32.KQJ432.2.2", emptyAuction())
	assert.Equal(t, "1H", d.Call.Name)
	assert.Equal(t, "LongestMajorOpening", d.Priority.Name())
}

func TestOpensLongerMinor(t *testing.T) {
	b := testBidder(t)

	// Four diamonds, three clubs, 14 HCP: 1D over 1C.
	d := decide(t, b, "A32.K32.QJ32.A32", emptyAuction())
	assert.Equal(t, "1D", d.Call.Name)
	assert.Equal(t, "LongestMinorOpening", d.Priority.Name())
}

func TestOpensOneClubWithEqualShortMinors(t *testing.T) {
	b := testBidder(t)

	// Three-three in the minors: the conditional promotes 1C past 1D.
	d := decide(t, b, "AQ32.KQ3.432.Q32", emptyAuction())
	assert.Equal(t, "1C", d.Call.Name)
	assert.Equal(t, "LongestMinorOpening", d.Priority.Name())
}

func TestOpensOneDiamondWithEqualLongMinors(t *testing.T) {
	b := testBidder(t)

	// Four-four in the minors stays with 1D.
	d := decide(t, b, "A32.K2.Q432.A432", emptyAuction())
	assert.Equal(t, "1D", d.Call.Name)
	assert.Equal(t, "HigherMinorOpening", d.Priority.Name())
}

func TestOpensOneNotrump(t *testing.T) {
	b := testBidder(t)

	d := decide(t, b, "AQ32.KQ2.A32.Q32", emptyAuction())
	assert.Equal(t, "1N", d.Call.Name)
	assert.Equal(t, "NotrumpOpening", d.Rule.Name)
}

func TestOpensStrongTwoClubs(t *testing.T) {
	b := testBidder(t)

	d := decide(t, b, "AKQ2.AKQ2.AK2.32", emptyAuction())
	assert.Equal(t, "2C", d.Call.Name)
	assert.Equal(t, "StrongTwoClubOpening", d.Rule.Name)
	assert.True(t, d.Rule.Forcing)
}

func TestPreemptsWhenTooWeakToOpen(t *testing.T) {
	b := testBidder(t)

	d := decide(t, b, "KQJT32.32.432.32", emptyAuction())
	assert.Equal(t, "2S", d.Call.Name)
	assert.Equal(t, "PreemptiveOpening", d.Rule.Name)
}

func TestPreemptPrefersTheHigherLevel(t *testing.T) {
	b := testBidder(t)

	// Seven spades qualify for both the weak two and the three-level
	// preempt; the order prefers the higher call.
	d := decide(t, b, "KQJT432.32.432.2", emptyAuction())
	assert.Equal(t, "3S", d.Call.Name)
	assert.Equal(t, "PreemptiveOpening", d.Rule.Name)
}

func TestPreemptWithTwoSuitsTakesTheHigher(t *testing.T) {
	b := testBidder(t)

	d := decide(t, b, "QJT432.QJT432..2", emptyAuction())
	assert.Equal(t, "2S", d.Call.Name)
	assert.Equal(t, "PreemptiveOpening", d.Rule.Name)
}

func TestPassesWithNothingToSay(t *testing.T) {
	b := testBidder(t)

	d := decide(t, b, "5432.432.432.432", emptyAuction())
	assert.Equal(t, "P", d.Call.Name)
	assert.Equal(t, "DefaultPass", d.Rule.Name)
}

func openerAndFlatHands() map[call.Position]hand.Hand {
	return map[call.Position]hand.Hand{
		call.North: hand.MustParse("A2.KQJ32.K432.32"),
		call.East:  hand.MustParse("5432.432.432.432"),
	}
}

func TestRaisePreferredOverNewSuit(t *testing.T) {
	b := testBidder(t)

	a := auctionAfter(t, b, openerAndFlatHands(), "1H P")

	// Four-card support and a biddable spade suit: the raise outranks it.
	d := decide(t, b, "8732.QT98.2.KQ52", a)
	assert.Equal(t, "2H", d.Call.Name)
	assert.Equal(t, "MinimumMajorRaise", d.Rule.Name)
}

func TestNewSuitResponseTakesLongestMajorOverride(t *testing.T) {
	b := testBidder(t)

	hands := map[call.Position]hand.Hand{
		call.North: hand.MustParse("A32.K32.QJ32.A32"),
		call.East:  hand.MustParse("5432.432.432.432"),
	}
	a := auctionAfter(t, b, hands, "1D P")

	// Five spades, four hearts over partner's 1D: bid the longer major.
	d := decide(t, b, "KQ432.A432.2.432", a)
	assert.Equal(t, "1S", d.Call.Name)
	assert.Equal(t, "OneLevelNewSuitResponse", d.Rule.Name)
	assert.Equal(t, "LongestMajorResponse", d.Priority.Name())
}

func TestGameRaiseWithGameGoingSupport(t *testing.T) {
	b := testBidder(t)

	hands := map[call.Position]hand.Hand{
		call.North: hand.MustParse("AKJ32.Q32.K32.32"),
		call.East:  hand.MustParse("5432.432.432.432"),
	}
	a := auctionAfter(t, b, hands, "1S P")

	// Four trumps and fourteen support points: too strong for the limit
	// raise, so the raise goes straight to game.
	d := decide(t, b, "KQ32.A32.KQ2.432", a)
	assert.Equal(t, "4S", d.Call.Name)
	assert.Equal(t, "MajorGameRaise", d.Rule.Name)
}

func TestOneNotrumpResponseAsFallback(t *testing.T) {
	b := testBidder(t)

	a := auctionAfter(t, b, openerAndFlatHands(), "1H P")

	// 6 HCP, no support, no four-card suit to show at the one level.
	d := decide(t, b, "432.32.K432.KJ32", a)
	assert.Equal(t, "1N", d.Call.Name)
	assert.Equal(t, "OneNotrumpResponse", d.Rule.Name)
}

func notrumpOpenerHands() map[call.Position]hand.Hand {
	return map[call.Position]hand.Hand{
		call.North: hand.MustParse("AQ32.KQ2.A32.Q32"),
		call.East:  hand.MustParse("5432.432.432.432"),
	}
}

func TestStaymanOverNotrumpOpening(t *testing.T) {
	b := testBidder(t)

	a := auctionAfter(t, b, notrumpOpenerHands(), "1N P")

	d := decide(t, b, "KQ32.A432.432.32", a)
	assert.Equal(t, "2C", d.Call.Name)
	assert.Equal(t, "Stayman", d.Rule.Name)
}

func TestTransferOutranksStayman(t *testing.T) {
	b := testBidder(t)

	a := auctionAfter(t, b, notrumpOpenerHands(), "1N P")

	// Five spades and four hearts: both gadgets apply, the transfer wins.
	d := decide(t, b, "KQ532.A432.43.32", a)
	assert.Equal(t, "2H", d.Call.Name)
	assert.Equal(t, "JacobyTransfer", d.Rule.Name)
}

func TestTransferWithBothMajorsShowsSpades(t *testing.T) {
	b := testBidder(t)

	a := auctionAfter(t, b, notrumpOpenerHands(), "1N P")

	// Five-five in the majors: only the spade transfer applies, the
	// heart transfer demands strictly longer hearts.
	d := decide(t, b, "KQ532.A5432.32.2", a)
	assert.Equal(t, "2H", d.Call.Name)
	assert.Equal(t, "JacobyTransfer", d.Rule.Name)
}

func TestGadgetNeedsTheTag(t *testing.T) {
	b := testBidder(t)

	// A raw untagged auction: the 1N call was never interpreted, so the
	// gadget preconditions cannot see a notrump opening.
	h, err := call.ParseHistory(call.North, "1N P")
	require.NoError(t, err)

	d := decide(t, b, "KQ532.A432.43.32", vocab.NewAuction(h))
	assert.NotEqual(t, "JacobyTransfer", d.Rule.Name)
	assert.NotEqual(t, "Stayman", d.Rule.Name)
}

func TestOvercallAndTakeoutDouble(t *testing.T) {
	b := testBidder(t)

	hands := map[call.Position]hand.Hand{
		call.North: hand.MustParse("A32.K32.QJ32.A32"),
	}
	a := auctionAfter(t, b, hands, "1D")

	// A five-card suit overcalls.
	d := decide(t, b, "AKJ32.432.32.432", a)
	assert.Equal(t, "1S", d.Call.Name)
	assert.Equal(t, "DirectOvercall", d.Rule.Name)

	// Opening strength without a suit doubles for takeout.
	d = decide(t, b, "AK32.KQ32.A32.42", a)
	assert.Equal(t, "X", d.Call.Name)
	assert.Equal(t, "TakeoutDouble", d.Rule.Name)
}

func TestCompleteAuctionWithTransferRelay(t *testing.T) {
	b := testBidder(t)

	hands := [4]hand.Hand{
		call.North: hand.MustParse("AQ32.KQ2.A32.Q32"),
		call.East:  hand.MustParse("5432.432.432.432"),
		call.South: hand.MustParse("98732.432.5432.2"),
		call.West:  hand.MustParse("6543.543.543.543"),
	}

	a, decisions, err := b.CompleteAuction(call.North, hands)
	require.NoError(t, err)
	assert.Equal(t, "1N P 2H P 2S P P P", a.History.String())
	require.Len(t, decisions, 8)
	assert.Equal(t, "NotrumpOpening", decisions[0].Rule.Name)
	assert.Equal(t, "JacobyTransfer", decisions[2].Rule.Name)
	assert.Equal(t, "AcceptSpadeTransfer", decisions[4].Rule.Name)

	// The interpreted auction carries the annotation trail.
	assert.True(t, a.SeatTagged(call.North, system.TagOpening))
	assert.True(t, a.HasTagAt(2, system.TagTransfer))

	contract, ok := a.History.LastContract()
	require.True(t, ok)
	assert.Equal(t, "2S", contract.Name)
}

func TestDecideSurfacesAmbiguity(t *testing.T) {
	// A deliberately broken table: two pass rules with unrelated symbols.
	reg := priority.NewRegistry()
	a := reg.MustSymbol("FirstPass")
	c := reg.MustSymbol("SecondPass")
	order, err := reg.Resolve()
	require.NoError(t, err)

	table, err := rules.Compile([]*rules.Template{
		{Name: "FirstPass", Calls: []string{"P"}, Priority: a},
		{Name: "SecondPass", Calls: []string{"P"}, Priority: c},
	})
	require.NoError(t, err)

	b := New(table, order)
	_, err = b.Decide(hand.MustParse("5432.432.432.432"), emptyAuction())
	require.Error(t, err)
	assert.True(t, selector.IsResolutionAmbiguity(err))
}

func TestCompleteAuctionOnGeneratedDeals(t *testing.T) {
	b := testBidder(t)
	gen := testutil.NewDealGenerator(1)

	// The built-in system must decide every seat of every deal: the
	// fallback pass catches hands no convention claims, and the resolved
	// order relates any two rules that can apply at once.
	for board := 0; board < 32; board++ {
		hands := gen.Next()
		dealer := call.Position(board % 4)

		a, decisions, err := b.CompleteAuction(dealer, hands)
		require.NoError(t, err, "board %d", board)
		assert.True(t, a.History.IsComplete(), "board %d: %s", board, a.History.String())
		assert.Len(t, decisions, len(a.History.Calls))
	}
}
