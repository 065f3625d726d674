// Package hand models a single 13-card bridge hand and the shape and
// strength measurements the built-in constraint vocabulary evaluates.
package hand

import (
	"fmt"
	"math/rand"
	"sort"
	"strings"

	"github.com/kibitz-bridge/kibitz/internal/call"
)

// rankOrder gives each card value a sortable index, ace high.
var rankOrder = map[byte]int{
	'2': 0, '3': 1, '4': 2, '5': 3, '6': 4, '7': 5, '8': 6,
	'9': 7, 'T': 8, 'J': 9, 'Q': 10, 'K': 11, 'A': 12,
}

var hcpByRank = map[byte]int{'A': 4, 'K': 3, 'Q': 2, 'J': 1}

// Hand holds the 13 cards dealt to one player, grouped by suit.
//
// Hand is immutable after construction and safe for concurrent reads.
type Hand struct {
	// suits holds the card values per suit, indexed by call.Strain
	// (clubs first), each sorted high to low.
	suits [4]string
}

// Parse reads PBN notation: spades, hearts, diamonds, clubs separated by
// dots, e.g. "AKQ2.T98.432.J72". A void is an empty segment.
func Parse(pbn string) (Hand, error) {
	parts := strings.Split(strings.ToUpper(strings.TrimSpace(pbn)), ".")
	if len(parts) != 4 {
		return Hand{}, fmt.Errorf("invalid hand %q: want 4 dot-separated suits", pbn)
	}
	var h Hand
	total := 0
	// PBN order is spades down to clubs.
	order := []call.Strain{call.Spades, call.Hearts, call.Diamonds, call.Clubs}
	for i, part := range parts {
		seen := map[byte]bool{}
		for j := 0; j < len(part); j++ {
			r := part[j]
			if _, ok := rankOrder[r]; !ok {
				return Hand{}, fmt.Errorf("invalid hand %q: bad card %q", pbn, string(r))
			}
			if seen[r] {
				return Hand{}, fmt.Errorf("invalid hand %q: duplicate %s in suit", pbn, string(r))
			}
			seen[r] = true
		}
		sorted := []byte(part)
		sort.Slice(sorted, func(a, b int) bool {
			return rankOrder[sorted[a]] > rankOrder[sorted[b]]
		})
		h.suits[order[i]] = string(sorted)
		total += len(part)
	}
	if total != 13 {
		return Hand{}, fmt.Errorf("invalid hand %q: %d cards, want 13", pbn, total)
	}
	return h, nil
}

// MustParse is Parse that panics on error. For statically-known hands.
func MustParse(pbn string) Hand {
	h, err := Parse(pbn)
	if err != nil {
		panic(err)
	}
	return h
}

// Random deals a hand from a shuffled deck using the given source.
func Random(rng *rand.Rand) Hand {
	deck := rng.Perm(52)
	return fromCardIndices(deck[:13])
}

// Deal deals four hands from one shuffled deck, in position order.
func Deal(rng *rand.Rand) [4]Hand {
	deck := rng.Perm(52)
	var hands [4]Hand
	for i := range hands {
		hands[i] = fromCardIndices(deck[i*13 : (i+1)*13])
	}
	return hands
}

var rankChars = "23456789TJQKA"

func fromCardIndices(indices []int) Hand {
	var h Hand
	for _, idx := range indices {
		suit := call.Strain(idx / 13)
		h.suits[suit] += string(rankChars[idx%13])
	}
	for s := range h.suits {
		cards := []byte(h.suits[s])
		sort.Slice(cards, func(a, b int) bool {
			return rankOrder[cards[a]] > rankOrder[cards[b]]
		})
		h.suits[s] = string(cards)
	}
	return h
}

// String renders the hand in PBN notation.
func (h Hand) String() string {
	return strings.Join([]string{
		h.suits[call.Spades],
		h.suits[call.Hearts],
		h.suits[call.Diamonds],
		h.suits[call.Clubs],
	}, ".")
}

// CardsIn returns the card values held in the suit, sorted high to low.
func (h Hand) CardsIn(s call.Strain) string { return h.suits[s] }

// Length returns the number of cards held in the suit.
func (h Hand) Length(s call.Strain) int { return len(h.suits[s]) }

// HCP returns the hand's high card points (A=4, K=3, Q=2, J=1).
func (h Hand) HCP() int {
	total := 0
	for _, cards := range h.suits {
		for i := 0; i < len(cards); i++ {
			total += hcpByRank[cards[i]]
		}
	}
	return total
}

// HCPIn returns the high card points held in one suit.
func (h Hand) HCPIn(s call.Strain) int {
	total := 0
	cards := h.suits[s]
	for i := 0; i < len(cards); i++ {
		total += hcpByRank[cards[i]]
	}
	return total
}

// suitCountsOf returns how many suits have exactly n cards.
func (h Hand) suitCountsOf(n int) int {
	count := 0
	for _, s := range call.Suits {
		if h.Length(s) == n {
			count++
		}
	}
	return count
}

// Voids returns the number of suits with no cards.
func (h Hand) Voids() int { return h.suitCountsOf(0) }

// Singletons returns the number of one-card suits.
func (h Hand) Singletons() int { return h.suitCountsOf(1) }

// Doubletons returns the number of two-card suits.
func (h Hand) Doubletons() int { return h.suitCountsOf(2) }

// Balanced reports whether the hand has no void, no singleton, and at
// most one doubleton.
func (h Hand) Balanced() bool {
	return h.Voids() == 0 && h.Singletons() == 0 && h.Doubletons() <= 1
}

// SupportPointsFor returns HCP plus shortness points when supporting the
// given trump suit: with 3-card support doubletons/singletons/voids count
// 1/2/3, with 4+ support 1/3/5. With fewer than 3 trumps, plain HCP.
func (h Hand) SupportPointsFor(trump call.Strain) int {
	hcp := h.HCP()
	support := h.Length(trump)
	if support < 3 {
		return hcp
	}
	singleton, void := 2, 3
	if support >= 4 {
		singleton, void = 3, 5
	}
	return hcp + h.Doubletons() + singleton*h.Singletons() + void*h.Voids()
}

// PlayingPoints approximates playing strength: HCP plus one point per
// card past the fourth in each suit.
func (h Hand) PlayingPoints() int {
	points := h.HCP()
	for _, s := range call.Suits {
		if n := h.Length(s); n > 4 {
			points += n - 4
		}
	}
	return points
}

// Has reports whether the hand holds the given card value in the suit.
func (h Hand) Has(rank byte, s call.Strain) bool {
	return strings.IndexByte(h.suits[s], rank) >= 0
}
