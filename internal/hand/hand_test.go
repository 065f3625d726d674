package hand

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kibitz-bridge/kibitz/internal/call"
)

func TestParseRoundTrip(t *testing.T) {
	h, err := Parse("AKQ2.T98.432.J72")
	require.NoError(t, err)
	assert.Equal(t, "AKQ2.T98.432.J72", h.String())
	assert.Equal(t, 4, h.Length(call.Spades))
	assert.Equal(t, 3, h.Length(call.Hearts))
	assert.Equal(t, "AKQ2", h.CardsIn(call.Spades))
}

func TestParseSortsCards(t *testing.T) {
	h, err := Parse("2QKA.89T.234.27J")
	require.NoError(t, err)
	assert.Equal(t, "AKQ2.T98.432.J72", h.String())
}

func TestParseVoid(t *testing.T) {
	h, err := Parse("AKQJT98765432...")
	require.NoError(t, err)
	assert.Equal(t, 13, h.Length(call.Spades))
	assert.Equal(t, 3, h.Voids())
}

func TestParseErrors(t *testing.T) {
	cases := []string{
		"AKQ2.T98.432",        // three suits
		"AKQ2.T98.432.J7",     // twelve cards
		"AKQ22.T98.432.J7",    // duplicate card
		"AKQZ.T98.432.J72",    // bad rank
		"AKQ2.T98.432.J721",   // fourteen cards
	}
	for _, pbn := range cases {
		_, err := Parse(pbn)
		assert.Error(t, err, pbn)
	}
}

func TestHCP(t *testing.T) {
	h := MustParse("AKQ2.T98.432.J72")
	assert.Equal(t, 10, h.HCP())
	assert.Equal(t, 9, h.HCPIn(call.Spades))
	assert.Equal(t, 1, h.HCPIn(call.Clubs))
}

func TestBalanced(t *testing.T) {
	assert.True(t, MustParse("AKQ2.T98.432.J72").Balanced())  // 4333
	assert.True(t, MustParse("AKQ32.T98.432.J7").Balanced())  // 5332
	assert.False(t, MustParse("AKQ32.T9.43.J872").Balanced()) // two doubletons
	assert.False(t, MustParse("AKQJT2.T98.432.J").Balanced()) // singleton
}

func TestSupportPoints(t *testing.T) {
	// Singleton club, 4-card heart support: +3.
	h := MustParse("T982.QJ32.K432.A")
	assert.Equal(t, 10, h.HCP())
	assert.Equal(t, 13, h.SupportPointsFor(call.Hearts))
	// Fewer than 3 trumps: plain HCP.
	assert.Equal(t, 10, h.SupportPointsFor(call.Clubs))
}

func TestPlayingPoints(t *testing.T) {
	h := MustParse("AKQJT2.98.432.72")
	assert.Equal(t, 12, h.PlayingPoints())
}

func TestDealIsAPartition(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	hands := Deal(rng)
	seen := map[string]bool{}
	total := 0
	for _, h := range hands {
		for _, s := range call.Suits {
			cards := h.CardsIn(s)
			total += len(cards)
			for i := 0; i < len(cards); i++ {
				key := s.Char() + string(cards[i])
				assert.False(t, seen[key], "card dealt twice: %s", key)
				seen[key] = true
			}
		}
	}
	assert.Equal(t, 52, total)
}
