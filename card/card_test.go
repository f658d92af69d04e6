package card

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseRoundTrip(t *testing.T) {
	cases := []string{"As", "Td", "2h", "Kc", "9s"}
	for _, s := range cases {
		c, err := Parse(s)
		require.NoError(t, err)
		require.Equal(t, s, c.String())
	}
}

func TestParseInvalid(t *testing.T) {
	_, err := Parse("Zx")
	require.Error(t, err)
	_, err = Parse("A")
	require.Error(t, err)
}

func TestNewDeckHas52UniqueCards(t *testing.T) {
	deck := NewDeck()
	require.Len(t, deck, 52)
	seen := make(map[Card]bool, 52)
	for _, c := range deck {
		require.False(t, seen[c], "duplicate card %s", c)
		seen[c] = true
	}
}

func TestShuffleIsDeterministicForSameSeed(t *testing.T) {
	d1 := NewDeck()
	Shuffle(d1, NewRNG(SeedForHand(42, 1)))

	d2 := NewDeck()
	Shuffle(d2, NewRNG(SeedForHand(42, 1)))

	require.Equal(t, d1, d2)
}

func TestShuffleDiffersAcrossHandNumbers(t *testing.T) {
	d1 := NewDeck()
	Shuffle(d1, NewRNG(SeedForHand(42, 1)))

	d2 := NewDeck()
	Shuffle(d2, NewRNG(SeedForHand(42, 2)))

	require.NotEqual(t, d1, d2)
}

func TestShuffleIsPermutation(t *testing.T) {
	deck := NewDeck()
	Shuffle(deck, NewRNG(7))

	seen := make(map[Card]bool, 52)
	for _, c := range deck {
		seen[c] = true
	}
	require.Len(t, seen, 52)
}
