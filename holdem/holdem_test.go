package holdem

import (
	"testing"

	"github.com/stretchr/testify/require"

	"tablecore/card"
	"tablecore/errs"
)

// buildTestDeck returns a full 52-card deck with specific cards pinned at
// specific indices (by "RankSuit" string, e.g. "Ah") and every other slot
// filled with the remaining cards in a fixed, non-overlapping order.
func buildTestDeck(t *testing.T, fixed map[int]string) []card.Card {
	t.Helper()
	deck := make([]card.Card, 52)
	used := make(map[card.Card]bool, 52)
	for idx, s := range fixed {
		c, err := card.Parse(s)
		require.NoError(t, err)
		deck[idx] = c
		used[c] = true
	}
	full := card.NewDeck()
	fi := 0
	for i := range deck {
		if _, ok := fixed[i]; ok {
			continue
		}
		for used[full[fi]] {
			fi++
		}
		deck[i] = full[fi]
		used[full[fi]] = true
		fi++
	}
	return deck
}

func mustApply(t *testing.T, s *State, playerID string, a Action) *State {
	t.Helper()
	next, err := ApplyAction(s, playerID, a)
	require.NoError(t, err)
	return next
}

func TestStartHandDealsTwoHoleCardsAndShrinksDeck(t *testing.T) {
	s, err := CreateInitialState([]PlayerInit{{PlayerID: "p1"}, {PlayerID: "p2"}, {PlayerID: "p3"}}, Options{Seed: 42})
	require.NoError(t, err)

	s = mustApply(t, s, "", Action{Type: ActionStartHand})
	require.Equal(t, PhasePreflop, s.Phase)
	for _, seat := range s.Seats {
		require.Len(t, seat.HoleCards, 2)
	}
	require.Len(t, s.Deck, 46)
}

func TestHeadsUpCallCheckAdvancesToFlop(t *testing.T) {
	s, err := CreateInitialState([]PlayerInit{{PlayerID: "p1"}, {PlayerID: "p2"}}, Options{Seed: 7, SmallBlind: 5, BigBlind: 10})
	require.NoError(t, err)

	s = mustApply(t, s, "", Action{Type: ActionStartHand})
	require.Equal(t, PhasePreflop, s.Phase)
	sb := s.Betting.ActivePlayerID()
	require.Equal(t, "p1", sb, "heads-up: dealer/small blind acts first preflop")

	s = mustApply(t, s, "p1", Action{Type: ActionCall})
	s = mustApply(t, s, "p2", Action{Type: ActionCheck})

	require.Equal(t, PhaseFlop, s.Phase)
	require.Len(t, s.Board, 3)
}

func TestShowdownAwardsTheBetterHand(t *testing.T) {
	deck := buildTestDeck(t, map[int]string{
		0: "Ah", 2: "Ad", // p1 hole cards
		1: "2c", 3: "3c", // p2 hole cards
		4: "Kh", 5: "Kd", 6: "9s", // flop
		7: "2d", // turn
		8: "3d", // river
	})

	s, err := CreateInitialState([]PlayerInit{{PlayerID: "p1"}, {PlayerID: "p2"}}, Options{
		SmallBlind: 5, BigBlind: 10, TestDeck: deck,
	})
	require.NoError(t, err)

	s = mustApply(t, s, "", Action{Type: ActionStartHand})
	s = mustApply(t, s, "p1", Action{Type: ActionCall})
	s = mustApply(t, s, "p2", Action{Type: ActionCheck})
	require.Equal(t, PhaseFlop, s.Phase)

	for _, phase := range []Phase{PhaseFlop, PhaseTurn} {
		require.Equal(t, phase, s.Phase)
		first := s.Betting.ActivePlayerID()
		second := "p1"
		if first == "p1" {
			second = "p2"
		}
		s = mustApply(t, s, first, Action{Type: ActionCheck})
		s = mustApply(t, s, second, Action{Type: ActionCheck})
	}
	require.Equal(t, PhaseRiver, s.Phase)
	first := s.Betting.ActivePlayerID()
	second := "p1"
	if first == "p1" {
		second = "p2"
	}
	s = mustApply(t, s, first, Action{Type: ActionCheck})
	s = mustApply(t, s, second, Action{Type: ActionCheck})

	require.Equal(t, PhaseHandEnd, s.Phase)
	require.NotNil(t, s.Result)
	require.Equal(t, []string{"p1"}, s.Result.Winners)

	var p1Stack, p2Stack int64
	for _, seat := range s.Seats {
		if seat.PlayerID == "p1" {
			p1Stack = seat.Stack
		} else {
			p2Stack = seat.Stack
		}
	}
	require.Greater(t, p1Stack, p2Stack)
}

func TestSidePotsWithThreeUnevenStacks(t *testing.T) {
	// Seat order: p1 (dealer, shortest stack), p2 (small blind), p3 (big blind).
	deck := buildTestDeck(t, map[int]string{
		2: "Ah", 5: "Ad", // p1 hole cards (dealt last in seat order from sb)
		0: "7c", 3: "2d", // p2 hole cards
		1: "6d", 4: "3h", // p3 hole cards
		6: "Kc", 7: "9s", 8: "4h", // flop
		9:  "5c", // turn
		10: "8d", // river
	})

	s, err := CreateInitialState([]PlayerInit{
		{PlayerID: "p1", Stack: 20},
		{PlayerID: "p2", Stack: 60},
		{PlayerID: "p3", Stack: 100},
	}, Options{SmallBlind: 5, BigBlind: 10, TestDeck: deck})
	require.NoError(t, err)

	total := func(s *State) int64 {
		sum := int64(0)
		for _, seat := range s.Seats {
			sum += seat.Stack
		}
		if s.Betting != nil {
			for _, seat := range s.Betting.Seats {
				sum += seat.RoundContribution
			}
		}
		for _, amt := range s.HandContributions {
			sum += amt
		}
		return sum
	}

	s = mustApply(t, s, "", Action{Type: ActionStartHand})
	initial := total(s)
	require.Equal(t, "p1", s.Betting.ActivePlayerID())

	s = mustApply(t, s, "p1", Action{Type: ActionAllIn})
	s = mustApply(t, s, "p2", Action{Type: ActionCall})
	s = mustApply(t, s, "p3", Action{Type: ActionCall})
	require.Equal(t, PhaseFlop, s.Phase)
	require.Equal(t, initial, total(s))

	first := s.Betting.ActivePlayerID()
	require.Equal(t, "p2", first)
	s = mustApply(t, s, "p2", Action{Type: ActionBet, Amount: 20})
	s = mustApply(t, s, "p3", Action{Type: ActionCall})
	require.Equal(t, PhaseTurn, s.Phase)

	for _, phase := range []Phase{PhaseTurn, PhaseRiver} {
		require.Equal(t, phase, s.Phase)
		s = mustApply(t, s, "p2", Action{Type: ActionCheck})
		s = mustApply(t, s, "p3", Action{Type: ActionCheck})
	}

	require.Equal(t, PhaseHandEnd, s.Phase)
	require.NotNil(t, s.Result)
	require.GreaterOrEqual(t, len(s.Result.Winners), 1)

	var p1Stack, p2Stack, p3Stack int64
	for _, seat := range s.Seats {
		switch seat.PlayerID {
		case "p1":
			p1Stack = seat.Stack
		case "p2":
			p2Stack = seat.Stack
		case "p3":
			p3Stack = seat.Stack
		}
	}
	require.Greater(t, p1Stack, int64(20), "p1 must win the main pot outright with pocket aces")
	require.GreaterOrEqual(t, p2Stack, int64(0))
	require.GreaterOrEqual(t, p3Stack, int64(0))
}

func TestIllegalCheckFacingABet(t *testing.T) {
	s, err := CreateInitialState([]PlayerInit{{PlayerID: "p1"}, {PlayerID: "p2"}}, Options{SmallBlind: 5, BigBlind: 10})
	require.NoError(t, err)
	s = mustApply(t, s, "", Action{Type: ActionStartHand})

	before := s.Clone()
	_, err = ApplyAction(s, "p1", Action{Type: ActionCheck})
	require.Error(t, err)
	require.True(t, errs.Is(err, errs.IllegalAction))
	require.Equal(t, before, s, "a failed action must not mutate state")
}

func TestStartHandRejectsFewerThanTwoFundedSeats(t *testing.T) {
	s, err := CreateInitialState([]PlayerInit{{PlayerID: "p1", Stack: 100}, {PlayerID: "p2", Stack: 100}}, Options{})
	require.NoError(t, err)
	// PlayerInit.Stack 0 means "use Options.InitialStack", so bust p2 directly.
	s.Seats[1].Stack = 0
	_, err = ApplyAction(s, "", Action{Type: ActionStartHand})
	require.Error(t, err)
	require.True(t, errs.Is(err, errs.InsufficientPlayers))
}
