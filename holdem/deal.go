package holdem

import "tablecore/betting"

// positiveStackSeatIndices lists seats with chips, in seat order — the
// pool a new dealer is chosen from.
func positiveStackSeatIndices(state *State) []int {
	out := make([]int, 0, len(state.Seats))
	for i, seat := range state.Seats {
		if seat.Stack > 0 {
			out = append(out, i)
		}
	}
	return out
}

// nextDealerSeat advances the button to the next positive-stack seat after
// the previous dealer; hand 1 (or no prior dealer) starts at the first
// eligible seat, matching "for hand 1, seat 0".
func nextDealerSeat(state *State) int {
	eligible := positiveStackSeatIndices(state)
	if len(eligible) == 0 {
		return -1
	}
	if state.HandNumber <= 1 || state.DealerSeatIndex < 0 {
		return eligible[0]
	}
	for _, idx := range eligible {
		if idx > state.DealerSeatIndex {
			return idx
		}
	}
	return eligible[0]
}

// nextInHandSeat walks forward from fromIdx (exclusive) and returns the
// next seat still in the hand, wrapping around the table.
func nextInHandSeat(state *State, fromIdx int) int {
	n := len(state.Seats)
	for step := 1; step <= n; step++ {
		idx := (fromIdx + step) % n
		if state.Seats[idx].InHand {
			return idx
		}
	}
	return -1
}

func countInHand(state *State) int {
	n := 0
	for _, seat := range state.Seats {
		if seat.InHand {
			n++
		}
	}
	return n
}

// preflopBlinds resolves small blind, big blind, and first-to-act for a new
// hand. Heads-up is an explicit branch — the dealer posts the small blind
// and acts first — rather than relying on the general n-seat formula
// degenerating correctly for n=2.
func preflopBlinds(state *State) (sbIdx, bbIdx, firstToActIdx int) {
	dealer := state.DealerSeatIndex
	if countInHand(state) == 2 {
		sbIdx = dealer
		bbIdx = nextInHandSeat(state, dealer)
		firstToActIdx = dealer
		return
	}
	sbIdx = nextInHandSeat(state, dealer)
	bbIdx = nextInHandSeat(state, sbIdx)
	firstToActIdx = nextInHandSeat(state, bbIdx)
	return
}

// postflopFirstToAct is the first in-hand, non-folded, positive-stack seat
// after the dealer.
func postflopFirstToAct(state *State) int {
	n := len(state.Seats)
	for step := 1; step <= n; step++ {
		idx := (state.DealerSeatIndex + step) % n
		seat := state.Seats[idx]
		if seat.InHand && !seat.Folded && seat.Stack > 0 {
			return idx
		}
	}
	return -1
}

// rotationOrder lists in-hand seats (optionally excluding folded ones) in
// turn-rotation order starting right after the dealer.
func rotationOrder(state *State, excludeFolded bool) []string {
	n := len(state.Seats)
	order := make([]string, 0, n)
	for step := 1; step <= n; step++ {
		idx := (state.DealerSeatIndex + step) % n
		seat := state.Seats[idx]
		if !seat.InHand {
			continue
		}
		if excludeFolded && seat.Folded {
			continue
		}
		order = append(order, seat.PlayerID)
	}
	return order
}

func seatInits(state *State, order []string) []betting.SeatInit {
	out := make([]betting.SeatInit, len(order))
	for i, id := range order {
		out[i] = betting.SeatInit{PlayerID: id, Stack: state.stackOf(id)}
	}
	return out
}

// dealHoleCards deals two cards to every in-hand seat, one at a time
// starting at startIdx and walking the table twice, the way a dealer
// actually distributes cards.
func dealHoleCards(state *State, startIdx int) {
	n := len(state.Seats)
	for pass := 0; pass < 2; pass++ {
		for step := 0; step < n; step++ {
			idx := (startIdx + step) % n
			seat := state.Seats[idx]
			if !seat.InHand {
				continue
			}
			if len(state.Deck) == 0 {
				return
			}
			seat.HoleCards = append(seat.HoleCards, state.Deck[0])
			state.Deck = state.Deck[1:]
		}
	}
}

// dealStreet moves n cards from the deck onto the board (flop=3, turn/river=1).
func dealStreet(state *State, n int) {
	if n > len(state.Deck) {
		n = len(state.Deck)
	}
	if n <= 0 {
		return
	}
	state.Board = append(state.Board, state.Deck[:n]...)
	state.Deck = state.Deck[n:]
}
