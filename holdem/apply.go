package holdem

import (
	"fmt"

	"tablecore/betting"
	"tablecore/card"
	"tablecore/errs"
)

// ApplyAction is the module's single mutation entrypoint: it never mutates
// state in place and always returns either a new *State or an error,
// leaving state untouched on failure.
func ApplyAction(state *State, playerID string, action Action) (*State, error) {
	switch action.Type {
	case ActionStartHand:
		return startHand(state)
	case ActionAdvancePhase:
		return advancePhaseMeta(state)
	case ActionFold, ActionCheck, ActionCall, ActionBet, ActionRaise, ActionAllIn:
		return applyBettingAction(state, playerID, action)
	default:
		return nil, errs.New(errs.UnknownAction, "unknown action type %q", action.Type)
	}
}

func startHand(state *State) (*State, error) {
	if state.Phase != PhaseLobby && state.Phase != PhaseHandEnd {
		return nil, errs.New(errs.WrongPhase, "START_HAND is only valid from lobby or hand_end, got %s", state.Phase)
	}
	eligible := 0
	for _, seat := range state.Seats {
		if seat.Stack > 0 {
			eligible++
		}
	}
	if eligible < 2 {
		return nil, errs.New(errs.InsufficientPlayers, "need at least 2 seats with positive stack, have %d", eligible)
	}

	next := state.Clone()
	next.HandNumber++
	next.Phase = PhaseHandStart
	next.Board = nil
	next.Result = nil
	next.ActionLog = nil
	next.HandContributions = map[string]int64{}

	next.DealerSeatIndex = nextDealerSeat(next)
	for _, seat := range next.Seats {
		seat.Folded = false
		seat.AllIn = false
		seat.InHand = seat.Stack > 0
		seat.IsDealer = false
		seat.HoleCards = nil
	}
	next.Seats[next.DealerSeatIndex].IsDealer = true

	if len(next.Options.TestDeck) == 52 {
		next.Deck = append([]card.Card(nil), next.Options.TestDeck...)
	} else {
		deck := card.NewDeck()
		card.Shuffle(deck, card.NewRNG(card.SeedForHand(next.Options.Seed, next.HandNumber)))
		next.Deck = deck
	}

	sbIdx, bbIdx, firstIdx := preflopBlinds(next)
	dealHoleCards(next, sbIdx)

	order := rotationOrder(next, true)
	firstID := ""
	if firstIdx >= 0 {
		firstID = next.Seats[firstIdx].PlayerID
	}
	round, err := betting.NewRound(betting.RoundInput{
		Seats: seatInits(next, order),
		Forced: []betting.ForcedBet{
			{PlayerID: next.Seats[sbIdx].PlayerID, Amount: next.Options.SmallBlind},
			{PlayerID: next.Seats[bbIdx].PlayerID, Amount: next.Options.BigBlind},
		},
		FirstToActPlayerID: firstID,
		MinOpenBet:         next.Options.BigBlind,
	})
	if err != nil {
		return nil, err
	}

	next.Phase = PhasePreflop
	next.Betting = round
	next.syncSeatsFromBetting()
	return transitionIfRoundClosed(next)
}

// advancePhaseMeta exists for protocol symmetry: the engine already
// auto-advances as soon as a round closes (see onRoundClosed), so by the
// time a caller can observe a closed-or-absent round there is nothing left
// to do. It only rejects an explicit ADVANCE_PHASE while a round is open.
func advancePhaseMeta(state *State) (*State, error) {
	if state.Betting != nil && !state.Betting.RoundClosed {
		return nil, errs.New(errs.WrongPhase, "cannot advance phase while a betting round is open")
	}
	return state.Clone(), nil
}

func toBettingAction(a Action) (betting.Action, error) {
	switch a.Type {
	case ActionFold:
		return betting.Action{Type: betting.Fold}, nil
	case ActionCheck:
		return betting.Action{Type: betting.Check}, nil
	case ActionCall:
		return betting.Action{Type: betting.Call}, nil
	case ActionBet:
		if a.Amount <= 0 {
			return betting.Action{}, errs.New(errs.InvalidAmount, "bet amount must be positive, got %d", a.Amount)
		}
		return betting.Action{Type: betting.Bet, Amount: a.Amount}, nil
	case ActionRaise:
		if a.Amount <= 0 {
			return betting.Action{}, errs.New(errs.InvalidAmount, "raise amount must be positive, got %d", a.Amount)
		}
		return betting.Action{Type: betting.Raise, Amount: a.Amount}, nil
	case ActionAllIn:
		return betting.Action{Type: betting.AllIn}, nil
	default:
		return betting.Action{}, errs.New(errs.UnknownAction, "unknown holdem action %q", a.Type)
	}
}

func applyBettingAction(state *State, playerID string, action Action) (*State, error) {
	if state.Betting == nil {
		return nil, errs.New(errs.WrongPhase, "no betting round is active in phase %s", state.Phase)
	}
	bAction, err := toBettingAction(action)
	if err != nil {
		return nil, err
	}
	nextBetting, err := betting.Apply(state.Betting, playerID, bAction)
	if err != nil {
		return nil, err
	}

	next := state.Clone()
	next.Betting = nextBetting
	next.ActionLog = append(next.ActionLog, fmt.Sprintf("%s:%s", playerID, action.Type))
	next.syncSeatsFromBetting()
	return transitionIfRoundClosed(next)
}

func transitionIfRoundClosed(state *State) (*State, error) {
	if state.Betting != nil && state.Betting.RoundClosed {
		return onRoundClosed(state)
	}
	return state, nil
}

// onRoundClosed folds the just-finished street's contributions into the
// hand-wide total and either short-circuits to showdown (<=1 contender
// left), deals the next street, or settles the hand at the river. It owns
// state uniquely (the caller always hands it a fresh clone) so it mutates
// in place rather than cloning again at every step.
func onRoundClosed(state *State) (*State, error) {
	for id, seat := range state.Betting.Seats {
		state.HandContributions[id] += seat.TotalContribution
	}
	state.syncSeatsFromBetting()

	nonFolded := 0
	for _, seat := range state.Seats {
		if seat.InHand && !seat.Folded {
			nonFolded++
		}
	}
	if nonFolded <= 1 {
		return concludeShowdown(state, true)
	}

	switch state.Phase {
	case PhasePreflop:
		dealStreet(state, 3)
		state.Phase = PhaseFlop
	case PhaseFlop:
		dealStreet(state, 1)
		state.Phase = PhaseTurn
	case PhaseTurn:
		dealStreet(state, 1)
		state.Phase = PhaseRiver
	case PhaseRiver:
		return concludeShowdown(state, false)
	default:
		return nil, errs.New(errs.WrongPhase, "betting round closed in unexpected phase %s", state.Phase)
	}

	firstIdx := postflopFirstToAct(state)
	firstID := ""
	if firstIdx >= 0 {
		firstID = state.Seats[firstIdx].PlayerID
	}
	order := rotationOrder(state, true)
	round, err := betting.NewRound(betting.RoundInput{
		Seats:              seatInits(state, order),
		FirstToActPlayerID: firstID,
		MinOpenBet:         state.Options.BigBlind,
	})
	if err != nil {
		return nil, err
	}
	state.Betting = round
	state.syncSeatsFromBetting()
	return transitionIfRoundClosed(state)
}

func concludeShowdown(state *State, foldedOut bool) (*State, error) {
	state.Phase = PhaseShowdown
	if !foldedOut {
		if need := 5 - len(state.Board); need > 0 {
			dealStreet(state, need)
		}
	}
	result, err := settleShowdown(state, foldedOut)
	if err != nil {
		return nil, err
	}
	state.Result = result
	state.Betting = nil
	state.Phase = PhaseHandEnd
	return state, nil
}
