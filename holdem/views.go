package holdem

import (
	"tablecore/betting"
	"tablecore/card"
	"tablecore/eval"
)

// SeatPublicView is one seat's publicly-observable state.
type SeatPublicView struct {
	PlayerID  string
	SeatIndex int
	Stack     int64
	Folded    bool
	AllIn     bool
	IsDealer  bool
	InHand    bool
}

// PotView is a pot layer as seen from outside the module.
type PotView struct {
	Amount   int64
	Eligible []string
}

// PublicView carries no hidden information: no hole cards, no remaining
// deck order.
type PublicView struct {
	Phase          string
	HandNumber     int64
	Board          []card.Card
	Seats          []SeatPublicView
	Pots           []PotView
	ActivePlayerID string
	ActionLog      []string
	Result         *ShowdownResult
}

// PlayerView is the public view plus one seat's private information.
type PlayerView struct {
	PublicView
	HoleCards        []card.Card
	AvailableActions *betting.LegalAction
}

// GetPublicView is a pure projection of state; it never mutates its
// argument and never includes hole cards or deck contents.
func GetPublicView(state *State) PublicView {
	seats := make([]SeatPublicView, len(state.Seats))
	for i, s := range state.Seats {
		seats[i] = SeatPublicView{
			PlayerID:  s.PlayerID,
			SeatIndex: s.SeatIndex,
			Stack:     s.Stack,
			Folded:    s.Folded,
			AllIn:     s.AllIn,
			IsDealer:  s.IsDealer,
			InHand:    s.InHand,
		}
	}
	view := PublicView{
		Phase:      string(state.Phase),
		HandNumber: state.HandNumber,
		Board:      append([]card.Card(nil), state.Board...),
		Seats:      seats,
		Pots:       currentPots(state),
		ActionLog:  append([]string(nil), state.ActionLog...),
	}
	if state.Betting != nil {
		view.ActivePlayerID = state.Betting.ActivePlayerID()
	}
	if state.Result != nil {
		// HandScore.Best holds the cards each contender played, hole cards
		// included, so it is dropped from the public copy of the result.
		res := *state.Result
		res.Scores = make(map[string]eval.HandScore, len(state.Result.Scores))
		for id, score := range state.Result.Scores {
			score.Best = nil
			res.Scores[id] = score
		}
		view.Result = &res
	}
	return view
}

// GetPlayerView adds playerID's hole cards and current legal-action bounds
// to the public view. HoleCards is empty if playerID is not seated;
// AvailableActions is nil when no betting round is active, and all-false
// when it is not playerID's turn.
func GetPlayerView(state *State, playerID string) PlayerView {
	view := PlayerView{PublicView: GetPublicView(state)}
	for _, s := range state.Seats {
		if s.PlayerID == playerID {
			view.HoleCards = append([]card.Card(nil), s.HoleCards...)
			break
		}
	}
	if state.Betting != nil {
		legal := betting.LegalActions(state.Betting, playerID)
		view.AvailableActions = &legal
	}
	return view
}

// currentPots combines closed-street contributions with the live street's
// in-progress contributions so pots displayed mid-round already reflect
// chips wagered so far, not just fully-settled streets.
func currentPots(state *State) []PotView {
	contributions := make([]betting.Contribution, 0, len(state.Seats))
	for _, seat := range state.Seats {
		if !seat.InHand {
			continue
		}
		amt := state.HandContributions[seat.PlayerID]
		if state.Betting != nil {
			if bs, ok := state.Betting.Seats[seat.PlayerID]; ok {
				amt += bs.TotalContribution
			}
		}
		if amt <= 0 {
			continue
		}
		contributions = append(contributions, betting.Contribution{
			PlayerID: seat.PlayerID,
			Amount:   amt,
			Folded:   seat.Folded,
		})
	}
	pots := betting.BuildSidePots(contributions)
	out := make([]PotView, len(pots))
	for i, p := range pots {
		out[i] = PotView{Amount: p.Amount, Eligible: p.Eligible}
	}
	return out
}

// IsGameOver reports whether at most one seat still has chips.
func IsGameOver(state *State) bool {
	n := 0
	for _, seat := range state.Seats {
		if seat.Stack > 0 {
			n++
		}
	}
	return n <= 1
}

// GetResult returns the last completed hand's showdown result, if any.
func GetResult(state *State) (*ShowdownResult, bool) {
	return state.Result, state.Result != nil
}

// DefaultTimeoutAction is a pure fallback an external scheduler (out of
// this module's scope) may call when a seat has gone unresponsive: check
// if free, otherwise fold. The module itself never starts a timer.
func DefaultTimeoutAction(view PlayerView) Action {
	if view.AvailableActions != nil && view.AvailableActions.CanCheck {
		return Action{Type: ActionCheck}
	}
	return Action{Type: ActionFold}
}
