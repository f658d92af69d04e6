package holdem

import (
	"tablecore/betting"
	"tablecore/card"
)

// SeatState is one seat's table-level state: it survives across hands,
// unlike betting.SeatState which lives only for the current street.
type SeatState struct {
	PlayerID  string
	SeatIndex int
	Stack     int64
	Folded    bool
	AllIn     bool
	IsDealer  bool
	InHand    bool
	HoleCards []card.Card
}

// State is the full Hold'em hand/table state. Treat it as immutable:
// CreateInitialState and ApplyAction always return a new *State.
type State struct {
	Phase           Phase
	Options         Options
	HandNumber      int64
	Seats           []*SeatState // fixed table order, index == SeatIndex
	DealerSeatIndex int
	Deck            []card.Card
	Board           []card.Card
	Betting         *betting.State

	// HandContributions accumulates each closed street's per-seat total
	// contribution; it is the authoritative source BuildSidePots uses at
	// showdown, since a fresh betting.State is created per street and
	// discards the prior street's own TotalContribution bookkeeping.
	HandContributions map[string]int64

	ActionLog []string
	Result    *ShowdownResult
}

// PlayerInit seats one player at table creation.
type PlayerInit struct {
	PlayerID string
	Stack    int64 // 0 => Options.InitialStack
}

// CreateInitialState builds a fresh table in PhaseLobby. No hand is dealt
// until a caller applies START_HAND.
func CreateInitialState(players []PlayerInit, options Options) (*State, error) {
	opts := options.withDefaults()
	seats := make([]*SeatState, len(players))
	for i, p := range players {
		stack := p.Stack
		if stack <= 0 {
			stack = opts.InitialStack
		}
		seats[i] = &SeatState{PlayerID: p.PlayerID, SeatIndex: i, Stack: stack}
	}
	return &State{
		Phase:             PhaseLobby,
		Options:           opts,
		Seats:             seats,
		DealerSeatIndex:   -1,
		HandContributions: map[string]int64{},
	}, nil
}

// Clone deep-copies the state so callers can treat every module operation
// as pure.
func (s *State) Clone() *State {
	out := &State{
		Phase:             s.Phase,
		Options:           s.Options,
		HandNumber:        s.HandNumber,
		DealerSeatIndex:   s.DealerSeatIndex,
		Deck:              append([]card.Card(nil), s.Deck...),
		Board:             append([]card.Card(nil), s.Board...),
		Betting:           s.Betting,
		HandContributions: make(map[string]int64, len(s.HandContributions)),
		ActionLog:         append([]string(nil), s.ActionLog...),
		Result:            s.Result,
	}
	for k, v := range s.HandContributions {
		out.HandContributions[k] = v
	}
	out.Seats = make([]*SeatState, len(s.Seats))
	for i, seat := range s.Seats {
		cp := *seat
		cp.HoleCards = append([]card.Card(nil), seat.HoleCards...)
		out.Seats[i] = &cp
	}
	return out
}

func (s *State) seatIndexOf(playerID string) int {
	for _, seat := range s.Seats {
		if seat.PlayerID == playerID {
			return seat.SeatIndex
		}
	}
	return -1
}

func (s *State) stackOf(playerID string) int64 {
	for _, seat := range s.Seats {
		if seat.PlayerID == playerID {
			return seat.Stack
		}
	}
	return 0
}

// syncSeatsFromBetting copies the live wagering state (stack/folded/all-in)
// back onto the table-level seats; it is the single point where the two
// layers' bookkeeping is reconciled.
func (s *State) syncSeatsFromBetting() {
	if s.Betting == nil {
		return
	}
	for id, bs := range s.Betting.Seats {
		for _, seat := range s.Seats {
			if seat.PlayerID == id {
				seat.Stack = bs.Stack
				seat.Folded = bs.Folded
				seat.AllIn = bs.AllIn
				break
			}
		}
	}
}
