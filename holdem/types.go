// Package holdem implements the No-Limit Texas Hold'em phase machine: it
// deals hands, drives them through the streets, delegates wagering to the
// betting package, and scores showdowns with the eval package. State is
// treated as immutable — every operation returns a new *State rather than
// mutating its argument, even though the implementation clones-then-mutates
// internally for MVP table sizes (<=6 seats).
//
// The phase machine is a pure, seat-slice State value rather than a
// mutex-guarded, chair-indexed struct, since this module must support
// copy-on-write state and be callable from a serializing table mediator
// rather than owning its own lock.
package holdem

// Phase enumerates the hand lifecycle.
type Phase string

const (
	PhaseLobby     Phase = "lobby"
	PhaseHandStart Phase = "hand_start"
	PhasePreflop   Phase = "preflop"
	PhaseFlop      Phase = "flop"
	PhaseTurn      Phase = "turn"
	PhaseRiver     Phase = "river"
	PhaseShowdown  Phase = "showdown"
	PhaseHandEnd   Phase = "hand_end"
)

// ActionType is the uniform action vocabulary the module accepts, per the
// GameModule contract: two meta-actions plus the five wagering primitives
// (all_in is sugar handled by the betting package).
type ActionType string

const (
	ActionStartHand    ActionType = "START_HAND"
	ActionAdvancePhase ActionType = "ADVANCE_PHASE"
	ActionFold         ActionType = "fold"
	ActionCheck        ActionType = "check"
	ActionCall         ActionType = "call"
	ActionBet          ActionType = "bet"
	ActionRaise        ActionType = "raise"
	ActionAllIn        ActionType = "all_in"
)

// Action is a request to the module: Amount is the bet size for bet, or the
// raise-to total for raise; it is ignored for every other type.
type Action struct {
	Type   ActionType
	Amount int64
}
