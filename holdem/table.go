package holdem

import (
	"time"

	"tablecore/errs"
)

// Table wraps a hand State with the seat/unseat lifecycle and idle-table
// diagnostics that live above the per-hand engine: the engine itself only
// knows about the fixed seat list a hand was dealt with, never about
// players joining or leaving between hands.
type Table struct {
	State        *State
	HandsPlayed  int64
	LastActionAt time.Time
}

// NewTable creates an empty table in the lobby phase. Seats are added one
// at a time with Seat.
func NewTable(options Options) *Table {
	return &Table{
		State: &State{
			Phase:             PhaseLobby,
			Options:           options.withDefaults(),
			DealerSeatIndex:   -1,
			HandContributions: map[string]int64{},
		},
	}
}

// Seat adds playerID at the next open seat with the given starting stack.
// It rejects seating changes mid-hand so a hand's seat list never shifts
// under it.
func (t *Table) Seat(playerID string, stack int64) error {
	if t.State.Phase != PhaseLobby && t.State.Phase != PhaseHandEnd {
		return errs.New(errs.WrongPhase, "cannot seat %s while a hand is in progress", playerID)
	}
	for _, seat := range t.State.Seats {
		if seat.PlayerID == playerID {
			return errs.New(errs.InvalidInput, "%s is already seated", playerID)
		}
	}
	next := t.State.Clone()
	next.Seats = append(next.Seats, &SeatState{
		PlayerID:  playerID,
		SeatIndex: len(next.Seats),
		Stack:     stack,
	})
	t.State = next
	return nil
}

// Unseat removes playerID between hands. Mid-hand removal is rejected the
// same way it is for Seat: a seated player only leaves once the current hand
// has settled.
func (t *Table) Unseat(playerID string) error {
	if t.State.Phase != PhaseLobby && t.State.Phase != PhaseHandEnd {
		return errs.New(errs.WrongPhase, "cannot unseat %s while a hand is in progress", playerID)
	}
	idx := -1
	for i, seat := range t.State.Seats {
		if seat.PlayerID == playerID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return errs.New(errs.NotSeated, "%s is not seated", playerID)
	}
	next := t.State.Clone()
	next.Seats = append(next.Seats[:idx], next.Seats[idx+1:]...)
	for i, seat := range next.Seats {
		seat.SeatIndex = i
	}
	if next.DealerSeatIndex >= len(next.Seats) {
		next.DealerSeatIndex = -1
	}
	t.State = next
	return nil
}

// Apply delegates to ApplyAction and, on success, bumps the table's
// diagnostic counters. handsPlayed and lastActionAt are observability-only:
// nothing in the engine reads them back.
func (t *Table) Apply(playerID string, action Action) error {
	next, err := ApplyAction(t.State, playerID, action)
	if err != nil {
		return err
	}
	if next.Phase == PhaseHandEnd && t.State.Phase != PhaseHandEnd {
		t.HandsPlayed++
	}
	t.State = next
	t.LastActionAt = time.Now()
	return nil
}
