package table

import (
	"context"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"tablecore/errs"
	"tablecore/holdem"
)

// Mediator owns one table's holdem.Table and is its sole mutator. Mutating
// operations are serialized through a single-slot semaphore rather than a
// dedicated actor goroutine and event queue: since every module operation
// is pure and synchronous, a lock with a timeout gives the same
// "single-threaded cooperative per table" guarantee without a goroutine
// that could otherwise leak waiting on a caller that gave up.
type Mediator struct {
	ID string

	transport Transport
	logger    *log.Logger
	table     *holdem.Table
	sem       chan struct{}

	defaultStack int64
}

// NewMediator creates a table actor around a fresh holdem.Table. A nil
// transport is replaced with NoopTransport; a nil logger falls back to a
// stderr logger at Info level.
func NewMediator(options holdem.Options, transport Transport, logger *log.Logger) *Mediator {
	if transport == nil {
		transport = NoopTransport{}
	}
	if logger == nil {
		logger = log.New(os.Stderr)
	}
	sem := make(chan struct{}, 1)
	sem <- struct{}{}
	tbl := holdem.NewTable(options)
	return &Mediator{
		ID:           uuid.NewString(),
		transport:    transport,
		logger:       logger,
		table:        tbl,
		sem:          sem,
		defaultStack: tbl.State.Options.InitialStack,
	}
}

// acquire blocks until the table's lock is free or ctx is done. A channel
// semaphore (rather than sync.Mutex) makes a context-timed acquire possible
// without leaking a goroutine still waiting to lock after the caller gives
// up.
func (m *Mediator) acquire(ctx context.Context) error {
	select {
	case <-m.sem:
		return nil
	case <-ctx.Done():
		return errs.New(errs.Busy, "table %s did not become available in time", m.ID)
	}
}

func (m *Mediator) release() {
	m.sem <- struct{}{}
}

// DefaultInitialStack reports the table's configured buy-in default, for
// callers (like a join endpoint) that let a player omit an explicit stack.
// The value is captured once at construction and never written again, so
// this is safe to read without the table lock.
func (m *Mediator) DefaultInitialStack() int64 {
	return m.defaultStack
}

func (m *Mediator) isSeated(playerID string) bool {
	for _, seat := range m.table.State.Seats {
		if seat.PlayerID == playerID {
			return true
		}
	}
	return false
}

// Seat adds playerID to the table between hands and publishes fresh views
// on success.
func (m *Mediator) Seat(ctx context.Context, playerID string, stack int64) error {
	if err := m.acquire(ctx); err != nil {
		return err
	}
	defer m.release()

	if err := m.table.Seat(playerID, stack); err != nil {
		m.logger.Warn("seat rejected", "table", m.ID, "player", playerID, "err", err)
		return err
	}
	m.logger.Info("player seated", "table", m.ID, "player", playerID, "stack", stack)
	m.publish()
	return nil
}

// Unseat removes playerID between hands and publishes fresh views on
// success.
func (m *Mediator) Unseat(ctx context.Context, playerID string) error {
	if err := m.acquire(ctx); err != nil {
		return err
	}
	defer m.release()

	if err := m.table.Unseat(playerID); err != nil {
		m.logger.Warn("unseat rejected", "table", m.ID, "player", playerID, "err", err)
		return err
	}
	m.logger.Info("player unseated", "table", m.ID, "player", playerID)
	m.publish()
	return nil
}

// ApplyAction validates membership, serializes the mutation through the
// table lock, and publishes fresh views on success. START_HAND and
// ADVANCE_PHASE carry no acting player and skip the membership check.
func (m *Mediator) ApplyAction(ctx context.Context, playerID string, action holdem.Action) error {
	if err := m.acquire(ctx); err != nil {
		return err
	}
	defer m.release()

	if action.Type != holdem.ActionStartHand && action.Type != holdem.ActionAdvancePhase {
		if !m.isSeated(playerID) {
			m.logger.Warn("action from unseated player", "table", m.ID, "player", playerID)
			return errs.New(errs.NotSeated, "%s is not seated at table %s", playerID, m.ID)
		}
	}

	if err := m.table.Apply(playerID, action); err != nil {
		m.logger.Warn("action rejected", "table", m.ID, "player", playerID, "action", action.Type, "err", err)
		return err
	}
	m.logger.Info("action applied", "table", m.ID, "player", playerID, "action", action.Type, "phase", m.table.State.Phase)
	m.publish()
	return nil
}

// publish computes PublicView once and one PlayerView per seated player,
// fanning the per-player sends out with errgroup and barriering on all of
// them before the mutation is considered delivered. The caller must already
// hold the table lock.
func (m *Mediator) publish() {
	public := holdem.GetPublicView(m.table.State)
	m.transport.PublishPublic(m.ID, public)

	var g errgroup.Group
	for _, seat := range m.table.State.Seats {
		playerID := seat.PlayerID
		g.Go(func() error {
			m.transport.PublishPlayer(m.ID, playerID, holdem.GetPlayerView(m.table.State, playerID))
			return nil
		})
	}
	_ = g.Wait()
}

// PublicView is an idempotent query: it never mutates state and returns the
// same view a fresh subscriber would get.
func (m *Mediator) PublicView(ctx context.Context) (holdem.PublicView, error) {
	if err := m.acquire(ctx); err != nil {
		return holdem.PublicView{}, err
	}
	defer m.release()
	return holdem.GetPublicView(m.table.State), nil
}

// PlayerView is an idempotent, per-seat query.
func (m *Mediator) PlayerView(ctx context.Context, playerID string) (holdem.PlayerView, error) {
	if err := m.acquire(ctx); err != nil {
		return holdem.PlayerView{}, err
	}
	defer m.release()
	if !m.isSeated(playerID) {
		return holdem.PlayerView{}, errs.New(errs.NotSeated, "%s is not seated at table %s", playerID, m.ID)
	}
	return holdem.GetPlayerView(m.table.State, playerID), nil
}

// Snapshot returns a deep copy of the table's full state for an external
// persistence store. Unlike PublicView/PlayerView this includes hole cards
// and the deck, matching the restoration contract: the caller passes this
// State straight back into holdem's view/apply functions.
func (m *Mediator) Snapshot(ctx context.Context) (*holdem.State, error) {
	if err := m.acquire(ctx); err != nil {
		return nil, err
	}
	defer m.release()
	return m.table.State.Clone(), nil
}

// Restore replaces the table's state wholesale, for loading a persisted
// snapshot back into a running mediator. It does not publish views; the
// caller is expected to be bringing the table up before anyone subscribes.
func (m *Mediator) Restore(ctx context.Context, state *holdem.State) error {
	if err := m.acquire(ctx); err != nil {
		return err
	}
	defer m.release()
	m.table.State = state
	return nil
}

// Diagnostics reports idle-table bookkeeping for observability only; the
// mediator never gates game logic on it.
func (m *Mediator) Diagnostics(ctx context.Context) (handsPlayed int64, lastActionAt time.Time, err error) {
	if err = m.acquire(ctx); err != nil {
		return 0, time.Time{}, err
	}
	defer m.release()
	return m.table.HandsPlayed, m.table.LastActionAt, nil
}
