package table

import (
	"context"
	"testing"
	"time"

	"github.com/sanity-io/litter"
	"github.com/stretchr/testify/require"

	"tablecore/errs"
	"tablecore/holdem"
)

type fakeTransport struct {
	publicCalls int
	playerCalls map[string]int
	lastPublic  holdem.PublicView
}

func newFakeTransport() *fakeTransport {
	return &fakeTransport{playerCalls: map[string]int{}}
}

func (f *fakeTransport) PublishPublic(tableID string, view holdem.PublicView) {
	f.publicCalls++
	f.lastPublic = view
}

func (f *fakeTransport) PublishPlayer(tableID string, playerID string, view holdem.PlayerView) {
	f.playerCalls[playerID]++
}

func TestSeatAndApplyActionPublishViews(t *testing.T) {
	ft := newFakeTransport()
	m := NewMediator(holdem.Options{SmallBlind: 5, BigBlind: 10}, ft, nil)
	ctx := context.Background()

	require.NoError(t, m.Seat(ctx, "p1", 100))
	require.NoError(t, m.Seat(ctx, "p2", 100))
	require.Equal(t, 2, ft.publicCalls)
	require.Equal(t, 2, ft.playerCalls["p1"], "p1 gets a fresh view on every subsequent publish, not just its own seat event")
	require.Equal(t, 1, ft.playerCalls["p2"])

	require.NoError(t, m.ApplyAction(ctx, "", holdem.Action{Type: holdem.ActionStartHand}))
	require.Equal(t, 3, ft.publicCalls)
	require.Equal(t, 3, ft.playerCalls["p1"])
	require.Equal(t, "preflop", ft.lastPublic.Phase)
}

func TestApplyActionRejectsUnseatedPlayer(t *testing.T) {
	ft := newFakeTransport()
	m := NewMediator(holdem.Options{}, ft, nil)
	ctx := context.Background()
	require.NoError(t, m.Seat(ctx, "p1", 100))
	require.NoError(t, m.Seat(ctx, "p2", 100))

	err := m.ApplyAction(ctx, "ghost", holdem.Action{Type: holdem.ActionCheck})
	require.True(t, errs.Is(err, errs.NotSeated))
}

func TestUnseatRejectedMidHand(t *testing.T) {
	ft := newFakeTransport()
	m := NewMediator(holdem.Options{SmallBlind: 5, BigBlind: 10}, ft, nil)
	ctx := context.Background()
	require.NoError(t, m.Seat(ctx, "p1", 100))
	require.NoError(t, m.Seat(ctx, "p2", 100))
	require.NoError(t, m.ApplyAction(ctx, "", holdem.Action{Type: holdem.ActionStartHand}))

	err := m.Unseat(ctx, "p1")
	require.True(t, errs.Is(err, errs.WrongPhase))
}

func TestApplyActionReturnsBusyOnLockTimeout(t *testing.T) {
	ft := newFakeTransport()
	m := NewMediator(holdem.Options{}, ft, nil)
	<-m.sem // simulate the lock already held by an in-flight request

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	err := m.ApplyAction(ctx, "p1", holdem.Action{Type: holdem.ActionCheck})
	require.True(t, errs.Is(err, errs.Busy))

	m.sem <- struct{}{}
}

func TestSnapshotAndRestoreRoundTripState(t *testing.T) {
	ft := newFakeTransport()
	m := NewMediator(holdem.Options{SmallBlind: 5, BigBlind: 10}, ft, nil)
	ctx := context.Background()
	require.NoError(t, m.Seat(ctx, "p1", 100))
	require.NoError(t, m.Seat(ctx, "p2", 100))
	require.NoError(t, m.ApplyAction(ctx, "", holdem.Action{Type: holdem.ActionStartHand}))

	snap, err := m.Snapshot(ctx)
	require.NoError(t, err)
	require.Equal(t, holdem.PhasePreflop, snap.Phase)

	fresh := NewMediator(holdem.Options{}, ft, nil)
	require.NoError(t, fresh.Restore(ctx, snap))

	view, err := fresh.PublicView(ctx)
	require.NoError(t, err)
	require.Equal(t, "preflop", view.Phase)
	require.Len(t, view.Seats, 2)
}

func TestDefaultInitialStackReflectsOptions(t *testing.T) {
	m := NewMediator(holdem.Options{InitialStack: 250}, nil, nil)
	require.EqualValues(t, 250, m.DefaultInitialStack())
}

func TestPublicViewQueryIsIdempotent(t *testing.T) {
	ft := newFakeTransport()
	m := NewMediator(holdem.Options{SmallBlind: 5, BigBlind: 10}, ft, nil)
	ctx := context.Background()
	require.NoError(t, m.Seat(ctx, "p1", 100))
	require.NoError(t, m.Seat(ctx, "p2", 100))
	require.NoError(t, m.ApplyAction(ctx, "", holdem.Action{Type: holdem.ActionStartHand}))

	first, err := m.PublicView(ctx)
	require.NoError(t, err)
	second, err := m.PublicView(ctx)
	require.NoError(t, err)
	require.Equal(t, litter.Sdump(first), litter.Sdump(second), "a non-mutating query must return an identical view on repeat calls")
}
