// Package table implements the mediator: the sole owner and mutator of a
// single table's Hold'em state, serializing every mutation through a
// lock-guarded actor rather than a channel-fed event loop, since the
// module's operations are already pure and synchronous.
package table

import "tablecore/holdem"

// Transport is the external collaborator a Mediator publishes views to.
// Nothing in this package assumes a particular wire format; internal/gateway
// is one concrete implementer over gorilla/websocket.
type Transport interface {
	PublishPublic(tableID string, view holdem.PublicView)
	PublishPlayer(tableID string, playerID string, view holdem.PlayerView)
}

// NoopTransport discards every publication. Useful for tests and for
// mediators created before a transport is attached.
type NoopTransport struct{}

func (NoopTransport) PublishPublic(string, holdem.PublicView)          {}
func (NoopTransport) PublishPlayer(string, string, holdem.PlayerView) {}
