package holdem

import "tablecore/card"

// Options configures a table's defaults, trimmed to the fields the Hold'em
// module contract actually names. Seat-count bounds and action timeouts
// are not options of this module.
type Options struct {
	Seed         int64
	InitialStack int64
	SmallBlind   int64
	BigBlind     int64

	// TestDeck, if exactly 52 cards, is consumed verbatim in supplied order
	// with no shuffle. Test-only; production tables leave it nil.
	TestDeck []card.Card
}

func (o Options) withDefaults() Options {
	if o.Seed == 0 {
		o.Seed = 1
	}
	if o.InitialStack <= 0 {
		o.InitialStack = 1000
	}
	if o.SmallBlind <= 0 {
		o.SmallBlind = 5
	}
	if o.BigBlind <= 0 || o.BigBlind < o.SmallBlind {
		o.BigBlind = 2 * o.SmallBlind
	}
	return o
}
