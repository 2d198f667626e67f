package types

// Position is an open net trade on the terminal. The bridge only ever
// observes positions; mutations go through the terminal provider.
type Position struct {
	// Ticket is the terminal's identifier for the open trade.
	Ticket string
	// Direction is the side of the trade.
	Direction Direction
	// Volume is the traded amount.
	Volume float64
}
