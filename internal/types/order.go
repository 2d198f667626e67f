package types

import (
	"github.com/rxtech-lab/argo-bridge/pkg/errors"
)

// OrderSignal is the desired net state requested by the remote controller.
type OrderSignal string

const (
	// OrderSignalBuy requests a single open long position.
	OrderSignalBuy OrderSignal = "buy"
	// OrderSignalSell requests a single open short position.
	OrderSignalSell OrderSignal = "sell"
	// OrderSignalOut requests that no position be open.
	OrderSignalOut OrderSignal = "out"
)

// ParseOrderSignal maps a wire token to an OrderSignal.
func ParseOrderSignal(token string) (OrderSignal, error) {
	switch OrderSignal(token) {
	case OrderSignalBuy:
		return OrderSignalBuy, nil
	case OrderSignalSell:
		return OrderSignalSell, nil
	case OrderSignalOut:
		return OrderSignalOut, nil
	default:
		return "", errors.Newf(errors.ErrCodeUnknownOrderKind, "unknown order signal %q", token)
	}
}

// Direction is the side of an open position.
type Direction string

const (
	DirectionBuy  Direction = "BUY"
	DirectionSell Direction = "SELL"
)

// Opposite returns the reverse trade direction.
func (d Direction) Opposite() Direction {
	if d == DirectionBuy {
		return DirectionSell
	}

	return DirectionBuy
}

// Direction returns the position direction a signal asks for. The second
// return value is false for OrderSignalOut, which carries no direction.
func (s OrderSignal) Direction() (Direction, bool) {
	switch s {
	case OrderSignalBuy:
		return DirectionBuy, true
	case OrderSignalSell:
		return DirectionSell, true
	default:
		return "", false
	}
}

// CommandName identifies a remote command. ORDER is the only command the
// protocol defines today; unknown names are skipped with a logged warning.
type CommandName string

const (
	CommandNameOrder CommandName = "ORDER"
)

// Command is a parsed remote instruction. Raw wire text never travels past
// the decode boundary; everything downstream works with this type.
type Command struct {
	Name   CommandName
	Signal OrderSignal
	Volume float64
}

// NewOrderCommand builds an ORDER command. The volume token is ignored for
// out signals; buy and sell signals must carry a positive volume.
func NewOrderCommand(signal OrderSignal, volume float64) (Command, error) {
	if signal == OrderSignalOut {
		return Command{Name: CommandNameOrder, Signal: OrderSignalOut, Volume: 0}, nil
	}

	if volume <= 0 {
		return Command{}, errors.Newf(errors.ErrCodeInvalidOrder,
			"%s order must have a positive volume, got %v", signal, volume)
	}

	return Command{Name: CommandNameOrder, Signal: signal, Volume: volume}, nil
}

// OrderOutcome is the result of attempting to satisfy a remote command,
// reported back to the controller as a follow-up status post.
type OrderOutcome struct {
	Success bool
	Err     error
}

// StatusBody renders the outcome in the wire format of the status report.
func (o OrderOutcome) StatusBody() []byte {
	if o.Success {
		return []byte("status=success")
	}

	return []byte("status=error")
}
