package controller

import (
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-bridge/internal/types"
)

// Policy decides what command, if any, a market event should trigger.
type Policy interface {
	// OnTick is invoked for every price update.
	OnTick(tick types.Tick) optional.Option[types.Command]
	// OnBar is invoked for every completed bar.
	OnBar(bar types.Bar) optional.Option[types.Command]
}

// BarDirectionPolicy trades on the direction of each completed bar: buy after
// an up bar, sell after a down bar, and close everything after a bar whose
// close equals its open. Ticks are ignored.
type BarDirectionPolicy struct {
	// Volume for the buy and sell orders the policy emits.
	Volume float64
}

// NewBarDirectionPolicy creates the policy with the given order volume.
func NewBarDirectionPolicy(volume float64) *BarDirectionPolicy {
	return &BarDirectionPolicy{Volume: volume}
}

// OnTick implements Policy.
func (p *BarDirectionPolicy) OnTick(_ types.Tick) optional.Option[types.Command] {
	return optional.None[types.Command]()
}

// OnBar implements Policy.
func (p *BarDirectionPolicy) OnBar(bar types.Bar) optional.Option[types.Command] {
	var signal types.OrderSignal

	switch {
	case bar.Close > bar.Open:
		signal = types.OrderSignalBuy
	case bar.Close < bar.Open:
		signal = types.OrderSignalSell
	default:
		signal = types.OrderSignalOut
	}

	command, err := types.NewOrderCommand(signal, p.Volume)
	if err != nil {
		return optional.None[types.Command]()
	}

	return optional.Some(command)
}
