package terminalprovider

import (
	"context"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rxtech-lab/argo-bridge/internal/types"
	"github.com/rxtech-lab/argo-bridge/pkg/errors"
	"github.com/shopspring/decimal"
)

// SimulatedConfig contains configuration for the in-memory terminal.
type SimulatedConfig struct {
	// Bid is the initial bid price.
	Bid float64 `json:"bid" yaml:"bid" jsonschema:"title=Bid,description=Initial bid price" validate:"required,gt=0"`
	// Spread is added to the bid to produce the ask.
	Spread float64 `json:"spread" yaml:"spread" jsonschema:"title=Spread,description=Ask minus bid" validate:"gte=0"`
	// Balance is the starting account balance.
	Balance float64 `json:"balance" yaml:"balance" jsonschema:"title=Balance,description=Starting account balance" validate:"gte=0"`
	// StopDistance is the minimum stop distance the terminal reports.
	StopDistance float64 `json:"stop_distance" yaml:"stop_distance" jsonschema:"title=Stop Distance" validate:"gte=0"`
}

// Validate validates the SimulatedConfig struct.
func (c *SimulatedConfig) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid simulated terminal config", err)
	}

	return nil
}

type simPosition struct {
	ticket    string
	direction types.Direction
	volume    float64
	entry     decimal.Decimal
}

// SimulatedTerminal is an in-memory TerminalProvider used for replay runs and
// tests. Positions keep their open order so "first matching" semantics in the
// reconciler are observable.
type SimulatedTerminal struct {
	mu sync.Mutex

	bid          float64
	spread       float64
	stopDistance float64
	balance      decimal.Decimal
	positions    []simPosition

	// When nonzero, the next matching operation fails with this raw
	// terminal error code.
	failSubmitCode int
	failCloseCode  int
}

// NewSimulatedTerminal creates a simulated terminal from the given config.
func NewSimulatedTerminal(config SimulatedConfig) (*SimulatedTerminal, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &SimulatedTerminal{
		bid:          config.Bid,
		spread:       config.Spread,
		stopDistance: config.StopDistance,
		balance:      decimal.NewFromFloat(config.Balance),
	}, nil
}

// SetQuote updates the live bid; the ask follows at the configured spread.
func (s *SimulatedTerminal) SetQuote(bid float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.bid = bid
}

// ForceSubmitFailure makes subsequent SubmitOrder calls fail with the given
// raw terminal error code. Pass 0 to clear.
func (s *SimulatedTerminal) ForceSubmitFailure(rawCode int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.failSubmitCode = rawCode
}

// ForceCloseFailure makes subsequent CloseOrder calls fail with the given raw
// terminal error code. Pass 0 to clear.
func (s *SimulatedTerminal) ForceCloseFailure(rawCode int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.failCloseCode = rawCode
}

// Balance returns the current simulated account balance.
func (s *SimulatedTerminal) Balance() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.balance
}

// SubmitOrder implements TerminalProvider.
func (s *SimulatedTerminal) SubmitOrder(_ context.Context, direction types.Direction, volume float64) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failSubmitCode != 0 {
		return "", errors.Wrap(errors.ErrCodeOrderFailed, "failed to submit order",
			newTradeError("submit", s.failSubmitCode))
	}

	if volume <= 0 {
		return "", errors.Newf(errors.ErrCodeInvalidParameter, "order volume must be positive, got %v", volume)
	}

	// Buys fill at the ask, sells at the bid.
	entry := s.bid
	if direction == types.DirectionBuy {
		entry = s.bid + s.spread
	}

	notional := decimal.NewFromFloat(entry).Mul(decimal.NewFromFloat(volume))
	if notional.GreaterThan(s.balance) {
		return "", errors.Newf(errors.ErrCodeInsufficientBalance,
			"order notional %s exceeds balance %s", notional, s.balance)
	}

	position := simPosition{
		ticket:    uuid.NewString(),
		direction: direction,
		volume:    volume,
		entry:     decimal.NewFromFloat(entry),
	}
	s.positions = append(s.positions, position)

	return position.ticket, nil
}

// CloseOrder implements TerminalProvider. Closing realizes the position's
// profit or loss against the current quote.
func (s *SimulatedTerminal) CloseOrder(_ context.Context, ticket string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failCloseCode != 0 {
		return errors.Wrapf(errors.ErrCodeCloseFailed, newTradeError("close", s.failCloseCode),
			"failed to close ticket %s", ticket)
	}

	for i, position := range s.positions {
		if position.ticket != ticket {
			continue
		}

		exit := decimal.NewFromFloat(s.bid)
		if position.direction == types.DirectionSell {
			exit = decimal.NewFromFloat(s.bid + s.spread)
		}

		pnl := exit.Sub(position.entry)
		if position.direction == types.DirectionSell {
			pnl = position.entry.Sub(exit)
		}

		s.balance = s.balance.Add(pnl.Mul(decimal.NewFromFloat(position.volume)))
		s.positions = append(s.positions[:i], s.positions[i+1:]...)

		return nil
	}

	return errors.Newf(errors.ErrCodeTicketNotFound, "no open position with ticket %s", ticket)
}

// OpenPositions implements TerminalProvider.
func (s *SimulatedTerminal) OpenPositions(_ context.Context) ([]types.Position, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	positions := make([]types.Position, 0, len(s.positions))
	for _, position := range s.positions {
		positions = append(positions, types.Position{
			Ticket:    position.ticket,
			Direction: position.direction,
			Volume:    position.volume,
		})
	}

	return positions, nil
}

// CurrentBid implements TerminalProvider.
func (s *SimulatedTerminal) CurrentBid(_ context.Context) (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.bid, nil
}

// CurrentAsk implements TerminalProvider.
func (s *SimulatedTerminal) CurrentAsk(_ context.Context) (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.bid + s.spread, nil
}

// MinStopDistance implements TerminalProvider.
func (s *SimulatedTerminal) MinStopDistance(_ context.Context) (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.stopDistance, nil
}
