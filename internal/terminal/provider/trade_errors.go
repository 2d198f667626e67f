package terminalprovider

import (
	"fmt"

	"github.com/rxtech-lab/argo-bridge/pkg/errors"
)

// Raw terminal error codes with dedicated operator-facing messages. Any other
// code falls through to a generic unknown-trade-error message that still
// carries the raw value.
const (
	TradeErrInvalidStops    = 130
	TradeErrTradingDisabled = 133
)

// TradeErrorMessage maps a raw terminal error code to a human-readable
// description.
func TradeErrorMessage(rawCode int) string {
	switch rawCode {
	case TradeErrTradingDisabled:
		return "trading is disabled for the account"
	case TradeErrInvalidStops:
		return "stop distance too small"
	default:
		return fmt.Sprintf("unknown trade error %d", rawCode)
	}
}

// newTradeError builds the TradeError surfaced for a failed terminal
// operation.
func newTradeError(op string, rawCode int) *errors.TradeError {
	return errors.NewTradeError(rawCode, op, TradeErrorMessage(rawCode))
}
