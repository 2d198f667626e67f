// Package terminalprovider abstracts the trading terminal the bridge runs
// inside of: order submission, position close, and live market reads. The
// bridge core never talks to a concrete terminal directly.
package terminalprovider

import (
	"context"
	"fmt"

	"github.com/rxtech-lab/argo-bridge/internal/types"
	"github.com/rxtech-lab/argo-bridge/pkg/utils"
)

// TerminalProvider is the execution interface consumed by the bridge core.
// The core assumes a single-instrument, single-net-position model; it is the
// reconciler's job to keep the terminal in that shape.
type TerminalProvider interface {
	// SubmitOrder opens a market position and returns its ticket.
	SubmitOrder(ctx context.Context, direction types.Direction, volume float64) (string, error)
	// CloseOrder closes the open position identified by ticket.
	CloseOrder(ctx context.Context, ticket string) error
	// OpenPositions returns the currently open positions in terminal order.
	OpenPositions(ctx context.Context) ([]types.Position, error)
	// CurrentBid returns the live bid price.
	CurrentBid(ctx context.Context) (float64, error)
	// CurrentAsk returns the live ask price.
	CurrentAsk(ctx context.Context) (float64, error)
	// MinStopDistance returns the minimum stop distance the terminal accepts.
	MinStopDistance(ctx context.Context) (float64, error)
}

type ProviderType string

const (
	ProviderSimulated    ProviderType = "simulated"
	ProviderBinancePaper ProviderType = "binance-paper"
	ProviderBinanceLive  ProviderType = "binance-live"
)

type ProviderInfo struct {
	Name           string `json:"name"`
	DisplayName    string `json:"displayName"`
	Description    string `json:"description"`
	IsPaperTrading bool   `json:"isPaperTrading"`
}

var providerRegistry = map[ProviderType]ProviderInfo{
	ProviderSimulated: {
		Name:           string(ProviderSimulated),
		DisplayName:    "Simulated Terminal",
		Description:    "In-memory terminal for replay and testing, no real funds",
		IsPaperTrading: true,
	},
	ProviderBinancePaper: {
		Name:           string(ProviderBinancePaper),
		DisplayName:    "Binance Testnet",
		Description:    "Binance testnet terminal for paper trading without real funds",
		IsPaperTrading: true,
	},
	ProviderBinanceLive: {
		Name:           string(ProviderBinanceLive),
		DisplayName:    "Binance Live",
		Description:    "Binance live environment for real-funds trading",
		IsPaperTrading: false,
	},
}

func GetSupportedProviders() []string {
	providers := make([]string, 0, len(providerRegistry))
	for providerType := range providerRegistry {
		providers = append(providers, string(providerType))
	}

	return providers
}

// GetProviderInfo returns metadata for a specific terminal provider.
func GetProviderInfo(providerName string) (ProviderInfo, error) {
	info, exists := providerRegistry[ProviderType(providerName)]
	if !exists {
		return ProviderInfo{}, fmt.Errorf("unsupported terminal provider: %s", providerName)
	}

	return info, nil
}

// GetProviderConfigSchema returns the JSON schema for a provider's configuration.
func GetProviderConfigSchema(providerName string) (string, error) {
	switch ProviderType(providerName) {
	case ProviderSimulated:
		//nolint:exhaustruct // Empty struct is intentional for schema generation
		return utils.GetSchemaFromConfig(SimulatedConfig{})
	case ProviderBinancePaper, ProviderBinanceLive:
		//nolint:exhaustruct // Empty struct is intentional for schema generation
		return utils.GetSchemaFromConfig(BinanceTerminalConfig{})
	default:
		return "", fmt.Errorf("unsupported terminal provider: %s", providerName)
	}
}

// NewTerminalProvider creates a terminal provider based on the provider type.
func NewTerminalProvider(providerType ProviderType, config any) (TerminalProvider, error) {
	switch providerType {
	case ProviderSimulated:
		cfg, ok := config.(*SimulatedConfig)
		if !ok {
			return nil, fmt.Errorf("invalid config type for simulated provider")
		}

		return NewSimulatedTerminal(*cfg)

	case ProviderBinancePaper:
		cfg, ok := config.(*BinanceTerminalConfig)
		if !ok {
			return nil, fmt.Errorf("invalid config type for binance paper provider")
		}

		return NewBinanceTerminal(*cfg, true) // useTestnet=true

	case ProviderBinanceLive:
		cfg, ok := config.(*BinanceTerminalConfig)
		if !ok {
			return nil, fmt.Errorf("invalid config type for binance live provider")
		}

		return NewBinanceTerminal(*cfg, false) // useTestnet=false

	default:
		return nil, fmt.Errorf("unsupported terminal provider: %s", providerType)
	}
}
