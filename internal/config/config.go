// Package config loads and validates the bridge's YAML configuration.
package config

import (
	"os"

	"github.com/go-playground/validator/v10"
	terminalprovider "github.com/rxtech-lab/argo-bridge/internal/terminal/provider"
	"github.com/rxtech-lab/argo-bridge/pkg/errors"
	"gopkg.in/yaml.v3"
)

// FeedConfig selects the recorded market data the bridge replays.
type FeedConfig struct {
	// Path to the CSV bar file.
	Path string `yaml:"path" json:"path" validate:"required"`
	// Spread synthesized onto replayed quotes.
	Spread float64 `yaml:"spread" json:"spread" validate:"gte=0"`
}

// BridgeConfig is the root configuration for cmd/bridge.
type BridgeConfig struct {
	// Endpoint is the remote controller's report URL.
	Endpoint string `yaml:"endpoint" json:"endpoint" validate:"required,url"`
	// Provider selects the terminal backend.
	Provider string `yaml:"provider" json:"provider" validate:"required,oneof=simulated binance-paper binance-live"`

	Feed FeedConfig `yaml:"feed" json:"feed"`

	// Exactly one of these must match the selected provider.
	Simulated *terminalprovider.SimulatedConfig       `yaml:"simulated,omitempty" json:"simulated,omitempty"`
	Binance   *terminalprovider.BinanceTerminalConfig `yaml:"binance,omitempty" json:"binance,omitempty"`
}

// Validate validates the BridgeConfig struct, including the sub-config the
// selected provider needs.
func (c *BridgeConfig) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid bridge config", err)
	}

	switch terminalprovider.ProviderType(c.Provider) {
	case terminalprovider.ProviderSimulated:
		if c.Simulated == nil {
			return errors.New(errors.ErrCodeInvalidConfiguration, "simulated provider requires a simulated section")
		}

		return c.Simulated.Validate()
	case terminalprovider.ProviderBinancePaper, terminalprovider.ProviderBinanceLive:
		if c.Binance == nil {
			return errors.New(errors.ErrCodeInvalidConfiguration, "binance provider requires a binance section")
		}

		return c.Binance.Validate()
	}

	return nil
}

// TerminalConfig returns the provider type and the matching sub-config,
// ready for the provider factory.
func (c *BridgeConfig) TerminalConfig() (terminalprovider.ProviderType, any) {
	providerType := terminalprovider.ProviderType(c.Provider)
	if providerType == terminalprovider.ProviderSimulated {
		return providerType, c.Simulated
	}

	return providerType, c.Binance
}

// LoadConfig reads and validates a bridge config file.
func LoadConfig(path string) (*BridgeConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "failed to read config %s", path)
	}

	var config BridgeConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "failed to parse config %s", path)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}
