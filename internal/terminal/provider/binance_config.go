package terminalprovider

import (
	"encoding/json"

	"github.com/go-playground/validator/v10"
	"github.com/rxtech-lab/argo-bridge/pkg/errors"
)

// BinanceTerminalConfig contains configuration for the Binance terminal.
type BinanceTerminalConfig struct {
	ApiKey    string `json:"apiKey" yaml:"apiKey" jsonschema:"title=API Key,description=Binance API key" validate:"required"`
	SecretKey string `json:"secretKey" yaml:"secretKey" jsonschema:"title=Secret Key,description=Binance API secret key" validate:"required"`
	Symbol    string `json:"symbol" yaml:"symbol" jsonschema:"title=Symbol,description=Trading pair symbol such as BTCUSDT" validate:"required"`
	// BaseURL overrides the API endpoint. Takes precedence over the testnet
	// flag when set.
	BaseURL string `json:"baseUrl,omitempty" yaml:"baseUrl,omitempty" jsonschema:"title=Base URL,description=Custom API endpoint"`
}

// Validate validates the BinanceTerminalConfig struct.
func (c *BinanceTerminalConfig) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid binance terminal config", err)
	}

	return nil
}

// ParseBinanceConfig parses a JSON configuration string into a BinanceTerminalConfig.
func ParseBinanceConfig(jsonConfig string) (*BinanceTerminalConfig, error) {
	var config BinanceTerminalConfig
	if err := json.Unmarshal([]byte(jsonConfig), &config); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfiguration, "failed to parse binance config", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}
