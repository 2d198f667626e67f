package config

import (
	"os"
	"path/filepath"
	"testing"

	terminalprovider "github.com/rxtech-lab/argo-bridge/internal/terminal/provider"
	"github.com/rxtech-lab/argo-bridge/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "bridge.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestLoadConfigSimulated(t *testing.T) {
	path := writeConfigFile(t, `
endpoint: http://localhost:8080/report
provider: simulated
feed:
  path: testdata/bars.csv
  spread: 0.0002
simulated:
  bid: 1.1
  spread: 0.0002
  balance: 10000
`)

	config, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/report", config.Endpoint)
	assert.Equal(t, "simulated", config.Provider)
	assert.InDelta(t, 0.0002, config.Feed.Spread, 1e-12)

	providerType, providerConfig := config.TerminalConfig()
	assert.Equal(t, terminalprovider.ProviderSimulated, providerType)
	require.IsType(t, &terminalprovider.SimulatedConfig{}, providerConfig)
}

func TestLoadConfigBinance(t *testing.T) {
	path := writeConfigFile(t, `
endpoint: http://controller.example.com/report
provider: binance-paper
feed:
  path: testdata/bars.csv
binance:
  apiKey: key
  secretKey: secret
  symbol: BTCUSDT
`)

	config, err := LoadConfig(path)
	require.NoError(t, err)

	providerType, providerConfig := config.TerminalConfig()
	assert.Equal(t, terminalprovider.ProviderBinancePaper, providerType)

	binanceConfig, ok := providerConfig.(*terminalprovider.BinanceTerminalConfig)
	require.True(t, ok)
	assert.Equal(t, "BTCUSDT", binanceConfig.Symbol)
}

func TestLoadConfigRejectsUnknownProvider(t *testing.T) {
	path := writeConfigFile(t, `
endpoint: http://localhost:8080/report
provider: mt4
feed:
  path: testdata/bars.csv
`)

	_, err := LoadConfig(path)
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeInvalidConfiguration))
}

func TestLoadConfigRequiresProviderSection(t *testing.T) {
	path := writeConfigFile(t, `
endpoint: http://localhost:8080/report
provider: binance-live
feed:
  path: testdata/bars.csv
`)

	_, err := LoadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "binance section")
}

func TestLoadConfigValidatesProviderSection(t *testing.T) {
	path := writeConfigFile(t, `
endpoint: http://localhost:8080/report
provider: simulated
feed:
  path: testdata/bars.csv
simulated:
  bid: 0
`)

	_, err := LoadConfig(path)
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeInvalidConfiguration))
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeInvalidConfiguration))
}

func TestLoadConfigRejectsBadEndpoint(t *testing.T) {
	path := writeConfigFile(t, `
endpoint: not-a-url
provider: simulated
feed:
  path: testdata/bars.csv
simulated:
  bid: 1.1
`)

	_, err := LoadConfig(path)
	require.Error(t, err)
}
