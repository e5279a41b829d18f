package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	apperrors "cryptoboard/internal/errors"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "BTCBUSD", cfg.Sampler.Symbol)
	assert.Equal(t, 30*time.Second, cfg.Sampler.Interval)
	assert.Equal(t, 360, cfg.Sampler.MaxTicks)
	assert.Equal(t, 120, cfg.Sampler.BufferSize)
	assert.True(t, decimal.NewFromInt(10).Equal(cfg.Sampler.Margin))
	assert.Equal(t, 1, cfg.Dashboard.CatalogRetries)
	assert.Equal(t, time.Minute, cfg.Dashboard.CatalogBackoff)
	assert.Equal(t, "usd", cfg.CoinGecko.VsCurrency)
	assert.Equal(t, "configs/keys.json", cfg.Binance.CredentialsFile)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("SAMPLER_SYMBOL", "ETHUSDT")
	t.Setenv("SAMPLER_MARGIN", "2.5")
	t.Setenv("SAMPLER_INTERVAL", "5s")
	t.Setenv("DASHBOARD_PORT", "9090")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "ETHUSDT", cfg.Sampler.Symbol)
	assert.Equal(t, "2.5", cfg.Sampler.Margin.String())
	assert.Equal(t, 5*time.Second, cfg.Sampler.Interval)
	assert.Equal(t, "9090", cfg.Dashboard.Port)
}

func TestLoad_Invalid(t *testing.T) {
	t.Setenv("SAMPLER_BUFFER_SIZE", "0")

	_, err := Load()
	require.Error(t, err)
	assert.Equal(t, apperrors.ConfigError, apperrors.CodeOf(err))
	assert.True(t, apperrors.IsFatal(err))
}

func TestLoadCredentials(t *testing.T) {
	dir := t.TempDir()

	write := func(name, body string) string {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
		return path
	}

	t.Run("json", func(t *testing.T) {
		creds, err := LoadCredentials(write("keys.json", `{"apiKey":"k-123","secretKey":"s-456"}`))
		require.NoError(t, err)
		assert.Equal(t, "k-123", creds.APIKey)
		assert.Equal(t, "s-456", creds.SecretKey)
	})

	t.Run("yaml", func(t *testing.T) {
		creds, err := LoadCredentials(write("keys.yaml", "apiKey: k-123\nsecretKey: s-456\n"))
		require.NoError(t, err)
		assert.Equal(t, "k-123", creds.APIKey)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadCredentials(filepath.Join(dir, "nope.json"))
		assert.Equal(t, apperrors.CredentialsError, apperrors.CodeOf(err))
		assert.True(t, apperrors.IsFatal(err))
	})

	t.Run("malformed", func(t *testing.T) {
		_, err := LoadCredentials(write("bad.json", `{"apiKey":`))
		assert.Equal(t, apperrors.CredentialsError, apperrors.CodeOf(err))
	})

	t.Run("missing secret", func(t *testing.T) {
		_, err := LoadCredentials(write("half.json", `{"apiKey":"k-123"}`))
		assert.Equal(t, apperrors.CredentialsError, apperrors.CodeOf(err))
	})
}

func TestMaskSecret(t *testing.T) {
	assert.Equal(t, "****", MaskSecret("short"))
	assert.Equal(t, "abcd****6789", MaskSecret("abcdef0123456789"))
}
