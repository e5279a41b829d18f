package config

import (
	"time"

	apperrors "cryptoboard/internal/errors"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

// Config is shared by the dashboard server and the live-plot tool.
type Config struct {
	App       AppConfig       `envPrefix:"APP_"`
	Binance   BinanceConfig   `envPrefix:"BINANCE_"`
	CoinGecko CoinGeckoConfig `envPrefix:"COINGECKO_"`
	Sampler   SamplerConfig   `envPrefix:"SAMPLER_"`
	Dashboard DashboardConfig `envPrefix:"DASHBOARD_"`
}

type AppConfig struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
}

type BinanceConfig struct {
	BaseURL         string        `env:"BASE_URL" envDefault:"https://api.binance.com"`
	Timeout         time.Duration `env:"TIMEOUT" envDefault:"10s"`
	CredentialsFile string        `env:"CREDENTIALS_FILE" envDefault:"configs/keys.json"`
}

type CoinGeckoConfig struct {
	BaseURL    string        `env:"BASE_URL" envDefault:"https://api.coingecko.com/api/v3"`
	APIKey     string        `env:"API_KEY"`
	VsCurrency string        `env:"VS_CURRENCY" envDefault:"usd"`
	Timeout    time.Duration `env:"TIMEOUT" envDefault:"10s"`
}

// SamplerConfig drives the live price plot.
type SamplerConfig struct {
	Symbol       string          `env:"SYMBOL" envDefault:"BTCBUSD"`
	Interval     time.Duration   `env:"INTERVAL" envDefault:"30s"`
	MaxTicks     int             `env:"MAX_TICKS" envDefault:"360"`
	BufferSize   int             `env:"BUFFER_SIZE" envDefault:"120"`
	Margin       decimal.Decimal `env:"MARGIN" envDefault:"10"`
	Retries      int             `env:"RETRIES" envDefault:"2"`
	RetryBackoff time.Duration   `env:"RETRY_BACKOFF" envDefault:"2s"`
	Listen       string          `env:"LISTEN"`
	Workbook     string          `env:"WORKBOOK"`
}

// DashboardConfig drives the web dashboard.
type DashboardConfig struct {
	Port           string        `env:"PORT" envDefault:"8080"`
	CatalogRetries int           `env:"CATALOG_RETRIES" envDefault:"1"`
	CatalogBackoff time.Duration `env:"CATALOG_BACKOFF" envDefault:"60s"`
	HistoryDays    int           `env:"HISTORY_DAYS" envDefault:"7"`
}

// Load reads a .env file when present, then the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, apperrors.Fatal(apperrors.ConfigError, "failed to parse config", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the programs cannot run with.
func (c *Config) Validate() error {
	invalid := func(msg string) error {
		return apperrors.New(apperrors.ConfigError, apperrors.KindFatal, msg)
	}

	switch {
	case c.Sampler.Symbol == "":
		return invalid("sampler symbol must not be empty")
	case c.Sampler.Interval <= 0:
		return invalid("sampler interval must be positive")
	case c.Sampler.MaxTicks < 0:
		return invalid("sampler max ticks must not be negative")
	case c.Sampler.BufferSize <= 0:
		return invalid("sampler buffer size must be positive")
	case c.Sampler.Margin.IsNegative():
		return invalid("sampler margin must not be negative")
	case c.Sampler.Retries < 0 || c.Dashboard.CatalogRetries < 0:
		return invalid("retry counts must not be negative")
	case c.Dashboard.HistoryDays <= 0:
		return invalid("dashboard history days must be positive")
	case c.CoinGecko.VsCurrency == "":
		return invalid("coingecko vs currency must not be empty")
	}
	return nil
}

// MaskSecret hides all but the edges of a key for logging.
func MaskSecret(secret string) string {
	if len(secret) <= 8 {
		return "****"
	}
	return secret[:4] + "****" + secret[len(secret)-4:]
}
