package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sample is one (timestamp, price) observation.
type Sample struct {
	Time  time.Time       `json:"time"`
	Price decimal.Decimal `json:"price"`
}

// Ticker is the Binance `/api/v3/ticker/price` answer. Price arrives as a numeric string.
type Ticker struct {
	Symbol string          `json:"symbol"`
	Price  decimal.Decimal `json:"price"`
}

// Coin is one entry of the CoinGecko `/coins/list` catalog.
type Coin struct {
	ID     string `json:"id"`
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
}

// RawPoint is a CoinGecko `[epoch_ms, price]` pair.
type RawPoint []decimal.Decimal

// MarketChart is the body of the CoinGecko market_chart endpoints.
type MarketChart struct {
	Prices []RawPoint `json:"prices"`
}
