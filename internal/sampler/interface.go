package sampler

import (
	"context"

	"cryptoboard/internal/models"
)

// PriceSource returns the current price of a trading pair.
//
//go:generate mockgen -source interface.go -destination=mock/sampler_mock.go -package=sampler_mock
type PriceSource interface {
	Price(ctx context.Context, symbol string) (models.Ticker, error)
}
