package dashboard

import (
	"context"
	"time"

	"cryptoboard/internal/models"
)

// MarketData is the CoinGecko surface the dashboard reads from.
//
//go:generate mockgen -source interface.go -destination=mock/dashboard_mock.go -package=dashboard_mock
type MarketData interface {
	CoinsList(ctx context.Context) ([]models.Coin, error)
	MarketChart(ctx context.Context, coinID string, days int) ([]models.RawPoint, error)
	MarketChartRange(ctx context.Context, coinID string, from, to time.Time) ([]models.RawPoint, error)
}
