package coingecko

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"cryptoboard/internal/config"
	"cryptoboard/internal/models"
	"cryptoboard/internal/services"

	"github.com/go-resty/resty/v2"
)

const (
	coinsListPath        = "/coins/list"
	marketChartPath      = "/coins/{id}/market_chart"
	marketChartRangePath = "/coins/{id}/market_chart/range"
)

// Client reads the coin catalog and historical prices from the CoinGecko API.
type Client struct {
	client     *resty.Client
	vsCurrency string
}

func NewClient(cfg config.CoinGeckoConfig) *Client {
	client := services.NewRestClient(cfg.BaseURL, cfg.Timeout)
	if cfg.APIKey != "" {
		client.SetHeader("x-cg-demo-api-key", cfg.APIKey)
	}
	return &Client{
		client:     client,
		vsCurrency: cfg.VsCurrency,
	}
}

// CoinsList returns every coin CoinGecko can quote.
func (c *Client) CoinsList(ctx context.Context) ([]models.Coin, error) {
	body, err := services.Get(c.client.R().SetContext(ctx), coinsListPath, "coins list")
	if err != nil {
		return nil, err
	}

	var coins []models.Coin
	if err := services.Decode(body, &coins, "coins list"); err != nil {
		return nil, err
	}
	return coins, nil
}

// MarketChart returns prices for the last `days` days. CoinGecko picks
// minutely granularity for days=1.
func (c *Client) MarketChart(ctx context.Context, coinID string, days int) ([]models.RawPoint, error) {
	req := c.client.R().
		SetContext(ctx).
		SetPathParam("id", coinID).
		SetQueryParams(map[string]string{
			"vs_currency": c.vsCurrency,
			"days":        strconv.Itoa(days),
		})
	return c.chart(req, marketChartPath, fmt.Sprintf("market chart [%s]", coinID))
}

// MarketChartRange returns prices between from and to, sent as UTC unix seconds.
func (c *Client) MarketChartRange(ctx context.Context, coinID string, from, to time.Time) ([]models.RawPoint, error) {
	req := c.client.R().
		SetContext(ctx).
		SetPathParam("id", coinID).
		SetQueryParams(map[string]string{
			"vs_currency": c.vsCurrency,
			"from":        strconv.FormatInt(from.UTC().Unix(), 10),
			"to":          strconv.FormatInt(to.UTC().Unix(), 10),
		})
	return c.chart(req, marketChartRangePath, fmt.Sprintf("market chart range [%s]", coinID))
}

func (c *Client) chart(req *resty.Request, path, what string) ([]models.RawPoint, error) {
	body, err := services.Get(req, path, what)
	if err != nil {
		return nil, err
	}

	var chart models.MarketChart
	if err := services.Decode(body, &chart, what); err != nil {
		return nil, err
	}
	return chart.Prices, nil
}
