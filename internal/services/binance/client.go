package binance

import (
	"context"
	"fmt"

	"cryptoboard/internal/config"
	apperrors "cryptoboard/internal/errors"
	"cryptoboard/internal/models"
	"cryptoboard/internal/services"

	"github.com/go-resty/resty/v2"
)

const tickerPricePath = "/api/v3/ticker/price"

// Client reads spot prices from the Binance REST API.
type Client struct {
	client *resty.Client
}

// NewClient builds a Client. The API key is passed through as X-MBX-APIKEY.
func NewClient(cfg config.BinanceConfig, creds *config.Credentials) *Client {
	client := services.NewRestClient(cfg.BaseURL, cfg.Timeout)
	if creds != nil && creds.APIKey != "" {
		client.SetHeader("X-MBX-APIKEY", creds.APIKey)
	}
	return &Client{client: client}
}

// Price returns the current ticker price for symbol, e.g. BTCBUSD.
func (c *Client) Price(ctx context.Context, symbol string) (models.Ticker, error) {
	what := fmt.Sprintf("ticker [%s]", symbol)

	req := c.client.R().
		SetContext(ctx).
		SetQueryParam("symbol", symbol)
	body, err := services.Get(req, tickerPricePath, what)
	if err != nil {
		return models.Ticker{}, err
	}

	var ticker models.Ticker
	if err := services.Decode(body, &ticker, what); err != nil {
		return models.Ticker{}, err
	}
	if ticker.Symbol == "" || !ticker.Price.IsPositive() {
		return models.Ticker{}, apperrors.New(apperrors.MalformedPayload, apperrors.KindFatal,
			fmt.Sprintf("%s: invalid price format, received data: %s", what, string(body)))
	}
	return ticker, nil
}
