package coingecko

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"cryptoboard/internal/config"
	apperrors "cryptoboard/internal/errors"
	"cryptoboard/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, apiKey string, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return NewClient(config.CoinGeckoConfig{
		BaseURL:    srv.URL,
		APIKey:     apiKey,
		VsCurrency: "usd",
		Timeout:    2 * time.Second,
	})
}

func TestClient_CoinsList(t *testing.T) {
	client := newTestClient(t, "demo-key", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/coins/list", r.URL.Path)
		assert.Equal(t, "demo-key", r.Header.Get("x-cg-demo-api-key"))
		_, _ = w.Write([]byte(`[{"id":"bitcoin","symbol":"btc","name":"Bitcoin"},{"id":"ethereum","symbol":"eth","name":"Ethereum"}]`))
	})

	coins, err := client.CoinsList(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []models.Coin{
		{ID: "bitcoin", Symbol: "btc", Name: "Bitcoin"},
		{ID: "ethereum", Symbol: "eth", Name: "Ethereum"},
	}, coins)
}

func TestClient_MarketChart(t *testing.T) {
	client := newTestClient(t, "", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/coins/bitcoin/market_chart", r.URL.Path)
		assert.Equal(t, "usd", r.URL.Query().Get("vs_currency"))
		assert.Equal(t, "1", r.URL.Query().Get("days"))
		assert.Empty(t, r.Header.Get("x-cg-demo-api-key"))
		_, _ = w.Write([]byte(`{"prices":[[1700000000000,100.5],[1700000060000,101.0]],"market_caps":[],"total_volumes":[]}`))
	})

	points, err := client.MarketChart(context.Background(), "bitcoin", 1)
	require.NoError(t, err)
	require.Len(t, points, 2)
	assert.Equal(t, int64(1700000000000), points[0][0].IntPart())
	assert.Equal(t, "100.5", points[0][1].String())
}

func TestClient_MarketChartRange(t *testing.T) {
	from := time.Date(2023, 11, 7, 0, 0, 0, 0, time.UTC)
	to := from.Add(7 * 24 * time.Hour)

	client := newTestClient(t, "", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/coins/bitcoin/market_chart/range", r.URL.Path)
		assert.Equal(t, "1699315200", r.URL.Query().Get("from"))
		assert.Equal(t, "1699920000", r.URL.Query().Get("to"))
		_, _ = w.Write([]byte(`{"prices":[[1699315200000,35000.1]]}`))
	})

	points, err := client.MarketChartRange(context.Background(), "bitcoin", from, to)
	require.NoError(t, err)
	require.Len(t, points, 1)
	assert.Equal(t, "35000.1", points[0][1].String())
}

func TestClient_Errors(t *testing.T) {
	t.Run("unknown coin", func(t *testing.T) {
		client := newTestClient(t, "", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"error":"coin not found"}`))
		})
		_, err := client.MarketChart(context.Background(), "nope", 1)
		assert.Equal(t, apperrors.UpstreamRejected, apperrors.CodeOf(err))
		assert.True(t, apperrors.IsFatal(err))
	})

	t.Run("rate limited", func(t *testing.T) {
		client := newTestClient(t, "", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
		})
		_, err := client.CoinsList(context.Background())
		assert.True(t, apperrors.IsTransient(err))
	})

	t.Run("malformed", func(t *testing.T) {
		client := newTestClient(t, "", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"prices":"soon"}`))
		})
		_, err := client.MarketChart(context.Background(), "bitcoin", 1)
		assert.Equal(t, apperrors.MalformedPayload, apperrors.CodeOf(err))
	})
}
