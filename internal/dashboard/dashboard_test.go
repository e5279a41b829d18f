package dashboard

import (
	"context"
	"testing"
	"time"

	dashboard_mock "cryptoboard/internal/dashboard/mock"
	apperrors "cryptoboard/internal/errors"
	"cryptoboard/internal/logger"
	"cryptoboard/internal/models"
	"cryptoboard/internal/retry"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func point(ms int64, price string) models.RawPoint {
	return models.RawPoint{decimal.NewFromInt(ms), decimal.RequireFromString(price)}
}

func TestLabel(t *testing.T) {
	assert.Equal(t, "btc [bitcoin]", Label(models.Coin{ID: "bitcoin", Symbol: "btc", Name: "Bitcoin"}))
}

func TestNewCatalog(t *testing.T) {
	c := NewCatalog([]models.Coin{
		{ID: "ethereum", Symbol: "eth", Name: "Ethereum"},
		{ID: "bitcoin", Symbol: "btc", Name: "Bitcoin"},
		{ID: "", Symbol: "nil", Name: "Broken"},
	})

	assert.Equal(t, map[string]string{
		"btc [bitcoin]":  "bitcoin",
		"eth [ethereum]": "ethereum",
	}, c.Map())
	// upstream order is kept so the first listed coin is the default
	assert.Equal(t, []string{"eth [ethereum]", "btc [bitcoin]"}, c.Labels())
	label, err := c.LabelOf("bitcoin")
	require.NoError(t, err)
	assert.Equal(t, "btc [bitcoin]", label)
	_, err = c.LabelOf("dogecoin")
	assert.Equal(t, apperrors.UnknownCoin, apperrors.CodeOf(err))

	id, err := c.Lookup("eth [ethereum]")
	require.NoError(t, err)
	assert.Equal(t, "ethereum", id)

	_, err = c.Lookup("doge [dogecoin]")
	require.Error(t, err)
	assert.Equal(t, apperrors.UnknownCoin, apperrors.CodeOf(err))
}

func TestBuildCatalog(t *testing.T) {
	unavailable := apperrors.Transient(apperrors.UpstreamUnavailable, "coins list request failed", nil)

	testCases := []struct {
		name     string
		mockFn   func(m *dashboard_mock.MockMarketData)
		assertFn func(t *testing.T, c *Catalog, err error)
	}{
		{
			name: "success",
			mockFn: func(m *dashboard_mock.MockMarketData) {
				m.EXPECT().CoinsList(gomock.Any()).Return([]models.Coin{{ID: "bitcoin", Symbol: "btc"}}, nil)
			},
			assertFn: func(t *testing.T, c *Catalog, err error) {
				require.NoError(t, err)
				assert.Equal(t, map[string]string{"btc [bitcoin]": "bitcoin"}, c.Map())
			},
		},
		{
			name: "transient failure retried once",
			mockFn: func(m *dashboard_mock.MockMarketData) {
				gomock.InOrder(
					m.EXPECT().CoinsList(gomock.Any()).Return(nil, unavailable),
					m.EXPECT().CoinsList(gomock.Any()).Return([]models.Coin{{ID: "bitcoin", Symbol: "btc"}}, nil),
				)
			},
			assertFn: func(t *testing.T, c *Catalog, err error) {
				require.NoError(t, err)
				assert.Equal(t, 1, c.Len())
			},
		},
		{
			name: "retry budget spent",
			mockFn: func(m *dashboard_mock.MockMarketData) {
				m.EXPECT().CoinsList(gomock.Any()).Return(nil, unavailable).Times(2)
			},
			assertFn: func(t *testing.T, c *Catalog, err error) {
				require.Error(t, err)
				assert.Nil(t, c)
				assert.True(t, apperrors.IsTransient(err))
			},
		},
		{
			name: "fatal failure not retried",
			mockFn: func(m *dashboard_mock.MockMarketData) {
				m.EXPECT().CoinsList(gomock.Any()).
					Return(nil, apperrors.Fatal(apperrors.MalformedPayload, "coins list: invalid payload", nil))
			},
			assertFn: func(t *testing.T, c *Catalog, err error) {
				require.Error(t, err)
				assert.Equal(t, apperrors.MalformedPayload, apperrors.CodeOf(err))
			},
		},
		{
			name: "empty list",
			mockFn: func(m *dashboard_mock.MockMarketData) {
				m.EXPECT().CoinsList(gomock.Any()).Return([]models.Coin{}, nil)
			},
			assertFn: func(t *testing.T, c *Catalog, err error) {
				require.Error(t, err)
				assert.True(t, apperrors.IsFatal(err))
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			source := dashboard_mock.NewMockMarketData(ctrl)
			tc.mockFn(source)

			c, err := BuildCatalog(context.Background(), source, retry.Policy{MaxRetries: 1}, logger.NewNop())
			tc.assertFn(t, c, err)
		})
	}
}

func TestCurateSeries(t *testing.T) {
	series, err := CurateSeries([]models.RawPoint{
		point(1700000000000, "100.5"),
		point(1700000060000, "101.0"),
	})
	require.NoError(t, err)
	require.Len(t, series, 2)

	assert.Equal(t, time.Date(2023, 11, 14, 22, 13, 20, 0, time.UTC), series[0].Time)
	assert.Equal(t, time.Date(2023, 11, 14, 22, 14, 20, 0, time.UTC), series[1].Time)
	assert.Equal(t, "100.5", series[0].Price.String())
	assert.True(t, decimal.NewFromInt(101).Equal(series[1].Price))

	_, err = CurateSeries(nil)
	assert.Equal(t, apperrors.EmptySeries, apperrors.CodeOf(err))
	assert.True(t, apperrors.IsFatal(err))

	_, err = CurateSeries([]models.RawPoint{{decimal.NewFromInt(1)}})
	assert.Equal(t, apperrors.MalformedPayload, apperrors.CodeOf(err))
}

func TestHistory(t *testing.T) {
	now := time.Date(2023, 11, 14, 0, 0, 0, 0, time.UTC)

	testCases := []struct {
		name     string
		query    func(h *History) ([]models.Sample, error)
		mockFn   func(m *dashboard_mock.MockMarketData)
		assertFn func(t *testing.T, series []models.Sample, err error)
	}{
		{
			name: "minutely asks for one day",
			query: func(h *History) ([]models.Sample, error) {
				return h.QueryMinutely(context.Background(), "bitcoin")
			},
			mockFn: func(m *dashboard_mock.MockMarketData) {
				m.EXPECT().MarketChart(gomock.Any(), "bitcoin", 1).
					Return([]models.RawPoint{point(1700000000000, "36500.12")}, nil)
			},
			assertFn: func(t *testing.T, series []models.Sample, err error) {
				require.NoError(t, err)
				require.Len(t, series, 1)
				assert.Equal(t, "36500.12", series[0].Price.String())
			},
		},
		{
			name: "default week range",
			query: func(h *History) ([]models.Sample, error) {
				return h.QueryDays(context.Background(), "bitcoin", 0)
			},
			mockFn: func(m *dashboard_mock.MockMarketData) {
				m.EXPECT().MarketChartRange(gomock.Any(), "bitcoin", now.AddDate(0, 0, -7), now).
					Return([]models.RawPoint{point(1699315200000, "35000")}, nil)
			},
			assertFn: func(t *testing.T, series []models.Sample, err error) {
				require.NoError(t, err)
				assert.Len(t, series, 1)
			},
		},
		{
			name: "explicit days",
			query: func(h *History) ([]models.Sample, error) {
				return h.QueryDays(context.Background(), "bitcoin", 30)
			},
			mockFn: func(m *dashboard_mock.MockMarketData) {
				m.EXPECT().MarketChartRange(gomock.Any(), "bitcoin", now.AddDate(0, 0, -30), now).
					Return([]models.RawPoint{point(1699315200000, "35000")}, nil)
			},
			assertFn: func(t *testing.T, series []models.Sample, err error) {
				require.NoError(t, err)
			},
		},
		{
			name: "empty series surfaces as error",
			query: func(h *History) ([]models.Sample, error) {
				return h.QueryMinutely(context.Background(), "bitcoin")
			},
			mockFn: func(m *dashboard_mock.MockMarketData) {
				m.EXPECT().MarketChart(gomock.Any(), "bitcoin", 1).Return([]models.RawPoint{}, nil)
			},
			assertFn: func(t *testing.T, series []models.Sample, err error) {
				require.Error(t, err)
				assert.Nil(t, series)
				assert.Equal(t, apperrors.EmptySeries, apperrors.CodeOf(err))
				assert.Equal(t, "bitcoin: empty price series", apperrors.MessageOf(err))
			},
		},
		{
			name: "upstream error is not retried",
			query: func(h *History) ([]models.Sample, error) {
				return h.QueryMinutely(context.Background(), "bitcoin")
			},
			mockFn: func(m *dashboard_mock.MockMarketData) {
				m.EXPECT().MarketChart(gomock.Any(), "bitcoin", 1).
					Return(nil, apperrors.Transient(apperrors.UpstreamRateLimited, "slow down", nil)).
					Times(1)
			},
			assertFn: func(t *testing.T, series []models.Sample, err error) {
				assert.Equal(t, apperrors.UpstreamRateLimited, apperrors.CodeOf(err))
			},
		},
		{
			name: "transient range error is not retried",
			query: func(h *History) ([]models.Sample, error) {
				return h.QueryDays(context.Background(), "bitcoin", 7)
			},
			mockFn: func(m *dashboard_mock.MockMarketData) {
				m.EXPECT().MarketChartRange(gomock.Any(), "bitcoin", gomock.Any(), gomock.Any()).
					Return(nil, apperrors.Transient(apperrors.UpstreamUnavailable, "gateway timeout", nil)).
					Times(1)
			},
			assertFn: func(t *testing.T, series []models.Sample, err error) {
				assert.True(t, apperrors.IsTransient(err))
				assert.Equal(t, apperrors.UpstreamUnavailable, apperrors.CodeOf(err))
			},
		},
		{
			name: "inverted range rejected",
			query: func(h *History) ([]models.Sample, error) {
				return h.QueryRange(context.Background(), "bitcoin", now, now.Add(-time.Hour))
			},
			mockFn: func(m *dashboard_mock.MockMarketData) {},
			assertFn: func(t *testing.T, series []models.Sample, err error) {
				assert.Equal(t, apperrors.InvalidRequest, apperrors.CodeOf(err))
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			source := dashboard_mock.NewMockMarketData(ctrl)
			tc.mockFn(source)

			h := NewHistory(source, 7)
			require.Equal(t, retry.None.MaxRetries, h.retry.MaxRetries)
			h.now = func() time.Time { return now }

			series, err := tc.query(h)
			tc.assertFn(t, series, err)
		})
	}
}
