package dashboard

import (
	"context"
	"fmt"
	"time"

	apperrors "cryptoboard/internal/errors"
	"cryptoboard/internal/models"
	"cryptoboard/internal/retry"
)

// History runs the two dashboard queries. Every call goes upstream once;
// nothing is cached and a failure is reported to the page as is.
type History struct {
	source MarketData
	retry  retry.Policy
	days   int
	now    func() time.Time
}

// NewHistory returns a History whose week query spans the last days days.
func NewHistory(source MarketData, days int) *History {
	return &History{source: source, retry: retry.None, days: days, now: time.Now}
}

func (h *History) Days() int {
	return h.days
}

// QueryMinutely returns the last 24 hours at minute granularity.
func (h *History) QueryMinutely(ctx context.Context, coinID string) ([]models.Sample, error) {
	points, err := retry.Value(ctx, h.retry, func(ctx context.Context) ([]models.RawPoint, error) {
		return h.source.MarketChart(ctx, coinID, 1)
	})
	if err != nil {
		return nil, err
	}
	return curate(points, coinID)
}

// QueryRange returns samples between from and to (UTC).
func (h *History) QueryRange(ctx context.Context, coinID string, from, to time.Time) ([]models.Sample, error) {
	if !from.Before(to) {
		return nil, apperrors.New(apperrors.InvalidRequest, apperrors.KindFatal,
			fmt.Sprintf("invalid range %s - %s", from.UTC().Format(time.RFC3339), to.UTC().Format(time.RFC3339)))
	}
	points, err := retry.Value(ctx, h.retry, func(ctx context.Context) ([]models.RawPoint, error) {
		return h.source.MarketChartRange(ctx, coinID, from.UTC(), to.UTC())
	})
	if err != nil {
		return nil, err
	}
	return curate(points, coinID)
}

// QueryDays returns the last days days ending now. Zero or less uses the
// configured default.
func (h *History) QueryDays(ctx context.Context, coinID string, days int) ([]models.Sample, error) {
	if days <= 0 {
		days = h.days
	}
	to := h.now().UTC()
	return h.QueryRange(ctx, coinID, to.AddDate(0, 0, -days), to)
}

func curate(points []models.RawPoint, coinID string) ([]models.Sample, error) {
	series, err := CurateSeries(points)
	if err != nil {
		return nil, apperrors.New(apperrors.CodeOf(err), apperrors.KindOf(err), fmt.Sprintf("%s: %s", coinID, apperrors.MessageOf(err)))
	}
	return series, nil
}

// CurateSeries turns [epoch_ms, price] pairs into samples in UTC. Prices
// are kept exactly as received.
func CurateSeries(points []models.RawPoint) ([]models.Sample, error) {
	if len(points) == 0 {
		return nil, apperrors.New(apperrors.EmptySeries, apperrors.KindFatal, "empty price series")
	}

	series := make([]models.Sample, 0, len(points))
	for i, p := range points {
		if len(p) < 2 {
			return nil, apperrors.New(apperrors.MalformedPayload, apperrors.KindFatal,
				fmt.Sprintf("price point %d has %d values", i, len(p)))
		}
		series = append(series, models.Sample{
			Time:  time.UnixMilli(p[0].IntPart()).UTC(),
			Price: p[1],
		})
	}
	return series, nil
}
