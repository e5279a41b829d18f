package api

import (
	"context"
	"net/http"

	"cryptoboard/internal/chart"
	apperrors "cryptoboard/internal/errors"
	"cryptoboard/internal/logger"
	"cryptoboard/internal/models"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
)

type seriesView struct {
	Title   string     `json:"title"`
	Labels  []string   `json:"labels"`
	Prices  []float64  `json:"prices"`
	Average []*float64 `json:"average,omitempty"`
	Error   string     `json:"error,omitempty"`
}

type pageView struct {
	Coins    []string
	Selected string
	CoinID   string
	Days     int
	MA       int
	Minutely seriesView
	Weekly   seriesView
	Error    string
}

// Index renders the dashboard for the coin picked in the select box. Both
// series are queried on every request.
// GET /?coin=btc+[bitcoin]&ma=60
func (h *APIHandler) Index(c *gin.Context) {
	labels := h.catalog.Labels()
	view := pageView{Coins: labels, Days: h.history.Days()}

	view.Selected = c.Query("coin")
	if view.Selected == "" && len(labels) > 0 {
		view.Selected = labels[0]
	}

	coinID, err := h.catalog.Lookup(view.Selected)
	if err != nil {
		view.Error = apperrors.MessageOf(err)
		c.HTML(statusOf(err), "dashboard.html", view)
		return
	}
	view.CoinID = coinID

	if view.MA, err = parseWindow(c.Query("ma")); err != nil {
		view.Error = apperrors.MessageOf(err)
		c.HTML(statusOf(err), "dashboard.html", view)
		return
	}

	ctx := c.Request.Context()
	var g errgroup.Group
	g.Go(func() error {
		view.Minutely = h.seriesView(ctx, minutelyTitle(view.Selected), view.MA, func(ctx context.Context) ([]models.Sample, error) {
			return h.history.QueryMinutely(ctx, coinID)
		})
		return nil
	})
	g.Go(func() error {
		view.Weekly = h.seriesView(ctx, rangeTitle(view.Selected, view.Days), view.MA, func(ctx context.Context) ([]models.Sample, error) {
			return h.history.QueryDays(ctx, coinID, view.Days)
		})
		return nil
	})
	_ = g.Wait()

	c.HTML(http.StatusOK, "dashboard.html", view)
}

// seriesView runs one query. A failure becomes a message on the page.
func (h *APIHandler) seriesView(ctx context.Context, title string, window int, query func(ctx context.Context) ([]models.Sample, error)) seriesView {
	view := seriesView{Title: title}
	series, err := query(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "series unavailable",
			logger.NewField("title", title),
			logger.NewField("code", string(apperrors.CodeOf(err))),
			logger.NewField("error", err.Error()),
		)
		view.Error = apperrors.MessageOf(err)
		return view
	}

	view.Labels = make([]string, len(series))
	view.Prices = make([]float64, len(series))
	for i, s := range series {
		view.Labels[i] = s.Time.Format(chart.TimeLayout)
		view.Prices[i] = s.Price.InexactFloat64()
	}
	if window > 0 {
		for _, v := range chart.MovingAverage(series, window) {
			if !v.Valid {
				view.Average = append(view.Average, nil)
				continue
			}
			f := v.Decimal.InexactFloat64()
			view.Average = append(view.Average, &f)
		}
	}
	return view
}
