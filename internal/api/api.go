package api

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"cryptoboard/internal/chart"
	"cryptoboard/internal/dashboard"
	apperrors "cryptoboard/internal/errors"
	"cryptoboard/internal/logger"
	"cryptoboard/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type APIHandler struct {
	catalog *dashboard.Catalog
	history *dashboard.History
	logger  logger.Interface
}

func NewHandler(catalog *dashboard.Catalog, history *dashboard.History, log logger.Interface) *APIHandler {
	return &APIHandler{
		catalog: catalog,
		history: history,
		logger:  log,
	}
}

func SetupRoutes(r *gin.RouterGroup, handler *APIHandler) {
	coins := r.Group("/coins")
	{
		coins.GET("", handler.ListCoins)
		coins.GET("/:id/minutely", handler.GetMinutely)
		coins.GET("/:id/weekly", handler.GetWeekly)
		coins.GET("/:id/export", handler.ExportWorkbook)
	}
}

// ListCoins returns every select box label with its coin id.
// GET /api/v1/coins
func (h *APIHandler) ListCoins(c *gin.Context) {
	labels := h.catalog.Labels()
	ids := h.catalog.Map()
	out := make([]gin.H, len(labels))
	for i, label := range labels {
		out[i] = gin.H{"label": label, "id": ids[label]}
	}
	c.JSON(http.StatusOK, gin.H{"code": 200, "msg": "ok", "total": len(out), "data": out})
}

// GetMinutely returns the last 24 hours of minutely prices, with an
// optional moving average over `ma` points.
// GET /api/v1/coins/bitcoin/minutely?ma=60
func (h *APIHandler) GetMinutely(c *gin.Context) {
	coinID, label, ok := h.coin(c)
	if !ok {
		return
	}
	window, ok := h.window(c)
	if !ok {
		return
	}
	series, err := h.history.QueryMinutely(c.Request.Context(), coinID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, seriesResponse(coinID, minutelyTitle(label), series, window))
}

// GetWeekly returns prices for the last `days` days, 7 by default.
// GET /api/v1/coins/bitcoin/weekly?days=7&ma=24
func (h *APIHandler) GetWeekly(c *gin.Context) {
	coinID, label, ok := h.coin(c)
	if !ok {
		return
	}
	days, ok := h.days(c)
	if !ok {
		return
	}
	window, ok := h.window(c)
	if !ok {
		return
	}
	series, err := h.history.QueryDays(c.Request.Context(), coinID, days)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, seriesResponse(coinID, rangeTitle(label, days), series, window))
}

// ExportWorkbook returns both series as an xlsx file with one chart per sheet.
// GET /api/v1/coins/bitcoin/export?days=7
func (h *APIHandler) ExportWorkbook(c *gin.Context) {
	coinID, label, ok := h.coin(c)
	if !ok {
		return
	}
	days, ok := h.days(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	minutely, weekly, err := h.bothSeries(ctx, coinID, days)
	if err != nil {
		h.respondError(c, err)
		return
	}

	f, err := chart.BuildWorkbook(
		chart.Sheet{Name: "24h", Frame: chart.NewFrame(minutelyTitle(label), minutely, decimal.Zero)},
		chart.Sheet{Name: fmt.Sprintf("%dd", days), Frame: chart.NewFrame(rangeTitle(label, days), weekly, decimal.Zero)},
	)
	if err != nil {
		h.respondError(c, err)
		return
	}
	defer f.Close()

	c.Header("Content-Type", xlsxContentType)
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.xlsx"`, coinID))
	c.Status(http.StatusOK)
	if err := f.Write(c.Writer); err != nil {
		h.logger.ErrorContext(ctx, apperrors.Fatal(apperrors.RenderError, "failed to stream workbook", err))
	}
}

func (h *APIHandler) bothSeries(ctx context.Context, coinID string, days int) ([]models.Sample, []models.Sample, error) {
	minutely, err := h.history.QueryMinutely(ctx, coinID)
	if err != nil {
		return nil, nil, err
	}
	weekly, err := h.history.QueryDays(ctx, coinID, days)
	if err != nil {
		return nil, nil, err
	}
	return minutely, weekly, nil
}

func (h *APIHandler) coin(c *gin.Context) (string, string, bool) {
	coinID := strings.TrimSpace(c.Param("id"))
	label, err := h.catalog.LabelOf(coinID)
	if err != nil {
		h.respondError(c, err)
		return "", "", false
	}
	return coinID, label, true
}

func (h *APIHandler) days(c *gin.Context) (int, bool) {
	raw := c.Query("days")
	if raw == "" {
		return h.history.Days(), true
	}
	days, err := strconv.Atoi(raw)
	if err != nil || days <= 0 {
		h.respondError(c, apperrors.New(apperrors.InvalidRequest, apperrors.KindFatal, "days must be a positive integer"))
		return 0, false
	}
	return days, true
}

func (h *APIHandler) window(c *gin.Context) (int, bool) {
	window, err := parseWindow(c.Query("ma"))
	if err != nil {
		h.respondError(c, err)
		return 0, false
	}
	return window, true
}

// parseWindow reads the optional moving average window. Empty means none.
func parseWindow(raw string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	window, err := strconv.Atoi(raw)
	if err != nil || window < 0 {
		return 0, apperrors.New(apperrors.InvalidRequest, apperrors.KindFatal, "ma must be a non-negative integer")
	}
	return window, nil
}

func (h *APIHandler) respondError(c *gin.Context, err error) {
	status := statusOf(err)
	if status >= http.StatusInternalServerError {
		h.logger.ErrorContext(c.Request.Context(), err, logger.NewField("path", c.Request.URL.Path))
	}
	c.JSON(status, gin.H{
		"code":  status,
		"error": apperrors.MessageOf(err),
		"kind":  string(apperrors.KindOf(err)),
	})
}

// statusOf maps an error to the status the dashboard answers with.
func statusOf(err error) int {
	switch apperrors.CodeOf(err) {
	case apperrors.UnknownCoin, apperrors.EmptySeries:
		return http.StatusNotFound
	case apperrors.InvalidRequest:
		return http.StatusBadRequest
	case apperrors.UpstreamRateLimited:
		return http.StatusServiceUnavailable
	case apperrors.UpstreamUnavailable, apperrors.UpstreamRejected, apperrors.MalformedPayload:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func minutelyTitle(label string) string {
	return fmt.Sprintf("LAST 24 HOURS MINUTELY PRICE CHART FOR %s", label)
}

func rangeTitle(label string, days int) string {
	if days == 7 {
		return fmt.Sprintf("LAST WEEK'S PRICE CHART FOR %s", label)
	}
	return fmt.Sprintf("LAST %d DAYS PRICE CHART FOR %s", days, label)
}

func seriesResponse(coinID, title string, series []models.Sample, window int) gin.H {
	data := gin.H{
		"coin":   coinID,
		"title":  title,
		"total":  len(series),
		"points": series,
	}
	if window > 0 {
		data["ma"] = window
		data["moving_average"] = chart.MovingAverage(series, window)
	}
	return gin.H{"code": 200, "msg": "ok", "data": data}
}
