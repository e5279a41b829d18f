package api

import (
	"net/http"

	"cryptoboard/internal/chart"
	"cryptoboard/internal/sampler"

	"github.com/gin-gonic/gin"
)

// LiveHandler serves the live-plot page and a snapshot of the rolling buffer.
type LiveHandler struct {
	symbol  string
	sampler *sampler.Sampler
	stream  *chart.Stream
}

func NewLiveHandler(symbol string, s *sampler.Sampler, stream *chart.Stream) *LiveHandler {
	return &LiveHandler{symbol: symbol, sampler: s, stream: stream}
}

// Page renders the chart that redraws on every websocket frame.
// GET /
func (h *LiveHandler) Page(c *gin.Context) {
	c.HTML(http.StatusOK, "live.html", gin.H{"Symbol": h.symbol})
}

// Samples returns the buffer contents and run counters.
// GET /api/v1/live/samples
func (h *LiveHandler) Samples(c *gin.Context) {
	samples := h.sampler.Buffer().Samples()
	stats := h.sampler.Stats()
	c.JSON(http.StatusOK, gin.H{
		"code": 200,
		"msg":  "ok",
		"data": gin.H{
			"symbol":  h.symbol,
			"total":   len(samples),
			"samples": samples,
			"stats": gin.H{
				"ticks":      stats.Ticks,
				"recorded":   stats.Recorded,
				"skipped":    stats.Skipped,
				"overruns":   stats.Overruns,
				"last_run":   stats.LastRun,
				"last_price": stats.LastPrice,
				"viewers":    h.stream.Viewers(),
			},
		},
	})
}
