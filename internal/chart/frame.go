// Package chart turns price samples into frames and draws them on
// render surfaces (console, xlsx workbook, websocket stream).
package chart

import (
	"context"
	"time"

	"cryptoboard/internal/models"

	"github.com/shopspring/decimal"
)

// TimeLayout is the x axis label format.
const TimeLayout = "2006-01-02 15:04:05"

// Renderer is a chart surface. Render must replace whatever the surface
// showed before; frames are never drawn on top of each other.
type Renderer interface {
	Render(ctx context.Context, frame Frame) error
}

// Frame is everything a surface needs to draw one chart.
type Frame struct {
	Title   string
	Samples []models.Sample
	XMin    time.Time
	XMax    time.Time
	YMin    decimal.Decimal
	YMax    decimal.Decimal
}

// NewFrame computes axis ranges for samples. The y axis spans
// [min(price)-margin, max(price)+margin]; the x axis spans the first and
// last timestamps.
func NewFrame(title string, samples []models.Sample, margin decimal.Decimal) Frame {
	f := Frame{Title: title, Samples: samples}
	if len(samples) == 0 {
		return f
	}
	f.XMin = samples[0].Time
	f.XMax = samples[len(samples)-1].Time
	f.YMin, f.YMax = YRange(samples, margin)
	return f
}

// YRange returns the padded price range of samples. It is zero for no samples.
func YRange(samples []models.Sample, margin decimal.Decimal) (decimal.Decimal, decimal.Decimal) {
	if len(samples) == 0 {
		return decimal.Zero, decimal.Zero
	}
	lo, hi := samples[0].Price, samples[0].Price
	for _, s := range samples[1:] {
		if s.Price.LessThan(lo) {
			lo = s.Price
		}
		if s.Price.GreaterThan(hi) {
			hi = s.Price
		}
	}
	return lo.Sub(margin), hi.Add(margin)
}

// Empty reports whether the frame has nothing to plot.
func (f Frame) Empty() bool {
	return len(f.Samples) == 0
}

// Last returns the most recent sample.
func (f Frame) Last() (models.Sample, bool) {
	if f.Empty() {
		return models.Sample{}, false
	}
	return f.Samples[len(f.Samples)-1], true
}

// wireFrame is the JSON shape pushed to browsers; prices become numbers
// because the page plots them directly.
type wireFrame struct {
	Title  string    `json:"title"`
	Labels []string  `json:"labels"`
	Prices []float64 `json:"prices"`
	YMin   float64   `json:"y_min"`
	YMax   float64   `json:"y_max"`
	XRange [2]string `json:"x_range"`
}

func (f Frame) wire() wireFrame {
	w := wireFrame{
		Title:  f.Title,
		Labels: make([]string, len(f.Samples)),
		Prices: make([]float64, len(f.Samples)),
		YMin:   f.YMin.InexactFloat64(),
		YMax:   f.YMax.InexactFloat64(),
	}
	for i, s := range f.Samples {
		w.Labels[i] = s.Time.Format(TimeLayout)
		w.Prices[i] = s.Price.InexactFloat64()
	}
	if !f.Empty() {
		w.XRange = [2]string{f.XMin.Format(TimeLayout), f.XMax.Format(TimeLayout)}
	}
	return w
}
