package chart

import (
	"cryptoboard/internal/models"

	"github.com/shopspring/decimal"
)

// MovingAverage returns the simple moving average of prices over window
// samples. Entries before the window fills are invalid, as are all of them
// when window is out of range.
func MovingAverage(samples []models.Sample, window int) []decimal.NullDecimal {
	out := make([]decimal.NullDecimal, len(samples))
	if window <= 0 || window > len(samples) {
		return out
	}

	n := decimal.NewFromInt(int64(window))
	sum := decimal.Zero
	for i, s := range samples {
		sum = sum.Add(s.Price)
		if i >= window {
			sum = sum.Sub(samples[i-window].Price)
		}
		if i >= window-1 {
			out[i] = decimal.NewNullDecimal(sum.Div(n))
		}
	}
	return out
}
