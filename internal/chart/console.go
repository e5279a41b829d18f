package chart

import (
	"context"

	"cryptoboard/internal/logger"
)

// Console writes the latest price and the axis window to the log.
type Console struct {
	logger logger.Interface
}

func NewConsole(log logger.Interface) *Console {
	return &Console{logger: log}
}

func (c *Console) Render(_ context.Context, frame Frame) error {
	last, ok := frame.Last()
	if !ok {
		c.logger.Info("no samples yet", logger.NewField("title", frame.Title))
		return nil
	}
	c.logger.Info("price",
		logger.NewField("title", frame.Title),
		logger.NewField("price", last.Price.String()),
		logger.NewField("at", last.Time.Format(TimeLayout)),
		logger.NewField("samples", len(frame.Samples)),
		logger.NewField("y_min", frame.YMin.String()),
		logger.NewField("y_max", frame.YMax.String()),
	)
	return nil
}
