// Package sampler polls one trading pair on a fixed interval, keeps a
// rolling window of prices and redraws every chart surface after each
// sample.
package sampler

import (
	"context"
	"sync"
	"time"

	"cryptoboard/internal/chart"
	apperrors "cryptoboard/internal/errors"
	"cryptoboard/internal/logger"
	"cryptoboard/internal/models"
	"cryptoboard/internal/retry"

	"github.com/shopspring/decimal"
)

// Config controls a sampling run.
type Config struct {
	Symbol   string
	Interval time.Duration
	// MaxTicks stops the run after that many ticks. Zero runs until ctx ends.
	MaxTicks int
	Margin   decimal.Decimal
	Retry    retry.Policy
}

// Stats counts what happened during a run.
type Stats struct {
	Ticks    int
	Recorded int
	Skipped  int
	// Overruns counts ticks skipped because the previous tick was still
	// running. The next tick waits for the following interval boundary.
	Overruns  int
	LastRun   time.Time
	LastPrice decimal.Decimal
}

// Sampler owns the buffer. Ticks run one at a time on the Run goroutine.
type Sampler struct {
	cfg       Config
	source    PriceSource
	buffer    *Buffer
	renderers []chart.Renderer
	logger    logger.Interface
	now       func() time.Time

	mu    sync.RWMutex
	stats Stats
}

func New(cfg Config, source PriceSource, buffer *Buffer, log logger.Interface, renderers ...chart.Renderer) *Sampler {
	return &Sampler{
		cfg:       cfg,
		source:    source,
		buffer:    buffer,
		renderers: renderers,
		logger:    log,
		now:       time.Now,
	}
}

// Run ticks once immediately and then every Interval until MaxTicks is
// reached or ctx is done. A fatal tick error ends the run and is returned.
// Context cancellation is a normal stop.
func (s *Sampler) Run(ctx context.Context) error {
	s.logger.Info("sampler started",
		logger.NewField("symbol", s.cfg.Symbol),
		logger.NewField("interval", s.cfg.Interval.String()),
		logger.NewField("max_ticks", s.cfg.MaxTicks),
		logger.NewField("buffer_size", s.buffer.Cap()),
	)

	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	for {
		if ctx.Err() != nil {
			return s.stopped()
		}
		started := time.Now()
		if err := s.Tick(ctx); err != nil {
			if ctx.Err() != nil {
				return s.stopped()
			}
			s.logger.Error(err, logger.NewField("symbol", s.cfg.Symbol))
			return err
		}
		if s.countOverruns(time.Since(started)) > 0 {
			// skip the tick queued while this one ran
			select {
			case <-ticker.C:
			default:
			}
		}

		if s.cfg.MaxTicks > 0 && s.Stats().Ticks >= s.cfg.MaxTicks {
			return s.stopped()
		}

		select {
		case <-ctx.Done():
			return s.stopped()
		case <-ticker.C:
		}
	}
}

func (s *Sampler) stopped() error {
	st := s.Stats()
	s.logger.Info("sampler stopped",
		logger.NewField("ticks", st.Ticks),
		logger.NewField("recorded", st.Recorded),
		logger.NewField("skipped", st.Skipped),
		logger.NewField("overruns", st.Overruns),
	)
	return nil
}

// countOverruns records the interval boundaries that passed while a tick
// ran and returns how many there were.
func (s *Sampler) countOverruns(took time.Duration) int {
	if s.cfg.Interval <= 0 || took <= s.cfg.Interval {
		return 0
	}
	missed := int(took / s.cfg.Interval)
	s.mu.Lock()
	s.stats.Overruns += missed
	s.mu.Unlock()
	s.logger.Warn("tick overran interval",
		logger.NewField("took", took.String()),
		logger.NewField("skipped", missed),
	)
	return missed
}

// Tick fetches one price, records it and redraws. A fetch that still fails
// transiently after retries skips the tick and returns nil.
func (s *Sampler) Tick(ctx context.Context) error {
	s.mu.Lock()
	s.stats.Ticks++
	s.stats.LastRun = s.now()
	s.mu.Unlock()

	ticker, err := retry.Value(ctx, s.cfg.Retry, func(ctx context.Context) (models.Ticker, error) {
		return s.source.Price(ctx, s.cfg.Symbol)
	})
	if err != nil {
		if apperrors.IsTransient(err) {
			s.mu.Lock()
			s.stats.Skipped++
			s.mu.Unlock()
			s.logger.Warn("tick skipped",
				logger.NewField("symbol", s.cfg.Symbol),
				logger.NewField("code", string(apperrors.CodeOf(err))),
				logger.NewField("error", err.Error()),
			)
			return nil
		}
		return err
	}

	sample := models.Sample{Time: s.now(), Price: ticker.Price}
	if evicted, ok := s.buffer.Record(sample); ok {
		s.logger.Debug("sample evicted", logger.NewField("at", evicted.Time.Format(chart.TimeLayout)))
	}

	s.mu.Lock()
	s.stats.Recorded++
	s.stats.LastPrice = ticker.Price
	s.mu.Unlock()

	s.redraw(ctx)
	return nil
}

func (s *Sampler) redraw(ctx context.Context) {
	frame := chart.NewFrame(s.cfg.Symbol, s.buffer.Samples(), s.cfg.Margin)
	for _, r := range s.renderers {
		if err := r.Render(ctx, frame); err != nil {
			s.logger.Error(err, logger.NewField("symbol", s.cfg.Symbol))
		}
	}
}

// Stats returns a snapshot of the run counters.
func (s *Sampler) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stats
}

func (s *Sampler) Buffer() *Buffer {
	return s.buffer
}
