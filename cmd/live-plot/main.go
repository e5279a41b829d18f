package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cryptoboard/internal/api"
	"cryptoboard/internal/chart"
	"cryptoboard/internal/config"
	apperrors "cryptoboard/internal/errors"
	"cryptoboard/internal/logger"
	"cryptoboard/internal/retry"
	"cryptoboard/internal/sampler"
	"cryptoboard/internal/services/binance"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	flags := flag.NewFlagSet("live-plot", flag.ExitOnError)
	flags.StringVar(&cfg.Sampler.Symbol, "symbol", cfg.Sampler.Symbol, "trading pair to sample")
	flags.DurationVar(&cfg.Sampler.Interval, "interval", cfg.Sampler.Interval, "time between samples")
	flags.IntVar(&cfg.Sampler.MaxTicks, "ticks", cfg.Sampler.MaxTicks, "stop after this many ticks (0 runs until interrupted)")
	flags.IntVar(&cfg.Sampler.BufferSize, "buffer", cfg.Sampler.BufferSize, "number of samples kept on the chart")
	flags.TextVar(&cfg.Sampler.Margin, "margin", cfg.Sampler.Margin, "padding above and below the price range")
	flags.StringVar(&cfg.Sampler.Listen, "listen", cfg.Sampler.Listen, "serve the live chart on this address, e.g. :8081")
	flags.StringVar(&cfg.Sampler.Workbook, "workbook", cfg.Sampler.Workbook, "rewrite this xlsx file on every tick")
	flags.StringVar(&cfg.Binance.CredentialsFile, "keys", cfg.Binance.CredentialsFile, "credential file (json or yaml)")
	_ = flags.Parse(os.Args[1:])

	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.App.Environment, cfg.App.LogLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger:", err)
		os.Exit(1)
	}

	err = run(cfg, log)
	if err != nil {
		log.Error(err)
		fmt.Fprintf(os.Stderr, "live-plot stopped: %s\n", apperrors.MessageOf(err))
	}
	_ = log.Sync()
	if err != nil {
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *logger.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	creds, err := config.LoadCredentials(cfg.Binance.CredentialsFile)
	if err != nil {
		return err
	}
	log.Info("binance credentials loaded",
		logger.NewField("file", cfg.Binance.CredentialsFile),
		logger.NewField("key", config.MaskSecret(creds.APIKey)),
	)

	sc := cfg.Sampler
	renderers := []chart.Renderer{chart.NewConsole(log)}
	if sc.Workbook != "" {
		renderers = append(renderers, chart.NewWorkbook(sc.Workbook))
		log.Info("writing chart workbook", logger.NewField("path", sc.Workbook))
	}

	var stream *chart.Stream
	if sc.Listen != "" {
		stream = chart.NewStream(log)
		defer stream.Close()
		renderers = append(renderers, stream)
	}

	s := sampler.New(sampler.Config{
		Symbol:   sc.Symbol,
		Interval: sc.Interval,
		MaxTicks: sc.MaxTicks,
		Margin:   sc.Margin,
		Retry: retry.Policy{
			MaxRetries: sc.Retries,
			Backoff:    sc.RetryBackoff,
			OnRetry: func(attempt int, err error) {
				log.Warn("price fetch failed, retrying",
					logger.NewField("attempt", attempt),
					logger.NewField("error", err.Error()),
				)
			},
		},
	}, binance.NewClient(cfg.Binance, creds), sampler.NewBuffer(sc.BufferSize), log, renderers...)

	if stream != nil {
		if cfg.App.Environment == "production" {
			gin.SetMode(gin.ReleaseMode)
		}
		srv := &http.Server{
			Addr:              sc.Listen,
			Handler:           api.NewLiveRouter(api.NewLiveHandler(sc.Symbol, s, stream), log),
			ReadHeaderTimeout: 10 * time.Second,
		}
		go func() {
			log.Info("live chart listening", logger.NewField("addr", srv.Addr))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error(err)
				stop()
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	return s.Run(ctx)
}
