package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cryptoboard/internal/api"
	"cryptoboard/internal/config"
	"cryptoboard/internal/dashboard"
	"cryptoboard/internal/logger"
	"cryptoboard/internal/retry"
	"cryptoboard/internal/services/coingecko"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
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
	}
	_ = log.Sync()
	if err != nil {
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *logger.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.CoinGecko.APIKey != "" {
		log.Info("coingecko demo key configured", logger.NewField("key", config.MaskSecret(cfg.CoinGecko.APIKey)))
	}
	market := coingecko.NewClient(cfg.CoinGecko)

	catalog, err := dashboard.BuildCatalog(ctx, market, retry.Policy{
		MaxRetries: cfg.Dashboard.CatalogRetries,
		Backoff:    cfg.Dashboard.CatalogBackoff,
	}, log)
	if err != nil {
		return err
	}

	if cfg.App.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	handler := api.NewHandler(catalog, dashboard.NewHistory(market, cfg.Dashboard.HistoryDays), log)
	srv := &http.Server{
		Addr:              ":" + cfg.Dashboard.Port,
		Handler:           api.NewRouter(handler, log),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("dashboard listening", logger.NewField("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
