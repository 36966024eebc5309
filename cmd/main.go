package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sekka-transit/sekka/internal/adapters/http/api"
	"github.com/sekka-transit/sekka/internal/adapters/repository"
	"github.com/sekka-transit/sekka/internal/app"
	"github.com/sekka-transit/sekka/internal/config"
	"github.com/sekka-transit/sekka/internal/domain/features"
	"github.com/sekka-transit/sekka/pkg/logger"
)

// HTTP server timeout constants.
const (
	readTimeout       = 10 * time.Second
	writeTimeout      = 30 * time.Second
	idleTimeout       = 60 * time.Second
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 30 * time.Second
)

func main() {
	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	log := logger.Get()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	calendar, err := features.NewHolidayCalendar(cfg.HolidayCountry)
	if err != nil {
		// Holiday derivation fails safe to 0 without a calendar.
		log.Warn(ctx, "holiday calendar unavailable", logger.String("country", cfg.HolidayCountry), logger.Error(err))
		calendar = nil
	}

	store := repository.NewCachedStore(
		repository.NewFileStore(cfg.ModelsDir),
		repository.WithCacheSize(cfg.ModelCacheSize),
	)
	svc := app.New(
		store,
		features.NewDeriver(calendar),
		app.WithHolidayCalendar(calendar),
		app.WithMaxFutureHours(cfg.MaxFutureHours),
		app.WithCalibration(app.Calibration{Factor: cfg.CalibrationFactor, Min: cfg.YMin, Max: cfg.YMax}),
		app.WithLogger(log.Named("forecast")),
	)

	mux := http.NewServeMux()
	api.NewServer(svc).Register(ctx, mux)

	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		log.Info(ctx, "forecast API listening",
			logger.String("addr", cfg.Addr),
			logger.String("models_dir", cfg.ModelsDir),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error(ctx, "http server failed", logger.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	log.Info(ctx, "shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error(shutdownCtx, "shutdown failed", logger.Error(err))
	}
}
