// Command train runs the per-route training pipeline: it reads the
// historical congestion CSV, trains one model per route, persists the
// artifacts and writes the training report.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/sekka-transit/sekka/internal/adapters/dataset"
	"github.com/sekka-transit/sekka/internal/adapters/repository"
	"github.com/sekka-transit/sekka/internal/config"
	"github.com/sekka-transit/sekka/internal/domain/features"
	"github.com/sekka-transit/sekka/internal/domain/forecast"
	"github.com/sekka-transit/sekka/internal/training"
	"github.com/sekka-transit/sekka/pkg/logger"
)

func main() {
	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	log := logger.Get()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}

	csvPath := flag.String("csv", cfg.DataCSV, "path to the dataset CSV")
	modelsDir := flag.String("models", cfg.ModelsDir, "directory for model artifacts")
	reportPath := flag.String("report", cfg.ReportPath, "path for the training report CSV")
	workers := flag.Int("workers", cfg.TrainerWorkers, "concurrent route trainings")
	engine := flag.String("engine", cfg.ModelEngine, "fitting backend")
	flag.Parse()

	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		_ = logger.SetLevelString("info")
	}

	calendar, err := features.NewHolidayCalendar(cfg.HolidayCountry)
	if err != nil {
		log.Warn(ctx, "holiday calendar unavailable", logger.String("country", cfg.HolidayCountry), logger.Error(err))
		calendar = nil
	}

	// Schema problems are fatal before any route is processed.
	byRoute, err := dataset.Load(ctx, *csvPath)
	if err != nil {
		log.Error(ctx, "dataset load failed", logger.String("csv", *csvPath), logger.Error(err))
		os.Exit(1)
	}
	log.Info(ctx, "dataset loaded",
		logger.String("csv", *csvPath),
		logger.Int("routes", len(byRoute)),
	)

	deriver := features.NewDeriver(calendar)
	buildOpts := func() *forecast.Options {
		return forecast.NewOptions(
			forecast.WithExtraSeasonality("daily_fine", forecast.HoursPerDay, cfg.DailyFourier),
			forecast.WithExtraSeasonality("weekly_fine", forecast.HoursPerWeek, cfg.WeeklyFourier),
			forecast.WithChangepointPriorScale(cfg.ChangepointPriorScale),
			forecast.WithSeasonalityPriorScale(cfg.SeasonalityPriorScale),
			forecast.WithCountryHolidays(calendar),
		)
	}
	trainer := training.NewTrainer(
		repository.NewFileStore(*modelsDir),
		deriver,
		training.WithEngine(*engine),
		training.WithModelOptions(buildOpts),
		training.WithTestDays(cfg.TestDays),
		training.WithBounds(cfg.YMin, cfg.YMax),
	)

	rows := training.NewRunner(trainer, *workers).Run(ctx, byRoute)

	if err := dataset.WriteReport(*reportPath, rows); err != nil {
		log.Error(ctx, "report write failed", logger.String("report", *reportPath), logger.Error(err))
		os.Exit(1)
	}

	failed := 0
	for _, row := range rows {
		if row.Failed() {
			failed++
		}
	}
	log.Info(ctx, "training report written",
		logger.String("report", *reportPath),
		logger.Int("routes", len(rows)),
		logger.Int("failed", failed),
	)
}
