package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/sekka-transit/sekka/internal/adapters/http/api"
	"github.com/sekka-transit/sekka/internal/adapters/repository"
	"github.com/sekka-transit/sekka/internal/app"
	"github.com/sekka-transit/sekka/internal/config"
	"github.com/sekka-transit/sekka/internal/domain/features"
	"github.com/sekka-transit/sekka/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

func TestMainFunction(t *testing.T) {
	convey.Convey("Given the main application", t, func() {
		convey.Convey("When testing configuration loading", func() {
			_ = os.Setenv("SEKKA_ADDR", ":8080")
			_ = os.Setenv("SEKKA_MODELS_DIR", t.TempDir())
			defer func() {
				_ = os.Unsetenv("SEKKA_ADDR")
				_ = os.Unsetenv("SEKKA_MODELS_DIR")
			}()

			convey.Convey("Then configuration should be loadable", func() {
				ctx := context.Background()
				cfg, err := config.Load(ctx)
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
			})
		})

		convey.Convey("When wiring the service like main does", func() {
			ctx := context.Background()
			cfg := config.New()
			cfg.ModelsDir = t.TempDir()

			calendar, err := features.NewHolidayCalendar(cfg.HolidayCountry)
			convey.So(err, convey.ShouldBeNil)

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
			)

			mux := http.NewServeMux()
			api.NewServer(svc).Register(ctx, mux)

			convey.Convey("Then the registered routes respond", func() {
				rec := httptest.NewRecorder()
				mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/routes", nil))
				convey.So(rec.Code, convey.ShouldEqual, http.StatusOK)

				rec = httptest.NewRecorder()
				mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
				convey.So(rec.Code, convey.ShouldEqual, http.StatusOK)
			})

			convey.Convey("Then an unknown route 404s before any handler runs", func() {
				rec := httptest.NewRecorder()
				mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/unknown", nil))
				convey.So(rec.Code, convey.ShouldEqual, http.StatusNotFound)
			})
		})
	})
}
