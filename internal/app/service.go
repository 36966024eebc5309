// Package app provides the forecast service consumed by the HTTP API: it
// loads persisted models, builds future frames, predicts, calibrates and
// resolves date/hour windows.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/sekka-transit/sekka/internal/adapters/repository"
	"github.com/sekka-transit/sekka/internal/domain/features"
	"github.com/sekka-transit/sekka/internal/domain/forecast"
	"github.com/sekka-transit/sekka/internal/domain/status"
	"github.com/sekka-transit/sekka/internal/domain/types"
	"github.com/sekka-transit/sekka/internal/domain/window"
	"github.com/sekka-transit/sekka/pkg/logger"
	"github.com/sekka-transit/sekka/pkg/metrics"
)

// defaultMaxFutureHours caps the forecast horizon (14 days).
const defaultMaxFutureHours = 336

// Service answers forecast requests against already-persisted artifacts.
// It holds no mutable state of its own, so any number of requests may run
// concurrently.
type Service struct {
	store       repository.Store
	deriver     *features.Deriver
	calendar    features.HolidayCalendar
	calibration Calibration
	maxHours    int
	log         logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithCalibration overrides the calibration factor and bounds.
func WithCalibration(c Calibration) Option {
	return func(s *Service) {
		if c.Factor > 0 && c.Max > c.Min {
			s.calibration = c
		}
	}
}

// WithMaxFutureHours caps the requested horizon.
func WithMaxFutureHours(hours int) Option {
	return func(s *Service) {
		if hours > 0 {
			s.maxHours = hours
		}
	}
}

// WithHolidayCalendar re-attaches the national calendar to decoded models.
func WithHolidayCalendar(calendar features.HolidayCalendar) Option {
	return func(s *Service) {
		s.calendar = calendar
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(log logger.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.log = log
		}
	}
}

// New creates the forecast service over a model store.
func New(store repository.Store, deriver *features.Deriver, opts ...Option) *Service {
	s := &Service{
		store:       store,
		deriver:     deriver,
		calibration: DefaultCalibration(),
		maxHours:    defaultMaxFutureHours,
		log:         logger.Named("forecast"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// MaxFutureHours reports the configured horizon cap.
func (s *Service) MaxFutureHours() int { return s.maxHours }

// ListRoutes returns the route ids with a persisted model.
func (s *Service) ListRoutes(ctx context.Context) ([]string, error) {
	return s.store.ListRoutes(ctx)
}

func (s *Service) loadModel(ctx context.Context, routeID string) (forecast.Estimator, types.Metadata, error) {
	art, meta, err := s.store.Load(ctx, routeID)
	if err != nil {
		return nil, meta, err
	}
	model, err := forecast.DecodeEstimator(art.Engine, art.Model)
	if err != nil {
		return nil, meta, fmt.Errorf("route %s: %w", routeID, err)
	}
	if aware, ok := model.(forecast.HolidayAware); ok {
		aware.SetHolidayCalendar(s.calendar)
	}
	return model, meta, nil
}

// PredictFuture forecasts futureHours consecutive hours starting one hour
// after the model's last training observation. Every returned value is
// calibrated and clipped to the congestion bounds.
func (s *Service) PredictFuture(ctx context.Context, routeID string, futureHours int) ([]types.ForecastPoint, error) {
	start := time.Now()
	if futureHours < 1 || futureHours > s.maxHours {
		return nil, fmt.Errorf("%w: %d not in [1, %d]", ErrInvalidHorizon, futureHours, s.maxHours)
	}

	model, meta, err := s.loadModel(ctx, routeID)
	if err != nil {
		metrics.RecordPredictionError()
		return nil, err
	}

	ts, regressors := s.deriver.FutureFrame(meta.LastDS.Add(time.Hour), futureHours)
	pred, err := model.Predict(ctx, forecast.FutureFrame{TS: ts, Regressors: regressors})
	if err != nil {
		metrics.RecordPredictionError()
		return nil, fmt.Errorf("route %s: predict: %w", routeID, err)
	}

	points := make([]types.ForecastPoint, futureHours)
	for i := range points {
		points[i] = types.ForecastPoint{
			DS:        ts[i],
			Yhat:      s.calibration.Apply(pred.Yhat[i]),
			YhatLower: s.calibration.Apply(pred.YhatLower[i]),
			YhatUpper: s.calibration.Apply(pred.YhatUpper[i]),
		}
	}

	metrics.RecordPrediction(futureHours, float64(time.Since(start).Milliseconds()))
	s.log.Debug(ctx, "forecast served",
		logger.String("route_id", routeID),
		logger.Int("future_hours", futureHours),
		logger.Time("from", ts[0]),
	)
	return points, nil
}

// WindowSummary is a resolved date/hour window forecast.
type WindowSummary struct {
	RouteID string
	Window  window.Window
	Points  []types.ForecastPoint
	Average float64
	Status  status.Status
}

// WindowForecast forecasts the inclusive [date+startHour, date+endHour]
// window. It returns window.ErrNothingToForecast without touching the
// model when the window ends at or before the last training observation,
// and window.ErrEmptyWindow when no forecast point lands inside it.
func (s *Service) WindowForecast(ctx context.Context, routeID string, date time.Time, startHour, endHour int) (WindowSummary, error) {
	var summary WindowSummary
	summary.RouteID = routeID

	_, meta, err := s.store.Load(ctx, routeID)
	if err != nil {
		return summary, err
	}

	w, err := window.Resolve(meta.LastDS, date, startHour, endHour)
	if err != nil {
		return summary, err
	}
	summary.Window = w
	if w.HoursNeeded > s.maxHours {
		return summary, fmt.Errorf("%w: window needs %d hours, cap is %d", ErrInvalidHorizon, w.HoursNeeded, s.maxHours)
	}

	points, err := s.PredictFuture(ctx, routeID, w.HoursNeeded)
	if err != nil {
		return summary, err
	}

	summary.Points = window.Filter(points, w)
	if len(summary.Points) == 0 {
		return summary, window.ErrEmptyWindow
	}
	summary.Average = window.MeanLevel(summary.Points)
	summary.Status = status.Interpret(summary.Average)
	return summary, nil
}
