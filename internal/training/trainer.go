// Package training fits, evaluates and persists one model per route, and
// drives whole-dataset batch runs.
package training

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/sekka-transit/sekka/internal/adapters/repository"
	"github.com/sekka-transit/sekka/internal/domain/features"
	"github.com/sekka-transit/sekka/internal/domain/forecast"
	"github.com/sekka-transit/sekka/internal/domain/types"
	"github.com/sekka-transit/sekka/pkg/logger"
)

// hoursPerDay converts the holdout length to a cutoff offset.
const hoursPerDay = 24

// Metrics summarizes one route's evaluation.
type Metrics struct {
	MAE       float64
	RMSE      float64
	TrainRows int
	TestRows  int
}

// Trainer fits and persists one model per route.
type Trainer struct {
	store      repository.Store
	deriver    *features.Deriver
	factory    forecast.Factory
	engineName string
	buildOpts  func() *forecast.Options

	testDays   int
	yMin, yMax float64

	log logger.Logger
}

// NewTrainer wires a trainer from its collaborators.
func NewTrainer(store repository.Store, deriver *features.Deriver, opts ...Option) *Trainer {
	factory, name := forecast.ResolveEngine(forecast.DefaultEngine)
	t := &Trainer{
		store:      store,
		deriver:    deriver,
		factory:    factory,
		engineName: name,
		buildOpts:  func() *forecast.Options { return forecast.NewCongestionOptions() },
		testDays:   30,
		yMin:       0,
		yMax:       10,
		log:        logger.Named("trainer"),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// TrainAndEvaluate derives features for one route's history, splits it in
// time, fits a model on the training partition, evaluates on the holdout,
// and persists the model followed by its metadata. Nothing is persisted
// when fitting or evaluation fails.
func (t *Trainer) TrainAndEvaluate(ctx context.Context, routeID string, obs []types.Observation) (Metrics, error) {
	var m Metrics
	if len(obs) == 0 {
		return m, fmt.Errorf("route %s: %w", routeID, forecast.ErrInsufficientData)
	}

	sorted := make([]types.Observation, len(obs))
	copy(sorted, obs)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].TS.Before(sorted[j].TS) })

	regressors := t.deriver.EnsureRegressors(sorted)

	lastDS := sorted[len(sorted)-1].TS
	cutoff := lastDS.Add(-time.Duration(t.testDays) * hoursPerDay * time.Hour)

	// Hard partition: every row lands in exactly one side, decided solely
	// by timestamp < cutoff.
	var train forecast.TrainingFrame
	var testTS []time.Time
	var testY []float64
	var testReg [][]float64
	for i, o := range sorted {
		if o.TS.Before(cutoff) {
			train.TS = append(train.TS, o.TS)
			train.Y = append(train.Y, o.Level)
			train.Regressors = append(train.Regressors, regressors[i])
		} else {
			testTS = append(testTS, o.TS)
			testY = append(testY, o.Level)
			testReg = append(testReg, regressors[i])
		}
	}
	m.TrainRows = len(train.TS)
	m.TestRows = len(testTS)

	model := t.factory.New(t.buildOpts())
	if err := model.Fit(ctx, train); err != nil {
		return m, fmt.Errorf("route %s: fit: %w", routeID, err)
	}

	pred, err := model.Predict(ctx, forecast.FutureFrame{TS: testTS, Regressors: testReg})
	if err != nil {
		return m, fmt.Errorf("route %s: evaluate: %w", routeID, err)
	}

	absErr := make([]float64, len(testY))
	sqErr := make([]float64, len(testY))
	for i, y := range testY {
		diff := clamp(pred.Yhat[i], t.yMin, t.yMax) - y
		absErr[i] = math.Abs(diff)
		sqErr[i] = diff * diff
	}
	m.MAE = stat.Mean(absErr, nil)
	m.RMSE = math.Sqrt(stat.Mean(sqErr, nil))

	payload, err := model.Encode()
	if err != nil {
		return m, fmt.Errorf("route %s: encode: %w", routeID, err)
	}
	meta := types.Metadata{
		RouteID:    routeID,
		LastDS:     lastDS,
		Regressors: types.RegressorNames(),
	}
	if err := t.store.Save(ctx, routeID, repository.Artifact{Engine: model.Engine(), Model: payload}, meta); err != nil {
		return m, fmt.Errorf("route %s: persist: %w", routeID, err)
	}

	t.log.Info(ctx, "route trained",
		logger.String("route_id", routeID),
		logger.Float64("mae", m.MAE),
		logger.Float64("rmse", m.RMSE),
		logger.Int("train_rows", m.TrainRows),
		logger.Int("test_rows", m.TestRows),
	)
	return m, nil
}
