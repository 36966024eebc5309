// Package forecast builds and fits the additive per-route forecasting
// model. The fitting backend is abstracted behind Estimator so any library
// exposing a fit/predict contract can stand in; the default backend is a
// ridge-regularized linear model over trend, Fourier seasonality and
// regressor columns, solved with gonum.
package forecast

import (
	"context"
	"time"
)

// TrainingFrame is the history a model is fit on. Regressors holds one row
// per timestamp, each in the registered regressor order.
type TrainingFrame struct {
	TS         []time.Time
	Y          []float64
	Regressors [][]float64
}

// FutureFrame is the horizon a fitted model predicts over.
type FutureFrame struct {
	TS         []time.Time
	Regressors [][]float64
}

// Prediction carries point forecasts with uncertainty bounds, one entry per
// input timestamp. Bounds are raw model output; calibration and clipping
// happen downstream.
type Prediction struct {
	Yhat      []float64
	YhatLower []float64
	YhatUpper []float64
}

// Estimator is the opaque fit/predict capability.
type Estimator interface {
	// Fit trains the model on the frame. The model is single-fit; calling
	// Fit twice is an error.
	Fit(ctx context.Context, frame TrainingFrame) error

	// Predict forecasts over the future frame. The model must be fitted.
	Predict(ctx context.Context, frame FutureFrame) (Prediction, error)

	// Engine names the backend for artifact round-tripping.
	Engine() string

	// Encode serializes the fitted state for persistence.
	Encode() ([]byte, error)
}

// Factory builds an unfit estimator from model options, and restores a
// fitted one from an encoded artifact.
type Factory struct {
	New    func(opts *Options) Estimator
	Decode func(payload []byte) (Estimator, error)
}

// DefaultEngine is used when the configured engine is unknown.
const DefaultEngine = "ridge"

var engines = map[string]Factory{} //nolint:gochecknoglobals // engine registry

func register(name string, f Factory) {
	engines[name] = f
}

// ResolveEngine picks a factory by name, falling back to the default
// backend for unknown names. Resolution happens once at construction, not
// per call.
func ResolveEngine(name string) (Factory, string) {
	if f, ok := engines[name]; ok {
		return f, name
	}
	return engines[DefaultEngine], DefaultEngine
}

// DecodeEstimator restores a fitted estimator persisted under engine.
func DecodeEstimator(engine string, payload []byte) (Estimator, error) {
	f, _ := ResolveEngine(engine)
	return f.Decode(payload)
}
