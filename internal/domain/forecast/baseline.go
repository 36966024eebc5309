package forecast

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"gonum.org/v1/gonum/stat"
)

// hoursInWeek buckets for the baseline seasonal profile.
const hoursInWeek = 24 * 7

// Baseline is a fallback Estimator: hour-of-week means blended with the
// global mean where a bucket is thin. It ignores regressors and exists so
// the engine registry has a cheap, dependency-light backend to fall back
// on.
type Baseline struct {
	Profile  []float64 `json:"profile"`
	Counts   []int     `json:"counts"`
	Mean     float64   `json:"mean"`
	Sigma    float64   `json:"sigma"`
	IsFitted bool      `json:"fitted"`
}

func init() { //nolint:gochecknoinits // backend registration
	register("baseline", Factory{
		New:    func(_ *Options) Estimator { return &Baseline{} },
		Decode: decodeBaseline,
	})
}

func hourOfWeek(ts time.Time) int {
	return int(ts.Weekday())*24 + ts.Hour()
}

// Engine names the backend.
func (b *Baseline) Engine() string { return "baseline" }

// Fit computes the hour-of-week profile and residual spread.
func (b *Baseline) Fit(ctx context.Context, frame TrainingFrame) error {
	if b.IsFitted {
		return ErrAlreadyFitted
	}
	n := len(frame.TS)
	if n < minTrainRows || len(frame.Y) != n {
		return fmt.Errorf("%w: %d rows, need at least %d", ErrInsufficientData, n, minTrainRows)
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("fit canceled: %w", err)
	}

	sums := make([]float64, hoursInWeek)
	b.Counts = make([]int, hoursInWeek)
	for i, ts := range frame.TS {
		h := hourOfWeek(ts)
		sums[h] += frame.Y[i]
		b.Counts[h]++
	}
	b.Mean = stat.Mean(frame.Y, nil)
	b.Profile = make([]float64, hoursInWeek)
	for h := range b.Profile {
		if b.Counts[h] >= 2 {
			b.Profile[h] = sums[h] / float64(b.Counts[h])
		} else {
			b.Profile[h] = b.Mean
		}
	}

	residuals := make([]float64, n)
	for i, ts := range frame.TS {
		residuals[i] = frame.Y[i] - b.Profile[hourOfWeek(ts)]
	}
	_, b.Sigma = stat.MeanStdDev(residuals, nil)
	b.IsFitted = true
	return nil
}

// Predict returns the profile value per timestamp with z·sigma bounds.
func (b *Baseline) Predict(ctx context.Context, frame FutureFrame) (Prediction, error) {
	if !b.IsFitted {
		return Prediction{}, ErrNotFitted
	}
	if err := ctx.Err(); err != nil {
		return Prediction{}, fmt.Errorf("predict canceled: %w", err)
	}
	n := len(frame.TS)
	pred := Prediction{
		Yhat:      make([]float64, n),
		YhatLower: make([]float64, n),
		YhatUpper: make([]float64, n),
	}
	width := z80 * b.Sigma
	for i, ts := range frame.TS {
		v := b.Profile[hourOfWeek(ts)]
		pred.Yhat[i] = v
		pred.YhatLower[i] = v - width
		pred.YhatUpper[i] = v + width
	}
	return pred, nil
}

// Encode serializes the fitted state.
func (b *Baseline) Encode() ([]byte, error) {
	if !b.IsFitted {
		return nil, ErrNotFitted
	}
	out, err := json.Marshal(b)
	if err != nil {
		return nil, fmt.Errorf("encode baseline model: %w", err)
	}
	return out, nil
}

func decodeBaseline(payload []byte) (Estimator, error) {
	var b Baseline
	if err := json.Unmarshal(payload, &b); err != nil {
		return nil, fmt.Errorf("decode baseline model: %w", err)
	}
	if !b.IsFitted {
		return nil, ErrNotFitted
	}
	return &b, nil
}
