package forecast

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/sekka-transit/sekka/internal/domain/features"
)

// Ridge fitting constants.
const (
	// minTrainRows guards against fitting near-empty routes.
	minTrainRows = 48

	// maxChangepoints matches the usual piecewise-trend grid; actual count
	// scales down with short histories.
	maxChangepoints = 25

	// changepointRange places changepoints over the first 80% of history.
	changepointRange = 0.8

	// rowsPerChangepoint limits trend flexibility on small frames.
	rowsPerChangepoint = 30

	// flatPenalty keeps the normal equations positive definite for the
	// intercept and trend columns, which carry no prior.
	flatPenalty = 1e-8

	// z80 is the normal quantile for the 80% prediction interval.
	z80 = 1.2815515655446004
)

// Ridge is the default Estimator: an additive model over piecewise-linear
// trend, Fourier seasonal blocks, regressors and an optional holiday
// effect, solved as an L2-penalized least-squares problem. Prior scales map
// to penalties as 1/scale².
//
// Exported fields form the persisted artifact.
type Ridge struct {
	Opts         *Options  `json:"options"`
	Origin       time.Time `json:"origin"`
	TScaleHours  float64   `json:"t_scale_hours"`
	Changepoints []float64 `json:"changepoints"`
	Beta         []float64 `json:"beta"`
	Sigma        float64   `json:"sigma"`
	IsFitted     bool      `json:"fitted"`
}

// HolidayAware is implemented by estimators whose fitted state needs a
// holiday calendar re-attached after decoding.
type HolidayAware interface {
	SetHolidayCalendar(calendar features.HolidayCalendar)
}

func init() { //nolint:gochecknoinits // backend registration
	register("ridge", Factory{
		New:    func(opts *Options) Estimator { return NewRidge(opts) },
		Decode: decodeRidge,
	})
}

// NewRidge creates an unfit ridge model from options.
func NewRidge(opts *Options) *Ridge {
	if opts == nil {
		opts = NewCongestionOptions()
	}
	return &Ridge{Opts: opts}
}

// Engine names the backend.
func (r *Ridge) Engine() string { return "ridge" }

// SetHolidayCalendar re-attaches the calendar after decode. Without it the
// holiday effect column derives to 0, mirroring the fail-safe lookup.
func (r *Ridge) SetHolidayCalendar(calendar features.HolidayCalendar) {
	r.Opts.Holidays = calendar
}

// featureCount is the design matrix width for the current configuration.
func (r *Ridge) featureCount() int {
	p := 2 + len(r.Changepoints) // intercept, trend, changepoint bases
	for _, s := range r.Opts.Seasonalities {
		p += 2 * s.FourierOrder
	}
	p += len(r.Opts.Regressors)
	if r.Opts.HolidayEffect {
		p++
	}
	return p
}

// designRow fills one row of the design matrix for a timestamp.
func (r *Ridge) designRow(row []float64, ts time.Time, regressors []float64) {
	hours := ts.Sub(r.Origin).Hours()
	tn := hours / r.TScaleHours

	j := 0
	row[j] = 1
	j++
	row[j] = tn
	j++
	for _, cp := range r.Changepoints {
		if tn > cp {
			row[j] = tn - cp
		} else {
			row[j] = 0
		}
		j++
	}
	for _, s := range r.Opts.Seasonalities {
		for k := 1; k <= s.FourierOrder; k++ {
			angle := 2 * math.Pi * float64(k) * hours / s.PeriodHours
			row[j] = math.Sin(angle)
			row[j+1] = math.Cos(angle)
			j += 2
		}
	}
	copy(row[j:], regressors)
	j += len(r.Opts.Regressors)
	if r.Opts.HolidayEffect {
		row[j] = 0
		if r.Opts.Holidays != nil && r.Opts.Holidays.IsHoliday(ts) {
			row[j] = 1
		}
	}
}

// penalties returns the per-coefficient L2 penalty vector.
func (r *Ridge) penalties() []float64 {
	cpPenalty := 1 / (r.Opts.ChangepointPriorScale * r.Opts.ChangepointPriorScale)
	seasPenalty := 1 / (r.Opts.SeasonalityPriorScale * r.Opts.SeasonalityPriorScale)

	pen := make([]float64, 0, r.featureCount())
	pen = append(pen, flatPenalty, flatPenalty)
	for range r.Changepoints {
		pen = append(pen, cpPenalty)
	}
	for _, s := range r.Opts.Seasonalities {
		for k := 0; k < 2*s.FourierOrder; k++ {
			pen = append(pen, seasPenalty)
		}
	}
	for range r.Opts.Regressors {
		pen = append(pen, seasPenalty)
	}
	if r.Opts.HolidayEffect {
		pen = append(pen, seasPenalty)
	}
	return pen
}

func (r *Ridge) validateFrame(ts []time.Time, regressors [][]float64) error {
	if len(regressors) != len(ts) {
		return fmt.Errorf("%w: %d timestamps, %d regressor rows", ErrFrameMismatch, len(ts), len(regressors))
	}
	for _, row := range regressors {
		if len(row) != len(r.Opts.Regressors) {
			return fmt.Errorf("%w: want %d regressors, got %d", ErrFrameMismatch, len(r.Opts.Regressors), len(row))
		}
	}
	return nil
}

// Fit solves the penalized normal equations over the training frame and
// records the residual spread used for prediction intervals.
func (r *Ridge) Fit(ctx context.Context, frame TrainingFrame) error {
	if r.IsFitted {
		return ErrAlreadyFitted
	}
	n := len(frame.TS)
	if n < minTrainRows || len(frame.Y) != n {
		return fmt.Errorf("%w: %d rows, need at least %d", ErrInsufficientData, n, minTrainRows)
	}
	if err := r.validateFrame(frame.TS, frame.Regressors); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("fit canceled: %w", err)
	}

	r.Origin = frame.TS[0]
	span := frame.TS[n-1].Sub(r.Origin).Hours()
	if span <= 0 {
		return fmt.Errorf("%w: zero time span", ErrInsufficientData)
	}
	r.TScaleHours = span

	nCp := n / rowsPerChangepoint
	if nCp > maxChangepoints {
		nCp = maxChangepoints
	}
	r.Changepoints = make([]float64, nCp)
	for i := 0; i < nCp; i++ {
		r.Changepoints[i] = changepointRange * float64(i+1) / float64(nCp+1)
	}

	p := r.featureCount()
	x := mat.NewDense(n, p, nil)
	row := make([]float64, p)
	for i := 0; i < n; i++ {
		r.designRow(row, frame.TS[i], frame.Regressors[i])
		x.SetRow(i, row)
	}
	y := mat.NewVecDense(n, frame.Y)

	var xtx mat.Dense
	xtx.Mul(x.T(), x)
	for i, pen := range r.penalties() {
		xtx.Set(i, i, xtx.At(i, i)+pen)
	}
	var xty mat.VecDense
	xty.MulVec(x.T(), y)

	var beta mat.VecDense
	if err := beta.SolveVec(&xtx, &xty); err != nil {
		return fmt.Errorf("%w: %v", ErrSingularFit, err)
	}
	r.Beta = make([]float64, p)
	copy(r.Beta, beta.RawVector().Data)

	// Residual spread over the training frame drives interval width.
	var fitted mat.VecDense
	fitted.MulVec(x, &beta)
	residuals := make([]float64, n)
	for i := 0; i < n; i++ {
		residuals[i] = frame.Y[i] - fitted.AtVec(i)
	}
	_, r.Sigma = stat.MeanStdDev(residuals, nil)

	r.IsFitted = true
	return nil
}

// Predict evaluates the fitted model over the future frame. Bounds are
// yhat ± z·sigma for the 80% interval; they are not clipped here.
func (r *Ridge) Predict(ctx context.Context, frame FutureFrame) (Prediction, error) {
	if !r.IsFitted {
		return Prediction{}, ErrNotFitted
	}
	if err := r.validateFrame(frame.TS, frame.Regressors); err != nil {
		return Prediction{}, err
	}
	if err := ctx.Err(); err != nil {
		return Prediction{}, fmt.Errorf("predict canceled: %w", err)
	}

	n := len(frame.TS)
	p := r.featureCount()
	if len(r.Beta) != p {
		return Prediction{}, fmt.Errorf("%w: artifact has %d coefficients, want %d", ErrFrameMismatch, len(r.Beta), p)
	}

	pred := Prediction{
		Yhat:      make([]float64, n),
		YhatLower: make([]float64, n),
		YhatUpper: make([]float64, n),
	}
	row := make([]float64, p)
	width := z80 * r.Sigma
	for i := 0; i < n; i++ {
		r.designRow(row, frame.TS[i], frame.Regressors[i])
		var v float64
		for j, b := range r.Beta {
			v += row[j] * b
		}
		pred.Yhat[i] = v
		pred.YhatLower[i] = v - width
		pred.YhatUpper[i] = v + width
	}
	return pred, nil
}

// Encode serializes the fitted state.
func (r *Ridge) Encode() ([]byte, error) {
	if !r.IsFitted {
		return nil, ErrNotFitted
	}
	b, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("encode ridge model: %w", err)
	}
	return b, nil
}

func decodeRidge(payload []byte) (Estimator, error) {
	var r Ridge
	if err := json.Unmarshal(payload, &r); err != nil {
		return nil, fmt.Errorf("decode ridge model: %w", err)
	}
	if !r.IsFitted {
		return nil, ErrNotFitted
	}
	if r.Opts == nil {
		return nil, fmt.Errorf("decode ridge model: missing options")
	}
	return &r, nil
}
