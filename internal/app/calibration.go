package app

// Calibration scales raw model output by a fixed factor and clips the
// result to the congestion bounds. Each forecast field is calibrated
// independently; no ordering between yhat and its bounds is enforced.
type Calibration struct {
	Factor float64
	Min    float64
	Max    float64
}

// DefaultCalibration compensates the systematic under-prediction of peaks
// observed during training.
func DefaultCalibration() Calibration {
	return Calibration{Factor: 1.25, Min: 0, Max: 10}
}

// Apply calibrates one raw value: clip(raw * factor, min, max).
func (c Calibration) Apply(raw float64) float64 {
	v := raw * c.Factor
	if v < c.Min {
		return c.Min
	}
	if v > c.Max {
		return c.Max
	}
	return v
}
