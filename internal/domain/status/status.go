// Package status classifies a 0-10 congestion level into a traffic status.
package status

// Status is a human-readable congestion band.
type Status string

// Congestion bands from clear to severe.
const (
	Green   Status = "Green - Clear"
	Yellow  Status = "Yellow - Moderate"
	Orange  Status = "Orange - Heavy"
	Red     Status = "Red - Severe"
	Unknown Status = "Unknown"
)

// Band thresholds; each band is half-open on its lower bound.
const (
	yellowAt = 3.0
	orangeAt = 6.0
	redAt    = 8.0
)

// Interpret maps a congestion level to its status band.
func Interpret(level float64) Status {
	switch {
	case level != level: // NaN
		return Unknown
	case level < yellowAt:
		return Green
	case level < orangeAt:
		return Yellow
	case level < redAt:
		return Orange
	default:
		return Red
	}
}
