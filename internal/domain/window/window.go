// Package window converts a requested calendar date and hour range into a
// forecast horizon anchored at a model's last training timestamp.
package window

import (
	"errors"
	"math"
	"time"

	"github.com/sekka-transit/sekka/internal/domain/types"
)

// Sentinel kinds for window resolution.
var (
	ErrInvalidHours      = errors.New("invalid hour range")
	ErrNothingToForecast = errors.New("requested window ends before the model's last training time")
	ErrEmptyWindow       = errors.New("no forecast points in the requested window")
)

// Window is a resolved forecast request: the inclusive datetime bounds and
// the horizon, in hours past lastDS, that covers them.
type Window struct {
	Start       time.Time
	End         time.Time
	HoursNeeded int
}

// Resolve computes the horizon needed to cover [date+startHour,
// date+endHour] from lastDS. Hours are 0-23 with end >= start. It returns
// ErrNothingToForecast when the requested end does not lie after lastDS;
// callers must not invoke inference in that case.
func Resolve(lastDS, date time.Time, startHour, endHour int) (Window, error) {
	if startHour < 0 || endHour > 23 || endHour < startHour {
		return Window{}, ErrInvalidHours
	}
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	w := Window{
		Start: day.Add(time.Duration(startHour) * time.Hour),
		End:   day.Add(time.Duration(endHour) * time.Hour),
	}
	delta := w.End.Sub(lastDS).Hours()
	w.HoursNeeded = int(math.Ceil(delta))
	if w.HoursNeeded <= 0 {
		w.HoursNeeded = 0
		return w, ErrNothingToForecast
	}
	return w, nil
}

// Filter keeps the points inside the inclusive window, preserving order.
func Filter(points []types.ForecastPoint, w Window) []types.ForecastPoint {
	out := make([]types.ForecastPoint, 0, len(points))
	for _, p := range points {
		if p.DS.Before(w.Start) || p.DS.After(w.End) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// MeanLevel averages yhat over the points. Callers guarantee points is
// non-empty.
func MeanLevel(points []types.ForecastPoint) float64 {
	var sum float64
	for _, p := range points {
		sum += p.Yhat
	}
	return sum / float64(len(points))
}
