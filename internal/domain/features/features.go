// Package features derives the calendar regressor columns consumed by the
// forecasting model. All derivations are deterministic functions of the
// timestamp, so the same code serves training frames and synthetic future
// frames.
package features

import (
	"time"

	"github.com/sekka-transit/sekka/internal/domain/types"
)

// Deriver computes regressor columns from timestamps. A nil holiday
// calendar is valid: the public-holiday column then derives to 0.
type Deriver struct {
	holidays HolidayCalendar
}

// NewDeriver creates a Deriver. calendar may be nil.
func NewDeriver(calendar HolidayCalendar) *Deriver {
	return &Deriver{holidays: calendar}
}

// SchoolPhase maps a timestamp to the school term phase.
// Months 1 and 6 are exam months; 7-9 the long holiday; the rest term time.
func SchoolPhase(ts time.Time) string {
	switch ts.Month() {
	case time.January, time.June:
		return types.PhaseExam
	case time.July, time.August, time.September:
		return types.PhaseHoliday
	default:
		return types.PhaseTerm
	}
}

// SummerPeak reports the summer travel peak: months 6-9.
func SummerPeak(ts time.Time) int {
	switch ts.Month() {
	case time.June, time.July, time.August, time.September:
		return 1
	default:
		return 0
	}
}

// PublicHoliday looks the date up in the national calendar. It fails safe
// to 0 when no calendar is available.
func (d *Deriver) PublicHoliday(ts time.Time) int {
	if d.holidays == nil {
		return 0
	}
	if d.holidays.IsHoliday(ts) {
		return 1
	}
	return 0
}

// oneHotSchool encodes a phase into the three fixed indicator columns.
// Unknown phases leave all three at 0.
func oneHotSchool(phase string) (term, exam, holiday float64) {
	switch phase {
	case types.PhaseTerm:
		term = 1
	case types.PhaseExam:
		exam = 1
	case types.PhaseHoliday:
		holiday = 1
	}
	return term, exam, holiday
}

// EnsureRegressors produces one row of exactly five regressor values per
// observation, in types.RegressorNames() order. Values supplied in the
// input win over derived ones; the school phase is one-hot encoded with
// absent categories zero-filled, so the output schema never depends on
// batch composition.
func (d *Deriver) EnsureRegressors(obs []types.Observation) [][]float64 {
	rows := make([][]float64, len(obs))
	for i, o := range obs {
		hol := float64(d.PublicHoliday(o.TS))
		if o.HasHoliday {
			hol = float64(o.Holiday)
		}
		peak := float64(SummerPeak(o.TS))
		if o.HasSummerPeak {
			peak = float64(o.SummerPeak)
		}
		phase := o.SchoolPhase
		if phase == "" {
			phase = SchoolPhase(o.TS)
		}
		term, exam, holiday := oneHotSchool(phase)
		rows[i] = []float64{hol, peak, term, exam, holiday}
	}
	return rows
}

// FutureFrame builds hours consecutive hourly timestamps starting at
// start, with their derived regressor rows. No historical values are
// needed; every column is a calendar function.
func (d *Deriver) FutureFrame(start time.Time, hours int) ([]time.Time, [][]float64) {
	ts := make([]time.Time, hours)
	obs := make([]types.Observation, hours)
	for i := 0; i < hours; i++ {
		ts[i] = start.Add(time.Duration(i) * time.Hour)
		obs[i] = types.Observation{TS: ts[i]}
	}
	return ts, d.EnsureRegressors(obs)
}
