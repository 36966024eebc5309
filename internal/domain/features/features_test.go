package features_test

import (
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/sekka-transit/sekka/internal/domain/features"
	"github.com/sekka-transit/sekka/internal/domain/types"
)

func ts(month time.Month, day, hour int) time.Time {
	return time.Date(2024, month, day, hour, 0, 0, 0, time.UTC)
}

func TestSchoolPhase(t *testing.T) {
	Convey("Given the fixed school calendar rule", t, func() {
		Convey("January and June are exam months", func() {
			So(features.SchoolPhase(ts(time.January, 15, 8)), ShouldEqual, types.PhaseExam)
			So(features.SchoolPhase(ts(time.June, 1, 0)), ShouldEqual, types.PhaseExam)
		})

		Convey("July through September are the long holiday", func() {
			So(features.SchoolPhase(ts(time.July, 1, 12)), ShouldEqual, types.PhaseHoliday)
			So(features.SchoolPhase(ts(time.August, 20, 23)), ShouldEqual, types.PhaseHoliday)
			So(features.SchoolPhase(ts(time.September, 30, 6)), ShouldEqual, types.PhaseHoliday)
		})

		Convey("Every other month is term time", func() {
			for _, m := range []time.Month{time.February, time.March, time.April, time.May, time.October, time.November, time.December} {
				So(features.SchoolPhase(ts(m, 10, 10)), ShouldEqual, types.PhaseTerm)
			}
		})
	})
}

func TestSummerPeak(t *testing.T) {
	Convey("Given the summer peak rule", t, func() {
		Convey("Months 6-9 are the peak", func() {
			for _, m := range []time.Month{time.June, time.July, time.August, time.September} {
				So(features.SummerPeak(ts(m, 5, 14)), ShouldEqual, 1)
			}
		})

		Convey("All other months are not", func() {
			for _, m := range []time.Month{time.January, time.May, time.October, time.December} {
				So(features.SummerPeak(ts(m, 5, 14)), ShouldEqual, 0)
			}
		})
	})
}

type fixedCalendar struct {
	dates map[string]bool
}

func (f *fixedCalendar) IsHoliday(t time.Time) bool {
	return f.dates[t.Format("2006-01-02")]
}

func TestPublicHoliday(t *testing.T) {
	Convey("Given a deriver with a holiday calendar", t, func() {
		cal := &fixedCalendar{dates: map[string]bool{"2024-05-01": true}}
		d := features.NewDeriver(cal)

		Convey("A listed date derives 1, others 0", func() {
			So(d.PublicHoliday(ts(time.May, 1, 9)), ShouldEqual, 1)
			So(d.PublicHoliday(ts(time.May, 2, 9)), ShouldEqual, 0)
		})
	})

	Convey("Given a deriver without a calendar", t, func() {
		d := features.NewDeriver(nil)

		Convey("Derivation fails safe to 0", func() {
			So(d.PublicHoliday(ts(time.May, 1, 9)), ShouldEqual, 0)
		})
	})

	Convey("Given the Egyptian national calendar", t, func() {
		cal, err := features.NewHolidayCalendar("EG")
		So(err, ShouldBeNil)
		d := features.NewDeriver(cal)

		Convey("Labour Day is a public holiday", func() {
			So(d.PublicHoliday(ts(time.May, 1, 9)), ShouldEqual, 1)
		})

		Convey("An ordinary weekday is not", func() {
			So(d.PublicHoliday(ts(time.March, 13, 9)), ShouldEqual, 0)
		})
	})

	Convey("An unsupported country has no calendar", t, func() {
		_, err := features.NewHolidayCalendar("XX")
		So(err, ShouldNotBeNil)
	})
}

func TestEnsureRegressors(t *testing.T) {
	Convey("Given a batch of observations", t, func() {
		d := features.NewDeriver(nil)

		Convey("When no optional columns are present", func() {
			obs := []types.Observation{
				{TS: ts(time.February, 5, 8)},  // Term
				{TS: ts(time.June, 10, 8)},     // Exam, summer peak
				{TS: ts(time.August, 15, 8)},   // Holiday, summer peak
			}
			rows := d.EnsureRegressors(obs)

			Convey("Then every row has exactly 5 columns", func() {
				So(rows, ShouldHaveLength, 3)
				for _, row := range rows {
					So(row, ShouldHaveLength, 5)
				}
			})

			Convey("And the school indicators one-hot encode the phase", func() {
				So(rows[0][2:], ShouldResemble, []float64{1, 0, 0})
				So(rows[1][2:], ShouldResemble, []float64{0, 1, 0})
				So(rows[2][2:], ShouldResemble, []float64{0, 0, 1})
			})

			Convey("And summer peak derives from the month", func() {
				So(rows[0][1], ShouldEqual, 0)
				So(rows[1][1], ShouldEqual, 1)
				So(rows[2][1], ShouldEqual, 1)
			})
		})

		Convey("When optional columns are supplied they win over derivation", func() {
			obs := []types.Observation{
				{TS: ts(time.February, 5, 8), Holiday: 1, HasHoliday: true, SummerPeak: 1, HasSummerPeak: true, SchoolPhase: types.PhaseExam},
			}
			rows := d.EnsureRegressors(obs)
			So(rows[0], ShouldResemble, []float64{1, 1, 0, 1, 0})
		})

		Convey("When the school phase is unknown all three indicators stay 0", func() {
			obs := []types.Observation{
				{TS: ts(time.February, 5, 8), SchoolPhase: "Recess"},
			}
			rows := d.EnsureRegressors(obs)
			So(rows[0][2]+rows[0][3]+rows[0][4], ShouldEqual, 0)
		})

		Convey("When the phase is a known category the indicators sum to 1", func() {
			obs := []types.Observation{
				{TS: ts(time.January, 5, 8)},
				{TS: ts(time.April, 5, 8)},
				{TS: ts(time.July, 5, 8)},
			}
			for _, row := range d.EnsureRegressors(obs) {
				So(row[2]+row[3]+row[4], ShouldEqual, 1)
			}
		})
	})
}

func TestFutureFrame(t *testing.T) {
	Convey("Given a future frame request", t, func() {
		d := features.NewDeriver(nil)
		start := time.Date(2024, time.March, 2, 0, 0, 0, 0, time.UTC)

		ts, rows := d.FutureFrame(start, 48)

		Convey("Then timestamps are consecutive hours from start", func() {
			So(ts, ShouldHaveLength, 48)
			So(rows, ShouldHaveLength, 48)
			So(ts[0], ShouldEqual, start)
			for i := 1; i < len(ts); i++ {
				So(ts[i].Sub(ts[i-1]), ShouldEqual, time.Hour)
			}
		})

		Convey("And every row carries the 5 derived columns", func() {
			for _, row := range rows {
				So(row, ShouldHaveLength, 5)
			}
		})
	})
}
