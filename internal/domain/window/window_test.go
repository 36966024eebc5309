package window_test

import (
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/sekka-transit/sekka/internal/domain/types"
	"github.com/sekka-transit/sekka/internal/domain/window"
)

func TestResolve(t *testing.T) {
	Convey("Given a model trained up to 2024-05-01 20:00", t, func() {
		lastDS := time.Date(2024, time.May, 1, 20, 0, 0, 0, time.UTC)

		Convey("A window ending at the last training time has nothing to forecast", func() {
			date := time.Date(2024, time.May, 1, 0, 0, 0, 0, time.UTC)
			w, err := window.Resolve(lastDS, date, 18, 20)
			So(err, ShouldEqual, window.ErrNothingToForecast)
			So(w.HoursNeeded, ShouldEqual, 0)
		})

		Convey("A window ending after it needs the covering horizon", func() {
			date := time.Date(2024, time.May, 2, 0, 0, 0, 0, time.UTC)
			w, err := window.Resolve(lastDS, date, 8, 16)
			So(err, ShouldBeNil)
			So(w.HoursNeeded, ShouldEqual, 20)
			So(w.Start, ShouldEqual, time.Date(2024, time.May, 2, 8, 0, 0, 0, time.UTC))
			So(w.End, ShouldEqual, time.Date(2024, time.May, 2, 16, 0, 0, 0, time.UTC))
		})

		Convey("A fractional hour gap rounds up", func() {
			shifted := lastDS.Add(-30 * time.Minute)
			date := time.Date(2024, time.May, 1, 0, 0, 0, 0, time.UTC)
			w, err := window.Resolve(shifted, date, 18, 20)
			So(err, ShouldBeNil)
			So(w.HoursNeeded, ShouldEqual, 1)
		})

		Convey("An inverted or out-of-range hour pair is rejected", func() {
			date := time.Date(2024, time.May, 2, 0, 0, 0, 0, time.UTC)
			_, err := window.Resolve(lastDS, date, 16, 8)
			So(err, ShouldEqual, window.ErrInvalidHours)
			_, err = window.Resolve(lastDS, date, -1, 8)
			So(err, ShouldEqual, window.ErrInvalidHours)
			_, err = window.Resolve(lastDS, date, 8, 24)
			So(err, ShouldEqual, window.ErrInvalidHours)
		})
	})
}

func TestFilterAndMean(t *testing.T) {
	Convey("Given forecast points around a window", t, func() {
		day := time.Date(2024, time.May, 2, 0, 0, 0, 0, time.UTC)
		points := []types.ForecastPoint{
			{DS: day.Add(7 * time.Hour), Yhat: 9},
			{DS: day.Add(8 * time.Hour), Yhat: 2},
			{DS: day.Add(9 * time.Hour), Yhat: 4},
			{DS: day.Add(10 * time.Hour), Yhat: 6},
			{DS: day.Add(11 * time.Hour), Yhat: 9},
		}
		w := window.Window{Start: day.Add(8 * time.Hour), End: day.Add(10 * time.Hour)}

		Convey("Filter keeps the inclusive bounds", func() {
			kept := window.Filter(points, w)
			So(kept, ShouldHaveLength, 3)
			So(kept[0].DS, ShouldEqual, w.Start)
			So(kept[2].DS, ShouldEqual, w.End)
		})

		Convey("MeanLevel averages yhat over the kept points", func() {
			kept := window.Filter(points, w)
			So(window.MeanLevel(kept), ShouldEqual, 4.0)
		})
	})
}
