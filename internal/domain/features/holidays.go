package features

import (
	"fmt"
	"time"

	"github.com/rickar/cal/v2"
)

// HolidayCalendar answers whether a date is a national public holiday.
type HolidayCalendar interface {
	IsHoliday(t time.Time) bool
}

type calCalendar struct {
	c *cal.Calendar
}

func (h *calCalendar) IsHoliday(t time.Time) bool {
	actual, observed, _ := h.c.IsHoliday(t)
	return actual || observed
}

// egyptHolidays are the fixed-date national public holidays. Movable
// Islamic feasts are not modeled; congested feast days fall back to the
// seasonal components.
func egyptHolidays() []*cal.Holiday {
	fixed := []struct {
		name  string
		month time.Month
		day   int
	}{
		{"Coptic Christmas", time.January, 7},
		{"Revolution Day (January 25)", time.January, 25},
		{"Sinai Liberation Day", time.April, 25},
		{"Labour Day", time.May, 1},
		{"June 30 Revolution", time.June, 30},
		{"Revolution Day (July 23)", time.July, 23},
		{"Armed Forces Day", time.October, 6},
	}
	hs := make([]*cal.Holiday, 0, len(fixed))
	for _, f := range fixed {
		hs = append(hs, &cal.Holiday{
			Name:  f.name,
			Type:  cal.ObservancePublic,
			Month: f.month,
			Day:   f.day,
			Func:  cal.CalcDayOfMonth,
		})
	}
	return hs
}

// NewHolidayCalendar builds the national calendar for a country code.
// Unsupported countries return an error; callers treat that as "no
// calendar available" and holiday derivation fails safe to 0.
func NewHolidayCalendar(country string) (HolidayCalendar, error) {
	switch country {
	case "EG", "eg":
		c := &cal.Calendar{Name: "Egypt", Cacheable: true}
		c.AddHoliday(egyptHolidays()...)
		return &calCalendar{c: c}, nil
	default:
		return nil, fmt.Errorf("no holiday calendar for country %q", country)
	}
}
