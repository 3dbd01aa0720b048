// Package calendar provides business-day arithmetic for LME prompt dates.
//
// Business day = weekday that is not Saturday/Sunday and not present in the
// supplied holiday table. The holiday table is pluggable and year-bounded;
// keeping it current is an operational concern, not baked-in logic.
package calendar

import (
	"fmt"
	"time"
)

// Date truncates t to midnight UTC. All calendar arithmetic operates on
// dates normalized this way.
func Date(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// HolidayCalendar is a year-bounded set of exchange holidays.
type HolidayCalendar struct {
	holidays map[time.Time]struct{}
	fromYear int
	toYear   int
}

// New creates a HolidayCalendar covering [fromYear, toYear].
func New(holidays []time.Time, fromYear, toYear int) *HolidayCalendar {
	set := make(map[time.Time]struct{}, len(holidays))
	for _, h := range holidays {
		set[Date(h)] = struct{}{}
	}
	return &HolidayCalendar{
		holidays: set,
		fromYear: fromYear,
		toYear:   toYear,
	}
}

// Parse creates a HolidayCalendar from ISO date strings.
func Parse(dates []string, fromYear, toYear int) (*HolidayCalendar, error) {
	holidays := make([]time.Time, 0, len(dates))
	for _, s := range dates {
		d, err := time.ParseInLocation("2006-01-02", s, time.UTC)
		if err != nil {
			return nil, fmt.Errorf("parse holiday %q: %w", s, err)
		}
		holidays = append(holidays, d)
	}
	return New(holidays, fromYear, toYear), nil
}

// Covers reports whether the table is maintained for the given year.
func (c *HolidayCalendar) Covers(year int) bool {
	return year >= c.fromYear && year <= c.toYear
}

// IsHoliday reports whether d is a configured holiday.
func (c *HolidayCalendar) IsHoliday(d time.Time) bool {
	_, ok := c.holidays[Date(d)]
	return ok
}

// IsBusinessDay reports whether d is a weekday and not a holiday.
func (c *HolidayCalendar) IsBusinessDay(d time.Time) bool {
	wd := d.Weekday()
	if wd == time.Saturday || wd == time.Sunday {
		return false
	}
	return !c.IsHoliday(d)
}

// NextBusinessDay rolls d forward one day at a time until it lands on a
// business day. A date already on a business day is returned unchanged.
func (c *HolidayCalendar) NextBusinessDay(d time.Time) time.Time {
	d = Date(d)
	for !c.IsBusinessDay(d) {
		d = d.AddDate(0, 0, 1)
	}
	return d
}

// AddBusinessDays advances d by n business days.
func (c *HolidayCalendar) AddBusinessDays(d time.Time, n int) time.Time {
	d = Date(d)
	for i := 0; i < n; i++ {
		d = d.AddDate(0, 0, 1)
		d = c.NextBusinessDay(d)
	}
	return d
}

// ThirdWednesday returns the third Wednesday of the month with no roll
// applied: the first Wednesday plus 14 days.
func ThirdWednesday(year int, month time.Month) time.Time {
	d := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	for d.Weekday() != time.Wednesday {
		d = d.AddDate(0, 0, 1)
	}
	return d.AddDate(0, 0, 14)
}

// ThirdWednesdayRolled returns the third Wednesday of the month rolled
// forward to the next business day when it falls on a weekend or holiday.
func (c *HolidayCalendar) ThirdWednesdayRolled(year int, month time.Month) time.Time {
	return c.NextBusinessDay(ThirdWednesday(year, month))
}
