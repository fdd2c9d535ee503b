// Package calendar holds the calendar-date helpers shared by the recurrence
// engine and the month view. Calendar dates are represented as time.Time
// values at midnight UTC so that day arithmetic never crosses a DST boundary.
package calendar

import (
	"fmt"
	"time"
)

// DateLayout is the canonical YYYY-MM-DD form used for due dates and keys.
const DateLayout = "2006-01-02"

// ParseDate parses a canonical YYYY-MM-DD date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: want YYYY-MM-DD", s)
	}
	return t, nil
}

// FormatDate renders the calendar day of t in canonical form.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// DisplayDate renders a canonical date as "Jan 2, 2006". Unparsable input is
// returned unchanged.
func DisplayDate(s string) string {
	t, err := ParseDate(s)
	if err != nil {
		return s
	}
	return t.Format("Jan 2, 2006")
}

// DateOf strips the clock from t, keeping the calendar day as seen in t's
// own location.
func DateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Today returns the current calendar date.
func Today() time.Time {
	return DateOf(time.Now())
}

// AddMonths adds n calendar months to d. When the target month is shorter
// than d's day, the result is clamped to the target month's last day
// (Jan 31 + 1 month = Feb 28/29), unlike time.AddDate which overflows.
func AddMonths(d time.Time, n int) time.Time {
	y, m, day := d.Date()
	first := time.Date(y, m+time.Month(n), 1, 0, 0, 0, 0, d.Location())
	if last := DaysIn(first.Year(), first.Month()); day > last {
		day = last
	}
	return time.Date(first.Year(), first.Month(), day, d.Hour(), d.Minute(), d.Second(), d.Nanosecond(), d.Location())
}

// DaysIn reports the number of days in the given month.
func DaysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// WeekStart returns the Sunday on or before d.
func WeekStart(d time.Time) time.Time {
	d = DateOf(d)
	return d.AddDate(0, 0, -int(d.Weekday()))
}
