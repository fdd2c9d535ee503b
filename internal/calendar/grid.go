package calendar

import "time"

// Day is one cell of a month grid.
type Day struct {
	Date      time.Time `json:"date"`
	DayNumber int       `json:"day_number"`
	InMonth   bool      `json:"in_month"`
	IsToday   bool      `json:"is_today"`
	Key       string    `json:"key"` // YYYY-MM-DD
}

// Grid returns every day of each Sunday-started week that intersects the
// given month, so the result always holds whole weeks. Months outside 1-12
// normalize the way time.Date does.
func Grid(year int, month time.Month, today time.Time) []Day {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)

	start := WeekStart(first)
	end := WeekStart(last).AddDate(0, 0, 6)
	todayKey := FormatDate(DateOf(today))

	days := make([]Day, 0, 42)
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		key := FormatDate(d)
		days = append(days, Day{
			Date:      d,
			DayNumber: d.Day(),
			InMonth:   d.Year() == first.Year() && d.Month() == first.Month(),
			IsToday:   key == todayKey,
			Key:       key,
		})
	}
	return days
}

// MonthGrid is Grid evaluated against the current date.
func MonthGrid(year int, month time.Month) []Day {
	return Grid(year, month, time.Now())
}
