package recurrence

import (
	"fmt"
	"strings"

	"github.com/dukerupert/chorecal/internal/model"
)

var shortDayNames = [7]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// Describe returns a human-readable summary such as "Every 2 weeks on Mon, Wed".
func Describe(p *model.RecurrencePattern) string {
	if p == nil {
		return "Does not repeat"
	}

	interval := p.Interval
	if interval < 1 {
		interval = 1
	}
	every := func(unit string) string {
		if interval > 1 {
			return fmt.Sprintf("Every %d %ss", interval, unit)
		}
		return "Every " + unit
	}

	switch p.Type {
	case model.RecurrenceDaily:
		return every("day")
	case model.RecurrenceWeekly:
		var names []string
		for _, d := range p.DaysOfWeek {
			if d >= 0 && d <= 6 {
				names = append(names, shortDayNames[d])
			}
		}
		if len(names) > 0 {
			return every("week") + " on " + strings.Join(names, ", ")
		}
		return every("week")
	case model.RecurrenceMonthly:
		if p.DayOfMonth > 0 {
			return fmt.Sprintf("%s on day %d", every("month"), p.DayOfMonth)
		}
		return every("month")
	}
	return "Custom recurrence"
}
