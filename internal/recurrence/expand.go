// Package recurrence expands recurring chore templates into dated chore
// instances and regenerates them when a template changes.
package recurrence

import (
	"log/slog"
	"time"

	"github.com/dukerupert/chorecal/internal/calendar"
	"github.com/dukerupert/chorecal/internal/model"
)

const (
	// MaxInstances caps a single expansion. Hitting it truncates silently
	// apart from a warning log and Result.Truncated.
	MaxInstances = 365

	// DefaultHorizonMonths bounds expansion of patterns with no end date.
	DefaultHorizonMonths = 3

	// maxVisits stops rules whose inclusion test can never match from
	// walking day by day toward a distant end date.
	maxVisits = 100000
)

// Result is the outcome of an expansion.
type Result struct {
	Instances []model.ChoreInstance
	// Truncated reports that MaxInstances was reached before the end bound.
	Truncated bool
}

// InstanceID returns the deterministic id of the instance a template
// generates for dueDate, so repeated expansion overwrites rather than
// duplicates.
func InstanceID(templateID, dueDate string) string {
	return templateID + "-" + dueDate
}

// Expand produces the instances a recurring template implies, in ascending
// due-date order. Without a pattern end date, expansion runs until
// horizonMonths calendar months after now's date (DefaultHorizonMonths when
// horizonMonths <= 0). Non-recurring templates expand to nothing.
func Expand(tmpl model.ChoreTemplate, now time.Time, horizonMonths int) Result {
	return expand(tmpl, time.Time{}, now, horizonMonths)
}

// ExpandFrom is Expand limited to due dates on or after from. The pattern
// keeps its phase: weekly intervals and monthly anchors still count from the
// start date, so ExpandFrom yields a suffix of what an uncapped Expand would.
func ExpandFrom(tmpl model.ChoreTemplate, from, now time.Time, horizonMonths int) Result {
	return expand(tmpl, calendar.DateOf(from), now, horizonMonths)
}

func expand(tmpl model.ChoreTemplate, from, now time.Time, horizonMonths int) Result {
	p := tmpl.Recurrence
	if p == nil {
		return Result{}
	}
	if horizonMonths <= 0 {
		horizonMonths = DefaultHorizonMonths
	}

	start, err := calendar.ParseDate(p.StartDate)
	if err != nil {
		slog.Error("invalid recurrence start date", "template_id", tmpl.ID, "start_date", p.StartDate, "error", err)
		return Result{}
	}

	end := calendar.AddMonths(calendar.DateOf(now), horizonMonths)
	if p.EndDate != "" {
		e, err := calendar.ParseDate(p.EndDate)
		if err != nil {
			slog.Warn("invalid recurrence end date, using horizon", "template_id", tmpl.ID, "end_date", p.EndDate, "error", err)
		} else {
			end = e
		}
	}

	it := newIterator(*p, start)
	if it == nil {
		return Result{}
	}

	var res Result
	visits := 0
	for cur := it.current; cur.Before(end); cur = it.advance() {
		var bound string
		var limit int
		switch {
		case len(res.Instances) >= MaxInstances:
			bound, limit = "instances", MaxInstances
		case visits >= maxVisits:
			bound, limit = "visited_dates", maxVisits
		}
		if bound != "" {
			res.Truncated = true
			slog.Warn("recurrence expansion truncated",
				"template_id", tmpl.ID,
				"instances", len(res.Instances),
				"bound", bound,
				"limit", limit,
				"stopped_at", calendar.FormatDate(cur),
			)
			break
		}
		visits++
		if it.includes(cur) && !cur.Before(from) {
			res.Instances = append(res.Instances, newInstance(tmpl, cur, now))
		}
	}
	return res
}

func newInstance(tmpl model.ChoreTemplate, due, now time.Time) model.ChoreInstance {
	dueDate := calendar.FormatDate(due)
	var est *int
	if tmpl.EstimatedTime != nil {
		v := *tmpl.EstimatedTime
		est = &v
	}
	return model.ChoreInstance{
		ID:            InstanceID(tmpl.ID, dueDate),
		TemplateID:    tmpl.ID,
		Title:         tmpl.Title,
		Description:   tmpl.Description,
		AssignedTo:    tmpl.AssignedTo,
		Priority:      tmpl.Priority,
		EstimatedTime: est,
		DueDate:       dueDate,
		Status:        model.StatusPending,
		CreatedAt:     now,
	}
}

// iterator walks candidate dates for one pattern. The step between visits
// and the inclusion test are separate: weekly patterns visit every day and
// let includes pick the matching weekdays.
type iterator struct {
	kind     model.RecurrenceType
	start    time.Time
	interval int
	current  time.Time

	weekdays  [7]bool
	anyDay    bool
	startWeek time.Time

	monthDay    int
	anchor      time.Time // first day of the first visited month
	monthsAhead int
}

func newIterator(p model.RecurrencePattern, start time.Time) *iterator {
	it := &iterator{
		kind:     p.Type,
		start:    start,
		interval: p.Interval,
		current:  start,
	}
	if it.interval < 1 {
		it.interval = 1
	}

	switch p.Type {
	case model.RecurrenceDaily:

	case model.RecurrenceWeekly:
		it.anyDay = true
		for _, d := range p.DaysOfWeek {
			if d >= 0 && d <= 6 {
				it.weekdays[d] = true
				it.anyDay = false
			}
		}
		it.startWeek = calendar.WeekStart(start)

	case model.RecurrenceMonthly:
		it.monthDay = p.DayOfMonth
		if it.monthDay < 1 || it.monthDay > 31 {
			it.monthDay = start.Day()
		}
		// Anchor on the first month whose target day is on or after start.
		it.anchor = time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, time.UTC)
		if start.Day() > it.monthDay {
			it.anchor = it.anchor.AddDate(0, 1, 0)
		}
		it.current = it.monthVisit()

	default:
		return nil
	}
	return it
}

func (it *iterator) advance() time.Time {
	switch it.kind {
	case model.RecurrenceDaily:
		it.current = it.current.AddDate(0, 0, it.interval)
	case model.RecurrenceWeekly:
		it.current = it.current.AddDate(0, 0, 1)
	case model.RecurrenceMonthly:
		it.monthsAhead += it.interval
		it.current = it.monthVisit()
	}
	return it.current
}

// monthVisit returns the target day in the current month, clamped to the
// month's last day when the month is too short.
func (it *iterator) monthVisit() time.Time {
	first := it.anchor.AddDate(0, it.monthsAhead, 0)
	day := it.monthDay
	if last := calendar.DaysIn(first.Year(), first.Month()); day > last {
		day = last
	}
	return time.Date(first.Year(), first.Month(), day, 0, 0, 0, 0, time.UTC)
}

func (it *iterator) includes(d time.Time) bool {
	switch it.kind {
	case model.RecurrenceDaily:
		return true

	case model.RecurrenceWeekly:
		if !it.anyDay && !it.weekdays[d.Weekday()] {
			return false
		}
		weeks := int(calendar.WeekStart(d).Sub(it.startWeek).Hours() / (24 * 7))
		return weeks%it.interval == 0

	case model.RecurrenceMonthly:
		return d.Day() == it.monthDay
	}
	return false
}
