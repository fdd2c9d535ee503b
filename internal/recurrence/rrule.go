package recurrence

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dukerupert/chorecal/internal/calendar"
	"github.com/dukerupert/chorecal/internal/model"
)

type Freq int

const (
	Daily Freq = iota
	Weekly
	Monthly
)

// freqs maps each frequency to its RRULE name and pattern type.
var freqs = [...]struct {
	name string
	kind model.RecurrenceType
}{
	Daily:   {"DAILY", model.RecurrenceDaily},
	Weekly:  {"WEEKLY", model.RecurrenceWeekly},
	Monthly: {"MONTHLY", model.RecurrenceMonthly},
}

// weekdayCodes is indexed by time.Weekday.
var weekdayCodes = [7]string{"SU", "MO", "TU", "WE", "TH", "FR", "SA"}

func parseWeekday(code string) (time.Weekday, bool) {
	for i, c := range weekdayCodes {
		if c == code {
			return time.Weekday(i), true
		}
	}
	return 0, false
}

// Rule is the RRULE form of a recurrence pattern, used to accept and print
// patterns as compact strings such as "FREQ=WEEKLY;INTERVAL=2;BYDAY=MO,WE".
type Rule struct {
	Freq       Freq
	Interval   int            // default 1
	ByDay      []time.Weekday // WEEKLY only; empty = every day
	ByMonthDay int            // MONTHLY only; 0 = same day as start
	Until      *time.Time     // last date that may fall due (inclusive)
}

// Parse parses an RRULE string like "FREQ=WEEKLY;BYDAY=MO,WE;INTERVAL=2".
// A leading "RRULE:" prefix is accepted and keys are case-insensitive.
func Parse(rule string) (Rule, error) {
	rule = strings.TrimPrefix(strings.TrimSpace(rule), "RRULE:")
	if rule == "" {
		return Rule{}, fmt.Errorf("empty rule")
	}

	r := Rule{Freq: -1, Interval: 1}
	for _, part := range strings.Split(rule, ";") {
		key, val, ok := strings.Cut(part, "=")
		if !ok {
			return Rule{}, fmt.Errorf("invalid rule part: %q", part)
		}
		if err := r.set(strings.ToUpper(key), strings.ToUpper(val)); err != nil {
			return Rule{}, err
		}
	}

	switch {
	case r.Freq < 0:
		return Rule{}, fmt.Errorf("FREQ is required")
	case len(r.ByDay) > 0 && r.Freq != Weekly:
		return Rule{}, fmt.Errorf("BYDAY requires FREQ=WEEKLY")
	case r.ByMonthDay > 0 && r.Freq != Monthly:
		return Rule{}, fmt.Errorf("BYMONTHDAY requires FREQ=MONTHLY")
	}
	return r, nil
}

func (r *Rule) set(key, val string) error {
	switch key {
	case "FREQ":
		for f, def := range freqs {
			if def.name == val {
				r.Freq = Freq(f)
				return nil
			}
		}
		return fmt.Errorf("unknown frequency: %q", val)

	case "INTERVAL":
		n, err := strconv.Atoi(val)
		if err != nil || n < 1 {
			return fmt.Errorf("invalid interval: %q", val)
		}
		r.Interval = n

	case "BYDAY":
		for _, code := range strings.Split(val, ",") {
			wd, ok := parseWeekday(strings.TrimSpace(code))
			if !ok {
				return fmt.Errorf("unknown day: %q", code)
			}
			r.ByDay = append(r.ByDay, wd)
		}

	case "BYMONTHDAY":
		n, err := strconv.Atoi(val)
		if err != nil || n < 1 || n > 31 {
			return fmt.Errorf("invalid BYMONTHDAY: %q", val)
		}
		r.ByMonthDay = n

	case "UNTIL":
		t, err := time.Parse("20060102T150405Z", val)
		if err != nil {
			if t, err = time.Parse("20060102", val); err != nil {
				return fmt.Errorf("invalid UNTIL: %q", val)
			}
		}
		t = calendar.DateOf(t)
		r.Until = &t

	default:
		return fmt.Errorf("unsupported rule key: %q", key)
	}
	return nil
}

// String serializes the rule back to an RRULE string. Defaults are omitted.
func (r Rule) String() string {
	var b strings.Builder
	b.WriteString("FREQ=" + freqs[r.Freq].name)
	if r.Interval > 1 {
		fmt.Fprintf(&b, ";INTERVAL=%d", r.Interval)
	}
	for i, d := range r.ByDay {
		if i == 0 {
			b.WriteString(";BYDAY=")
		} else {
			b.WriteByte(',')
		}
		b.WriteString(weekdayCodes[d])
	}
	if r.ByMonthDay > 0 {
		fmt.Fprintf(&b, ";BYMONTHDAY=%d", r.ByMonthDay)
	}
	if r.Until != nil {
		b.WriteString(";UNTIL=" + r.Until.Format("20060102"))
	}
	return b.String()
}

// Pattern converts the rule into a recurrence pattern anchored at start.
// UNTIL is inclusive while a pattern's end date is exclusive, so the end date
// is the day after UNTIL.
func (r Rule) Pattern(start time.Time) model.RecurrencePattern {
	interval := r.Interval
	if interval < 1 {
		interval = 1
	}
	p := model.RecurrencePattern{
		Type:       freqs[r.Freq].kind,
		Interval:   interval,
		StartDate:  calendar.FormatDate(start),
		DayOfMonth: r.ByMonthDay,
	}
	for _, d := range r.ByDay {
		p.DaysOfWeek = append(p.DaysOfWeek, int(d))
	}
	if r.Until != nil {
		p.EndDate = calendar.FormatDate(r.Until.AddDate(0, 0, 1))
	}
	return p
}

// FromPattern builds the RRULE form of a pattern.
func FromPattern(p model.RecurrencePattern) (Rule, error) {
	r := Rule{Interval: p.Interval, ByMonthDay: p.DayOfMonth}
	if r.Interval < 1 {
		r.Interval = 1
	}

	switch p.Type {
	case model.RecurrenceDaily:
		r.Freq = Daily
	case model.RecurrenceWeekly:
		r.Freq = Weekly
		for _, d := range p.DaysOfWeek {
			if d < 0 || d > 6 {
				return Rule{}, fmt.Errorf("invalid day of week: %d", d)
			}
			r.ByDay = append(r.ByDay, time.Weekday(d))
		}
	case model.RecurrenceMonthly:
		r.Freq = Monthly
	default:
		return Rule{}, fmt.Errorf("pattern type %q has no RRULE form", p.Type)
	}
	if p.Type != model.RecurrenceMonthly {
		r.ByMonthDay = 0
	}

	if p.EndDate != "" {
		end, err := calendar.ParseDate(p.EndDate)
		if err != nil {
			return Rule{}, err
		}
		until := end.AddDate(0, 0, -1)
		r.Until = &until
	}
	return r, nil
}
