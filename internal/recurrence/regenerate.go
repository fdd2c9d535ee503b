package recurrence

import (
	"time"

	"github.com/dukerupert/chorecal/internal/calendar"
	"github.com/dukerupert/chorecal/internal/model"
)

// Regenerate resolves the instance set after tmpl was edited effective
// fromDate. Instances of other templates and instances of tmpl due before
// fromDate are kept as they are; tmpl's instances on or after fromDate are
// dropped and re-expanded from the edited pattern starting at fromDate.
// The result is kept followed by the new instances. Nothing is persisted.
func Regenerate(tmpl model.ChoreTemplate, fromDate time.Time, existing []model.ChoreInstance, now time.Time, horizonMonths int) Result {
	from := calendar.DateOf(fromDate)

	kept := make([]model.ChoreInstance, 0, len(existing))
	for _, inst := range existing {
		if inst.TemplateID != tmpl.ID || dueBefore(inst.DueDate, from) {
			kept = append(kept, inst)
		}
	}

	if !tmpl.IsRecurring() {
		return Result{Instances: kept}
	}

	p := *tmpl.Recurrence
	p.StartDate = calendar.FormatDate(from)
	tmpl.Recurrence = &p

	gen := Expand(tmpl, now, horizonMonths)
	return Result{
		Instances: append(kept, gen.Instances...),
		Truncated: gen.Truncated,
	}
}

// dueBefore reports whether dueDate precedes from. Unparsable due dates count
// as past so they are never discarded.
func dueBefore(dueDate string, from time.Time) bool {
	d, err := calendar.ParseDate(dueDate)
	if err != nil {
		return true
	}
	return d.Before(from)
}
