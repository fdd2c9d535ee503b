package chore

import (
	"time"

	"github.com/dukerupert/chorecal/internal/calendar"
	"github.com/dukerupert/chorecal/internal/model"
)

// Status is the status shown for an instance. It extends the stored
// pending/done with overdue, which is derived from the due date.
type Status string

const (
	StatusPending Status = "pending"
	StatusDone    Status = "done"
	StatusOverdue Status = "overdue"
)

// ComputeStatus derives the display status of an instance as of today.
func ComputeStatus(inst model.ChoreInstance, today time.Time) Status {
	if inst.Status == model.StatusDone {
		return StatusDone
	}
	due, err := calendar.ParseDate(inst.DueDate)
	if err != nil {
		return StatusPending
	}
	if due.Before(calendar.DateOf(today)) {
		return StatusOverdue
	}
	return StatusPending
}
