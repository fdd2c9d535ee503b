package model

import (
	"encoding/json"
	"errors"
	"time"
)

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

type Status string

const (
	StatusPending Status = "pending"
	StatusDone    Status = "done"
)

type RecurrenceType string

const (
	RecurrenceDaily   RecurrenceType = "daily"
	RecurrenceWeekly  RecurrenceType = "weekly"
	RecurrenceMonthly RecurrenceType = "monthly"
	RecurrenceNone    RecurrenceType = "none"
)

// Repeats reports whether the type produces occurrences. None and unknown
// types do not.
func (t RecurrenceType) Repeats() bool {
	switch t {
	case RecurrenceDaily, RecurrenceWeekly, RecurrenceMonthly:
		return true
	}
	return false
}

// RecurrencePattern describes when a recurring chore falls due. Dates are
// calendar dates in YYYY-MM-DD form; EndDate is exclusive.
type RecurrencePattern struct {
	Type       RecurrenceType `json:"type"`
	Interval   int            `json:"interval"`
	StartDate  string         `json:"start_date"`
	EndDate    string         `json:"end_date,omitempty"`
	DaysOfWeek []int          `json:"days_of_week,omitempty"` // 0 = Sunday, weekly only
	DayOfMonth int            `json:"day_of_month,omitempty"` // 1-31, monthly only
}

// ChoreTemplate is a chore definition. A template with a nil Recurrence is a
// one-off definition; a template carrying a pattern is recurring.
type ChoreTemplate struct {
	ID            string             `json:"id"`
	Title         string             `json:"title"`
	Description   string             `json:"description"`
	AssignedTo    string             `json:"assigned_to"`
	Priority      Priority           `json:"priority"`
	EstimatedTime *int               `json:"estimated_time,omitempty"`
	Recurrence    *RecurrencePattern `json:"recurrence_pattern,omitempty"`
	CreatedAt     time.Time          `json:"created_at"`
}

func (t ChoreTemplate) RecordID() string { return t.ID }

func (t ChoreTemplate) IsRecurring() bool {
	return t.Recurrence != nil && t.Recurrence.Type.Repeats()
}

var ErrMissingPattern = errors.New("recurring template has no recurrence pattern")

type choreTemplateAlias ChoreTemplate

type choreTemplateWire struct {
	choreTemplateAlias
	IsRecurring *bool `json:"is_recurring,omitempty"`
}

func (t ChoreTemplate) MarshalJSON() ([]byte, error) {
	recurring := t.IsRecurring()
	if !recurring {
		t.Recurrence = nil
	}
	return json.Marshal(choreTemplateWire{
		choreTemplateAlias: choreTemplateAlias(t),
		IsRecurring:        &recurring,
	})
}

// UnmarshalJSON keeps the recurring flag and the pattern consistent: a
// pattern of type none or an unknown type is dropped, an explicit
// is_recurring=false drops any pattern, and is_recurring=true without a
// pattern is rejected.
func (t *ChoreTemplate) UnmarshalJSON(data []byte) error {
	var w choreTemplateWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	if w.Recurrence != nil && !w.Recurrence.Type.Repeats() {
		w.Recurrence = nil
		w.IsRecurring = nil
	}
	if w.IsRecurring != nil {
		if !*w.IsRecurring {
			w.Recurrence = nil
		} else if w.Recurrence == nil {
			return ErrMissingPattern
		}
	}
	*t = ChoreTemplate(w.choreTemplateAlias)
	return nil
}

type ChoreInstance struct {
	ID            string     `json:"id"`
	TemplateID    string     `json:"template_id,omitempty"`
	Title         string     `json:"title"`
	Description   string     `json:"description"`
	AssignedTo    string     `json:"assigned_to"`
	Priority      Priority   `json:"priority"`
	EstimatedTime *int       `json:"estimated_time,omitempty"`
	DueDate       string     `json:"due_date"`
	Status        Status     `json:"status"`
	CompletedAt   *time.Time `json:"completed_at,omitempty"`
	CompletedBy   string     `json:"completed_by,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

func (i ChoreInstance) RecordID() string { return i.ID }
