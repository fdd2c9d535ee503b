package chore

import (
	"context"
	"time"

	"github.com/dukerupert/chorecal/internal/calendar"
	"github.com/dukerupert/chorecal/internal/model"
)

// ChoreView is an instance as shown on the calendar.
type ChoreView struct {
	model.ChoreInstance
	DisplayStatus Status `json:"display_status"`
	MemberName    string `json:"member_name,omitempty"`
	MemberColor   string `json:"member_color,omitempty"`
	Recurring     bool   `json:"recurring"`
}

type DayView struct {
	calendar.Day
	Chores []ChoreView `json:"chores"`
}

type MonthView struct {
	Year  int        `json:"year"`
	Month time.Month `json:"month"`
	Title string     `json:"title"` // "January 2024"
	Days  []DayView  `json:"days"`
}

func (s *Service) views(data model.AppData, instances []model.ChoreInstance, today time.Time) []ChoreView {
	members := make(map[string]model.TeamMember, len(data.TeamMembers))
	for _, m := range data.TeamMembers {
		members[m.ID] = m
	}

	out := make([]ChoreView, 0, len(instances))
	for _, inst := range instances {
		v := ChoreView{
			ChoreInstance: inst,
			DisplayStatus: ComputeStatus(inst, today),
			Recurring:     inst.TemplateID != "",
		}
		if m, ok := members[inst.AssignedTo]; ok {
			v.MemberName = m.Name
			v.MemberColor = m.AvatarColor
		}
		out = append(out, v)
	}
	return out
}

// MonthView builds the calendar grid for a month with each day's chores.
// Chores are matched to cells by exact due date; instances whose due date
// is not a canonical date appear on no day.
func (s *Service) MonthView(ctx context.Context, year int, month time.Month) MonthView {
	now := s.now()
	data := s.repo.Data(ctx)

	byDate := make(map[string][]model.ChoreInstance)
	for _, inst := range data.ChoreInstances {
		byDate[inst.DueDate] = append(byDate[inst.DueDate], inst)
	}

	grid := calendar.Grid(year, month, now)
	days := make([]DayView, len(grid))
	for i, d := range grid {
		days[i] = DayView{Day: d, Chores: s.views(data, byDate[d.Key], now)}
	}

	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return MonthView{
		Year:  first.Year(),
		Month: first.Month(),
		Title: first.Format("January 2006"),
		Days:  days,
	}
}

// ChoresOn returns the chores due on the given canonical date.
func (s *Service) ChoresOn(ctx context.Context, date string) ([]ChoreView, error) {
	d, err := calendar.ParseDate(date)
	if err != nil {
		return nil, invalid("date: %v", err)
	}
	key := calendar.FormatDate(d)

	data := s.repo.Data(ctx)
	var due []model.ChoreInstance
	for _, inst := range data.ChoreInstances {
		if inst.DueDate == key {
			due = append(due, inst)
		}
	}
	return s.views(data, due, s.now()), nil
}

// Chore returns one instance with its display fields.
func (s *Service) Chore(ctx context.Context, id string) (ChoreView, error) {
	data := s.repo.Data(ctx)
	for _, inst := range data.ChoreInstances {
		if inst.ID == id {
			return s.views(data, []model.ChoreInstance{inst}, s.now())[0], nil
		}
	}
	return ChoreView{}, ErrNotFound
}

// Chores returns every instance with its display fields, in stored order.
func (s *Service) Chores(ctx context.Context) []ChoreView {
	data := s.repo.Data(ctx)
	return s.views(data, data.ChoreInstances, s.now())
}
