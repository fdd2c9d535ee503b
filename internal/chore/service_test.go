package chore

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/dukerupert/chorecal/internal/database"
	"github.com/dukerupert/chorecal/internal/model"
	"github.com/dukerupert/chorecal/internal/store"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func setupService(t *testing.T) (*Service, *store.Store, *clock) {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	st := store.New(store.NewSQLiteBackend(db), logger)
	c := &clock{t: time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)}
	svc := NewService(st, logger, WithClock(c.now), WithHorizon(3))

	if err := st.SaveTeamMember(context.Background(), model.TeamMember{ID: "member-1", Name: "Alice", AvatarColor: "#ef4444"}); err != nil {
		t.Fatalf("seed member: %v", err)
	}
	return svc, st, c
}

func oneOff(due string) Input {
	return Input{Title: "Fix shelf", AssignedTo: "member-1", DueDate: due}
}

func daily(due string) Input {
	return Input{
		Title:      "Dishes",
		AssignedTo: "member-1",
		DueDate:    due,
		Recurrence: &model.RecurrencePattern{Type: model.RecurrenceDaily, Interval: 1},
	}
}

func countTemplate(instances []model.ChoreInstance, templateID string) int {
	n := 0
	for _, inst := range instances {
		if inst.TemplateID == templateID {
			n++
		}
	}
	return n
}

func findInstance(t *testing.T, st *store.Store, id string) model.ChoreInstance {
	t.Helper()
	inst := st.Instance(context.Background(), id)
	if inst == nil {
		t.Fatalf("instance %q not found", id)
	}
	return *inst
}

func TestCreateOneOff(t *testing.T) {
	svc, st, _ := setupService(t)
	ctx := context.Background()

	out, err := svc.CreateChore(ctx, Input{Title: "  Fix shelf ", AssignedTo: "member-1", DueDate: "2024-01-05"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if out.Template != nil || out.Instance == nil {
		t.Fatalf("outcome = %+v, want a single instance", out)
	}

	got := findInstance(t, st, out.Instance.ID)
	if !strings.HasPrefix(got.ID, "chore-") {
		t.Errorf("id = %q, want chore- prefix", got.ID)
	}
	if got.Title != "Fix shelf" {
		t.Errorf("title = %q, want trimmed", got.Title)
	}
	if got.Priority != model.PriorityMedium {
		t.Errorf("priority = %q, want medium default", got.Priority)
	}
	if got.Status != model.StatusPending || got.TemplateID != "" {
		t.Errorf("instance = %+v, want pending one-off", got)
	}
}

func TestCreateValidation(t *testing.T) {
	svc, st, _ := setupService(t)
	neg := -5

	tests := []struct {
		name string
		in   Input
	}{
		{"missing title", Input{AssignedTo: "member-1", DueDate: "2024-01-05"}},
		{"blank title", Input{Title: "   ", AssignedTo: "member-1", DueDate: "2024-01-05"}},
		{"missing assignee", Input{Title: "x", DueDate: "2024-01-05"}},
		{"missing due date", Input{Title: "x", AssignedTo: "member-1"}},
		{"bad due date", Input{Title: "x", AssignedTo: "member-1", DueDate: "01/05/2024"}},
		{"bad priority", Input{Title: "x", AssignedTo: "member-1", DueDate: "2024-01-05", Priority: "urgent"}},
		{"negative estimate", Input{Title: "x", AssignedTo: "member-1", DueDate: "2024-01-05", EstimatedTime: &neg}},
		{"bad rrule", Input{Title: "x", AssignedTo: "member-1", DueDate: "2024-01-05", RRule: "FREQ=HOURLY"}},
		{"bad type", Input{Title: "x", AssignedTo: "member-1", DueDate: "2024-01-05",
			Recurrence: &model.RecurrencePattern{Type: "yearly"}}},
		{"end before start", Input{Title: "x", AssignedTo: "member-1", DueDate: "2024-01-05",
			Recurrence: &model.RecurrencePattern{Type: model.RecurrenceDaily, EndDate: "2024-01-05"}}},
		{"bad weekday", Input{Title: "x", AssignedTo: "member-1", DueDate: "2024-01-05",
			Recurrence: &model.RecurrencePattern{Type: model.RecurrenceWeekly, DaysOfWeek: []int{7}}}},
		{"bad day of month", Input{Title: "x", AssignedTo: "member-1", DueDate: "2024-01-05",
			Recurrence: &model.RecurrencePattern{Type: model.RecurrenceMonthly, DayOfMonth: 32}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateChore(context.Background(), tt.in)
			if !errors.Is(err, ErrValidation) {
				t.Errorf("err = %v, want ErrValidation", err)
			}
		})
	}

	if got := st.Instances(context.Background()); len(got) != 0 {
		t.Errorf("invalid input stored %d instances", len(got))
	}
}

func TestCreateRecurringAnchorsAtDueDate(t *testing.T) {
	svc, st, _ := setupService(t)
	ctx := context.Background()

	in := daily("2024-01-01")
	in.Recurrence.StartDate = "2023-06-01"
	out, err := svc.CreateChore(ctx, in)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if !strings.HasPrefix(out.Template.ID, "template-") {
		t.Errorf("template id = %q", out.Template.ID)
	}
	if got := out.Template.Recurrence.StartDate; got != "2024-01-01" {
		t.Errorf("start date = %q, want the due date", got)
	}
	// Jan + Feb (leap) + Mar 2024.
	if len(out.Generated) != 91 {
		t.Errorf("generated = %d, want 91", len(out.Generated))
	}
	if n := countTemplate(st.Instances(ctx), out.Template.ID); n != 91 {
		t.Errorf("stored = %d, want 91", n)
	}
	if st.Template(ctx, out.Template.ID) == nil {
		t.Error("template not stored")
	}
}

func TestCreateFromRRule(t *testing.T) {
	svc, _, _ := setupService(t)

	out, err := svc.CreateChore(context.Background(), Input{
		Title: "Bins", AssignedTo: "member-1", DueDate: "2024-01-01", RRule: "FREQ=WEEKLY;BYDAY=MO",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if len(out.Generated) != 13 {
		t.Errorf("generated = %d, want 13 Mondays", len(out.Generated))
	}
	for _, inst := range out.Generated {
		d, _ := time.Parse("2006-01-02", inst.DueDate)
		if d.Weekday() != time.Monday {
			t.Errorf("%s is a %s", inst.DueDate, d.Weekday())
		}
	}
}

func TestCreateNoneTypeIsOneOff(t *testing.T) {
	svc, _, _ := setupService(t)

	in := oneOff("2024-01-05")
	in.Recurrence = &model.RecurrencePattern{Type: model.RecurrenceNone}
	out, err := svc.CreateChore(context.Background(), in)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if out.Template != nil || out.Instance == nil {
		t.Errorf("outcome = %+v, want one-off", out)
	}
}

func TestUpdateRecurringRegeneratesFromDueDate(t *testing.T) {
	svc, st, _ := setupService(t)
	ctx := context.Background()

	created, err := svc.CreateChore(ctx, daily("2024-01-01"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	tid := created.Template.ID
	other, err := svc.CreateChore(ctx, oneOff("2024-02-01"))
	if err != nil {
		t.Fatalf("create one-off: %v", err)
	}
	if _, err := svc.ToggleStatus(ctx, tid+"-2024-01-03", ""); err != nil {
		t.Fatalf("toggle: %v", err)
	}

	in := daily("2024-01-10")
	in.Title = "Dishes and counters"
	in.Recurrence.Interval = 2
	out, err := svc.UpdateChore(ctx, tid+"-2024-01-10", in)
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	if out.Template.ID != tid || out.Template.Title != "Dishes and counters" {
		t.Errorf("template = %+v", out.Template)
	}
	// Jan 10 .. Mar 31 every other day.
	if len(out.Generated) != 41 {
		t.Errorf("generated = %d, want 41", len(out.Generated))
	}

	instances := st.Instances(ctx)
	if n := countTemplate(instances, tid); n != 9+41 {
		t.Errorf("template instances = %d, want 50", n)
	}
	if got := findInstance(t, st, tid+"-2024-01-03"); got.Status != model.StatusDone || got.Title != "Dishes" {
		t.Errorf("past instance = %+v, want untouched and done", got)
	}
	if st.Instance(ctx, tid+"-2024-01-11") != nil {
		t.Error("off-interval day survived regeneration")
	}
	if got := findInstance(t, st, tid+"-2024-01-12"); got.Title != "Dishes and counters" {
		t.Errorf("regenerated title = %q", got.Title)
	}
	findInstance(t, st, other.Instance.ID)
}

func TestUpdateRecurringWithoutPatternDetaches(t *testing.T) {
	svc, st, _ := setupService(t)
	ctx := context.Background()

	created, err := svc.CreateChore(ctx, daily("2024-01-01"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	tid := created.Template.ID
	id := tid + "-2024-01-05"
	if _, err := svc.ToggleStatus(ctx, id, "member-1"); err != nil {
		t.Fatalf("toggle: %v", err)
	}

	in := oneOff("2024-01-06")
	in.Title = "Deep clean"
	out, err := svc.UpdateChore(ctx, id, in)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if out.Instance == nil || !strings.HasPrefix(out.Instance.ID, "chore-") {
		t.Fatalf("outcome = %+v, want a fresh chore id", out)
	}
	if st.Instance(ctx, id) != nil {
		t.Errorf("generated id %q still stored after detaching", id)
	}

	got := findInstance(t, st, out.Instance.ID)
	if got.TemplateID != "" || got.DueDate != "2024-01-06" || got.Status != model.StatusDone || got.CompletedBy != "member-1" {
		t.Errorf("detached = %+v", got)
	}
	if n := countTemplate(st.Instances(ctx), tid); n != 90 {
		t.Errorf("template instances = %d, want 90", n)
	}
}

func countID(instances []model.ChoreInstance, id string) int {
	n := 0
	for _, inst := range instances {
		if inst.ID == id {
			n++
		}
	}
	return n
}

func TestDetachedChoreSurvivesRegenerate(t *testing.T) {
	svc, st, _ := setupService(t)
	ctx := context.Background()

	created, err := svc.CreateChore(ctx, daily("2024-01-01"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	tid := created.Template.ID

	in := oneOff("2024-01-05")
	in.Title = "Deep clean"
	detached, err := svc.UpdateChore(ctx, tid+"-2024-01-05", in)
	if err != nil {
		t.Fatalf("detach: %v", err)
	}

	if _, err := svc.UpdateChore(ctx, tid+"-2024-01-03", daily("2024-01-03")); err != nil {
		t.Fatalf("regenerate: %v", err)
	}

	all := st.Instances(ctx)
	if n := countID(all, tid+"-2024-01-05"); n != 1 {
		t.Errorf("instances with id %s-2024-01-05 = %d, want 1", tid, n)
	}
	if got := findInstance(t, st, detached.Instance.ID); got.Title != "Deep clean" || got.TemplateID != "" {
		t.Errorf("detached chore = %+v", got)
	}
	if got := findInstance(t, st, tid+"-2024-01-05"); got.Title != "Dishes" || got.TemplateID != tid {
		t.Errorf("regenerated occurrence = %+v", got)
	}
}

func TestDetachedChoreSurvivesRefresh(t *testing.T) {
	svc, st, c := setupService(t)
	ctx := context.Background()

	created, err := svc.CreateChore(ctx, daily("2024-01-01"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	tid := created.Template.ID

	in := oneOff("2024-03-31")
	in.Title = "Deep clean"
	detached, err := svc.UpdateChore(ctx, tid+"-2024-03-31", in)
	if err != nil {
		t.Fatalf("detach: %v", err)
	}

	c.t = c.t.AddDate(0, 0, 1)
	if _, err := svc.RefreshHorizon(ctx); err != nil {
		t.Fatalf("refresh: %v", err)
	}

	got := findInstance(t, st, detached.Instance.ID)
	if got.Title != "Deep clean" || got.TemplateID != "" {
		t.Errorf("detached chore overwritten by refresh: %+v", got)
	}
	if n := countID(st.Instances(ctx), tid+"-2024-03-31"); n > 1 {
		t.Errorf("instances with id %s-2024-03-31 = %d, want at most 1", tid, n)
	}
}

func TestUpdateChoreWithDeletedAssignee(t *testing.T) {
	svc, st, _ := setupService(t)
	ctx := context.Background()

	recurring, err := svc.CreateChore(ctx, daily("2024-01-01"))
	if err != nil {
		t.Fatalf("create recurring: %v", err)
	}
	single, err := svc.CreateChore(ctx, oneOff("2024-01-05"))
	if err != nil {
		t.Fatalf("create one-off: %v", err)
	}
	if err := svc.DeleteMember(ctx, "member-1"); err != nil {
		t.Fatalf("delete member: %v", err)
	}

	in := oneOff("2024-01-06")
	in.Title = "Fix shelf properly"
	if _, err := svc.UpdateChore(ctx, single.Instance.ID, in); err != nil {
		t.Fatalf("update one-off: %v", err)
	}
	if got := findInstance(t, st, single.Instance.ID); got.AssignedTo != "member-1" || got.Title != "Fix shelf properly" {
		t.Errorf("one-off = %+v", got)
	}

	tid := recurring.Template.ID
	if _, err := svc.UpdateChore(ctx, tid+"-2024-01-10", daily("2024-01-10")); err != nil {
		t.Fatalf("update recurring: %v", err)
	}

	// Assignees are ids only; a chore may name a member that does not exist.
	if _, err := svc.CreateChore(ctx, Input{Title: "x", AssignedTo: "member-9", DueDate: "2024-01-05"}); err != nil {
		t.Errorf("create with unknown assignee: %v", err)
	}
}

func TestUpdateOneOffBecomesRecurring(t *testing.T) {
	svc, st, _ := setupService(t)
	ctx := context.Background()

	created, err := svc.CreateChore(ctx, oneOff("2024-03-01"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	in := daily("2024-03-01")
	out, err := svc.UpdateChore(ctx, created.Instance.ID, in)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if out.Template == nil {
		t.Fatal("expected a template")
	}
	if st.Instance(ctx, created.Instance.ID) != nil {
		t.Error("one-off should be replaced")
	}
	// Mar 1 .. Mar 31.
	if n := countTemplate(st.Instances(ctx), out.Template.ID); n != 31 {
		t.Errorf("instances = %d, want 31", n)
	}
}

func TestUpdateOneOffKeepsCompletion(t *testing.T) {
	svc, st, c := setupService(t)
	ctx := context.Background()

	created, err := svc.CreateChore(ctx, oneOff("2024-01-05"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	id := created.Instance.ID
	if _, err := svc.ToggleStatus(ctx, id, "member-1"); err != nil {
		t.Fatalf("toggle: %v", err)
	}

	c.t = c.t.Add(48 * time.Hour)
	in := oneOff("2024-01-07")
	in.Priority = model.PriorityHigh
	if _, err := svc.UpdateChore(ctx, id, in); err != nil {
		t.Fatalf("update: %v", err)
	}

	got := findInstance(t, st, id)
	if got.Status != model.StatusDone || got.CompletedAt == nil || got.CompletedBy != "member-1" {
		t.Errorf("completion lost: %+v", got)
	}
	if !got.CreatedAt.Equal(created.Instance.CreatedAt) {
		t.Errorf("created_at = %v, want %v", got.CreatedAt, created.Instance.CreatedAt)
	}
	if got.DueDate != "2024-01-07" || got.Priority != model.PriorityHigh {
		t.Errorf("edit not applied: %+v", got)
	}
}

func TestUpdateNotFound(t *testing.T) {
	svc, _, _ := setupService(t)
	_, err := svc.UpdateChore(context.Background(), "chore-missing", oneOff("2024-01-05"))
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestDeleteChore(t *testing.T) {
	svc, st, _ := setupService(t)
	ctx := context.Background()

	created, err := svc.CreateChore(ctx, daily("2024-01-01"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	tid := created.Template.ID

	if err := svc.DeleteChore(ctx, tid+"-2024-01-02", false); err != nil {
		t.Fatalf("delete one: %v", err)
	}
	if n := countTemplate(st.Instances(ctx), tid); n != 90 {
		t.Errorf("instances = %d, want 90", n)
	}
	if st.Template(ctx, tid) == nil {
		t.Error("template removed by single delete")
	}

	if err := svc.DeleteChore(ctx, tid+"-2024-01-03", true); err != nil {
		t.Fatalf("delete all: %v", err)
	}
	if n := countTemplate(st.Instances(ctx), tid); n != 0 {
		t.Errorf("instances = %d, want 0", n)
	}
	if st.Template(ctx, tid) != nil {
		t.Error("template survived delete all")
	}

	if err := svc.DeleteChore(ctx, "nope", true); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestDeleteAllOnOneOffDeletesInstance(t *testing.T) {
	svc, st, _ := setupService(t)
	ctx := context.Background()

	created, err := svc.CreateChore(ctx, oneOff("2024-01-05"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := svc.DeleteChore(ctx, created.Instance.ID, true); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if st.Instance(ctx, created.Instance.ID) != nil {
		t.Error("instance still present")
	}
}

func TestToggleStatus(t *testing.T) {
	svc, _, c := setupService(t)
	ctx := context.Background()

	created, err := svc.CreateChore(ctx, oneOff("2024-01-05"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	done, err := svc.ToggleStatus(ctx, created.Instance.ID, "member-1")
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if done.Status != model.StatusDone || done.CompletedAt == nil || !done.CompletedAt.Equal(c.t) || done.CompletedBy != "member-1" {
		t.Errorf("done = %+v", done)
	}

	reopened, err := svc.ToggleStatus(ctx, created.Instance.ID, "")
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if reopened.Status != model.StatusPending || reopened.CompletedAt != nil || reopened.CompletedBy != "" {
		t.Errorf("reopened = %+v", reopened)
	}

	if _, err := svc.ToggleStatus(ctx, "nope", ""); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestMonthView(t *testing.T) {
	svc, _, c := setupService(t)
	ctx := context.Background()
	c.t = time.Date(2024, 1, 10, 8, 0, 0, 0, time.UTC)

	late, err := svc.CreateChore(ctx, oneOff("2024-01-05"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.CreateChore(ctx, oneOff("2024-01-20")); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.CreateChore(ctx, oneOff("2024-02-01")); err != nil {
		t.Fatalf("create: %v", err)
	}

	view := svc.MonthView(ctx, 2024, time.January)
	if view.Title != "January 2024" {
		t.Errorf("title = %q", view.Title)
	}
	if len(view.Days) != 35 {
		t.Fatalf("days = %d, want 35", len(view.Days))
	}

	byKey := make(map[string]DayView)
	for _, d := range view.Days {
		byKey[d.Key] = d
	}

	d5 := byKey["2024-01-05"]
	if len(d5.Chores) != 1 || d5.Chores[0].ID != late.Instance.ID {
		t.Fatalf("Jan 5 chores = %+v", d5.Chores)
	}
	if d5.Chores[0].DisplayStatus != StatusOverdue {
		t.Errorf("Jan 5 status = %q, want overdue", d5.Chores[0].DisplayStatus)
	}
	if d5.Chores[0].MemberName != "Alice" || d5.Chores[0].MemberColor != "#ef4444" {
		t.Errorf("member fields = %+v", d5.Chores[0])
	}
	if got := byKey["2024-01-20"].Chores; len(got) != 1 || got[0].DisplayStatus != StatusPending {
		t.Errorf("Jan 20 chores = %+v", got)
	}
	// Feb 1 is a trailing cell of the January grid.
	if feb := byKey["2024-02-01"]; feb.InMonth || len(feb.Chores) != 1 {
		t.Errorf("Feb 1 cell = %+v", feb)
	}
	if !byKey["2024-01-10"].IsToday {
		t.Error("Jan 10 should be today")
	}
}

func TestChoresOn(t *testing.T) {
	svc, _, _ := setupService(t)
	ctx := context.Background()

	if _, err := svc.CreateChore(ctx, daily("2024-01-01")); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.CreateChore(ctx, oneOff("2024-01-02")); err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := svc.ChoresOn(ctx, "2024-01-02")
	if err != nil {
		t.Fatalf("chores on: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("chores = %d, want 2", len(got))
	}
	if _, err := svc.ChoresOn(ctx, "tomorrow"); !errors.Is(err, ErrValidation) {
		t.Errorf("err = %v, want ErrValidation", err)
	}
}

func TestRefreshHorizon(t *testing.T) {
	svc, st, c := setupService(t)
	ctx := context.Background()

	created, err := svc.CreateChore(ctx, daily("2024-01-01"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	tid := created.Template.ID
	if _, err := svc.ToggleStatus(ctx, tid+"-2024-03-01", ""); err != nil {
		t.Fatalf("toggle: %v", err)
	}

	c.t = time.Date(2024, 2, 15, 9, 0, 0, 0, time.UTC)
	added, err := svc.RefreshHorizon(ctx)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	// Apr 1 .. May 14.
	if added != 44 {
		t.Errorf("added = %d, want 44", added)
	}
	if got := findInstance(t, st, tid+"-2024-03-01"); got.Status != model.StatusDone {
		t.Error("refresh overwrote an existing instance")
	}
	findInstance(t, st, tid+"-2024-05-14")

	again, err := svc.RefreshHorizon(ctx)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if again != 0 {
		t.Errorf("second refresh added %d, want 0", again)
	}
}

func TestRefreshHorizonKeepsDeletedOccurrences(t *testing.T) {
	svc, st, c := setupService(t)
	ctx := context.Background()

	created, err := svc.CreateChore(ctx, daily("2024-01-01"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	tid := created.Template.ID
	if err := svc.DeleteChore(ctx, tid+"-2024-03-10", false); err != nil {
		t.Fatalf("delete: %v", err)
	}

	c.t = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	added, err := svc.RefreshHorizon(ctx)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	// Apr 1 .. May 31.
	if added != 61 {
		t.Errorf("added = %d, want 61", added)
	}
	if st.Instance(ctx, tid+"-2024-03-10") != nil {
		t.Error("refresh recreated a deleted occurrence")
	}
}

func TestDeleteTemplate(t *testing.T) {
	svc, st, _ := setupService(t)
	ctx := context.Background()

	created, err := svc.CreateChore(ctx, daily("2024-01-01"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if len(svc.Templates(ctx)) != 1 {
		t.Fatalf("templates = %d, want 1", len(svc.Templates(ctx)))
	}
	if err := svc.DeleteTemplate(ctx, created.Template.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(st.Instances(ctx)) != 0 {
		t.Error("instances survived template delete")
	}
	if err := svc.DeleteTemplate(ctx, created.Template.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}
