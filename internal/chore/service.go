// Package chore implements the chore operations behind the API: creating
// and editing chores (one-off or recurring), toggling completion, deleting
// occurrences, and assembling the month view.
package chore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dukerupert/chorecal/internal/calendar"
	"github.com/dukerupert/chorecal/internal/metrics"
	"github.com/dukerupert/chorecal/internal/model"
	"github.com/dukerupert/chorecal/internal/recurrence"
	"github.com/dukerupert/chorecal/internal/store"
)

var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("not found")
)

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// Repository is the persistence the service needs. *store.Store satisfies it.
type Repository interface {
	Data(ctx context.Context) model.AppData
	Update(ctx context.Context, fn func(tx *store.Tx) error) error
}

type Service struct {
	repo          Repository
	logger        *slog.Logger
	metrics       *metrics.Metrics
	horizonMonths int
	now           func() time.Time
}

type Option func(*Service)

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithHorizon sets how many months ahead open-ended patterns are expanded.
func WithHorizon(months int) Option {
	return func(s *Service) { s.horizonMonths = months }
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(repo Repository, logger *slog.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Service{
		repo:          repo,
		logger:        logger.With("component", "chore"),
		horizonMonths: recurrence.DefaultHorizonMonths,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Input is a chore as submitted by the editor. A nil Recurrence with an
// empty RRule makes a one-off chore; otherwise the chore recurs starting at
// DueDate.
type Input struct {
	Title         string                   `json:"title"`
	Description   string                   `json:"description"`
	AssignedTo    string                   `json:"assigned_to"`
	Priority      model.Priority           `json:"priority"`
	EstimatedTime *int                     `json:"estimated_time,omitempty"`
	DueDate       string                   `json:"due_date"`
	Recurrence    *model.RecurrencePattern `json:"recurrence_pattern,omitempty"`
	RRule         string                   `json:"rrule,omitempty"`
}

// normalize trims and validates the input and resolves the recurrence
// pattern, anchoring it at the due date.
func (in Input) normalize() (Input, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	in.AssignedTo = strings.TrimSpace(in.AssignedTo)
	in.DueDate = strings.TrimSpace(in.DueDate)

	if in.Title == "" {
		return in, invalid("title is required")
	}
	if in.AssignedTo == "" {
		return in, invalid("assigned_to is required")
	}
	if in.DueDate == "" {
		return in, invalid("due_date is required")
	}
	due, err := calendar.ParseDate(in.DueDate)
	if err != nil {
		return in, invalid("due_date: %v", err)
	}
	in.DueDate = calendar.FormatDate(due)

	if in.Priority == "" {
		in.Priority = model.PriorityMedium
	}
	if !in.Priority.Valid() {
		return in, invalid("priority must be low, medium or high")
	}
	if in.EstimatedTime != nil && *in.EstimatedTime <= 0 {
		return in, invalid("estimated_time must be positive")
	}

	if in.Recurrence == nil && in.RRule != "" {
		rule, err := recurrence.Parse(in.RRule)
		if err != nil {
			return in, invalid("rrule: %v", err)
		}
		p := rule.Pattern(due)
		in.Recurrence = &p
	}
	if in.Recurrence != nil {
		p, err := ValidatePattern(*in.Recurrence, due)
		if err != nil {
			return in, err
		}
		in.Recurrence = p
	}
	return in, nil
}

// ValidatePattern checks a submitted pattern and returns a copy anchored at
// start. A pattern of type none yields nil: the chore does not repeat.
func ValidatePattern(p model.RecurrencePattern, start time.Time) (*model.RecurrencePattern, error) {
	switch p.Type {
	case model.RecurrenceNone:
		return nil, nil
	case model.RecurrenceDaily, model.RecurrenceWeekly, model.RecurrenceMonthly:
	default:
		return nil, invalid("unknown recurrence type %q", p.Type)
	}

	if p.Interval == 0 {
		p.Interval = 1
	}
	if p.Interval < 0 {
		return nil, invalid("interval must be at least 1")
	}
	p.StartDate = calendar.FormatDate(start)

	if p.EndDate != "" {
		end, err := calendar.ParseDate(p.EndDate)
		if err != nil {
			return nil, invalid("end_date: %v", err)
		}
		if !end.After(start) {
			return nil, invalid("end_date must be after the due date")
		}
		p.EndDate = calendar.FormatDate(end)
	}

	if p.Type == model.RecurrenceWeekly {
		for _, d := range p.DaysOfWeek {
			if d < 0 || d > 6 {
				return nil, invalid("days_of_week values must be 0-6")
			}
		}
	} else {
		p.DaysOfWeek = nil
	}

	if p.Type == model.RecurrenceMonthly {
		if p.DayOfMonth < 0 || p.DayOfMonth > 31 {
			return nil, invalid("day_of_month must be 1-31")
		}
	} else {
		p.DayOfMonth = 0
	}
	return &p, nil
}

// Outcome describes what a create or update wrote.
type Outcome struct {
	Template  *model.ChoreTemplate  `json:"template,omitempty"`
	Instance  *model.ChoreInstance  `json:"instance,omitempty"`
	Generated []model.ChoreInstance `json:"generated,omitempty"`
	Truncated bool                  `json:"truncated"`
}

func (s *Service) expanded(tmpl model.ChoreTemplate, res recurrence.Result) {
	s.metrics.ObserveExpansion(len(res.Instances), res.Truncated)
	s.logger.Debug("expanded template", "template_id", tmpl.ID, "instances", len(res.Instances), "truncated", res.Truncated)
}

func (s *Service) newTemplate(in Input, now time.Time) model.ChoreTemplate {
	return model.ChoreTemplate{
		ID:            "template-" + uuid.NewString(),
		Title:         in.Title,
		Description:   in.Description,
		AssignedTo:    in.AssignedTo,
		Priority:      in.Priority,
		EstimatedTime: in.EstimatedTime,
		Recurrence:    in.Recurrence,
		CreatedAt:     now,
	}
}

// CreateChore stores a new chore. A recurring chore becomes a template whose
// instances are expanded up to the horizon; a one-off chore becomes a single
// instance.
func (s *Service) CreateChore(ctx context.Context, in Input) (Outcome, error) {
	in, err := in.normalize()
	if err != nil {
		return Outcome{}, err
	}
	now := s.now()

	var out Outcome
	err = s.repo.Update(ctx, func(tx *store.Tx) error {
		if in.Recurrence == nil {
			inst := model.ChoreInstance{
				ID:            "chore-" + uuid.NewString(),
				Title:         in.Title,
				Description:   in.Description,
				AssignedTo:    in.AssignedTo,
				Priority:      in.Priority,
				EstimatedTime: in.EstimatedTime,
				DueDate:       in.DueDate,
				Status:        model.StatusPending,
				CreatedAt:     now,
			}
			tx.SaveInstance(inst)
			out.Instance = &inst
			return nil
		}

		tmpl := s.newTemplate(in, now)
		res := recurrence.Expand(tmpl, now, s.horizonMonths)
		tx.SaveTemplate(tmpl)
		tx.SaveInstances(res.Instances)
		out = Outcome{Template: &tmpl, Generated: res.Instances, Truncated: res.Truncated}
		return nil
	})
	if err != nil {
		return Outcome{}, err
	}

	if out.Template != nil {
		s.expanded(*out.Template, recurrence.Result{Instances: out.Generated, Truncated: out.Truncated})
		s.logger.Info("recurring chore created", "template_id", out.Template.ID, "instances", len(out.Generated))
	} else {
		s.logger.Info("chore created", "chore_id", out.Instance.ID, "due_date", out.Instance.DueDate)
	}
	return out, nil
}

// UpdateChore applies an edit made on one instance.
//
// Editing an occurrence of a recurring chore edits its template effective
// from the new due date: earlier occurrences are kept and later ones are
// regenerated. Submitting it without a pattern detaches that one occurrence
// as a one-off. Giving a one-off chore a pattern replaces it with a new
// recurring template. Other edits update the instance in place, keeping its
// completion state.
func (s *Service) UpdateChore(ctx context.Context, id string, in Input) (Outcome, error) {
	in, err := in.normalize()
	if err != nil {
		return Outcome{}, err
	}
	now := s.now()

	var out Outcome
	err = s.repo.Update(ctx, func(tx *store.Tx) error {
		inst, ok := tx.Instance(id)
		if !ok {
			return fmt.Errorf("chore %q: %w", id, ErrNotFound)
		}

		tmpl, hasTemplate := tx.Template(inst.TemplateID)

		switch {
		case hasTemplate && in.Recurrence != nil:
			tmpl.Title = in.Title
			tmpl.Description = in.Description
			tmpl.AssignedTo = in.AssignedTo
			tmpl.Priority = in.Priority
			tmpl.EstimatedTime = in.EstimatedTime
			tmpl.Recurrence = in.Recurrence

			from, _ := calendar.ParseDate(in.DueDate)
			res := recurrence.Regenerate(tmpl, from, tx.Instances(), now, s.horizonMonths)
			tx.SaveTemplate(tmpl)
			tx.ReplaceInstances(res.Instances)

			gen := res.Instances[len(res.Instances)-generatedCount(res.Instances, tmpl.ID, from):]
			out = Outcome{Template: &tmpl, Generated: gen, Truncated: res.Truncated}
			return nil

		case !hasTemplate && in.Recurrence != nil:
			nt := s.newTemplate(in, now)
			res := recurrence.Expand(nt, now, s.horizonMonths)
			tx.DeleteInstance(inst.ID)
			tx.SaveTemplate(nt)
			tx.SaveInstances(res.Instances)
			out = Outcome{Template: &nt, Generated: res.Instances, Truncated: res.Truncated}
			return nil
		}

		if inst.TemplateID != "" {
			// A detached occurrence must not keep the generated id, or a later
			// expansion of the template would produce it again.
			tx.DeleteInstance(inst.ID)
			inst.ID = "chore-" + uuid.NewString()
			inst.TemplateID = ""
		}
		inst.Title = in.Title
		inst.Description = in.Description
		inst.AssignedTo = in.AssignedTo
		inst.Priority = in.Priority
		inst.EstimatedTime = in.EstimatedTime
		inst.DueDate = in.DueDate
		tx.SaveInstance(inst)
		out.Instance = &inst
		return nil
	})
	if err != nil {
		return Outcome{}, err
	}

	if out.Template != nil {
		s.expanded(*out.Template, recurrence.Result{Instances: out.Generated, Truncated: out.Truncated})
		s.logger.Info("recurring chore updated", "template_id", out.Template.ID, "instances", len(out.Generated))
	} else {
		s.logger.Info("chore updated", "chore_id", out.Instance.ID)
	}
	return out, nil
}

// generatedCount counts the trailing instances Regenerate appended for
// templateID, which are exactly the ones due on or after from.
func generatedCount(instances []model.ChoreInstance, templateID string, from time.Time) int {
	n := 0
	for i := len(instances) - 1; i >= 0; i-- {
		inst := instances[i]
		if inst.TemplateID != templateID {
			break
		}
		d, err := calendar.ParseDate(inst.DueDate)
		if err != nil || d.Before(from) {
			break
		}
		n++
	}
	return n
}

// DeleteChore removes one instance, or with allOccurrences every instance
// of its recurring chore together with the template.
func (s *Service) DeleteChore(ctx context.Context, id string, allOccurrences bool) error {
	var templateID string
	err := s.repo.Update(ctx, func(tx *store.Tx) error {
		inst, ok := tx.Instance(id)
		if !ok {
			return fmt.Errorf("chore %q: %w", id, ErrNotFound)
		}
		if allOccurrences && inst.TemplateID != "" {
			templateID = inst.TemplateID
			tx.DeleteTemplate(inst.TemplateID)
			return nil
		}
		tx.DeleteInstance(id)
		return nil
	})
	if err != nil {
		return err
	}

	if templateID != "" {
		s.logger.Info("recurring chore deleted", "template_id", templateID)
	} else {
		s.logger.Info("chore deleted", "chore_id", id)
	}
	return nil
}

// ToggleStatus flips an instance between pending and done. Completing it
// records the time and, when given, who completed it; reopening clears both.
func (s *Service) ToggleStatus(ctx context.Context, id, completedBy string) (model.ChoreInstance, error) {
	now := s.now()
	var inst model.ChoreInstance
	err := s.repo.Update(ctx, func(tx *store.Tx) error {
		var ok bool
		inst, ok = tx.Instance(id)
		if !ok {
			return fmt.Errorf("chore %q: %w", id, ErrNotFound)
		}
		if inst.Status == model.StatusDone {
			inst.Status = model.StatusPending
			inst.CompletedAt = nil
			inst.CompletedBy = ""
		} else {
			inst.Status = model.StatusDone
			inst.CompletedAt = &now
			inst.CompletedBy = strings.TrimSpace(completedBy)
		}
		tx.SaveInstance(inst)
		return nil
	})
	if err != nil {
		return model.ChoreInstance{}, err
	}
	s.logger.Info("chore status toggled", "chore_id", id, "status", inst.Status)
	return inst, nil
}

// RefreshHorizon tops up every recurring template so its instances reach the
// current horizon. Only occurrences after the template's last stored instance
// (and not before today) are added, so existing instances keep their state
// and individually deleted occurrences stay deleted. It returns the number of
// instances added.
func (s *Service) RefreshHorizon(ctx context.Context) (int, error) {
	now := s.now()
	today := calendar.DateOf(now)
	added := 0
	err := s.repo.Update(ctx, func(tx *store.Tx) error {
		last := make(map[string]time.Time)
		for _, inst := range tx.Instances() {
			if inst.TemplateID == "" {
				continue
			}
			d, err := calendar.ParseDate(inst.DueDate)
			if err != nil {
				continue
			}
			if d.After(last[inst.TemplateID]) {
				last[inst.TemplateID] = d
			}
		}
		for _, tmpl := range tx.Templates() {
			if !tmpl.IsRecurring() {
				continue
			}
			from := today
			if l, ok := last[tmpl.ID]; ok && !l.Before(from) {
				from = l.AddDate(0, 0, 1)
			}
			res := recurrence.ExpandFrom(tmpl, from, now, s.horizonMonths)
			if len(res.Instances) == 0 {
				continue
			}
			s.expanded(tmpl, res)
			tx.SaveInstances(res.Instances)
			added += len(res.Instances)
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("refresh horizon: %w", err)
	}
	s.logger.Info("horizon refreshed", "added", added)
	return added, nil
}

// Templates returns every stored chore template.
func (s *Service) Templates(ctx context.Context) []model.ChoreTemplate {
	return s.repo.Data(ctx).ChoreTemplates
}

// DeleteTemplate removes a template and all its instances.
func (s *Service) DeleteTemplate(ctx context.Context, id string) error {
	err := s.repo.Update(ctx, func(tx *store.Tx) error {
		if _, ok := tx.Template(id); !ok {
			return fmt.Errorf("template %q: %w", id, ErrNotFound)
		}
		tx.DeleteTemplate(id)
		return nil
	})
	if err != nil {
		return err
	}
	s.logger.Info("template deleted", "template_id", id)
	return nil
}
