package handler

import (
	"net/http"
	"time"

	"github.com/dukerupert/chorecal/internal/calendar"
	"github.com/dukerupert/chorecal/internal/chore"
	"github.com/dukerupert/chorecal/internal/model"
	"github.com/dukerupert/chorecal/internal/recurrence"
)

type previewRequest struct {
	StartDate     string                   `json:"start_date"`
	Recurrence    *model.RecurrencePattern `json:"recurrence_pattern,omitempty"`
	RRule         string                   `json:"rrule,omitempty"`
	HorizonMonths int                      `json:"horizon_months,omitempty"`
}

type previewResponse struct {
	Summary   string   `json:"summary"`
	RRule     string   `json:"rrule,omitempty"`
	Dates     []string `json:"dates"`
	Truncated bool     `json:"truncated"`
}

// Preview expands a pattern without storing anything, so the editor can show
// which dates a rule produces.
func (h *ChoreHandler) Preview(w http.ResponseWriter, r *http.Request) {
	var req previewRequest
	if !decode(w, r, &req) {
		return
	}

	start, err := calendar.ParseDate(req.StartDate)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "start_date: "+err.Error())
		return
	}

	var p model.RecurrencePattern
	switch {
	case req.Recurrence != nil:
		p = *req.Recurrence
	case req.RRule != "":
		rule, err := recurrence.Parse(req.RRule)
		if err != nil {
			writeMessage(w, http.StatusBadRequest, "rrule: "+err.Error())
			return
		}
		p = rule.Pattern(start)
	default:
		writeMessage(w, http.StatusBadRequest, "recurrence_pattern or rrule is required")
		return
	}

	pattern, err := chore.ValidatePattern(p, start)
	if err != nil {
		writeError(w, h.logger, err, "failed to preview recurrence")
		return
	}

	resp := previewResponse{Summary: recurrence.Describe(pattern), Dates: []string{}}
	if pattern == nil {
		writeJSON(w, http.StatusOK, resp)
		return
	}
	if rule, err := recurrence.FromPattern(*pattern); err == nil {
		resp.RRule = rule.String()
	}

	res := recurrence.Expand(model.ChoreTemplate{ID: "preview", Recurrence: pattern}, time.Now(), req.HorizonMonths)
	for _, inst := range res.Instances {
		resp.Dates = append(resp.Dates, inst.DueDate)
	}
	resp.Truncated = res.Truncated
	writeJSON(w, http.StatusOK, resp)
}
