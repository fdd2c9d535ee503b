package handler

import (
	"log/slog"
	"net/http"

	"github.com/dukerupert/chorecal/internal/chore"
	"github.com/dukerupert/chorecal/internal/model"
	"github.com/dukerupert/chorecal/internal/recurrence"
	"github.com/dukerupert/chorecal/internal/websocket"
)

type TemplateHandler struct{ base }

func NewTemplateHandler(svc *chore.Service, hub websocket.Broadcaster, logger *slog.Logger) *TemplateHandler {
	return &TemplateHandler{base{svc: svc, hub: hub, logger: logger}}
}

type templateResponse struct {
	Template model.ChoreTemplate `json:"template"`
	Summary  string              `json:"summary"`
	RRule    string              `json:"rrule,omitempty"`
}

func (h *TemplateHandler) List(w http.ResponseWriter, r *http.Request) {
	templates := h.svc.Templates(r.Context())
	out := make([]templateResponse, 0, len(templates))
	for _, t := range templates {
		resp := templateResponse{Template: t, Summary: recurrence.Describe(t.Recurrence)}
		if t.IsRecurring() {
			if rule, err := recurrence.FromPattern(*t.Recurrence); err == nil {
				resp.RRule = rule.String()
			}
		}
		out = append(out, resp)
	}
	writeJSON(w, http.StatusOK, out)
}

// Delete removes a template with all of its instances.
func (h *TemplateHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := h.svc.DeleteTemplate(r.Context(), id); err != nil {
		writeError(w, h.logger, err, "failed to delete template")
		return
	}

	h.broadcast(websocket.NewMessage("template", "deleted", id))
	w.WriteHeader(http.StatusNoContent)
}
