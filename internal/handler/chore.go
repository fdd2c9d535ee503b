package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/dukerupert/chorecal/internal/chore"
	"github.com/dukerupert/chorecal/internal/websocket"
)

type ChoreHandler struct{ base }

func NewChoreHandler(svc *chore.Service, hub websocket.Broadcaster, logger *slog.Logger) *ChoreHandler {
	return &ChoreHandler{base{svc: svc, hub: hub, logger: logger}}
}

func outcomeMessage(action string, out chore.Outcome) websocket.Message {
	if out.Template != nil {
		msg := websocket.NewMessage("chore", action, out.Template.ID)
		msg.Count = len(out.Generated)
		return msg
	}
	return websocket.NewMessage("chore", action, out.Instance.ID)
}

// List returns the chores due on ?date=YYYY-MM-DD, or every chore without it.
func (h *ChoreHandler) List(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		writeJSON(w, http.StatusOK, h.svc.Chores(r.Context()))
		return
	}

	chores, err := h.svc.ChoresOn(r.Context(), date)
	if err != nil {
		writeError(w, h.logger, err, "failed to list chores")
		return
	}
	writeJSON(w, http.StatusOK, chores)
}

func (h *ChoreHandler) Get(w http.ResponseWriter, r *http.Request) {
	v, err := h.svc.Chore(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, h.logger, err, "failed to get chore")
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (h *ChoreHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in chore.Input
	if !decode(w, r, &in) {
		return
	}

	out, err := h.svc.CreateChore(r.Context(), in)
	if err != nil {
		writeError(w, h.logger, err, "failed to create chore")
		return
	}

	h.broadcast(outcomeMessage("created", out))
	writeJSON(w, http.StatusCreated, out)
}

func (h *ChoreHandler) Update(w http.ResponseWriter, r *http.Request) {
	var in chore.Input
	if !decode(w, r, &in) {
		return
	}

	out, err := h.svc.UpdateChore(r.Context(), r.PathValue("id"), in)
	if err != nil {
		writeError(w, h.logger, err, "failed to update chore")
		return
	}

	h.broadcast(outcomeMessage("updated", out))
	writeJSON(w, http.StatusOK, out)
}

// Delete removes one chore; ?all=true removes every occurrence of a
// recurring chore.
func (h *ChoreHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	all := false
	if v := r.URL.Query().Get("all"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			writeMessage(w, http.StatusBadRequest, "all must be true or false")
			return
		}
		all = b
	}

	if err := h.svc.DeleteChore(r.Context(), id, all); err != nil {
		writeError(w, h.logger, err, "failed to delete chore")
		return
	}

	h.broadcast(websocket.NewMessage("chore", "deleted", id))
	w.WriteHeader(http.StatusNoContent)
}

type toggleRequest struct {
	CompletedBy string `json:"completed_by"`
}

// Toggle flips a chore between pending and done. The body is optional.
func (h *ChoreHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	var req toggleRequest
	if r.ContentLength > 0 && !decode(w, r, &req) {
		return
	}

	inst, err := h.svc.ToggleStatus(r.Context(), r.PathValue("id"), req.CompletedBy)
	if err != nil {
		writeError(w, h.logger, err, "failed to toggle chore")
		return
	}

	h.broadcast(websocket.NewMessage("chore", "toggled", inst.ID))
	writeJSON(w, http.StatusOK, inst)
}
