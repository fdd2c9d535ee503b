package handler

import (
	"log/slog"
	"net/http"

	"github.com/dukerupert/chorecal/internal/chore"
	"github.com/dukerupert/chorecal/internal/model"
	"github.com/dukerupert/chorecal/internal/websocket"
)

type TeamMemberHandler struct{ base }

func NewTeamMemberHandler(svc *chore.Service, hub websocket.Broadcaster, logger *slog.Logger) *TeamMemberHandler {
	return &TeamMemberHandler{base{svc: svc, hub: hub, logger: logger}}
}

type teamMemberRequest struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	AvatarColor string `json:"avatar_color"`
}

func (h *TeamMemberHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.Members(r.Context()))
}

func (h *TeamMemberHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req teamMemberRequest
	if !decode(w, r, &req) {
		return
	}

	m, err := h.svc.SaveMember(r.Context(), model.TeamMember{
		Name: req.Name, Email: req.Email, AvatarColor: req.AvatarColor,
	})
	if err != nil {
		writeError(w, h.logger, err, "failed to create team member")
		return
	}

	h.broadcast(websocket.NewMessage("team_member", "created", m.ID))
	writeJSON(w, http.StatusCreated, m)
}

func (h *TeamMemberHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req teamMemberRequest
	if !decode(w, r, &req) {
		return
	}

	m, err := h.svc.SaveMember(r.Context(), model.TeamMember{
		ID: r.PathValue("id"), Name: req.Name, Email: req.Email, AvatarColor: req.AvatarColor,
	})
	if err != nil {
		writeError(w, h.logger, err, "failed to update team member")
		return
	}

	h.broadcast(websocket.NewMessage("team_member", "updated", m.ID))
	writeJSON(w, http.StatusOK, m)
}

func (h *TeamMemberHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := h.svc.DeleteMember(r.Context(), id); err != nil {
		writeError(w, h.logger, err, "failed to delete team member")
		return
	}

	h.broadcast(websocket.NewMessage("team_member", "deleted", id))
	w.WriteHeader(http.StatusNoContent)
}

// Colors lists the avatar palette offered by the member form.
func (h *TeamMemberHandler) Colors(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, chore.AvatarColors)
}
