// Package server wires the HTTP routes, the websocket hub and the metrics
// endpoint around a chore service.
package server

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dukerupert/chorecal/internal/chore"
	"github.com/dukerupert/chorecal/internal/handler"
	"github.com/dukerupert/chorecal/internal/metrics"
	"github.com/dukerupert/chorecal/internal/middleware"
	ws "github.com/dukerupert/chorecal/internal/websocket"
)

type Server struct {
	hub         *ws.Hub
	gatherer    prometheus.Gatherer
	metrics     *metrics.Metrics
	teamMemberH *handler.TeamMemberHandler
	choreH      *handler.ChoreHandler
	templateH   *handler.TemplateHandler
	calendarH   *handler.CalendarHandler
	logger      *slog.Logger
}

// New builds the server. Metrics are served from gatherer; m may be nil.
func New(svc *chore.Service, hub *ws.Hub, gatherer prometheus.Gatherer, m *metrics.Metrics, logger *slog.Logger) *Server {
	apiLogger := logger.With("component", "api")
	return &Server{
		hub:         hub,
		gatherer:    gatherer,
		metrics:     m,
		teamMemberH: handler.NewTeamMemberHandler(svc, hub, apiLogger),
		choreH:      handler.NewChoreHandler(svc, hub, apiLogger),
		templateH:   handler.NewTemplateHandler(svc, hub, apiLogger),
		calendarH:   handler.NewCalendarHandler(svc, apiLogger),
		logger:      logger,
	}
}

func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.healthHandler)
	mux.Handle("GET /metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	mux.HandleFunc("GET /ws", ws.HandleWebSocket(s.hub))

	// Team members
	mux.HandleFunc("GET /api/team-members", s.teamMemberH.List)
	mux.HandleFunc("POST /api/team-members", s.teamMemberH.Create)
	mux.HandleFunc("GET /api/team-members/colors", s.teamMemberH.Colors)
	mux.HandleFunc("PUT /api/team-members/{id}", s.teamMemberH.Update)
	mux.HandleFunc("DELETE /api/team-members/{id}", s.teamMemberH.Delete)

	// Templates
	mux.HandleFunc("GET /api/templates", s.templateH.List)
	mux.HandleFunc("DELETE /api/templates/{id}", s.templateH.Delete)

	// Chores
	mux.HandleFunc("GET /api/chores", s.choreH.List)
	mux.HandleFunc("POST /api/chores", s.choreH.Create)
	mux.HandleFunc("GET /api/chores/{id}", s.choreH.Get)
	mux.HandleFunc("PUT /api/chores/{id}", s.choreH.Update)
	mux.HandleFunc("DELETE /api/chores/{id}", s.choreH.Delete)
	mux.HandleFunc("POST /api/chores/{id}/toggle", s.choreH.Toggle)

	mux.HandleFunc("GET /api/calendar", s.calendarH.Month)
	mux.HandleFunc("POST /api/recurrence/preview", s.choreH.Preview)

	return middleware.RequestLogger(s.logger.With("component", "http"), s.metrics)(mux)
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"status":  "ok",
		"clients": s.hub.ClientCount(),
	})
}
