package handler

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/dukerupert/chorecal/internal/chore"
)

type CalendarHandler struct{ base }

func NewCalendarHandler(svc *chore.Service, logger *slog.Logger) *CalendarHandler {
	return &CalendarHandler{base{svc: svc, logger: logger}}
}

// Month returns the grid for ?year=&month= (month 1-12), defaulting to the
// current month.
func (h *CalendarHandler) Month(w http.ResponseWriter, r *http.Request) {
	now := time.Now()
	year, month := now.Year(), int(now.Month())

	q := r.URL.Query()
	if v := q.Get("year"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 9999 {
			writeMessage(w, http.StatusBadRequest, "year must be a number between 1 and 9999")
			return
		}
		year = n
	}
	if v := q.Get("month"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 12 {
			writeMessage(w, http.StatusBadRequest, "month must be a number between 1 and 12")
			return
		}
		month = n
	}

	writeJSON(w, http.StatusOK, h.svc.MonthView(r.Context(), year, time.Month(month)))
}
