package api

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// dateLayout parses the requested calendar date.
const dateLayout = "2006-01-02"

type windowResponse struct {
	RouteID   string          `json:"route_id"`
	Date      string          `json:"date"`
	StartHour int             `json:"start_hour"`
	EndHour   int             `json:"end_hour"`
	Average   float64         `json:"average"`
	Status    string          `json:"status"`
	Points    []forecastPoint `json:"points"`
}

// WindowHandler handles date/hour window forecast requests.
type WindowHandler struct {
	deps Dependencies
}

// NewWindowHandler creates a new window handler.
func NewWindowHandler(deps Dependencies) *WindowHandler {
	return &WindowHandler{deps: deps}
}

func parseHour(r *http.Request, key string) (int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return 0, fmt.Errorf("%w: missing %s", ErrBadRequest, key)
	}
	h, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer", ErrBadRequest, key)
	}
	return h, nil
}

// HandleWindow handles GET /window requests with query parameters
// route_id, date (YYYY-MM-DD), start_hour and end_hour.
func (h *WindowHandler) HandleWindow(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	q := r.URL.Query()
	routeID := strings.TrimSpace(q.Get("route_id"))
	if routeID == "" {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%w: missing route_id", ErrBadRequest))
		return
	}
	date, err := time.Parse(dateLayout, q.Get("date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%w: date must be YYYY-MM-DD", ErrBadRequest))
		return
	}
	startHour, err := parseHour(r, "start_hour")
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	endHour, err := parseHour(r, "end_hour")
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}

	summary, err := h.deps.WindowForecast(r.Context(), routeID, date, startHour, endHour)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, windowResponse{
		RouteID:   summary.RouteID,
		Date:      date.Format(dateLayout),
		StartHour: startHour,
		EndHour:   endHour,
		Average:   summary.Average,
		Status:    string(summary.Status),
		Points:    toForecastPoints(summary.Points),
	})
}
