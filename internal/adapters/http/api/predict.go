package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sekka-transit/sekka/internal/domain/types"
)

// isoTimestamp formats forecast timestamps for responses.
const isoTimestamp = time.RFC3339

// predictRequest mirrors the POST /predict body.
type predictRequest struct {
	RouteID     string `json:"route_id"`
	FutureHours int    `json:"future_hours"`
}

func (p predictRequest) validate(maxHours int) error {
	if strings.TrimSpace(p.RouteID) == "" {
		return fmt.Errorf("%w: missing route_id", ErrBadRequest)
	}
	if p.FutureHours < 1 || p.FutureHours > maxHours {
		return fmt.Errorf("%w: future_hours must be in [1, %d]", ErrBadRequest, maxHours)
	}
	return nil
}

type forecastPoint struct {
	Timestamp string  `json:"timestamp"`
	Yhat      float64 `json:"yhat"`
	YhatLower float64 `json:"yhat_lower"`
	YhatUpper float64 `json:"yhat_upper"`
}

type predictResponse struct {
	RouteID string          `json:"route_id"`
	Points  []forecastPoint `json:"points"`
}

func toForecastPoints(points []types.ForecastPoint) []forecastPoint {
	out := make([]forecastPoint, len(points))
	for i, p := range points {
		out[i] = forecastPoint{
			Timestamp: p.DS.Format(isoTimestamp),
			Yhat:      p.Yhat,
			YhatLower: p.YhatLower,
			YhatUpper: p.YhatUpper,
		}
	}
	return out
}

// PredictHandler handles forecast requests.
type PredictHandler struct {
	deps Dependencies
}

// NewPredictHandler creates a new predict handler.
func NewPredictHandler(deps Dependencies) *PredictHandler {
	return &PredictHandler{deps: deps}
}

// HandlePredict handles POST /predict requests.
func (h *PredictHandler) HandlePredict(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req predictRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%w: invalid JSON body", ErrBadRequest))
		return
	}
	if err := req.validate(h.deps.MaxFutureHours()); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}

	points, err := h.deps.PredictFuture(r.Context(), req.RouteID, req.FutureHours)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, predictResponse{
		RouteID: req.RouteID,
		Points:  toForecastPoints(points),
	})
}
