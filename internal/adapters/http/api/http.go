// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/sekka-transit/sekka/internal/adapters/repository"
	"github.com/sekka-transit/sekka/internal/app"
	"github.com/sekka-transit/sekka/internal/domain/types"
	"github.com/sekka-transit/sekka/internal/domain/window"
)

// Dependencies required by the HTTP handlers. An interface bundle keeps the
// handler layer loosely coupled to the service implementation.
type Dependencies interface {
	PredictFuture(ctx context.Context, routeID string, futureHours int) ([]types.ForecastPoint, error)
	WindowForecast(ctx context.Context, routeID string, date time.Time, startHour, endHour int) (app.WindowSummary, error)
	ListRoutes(ctx context.Context) ([]string, error)
	MaxFutureHours() int
}

// Server wires HTTP routes for the forecast API.
type Server struct {
	healthHandler  *HealthHandler
	predictHandler *PredictHandler
	windowHandler  *WindowHandler
	routesHandler  *RoutesHandler
}

// NewServer creates the API server with all handlers.
func NewServer(deps Dependencies) *Server {
	return &Server{
		healthHandler:  NewHealthHandler(),
		predictHandler: NewPredictHandler(deps),
		windowHandler:  NewWindowHandler(deps),
		routesHandler:  NewRoutesHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/predict", MetricsMiddleware(s.predictHandler.HandlePredict, "predict"))
	mux.HandleFunc("/window", MetricsMiddleware(s.windowHandler.HandleWindow, "window"))
	mux.HandleFunc("/routes", MetricsMiddleware(s.routesHandler.HandleRoutes, "routes"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, statusCode int, code string, err error) {
	writeJSON(w, statusCode, errorResponse{Code: code, Message: err.Error()})
}

// writeDomainError translates pipeline failures into HTTP conditions:
// a missing model is 404, bad input 400, an empty or unforecastable window
// 422, and anything else a generic server error carrying the message.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		writeError(w, http.StatusNotFound, "model_not_found", err)
	case errors.Is(err, repository.ErrInvalidRouteID),
		errors.Is(err, app.ErrInvalidHorizon),
		errors.Is(err, window.ErrInvalidHours):
		writeError(w, http.StatusBadRequest, "bad_request", err)
	case errors.Is(err, window.ErrNothingToForecast),
		errors.Is(err, window.ErrEmptyWindow):
		writeError(w, http.StatusUnprocessableEntity, "empty_window", err)
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err)
	}
}
