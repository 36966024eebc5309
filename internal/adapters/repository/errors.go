package repository

import "errors"

// Sentinel kinds for model store errors.
var (
	ErrNotFound       = errors.New("model not found for route")
	ErrInvalidRouteID = errors.New("invalid route id")
)
