package app

import "errors"

// Sentinel kinds for forecast requests.
var ErrInvalidHorizon = errors.New("future_hours out of range")
