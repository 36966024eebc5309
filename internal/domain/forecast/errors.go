package forecast

import "errors"

// Sentinel kinds for model fitting and prediction.
var (
	ErrInsufficientData = errors.New("insufficient training data")
	ErrAlreadyFitted    = errors.New("model already fitted")
	ErrNotFitted        = errors.New("model not fitted")
	ErrFrameMismatch    = errors.New("frame columns do not match model configuration")
	ErrSingularFit      = errors.New("normal equations are singular")
)
