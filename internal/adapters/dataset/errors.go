package dataset

import "errors"

// Sentinel kinds for dataset ingestion. A missing required column is fatal
// for the whole training run, before any route is processed.
var (
	ErrMissingColumn = errors.New("required column missing")
	ErrEmptyDataset  = errors.New("dataset has no usable rows")
)
