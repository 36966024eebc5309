// Package types contains domain records passed between layers.
package types

import "time"

// Regressor column names in the order models expect them.
const (
	RegPublicHoliday = "is_public_holiday"
	RegSummerPeak    = "is_summer_peak"
	RegSchoolTerm    = "school_Term"
	RegSchoolExam    = "school_Exam"
	RegSchoolHoliday = "school_Holiday"
)

// RegressorNames is the fixed, ordered set of external predictor columns.
func RegressorNames() []string {
	return []string{RegPublicHoliday, RegSummerPeak, RegSchoolTerm, RegSchoolExam, RegSchoolHoliday}
}

// School term phases used by the school_term_phase column.
const (
	PhaseTerm    = "Term"
	PhaseExam    = "Exam"
	PhaseHoliday = "Holiday"
)

// Observation is a single cleaned row of the input dataset.
// HasHoliday/HasSummerPeak mark whether the optional columns were supplied
// in the source, overriding calendar derivation.
type Observation struct {
	TS    time.Time
	Level float64

	Holiday       int
	HasHoliday    bool
	SummerPeak    int
	HasSummerPeak bool
	SchoolPhase   string
}

// Metadata anchors inference for a trained route model. Immutable once
// written at the end of a training run.
type Metadata struct {
	RouteID    string    `json:"route_id"`
	LastDS     time.Time `json:"last_ds"`
	Regressors []string  `json:"regressors"`
}

// ForecastPoint is one calibrated, bounded forecast hour.
type ForecastPoint struct {
	DS        time.Time `json:"timestamp"`
	Yhat      float64   `json:"yhat"`
	YhatLower float64   `json:"yhat_lower"`
	YhatUpper float64   `json:"yhat_upper"`
}

// ReportRow is one line of the training report; exactly one per distinct
// route_id in the source dataset. Err is set on failure, metrics otherwise.
type ReportRow struct {
	RouteID   string
	MAE       float64
	RMSE      float64
	TrainRows int
	TestRows  int
	Err       string
}

// Failed reports whether the row records a route-local training failure.
func (r ReportRow) Failed() bool { return r.Err != "" }
