// backend-go/internal/forecast/types.go
package forecast

import (
	"errors"

	"github.com/andresuchdata/medforecast/backend-go/internal/domain"
)

// Family identifies which model family a medicine is routed to.
type Family string

const (
	FamilyTabular    Family = "tabular"
	FamilySequential Family = "sequential"
)

var (
	// ErrInsufficientHistory means the series is too short to build the
	// features or window the model needs. The medicine is skipped.
	ErrInsufficientHistory = errors.New("insufficient sales history")

	// ErrNotConfigured means the medicine is assigned to neither model
	// family. Callers treat this as skip, not error.
	ErrNotConfigured = errors.New("medicine not configured for forecasting")
)

// PredictedPoint is one horizon step of a forecast.
type PredictedPoint struct {
	Period   domain.Period `json:"period"`
	Quantity int           `json:"quantity"`
	Raw      float64       `json:"raw"`
}

// Result is a completed forecast for one medicine.
type Result struct {
	MedicineName       string           `json:"medicine_name"`
	Family             Family           `json:"model_family"`
	LastActualPeriod   domain.Period    `json:"last_actual_period"`
	LastActualQuantity int              `json:"last_actual_quantity"`
	Points             []PredictedPoint `json:"points"`
	Warnings           []string         `json:"warnings,omitempty"`
}

// NextDemand is the first-step prediction, the value that feeds the reorder
// level calculation and the persisted record.
func (r *Result) NextDemand() int {
	if len(r.Points) == 0 {
		return 0
	}
	return r.Points[0].Quantity
}

// OutcomeStatus classifies one medicine's fate within a batch run.
type OutcomeStatus string

const (
	OutcomePredicted OutcomeStatus = "predicted"
	OutcomeSkipped   OutcomeStatus = "skipped"
	OutcomeFailed    OutcomeStatus = "failed"
)

// Outcome is the structured per-medicine result the dispatcher boundary
// produces instead of raising.
type Outcome struct {
	MedicineName string        `json:"medicine_name"`
	Status       OutcomeStatus `json:"status"`
	Reason       string        `json:"reason,omitempty"`
	Result       *Result       `json:"result,omitempty"`
}

// Summary aggregates the outcomes of one batch run.
type Summary struct {
	Predicted int       `json:"predicted"`
	Skipped   int       `json:"skipped"`
	Failed    int       `json:"failed"`
	Outcomes  []Outcome `json:"outcomes"`
}

// Add folds one outcome into the summary counters.
func (s *Summary) Add(o Outcome) {
	s.Outcomes = append(s.Outcomes, o)
	switch o.Status {
	case OutcomePredicted:
		s.Predicted++
	case OutcomeSkipped:
		s.Skipped++
	case OutcomeFailed:
		s.Failed++
	}
}
