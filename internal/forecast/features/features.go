// backend-go/internal/forecast/features/features.go
package features

import (
	"math"
	"strconv"

	"github.com/andresuchdata/medforecast/backend-go/internal/domain"
)

// Observation is one period of demand history, ordered oldest first.
type Observation struct {
	Period   domain.Period
	Quantity float64
}

const (
	// LagCount is the number of lag features (lag_1 .. lag_12) and the
	// capacity of the trailing buffer the tabular strategy feeds forward.
	LagCount = 12

	// MinHistory is the number of prior periods a historical row needs before
	// every lag and rolling feature is defined. Rows with less are dropped.
	MinHistory = 12
)

var rollingMeanWindows = []int{3, 5, 6, 8}

// Columns returns the engineered feature names in model input order. The
// trained regressors were fit against exactly this ordering.
func Columns() []string {
	cols := []string{
		"year", "week_number", "month", "quarter",
		"is_year_start", "is_year_end", "sin_week", "cos_week",
	}
	for k := 1; k <= LagCount; k++ {
		cols = append(cols, "lag_"+strconv.Itoa(k))
	}
	cols = append(cols,
		"rolling_mean_3", "rolling_mean_5", "rolling_mean_6",
		"rolling_std_6", "rolling_mean_8", "rolling_std_4",
	)
	return cols
}

// Vector builds the feature row for the given target period from a
// most-recent-first trailing buffer of prior quantities. Every statistic is
// computed only from values already in the buffer, so the row is leakage-safe
// by construction.
func Vector(p domain.Period, buf *TrailingBuffer) []float64 {
	month := int(math.Ceil(float64(p.Week) / 4.33))
	if month > 12 {
		month = 12
	}
	quarter := (month-1)/3 + 1

	isYearStart := 0.0
	if p.Week <= 4 {
		isYearStart = 1.0
	}
	isYearEnd := 0.0
	if p.Week >= 48 {
		isYearEnd = 1.0
	}

	angle := 2 * math.Pi * float64(p.Week) / 52

	row := []float64{
		float64(p.Year),
		float64(p.Week),
		float64(month),
		float64(quarter),
		isYearStart,
		isYearEnd,
		math.Sin(angle),
		math.Cos(angle),
	}

	for k := 1; k <= LagCount; k++ {
		if v, ok := buf.At(k - 1); ok {
			row = append(row, v)
		} else {
			row = append(row, 0.0)
		}
	}

	row = append(row,
		buf.RollingMean(3),
		buf.RollingMean(5),
		buf.RollingMean(6),
		buf.RollingStd(6),
		buf.RollingMean(8),
		buf.RollingStd(4),
	)

	return row
}

// Matrix builds the historical feature matrix for a full demand series.
// Row i is built from the periods strictly before observation i (the series
// shifted by one), and rows whose lag/rolling features would be undefined are
// dropped, so the first MinHistory observations produce no rows. The returned
// targets align one-to-one with the rows. An empty matrix means the series is
// too short to forecast.
func Matrix(history []Observation) (rows [][]float64, targets []float64) {
	for i := MinHistory; i < len(history); i++ {
		buf := LastN(history[:i], LagCount)
		rows = append(rows, Vector(history[i].Period, buf))
		targets = append(targets, history[i].Quantity)
	}
	return rows, targets
}
