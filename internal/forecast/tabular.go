// backend-go/internal/forecast/tabular.go
package forecast

import (
	"context"
	"fmt"
	"math"

	"github.com/andresuchdata/medforecast/backend-go/internal/domain"
	"github.com/andresuchdata/medforecast/backend-go/internal/forecast/features"
	"github.com/andresuchdata/medforecast/backend-go/internal/model"
)

// TabularStrategy forecasts with a gradient-boosted tree regressor over the
// engineered feature row of the next period. Multi-week horizons feed each
// prediction back through the trailing buffer so later weeks' lag and rolling
// features incorporate earlier predictions.
type TabularStrategy struct {
	registry model.Registry
}

func NewTabularStrategy(registry model.Registry) *TabularStrategy {
	return &TabularStrategy{registry: registry}
}

func (s *TabularStrategy) Forecast(ctx context.Context, medicineName string, history []features.Observation, horizon int) (*Result, error) {
	matrix, _ := features.Matrix(history)
	if len(matrix) == 0 {
		return nil, fmt.Errorf("%w: %d periods, need more than %d",
			ErrInsufficientHistory, len(history), features.MinHistory)
	}

	scorer, err := s.registry.Tabular(ctx, medicineName)
	if err != nil {
		return nil, err
	}

	// The standardization transform is refit on the current history every
	// invocation; it is never persisted.
	scaler := features.FitStandard(matrix)

	last := history[len(history)-1]
	buf := features.LastN(history, features.LagCount)

	result := &Result{
		MedicineName:       medicineName,
		Family:             FamilyTabular,
		LastActualPeriod:   last.Period,
		LastActualQuantity: int(math.Round(last.Quantity)),
	}

	period := last.Period
	for step := 0; step < horizon; step++ {
		period = period.Next()

		row := scaler.Transform(features.Vector(period, buf))
		raw, err := scorer.Score(row)
		if err != nil {
			return nil, fmt.Errorf("score %s for %s: %w", medicineName, period.Label(), err)
		}
		if raw < 0 {
			result.Warnings = append(result.Warnings, negativePredictionWarning(period, raw))
		}

		result.Points = append(result.Points, PredictedPoint{
			Period:   period,
			Quantity: int(math.Round(raw)),
			Raw:      raw,
		})

		// Feed the raw prediction back so the next step's lags see it.
		buf.Push(raw)
	}

	return result, nil
}

func negativePredictionWarning(p domain.Period, raw float64) string {
	return fmt.Sprintf("negative prediction %.2f for %s; check input data quality", raw, p.Label())
}
