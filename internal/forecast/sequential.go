// backend-go/internal/forecast/sequential.go
package forecast

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/andresuchdata/medforecast/backend-go/internal/domain"
	"github.com/andresuchdata/medforecast/backend-go/internal/forecast/features"
	"github.com/andresuchdata/medforecast/backend-go/internal/model"
)

// SequenceWindow is the trailing window length the recurrent regressors were
// trained with. An artifact reporting a different window is misconfigured.
const SequenceWindow = 4

// minSequentialHistory is the fewest aggregated periods the sequential
// strategy will forecast from.
const minSequentialHistory = 5

// SequentialStrategy forecasts with a recurrent regressor over a fixed-length
// sliding window of min-max normalized quantities, iterating the window
// forward one step per horizon week.
type SequentialStrategy struct {
	registry model.Registry
}

func NewSequentialStrategy(registry model.Registry) *SequentialStrategy {
	return &SequentialStrategy{registry: registry}
}

func (s *SequentialStrategy) Forecast(ctx context.Context, medicineName string, history []features.Observation, horizon int) (*Result, error) {
	history = aggregateByPeriod(history)
	if len(history) < minSequentialHistory {
		return nil, fmt.Errorf("%w: %d periods, need at least %d",
			ErrInsufficientHistory, len(history), minSequentialHistory)
	}

	scorer, err := s.registry.Sequential(ctx, medicineName)
	if err != nil {
		return nil, err
	}
	if scorer.WindowSize() != SequenceWindow {
		return nil, fmt.Errorf("%w: artifact window %d, engine expects %d",
			model.ErrShapeMismatch, scorer.WindowSize(), SequenceWindow)
	}

	quantities := make([]float64, len(history))
	for i, obs := range history {
		quantities[i] = obs.Quantity
	}
	scaler := features.FitMinMax(quantities)

	window := make([]float64, SequenceWindow)
	for i, v := range quantities[len(quantities)-SequenceWindow:] {
		window[i] = scaler.Scale(v)
	}

	last := history[len(history)-1]
	result := &Result{
		MedicineName:       medicineName,
		Family:             FamilySequential,
		LastActualPeriod:   last.Period,
		LastActualQuantity: int(math.Round(last.Quantity)),
	}

	period := last.Period
	for step := 0; step < horizon; step++ {
		period = period.Next()

		next, err := scorer.ScoreNext(window)
		if err != nil {
			return nil, fmt.Errorf("score %s for %s: %w", medicineName, period.Label(), err)
		}

		raw := scaler.Inverse(next)
		if raw < 0 {
			result.Warnings = append(result.Warnings, negativePredictionWarning(period, raw))
		}

		result.Points = append(result.Points, PredictedPoint{
			Period:   period,
			Quantity: int(math.Round(raw)),
			Raw:      raw,
		})

		// FIFO slide: drop the oldest normalized value, append the new one.
		copy(window, window[1:])
		window[SequenceWindow-1] = next
	}

	return result, nil
}

// aggregateByPeriod sums quantities that share a period and returns the
// series ordered oldest first.
func aggregateByPeriod(history []features.Observation) []features.Observation {
	totals := make(map[domain.Period]float64)
	for _, obs := range history {
		totals[obs.Period] += obs.Quantity
	}

	out := make([]features.Observation, 0, len(totals))
	for p, q := range totals {
		out = append(out, features.Observation{Period: p, Quantity: q})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Period.Before(out[j].Period)
	})
	return out
}
