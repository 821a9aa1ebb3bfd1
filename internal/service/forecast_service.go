// backend-go/internal/service/forecast_service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/andresuchdata/medforecast/backend-go/internal/alert"
	"github.com/andresuchdata/medforecast/backend-go/internal/cache"
	"github.com/andresuchdata/medforecast/backend-go/internal/domain"
	"github.com/andresuchdata/medforecast/backend-go/internal/forecast"
	"github.com/andresuchdata/medforecast/backend-go/internal/forecast/features"
	"github.com/andresuchdata/medforecast/backend-go/internal/model"
	"github.com/andresuchdata/medforecast/backend-go/internal/repository"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// BatchReport is what one full pipeline run returns to the caller: the
// per-medicine forecast summary plus the alert reconciliation report.
type BatchReport struct {
	Forecasts forecast.Summary `json:"forecasts"`
	Alerts    alert.RunReport  `json:"alerts"`
}

type ForecastService struct {
	medicines   repository.MedicineRepository
	sales       repository.SalesRepository
	predictions repository.PredictionRepository
	dispatcher  *forecast.Dispatcher
	alerts      *alert.Manager
	cache       cache.PredictionCache
	workers     int
}

func NewForecastService(
	medicines repository.MedicineRepository,
	sales repository.SalesRepository,
	predictions repository.PredictionRepository,
	dispatcher *forecast.Dispatcher,
	alerts *alert.Manager,
	cacheImpl cache.PredictionCache,
	workers int,
) *ForecastService {
	if cacheImpl == nil {
		cacheImpl = cache.NewNoopPredictionCache()
	}
	if workers < 1 {
		workers = 1
	}
	return &ForecastService{
		medicines:   medicines,
		sales:       sales,
		predictions: predictions,
		dispatcher:  dispatcher,
		alerts:      alerts,
		cache:       cacheImpl,
		workers:     workers,
	}
}

// RunBatch forecasts every medicine, persists predictions with their reorder
// levels, then reconciles alerts. Medicines are independent, so forecasting
// runs on a bounded worker pool; one medicine failing never aborts the rest.
func (s *ForecastService) RunBatch(ctx context.Context, horizon int) (*BatchReport, error) {
	medicines, err := s.medicines.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list medicines: %w", err)
	}

	var (
		mu      sync.Mutex
		summary forecast.Summary
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)

	for _, med := range medicines {
		g.Go(func() error {
			outcome := s.forecastOne(gctx, med, horizon)

			mu.Lock()
			summary.Add(outcome)
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	log.Info().
		Int("predicted", summary.Predicted).
		Int("skipped", summary.Skipped).
		Int("failed", summary.Failed).
		Msg("forecast batch completed")

	alertReport, err := s.alerts.Run(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.cache.InvalidateAll(ctx); err != nil {
		log.Warn().Err(err).Msg("prediction cache invalidation failed")
	}

	return &BatchReport{Forecasts: summary, Alerts: *alertReport}, nil
}

// forecastOne runs the full per-medicine pipeline and converts every failure
// mode into a structured outcome. This is the dispatcher boundary the error
// policy hangs on: nothing raised here escapes the batch.
func (s *ForecastService) forecastOne(ctx context.Context, med domain.Medicine, horizon int) forecast.Outcome {
	history, err := s.history(ctx, med.ID)
	if err != nil {
		log.Error().Err(err).Str("medicine", med.Name).Msg("failed to load sales history")
		return forecast.Outcome{MedicineName: med.Name, Status: forecast.OutcomeFailed, Reason: err.Error()}
	}

	result, err := s.dispatcher.Forecast(ctx, med.Name, history, horizon)
	if err != nil {
		return classifyForecastError(med.Name, err)
	}

	for _, warning := range result.Warnings {
		log.Warn().Str("medicine", med.Name).Msg(warning)
	}

	demand := result.NextDemand()
	reorderLevel := forecast.ReorderLevel(demand, med.SafetyStock, med.LeadTimeDays)

	prediction := &domain.Prediction{
		MedicineID:      med.ID,
		PredictedDemand: demand,
		ReorderLevel:    reorderLevel,
	}
	if err := s.predictions.Insert(ctx, prediction); err != nil {
		log.Error().Err(err).Str("medicine", med.Name).Msg("failed to store prediction")
		return forecast.Outcome{MedicineName: med.Name, Status: forecast.OutcomeFailed, Reason: err.Error()}
	}

	if err := s.medicines.SetLastActualQuantity(ctx, med.ID, result.LastActualQuantity); err != nil {
		log.Warn().Err(err).Str("medicine", med.Name).Msg("failed to update last actual quantity")
	}

	log.Info().
		Str("medicine", med.Name).
		Str("family", string(result.Family)).
		Int("predicted_demand", demand).
		Int("reorder_level", reorderLevel).
		Msg("prediction stored")

	return forecast.Outcome{MedicineName: med.Name, Status: forecast.OutcomePredicted, Result: result}
}

// Forecast produces a multi-week forecast for one medicine without persisting
// anything. The interactive API uses it.
func (s *ForecastService) Forecast(ctx context.Context, medicineName string, horizon int) (*forecast.Result, error) {
	med, err := s.medicines.GetByName(ctx, medicineName)
	if err != nil {
		return nil, err
	}
	if med == nil {
		return nil, fmt.Errorf("medicine %q not found", medicineName)
	}

	history, err := s.history(ctx, med.ID)
	if err != nil {
		return nil, err
	}

	return s.dispatcher.Forecast(ctx, medicineName, history, horizon)
}

// LatestPredictions serves the most recent prediction per medicine, through
// the cache when it is warm.
func (s *ForecastService) LatestPredictions(ctx context.Context) ([]domain.Prediction, error) {
	if cached, ok, err := s.cache.GetLatest(ctx); err == nil && ok {
		return cached, nil
	} else if err != nil {
		log.Warn().Err(err).Msg("prediction cache get failed")
	}

	predictions, err := s.predictions.ListLatest(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.cache.SetLatest(ctx, predictions); err != nil {
		log.Warn().Err(err).Msg("prediction cache set failed")
	}

	return predictions, nil
}

func (s *ForecastService) history(ctx context.Context, medicineID int64) ([]features.Observation, error) {
	records, err := s.sales.HistoryByMedicine(ctx, medicineID)
	if err != nil {
		return nil, err
	}

	history := make([]features.Observation, 0, len(records))
	for _, rec := range records {
		history = append(history, features.Observation{
			Period:   domain.Period{Year: rec.Year, Week: rec.WeekNumber},
			Quantity: float64(rec.QuantitySold),
		})
	}
	return history, nil
}

func classifyForecastError(medicineName string, err error) forecast.Outcome {
	switch {
	case errors.Is(err, forecast.ErrNotConfigured):
		return forecast.Outcome{MedicineName: medicineName, Status: forecast.OutcomeSkipped, Reason: "not configured"}
	case errors.Is(err, forecast.ErrInsufficientHistory):
		log.Info().Str("medicine", medicineName).Msg("skipping: insufficient history")
		return forecast.Outcome{MedicineName: medicineName, Status: forecast.OutcomeSkipped, Reason: err.Error()}
	case errors.Is(err, model.ErrArtifactNotFound):
		log.Warn().Str("medicine", medicineName).Err(err).Msg("skipping: model artifact unavailable")
		return forecast.Outcome{MedicineName: medicineName, Status: forecast.OutcomeSkipped, Reason: err.Error()}
	default:
		log.Error().Str("medicine", medicineName).Err(err).Msg("forecast failed")
		return forecast.Outcome{MedicineName: medicineName, Status: forecast.OutcomeFailed, Reason: err.Error()}
	}
}
