// backend-go/internal/service/alert_service.go
package service

import (
	"context"
	"time"

	"github.com/andresuchdata/medforecast/backend-go/internal/alert"
	"github.com/andresuchdata/medforecast/backend-go/internal/domain"
	"github.com/andresuchdata/medforecast/backend-go/internal/repository"
)

// AlertView is an alert decorated with its read-side severity band.
type AlertView struct {
	domain.Alert
	MedicineName string         `json:"medicine_name"`
	Severity     alert.Severity `json:"severity"`
}

type AlertService struct {
	alerts      repository.AlertRepository
	medicines   repository.MedicineRepository
	predictions repository.PredictionRepository
	manager     *alert.Manager
}

func NewAlertService(
	alerts repository.AlertRepository,
	medicines repository.MedicineRepository,
	predictions repository.PredictionRepository,
	manager *alert.Manager,
) *AlertService {
	return &AlertService{
		alerts:      alerts,
		medicines:   medicines,
		predictions: predictions,
		manager:     manager,
	}
}

// Recompute runs one alert reconciliation pass (the manual trigger).
func (s *AlertService) Recompute(ctx context.Context) (*alert.RunReport, error) {
	return s.manager.Run(ctx)
}

// ListActive returns the stored alerts with severity derived from the
// current medicine state and latest reorder levels.
func (s *AlertService) ListActive(ctx context.Context) ([]AlertView, error) {
	alerts, err := s.alerts.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	medicines, err := s.medicines.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	medByID := make(map[int64]domain.Medicine, len(medicines))
	for _, med := range medicines {
		medByID[med.ID] = med
	}

	latest, err := s.predictions.ListLatest(ctx)
	if err != nil {
		return nil, err
	}
	reorderByID := make(map[int64]int, len(latest))
	for _, p := range latest {
		reorderByID[p.MedicineID] = p.ReorderLevel
	}

	today := time.Now().UTC().Truncate(24 * time.Hour)

	views := make([]AlertView, 0, len(alerts))
	for _, a := range alerts {
		view := AlertView{Alert: a, Severity: alert.SeverityLow}

		med, ok := medByID[a.MedicineID]
		if !ok {
			views = append(views, view)
			continue
		}
		view.MedicineName = med.Name

		switch a.Kind {
		case domain.AlertLowStock:
			view.Severity = alert.LowStockSeverity(med.CurrentStock, med.SafetyStock, reorderByID[a.MedicineID])
		case domain.AlertExpiry:
			daysLeft := int(med.ExpiryDate.UTC().Truncate(24*time.Hour).Sub(today).Hours() / 24)
			view.Severity = alert.ExpirySeverity(daysLeft)
		}

		views = append(views, view)
	}

	return views, nil
}
