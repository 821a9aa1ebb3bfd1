// backend-go/internal/service/sales_service.go
package service

import (
	"context"
	"fmt"

	"github.com/andresuchdata/medforecast/backend-go/internal/domain"
	"github.com/andresuchdata/medforecast/backend-go/internal/repository"
	"github.com/rs/zerolog/log"
)

// SalesUpload is one parsed weekly observation from an ingestion batch.
type SalesUpload struct {
	MedicineName string `json:"medicine_name" binding:"required"`
	Year         int    `json:"year" binding:"required"`
	WeekNumber   int    `json:"week_number" binding:"required"`
	Quantity     int    `json:"quantity" binding:"min=0"`
}

// IngestSummary reports what one sales batch changed.
type IngestSummary struct {
	SalesInserted   int      `json:"sales_inserted"`
	SalesUpdated    int      `json:"sales_updated"`
	StockUpdated    int      `json:"stock_updated"`
	SkippedProducts []string `json:"skipped_products"`
}

type SalesService struct {
	medicines repository.MedicineRepository
	sales     repository.SalesRepository
}

func NewSalesService(medicines repository.MedicineRepository, sales repository.SalesRepository) *SalesService {
	return &SalesService{medicines: medicines, sales: sales}
}

// Ingest applies a weekly sales batch: upsert the observation rows (one per
// medicine and week, re-ingestion overwrites), decrement stock clamped at
// zero, and record each medicine's most recent observed quantity. Unknown
// medicine names are skipped and reported, not fatal.
func (s *SalesService) Ingest(ctx context.Context, records []SalesUpload) (*IngestSummary, error) {
	summary := &IngestSummary{}

	type lastSeen struct {
		period   domain.Period
		quantity int
	}
	latest := make(map[int64]lastSeen)

	for _, rec := range records {
		if rec.WeekNumber < 1 || rec.WeekNumber > 53 {
			return nil, fmt.Errorf("invalid week number %d for %s", rec.WeekNumber, rec.MedicineName)
		}
		if rec.Quantity < 0 {
			return nil, fmt.Errorf("negative quantity for %s in %d-W%02d", rec.MedicineName, rec.Year, rec.WeekNumber)
		}

		med, err := s.medicines.GetByName(ctx, rec.MedicineName)
		if err != nil {
			return nil, err
		}
		if med == nil {
			summary.SkippedProducts = append(summary.SkippedProducts, rec.MedicineName)
			continue
		}

		period := domain.Period{Year: rec.Year, Week: rec.WeekNumber}
		created, err := s.sales.Upsert(ctx, &domain.SalesRecord{
			MedicineID:   med.ID,
			QuantitySold: rec.Quantity,
			WeekLabel:    period.Label(),
			Year:         rec.Year,
			WeekNumber:   rec.WeekNumber,
		})
		if err != nil {
			return nil, err
		}
		if created {
			summary.SalesInserted++
		} else {
			summary.SalesUpdated++
		}

		// Stock never goes negative: sales beyond stock clamp to zero.
		stock := med.CurrentStock - rec.Quantity
		if stock < 0 {
			stock = 0
		}
		if err := s.medicines.UpdateStock(ctx, med.ID, stock); err != nil {
			return nil, err
		}
		med.CurrentStock = stock
		summary.StockUpdated++

		if prev, ok := latest[med.ID]; !ok || prev.period.Before(period) {
			latest[med.ID] = lastSeen{period: period, quantity: rec.Quantity}
		}
	}

	for medicineID, seen := range latest {
		if err := s.medicines.SetLastActualQuantity(ctx, medicineID, seen.quantity); err != nil {
			return nil, err
		}
	}

	log.Info().
		Int("inserted", summary.SalesInserted).
		Int("updated", summary.SalesUpdated).
		Int("skipped", len(summary.SkippedProducts)).
		Msg("sales batch ingested")

	return summary, nil
}
