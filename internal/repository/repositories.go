// backend-go/internal/repository/repositories.go
package repository

import (
	"context"

	"github.com/andresuchdata/medforecast/backend-go/internal/domain"
)

type MedicineRepository interface {
	GetAll(ctx context.Context) ([]domain.Medicine, error)
	GetByName(ctx context.Context, name string) (*domain.Medicine, error)
	UpdateStock(ctx context.Context, medicineID int64, currentStock int) error
	SetLastActualQuantity(ctx context.Context, medicineID int64, quantity int) error
}

type SalesRepository interface {
	// HistoryByMedicine returns the weekly series ordered by (year, week) ascending.
	HistoryByMedicine(ctx context.Context, medicineID int64) ([]domain.SalesRecord, error)

	// Upsert writes one weekly observation. Re-ingesting an existing
	// (medicine, week label) overwrites the quantity; created reports whether
	// a new row was inserted.
	Upsert(ctx context.Context, rec *domain.SalesRecord) (created bool, err error)
}

type PredictionRepository interface {
	Insert(ctx context.Context, p *domain.Prediction) error

	// ListLatest returns the most recent prediction per medicine.
	ListLatest(ctx context.Context) ([]domain.Prediction, error)
}

type AlertRepository interface {
	// ListAll returns every stored alert, newest first. Alert writes go
	// through the lifecycle manager's store, never through this interface.
	ListAll(ctx context.Context) ([]domain.Alert, error)
}
