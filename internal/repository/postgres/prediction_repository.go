// backend-go/internal/repository/postgres/prediction_repository.go
package postgres

import (
	"context"
	"fmt"

	"github.com/andresuchdata/medforecast/backend-go/internal/domain"
	"github.com/andresuchdata/medforecast/backend-go/internal/repository"
)

type predictionRepository struct {
	db *DB
}

func NewPredictionRepository(db *DB) repository.PredictionRepository {
	return &predictionRepository{db: db}
}

func (r *predictionRepository) Insert(ctx context.Context, p *domain.Prediction) error {
	query := `
		INSERT INTO predictions (medicine_id, predicted_demand, reorder_level, prediction_date)
		VALUES ($1, $2, $3, NOW())
		RETURNING id, prediction_date
	`

	row := r.db.QueryRowxContext(ctx, query, p.MedicineID, p.PredictedDemand, p.ReorderLevel)
	if err := row.Scan(&p.ID, &p.PredictionDate); err != nil {
		return fmt.Errorf("error inserting prediction for medicine %d: %w", p.MedicineID, err)
	}
	return nil
}

func (r *predictionRepository) ListLatest(ctx context.Context) ([]domain.Prediction, error) {
	query := `
		SELECT DISTINCT ON (medicine_id)
		       id, medicine_id, predicted_demand, reorder_level, prediction_date
		FROM predictions
		ORDER BY medicine_id, prediction_date DESC, id DESC
	`

	var predictions []domain.Prediction
	if err := r.db.SelectContext(ctx, &predictions, query); err != nil {
		return nil, fmt.Errorf("error listing latest predictions: %w", err)
	}

	return predictions, nil
}
