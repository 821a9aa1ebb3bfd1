// backend-go/internal/repository/postgres/alert_repository.go
package postgres

import (
	"context"
	"fmt"

	"github.com/andresuchdata/medforecast/backend-go/internal/domain"
	"github.com/andresuchdata/medforecast/backend-go/internal/repository"
)

type alertRepository struct {
	db *DB
}

func NewAlertRepository(db *DB) repository.AlertRepository {
	return &alertRepository{db: db}
}

func (r *alertRepository) ListAll(ctx context.Context) ([]domain.Alert, error) {
	query := `
		SELECT id, medicine_id, kind, message, created_at
		FROM alerts
		ORDER BY created_at DESC, id DESC
	`

	var alerts []domain.Alert
	if err := r.db.SelectContext(ctx, &alerts, query); err != nil {
		return nil, fmt.Errorf("error listing alerts: %w", err)
	}

	return alerts, nil
}
