// backend-go/internal/repository/postgres/sales_repository.go
package postgres

import (
	"context"
	"fmt"

	"github.com/andresuchdata/medforecast/backend-go/internal/domain"
	"github.com/andresuchdata/medforecast/backend-go/internal/repository"
)

type salesRepository struct {
	db *DB
}

func NewSalesRepository(db *DB) repository.SalesRepository {
	return &salesRepository{db: db}
}

func (r *salesRepository) HistoryByMedicine(ctx context.Context, medicineID int64) ([]domain.SalesRecord, error) {
	query := `
		SELECT id, medicine_id, quantity_sold, week_label, year, week_number
		FROM sales_data
		WHERE medicine_id = $1
		ORDER BY year, week_number
	`

	var records []domain.SalesRecord
	if err := r.db.SelectContext(ctx, &records, query, medicineID); err != nil {
		return nil, fmt.Errorf("error getting sales history for medicine %d: %w", medicineID, err)
	}

	return records, nil
}

func (r *salesRepository) Upsert(ctx context.Context, rec *domain.SalesRecord) (bool, error) {
	query := `
		INSERT INTO sales_data (medicine_id, quantity_sold, week_label, year, week_number)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (medicine_id, week_label)
		DO UPDATE SET quantity_sold = EXCLUDED.quantity_sold
		RETURNING id, (xmax = 0) AS inserted
	`

	var result struct {
		ID       int64 `db:"id"`
		Inserted bool  `db:"inserted"`
	}
	if err := r.db.GetContext(ctx, &result, query,
		rec.MedicineID, rec.QuantitySold, rec.WeekLabel, rec.Year, rec.WeekNumber); err != nil {
		return false, fmt.Errorf("error upserting sales record for medicine %d week %s: %w",
			rec.MedicineID, rec.WeekLabel, err)
	}

	rec.ID = result.ID
	return result.Inserted, nil
}
