// backend-go/internal/repository/postgres/medicine_repository.go
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/andresuchdata/medforecast/backend-go/internal/domain"
	"github.com/andresuchdata/medforecast/backend-go/internal/repository"
)

type medicineRepository struct {
	db *DB
}

func NewMedicineRepository(db *DB) repository.MedicineRepository {
	return &medicineRepository{db: db}
}

func (r *medicineRepository) GetAll(ctx context.Context) ([]domain.Medicine, error) {
	query := `
		SELECT id, name, batch_no, unit_price, safety_stock, lead_time_days,
		       current_stock, COALESCE(last_actual_quantity, 0) AS last_actual_quantity,
		       expiry_date, last_updated, created_at
		FROM medicines
		ORDER BY name
	`

	var medicines []domain.Medicine
	if err := r.db.SelectContext(ctx, &medicines, query); err != nil {
		return nil, fmt.Errorf("error listing medicines: %w", err)
	}

	return medicines, nil
}

func (r *medicineRepository) GetByName(ctx context.Context, name string) (*domain.Medicine, error) {
	query := `
		SELECT id, name, batch_no, unit_price, safety_stock, lead_time_days,
		       current_stock, COALESCE(last_actual_quantity, 0) AS last_actual_quantity,
		       expiry_date, last_updated, created_at
		FROM medicines
		WHERE name = $1
	`

	var medicine domain.Medicine
	if err := r.db.GetContext(ctx, &medicine, query, name); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("error getting medicine %s: %w", name, err)
	}

	return &medicine, nil
}

func (r *medicineRepository) UpdateStock(ctx context.Context, medicineID int64, currentStock int) error {
	query := `
		UPDATE medicines
		SET current_stock = $2, last_updated = NOW()
		WHERE id = $1
	`

	if _, err := r.db.ExecContext(ctx, query, medicineID, currentStock); err != nil {
		return fmt.Errorf("error updating stock for medicine %d: %w", medicineID, err)
	}
	return nil
}

func (r *medicineRepository) SetLastActualQuantity(ctx context.Context, medicineID int64, quantity int) error {
	query := `
		UPDATE medicines
		SET last_actual_quantity = $2, last_updated = NOW()
		WHERE id = $1
	`

	if _, err := r.db.ExecContext(ctx, query, medicineID, quantity); err != nil {
		return fmt.Errorf("error updating last actual quantity for medicine %d: %w", medicineID, err)
	}
	return nil
}
