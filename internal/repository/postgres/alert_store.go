// backend-go/internal/repository/postgres/alert_store.go
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/andresuchdata/medforecast/backend-go/internal/alert"
	"github.com/andresuchdata/medforecast/backend-go/internal/domain"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// AlertStore backs the alert lifecycle manager with Postgres. Snapshot and
// plan application share one transaction, so a reconciliation run either
// lands completely or not at all.
type AlertStore struct {
	db *DB
}

func NewAlertStore(db *DB) *AlertStore {
	return &AlertStore{db: db}
}

func (s *AlertStore) Reconcile(ctx context.Context, fn func(snap *alert.Snapshot) (*alert.Plan, error)) error {
	return s.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		snap, err := loadSnapshot(ctx, tx)
		if err != nil {
			return err
		}

		plan, err := fn(snap)
		if err != nil {
			return err
		}

		return applyPlan(ctx, tx, plan)
	})
}

type medicineStateRow struct {
	MedicineID   int64     `db:"medicine_id"`
	Name         string    `db:"name"`
	CurrentStock int       `db:"current_stock"`
	SafetyStock  int       `db:"safety_stock"`
	ExpiryDate   time.Time `db:"expiry_date"`
	ReorderLevel *int      `db:"reorder_level"`
}

func loadSnapshot(ctx context.Context, tx *sqlx.Tx) (*alert.Snapshot, error) {
	medicineQuery := `
		SELECT m.id AS medicine_id, m.name, m.current_stock, m.safety_stock,
		       m.expiry_date, p.reorder_level
		FROM medicines m
		LEFT JOIN (
			SELECT DISTINCT ON (medicine_id) medicine_id, reorder_level
			FROM predictions
			ORDER BY medicine_id, prediction_date DESC, id DESC
		) p ON p.medicine_id = m.id
	`

	var rows []medicineStateRow
	if err := tx.SelectContext(ctx, &rows, medicineQuery); err != nil {
		return nil, fmt.Errorf("error loading medicine state: %w", err)
	}

	var alerts []domain.Alert
	alertQuery := `SELECT id, medicine_id, kind, message, created_at FROM alerts`
	if err := tx.SelectContext(ctx, &alerts, alertQuery); err != nil {
		return nil, fmt.Errorf("error loading alerts: %w", err)
	}

	snap := &alert.Snapshot{Alerts: alerts}
	for _, row := range rows {
		snap.Medicines = append(snap.Medicines, alert.MedicineState{
			MedicineID:   row.MedicineID,
			Name:         row.Name,
			CurrentStock: row.CurrentStock,
			SafetyStock:  row.SafetyStock,
			ExpiryDate:   row.ExpiryDate,
			ReorderLevel: row.ReorderLevel,
		})
	}
	return snap, nil
}

func applyPlan(ctx context.Context, tx *sqlx.Tx, plan *alert.Plan) error {
	if len(plan.DeleteIDs) > 0 {
		query := `DELETE FROM alerts WHERE id = ANY($1::bigint[])`
		if _, err := tx.ExecContext(ctx, query, pq.Array(plan.DeleteIDs)); err != nil {
			return fmt.Errorf("error deleting alerts: %w", err)
		}
	}

	for _, a := range plan.Inserts {
		query := `
			INSERT INTO alerts (medicine_id, kind, message, created_at)
			VALUES ($1, $2, $3, $4)
		`
		if _, err := tx.ExecContext(ctx, query, a.MedicineID, a.Kind, a.Message, a.CreatedAt); err != nil {
			return fmt.Errorf("error inserting %s alert for medicine %d: %w", a.Kind, a.MedicineID, err)
		}
	}

	return nil
}
