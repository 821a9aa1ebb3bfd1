// backend-go/internal/domain/models.go
package domain

import "time"

// Medicine is a stock-keeping item whose weekly demand is forecast independently.
type Medicine struct {
	ID                 int64     `json:"id" db:"id"`
	Name               string    `json:"name" db:"name"`
	BatchNo            string    `json:"batch_no" db:"batch_no"`
	UnitPrice          float64   `json:"unit_price" db:"unit_price"`
	SafetyStock        int       `json:"safety_stock" db:"safety_stock"`
	LeadTimeDays       int       `json:"lead_time_days" db:"lead_time_days"`
	CurrentStock       int       `json:"current_stock" db:"current_stock"`
	LastActualQuantity int       `json:"last_actual_quantity" db:"last_actual_quantity"`
	ExpiryDate         time.Time `json:"expiry_date" db:"expiry_date"`
	LastUpdated        time.Time `json:"last_updated" db:"last_updated"`
	CreatedAt          time.Time `json:"created_at" db:"created_at"`
}

// SalesRecord is one weekly demand observation for a medicine. At most one
// record exists per (medicine, week label); re-ingestion overwrites the quantity.
type SalesRecord struct {
	ID           int64  `json:"id" db:"id"`
	MedicineID   int64  `json:"medicine_id" db:"medicine_id"`
	QuantitySold int    `json:"quantity_sold" db:"quantity_sold"`
	WeekLabel    string `json:"week_label" db:"week_label"`
	Year         int    `json:"year" db:"year"`
	WeekNumber   int    `json:"week_number" db:"week_number"`
}

// Prediction is one forecast outcome for a medicine. Records accumulate over
// time; only the most recent per medicine is authoritative for alerting.
type Prediction struct {
	ID              int64     `json:"id" db:"id"`
	MedicineID      int64     `json:"medicine_id" db:"medicine_id"`
	PredictedDemand int       `json:"predicted_demand" db:"predicted_demand"`
	ReorderLevel    int       `json:"reorder_level" db:"reorder_level"`
	PredictionDate  time.Time `json:"prediction_date" db:"prediction_date"`
}

// AlertKind distinguishes the two alert families.
type AlertKind string

const (
	AlertLowStock AlertKind = "low_stock"
	AlertExpiry   AlertKind = "expiry"
)

// Alert is a derived, time-bound notification keyed by (medicine, kind).
// The lifecycle manager guarantees at most one valid alert per key.
type Alert struct {
	ID         int64     `json:"id" db:"id"`
	MedicineID int64     `json:"medicine_id" db:"medicine_id"`
	Kind       AlertKind `json:"kind" db:"kind"`
	Message    string    `json:"message" db:"message"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}
