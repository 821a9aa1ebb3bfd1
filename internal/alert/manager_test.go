// backend-go/internal/alert/manager_test.go
package alert

import (
	"context"
	"testing"
	"time"

	"github.com/andresuchdata/medforecast/backend-go/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memoryStore is an in-memory Store for exercising the lifecycle logic.
type memoryStore struct {
	medicines []MedicineState
	alerts    []domain.Alert
	nextID    int64
}

func (s *memoryStore) Reconcile(ctx context.Context, fn func(snap *Snapshot) (*Plan, error)) error {
	snap := &Snapshot{
		Medicines: append([]MedicineState(nil), s.medicines...),
		Alerts:    append([]domain.Alert(nil), s.alerts...),
	}

	plan, err := fn(snap)
	if err != nil {
		return err
	}

	deleted := make(map[int64]bool, len(plan.DeleteIDs))
	for _, id := range plan.DeleteIDs {
		deleted[id] = true
	}

	var kept []domain.Alert
	for _, a := range s.alerts {
		if !deleted[a.ID] {
			kept = append(kept, a)
		}
	}
	for _, a := range plan.Inserts {
		s.nextID++
		a.ID = s.nextID
		kept = append(kept, a)
	}
	s.alerts = kept
	return nil
}

func (s *memoryStore) seed(a domain.Alert) {
	s.nextID++
	a.ID = s.nextID
	s.alerts = append(s.alerts, a)
}

func (s *memoryStore) byKind(kind domain.AlertKind) []domain.Alert {
	var out []domain.Alert
	for _, a := range s.alerts {
		if a.Kind == kind {
			out = append(out, a)
		}
	}
	return out
}

func intPtr(v int) *int { return &v }

func newTestManager(store *memoryStore, now time.Time) *Manager {
	m := NewManager(store, 30)
	m.now = func() time.Time { return now }
	return m
}

var testNow = time.Date(2024, 6, 10, 9, 0, 0, 0, time.UTC)

func TestRunCreatesLowStockAlert(t *testing.T) {
	store := &memoryStore{
		medicines: []MedicineState{{
			MedicineID:   1,
			Name:         "Paracetamol",
			CurrentStock: 30,
			SafetyStock:  10,
			ExpiryDate:   testNow.AddDate(1, 0, 0),
			ReorderLevel: intPtr(46),
		}},
	}

	report, err := newTestManager(store, testNow).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, report.LowStockAlerts)
	assert.Equal(t, 0, report.ExpiryAlerts)

	alerts := store.byKind(domain.AlertLowStock)
	require.Len(t, alerts, 1)
	assert.Equal(t, "Low stock alert: Paracetamol (Current: 30, Reorder Level: 46)", alerts[0].Message)
}

func TestRunCreatesExpiryAlert(t *testing.T) {
	store := &memoryStore{
		medicines: []MedicineState{{
			MedicineID:   1,
			Name:         "Amoxicillin",
			CurrentStock: 500,
			ExpiryDate:   testNow.AddDate(0, 0, 12),
			ReorderLevel: intPtr(40),
		}},
	}

	report, err := newTestManager(store, testNow).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, report.ExpiryAlerts)
	assert.Equal(t, 0, report.LowStockAlerts)

	alerts := store.byKind(domain.AlertExpiry)
	require.Len(t, alerts, 1)
	assert.Equal(t, "Expiry alert: Amoxicillin expires in 12 days (Expiry: 2024-06-22)", alerts[0].Message)
}

func TestRunExpiryWindowEdges(t *testing.T) {
	tests := []struct {
		name      string
		expiry    time.Time
		wantAlert bool
	}{
		{"expires today", testNow, true},
		{"expires at window edge", testNow.AddDate(0, 0, 30), true},
		{"expires beyond window", testNow.AddDate(0, 0, 31), false},
		{"already expired", testNow.AddDate(0, 0, -1), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &memoryStore{
				medicines: []MedicineState{{
					MedicineID:   1,
					Name:         "Ibuprofen",
					CurrentStock: 500,
					ExpiryDate:   tt.expiry,
					ReorderLevel: intPtr(40),
				}},
			}

			_, err := newTestManager(store, testNow).Run(context.Background())
			require.NoError(t, err)

			if tt.wantAlert {
				assert.Len(t, store.byKind(domain.AlertExpiry), 1)
			} else {
				assert.Empty(t, store.byKind(domain.AlertExpiry))
			}
		})
	}
}

func TestRunIsIdempotent(t *testing.T) {
	store := &memoryStore{
		medicines: []MedicineState{{
			MedicineID:   1,
			Name:         "Paracetamol",
			CurrentStock: 5,
			SafetyStock:  10,
			ExpiryDate:   testNow.AddDate(0, 0, 10),
			ReorderLevel: intPtr(46),
		}},
	}
	manager := newTestManager(store, testNow)

	_, err := manager.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, store.alerts, 2)

	// A second pass over unchanged state refreshes the alerts but leaves
	// exactly one per (medicine, kind).
	report, err := manager.Run(context.Background())
	require.NoError(t, err)

	assert.Len(t, store.alerts, 2)
	assert.Len(t, store.byKind(domain.AlertLowStock), 1)
	assert.Len(t, store.byKind(domain.AlertExpiry), 1)
	assert.Equal(t, 0, report.DuplicatesRemoved)
	assert.Equal(t, 0, report.ResolvedRemoved)
}

func TestRunRemovesDuplicates(t *testing.T) {
	store := &memoryStore{
		medicines: []MedicineState{{
			MedicineID:   1,
			Name:         "Paracetamol",
			CurrentStock: 5,
			SafetyStock:  10,
			ExpiryDate:   testNow.AddDate(1, 0, 0),
			ReorderLevel: intPtr(46),
		}},
	}
	store.seed(domain.Alert{MedicineID: 1, Kind: domain.AlertLowStock, Message: "old", CreatedAt: testNow.Add(-48 * time.Hour)})
	store.seed(domain.Alert{MedicineID: 1, Kind: domain.AlertLowStock, Message: "newer", CreatedAt: testNow.Add(-24 * time.Hour)})

	report, err := newTestManager(store, testNow).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, report.DuplicatesRemoved)
	assert.Len(t, store.byKind(domain.AlertLowStock), 1)
}

func TestRunResolvesRecoveredStock(t *testing.T) {
	store := &memoryStore{
		medicines: []MedicineState{{
			MedicineID:   1,
			Name:         "Paracetamol",
			CurrentStock: 100,
			SafetyStock:  10,
			ExpiryDate:   testNow.AddDate(1, 0, 0),
			ReorderLevel: intPtr(46),
		}},
	}
	store.seed(domain.Alert{MedicineID: 1, Kind: domain.AlertLowStock, Message: "stale", CreatedAt: testNow.Add(-time.Hour)})

	report, err := newTestManager(store, testNow).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, report.ResolvedRemoved)
	assert.Empty(t, store.alerts)
}

func TestRunResolvesExpiredWindow(t *testing.T) {
	store := &memoryStore{
		medicines: []MedicineState{{
			MedicineID:   1,
			Name:         "Amoxicillin",
			CurrentStock: 500,
			ExpiryDate:   testNow.AddDate(0, 0, -3), // already expired
			ReorderLevel: intPtr(40),
		}},
	}
	store.seed(domain.Alert{MedicineID: 1, Kind: domain.AlertExpiry, Message: "stale", CreatedAt: testNow.Add(-time.Hour)})

	report, err := newTestManager(store, testNow).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, report.ResolvedRemoved)
	assert.Empty(t, store.alerts)
}

func TestRunSkipsUnforecastMedicines(t *testing.T) {
	store := &memoryStore{
		medicines: []MedicineState{{
			MedicineID:   1,
			Name:         "Paracetamol",
			CurrentStock: 0,
			SafetyStock:  10,
			ExpiryDate:   testNow.AddDate(1, 0, 0),
			ReorderLevel: nil, // never forecast
		}},
	}

	report, err := newTestManager(store, testNow).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 0, report.LowStockAlerts)
	assert.Empty(t, store.alerts, "no reorder level means no low stock judgment")
}

func TestRunRefreshReplacesExistingAlert(t *testing.T) {
	store := &memoryStore{
		medicines: []MedicineState{{
			MedicineID:   1,
			Name:         "Paracetamol",
			CurrentStock: 5,
			SafetyStock:  10,
			ExpiryDate:   testNow.AddDate(1, 0, 0),
			ReorderLevel: intPtr(46),
		}},
	}
	store.seed(domain.Alert{
		MedicineID: 1,
		Kind:       domain.AlertLowStock,
		Message:    "Low stock alert: Paracetamol (Current: 20, Reorder Level: 46)",
		CreatedAt:  testNow.Add(-24 * time.Hour),
	})

	_, err := newTestManager(store, testNow).Run(context.Background())
	require.NoError(t, err)

	alerts := store.byKind(domain.AlertLowStock)
	require.Len(t, alerts, 1)
	assert.Equal(t, "Low stock alert: Paracetamol (Current: 5, Reorder Level: 46)", alerts[0].Message)
	assert.Equal(t, testNow, alerts[0].CreatedAt)
}
