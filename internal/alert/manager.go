// backend-go/internal/alert/manager.go
package alert

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/andresuchdata/medforecast/backend-go/internal/domain"
	"github.com/rs/zerolog/log"
)

// MedicineState is the per-medicine input the lifecycle manager evaluates.
// ReorderLevel comes from the latest prediction and is nil when the medicine
// has never been forecast.
type MedicineState struct {
	MedicineID   int64
	Name         string
	CurrentStock int
	SafetyStock  int
	ExpiryDate   time.Time
	ReorderLevel *int
}

// Snapshot is a consistent view of everything one reconciliation run reads.
type Snapshot struct {
	Medicines []MedicineState
	Alerts    []domain.Alert
}

// Plan is the set of mutations one run produces. A plan is applied atomically
// or not at all.
type Plan struct {
	DeleteIDs []int64
	Inserts   []domain.Alert
}

// Store supplies the snapshot and applies the plan inside one transaction.
// Readers never observe a state between the deletes and the inserts.
type Store interface {
	Reconcile(ctx context.Context, fn func(snap *Snapshot) (*Plan, error)) error
}

// RunReport summarizes one reconciliation run.
type RunReport struct {
	DuplicatesRemoved int `json:"duplicates_removed"`
	LowStockAlerts    int `json:"low_stock_alerts"`
	ExpiryAlerts      int `json:"expiry_alerts"`
	ResolvedRemoved   int `json:"resolved_alerts_removed"`
}

// Manager owns the alert lifecycle. It is the only component that writes
// alert rows, and it does so by reconciling the stored set against the set
// the current medicine state implies.
type Manager struct {
	store           Store
	expiryAlertDays int
	now             func() time.Time
}

func NewManager(store Store, expiryAlertDays int) *Manager {
	if expiryAlertDays <= 0 {
		expiryAlertDays = 30
	}
	return &Manager{
		store:           store,
		expiryAlertDays: expiryAlertDays,
		now:             time.Now,
	}
}

// Run executes one reconciliation pass. Running twice against unchanged
// medicine state leaves the active (medicine, kind) set identical.
func (m *Manager) Run(ctx context.Context) (*RunReport, error) {
	report := &RunReport{}

	err := m.store.Reconcile(ctx, func(snap *Snapshot) (*Plan, error) {
		plan, r := m.plan(snap)
		*report = r
		return plan, nil
	})
	if err != nil {
		return nil, fmt.Errorf("alert reconciliation failed: %w", err)
	}

	log.Info().
		Int("low_stock", report.LowStockAlerts).
		Int("expiry", report.ExpiryAlerts).
		Int("duplicates_removed", report.DuplicatesRemoved).
		Int("resolved_removed", report.ResolvedRemoved).
		Msg("alert reconciliation completed")

	return report, nil
}

type alertKey struct {
	medicineID int64
	kind       domain.AlertKind
}

// plan derives the mutation plan from a snapshot. The four steps run in a
// fixed order: deduplicate, recompute low-stock, recompute expiry, resolve
// stale. Each delete-then-insert pair is an upsert keyed by (medicine, kind).
func (m *Manager) plan(snap *Snapshot) (*Plan, RunReport) {
	var (
		plan   Plan
		report RunReport
	)
	now := m.now().UTC()
	today := dateOf(now)

	// Step 1: deduplicate, keeping only the newest alert per (medicine, kind).
	surviving := make(map[alertKey][]domain.Alert)
	for _, a := range snap.Alerts {
		key := alertKey{a.MedicineID, a.Kind}
		surviving[key] = append(surviving[key], a)
	}
	for key, group := range surviving {
		if len(group) <= 1 {
			continue
		}
		sort.Slice(group, func(i, j int) bool {
			if group[i].CreatedAt.Equal(group[j].CreatedAt) {
				return group[i].ID > group[j].ID
			}
			return group[i].CreatedAt.After(group[j].CreatedAt)
		})
		for _, stale := range group[1:] {
			plan.DeleteIDs = append(plan.DeleteIDs, stale.ID)
			report.DuplicatesRemoved++
		}
		surviving[key] = group[:1]
	}

	for _, med := range snap.Medicines {
		lowKey := alertKey{med.MedicineID, domain.AlertLowStock}
		expKey := alertKey{med.MedicineID, domain.AlertExpiry}

		// Step 2: low stock, using the latest reorder level when one exists.
		if med.ReorderLevel != nil && med.CurrentStock <= *med.ReorderLevel {
			for _, old := range surviving[lowKey] {
				plan.DeleteIDs = append(plan.DeleteIDs, old.ID)
			}
			delete(surviving, lowKey)
			plan.Inserts = append(plan.Inserts, domain.Alert{
				MedicineID: med.MedicineID,
				Kind:       domain.AlertLowStock,
				Message: fmt.Sprintf("Low stock alert: %s (Current: %d, Reorder Level: %d)",
					med.Name, med.CurrentStock, *med.ReorderLevel),
				CreatedAt: now,
			})
			report.LowStockAlerts++
		}

		// Step 3: expiry within the alert window.
		daysLeft := daysBetween(today, dateOf(med.ExpiryDate))
		if daysLeft >= 0 && daysLeft <= m.expiryAlertDays {
			for _, old := range surviving[expKey] {
				plan.DeleteIDs = append(plan.DeleteIDs, old.ID)
			}
			delete(surviving, expKey)
			plan.Inserts = append(plan.Inserts, domain.Alert{
				MedicineID: med.MedicineID,
				Kind:       domain.AlertExpiry,
				Message: fmt.Sprintf("Expiry alert: %s expires in %d days (Expiry: %s)",
					med.Name, daysLeft, dateOf(med.ExpiryDate).Format("2006-01-02")),
				CreatedAt: now,
			})
			report.ExpiryAlerts++
		}

		// Step 4: resolve alerts whose triggering condition no longer holds.
		if med.ReorderLevel != nil && med.CurrentStock > *med.ReorderLevel {
			for _, old := range surviving[lowKey] {
				plan.DeleteIDs = append(plan.DeleteIDs, old.ID)
				report.ResolvedRemoved++
			}
			delete(surviving, lowKey)
		}
		if daysLeft < 0 || daysLeft > m.expiryAlertDays {
			for _, old := range surviving[expKey] {
				plan.DeleteIDs = append(plan.DeleteIDs, old.ID)
				report.ResolvedRemoved++
			}
			delete(surviving, expKey)
		}
	}

	return &plan, report
}

func dateOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func daysBetween(from, to time.Time) int {
	return int(to.Sub(from).Hours() / 24)
}
