// backend-go/internal/service/service_test.go
package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/andresuchdata/medforecast/backend-go/internal/alert"
	"github.com/andresuchdata/medforecast/backend-go/internal/domain"
	"github.com/andresuchdata/medforecast/backend-go/internal/forecast"
	"github.com/andresuchdata/medforecast/backend-go/internal/forecast/features"
)

// In-memory repository fakes shared by the service tests.

type fakeMedicineRepo struct {
	mu          sync.Mutex
	medicines   []domain.Medicine
	lastActuals map[int64]int
}

func (r *fakeMedicineRepo) GetAll(ctx context.Context) ([]domain.Medicine, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.Medicine(nil), r.medicines...), nil
}

func (r *fakeMedicineRepo) GetByName(ctx context.Context, name string) (*domain.Medicine, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.medicines {
		if r.medicines[i].Name == name {
			med := r.medicines[i]
			return &med, nil
		}
	}
	return nil, nil
}

func (r *fakeMedicineRepo) UpdateStock(ctx context.Context, medicineID int64, currentStock int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.medicines {
		if r.medicines[i].ID == medicineID {
			r.medicines[i].CurrentStock = currentStock
			return nil
		}
	}
	return fmt.Errorf("medicine %d not found", medicineID)
}

func (r *fakeMedicineRepo) SetLastActualQuantity(ctx context.Context, medicineID int64, quantity int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.lastActuals == nil {
		r.lastActuals = make(map[int64]int)
	}
	r.lastActuals[medicineID] = quantity
	return nil
}

type fakeSalesRepo struct {
	mu      sync.Mutex
	records []domain.SalesRecord
	nextID  int64
}

func (r *fakeSalesRepo) HistoryByMedicine(ctx context.Context, medicineID int64) ([]domain.SalesRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.SalesRecord
	for _, rec := range r.records {
		if rec.MedicineID == medicineID {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (r *fakeSalesRepo) Upsert(ctx context.Context, rec *domain.SalesRecord) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.records {
		if r.records[i].MedicineID == rec.MedicineID && r.records[i].WeekLabel == rec.WeekLabel {
			r.records[i].QuantitySold = rec.QuantitySold
			return false, nil
		}
	}
	r.nextID++
	rec.ID = r.nextID
	r.records = append(r.records, *rec)
	return true, nil
}

type fakePredictionRepo struct {
	mu       sync.Mutex
	inserted []domain.Prediction
	latest   []domain.Prediction
	listed   int
}

func (r *fakePredictionRepo) Insert(ctx context.Context, p *domain.Prediction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p.ID = int64(len(r.inserted) + 1)
	r.inserted = append(r.inserted, *p)
	return nil
}

func (r *fakePredictionRepo) ListLatest(ctx context.Context) ([]domain.Prediction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listed++
	return append([]domain.Prediction(nil), r.latest...), nil
}

type fakeAlertRepo struct {
	alerts []domain.Alert
}

func (r *fakeAlertRepo) ListAll(ctx context.Context) ([]domain.Alert, error) {
	return append([]domain.Alert(nil), r.alerts...), nil
}

// emptyAlertStore satisfies alert.Store with nothing to reconcile.
type emptyAlertStore struct {
	runs int
}

func (s *emptyAlertStore) Reconcile(ctx context.Context, fn func(snap *alert.Snapshot) (*alert.Plan, error)) error {
	s.runs++
	_, err := fn(&alert.Snapshot{})
	return err
}

// stubStrategy returns a canned result or error per medicine name.
type stubStrategy struct {
	results map[string]*forecast.Result
	errs    map[string]error
}

func (s *stubStrategy) Forecast(ctx context.Context, medicineName string, history []features.Observation, horizon int) (*forecast.Result, error) {
	if err, ok := s.errs[medicineName]; ok {
		return nil, err
	}
	if result, ok := s.results[medicineName]; ok {
		return result, nil
	}
	return nil, fmt.Errorf("unexpected medicine %s", medicineName)
}

// countingCache tracks invalidations and serves a canned payload.
type countingCache struct {
	mu           sync.Mutex
	cached       []domain.Prediction
	warm         bool
	sets         int
	invalidation int
}

func (c *countingCache) GetLatest(ctx context.Context) ([]domain.Prediction, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cached, c.warm, nil
}

func (c *countingCache) SetLatest(ctx context.Context, predictions []domain.Prediction) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cached = predictions
	c.warm = true
	c.sets++
	return nil
}

func (c *countingCache) InvalidateAll(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cached = nil
	c.warm = false
	c.invalidation++
	return nil
}
