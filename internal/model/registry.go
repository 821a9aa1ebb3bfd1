// backend-go/internal/model/registry.go
package model

import (
	"context"
	"fmt"
	"sync"
)

// Artifact keys follow the training pipeline's naming convention.
func tabularKey(medicineName string) string {
	return fmt.Sprintf("xgboost_%s.json", medicineName)
}

func sequentialKey(medicineName string) string {
	return fmt.Sprintf("lstm_%s.json", medicineName)
}

// StoreRegistry resolves medicines to models backed by an ArtifactStore and
// caches the parsed models for the lifetime of the process.
type StoreRegistry struct {
	store ArtifactStore

	mu         sync.Mutex
	tabular    map[string]*TreeEnsemble
	sequential map[string]*RecurrentNetwork
}

func NewStoreRegistry(store ArtifactStore) *StoreRegistry {
	return &StoreRegistry{
		store:      store,
		tabular:    make(map[string]*TreeEnsemble),
		sequential: make(map[string]*RecurrentNetwork),
	}
}

func (r *StoreRegistry) Tabular(ctx context.Context, medicineName string) (Scorer, error) {
	r.mu.Lock()
	cached, ok := r.tabular[medicineName]
	r.mu.Unlock()
	if ok {
		return cached, nil
	}

	data, err := r.store.Fetch(ctx, tabularKey(medicineName))
	if err != nil {
		return nil, err
	}
	ensemble, err := ParseTreeEnsemble(data)
	if err != nil {
		return nil, fmt.Errorf("artifact %s: %w", tabularKey(medicineName), err)
	}

	r.mu.Lock()
	r.tabular[medicineName] = ensemble
	r.mu.Unlock()
	return ensemble, nil
}

func (r *StoreRegistry) Sequential(ctx context.Context, medicineName string) (SequenceScorer, error) {
	r.mu.Lock()
	cached, ok := r.sequential[medicineName]
	r.mu.Unlock()
	if ok {
		return cached, nil
	}

	data, err := r.store.Fetch(ctx, sequentialKey(medicineName))
	if err != nil {
		return nil, err
	}
	network, err := ParseRecurrentNetwork(data)
	if err != nil {
		return nil, fmt.Errorf("artifact %s: %w", sequentialKey(medicineName), err)
	}

	r.mu.Lock()
	r.sequential[medicineName] = network
	r.mu.Unlock()
	return network, nil
}
