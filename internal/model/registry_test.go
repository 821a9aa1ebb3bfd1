// backend-go/internal/model/registry_test.go
package model

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingStore serves fixed payloads and counts fetches per key.
type countingStore struct {
	payloads map[string][]byte
	fetches  map[string]int
}

func (s *countingStore) Fetch(ctx context.Context, key string) ([]byte, error) {
	if s.fetches == nil {
		s.fetches = make(map[string]int)
	}
	s.fetches[key]++
	data, ok := s.payloads[key]
	if !ok {
		return nil, ErrArtifactNotFound
	}
	return data, nil
}

func TestStoreRegistryCachesParsedModels(t *testing.T) {
	store := &countingStore{payloads: map[string][]byte{
		"xgboost_Paracetamol.json": []byte(`{"base_score": 0.5, "num_features": 1, "trees": [{"nodeid": 0, "leaf": 2.0}]}`),
	}}
	registry := NewStoreRegistry(store)

	first, err := registry.Tabular(context.Background(), "Paracetamol")
	require.NoError(t, err)
	second, err := registry.Tabular(context.Background(), "Paracetamol")
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, 1, store.fetches["xgboost_Paracetamol.json"])

	score, err := first.Score([]float64{1})
	require.NoError(t, err)
	assert.InDelta(t, 2.5, score, 1e-9)
}

func TestStoreRegistryArtifactKeys(t *testing.T) {
	store := &countingStore{payloads: map[string][]byte{}}
	registry := NewStoreRegistry(store)

	_, err := registry.Tabular(context.Background(), "Paracetamol")
	assert.ErrorIs(t, err, ErrArtifactNotFound)
	_, err = registry.Sequential(context.Background(), "Amoxicillin")
	assert.ErrorIs(t, err, ErrArtifactNotFound)

	assert.Equal(t, 1, store.fetches["xgboost_Paracetamol.json"])
	assert.Equal(t, 1, store.fetches["lstm_Amoxicillin.json"])
}

func TestStoreRegistryParseFailureNotCached(t *testing.T) {
	store := &countingStore{payloads: map[string][]byte{
		"xgboost_Paracetamol.json": []byte(`not json`),
	}}
	registry := NewStoreRegistry(store)

	_, err := registry.Tabular(context.Background(), "Paracetamol")
	require.Error(t, err)

	_, err = registry.Tabular(context.Background(), "Paracetamol")
	require.Error(t, err)
	assert.Equal(t, 2, store.fetches["xgboost_Paracetamol.json"], "failures are retried, not cached")
}

func TestLocalStore(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "xgboost_Paracetamol.json"), []byte(`[]`), 0o644))

	store := NewLocalStore(dir)

	data, err := store.Fetch(context.Background(), "xgboost_Paracetamol.json")
	require.NoError(t, err)
	assert.Equal(t, []byte(`[]`), data)

	_, err = store.Fetch(context.Background(), "xgboost_Missing.json")
	assert.ErrorIs(t, err, ErrArtifactNotFound)
}
