// backend-go/internal/cache/prediction_cache.go
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/andresuchdata/medforecast/backend-go/internal/config"
	"github.com/andresuchdata/medforecast/backend-go/internal/domain"
	"github.com/redis/go-redis/v9"
)

const latestPredictionsKey = "predictions:latest"

// PredictionCache caches the latest-prediction-per-medicine listing the
// dashboard reads. It is invalidated after every batch run.
type PredictionCache interface {
	GetLatest(ctx context.Context) ([]domain.Prediction, bool, error)
	SetLatest(ctx context.Context, predictions []domain.Prediction) error
	InvalidateAll(ctx context.Context) error
}

type redisPredictionCache struct {
	client *redis.Client
	ttl    time.Duration
}

type noopPredictionCache struct{}

func NewPredictionCache(cfg config.CacheConfig) (PredictionCache, error) {
	if !cfg.Enabled {
		return &noopPredictionCache{}, nil
	}

	client, ttl, err := newRedisClient(cfg)
	if err != nil {
		return nil, err
	}

	return &redisPredictionCache{client: client, ttl: ttl}, nil
}

func NewNoopPredictionCache() PredictionCache {
	return &noopPredictionCache{}
}

func (c *redisPredictionCache) GetLatest(ctx context.Context) ([]domain.Prediction, bool, error) {
	payload, err := c.client.Get(ctx, latestPredictionsKey).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get failed: %w", err)
	}

	var predictions []domain.Prediction
	if err := json.Unmarshal(payload, &predictions); err != nil {
		return nil, false, fmt.Errorf("decode prediction cache: %w", err)
	}

	return predictions, true, nil
}

func (c *redisPredictionCache) SetLatest(ctx context.Context, predictions []domain.Prediction) error {
	payload, err := json.Marshal(predictions)
	if err != nil {
		return fmt.Errorf("encode prediction cache: %w", err)
	}

	if err := c.client.Set(ctx, latestPredictionsKey, payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (c *redisPredictionCache) InvalidateAll(ctx context.Context) error {
	return c.client.Del(ctx, latestPredictionsKey).Err()
}

func (n *noopPredictionCache) GetLatest(ctx context.Context) ([]domain.Prediction, bool, error) {
	return nil, false, nil
}

func (n *noopPredictionCache) SetLatest(ctx context.Context, predictions []domain.Prediction) error {
	return nil
}

func (n *noopPredictionCache) InvalidateAll(ctx context.Context) error {
	return nil
}
