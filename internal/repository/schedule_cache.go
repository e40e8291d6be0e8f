package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	appErrors "github.com/cineboard/cineboard-api/pkg/errors"
)

// ScheduleCacheRepository caches the materialized event collection in
// Redis. A nil client disables caching entirely.
type ScheduleCacheRepository struct {
	client *redis.Client
	logger *zap.Logger
}

// NewScheduleCacheRepository constructs a cache repository.
func NewScheduleCacheRepository(client *redis.Client, logger *zap.Logger) *ScheduleCacheRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScheduleCacheRepository{client: client, logger: logger}
}

// Get retrieves and unmarshals the cached value into the provided destination.
func (r *ScheduleCacheRepository) Get(ctx context.Context, key string, dest interface{}) error {
	if r.client == nil {
		return appErrors.ErrCacheMiss
	}

	raw, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return appErrors.ErrCacheMiss
		}
		return fmt.Errorf("redis get %s: %w", key, err)
	}

	if err := json.Unmarshal(raw, dest); err != nil {
		return fmt.Errorf("unmarshal cache value for %s: %w", key, err)
	}

	return nil
}

// Set marshals the provided value and stores it with the given TTL.
func (r *ScheduleCacheRepository) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if r.client == nil {
		return nil
	}

	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal cache value for %s: %w", key, err)
	}

	if err := r.client.Set(ctx, key, payload, ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}

	return nil
}

// InvalidatePrefix removes cached entries matching the provided prefix.
// Called after every regeneration or event save.
func (r *ScheduleCacheRepository) InvalidatePrefix(ctx context.Context, prefix string) error {
	if r.client == nil {
		return nil
	}

	iter := r.client.Scan(ctx, 0, prefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		if err := r.client.Del(ctx, key).Err(); err != nil {
			return fmt.Errorf("redis delete %s: %w", key, err)
		}
	}

	if err := iter.Err(); err != nil {
		return fmt.Errorf("redis scan prefix %s: %w", prefix, err)
	}
	return nil
}
