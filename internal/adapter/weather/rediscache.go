package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/couchcryptid/parcel-tracking/internal/domain"
)

// RedisCache stores weather results in redis as JSON, shared across all
// server replicas.
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache wraps an existing redis client.
func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{client: client}
}

func (r *RedisCache) Get(ctx context.Context, key string) (domain.Weather, bool, error) {
	raw, err := r.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return domain.Weather{}, false, nil
	}
	if err != nil {
		return domain.Weather{}, false, err
	}
	var w domain.Weather
	if err := json.Unmarshal([]byte(raw), &w); err != nil {
		return domain.Weather{}, false, fmt.Errorf("decode cached weather: %w", err)
	}
	return w, true, nil
}

func (r *RedisCache) Set(ctx context.Context, key string, w domain.Weather, ttl time.Duration) error {
	raw, err := json.Marshal(w)
	if err != nil {
		return fmt.Errorf("encode weather: %w", err)
	}
	return r.client.Set(ctx, key, raw, ttl).Err()
}
