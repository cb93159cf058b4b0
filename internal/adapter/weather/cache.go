package weather

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/couchcryptid/parcel-tracking/internal/domain"
	"github.com/couchcryptid/parcel-tracking/internal/observability"
)

// Source produces current weather for a city.
type Source interface {
	CurrentByCity(ctx context.Context, city string) (domain.Weather, error)
}

// Cache is the backend a CachedClient stores results in. Get returns
// found=false for a missing or expired entry.
type Cache interface {
	Get(ctx context.Context, key string) (domain.Weather, bool, error)
	Set(ctx context.Context, key string, w domain.Weather, ttl time.Duration) error
}

// CachedClient wraps a Source with a shared TTL cache. Only successful
// lookups are cached; failures stay retryable.
type CachedClient struct {
	inner   Source
	cache   Cache
	ttl     time.Duration
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewCachedClient creates a cache decorator around a weather source.
func NewCachedClient(inner Source, cache Cache, ttl time.Duration, logger *slog.Logger, metrics *observability.Metrics) *CachedClient {
	return &CachedClient{inner: inner, cache: cache, ttl: ttl, logger: logger, metrics: metrics}
}

func (c *CachedClient) CurrentByCity(ctx context.Context, city string) (domain.Weather, error) {
	key := cacheKey(city)

	w, found, err := c.cache.Get(ctx, key)
	if err != nil {
		// A broken cache must not take weather down with it.
		c.logger.Warn("weather cache read failed", "city", city, "error", err)
	} else if found {
		c.metrics.WeatherCache.WithLabelValues("hit").Inc()
		return w, nil
	}
	c.metrics.WeatherCache.WithLabelValues("miss").Inc()

	w, err = c.inner.CurrentByCity(ctx, city)
	if err != nil {
		return domain.Weather{}, err
	}

	if err := c.cache.Set(ctx, key, w, c.ttl); err != nil {
		c.logger.Warn("weather cache write failed", "city", city, "error", err)
	}
	return w, nil
}

func cacheKey(city string) string {
	return "weather_" + strings.ToLower(city)
}
