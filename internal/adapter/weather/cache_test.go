package weather

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/parcel-tracking/internal/domain"
)

// countingSource counts upstream calls and returns a fixed result.
type countingSource struct {
	calls  int
	result domain.Weather
	err    error
}

func (s *countingSource) CurrentByCity(_ context.Context, _ string) (domain.Weather, error) {
	s.calls++
	if s.err != nil {
		return domain.Weather{}, s.err
	}
	return s.result, nil
}

// mapCache is an in-memory Cache recording the TTL of the last write.
type mapCache struct {
	values  map[string]domain.Weather
	lastTTL time.Duration
	getErr  error
}

func newMapCache() *mapCache {
	return &mapCache{values: make(map[string]domain.Weather)}
}

func (m *mapCache) Get(_ context.Context, key string) (domain.Weather, bool, error) {
	if m.getErr != nil {
		return domain.Weather{}, false, m.getErr
	}
	w, found := m.values[key]
	return w, found, nil
}

func (m *mapCache) Set(_ context.Context, key string, w domain.Weather, ttl time.Duration) error {
	m.values[key] = w
	m.lastTTL = ttl
	return nil
}

func cachedResult() domain.Weather {
	temp := 21.0
	return domain.Weather{Temp: &temp, Description: "clear sky"}
}

func TestCachedClient_MissThenHit(t *testing.T) {
	source := &countingSource{result: cachedResult()}
	cache := newMapCache()
	c := NewCachedClient(source, cache, 2*time.Hour, testLogger(), testMetrics())

	first, err := c.CurrentByCity(context.Background(), "Paris")
	require.NoError(t, err)
	assert.Equal(t, 1, source.calls)
	assert.Equal(t, 2*time.Hour, cache.lastTTL)

	second, err := c.CurrentByCity(context.Background(), "Paris")
	require.NoError(t, err)
	assert.Equal(t, 1, source.calls, "second lookup must come from cache")
	assert.Equal(t, first, second)
}

func TestCachedClient_KeyIsCaseInsensitive(t *testing.T) {
	source := &countingSource{result: cachedResult()}
	cache := newMapCache()
	c := NewCachedClient(source, cache, time.Hour, testLogger(), testMetrics())

	_, err := c.CurrentByCity(context.Background(), "Paris")
	require.NoError(t, err)
	_, err = c.CurrentByCity(context.Background(), "PARIS")
	require.NoError(t, err)

	assert.Equal(t, 1, source.calls)
	assert.Contains(t, cache.values, "weather_paris")
}

func TestCachedClient_FailuresAreNotCached(t *testing.T) {
	source := &countingSource{err: assert.AnError}
	cache := newMapCache()
	c := NewCachedClient(source, cache, time.Hour, testLogger(), testMetrics())

	_, err := c.CurrentByCity(context.Background(), "Paris")
	require.Error(t, err)
	assert.Empty(t, cache.values)

	source.err = nil
	source.result = cachedResult()
	_, err = c.CurrentByCity(context.Background(), "Paris")
	require.NoError(t, err)
	assert.Equal(t, 2, source.calls, "failed lookup must be retried")
}

func TestCachedClient_BrokenCacheFallsThrough(t *testing.T) {
	source := &countingSource{result: cachedResult()}
	cache := newMapCache()
	cache.getErr = assert.AnError
	c := NewCachedClient(source, cache, time.Hour, testLogger(), testMetrics())

	result, err := c.CurrentByCity(context.Background(), "Paris")
	require.NoError(t, err)
	assert.Equal(t, "clear sky", result.Description)
	assert.Equal(t, 1, source.calls)
}
