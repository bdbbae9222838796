package providers

import (
	"testing"
	"time"

	"calmd/internal/structures"

	"github.com/stretchr/testify/assert"
)

func cacheConfig(enabled bool, size int, ttl time.Duration) *structures.Config {
	return &structures.Config{
		Cache: structures.CacheConfig{
			Enabled: enabled,
			Size:    size,
			TTL:     ttl,
		},
	}
}

func TestCacheProvider_DisabledReturnsNoop(t *testing.T) {
	c := NewCacheProvider(cacheConfig(false, 10, 5*time.Second), &testLogger{})
	_, ok := c.Get("any")
	assert.False(t, ok)
	assert.IsType(t, &noopCache{}, c)
}

func TestCacheProvider_ZeroSizeReturnsNoop(t *testing.T) {
	c := NewCacheProvider(cacheConfig(true, 0, 5*time.Second), &testLogger{})
	assert.IsType(t, &noopCache{}, c)
}

func TestCacheProvider_EnabledReturnsCacheProvider(t *testing.T) {
	c := NewCacheProvider(cacheConfig(true, 1, 5*time.Second), &testLogger{})
	assert.IsType(t, &CacheProvider{}, c)
}

func TestCacheProvider_SetOverwrites(t *testing.T) {
	c := NewCacheProvider(cacheConfig(true, 1, 5*time.Second), &testLogger{})

	c.Set("patterns", []byte("v1"))
	c.Set("patterns", []byte("v2"))
	val, ok := c.Get("patterns")
	assert.True(t, ok)
	assert.Equal(t, []byte("v2"), val)

	val, ok = c.Get("quiz")
	assert.False(t, ok)
	assert.Nil(t, val)
}

func TestNoopCache_AlwaysMiss(t *testing.T) {
	c := &noopCache{}
	c.Set("key1", []byte("value1"))

	val, ok := c.Get("key1")
	assert.False(t, ok)
	assert.Nil(t, val)
}

func TestCacheProvider_TTLExpiry(t *testing.T) {
	// sub-second TTLs round up to one second
	c := NewCacheProvider(cacheConfig(true, 1, 100*time.Millisecond), &testLogger{})

	c.Set("key1", []byte("value1"))
	_, ok := c.Get("key1")
	assert.True(t, ok)

	time.Sleep(2100 * time.Millisecond)

	_, ok = c.Get("key1")
	assert.False(t, ok)
}

type cacheMetricsTestInner struct {
	data map[string][]byte
}

func (c *cacheMetricsTestInner) Get(key string) ([]byte, bool) {
	v, ok := c.data[key]
	return v, ok
}
func (c *cacheMetricsTestInner) Set(key string, value []byte) { c.data[key] = value }

func TestMetricsCacheProvider_CountsHitsAndMisses(t *testing.T) {
	inner := &cacheMetricsTestInner{data: map[string][]byte{"a": []byte("1")}}
	metrics := &testMetrics{}
	cache := &MetricsCacheProvider{inner: inner, metrics: metrics}

	cache.Get("a")
	cache.Get("b")
	cache.Get("a")
	cache.Set("b", []byte("2"))
	cache.Get("b")
	cache.Get("c")

	assert.Equal(t, 3, metrics.hits)
	assert.Equal(t, 2, metrics.misses)
}

func TestNewInstrumentedCacheProvider(t *testing.T) {
	disabled := NewInstrumentedCacheProvider(cacheConfig(false, 1, time.Second), &testLogger{}, &testMetrics{})
	assert.IsType(t, &noopCache{}, disabled)

	enabled := NewInstrumentedCacheProvider(cacheConfig(true, 1, time.Second), &testLogger{}, &testMetrics{})
	assert.IsType(t, &MetricsCacheProvider{}, enabled)
}
