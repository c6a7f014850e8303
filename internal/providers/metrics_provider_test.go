package providers

import (
	"pes/internal/structures"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNoopMetrics_WhenDisabled(t *testing.T) {
	conf := &structures.Config{
		Metrics: structures.MetricsConfig{Enabled: false},
	}
	m := NewMetricsProvider(conf)
	assert.IsType(t, &noopMetrics{}, m)

	// All methods are safe no-ops
	m.IncRedemption("lifetime", "redeemed")
	m.IncIntegrityMismatch()
	m.IncRestoreRejected()
	m.IncBackup()
	m.IncMigrationRun("ledger")
	m.IncCacheHits()
	m.IncCacheMisses()
	m.ObservePersistenceDuration(time.Millisecond)
	m.SetRedemptionLogSize(10)
}

// Real provider is registered against the default prometheus registry, so it
// is constructed exactly once across the package tests.
func TestMetricsProvider_WhenEnabled(t *testing.T) {
	conf := &structures.Config{
		Metrics: structures.MetricsConfig{Enabled: true},
	}
	m := NewMetricsProvider(conf)
	assert.IsType(t, &MetricsProvider{}, m)

	m.IncRedemption("monthly", "already_redeemed")
	m.IncIntegrityMismatch()
	m.IncBackup()
	m.IncMigrationRun("directories")
	m.SetRedemptionLogSize(3)
}

type countingMetrics struct {
	hits, misses int
}

func (c *countingMetrics) IncRedemption(_ string, _ string)           {}
func (c *countingMetrics) IncIntegrityMismatch()                      {}
func (c *countingMetrics) IncRestoreRejected()                        {}
func (c *countingMetrics) IncBackup()                                 {}
func (c *countingMetrics) IncMigrationRun(_ string)                   {}
func (c *countingMetrics) IncCacheHits()                              { c.hits++ }
func (c *countingMetrics) IncCacheMisses()                            { c.misses++ }
func (c *countingMetrics) ObservePersistenceDuration(_ time.Duration) {}
func (c *countingMetrics) SetRedemptionLogSize(_ int)                 {}

func TestInstrumentedCache_CountsHitsAndMisses(t *testing.T) {
	logger := &cacheTestLogger{}
	conf := cacheConfig(true, 1, 5*time.Second)
	metrics := &countingMetrics{}

	c := NewInstrumentedCacheProvider(conf, logger, metrics)
	c.Set("k", []byte("v"))

	_, ok := c.Get("k")
	assert.True(t, ok)
	_, ok = c.Get("missing")
	assert.False(t, ok)

	assert.Equal(t, 1, metrics.hits)
	assert.Equal(t, 1, metrics.misses)
}

func TestInstrumentedCache_DisabledSkipsWrapping(t *testing.T) {
	logger := &cacheTestLogger{}
	conf := cacheConfig(false, 1, 5*time.Second)
	metrics := &countingMetrics{}

	c := NewInstrumentedCacheProvider(conf, logger, metrics)
	_, ok := c.Get("anything")
	assert.False(t, ok)
	assert.Zero(t, metrics.misses)
}
