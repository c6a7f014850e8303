package providers

import (
	"pes/internal/structures"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type MetricsProviderInterface interface {
	IncRedemption(codeType string, result string)
	IncIntegrityMismatch()
	IncRestoreRejected()
	IncBackup()
	IncMigrationRun(kind string)
	IncCacheHits()
	IncCacheMisses()
	ObservePersistenceDuration(duration time.Duration)
	SetRedemptionLogSize(count int)
}

type MetricsProvider struct {
	redemptionsTotal    *prometheus.CounterVec
	integrityMismatches prometheus.Counter
	restoreRejections   prometheus.Counter
	backupsTotal        prometheus.Counter
	migrationRuns       *prometheus.CounterVec
	cacheHits           prometheus.Counter
	cacheMisses         prometheus.Counter
	persistenceDuration prometheus.Histogram
	redemptionLogSize   prometheus.Gauge
}

func (m *MetricsProvider) IncRedemption(codeType string, result string) {
	m.redemptionsTotal.WithLabelValues(codeType, result).Inc()
}

func (m *MetricsProvider) IncIntegrityMismatch() {
	m.integrityMismatches.Inc()
}

func (m *MetricsProvider) IncRestoreRejected() {
	m.restoreRejections.Inc()
}

func (m *MetricsProvider) IncBackup() {
	m.backupsTotal.Inc()
}

func (m *MetricsProvider) IncMigrationRun(kind string) {
	m.migrationRuns.WithLabelValues(kind).Inc()
}

func (m *MetricsProvider) IncCacheHits() {
	m.cacheHits.Inc()
}

func (m *MetricsProvider) IncCacheMisses() {
	m.cacheMisses.Inc()
}

func (m *MetricsProvider) ObservePersistenceDuration(duration time.Duration) {
	m.persistenceDuration.Observe(duration.Seconds())
}

func (m *MetricsProvider) SetRedemptionLogSize(count int) {
	m.redemptionLogSize.Set(float64(count))
}

func NewMetricsProvider(conf *structures.Config) MetricsProviderInterface {
	if !conf.Metrics.Enabled {
		return &noopMetrics{}
	}

	m := &MetricsProvider{
		redemptionsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "pes_redemptions_total",
			Help: "Total number of promo code redemption attempts",
		}, []string{"type", "result"}),

		integrityMismatches: promauto.NewCounter(prometheus.CounterOpts{
			Name: "pes_integrity_mismatch_total",
			Help: "Total number of entitlement integrity hash mismatches",
		}),

		restoreRejections: promauto.NewCounter(prometheus.CounterOpts{
			Name: "pes_restore_rejected_total",
			Help: "Total number of backup restores rejected by install identity mismatch",
		}),

		backupsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "pes_backups_total",
			Help: "Total number of ledger backup snapshots written",
		}),

		migrationRuns: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "pes_migration_runs_total",
			Help: "Total number of migration executions by kind",
		}, []string{"kind"}),

		cacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "pes_cache_hits_total",
			Help: "Total number of cache hits",
		}),

		cacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "pes_cache_misses_total",
			Help: "Total number of cache misses",
		}),

		persistenceDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "pes_persistence_duration_seconds",
			Help:    "Duration of persistence operations in seconds",
			Buckets: prometheus.DefBuckets,
		}),

		redemptionLogSize: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "pes_redemption_log_size",
			Help: "Current number of records in the redemption history log",
		}),
	}

	return m
}

// noopMetrics is a no-op implementation for when metrics are disabled.
type noopMetrics struct{}

func (n *noopMetrics) IncRedemption(_ string, _ string)           {}
func (n *noopMetrics) IncIntegrityMismatch()                      {}
func (n *noopMetrics) IncRestoreRejected()                        {}
func (n *noopMetrics) IncBackup()                                 {}
func (n *noopMetrics) IncMigrationRun(_ string)                   {}
func (n *noopMetrics) IncCacheHits()                              {}
func (n *noopMetrics) IncCacheMisses()                            {}
func (n *noopMetrics) ObservePersistenceDuration(_ time.Duration) {}
func (n *noopMetrics) SetRedemptionLogSize(_ int)                 {}
