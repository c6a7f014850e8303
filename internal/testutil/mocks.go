package testutil

import (
	"context"
	"pes/internal/models"
	"pes/internal/providers"
	"sync"
	"time"
)

// MockLogger implements providers.Logger and records calls.
type MockLogger struct {
	mu   sync.Mutex
	Logs []LogEntry
}

type LogEntry struct {
	Level  string
	Type   providers.TypeEnum
	Format string
	Args   []interface{}
}

func (m *MockLogger) record(level string, t providers.TypeEnum, format string, args ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Logs = append(m.Logs, LogEntry{Level: level, Type: t, Format: format, Args: args})
}

func (m *MockLogger) Errorf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("error", t, format, args...)
}
func (m *MockLogger) Warnf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("warn", t, format, args...)
}
func (m *MockLogger) Debugf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("debug", t, format, args...)
}
func (m *MockLogger) Infof(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("info", t, format, args...)
}
func (m *MockLogger) Fatalf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("fatal", t, format, args...)
}
func (m *MockLogger) Close() {}

// CountByLevel returns how many records of the given level were logged.
func (m *MockLogger) CountByLevel(level string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, e := range m.Logs {
		if e.Level == level {
			n++
		}
	}
	return n
}

// MockCompressor is an identity compressor: bytes pass through unchanged, so
// test fixtures can be written as plain JSON.
type MockCompressor struct{}

func (m *MockCompressor) Compress(val []byte) ([]byte, error)   { return val, nil }
func (m *MockCompressor) Decompress(val []byte) ([]byte, error) { return val, nil }
func (m *MockCompressor) Close()                                {}

// MockMetrics implements providers.MetricsProviderInterface and counts calls.
type MockMetrics struct {
	mu                  sync.Mutex
	Redemptions         map[string]int // "type/result"
	IntegrityMismatches int
	RestoreRejections   int
	Backups             int
	MigrationRuns       map[string]int
	CacheHits           int
	CacheMisses         int
	LogSize             int
}

func (m *MockMetrics) IncRedemption(codeType string, result string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Redemptions == nil {
		m.Redemptions = make(map[string]int)
	}
	m.Redemptions[codeType+"/"+result]++
}

func (m *MockMetrics) IncIntegrityMismatch() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.IntegrityMismatches++
}

func (m *MockMetrics) IncRestoreRejected() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RestoreRejections++
}

func (m *MockMetrics) IncBackup() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Backups++
}

func (m *MockMetrics) IncMigrationRun(kind string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.MigrationRuns == nil {
		m.MigrationRuns = make(map[string]int)
	}
	m.MigrationRuns[kind]++
}

func (m *MockMetrics) IncCacheHits() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CacheHits++
}

func (m *MockMetrics) IncCacheMisses() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CacheMisses++
}

func (m *MockMetrics) ObservePersistenceDuration(_ time.Duration) {}

func (m *MockMetrics) SetRedemptionLogSize(count int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LogSize = count
}

// MockBillingProvider returns a canned entitlement snapshot.
type MockBillingProvider struct {
	Snapshots []models.ProviderEntitlement
	Err       error
	Calls     int
}

func (m *MockBillingProvider) Entitlements(_ context.Context) ([]models.ProviderEntitlement, error) {
	m.Calls++
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Snapshots, nil
}

// MockPaywallService returns a canned entitlement answer.
type MockPaywallService struct {
	Entitled bool
	Err      error
	Calls    int
	LastID   string
}

func (m *MockPaywallService) IsEntitled(_ context.Context, installID string) (bool, error) {
	m.Calls++
	m.LastID = installID
	return m.Entitled, m.Err
}
