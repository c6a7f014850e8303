package store

import (
	"path/filepath"
	"pes/internal/providers"
	"pes/internal/structures"
	"pes/internal/testutil"
	"testing"
	"time"
)

func testConfig(t *testing.T) *structures.Config {
	t.Helper()
	return &structures.Config{
		Billing: structures.BillingConfig{
			EntitlementID:     "premium",
			LifetimeProductID: "com.app.lifetime",
		},
		Ledger: structures.LedgerConfig{
			MaxRecords:    1000,
			RetentionDays: 365,
			BackupMaxAge:  24 * time.Hour,
			CheckInterval: time.Hour,
		},
		Artifacts: structures.ArtifactsConfig{
			BaseDir: t.TempDir(),
		},
		Device: structures.DeviceConfig{
			Fingerprint: "fp-test",
		},
		Persistence: structures.Persistence{
			FilePath:     filepath.Join(t.TempDir(), "pes.dat"),
			SaveInterval: 30 * time.Second,
		},
	}
}

func newTestKVS(t *testing.T, conf *structures.Config) *KVStore {
	t.Helper()
	logger := &testutil.MockLogger{}
	cache := providers.NewCacheProvider(conf, logger)
	return NewKVStore(conf, &testutil.MockCompressor{}, cache, logger)
}

// testStore bundles the fully wired component graph over one KVS.
type testStore struct {
	conf     *structures.Config
	kvs      *KVStore
	identity *IdentityManager
	verifier *IntegrityVerifier
	resolver *EntitlementResolver
	guard    *BackupGuard
	ledger   *PromoLedger
	logger   *testutil.MockLogger
	metrics  *testutil.MockMetrics
}

func newTestStore(t *testing.T) *testStore {
	t.Helper()
	conf := testConfig(t)
	logger := &testutil.MockLogger{}
	metrics := &testutil.MockMetrics{}
	cache := providers.NewCacheProvider(conf, logger)
	kvs := NewKVStore(conf, &testutil.MockCompressor{}, cache, logger)
	identity := NewIdentityManager(kvs, logger)
	verifier := NewIntegrityVerifier(kvs, logger, metrics)
	resolver := NewEntitlementResolver(conf, kvs, verifier, logger)
	guard := NewBackupGuard(conf, kvs, identity, logger, metrics)
	ledger := NewPromoLedger(conf, kvs, identity, guard, logger, metrics)

	return &testStore{
		conf:     conf,
		kvs:      kvs,
		identity: identity,
		verifier: verifier,
		resolver: resolver,
		guard:    guard,
		ledger:   ledger,
		logger:   logger,
		metrics:  metrics,
	}
}
